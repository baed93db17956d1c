package testutil

import (
	"database/sql"
	"fmt"
	"math"
	"path/filepath"
	"testing"

	configsqlite "banks-etl/lib/configutil/sqlite"
	"banks-etl/lib/marketcap"
	"banks-etl/lib/telemetry"
)

type ServiceParams struct {
	Name string
	// if unspecified, a file named <Name>.db is created in a temporary
	// directory
	DbPath string
}

type ServiceResult struct {
	DB     *sql.DB
	DbPath string
}

// SetupService sets up telemetry and opens a sqlite database for a test,
// the returned function closes both.
func SetupService(t testing.TB, params ServiceParams) (ServiceResult, func()) {
	cleanup := telemetry.SetupForTesting(t, fmt.Sprintf("test:%s", params.Name))

	dbpath := params.DbPath
	if dbpath == "" {
		dbpath = filepath.Join(t.TempDir(), fmt.Sprintf("%s.db", filepath.Base(params.Name)))
	}
	db, err := configsqlite.Struct{File: dbpath}.OpenDB()
	if err != nil {
		t.Fatal(err)
	}

	return ServiceResult{DB: db, DbPath: dbpath}, func() {
		err := db.Close()
		if err != nil {
			t.Error(err)
		}
		cleanup()
	}
}

// BankTable creates a table of n converted records named "Bank 1" to
// "Bank n", with decreasing market caps.
func BankTable(n int) marketcap.Table {
	table := marketcap.NewTable(marketcap.DefaultColumns)
	for i := 1; i <= n; i++ {
		usd := float64(500-i*10) + 0.25
		table.Records = append(table.Records, marketcap.Record{
			Name: fmt.Sprintf("Bank %d", i),
			MarketCap: map[string]float64{
				"USD": usd,
				"GBP": round2(usd * 0.8),
				"EUR": round2(usd * 0.93),
				"INR": round2(usd * 82.95),
			},
		})
	}
	return table
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
