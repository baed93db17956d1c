package query

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"banks-etl/lib/sink"
	"banks-etl/lib/testutil"

	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	res, cleanup := testutil.SetupService(t, testutil.ServiceParams{Name: "query"})
	defer cleanup()

	ctx := context.Background()
	err := sink.ReplaceTable(ctx, res.DB, "Largest_banks", testutil.BankTable(12))
	if err != nil {
		t.Fatal(err)
	}

	result, err := Run(ctx, res.DB, Default)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, []string{"Name"}, result.Columns)
	require.Equal(t, [][]any{
		{"Bank 1"},
		{"Bank 2"},
		{"Bank 3"},
		{"Bank 4"},
		{"Bank 5"},
	}, result.Rows)

	result, err = Run(ctx, res.DB, "SELECT AVG(MC_USD_Billion) AS avg FROM Largest_banks")
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, result.Rows, 1)
	require.InDelta(t, 435.25, result.Rows[0][0], 0.0001)

	_, err = Run(ctx, res.DB, "SELECT * FROM missing_table")
	require.Error(t, err)
}

func TestPrint(t *testing.T) {
	var out bytes.Buffer
	err := Print(&out, Default, Result{
		Columns: []string{"Name"},
		Rows:    [][]any{{"JPMorgan Chase"}, {"Bank of America"}, {nil}},
	})
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(out.String(), "\n")
	require.Equal(t, Default, lines[0])
	require.Contains(t, out.String(), "Name")
	require.Contains(t, out.String(), "JPMorgan Chase")
	require.Contains(t, out.String(), "Bank of America")
	require.Contains(t, out.String(), "NULL")
}
