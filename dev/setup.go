package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	devenv "banks-etl/dev/env"
	"banks-etl/lib/configutil"
	configsqlite "banks-etl/lib/configutil/sqlite"
	"banks-etl/lib/marketcap"
	"banks-etl/lib/sink"
)

const (
	configName = "banks-etl.json5"
	devDbPath  = "<dev_state>/Banks.db"
	devLogPath = "<dev_state>/code_log.txt"
	devCsvPath = "<dev_state>/Largest_banks_data.csv"
)

// CreateDatabase creates the dev database with an empty Largest_banks
// table, so `banks-etl query` works before the first run.
func CreateDatabase() error {
	dbpath, err := devenv.ResolvePath(devDbPath)
	if err != nil {
		return err
	}
	_, err = os.Stat(dbpath)
	if err == nil {
		fmt.Println("database already created at", dbpath)
		return nil
	}

	fmt.Println("creating database at", dbpath)
	db, err := configsqlite.Struct{File: dbpath}.OpenDB()
	if err != nil {
		return err
	}
	defer db.Close()

	return sink.ReplaceTable(context.Background(), db, "Largest_banks", marketcap.NewTable(marketcap.DefaultColumns))
}

// WriteLocalConfig points the artifacts of local runs into dev/.state by
// writing a local override next to the checked in config.
func WriteLocalConfig(overwrite bool) error {
	localPath := configutil.LocalPath(configName)
	_, err := os.Stat(localPath)
	if err == nil && !overwrite {
		slog.Info("local config already exists", "path", localPath)
		return nil
	}

	paths := map[string]string{}
	for key, path := range map[string]string{
		"db":  devDbPath,
		"log": devLogPath,
		"csv": devCsvPath,
	} {
		resolved, err := devenv.ResolvePath(path)
		if err != nil {
			return err
		}
		paths[key] = resolved
	}

	contents := fmt.Sprintf(`{
  csv_path: %q,
  log_file: %q,
  database: {
    file: %q,
  },
}
`, paths["csv"], paths["log"], paths["db"])

	slog.Info("writing local config", "path", localPath)
	return os.WriteFile(localPath, []byte(contents), 0644)
}
