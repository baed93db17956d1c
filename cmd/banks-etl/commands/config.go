package commands

import (
	"time"

	configsqlite "banks-etl/lib/configutil/sqlite"
	"banks-etl/lib/query"
)

type ScraperConfig struct {
	CloudflareBypass bool   `json:"cloudflare_bypass"`
	UserAgent        string `json:"user_agent"`
	TimeoutSeconds   int    `json:"timeout_seconds"`
	DumpDir          string `json:"dump_dir"`
}

func (c ScraperConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type Config struct {
	SourceUrl string              `json:"source_url"`
	RatesFile string              `json:"rates_file"`
	CsvPath   string              `json:"csv_path"`
	Database  configsqlite.Struct `json:"database"`
	TableName string              `json:"table_name"`
	LogFile   string              `json:"log_file"`
	// IANA name, empty means local time.
	LogTimezone string        `json:"log_timezone"`
	Query       string        `json:"query"`
	Scraper     ScraperConfig `json:"scraper"`
}

var defaultConfig = Config{
	SourceUrl: "https://web.archive.org/web/20230908091635%20/https://en.wikipedia.org/wiki/List_of_largest_banks",
	RatesFile: "exchange_rate.csv",
	CsvPath:   "./Largest_banks_data.csv",
	Database:  configsqlite.Struct{File: "Banks.db"},
	TableName: "Largest_banks",
	LogFile:   "./code_log.txt",
	Query:     query.Default,
}
