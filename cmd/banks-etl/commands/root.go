package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"banks-etl/lib/configutil"
	"banks-etl/lib/etl"
	"banks-etl/lib/progresslog"
	"banks-etl/lib/scrapers/banks"
	"banks-etl/lib/telemetry"
	"banks-etl/lib/timezone"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "banks-etl.json5", "The configuration file, missing fields fall back to defaults.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging.")
}

func loadConfig() (Config, error) {
	cfg, err := configutil.ReadConfigWithDefaults(configPath, defaultConfig)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}
	return cfg, nil
}

var rootCmd = &cobra.Command{
	Use:   "banks-etl",
	Short: "banks-etl extracts the largest banks by market cap, converts them into other currencies and loads them into a CSV file and a database.",
	Args:  cobra.NoArgs,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			telemetry.InitSlog(true)
		}
	},
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		loc, err := timezone.Load(cfg.LogTimezone)
		if err != nil {
			return err
		}

		stats, err := etl.Run(cmd.Context(), etl.Options{
			SourceUrl: cfg.SourceUrl,
			RatesFile: cfg.RatesFile,
			CsvPath:   cfg.CsvPath,
			TableName: cfg.TableName,
			Query:     cfg.Query,
			Database:  cfg.Database,
			Log:       progresslog.New(cfg.LogFile, timezone.Clock(loc)),
			Extractor: banks.NewClient(banks.ClientOptions{
				CloudflareBypass: cfg.Scraper.CloudflareBypass,
				UserAgent:        cfg.Scraper.UserAgent,
				Timeout:          cfg.Scraper.Timeout(),
				DumpDir:          cfg.Scraper.DumpDir,
			}),
			Stdout: cmd.OutOrStdout(),
		})
		if err != nil {
			return err
		}
		slog.Debug("run stats", "stats", stats)
		return nil
	},
}

func ExecuteContext(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	return err
}
