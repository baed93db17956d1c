package commands

import (
	"banks-etl/lib/query"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(queryCmd)
}

var queryCmd = &cobra.Command{
	Use:   "query [statement]",
	Short: "Runs a read query against the configured database, the configured query is used if none is given.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		statement := cfg.Query
		if len(args) == 1 {
			statement = args[0]
		}

		db, err := cfg.Database.OpenDB()
		if err != nil {
			return err
		}
		defer db.Close()

		result, err := query.Run(cmd.Context(), db, statement)
		if err != nil {
			return err
		}
		return query.Print(cmd.OutOrStdout(), statement, result)
	},
}
