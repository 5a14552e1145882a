package commands

import (
	"log/slog"

	"edarchive/lib/restyutil"
	"edarchive/lib/scrapers/edstem"
	"edarchive/lib/serviceutil"
	"edarchive/lib/sqliteutil"
	"edarchive/services/archive"
	archivedb "edarchive/services/archive/db"

	"github.com/spf13/cobra"
)

var scrapeDb *string
var scrapeDebugHttp *string

func init() {
	scrapeDb = scrapeCmd.Flags().String("db", "", "Override the database path from config.json5.")
	scrapeDebugHttp = scrapeCmd.Flags().String("debug-http", "", "Dump http exchanges to the given directory.")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--db <path/to/archive.db>]",
	Short: "Runs a single scrape-and-persist pass over the configured board.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cfg := readConfig()

		creds, err := archive.CredentialsFromEnv()
		if err != nil {
			serviceutil.Fatal("missing credentials", err)
		}

		if *scrapeDebugHttp != "" {
			edstem.SetRestyInstrumentOutput(restyutil.NewFilesystemOutput(*scrapeDebugHttp))
		}

		client, err := edstem.NewClient(ctx, edstem.ClientOptions{BaseUrl: cfg.BaseUrl})
		if err != nil {
			serviceutil.Fatal("failed to initialize board client", err)
		}

		dbpath := cfg.Database
		if *scrapeDb != "" {
			dbpath = *scrapeDb
		}
		database, err := sqliteutil.OpenDB(archivedb.Schema, dbpath)
		if err != nil {
			serviceutil.Fatal("failed to open database", err)
		}
		defer database.Close()

		scraper := archive.NewScraper(client, creds, cfg.BoardId, database)
		report, err := scraper.Run(ctx)
		if err != nil {
			serviceutil.Fatal("scrape run failed", err)
		}

		slog.Info(
			"scrape finished",
			"run_id", report.RunId,
			"ok", report.ThreadsOk,
			"failed", report.ThreadsFailed,
			"seconds", report.Elapsed.Seconds(),
		)
	},
}
