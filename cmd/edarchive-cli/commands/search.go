package commands

import (
	"fmt"
	"os"

	"edarchive/lib/serviceutil"
	"edarchive/lib/sqliteutil"
	"edarchive/services/archive"
	archivedb "edarchive/services/archive/db"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var searchLimit *int

func init() {
	searchLimit = searchCmd.Flags().Int("limit", 10, "Maximum number of results.")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Fuzzy searches archived thread titles.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cfg := readConfig()

		database, err := sqliteutil.OpenDB(archivedb.Schema, cfg.Database)
		if err != nil {
			serviceutil.Fatal("failed to open database", err)
		}
		defer database.Close()

		results, err := archive.SearchThreads(ctx, database, args[0], *searchLimit)
		if err != nil {
			serviceutil.Fatal("search failed", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"score", "id", "title"})
		for _, r := range results {
			t.AppendRow(table.Row{
				fmt.Sprintf("%.2f", r.Similarity),
				r.Thread.ID,
				r.Thread.Title,
			})
		}
		t.Render()
	},
}
