package commands

import (
	"os"
	"time"

	"edarchive/lib/serviceutil"
	"edarchive/lib/sqliteutil"
	archivedb "edarchive/services/archive/db"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var threadsLimit *int64

func init() {
	threadsLimit = threadsCmd.Flags().Int64("limit", 25, "Maximum number of threads to list.")
	rootCmd.AddCommand(threadsCmd)
}

var threadsCmd = &cobra.Command{
	Use:   "threads [--limit <n>]",
	Short: "Lists the most recently created threads in the archive.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cfg := readConfig()

		database, err := sqliteutil.OpenDB(archivedb.Schema, cfg.Database)
		if err != nil {
			serviceutil.Fatal("failed to open database", err)
		}
		defer database.Close()

		threads, err := archivedb.New(database).ListThreads(ctx, *threadsLimit)
		if err != nil {
			serviceutil.Fatal("failed to list threads", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"id", "created", "category", "answered", "title"})
		for _, thread := range threads {
			answered := ""
			if thread.IsStaffAnswered {
				answered = "staff"
			} else if thread.IsAnswered {
				answered = "yes"
			}
			t.AppendRow(table.Row{
				thread.ID,
				time.Unix(thread.CreatedAt, 0).Format(time.DateOnly),
				thread.Category,
				answered,
				thread.Title,
			})
		}
		t.Render()
	},
}
