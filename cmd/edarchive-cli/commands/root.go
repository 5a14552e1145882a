package commands

import (
	"context"
	"fmt"
	"os"

	"edarchive/lib/configutil"
	"edarchive/lib/serviceutil"
	"edarchive/services/archive"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "edarchive-cli",
	Short: "edarchive-cli scrapes a discussion board and queries the local archive.",
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func readConfig() archive.Config {
	cfg, err := configutil.ReadConfig[archive.Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	err = cfg.Validate()
	if err != nil {
		serviceutil.Fatal("invalid config", err)
	}
	return cfg
}
