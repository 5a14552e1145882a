package main

import (
	"context"

	"edarchive/cmd/edarchive-cli/commands"
	"edarchive/lib/telemetry"
)

func main() {
	telemetry.InitSlog(true)
	telemetry.SetupFromEnv(context.Background(), "edarchive-cli")
	commands.ExecuteContext(context.Background())
}
