package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"edarchive/lib/configutil"
	"edarchive/lib/notify"
	"edarchive/lib/scrapers/edstem"
	"edarchive/lib/serviceutil"
	"edarchive/lib/sqliteutil"
	"edarchive/lib/telemetry"
	"edarchive/services/archive"
	archivedb "edarchive/services/archive/db"

	"github.com/robfig/cron/v3"
)

// matches the external trigger cadence of the original deployment
const scheduleSpec = "0 */2 * * *"

func runOnce(ctx context.Context, scraper archive.Scraper, mailer notify.Mailer, cfg archive.Config) {
	ctx, cancel := context.WithTimeout(ctx, time.Hour)
	defer cancel()

	report, err := scraper.Run(ctx)
	if err == nil {
		return
	}
	slog.Error("scrape run failed", "err", err)

	if !cfg.Smtp.Enabled() || len(cfg.NotifyEmails) == 0 {
		return
	}
	body := fmt.Sprintf(
		`A scheduled scrape of board %d failed.

error: %s
threads archived before failure: %d
threads skipped: %d`,
		cfg.BoardId, err.Error(), report.ThreadsOk, report.ThreadsFailed,
	)
	mailErr := mailer.Send(ctx, cfg.NotifyEmails, "edarchive: scrape run failed", body)
	if mailErr != nil {
		slog.Error("failed to send failure report", "err", mailErr)
	}
}

func main() {
	ctx := serviceutil.SignalContext()

	telemetry.InitSlog(false)
	t, err := telemetry.SetupFromEnv(ctx, "edarchived")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	defer t.Shutdown(context.Background())
	telemetry.InstrumentPerfStats(ctx)

	cfg, err := configutil.ReadConfig[archive.Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	err = cfg.Validate()
	if err != nil {
		serviceutil.Fatal("invalid config", err)
	}

	creds, err := archive.CredentialsFromEnv()
	if err != nil {
		serviceutil.Fatal("missing credentials", err)
	}

	client, err := edstem.NewClient(ctx, edstem.ClientOptions{BaseUrl: cfg.BaseUrl})
	if err != nil {
		serviceutil.Fatal("failed to initialize board client", err)
	}

	database, err := sqliteutil.OpenDB(archivedb.Schema, cfg.Database)
	if err != nil {
		serviceutil.Fatal("failed to open database", err)
	}
	defer database.Close()

	scraper := archive.NewScraper(client, creds, cfg.BoardId, database)
	mailer := notify.NewMailer(cfg.Smtp)

	cronner := cron.New()
	_, err = cronner.AddFunc(scheduleSpec, func() {
		runOnce(ctx, scraper, mailer, cfg)
	})
	if err != nil {
		serviceutil.Fatal("failed to schedule scrape", err)
	}
	cronner.Start()
	defer cronner.Stop()

	slog.Info("scheduled scraping", "spec", scheduleSpec, "board_id", cfg.BoardId)

	// one pass right away so a fresh deployment does not sit empty
	// until the next tick
	runOnce(ctx, scraper, mailer, cfg)

	<-ctx.Done()
}
