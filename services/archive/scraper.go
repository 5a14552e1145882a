package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"edarchive/lib/htmlutil"
	"edarchive/lib/scrapers/edstem"
	"edarchive/services/archive/db"

	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/archive")

// Scraper runs a single linear scrape-and-persist pass over a board:
// authenticate, enumerate, fetch per thread, persist, record the run.
type Scraper struct {
	client  *edstem.Client
	creds   Credentials
	boardId int64
	db      *sql.DB
	qry     *db.Queries
}

func NewScraper(client *edstem.Client, creds Credentials, boardId int64, database *sql.DB) Scraper {
	return Scraper{
		client:  client,
		creds:   creds,
		boardId: boardId,
		db:      database,
		qry:     db.New(database),
	}
}

// Report summarizes one completed scrape run.
type Report struct {
	RunId         string
	ThreadsOk     int
	ThreadsFailed int
	Elapsed       time.Duration
}

// Run executes one full pass. Authentication and enumeration failures
// abort the run, as does any database-level persistence failure. A
// failed fetch of an individual thread is logged, counted and skipped;
// the run still completes and the remaining threads are persisted.
func (s Scraper) Run(ctx context.Context) (Report, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	started := time.Now()

	runId, err := random.String(12)
	if err != nil {
		return Report{}, err
	}
	span.SetAttributes(
		attribute.String("run_id", runId),
		attribute.Int64("board_id", s.boardId),
	)

	err = s.creds.Login(ctx, s.client)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "authentication failed")
		return Report{}, fmt.Errorf("authenticate: %w", err)
	}

	summaries, err := s.client.AllThreads(ctx, s.boardId)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "enumeration failed")
		return Report{}, fmt.Errorf("enumerate threads: %w", err)
	}
	slog.InfoContext(ctx, "enumerated threads", "run_id", runId, "count", len(summaries))

	report := Report{RunId: runId}
	for _, summary := range summaries {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}

		thread, err := s.client.Thread(ctx, summary.Id)

		var fetchErr *edstem.FetchError
		if errors.As(err, &fetchErr) {
			slog.WarnContext(
				ctx, "skipping thread",
				"run_id", runId,
				"thread_id", summary.Id,
				"title", summary.Title,
				"err", err,
			)
			report.ThreadsFailed++
			continue
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "fetch aborted the run")
			return report, err
		}

		err = s.persistThread(ctx, thread)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "persistence failed")
			return report, fmt.Errorf("persist thread %d: %w", thread.Id, err)
		}
		report.ThreadsOk++
	}

	report.Elapsed = time.Since(started)

	err = s.qry.CreateRun(ctx, db.CreateRunParams{
		ID:            runId,
		BoardID:       s.boardId,
		StartedAt:     started.Unix(),
		FinishedAt:    started.Add(report.Elapsed).Unix(),
		ThreadsOk:     int64(report.ThreadsOk),
		ThreadsFailed: int64(report.ThreadsFailed),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to record run")
		return report, fmt.Errorf("record run: %w", err)
	}

	slog.InfoContext(
		ctx, "scrape run finished",
		"run_id", runId,
		"ok", report.ThreadsOk,
		"failed", report.ThreadsFailed,
		"seconds", report.Elapsed.Seconds(),
	)
	return report, nil
}

// persistThread upserts the thread row and rewrites its posts inside
// one transaction, so an answer deleted upstream does not linger in
// the archive.
func (s Scraper) persistThread(ctx context.Context, thread edstem.Thread) error {
	ctx, span := tracer.Start(ctx, "persistThread")
	defer span.End()

	span.SetAttributes(attribute.Int64("thread_id", thread.Id))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	scrapedAt := time.Now().Unix()

	err = txqry.UpsertThread(ctx, db.UpsertThreadParams{
		ID:              thread.Id,
		BoardID:         thread.BoardId,
		Title:           thread.Title,
		Kind:            thread.Type,
		Category:        thread.Category,
		AuthorID:        thread.AuthorId,
		BodyHtml:        thread.Document,
		BodyText:        htmlutil.Flatten(thread.Document),
		CreatedAt:       thread.CreatedAt.Unix(),
		IsAnswered:      thread.IsAnswered,
		IsStaffAnswered: thread.IsStaffAnswered,
		ScrapedAt:       scrapedAt,
	})
	if err != nil {
		return err
	}

	err = txqry.DeleteThreadPosts(ctx, thread.Id)
	if err != nil {
		return err
	}

	// the question document is itself the first post of the thread
	err = txqry.CreatePost(ctx, db.CreatePostParams{
		ID:         thread.Id,
		ThreadID:   thread.Id,
		Kind:       db.POST_KIND_QUESTION,
		AuthorID:   thread.AuthorId,
		BodyHtml:   thread.Document,
		BodyText:   htmlutil.Flatten(thread.Document),
		CreatedAt:  thread.CreatedAt.Unix(),
		IsEndorsed: false,
	})
	if err != nil {
		return err
	}

	for _, answer := range thread.Answers {
		err = txqry.CreatePost(ctx, db.CreatePostParams{
			ID:         answer.Id,
			ThreadID:   thread.Id,
			Kind:       db.POST_KIND_ANSWER,
			AuthorID:   answer.AuthorId,
			BodyHtml:   answer.Document,
			BodyText:   htmlutil.Flatten(answer.Document),
			CreatedAt:  answer.CreatedAt.Unix(),
			IsEndorsed: answer.IsEndorsed,
		})
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}
