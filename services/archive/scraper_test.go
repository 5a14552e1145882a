package archive

import (
	"context"
	"testing"
	"time"

	"edarchive/lib/scrapers/edstem"
	"edarchive/lib/scrapers/edstem/edstemtest"
	"edarchive/lib/testutil"
	"edarchive/services/archive/db"

	"github.com/stretchr/testify/require"
)

func fixtureBoard() *edstemtest.Board {
	return &edstemtest.Board{
		Id:    72657,
		Email: "student@example.edu",
		Pass:  "hunter2",
		Token: "fixture-token",
		Threads: []edstemtest.Thread{
			{
				Id:              1,
				CourseId:        72657,
				UserId:          7,
				Title:           "Homework 1 due date",
				Document:        "<document><paragraph>When is hw1 due?</paragraph></document>",
				Type:            "question",
				Category:        "Assignments",
				CreatedAt:       "2026-01-05T09:30:00+00:00",
				IsAnswered:      true,
				IsStaffAnswered: true,
				Answers: []edstemtest.Answer{
					{
						Id:         501,
						UserId:     3,
						Document:   "<document><paragraph>Friday, 11:59pm.</paragraph></document>",
						CreatedAt:  "2026-01-05T10:00:00+00:00",
						IsEndorsed: true,
					},
				},
			},
			{
				Id:        2,
				CourseId:  72657,
				UserId:    9,
				Title:     "Lecture recording missing",
				Document:  "<document><paragraph>Lecture 3 is not uploaded.</paragraph></document>",
				Type:      "question",
				Category:  "Logistics",
				CreatedAt: "2026-01-06T14:00:00+00:00",
			},
		},
	}
}

func setupScraper(t *testing.T, board *edstemtest.Board, creds Credentials) (Scraper, *db.Queries, func()) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/archive",
		DbSchema: db.Schema,
	})

	server := edstemtest.NewServer(board)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()

	client, err := edstem.NewClient(ctx, edstem.ClientOptions{BaseUrl: server.URL})
	require.NoError(t, err)

	scraper := NewScraper(client, creds, board.Id, setup.DB)
	return scraper, db.New(setup.DB), func() {
		server.Close()
		cleanup()
	}
}

func TestRunEndToEnd(t *testing.T) {
	board := fixtureBoard()
	scraper, qry, cleanup := setupScraper(t, board, Credentials{
		Email:    board.Email,
		Password: board.Pass,
	})
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*60)
	defer cancel()

	report, err := scraper.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, report.ThreadsOk)
	require.Equal(t, 0, report.ThreadsFailed)
	require.NotEmpty(t, report.RunId)

	threadCount, err := qry.CountThreads(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, threadCount)

	postCount, err := qry.CountPosts(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 3, postCount)

	thread, err := qry.GetThread(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "Homework 1 due date", thread.Title)
	require.Equal(t, "When is hw1 due?", thread.BodyText)
	require.True(t, thread.IsStaffAnswered)

	posts, err := qry.GetThreadPosts(ctx, 1)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	require.Equal(t, db.POST_KIND_QUESTION, posts[0].Kind)
	require.Equal(t, db.POST_KIND_ANSWER, posts[1].Kind)
	require.Equal(t, "Friday, 11:59pm.", posts[1].BodyText)
	require.True(t, posts[1].IsEndorsed)
	for _, p := range posts {
		require.EqualValues(t, 1, p.ThreadID)
	}

	posts, err = qry.GetThreadPosts(ctx, 2)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.Equal(t, db.POST_KIND_QUESTION, posts[0].Kind)

	runs, err := qry.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.EqualValues(t, 2, runs[0].ThreadsOk)
}

func TestRunIsIdempotent(t *testing.T) {
	board := fixtureBoard()
	scraper, qry, cleanup := setupScraper(t, board, Credentials{Token: board.Token})
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*60)
	defer cancel()

	_, err := scraper.Run(ctx)
	require.NoError(t, err)
	_, err = scraper.Run(ctx)
	require.NoError(t, err)

	threadCount, err := qry.CountThreads(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, threadCount)

	postCount, err := qry.CountPosts(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 3, postCount)
}

func TestRunSkipsFailedThreads(t *testing.T) {
	board := fixtureBoard()
	board.Broken = map[int64]bool{1: true}

	scraper, qry, cleanup := setupScraper(t, board, Credentials{Token: board.Token})
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*60)
	defer cancel()

	report, err := scraper.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, report.ThreadsOk)
	require.Equal(t, 1, report.ThreadsFailed)

	// the healthy thread still made it into the archive
	thread, err := qry.GetThread(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, "Lecture recording missing", thread.Title)

	threadCount, err := qry.CountThreads(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, threadCount)
}

func TestRunBadCredentials(t *testing.T) {
	board := fixtureBoard()
	scraper, _, cleanup := setupScraper(t, board, Credentials{
		Email:    board.Email,
		Password: "wrong-password",
	})
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*60)
	defer cancel()

	_, err := scraper.Run(ctx)
	require.ErrorIs(t, err, edstem.ErrAuthentication)

	// enumeration should never have been attempted
	for _, req := range board.Requests() {
		require.NotContains(t, req, "/threads")
	}
}

func TestRunMissingCredentials(t *testing.T) {
	board := fixtureBoard()
	scraper, _, cleanup := setupScraper(t, board, Credentials{})
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*60)
	defer cancel()

	_, err := scraper.Run(ctx)
	require.ErrorIs(t, err, edstem.ErrAuthentication)
	require.Empty(t, board.Requests())
}
