package edstem

import (
	"context"
	"errors"
	"testing"
	"time"

	"edarchive/lib/scrapers/edstem/edstemtest"
	"edarchive/lib/telemetry"

	"github.com/google/go-cmp/cmp"
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
				Id:       101,
				CourseId: 72657,
				UserId:   7,
				Title:    "Homework 1 due date",
				Document: "<document><paragraph>When is hw1 due?</paragraph></document>",
				Type:     "question",
				Category: "Assignments",

				CreatedAt:       "2026-01-05T09:30:00+00:00",
				IsAnswered:      true,
				IsStaffAnswered: true,
				Answers: []edstemtest.Answer{
					{
						Id:         1001,
						UserId:     3,
						Document:   "<document><paragraph>Friday, 11:59pm.</paragraph></document>",
						CreatedAt:  "2026-01-05T10:00:00+00:00",
						IsEndorsed: true,
					},
				},
			},
			{
				Id:        102,
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

func newTestClient(t *testing.T, board *edstemtest.Board) (*Client, func()) {
	server := edstemtest.NewServer(board)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()

	client, err := NewClient(ctx, ClientOptions{BaseUrl: server.URL})
	require.NoError(t, err)

	return client, server.Close
}

func TestLoginEmailPassword(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "scrapers/edstem")
	defer cleanup()

	board := fixtureBoard()
	client, closeServer := newTestClient(t, board)
	defer closeServer()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()

	err := client.LoginEmailPassword(ctx, board.Email, "wrong-password")
	require.ErrorIs(t, err, ErrAuthentication)

	err = client.LoginEmailPassword(ctx, board.Email, board.Pass)
	require.NoError(t, err)

	// the installed token should authorize listing requests
	threads, err := client.Threads(ctx, board.Id, 0, 30)
	require.NoError(t, err)
	require.Len(t, threads, 2)
}

func TestLoginType(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "scrapers/edstem")
	defer cleanup()

	board := fixtureBoard()
	client, closeServer := newTestClient(t, board)
	defer closeServer()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()

	loginType, err := client.LoginType(ctx, board.Email)
	require.NoError(t, err)
	require.Equal(t, "password", loginType)
}

func TestAllThreadsPagination(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "scrapers/edstem")
	defer cleanup()

	board := fixtureBoard()
	// three pages: 30 + 30 + 10
	board.Threads = nil
	for i := 0; i < 70; i++ {
		board.Threads = append(board.Threads, edstemtest.Thread{
			Id:        int64(1000 + i),
			CourseId:  board.Id,
			Title:     "thread",
			CreatedAt: "2026-01-01T00:00:00+00:00",
		})
	}

	client, closeServer := newTestClient(t, board)
	defer closeServer()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()
	client.SetToken(board.Token)

	all, err := client.AllThreads(ctx, board.Id)
	require.NoError(t, err)
	require.Len(t, all, 70)

	seen := map[int64]bool{}
	for _, s := range all {
		require.False(t, seen[s.Id], "thread %d listed twice", s.Id)
		seen[s.Id] = true
	}
}

func TestAllThreadsUnauthorized(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "scrapers/edstem")
	defer cleanup()

	board := fixtureBoard()
	client, closeServer := newTestClient(t, board)
	defer closeServer()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()

	_, err := client.AllThreads(ctx, board.Id)
	require.ErrorIs(t, err, ErrAuthentication)
}

func TestThreadContent(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "scrapers/edstem")
	defer cleanup()

	board := fixtureBoard()
	client, closeServer := newTestClient(t, board)
	defer closeServer()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()
	client.SetToken(board.Token)

	thread, err := client.Thread(ctx, 101)
	require.NoError(t, err)
	require.Equal(t, int64(101), thread.Id)
	require.Equal(t, "Homework 1 due date", thread.Title)
	require.Equal(t, "Assignments", thread.Category)
	require.True(t, thread.IsStaffAnswered)
	require.Len(t, thread.Answers, 1)
	require.True(t, thread.Answers[0].IsEndorsed)
	require.Equal(t, 2026, thread.CreatedAt.Year())

	// an unchanged thread fetches identically
	again, err := client.Thread(ctx, 101)
	require.NoError(t, err)
	if diff := cmp.Diff(thread, again); diff != "" {
		t.Fatalf("repeated fetch differs (-first +second):\n%s", diff)
	}
}

func TestThreadFetchError(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "scrapers/edstem")
	defer cleanup()

	board := fixtureBoard()
	client, closeServer := newTestClient(t, board)
	defer closeServer()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()
	client.SetToken(board.Token)

	_, err := client.Thread(ctx, 999)
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	require.Equal(t, int64(999), fetchErr.ThreadId)
}

func TestThreadSchemaMismatch(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "scrapers/edstem")
	defer cleanup()

	board := fixtureBoard()
	// a thread with no title fails validation at the boundary
	board.Threads[1].Title = ""
	client, closeServer := newTestClient(t, board)
	defer closeServer()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()
	client.SetToken(board.Token)

	_, err := client.Thread(ctx, 102)
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
}
