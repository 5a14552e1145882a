package archive

import (
	"context"
	"testing"
	"time"

	"edarchive/lib/testutil"
	"edarchive/services/archive/db"

	"github.com/stretchr/testify/require"
)

func TestSearchThreads(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/archive/search",
		DbSchema: db.Schema,
	})
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	qry := db.New(setup.DB)
	titles := []string{
		"Final exam logistics",
		"Homework 3 clarification",
		"Office hours this week",
	}
	for i, title := range titles {
		err := qry.UpsertThread(ctx, db.UpsertThreadParams{
			ID:        int64(i + 1),
			BoardID:   1,
			Title:     title,
			Kind:      "question",
			CreatedAt: time.Now().Unix(),
			ScrapedAt: time.Now().Unix(),
		})
		require.NoError(t, err)
	}

	results, err := SearchThreads(ctx, setup.DB, "final exam", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, "Final exam logistics", results[0].Thread.Title)
	require.Equal(t, float64(1), results[0].Similarity)
}
