package archive

import (
	"context"
	"database/sql"

	"edarchive/lib/textutil"
	"edarchive/services/archive/db"
)

type SearchResult struct {
	Thread     db.Thread
	Similarity float64
}

// SearchThreads ranks archived threads against a query by title
// similarity and returns the best `limit` matches.
func SearchThreads(ctx context.Context, database *sql.DB, query string, limit int) ([]SearchResult, error) {
	qry := db.New(database)

	// rank over the whole archive, a single board stays small enough
	threads, err := qry.ListThreads(ctx, 1<<31)
	if err != nil {
		return nil, err
	}

	titles := make([]string, len(threads))
	for i, t := range threads {
		titles[i] = t.Title
	}

	ranked := textutil.RankBySimilarity(query, titles)
	if limit > len(ranked) {
		limit = len(ranked)
	}

	out := make([]SearchResult, limit)
	for i := 0; i < limit; i++ {
		out[i] = SearchResult{
			Thread:     threads[ranked[i].Index],
			Similarity: ranked[i].Similarity,
		}
	}
	return out, nil
}
