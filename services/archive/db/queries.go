package db

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

const upsertThread = `
INSERT INTO threads (
    id, board_id, title, kind, category, author_id,
    body_html, body_text, created_at,
    is_answered, is_staff_answered, scraped_at
)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    board_id = excluded.board_id,
    title = excluded.title,
    kind = excluded.kind,
    category = excluded.category,
    author_id = excluded.author_id,
    body_html = excluded.body_html,
    body_text = excluded.body_text,
    created_at = excluded.created_at,
    is_answered = excluded.is_answered,
    is_staff_answered = excluded.is_staff_answered,
    scraped_at = excluded.scraped_at
`

type UpsertThreadParams struct {
	ID              int64
	BoardID         int64
	Title           string
	Kind            string
	Category        string
	AuthorID        int64
	BodyHtml        string
	BodyText        string
	CreatedAt       int64
	IsAnswered      bool
	IsStaffAnswered bool
	ScrapedAt       int64
}

func (q *Queries) UpsertThread(ctx context.Context, arg UpsertThreadParams) error {
	_, err := q.db.ExecContext(ctx, upsertThread,
		arg.ID,
		arg.BoardID,
		arg.Title,
		arg.Kind,
		arg.Category,
		arg.AuthorID,
		arg.BodyHtml,
		arg.BodyText,
		arg.CreatedAt,
		arg.IsAnswered,
		arg.IsStaffAnswered,
		arg.ScrapedAt,
	)
	return err
}

const deleteThreadPosts = `
DELETE FROM posts WHERE thread_id = ?
`

func (q *Queries) DeleteThreadPosts(ctx context.Context, threadID int64) error {
	_, err := q.db.ExecContext(ctx, deleteThreadPosts, threadID)
	return err
}

const createPost = `
INSERT INTO posts (
    id, thread_id, kind, author_id,
    body_html, body_text, created_at, is_endorsed
)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

type CreatePostParams struct {
	ID         int64
	ThreadID   int64
	Kind       string
	AuthorID   int64
	BodyHtml   string
	BodyText   string
	CreatedAt  int64
	IsEndorsed bool
}

func (q *Queries) CreatePost(ctx context.Context, arg CreatePostParams) error {
	_, err := q.db.ExecContext(ctx, createPost,
		arg.ID,
		arg.ThreadID,
		arg.Kind,
		arg.AuthorID,
		arg.BodyHtml,
		arg.BodyText,
		arg.CreatedAt,
		arg.IsEndorsed,
	)
	return err
}

const createRun = `
INSERT INTO runs (id, board_id, started_at, finished_at, threads_ok, threads_failed)
VALUES (?, ?, ?, ?, ?, ?)
`

type CreateRunParams struct {
	ID            string
	BoardID       int64
	StartedAt     int64
	FinishedAt    int64
	ThreadsOk     int64
	ThreadsFailed int64
}

func (q *Queries) CreateRun(ctx context.Context, arg CreateRunParams) error {
	_, err := q.db.ExecContext(ctx, createRun,
		arg.ID,
		arg.BoardID,
		arg.StartedAt,
		arg.FinishedAt,
		arg.ThreadsOk,
		arg.ThreadsFailed,
	)
	return err
}

const getThread = `
SELECT id, board_id, title, kind, category, author_id,
       body_html, body_text, created_at,
       is_answered, is_staff_answered, scraped_at
FROM threads
WHERE id = ?
`

func (q *Queries) GetThread(ctx context.Context, id int64) (Thread, error) {
	row := q.db.QueryRowContext(ctx, getThread, id)
	var t Thread
	err := row.Scan(
		&t.ID,
		&t.BoardID,
		&t.Title,
		&t.Kind,
		&t.Category,
		&t.AuthorID,
		&t.BodyHtml,
		&t.BodyText,
		&t.CreatedAt,
		&t.IsAnswered,
		&t.IsStaffAnswered,
		&t.ScrapedAt,
	)
	return t, err
}

const listThreads = `
SELECT id, board_id, title, kind, category, author_id,
       body_html, body_text, created_at,
       is_answered, is_staff_answered, scraped_at
FROM threads
ORDER BY created_at DESC
LIMIT ?
`

func (q *Queries) ListThreads(ctx context.Context, limit int64) ([]Thread, error) {
	rows, err := q.db.QueryContext(ctx, listThreads, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Thread
	for rows.Next() {
		var t Thread
		err := rows.Scan(
			&t.ID,
			&t.BoardID,
			&t.Title,
			&t.Kind,
			&t.Category,
			&t.AuthorID,
			&t.BodyHtml,
			&t.BodyText,
			&t.CreatedAt,
			&t.IsAnswered,
			&t.IsStaffAnswered,
			&t.ScrapedAt,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

const getThreadPosts = `
SELECT id, thread_id, kind, author_id,
       body_html, body_text, created_at, is_endorsed
FROM posts
WHERE thread_id = ?
ORDER BY kind DESC, created_at ASC
`

// GetThreadPosts returns the question first (kind sorts descending),
// then answers in posting order.
func (q *Queries) GetThreadPosts(ctx context.Context, threadID int64) ([]Post, error) {
	rows, err := q.db.QueryContext(ctx, getThreadPosts, threadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Post
	for rows.Next() {
		var p Post
		err := rows.Scan(
			&p.ID,
			&p.ThreadID,
			&p.Kind,
			&p.AuthorID,
			&p.BodyHtml,
			&p.BodyText,
			&p.CreatedAt,
			&p.IsEndorsed,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

const countThreads = `
SELECT COUNT(*) FROM threads
`

func (q *Queries) CountThreads(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countThreads).Scan(&n)
	return n, err
}

const countPosts = `
SELECT COUNT(*) FROM posts
`

func (q *Queries) CountPosts(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countPosts).Scan(&n)
	return n, err
}

const listRuns = `
SELECT id, board_id, started_at, finished_at, threads_ok, threads_failed
FROM runs
ORDER BY started_at DESC
LIMIT ?
`

func (q *Queries) ListRuns(ctx context.Context, limit int64) ([]Run, error) {
	rows, err := q.db.QueryContext(ctx, listRuns, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		err := rows.Scan(
			&r.ID,
			&r.BoardID,
			&r.StartedAt,
			&r.FinishedAt,
			&r.ThreadsOk,
			&r.ThreadsFailed,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
