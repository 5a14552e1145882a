package db

import (
	_ "embed"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string

const (
	POST_KIND_QUESTION = "question"
	POST_KIND_ANSWER   = "answer"
)
