package db

type Thread struct {
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

type Post struct {
	ID         int64
	ThreadID   int64
	Kind       string
	AuthorID   int64
	BodyHtml   string
	BodyText   string
	CreatedAt  int64
	IsEndorsed bool
}

type Run struct {
	ID            string
	BoardID       int64
	StartedAt     int64
	FinishedAt    int64
	ThreadsOk     int64
	ThreadsFailed int64
}
