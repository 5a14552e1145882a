package edstem

import (
	"fmt"
	"time"
)

// ThreadSummary is a single entry from the paginated thread listing.
type ThreadSummary struct {
	Id    int64
	Title string
}

// Thread is the fully fetched content of a single discussion thread:
// the question document plus its answers.
type Thread struct {
	Id              int64
	BoardId         int64
	Title           string
	Document        string
	Type            string
	Category        string
	AuthorId        int64
	CreatedAt       time.Time
	IsAnswered      bool
	IsStaffAnswered bool
	Answers         []Answer
}

type Answer struct {
	Id         int64
	Document   string
	AuthorId   int64
	CreatedAt  time.Time
	IsEndorsed bool
}

type loginTypeRequest struct {
	Login       string `json:"login"`
	ForceCode   bool   `json:"force_code"`
	ForceReauth bool   `json:"force_reauth"`
}

type loginTypeResponse struct {
	Type string `json:"type"`
}

type tokenRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type threadListResponse struct {
	Threads []struct {
		Id    int64  `json:"id"`
		Title string `json:"title"`
	} `json:"threads"`
}

type threadResponse struct {
	Thread threadData `json:"thread"`
}

type threadData struct {
	Id              int64        `json:"id"`
	CourseId        int64        `json:"course_id"`
	UserId          int64        `json:"user_id"`
	Title           string       `json:"title"`
	Document        string       `json:"document"`
	Type            string       `json:"type"`
	Category        string       `json:"category"`
	CreatedAt       string       `json:"created_at"`
	IsAnswered      bool         `json:"is_answered"`
	IsStaffAnswered bool         `json:"is_staff_answered"`
	Answers         []answerData `json:"answers"`
}

type answerData struct {
	Id         int64  `json:"id"`
	UserId     int64  `json:"user_id"`
	Document   string `json:"document"`
	CreatedAt  string `json:"created_at"`
	IsEndorsed bool   `json:"is_endorsed"`
}

func decodeTimestamp(tstr string) (time.Time, error) {
	// aka. parse by ISO timestamp
	return time.Parse(time.RFC3339, tstr)
}

func (d threadData) validate() error {
	if d.Id == 0 {
		return fmt.Errorf("thread is missing an id")
	}
	if d.Title == "" {
		return fmt.Errorf("thread %d is missing a title", d.Id)
	}
	for _, a := range d.Answers {
		if a.Id == 0 {
			return fmt.Errorf("thread %d contains an answer without an id", d.Id)
		}
	}
	return nil
}
