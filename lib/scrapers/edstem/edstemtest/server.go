// Package edstemtest provides an in-process stand-in for the
// discussion board api, for use in tests.
package edstemtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strconv"
	"sync"
)

type Answer struct {
	Id         int64  `json:"id"`
	UserId     int64  `json:"user_id"`
	Document   string `json:"document"`
	CreatedAt  string `json:"created_at"`
	IsEndorsed bool   `json:"is_endorsed"`
}

type Thread struct {
	Id              int64    `json:"id"`
	CourseId        int64    `json:"course_id"`
	UserId          int64    `json:"user_id"`
	Title           string   `json:"title"`
	Document        string   `json:"document"`
	Type            string   `json:"type"`
	Category        string   `json:"category"`
	CreatedAt       string   `json:"created_at"`
	IsAnswered      bool     `json:"is_answered"`
	IsStaffAnswered bool     `json:"is_staff_answered"`
	Answers         []Answer `json:"answers"`
}

type Board struct {
	Id      int64
	Email   string
	Pass    string
	Token   string
	Threads []Thread

	// thread ids that respond with a 500 regardless of auth
	Broken map[int64]bool

	mu       sync.Mutex
	requests []string
}

// Requests returns the method+path of every request seen so far.
func (b *Board) Requests() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string{}, b.requests...)
}

var threadPathRegex = regexp.MustCompile(`^/api/threads/(\d+)$`)

// NewServer spins up an httptest server that talks the board's wire
// protocol: login type probe, token exchange and the paginated thread
// listing guarded by the x-token header.
func NewServer(board *Board) *httptest.Server {
	mux := http.NewServeMux()

	record := func(r *http.Request) {
		board.mu.Lock()
		board.requests = append(board.requests, r.Method+" "+r.URL.Path)
		board.mu.Unlock()
	}

	authorized := func(r *http.Request) bool {
		return r.Header.Get("x-token") == board.Token
	}

	mux.HandleFunc("/api/login_type", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		var body struct {
			Login string `json:"login"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		if body.Login != board.Email {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"type": "password"})
	})

	mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		var body struct {
			Login    string `json:"login"`
			Password string `json:"password"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		if body.Login != board.Email || body.Password != board.Pass {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"token": board.Token})
	})

	mux.HandleFunc(fmt.Sprintf("/api/courses/%d/threads", board.Id), func(w http.ResponseWriter, r *http.Request) {
		record(r)
		if !authorized(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if limit <= 0 {
			limit = 30
		}

		type summary struct {
			Id    int64  `json:"id"`
			Title string `json:"title"`
		}
		page := []summary{}
		for i := offset; i < offset+limit && i < len(board.Threads); i++ {
			page = append(page, summary{
				Id:    board.Threads[i].Id,
				Title: board.Threads[i].Title,
			})
		}
		json.NewEncoder(w).Encode(map[string]any{"threads": page})
	})

	mux.HandleFunc("/api/threads/", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		if !authorized(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		groups := threadPathRegex.FindStringSubmatch(r.URL.Path)
		if len(groups) < 2 {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		id, _ := strconv.ParseInt(groups[1], 10, 64)

		if board.Broken[id] {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		for _, t := range board.Threads {
			if t.Id == id {
				json.NewEncoder(w).Encode(map[string]any{"thread": t})
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	})

	return httptest.NewServer(mux)
}
