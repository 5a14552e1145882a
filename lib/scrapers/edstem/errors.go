package edstem

import "fmt"

// ErrAuthentication indicates the remote service rejected the provided
// credentials, or never issued a token. It is fatal for a scrape run.
var ErrAuthentication = fmt.Errorf("the discussion service rejected the provided credentials")

// FetchError wraps a network, decode or schema failure for a single
// thread. Callers are expected to skip the affected thread and carry
// on with the rest of the batch.
type FetchError struct {
	ThreadId int64
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch thread %d: %s", e.ThreadId, e.Err.Error())
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
