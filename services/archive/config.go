package archive

import (
	"fmt"

	"edarchive/lib/notify"
)

// Config is the non-secret half of the job's configuration, read from
// config.json5. Credentials stay in the environment.
type Config struct {
	// BaseUrl of the discussion service api, defaults to the public
	// instance when empty.
	BaseUrl string `json:"base_url"`
	// BoardId is the course/board to archive.
	BoardId int64 `json:"board_id"`
	// Database is the path of the sqlite archive.
	Database string `json:"database"`

	// Smtp + NotifyEmails enable failure reports from the daemon.
	Smtp         notify.SmtpConfig `json:"smtp"`
	NotifyEmails []string          `json:"notify_emails"`
}

func (c Config) Validate() error {
	if c.BoardId == 0 {
		return fmt.Errorf("board_id is required")
	}
	if c.Database == "" {
		return fmt.Errorf("database is required")
	}
	return nil
}
