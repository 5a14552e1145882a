package archive

import (
	"context"
	"fmt"
	"os"

	"edarchive/lib/scrapers/edstem"

	"github.com/joho/godotenv"
)

// Credentials is the account material for the board, sourced once at
// startup and passed into the job at construction. It is never
// persisted and never re-read.
type Credentials struct {
	Email    string
	Password string
	// Token is a pre-issued api token, used instead of the
	// email/password exchange when present.
	Token string
}

func (c Credentials) Validate() error {
	if c.Token != "" {
		return nil
	}
	if c.Email != "" && c.Password != "" {
		return nil
	}
	return fmt.Errorf("either ED_API_TOKEN or both ED_EMAIL and ED_PASSWORD must be set: %w", edstem.ErrAuthentication)
}

// CredentialsFromEnv loads a .env file if one exists, then reads the
// account credentials from the process environment.
func CredentialsFromEnv() (Credentials, error) {
	godotenv.Load()

	creds := Credentials{
		Email:    os.Getenv("ED_EMAIL"),
		Password: os.Getenv("ED_PASSWORD"),
		Token:    os.Getenv("ED_API_TOKEN"),
	}
	return creds, creds.Validate()
}

// Login authenticates the client with whichever scheme the credentials
// carry, preferring the pre-issued token.
func (c Credentials) Login(ctx context.Context, client *edstem.Client) error {
	err := c.Validate()
	if err != nil {
		return err
	}
	if c.Token != "" {
		client.SetToken(c.Token)
		return nil
	}
	return client.LoginEmailPassword(ctx, c.Email, c.Password)
}
