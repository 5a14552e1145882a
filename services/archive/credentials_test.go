package archive

import (
	"testing"

	"edarchive/lib/scrapers/edstem"

	"github.com/stretchr/testify/require"
)

func TestCredentialsFromEnv(t *testing.T) {
	t.Setenv("ED_EMAIL", "")
	t.Setenv("ED_PASSWORD", "")
	t.Setenv("ED_API_TOKEN", "")

	_, err := CredentialsFromEnv()
	require.ErrorIs(t, err, edstem.ErrAuthentication)

	t.Setenv("ED_EMAIL", "student@example.edu")
	_, err = CredentialsFromEnv()
	require.ErrorIs(t, err, edstem.ErrAuthentication, "email without password should not validate")

	t.Setenv("ED_PASSWORD", "hunter2")
	creds, err := CredentialsFromEnv()
	require.NoError(t, err)
	require.Equal(t, "student@example.edu", creds.Email)

	t.Setenv("ED_EMAIL", "")
	t.Setenv("ED_PASSWORD", "")
	t.Setenv("ED_API_TOKEN", "some-token")
	creds, err = CredentialsFromEnv()
	require.NoError(t, err)
	require.Equal(t, "some-token", creds.Token)
}
