package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Database string `json:"database"`
	BoardId  int64  `json:"board_id"`
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "config.json5")

	_, err := ReadConfig[testConfig](name)
	require.ErrorIs(t, err, os.ErrNotExist)

	err = os.WriteFile(name, []byte(`{database: "archive.db", board_id: 1}`), 0600)
	require.NoError(t, err)

	cfg, err := ReadConfig[testConfig](name)
	require.NoError(t, err)
	require.Equal(t, "archive.db", cfg.Database)
	require.EqualValues(t, 1, cfg.BoardId)

	// local overrides win
	err = os.WriteFile(filepath.Join(dir, "config.local.json5"), []byte(`{board_id: 2}`), 0600)
	require.NoError(t, err)

	cfg, err = ReadConfig[testConfig](name)
	require.NoError(t, err)
	require.Equal(t, "archive.db", cfg.Database)
	require.EqualValues(t, 2, cfg.BoardId)
}
