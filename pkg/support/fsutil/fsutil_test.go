package fsutil

import (
	"os"
	"os/user"
	"path"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceTildeInDir(t *testing.T) {
	usr, err := user.Current()
	require.NoError(t, err)

	for _, dir := range []string{"", "/tmp/x", "relative/~"} {
		got, err := ReplaceTildeInDir(dir)
		require.NoError(t, err)
		assert.Equal(t, dir, got)
	}

	got, err := ReplaceTildeInDir("~/tolerances.yaml")
	require.NoError(t, err)
	assert.Equal(t, path.Join(usr.HomeDir, "tolerances.yaml"), got)

	got, err = ReplaceTildeInDir("~")
	require.NoError(t, err)
	assert.Equal(t, path.Clean(usr.HomeDir), got)

	got, err = ReplaceTildeInDir("~" + usr.Username + "/a")
	require.NoError(t, err)
	assert.Equal(t, path.Join(usr.HomeDir, "a"), got)

	_, err = ReplaceTildeInDir("~no_such_user_for_sure/a")
	require.Error(t, err)
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "file")
	exists, err := FileExists(filePath)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, os.WriteFile(filePath, []byte("x"), 0o600))
	exists, err = FileExists(filePath)
	require.NoError(t, err)
	assert.True(t, exists)
}
