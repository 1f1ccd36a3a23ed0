package log

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestRotatingFile_Rotates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "psscript.log")

	rf, err := OpenRotatingFile(path, 10, 2)
	require.NoError(t, err)
	defer rf.Close()

	for _, rec := range []string{"aaaaaaaa\n", "bbbbbbbb\n", "cccccccc\n", "dddddddd\n"} {
		_, err := rf.Write([]byte(rec))
		require.NoError(t, err)
	}

	assert.Equal(t, "dddddddd\n", readFile(t, path))
	assert.Equal(t, "cccccccc\n", readFile(t, path+".1"))
	assert.Equal(t, "bbbbbbbb\n", readFile(t, path+".2"))
	_, err = os.Stat(path + ".3")
	assert.ErrorIs(t, err, fs.ErrNotExist, "only maxBackups are kept")
}

func TestRotatingFile_AppendsToExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "psscript.log")
	require.NoError(t, os.WriteFile(path, []byte("old\n"), 0o600))

	rf, err := OpenRotatingFile(path, 100, 1)
	require.NoError(t, err)
	_, err = rf.Write([]byte("new\n"))
	require.NoError(t, err)
	require.NoError(t, rf.Close())

	assert.Equal(t, "old\nnew\n", readFile(t, path))
}

func TestRotatingFile_OversizedRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "psscript.log")

	rf, err := OpenRotatingFile(path, 4, 1)
	require.NoError(t, err)
	defer rf.Close()

	_, err = rf.Write([]byte("0123456789\n"))
	require.NoError(t, err)
	assert.Equal(t, "0123456789\n", readFile(t, path))
}

func TestRotatingFile_Defaults(t *testing.T) {
	rf, err := OpenRotatingFile(filepath.Join(t.TempDir(), "psscript.log"), 0, 0)
	require.NoError(t, err)
	defer rf.Close()

	assert.Equal(t, int64(DefaultMaxBytes), rf.maxBytes)
	assert.Equal(t, DefaultMaxBackups, rf.maxBackups)
}

func TestRotatingFile_WriteAfterClose(t *testing.T) {
	rf, err := OpenRotatingFile(filepath.Join(t.TempDir(), "psscript.log"), 0, 0)
	require.NoError(t, err)
	require.NoError(t, rf.Close())
	require.NoError(t, rf.Close(), "double close is a no-op")

	_, err = rf.Write([]byte("x"))
	assert.ErrorIs(t, err, fs.ErrClosed)
}
