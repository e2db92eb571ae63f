package accesslog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathHonorsEnvOverride(t *testing.T) {
	t.Setenv(EnvLogPath, "/tmp/elsewhere.log")
	assert.Equal(t, "/tmp/elsewhere.log", Path())

	t.Setenv(EnvLogPath, "")
	assert.Equal(t, DefaultLogPath, Path())
}

func TestAppendWritesOneLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usage.log")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	id := Identity{User: "ann", Hostname: "m1", OS: "debian", OSVersion: "12"}
	when := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	require.NoError(t, appendTo(path, id, when))
	require.NoError(t, appendTo(path, id, when))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "2026-08-23T12:00:00Z\tfrom ann@m1\t(debian 12)", lines[0])
}

func TestAppendRequiresExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.log")
	err := appendTo(path, Identity{}, time.Now())
	assert.Error(t, err, "the audit log is never created, only appended to")
}

func TestCurrentIdentityNeverEmpty(t *testing.T) {
	id := CurrentIdentity()
	assert.NotEmpty(t, id.User)
	assert.NotEmpty(t, id.Hostname)
	assert.NotEmpty(t, id.OS)
}
