package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ma3ke/mu/internal/snapshot"
)

func TestCommandsAreRegistered(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}
	for _, want := range []string{"sample", "gather", "monitor", "web", "init", "version"} {
		assert.True(t, names[want], "missing command %q", want)
	}
}

func TestVersionFormat(t *testing.T) {
	assert.Equal(t, "dev", formatVersion("dev"))
	assert.Equal(t, "v1.2.3", formatVersion("1.2.3"))
	assert.Equal(t, "v1.2.3", formatVersion("v1.2.3"))
}

func TestSetVersionInfo(t *testing.T) {
	defer SetVersionInfo("dev", "none", "unknown")
	SetVersionInfo("9.9.9", "abc", "today")
	assert.Equal(t, "9.9.9", GetVersion())
}

func TestGatherFailsOnMissingRoster(t *testing.T) {
	err := gatherCommand(gatherOptions{
		rosterPath: filepath.Join(t.TempDir(), "no-such-roster"),
		outputPath: filepath.Join(t.TempDir(), "out.json"),
	})
	assert.Error(t, err, "a broken roster must fail the run")
}

func TestGatherEmptyRosterStillPersists(t *testing.T) {
	dir := t.TempDir()
	rosterPath := filepath.Join(dir, "machines")
	require.NoError(t, os.WriteFile(rosterPath, []byte("# no machines yet\n"), 0o644))
	outputPath := filepath.Join(dir, "mu.dat")

	err := gatherCommand(gatherOptions{
		rosterPath: rosterPath,
		outputPath: outputPath,
	})
	require.NoError(t, err)

	cluster, err := snapshot.Read(outputPath)
	require.NoError(t, err)
	assert.Empty(t, cluster.Entries)
	assert.NotZero(t, cluster.Timestamp)
}

func TestSampleCommandMissingPolicyIsFine(t *testing.T) {
	var out bytes.Buffer
	err := sampleCommand(&out, filepath.Join(t.TempDir(), "no-policy"))
	require.NoError(t, err)

	snap, err := snapshot.DecodeSnapshot(out.Bytes())
	require.NoError(t, err)
	assert.NotEmpty(t, snap.Hostname)
}

func TestWriteConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".mu.yaml")
	require.NoError(t, writeConfig(path, muConfig{
		Data:     "/tmp/mu.dat",
		Roster:   "machines",
		ShowRoom: true,
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "data: /tmp/mu.dat")
	assert.Contains(t, string(data), "show_room: true")
}

func TestDataPathPrecedence(t *testing.T) {
	assert.Equal(t, "/explicit", dataPath("/explicit"))
}
