package web

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ma3ke/mu/internal/logger"
	"github.com/ma3ke/mu/internal/roster"
	"github.com/ma3ke/mu/internal/snapshot"
)

func writeSnapshot(t *testing.T, path string) {
	t.Helper()
	c := &snapshot.ClusterSnapshot{
		Timestamp: 1700000000,
		Entries: []snapshot.Entry{
			{
				Identity: roster.Machine{
					Hostname: "m1",
					Room:     "lab-a",
					Owner:    roster.Owner{Kind: roster.OwnerStudent, Name: "Ann"},
				},
				Snapshot: snapshot.Snapshot{
					Hostname:       "m1",
					PerCorePercent: []float64{95, 0},
					LoadAvg:        snapshot.LoadAvg{Five: 1.5},
					Samples: []snapshot.Sample{
						{Process: "python", User: "ann", CPUPercent: 95},
					},
				},
			},
		},
	}
	require.NoError(t, snapshot.Persist(c, path))
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestIndexRendersFleet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mu.json")
	writeSnapshot(t, path)

	srv, err := NewServer(path, logger.Noop())
	require.NoError(t, err)

	rec := get(t, srv, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "m1")
	assert.Contains(t, body, "Ann (s)")
	assert.Contains(t, body, "1/2")
	assert.Contains(t, body, "ann (1) python")
	assert.NotContains(t, body, "stale")
}

func TestMachinesPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mu.json")
	writeSnapshot(t, path)

	srv, err := NewServer(path, logger.Noop())
	require.NoError(t, err)

	rec := get(t, srv, "/machines")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "m1")
	assert.NotContains(t, rec.Body.String(), "<html")
}

func TestUnknownPathIs404(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mu.json")
	writeSnapshot(t, path)

	srv, err := NewServer(path, logger.Noop())
	require.NoError(t, err)

	rec := get(t, srv, "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReadFailureKeepsLastGood(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mu.json")
	writeSnapshot(t, path)

	srv, err := NewServer(path, logger.Noop())
	require.NoError(t, err)

	// Prime the last-good fleet, then break the file.
	assert.Equal(t, http.StatusOK, get(t, srv, "/").Code)
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o644))

	rec := get(t, srv, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "m1", "stale data beats no data")
	assert.Contains(t, rec.Body.String(), "stale")
}

func TestNoDataAtAllIs503(t *testing.T) {
	srv, err := NewServer(filepath.Join(t.TempDir(), "missing.json"), logger.Noop())
	require.NoError(t, err)

	rec := get(t, srv, "/")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
