package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ma3ke/mu/internal/errors"
)

// NewClusterSnapshot stamps a fresh fleet report with the current
// wall-clock time.
func NewClusterSnapshot(entries []Entry) *ClusterSnapshot {
	return &ClusterSnapshot{
		Timestamp: uint64(time.Now().Unix()),
		Entries:   entries,
	}
}

// Time returns the timestamp as a time.Time.
func (c *ClusterSnapshot) Time() time.Time {
	return time.Unix(int64(c.Timestamp), 0)
}

// Persist writes the cluster snapshot to path. The snapshot is serialized
// fully in memory, written to a temporary file next to the destination,
// and renamed into place, so readers polling the file never observe a
// truncated report.
//
// If a previously persisted snapshot at path carries a later timestamp
// (clock steps between runs), the new snapshot is stamped up to it so
// timestamps never move backwards for readers.
func Persist(c *ClusterSnapshot, path string) error {
	if prev, err := Read(path); err == nil && prev.Timestamp > c.Timestamp {
		c.Timestamp = prev.Timestamp
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrPersist,
			"Can't serialize the cluster snapshot", "")
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrPersist,
			fmt.Sprintf("Can't create a temporary file in %s", dir),
			"Check the output directory exists and is writable")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.WrapWithCode(err, errors.ErrPersist,
			fmt.Sprintf("Can't write the cluster snapshot to %s", tmpName), "")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.WrapWithCode(err, errors.ErrPersist,
			fmt.Sprintf("Can't finish writing %s", tmpName), "")
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.WrapWithCode(err, errors.ErrPersist,
			fmt.Sprintf("Can't move the cluster snapshot into place at %s", path), "")
	}

	return nil
}

// Read loads a persisted cluster snapshot. The file is read fully into
// memory before parsing; together with the atomic rename in Persist this
// keeps concurrent readers from seeing a half-written report.
func Read(path string) (*ClusterSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrView,
			fmt.Sprintf("Can't read the snapshot file %s", path),
			"Has a gather run written it yet?")
	}

	var c ClusterSnapshot
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrView,
			fmt.Sprintf("Snapshot file %s doesn't parse", path), "")
	}
	return &c, nil
}
