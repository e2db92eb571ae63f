// Package snapshot defines the wire format shared by the sampler, the
// orchestrator, and the viewers: a single machine's usage report
// (Snapshot) and the aggregated fleet-wide report (ClusterSnapshot).
// Values are immutable after creation; every sampling run and every
// gather run produces fresh ones.
package snapshot

import (
	"encoding/json"

	"github.com/ma3ke/mu/internal/roster"
)

// UsageThresholdPercent is the CPU% below which a process observation is
// dropped by the sampler. The viewers reuse it to count "used" cores.
const UsageThresholdPercent = 10.0

// Sample is one (process, user) observation that passed the sampler's
// filtering policy. CPUPercent is always at or above
// UsageThresholdPercent; lower readings are never stored.
type Sample struct {
	Process    string  `json:"process_name"`
	User       string  `json:"user"`
	CPUPercent float64 `json:"cpu_percent"`
}

// LoadAvg carries the 1/5/15-minute load averages.
type LoadAvg struct {
	One     float64 `json:"one"`
	Five    float64 `json:"five"`
	Fifteen float64 `json:"fifteen"`
}

// Memory carries used and total memory in bytes.
type Memory struct {
	Used  uint64 `json:"used"`
	Total uint64 `json:"total"`
}

// Snapshot is one machine's point-in-time usage report, produced
// atomically by a single sampler invocation. PerCorePercent has one entry
// per physical core and its length is stable across refreshes of the same
// machine.
type Snapshot struct {
	Hostname         string    `json:"hostname"`
	GlobalCPUPercent float64   `json:"global_cpu_percent"`
	PerCorePercent   []float64 `json:"per_core_percent"`
	LoadAvg          LoadAvg   `json:"load_avg"`
	Memory           Memory    `json:"memory"`
	Samples          []Sample  `json:"samples"`
}

// CoreCount returns the machine's core count.
func (s *Snapshot) CoreCount() int {
	return len(s.PerCorePercent)
}

// Entry pairs a roster identity with the snapshot gathered from it.
type Entry struct {
	Identity roster.Machine `json:"identity"`
	Snapshot Snapshot       `json:"snapshot"`
}

// ClusterSnapshot is the aggregated fleet-wide report. Machines whose
// gather failed are simply absent. Owned by the orchestrator until
// persisted; immutable shared state afterwards.
type ClusterSnapshot struct {
	Timestamp uint64  `json:"timestamp"`
	Entries   []Entry `json:"entries"`
}

// Encode serializes a snapshot for transport over the sampler's stdout.
func (s *Snapshot) Encode() ([]byte, error) {
	return json.Marshal(s)
}

// DecodeSnapshot parses a single machine's sampler output.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
