// Package probe wraps OS introspection behind a small interface. It
// reports raw, unfiltered readings; deciding what to keep is the
// sampler's job.
package probe

import "time"

// MinimumWarmupInterval is the smallest useful gap between the warm-up
// read and the real read. CPU percentages are deltas between two reads;
// reading immediately after process start yields zeros.
const MinimumWarmupInterval = 200 * time.Millisecond

// Process is one raw per-process observation.
type Process struct {
	PID        int32
	Name       string
	User       string // resolved user name, "?" when resolution failed
	CPUPercent float64
}

// Reading is one full observation of the local machine.
type Reading struct {
	Hostname         string
	GlobalCPUPercent float64
	PerCorePercent   []float64
	Load1            float64
	Load5            float64
	Load15           float64
	MemoryUsed       uint64
	MemoryTotal      uint64
	Processes        []Process
}

// Prober produces readings of the local machine.
//
// Callers must Warm first, wait at least WarmupInterval, then Read; the
// warm-up primes the CPU counters that Read computes deltas against.
// This ordering is a hard requirement, not an optimization.
type Prober interface {
	Warm() error
	WarmupInterval() time.Duration
	Read() (*Reading, error)
}
