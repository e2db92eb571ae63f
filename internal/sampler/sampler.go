// Package sampler turns a raw probe reading into a machine's Snapshot by
// applying the filtering and renaming policy.
package sampler

import (
	"os"
	"time"

	"github.com/ma3ke/mu/internal/policy"
	"github.com/ma3ke/mu/internal/probe"
	"github.com/ma3ke/mu/internal/snapshot"
)

// Sampler produces snapshots of the local machine.
type Sampler struct {
	prober  probe.Prober
	selfPID int32
	sleep   func(time.Duration)
}

// New creates a sampler over the given prober.
func New(prober probe.Prober) *Sampler {
	return &Sampler{
		prober:  prober,
		selfPID: int32(os.Getpid()),
		sleep:   time.Sleep,
	}
}

// Sample probes the machine twice, separated by the prober's warm-up
// interval, and returns a fresh Snapshot with the policy applied. On any
// probe failure no partial snapshot is returned.
func (s *Sampler) Sample(pol *policy.Policy) (*snapshot.Snapshot, error) {
	if pol == nil {
		pol = policy.Empty()
	}

	// First read primes the CPU counters; the percentages only mean
	// something on the second read.
	if err := s.prober.Warm(); err != nil {
		return nil, err
	}
	s.sleep(s.prober.WarmupInterval())

	reading, err := s.prober.Read()
	if err != nil {
		return nil, err
	}

	snap := &snapshot.Snapshot{
		Hostname:         reading.Hostname,
		GlobalCPUPercent: reading.GlobalCPUPercent,
		PerCorePercent:   reading.PerCorePercent,
		LoadAvg: snapshot.LoadAvg{
			One:     reading.Load1,
			Five:    reading.Load5,
			Fifteen: reading.Load15,
		},
		Memory: snapshot.Memory{
			Used:  reading.MemoryUsed,
			Total: reading.MemoryTotal,
		},
	}

	for _, proc := range reading.Processes {
		if proc.PID == s.selfPID {
			// Never report the sampler itself.
			continue
		}

		// Three independent exclusion checks; the ignore checks match on
		// the original process name.
		if pol.IsIgnoredUser(proc.User) || pol.IsIgnoredProcess(proc.Name) {
			continue
		}
		if proc.CPUPercent < snapshot.UsageThresholdPercent {
			continue
		}

		snap.Samples = append(snap.Samples, snapshot.Sample{
			Process:    pol.CanonicalName(proc.Name),
			User:       proc.User,
			CPUPercent: proc.CPUPercent,
		})
	}

	return snap, nil
}
