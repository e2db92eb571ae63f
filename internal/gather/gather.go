// Package gather implements the orchestrator: it fans out to every
// machine in the roster, runs the sampler there, and aggregates the
// snapshots that came back into a single ClusterSnapshot.
package gather

import (
	"context"
	"sync"
	"time"

	"github.com/ma3ke/mu/internal/errors"
	"github.com/ma3ke/mu/internal/logger"
	"github.com/ma3ke/mu/internal/roster"
	"github.com/ma3ke/mu/internal/snapshot"
)

// Default knobs for a gather run.
const (
	DefaultWorkers = 16
	DefaultTimeout = 30 * time.Second
)

// RemoteExecutor runs the sampler on a remote machine and returns its raw
// stdout. Implementations must honor ctx cancellation by returning; they
// need not tear down an in-flight remote command.
type RemoteExecutor interface {
	Sample(ctx context.Context, hostname string) ([]byte, error)
}

// Summary reports how a gather run went.
type Summary struct {
	Successes int
	Total     int
}

// Options tune a gather run. The zero value picks the defaults.
type Options struct {
	// Workers bounds how many machines are probed at once. One unit of
	// work per machine with no cap invites resource exhaustion on large
	// rosters, so the fan-out runs through a fixed-size pool.
	Workers int
	// Timeout is the per-machine deadline. Expiry counts as a connection
	// failure for that machine only.
	Timeout time.Duration
	Logger  logger.Logger
}

func (o *Options) withDefaults() Options {
	opts := *o
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = logger.Default()
	}
	return opts
}

// Gather samples every machine in the roster concurrently and returns the
// aggregated cluster snapshot plus a (successes, total) summary.
//
// Each machine gets exactly one attempt. A machine's failure (dial,
// non-zero exit, undecodable output, deadline) is logged with the
// hostname and root cause and the machine is left out of the result; it
// never interferes with the other machines. Aggregation happens only
// after every unit of work has finished, and entries appear in roster
// order regardless of completion order.
func Gather(ctx context.Context, machines []roster.Machine, exec RemoteExecutor, opts Options) (*snapshot.ClusterSnapshot, Summary) {
	opts = opts.withDefaults()
	log := opts.Logger

	// Each unit of work owns exactly one slot; no shared mutable state
	// during gathering.
	results := make([]*snapshot.Snapshot, len(machines))

	sem := make(chan struct{}, opts.Workers)
	var wg sync.WaitGroup
	for i, machine := range machines {
		wg.Add(1)
		go func(i int, machine roster.Machine) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			snap, err := gatherOne(ctx, machine.Hostname, exec, opts.Timeout)
			if err != nil {
				log.Warn("(%s) %v", machine.Hostname, err)
				return
			}
			log.Info("(%s) done.", machine.Hostname)
			results[i] = snap
		}(i, machine)
	}
	// Full barrier: no partial aggregation, ever.
	wg.Wait()

	var entries []snapshot.Entry
	for i, snap := range results {
		if snap == nil {
			continue
		}
		entries = append(entries, snapshot.Entry{
			Identity: machines[i],
			Snapshot: *snap,
		})
	}

	summary := Summary{Successes: len(entries), Total: len(machines)}
	log.Info("All machines have been gathered. (%d/%d success)", summary.Successes, summary.Total)

	return snapshot.NewClusterSnapshot(entries), summary
}

// gatherOne runs the sampler on one machine under its own deadline and
// decodes the snapshot it printed.
func gatherOne(ctx context.Context, hostname string, exec RemoteExecutor, timeout time.Duration) (*snapshot.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	output, err := exec.Sample(ctx, hostname)
	if err != nil {
		return nil, err
	}

	snap, err := snapshot.DecodeSnapshot(output)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrDecode,
			"Sampler output doesn't parse as a snapshot",
			"Is the sampler on that machine the same mu version?")
	}
	return snap, nil
}
