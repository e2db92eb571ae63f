package probe

import (
	"os"
	"os/user"
	"strconv"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"

	"github.com/ma3ke/mu/internal/errors"
)

// systemProber reads the local machine through gopsutil.
type systemProber struct {
	procs []*process.Process
}

// NewSystem returns a Prober backed by the real OS counters.
func NewSystem() Prober {
	return &systemProber{}
}

func (p *systemProber) WarmupInterval() time.Duration {
	return MinimumWarmupInterval
}

// Warm primes the global, per-core, and per-process CPU counters. The
// process handles are retained so the second read computes deltas against
// the same accounting state.
func (p *systemProber) Warm() error {
	if _, err := cpu.Percent(0, false); err != nil {
		return errors.WrapWithCode(err, errors.ErrExec,
			"Can't prime the CPU counters", "")
	}
	if _, err := cpu.Percent(0, true); err != nil {
		return errors.WrapWithCode(err, errors.ErrExec,
			"Can't prime the per-core CPU counters", "")
	}

	procs, err := process.Processes()
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrExec,
			"Can't list processes", "")
	}
	for _, proc := range procs {
		// Prime the per-process counter; the value is discarded.
		proc.Percent(0) //nolint:errcheck
	}
	p.procs = procs
	return nil
}

func (p *systemProber) Read() (*Reading, error) {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "?"
	}

	global, err := cpu.Percent(0, false)
	if err != nil || len(global) == 0 {
		return nil, errors.WrapWithCode(err, errors.ErrExec,
			"Can't read global CPU usage", "")
	}
	perCore, err := cpu.Percent(0, true)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrExec,
			"Can't read per-core CPU usage", "")
	}

	reading := &Reading{
		Hostname:         hostname,
		GlobalCPUPercent: global[0],
		PerCorePercent:   perCore,
	}

	if avg, err := load.Avg(); err == nil {
		reading.Load1 = avg.Load1
		reading.Load5 = avg.Load5
		reading.Load15 = avg.Load15
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		reading.MemoryUsed = vm.Used
		reading.MemoryTotal = vm.Total
	}

	for _, proc := range p.procs {
		pct, err := proc.Percent(0)
		if err != nil {
			continue // Process exited between reads.
		}
		name, err := proc.Name()
		if err != nil {
			continue
		}
		reading.Processes = append(reading.Processes, Process{
			PID:        proc.Pid,
			Name:       name,
			User:       resolveUser(proc),
			CPUPercent: pct,
		})
	}

	return reading, nil
}

// resolveUser names the owning user of a process, preferring the
// effective UID over the real one, with "?" when nothing resolves.
func resolveUser(proc *process.Process) string {
	if uids, err := proc.Uids(); err == nil && len(uids) > 0 {
		uid := uids[0] // real
		if len(uids) > 1 {
			uid = uids[1] // effective
		}
		if u, err := user.LookupId(strconv.FormatUint(uint64(uid), 10)); err == nil {
			return u.Username
		}
	}
	if name, err := proc.Username(); err == nil && name != "" {
		return name
	}
	return "?"
}
