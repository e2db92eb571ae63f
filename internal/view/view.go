// Package view derives display-ready values from snapshots: the active
// user per machine, the hotness bucket, fleet totals, and the fleet-wide
// user ranking. All functions are pure; viewers recompute the view model
// on every poll cycle and never persist it.
package view

import (
	"fmt"
	"math"
	"sort"

	"github.com/ma3ke/mu/internal/roster"
	"github.com/ma3ke/mu/internal/snapshot"
)

// GradientSteps is the number of hotness buckets. Bucket indices run from
// 0 (idle) to GradientSteps-1 (saturated).
const GradientSteps = 10

// RankingThresholdPercent is the display cutoff for the fleet user
// ranking. Users whose share of the fleet's cores falls below it are not
// shown.
const RankingThresholdPercent = 1.0

// ActiveUser identifies the user whose processes consume the most CPU on
// a machine, how many of its samples are theirs, and their single
// hungriest process.
type ActiveUser struct {
	User  string
	Cores int
	Task  string
}

// Machine is one machine's row in the fleet view.
type Machine struct {
	Identity roster.Machine
	Snapshot snapshot.Snapshot
	// Active is nil when the machine reported no samples.
	Active *ActiveUser
	// Hotness is the bucket index in [0, GradientSteps).
	Hotness int
	// UsedCores counts the cores running strictly above the sampling
	// threshold.
	UsedCores int
}

// RankedUser is one row of the fleet user ranking. Percent is
// preformatted because it degrades to "??" when the fleet reports no
// cores at all.
type RankedUser struct {
	User    string
	Count   int
	Percent string
}

// Fleet is the display-ready model of a whole cluster snapshot.
type Fleet struct {
	Timestamp uint64
	// Machines is sorted by hostname so the layout is stable across
	// refreshes no matter what order the gather completed in.
	Machines   []Machine
	TotalCores int
	// TotalUsage is the fleet-wide CPU usage as a ratio in [0, 1].
	TotalUsage float64
	Ranking    []RankedUser
}

// ActiveUserOf groups a machine's samples by user and selects the user
// with the highest summed CPU%. Ties go to the lexicographically
// smallest user name, and the reported task is that user's highest-CPU%
// sample, again breaking ties toward the smallest process name. Returns
// nil when the snapshot has no samples.
func ActiveUserOf(s *snapshot.Snapshot) *ActiveUser {
	if len(s.Samples) == 0 {
		return nil
	}

	type tally struct {
		total float64
		count int
		task  string
		peak  float64
	}
	byUser := make(map[string]*tally)
	for _, sample := range s.Samples {
		t, ok := byUser[sample.User]
		if !ok {
			t = &tally{}
			byUser[sample.User] = t
		}
		t.total += sample.CPUPercent
		t.count++
		if sample.CPUPercent > t.peak || (sample.CPUPercent == t.peak && (t.task == "" || sample.Process < t.task)) {
			t.peak = sample.CPUPercent
			t.task = sample.Process
		}
	}

	users := make([]string, 0, len(byUser))
	for user := range byUser {
		users = append(users, user)
	}
	// Sort by an explicit secondary key so the winner never depends on
	// map iteration order.
	sort.Slice(users, func(i, j int) bool {
		a, b := byUser[users[i]], byUser[users[j]]
		if a.total != b.total {
			return a.total > b.total
		}
		return users[i] < users[j]
	})

	winner := users[0]
	t := byUser[winner]
	return &ActiveUser{User: winner, Cores: t.count, Task: t.task}
}

// HotnessBucket maps a 5-minute load average relative to the core count
// onto a gradient bucket. Total: a machine reporting zero cores lands in
// bucket 0.
func HotnessBucket(load5 float64, cores int) int {
	if cores <= 0 {
		return 0
	}
	ratio := load5 / float64(cores)
	bucket := int(math.Round(ratio * float64(GradientSteps-1)))
	if bucket < 0 {
		return 0
	}
	if bucket > GradientSteps-1 {
		return GradientSteps - 1
	}
	return bucket
}

// UsedCores counts the per-core readings strictly above the sampling
// threshold.
func UsedCores(s *snapshot.Snapshot) int {
	used := 0
	for _, pct := range s.PerCorePercent {
		if pct > snapshot.UsageThresholdPercent {
			used++
		}
	}
	return used
}

// machineView assembles one machine's row.
func machineView(entry snapshot.Entry) Machine {
	return Machine{
		Identity:  entry.Identity,
		Snapshot:  entry.Snapshot,
		Active:    ActiveUserOf(&entry.Snapshot),
		Hotness:   HotnessBucket(entry.Snapshot.LoadAvg.Five, entry.Snapshot.CoreCount()),
		UsedCores: UsedCores(&entry.Snapshot),
	}
}

// BuildFleet computes the display model for a whole cluster snapshot.
func BuildFleet(c *snapshot.ClusterSnapshot) Fleet {
	fleet := Fleet{Timestamp: c.Timestamp}

	var usageSum float64
	for _, entry := range c.Entries {
		fleet.Machines = append(fleet.Machines, machineView(entry))
		fleet.TotalCores += entry.Snapshot.CoreCount()
		for _, pct := range entry.Snapshot.PerCorePercent {
			usageSum += pct
		}
	}
	sort.Slice(fleet.Machines, func(i, j int) bool {
		return fleet.Machines[i].Identity.Hostname < fleet.Machines[j].Identity.Hostname
	})

	if fleet.TotalCores > 0 {
		fleet.TotalUsage = usageSum / (float64(fleet.TotalCores) * 100.0)
	}

	fleet.Ranking = rankUsers(c, fleet.TotalCores)
	return fleet
}

// rankUsers builds the fleet-wide user leaderboard: total sample count
// per user, sorted descending by count then ascending by name, with
// users below the display threshold filtered out. With zero total cores
// no percentage can be computed; every user shows "??" and the filter is
// skipped.
func rankUsers(c *snapshot.ClusterSnapshot, totalCores int) []RankedUser {
	counts := make(map[string]int)
	for _, entry := range c.Entries {
		for _, sample := range entry.Snapshot.Samples {
			counts[sample.User]++
		}
	}

	ranking := make([]RankedUser, 0, len(counts))
	for user, count := range counts {
		if totalCores == 0 {
			ranking = append(ranking, RankedUser{User: user, Count: count, Percent: "??"})
			continue
		}
		percent := 100.0 * float64(count) / float64(totalCores)
		if percent < RankingThresholdPercent {
			continue
		}
		ranking = append(ranking, RankedUser{
			User:    user,
			Count:   count,
			Percent: fmt.Sprintf("%.0f%%", percent),
		})
	}
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].Count != ranking[j].Count {
			return ranking[i].Count > ranking[j].Count
		}
		return ranking[i].User < ranking[j].User
	})
	return ranking
}
