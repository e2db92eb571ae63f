package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ma3ke/mu/internal/roster"
	"github.com/ma3ke/mu/internal/snapshot"
)

func snapWithSamples(samples ...snapshot.Sample) snapshot.Snapshot {
	return snapshot.Snapshot{
		Hostname:       "m1",
		PerCorePercent: []float64{0, 0, 0, 0},
		Samples:        samples,
	}
}

func TestActiveUserPicksHighestSum(t *testing.T) {
	s := snapWithSamples(
		snapshot.Sample{Process: "ffmpeg", User: "ann", CPUPercent: 80},
		snapshot.Sample{Process: "python", User: "ann", CPUPercent: 30},
		snapshot.Sample{Process: "blender", User: "bob", CPUPercent: 95},
	)

	active := ActiveUserOf(&s)
	require.NotNil(t, active)
	assert.Equal(t, "ann", active.User, "ann's 110 beats bob's 95")
	assert.Equal(t, 2, active.Cores)
	assert.Equal(t, "ffmpeg", active.Task, "task is ann's hungriest process")
}

func TestActiveUserTieBreaksByName(t *testing.T) {
	s := snapWithSamples(
		snapshot.Sample{Process: "b-proc", User: "zoe", CPUPercent: 50},
		snapshot.Sample{Process: "a-proc", User: "ann", CPUPercent: 50},
	)

	active := ActiveUserOf(&s)
	require.NotNil(t, active)
	assert.Equal(t, "ann", active.User)
}

func TestActiveUserTaskTieBreaksByName(t *testing.T) {
	s := snapWithSamples(
		snapshot.Sample{Process: "zsh", User: "ann", CPUPercent: 50},
		snapshot.Sample{Process: "awk", User: "ann", CPUPercent: 50},
	)

	active := ActiveUserOf(&s)
	require.NotNil(t, active)
	assert.Equal(t, "awk", active.Task)
}

func TestActiveUserAbsentWithoutSamples(t *testing.T) {
	s := snapWithSamples()
	assert.Nil(t, ActiveUserOf(&s))
}

func TestActiveUserIsIdempotent(t *testing.T) {
	s := snapWithSamples(
		snapshot.Sample{Process: "ffmpeg", User: "ann", CPUPercent: 40},
		snapshot.Sample{Process: "make", User: "bob", CPUPercent: 40},
		snapshot.Sample{Process: "cc1", User: "bob", CPUPercent: 0.0},
	)

	first := ActiveUserOf(&s)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, ActiveUserOf(&s))
	}
}

func TestHotnessBucket(t *testing.T) {
	tests := []struct {
		name   string
		load5  float64
		cores  int
		bucket int
	}{
		{"idle", 0.0, 8, 0},
		{"half loaded", 4.0, 8, 5}, // round(0.5 * 9)
		{"fully loaded", 8.0, 8, 9},
		{"overloaded clamps", 32.0, 8, 9},
		{"zero cores is total", 3.0, 0, 0},
		{"small load rounds down", 0.4, 8, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.bucket, HotnessBucket(tt.load5, tt.cores))
		})
	}
}

func TestHotnessBucketMonotonic(t *testing.T) {
	const cores = 16
	prev := 0
	for load := 0.0; load <= float64(2*cores); load += 0.1 {
		bucket := HotnessBucket(load, cores)
		assert.GreaterOrEqual(t, bucket, prev, "load %f", load)
		assert.Less(t, bucket, GradientSteps)
		prev = bucket
	}
}

func TestUsedCoresStrictlyAboveThreshold(t *testing.T) {
	s := snapshot.Snapshot{
		PerCorePercent: []float64{0.0, 10.0, 10.1, 99.0},
	}
	// Exactly at the threshold does not count as used.
	assert.Equal(t, 2, UsedCores(&s))
}

func fleetOf(entries ...snapshot.Entry) *snapshot.ClusterSnapshot {
	return &snapshot.ClusterSnapshot{Timestamp: 1700000000, Entries: entries}
}

func entry(hostname string, cores []float64, load5 float64, samples ...snapshot.Sample) snapshot.Entry {
	return snapshot.Entry{
		Identity: roster.Machine{Hostname: hostname, Room: "lab", Owner: roster.Owner{Kind: roster.OwnerUnowned}},
		Snapshot: snapshot.Snapshot{
			Hostname:       hostname,
			PerCorePercent: cores,
			LoadAvg:        snapshot.LoadAvg{Five: load5},
			Samples:        samples,
		},
	}
}

func TestBuildFleetTotals(t *testing.T) {
	c := fleetOf(
		entry("m2", []float64{100, 0}, 1.0),
		entry("m1", []float64{50, 50}, 0.5),
	)

	fleet := BuildFleet(c)

	assert.Equal(t, uint64(1700000000), fleet.Timestamp)
	assert.Equal(t, 4, fleet.TotalCores)
	assert.InDelta(t, 0.5, fleet.TotalUsage, 1e-9)
	// Machines come back sorted by hostname, not gather order.
	require.Len(t, fleet.Machines, 2)
	assert.Equal(t, "m1", fleet.Machines[0].Identity.Hostname)
	assert.Equal(t, "m2", fleet.Machines[1].Identity.Hostname)
}

func TestBuildFleetEmpty(t *testing.T) {
	fleet := BuildFleet(fleetOf())
	assert.Zero(t, fleet.TotalCores)
	assert.Zero(t, fleet.TotalUsage)
	assert.Empty(t, fleet.Machines)
	assert.Empty(t, fleet.Ranking)
}

func TestRankingOrderAndTieBreak(t *testing.T) {
	// alice 4, bob 4, carl 1 over 10 cores.
	c := fleetOf(
		entry("m1", []float64{0, 0, 0, 0, 0},
			0,
			snapshot.Sample{Process: "a", User: "alice", CPUPercent: 50},
			snapshot.Sample{Process: "b", User: "alice", CPUPercent: 50},
			snapshot.Sample{Process: "c", User: "bob", CPUPercent: 50},
			snapshot.Sample{Process: "d", User: "bob", CPUPercent: 50},
		),
		entry("m2", []float64{0, 0, 0, 0, 0},
			0,
			snapshot.Sample{Process: "e", User: "alice", CPUPercent: 50},
			snapshot.Sample{Process: "f", User: "alice", CPUPercent: 50},
			snapshot.Sample{Process: "g", User: "bob", CPUPercent: 50},
			snapshot.Sample{Process: "h", User: "bob", CPUPercent: 50},
			snapshot.Sample{Process: "i", User: "carl", CPUPercent: 50},
		),
	)

	fleet := BuildFleet(c)

	require.Len(t, fleet.Ranking, 3)
	assert.Equal(t, RankedUser{User: "alice", Count: 4, Percent: "40%"}, fleet.Ranking[0])
	assert.Equal(t, RankedUser{User: "bob", Count: 4, Percent: "40%"}, fleet.Ranking[1])
	assert.Equal(t, RankedUser{User: "carl", Count: 1, Percent: "10%"}, fleet.Ranking[2])
}

func TestRankingFiltersBelowOnePercent(t *testing.T) {
	cores := make([]float64, 200)
	c := fleetOf(
		entry("m1", cores, 0,
			snapshot.Sample{Process: "big", User: "alice", CPUPercent: 50},
			snapshot.Sample{Process: "big", User: "alice", CPUPercent: 50},
			snapshot.Sample{Process: "big", User: "alice", CPUPercent: 50},
			snapshot.Sample{Process: "tiny", User: "bob", CPUPercent: 50},
		),
	)

	fleet := BuildFleet(c)

	// bob's 1/200 = 0.5% falls under the 1% display threshold.
	require.Len(t, fleet.Ranking, 1)
	assert.Equal(t, "alice", fleet.Ranking[0].User)
}

func TestRankingZeroCoresShowsPlaceholder(t *testing.T) {
	c := fleetOf(
		entry("m1", nil, 0,
			snapshot.Sample{Process: "p", User: "ann", CPUPercent: 50},
		),
	)

	fleet := BuildFleet(c)

	require.Len(t, fleet.Ranking, 1)
	assert.Equal(t, "??", fleet.Ranking[0].Percent)
}

func TestMachineViewFields(t *testing.T) {
	c := fleetOf(
		entry("m1", []float64{90, 90, 0, 0}, 2.0,
			snapshot.Sample{Process: "ffmpeg", User: "ann", CPUPercent: 180},
		),
	)

	fleet := BuildFleet(c)

	m := fleet.Machines[0]
	require.NotNil(t, m.Active)
	assert.Equal(t, "ann", m.Active.User)
	assert.Equal(t, 2, m.UsedCores)
	assert.Equal(t, HotnessBucket(2.0, 4), m.Hotness)
}
