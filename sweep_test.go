package grooming

import (
	"context"
	"testing"

	"github.com/iti/rngstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallSweepConfig() *Config {
	cfg := DefaultConfig()
	cfg.Sweep.StartServices = 5
	cfg.Sweep.Step = 5
	cfg.Sweep.MaxSteps = 3
	cfg.Sweep.Replicates = 3
	cfg.Sweep.Workers = 2
	return cfg
}

func TestSweepSchedule(t *testing.T) {
	cfg := smallSweepConfig()
	tp := RandomTopology("full", 6, 1.0, rngstream.New("sweep-schedule-topo"))

	sw := CreateSweep("schedule", 0, tp, cfg.Policy, cfg.Sweep, rngstream.New("sweep-schedule"))
	rpt, err := sw.Run()
	require.NoError(t, err)

	require.NotEmpty(t, rpt.Points)
	require.LessOrEqual(t, len(rpt.Points), cfg.Sweep.MaxSteps)
	for idx, pt := range rpt.Points {
		assert.Equal(t, idx, pt.Step)
		assert.Equal(t, cfg.Sweep.StartServices+idx*cfg.Sweep.Step, pt.Services)
		if pt.Blocked == 0 {
			// every service rides its direct link, which grooming can only pack tighter
			assert.LessOrEqual(t, pt.Grooming, pt.NoGrooming)
		}
	}

	last, ok := rpt.Final()
	require.True(t, ok)
	if len(rpt.Points) < cfg.Sweep.MaxSteps {
		assert.GreaterOrEqual(t, last.BlockingRatio, cfg.Sweep.BlockingThreshold)
	}
	assert.Equal(t, 6, rpt.Nodes)
	assert.Equal(t, 15, rpt.Links)
}

func TestSweepStopsAtBlockingThreshold(t *testing.T) {
	cfg := smallSweepConfig()
	cfg.Policy.MaxOduCount = 1
	tp := lineTopology(t, 3)

	// three nodes with room for one endpoint each carry at most one service
	sw := CreateSweep("blocking", 0, tp, cfg.Policy, cfg.Sweep, rngstream.New("sweep-blocking"))
	rpt, err := sw.Run()
	require.NoError(t, err)

	require.Len(t, rpt.Points, 1)
	assert.GreaterOrEqual(t, rpt.Points[0].Blocked, 4)
	assert.GreaterOrEqual(t, rpt.Points[0].BlockingRatio, cfg.Sweep.BlockingThreshold)
}

func TestSweepTrace(t *testing.T) {
	cfg := smallSweepConfig()
	cfg.Policy.MaxOduCount = 1
	tp := lineTopology(t, 3)
	tm := CreateTraceManager("blocking", true)

	sw := CreateSweep("blocking", 0, tp, cfg.Policy, cfg.Sweep, rngstream.New("sweep-trace"))
	sw.SetTraceManager(tm)
	_, err := sw.Run()
	require.NoError(t, err)

	// every service of the single step is tried on its one path
	assert.Equal(t, cfg.Sweep.StartServices, tm.NumTrials())
	for _, rec := range tm.Trials[0] {
		assert.Equal(t, 0.0, rec.Time)
	}
}

func TestRunReplicates(t *testing.T) {
	cfg := smallSweepConfig()
	tp := RandomTopology("full", 6, 1.0, rngstream.New("replicates-topo"))

	reports, err := RunReplicates(context.Background(), "rep", tp, cfg, nil)
	require.NoError(t, err)
	require.Len(t, reports, cfg.Sweep.Replicates)
	for idx, rpt := range reports {
		require.NotNil(t, rpt)
		assert.Equal(t, idx, rpt.Replicate)
		assert.NotEmpty(t, rpt.Points)
	}
}

func TestRunReplicatesCancelled(t *testing.T) {
	cfg := smallSweepConfig()
	tp := lineTopology(t, 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RunReplicates(ctx, "cancelled", tp, cfg, nil)
	assert.ErrorContains(t, err, context.Canceled.Error())
}
