package grooming

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *SweepReport {
	return &SweepReport{
		Name:      "sample",
		Replicate: 2,
		Topology:  "ring",
		Nodes:     4,
		Links:     4,
		Policy:    DefaultPolicy(),
		Points: []SweepPoint{
			{Step: 0, Services: 30, NoGrooming: 40, Grooming: 25, BlockingRatio: 0, SavingsRatio: 0.375},
			{Step: 1, Services: 40, NoGrooming: 52, Grooming: 33, Blocked: 1, BlockingRatio: 0.025,
				SavingsRatio: 19.0 / 52.0},
		},
	}
}

func TestSweepReportSummary(t *testing.T) {
	summary := sampleReport().Summary()
	lines := strings.Split(strings.TrimSpace(summary), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "sample (replicate 2): topology ring, 4 nodes, 4 links")
	assert.Contains(t, lines[1], "no grooming")
	assert.Contains(t, lines[2], "37.50%")
	assert.Contains(t, lines[3], "2.50%")
}

func TestSweepReportFiles(t *testing.T) {
	rpt := sampleReport()
	dir := t.TempDir()

	for _, name := range []string{"report.json", "report.yaml"} {
		filename := filepath.Join(dir, name)
		require.NoError(t, rpt.WriteToFile(filename))
		loaded, err := ReadSweepReport(filename, strings.HasSuffix(name, ".yaml"), nil)
		require.NoError(t, err, name)
		assert.Equal(t, rpt, loaded, name)
	}
}

func TestSweepReportFinal(t *testing.T) {
	_, ok := (&SweepReport{}).Final()
	assert.False(t, ok)

	last, ok := sampleReport().Final()
	require.True(t, ok)
	assert.Equal(t, 40, last.Services)
}
