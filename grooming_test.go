package grooming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinkLoadLightpaths(t *testing.T) {
	testCases := []struct {
		low, high  int
		lightpaths int
	}{
		{0, 0, 0},
		{50, 0, 1},
		{51, 0, 2},
		{0, 5, 1},
		{0, 6, 2},
		{1, 1, 2},
	}
	for _, tc := range testCases {
		ll := LinkLoad{Link: NewLink(1, 2), Low: tc.low, High: tc.high}
		assert.Equal(t, tc.lightpaths, ll.Lightpaths(), "low %d high %d", tc.low, tc.high)
	}
}

func TestNoGroomingLightpaths(t *testing.T) {
	services := []ServiceRequest{
		{ID: 0, Src: 1, Dst: 3, Size: OduLow, Paths: [][]NodeID{{1, 2, 3}, {1, 4, 3}}},
		{ID: 1, Src: 2, Dst: 1, Size: OduHigh, Paths: [][]NodeID{{2, 1}}},
		{ID: 2, Src: 1, Dst: 9, Size: OduHigh},
	}

	total, loads := NoGroomingLightpaths(services)
	assert.Equal(t, 3, total)
	assert.Equal(t, []LinkLoad{
		{Link: Link{1, 2}, Low: 1, High: 1},
		{Link: Link{2, 3}, Low: 1, High: 0},
	}, loads)
}

func TestGroomingSavesOnSharedLinks(t *testing.T) {
	tp := lineTopology(t, 2)
	services := make([]ServiceRequest, 0, 6)
	for id := 0; id < 3; id++ {
		services = append(services, request(t, tp, id, OduLow, 1, 2))
		services = append(services, request(t, tp, id+3, OduHigh, 2, 1))
	}

	noGrooming, _ := NoGroomingLightpaths(services)
	result := CreateAdmissionSimulator(tp, DefaultPolicy()).Run(services)

	// 3 LOW and 3 HIGH need a lightpath per class without grooming, 330 units fit one
	assert.Equal(t, 2, noGrooming)
	assert.Equal(t, 1, result.Lightpaths)
	assert.Equal(t, 0.5, SavingsRatio(noGrooming, result.Lightpaths))
}

func TestSavingsRatio(t *testing.T) {
	assert.Equal(t, 0.0, SavingsRatio(0, 0))
	assert.InDelta(t, 0.6, SavingsRatio(10, 4), 1e-9)
	assert.InDelta(t, -0.5, SavingsRatio(2, 3), 1e-9)
}
