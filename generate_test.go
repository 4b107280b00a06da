package grooming

import (
	"testing"

	"github.com/iti/rngstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomTopologyExtremes(t *testing.T) {
	rng := rngstream.New("random-topology-test")

	full := RandomTopology("full", 6, 1.0, rng)
	assert.Len(t, full.Links(), 15)
	assert.True(t, full.Connected())

	empty := RandomTopology("empty", 6, 0.0, rng)
	assert.Equal(t, 6, empty.NumNodes())
	assert.Empty(t, empty.Links())
}

func TestGenerateServices(t *testing.T) {
	rng := rngstream.New("generate-services-test")
	tp := RandomTopology("full", 8, 1.0, rng)

	services, err := GenerateServices(tp, 200, 3, rng)
	require.NoError(t, err)
	require.Len(t, services, 200)

	sizes := map[OduSize]int{}
	for idx, sr := range services {
		assert.Equal(t, idx, sr.ID)
		assert.NotEqual(t, sr.Src, sr.Dst)
		assert.True(t, tp.HasNode(sr.Src))
		assert.True(t, tp.HasNode(sr.Dst))
		require.Len(t, sr.Paths, 3)
		for _, path := range sr.Paths {
			assert.Equal(t, sr.Src, path[0])
			assert.Equal(t, sr.Dst, path[len(path)-1])
		}
		// in a complete graph the direct link is always found first
		assert.Len(t, sr.Paths[0], 2)
		sizes[sr.Size] += 1
	}
	assert.Positive(t, sizes[OduLow])
	assert.Positive(t, sizes[OduHigh])
}

func TestGenerateServicesNeedsTwoNodes(t *testing.T) {
	_, err := GenerateServices(CreateNumberedTopology("one", 1), 5, 3, rngstream.New("one-node"))
	assert.Error(t, err)
}
