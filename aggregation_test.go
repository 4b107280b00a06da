package grooming

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregationNeighborCreatedOnFirstUse(t *testing.T) {
	agn := CreateAggregationLayerNode(1)
	_, present := agn.NeighborExchange(7)
	assert.False(t, present)

	require.NoError(t, agn.ExchangeWithNeighbor(OduLow, 2, DirOut, 7))
	ex, present := agn.NeighborExchange(7)
	require.True(t, present)
	assert.Equal(t, OduCount{2, 0}, ex.Out)
	assert.Equal(t, OduCount{}, ex.In)

	require.NoError(t, agn.ExchangeWithNeighbor(OduHigh, 1, DirIn, 3))
	assert.Equal(t, []NodeID{3, 7}, agn.NeighborIDs())
}

func TestAggregationResources(t *testing.T) {
	agn := CreateAggregationLayerNode(1)
	require.NoError(t, agn.ExchangeWithOutside(OduLow, 3, DirIn))
	require.NoError(t, agn.ExchangeWithOutside(OduHigh, 2, DirOut))
	require.NoError(t, agn.ExchangeWithNeighbor(OduLow, 15, DirOut, 7))

	agn.SynchronizeWithAccessLayer()
	assert.Equal(t, OduCount{3, 2}, agn.AccessExchange)

	// access pool 3 + outside pool 3 + neighbor pool 2
	assert.Equal(t, 3, agn.AccessCards())
	assert.Equal(t, 8, agn.RequiredCards())

	// outside 230 -> 1, neighbor 150 -> 1
	assert.Equal(t, 2, agn.LightpathCount())
	assert.Equal(t, 3*100+2*500, agn.RequiredCapacity())

	assert.Equal(t, 5, agn.TotalOduCount())
	assert.Equal(t, 15, agn.NeighborOduCount())

	agn.SynchronizeWithAccessLayer()
	assert.Equal(t, 8, agn.RequiredCards())
}

func TestAggregationRejectsBadUpdates(t *testing.T) {
	agn := CreateAggregationLayerNode(1)
	assert.ErrorIs(t, agn.ExchangeWithOutside(OduSize(5), 1, DirIn), ErrInvalidDemandSize)
	assert.ErrorIs(t, agn.ExchangeWithNeighbor(OduLow, -1, DirOut, 2), ErrNegativeCount)
	assert.Equal(t, 0, agn.TotalOduCount())
}
