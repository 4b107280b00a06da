package grooming

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessLayerNode(t *testing.T) {
	aln := CreateAccessLayerNode(4)
	require.NoError(t, aln.ReceiveFromOutside(OduLow, 11))
	require.NoError(t, aln.SendToOutside(OduHigh, 1))

	// forward pool is still empty
	assert.Equal(t, 3, aln.RequiredCards())

	aln.Synchronize()
	assert.Equal(t, aln.In, aln.ForwardToAggregation)
	assert.Equal(t, aln.Out, aln.ForwardFromAggregation)
	assert.Equal(t, 6, aln.RequiredCards())
	assert.Equal(t, 600, aln.RequiredCapacity())

	aln.Synchronize()
	assert.Equal(t, 6, aln.RequiredCards(), "synchronize assigns, it does not accumulate")
}

func TestAccessLayerNodeRejectsBadUpdates(t *testing.T) {
	aln := CreateAccessLayerNode(1)
	assert.ErrorIs(t, aln.ReceiveFromOutside(OduSize(2), 1), ErrInvalidDemandSize)
	assert.ErrorIs(t, aln.SendToOutside(OduLow, -3), ErrNegativeCount)
	assert.Equal(t, OduCount{}, aln.In)
	assert.Equal(t, OduCount{}, aln.Out)
}
