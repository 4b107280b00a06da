package grooming

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardPacking(t *testing.T) {
	testCases := []struct {
		name  string
		count OduCount
		cards int
	}{
		{"empty", OduCount{0, 0}, 0},
		{"one low", OduCount{1, 0}, 1},
		{"ten low share a card", OduCount{10, 0}, 1},
		{"eleven low", OduCount{11, 0}, 2},
		{"high takes a card each", OduCount{0, 7}, 7},
		{"mixed pools pack independently", OduCount{21, 3}, 6},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.cards, tc.count.Cards())
		})
	}
}

func TestLightpathPacking(t *testing.T) {
	assert.Equal(t, 0, lightpathsFor(0))
	assert.Equal(t, 1, lightpathsFor(1))
	assert.Equal(t, 1, lightpathsFor(500))
	assert.Equal(t, 2, lightpathsFor(501))

	assert.Equal(t, 1, OduCount{0, 5}.Lightpaths())
	assert.Equal(t, 2, OduCount{1, 5}.Lightpaths())
	assert.Equal(t, 510, OduCount{1, 5}.Bandwidth())
	assert.Equal(t, 6, OduCount{1, 5}.Units())
}

func TestOduCountAdd(t *testing.T) {
	var c OduCount
	require.NoError(t, c.add(OduLow, 3))
	require.NoError(t, c.add(OduHigh, 2))
	assert.Equal(t, OduCount{3, 2}, c)

	assert.ErrorIs(t, c.add(OduSize(7), 1), ErrInvalidDemandSize)
	assert.ErrorIs(t, c.add(OduLow, -1), ErrNegativeCount)
	assert.Equal(t, OduCount{3, 2}, c, "failed updates leave the counter alone")

	assert.Equal(t, OduCount{4, 7}, c.Plus(OduCount{1, 5}))
}

func TestParseOduSize(t *testing.T) {
	for _, tag := range []string{"10", "low", "LOW", " 10G "} {
		size, err := ParseOduSize(tag)
		require.NoError(t, err, tag)
		assert.Equal(t, OduLow, size, tag)
	}
	for _, tag := range []string{"100", "high", "100g"} {
		size, err := ParseOduSize(tag)
		require.NoError(t, err, tag)
		assert.Equal(t, OduHigh, size, tag)
	}
	_, err := ParseOduSize("40")
	assert.ErrorIs(t, err, ErrInvalidDemandSize)
}

func TestOduSizeText(t *testing.T) {
	encoded, err := json.Marshal(ServiceDemand{Size: OduHigh, Path: []NodeID{1, 2}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"size":"100","path":[1,2]}`, string(encoded))

	var sd ServiceDemand
	require.NoError(t, json.Unmarshal([]byte(`{"size":"low","path":[4]}`), &sd))
	assert.Equal(t, OduLow, sd.Size)

	_, err = OduSize(9).MarshalText()
	assert.ErrorIs(t, err, ErrInvalidDemandSize)
}

func TestServiceDemandValidate(t *testing.T) {
	sd, err := CreateServiceDemand(OduLow, []NodeID{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, NodeID(1), sd.Src())
	assert.Equal(t, NodeID(3), sd.Dst())
	assert.Equal(t, "1-2-3", FormatPath(sd.Path))

	_, err = CreateServiceDemand(OduLow, nil)
	assert.ErrorIs(t, err, ErrMalformedPath)

	_, err = CreateServiceDemand(OduHigh, []NodeID{1, 2, 1})
	assert.ErrorIs(t, err, ErrMalformedPath)

	_, err = CreateServiceDemand(OduSize(3), []NodeID{1})
	assert.ErrorIs(t, err, ErrInvalidDemandSize)
}

func TestCreateServiceDemandCopiesPath(t *testing.T) {
	path := []NodeID{1, 2}
	sd, err := CreateServiceDemand(OduLow, path)
	require.NoError(t, err)
	path[0] = 9
	assert.Equal(t, NodeID(1), sd.Src())
}
