package grooming

import (
	"golang.org/x/exp/slices"
)

// Exchange is a fixed-shape pair of counters for traffic in each direction
// across one boundary of the aggregation layer
type Exchange struct {
	In  OduCount `json:"in" yaml:"in"`
	Out OduCount `json:"out" yaml:"out"`
}

func (ex *Exchange) add(size OduSize, count int, dir Direction) error {
	if dir == DirOut {
		return ex.Out.add(size, count)
	}
	return ex.In.add(size, count)
}

// Total gives the size-wise sum of both directions
func (ex Exchange) Total() OduCount {
	return ex.In.Plus(ex.Out)
}

// AggregationLayerNode multiplexes a node's access-layer traffic and the traffic it
// exchanges with its neighbors onto optical transport units
type AggregationLayerNode struct {
	ID NodeID

	// AccessExchange is derived from Outside by SynchronizeWithAccessLayer
	AccessExchange OduCount

	// Outside counts units entering (In) and leaving (Out) the network at this node
	Outside Exchange

	// Neighbors is keyed by adjacent node.  An entry is created, all zero, the
	// first time an exchange with that neighbor is recorded; a missing key means
	// no exchange has ever been recorded.
	Neighbors map[NodeID]*Exchange
}

// CreateAggregationLayerNode is a constructor
func CreateAggregationLayerNode(id NodeID) *AggregationLayerNode {
	return &AggregationLayerNode{ID: id, Neighbors: make(map[NodeID]*Exchange)}
}

// ExchangeWithOutside records count units of the given size crossing the network edge here
func (agn *AggregationLayerNode) ExchangeWithOutside(size OduSize, count int, dir Direction) error {
	return agn.Outside.add(size, count, dir)
}

// ExchangeWithNeighbor records count units of the given size moving between this node and nbr
func (agn *AggregationLayerNode) ExchangeWithNeighbor(size OduSize, count int, dir Direction, nbr NodeID) error {
	return agn.neighbor(nbr).add(size, count, dir)
}

// neighbor returns the exchange record for nbr, creating it on first use
func (agn *AggregationLayerNode) neighbor(nbr NodeID) *Exchange {
	ex, present := agn.Neighbors[nbr]
	if !present {
		ex = new(Exchange)
		agn.Neighbors[nbr] = ex
	}
	return ex
}

// NeighborExchange returns a copy of the record for nbr and whether one exists
func (agn *AggregationLayerNode) NeighborExchange(nbr NodeID) (Exchange, bool) {
	ex, present := agn.Neighbors[nbr]
	if !present {
		return Exchange{}, false
	}
	return *ex, true
}

// NeighborIDs lists the neighbors with an exchange record, in ascending order
func (agn *AggregationLayerNode) NeighborIDs() []NodeID {
	ids := make([]NodeID, 0, len(agn.Neighbors))
	for nbr := range agn.Neighbors {
		ids = append(ids, nbr)
	}
	slices.Sort(ids)
	return ids
}

// SynchronizeWithAccessLayer sets AccessExchange to the outside exchange of both
// directions.  It assigns rather than accumulates, so repeated calls are harmless.
func (agn *AggregationLayerNode) SynchronizeWithAccessLayer() {
	agn.AccessExchange = agn.Outside.Total()
}

// AccessCards is the card count of the access-facing pool alone
func (agn *AggregationLayerNode) AccessCards() int {
	return agn.AccessExchange.Cards()
}

// RequiredCards sums the card counts of the access pool, the outside pool and
// every neighbor pool, each packed independently
func (agn *AggregationLayerNode) RequiredCards() int {
	cards := agn.AccessCards() + agn.Outside.Total().Cards()
	for _, ex := range agn.Neighbors {
		cards += ex.Total().Cards()
	}
	return cards
}

// LightpathCount sums the optical transport units of the outside pool and of every
// neighbor pool, each rounded up independently
func (agn *AggregationLayerNode) LightpathCount() int {
	lightpaths := agn.Outside.Total().Lightpaths()
	for _, ex := range agn.Neighbors {
		lightpaths += ex.Total().Lightpaths()
	}
	return lightpaths
}

// TotalOduCount is the number of units of any size crossing the network edge here
func (agn *AggregationLayerNode) TotalOduCount() int {
	return agn.Outside.Total().Units()
}

// NeighborOduCount is the number of units of any size exchanged with neighbors, both directions
func (agn *AggregationLayerNode) NeighborOduCount() int {
	units := 0
	for _, ex := range agn.Neighbors {
		units += ex.Total().Units()
	}
	return units
}

// RequiredCapacity is the card bandwidth of the access pool plus the optical
// bandwidth of all lightpaths
func (agn *AggregationLayerNode) RequiredCapacity() int {
	return agn.AccessCards()*cardCapacity + agn.LightpathCount()*lightpathBandwidth
}
