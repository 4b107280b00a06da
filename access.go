package grooming

// AccessLayerNode holds the access-layer counters of one node: demand entering and
// leaving the network there, and the mirror image of that demand handed to (or
// received from) the node's aggregation layer.
type AccessLayerNode struct {
	ID NodeID

	In  OduCount // units received from outside the network
	Out OduCount // units sent outside the network

	ForwardToAggregation   OduCount // set from In by Synchronize
	ForwardFromAggregation OduCount // set from Out by Synchronize
}

// CreateAccessLayerNode is a constructor
func CreateAccessLayerNode(id NodeID) *AccessLayerNode {
	return &AccessLayerNode{ID: id}
}

// ReceiveFromOutside records count units of the given size entering the network here
func (aln *AccessLayerNode) ReceiveFromOutside(size OduSize, count int) error {
	return aln.In.add(size, count)
}

// SendToOutside records count units of the given size leaving the network here
func (aln *AccessLayerNode) SendToOutside(size OduSize, count int) error {
	return aln.Out.add(size, count)
}

// Synchronize makes the forward counters mirror In and Out.  The forward counters
// are assigned, not accumulated, so repeated calls leave the node unchanged.
func (aln *AccessLayerNode) Synchronize() {
	aln.ForwardToAggregation = aln.In
	aln.ForwardFromAggregation = aln.Out
}

// RequiredCards counts cards for the outside-facing pool and the aggregation-facing
// pool separately, then sums them
func (aln *AccessLayerNode) RequiredCards() int {
	outside := aln.In.Plus(aln.Out)
	forward := aln.ForwardToAggregation.Plus(aln.ForwardFromAggregation)
	return outside.Cards() + forward.Cards()
}

// RequiredCapacity is the bandwidth consumed by the node's cards
func (aln *AccessLayerNode) RequiredCapacity() int {
	return aln.RequiredCards() * cardCapacity
}
