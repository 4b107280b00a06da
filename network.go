package grooming

// network.go holds the NetworkModel, which owns the access and aggregation layer
// records of every node and the set of undirected links between nodes.
//
// A model has a short life.  It is built from a topology, routed demands are
// placed into the layer counters, and Evaluate is called.  Evaluate propagates
// each node's outbound neighbor exchange to the receiving neighbor and derives the
// access-facing counters of both layers; both steps must happen exactly once after
// all placement, so the first Evaluate seals the model against further placement.

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// Link is an undirected connection, normalized so that A < B
type Link struct {
	A NodeID `json:"a" yaml:"a"`
	B NodeID `json:"b" yaml:"b"`
}

// NewLink orders its end points
func NewLink(a, b NodeID) Link {
	if b < a {
		a, b = b, a
	}
	return Link{A: a, B: b}
}

func (lnk Link) String() string {
	return fmt.Sprintf("%d-%d", lnk.A, lnk.B)
}

// layer names used in violation reports
const (
	AccessLayer      = "access"
	AggregationLayer = "aggregation"
)

// Violation describes one per-node limit that an evaluation found exceeded
type Violation struct {
	Node  NodeID `json:"node" yaml:"node"`
	Layer string `json:"layer" yaml:"layer"`
	Check string `json:"check" yaml:"check"`
	Value int    `json:"value" yaml:"value"`
	Limit int    `json:"limit" yaml:"limit"`
}

func (v Violation) String() string {
	return fmt.Sprintf("node %d %s %s %d > %d", v.Node, v.Layer, v.Check, v.Value, v.Limit)
}

// Verdict is the outcome of evaluating a model
type Verdict struct {
	Admitted   bool
	Lightpaths int
	Violations []Violation
}

// NetworkModel is the multi-layer resource model of one admission trial
type NetworkModel struct {
	policy      Policy
	access      map[NodeID]*AccessLayerNode
	aggregation map[NodeID]*AggregationLayerNode
	links       map[Link]bool
	demands     int
	sealed      bool
}

// CreateNetworkModel is a constructor for an empty model evaluated against policy
func CreateNetworkModel(policy Policy) *NetworkModel {
	nm := new(NetworkModel)
	nm.policy = policy
	nm.access = make(map[NodeID]*AccessLayerNode)
	nm.aggregation = make(map[NodeID]*AggregationLayerNode)
	nm.links = make(map[Link]bool)
	return nm
}

// BuildNetworkModel creates a model holding every node and link of topo
func BuildNetworkModel(topo *Topology, policy Policy) *NetworkModel {
	nm := CreateNetworkModel(policy)
	for _, node := range topo.Nodes() {
		nm.AddNode(node)
	}
	for _, lnk := range topo.Links() {
		nm.AddConnection(lnk.A, lnk.B)
	}
	return nm
}

// AddNode makes sure both layer records exist for id
func (nm *NetworkModel) AddNode(id NodeID) {
	if _, present := nm.access[id]; !present {
		nm.access[id] = CreateAccessLayerNode(id)
	}
	if _, present := nm.aggregation[id]; !present {
		nm.aggregation[id] = CreateAggregationLayerNode(id)
	}
}

// AddConnection registers the undirected link a-b, adding either node if absent
func (nm *NetworkModel) AddConnection(a, b NodeID) {
	nm.AddNode(a)
	nm.AddNode(b)
	nm.links[NewLink(a, b)] = true
}

// HasNode reports whether id has layer records
func (nm *NetworkModel) HasNode(id NodeID) bool {
	_, present := nm.aggregation[id]
	return present
}

// HasLink reports whether a and b are connected
func (nm *NetworkModel) HasLink(a, b NodeID) bool {
	return nm.links[NewLink(a, b)]
}

// Access returns the access-layer record of id
func (nm *NetworkModel) Access(id NodeID) (*AccessLayerNode, bool) {
	aln, present := nm.access[id]
	return aln, present
}

// Aggregation returns the aggregation-layer record of id
func (nm *NetworkModel) Aggregation(id NodeID) (*AggregationLayerNode, bool) {
	agn, present := nm.aggregation[id]
	return agn, present
}

// Nodes lists the node ids in ascending order
func (nm *NetworkModel) Nodes() []NodeID {
	ids := make([]NodeID, 0, len(nm.aggregation))
	for id := range nm.aggregation {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Links lists the links ordered by (A, B)
func (nm *NetworkModel) Links() []Link {
	lnks := make([]Link, 0, len(nm.links))
	for lnk := range nm.links {
		lnks = append(lnks, lnk)
	}
	sortLinks(lnks)
	return lnks
}

func sortLinks(lnks []Link) {
	slices.SortFunc(lnks, func(x, y Link) int {
		if x.A != y.A {
			return compareIDs(x.A, y.A)
		}
		return compareIDs(x.B, y.B)
	})
}

func compareIDs(x, y NodeID) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

// Demands is the number of demands placed so far
func (nm *NetworkModel) Demands() int {
	return nm.demands
}

// checkDemand validates sd against the model without changing it
func (nm *NetworkModel) checkDemand(sd ServiceDemand) error {
	if err := sd.Validate(); err != nil {
		return err
	}
	for idx, node := range sd.Path {
		if !nm.HasNode(node) {
			return fmt.Errorf("%w: %d on path %s", ErrNodeNotFound, node, FormatPath(sd.Path))
		}
		if idx > 0 && !nm.HasLink(sd.Path[idx-1], node) {
			return fmt.Errorf("%w: no link %d-%d on path %s", ErrMalformedPath,
				sd.Path[idx-1], node, FormatPath(sd.Path))
		}
	}
	return nil
}

// PlaceDemand records every service in the layer counters.  Each service enters the
// network at the first node of its path, leaves at the last, and at every node but
// the last is recorded as outbound exchange to the next node.  All services are
// checked before any counter changes, so a failed call leaves the model as it was.
func (nm *NetworkModel) PlaceDemand(services []ServiceDemand) error {
	if nm.sealed {
		return ErrModelSealed
	}
	for _, sd := range services {
		if err := nm.checkDemand(sd); err != nil {
			return err
		}
	}

	for _, sd := range services {
		last := len(sd.Path) - 1
		for idx, node := range sd.Path {
			aln := nm.access[node]
			agn := nm.aggregation[node]

			// errors are impossible here, sizes and counts were checked above
			if idx == 0 {
				_ = aln.ReceiveFromOutside(sd.Size, 1)
				_ = agn.ExchangeWithOutside(sd.Size, 1, DirIn)
			}
			if idx == last {
				_ = aln.SendToOutside(sd.Size, 1)
				_ = agn.ExchangeWithOutside(sd.Size, 1, DirOut)
			} else {
				_ = agn.ExchangeWithNeighbor(sd.Size, 1, DirOut, sd.Path[idx+1])
			}
		}
		nm.demands += 1
	}
	return nil
}

// PropagateNeighborExchanges records, at every receiving node, the inbound image of
// each outbound neighbor exchange.  Only Out counters are read and only In counters
// are written, so visiting order does not matter.  The first call seals the model;
// later calls do nothing, which keeps inbound exchange from being counted twice.
func (nm *NetworkModel) PropagateNeighborExchanges() {
	if nm.sealed {
		return
	}
	nm.sealed = true

	for _, src := range nm.Nodes() {
		agn := nm.aggregation[src]
		for _, dst := range agn.NeighborIDs() {
			out := agn.Neighbors[dst].Out
			rcvr, present := nm.aggregation[dst]
			if !present {
				// placement only records exchanges along links, so dst always exists
				continue
			}
			for _, size := range OduSizes {
				_ = rcvr.ExchangeWithNeighbor(size, out[size], DirIn, src)
			}
		}
	}
}

// SynchronizeAll derives the access-facing counters of both layers at every node
func (nm *NetworkModel) SynchronizeAll() {
	for _, aln := range nm.access {
		aln.Synchronize()
	}
	for _, agn := range nm.aggregation {
		agn.SynchronizeWithAccessLayer()
	}
}

// Evaluate completes the model (propagation and synchronization) and checks every
// node against the policy limits.  Exceeded limits are a normal outcome reported
// through the verdict.  Calling Evaluate again returns the same verdict.
func (nm *NetworkModel) Evaluate() Verdict {
	nm.PropagateNeighborExchanges()
	nm.SynchronizeAll()

	verdict := Verdict{Violations: []Violation{}}
	for _, id := range nm.Nodes() {
		verdict.Violations = append(verdict.Violations, nm.checkNode(id)...)
	}
	verdict.Admitted = len(verdict.Violations) == 0
	verdict.Lightpaths = nm.LightpathCount()

	if !verdict.Admitted {
		NetLog.Debugf("model with %d demands rejected: %v", nm.demands, verdict.Violations[0])
	}
	return verdict
}

// checkNode lists the limits node id exceeds
func (nm *NetworkModel) checkNode(id NodeID) []Violation {
	aln := nm.access[id]
	agn := nm.aggregation[id]
	pol := nm.policy

	checks := []struct {
		layer string
		check string
		value int
		limit int
	}{
		{AccessLayer, "cards", aln.RequiredCards(), pol.MaxCards},
		{AccessLayer, "capacity", aln.RequiredCapacity(), pol.MaxCapacity},
		{AggregationLayer, "cards", agn.RequiredCards(), pol.MaxCards},
		{AggregationLayer, "capacity", agn.RequiredCapacity(), pol.MaxCapacity},
		{AggregationLayer, "odus", agn.TotalOduCount(), pol.MaxOduCount},
	}

	violations := []Violation{}
	for _, chk := range checks {
		if chk.value > chk.limit {
			violations = append(violations,
				Violation{Node: id, Layer: chk.layer, Check: chk.check, Value: chk.value, Limit: chk.limit})
		}
	}
	return violations
}

// LinkBandwidth is the bandwidth both end points of lnk have recorded as sent to the other
func (nm *NetworkModel) LinkBandwidth(lnk Link) int {
	bandwidth := 0
	if ex, present := nm.aggregation[lnk.A].NeighborExchange(lnk.B); present {
		bandwidth += ex.Out.Bandwidth()
	}
	if ex, present := nm.aggregation[lnk.B].NeighborExchange(lnk.A); present {
		bandwidth += ex.Out.Bandwidth()
	}
	return bandwidth
}

// LightpathCount is the network-wide number of optical transport units: every link
// rounds the bandwidth carried in both directions up to whole units
func (nm *NetworkModel) LightpathCount() int {
	lightpaths := 0
	for _, lnk := range nm.Links() {
		lightpaths += lightpathsFor(nm.LinkBandwidth(lnk))
	}
	return lightpaths
}

// TotalCards sums the card counts of both layers over all nodes
func (nm *NetworkModel) TotalCards() int {
	cards := 0
	for _, id := range nm.Nodes() {
		cards += nm.access[id].RequiredCards() + nm.aggregation[id].RequiredCards()
	}
	return cards
}

// TotalCapacity sums the capacity of both layers over all nodes
func (nm *NetworkModel) TotalCapacity() int {
	capacity := 0
	for _, id := range nm.Nodes() {
		capacity += nm.access[id].RequiredCapacity() + nm.aggregation[id].RequiredCapacity()
	}
	return capacity
}

// NeighborOduCount sums, over all nodes, the units exchanged with neighbors
func (nm *NetworkModel) NeighborOduCount() int {
	units := 0
	for _, agn := range nm.aggregation {
		units += agn.NeighborOduCount()
	}
	return units
}

// NodeReport gives per-node resource figures of both layers
type NodeReport struct {
	Node                NodeID `json:"node" yaml:"node"`
	AccessCards         int    `json:"accesscards" yaml:"accesscards"`
	AccessCapacity      int    `json:"accesscapacity" yaml:"accesscapacity"`
	AggregationCards    int    `json:"aggregationcards" yaml:"aggregationcards"`
	AggregationCapacity int    `json:"aggregationcapacity" yaml:"aggregationcapacity"`
	Lightpaths          int    `json:"lightpaths" yaml:"lightpaths"`
	OduCount            int    `json:"oducount" yaml:"oducount"`
}

// Report lists a NodeReport for every node, in ascending node order
func (nm *NetworkModel) Report() []NodeReport {
	rows := make([]NodeReport, 0, len(nm.aggregation))
	for _, id := range nm.Nodes() {
		aln := nm.access[id]
		agn := nm.aggregation[id]
		rows = append(rows, NodeReport{
			Node:                id,
			AccessCards:         aln.RequiredCards(),
			AccessCapacity:      aln.RequiredCapacity(),
			AggregationCards:    agn.RequiredCards(),
			AggregationCapacity: agn.RequiredCapacity(),
			Lightpaths:          agn.LightpathCount(),
			OduCount:            agn.TotalOduCount(),
		})
	}
	return rows
}
