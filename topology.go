package grooming

// topology.go holds the static network graph and the candidate path enumeration
// run over it.
//
// The graph is kept in the representation of the gonum graph package, with each
// NodeID used directly as the gonum node id.  gonum gives us the adjacency
// structure and reachability; the k-path enumeration itself is a breadth-first
// walk over complete paths, so that the first paths found are the ones with the
// fewest hops.  Neighbors are always visited in ascending id order, which makes
// the discovery order (and so every admission outcome) reproducible.

import (
	"fmt"

	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Topology is an undirected graph of transport nodes
type Topology struct {
	Name  string
	graph *simple.UndirectedGraph
}

// CreateTopology is a constructor for a topology with no nodes
func CreateTopology(name string) *Topology {
	return &Topology{Name: name, graph: simple.NewUndirectedGraph()}
}

// CreateNumberedTopology returns a topology holding nodes 0 .. n-1 and no links
func CreateNumberedTopology(name string, n int) *Topology {
	tp := CreateTopology(name)
	for id := 0; id < n; id++ {
		tp.AddNode(NodeID(id))
	}
	return tp
}

// AddNode includes id, doing nothing if it is already present
func (tp *Topology) AddNode(id NodeID) {
	if tp.graph.Node(int64(id)) == nil {
		tp.graph.AddNode(simple.Node(id))
	}
}

// AddEdge connects a and b, adding either node if absent.  Self loops are refused.
func (tp *Topology) AddEdge(a, b NodeID) error {
	if a == b {
		return fmt.Errorf("self loop at node %d", a)
	}
	tp.AddNode(a)
	tp.AddNode(b)
	tp.graph.SetEdge(tp.graph.NewEdge(simple.Node(a), simple.Node(b)))
	return nil
}

// HasNode reports whether id is part of the topology
func (tp *Topology) HasNode(id NodeID) bool {
	return tp.graph.Node(int64(id)) != nil
}

// HasEdge reports whether a and b are adjacent
func (tp *Topology) HasEdge(a, b NodeID) bool {
	return tp.graph.HasEdgeBetween(int64(a), int64(b))
}

// NumNodes is the number of nodes
func (tp *Topology) NumNodes() int {
	return tp.graph.Nodes().Len()
}

// Nodes lists the node ids in ascending order
func (tp *Topology) Nodes() []NodeID {
	return sortedIDs(tp.graph.Nodes())
}

// Neighbors lists the nodes adjacent to id in ascending order
func (tp *Topology) Neighbors(id NodeID) []NodeID {
	if !tp.HasNode(id) {
		return nil
	}
	return sortedIDs(tp.graph.From(int64(id)))
}

// Links lists every edge once, ordered by (A, B)
func (tp *Topology) Links() []Link {
	lnks := []Link{}
	edges := tp.graph.Edges()
	for edges.Next() {
		edge := edges.Edge()
		lnks = append(lnks, NewLink(NodeID(edge.From().ID()), NodeID(edge.To().ID())))
	}
	sortLinks(lnks)
	return lnks
}

func sortedIDs(nodes graph.Nodes) []NodeID {
	ids := make([]NodeID, 0, nodes.Len())
	for nodes.Next() {
		ids = append(ids, NodeID(nodes.Node().ID()))
	}
	slices.Sort(ids)
	return ids
}

// Connected reports whether every node can reach every other node
func (tp *Topology) Connected() bool {
	return tp.NumNodes() <= 1 || len(topo.ConnectedComponents(tp.graph)) == 1
}

// Reachable reports whether a path exists between src and dst
func (tp *Topology) Reachable(src, dst NodeID) bool {
	if !tp.HasNode(src) || !tp.HasNode(dst) {
		return false
	}
	return topo.PathExistsIn(tp.graph, simple.Node(src), simple.Node(dst))
}

// ShortestHops is the hop count of a shortest path from src to dst, or -1 when
// there is none
func (tp *Topology) ShortestHops(src, dst NodeID) int {
	if !tp.HasNode(src) || !tp.HasNode(dst) {
		return -1
	}
	spTree := path.DijkstraFrom(simple.Node(src), tp.graph)
	nodes, _ := spTree.To(int64(dst))
	if len(nodes) == 0 {
		return -1
	}
	return len(nodes) - 1
}

// FindPaths returns up to k cycle-free paths from src to dst, in breadth-first
// discovery order.  Every frontier entry is a complete path from src; a path is
// extended only by neighbors it does not already visit.  The walk stops once k
// paths reach dst or the frontier is empty.  When src equals dst the single
// one-node path is returned.
func (tp *Topology) FindPaths(src, dst NodeID, k int) ([][]NodeID, error) {
	if !tp.HasNode(src) {
		return nil, fmt.Errorf("%w: source %d", ErrNodeNotFound, src)
	}
	if !tp.HasNode(dst) {
		return nil, fmt.Errorf("%w: destination %d", ErrNodeNotFound, dst)
	}
	paths := [][]NodeID{}
	if k < 1 {
		return paths, nil
	}
	if src == dst {
		return [][]NodeID{{src}}, nil
	}

	// without this check an unreachable dst makes the walk enumerate every
	// simple path of src's component
	if !tp.Reachable(src, dst) {
		return paths, nil
	}

	frontier := [][]NodeID{{src}}
	for len(frontier) > 0 && len(paths) < k {
		route := frontier[0]
		frontier = frontier[1:]

		here := route[len(route)-1]
		if here == dst {
			paths = append(paths, route)
			continue
		}
		for _, nbr := range tp.Neighbors(here) {
			if slices.Contains(route, nbr) {
				continue
			}
			extended := make([]NodeID, len(route)+1)
			copy(extended, route)
			extended[len(route)] = nbr
			frontier = append(frontier, extended)
		}
	}
	return paths, nil
}
