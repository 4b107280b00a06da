package grooming

// generate.go builds random experiment inputs.  Every draw comes from a named
// rngstream, so an experiment that creates its streams in the same order sees
// the same topology and the same services.

import (
	"fmt"

	"github.com/iti/rngstream"
)

// RandomTopology creates nodes 0 .. n-1 and links each pair i < j with probability prob
func RandomTopology(name string, n int, prob float64, rng *rngstream.RngStream) *Topology {
	tp := CreateNumberedTopology(name, n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if rng.RandU01() < prob {
				// i != j, so AddEdge cannot fail
				_ = tp.AddEdge(NodeID(i), NodeID(j))
			}
		}
	}
	TopoLog.Debugf("random topology %s: %d nodes, %d links", name, n, len(tp.Links()))
	return tp
}

// randIndex draws uniformly from 0 .. n-1
func randIndex(rng *rngstream.RngStream, n int) int {
	idx := int(rng.RandU01() * float64(n))
	if idx >= n {
		idx = n - 1
	}
	return idx
}

// GenerateServices draws count services with distinct random end points and a
// size of LOW or HIGH with equal probability, each carrying up to k candidate paths
func GenerateServices(tp *Topology, count, k int, rng *rngstream.RngStream) ([]ServiceRequest, error) {
	nodes := tp.Nodes()
	if len(nodes) < 2 {
		return nil, fmt.Errorf("topology %s needs at least 2 nodes to generate services", tp.Name)
	}

	services := make([]ServiceRequest, 0, count)
	for id := 0; id < count; id++ {
		srcIdx := randIndex(rng, len(nodes))

		// draw from the remaining nodes so that src != dst
		dstIdx := randIndex(rng, len(nodes)-1)
		if dstIdx >= srcIdx {
			dstIdx += 1
		}

		size := OduLow
		if rng.RandU01() < 0.5 {
			size = OduHigh
		}

		sr, err := CreateServiceRequest(id, nodes[srcIdx], nodes[dstIdx], size, tp, k)
		if err != nil {
			return nil, err
		}
		services = append(services, *sr)
	}
	return services, nil
}
