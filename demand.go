package grooming

// demand.go holds the vocabulary shared by every layer model: ODU sizes,
// exchange directions, per-size counters, and the routed service demand
// that the network model places into those counters.

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// NodeID identifies a node of the transport network.  It is an int64 so that
// it maps directly onto the node ids of the gonum graph holding the topology.
type NodeID int64

// OduSize is the rate class of a demand unit.
type OduSize int

const (
	OduLow  OduSize = iota // 10 rate units
	OduHigh                // 100 rate units
)

// numOduSizes bounds the arrays indexed by OduSize
const numOduSizes = 2

// OduSizes lists every valid size, in index order
var OduSizes = []OduSize{OduLow, OduHigh}

// packing rules of the hardware and the optical layer
const (
	lowOdusPerCard     = 10  // one card carries at most 10 LOW units
	cardCapacity       = 100 // bandwidth units consumed per card
	lightpathBandwidth = 500 // bandwidth units carried per optical transport unit
)

var (
	// ErrInvalidDemandSize is returned when a size tag is neither LOW nor HIGH
	ErrInvalidDemandSize = errors.New("invalid demand size")

	// ErrNodeNotFound is returned when a demand references a node with no layer records
	ErrNodeNotFound = errors.New("node not found")

	// ErrMalformedPath is returned for empty paths, repeated nodes, or hops over a missing link
	ErrMalformedPath = errors.New("malformed path")

	// ErrNegativeCount is returned when a counter update carries a negative count
	ErrNegativeCount = errors.New("negative count")

	// ErrModelSealed is returned when demand is placed into an already evaluated model
	ErrModelSealed = errors.New("network model already evaluated")
)

// Rate gives the bandwidth of one unit of the size
func (s OduSize) Rate() int {
	if s == OduHigh {
		return 100
	}
	return 10
}

// Valid reports whether s is one of the known sizes
func (s OduSize) Valid() bool {
	return s == OduLow || s == OduHigh
}

func (s OduSize) String() string {
	switch s {
	case OduLow:
		return "10"
	case OduHigh:
		return "100"
	}
	return fmt.Sprintf("OduSize(%d)", int(s))
}

// ParseOduSize accepts the rate tags "10" and "100" as well as the names "low" and "high"
func ParseOduSize(tag string) (OduSize, error) {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "10", "low", "10g":
		return OduLow, nil
	case "100", "high", "100g":
		return OduHigh, nil
	}
	return OduLow, fmt.Errorf("%w: %q", ErrInvalidDemandSize, tag)
}

// MarshalText lets json and yaml carry sizes as their rate tag
func (s OduSize) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDemandSize, int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText is the inverse of MarshalText
func (s *OduSize) UnmarshalText(text []byte) error {
	size, err := ParseOduSize(string(text))
	if err != nil {
		return err
	}
	*s = size
	return nil
}

// Direction says whether an exchange enters or leaves the layer that records it
type Direction int

const (
	DirIn Direction = iota
	DirOut
)

func (d Direction) String() string {
	if d == DirOut {
		return "out"
	}
	return "in"
}

// OduCount holds one counter per OduSize.  LOW and HIGH are never summed as raw
// counts, only through Bandwidth.
type OduCount [numOduSizes]int

// add increments the counter for size, rejecting unknown sizes and negative counts
func (c *OduCount) add(size OduSize, count int) error {
	if !size.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidDemandSize, int(size))
	}
	if count < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeCount, count)
	}
	c[size] += count
	return nil
}

// Plus returns the size-wise sum of c and other
func (c OduCount) Plus(other OduCount) OduCount {
	var sum OduCount
	for _, size := range OduSizes {
		sum[size] = c[size] + other[size]
	}
	return sum
}

// Units gives the total number of units of either size
func (c OduCount) Units() int {
	return c[OduLow] + c[OduHigh]
}

// Bandwidth converts the counters into bandwidth units
func (c OduCount) Bandwidth() int {
	return c[OduLow]*OduLow.Rate() + c[OduHigh]*OduHigh.Rate()
}

// Cards applies the card packing rule to a pool of units: ten LOW units
// share a card, every HIGH unit takes a card of its own
func (c OduCount) Cards() int {
	return ceilDiv(c[OduLow], lowOdusPerCard) + c[OduHigh]
}

// Lightpaths gives the number of optical transport units needed for the pool's bandwidth
func (c OduCount) Lightpaths() int {
	return lightpathsFor(c.Bandwidth())
}

func lightpathsFor(bandwidth int) int {
	return ceilDiv(bandwidth, lightpathBandwidth)
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// ServiceDemand is a unit of traffic already bound to a route.  Path lists the
// nodes visited from source to destination, inclusive.
type ServiceDemand struct {
	Size OduSize  `json:"size" yaml:"size"`
	Path []NodeID `json:"path" yaml:"path"`
}

// CreateServiceDemand is a constructor that checks the demand before returning it
func CreateServiceDemand(size OduSize, path []NodeID) (ServiceDemand, error) {
	sd := ServiceDemand{Size: size, Path: slices.Clone(path)}
	if err := sd.Validate(); err != nil {
		return ServiceDemand{}, err
	}
	return sd, nil
}

// Validate checks the size tag and that the path is non-empty and visits no node twice
func (sd ServiceDemand) Validate() error {
	if !sd.Size.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidDemandSize, int(sd.Size))
	}
	if len(sd.Path) == 0 {
		return fmt.Errorf("%w: empty", ErrMalformedPath)
	}
	seen := make(map[NodeID]bool, len(sd.Path))
	for _, node := range sd.Path {
		if seen[node] {
			return fmt.Errorf("%w: node %d repeated in %v", ErrMalformedPath, node, sd.Path)
		}
		seen[node] = true
	}
	return nil
}

// Src and Dst are the end points of the route
func (sd ServiceDemand) Src() NodeID { return sd.Path[0] }
func (sd ServiceDemand) Dst() NodeID { return sd.Path[len(sd.Path)-1] }

// FormatPath renders a route as "a-b-c"
func FormatPath(path []NodeID) string {
	parts := make([]string, len(path))
	for idx, node := range path {
		parts[idx] = fmt.Sprintf("%d", node)
	}
	return strings.Join(parts, "-")
}
