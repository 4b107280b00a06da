package grooming

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// ServiceRequest is a demand offered for admission: its end points, its size, and
// the ranked candidate paths computed for it when it was generated
type ServiceRequest struct {
	ID    int        `json:"id" yaml:"id"`
	Src   NodeID     `json:"src" yaml:"src"`
	Dst   NodeID     `json:"dst" yaml:"dst"`
	Size  OduSize    `json:"size" yaml:"size"`
	Paths [][]NodeID `json:"paths" yaml:"paths"`
}

// CreateServiceRequest computes up to k candidate paths between src and dst and
// returns the request carrying them.  A request may legitimately carry no paths
// when dst cannot be reached; such a request is blocked at admission.
func CreateServiceRequest(id int, src, dst NodeID, size OduSize, tp *Topology, k int) (*ServiceRequest, error) {
	if !size.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDemandSize, int(size))
	}
	paths, err := tp.FindPaths(src, dst, k)
	if err != nil {
		return nil, err
	}
	return &ServiceRequest{ID: id, Src: src, Dst: dst, Size: size, Paths: paths}, nil
}

// Demand binds the request to its candidate path of the given rank
func (sr *ServiceRequest) Demand(rank int) (ServiceDemand, error) {
	if rank < 0 || rank >= len(sr.Paths) {
		return ServiceDemand{}, fmt.Errorf("service %d has no candidate path of rank %d", sr.ID, rank)
	}
	return ServiceDemand{Size: sr.Size, Path: slices.Clone(sr.Paths[rank])}, nil
}

// ServiceBatch is a named, ordered list of service requests
type ServiceBatch struct {
	Name     string           `json:"name" yaml:"name"`
	Services []ServiceRequest `json:"services" yaml:"services"`
}

// CreateServiceBatch is a constructor
func CreateServiceBatch(name string, services []ServiceRequest) *ServiceBatch {
	return &ServiceBatch{Name: name, Services: services}
}

// WriteToFile stores the batch in the named file, json or yaml by extension
func (sb *ServiceBatch) WriteToFile(filename string) error {
	return writeDesc(filename, sb)
}

// ReadServiceBatch deserializes a ServiceBatch from dict, or from the named file when dict is empty
func ReadServiceBatch(filename string, useYAML bool, dict []byte) (*ServiceBatch, error) {
	sb := ServiceBatch{}
	if err := readDesc(filename, useYAML, dict, &sb); err != nil {
		return nil, err
	}
	return &sb, nil
}
