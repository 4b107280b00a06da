package grooming

// admission.go drives the greedy admission loop.  Services are taken in the order
// offered, and each service's candidate paths in rank order.  A trial appends the
// candidate demand to the committed set, builds a fresh NetworkModel from the full
// topology, places every committed demand and evaluates.  The first admitted trial
// keeps its demand; a rejected (or failed) trial removes it again, so the committed
// set only ever holds demands of admitted trials.  A service whose every candidate
// is rejected is blocked.  Nothing already committed is ever revisited.
//
// Rebuilding the model per trial makes every verdict a function of the committed
// set alone, with nothing left over from rejected trials.

import (
	"github.com/iti/evt/vrtime"
	"golang.org/x/exp/slices"
)

// trial outcomes, as labeled in metrics
const (
	outcomeAdmitted = "admitted"
	outcomeRejected = "rejected"
	outcomeError    = "error"
)

// Decision is the admission outcome of one service
type Decision struct {
	Service    int      `json:"service" yaml:"service"`
	Admitted   bool     `json:"admitted" yaml:"admitted"`
	Rank       int      `json:"rank" yaml:"rank"` // rank of the admitted path, -1 when blocked
	Path       []NodeID `json:"path,omitempty" yaml:"path,omitempty"`
	Lightpaths int      `json:"lightpaths" yaml:"lightpaths"`
	Errs       []string `json:"errs,omitempty" yaml:"errs,omitempty"`
}

// AdmissionResult summarizes a batch
type AdmissionResult struct {
	Decisions     []Decision      `json:"decisions" yaml:"decisions"`
	Committed     []ServiceDemand `json:"committed" yaml:"committed"`
	Offered       int             `json:"offered" yaml:"offered"`
	Blocked       int             `json:"blocked" yaml:"blocked"`
	BlockingRatio float64         `json:"blockingratio" yaml:"blockingratio"`
	Lightpaths    int             `json:"lightpaths" yaml:"lightpaths"`
}

// AdmissionSimulator holds the committed demand set of a batch and evaluates
// candidate paths against it
type AdmissionSimulator struct {
	topo       *Topology
	policy     Policy
	committed  []ServiceDemand
	lightpaths int

	trace   *TraceManager
	metrics *AdmissionCollector
	step    int
	clock   vrtime.Time
}

// CreateAdmissionSimulator is a constructor
func CreateAdmissionSimulator(topo *Topology, policy Policy) *AdmissionSimulator {
	as := new(AdmissionSimulator)
	as.topo = topo
	as.policy = policy
	as.committed = []ServiceDemand{}
	as.clock = vrtime.SecondsToTime(0.0)
	return as
}

// SetTraceManager attaches a trace that receives a record per trial
func (as *AdmissionSimulator) SetTraceManager(tm *TraceManager) {
	as.trace = tm
}

// SetCollector attaches Prometheus metrics
func (as *AdmissionSimulator) SetCollector(ac *AdmissionCollector) {
	as.metrics = ac
}

// SetTraceContext gives the sweep step and virtual time stamped on trace records
func (as *AdmissionSimulator) SetTraceContext(step int, clock vrtime.Time) {
	as.step = step
	as.clock = clock
}

// Reset empties the committed set
func (as *AdmissionSimulator) Reset() {
	as.committed = []ServiceDemand{}
	as.lightpaths = 0
}

// Committed returns a copy of the committed demand set
func (as *AdmissionSimulator) Committed() []ServiceDemand {
	rtn := make([]ServiceDemand, len(as.committed))
	for idx, sd := range as.committed {
		rtn[idx] = ServiceDemand{Size: sd.Size, Path: slices.Clone(sd.Path)}
	}
	return rtn
}

// Lightpaths is the network-wide transport unit count of the last admitted trial,
// zero if nothing has been committed
func (as *AdmissionSimulator) Lightpaths() int {
	return as.lightpaths
}

// Evaluate builds a fresh model of the whole topology holding demands, and evaluates it
func (as *AdmissionSimulator) Evaluate(demands []ServiceDemand) (Verdict, error) {
	nm := BuildNetworkModel(as.topo, as.policy)
	if err := nm.PlaceDemand(demands); err != nil {
		return Verdict{}, err
	}
	return nm.Evaluate(), nil
}

// Admit tries sr on each of its candidate paths in rank order and commits the
// first one admitted.  A trial that fails with an error is rolled back exactly
// like a rejected one, and the next candidate is tried.
func (as *AdmissionSimulator) Admit(sr *ServiceRequest) Decision {
	dec := Decision{Service: sr.ID, Rank: -1}

	for rank := range sr.Paths {
		sd := ServiceDemand{Size: sr.Size, Path: slices.Clone(sr.Paths[rank])}
		rec := TrialRecord{Service: sr.ID, Rank: rank, Path: FormatPath(sd.Path)}

		as.committed = append(as.committed, sd)
		verdict, err := as.Evaluate(as.committed)

		if err == nil && verdict.Admitted {
			as.lightpaths = verdict.Lightpaths

			dec.Admitted = true
			dec.Rank = rank
			dec.Path = slices.Clone(sd.Path)
			dec.Lightpaths = verdict.Lightpaths

			rec.Admitted = true
			rec.Lightpaths = verdict.Lightpaths
			as.trace.AddTrial(as.clock, as.step, rec)
			as.metrics.ObserveTrial(outcomeAdmitted)
			as.metrics.ObserveDecision(dec)

			AdmLog.Debugf("service %d admitted on rank %d path %s, %d lightpaths",
				sr.ID, rank, rec.Path, verdict.Lightpaths)
			return dec
		}

		// roll back the tentative demand
		as.committed = as.committed[:len(as.committed)-1]

		if err != nil {
			dec.Errs = append(dec.Errs, err.Error())
			rec.Err = err.Error()
			as.metrics.ObserveTrial(outcomeError)
			AdmLog.Warnf("service %d rank %d path %s: %v", sr.ID, rank, rec.Path, err)
		} else {
			rec.Lightpaths = verdict.Lightpaths
			if len(verdict.Violations) > 0 {
				rec.Violation = verdict.Violations[0].String()
			}
			as.metrics.ObserveTrial(outcomeRejected)
			AdmLog.Debugf("service %d rank %d path %s rejected: %s", sr.ID, rank, rec.Path, rec.Violation)
		}
		as.trace.AddTrial(as.clock, as.step, rec)
	}

	dec.Lightpaths = as.lightpaths
	as.metrics.ObserveDecision(dec)
	AdmLog.Debugf("service %d blocked after %d candidate paths", sr.ID, len(sr.Paths))
	return dec
}

// Run admits a batch from an empty committed set and reports the outcome
func (as *AdmissionSimulator) Run(services []ServiceRequest) *AdmissionResult {
	as.Reset()

	result := &AdmissionResult{Decisions: make([]Decision, 0, len(services)), Offered: len(services)}
	for idx := range services {
		dec := as.Admit(&services[idx])
		if !dec.Admitted {
			result.Blocked += 1
		}
		result.Decisions = append(result.Decisions, dec)
	}

	result.Committed = as.Committed()
	result.Lightpaths = as.lightpaths
	if result.Offered > 0 {
		result.BlockingRatio = float64(result.Blocked) / float64(result.Offered)
	}

	AdmLog.Infof("admitted %d of %d services, %d blocked (%.2f%%), %d lightpaths",
		result.Offered-result.Blocked, result.Offered, result.Blocked, 100*result.BlockingRatio, result.Lightpaths)
	return result
}
