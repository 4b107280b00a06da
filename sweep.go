package grooming

// sweep.go runs the experiment that compares groomed and ungroomed lightpath
// counts as the offered load grows.  Each step of the sweep is an event on an
// evtm event manager: the handler generates a batch of services, computes the
// no-grooming baseline, runs the admission loop, records a SweepPoint and, while
// the blocking ratio stays under the threshold, schedules the next step one unit
// of virtual time later with a larger batch.

import (
	"context"
	"fmt"
	"sync"

	"github.com/iti/evt/evtm"
	"github.com/iti/evt/vrtime"
	"github.com/iti/rngstream"
	"github.com/panjf2000/ants/v2"
)

// SweepPoint is the outcome of one step of a sweep
type SweepPoint struct {
	Step          int     `json:"step" yaml:"step"`
	Services      int     `json:"services" yaml:"services"`
	NoGrooming    int     `json:"nogrooming" yaml:"nogrooming"`
	Grooming      int     `json:"grooming" yaml:"grooming"`
	Blocked       int     `json:"blocked" yaml:"blocked"`
	BlockingRatio float64 `json:"blockingratio" yaml:"blockingratio"`
	SavingsRatio  float64 `json:"savingsratio" yaml:"savingsratio"`
}

// SweepReport collects the points of one sweep
type SweepReport struct {
	Name      string       `json:"name" yaml:"name"`
	Replicate int          `json:"replicate" yaml:"replicate"`
	Topology  string       `json:"topology" yaml:"topology"`
	Nodes     int          `json:"nodes" yaml:"nodes"`
	Links     int          `json:"links" yaml:"links"`
	Policy    Policy       `json:"policy" yaml:"policy"`
	Points    []SweepPoint `json:"points" yaml:"points"`
}

// Sweep holds the state carried from one step event to the next
type Sweep struct {
	topo     *Topology
	policy   Policy
	cfg      SweepConfig
	rng      *rngstream.RngStream
	adm      *AdmissionSimulator
	report   *SweepReport
	step     int
	services int
	err      error
}

// CreateSweep is a constructor.  Services are drawn from rng.
func CreateSweep(name string, replicate int, topo *Topology, policy Policy, cfg SweepConfig,
	rng *rngstream.RngStream) *Sweep {

	sw := new(Sweep)
	sw.topo = topo
	sw.policy = policy
	sw.cfg = cfg
	sw.rng = rng
	sw.adm = CreateAdmissionSimulator(topo, policy)
	sw.services = cfg.StartServices
	sw.report = &SweepReport{
		Name:      name,
		Replicate: replicate,
		Topology:  topo.Name,
		Nodes:     topo.NumNodes(),
		Links:     len(topo.Links()),
		Policy:    policy,
		Points:    []SweepPoint{},
	}
	return sw
}

// SetTraceManager records every admission trial of the sweep in tm
func (sw *Sweep) SetTraceManager(tm *TraceManager) {
	sw.adm.SetTraceManager(tm)
}

// SetCollector reports admission outcomes to ac
func (sw *Sweep) SetCollector(ac *AdmissionCollector) {
	sw.adm.SetCollector(ac)
}

// Run executes the sweep to completion and returns its report
func (sw *Sweep) Run() (*SweepReport, error) {
	if !sw.topo.Connected() {
		SweepLog.Warnf("topology %s is not connected, services between components will be blocked", sw.topo.Name)
	}

	evtMgr := evtm.New()
	evtMgr.Schedule(sw, nil, sweepStep, vrtime.SecondsToTime(0.0))

	// steps are one second of virtual time apart
	evtMgr.Run(float64(sw.cfg.MaxSteps) + 1.0)

	return sw.report, sw.err
}

// sweepStep is the event handler of one step
func sweepStep(evtMgr *evtm.EventManager, cxt any, data any) any {
	sw := cxt.(*Sweep)

	point, err := sw.runStep(evtMgr.CurrentTime())
	if err != nil {
		sw.err = err
		return nil
	}

	if point.BlockingRatio >= sw.cfg.BlockingThreshold {
		SweepLog.Infof("%s: blocking ratio %.4f reached threshold %.4f at %d services",
			sw.report.Name, point.BlockingRatio, sw.cfg.BlockingThreshold, point.Services)
		return nil
	}
	if sw.step >= sw.cfg.MaxSteps {
		SweepLog.Infof("%s: stopped after %d steps below the blocking threshold", sw.report.Name, sw.step)
		return nil
	}
	evtMgr.Schedule(sw, nil, sweepStep, vrtime.SecondsToTime(1.0))
	return nil
}

// runStep offers one batch and records the outcome
func (sw *Sweep) runStep(now vrtime.Time) (SweepPoint, error) {
	services, err := GenerateServices(sw.topo, sw.services, sw.policy.MaxPaths, sw.rng)
	if err != nil {
		return SweepPoint{}, err
	}

	noGrooming, _ := NoGroomingLightpaths(services)

	sw.adm.SetTraceContext(sw.step, now)
	result := sw.adm.Run(services)

	point := SweepPoint{
		Step:          sw.step,
		Services:      sw.services,
		NoGrooming:    noGrooming,
		Grooming:      result.Lightpaths,
		Blocked:       result.Blocked,
		BlockingRatio: result.BlockingRatio,
		SavingsRatio:  SavingsRatio(noGrooming, result.Lightpaths),
	}
	sw.report.Points = append(sw.report.Points, point)

	SweepLog.Infof("%s step %d: %d services, lightpaths %d without grooming, %d with, blocked %.2f%%",
		sw.report.Name, point.Step, point.Services, point.NoGrooming, point.Grooming, 100*point.BlockingRatio)

	sw.step += 1
	sw.services += sw.cfg.Step
	return point, nil
}

// RunReplicates runs cfg.Sweep.Replicates independent sweeps over topo on a pool of
// cfg.Sweep.Workers goroutines.  Each replicate draws its services from its own
// stream; the streams are created up front, in replicate order, so the result does
// not depend on scheduling.  Replicates not yet started when ctx is done are skipped.
func RunReplicates(ctx context.Context, name string, topo *Topology, cfg *Config,
	ac *AdmissionCollector) ([]*SweepReport, error) {

	n := cfg.Sweep.Replicates
	streams := make([]*rngstream.RngStream, n)
	for idx := range streams {
		streams[idx] = rngstream.New(fmt.Sprintf("%s-services-%d", name, idx))
	}

	pool, err := ants.NewPool(cfg.Sweep.Workers)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer pool.Release()

	reports := make([]*SweepReport, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for idx := 0; idx < n; idx++ {
		replicate := idx
		wg.Add(1)
		serr := pool.Submit(func() {
			defer wg.Done()
			if cerr := ctx.Err(); cerr != nil {
				errs[replicate] = cerr
				return
			}
			sw := CreateSweep(fmt.Sprintf("%s-%d", name, replicate), replicate, topo, cfg.Policy, cfg.Sweep,
				streams[replicate])
			sw.SetCollector(ac)
			reports[replicate], errs[replicate] = sw.Run()
		})
		if serr != nil {
			wg.Done()
			errs[replicate] = serr
		}
	}
	wg.Wait()

	return reports, ReportErrs(errs)
}
