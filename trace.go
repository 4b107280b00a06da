package grooming

import (
	"github.com/iti/evt/vrtime"
)

// TrialRecord describes one admission trial: a service tried on one of its candidate paths
type TrialRecord struct {
	Time       float64 `json:"time" yaml:"time"`
	Step       int     `json:"step" yaml:"step"`
	Service    int     `json:"service" yaml:"service"`
	Rank       int     `json:"rank" yaml:"rank"`
	Path       string  `json:"path" yaml:"path"`
	Admitted   bool    `json:"admitted" yaml:"admitted"`
	Lightpaths int     `json:"lightpaths" yaml:"lightpaths"`
	Violation  string  `json:"violation,omitempty" yaml:"violation,omitempty"`
	Err        string  `json:"err,omitempty" yaml:"err,omitempty"`
}

// TraceManager gathers the trials of an experiment.  When it is not active every
// call is a no-op, so callers may embed trace calls unconditionally.
type TraceManager struct {
	// experiment uses trace
	InUse bool `json:"inuse" yaml:"inuse"`

	// name of experiment
	ExpName string `json:"expname" yaml:"expname"`

	// trial records, keyed by sweep step
	Trials map[int][]TrialRecord `json:"trials" yaml:"trials"`
}

// CreateTraceManager is a constructor.  It saves the name of the experiment
// and a flag indicating whether the trace manager is active.
func CreateTraceManager(expName string, active bool) *TraceManager {
	tm := new(TraceManager)
	tm.InUse = active
	tm.ExpName = expName
	tm.Trials = make(map[int][]TrialRecord)
	return tm
}

// Active tells the caller whether the trace manager is actively being used
func (tm *TraceManager) Active() bool {
	return tm != nil && tm.InUse
}

// AddTrial stamps rec with the virtual time and step and stores it
func (tm *TraceManager) AddTrial(vrt vrtime.Time, step int, rec TrialRecord) {
	if !tm.Active() {
		return
	}
	rec.Time = vrt.Seconds()
	rec.Step = step
	tm.Trials[step] = append(tm.Trials[step], rec)
}

// NumTrials counts the stored records
func (tm *TraceManager) NumTrials() int {
	if tm == nil {
		return 0
	}
	n := 0
	for _, recs := range tm.Trials {
		n += len(recs)
	}
	return n
}

// WriteToFile stores the trace in the named file, json or yaml by extension.
// Returns false without writing if the manager is not active.
func (tm *TraceManager) WriteToFile(filename string) (bool, error) {
	if !tm.Active() {
		return false, nil
	}
	if err := writeDesc(filename, tm); err != nil {
		return false, err
	}
	return true, nil
}

// ReadTraceManager recovers a trace written by WriteToFile
func ReadTraceManager(filename string, useYAML bool, dict []byte) (*TraceManager, error) {
	tm := TraceManager{}
	if err := readDesc(filename, useYAML, dict, &tm); err != nil {
		return nil, err
	}
	return &tm, nil
}
