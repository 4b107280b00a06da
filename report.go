package grooming

import (
	"fmt"
	"strings"
	"text/tabwriter"
)

// WriteToFile stores the report in the named file, json or yaml by extension
func (rpt *SweepReport) WriteToFile(filename string) error {
	return writeDesc(filename, rpt)
}

// ReadSweepReport deserializes a SweepReport from dict, or from the named file when dict is empty
func ReadSweepReport(filename string, useYAML bool, dict []byte) (*SweepReport, error) {
	rpt := SweepReport{}
	if err := readDesc(filename, useYAML, dict, &rpt); err != nil {
		return nil, err
	}
	return &rpt, nil
}

// Final is the last point of the sweep, the first one at or above the blocking threshold
// unless the sweep ran out of steps
func (rpt *SweepReport) Final() (SweepPoint, bool) {
	if len(rpt.Points) == 0 {
		return SweepPoint{}, false
	}
	return rpt.Points[len(rpt.Points)-1], true
}

// Summary renders the report as an aligned text table
func (rpt *SweepReport) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (replicate %d): topology %s, %d nodes, %d links\n",
		rpt.Name, rpt.Replicate, rpt.Topology, rpt.Nodes, rpt.Links)

	tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "services\tno grooming\tgrooming\tsaved\tsavings\tblocked\tblocking\t")
	for _, pt := range rpt.Points {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%.2f%%\t%d\t%.2f%%\t\n",
			pt.Services, pt.NoGrooming, pt.Grooming, pt.NoGrooming-pt.Grooming,
			100*pt.SavingsRatio, pt.Blocked, 100*pt.BlockingRatio)
	}
	tw.Flush()
	return sb.String()
}
