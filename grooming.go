package grooming

// grooming.go computes the baseline the groomed result is compared with: every
// service carried on lightpaths of its own size class, with no multiplexing of
// LOW and HIGH units onto shared transport units.

// services of one size class that fit a lightpath without grooming
const (
	lowPerLightpath  = lightpathBandwidth / 10  // 50
	highPerLightpath = lightpathBandwidth / 100 // 5
)

// LinkLoad counts the services of each size routed over one link
type LinkLoad struct {
	Link Link `json:"link" yaml:"link"`
	Low  int  `json:"low" yaml:"low"`
	High int  `json:"high" yaml:"high"`
}

// Lightpaths gives the transport units the link needs when size classes are kept apart
func (ll LinkLoad) Lightpaths() int {
	return ceilDiv(ll.Low, lowPerLightpath) + ceilDiv(ll.High, highPerLightpath)
}

// NoGroomingLightpaths routes every service over its first candidate path and counts,
// for each link, one lightpath per 50 LOW services and one per 5 HIGH services.
// Services with no candidate path carry no load.  The per-link loads are returned
// ordered by link.
func NoGroomingLightpaths(services []ServiceRequest) (int, []LinkLoad) {
	loads := make(map[Link]*LinkLoad)
	for _, sr := range services {
		if len(sr.Paths) == 0 {
			continue
		}
		path := sr.Paths[0]
		for idx := 0; idx < len(path)-1; idx++ {
			lnk := NewLink(path[idx], path[idx+1])
			ll, present := loads[lnk]
			if !present {
				ll = &LinkLoad{Link: lnk}
				loads[lnk] = ll
			}
			if sr.Size == OduHigh {
				ll.High += 1
			} else {
				ll.Low += 1
			}
		}
	}

	lnks := make([]Link, 0, len(loads))
	for lnk := range loads {
		lnks = append(lnks, lnk)
	}
	sortLinks(lnks)

	total := 0
	rtn := make([]LinkLoad, 0, len(lnks))
	for _, lnk := range lnks {
		total += loads[lnk].Lightpaths()
		rtn = append(rtn, *loads[lnk])
	}
	return total, rtn
}

// SavingsRatio is the fraction of no-grooming lightpaths that grooming saves
func SavingsRatio(noGrooming, grooming int) float64 {
	if noGrooming == 0 {
		return 0
	}
	return float64(noGrooming-grooming) / float64(noGrooming)
}
