package dispatch

import (
	"time"

	"github.com/Emergency-Optimizers/Simulator-sub000/internal/ambulance"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/event"
)

// Closest picks the ambulance/hospital with the shortest estimated travel
// time, ignoring traffic unless the triage forces it (spec.md §4.2
// "CLOSEST"). Ties are broken by depot order, matching the source's
// "first encountered" behavior (spec.md §9).
type Closest struct{}

func (cl *Closest) Name() string { return "CLOSEST" }

func (cl *Closest) ChooseAmbulance(c *Context, ev *event.Event, now int64) (*ambulance.Ambulance, bool) {
	candidates := candidateAmbulances(c, ev.Triage, now)
	if c.ResponseRestricted {
		candidates = restrictByUrbanity(c, candidates, ev)
	}
	if len(candidates) == 0 {
		return nil, false
	}

	at := c.Epoch.Add(time.Duration(now) * time.Second)
	var best *ambulance.Ambulance
	var bestETA int64
	for _, amb := range candidates {
		eta := c.Oracle.EstimateOrFallback(amb.CurrentGridID, ev.IncidentGridID, ev.Triage, at, false)
		if best == nil || eta < bestETA {
			best, bestETA = amb, eta
		}
	}
	return best, best != nil
}

func (cl *Closest) ChooseHospital(c *Context, ev *event.Event) (int, bool) {
	hospitals := c.Tables.Hospitals()
	if len(hospitals) == 0 {
		return 0, false
	}

	at := ev.Time(c.Epoch)
	best := hospitals[0]
	bestETA := int64(-1)
	for _, idx := range hospitals {
		grid := c.Tables.Stations[idx].Grid
		eta := c.Oracle.EstimateOrFallback(ev.GridID, grid, ev.Triage, at, false)
		if bestETA < 0 || eta < bestETA {
			best, bestETA = idx, eta
		}
	}
	return best, true
}

// restrictByUrbanity narrows candidates to ambulances whose home depot
// matches the incident's urbanity class, when DISPATCH_STRATEGY_RESPONSE_
// RESTRICTED is enabled (spec.md §4.2, §9). Falls back to the unrestricted
// set if restriction would leave no candidates, since an incident must
// always be served if any ambulance is available.
func restrictByUrbanity(c *Context, candidates []*ambulance.Ambulance, ev *event.Event) []*ambulance.Ambulance {
	incidentUrban := c.Tables.IsUrban(ev.DepotIndexResponsible)
	var restricted []*ambulance.Ambulance
	for _, amb := range candidates {
		if c.Tables.IsUrban(amb.AllocatedDepotIndex) == incidentUrban {
			restricted = append(restricted, amb)
		}
	}
	if len(restricted) == 0 {
		return candidates
	}
	return restricted
}
