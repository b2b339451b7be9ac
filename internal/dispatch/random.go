package dispatch

import (
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/ambulance"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/event"
)

// Random picks the assigned ambulance uniformly from the set currently
// available, and the hospital uniformly at random (spec.md §4.2).
type Random struct{}

func (r *Random) Name() string { return "RANDOM" }

func (r *Random) ChooseAmbulance(c *Context, ev *event.Event, now int64) (*ambulance.Ambulance, bool) {
	candidates := candidateAmbulances(c, ev.Triage, now)
	if len(candidates) == 0 {
		return nil, false
	}
	idx := c.RNG.Intn(len(candidates))
	return candidates[idx], true
}

func (r *Random) ChooseHospital(c *Context, ev *event.Event) (int, bool) {
	hospitals := c.Tables.Hospitals()
	if len(hospitals) == 0 {
		return 0, false
	}
	idx := c.RNG.Intn(len(hospitals))
	return hospitals[idx], true
}
