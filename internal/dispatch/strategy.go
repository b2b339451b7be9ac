package dispatch

import (
	"fmt"

	"github.com/Emergency-Optimizers/Simulator-sub000/internal/ambulance"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/event"
)

// Strategy chooses which ambulance and which hospital a transition uses;
// everything else about the FSM transition table is shared (spec.md
// §4.2). Two variants: RANDOM and CLOSEST.
type Strategy interface {
	Name() string
	ChooseAmbulance(c *Context, ev *event.Event, now int64) (*ambulance.Ambulance, bool)
	ChooseHospital(c *Context, ev *event.Event) (int, bool)
}

// New creates a Strategy by name. Valid names: "RANDOM", "CLOSEST".
// Panics on unrecognized names, matching the teacher's policy-factory
// convention (INVALID_GENOTYPE-style programmer errors panic; unknown
// config enum values here are the same class of defect, caught well
// before any simulation runs).
func New(name string) Strategy {
	switch name {
	case "RANDOM":
		return &Random{}
	case "CLOSEST":
		return &Closest{}
	default:
		panic(fmt.Sprintf("dispatch: unknown strategy %q", name))
	}
}
