package dispatch

import (
	"math/rand"
	"testing"
	"time"

	"github.com/Emergency-Optimizers/Simulator-sub000/internal/ambulance"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/event"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/tables"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/travel"
)

func uniformTraffic() tables.TrafficTable {
	var tt tables.TrafficTable
	for h := 0; h < 24; h++ {
		for w := 0; w < 7; w++ {
			tt[h][w] = 1.0
		}
	}
	return tt
}

func newTestContext(t *testing.T, strat Strategy) (*Context, *event.Queue) {
	t.Helper()
	od := tables.NewODMatrix([]tables.GridID{1, 2, 3}, [][]float64{
		{0, 300, 600},
		{300, 0, 300},
		{600, 300, 0},
	})
	stations := []tables.Depot{
		{Name: "Depot A", Type: tables.DepotTypeDepot, Grid: 1},
		{Name: "Depot B", Type: tables.DepotTypeDepot, Grid: 2},
		{Name: "Hospital", Type: tables.DepotTypeHospital, Grid: 3},
	}
	tbl, err := tables.NewTables(od, uniformTraffic(), stations, tables.UrbanMethod5km, -1)
	if err != nil {
		t.Fatalf("NewTables: %v", err)
	}
	cfg := travel.DefaultConfig()
	cfg.NoiseStdev = 0 // deterministic travel times for the FSM tests
	oracle := travel.New(tbl, cfg, rand.New(rand.NewSource(1)))

	amb := ambulance.New(0, 0, 1)
	events := map[int]*event.Event{}
	c := NewContext(tbl, oracle, time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		[]*ambulance.Ambulance{amb}, events, true, false, rand.New(rand.NewSource(2)))
	_ = strat
	return c, event.NewQueue()
}

func newIncident(id int, triage travel.Triage, incidentGrid tables.GridID) *event.Event {
	return &event.Event{
		ID:                    id,
		Type:                  event.AssigningAmbulance,
		Triage:                triage,
		IncidentGridID:        incidentGrid,
		GridID:                incidentGrid,
		AssignedAmbulanceID:   event.NoAmbulance,
		DepotIndexResponsible: 0,

		SecondsWaitResourcePreparingDeparture: 30,
		SecondsWaitDepartureScene:             600,
		SecondsWaitAvailable:                  120,
	}
}

func drain(c *Context, strat Strategy, queue *event.Queue) {
	for {
		ev := queue.NextLive()
		if ev == nil {
			return
		}
		Handle(c, strat, ev, queue)
	}
}

func TestScenarioASimpleRoundTrip(t *testing.T) {
	strat := &Random{}
	c, queue := newTestContext(t, strat)
	ev := newIncident(1, travel.TriageUrgent, 2)
	c.Events[ev.ID] = ev
	queue.Schedule(ev)

	drain(c, strat, queue)

	if ev.Type != event.None {
		t.Fatalf("expected event to reach terminal state, got %v", ev.Type)
	}
	if ev.ResponseTime() <= 0 {
		t.Fatalf("expected positive response time")
	}
	amb := c.ambulanceByID(0)
	if !amb.Idle() {
		t.Fatalf("expected ambulance idle after completion")
	}
	if amb.CurrentGridID != c.Tables.Stations[amb.AllocatedDepotIndex].Grid {
		t.Fatalf("expected ambulance back at its depot, got grid %d", amb.CurrentGridID)
	}
}

func TestScenarioBRetryChargesAppointmentInMultiplesOf60(t *testing.T) {
	strat := &Random{}
	c, queue := newTestContext(t, strat)
	// Put the only ambulance on an un-preemptable low-triage trip so the
	// first pass finds no candidate.
	amb := c.ambulanceByID(0)
	busy := newIncident(99, travel.TriageScheduled, 2)
	busy.Type = event.DispatchingToScene
	busy.Timer = 10_000
	busy.PrevTimer = 0
	busy.AssignedAmbulanceID = amb.ID
	amb.AssignedEventID = busy.ID
	c.Events[busy.ID] = busy

	ev := newIncident(1, travel.TriageScheduled, 2)
	c.Events[ev.ID] = ev
	queue.Schedule(ev)

	Handle(c, strat, ev, queue)
	if ev.Type != event.AssigningAmbulance {
		t.Fatalf("expected to stay in ASSIGNING_AMBULANCE on failed retry, got %v", ev.Type)
	}
	if ev.Metrics[event.MetricAppointment]%60 != 0 {
		t.Fatalf("expected appointment wait charged in multiples of 60, got %d", ev.Metrics[event.MetricAppointment])
	}
}

func TestScenarioCTriagePreemption(t *testing.T) {
	strat := &Random{}
	c, queue := newTestContext(t, strat)
	amb := c.ambulanceByID(0)

	low := newIncident(1, travel.TriageScheduled, 2)
	queue.Schedule(low)
	c.Events[low.ID] = low
	Handle(c, strat, low, queue)
	if low.Type != event.DispatchingToScene {
		t.Fatalf("expected low-triage event resting at DISPATCHING_TO_SCENE, got %v", low.Type)
	}
	if amb.Idle() {
		t.Fatalf("expected ambulance busy with low-triage call")
	}

	high := newIncident(2, travel.TriageAcute, 3)
	high.Timer = low.PrevTimer + (low.Timer-low.PrevTimer)/2 // mid-flight
	c.Events[high.ID] = high
	Handle(c, strat, high, queue)

	if amb.AssignedEventID != high.ID {
		t.Fatalf("expected ambulance reassigned to the acute call")
	}
	if low.Type != event.None {
		t.Fatalf("expected preempted event tombstoned, got %v", low.Type)
	}
	if low.Metrics[event.MetricDispatchingToDepot] <= 0 {
		t.Fatalf("expected interrupted event credited partial travel, got %d", low.Metrics[event.MetricDispatchingToDepot])
	}
}
