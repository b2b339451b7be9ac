package ambulance

import "testing"

func TestNewAmbulanceIsIdle(t *testing.T) {
	a := New(1, 0, 100)
	if !a.Idle() {
		t.Fatalf("expected new ambulance to be idle")
	}
}

func TestUpdateBreakStateEntersBreakWhenIdleAndDue(t *testing.T) {
	a := New(1, 0, 100)
	a.ScheduledBreaks = []int64{1000}
	a.UpdateBreakState(1000)
	if !a.OnBreak() {
		t.Fatalf("expected ambulance to be on break")
	}
	if len(a.ScheduledBreaks) != 0 {
		t.Fatalf("expected consumed break removed from schedule")
	}
}

func TestUpdateBreakStateClearsAfterWindow(t *testing.T) {
	a := New(1, 0, 100)
	a.ScheduledBreaks = []int64{1000}
	a.UpdateBreakState(1000)
	a.UpdateBreakState(1000 + breakLengthSeconds)
	if a.OnBreak() {
		t.Fatalf("expected break to have ended")
	}
	if a.TimeNotWorking != breakLengthSeconds {
		t.Fatalf("expected TimeNotWorking credited, got %d", a.TimeNotWorking)
	}
}

func TestUpdateBreakStateNoOpWhenBusy(t *testing.T) {
	a := New(1, 0, 100)
	a.AssignedEventID = 5
	a.ScheduledBreaks = []int64{1000}
	a.UpdateBreakState(1000)
	if a.OnBreak() {
		t.Fatalf("expected busy ambulance to not enter break")
	}
	if len(a.ScheduledBreaks) != 1 {
		t.Fatalf("expected break to remain scheduled")
	}
}
