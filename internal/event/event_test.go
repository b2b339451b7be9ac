package event

import "testing"

func TestUpdateTimerAccumulatesMetricAndTimer(t *testing.T) {
	e := &Event{Timer: 100}
	e.UpdateTimer(50, MetricDispatchingToScene, nil)
	if e.Timer != 150 {
		t.Fatalf("expected Timer 150, got %d", e.Timer)
	}
	if e.PrevTimer != 100 {
		t.Fatalf("expected PrevTimer 100, got %d", e.PrevTimer)
	}
	if e.Metrics[MetricDispatchingToScene] != 50 {
		t.Fatalf("expected metric charged 50, got %d", e.Metrics[MetricDispatchingToScene])
	}
}

func TestUpdateTimerCreditsAmbulanceForBusyMetrics(t *testing.T) {
	e := &Event{Timer: 0}
	var credited int64
	e.UpdateTimer(30, MetricAtScene, func(d int64) { credited += d })
	if credited != 30 {
		t.Fatalf("expected ambulance credited 30, got %d", credited)
	}
}

func TestUpdateTimerDoesNotCreditAmbulanceForNonBusyMetrics(t *testing.T) {
	e := &Event{Timer: 0}
	var credited int64
	e.UpdateTimer(30, MetricAppointment, func(d int64) { credited += d })
	if credited != 0 {
		t.Fatalf("expected no ambulance credit for appointment wait, got %d", credited)
	}
}

func TestResponseTimeIdentity(t *testing.T) {
	e := &Event{}
	e.UpdateTimer(10, MetricCreation, nil)
	e.UpdateTimer(20, MetricAppointment, nil)
	e.UpdateTimer(30, MetricPreparing, nil)
	e.UpdateTimer(40, MetricDispatchingToScene, nil)
	e.UpdateTimer(999, MetricAtScene, nil) // must not contribute
	if got := e.ResponseTime(); got != 100 {
		t.Fatalf("expected response time 100, got %d", got)
	}
}

func TestLiveReflectsType(t *testing.T) {
	e := &Event{Type: DispatchingToScene}
	if !e.Live() {
		t.Fatalf("expected live")
	}
	e.Type = None
	if e.Live() {
		t.Fatalf("expected not live once NONE")
	}
}
