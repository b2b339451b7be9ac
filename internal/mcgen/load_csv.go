package mcgen

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/Emergency-Optimizers/Simulator-sub000/internal/tables"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/travel"
)

// LoadHistoricalCSV reads the historical incidents table (spec.md §6
// "Incidents (historical, ingested by the MC generator)"), reducing each
// row's absolute `time_*` columns to the relative SecondsWait* deltas
// internal/event expects (grounded on internal/tables/load_csv.go's
// header-indexed column lookup style). A missing hospital leg
// (`time_ambulance_dispatch_to_hospital` empty) yields
// SecondsWaitDepartureScene = -1, matching spec.md §3's "-1 encodes
// absent" convention.
func LoadHistoricalCSV(path string) ([]HistoricalIncident, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loading historical incidents %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading historical incidents header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[h] = i
	}

	var out []HistoricalIncident
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading historical incidents row %d: %w", len(out), err)
		}
		rec, err := parseHistoricalRow(record, col)
		if err != nil {
			return nil, fmt.Errorf("parsing historical incidents row %d: %w", len(out), err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func parseHistoricalRow(record []string, col map[string]int) (HistoricalIncident, error) {
	get := func(name string) string {
		if i, ok := col[name]; ok && i < len(record) {
			return record[i]
		}
		return ""
	}
	getInt := func(name string) int64 {
		v, _ := strconv.ParseInt(get(name), 10, 64)
		return v
	}

	gridID, err := strconv.ParseInt(get("grid_id"), 10, 64)
	if err != nil {
		return HistoricalIncident{}, fmt.Errorf("grid_id %q: %w", get("grid_id"), err)
	}
	depotIdx, _ := strconv.Atoi(get("depot_index_responsible"))

	callReceivedUnix := getInt("time_call_received")
	callReceived := time.Unix(callReceivedUnix, 0).UTC()

	incidentCreated := getInt("time_incident_created")
	resourceAppointed := getInt("time_resource_appointed")
	dispatchToScene := getInt("time_ambulance_dispatch_to_scene")
	arrivedAtScene := getInt("time_ambulance_arrived_at_scene")
	dispatchToHospital := getInt("time_ambulance_dispatch_to_hospital")
	arrivedAtHospital := getInt("time_ambulance_arrived_at_hospital")
	available := getInt("time_ambulance_available")

	waitDepartureScene := int64(-1)
	waitAvailable := available - arrivedAtScene
	if hosp := get("time_ambulance_dispatch_to_hospital"); hosp != "" {
		waitDepartureScene = dispatchToHospital - arrivedAtScene
		waitAvailable = available - arrivedAtHospital
	}

	return HistoricalIncident{
		Triage:                travel.Triage(get("triage_impression_during_call")),
		Weekday:               callReceived.Weekday(),
		Hour:                  callReceived.Hour(),
		GridID:                tables.GridID(gridID),
		DepotIndexResponsible: depotIdx,

		SecondsWaitCallAnswered:               incidentCreated - callReceivedUnix,
		SecondsWaitAppointingResource:         resourceAppointed - incidentCreated,
		SecondsWaitResourcePreparingDeparture: dispatchToScene - resourceAppointed,
		SecondsWaitDepartureScene:             waitDepartureScene,
		SecondsWaitAvailable:                  waitAvailable,
	}, nil
}
