// Package artifact writes the four persisted output files of a run
// (spec.md §6 "Persisted artifacts"): events.csv, ambulances.csv,
// genotype.csv, and heuristic.json — grounded on the teacher's
// sim/workload/tracev2.go ExportTraceV2 (os.Create + csv.NewWriter +
// explicit column header row) and its json.MarshalIndent usage in
// sim/latency/config.go / sim/model_config.go for the one JSON artifact.
package artifact

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"github.com/Emergency-Optimizers/Simulator-sub000/internal/ambulance"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/event"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/genotype"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/tables"
)

var eventsColumns = []string{
	"id", "triage", "urban", "depot_index_responsible",
	"metric_creation", "metric_appointment", "metric_preparing",
	"metric_dispatching_to_scene", "metric_at_scene",
	"metric_dispatching_to_hospital", "metric_at_hospital",
	"metric_dispatching_to_depot", "response_time",
}

// WriteEventsCSV writes one row per processed event (spec.md §6
// "events.csv").
func WriteEventsCSV(path string, processed []*event.Event, tbl *tables.Tables) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(eventsColumns); err != nil {
		return fmt.Errorf("writing events.csv header: %w", err)
	}
	for _, ev := range processed {
		row := []string{
			strconv.Itoa(ev.ID),
			string(ev.Triage),
			strconv.FormatBool(tbl.IsUrban(ev.DepotIndexResponsible)),
			strconv.Itoa(ev.DepotIndexResponsible),
			strconv.FormatInt(ev.Metrics[event.MetricCreation], 10),
			strconv.FormatInt(ev.Metrics[event.MetricAppointment], 10),
			strconv.FormatInt(ev.Metrics[event.MetricPreparing], 10),
			strconv.FormatInt(ev.Metrics[event.MetricDispatchingToScene], 10),
			strconv.FormatInt(ev.Metrics[event.MetricAtScene], 10),
			strconv.FormatInt(ev.Metrics[event.MetricDispatchingToHospital], 10),
			strconv.FormatInt(ev.Metrics[event.MetricAtHospital], 10),
			strconv.FormatInt(ev.Metrics[event.MetricDispatchingToDepot], 10),
			strconv.FormatInt(ev.ResponseTime(), 10),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing events.csv row for event %d: %w", ev.ID, err)
		}
	}
	return nil
}

var ambulancesColumns = []string{"id", "allocated_depot_index", "time_unavailable", "time_not_working"}

// WriteAmbulancesCSV writes one row per ambulance (spec.md §6
// "ambulances.csv").
func WriteAmbulancesCSV(path string, roster []*ambulance.Ambulance) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(ambulancesColumns); err != nil {
		return fmt.Errorf("writing ambulances.csv header: %w", err)
	}
	for _, amb := range roster {
		row := []string{
			strconv.Itoa(amb.ID),
			strconv.Itoa(amb.AllocatedDepotIndex),
			strconv.FormatInt(amb.TimeUnavailable, 10),
			strconv.FormatInt(amb.TimeNotWorking, 10),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing ambulances.csv row for ambulance %d: %w", amb.ID, err)
		}
	}
	return nil
}

// WriteGenotypeCSV writes the T×D allocation matrix, one row per time
// segment (spec.md §6 "genotype.csv").
func WriteGenotypeCSV(path string, m genotype.Matrix) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	defer w.Flush()

	for t, row := range m {
		record := make([]string, len(row))
		for d, v := range row {
			record[d] = strconv.Itoa(v)
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("writing genotype.csv row %d: %w", t, err)
		}
	}
	return nil
}

// GenerationMetrics is one generation's worth of tracked heuristic
// progress (spec.md §6 "heuristic.json ... diversity, per-objective
// averages, front number, crowding distance").
type GenerationMetrics struct {
	Generation        int                `json:"generation"`
	Diversity         float64            `json:"diversity"`
	ObjectiveAverages map[string]float64 `json:"objective_averages"`
	ObjectiveVariances map[string]float64 `json:"objective_variances"`
	FrontNumbers      []int              `json:"front_numbers,omitempty"`
	CrowdingDistances []float64          `json:"crowding_distances,omitempty"`
}

// WriteHeuristicJSON writes the per-generation metric history (spec.md
// §6 "heuristic.json").
func WriteHeuristicJSON(path string, history []GenerationMetrics) error {
	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling heuristic.json: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// SummarizeGeneration reduces one generation's ranked population into a
// GenerationMetrics row: diversity is the mean pairwise genotype L1
// distance sampled over adjacent population-order pairs (a cheap proxy,
// not an all-pairs O(n^2) computation, since this runs every generation).
// Per-objective mean/variance across the population are computed with
// gonum.org/v1/gonum/stat.
func SummarizeGeneration(gen int, pop []*genotype.Individual) GenerationMetrics {
	gm := GenerationMetrics{Generation: gen, ObjectiveAverages: map[string]float64{}, ObjectiveVariances: map[string]float64{}}
	if len(pop) == 0 {
		return gm
	}

	values := map[genotype.ObjectiveKey][]float64{}
	for _, ind := range pop {
		for k, v := range ind.RawObjectives {
			values[k] = append(values[k], v)
		}
		gm.FrontNumbers = append(gm.FrontNumbers, ind.FrontNumber)
		gm.CrowdingDistances = append(gm.CrowdingDistances, ind.CrowdingDistance)
	}
	for k, vs := range values {
		gm.ObjectiveAverages[string(k)] = stat.Mean(vs, nil)
		if len(vs) > 1 {
			gm.ObjectiveVariances[string(k)] = stat.Variance(vs, nil)
		}
	}

	var totalDist float64
	for i := 1; i < len(pop); i++ {
		totalDist += genotypeL1Distance(pop[i-1].Genotype, pop[i].Genotype)
	}
	if len(pop) > 1 {
		gm.Diversity = totalDist / float64(len(pop)-1)
	}
	return gm
}

func genotypeL1Distance(a, b genotype.Matrix) float64 {
	var dist float64
	for t := range a {
		for d := range a[t] {
			diff := a[t][d] - b[t][d]
			if diff < 0 {
				diff = -diff
			}
			dist += float64(diff)
		}
	}
	return dist
}
