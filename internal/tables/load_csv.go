package tables

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// LoadODMatrixCSV reads the OD matrix format of spec.md §6: the first
// line is comma-separated grid ids forming both row and column order;
// each subsequent line is a comma-separated row of travel-time seconds.
// CSV ingestion is out of scope per spec.md §1 ("treated as external
// collaborators"); this loader is the minimal, unremarkable reader that
// makes the CLI runnable end to end.
func LoadODMatrixCSV(path string) (*ODMatrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loading OD matrix %s: %w", path, ErrIOMissing)
	}
	defer f.Close() //nolint:errcheck // read-only file; close error is not actionable

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading OD matrix header: %w", ErrIOMissing)
	}

	ids := make([]GridID, len(header))
	for i, h := range header {
		v, err := strconv.ParseInt(h, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("OD matrix header col %d %q: %w", i, h, ErrConfigInvalid)
		}
		ids[i] = GridID(v)
	}

	seconds := make([][]float64, 0, len(ids))
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading OD matrix row %d: %w", len(seconds), err)
		}
		row := make([]float64, len(record))
		for j, v := range record {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("OD matrix row %d col %d %q: %w", len(seconds), j, v, ErrConfigInvalid)
			}
			row[j] = f
		}
		seconds = append(seconds, row)
	}

	return NewODMatrix(ids, seconds), nil
}

// LoadTrafficCSV reads a 24-row x 7-column table of multiplicative
// traffic factors (spec.md §6).
func LoadTrafficCSV(path string) (TrafficTable, error) {
	var table TrafficTable

	f, err := os.Open(path)
	if err != nil {
		return table, fmt.Errorf("loading traffic table %s: %w", path, ErrIOMissing)
	}
	defer f.Close() //nolint:errcheck // read-only file; close error is not actionable

	r := csv.NewReader(f)
	for hour := 0; hour < 24; hour++ {
		record, err := r.Read()
		if err != nil {
			return table, fmt.Errorf("reading traffic table row %d: %w", hour, ErrIOMissing)
		}
		if len(record) < 7 {
			return table, fmt.Errorf("traffic table row %d has %d columns, expected 7: %w", hour, len(record), ErrConfigInvalid)
		}
		for day := 0; day < 7; day++ {
			v, err := strconv.ParseFloat(record[day], 64)
			if err != nil {
				return table, fmt.Errorf("traffic table row %d col %d %q: %w", hour, day, record[day], ErrConfigInvalid)
			}
			table[hour][day] = v
		}
	}
	return table, nil
}

// LoadStationsCSV reads the depot/hospital station table (spec.md §6).
func LoadStationsCSV(path string) ([]Depot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loading stations table %s: %w", path, ErrIOMissing)
	}
	defer f.Close() //nolint:errcheck // read-only file; close error is not actionable

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading stations header: %w", ErrIOMissing)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[h] = i
	}

	var out []Depot
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading stations row %d: %w", len(out), err)
		}
		d, err := parseDepotRow(record, col)
		if err != nil {
			return nil, fmt.Errorf("parsing stations row %d: %w", len(out), err)
		}
		out = append(out, d)
	}
	return out, nil
}

func parseDepotRow(record []string, col map[string]int) (Depot, error) {
	get := func(name string) string {
		if i, ok := col[name]; ok && i < len(record) {
			return record[i]
		}
		return ""
	}
	getFloat := func(name string) float64 {
		v, _ := strconv.ParseFloat(get(name), 64)
		return v
	}

	gridID, err := strconv.ParseInt(get("grid_id"), 10, 64)
	if err != nil {
		return Depot{}, fmt.Errorf("grid_id %q: %w", get("grid_id"), ErrConfigInvalid)
	}

	d := Depot{
		Name:                   get("name"),
		Type:                   DepotType(get("type")),
		Grid:                   GridID(gridID),
		Region:                 get("region"),
		UrbanSettlement2km:     get("urban_settlement_2km") == "1" || get("urban_settlement_2km") == "true",
		UrbanSettlement5km:     get("urban_settlement_5km") == "1" || get("urban_settlement_5km") == "true",
		UrbanSettlementCluster: get("urban_settlement_cluster") == "1" || get("urban_settlement_cluster") == "true",
		Population2km:          getFloat("population_2km"),
		Population5km:          getFloat("population_5km"),
		PopulationCluster:      getFloat("population_cluster"),
		Incidents2km:           getFloat("incidents_2km"),
		Incidents5km:           getFloat("incidents_5km"),
		IncidentsCluster:       getFloat("incidents_cluster"),
	}
	return d, nil
}
