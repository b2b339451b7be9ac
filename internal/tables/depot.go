package tables

// DepotType distinguishes ordinary depots from day-only extra posts and
// hospitals, which never host an allocated ambulance roster.
type DepotType string

const (
	DepotTypeDepot           DepotType = "Depot"
	DepotTypeBeredskapspunkt DepotType = "Beredskapspunkt"
	DepotTypeHospital        DepotType = "Hospital"
)

// Depot is one row of the station table. Lifetime: loaded once at process
// start, immutable thereafter.
type Depot struct {
	Name string
	Type DepotType
	Grid GridID

	Region string

	// UrbanSettlement2km, UrbanSettlement5km, UrbanSettlementCluster are the
	// candidate urbanity indicators selected between by URBAN_METHOD.
	UrbanSettlement2km      bool
	UrbanSettlement5km      bool
	UrbanSettlementCluster  bool

	// Demographic weights used by the population/incident-proportionate
	// genotype initializers (SPEC_FULL §4, supplemented features).
	Population2km      float64
	Population5km      float64
	PopulationCluster  float64
	Incidents2km       float64
	Incidents5km       float64
	IncidentsCluster   float64
}

// IsStation reports whether this row may host an allocated ambulance
// roster (depots and Beredskapspunkt, but never hospitals).
func (d Depot) IsStation() bool {
	return d.Type == DepotTypeDepot || d.Type == DepotTypeBeredskapspunkt
}
