package tables

// UrbanMethod selects which urban_settlement_* column of the station table
// determines the urban/rural split used both for response-time-threshold
// bucketing and for per-bucket objectives (supplemented feature, SPEC_FULL §4).
type UrbanMethod string

const (
	UrbanMethod2km     UrbanMethod = "2km"
	UrbanMethod5km     UrbanMethod = "5km"
	UrbanMethodCluster UrbanMethod = "cluster"
)

// IsUrban resolves a depot's urban/rural flag according to method.
// Unrecognized methods fall back to the 5km column, matching the source's
// default (see original_source/_INDEX.md).
func IsUrban(d Depot, method UrbanMethod) bool {
	switch method {
	case UrbanMethod2km:
		return d.UrbanSettlement2km
	case UrbanMethodCluster:
		return d.UrbanSettlementCluster
	default:
		return d.UrbanSettlement5km
	}
}
