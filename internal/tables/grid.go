// Package tables holds the read-only, process-wide reference data: the
// origin-destination travel-time matrix, the depot/hospital station table,
// and the hour-by-weekday traffic table. All three are loaded once at
// startup and shared immutably across every simulated evaluation.
package tables

// GridID is the opaque coordinate key shared by the OD matrix, the station
// table, and incident records. Not every pair of GridIDs is guaranteed to
// have an OD entry.
type GridID int64
