// Package adapter defines the contract an external timetable ingester
// must satisfy to populate a transport network. The core is blind to
// the source format: a CIF reader, a GTFS reader or the reference CSV
// reader in adapter/csv all satisfy the same interface.
package adapter

import "github.com/jwhandley/railisochrone/model"

// Adapter is a pure producer of the four record sets a network is
// built from. Each method is called exactly once during Build. Any
// method may fail; the core treats the error as opaque and surfaces
// it unchanged from network.Build.
type Adapter interface {
	// Stops returns a stable, deduplicated set of stops.
	Stops() (map[model.StopId]model.Stop, error)

	// Connections returns all connections, in any order; the
	// builder sorts them by departure time.
	Connections() ([]model.Connection, error)

	// Transfers returns the footpath graph, keyed by origin stop.
	Transfers() (map[model.StopId][]model.Transfer, error)

	// Calendar returns the service/cancellation windows governing
	// every trip id referenced by Connections.
	Calendar() (*model.Calendar, error)
}
