// Package network holds the TransportNetwork data structure and the
// CSA earliest-arrival query that runs against it. This is the core
// of the system: everything else (adapters, persistence, the CLI, the
// HTTP shell) exists to get an Adapter's records into a Network, or to
// call QueryLatLon against one.
package network

import (
	"fmt"
	"sort"

	"github.com/jwhandley/railisochrone/adapter"
	"github.com/jwhandley/railisochrone/geo"
	"github.com/jwhandley/railisochrone/model"
)

// Network owns every stop, connection, transfer and calendar entry for
// one built timetable. It is immutable after Build; queries read only
// and are safe to run concurrently against a shared *Network.
type Network struct {
	Stops       map[model.StopId]model.Stop
	Connections []model.Connection
	Transfers   map[model.StopId][]model.Transfer
	Calendar    *model.Calendar

	index *geo.StopIndex
}

// Build ingests an adapter's records into a new Network: it keeps the
// adapter's stops and stop ids as given (ids are not renumbered),
// builds the spatial index, sorts connections by departure
// time (ties broken by trip id then origin stop, for determinism
// across runs), and validates every cross-reference named in the data
// model invariants. Build is fail-fast: a partially constructed
// network is never returned.
func Build(a adapter.Adapter) (*Network, error) {
	stops, err := a.Stops()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAdapter, err)
	}

	connections, err := a.Connections()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAdapter, err)
	}

	transfers, err := a.Transfers()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAdapter, err)
	}

	calendar, err := a.Calendar()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAdapter, err)
	}

	if err := validate(stops, connections, transfers, calendar); err != nil {
		return nil, err
	}

	sort.SliceStable(connections, func(i, j int) bool {
		ci, cj := connections[i], connections[j]
		if ci.Departure != cj.Departure {
			return ci.Departure < cj.Departure
		}
		if ci.TripID != cj.TripID {
			return ci.TripID < cj.TripID
		}
		return ci.FromStopID < cj.FromStopID
	})

	return &Network{
		Stops:       stops,
		Connections: connections,
		Transfers:   transfers,
		Calendar:    calendar,
		index:       geo.NewStopIndex(stops),
	}, nil
}

func validate(
	stops map[model.StopId]model.Stop,
	connections []model.Connection,
	transfers map[model.StopId][]model.Transfer,
	calendar *model.Calendar,
) error {
	runs := calendar.Trips()

	for _, c := range connections {
		if _, ok := stops[c.FromStopID]; !ok {
			return fmt.Errorf("%w: connection references unknown stop %d", ErrBuildInputInvalid, c.FromStopID)
		}
		if _, ok := stops[c.ToStopID]; !ok {
			return fmt.Errorf("%w: connection references unknown stop %d", ErrBuildInputInvalid, c.ToStopID)
		}
		if !runs[c.TripID] {
			return fmt.Errorf("%w: connection references trip %d absent from calendar", ErrBuildInputInvalid, c.TripID)
		}
	}

	for from, ts := range transfers {
		if _, ok := stops[from]; !ok {
			return fmt.Errorf("%w: transfer references unknown origin stop %d", ErrBuildInputInvalid, from)
		}
		for _, t := range ts {
			if _, ok := stops[t.ToStopID]; !ok {
				return fmt.Errorf("%w: transfer references unknown destination stop %d", ErrBuildInputInvalid, t.ToStopID)
			}
			if t.TransferTime < 0 {
				return fmt.Errorf("%w: transfer from %d to %d has negative duration", ErrBuildInputInvalid, from, t.ToStopID)
			}
		}
	}

	return nil
}

// NewFromParts reconstructs a Network from already-validated,
// already-sorted parts. Used by persist.Load to rebuild a network from
// its binary form without re-running Build's validation or sort.
func NewFromParts(
	stops map[model.StopId]model.Stop,
	connections []model.Connection,
	transfers map[model.StopId][]model.Transfer,
	calendar *model.Calendar,
	index *geo.StopIndex,
) *Network {
	return &Network{
		Stops:       stops,
		Connections: connections,
		Transfers:   transfers,
		Calendar:    calendar,
		index:       index,
	}
}

// Stop looks up a stop by id. Callers within this package may assume
// it exists, since Build validates every reference up front.
func (n *Network) Stop(id model.StopId) model.Stop {
	return n.Stops[id]
}

func (n *Network) transfersFrom(id model.StopId) []model.Transfer {
	return n.Transfers[id]
}
