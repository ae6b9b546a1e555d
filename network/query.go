package network

import (
	"sort"
	"time"

	"github.com/jwhandley/railisochrone/model"
)

// WalkingSpeedMPS is the assumed walking speed used to turn a
// geodesic seed distance into a travel time. A fixed constant, not
// configurable (see DESIGN.md).
const WalkingSpeedMPS = 1.4

// SeedRadiusMeters is how far from the query origin we look for stops
// reachable on foot before any connection is boarded.
const SeedRadiusMeters = 500

// csaState is the per-query mutable state: the best known arrival at
// each stop, and the set of trips already boarded by this journey.
// Owned entirely by one call to QueryLatLon; never shared or reused.
type csaState struct {
	arrival map[model.StopId]time.Time
	boarded map[model.TripId]bool
}

func newCsaState() *csaState {
	return &csaState{
		arrival: map[model.StopId]time.Time{},
		boarded: map[model.TripId]bool{},
	}
}

// shouldUpdate reports whether t would strictly improve the known
// arrival at stop (or stop has no label yet).
func (s *csaState) shouldUpdate(stop model.StopId, t time.Time) bool {
	known, ok := s.arrival[stop]
	return !ok || known.After(t)
}

// canBoard reports whether a traveller already at stop by t could
// board a connection departing stop at t.
func (s *csaState) canBoard(stop model.StopId, t time.Time) bool {
	known, ok := s.arrival[stop]
	return ok && !known.After(t)
}

func (s *csaState) update(stop model.StopId, t time.Time) {
	s.arrival[stop] = t
}

// QueryLatLon computes, for a traveller departing a given (lat, lon)
// origin on civil date, at civil time-of-day timeOfDay, the earliest
// arrival at every reachable stop in the network. It runs the three
// phases of the Connection Scan Algorithm: seed the origin's walking
// neighbourhood, scan connections in departure order maintaining
// per-trip boarding state, and relax footpaths whenever an arrival
// label improves. The scan never terminates early; there is no
// shortest-path target, only a full earliest-arrival frontier.
func (n *Network) QueryLatLon(lat, lon float64, date time.Time, timeOfDay time.Duration) []model.ArrivalTime {
	t0 := civilMidnight(date).Add(timeOfDay)
	state := newCsaState()

	n.seedOrigin(state, lat, lon, t0)
	n.scanConnections(state, date, timeOfDay)

	results := make([]model.ArrivalTime, 0, len(state.arrival))
	for stopID, arrival := range state.arrival {
		stop := n.Stop(stopID)
		results = append(results, model.ArrivalTime{
			StopName:    stop.Name,
			ArrivalTime: arrival,
			Lat:         stop.Lat,
			Lon:         stop.Lon,
		})
	}
	return results
}

func civilMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// seedOrigin is phase A: label every stop within SeedRadiusMeters of
// (lat, lon) with a walking arrival time, then relax one hop of
// transfers from each seeded stop.
func (n *Network) seedOrigin(state *csaState, lat, lon float64, t0 time.Time) {
	for stopID, distM := range n.index.WithinRadius(lat, lon, SeedRadiusMeters) {
		walkTime := time.Duration(distM/WalkingSpeedMPS) * time.Second
		arrival := t0.Add(walkTime)

		if state.shouldUpdate(stopID, arrival) {
			state.update(stopID, arrival)
		}

		n.relaxTransfers(state, stopID, arrival)
	}
}

// scanConnections is phase B: the single forward sweep over
// departure-sorted connections, starting at the first connection
// departing at or after timeOfDay and continuing to the end of the
// (single day's worth of) sorted connection list. date is the
// operating date used to resolve calendar membership and to turn each
// connection's time-of-day into an absolute instant.
func (n *Network) scanConnections(state *csaState, date time.Time, timeOfDay time.Duration) {
	start := sort.Search(len(n.Connections), func(i int) bool {
		return n.Connections[i].Departure >= timeOfDay
	})

	for _, c := range n.Connections[start:] {
		if !n.Calendar.RunsOn(c.TripID, date) {
			continue
		}

		dep := c.DepartureDateTime(date)

		if !state.boarded[c.TripID] && !state.canBoard(c.FromStopID, dep) {
			continue
		}

		state.boarded[c.TripID] = true

		arr := c.ArrivalDateTime(date)
		if state.shouldUpdate(c.ToStopID, arr) {
			state.update(c.ToStopID, arr)
			n.relaxTransfers(state, c.ToStopID, arr)
		}
	}
}

// relaxTransfers applies one hop of footpath relaxation from stop,
// given that a traveller is known to be there at arrival. Transfers
// are relaxed only one hop per call; legitimate compositions of
// several transfers occur naturally across successive connection
// steps, never transitively here.
func (n *Network) relaxTransfers(state *csaState, stop model.StopId, arrival time.Time) {
	for _, tr := range n.transfersFrom(stop) {
		candidate := arrival.Add(tr.TransferTime)
		if state.shouldUpdate(tr.ToStopID, candidate) {
			state.update(tr.ToStopID, candidate)
		}
	}
}
