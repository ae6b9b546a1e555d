// Package model holds the core entity types of the transport network:
// stops, trips, connections, transfers and the calendar that governs
// when a trip runs. Types here are immutable once a network is built.
package model

import "time"

// StopId is an integer stop handle supplied by the adapter. Build
// keeps these ids as given and does not renumber them, so they need
// not be dense or start at 0. It is stable for the lifetime of one
// built network and is used as a map key and a KD-tree payload.
type StopId uint32

// TripId is a dense integer handle, one per schedule record accepted
// by an adapter. Stable for the lifetime of one built network.
type TripId uint32

// Stop is a named point in the network. Lat/Lon are in degrees
// (-90..90, -180..180) and must be finite.
type Stop struct {
	ID   StopId
	Name string
	Lat  float64
	Lon  float64
}

// Connection is one scheduled vehicle hop, recurring on every date its
// trip runs. Departure and Arrival are civil times-of-day (offsets
// since midnight on the service date), continuing the teacher's own
// StopTime.ArrivalTime()/DepartureTime() idiom of storing a
// time.Duration rather than a zoned clock time. Arrival may be
// numerically less than Departure: that signals a crossing of
// midnight, resolved against a concrete date by ArrivalDateTime.
type Connection struct {
	TripID     TripId
	FromStopID StopId
	ToStopID   StopId
	Departure  time.Duration
	Arrival    time.Duration
}

// DepartureDateTime resolves this connection's departure against the
// civil date the trip runs on.
func (c Connection) DepartureDateTime(date time.Time) time.Time {
	return civilMidnight(date).Add(c.Departure)
}

// ArrivalDateTime resolves this connection's arrival against the
// civil date the trip runs on, rolling over to the next day whenever
// the civil arrival time-of-day is strictly less than the civil
// departure time-of-day.
func (c Connection) ArrivalDateTime(date time.Time) time.Time {
	d := date
	if c.Arrival < c.Departure {
		d = date.AddDate(0, 0, 1)
	}
	return civilMidnight(d).Add(c.Arrival)
}

func civilMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Transfer models a directed walking move between two stops that can
// be taken at any time. A symmetric footpath requires two entries;
// self-transfers (From == To) represent a minimum interchange dwell.
type Transfer struct {
	FromStopID   StopId
	ToStopID     StopId
	TransferTime time.Duration
}

// ArrivalTime is one result row of a query: the earliest a traveller
// can be at a stop, plus enough to place it on a map.
type ArrivalTime struct {
	StopName    string
	ArrivalTime time.Time
	Lat         float64
	Lon         float64
}
