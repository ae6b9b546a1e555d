package network_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwhandley/railisochrone/model"
	"github.com/jwhandley/railisochrone/network"
)

func octFriday() time.Time {
	return time.Date(2025, time.October, 24, 0, 0, 0, 0, time.UTC)
}

func fridayOnlyCalendar(trip model.TripId) *model.Calendar {
	cal := model.NewCalendar()
	cal.AddService(trip, model.Service{
		StartDate:  time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		RunsOnDays: model.WeekdayBit(time.Friday),
	})
	return cal
}

func TestBuildSortsConnectionsByDeparture(t *testing.T) {
	stops := map[model.StopId]model.Stop{
		1: {ID: 1, Name: "A", Lat: 0, Lon: 0},
		2: {ID: 2, Name: "B", Lat: 0, Lon: 0.01},
	}

	a := &fakeAdapter{
		stops: stops,
		connections: []model.Connection{
			{TripID: 1, FromStopID: 1, ToStopID: 2, Departure: 10 * time.Hour, Arrival: 10*time.Hour + 5*time.Minute},
			{TripID: 1, FromStopID: 1, ToStopID: 2, Departure: 9 * time.Hour, Arrival: 9*time.Hour + 5*time.Minute},
			{TripID: 1, FromStopID: 1, ToStopID: 2, Departure: 9*time.Hour + 30*time.Minute, Arrival: 9*time.Hour + 35*time.Minute},
		},
		transfers: map[model.StopId][]model.Transfer{},
		calendar:  fridayOnlyCalendar(1),
	}

	n, err := network.Build(a)
	require.NoError(t, err)

	for i := 1; i < len(n.Connections); i++ {
		assert.LessOrEqual(t, n.Connections[i-1].Departure, n.Connections[i].Departure)
	}
}

func TestBuildRejectsUnknownStopReference(t *testing.T) {
	a := &fakeAdapter{
		stops: map[model.StopId]model.Stop{1: {ID: 1, Name: "A", Lat: 0, Lon: 0}},
		connections: []model.Connection{
			{TripID: 1, FromStopID: 1, ToStopID: 99, Departure: 9 * time.Hour, Arrival: 9*time.Hour + 5*time.Minute},
		},
		transfers: map[model.StopId][]model.Transfer{},
		calendar:  fridayOnlyCalendar(1),
	}

	_, err := network.Build(a)
	require.Error(t, err)
	assert.True(t, errors.Is(err, network.ErrBuildInputInvalid))
}

func TestBuildRejectsTripAbsentFromCalendar(t *testing.T) {
	a := &fakeAdapter{
		stops: map[model.StopId]model.Stop{
			1: {ID: 1, Name: "A", Lat: 0, Lon: 0},
			2: {ID: 2, Name: "B", Lat: 0, Lon: 0.01},
		},
		connections: []model.Connection{
			{TripID: 1, FromStopID: 1, ToStopID: 2, Departure: 9 * time.Hour, Arrival: 9*time.Hour + 5*time.Minute},
		},
		transfers: map[model.StopId][]model.Transfer{},
		calendar:  model.NewCalendar(),
	}

	_, err := network.Build(a)
	require.Error(t, err)
	assert.True(t, errors.Is(err, network.ErrBuildInputInvalid))
}

func TestBuildRejectsUnknownTransferStop(t *testing.T) {
	a := &fakeAdapter{
		stops:       map[model.StopId]model.Stop{1: {ID: 1, Name: "A", Lat: 0, Lon: 0}},
		connections: nil,
		transfers: map[model.StopId][]model.Transfer{
			1: {{FromStopID: 1, ToStopID: 2, TransferTime: time.Minute}},
		},
		calendar: model.NewCalendar(),
	}

	_, err := network.Build(a)
	require.Error(t, err)
	assert.True(t, errors.Is(err, network.ErrBuildInputInvalid))
}
