package network_test

import (
	"github.com/jwhandley/railisochrone/model"
)

// fakeAdapter is a minimal in-memory adapter.Adapter used to exercise
// Build and QueryLatLon without any CSV/CIF parsing in the loop.
type fakeAdapter struct {
	stops       map[model.StopId]model.Stop
	connections []model.Connection
	transfers   map[model.StopId][]model.Transfer
	calendar    *model.Calendar
}

func (a *fakeAdapter) Stops() (map[model.StopId]model.Stop, error) {
	return a.stops, nil
}

func (a *fakeAdapter) Connections() ([]model.Connection, error) {
	return a.connections, nil
}

func (a *fakeAdapter) Transfers() (map[model.StopId][]model.Transfer, error) {
	return a.transfers, nil
}

func (a *fakeAdapter) Calendar() (*model.Calendar, error) {
	return a.calendar, nil
}
