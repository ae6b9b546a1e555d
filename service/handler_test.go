package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwhandley/railisochrone/geojson"
	"github.com/jwhandley/railisochrone/model"
	"github.com/jwhandley/railisochrone/network"
)

type fakeAdapter struct {
	stops       map[model.StopId]model.Stop
	connections []model.Connection
	transfers   map[model.StopId][]model.Transfer
	calendar    *model.Calendar
}

func (a *fakeAdapter) Stops() (map[model.StopId]model.Stop, error)             { return a.stops, nil }
func (a *fakeAdapter) Connections() ([]model.Connection, error)                { return a.connections, nil }
func (a *fakeAdapter) Transfers() (map[model.StopId][]model.Transfer, error)   { return a.transfers, nil }
func (a *fakeAdapter) Calendar() (*model.Calendar, error)                      { return a.calendar, nil }

func testNetwork(t *testing.T) *network.Network {
	t.Helper()

	cal := model.NewCalendar()
	cal.AddService(1, model.Service{
		StartDate:  time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		RunsOnDays: model.WeekdayBit(time.Friday),
	})

	a := &fakeAdapter{
		stops: map[model.StopId]model.Stop{
			1: {ID: 1, Name: "Alpha", Lat: 0, Lon: 0},
			2: {ID: 2, Name: "Beta", Lat: 0, Lon: 0.01},
		},
		connections: []model.Connection{
			{TripID: 1, FromStopID: 1, ToStopID: 2, Departure: 9 * time.Hour, Arrival: 9*time.Hour + 10*time.Minute},
		},
		transfers: map[model.StopId][]model.Transfer{},
		calendar:  cal,
	}

	n, err := network.Build(a)
	require.NoError(t, err)
	return n
}

func TestHealthEndpoint(t *testing.T) {
	router := NewRouter(testNetwork(t))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIsochroneEndpointReturnsFeatureCollection(t *testing.T) {
	router := NewRouter(testNetwork(t))

	req := httptest.NewRequest(http.MethodGet, "/isochrone?lat=0&lon=0&date=2025-10-24&time=08:55", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var fc geojson.FeatureCollection
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fc))
	assert.Equal(t, "FeatureCollection", fc.Type)
	assert.NotEmpty(t, fc.Features)
}

func TestIsochroneEndpointRejectsMissingLatLon(t *testing.T) {
	router := NewRouter(testNetwork(t))

	req := httptest.NewRequest(http.MethodGet, "/isochrone", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIsochroneEndpointRejectsBadDate(t *testing.T) {
	router := NewRouter(testNetwork(t))

	req := httptest.NewRequest(http.MethodGet, "/isochrone?lat=0&lon=0&date=not-a-date", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestIDHeaderIsSet(t *testing.T) {
	router := NewRouter(testNetwork(t))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}
