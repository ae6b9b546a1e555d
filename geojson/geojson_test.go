package geojson

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwhandley/railisochrone/model"
)

func TestFromArrivalTimes(t *testing.T) {
	arrivals := []model.ArrivalTime{
		{
			StopName:    "Kings Cross",
			ArrivalTime: time.Date(2025, 10, 24, 9, 5, 0, 0, time.UTC),
			Lat:         51.53,
			Lon:         -0.12,
		},
	}

	fc := FromArrivalTimes(arrivals)

	require.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 1)

	f := fc.Features[0]
	assert.Equal(t, "Feature", f.Type)
	assert.Equal(t, "Point", f.Geometry.Type)
	assert.Equal(t, []float64{-0.12, 51.53}, f.Geometry.Coordinates)
	assert.Equal(t, "Kings Cross", f.Properties["stopName"])
	assert.Equal(t, "2025-10-24T09:05:00", f.Properties["arrivalTime"])
}

func TestFromArrivalTimesEmpty(t *testing.T) {
	fc := FromArrivalTimes(nil)
	assert.Equal(t, "FeatureCollection", fc.Type)
	assert.Empty(t, fc.Features)
}
