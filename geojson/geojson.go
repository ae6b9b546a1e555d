// Package geojson renders query results as a GeoJSON FeatureCollection
// of Point features, one per reachable stop. No GeoJSON library appears
// anywhere in the example corpus, so this is hand-built on
// encoding/json; it is grounded on the original implementation's own
// to_feature_collection function, which does the same projection with
// a third-party geojson crate.
package geojson

import (
	"github.com/jwhandley/railisochrone/model"
)

// isoNaive is the ISO-8601 civil (zone-less) layout the Rust original
// produces when it serializes a NaiveDateTime.
const isoNaive = "2006-01-02T15:04:05"

type Point struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

type Feature struct {
	Type       string                 `json:"type"`
	Geometry   Point                  `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// FromArrivalTimes projects a slice of model.ArrivalTime into a GeoJSON
// FeatureCollection, one Point feature per stop, carrying the stop name
// and arrival time as properties.
func FromArrivalTimes(arrivals []model.ArrivalTime) FeatureCollection {
	features := make([]Feature, 0, len(arrivals))
	for _, a := range arrivals {
		features = append(features, Feature{
			Type: "Feature",
			Geometry: Point{
				Type:        "Point",
				Coordinates: []float64{a.Lon, a.Lat},
			},
			Properties: map[string]interface{}{
				"stopName":    a.StopName,
				"arrivalTime": a.ArrivalTime.Format(isoNaive),
			},
		})
	}

	return FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}
