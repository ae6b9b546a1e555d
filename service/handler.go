package service

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/jwhandley/railisochrone/geojson"
	"github.com/jwhandley/railisochrone/network"
)

type isochroneHandler struct {
	network *network.Network
}

func (h *isochroneHandler) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// isochrone serves GET /isochrone?lat=&lon=&date=&time=, the exposed
// query interface from the core's QueryLatLon, projected to GeoJSON.
func (h *isochroneHandler) isochrone(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		http.Error(w, "invalid or missing lat", http.StatusBadRequest)
		return
	}
	lon, err := strconv.ParseFloat(q.Get("lon"), 64)
	if err != nil {
		http.Error(w, "invalid or missing lon", http.StatusBadRequest)
		return
	}

	date := time.Now().UTC()
	if ds := q.Get("date"); ds != "" {
		date, err = time.ParseInLocation("2006-01-02", ds, time.UTC)
		if err != nil {
			http.Error(w, "invalid date, want YYYY-MM-DD", http.StatusBadRequest)
			return
		}
	}
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	timeOfDay := time.Duration(time.Now().UTC().Hour())*time.Hour + time.Duration(time.Now().UTC().Minute())*time.Minute
	if ts := q.Get("time"); ts != "" {
		t, err := time.ParseInLocation("15:04", ts, time.UTC)
		if err != nil {
			http.Error(w, "invalid time, want HH:MM", http.StatusBadRequest)
			return
		}
		timeOfDay = time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute
	}

	start := time.Now()
	arrivals := h.network.QueryLatLon(lat, lon, date, timeOfDay)
	fmt.Printf("[%s] query returned %d stops in %s\n", requestIDFromContext(r.Context()), len(arrivals), time.Since(start))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(geojson.FromArrivalTimes(arrivals))
}
