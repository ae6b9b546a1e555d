package csv

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"github.com/spkg/bom"

	"github.com/jwhandley/railisochrone/model"
)

type connectionCSV struct {
	TripID        uint32 `csv:"trip_id"`
	FromStopID    uint32 `csv:"from_stop_id"`
	ToStopID      uint32 `csv:"to_stop_id"`
	DepartureTime string `csv:"departure_time"`
	ArrivalTime   string `csv:"arrival_time"`
}

// parseClockTime parses an "HH:MM:SS" time-of-day into a duration
// since midnight, continuing the teacher's parseStopTimeTime idiom
// (parse/stop_times.go) but accepting colon-separated fields rather
// than GTFS's packed HHMMSS, since the reference timetable format
// here is our own.
func parseClockTime(s string) (time.Duration, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("found %d parts in '%s', want 3", len(parts), s)
	}

	var hms [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return 0, fmt.Errorf("non-integer field in '%s': %w", s, err)
		}
		hms[i] = v
	}

	if hms[0] < 0 || hms[0] > 47 {
		return 0, fmt.Errorf("invalid hour in '%s'", s)
	}
	if hms[1] < 0 || hms[1] > 59 {
		return 0, fmt.Errorf("invalid minute in '%s'", s)
	}
	if hms[2] < 0 || hms[2] > 59 {
		return 0, fmt.Errorf("invalid second in '%s'", s)
	}

	return time.Duration(hms[0])*time.Hour +
		time.Duration(hms[1])*time.Minute +
		time.Duration(hms[2])*time.Second, nil
}

func parseConnections(r io.Reader, stops map[model.StopId]model.Stop) ([]model.Connection, error) {
	connections := []model.Connection{}

	i := -1
	err := gocsv.UnmarshalToCallbackWithError(bom.NewReader(r), func(row *connectionCSV) error {
		i++

		from := model.StopId(row.FromStopID)
		to := model.StopId(row.ToStopID)
		if _, ok := stops[from]; !ok {
			return fmt.Errorf("unknown from_stop_id '%d' (row %d)", row.FromStopID, i+1)
		}
		if _, ok := stops[to]; !ok {
			return fmt.Errorf("unknown to_stop_id '%d' (row %d)", row.ToStopID, i+1)
		}

		dep, err := parseClockTime(row.DepartureTime)
		if err != nil {
			return errors.Wrapf(err, "parsing departure_time (row %d)", i+1)
		}
		arr, err := parseClockTime(row.ArrivalTime)
		if err != nil {
			return errors.Wrapf(err, "parsing arrival_time (row %d)", i+1)
		}

		connections = append(connections, model.Connection{
			TripID:     model.TripId(row.TripID),
			FromStopID: from,
			ToStopID:   to,
			Departure:  dep,
			Arrival:    arr,
		})
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "unmarshaling connections.csv")
	}

	return connections, nil
}
