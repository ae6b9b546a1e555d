// Package csv is the reference adapter.Adapter implementation: it
// reads a fixed-layout directory of CSV tables (stops, connections,
// transfers, calendar, cancellations) the same way the teacher
// repo's parse package reads GTFS text tables, via
// github.com/gocarina/gocsv wrapped in github.com/spkg/bom to
// tolerate a leading UTF-8 BOM. It exists to give the adapter.Adapter
// contract a concrete body; the out-of-scope UK CIF/MCA/MSN/ALF
// reader satisfies the exact same contract and can be dropped in
// without touching model/geo/network/persist.
package csv

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/spkg/bom"

	"github.com/jwhandley/railisochrone/model"
)

type stopCSV struct {
	ID   uint32  `csv:"stop_id"`
	Name string  `csv:"stop_name"`
	Lat  float64 `csv:"stop_lat"`
	Lon  float64 `csv:"stop_lon"`
}

func parseStops(r io.Reader) (map[model.StopId]model.Stop, error) {
	rows := []*stopCSV{}
	if err := gocsv.Unmarshal(bom.NewReader(r), &rows); err != nil {
		return nil, fmt.Errorf("unmarshaling stops.csv: %w", err)
	}

	stops := make(map[model.StopId]model.Stop, len(rows))
	for _, row := range rows {
		id := model.StopId(row.ID)
		if _, found := stops[id]; found {
			return nil, fmt.Errorf("repeated stop_id '%d'", row.ID)
		}
		if row.Name == "" {
			return nil, fmt.Errorf("empty stop_name for stop_id '%d'", row.ID)
		}
		stops[id] = model.Stop{ID: id, Name: row.Name, Lat: row.Lat, Lon: row.Lon}
	}

	return stops, nil
}
