package csv

import (
	"fmt"
	"io"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/spkg/bom"

	"github.com/jwhandley/railisochrone/model"
)

type transferCSV struct {
	FromStopID      uint32 `csv:"from_stop_id"`
	ToStopID        uint32 `csv:"to_stop_id"`
	TransferSeconds int64  `csv:"transfer_seconds"`
}

func parseTransfers(r io.Reader, stops map[model.StopId]model.Stop) (map[model.StopId][]model.Transfer, error) {
	rows := []*transferCSV{}
	if err := gocsv.Unmarshal(bom.NewReader(r), &rows); err != nil {
		return nil, fmt.Errorf("unmarshaling transfers.csv: %w", err)
	}

	transfers := map[model.StopId][]model.Transfer{}
	for i, row := range rows {
		from := model.StopId(row.FromStopID)
		to := model.StopId(row.ToStopID)
		if _, ok := stops[from]; !ok {
			return nil, fmt.Errorf("unknown from_stop_id '%d' (row %d)", row.FromStopID, i+1)
		}
		if _, ok := stops[to]; !ok {
			return nil, fmt.Errorf("unknown to_stop_id '%d' (row %d)", row.ToStopID, i+1)
		}
		if row.TransferSeconds < 0 {
			return nil, fmt.Errorf("negative transfer_seconds (row %d)", i+1)
		}

		transfers[from] = append(transfers[from], model.Transfer{
			FromStopID:   from,
			ToStopID:     to,
			TransferTime: time.Duration(row.TransferSeconds) * time.Second,
		})
	}

	return transfers, nil
}
