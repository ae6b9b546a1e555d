package csv

import (
	"fmt"
	"io"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/spkg/bom"

	"github.com/jwhandley/railisochrone/model"
)

// serviceCSV is shared by calendar.csv (positive windows) and
// cancellations.csv (cancellation windows): both are just dated,
// weekday-masked ranges, continuing the teacher's calendar.txt
// weekday-column layout (parse/calendar.go) generalized to windows
// that may also cancel rather than only grant service.
type serviceCSV struct {
	TripID    uint32 `csv:"trip_id"`
	StartDate string `csv:"start_date"`
	EndDate   string `csv:"end_date"`
	Monday    int8   `csv:"monday"`
	Tuesday   int8   `csv:"tuesday"`
	Wednesday int8   `csv:"wednesday"`
	Thursday  int8   `csv:"thursday"`
	Friday    int8   `csv:"friday"`
	Saturday  int8   `csv:"saturday"`
	Sunday    int8   `csv:"sunday"`
}

func (row serviceCSV) weekdayMask() (model.Weekday, error) {
	var mask model.Weekday
	for _, bit := range []struct {
		val int8
		day time.Weekday
	}{
		{row.Monday, time.Monday},
		{row.Tuesday, time.Tuesday},
		{row.Wednesday, time.Wednesday},
		{row.Thursday, time.Thursday},
		{row.Friday, time.Friday},
		{row.Saturday, time.Saturday},
		{row.Sunday, time.Sunday},
	} {
		switch bit.val {
		case 1:
			mask |= model.WeekdayBit(bit.day)
		case 0:
			// not set
		default:
			return 0, fmt.Errorf("invalid weekday flag value '%d'", bit.val)
		}
	}
	return mask, nil
}

func (row serviceCSV) toService() (model.Service, error) {
	mask, err := row.weekdayMask()
	if err != nil {
		return model.Service{}, err
	}

	start, err := time.ParseInLocation("20060102", row.StartDate, time.UTC)
	if err != nil {
		return model.Service{}, fmt.Errorf("parsing start_date: %w", err)
	}
	end, err := time.ParseInLocation("20060102", row.EndDate, time.UTC)
	if err != nil {
		return model.Service{}, fmt.Errorf("parsing end_date: %w", err)
	}

	return model.Service{StartDate: start, EndDate: end, RunsOnDays: mask}, nil
}

func parseServiceWindows(r io.Reader) (map[model.TripId][]model.Service, error) {
	rows := []*serviceCSV{}
	if err := gocsv.Unmarshal(bom.NewReader(r), &rows); err != nil {
		return nil, fmt.Errorf("unmarshaling csv: %w", err)
	}

	windows := map[model.TripId][]model.Service{}
	for i, row := range rows {
		service, err := row.toService()
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		trip := model.TripId(row.TripID)
		windows[trip] = append(windows[trip], service)
	}

	return windows, nil
}

func parseCalendar(serviceR, cancellationR io.Reader) (*model.Calendar, error) {
	services, err := parseServiceWindows(serviceR)
	if err != nil {
		return nil, fmt.Errorf("parsing calendar.csv: %w", err)
	}

	cancellations, err := parseServiceWindows(cancellationR)
	if err != nil {
		return nil, fmt.Errorf("parsing cancellations.csv: %w", err)
	}

	return &model.Calendar{Services: services, Cancellations: cancellations}, nil
}
