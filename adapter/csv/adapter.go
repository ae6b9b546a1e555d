package csv

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jwhandley/railisochrone/model"
)

// Adapter reads a directory holding stops.csv, connections.csv,
// transfers.csv, calendar.csv and cancellations.csv, and satisfies
// adapter.Adapter. It stands in for the out-of-scope CIF timetable
// parser: any reader producing the same four record sets can replace
// it without the core noticing.
type Adapter struct {
	Dir string
}

// New returns an Adapter reading CSV tables from dir.
func New(dir string) *Adapter {
	return &Adapter{Dir: dir}
}

func (a *Adapter) open(name string) (*os.File, error) {
	f, err := os.Open(filepath.Join(a.Dir, name))
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	return f, nil
}

func (a *Adapter) Stops() (map[model.StopId]model.Stop, error) {
	f, err := a.open("stops.csv")
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseStops(f)
}

func (a *Adapter) Connections() ([]model.Connection, error) {
	stops, err := a.Stops()
	if err != nil {
		return nil, err
	}

	f, err := a.open("connections.csv")
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseConnections(f, stops)
}

func (a *Adapter) Transfers() (map[model.StopId][]model.Transfer, error) {
	stops, err := a.Stops()
	if err != nil {
		return nil, err
	}

	f, err := a.open("transfers.csv")
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseTransfers(f, stops)
}

func (a *Adapter) Calendar() (*model.Calendar, error) {
	serviceF, err := a.open("calendar.csv")
	if err != nil {
		return nil, err
	}
	defer serviceF.Close()

	cancellationF, err := a.open("cancellations.csv")
	if err != nil {
		return nil, err
	}
	defer cancellationF.Close()

	return parseCalendar(serviceF, cancellationF)
}
