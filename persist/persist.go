// Package persist implements the compact binary on-disk form of a
// built network: a local cache keyed off the source timetable, not a
// stable wire protocol. No serialization library in the example
// corpus produces the exact "magic + version + ordered fixed-layout
// sections" framing the format requires (gob and protobuf both carry
// their own self-describing framing), so the reader/writer below are
// hand-rolled on encoding/binary + bufio, continuing the teacher's own
// habit of hand-written fixed-width parsing (parse/stop_times.go's
// HHMMSS handling).
package persist

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/jwhandley/railisochrone/geo"
	"github.com/jwhandley/railisochrone/model"
	"github.com/jwhandley/railisochrone/network"
)

// magic identifies a railisochrone network blob. version gates the
// layout below; loading an unknown version fails rather than risk a
// silent misdecode.
var magic = [4]byte{'R', 'I', 'S', 'O'}

const version uint32 = 1

// Save writes network n to path as a single binary blob.
func Save(n *network.Network, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: creating %s: %w", ErrPersistenceIO, path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := write(w, n); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("%w: flushing %s: %w", ErrPersistenceIO, path, err)
	}
	return nil
}

// Load reconstructs a network previously written by Save.
func Load(path string) (*network.Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %w", ErrPersistenceIO, path, err)
	}
	defer f.Close()

	return read(bufio.NewReader(f))
}

func write(w io.Writer, n *network.Network) error {
	if _, err := w.Write(magic[:]); err != nil {
		return fmt.Errorf("%w: writing magic: %w", ErrPersistenceIO, err)
	}
	if err := binary.Write(w, binary.LittleEndian, version); err != nil {
		return fmt.Errorf("%w: writing version: %w", ErrPersistenceIO, err)
	}

	if err := writeStops(w, n.Stops); err != nil {
		return err
	}
	if err := writeConnections(w, n.Connections); err != nil {
		return err
	}
	if err := writeTransfers(w, n.Transfers); err != nil {
		return err
	}
	if err := writeCalendar(w, n.Calendar); err != nil {
		return err
	}

	return nil
}

func read(r io.Reader) (*network.Network, error) {
	var gotMagic [4]byte
	if _, err := io.ReadFull(r, gotMagic[:]); err != nil {
		return nil, fmt.Errorf("%w: reading magic: %w", ErrPersistenceFormat, err)
	}
	if gotMagic != magic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrPersistenceFormat, gotMagic)
	}

	var gotVersion uint32
	if err := binary.Read(r, binary.LittleEndian, &gotVersion); err != nil {
		return nil, fmt.Errorf("%w: reading version: %w", ErrPersistenceFormat, err)
	}
	if gotVersion != version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrPersistenceFormat, gotVersion)
	}

	stops, err := readStops(r)
	if err != nil {
		return nil, err
	}

	connections, err := readConnections(r)
	if err != nil {
		return nil, err
	}

	transfers, err := readTransfers(r)
	if err != nil {
		return nil, err
	}

	calendar, err := readCalendar(r)
	if err != nil {
		return nil, err
	}

	n := network.NewFromParts(stops, connections, transfers, calendar, geo.NewStopIndex(stops))
	return n, nil
}

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(r io.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// writeDate writes a civil date as (year int32, month uint8, day uint8).
func writeDate(w io.Writer, t time.Time) error {
	if err := binary.Write(w, binary.LittleEndian, int32(t.Year())); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint8(t.Month())); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, uint8(t.Day()))
}

func readDate(r io.Reader) (time.Time, error) {
	var year int32
	var month, day uint8
	if err := binary.Read(r, binary.LittleEndian, &year); err != nil {
		return time.Time{}, err
	}
	if err := binary.Read(r, binary.LittleEndian, &month); err != nil {
		return time.Time{}, err
	}
	if err := binary.Read(r, binary.LittleEndian, &day); err != nil {
		return time.Time{}, err
	}
	return time.Date(int(year), time.Month(month), int(day), 0, 0, 0, 0, time.UTC), nil
}

// writeDuration writes a time-of-day as (hours, minutes, seconds, nanos).
func writeDuration(w io.Writer, d time.Duration) error {
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	d -= minutes * time.Minute
	seconds := d / time.Second
	d -= seconds * time.Second
	nanos := d

	if err := binary.Write(w, binary.LittleEndian, uint8(hours)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint8(minutes)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint8(seconds)); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, uint32(nanos))
}

func readDuration(r io.Reader) (time.Duration, error) {
	var hours, minutes, seconds uint8
	var nanos uint32
	if err := binary.Read(r, binary.LittleEndian, &hours); err != nil {
		return 0, err
	}
	if err := binary.Read(r, binary.LittleEndian, &minutes); err != nil {
		return 0, err
	}
	if err := binary.Read(r, binary.LittleEndian, &seconds); err != nil {
		return 0, err
	}
	if err := binary.Read(r, binary.LittleEndian, &nanos); err != nil {
		return 0, err
	}
	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(nanos), nil
}

func writeStops(w io.Writer, stops map[model.StopId]model.Stop) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(stops))); err != nil {
		return fmt.Errorf("%w: writing stop count: %w", ErrPersistenceIO, err)
	}
	ids := make([]model.StopId, 0, len(stops))
	for id := range stops {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		s := stops[id]
		if err := binary.Write(w, binary.LittleEndian, uint32(id)); err != nil {
			return fmt.Errorf("%w: writing stop id: %w", ErrPersistenceIO, err)
		}
		if err := writeString(w, s.Name); err != nil {
			return fmt.Errorf("%w: writing stop name: %w", ErrPersistenceIO, err)
		}
		if err := binary.Write(w, binary.LittleEndian, s.Lat); err != nil {
			return fmt.Errorf("%w: writing stop lat: %w", ErrPersistenceIO, err)
		}
		if err := binary.Write(w, binary.LittleEndian, s.Lon); err != nil {
			return fmt.Errorf("%w: writing stop lon: %w", ErrPersistenceIO, err)
		}
	}
	return nil
}

func readStops(r io.Reader) (map[model.StopId]model.Stop, error) {
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("%w: reading stop count: %w", ErrPersistenceFormat, err)
	}

	stops := make(map[model.StopId]model.Stop, count)
	for i := uint32(0); i < count; i++ {
		var id uint32
		if err := binary.Read(r, binary.LittleEndian, &id); err != nil {
			return nil, fmt.Errorf("%w: reading stop id: %w", ErrPersistenceFormat, err)
		}
		name, err := readString(r)
		if err != nil {
			return nil, fmt.Errorf("%w: reading stop name: %w", ErrPersistenceFormat, err)
		}
		var lat, lon float64
		if err := binary.Read(r, binary.LittleEndian, &lat); err != nil {
			return nil, fmt.Errorf("%w: reading stop lat: %w", ErrPersistenceFormat, err)
		}
		if err := binary.Read(r, binary.LittleEndian, &lon); err != nil {
			return nil, fmt.Errorf("%w: reading stop lon: %w", ErrPersistenceFormat, err)
		}

		stopID := model.StopId(id)
		stops[stopID] = model.Stop{ID: stopID, Name: name, Lat: lat, Lon: lon}
	}
	return stops, nil
}

func writeConnections(w io.Writer, conns []model.Connection) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(conns))); err != nil {
		return fmt.Errorf("%w: writing connection count: %w", ErrPersistenceIO, err)
	}
	for _, c := range conns {
		if err := binary.Write(w, binary.LittleEndian, uint32(c.TripID)); err != nil {
			return fmt.Errorf("%w: writing connection trip id: %w", ErrPersistenceIO, err)
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(c.FromStopID)); err != nil {
			return fmt.Errorf("%w: writing connection from stop: %w", ErrPersistenceIO, err)
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(c.ToStopID)); err != nil {
			return fmt.Errorf("%w: writing connection to stop: %w", ErrPersistenceIO, err)
		}
		if err := writeDuration(w, c.Departure); err != nil {
			return fmt.Errorf("%w: writing connection departure: %w", ErrPersistenceIO, err)
		}
		if err := writeDuration(w, c.Arrival); err != nil {
			return fmt.Errorf("%w: writing connection arrival: %w", ErrPersistenceIO, err)
		}
	}
	return nil
}

func readConnections(r io.Reader) ([]model.Connection, error) {
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("%w: reading connection count: %w", ErrPersistenceFormat, err)
	}

	conns := make([]model.Connection, count)
	for i := range conns {
		var tripID, from, to uint32
		if err := binary.Read(r, binary.LittleEndian, &tripID); err != nil {
			return nil, fmt.Errorf("%w: reading connection trip id: %w", ErrPersistenceFormat, err)
		}
		if err := binary.Read(r, binary.LittleEndian, &from); err != nil {
			return nil, fmt.Errorf("%w: reading connection from stop: %w", ErrPersistenceFormat, err)
		}
		if err := binary.Read(r, binary.LittleEndian, &to); err != nil {
			return nil, fmt.Errorf("%w: reading connection to stop: %w", ErrPersistenceFormat, err)
		}
		dep, err := readDuration(r)
		if err != nil {
			return nil, fmt.Errorf("%w: reading connection departure: %w", ErrPersistenceFormat, err)
		}
		arr, err := readDuration(r)
		if err != nil {
			return nil, fmt.Errorf("%w: reading connection arrival: %w", ErrPersistenceFormat, err)
		}

		conns[i] = model.Connection{
			TripID:     model.TripId(tripID),
			FromStopID: model.StopId(from),
			ToStopID:   model.StopId(to),
			Departure:  dep,
			Arrival:    arr,
		}
	}
	return conns, nil
}

func writeTransfers(w io.Writer, transfers map[model.StopId][]model.Transfer) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(transfers))); err != nil {
		return fmt.Errorf("%w: writing transfer origin count: %w", ErrPersistenceIO, err)
	}
	froms := make([]model.StopId, 0, len(transfers))
	for from := range transfers {
		froms = append(froms, from)
	}
	sort.Slice(froms, func(i, j int) bool { return froms[i] < froms[j] })

	for _, from := range froms {
		ts := transfers[from]
		if err := binary.Write(w, binary.LittleEndian, uint32(from)); err != nil {
			return fmt.Errorf("%w: writing transfer origin: %w", ErrPersistenceIO, err)
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(len(ts))); err != nil {
			return fmt.Errorf("%w: writing transfer count: %w", ErrPersistenceIO, err)
		}
		for _, t := range ts {
			if err := binary.Write(w, binary.LittleEndian, uint32(t.ToStopID)); err != nil {
				return fmt.Errorf("%w: writing transfer destination: %w", ErrPersistenceIO, err)
			}
			if err := binary.Write(w, binary.LittleEndian, int64(t.TransferTime)); err != nil {
				return fmt.Errorf("%w: writing transfer duration: %w", ErrPersistenceIO, err)
			}
		}
	}
	return nil
}

func readTransfers(r io.Reader) (map[model.StopId][]model.Transfer, error) {
	var originCount uint32
	if err := binary.Read(r, binary.LittleEndian, &originCount); err != nil {
		return nil, fmt.Errorf("%w: reading transfer origin count: %w", ErrPersistenceFormat, err)
	}

	transfers := make(map[model.StopId][]model.Transfer, originCount)
	for i := uint32(0); i < originCount; i++ {
		var from uint32
		if err := binary.Read(r, binary.LittleEndian, &from); err != nil {
			return nil, fmt.Errorf("%w: reading transfer origin: %w", ErrPersistenceFormat, err)
		}
		var count uint32
		if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
			return nil, fmt.Errorf("%w: reading transfer count: %w", ErrPersistenceFormat, err)
		}

		ts := make([]model.Transfer, count)
		for j := range ts {
			var to uint32
			if err := binary.Read(r, binary.LittleEndian, &to); err != nil {
				return nil, fmt.Errorf("%w: reading transfer destination: %w", ErrPersistenceFormat, err)
			}
			var dur int64
			if err := binary.Read(r, binary.LittleEndian, &dur); err != nil {
				return nil, fmt.Errorf("%w: reading transfer duration: %w", ErrPersistenceFormat, err)
			}
			ts[j] = model.Transfer{
				FromStopID:   model.StopId(from),
				ToStopID:     model.StopId(to),
				TransferTime: time.Duration(dur),
			}
		}
		transfers[model.StopId(from)] = ts
	}
	return transfers, nil
}

func writeCalendar(w io.Writer, cal *model.Calendar) error {
	if err := writeServiceMap(w, cal.Services); err != nil {
		return fmt.Errorf("%w: writing calendar services: %w", ErrPersistenceIO, err)
	}
	if err := writeServiceMap(w, cal.Cancellations); err != nil {
		return fmt.Errorf("%w: writing calendar cancellations: %w", ErrPersistenceIO, err)
	}
	return nil
}

func readCalendar(r io.Reader) (*model.Calendar, error) {
	services, err := readServiceMap(r)
	if err != nil {
		return nil, fmt.Errorf("%w: reading calendar services: %w", ErrPersistenceFormat, err)
	}
	cancellations, err := readServiceMap(r)
	if err != nil {
		return nil, fmt.Errorf("%w: reading calendar cancellations: %w", ErrPersistenceFormat, err)
	}
	return &model.Calendar{Services: services, Cancellations: cancellations}, nil
}

func writeServiceMap(w io.Writer, m map[model.TripId][]model.Service) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(m))); err != nil {
		return err
	}
	trips := make([]model.TripId, 0, len(m))
	for trip := range m {
		trips = append(trips, trip)
	}
	sort.Slice(trips, func(i, j int) bool { return trips[i] < trips[j] })

	for _, trip := range trips {
		services := m[trip]
		if err := binary.Write(w, binary.LittleEndian, uint32(trip)); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(len(services))); err != nil {
			return err
		}
		for _, s := range services {
			if err := writeDate(w, s.StartDate); err != nil {
				return err
			}
			if err := writeDate(w, s.EndDate); err != nil {
				return err
			}
			if err := binary.Write(w, binary.LittleEndian, int8(s.RunsOnDays)); err != nil {
				return err
			}
		}
	}
	return nil
}

func readServiceMap(r io.Reader) (map[model.TripId][]model.Service, error) {
	var tripCount uint32
	if err := binary.Read(r, binary.LittleEndian, &tripCount); err != nil {
		return nil, err
	}

	m := make(map[model.TripId][]model.Service, tripCount)
	for i := uint32(0); i < tripCount; i++ {
		var trip uint32
		if err := binary.Read(r, binary.LittleEndian, &trip); err != nil {
			return nil, err
		}
		var count uint32
		if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
			return nil, err
		}

		services := make([]model.Service, count)
		for j := range services {
			start, err := readDate(r)
			if err != nil {
				return nil, err
			}
			end, err := readDate(r)
			if err != nil {
				return nil, err
			}
			var runsOn int8
			if err := binary.Read(r, binary.LittleEndian, &runsOn); err != nil {
				return nil, err
			}
			services[j] = model.Service{StartDate: start, EndDate: end, RunsOnDays: model.Weekday(runsOn)}
		}
		m[model.TripId(trip)] = services
	}
	return m, nil
}
