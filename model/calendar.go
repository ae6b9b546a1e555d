package model

import "time"

// Weekday is a bitmask over time.Weekday (Sunday=0 .. Saturday=6),
// continuing the teacher repo's int8-bitmask calendar idiom.
type Weekday int8

// WeekdayBit returns the bit for d, suitable for OR-ing into a Weekday mask.
func WeekdayBit(d time.Weekday) Weekday {
	return Weekday(1 << uint(d))
}

func (w Weekday) has(d time.Weekday) bool {
	return w&WeekdayBit(d) != 0
}

// Service is a date range during which a trip may run, restricted to
// the set of weekdays named by RunsOnDays.
type Service struct {
	StartDate  time.Time
	EndDate    time.Time
	RunsOnDays Weekday
}

// RunsOn reports whether this window covers date, both by range and
// by weekday. date is compared at day granularity.
func (s Service) RunsOn(date time.Time) bool {
	d := civilDate(date)
	if d.Before(civilDate(s.StartDate)) || d.After(civilDate(s.EndDate)) {
		return false
	}
	return s.RunsOnDays.has(d.Weekday())
}

func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Calendar holds, per trip, the positive service windows during which
// it may run and the cancellation windows that override them. A trip
// runs on a date iff some positive window matches and no cancellation
// window matches. A trip with no positive window never runs.
type Calendar struct {
	Services      map[TripId][]Service
	Cancellations map[TripId][]Service
}

// NewCalendar builds an empty calendar ready for population by an adapter.
func NewCalendar() *Calendar {
	return &Calendar{
		Services:      map[TripId][]Service{},
		Cancellations: map[TripId][]Service{},
	}
}

// RunsOn reports whether trip runs on date.
func (c *Calendar) RunsOn(trip TripId, date time.Time) bool {
	runs := false
	for _, s := range c.Services[trip] {
		if s.RunsOn(date) {
			runs = true
			break
		}
	}
	if !runs {
		return false
	}

	for _, s := range c.Cancellations[trip] {
		if s.RunsOn(date) {
			return false
		}
	}

	return true
}

// AddService registers a positive service window for trip.
func (c *Calendar) AddService(trip TripId, s Service) {
	c.Services[trip] = append(c.Services[trip], s)
}

// AddCancellation registers a cancellation window for trip.
func (c *Calendar) AddCancellation(trip TripId, s Service) {
	c.Cancellations[trip] = append(c.Cancellations[trip], s)
}

// Trips returns the set of trip ids with at least one positive
// service window, i.e. every trip id the calendar actually governs.
func (c *Calendar) Trips() map[TripId]bool {
	trips := map[TripId]bool{}
	for t := range c.Services {
		trips[t] = true
	}
	return trips
}
