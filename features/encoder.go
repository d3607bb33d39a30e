package features

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrArrivalBeforeDeparture = errors.New("arrival must not be before departure")
	ErrNegativeStops          = errors.New("stops must be a non-negative integer")
	ErrInvalidTimestamp       = errors.New("invalid timestamp")
)

// Category lists in the column order the model was trained with.
var (
	DefaultSources      = []string{"Chennai", "Delhi", "Kolkata", "Mumbai"}
	DefaultDestinations = []string{"Cochin", "Delhi", "Hyderabad", "Kolkata"}
	DefaultAirlines     = []string{
		"Air India", "GoAir", "IndiGo", "Jet Airways", "Jet Airways Business",
		"Multiple carriers", "Multiple carriers Premium economy", "SpiceJet",
		"Trujet", "Vistara", "Vistara Premium economy",
	}
)

// JourneyFields is the number of scalar fields ahead of the one-hot blocks.
const JourneyFields = 9

type Vector []float64

type Request struct {
	Source      string
	Destination string
	Airline     string
	Stops       int
	Departure   time.Time
	Arrival     time.Time
}

type Duration struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

func (d Duration) String() string {
	return fmt.Sprintf("%dh %dm", d.Hours, d.Minutes)
}

type Encoder struct {
	airlines     []string
	sources      []string
	destinations []string
}

func NewEncoder(airlines, sources, destinations []string) *Encoder {
	return &Encoder{
		airlines:     append([]string(nil), airlines...),
		sources:      append([]string(nil), sources...),
		destinations: append([]string(nil), destinations...),
	}
}

func DefaultEncoder() *Encoder {
	return NewEncoder(DefaultAirlines, DefaultSources, DefaultDestinations)
}

func (e *Encoder) Len() int {
	return JourneyFields + len(e.airlines) + len(e.sources) + len(e.destinations)
}

func (e *Encoder) Airlines() []string     { return append([]string(nil), e.airlines...) }
func (e *Encoder) Sources() []string      { return append([]string(nil), e.sources...) }
func (e *Encoder) Destinations() []string { return append([]string(nil), e.destinations...) }

// Encode lays out the request as
// [stops, dep day, dep month, dep hour, dep minute, arr hour, arr minute,
// duration hours, duration minutes] ++ airline ++ source ++ destination.
// A category missing from its list encodes as an all-zero block.
func (e *Encoder) Encode(req Request) (Vector, error) {
	vec, _, err := e.EncodeJourney(req)
	return vec, err
}

// EncodeJourney is Encode that also returns the journey duration it derived.
func (e *Encoder) EncodeJourney(req Request) (Vector, Duration, error) {
	if req.Stops < 0 {
		return nil, Duration{}, ErrNegativeStops
	}
	dur, err := JourneyDuration(req.Departure, req.Arrival)
	if err != nil {
		return nil, Duration{}, err
	}

	vec := make(Vector, 0, e.Len())
	vec = append(vec,
		float64(req.Stops),
		float64(req.Departure.Day()),
		float64(req.Departure.Month()),
		float64(req.Departure.Hour()),
		float64(req.Departure.Minute()),
		float64(req.Arrival.Hour()),
		float64(req.Arrival.Minute()),
		float64(dur.Hours),
		float64(dur.Minutes),
	)
	vec = appendOneHot(vec, e.airlines, req.Airline)
	vec = appendOneHot(vec, e.sources, req.Source)
	vec = appendOneHot(vec, e.destinations, req.Destination)
	return vec, dur, nil
}

func appendOneHot(vec Vector, categories []string, value string) Vector {
	for _, c := range categories {
		if c == value {
			vec = append(vec, 1)
		} else {
			vec = append(vec, 0)
		}
	}
	return vec
}

// JourneyDuration splits arrival-departure into whole hours and the remaining
// whole minutes. Hours are not capped at 24.
func JourneyDuration(departure, arrival time.Time) (Duration, error) {
	if arrival.Before(departure) {
		return Duration{}, ErrArrivalBeforeDeparture
	}
	secs := int64(arrival.Sub(departure) / time.Second)
	return Duration{
		Hours:   int(secs / 3600),
		Minutes: int((secs % 3600) / 60),
	}, nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseTimestamp accepts ISO-8601 date-times with or without seconds and zone
// offset. Values without an offset are read as UTC wall-clock time.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidTimestamp)
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
}
