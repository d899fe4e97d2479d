package weather

import (
	"fmt"
	"strconv"
	"time"
)

// Location identifies the place a forecast is requested for.
// Exactly one of Name or the Lat/Lon pair is populated.
type Location struct {
	Name string   `json:"name,omitempty"`
	Lat  *float64 `json:"lat,omitempty"`
	Lon  *float64 `json:"lon,omitempty"`
}

// ByName builds a name-based location.
func ByName(name string) Location {
	return Location{Name: name}
}

// ByCoordinates builds a coordinate-based location.
func ByCoordinates(lat, lon float64) Location {
	return Location{Lat: &lat, Lon: &lon}
}

// IsCoordinates reports whether the location carries a lat/lon pair.
func (l Location) IsCoordinates() bool {
	return l.Lat != nil && l.Lon != nil
}

// Key returns a canonical string key for indexing this location in stores.
func (l Location) Key() string {
	if l.IsCoordinates() {
		return strconv.FormatFloat(*l.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(*l.Lon, 'f', -1, 64)
	}
	return l.Name
}

func (l Location) String() string {
	if l.IsCoordinates() {
		return fmt.Sprintf("(%g, %g)", *l.Lat, *l.Lon)
	}
	return l.Name
}

// ClockTime is a time of day expressed as minutes since midnight.
type ClockTime int

// Clock builds a ClockTime from a 24-hour hour and minute.
func Clock(hour, minute int) ClockTime {
	return ClockTime(hour*60 + minute)
}

// ClockOf returns the time of day of t in t's own location.
func ClockOf(t time.Time) ClockTime {
	return Clock(t.Hour(), t.Minute())
}

func (c ClockTime) String() string {
	h, m := int(c)/60, int(c)%60
	suffix := "am"
	if h >= 12 {
		suffix = "pm"
	}
	h %= 12
	if h == 0 {
		h = 12
	}
	if m == 0 {
		return fmt.Sprintf("%d%s", h, suffix)
	}
	return fmt.Sprintf("%d:%02d%s", h, m, suffix)
}

// TimeWindow is an inclusive time-of-day range. Start may be after End,
// in which case the window wraps past midnight.
type TimeWindow struct {
	Start ClockTime `json:"start"`
	End   ClockTime `json:"end"`
}

// Contains reports whether c falls within the window.
func (w TimeWindow) Contains(c ClockTime) bool {
	if w.Start <= w.End {
		return c >= w.Start && c <= w.End
	}
	return c >= w.Start || c <= w.End
}

func (w TimeWindow) String() string {
	return w.Start.String() + "-" + w.End.String()
}

// Sample is a single timestamped forecast reading.
// Samples are delivered in ascending Timestamp order by providers.
type Sample struct {
	Timestamp    time.Time `json:"timestamp"`
	TemperatureF float64   `json:"temperatureF"`
	Condition    string    `json:"condition"`
}

// ProbeResult records the outcome of one scheduled upstream availability check.
type ProbeResult struct {
	Location  Location      `json:"location"`
	Timestamp time.Time     `json:"timestamp"` // always UTC
	Provider  string        `json:"provider,omitempty"`
	Samples   int           `json:"samples"`
	Latency   time.Duration `json:"latencyNs"`
	OK        bool          `json:"ok"`
	Error     string        `json:"error,omitempty"`
}
