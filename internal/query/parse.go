// Package query turns the free-form text of an inbound message into a
// forecast location and an optional time-of-day window.
//
// Accepted shapes:
//
//	Denver
//	Denver, 3am-6pm
//	39.3, -106.1
//	39.3, -106.1, 10pm-2am
//
// A name made only of digits is read as a latitude; that ambiguity is accepted.
package query

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/i474232898/weather-sms/internal/weather"
)

var (
	// ErrEmptyInput is returned for blank input.
	ErrEmptyInput = errors.New("empty input")
	// ErrMalformedInput is returned when no usable location can be read.
	ErrMalformedInput = errors.New("malformed input")
	// ErrMalformedWindow is returned when the location parsed but the time
	// window did not. It also matches ErrMalformedInput.
	ErrMalformedWindow = fmt.Errorf("%w: time window", ErrMalformedInput)
)

var (
	decimalPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)
	clockPattern   = regexp.MustCompile(`(?i)^(\d{1,2})\s*(am|pm)$`)
)

// Query is the structured form of an inbound message.
type Query struct {
	Location weather.Location
	Window   *weather.TimeWindow
}

// Parse reads a location and optional time window from input.
//
// On ErrMalformedWindow the returned Query still carries the parsed location
// with a nil Window, so callers may choose to continue without the window.
func Parse(input string) (Query, error) {
	if strings.TrimSpace(input) == "" {
		return Query{}, ErrEmptyInput
	}

	parts := strings.Split(input, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
		if parts[i] == "" {
			return Query{}, fmt.Errorf("%w: empty segment %d", ErrMalformedInput, i+1)
		}
	}

	var (
		q         Query
		windowSeg string
	)
	switch len(parts) {
	case 1:
		q.Location = weather.ByName(parts[0])
	case 2:
		if IsDecimal(parts[0]) {
			loc, err := parseCoordinates(parts[0], parts[1])
			if err != nil {
				return Query{}, err
			}
			q.Location = loc
		} else {
			q.Location = weather.ByName(parts[0])
			windowSeg = parts[1]
		}
	case 3:
		loc, err := parseCoordinates(parts[0], parts[1])
		if err != nil {
			return Query{}, err
		}
		q.Location = loc
		windowSeg = parts[2]
	default:
		return Query{}, fmt.Errorf("%w: expected at most 3 segments, got %d", ErrMalformedInput, len(parts))
	}

	if windowSeg != "" {
		w, err := ParseWindow(windowSeg)
		if err != nil {
			return q, err
		}
		q.Window = &w
	}
	return q, nil
}

// IsDecimal reports whether s is a base-10 decimal literal with an optional sign.
func IsDecimal(s string) bool {
	return decimalPattern.MatchString(s)
}

func parseCoordinates(latStr, lonStr string) (weather.Location, error) {
	if !IsDecimal(latStr) || !IsDecimal(lonStr) {
		return weather.Location{}, fmt.Errorf("%w: coordinates must be decimal numbers", ErrMalformedInput)
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return weather.Location{}, fmt.Errorf("%w: latitude: %v", ErrMalformedInput, err)
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return weather.Location{}, fmt.Errorf("%w: longitude: %v", ErrMalformedInput, err)
	}
	if lat < -90 || lat > 90 {
		return weather.Location{}, fmt.Errorf("%w: latitude %g out of range", ErrMalformedInput, lat)
	}
	if lon < -180 || lon > 180 {
		return weather.Location{}, fmt.Errorf("%w: longitude %g out of range", ErrMalformedInput, lon)
	}
	return weather.ByCoordinates(lat, lon), nil
}

// ParseWindow parses "<clock>-<clock>", e.g. "3am-6pm" or "10PM - 2AM".
func ParseWindow(s string) (weather.TimeWindow, error) {
	tokens := strings.Split(s, "-")
	if len(tokens) != 2 {
		return weather.TimeWindow{}, fmt.Errorf("%w: %q is not a start-end range", ErrMalformedWindow, s)
	}
	start, err := ParseClock(tokens[0])
	if err != nil {
		return weather.TimeWindow{}, err
	}
	end, err := ParseClock(tokens[1])
	if err != nil {
		return weather.TimeWindow{}, err
	}
	return weather.TimeWindow{Start: start, End: end}, nil
}

// ParseClock parses a 12-hour token such as "3am" or "12PM".
func ParseClock(token string) (weather.ClockTime, error) {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(token))
	if m == nil {
		return 0, fmt.Errorf("%w: bad time %q", ErrMalformedWindow, token)
	}
	hour, _ := strconv.Atoi(m[1])
	if hour < 1 || hour > 12 {
		return 0, fmt.Errorf("%w: hour %d out of range", ErrMalformedWindow, hour)
	}
	hour %= 12
	if strings.EqualFold(m[2], "pm") {
		hour += 12
	}
	return weather.Clock(hour, 0), nil
}
