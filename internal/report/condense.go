// Package report renders forecast samples as short text suitable for an SMS reply.
package report

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/i474232898/weather-sms/internal/weather"
)

const (
	unit = "F"

	// spreadThreshold is the min/max gap below which a run shows one temperature.
	spreadThreshold = 1.0

	clockLayout   = "3 PM"
	headingLayout = "Monday, January 02"
	detailLayout  = "Mon Jan 02 3:04 PM"
)

// Run is a maximal stretch of consecutive samples sharing one condition.
type Run struct {
	Condition string
	Start     time.Time
	// End is the timestamp of the sample that closed the run, or the run's own
	// last sample when nothing follows it.
	End     time.Time
	MinTemp float64
	MaxTemp float64
}

// Line renders the run as "<start> - <end>: <temps> <emoji> <condition>".
func (r Run) Line(tz *time.Location) string {
	tz = orUTC(tz)
	return fmt.Sprintf("%s - %s: %s %s %s",
		r.Start.In(tz).Format(clockLayout),
		r.End.In(tz).Format(clockLayout),
		FormatTemperature(r.MinTemp, r.MaxTemp),
		Emoji(r.Condition),
		r.Condition)
}

// Day is the samples falling on one calendar date.
type Day struct {
	Date    time.Time
	Samples []weather.Sample
}

// Condense renders samples in detailed mode when window is set and in
// summary mode otherwise. Times are shown in tz.
func Condense(samples []weather.Sample, window *weather.TimeWindow, tz *time.Location) string {
	if window != nil {
		return Detailed(samples, *window, tz)
	}
	return Summary(samples, tz)
}

// Detailed lists every sample whose local time of day falls inside window.
// It returns "" when nothing matches.
func Detailed(samples []weather.Sample, window weather.TimeWindow, tz *time.Location) string {
	tz = orUTC(tz)
	var lines []string
	for _, s := range samples {
		local := s.Timestamp.In(tz)
		if !window.Contains(weather.ClockOf(local)) {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %.1f°%s %s",
			local.Format(detailLayout), s.TemperatureF, unit, s.Condition))
	}
	return strings.Join(lines, "\n")
}

// Summary groups samples by date and condenses each day into condition runs.
func Summary(samples []weather.Sample, tz *time.Location) string {
	tz = orUTC(tz)
	var b strings.Builder
	for _, day := range GroupByDate(samples, tz) {
		fmt.Fprintf(&b, "\n%s:\n", day.Date.Format(headingLayout))
		for _, r := range Runs(day.Samples) {
			fmt.Fprintf(&b, "  %s\n", r.Line(tz))
		}
	}
	return strings.TrimSpace(b.String())
}

// GroupByDate partitions samples by their calendar date in tz, keeping
// dates in order of first appearance and samples in input order.
func GroupByDate(samples []weather.Sample, tz *time.Location) []Day {
	tz = orUTC(tz)
	var days []Day
	index := make(map[string]int)
	for _, s := range samples {
		local := s.Timestamp.In(tz)
		key := local.Format("2006-01-02")
		i, ok := index[key]
		if !ok {
			i = len(days)
			index[key] = i
			days = append(days, Day{
				Date: time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, tz),
			})
		}
		days[i].Samples = append(days[i].Samples, s)
	}
	return days
}

// Runs walks samples once and splits them into condition runs.
func Runs(samples []weather.Sample) []Run {
	if len(samples) == 0 {
		return nil
	}

	var runs []Run
	cur := newRun(samples[0])
	for _, s := range samples[1:] {
		if s.Condition != cur.Condition {
			cur.End = s.Timestamp
			runs = append(runs, cur)
			cur = newRun(s)
			continue
		}
		cur.MinTemp = math.Min(cur.MinTemp, s.TemperatureF)
		cur.MaxTemp = math.Max(cur.MaxTemp, s.TemperatureF)
	}
	cur.End = samples[len(samples)-1].Timestamp
	return append(runs, cur)
}

func newRun(s weather.Sample) Run {
	return Run{
		Condition: s.Condition,
		Start:     s.Timestamp,
		MinTemp:   s.TemperatureF,
		MaxTemp:   s.TemperatureF,
	}
}

// FormatTemperature shows a single value when the spread is under a degree.
func FormatTemperature(minTemp, maxTemp float64) string {
	if maxTemp-minTemp < spreadThreshold {
		return fmt.Sprintf("%.1f°%s", minTemp, unit)
	}
	return fmt.Sprintf("%.1f°%s - %.1f°%s", minTemp, unit, maxTemp, unit)
}

func orUTC(tz *time.Location) *time.Location {
	if tz == nil {
		return time.UTC
	}
	return tz
}
