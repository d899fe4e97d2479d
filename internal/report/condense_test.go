package report

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-sms/internal/weather"
)

func at(day, hour int) time.Time {
	return time.Date(2024, time.March, day, hour, 0, 0, 0, time.UTC)
}

func sample(ts time.Time, temp float64, cond string) weather.Sample {
	return weather.Sample{Timestamp: ts, TemperatureF: temp, Condition: cond}
}

func TestRunsBoundaryUsesNextSample(t *testing.T) {
	samples := []weather.Sample{
		sample(at(4, 8), 60, "clear sky"),
		sample(at(4, 9), 60.5, "clear sky"),
		sample(at(4, 10), 55, "light rain"),
		sample(at(4, 11), 58, "light rain"),
	}

	runs := Runs(samples)
	require.Len(t, runs, 2)

	assert.Equal(t, at(4, 8), runs[0].Start)
	assert.Equal(t, at(4, 10), runs[0].End, "a closed run ends at the sample that closed it")
	assert.Equal(t, at(4, 10), runs[1].Start)
	assert.Equal(t, at(4, 11), runs[1].End, "the final run ends at its own last sample")
	assert.Equal(t, 55.0, runs[1].MinTemp)
	assert.Equal(t, 58.0, runs[1].MaxTemp)
}

func TestRunsSingleCondition(t *testing.T) {
	temps := []float64{61, 64.2, 59.4, 62}
	var samples []weather.Sample
	for i, temp := range temps {
		samples = append(samples, sample(at(4, 6+3*i), temp, "few clouds"))
	}

	runs := Runs(samples)
	require.Len(t, runs, 1)
	assert.Equal(t, 59.4, runs[0].MinTemp)
	assert.Equal(t, 64.2, runs[0].MaxTemp)
	assert.Equal(t, "6 AM - 3 PM: 59.4°F - 64.2°F 🌤️ few clouds", runs[0].Line(time.UTC))
}

func TestRunsEmpty(t *testing.T) {
	assert.Nil(t, Runs(nil))
	assert.Equal(t, "", Summary(nil, time.UTC))
}

func TestRunsDoNotMergeNonAdjacentConditions(t *testing.T) {
	samples := []weather.Sample{
		sample(at(4, 0), 40, "mist"),
		sample(at(4, 3), 41, "clear sky"),
		sample(at(4, 6), 42, "mist"),
	}
	runs := Runs(samples)
	require.Len(t, runs, 3)
	assert.Equal(t, "mist", runs[2].Condition)
	assert.Equal(t, at(4, 6), runs[2].End)
}

func TestSummary(t *testing.T) {
	samples := []weather.Sample{
		sample(at(4, 8), 60, "clear sky"),
		sample(at(4, 9), 60.5, "clear sky"),
		sample(at(4, 10), 55, "light rain"),
		sample(at(4, 11), 58, "light rain"),
	}

	want := strings.Join([]string{
		"Monday, March 04:",
		"  8 AM - 10 AM: 60.0°F ☀️ clear sky",
		"  10 AM - 11 AM: 55.0°F - 58.0°F 🌦️ light rain",
	}, "\n")

	if diff := cmp.Diff(want, Summary(samples, time.UTC)); diff != "" {
		t.Errorf("Summary mismatch (-want +got):\n%s", diff)
	}
}

func TestSummaryNeverMergesAcrossMidnight(t *testing.T) {
	samples := []weather.Sample{
		sample(at(4, 21), 50, "clear sky"),
		sample(at(5, 0), 45, "clear sky"),
		sample(at(5, 3), 48, "clear sky"),
	}

	want := strings.Join([]string{
		"Monday, March 04:",
		"  9 PM - 9 PM: 50.0°F ☀️ clear sky",
		"",
		"Tuesday, March 05:",
		"  12 AM - 3 AM: 45.0°F - 48.0°F ☀️ clear sky",
	}, "\n")

	if diff := cmp.Diff(want, Summary(samples, time.UTC)); diff != "" {
		t.Errorf("Summary mismatch (-want +got):\n%s", diff)
	}
}

func TestSummaryUsesTimezoneForDates(t *testing.T) {
	mst := time.FixedZone("MST", -7*3600)
	// 03:00 UTC on the 5th is still the evening of the 4th in MST.
	samples := []weather.Sample{
		sample(at(5, 3), 50, "clear sky"),
		sample(at(5, 6), 49, "clear sky"),
		sample(at(5, 9), 47, "clear sky"),
	}

	days := GroupByDate(samples, mst)
	require.Len(t, days, 2)
	assert.Len(t, days[0].Samples, 2)
	assert.Len(t, days[1].Samples, 1)

	out := Summary(samples, mst)
	assert.True(t, strings.HasPrefix(out, "Monday, March 04:\n  8 PM - 11 PM: 49.0°F - 50.0°F"), out)
	assert.Contains(t, out, "Tuesday, March 05:\n  2 AM - 2 AM: 47.0°F")
}

func TestGroupByDateKeepsFirstAppearanceOrder(t *testing.T) {
	samples := []weather.Sample{
		sample(at(5, 0), 1, "a"),
		sample(at(4, 0), 2, "a"),
		sample(at(5, 3), 3, "a"),
	}
	days := GroupByDate(samples, time.UTC)
	require.Len(t, days, 2)
	assert.Equal(t, 5, days[0].Date.Day())
	assert.Len(t, days[0].Samples, 2)
	assert.Equal(t, 4, days[1].Date.Day())
}

func TestDetailedOvernightWindow(t *testing.T) {
	samples := []weather.Sample{
		sample(at(4, 21), 52.25, "clear sky"),
		sample(at(4, 23), 50, "clear sky"),
		sample(at(5, 1), 47.5, "mist"),
		sample(at(5, 2), 47, "mist"),
		sample(at(5, 6), 45, "mist"),
	}
	w := weather.TimeWindow{Start: weather.Clock(22, 0), End: weather.Clock(2, 0)}

	want := strings.Join([]string{
		"Mon Mar 04 11:00 PM: 50.0°F clear sky",
		"Tue Mar 05 1:00 AM: 47.5°F mist",
		"Tue Mar 05 2:00 AM: 47.0°F mist",
	}, "\n")
	assert.Equal(t, want, Detailed(samples, w, time.UTC))
}

func TestDetailedNoMatches(t *testing.T) {
	samples := []weather.Sample{sample(at(4, 12), 70, "clear sky")}
	w := weather.TimeWindow{Start: weather.Clock(1, 0), End: weather.Clock(3, 0)}
	assert.Equal(t, "", Detailed(samples, w, time.UTC))
}

func TestCondenseDispatch(t *testing.T) {
	samples := []weather.Sample{
		sample(at(4, 9), 60, "clear sky"),
		sample(at(4, 12), 65, "clear sky"),
	}
	w := weather.TimeWindow{Start: weather.Clock(9, 0), End: weather.Clock(9, 0)}

	assert.Equal(t, "Mon Mar 04 9:00 AM: 60.0°F clear sky", Condense(samples, &w, nil))
	assert.Equal(t, "Monday, March 04:\n  9 AM - 12 PM: 60.0°F - 65.0°F ☀️ clear sky", Condense(samples, nil, nil))
}

func TestFormatTemperature(t *testing.T) {
	assert.Equal(t, "70.0°F", FormatTemperature(70, 70))
	assert.Equal(t, "70.0°F", FormatTemperature(70, 70.99))
	assert.Equal(t, "70.0°F - 71.0°F", FormatTemperature(70, 71))
	assert.Equal(t, "-3.5°F - 10.2°F", FormatTemperature(-3.5, 10.2))
}

func TestEmoji(t *testing.T) {
	assert.GreaterOrEqual(t, len(emojiByCondition), 10)
	assert.Equal(t, "☀️", Emoji("clear sky"))
	assert.Equal(t, "☀️", Emoji("Clear Sky"))
	assert.Equal(t, "⛈️", Emoji("thunderstorm"))
	assert.Equal(t, DefaultEmoji, Emoji("volcanic ash"))
	assert.Equal(t, DefaultEmoji, Emoji(""))
}

func TestSummaryUnknownConditionUsesDefaultEmoji(t *testing.T) {
	out := Summary([]weather.Sample{sample(at(4, 9), 33, "volcanic ash")}, time.UTC)
	assert.Equal(t, "Monday, March 04:\n  9 AM - 9 AM: 33.0°F "+DefaultEmoji+" volcanic ash", out)
}
