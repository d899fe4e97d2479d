package report

import "strings"

// DefaultEmoji is shown for conditions missing from the table.
const DefaultEmoji = "🌡️"

var emojiByCondition = map[string]string{
	"clear sky":            "☀️",
	"few clouds":           "🌤️",
	"scattered clouds":     "⛅",
	"broken clouds":        "🌥️",
	"overcast clouds":      "☁️",
	"light rain":           "🌦️",
	"moderate rain":        "🌧️",
	"heavy intensity rain": "🌧️",
	"rain":                 "🌧️",
	"shower rain":          "🌧️",
	"freezing rain":        "🧊",
	"drizzle":              "🌦️",
	"thunderstorm":         "⛈️",
	"light snow":           "🌨️",
	"snow":                 "❄️",
	"heavy snow":           "❄️",
	"shower snow":          "🌨️",
	"mist":                 "🌫️",
	"fog":                  "🌫️",
	"haze":                 "🌫️",
}

// Emoji returns the pictogram for a condition description.
func Emoji(condition string) string {
	if e, ok := emojiByCondition[strings.ToLower(strings.TrimSpace(condition))]; ok {
		return e
	}
	return DefaultEmoji
}
