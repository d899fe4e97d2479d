// Package bot answers one inbound text message with one forecast reply.
package bot

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/i474232898/weather-sms/internal/query"
	"github.com/i474232898/weather-sms/internal/report"
	"github.com/i474232898/weather-sms/internal/weather"
)

// Fixed replies for the paths that do not produce a forecast.
const (
	ReplyEmptyInput  = "Please send the name of your nearest city or location."
	ReplyMalformed   = `Sorry, I couldn't read that. Send a city name or "lat, lon", optionally followed by a time range such as "Denver, 3am-6pm".`
	ReplyUnavailable = "Sorry, I couldn't find weather data for that location. Please try again with a different city name."
	ReplyNoData      = "No forecast data falls within that time range."
)

// Forecaster supplies ordered forecast samples for a location.
type Forecaster interface {
	GetForecast(ctx context.Context, loc weather.Location) ([]weather.Sample, error)
}

// Handler turns raw message text into reply text.
type Handler struct {
	forecaster Forecaster
	tz         *time.Location
	logger     *zap.Logger
}

// NewHandler creates a Handler. tz is the zone used for dates, clock times
// and time-window matching; nil means UTC.
func NewHandler(forecaster Forecaster, tz *time.Location, logger *zap.Logger) *Handler {
	if tz == nil {
		tz = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{forecaster: forecaster, tz: tz, logger: logger}
}

// Handle never fails: every error path resolves to one of the fixed replies.
//
// A malformed time window is not fatal. The location is still honored and
// the reply falls back to the full summary.
func (h *Handler) Handle(ctx context.Context, raw string) string {
	log := h.logger.With(zap.String("request_id", uuid.NewString()))

	q, err := query.Parse(raw)
	switch {
	case errors.Is(err, query.ErrEmptyInput):
		log.Info("empty message")
		return ReplyEmptyInput
	case errors.Is(err, query.ErrMalformedWindow):
		log.Warn("ignoring malformed time window", zap.String("input", raw), zap.Error(err))
		q.Window = nil
	case err != nil:
		log.Info("malformed message", zap.String("input", raw), zap.Error(err))
		return ReplyMalformed
	}

	fields := []zap.Field{zap.Stringer("location", q.Location)}
	if q.Window != nil {
		fields = append(fields, zap.Stringer("window", q.Window))
	}
	log.Info("forecast requested", fields...)

	samples, err := h.forecaster.GetForecast(ctx, q.Location)
	if err != nil || len(samples) == 0 {
		log.Warn("forecast unavailable", zap.Stringer("location", q.Location), zap.Error(err))
		return ReplyUnavailable
	}

	body := report.Condense(samples, q.Window, h.tz)
	if body == "" {
		log.Info("no samples in requested window", zap.Int("samples", len(samples)))
		return ReplyNoData
	}
	log.Debug("reply rendered", zap.Int("samples", len(samples)), zap.Int("bytes", len(body)))
	return body
}
