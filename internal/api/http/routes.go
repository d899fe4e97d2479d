package httpapi

import (
	"context"
	"encoding/xml"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-sms/internal/store"
	"github.com/i474232898/weather-sms/internal/weather"
)

var validate = validator.New()

// Replier answers one inbound message.
type Replier interface {
	Handle(ctx context.Context, raw string) string
}

// ProbeReader exposes the latest upstream probe per location.
type ProbeReader interface {
	LatestProbe(loc weather.Location) (weather.ProbeResult, error)
}

// Deps are the collaborators the routes need.
type Deps struct {
	Replier        Replier
	Probes         ProbeReader
	ProbeLocations []weather.Location
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-sms",
		})
	})

	// Twilio-style messaging webhook: form-encoded Body in, TwiML out.
	app.Post("/sms", func(c *fiber.Ctx) error {
		reply := deps.Replier.Handle(c.UserContext(), c.FormValue("Body"))

		out, err := twiml(reply)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to render reply")
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
		return c.Send(out)
	})

	v1 := app.Group("/api/v1")

	v1.Get("/forecast", func(c *fiber.Ctx) error {
		req := forecastQuery{Q: c.Query("q")}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		return c.JSON(fiber.Map{
			"query": req.Q,
			"reply": deps.Replier.Handle(c.UserContext(), req.Q),
		})
	})

	v1.Get("/upstream", func(c *fiber.Ctx) error {
		if deps.Probes == nil {
			return fiber.NewError(fiber.StatusNotFound, "upstream probing is not enabled")
		}

		results := make([]weather.ProbeResult, 0, len(deps.ProbeLocations))
		for _, loc := range deps.ProbeLocations {
			res, err := deps.Probes.LatestProbe(loc)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					continue
				}
				return fiber.NewError(fiber.StatusInternalServerError, "failed to read probe results")
			}
			results = append(results, res)
		}

		return c.JSON(fiber.Map{
			"probes": results,
		})
	})
}

// forecastQuery holds query parameters for the forecast endpoint.
type forecastQuery struct {
	Q string `validate:"required,max=256"`
}

type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

func twiml(message string) ([]byte, error) {
	b, err := xml.Marshal(twimlResponse{Message: message})
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), b...), nil
}
