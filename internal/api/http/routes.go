package httpapi

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/weatherdeck/weatherdeck/internal/store"
	"github.com/weatherdeck/weatherdeck/internal/weather"
)

var validate = validator.New()

// pipelineBudget bounds one full snapshot assembly, including all historical
// slice fetches. Individual provider calls carry their own tighter timeout.
const pipelineBudget = 2 * time.Minute

// RegisterRoutes wires the HTTP handlers into the Fiber app. The Snapshot
// object and the suggestion list are the only contracts presentation code
// may depend on.
func RegisterRoutes(app *fiber.App, service *weather.Service, st *store.MemoryStore, logger *zap.Logger) {
	app.Use(requestID())

	v1 := app.Group("/api/v1")

	v1.Get("/weather/snapshot", func(c *fiber.Ctx) error {
		var q snapshotQuery
		q.City = c.Query("city")
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if snap, err := st.GetFresh(q.City); err == nil {
			return c.JSON(snap)
		} else if !errors.Is(err, store.ErrNotFound) {
			return fiber.NewError(fiber.StatusInternalServerError, "snapshot lookup failed")
		}

		ctx, cancel := context.WithTimeout(c.Context(), pipelineBudget)
		defer cancel()

		snap, err := service.FetchSnapshot(ctx, q.City)
		if err != nil {
			logger.Error("snapshot pipeline failed",
				zap.String("city", q.City),
				zap.String("requestId", requestIDFrom(c)),
				zap.Error(err))
			return fiber.NewError(fiber.StatusBadGateway, "weather data unavailable")
		}

		st.Save(q.City, snap)
		return c.JSON(snap)
	})

	v1.Get("/search/suggestions", func(c *fiber.Ctx) error {
		var q suggestionQuery
		q.Query = c.Query("q")
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		return c.JSON(service.SearchSuggestions(c.Context(), q.Query))
	})

	v1.Get("/cities", func(c *fiber.Ctx) error {
		return c.JSON(service.ListCities(c.Context()))
	})

	v1.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}

// snapshotQuery holds query parameters for the snapshot endpoint.
type snapshotQuery struct {
	City string `validate:"required,min=2"`
}

// suggestionQuery holds query parameters for the suggestion endpoint.
type suggestionQuery struct {
	Query string `validate:"required,min=1"`
}

const requestIDKey = "requestId"

// requestID tags every request with a correlation id, echoed in the
// X-Request-ID response header.
func requestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(requestIDKey, id)
		c.Set("X-Request-ID", id)
		return c.Next()
	}
}

func requestIDFrom(c *fiber.Ctx) string {
	if id, ok := c.Locals(requestIDKey).(string); ok {
		return id
	}
	return ""
}
