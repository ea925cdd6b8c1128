package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Victor-armando18/vehicle-admin/internal/app"
	"github.com/Victor-armando18/vehicle-admin/internal/domain"
	"github.com/Victor-armando18/vehicle-admin/internal/domain/model"
	"github.com/Victor-armando18/vehicle-admin/internal/infrastructure/restclient"
)

const headerCorrelationID = "X-Correlation-ID"

type ReconcileRequest struct {
	Original domain.Record `json:"original"`
	Updated  domain.Record `json:"updated"`
}

// PatchRequest carries the updated record, or the raw edit form which is
// mapped through model.Vehicle first.
type PatchRequest struct {
	Original domain.Record `json:"original,omitempty"`
	Updated  domain.Record `json:"updated,omitempty"`
	Form     domain.Record `json:"form,omitempty"`
}

func (r PatchRequest) updated() (domain.Record, error) {
	if r.Form == nil {
		return r.Updated, nil
	}
	if r.Updated != nil {
		return nil, fmt.Errorf("%w: send either updated or form", domain.ErrInvalidRecord)
	}
	rec, err := model.FormRecord(r.Form)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRecord, err)
	}
	return rec, nil
}

func newServer(a *app.App) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodPost, http.MethodPatch, http.MethodOptions, http.MethodGet},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAccept, headerCorrelationID},
	}))
	e.Use(echo.WrapMiddleware(func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, "vehicle-admin")
	}))
	e.Use(correlation)
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("correlation_id", domain.CorrelationIDFrom(c.Request().Context())).
				Msg("request")
			return nil
		},
	}))

	e.POST("/reconcile", handleReconcile(a))
	e.POST("/sanitize", handleSanitize(a))
	e.PATCH("/vehicles/:id", handlePatch(a))
	e.POST("/vehicles", handleCreate(a))
	e.GET("/metrics", echo.WrapHandler(a.Metrics.Handler()))
	e.GET("/healthz", handleHealth(a))
	return e
}

// correlation propagates the caller's correlation id, or the request id
// when there is none, to the use cases and the upstream API.
func correlation(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Request().Header.Get(headerCorrelationID)
		if id == "" {
			id = c.Request().Header.Get(echo.HeaderXRequestID)
		}
		if id != "" {
			req := c.Request()
			c.SetRequest(req.WithContext(domain.WithCorrelationID(req.Context(), id)))
			c.Response().Header().Set(headerCorrelationID, id)
		}
		return next(c)
	}
}

func handleReconcile(a *app.App) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req ReconcileRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid reconcile request"})
		}
		result, err := a.Preview.Run(c.Request().Context(), req.Original, req.Updated)
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(http.StatusOK, result)
	}
}

func handleSanitize(a *app.App) echo.HandlerFunc {
	return func(c echo.Context) error {
		var record domain.Record
		if err := c.Bind(&record); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid record"})
		}
		return c.JSON(http.StatusOK, a.Sanitizer.Sanitize(record))
	}
}

func handlePatch(a *app.App) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req PatchRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid patch request"})
		}
		updated, err := req.updated()
		if err != nil {
			return errorResponse(c, err)
		}
		result, err := a.Updates.UpdateVehicle(c.Request().Context(), domain.UpdateRequest{
			ID:       c.Param("id"),
			Original: req.Original,
			Updated:  updated,
		})
		if err != nil {
			return errorResponse(c, err, result)
		}
		c.Response().Header().Set(headerCorrelationID, result.CorrelationID)
		return c.JSON(http.StatusOK, result)
	}
}

func handleCreate(a *app.App) echo.HandlerFunc {
	return func(c echo.Context) error {
		var record domain.Record
		if err := c.Bind(&record); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid record"})
		}
		result, err := a.Updates.CreateVehicle(c.Request().Context(), record)
		if err != nil {
			return errorResponse(c, err, result)
		}
		c.Response().Header().Set(headerCorrelationID, result.CorrelationID)
		return c.JSON(http.StatusCreated, result)
	}
}

func handleHealth(a *app.App) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":       "ok",
			"rulesVersion": a.Guards.Version(),
		})
	}
}

func errorResponse(c echo.Context, err error, result ...*domain.UpdateResult) error {
	var apiErr *restclient.APIError
	switch {
	case errors.Is(err, domain.ErrGuardViolation):
		body := map[string]any{"error": "Blocked by Guards"}
		if len(result) > 0 && result[0] != nil {
			body["guards"] = result[0].GuardsHit
		}
		return c.JSON(http.StatusForbidden, body)
	case errors.Is(err, domain.ErrInvalidRecord):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrVehicleNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.As(err, &apiErr):
		return c.JSON(http.StatusBadGateway, map[string]any{
			"error":          err.Error(),
			"upstreamStatus": apiErr.Status,
		})
	case errors.Is(err, domain.ErrUpstreamUnreachable):
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
	}
	log.Error().Err(err).Msg("request failed")
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
}
