package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/weather-dashboard/internal/domain/advisor"
	"github.com/yanqian/weather-dashboard/internal/domain/weather"
	"github.com/yanqian/weather-dashboard/pkg/metrics"
	"github.com/yanqian/weather-dashboard/pkg/util"
)

// Handler serves the weather API consumed by dashboards.
type Handler struct {
	weatherSvc weather.Service
	advisorSvc advisor.Service
	calls      *metrics.CallCounter
	logger     *slog.Logger
}

// NewHandler constructs the weather API handler.
func NewHandler(weatherSvc weather.Service, advisorSvc advisor.Service, calls *metrics.CallCounter, logger *slog.Logger) *Handler {
	return &Handler{
		weatherSvc: weatherSvc,
		advisorSvc: advisorSvc,
		calls:      calls,
		logger:     logger.With("component", "http.handler"),
	}
}

type cityQuery struct {
	City string `form:"city" binding:"required"`
}

type coordQuery struct {
	Lat *float64 `form:"lat" binding:"required,gte=-90,lte=90"`
	Lon *float64 `form:"lon" binding:"required,gte=-180,lte=180"`
}

func bindCity(c *gin.Context) (string, bool) {
	var q cityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "city parameter is required", err))
		return "", false
	}
	return q.City, true
}

func bindCoords(c *gin.Context) (float64, float64, bool) {
	var q coordQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "lat and lon parameters must be valid coordinates", err))
		return 0, 0, false
	}
	return *q.Lat, *q.Lon, true
}

// Current returns current conditions for a city.
func (h *Handler) Current(c *gin.Context) {
	city, ok := bindCity(c)
	if !ok {
		return
	}
	resp, err := h.weatherSvc.Current(c.Request.Context(), city)
	if err != nil {
		abortWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Forecast returns the next 24 hours in three hour steps.
func (h *Handler) Forecast(c *gin.Context) {
	city, ok := bindCity(c)
	if !ok {
		return
	}
	resp, err := h.weatherSvc.Forecast(c.Request.Context(), city)
	if err != nil {
		abortWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Hourly returns the next 48 hours.
func (h *Handler) Hourly(c *gin.Context) {
	city, ok := bindCity(c)
	if !ok {
		return
	}
	resp, err := h.weatherSvc.Hourly(c.Request.Context(), city)
	if err != nil {
		abortWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Daily returns the forecast grouped per calendar day.
func (h *Handler) Daily(c *gin.Context) {
	city, ok := bindCity(c)
	if !ok {
		return
	}
	resp, err := h.weatherSvc.Daily(c.Request.Context(), city)
	if err != nil {
		abortWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) AirQuality(c *gin.Context) {
	lat, lon, ok := bindCoords(c)
	if !ok {
		return
	}
	resp, err := h.weatherSvc.AirQuality(c.Request.Context(), lat, lon)
	if err != nil {
		abortWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) Geocode(c *gin.Context) {
	city, ok := bindCity(c)
	if !ok {
		return
	}
	resp, err := h.weatherSvc.Geocode(c.Request.Context(), city)
	if err != nil {
		abortWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) ReverseGeocode(c *gin.Context) {
	lat, lon, ok := bindCoords(c)
	if !ok {
		return
	}
	resp, err := h.weatherSvc.ReverseGeocode(c.Request.Context(), lat, lon)
	if err != nil {
		abortWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Activities recommends activities for the coming day.
func (h *Handler) Activities(c *gin.Context) {
	city, ok := bindCity(c)
	if !ok {
		return
	}
	resp, err := h.advisorSvc.Recommend(c.Request.Context(), advisor.Request{City: city})
	if err != nil {
		abortWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Health reports liveness and upstream call counters.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":               "healthy",
		"timestamp":            util.NowUTC(),
		"upstream_calls":       h.calls.Snapshot(),
		"upstream_calls_total": h.calls.Total(),
	})
}
