package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/weather-dashboard/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, dashboards *DashboardHandler, logger *slog.Logger) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	httpLogger := logger.With("component", "http")
	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(httpLogger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(httpLogger),
	)

	router.GET("/health", handler.Health)

	api := router.Group("/api")
	api.Use(rateLimitMiddleware(cfg.HTTP.RateLimit, httpLogger))
	{
		api.GET("/weather", handler.Current)
		api.GET("/forecast", handler.Forecast)
		api.GET("/hourly-forecast", handler.Hourly)
		api.GET("/daily-forecast", handler.Daily)
		api.GET("/air-quality", handler.AirQuality)
		api.GET("/geocode", handler.Geocode)
		api.GET("/reverse-geocode", handler.ReverseGeocode)
		api.GET("/activities", handler.Activities)
	}

	sessions := api.Group("/v1/dashboard/sessions")
	{
		sessions.POST("", dashboards.CreateSession)
		sessions.GET("/:id", dashboards.GetSession)
		sessions.DELETE("/:id", dashboards.DeleteSession)
		sessions.POST("/:id/search", dashboards.Search)
		sessions.POST("/:id/locate", dashboards.Locate)
		sessions.PUT("/:id/day", dashboards.SelectDay)
		sessions.PUT("/:id/units", dashboards.SetUnits)
		sessions.PUT("/:id/theme", dashboards.SetTheme)
		sessions.PUT("/:id/tab", dashboards.SetTab)
		sessions.POST("/:id/favorites", dashboards.AddFavorite)
		sessions.DELETE("/:id/favorites/:city", dashboards.RemoveFavorite)
		sessions.GET("/:id/events", dashboards.Events)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
