//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/weather-dashboard/internal/bootstrap"
	"github.com/yanqian/weather-dashboard/internal/domain/advisor"
	"github.com/yanqian/weather-dashboard/internal/domain/dashboard"
	"github.com/yanqian/weather-dashboard/internal/domain/weather"
	"github.com/yanqian/weather-dashboard/internal/infra/config"
	"github.com/yanqian/weather-dashboard/internal/infra/openweather"
	httpiface "github.com/yanqian/weather-dashboard/internal/interface/http"
	"github.com/yanqian/weather-dashboard/pkg/logger"
	"github.com/yanqian/weather-dashboard/pkg/metrics"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		metrics.NewCallCounter,
		provideWeatherConfig,
		provideOpenWeatherClient,
		provideAdvisorConfig,
		provideChatClient,
		provideForecastSource,
		provideDashboardAPI,
		providePreferencesBackend,
		provideRegistryConfig,
		provideJanitor,
		weather.NewService,
		advisor.NewService,
		dashboard.NewRegistry,
		wire.Bind(new(weather.Upstream), new(*openweather.Client)),
		httpiface.NewHandler,
		httpiface.NewDashboardHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
