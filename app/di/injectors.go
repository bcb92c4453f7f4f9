//go:build wireinject
// +build wireinject

package di

import (
	"blogd/app"
	"blogd/app/cache"
	"blogd/app/config"
	"blogd/app/controllers"
	"blogd/app/metrics"
	"blogd/app/routes"
	"blogd/app/services"
	"blogd/pkg/log"

	wire "github.com/google/wire"
)

func InitApp(flags *config.CliFlags) (*app.App, func(), error) {

	wire.Build(
		config.NewConfigProvider,
		config.NewPlatformContext,
		log.NewLogger,
		metrics.NewMetricsProvider,
		cache.NewInstrumentedCacheProvider,

		app.NewRepositoryProvider,
		app.NewThemeManagerProvider,
		app.NewManagerProvider,

		services.NewBlogEntryService,
		services.NewResponseService,
		controllers.NewBlogController,
		controllers.NewEntryController,
		controllers.NewResponseController,
		controllers.NewCategoryController,
		controllers.NewHealthController,
		wire.Struct(new(routes.Controllers), "*"),
		routes.SetupRoutes,
		app.NewApp,
	)

	return nil, nil, nil
}
