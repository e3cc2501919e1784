package app

import (
	"github.com/yungbote/sca-inventory-backend/internal/http"
	httpH "github.com/yungbote/sca-inventory-backend/internal/http/handlers"
	httpMW "github.com/yungbote/sca-inventory-backend/internal/http/middleware"
	"github.com/yungbote/sca-inventory-backend/internal/observability"
	"github.com/yungbote/sca-inventory-backend/internal/platform/logger"
	"github.com/yungbote/sca-inventory-backend/internal/realtime"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health    *httpH.HealthHandler
	Auth      *httpH.AuthHandler
	User      *httpH.UserHandler
	Product   *httpH.ProductHandler
	Batch     *httpH.BatchHandler
	Dashboard *httpH.DashboardHandler
	Report    *httpH.ReportHandler
	Admin     *httpH.AdminHandler
	Realtime  *httpH.RealtimeHandler
}

func wireHandlers(log *logger.Logger, services Services, sseHub *realtime.SSEHub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:    httpH.NewHealthHandler(),
		Auth:      httpH.NewAuthHandler(services.Auth),
		User:      httpH.NewUserHandler(services.User),
		Product:   httpH.NewProductHandler(services.Product, services.Batch),
		Batch:     httpH.NewBatchHandler(services.Batch),
		Dashboard: httpH.NewDashboardHandler(services.Dashboard),
		Report:    httpH.NewReportHandler(services.Report),
		Admin:     httpH.NewAdminHandler(services.Seed),
		Realtime:  httpH.NewRealtimeHandler(log, sseHub),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireServer(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *http.Server {
	return http.NewServer(http.RouterConfig{
		Log:              log,
		Metrics:          metrics,
		ServiceName:      cfg.ServiceName,
		CORSOrigins:      cfg.CORSOrigins,
		AuthMiddleware:   middleware.Auth,
		HealthHandler:    handlers.Health,
		AuthHandler:      handlers.Auth,
		UserHandler:      handlers.User,
		ProductHandler:   handlers.Product,
		BatchHandler:     handlers.Batch,
		DashboardHandler: handlers.Dashboard,
		ReportHandler:    handlers.Report,
		AdminHandler:     handlers.Admin,
		RealtimeHandler:  handlers.Realtime,
	})
}
