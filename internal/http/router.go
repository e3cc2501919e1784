package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/sca-inventory-backend/internal/http/handlers"
	httpMW "github.com/yungbote/sca-inventory-backend/internal/http/middleware"
	"github.com/yungbote/sca-inventory-backend/internal/observability"
	"github.com/yungbote/sca-inventory-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	ServiceName string
	CORSOrigins []string

	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler    *httpH.HealthHandler
	AuthHandler      *httpH.AuthHandler
	UserHandler      *httpH.UserHandler
	ProductHandler   *httpH.ProductHandler
	BatchHandler     *httpH.BatchHandler
	DashboardHandler *httpH.DashboardHandler
	ReportHandler    *httpH.ReportHandler
	AdminHandler     *httpH.AdminHandler
	RealtimeHandler  *httpH.RealtimeHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.CORS(cfg.CORSOrigins))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.RequestLogger(cfg.Log))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/api/health", cfg.HealthHandler.Health)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/auth/login", cfg.AuthHandler.Login)
		}
	}

	protected := api.Group("/")
	if cfg.AuthMiddleware != nil {
		protected.Use(cfg.AuthMiddleware.RequireAuth())
	}
	{
		if cfg.AuthHandler != nil {
			protected.POST("/auth/logout", cfg.AuthHandler.Logout)
		}
		if cfg.UserHandler != nil {
			protected.GET("/me", cfg.UserHandler.GetMe)
		}

		// Realtime (SSE)
		if cfg.RealtimeHandler != nil {
			protected.GET("/events", cfg.RealtimeHandler.SSEStream)
		}

		// Products
		if cfg.ProductHandler != nil {
			protected.GET("/products", cfg.ProductHandler.List)
			protected.GET("/products/:id", cfg.ProductHandler.Get)
			protected.GET("/products/:id/fifo", cfg.ProductHandler.FIFO)
		}

		// Batches + inventory movements
		if cfg.BatchHandler != nil {
			protected.GET("/batches", cfg.BatchHandler.List)
			protected.POST("/batches", cfg.BatchHandler.Entry)
			protected.GET("/batches/:id", cfg.BatchHandler.Get)
			protected.PUT("/batches/:id", cfg.BatchHandler.Update)
			protected.DELETE("/batches/:id", cfg.BatchHandler.Delete)

			protected.POST("/inventory/entries", cfg.BatchHandler.Entry)
			protected.POST("/inventory/dispatches", cfg.BatchHandler.Dispatch)
			protected.GET("/inventory/movements", cfg.BatchHandler.Movements)
		}

		if cfg.DashboardHandler != nil {
			protected.GET("/dashboard", cfg.DashboardHandler.Summary)
			protected.GET("/notifications", cfg.DashboardHandler.Notifications)
		}

		if cfg.ReportHandler != nil {
			protected.GET("/reports/batches", cfg.ReportHandler.Batches)
			protected.GET("/reports/batches.csv", cfg.ReportHandler.BatchesCSV)
		}
	}

	admin := protected.Group("/")
	if cfg.AuthMiddleware != nil {
		admin.Use(cfg.AuthMiddleware.RequireAdmin())
	}
	{
		if cfg.ProductHandler != nil {
			admin.POST("/products", cfg.ProductHandler.Create)
			admin.PUT("/products/:id", cfg.ProductHandler.Update)
			admin.DELETE("/products/:id", cfg.ProductHandler.Delete)
		}
		if cfg.UserHandler != nil {
			admin.GET("/users", cfg.UserHandler.List)
			admin.POST("/users", cfg.UserHandler.Create)
			admin.PUT("/users/:id", cfg.UserHandler.Update)
			admin.DELETE("/users/:id", cfg.UserHandler.Delete)
			admin.POST("/users/:id/toggle-status", cfg.UserHandler.ToggleStatus)
		}
		if cfg.AdminHandler != nil {
			admin.GET("/diagnostic", cfg.AdminHandler.Diagnostic)
			admin.POST("/init", cfg.AdminHandler.Init)
		}
	}

	return r
}
