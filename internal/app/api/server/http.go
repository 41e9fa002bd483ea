package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fieldline/portal/docs"
	"github.com/fieldline/portal/internal/app/api/handlers"
	"github.com/fieldline/portal/internal/app/service/account"
	"github.com/fieldline/portal/internal/app/service/billing"
	"github.com/fieldline/portal/internal/app/service/directory"
	"github.com/fieldline/portal/internal/app/service/queryproxy"
	cfgpkg "github.com/fieldline/portal/pkg/config"

	mw "github.com/fieldline/portal/internal/app/api/middleware"

	metrics "github.com/fieldline/portal/pkg/metrics"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	// Add request tracing middleware only; request logger & access log are attached per group in registerRoutes
	r.Use(mw.TraceMiddleware())
	return r
}

func registerRoutes(r *gin.Engine, log *zap.SugaredLogger, cfg *cfgpkg.Config, gdb *gorm.DB, accounts *account.Service, billingSvc *billing.Service, dir *directory.Service, proxy *queryproxy.Service) {
	// Prometheus metrics
	if cfg != nil && cfg.MetricsAddr != "" {
		p := metrics.NewPrometheus(metrics.NewPrometheusOptions{
			ReqCntURLLabelMappingFn: func(c *gin.Context) string {
				if fp := c.FullPath(); fp != "" {
					return fp
				}
				return c.Request.URL.Path
			},
			Logger: log,
		})
		p.SetListenAddress(cfg.MetricsAddr)
		p.Use(r)

		log.Infow("metrics started", "addr", cfg.MetricsAddr)
	}

	// Public group: request logger + access log
	pub := r.Group("/")
	pub.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())
	handlers.RegisterHealthRoutes(pub, gdb)
	// Swagger UI
	docs.SwaggerInfo.BasePath = "/"
	pub.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Webhooks carry the provider signature instead of a session token.
	handlers.RegisterWebhookRoute(pub, billingSvc, log)

	// Checkout return is a browser redirect and rides the session token.
	ret := r.Group("/")
	ret.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware(), mw.AuthMiddleware(cfg))
	handlers.RegisterCheckoutReturnRoute(ret, billingSvc, log)

	// Session-authenticated API surface
	apiV1 := r.Group("/api/v1")
	apiV1.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware(), mw.AuthMiddleware(cfg))

	handlers.RegisterWorkspaceRoutes(apiV1, accounts)
	handlers.RegisterBillingRoutes(apiV1, billingSvc, log)
	handlers.RegisterDirectoryRoutes(apiV1, dir, accounts)
	handlers.RegisterIntakeRoutes(apiV1, dir, accounts)
	handlers.RegisterQueryProxyRoutes(apiV1, proxy, accounts, log)
}

func runServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, r *gin.Engine) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting HTTP server", "addr", addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil {
					log.Errorf("server error: %v", err)
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, 120*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Options(
	fx.Provide(newEngine),
	fx.Invoke(registerRoutes),
	fx.Invoke(runServer),
)
