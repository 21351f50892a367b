package server

import (
	"context"
	"net/http"
	"time"

	conf "product-catalog-go/internal/conf/v1"
	"product-catalog-go/internal/service"

	"github.com/rs/cors"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

var Module = fx.Module("server",
	fx.Provide(
		NewHTTPServer,
	),
)

func NewHTTPServer(
	lc fx.Lifecycle,
	cfg *conf.Bootstrap,
	authService *service.AuthService,
	productService *service.ProductService,
	checkService *service.CheckService,
	logger *zap.Logger,
	monitoringMiddleware func(http.Handler) http.Handler,
) *http.Server {
	mux := http.NewServeMux()
	authService.RegisterRoutes(mux)
	productService.RegisterRoutes(mux)
	checkService.RegisterRoutes(mux)

	// CORS 配置：允许配置的前端来源访问
	allowedOrigins := []string{"*"}
	if cfg.Server.Http.CorsOrigin != "" {
		allowedOrigins = []string{cfg.Server.Http.CorsOrigin}
	}
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		MaxAge:           7200,
		AllowCredentials: false,
	})

	// 创建处理器链：监控中间件 -> CORS -> HTTP/2
	handlerChain := monitoringMiddleware(corsHandler.Handler(mux))

	server := &http.Server{
		Addr:         cfg.Server.Http.Addr,
		Handler:      h2c.NewHandler(handlerChain, &http2.Server{}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	// 注册生命周期钩子
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("HTTP server starting", zap.String("addr", cfg.Server.Http.Addr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("HTTP server shutting down...")
			return server.Shutdown(ctx)
		},
	})

	return server
}
