package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/unicus/v1/internal/api/http/handlers"
	"github.com/unicus/v1/internal/api/http/middleware"
	apiconfig "github.com/unicus/v1/internal/config/api"
	"github.com/unicus/v1/internal/core/replay"
	"github.com/unicus/v1/pkg/interfaces/infrastructure/log"
	nftstorageif "github.com/unicus/v1/pkg/interfaces/nftstorage"
	registryif "github.com/unicus/v1/pkg/interfaces/registry"
)

// RouterDeps 构建路由所需的依赖
type RouterDeps struct {
	Options    *apiconfig.APIOptions
	Logger     log.Logger
	Registry   registryif.TokenRegistry
	Uploader   nftstorageif.Uploader
	Guard      replay.Guard
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter 创建Gin路由引擎并注册全部中间件和路由
//
// 中间件顺序：恢复 → 请求ID → CORS → 请求日志 → 指标 → 限流 → 请求体大小 → 错误处理 → 签名
func NewRouter(deps RouterDeps) (*gin.Engine, error) {
	opts := deps.Options
	zl := deps.Logger.GetZapLogger()
	if zl == nil {
		zl = zap.NewNop()
	}

	metrics, err := middleware.NewMetrics(deps.Registerer)
	if err != nil {
		return nil, fmt.Errorf("注册API指标失败: %w", err)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.NewRequestID().Middleware(),
	)
	if opts.HTTP.CORSEnabled {
		router.Use(middleware.CORS(opts.HTTP.CORSOrigins))
	}
	router.Use(
		middleware.NewLogger(deps.Logger).Middleware(),
		metrics.Middleware(),
		middleware.NewRateLimit(opts.HTTP.RateLimitReadPerSecond, opts.HTTP.RateLimitWritePerSecond).Middleware(),
		middleware.BodyLimit(opts.HTTP.MaxRequestSize),
		middleware.ErrorHandler(zl),
	)

	handlers.NewHealthHandler(deps.Registry).RegisterRoutes(router)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))

	v1 := router.Group("/api/v1")
	v1.Use(middleware.NewSignatureValidation(zl, opts.Signature, deps.Guard).Middleware())

	handlers.NewTokenHandlers(deps.Registry, deps.Logger).RegisterRoutes(v1)
	handlers.NewAccountHandlers(deps.Registry).RegisterRoutes(v1)
	handlers.NewRegistryHandlers(deps.Registry, deps.Logger).RegisterRoutes(v1)
	handlers.NewUploadHandlers(deps.Uploader, deps.Logger).RegisterRoutes(v1)

	return router, nil
}

// Server HTTP服务器
// 负责监听端口、提供注册表与上传API、优雅关闭
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	options    *apiconfig.APIOptions
	logger     log.Logger
	listener   net.Listener
}

// NewServer 创建HTTP服务器（未启动）
func NewServer(router *gin.Engine, options *apiconfig.APIOptions, logger log.Logger) *Server {
	return &Server{
		router:  router,
		options: options,
		logger:  logger,
	}
}

// Handler 返回HTTP处理器
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr 返回实际监听地址，未启动时为空
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Start 启动HTTP服务器
// 端口在返回前已绑定，绑定失败直接返回错误
func (s *Server) Start() error {
	if !s.options.HTTP.Enabled {
		s.logger.Info("HTTP API在配置中被禁用，跳过启动")
		return nil
	}

	addr := fmt.Sprintf("%s:%d", s.options.HTTP.Host, s.options.HTTP.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("HTTP端口监听失败 %s: %w", addr, err)
	}
	s.listener = listener

	s.httpServer = &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.options.HTTP.ReadTimeout,
		WriteTimeout: s.options.HTTP.WriteTimeout,
		IdleTimeout:  s.options.HTTP.IdleTimeout,
	}

	go func() {
		// 正常关闭时返回 http.ErrServerClosed，不视为错误
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Errorf("❌ HTTP服务器运行失败: %v", err)
		}
	}()

	s.logger.Infof("✅ HTTP服务器启动成功，监听地址: %s", s.Addr())
	s.logger.Infof("📡 API端点: http://%s/api/v1/", s.Addr())
	s.logger.Infof("🩺 健康检查: http://%s/health", s.Addr())
	return nil
}

// Stop 优雅关闭HTTP服务器
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.logger.Info("正在关闭HTTP服务器...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP服务器关闭失败: %w", err)
	}
	s.logger.Info("HTTP服务器已关闭")
	return nil
}
