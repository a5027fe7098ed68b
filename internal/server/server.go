// Package server exposes the print engine over a local HTTP API. The desktop
// shell talks to these endpoints; nothing here is meant to face the network.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/madaris/daftar/internal/cache"
	"github.com/madaris/daftar/internal/config"
	"github.com/madaris/daftar/internal/engine"
	"github.com/madaris/daftar/internal/joblog"
	"github.com/madaris/daftar/internal/observability/logger"
	"github.com/madaris/daftar/internal/render"
	"github.com/madaris/daftar/internal/store"
)

// listTTL keeps an assembled list payload warm across the preview click and
// the print click that usually follows it.
const listTTL = 30 * time.Second

type Server struct {
	cfg    config.Config
	log    *zap.Logger
	engine *engine.Engine
	repo   *store.Repository
	jobs   *joblog.Recorder
	lists  *cache.TTLCache[string, render.Payload]
	router *gin.Engine
}

// NewEngine builds the gin router with the shared middleware chain.
func NewEngine(log *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, err any) {
		log.Error("panic in handler", zap.Any("panic", err))
		c.AbortWithStatus(http.StatusInternalServerError)
	}))
	r.Use(logger.GinMiddleware(logger.MiddlewareConfig{SkipPaths: []string{"/healthz"}}))
	return r
}

func NewServer(cfg config.Config, log *zap.Logger, eng *engine.Engine, repo *store.Repository, jobs *joblog.Recorder, router *gin.Engine) *Server {
	return &Server{
		cfg:    cfg,
		log:    log.Named("server"),
		engine: eng,
		repo:   repo,
		jobs:   jobs,
		lists:  cache.NewTTLCache[string, render.Payload](),
		router: router,
	}
}

// RegisterAPIRoutes mounts every endpoint on the router.
func (s *Server) RegisterAPIRoutes() {
	s.router.GET("/healthz", s.Health)

	api := s.router.Group("/api")
	api.GET("/templates", s.ListTemplates)
	api.POST("/print/:kind/preview", s.PreviewRaw)
	api.POST("/print/:kind/print", s.PrintRaw)
	api.GET("/print/jobs", s.ListJobs)

	reports := api.Group("/reports")
	reports.POST("/students_list", s.StudentsList)
	reports.POST("/teachers_list", s.TeachersList)
	reports.POST("/employees_list", s.EmployeesList)
	reports.POST("/financial_report", s.FinancialReport)
	reports.POST("/student_report", s.StudentReport)

	receipts := api.Group("/receipts")
	receipts.POST("/installment/:id", s.InstallmentReceipt)
	receipts.POST("/payment/:student_id", s.PaymentReceipt)
	receipts.POST("/additional_fees/:student_id", s.AdditionalFeesReceipt)
}

// Version is stamped by the build; the health endpoint reports it.
var Version = "dev"

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": Version})
}

// RunHTTP starts the listener under the fx lifecycle.
func RunHTTP(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, router *gin.Engine) {
	srv := &http.Server{Addr: cfg.Listen, Handler: router}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				log.Info("http listening", zap.String("addr", cfg.Listen))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

var Module = fx.Module("server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) { s.RegisterAPIRoutes() }),
	fx.Invoke(RunHTTP),
)
