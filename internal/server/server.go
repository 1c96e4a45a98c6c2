package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	catalogdomain "github.com/smallbiznis/kasira/internal/catalog/domain"
	"github.com/smallbiznis/kasira/internal/config"
	"github.com/smallbiznis/kasira/internal/session"
	"github.com/smallbiznis/kasira/internal/syncer"
	"github.com/smallbiznis/kasira/internal/syncstate"
	transactiondomain "github.com/smallbiznis/kasira/internal/transaction/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) { s.RegisterRoutes() }),
	fx.Invoke(run),
)

// NewEngine builds the gin engine the local UI talks to over loopback.
func NewEngine(cfg config.Config, log *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(log.Named("http")))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": cfg.AppVersion})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}

type ServerParams struct {
	fx.In

	Engine         *gin.Engine
	Config         config.Config
	DB             *gorm.DB
	Log            *zap.Logger
	Sessions       *session.Manager
	CatalogSvc     catalogdomain.Service
	TransactionSvc transactiondomain.Service
	WatermarkRepo  syncstate.Repository
	Syncer         *syncer.Syncer
}

type Server struct {
	engine         *gin.Engine
	cfg            config.Config
	db             *gorm.DB
	log            *zap.Logger
	sessions       *session.Manager
	catalogSvc     catalogdomain.Service
	transactionSvc transactiondomain.Service
	watermarkRepo  syncstate.Repository
	syncer         *syncer.Syncer
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:         p.Engine,
		cfg:            p.Config,
		db:             p.DB,
		log:            p.Log.Named("server"),
		sessions:       p.Sessions,
		catalogSvc:     p.CatalogSvc,
		transactionSvc: p.TransactionSvc,
		watermarkRepo:  p.WatermarkRepo,
		syncer:         p.Syncer,
	}
}

func (s *Server) RegisterRoutes() {
	v1 := s.engine.Group("/v1")

	v1.POST("/session", s.Login)
	v1.DELETE("/session", s.Logout)

	v1.GET("/categories", s.ListCategories)
	v1.GET("/products", s.ListProducts)
	v1.GET("/products/:id", s.GetProduct)
	v1.GET("/products/:id/ingredients", s.GetProductIngredients)

	v1.POST("/transactions", s.CreateTransaction)
	v1.GET("/transactions", s.ListTransactions)
	v1.GET("/transactions/:id", s.GetTransaction)

	v1.GET("/sync/status", s.SyncStatus)
	v1.POST("/sync/run", s.RunSync)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
