package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"study_core_backend/internal/config"
	"study_core_backend/internal/controller"
	"study_core_backend/internal/repository"
	"study_core_backend/internal/service"
	"study_core_backend/internal/util"
	"study_core_backend/pkg/configwatcher"
	"study_core_backend/pkg/database"
	"study_core_backend/pkg/embedding"
	"study_core_backend/pkg/logger"
	"study_core_backend/pkg/monitoring"
	"study_core_backend/pkg/security"
	"study_core_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	ConfigDir       string
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	tracer          *sdktrace.TracerProvider
	ctx             context.Context
	cancel          context.CancelFunc
	configCallbacks []func(*config.Config)
}

type repositories struct {
	content  *repository.ContentRepository
	activity *repository.ActivityLogRepository
	source   *repository.SourceRepository
	chunk    *repository.ChunkRepository
}

type services struct {
	storage    *service.StorageService
	scheduling *service.SchedulingService
	retrieval  *service.RetrievalService
	activity   *service.ActivityService
	review     *service.ReviewService
	question   *service.QuestionService
	ingestion  *service.IngestionService
}

type controllers struct {
	session  *controller.SessionController
	question *controller.QuestionController
	unit     *controller.UnitController
	activity *controller.ActivityController
	source   *controller.SourceController
	health   *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		content:  repository.NewContentRepository(db),
		activity: repository.NewActivityLogRepository(db),
		source:   repository.NewSourceRepository(db),
		chunk:    repository.NewChunkRepository(db),
	}
}

// newEmbedder 启用 Redis 时为查询向量加一层缓存
func newEmbedder(cfg *config.EmbeddingConfig, rdb *redis.Client) embedding.Embedder {
	var e embedding.Embedder = embedding.NewOpenAIEmbedder(embedding.Config{
		BaseURL:    cfg.BaseURL,
		APIKey:     cfg.APIKey,
		Model:      cfg.Model,
		Dimensions: cfg.Dimensions,
	})
	if rdb != nil {
		e = embedding.NewCachedEmbedder(e, rdb, time.Duration(cfg.CacheTTLMinutes)*time.Minute)
	}
	return e
}

func (a *App) initServices(repos *repositories, cfg *config.Config, embedder embedding.Embedder) *services {
	s := &services{}

	s.storage = service.NewStorageService(&cfg.Storage)
	s.scheduling = service.NewSchedulingService(repos.content, cfg.Scheduling.MaxLimit)
	s.retrieval = service.NewRetrievalService(service.NewPgVectorProvider(embedder, repos.chunk))
	s.activity = service.NewActivityService(repos.activity)
	s.review = service.NewReviewService(repos.content, s.activity)
	s.question = service.NewQuestionService(repos.content)
	s.ingestion = service.NewIngestionService(repos.source, repos.chunk, embedder, s.storage, cfg.Embedding.BatchSize)

	return s
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		session:  controller.NewSessionController(s.scheduling),
		question: controller.NewQuestionController(s.question, s.review),
		unit:     controller.NewUnitController(s.question),
		activity: controller.NewActivityController(s.activity),
		source:   controller.NewSourceController(s.ingestion, s.retrieval),
		health:   controller.NewHealthController(a.DB, a.Redis),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(a.ctx, security.Rule{
		MaxRequests: cfg.RateLimit.MaxRequests,
		Window:      time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute,
	}, security.ByIP))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// NewApp 组装依赖；embedder 为空时按配置创建
func NewApp(cfg *config.Config, db *gorm.DB, rdb *redis.Client, embedder embedding.Embedder) *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		ctx:    ctx,
		cancel: cancel,
	}

	if embedder == nil {
		embedder = newEmbedder(&cfg.Embedding, rdb)
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, embedder)
	controllers := app.initControllers(services)

	// 监控初始化
	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.RegisterConfigCallback(func(newCfg *config.Config) {
		logger.SetMode(newCfg.Server.Mode)
	})

	return app
}

// Bootstrap 初始化日志、数据库、缓存和追踪后创建 App
func Bootstrap(cfg *config.Config, configDir string) (*App, error) {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode, cfg.ForceMigrate)
	if err != nil {
		return nil, err
	}
	if cfg.MigrateOnly {
		return &App{Config: cfg, DB: db}, nil
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		return nil, err
	}

	app := NewApp(cfg, db, rdb, nil)
	app.ConfigDir = configDir

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("study-core", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			return nil, err
		}
		app.tracer = tp
	}

	return app, nil
}

func (a *App) watchConfig() {
	if a.ConfigDir == "" {
		return
	}
	err := configwatcher.WatchConfig(a.ctx, a.ConfigDir, 0, func(newCfg *config.Config) {
		for _, cb := range a.configCallbacks {
			cb(newCfg)
		}
	})
	if err != nil {
		logger.Log.Error("Config watcher stopped", zap.Error(err))
	}
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go a.watchConfig()

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	a.Close(ctx)
	logger.Log.Info("Server exiting")
}

// Close 停止后台任务并释放连接
func (a *App) Close(ctx context.Context) {
	if a.cancel != nil {
		a.cancel()
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}
}
