package app

import (
	"strconv"
	"time"

	"study_core_backend/docs"
	"study_core_backend/internal/config"
	"study_core_backend/internal/middleware"
	"study_core_backend/internal/util"
	"study_core_backend/pkg/monitoring"
	"study_core_backend/pkg/security"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg.JWT.Secret))
	{
		a.registerStudyRoutes(authGroup, c)
		a.registerContentRoutes(authGroup, c)
		a.registerSourceRoutes(authGroup, c)
	}
}

func (a *App) registerStudyRoutes(group *gin.RouterGroup, c *controllers) {
	study := group.Group("/study")
	{
		study.POST("/sessions", c.session.FetchSession)
		study.POST("/sessions/extend", c.session.ExtendSession)
	}

	activity := group.Group("/activity")
	{
		activity.POST("", c.activity.LogActivity)
		activity.GET("/streak", c.activity.GetStreak)
	}
}

func (a *App) registerContentRoutes(group *gin.RouterGroup, c *controllers) {
	questions := group.Group("/questions")
	{
		questions.POST("/batch", c.question.CreateQuestions)
		questions.PUT("/batch", c.question.UpdateQuestions)
		questions.DELETE("/batch", c.question.DeleteQuestions)
		questions.GET("/:id", c.question.GetQuestion)
		questions.POST("/:id/review", c.question.ReviewQuestion)
	}

	group.GET("/units/:id", c.unit.GetUnit)
}

func (a *App) registerSourceRoutes(group *gin.RouterGroup, c *controllers) {
	sources := group.Group("/sources")
	sources.Use(security.RateLimiter(a.ctx, security.Rule{
		MaxRequests: a.Config.RateLimit.EmbeddingMaxRequests,
		Window:      time.Duration(a.Config.RateLimit.WindowMinutes) * time.Minute,
	}, byUser))
	{
		sources.POST("", c.source.UploadSource)
		sources.GET("/:id/related", c.source.FindRelated)
	}
}

// byUser 登录后的接口按用户限流
func byUser(c *gin.Context) string {
	if user := util.GetUserFromContext(c); user != nil {
		return "user:" + strconv.FormatUint(uint64(user.UserID), 10)
	}
	return ""
}
