package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vocabuilder/api/internal/cache"
	"github.com/vocabuilder/api/internal/limiter"
	"github.com/vocabuilder/api/internal/middleware"
	"github.com/vocabuilder/api/internal/quiz"
	"github.com/vocabuilder/api/internal/scheduler"
	"github.com/vocabuilder/api/internal/store"
	"github.com/vocabuilder/api/internal/validator"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

// RouterConfig wires the HTTP surface. Cache, Limiter, Scheduler and
// GoogleConfig are optional.
type RouterConfig struct {
	DB           *gorm.DB
	Cache        *cache.RedisCache
	Limiter      *limiter.Limiter
	Languages    *validator.LanguageValidator
	Scheduler    *scheduler.MaintenanceScheduler
	JWTSecret    string
	AdminEmails  []string
	GoogleConfig *oauth2.Config
	FrontendURL  string
	CORSOrigin   string
	Log          *zap.Logger
}

func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	if cfg.DB == nil {
		return nil, errors.New("router requires a database")
	}
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	languages := cfg.Languages
	if languages == nil {
		languages = validator.NewLanguageValidator()
	}
	corsOrigin := cfg.CORSOrigin
	if corsOrigin == "" {
		corsOrigin = "*"
	}

	users := store.NewUserStore(cfg.DB)
	tokens := store.NewRefreshTokenStore(cfg.DB)
	vocabs := store.NewVocabularyStore(cfg.DB)
	results := store.NewQuizResultStore(cfg.DB)
	languageStore := store.NewLanguageStore(cfg.DB)

	authHandler := NewAuthHandler(users, tokens, cfg.JWTSecret, cfg.AdminEmails, cfg.GoogleConfig, cfg.FrontendURL, log)
	vocabHandler := NewVocabHandler(vocabs, languages, log)
	exportHandler := NewExportHandler(vocabs, log)
	quizHandler := NewQuizHandler(quiz.NewService(vocabs, results, log), log)
	languageHandler := NewLanguageHandler(languageStore, cfg.Cache, languages, log)
	adminHandler := NewAdminHandler(users, log)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.CORS(corsOrigin))

	requireAuth := middleware.AuthMiddleware(users, cfg.JWTSecret, log)
	requireAdmin := middleware.RequireAdmin()
	limit := func(action string) gin.HandlerFunc {
		return middleware.RateLimit(cfg.Limiter, action, log)
	}

	r.GET("/health", healthCheck(cfg.DB))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/scheduler/status", func(c *gin.Context) {
		if cfg.Scheduler == nil {
			c.JSON(http.StatusOK, gin.H{"enabled": false, "message": "Scheduler is disabled"})
			return
		}
		c.JSON(http.StatusOK, cfg.Scheduler.GetStatus())
	})

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", limit(limiter.ActionAuth), authHandler.Register)
		authGroup.POST("/login", limit(limiter.ActionAuth), authHandler.Login)
		authGroup.POST("/refresh", limit(limiter.ActionAuth), authHandler.Refresh)
		authGroup.POST("/logout", authHandler.Logout)
		authGroup.GET("/profile", requireAuth, authHandler.Profile)
		authGroup.GET("/google", authHandler.GoogleAuth)
		authGroup.GET("/google/callback", authHandler.GoogleCallback)
	}

	vocabGroup := r.Group("/vocabs", requireAuth)
	{
		vocabGroup.GET("", vocabHandler.List)
		vocabGroup.POST("", vocabHandler.Create)
		vocabGroup.GET("/export", limit(limiter.ActionExport), exportHandler.Export)
		vocabGroup.GET("/:id", vocabHandler.Get)
		vocabGroup.PUT("/:id", vocabHandler.Update)
		vocabGroup.DELETE("/:id", vocabHandler.Delete)
	}

	quizGroup := r.Group("/quiz", requireAuth)
	{
		quizGroup.GET("/questions", limit(limiter.ActionQuizGenerate), quizHandler.Questions)
		quizGroup.POST("/submit", limit(limiter.ActionQuizSubmit), quizHandler.Submit)
		quizGroup.GET("/history", quizHandler.History)
		quizGroup.GET("/:quizId", quizHandler.Detail)
	}

	adminGroup := r.Group("/admin", requireAuth, requireAdmin)
	{
		adminGroup.GET("/users", adminHandler.ListUsers)
		adminGroup.GET("/stats", adminHandler.GetStats)
		adminGroup.PUT("/users/:id", adminHandler.UpdateUser)
		adminGroup.DELETE("/users/:id", adminHandler.DeleteUser)
	}

	languageGroup := r.Group("/api/languages", requireAuth)
	{
		languageGroup.GET("/active", languageHandler.Active)
		languageGroup.GET("/all", requireAdmin, languageHandler.All)
		languageGroup.POST("", requireAdmin, languageHandler.Create)
		languageGroup.PUT("/:id", requireAdmin, languageHandler.Update)
		languageGroup.PUT("/:id/status", requireAdmin, languageHandler.UpdateStatus)
		languageGroup.DELETE("/:id", requireAdmin, languageHandler.Delete)
	}

	return r, nil
}

func healthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
