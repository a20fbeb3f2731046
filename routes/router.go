package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vkarpov/yatube/config"
	"github.com/vkarpov/yatube/controllers"
	"github.com/vkarpov/yatube/middleware"
	"github.com/vkarpov/yatube/repository"
	"github.com/vkarpov/yatube/utils"
	"github.com/vkarpov/yatube/views"
)

// SetupRouter wires routes, middlewares and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	repos := repository.Repositories{
		Users:    repository.NewUserRepository(db),
		Groups:   repository.NewGroupRepository(db),
		Posts:    repository.NewPostRepository(db),
		Comments: repository.NewCommentRepository(db),
		Follows:  repository.NewFollowRepository(db),
	}
	r.Use(middleware.CurrentUser(repos.Users))

	r.Static("/static", "./static")
	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	postController := controllers.NewPostController(repos, views.NewJSONRenderer())
	authController := controllers.NewAuthController(repos.Users)

	// The index response is cached whole for a fixed duration; every other
	// route always hits the datastore.
	pageCache := newPageCache(cfg)
	r.GET("/", middleware.CachePage(pageCache, time.Duration(cfg.IndexCacheSeconds)*time.Second), postController.Index)

	r.GET("/group/:slug/", postController.GroupPosts)
	r.GET("/profile/:username/", postController.Profile)
	r.GET("/posts/:id/", postController.PostDetail)

	protected := r.Group("", middleware.LoginRequired(), middleware.RateLimit())
	protected.GET("/create/", postController.Create)
	protected.POST("/create/", postController.Create)
	protected.GET("/posts/:id/edit/", postController.Edit)
	protected.POST("/posts/:id/edit/", postController.Edit)
	protected.POST("/posts/:id/comment/", postController.AddComment)
	protected.GET("/follow/", postController.FollowIndex)
	protected.GET("/profile/:username/follow/", postController.FollowAuthor)
	protected.POST("/profile/:username/follow/", postController.FollowAuthor)
	protected.GET("/profile/:username/unfollow/", postController.UnfollowAuthor)
	protected.POST("/profile/:username/unfollow/", postController.UnfollowAuthor)

	auth := r.Group("/auth", middleware.RateLimit())
	auth.GET("/login/", authController.LoginForm)
	auth.POST("/login/", authController.Login)
	auth.POST("/signup/", authController.Register)
	auth.POST("/logout/", authController.Logout)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "page not found")
	})

	return r
}

// newPageCache picks the Redis backend when enabled, with a bounded
// in-process store as the fallback.
func newPageCache(cfg config.AppConfig) utils.Store {
	if cfg.RedisEnabled {
		if store := utils.NewRedisStore(); store.Client != nil {
			return store
		}
	}
	return utils.NewMemoryStore(64)
}
