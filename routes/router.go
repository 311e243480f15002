package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Lukaspop/Pixel-Dread-website/config"
	"github.com/Lukaspop/Pixel-Dread-website/controllers"
	"github.com/Lukaspop/Pixel-Dread-website/middleware"
	"github.com/Lukaspop/Pixel-Dread-website/services"
	"github.com/Lukaspop/Pixel-Dread-website/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
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
		ExposeHeaders:    []string{"Content-Length", "Location"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}

	r.Use(cors.New(corsCfg))

	r.Static("/static", "./static")

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	fileService := services.NewFileService(db, cfg.UploadDir, utils.Sugar)
	postService := services.NewPostService(db, fileService, utils.Sugar)
	taxonomyService := services.NewTaxonomyService(db)

	authController := controllers.NewAuthController(db)
	postController := controllers.NewPostController(postService)
	fileController := controllers.NewFileController(fileService)
	taxonomyController := controllers.NewTaxonomyController(taxonomyService)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/login", authController.Login)

	// Public read surface
	api.GET("/posts", postController.ListPosts)
	api.GET("/posts/:id", postController.GetPost)
	api.GET("/posts/slug/:slug", postController.GetPostBySlug)
	api.GET("/posts/slug-exists/:slug", postController.SlugExists)
	api.GET("/posts/by-category/:categoryId", postController.GetPostsByCategory)
	api.GET("/categories", taxonomyController.ListCategories)
	api.GET("/tags", taxonomyController.ListTags)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())

	protected.POST("/upload", fileController.Upload)

	protected.POST("/posts", postController.CreatePost)
	protected.PUT("/posts/:id", postController.ReplacePost)
	protected.PUT("/posts/:id/name", postController.RenamePost)
	protected.POST("/posts/:id/tags", postController.AddTags)
	protected.DELETE("/posts/:id", postController.DeletePost)

	protected.POST("/categories", taxonomyController.CreateCategory)
	protected.PUT("/categories/:id", taxonomyController.RenameCategory)
	protected.DELETE("/categories/:id", taxonomyController.DeleteCategory)

	protected.POST("/tags", taxonomyController.CreateTag)
	protected.DELETE("/tags/:id", taxonomyController.DeleteTag)

	r.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}
		ctx.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	})

	return r
}
