package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tasktracker/internal/adapter/http/handler"
	"tasktracker/internal/adapter/http/middleware"
	"tasktracker/pkg/config"
)

type HandlersConfig struct {
	AuthHandler *handler.AuthHandler
	UserHandler *handler.UserHandler
	TaskHandler *handler.TaskHandler
	Resolver    middleware.IdentityResolver
}

func SetupRouterWithConfig(handlers HandlersConfig, metrics middleware.RequestMetrics, logger *config.LokiLogger, cfg *config.AppConfig) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	middleware.SetupGinMiddlewareWithConfig(router, metrics, logger, cfg)

	router.Use(gin.Recovery())
	router.Use(middleware.CorsMiddleware())

	setupRoutes(router, handlers)

	return router
}

func SetupRouterForTests(handlers HandlersConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.CurrentMiddleware())
	router.Use(middleware.CorsMiddleware())

	setupRoutes(router, handlers)

	return router
}

func setupRoutes(router *gin.Engine, handlers HandlersConfig) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if handlers.AuthHandler != nil {
		setupPublicRoutes(router, handlers.AuthHandler)
	}

	if handlers.Resolver == nil {
		return
	}

	protected := router.Group("/")
	protected.Use(middleware.AuthMiddleware(handlers.Resolver))

	if handlers.UserHandler != nil {
		protected.GET("/users/me", handlers.UserHandler.Me)
		protected.PUT("/users/change-password", handlers.UserHandler.ChangePassword)
	}

	if handlers.TaskHandler != nil {
		protected.GET("/todos", handlers.TaskHandler.GetAllTodos)
		protected.POST("/todos", handlers.TaskHandler.CreateTodo)
		protected.GET("/todos/:id", handlers.TaskHandler.GetTodo)
		protected.PUT("/todos/:id", handlers.TaskHandler.UpdateTodo)
		protected.PUT("/todos/:id/complete", handlers.TaskHandler.CompleteTodo)
		protected.DELETE("/todos/:id", handlers.TaskHandler.DeleteTodo)
	}
}

func setupPublicRoutes(router *gin.Engine, authHandler *handler.AuthHandler) {
	public := router.Group("/")
	{
		public.POST("/auth", authHandler.RegisterByEmailAndPassword)
		public.POST("/auth/token", authHandler.AuthByEmailAndPassword)
	}
}
