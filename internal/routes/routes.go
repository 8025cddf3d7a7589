package routes

import (
	"net/http"
	"slices"
	"time"

	"kanboard/internal/config"
	"kanboard/internal/handlers"
	"kanboard/internal/middleware"
	"kanboard/internal/views"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes() *gin.Engine {
	// Create a new GIN Router
	ginRouter := gin.Default()
	ginRouter.SetHTMLTemplate(views.MustTemplates())
	ginRouter.MaxMultipartMemory = handlers.MaxUploadSize

	setCors(ginRouter, config.Env().CORSOrigins)

	// Health check endpoint
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Kanboard server is running",
		})
	})
	ginRouter.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public routes (no authentication required)
	api := ginRouter.Group("/api")
	{
		api.POST("/login", handlers.Login)
	}

	// Protected routes (authentication required)
	protectedRoutes := api.Group("")
	protectedRoutes.Use(middleware.JWTAuthMiddleware())
	{
		protectedRoutes.GET("/projects", handlers.ListProjects)
		protectedRoutes.POST("/projects", handlers.CreateProject)
		protectedRoutes.GET("/projects/:id", handlers.GetProject)
		protectedRoutes.DELETE("/projects/:id", handlers.RemoveProject)
		protectedRoutes.GET("/projects/:id/ws", handlers.WebSocketHandler)

		// Category endpoints
		protectedRoutes.GET("/projects/:id/categories", handlers.ListCategories)
		protectedRoutes.POST("/projects/:id/categories", handlers.CreateCategory)
		protectedRoutes.POST("/projects/:id/categories/duplicate", handlers.DuplicateCategories)
		protectedRoutes.GET("/categories/:id", handlers.GetCategory)
		protectedRoutes.PUT("/categories/:id", handlers.UpdateCategory)
		protectedRoutes.DELETE("/categories/:id", handlers.RemoveCategory)

		// Column endpoints
		protectedRoutes.GET("/projects/:id/columns", handlers.ListColumns)
		protectedRoutes.POST("/projects/:id/columns", handlers.CreateColumn)
		protectedRoutes.PUT("/columns/:id", handlers.UpdateColumn)
		protectedRoutes.DELETE("/columns/:id", handlers.RemoveColumn)
		protectedRoutes.PUT("/columns/:id/position", handlers.SetColumnPosition)
		protectedRoutes.POST("/columns/:id/move/:direction", handlers.MoveColumn)

		// Task endpoints
		protectedRoutes.GET("/projects/:id/tasks", handlers.GetProjectTasks)
		protectedRoutes.POST("/projects/:id/tasks", handlers.CreateTask)
		protectedRoutes.PUT("/tasks/:id/category", handlers.SetTaskCategory)

		// File endpoints
		protectedRoutes.GET("/tasks/:id/files", handlers.ListFiles)
		protectedRoutes.POST("/tasks/:id/files", handlers.UploadFile)
		protectedRoutes.DELETE("/files/:id", handlers.RemoveFile)

		// Users endpoint
		protectedRoutes.GET("/users", handlers.GetAllUsers)
		protectedRoutes.POST("/users", handlers.CreateUser)
	}

	// Server-rendered pages
	ginRouter.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/projects") })
	ginRouter.GET("/login", handlers.LoginPage)
	ginRouter.POST("/login", handlers.LoginForm)
	ginRouter.GET("/logout", handlers.Logout)

	pages := ginRouter.Group("")
	pages.Use(middleware.PageAuthMiddleware())
	{
		pages.GET("/projects", handlers.ProjectIndex)
		pages.POST("/projects", handlers.ProjectCreateForm)

		pages.GET("/project/:id/columns", handlers.ColumnIndex)
		pages.POST("/project/:id/columns", handlers.ColumnCreateForm)
		pages.GET("/column/:id/edit", handlers.ColumnEdit)
		pages.POST("/column/:id/edit", handlers.ColumnUpdateForm)
		pages.GET("/column/:id/remove", handlers.ColumnRemoveConfirm)
		pages.POST("/column/:id/remove", handlers.ColumnRemoveForm)
		pages.POST("/column/:id/move/:direction", handlers.ColumnMoveForm)

		pages.GET("/project/:id/categories", handlers.CategoryIndex)
		pages.POST("/project/:id/categories", handlers.CategoryCreateForm)
		pages.GET("/category/:id/edit", handlers.CategoryEdit)
		pages.POST("/category/:id/edit", handlers.CategoryUpdateForm)
		pages.GET("/category/:id/remove", handlers.CategoryRemoveConfirm)
		pages.POST("/category/:id/remove", handlers.CategoryRemoveForm)

		pages.GET("/file/:id", handlers.ShowFile)
		pages.GET("/file/:id/image", handlers.FileImage)
		pages.GET("/file/:id/download", handlers.FileDownload)
	}

	return ginRouter
}

// setCors allows the configured origins; "*" opens the API to any origin
// without credentials.
func setCors(r *gin.Engine, origins []string) {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	r.Use(cors.New(cfg))
}
