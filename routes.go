package main

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Route registers all available routes
func Route(e *echo.Echo, api *API, secret string) {
	e.GET("/healthz", Health)

	// Public routes
	e.POST("/auth/register", api.Register)
	e.POST("/auth/login", api.Authenticate)
	e.POST("/auth/refresh", api.Refresh)

	// Group for authenticated routes
	protected := e.Group("")
	protected.Use(RequireJWT(secret))

	protected.GET("/auth/me", api.Me)

	// Routes for task owners (and administrators)
	tasks := protected.Group("/tasks")
	tasks.GET("", api.GetTasks)
	tasks.POST("", api.CreateTask)
	tasks.GET("/:id", api.GetTask)
	tasks.PUT("/:id", api.UpdateTask)
	tasks.PATCH("/:id", api.PatchTask)
	tasks.DELETE("/:id", api.DeleteTask)

	// Routes for administrators
	admin := protected.Group("/users")
	admin.Use(RequireAdmin)
	admin.GET("", api.GetAllUsers)
	admin.PATCH("/:id", api.SetUserAdmin)
	admin.DELETE("/:id", api.RemoveUser)
}

// Health reports liveness without touching authentication or storage
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
