package router

import (
	"carpool/internal/handler"
	"carpool/internal/handler/cars"
	"carpool/internal/handler/users"

	"github.com/labstack/echo/v4"
)

// Service is everything the HTTP surface needs; *service.Service satisfies it.
type Service interface {
	handler.Service
	users.Service
	cars.Service
}

// Setup 註冊所有 API 路由
func Setup(e *echo.Echo, svc Service) {
	api := e.Group("/api")

	api.GET("/health", handler.HealthHandler())
	api.GET("/ping", handler.PingHandler(svc))

	api.GET("/config", handler.GetConfigHandler(svc))
	api.POST("/config", handler.UpdateConfigHandler(svc))

	api.POST("/users", users.CreateUserHandler(svc))
	api.GET("/users", users.ListUsersHandler(svc))
	api.DELETE("/users/:id", users.DeleteUserHandler(svc))

	api.POST("/cars", cars.CreateCarHandler(svc))
	api.GET("/cars", cars.ListCarsHandler(svc))
	api.DELETE("/cars/:id", cars.DeleteCarHandler(svc))
	api.POST("/cars/:id/join", cars.JoinCarHandler(svc))
	api.POST("/cars/:id/leave", cars.LeaveCarHandler(svc))

	api.POST("/auto-assign", handler.AutoAssignHandler(svc))
	api.GET("/state", handler.StateHandler(svc))
	api.POST("/purge", handler.PurgeHandler(svc))
}
