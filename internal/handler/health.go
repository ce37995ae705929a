package handler

import (
	"net/http"

	"carpool/internal/api"

	"github.com/labstack/echo/v4"
)

// HealthHandler 存活檢查
// @Summary     Liveness
// @Tags        health
// @Produce     json
// @Success     200 {object} api.OKResponse
// @Router      /health [get]
func HealthHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, api.OKResponse{OK: true})
	}
}

// PingHandler 健康檢查
// @Summary     Readiness
// @Description 回傳 pong，並檢查資料庫與 Redis 連線是否正常
// @Tags        health
// @Produce     json
// @Success     200 {object} api.PingResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /ping [get]
func PingHandler(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := svc.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "unhealthy"})
		}
		return c.JSON(http.StatusOK, api.PingResponse{Message: "pong"})
	}
}
