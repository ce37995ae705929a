package handler

import (
	"net/http"

	"carpool/internal/api"

	"github.com/labstack/echo/v4"
)

// StateHandler 回傳完整狀態與費用統計
// @Summary     Full state
// @Tags        state
// @Produce     json
// @Success     200 {object} service.FullState
// @Router      /state [get]
func StateHandler(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		fs, err := svc.FullState(c.Request().Context())
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, fs)
	}
}

// AutoAssignHandler 依車輛 id 順序把未分配乘客填入空位
// @Summary     Auto-assign riders
// @Tags        state
// @Produce     json
// @Success     200 {object} service.FullState
// @Router      /auto-assign [post]
func AutoAssignHandler(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		fs, err := svc.AutoAssign(c.Request().Context())
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, fs)
	}
}

// PurgeHandler 清除所有使用者、車輛與分配，設定保留
// @Summary     Purge data
// @Tags        state
// @Produce     json
// @Success     200 {object} api.OKResponse
// @Router      /purge [post]
func PurgeHandler(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := svc.Purge(c.Request().Context()); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.OKResponse{OK: true})
	}
}
