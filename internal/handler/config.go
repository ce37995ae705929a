package handler

import (
	"net/http"

	"carpool/internal/api"
	"carpool/internal/service"

	"github.com/labstack/echo/v4"
)

// GetConfigHandler 取得票價與車位設定
// @Summary     Get config
// @Tags        config
// @Produce     json
// @Success     200 {object} model.Config
// @Router      /config [get]
func GetConfigHandler(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		cfg, err := svc.GetConfig(c.Request().Context())
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, cfg)
	}
}

// UpdateConfigHandler 更新設定，三個欄位都必須是整數
// @Summary     Update config
// @Tags        config
// @Accept      json
// @Produce     json
// @Param       body body api.UpdateConfigRequest true "new values"
// @Success     200 {object} model.Config
// @Failure     400 {object} api.ErrorResponse
// @Router      /config [post]
func UpdateConfigHandler(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.UpdateConfigRequest
		if err := c.Bind(&req); err != nil {
			return service.ErrBadConfig
		}
		if err := c.Validate(&req); err != nil {
			return service.ErrBadConfig
		}
		cfg, err := svc.UpdateConfig(c.Request().Context(), req.PriceWithPassCents, req.PriceWithoutPassCents, req.MaxCarCapacity)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, cfg)
	}
}
