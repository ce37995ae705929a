package users

import (
	"context"
	"net/http"

	"carpool/internal/api"
	"carpool/internal/apperr"
	"carpool/internal/handler"
	"carpool/internal/model"
	"carpool/internal/service"

	"github.com/labstack/echo/v4"
)

// Service is the slice of service.Service used by the users handlers.
type Service interface {
	CreateUser(ctx context.Context, name string, hasPass, isDriver bool) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	DeleteUser(ctx context.Context, id int) error
}

// CreateUserHandler 建立乘客或司機
// @Summary     Create a user
// @Description 名稱會去除前後空白，且不可重複
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       body body api.CreateUserRequest true "user"
// @Success     201 {object} model.User
// @Failure     400 {object} api.ErrorResponse
// @Failure     409 {object} api.ErrorResponse
// @Router      /users [post]
func CreateUserHandler(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.CreateUserRequest
		if err := c.Bind(&req); err != nil {
			field, ok := handler.MistypedField(err)
			switch {
			case !ok:
				return handler.ErrInvalidBody
			case field == "name":
				return service.ErrNameRequired
			default:
				return apperr.Validation("%s must be a boolean", field)
			}
		}
		if err := c.Validate(&req); err != nil {
			return service.ErrNameRequired
		}
		u, err := svc.CreateUser(c.Request().Context(), req.Name, req.HasPass, req.IsDriver)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, u)
	}
}

// ListUsersHandler 列出所有使用者，最新的在前
// @Summary     List users
// @Tags        users
// @Produce     json
// @Success     200 {array} model.User
// @Router      /users [get]
func ListUsersHandler(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		users, err := svc.ListUsers(c.Request().Context())
		if err != nil {
			return err
		}
		if users == nil {
			users = []model.User{}
		}
		return c.JSON(http.StatusOK, users)
	}
}

// DeleteUserHandler 刪除使用者，有車的司機需先刪除車輛
// @Summary     Delete a user
// @Tags        users
// @Produce     json
// @Param       id path int true "user id"
// @Success     200 {object} api.OKResponse
// @Failure     400 {object} api.ErrorResponse
// @Router      /users/{id} [delete]
func DeleteUserHandler(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.ParamID(c, "id")
		if err != nil {
			return err
		}
		if err := svc.DeleteUser(c.Request().Context(), id); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.OKResponse{OK: true})
	}
}
