// Package handler holds the echo handlers that do not belong to a resource
// group, plus helpers shared by the resource packages.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"carpool/internal/apperr"
	"carpool/internal/model"
	"carpool/internal/service"

	"github.com/labstack/echo/v4"
)

// Service is the slice of service.Service used by this package.
type Service interface {
	Ping(ctx context.Context) error
	GetConfig(ctx context.Context) (*model.Config, error)
	UpdateConfig(ctx context.Context, withPass, withoutPass, maxCapacity *int) (*model.Config, error)
	FullState(ctx context.Context) (*service.FullState, error)
	AutoAssign(ctx context.Context) (*service.FullState, error)
	Purge(ctx context.Context) error
}

var (
	ErrInvalidID   = echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	ErrInvalidBody = apperr.Validation("invalid request body")
)

// ParamID reads an integer path parameter.
func ParamID(c echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, ErrInvalidID
	}
	return id, nil
}

// MistypedField returns the JSON field whose value had the wrong type when
// err came from c.Bind.
func MistypedField(err error) (string, bool) {
	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) && ute.Field != "" {
		return ute.Field, true
	}
	return "", false
}
