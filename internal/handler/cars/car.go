package cars

import (
	"context"
	"net/http"

	"carpool/internal/api"
	"carpool/internal/handler"
	"carpool/internal/service"

	"github.com/labstack/echo/v4"
)

// Service is the slice of service.Service used by the cars handlers.
type Service interface {
	CreateCar(ctx context.Context, driverID, capacity *int) (*service.CarState, error)
	ListCars(ctx context.Context) ([]service.CarState, error)
	DeleteCar(ctx context.Context, id int) error
	JoinCar(ctx context.Context, carID int, userID *int) (*service.CarState, error)
	LeaveCar(ctx context.Context, carID int, userID *int) (*service.CarState, error)
}

// CreateCarHandler 為司機建立車輛
// @Summary     Create a car
// @Description capacity 包含司機的座位
// @Tags        cars
// @Accept      json
// @Produce     json
// @Param       body body api.CreateCarRequest true "car"
// @Success     201 {object} service.CarState
// @Failure     400 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     409 {object} api.ErrorResponse
// @Router      /cars [post]
func CreateCarHandler(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.CreateCarRequest
		if err := c.Bind(&req); err != nil {
			return service.ErrCarFieldsMissing
		}
		if err := c.Validate(&req); err != nil {
			return service.ErrCarFieldsMissing
		}
		st, err := svc.CreateCar(c.Request().Context(), req.DriverID, req.Capacity)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, st)
	}
}

// ListCarsHandler 依 id 列出所有車輛狀態
// @Summary     List cars
// @Tags        cars
// @Produce     json
// @Success     200 {array} service.CarState
// @Router      /cars [get]
func ListCarsHandler(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		cars, err := svc.ListCars(c.Request().Context())
		if err != nil {
			return err
		}
		if cars == nil {
			cars = []service.CarState{}
		}
		return c.JSON(http.StatusOK, cars)
	}
}

// DeleteCarHandler 刪除車輛，乘客分配一併移除
// @Summary     Delete a car
// @Tags        cars
// @Produce     json
// @Param       id path int true "car id"
// @Success     200 {object} api.OKResponse
// @Failure     400 {object} api.ErrorResponse
// @Router      /cars/{id} [delete]
func DeleteCarHandler(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.ParamID(c, "id")
		if err != nil {
			return err
		}
		if err := svc.DeleteCar(c.Request().Context(), id); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.OKResponse{OK: true})
	}
}

// JoinCarHandler 乘客上車
// @Summary     Join a car
// @Tags        cars
// @Accept      json
// @Produce     json
// @Param       id   path int                  true "car id"
// @Param       body body api.PassengerRequest true "rider"
// @Success     200 {object} service.CarState
// @Failure     400 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Router      /cars/{id}/join [post]
func JoinCarHandler(svc Service) echo.HandlerFunc {
	return passengerHandler(svc.JoinCar)
}

// LeaveCarHandler 乘客下車，重複呼叫不會出錯
// @Summary     Leave a car
// @Tags        cars
// @Accept      json
// @Produce     json
// @Param       id   path int                  true "car id"
// @Param       body body api.PassengerRequest true "rider"
// @Success     200 {object} service.CarState
// @Failure     400 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Router      /cars/{id}/leave [post]
func LeaveCarHandler(svc Service) echo.HandlerFunc {
	return passengerHandler(svc.LeaveCar)
}

func passengerHandler(op func(ctx context.Context, carID int, userID *int) (*service.CarState, error)) echo.HandlerFunc {
	return func(c echo.Context) error {
		carID, err := handler.ParamID(c, "id")
		if err != nil {
			return err
		}
		var req api.PassengerRequest
		if err := c.Bind(&req); err != nil {
			return service.ErrUserIDRequired
		}
		if err := c.Validate(&req); err != nil {
			return service.ErrUserIDRequired
		}
		st, err := op(c.Request().Context(), carID, req.UserID)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, st)
	}
}
