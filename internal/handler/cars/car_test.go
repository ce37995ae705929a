package cars

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"carpool/internal/apperr"
	"carpool/internal/handler"
	"carpool/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type realValidator struct{ v *validator.Validate }

func (r *realValidator) Validate(i interface{}) error { return r.v.Struct(i) }

type stubService struct {
	createFn func(ctx context.Context, driverID, capacity *int) (*service.CarState, error)
	listFn   func(ctx context.Context) ([]service.CarState, error)
	deleteFn func(ctx context.Context, id int) error
	joinFn   func(ctx context.Context, carID int, userID *int) (*service.CarState, error)
	leaveFn  func(ctx context.Context, carID int, userID *int) (*service.CarState, error)
}

func (s *stubService) CreateCar(ctx context.Context, driverID, capacity *int) (*service.CarState, error) {
	return s.createFn(ctx, driverID, capacity)
}

func (s *stubService) ListCars(ctx context.Context) ([]service.CarState, error) { return s.listFn(ctx) }

func (s *stubService) DeleteCar(ctx context.Context, id int) error { return s.deleteFn(ctx, id) }

func (s *stubService) JoinCar(ctx context.Context, carID int, userID *int) (*service.CarState, error) {
	return s.joinFn(ctx, carID, userID)
}

func (s *stubService) LeaveCar(ctx context.Context, carID int, userID *int) (*service.CarState, error) {
	return s.leaveFn(ctx, carID, userID)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = &realValidator{v: validator.New()}
	return e
}

func newCtx(e *echo.Echo, method, path, id, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if id != "" {
		c.SetPath("/api/cars/:id")
		c.SetParamNames("id")
		c.SetParamValues(id)
	}
	return c, rec
}

func messageOf(t *testing.T, err error) string {
	t.Helper()
	var ae *apperr.Error
	require.True(t, errors.As(err, &ae), "got %v", err)
	return ae.Message
}

func TestCreateCarHandler(t *testing.T) {
	e := newEcho()

	for _, body := range []string{`{"driver_id":1}`, `{"capacity":3}`, `{"driver_id":"1","capacity":3}`, `{"driver_id":1.5,"capacity":3}`} {
		ctx, _ := newCtx(e, http.MethodPost, "/api/cars", "", body)
		err := CreateCarHandler(&stubService{})(ctx)
		require.ErrorIs(t, err, service.ErrCarFieldsMissing, body)
		require.Equal(t, "driver_id and capacity required", messageOf(t, err), body)
	}

	t.Run("zero capacity reaches the service", func(t *testing.T) {
		svc := &stubService{createFn: func(_ context.Context, d, c *int) (*service.CarState, error) {
			require.Equal(t, 0, *c)
			return nil, apperr.Validation("capacity must be 1..4")
		}}
		ctx, _ := newCtx(e, http.MethodPost, "/api/cars", "", `{"driver_id":1,"capacity":0}`)
		require.Equal(t, "capacity must be 1..4", messageOf(t, CreateCarHandler(svc)(ctx)))
	})

	t.Run("created", func(t *testing.T) {
		svc := &stubService{createFn: func(_ context.Context, d, c *int) (*service.CarState, error) {
			return &service.CarState{CarID: 9, Capacity: *c, SeatsLeft: *c - 1, PassengerPrice: "$3.00"}, nil
		}}
		ctx, rec := newCtx(e, http.MethodPost, "/api/cars", "", `{"driver_id":1,"capacity":4}`)
		require.NoError(t, CreateCarHandler(svc)(ctx))
		require.Equal(t, http.StatusCreated, rec.Code)
		require.Contains(t, rec.Body.String(), `"car_id":9`)
		require.Contains(t, rec.Body.String(), `"seats_left":3`)
	})
}

func TestListCarsHandler(t *testing.T) {
	e := newEcho()
	svc := &stubService{listFn: func(context.Context) ([]service.CarState, error) { return nil, nil }}
	ctx, rec := newCtx(e, http.MethodGet, "/api/cars", "", "")
	require.NoError(t, ListCarsHandler(svc)(ctx))
	require.JSONEq(t, `[]`, rec.Body.String())
}

func TestDeleteCarHandler(t *testing.T) {
	e := newEcho()

	ctx, _ := newCtx(e, http.MethodDelete, "/api/cars/x", "x", "")
	require.Equal(t, handler.ErrInvalidID, DeleteCarHandler(&stubService{})(ctx))

	deleted := 0
	svc := &stubService{deleteFn: func(_ context.Context, id int) error { deleted = id; return nil }}
	ctx, rec := newCtx(e, http.MethodDelete, "/api/cars/4", "4", "")
	require.NoError(t, DeleteCarHandler(svc)(ctx))
	require.Equal(t, 4, deleted)
	require.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestJoinLeaveHandlers(t *testing.T) {
	e := newEcho()

	t.Run("user_id required", func(t *testing.T) {
		for _, body := range []string{`{}`, `{"user_id":"2"}`, `{"user_id":null}`} {
			ctx, _ := newCtx(e, http.MethodPost, "/api/cars/1/join", "1", body)
			require.Equal(t, "user_id required", messageOf(t, JoinCarHandler(&stubService{})(ctx)))
			ctx, _ = newCtx(e, http.MethodPost, "/api/cars/1/leave", "1", body)
			require.Equal(t, "user_id required", messageOf(t, LeaveCarHandler(&stubService{})(ctx)))
		}
	})

	t.Run("invalid id", func(t *testing.T) {
		ctx, _ := newCtx(e, http.MethodPost, "/api/cars/a/join", "a", `{"user_id":2}`)
		require.Equal(t, handler.ErrInvalidID, JoinCarHandler(&stubService{})(ctx))
	})

	t.Run("join error passes through", func(t *testing.T) {
		svc := &stubService{joinFn: func(context.Context, int, *int) (*service.CarState, error) {
			return nil, apperr.Validation("no seats left")
		}}
		ctx, _ := newCtx(e, http.MethodPost, "/api/cars/1/join", "1", `{"user_id":2}`)
		require.Equal(t, "no seats left", messageOf(t, JoinCarHandler(svc)(ctx)))
	})

	t.Run("join and leave ok", func(t *testing.T) {
		var calls []string
		svc := &stubService{
			joinFn: func(_ context.Context, carID int, userID *int) (*service.CarState, error) {
				calls = append(calls, "join")
				require.Equal(t, 1, carID)
				require.Equal(t, 2, *userID)
				return &service.CarState{CarID: carID, Passengers: []service.Passenger{{ID: 2, Name: "R"}}}, nil
			},
			leaveFn: func(_ context.Context, carID int, userID *int) (*service.CarState, error) {
				calls = append(calls, "leave")
				return &service.CarState{CarID: carID, Passengers: []service.Passenger{}}, nil
			},
		}
		ctx, rec := newCtx(e, http.MethodPost, "/api/cars/1/join", "1", `{"user_id":2}`)
		require.NoError(t, JoinCarHandler(svc)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"name":"R"`)

		ctx, rec = newCtx(e, http.MethodPost, "/api/cars/1/leave", "1", `{"user_id":2}`)
		require.NoError(t, LeaveCarHandler(svc)(ctx))
		require.Contains(t, rec.Body.String(), `"passengers":[]`)
		require.Equal(t, []string{"join", "leave"}, calls)
	})
}
