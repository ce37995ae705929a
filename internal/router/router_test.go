package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"carpool/internal/database"
	"carpool/internal/lock"
	"carpool/internal/middleware"
	"carpool/internal/service"
	"carpool/internal/store/sqlite"
	"carpool/internal/worker"
	"carpool/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type testValidator struct{ v *validator.Validate }

func (tv *testValidator) Validate(i interface{}) error { return tv.v.Struct(i) }

func TestSetupRoutes(t *testing.T) {
	e := echo.New()
	Setup(e, service.New(nil, nil, nil, nil))

	got := map[string]struct{}{}
	for _, r := range e.Routes() {
		got[r.Method+" "+r.Path] = struct{}{}
	}

	expected := []string{
		http.MethodGet + " /api/health",
		http.MethodGet + " /api/ping",
		http.MethodGet + " /api/config",
		http.MethodPost + " /api/config",
		http.MethodPost + " /api/users",
		http.MethodGet + " /api/users",
		http.MethodDelete + " /api/users/:id",
		http.MethodPost + " /api/cars",
		http.MethodGet + " /api/cars",
		http.MethodDelete + " /api/cars/:id",
		http.MethodPost + " /api/cars/:id/join",
		http.MethodPost + " /api/cars/:id/leave",
		http.MethodPost + " /api/auto-assign",
		http.MethodGet + " /api/state",
		http.MethodPost + " /api/purge",
	}

	require.Equal(t, len(expected), len(got))
	for _, k := range expected {
		_, ok := got[k]
		require.True(t, ok, "missing route %s", k)
	}
}

// TestAPIFlow drives the whole stack against an in-memory SQLite database.
func TestAPIFlow(t *testing.T) {
	db, err := database.OpenSQLite(context.Background(), database.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.MigrateSQLite(db.DB))

	e := echo.New()
	e.Validator = &testValidator{v: validator.New()}
	e.HTTPErrorHandler = middleware.ErrorHandler(logger.NewNop())
	Setup(e, service.New(sqlite.New(db), lock.NewLocal(), worker.Inline{}, logger.NewNop()))

	do := func(method, path, body string) (int, string) {
		t.Helper()
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		if body != "" {
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code, rec.Body.String()
	}

	code, body := do(http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `{"ok":true}`, body)

	code, body = do(http.MethodPost, "/api/config", `{"price_with_pass_cents":"500"}`)
	require.Equal(t, http.StatusBadRequest, code)
	require.JSONEq(t, `{"error":"Bad config values"}`, body)

	code, _ = do(http.MethodPost, "/api/users", `{"name":"D","is_driver":true}`)
	require.Equal(t, http.StatusCreated, code)
	code, body = do(http.MethodPost, "/api/users", `{"name":"D"}`)
	require.Equal(t, http.StatusConflict, code)
	require.JSONEq(t, `{"error":"name already exists"}`, body)
	code, _ = do(http.MethodPost, "/api/users", `{"name":"P1","has_pass":true}`)
	require.Equal(t, http.StatusCreated, code)

	code, body = do(http.MethodPost, "/api/cars", `{"driver_id":1,"capacity":4}`)
	require.Equal(t, http.StatusCreated, code)
	require.Contains(t, body, `"seats_left":3`)
	require.Contains(t, body, `"passenger_price":"$3.00"`)

	code, body = do(http.MethodPost, "/api/cars/1/join", `{"user_id":2}`)
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, body, `"seats_left":2`)
	require.Contains(t, body, `"passenger_price":"$5.00"`)

	code, body = do(http.MethodPost, "/api/cars/9/join", `{"user_id":2}`)
	require.Equal(t, http.StatusNotFound, code)
	require.JSONEq(t, `{"error":"car not found"}`, body)

	code, body = do(http.MethodDelete, "/api/users/1", "")
	require.Equal(t, http.StatusBadRequest, code)
	require.JSONEq(t, `{"error":"cannot delete a driver with a car; delete the car first"}`, body)

	code, body = do(http.MethodDelete, "/api/cars/abc", "")
	require.Equal(t, http.StatusBadRequest, code)
	require.JSONEq(t, `{"error":"invalid id"}`, body)

	code, body = do(http.MethodGet, "/api/state", "")
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, body, `"total_fees":"$5.00"`)

	code, _ = do(http.MethodPost, "/api/purge", "")
	require.Equal(t, http.StatusOK, code)
	code, body = do(http.MethodGet, "/api/users", "")
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `[]`, body)
}
