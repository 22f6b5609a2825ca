package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/pettracker/pet/internal/config"
	"github.com/pettracker/pet/internal/event_bus"
	"github.com/pettracker/pet/internal/utils"
	"github.com/pettracker/pet/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(t *testing.T) (*Application, *Dependencies) {
	t.Helper()
	clock := utils.NewMockClock(time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC))
	deps := NewDependencies(store.NewMemoryStore(), clock, nil)
	return newApplication(config.Defaults(), deps), deps
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	// given
	a, _ := setupApp(t)

	// when
	w := do(t, a.Handler(), http.MethodGet, "/health", "")

	// then
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"OK","message":"Personal Expense Tracker API is running","timestamp":"2024-05-15T10:00:00Z"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIdHeader))
}

func TestNotFound(t *testing.T) {
	// given
	a, _ := setupApp(t)

	// when
	w := do(t, a.Handler(), http.MethodGet, "/api/unknown?x=1", "")

	// then
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Not Found","message":"Cannot GET /api/unknown?x=1"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIdHeader))
}

func TestRequestIdIsPropagated(t *testing.T) {
	// given
	a, _ := setupApp(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIdHeader, "abc-123")
	w := httptest.NewRecorder()

	// when
	a.Handler().ServeHTTP(w, req)

	// then
	assert.Equal(t, "abc-123", w.Header().Get(RequestIdHeader))
}

func TestRecoverMiddleware(t *testing.T) {
	// given
	r := mux.NewRouter()
	r.HandleFunc("/boom", func(w http.ResponseWriter, r *http.Request) { panic("boom") })

	// when
	w := do(t, SetupMiddleware(r), http.MethodGet, "/boom", "")

	// then
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotEmpty(t, w.Header().Get(RequestIdHeader))
}

func TestCors(t *testing.T) {
	a, _ := setupApp(t)

	t.Run("should answer preflight requests", func(t *testing.T) {
		// given
		req := httptest.NewRequest(http.MethodOptions, "/api/expenses", nil)
		req.Header.Set("Origin", "http://localhost:3001")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "content-type")
		w := httptest.NewRecorder()

		// when
		a.Handler().ServeHTTP(w, req)

		// then
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPut)
	})

	t.Run("should allow cross origin reads", func(t *testing.T) {
		// given
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "http://localhost:3001")
		w := httptest.NewRecorder()

		// when
		a.Handler().ServeHTTP(w, req)

		// then
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestSecurityHeaders(t *testing.T) {
	// given
	a, _ := setupApp(t)

	for _, path := range []string{"/health", "/api/unknown"} {
		t.Run(path, func(t *testing.T) {
			// when
			w := do(t, a.Handler(), http.MethodGet, path, "")

			// then
			assert.Equal(t, "SAMEORIGIN", w.Header().Get("X-Frame-Options"))
			assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
			assert.Equal(t, "no-referrer", w.Header().Get("Referrer-Policy"))
			assert.Equal(t, "same-origin", w.Header().Get("Cross-Origin-Resource-Policy"))
		})
	}
}

func TestExpenseBudgetDashboardFlow(t *testing.T) {
	// given
	a, deps := setupApp(t)
	h := a.Handler()
	var events []event_bus.EventType
	deps.EventBus.SubscribeAll(event_bus.AllEventTypes, func(e event_bus.Event) error {
		events = append(events, e.Type)
		return nil
	})

	// when
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/expenses",
		`{"date":"2024-05-03","category":"Food & Dining","amount":"42.50","note":"groceries"}`).Code)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/expenses",
		`{"date":"2024-05-04","category":"Travel","amount":20}`).Code)
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPut, "/api/budgets/2024-05/overall", `{"overall":100}`).Code)
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPut, "/api/budgets/2024-05/categories/Food%20%26%20Dining", `{"amount":50}`).Code)
	rejected := do(t, h, http.MethodPut, "/api/budgets/2024-05/categories/Travel", `{"amount":60}`)
	dashboard := do(t, h, http.MethodGet, "/api/dashboard", "")

	// then
	assert.Equal(t, http.StatusUnprocessableEntity, rejected.Code)
	require.Equal(t, http.StatusOK, dashboard.Code)
	var body struct {
		Month      string  `json:"month"`
		TotalSpent float64 `json:"totalSpent"`
		Remaining  float64 `json:"remaining"`
		Rows       []struct {
			Category  string   `json:"category"`
			Spent     float64  `json:"spent"`
			Remaining *float64 `json:"remaining"`
		} `json:"rows"`
	}
	require.NoError(t, json.NewDecoder(dashboard.Body).Decode(&body))
	assert.Equal(t, "2024-05", body.Month)
	assert.Equal(t, 62.5, body.TotalSpent)
	assert.Equal(t, 37.5, body.Remaining)
	require.NotEmpty(t, body.Rows)
	assert.Equal(t, "Food & Dining", body.Rows[0].Category)
	require.NotNil(t, body.Rows[0].Remaining)
	assert.Equal(t, 7.5, *body.Rows[0].Remaining)
	assert.Equal(t, []event_bus.EventType{
		event_bus.ExpenseCreated, event_bus.ExpenseCreated, event_bus.BudgetUpdated, event_bus.BudgetUpdated,
	}, events)

	t.Run("should serve budget versus actual for a year and month", func(t *testing.T) {
		w := do(t, h, http.MethodGet, "/api/budgets/2024/5/spending", "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"month":"2024-05"`)
		assert.Contains(t, w.Body.String(), `"expenseCount":2`)
		assert.Contains(t, w.Body.String(), `"totalSpent":62.50`)
	})

	t.Run("should reject an invalid spending month", func(t *testing.T) {
		w := do(t, h, http.MethodGet, "/api/budgets/2024/13/spending", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestReportRoutes(t *testing.T) {
	// given
	a, _ := setupApp(t)
	h := a.Handler()
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/expenses",
		`{"date":"2024-05-03","category":"Food","amount":10}`).Code)

	t.Run("should list the month's expenses", func(t *testing.T) {
		w := do(t, h, http.MethodGet, "/api/expenses/month/2024/05", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"count":1`)
	})

	t.Run("should compare with the previous month", func(t *testing.T) {
		w := do(t, h, http.MethodGet, "/api/expenses/summary/monthly?month=2024-05", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"previous":{"month":"2024-04"`)
	})

	t.Run("should refuse export without a spreadsheet", func(t *testing.T) {
		w := do(t, h, http.MethodPost, "/api/reports/2024-05/export", "")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestApplication_Run(t *testing.T) {
	// given
	cfg := config.Defaults()
	cfg.Port = 0
	deps := NewDependencies(store.NewMemoryStore(), utils.SystemClock{}, nil)
	a := newApplication(cfg, deps)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	// when
	go func() { done <- a.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	// then
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("application did not stop")
	}
}

func TestOpenStore(t *testing.T) {
	t.Run("should open a migrated sqlite store", func(t *testing.T) {
		// given
		cfg := config.Defaults()
		cfg.Store.Path = ":memory:"

		// when
		s, closeStore, err := OpenStore(cfg)

		// then
		require.NoError(t, err)
		defer closeStore()
		require.NoError(t, s.Set(context.Background(), store.ExpensesKey, []byte(`[]`)))
	})

	t.Run("should reject an unknown store type", func(t *testing.T) {
		cfg := config.Defaults()
		cfg.Store.Type = "redis"

		_, _, err := OpenStore(cfg)

		assert.ErrorContains(t, err, "unknown store type")
	})
}
