package report

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubExporter struct {
	exported []MonthlyReport
	err      error
}

func (s *stubExporter) Export(ctx context.Context, report MonthlyReport) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.exported = append(s.exported, report)
	return "'Report'!A1:C4", nil
}

func setupHandler(t *testing.T, exporter ReportExporter) (*mux.Router, *stubExporter) {
	t.Helper()
	expenses, service := setup(t)
	addExpense(t, expenses, "2024-05-01", "Food", "80")
	addExpense(t, expenses, "2024-05-02", "Travel", "20.5")
	addExpense(t, expenses, "2024-04-02", "Travel", "10")

	handler := NewReportHandler(service, exporter, NewCsvReportRenderer(), NewPdfReportRenderer())
	router := mux.NewRouter()
	router.HandleFunc("/api/reports/{month}", handler.GetReport).Methods("GET")
	router.HandleFunc("/api/reports/{month}/export", handler.ExportReport).Methods("POST")
	router.HandleFunc("/api/expenses/summary/monthly", handler.GetMonthlySummary).Methods("GET")
	router.HandleFunc("/api/expenses/month/{year}/{month}", handler.GetMonthExpenses).Methods("GET")
	stub, _ := exporter.(*stubExporter)
	return router, stub
}

func TestReportHandler_GetReport(t *testing.T) {
	t.Run("should return json by default", func(t *testing.T) {
		// given
		router, _ := setupHandler(t, nil)
		req := httptest.NewRequest(http.MethodGet, "/api/reports/2024-05", nil)
		rr := httptest.NewRecorder()

		// when
		router.ServeHTTP(rr, req)

		// then
		require.Equal(t, http.StatusOK, rr.Code)
		var body MonthlyReportDTO
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
		assert.Equal(t, 2, body.Count)
		assert.Equal(t, "100.50", body.Total.StringFixed(2))
		require.Len(t, body.Bars, 2)
		assert.Equal(t, "Food", body.Bars[0].Category)
		assert.Equal(t, "25.63", body.Bars[1].Percent.StringFixed(2))
	})

	t.Run("should return csv when accepted", func(t *testing.T) {
		// given
		router, _ := setupHandler(t, nil)
		req := httptest.NewRequest(http.MethodGet, "/api/reports/2024-05", nil)
		req.Header.Set("Accept", "text/csv")
		rr := httptest.NewRecorder()

		// when
		router.ServeHTTP(rr, req)

		// then
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "text/csv; charset=utf-8", rr.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="expenses-2024-05.csv"`, rr.Header().Get("Content-Disposition"))
		assert.Contains(t, rr.Body.String(), "Food,80.00,100.00\n")
	})

	t.Run("should return pdf for the format parameter", func(t *testing.T) {
		// given
		router, _ := setupHandler(t, nil)
		req := httptest.NewRequest(http.MethodGet, "/api/reports/2024-05?format=pdf", nil)
		rr := httptest.NewRecorder()

		// when
		router.ServeHTTP(rr, req)

		// then
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
		assert.Equal(t, "%PDF-", rr.Body.String()[:5])
	})

	t.Run("should reject an invalid month", func(t *testing.T) {
		// given
		router, _ := setupHandler(t, nil)
		req := httptest.NewRequest(http.MethodGet, "/api/reports/may", nil)
		rr := httptest.NewRecorder()

		// when
		router.ServeHTTP(rr, req)

		// then
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestReportHandler_GetMonthlySummary(t *testing.T) {
	// given
	router, _ := setupHandler(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/expenses/summary/monthly", nil)
	rr := httptest.NewRecorder()

	// when
	router.ServeHTTP(rr, req)

	// then
	require.Equal(t, http.StatusOK, rr.Code)
	var body MonthlySummaryDTO
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, "2024-05", body.Current.Month)
	assert.Equal(t, "100.50", body.Current.Total.StringFixed(2))
	assert.Equal(t, "2024-04", body.Previous.Month)
	assert.Equal(t, 1, body.Previous.Count)
	assert.Equal(t, "10.00", body.Previous.Categories["Travel"].StringFixed(2))
}

func TestReportHandler_GetMonthExpenses(t *testing.T) {
	t.Run("should list the month with count and total", func(t *testing.T) {
		// given
		router, _ := setupHandler(t, nil)
		req := httptest.NewRequest(http.MethodGet, "/api/expenses/month/2024/5", nil)
		rr := httptest.NewRecorder()

		// when
		router.ServeHTTP(rr, req)

		// then
		require.Equal(t, http.StatusOK, rr.Code)
		var body MonthExpensesDTO
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
		assert.Equal(t, "2024-05", body.Month)
		assert.Equal(t, 2, body.Count)
		assert.Len(t, body.Expenses, 2)
		assert.Equal(t, "100.50", body.Total.StringFixed(2))
	})

	t.Run("should reject an invalid month", func(t *testing.T) {
		// given
		router, _ := setupHandler(t, nil)
		req := httptest.NewRequest(http.MethodGet, "/api/expenses/month/2024/13", nil)
		rr := httptest.NewRecorder()

		// when
		router.ServeHTTP(rr, req)

		// then
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestReportHandler_ExportReport(t *testing.T) {
	t.Run("should export the report", func(t *testing.T) {
		// given
		router, exporter := setupHandler(t, &stubExporter{})
		req := httptest.NewRequest(http.MethodPost, "/api/reports/2024-05/export", nil)
		rr := httptest.NewRecorder()

		// when
		router.ServeHTTP(rr, req)

		// then
		require.Equal(t, http.StatusOK, rr.Code)
		require.Len(t, exporter.exported, 1)
		assert.Equal(t, 2, exporter.exported[0].Count)
		assert.JSONEq(t, `{"month":"2024-05","range":"'Report'!A1:C4"}`, rr.Body.String())
	})

	t.Run("should report a failing export", func(t *testing.T) {
		// given
		router, _ := setupHandler(t, &stubExporter{err: errors.New("quota exceeded")})
		req := httptest.NewRequest(http.MethodPost, "/api/reports/2024-05/export", nil)
		rr := httptest.NewRecorder()

		// when
		router.ServeHTTP(rr, req)

		// then
		assert.Equal(t, http.StatusBadGateway, rr.Code)
		assert.Contains(t, rr.Body.String(), "quota exceeded")
	})

	t.Run("should answer 503 without an exporter", func(t *testing.T) {
		// given
		router, _ := setupHandler(t, nil)
		req := httptest.NewRequest(http.MethodPost, "/api/reports/2024-05/export", nil)
		rr := httptest.NewRecorder()

		// when
		router.ServeHTTP(rr, req)

		// then
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})
}
