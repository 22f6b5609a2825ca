package report

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pettracker/pet/internal/rest"
	"github.com/pettracker/pet/internal/utils"
	"github.com/pettracker/pet/pkg/expense"
	"github.com/pettracker/pet/pkg/money"
	log "github.com/sirupsen/logrus"
)

type BarDTO struct {
	Category string       `json:"category"`
	Amount   money.Amount `json:"amount"`
	Percent  money.Amount `json:"percent"`
}

type MonthlyReportDTO struct {
	Month string       `json:"month"`
	Total money.Amount `json:"total"`
	Count int          `json:"count"`
	Bars  []BarDTO     `json:"bars"`
}

type MonthTotalsDTO struct {
	Month      string                  `json:"month"`
	Total      money.Amount            `json:"total"`
	Count      int                     `json:"count"`
	Categories map[string]money.Amount `json:"categories"`
}

type MonthlySummaryDTO struct {
	Current  MonthTotalsDTO `json:"current"`
	Previous MonthTotalsDTO `json:"previous"`
}

type MonthExpensesDTO struct {
	Month    string               `json:"month"`
	Count    int                  `json:"count"`
	Total    money.Amount         `json:"total"`
	Expenses []expense.ExpenseDTO `json:"expenses"`
}

type ExportResultDTO struct {
	Month string `json:"month"`
	Range string `json:"range"`
}

type ReportHandler struct {
	reportService ReportService
	renderers     []ReportRenderer
	exporter      ReportExporter
}

// NewReportHandler creates the handler. exporter may be nil when no export target is configured.
func NewReportHandler(reportService ReportService, exporter ReportExporter, renderers ...ReportRenderer) *ReportHandler {
	return &ReportHandler{reportService: reportService, renderers: renderers, exporter: exporter}
}

// GetReport godoc
// @Summary Monthly spending report
// @Description Returns JSON by default. Accept: text/csv or application/pdf, or the format query parameter, select a document.
// @Tags Reports
// @Produce json,text/csv,application/pdf
// @Param month path string true "Month (YYYY-MM)"
// @Param format query string false "csv or pdf"
// @Success 200 {object} MonthlyReportDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/reports/{month} [get]
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	month := mux.Vars(r)["month"]
	report, err := h.reportService.MonthlyReport(r.Context(), month)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	renderer := h.rendererFor(r)
	if renderer == nil {
		rest.WriteJSON(w, http.StatusOK, ToDTO(report))
		return
	}
	document, err := renderer.Render(report)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"expenses-%s.%s\"", report.Month, renderer.FileExtension()))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(document); err != nil {
		log.Errorf("failed to write %s report: %v", renderer.FileExtension(), err)
	}
}

// GetMonthlySummary godoc
// @Summary Totals of a month compared with the previous month
// @Tags Reports
// @Produce json
// @Param month query string false "Month (YYYY-MM), defaults to the current month"
// @Success 200 {object} MonthlySummaryDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/expenses/summary/monthly [get]
func (h *ReportHandler) GetMonthlySummary(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	if month == "" {
		month = h.reportService.CurrentMonth()
	}
	summary, err := h.reportService.MonthlySummary(r.Context(), month)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, MonthlySummaryDTO{
		Current:  monthTotalsDTO(summary.Current),
		Previous: monthTotalsDTO(summary.Previous),
	})
}

// GetMonthExpenses godoc
// @Summary Expenses of a month with their count and total
// @Tags Expenses
// @Produce json
// @Param year path string true "Year"
// @Param month path string true "Month"
// @Success 200 {object} MonthExpensesDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/expenses/month/{year}/{month} [get]
func (h *ReportHandler) GetMonthExpenses(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	month, err := utils.MonthFromParts(vars["year"], vars["month"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	summary, err := h.reportService.MonthSummary(r.Context(), month)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	expenses := make([]expense.ExpenseDTO, 0, len(summary.Expenses))
	for _, e := range summary.Expenses {
		expenses = append(expenses, expense.ToDTO(e))
	}
	rest.WriteJSON(w, http.StatusOK, MonthExpensesDTO{
		Month:    summary.Month,
		Count:    summary.Count,
		Total:    money.NewAmount(summary.Total),
		Expenses: expenses,
	})
}

// ExportReport godoc
// @Summary Export a monthly report to the configured spreadsheet
// @Tags Reports
// @Produce json
// @Param month path string true "Month (YYYY-MM)"
// @Success 200 {object} ExportResultDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 503 {object} rest.ErrorResponse
// @Router /api/reports/{month}/export [post]
func (h *ReportHandler) ExportReport(w http.ResponseWriter, r *http.Request) {
	if h.exporter == nil {
		rest.WriteError(w, http.StatusServiceUnavailable, "Report export is not configured", "")
		return
	}
	report, err := h.reportService.MonthlyReport(r.Context(), mux.Vars(r)["month"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	exportedRange, err := h.exporter.Export(r.Context(), report)
	if err != nil {
		log.Errorf("failed to export report %s: %v", report.Month, err)
		rest.WriteError(w, http.StatusBadGateway, "Report export failed", err.Error())
		return
	}
	rest.WriteJSON(w, http.StatusOK, ExportResultDTO{Month: report.Month, Range: exportedRange})
}

func (h *ReportHandler) rendererFor(r *http.Request) ReportRenderer {
	format := strings.ToLower(r.URL.Query().Get("format"))
	accept := r.Header.Get("Accept")
	for _, renderer := range h.renderers {
		if format == renderer.FileExtension() {
			return renderer
		}
		mediaType, _, _ := strings.Cut(renderer.ContentType(), ";")
		if format == "" && strings.Contains(accept, mediaType) {
			return renderer
		}
	}
	return nil
}

func writeServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, utils.ErrInvalidMonth) {
		rest.WriteError(w, http.StatusBadRequest, "Invalid month", err.Error())
		return
	}
	log.Errorf("failed to build report: %v", err)
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func ToDTO(report MonthlyReport) MonthlyReportDTO {
	bars := make([]BarDTO, 0, len(report.Bars))
	for _, bar := range report.Bars {
		bars = append(bars, BarDTO{
			Category: bar.Category,
			Amount:   money.NewAmount(bar.Amount),
			Percent:  money.NewAmount(bar.Percent),
		})
	}
	return MonthlyReportDTO{
		Month: report.Month,
		Total: money.NewAmount(report.Total),
		Count: report.Count,
		Bars:  bars,
	}
}

func monthTotalsDTO(summary MonthSummary) MonthTotalsDTO {
	categories := make(map[string]money.Amount, len(summary.Categories))
	for name, amount := range summary.Categories {
		categories[name] = money.NewAmount(amount)
	}
	return MonthTotalsDTO{
		Month:      summary.Month,
		Total:      money.NewAmount(summary.Total),
		Count:      summary.Count,
		Categories: categories,
	}
}
