package dashboard

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pettracker/pet/internal/rest"
	"github.com/pettracker/pet/internal/utils"
	"github.com/pettracker/pet/pkg/money"
	log "github.com/sirupsen/logrus"
)

type RowDTO struct {
	Category  string        `json:"category"`
	Spent     money.Amount  `json:"spent"`
	Budget    money.Amount  `json:"budget"`
	Remaining *money.Amount `json:"remaining"`
}

type DashboardDTO struct {
	Month               string        `json:"month"`
	ExpenseCount        int           `json:"expenseCount"`
	TotalSpent          money.Amount  `json:"totalSpent"`
	Overall             money.Amount  `json:"overall"`
	Remaining           *money.Amount `json:"remaining"`
	CategoryBudgetTotal money.Amount  `json:"categoryBudgetTotal"`
	PercentUsed         money.Amount  `json:"percentUsed"`
	ProgressPercent     money.Amount  `json:"progressPercent"`
	Empty               bool          `json:"empty"`
	Rows                []RowDTO      `json:"rows"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetDashboard godoc
// @Summary Budget versus spending of a month
// @Tags Dashboard
// @Produce json
// @Param month query string false "Month (YYYY-MM), defaults to the current month"
// @Success 200 {object} DashboardDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/dashboard [get]
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	if month == "" {
		month = h.service.CurrentMonth()
	}
	h.render(w, r, month)
}

// GetSpending godoc
// @Summary Budget versus actual spending of a month
// @Tags Budget
// @Produce json
// @Param year path string true "Year"
// @Param month path string true "Month"
// @Success 200 {object} DashboardDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/budgets/{year}/{month}/spending [get]
func (h *Handler) GetSpending(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	month, err := utils.MonthFromParts(vars["year"], vars["month"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid month", err.Error())
		return
	}
	h.render(w, r, month)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, month string) {
	log.Debugf("Building dashboard for %s", month)
	d, err := h.service.GetDashboard(r.Context(), month)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidMonth) {
			rest.WriteError(w, http.StatusBadRequest, "Invalid month", err.Error())
			return
		}
		log.Errorf("failed to build dashboard: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	rest.WriteJSON(w, http.StatusOK, ToDTO(d))
}

func ToDTO(d Dashboard) DashboardDTO {
	rows := make([]RowDTO, 0, len(d.Rows))
	for _, row := range d.Rows {
		dto := RowDTO{
			Category: row.Category,
			Spent:    money.NewAmount(row.Spent),
			Budget:   money.NewAmount(row.Budget),
		}
		if row.Remaining != nil {
			remaining := money.NewAmount(*row.Remaining)
			dto.Remaining = &remaining
		}
		rows = append(rows, dto)
	}
	dto := DashboardDTO{
		Month:               d.Month,
		ExpenseCount:        d.ExpenseCount,
		TotalSpent:          money.NewAmount(d.TotalSpent),
		Overall:             money.NewAmount(d.Overall),
		CategoryBudgetTotal: money.NewAmount(d.CategoryBudgetTotal),
		PercentUsed:         money.NewAmount(d.PercentUsed),
		ProgressPercent:     money.NewAmount(d.ProgressPercent),
		Empty:               d.Empty(),
		Rows:                rows,
	}
	if d.Remaining != nil {
		remaining := money.NewAmount(*d.Remaining)
		dto.Remaining = &remaining
	}
	return dto
}
