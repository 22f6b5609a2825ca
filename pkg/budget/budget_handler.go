package budget

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pettracker/pet/internal/rest"
	"github.com/pettracker/pet/pkg/aggregate"
	"github.com/pettracker/pet/pkg/money"
	log "github.com/sirupsen/logrus"
)

type BudgetDTO struct {
	Month         string                  `json:"month"`
	Overall       money.Amount            `json:"overall"`
	Categories    map[string]money.Amount `json:"categories"`
	CategoryTotal money.Amount            `json:"categoryTotal"`
}

type OverallDTO struct {
	Overall money.Amount `json:"overall"`
}

type CategoryBudgetDTO struct {
	Amount money.Amount `json:"amount"`
}

type BudgetHandler struct {
	service BudgetService
}

func NewBudgetHandler(service BudgetService) *BudgetHandler {
	return &BudgetHandler{service: service}
}

// GetAll godoc
// @Summary List budgets of every month
// @Tags Budget
// @Produce json
// @Success 200 {array} BudgetDTO
// @Router /api/budgets [get]
func (h *BudgetHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	log.Debug("Listing budgets")
	entries, err := h.service.GetAll(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	dtos := make([]BudgetDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, ToDTO(e))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

// GetCurrent godoc
// @Summary Budget of the current month
// @Tags Budget
// @Produce json
// @Success 200 {object} BudgetDTO
// @Router /api/budgets/current/month [get]
func (h *BudgetHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	entry, err := h.service.GetCurrent(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, ToDTO(entry))
}

// Get godoc
// @Summary Budget of a month
// @Tags Budget
// @Produce json
// @Param month path string true "Month (YYYY-MM)"
// @Success 200 {object} BudgetDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/budgets/{month} [get]
func (h *BudgetHandler) Get(w http.ResponseWriter, r *http.Request) {
	entry, err := h.service.Get(r.Context(), mux.Vars(r)["month"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, ToDTO(entry))
}

// SetOverall godoc
// @Summary Set the overall budget of a month
// @Tags Budget
// @Accept json
// @Produce json
// @Param month path string true "Month (YYYY-MM)"
// @Param budget body OverallDTO true "Overall budget"
// @Success 200 {object} BudgetDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 422 {object} rest.ErrorResponse "Category budgets exceed the overall budget"
// @Router /api/budgets/{month}/overall [put]
func (h *BudgetHandler) SetOverall(w http.ResponseWriter, r *http.Request) {
	log.Debug("Setting overall budget")
	var dto OverallDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	entry, err := h.service.SetOverall(r.Context(), mux.Vars(r)["month"], dto.Overall.Decimal)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, ToDTO(entry))
}

// ResetOverall godoc
// @Summary Stop tracking the overall budget of a month
// @Tags Budget
// @Produce json
// @Param month path string true "Month (YYYY-MM)"
// @Success 200 {object} BudgetDTO
// @Router /api/budgets/{month}/overall [delete]
func (h *BudgetHandler) ResetOverall(w http.ResponseWriter, r *http.Request) {
	log.Debug("Resetting overall budget")
	entry, err := h.service.ResetOverall(r.Context(), mux.Vars(r)["month"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, ToDTO(entry))
}

// SetCategoryBudget godoc
// @Summary Add or update a category budget
// @Tags Budget
// @Accept json
// @Produce json
// @Param month path string true "Month (YYYY-MM)"
// @Param name path string true "Category name"
// @Param budget body CategoryBudgetDTO true "Category budget"
// @Success 200 {object} BudgetDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 422 {object} rest.ErrorResponse "Category budgets exceed the overall budget"
// @Router /api/budgets/{month}/categories/{name} [put]
func (h *BudgetHandler) SetCategoryBudget(w http.ResponseWriter, r *http.Request) {
	log.Debug("Setting category budget")
	var dto CategoryBudgetDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	vars := mux.Vars(r)
	entry, err := h.service.SetCategoryBudget(r.Context(), vars["month"], vars["name"], dto.Amount.Decimal)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, ToDTO(entry))
}

// DeleteCategoryBudget godoc
// @Summary Remove a category budget
// @Tags Budget
// @Produce json
// @Param month path string true "Month (YYYY-MM)"
// @Param name path string true "Category name"
// @Success 200 {object} BudgetDTO
// @Router /api/budgets/{month}/categories/{name} [delete]
func (h *BudgetHandler) DeleteCategoryBudget(w http.ResponseWriter, r *http.Request) {
	log.Debug("Deleting category budget")
	vars := mux.Vars(r)
	entry, err := h.service.DeleteCategoryBudget(r.Context(), vars["month"], vars["name"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, ToDTO(entry))
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrOverallExceeded):
		rest.WriteError(w, http.StatusUnprocessableEntity, "Category budgets exceed the overall budget", err.Error())
	case errors.Is(err, ErrInvalidMonth), errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrCategoryRequired):
		rest.WriteError(w, http.StatusBadRequest, "Invalid budget", err.Error())
	default:
		log.Errorf("budget request failed: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func ToDTO(e Entry) BudgetDTO {
	categories := make(map[string]money.Amount, len(e.Categories))
	for name, v := range e.Categories {
		categories[name] = money.NewAmount(v)
	}
	return BudgetDTO{
		Month:         e.Month,
		Overall:       money.NewAmount(e.Overall),
		Categories:    categories,
		CategoryTotal: money.NewAmount(aggregate.CategoryBudgetTotal(e.Categories)),
	}
}
