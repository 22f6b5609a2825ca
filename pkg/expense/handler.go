package expense

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pettracker/pet/internal/rest"
	"github.com/pettracker/pet/pkg/money"
	log "github.com/sirupsen/logrus"
)

type ExpenseDTO struct {
	Id       int          `json:"id"`
	Month    string       `json:"month"`
	Date     string       `json:"date"`
	Category string       `json:"category"`
	Note     string       `json:"note"`
	Amount   money.Amount `json:"amount"`
}

type ExpenseInputDTO struct {
	Date     string       `json:"date"`
	Category string       `json:"category"`
	Note     string       `json:"note"`
	Amount   money.Amount `json:"amount"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// ListExpenses godoc
// @Summary List expenses
// @Description List expenses, optionally filtered by month, category and note text
// @Tags Expense
// @Produce json
// @Param month query string false "Month (YYYY-MM)"
// @Param category query string false "Category name or 'all'"
// @Param q query string false "Case-insensitive note search"
// @Success 200 {array} ExpenseDTO
// @Router /api/expenses [get]
func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	log.Debug("Listing expenses")
	query := r.URL.Query()
	expenses, err := h.service.List(r.Context(), Filter{
		Month:    query.Get("month"),
		Category: query.Get("category"),
		Query:    query.Get("q"),
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	dtos := make([]ExpenseDTO, 0, len(expenses))
	for _, e := range expenses {
		dtos = append(dtos, ToDTO(e))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

// GetExpense godoc
// @Summary Get an expense
// @Tags Expense
// @Produce json
// @Param id path int true "Expense ID"
// @Success 200 {object} ExpenseDTO
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/expenses/{id} [get]
func (h *Handler) GetExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := expenseId(w, r)
	if !ok {
		return
	}
	e, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, ToDTO(e))
}

// CreateExpense godoc
// @Summary Create an expense
// @Tags Expense
// @Accept json
// @Produce json
// @Param expense body ExpenseInputDTO true "Expense"
// @Success 201 {object} ExpenseDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/expenses [post]
func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating expense")
	var input ExpenseInputDTO
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	created, err := h.service.Create(r.Context(), input.toInput())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, ToDTO(created))
}

// UpdateExpense godoc
// @Summary Update an expense
// @Tags Expense
// @Accept json
// @Produce json
// @Param id path int true "Expense ID"
// @Param expense body ExpenseInputDTO true "Expense"
// @Success 200 {object} ExpenseDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/expenses/{id} [put]
func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	log.Debug("Updating expense")
	id, ok := expenseId(w, r)
	if !ok {
		return
	}
	var input ExpenseInputDTO
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	updated, err := h.service.Update(r.Context(), id, input.toInput())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, ToDTO(updated))
}

// DeleteExpense godoc
// @Summary Delete an expense
// @Tags Expense
// @Param id path int true "Expense ID"
// @Success 204 "No Content"
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/expenses/{id} [delete]
func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	log.Debug("Deleting expense")
	id, ok := expenseId(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func expenseId(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid expense id", err.Error())
		return 0, false
	}
	return id, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrExpenseNotFound):
		rest.WriteError(w, http.StatusNotFound, "Expense not found", "")
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrInvalidDate), errors.Is(err, ErrCategoryRequired):
		rest.WriteError(w, http.StatusBadRequest, "Invalid expense", err.Error())
	default:
		log.Errorf("expense request failed: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func ToDTO(e Expense) ExpenseDTO {
	return ExpenseDTO{
		Id:       e.Id,
		Month:    e.Month,
		Date:     e.Date,
		Category: e.Category,
		Note:     e.Note,
		Amount:   e.Amount,
	}
}

func (d ExpenseInputDTO) toInput() Input {
	return Input{
		Date:     d.Date,
		Category: d.Category,
		Note:     d.Note,
		Amount:   d.Amount.Decimal,
	}
}
