package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pettracker/pet/internal/rest"
)

type HealthResponse struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type NotFoundResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Expenses
	r.HandleFunc("/api/expenses", deps.ExpenseHandler.ListExpenses).Methods("GET")
	r.HandleFunc("/api/expenses", deps.ExpenseHandler.CreateExpense).Methods("POST")
	r.HandleFunc("/api/expenses/summary/monthly", deps.ReportHandler.GetMonthlySummary).Methods("GET")
	r.HandleFunc("/api/expenses/month/{year}/{month}", deps.ReportHandler.GetMonthExpenses).Methods("GET")
	r.HandleFunc("/api/expenses/{id}", deps.ExpenseHandler.GetExpense).Methods("GET")
	r.HandleFunc("/api/expenses/{id}", deps.ExpenseHandler.UpdateExpense).Methods("PUT")
	r.HandleFunc("/api/expenses/{id}", deps.ExpenseHandler.DeleteExpense).Methods("DELETE")

	// Categories
	r.HandleFunc("/api/categories", deps.CategoryHandler.ListCategories).Methods("GET")
	r.HandleFunc("/api/categories", deps.CategoryHandler.CreateCategory).Methods("POST")
	r.HandleFunc("/api/categories/reset", deps.CategoryHandler.ResetCategories).Methods("POST")
	r.HandleFunc("/api/categories/{id}", deps.CategoryHandler.GetCategory).Methods("GET")
	r.HandleFunc("/api/categories/{id}", deps.CategoryHandler.RenameCategory).Methods("PUT")
	r.HandleFunc("/api/categories/{id}", deps.CategoryHandler.DeleteCategory).Methods("DELETE")

	// Budgets
	r.HandleFunc("/api/budgets", deps.BudgetHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/budgets/current/month", deps.BudgetHandler.GetCurrent).Methods("GET")
	r.HandleFunc("/api/budgets/{year}/{month}/spending", deps.DashboardHandler.GetSpending).Methods("GET")
	r.HandleFunc("/api/budgets/{month}", deps.BudgetHandler.Get).Methods("GET")
	r.HandleFunc("/api/budgets/{month}/overall", deps.BudgetHandler.SetOverall).Methods("PUT")
	r.HandleFunc("/api/budgets/{month}/overall", deps.BudgetHandler.ResetOverall).Methods("DELETE")
	r.HandleFunc("/api/budgets/{month}/categories/{name}", deps.BudgetHandler.SetCategoryBudget).Methods("PUT")
	r.HandleFunc("/api/budgets/{month}/categories/{name}", deps.BudgetHandler.DeleteCategoryBudget).Methods("DELETE")

	// Dashboard
	r.HandleFunc("/api/dashboard", deps.DashboardHandler.GetDashboard).Methods("GET")

	// Reports
	r.HandleFunc("/api/reports/{month}", deps.ReportHandler.GetReport).Methods("GET")
	r.HandleFunc("/api/reports/{month}/export", deps.ReportHandler.ExportReport).Methods("POST")

	r.HandleFunc("/health", health(deps)).Methods("GET")

	r.NotFoundHandler = http.HandlerFunc(notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(notFound)
}

func health(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rest.WriteJSON(w, http.StatusOK, HealthResponse{
			Status:    "OK",
			Message:   "Personal Expense Tracker API is running",
			Timestamp: deps.Clock.Now().UTC(),
		})
	}
}

func notFound(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusNotFound, NotFoundResponse{
		Error:   "Not Found",
		Message: fmt.Sprintf("Cannot %s %s", r.Method, r.URL.RequestURI()),
	})
}
