package category

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pettracker/pet/internal/rest"
	log "github.com/sirupsen/logrus"
)

type CategoryDTO struct {
	Id   int    `json:"id"`
	Name string `json:"name"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// ListCategories godoc
// @Summary List categories
// @Description Categories in insertion order; defaults are seeded on first use
// @Tags Category
// @Produce json
// @Success 200 {array} CategoryDTO
// @Router /api/categories [get]
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	log.Debug("Listing categories")
	categories, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, toDTOs(categories))
}

// GetCategory godoc
// @Summary Get a category
// @Tags Category
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} CategoryDTO
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/categories/{id} [get]
func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := categoryId(w, r)
	if !ok {
		return
	}
	c, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, CategoryDTO(c))
}

// CreateCategory godoc
// @Summary Create a category
// @Tags Category
// @Accept json
// @Produce json
// @Param category body CategoryDTO true "Category"
// @Success 201 {object} CategoryDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 409 {object} rest.ErrorResponse
// @Router /api/categories [post]
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating category")
	var dto CategoryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	created, err := h.service.Create(r.Context(), dto.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, CategoryDTO(created))
}

// RenameCategory godoc
// @Summary Rename a category
// @Tags Category
// @Accept json
// @Produce json
// @Param id path int true "Category ID"
// @Param category body CategoryDTO true "Category"
// @Success 200 {object} CategoryDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 404 {object} rest.ErrorResponse
// @Failure 409 {object} rest.ErrorResponse
// @Router /api/categories/{id} [put]
func (h *Handler) RenameCategory(w http.ResponseWriter, r *http.Request) {
	log.Debug("Renaming category")
	id, ok := categoryId(w, r)
	if !ok {
		return
	}
	var dto CategoryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	renamed, err := h.service.Rename(r.Context(), id, dto.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, CategoryDTO(renamed))
}

// DeleteCategory godoc
// @Summary Delete a category
// @Tags Category
// @Param id path int true "Category ID"
// @Success 204 "No Content"
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/categories/{id} [delete]
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	log.Debug("Deleting category")
	id, ok := categoryId(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ResetCategories godoc
// @Summary Restore the default categories
// @Tags Category
// @Produce json
// @Success 200 {array} CategoryDTO
// @Router /api/categories/reset [post]
func (h *Handler) ResetCategories(w http.ResponseWriter, r *http.Request) {
	log.Debug("Resetting categories")
	categories, err := h.service.ResetDefaults(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, toDTOs(categories))
}

func categoryId(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid category id", err.Error())
		return 0, false
	}
	return id, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrCategoryNotFound):
		rest.WriteError(w, http.StatusNotFound, "Category not found", "")
	case errors.Is(err, ErrCategoryNameRequired):
		rest.WriteError(w, http.StatusBadRequest, "Invalid category", err.Error())
	case errors.Is(err, ErrCategoryExists):
		rest.WriteError(w, http.StatusConflict, "Category already exists", err.Error())
	default:
		log.Errorf("category request failed: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func toDTOs(categories []Category) []CategoryDTO {
	dtos := make([]CategoryDTO, 0, len(categories))
	for _, c := range categories {
		dtos = append(dtos, CategoryDTO(c))
	}
	return dtos
}
