package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"explorewithme/internal/delivery/http/helpers"
	"explorewithme/internal/domain"
)

// CategoryRequest is the request body for POST /admin/categories and
// PATCH /admin/categories/{catID}.
type CategoryRequest struct {
	Name string `json:"name"`
}

// Validate implements Validator.
func (c CategoryRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, "name is required")
	}
	return errs
}

// CategorySuccessResponse is the success response envelope for category endpoints.
type CategorySuccessResponse struct {
	Data  *domain.Category  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// CategoriesSuccessResponse is the success response envelope for category list endpoints.
type CategoriesSuccessResponse struct {
	Data  []*domain.Category `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// CategoryController handles admin and public category endpoints.
type CategoryController struct {
	Logger  *slog.Logger
	Service domain.CategoryService
}

// NewCategoryController creates a CategoryController with the given logger and service.
func NewCategoryController(logger *slog.Logger, svc domain.CategoryService) *CategoryController {
	return &CategoryController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateCategory godoc
// @Summary Create a category
// @Description Create a category with a unique name. Admin API.
// @Tags admin
// @Accept json
// @Produce json
// @Param body body CategoryRequest true "Category data"
// @Success 201 {object} controllers.CategorySuccessResponse "data contains the created category"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/categories [post]
func (c *CategoryController) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	category := &domain.Category{Name: strings.TrimSpace(req.Name)}
	if err := c.Service.CreateCategory(r.Context(), category); err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, category)
}

// PatchCategory godoc
// @Summary Rename a category
// @Description Change the category name; the new name must stay unique. Admin API.
// @Tags admin
// @Accept json
// @Produce json
// @Param catID path int true "Category ID"
// @Param body body CategoryRequest true "New name"
// @Success 200 {object} controllers.CategorySuccessResponse "data contains the updated category"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/categories/{catID} [patch]
func (c *CategoryController) PatchCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.ParseID(r, "catID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid category id")
		return
	}
	var req CategoryRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	category, err := c.Service.PatchCategory(r.Context(), &domain.Category{ID: id, Name: strings.TrimSpace(req.Name)})
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, category)
}

// DeleteCategory godoc
// @Summary Delete a category
// @Description Removes an empty category. Categories still referenced by events cannot be deleted. Admin API.
// @Tags admin
// @Produce json
// @Param catID path int true "Category ID"
// @Success 204 "no content"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/categories/{catID} [delete]
func (c *CategoryController) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.ParseID(r, "catID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid category id")
		return
	}
	if err := c.Service.DeleteCategory(r.Context(), id); err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetCategories godoc
// @Summary List categories
// @Description Returns categories paginated with from/size. Public API.
// @Tags public
// @Produce json
// @Param from query int false "Offset" default(0)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} controllers.CategoriesSuccessResponse "data contains the categories"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /categories [get]
func (c *CategoryController) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := c.Service.ListCategories(r.Context(), helpers.ParsePagination(r))
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, categories)
}

// GetCategory godoc
// @Summary Get a category
// @Description Returns the category with the given id. Public API.
// @Tags public
// @Produce json
// @Param catID path int true "Category ID"
// @Success 200 {object} controllers.CategorySuccessResponse "data contains the category"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /categories/{catID} [get]
func (c *CategoryController) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.ParseID(r, "catID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid category id")
		return
	}
	category, err := c.Service.GetCategory(r.Context(), id)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, category)
}
