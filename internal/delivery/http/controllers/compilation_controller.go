package controllers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"explorewithme/internal/delivery/http/helpers"
	"explorewithme/internal/domain"
)

// NewCompilationRequest is the request body for POST /admin/compilations
type NewCompilationRequest struct {
	Title  string  `json:"title"`
	Pinned bool    `json:"pinned"`
	Events []int64 `json:"events"`
}

// Validate implements Validator.
func (c NewCompilationRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Title) == "" {
		errs = append(errs, "title is required")
	}
	return errs
}

// CompilationSuccessResponse is the success response envelope for compilation endpoints.
type CompilationSuccessResponse struct {
	Data  *domain.Compilation `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// CompilationsSuccessResponse is the success response envelope for compilation list endpoints.
type CompilationsSuccessResponse struct {
	Data  []*domain.Compilation `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// CompilationController handles admin and public compilation endpoints.
type CompilationController struct {
	Logger  *slog.Logger
	Service domain.CompilationService
}

// NewCompilationController creates a CompilationController with the given logger and service.
func NewCompilationController(logger *slog.Logger, svc domain.CompilationService) *CompilationController {
	return &CompilationController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateCompilation godoc
// @Summary Create a compilation
// @Description Create a curated set of events, optionally pinned to the main page. Admin API.
// @Tags admin
// @Accept json
// @Produce json
// @Param body body NewCompilationRequest true "Compilation data"
// @Success 201 {object} controllers.CompilationSuccessResponse "data contains the created compilation"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/compilations [post]
func (c *CompilationController) CreateCompilation(w http.ResponseWriter, r *http.Request) {
	var req NewCompilationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	compilation, err := c.Service.CreateCompilation(r.Context(), strings.TrimSpace(req.Title), req.Pinned, req.Events)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, compilation)
}

// DeleteCompilation godoc
// @Summary Delete a compilation
// @Tags admin
// @Produce json
// @Param compID path int true "Compilation ID"
// @Success 204 "no content"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/compilations/{compID} [delete]
func (c *CompilationController) DeleteCompilation(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.ParseID(r, "compID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid compilation id")
		return
	}
	if err := c.Service.DeleteCompilation(r.Context(), id); err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddEvent godoc
// @Summary Add an event to a compilation
// @Tags admin
// @Produce json
// @Param compID path int true "Compilation ID"
// @Param eventID path int true "Event ID"
// @Success 204 "no content"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/compilations/{compID}/events/{eventID} [patch]
func (c *CompilationController) AddEvent(w http.ResponseWriter, r *http.Request) {
	compID, ok := helpers.ParseID(r, "compID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid compilation id")
		return
	}
	eventID, ok := helpers.ParseID(r, "eventID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid event id")
		return
	}
	if err := c.Service.AddEventToCompilation(r.Context(), compID, eventID); err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveEvent godoc
// @Summary Remove an event from a compilation
// @Tags admin
// @Produce json
// @Param compID path int true "Compilation ID"
// @Param eventID path int true "Event ID"
// @Success 204 "no content"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/compilations/{compID}/events/{eventID} [delete]
func (c *CompilationController) RemoveEvent(w http.ResponseWriter, r *http.Request) {
	compID, ok := helpers.ParseID(r, "compID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid compilation id")
		return
	}
	eventID, ok := helpers.ParseID(r, "eventID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid event id")
		return
	}
	if err := c.Service.RemoveEventFromCompilation(r.Context(), compID, eventID); err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PinCompilation godoc
// @Summary Pin a compilation to the main page
// @Tags admin
// @Produce json
// @Param compID path int true "Compilation ID"
// @Success 204 "no content"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/compilations/{compID}/pin [patch]
func (c *CompilationController) PinCompilation(w http.ResponseWriter, r *http.Request) {
	c.setPinned(w, r, true)
}

// UnpinCompilation godoc
// @Summary Unpin a compilation from the main page
// @Tags admin
// @Produce json
// @Param compID path int true "Compilation ID"
// @Success 204 "no content"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/compilations/{compID}/pin [delete]
func (c *CompilationController) UnpinCompilation(w http.ResponseWriter, r *http.Request) {
	c.setPinned(w, r, false)
}

func (c *CompilationController) setPinned(w http.ResponseWriter, r *http.Request, pinned bool) {
	id, ok := helpers.ParseID(r, "compID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid compilation id")
		return
	}
	if err := c.Service.PinCompilation(r.Context(), id, pinned); err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetCompilations godoc
// @Summary List compilations
// @Description Returns compilations, optionally filtered by pinned. Public API.
// @Tags public
// @Produce json
// @Param pinned query bool false "Pinned compilations only"
// @Param from query int false "Offset" default(0)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} controllers.CompilationsSuccessResponse "data contains the compilations"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /compilations [get]
func (c *CompilationController) GetCompilations(w http.ResponseWriter, r *http.Request) {
	var pinned *bool
	if s := r.URL.Query().Get("pinned"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid pinned: "+s)
			return
		}
		pinned = &v
	}
	compilations, err := c.Service.ListCompilations(r.Context(), pinned, helpers.ParsePagination(r))
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, compilations)
}

// GetCompilation godoc
// @Summary Get a compilation
// @Tags public
// @Produce json
// @Param compID path int true "Compilation ID"
// @Success 200 {object} controllers.CompilationSuccessResponse "data contains the compilation"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /compilations/{compID} [get]
func (c *CompilationController) GetCompilation(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.ParseID(r, "compID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid compilation id")
		return
	}
	compilation, err := c.Service.GetCompilation(r.Context(), id)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, compilation)
}
