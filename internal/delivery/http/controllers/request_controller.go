package controllers

import (
	"log/slog"
	"net/http"
	"strconv"

	"explorewithme/internal/delivery/http/helpers"
	"explorewithme/internal/domain"
)

// RequestController handles the requester side of participation requests.
type RequestController struct {
	Logger  *slog.Logger
	Service domain.RequestService
}

// NewRequestController creates a RequestController with the given logger and service.
func NewRequestController(logger *slog.Logger, svc domain.RequestService) *RequestController {
	return &RequestController{
		Logger:  logger,
		Service: svc,
	}
}

// GetUserRequests godoc
// @Summary List the user's participation requests
// @Tags private
// @Produce json
// @Param userID path int true "User ID"
// @Success 200 {object} controllers.RequestsSuccessResponse "data contains the requests"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/requests [get]
func (c *RequestController) GetUserRequests(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.ParseID(r, "userID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid user id")
		return
	}
	requests, err := c.Service.GetUserRequests(r.Context(), userID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, requests)
}

// CreateRequest godoc
// @Summary Submit a participation request
// @Description Submit a request for the event given by the eventId query parameter. The event must be published, not the user's own, not already requested, and not full; a failed precondition is reported as 400. Without moderation the request is confirmed immediately.
// @Tags private
// @Produce json
// @Param userID path int true "User ID"
// @Param eventId query int true "Event ID"
// @Success 201 {object} controllers.RequestSuccessResponse "data contains the created request"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/requests [post]
func (c *RequestController) CreateRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.ParseID(r, "userID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid user id")
		return
	}
	eventID, err := strconv.ParseInt(r.URL.Query().Get("eventId"), 10, 64)
	if err != nil || eventID < 1 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "eventId is required")
		return
	}
	request, err := c.Service.CreateRequest(r.Context(), userID, eventID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, request)
}

// CancelRequest godoc
// @Summary Cancel the user's own participation request
// @Tags private
// @Produce json
// @Param userID path int true "User ID"
// @Param reqID path int true "Request ID"
// @Success 200 {object} controllers.RequestSuccessResponse "data contains the canceled request"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/requests/{reqID}/cancel [patch]
func (c *RequestController) CancelRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.ParseID(r, "userID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid user id")
		return
	}
	reqID, ok := helpers.ParseID(r, "reqID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid request id")
		return
	}
	request, err := c.Service.CancelRequest(r.Context(), userID, reqID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, request)
}
