package controllers

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"explorewithme/internal/delivery/http/helpers"
	"explorewithme/internal/domain"
)

// NewEventRequest is the request body for POST /users/{userID}/events
type NewEventRequest struct {
	Title             string           `json:"title"`
	Annotation        string           `json:"annotation"`
	Description       string           `json:"description"`
	Category          int64            `json:"category"`
	EventDate         domain.DateTime  `json:"eventDate"`
	Location          *domain.Location `json:"location"`
	Paid              bool             `json:"paid"`
	ParticipantLimit  int              `json:"participantLimit"`
	RequestModeration *bool            `json:"requestModeration"`
}

// Validate implements Validator.
func (e NewEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(e.Title) == "" {
		errs = append(errs, "title is required")
	}
	if strings.TrimSpace(e.Annotation) == "" {
		errs = append(errs, "annotation is required")
	}
	if e.Category < 1 {
		errs = append(errs, "category is required")
	}
	if e.EventDate.Time.IsZero() {
		errs = append(errs, "eventDate is required")
	}
	if e.ParticipantLimit < 0 {
		errs = append(errs, "participantLimit cannot be negative")
	}
	return errs
}

// UpdateEventRequest is the request body for PATCH /users/{userID}/events and
// PUT /admin/events/{eventID}. All fields except EventID are optional.
type UpdateEventRequest struct {
	EventID           int64            `json:"eventId"`
	Title             *string          `json:"title"`
	Annotation        *string          `json:"annotation"`
	Description       *string          `json:"description"`
	Category          *int64           `json:"category"`
	EventDate         *domain.DateTime `json:"eventDate"`
	Paid              *bool            `json:"paid"`
	ParticipantLimit  *int             `json:"participantLimit"`
	RequestModeration *bool            `json:"requestModeration"`
}

// Validate implements Validator.
func (e UpdateEventRequest) Validate() []string {
	var errs []string
	if e.Title != nil && strings.TrimSpace(*e.Title) == "" {
		errs = append(errs, "title cannot be empty")
	}
	if e.Annotation != nil && strings.TrimSpace(*e.Annotation) == "" {
		errs = append(errs, "annotation cannot be empty")
	}
	if e.Category != nil && *e.Category < 1 {
		errs = append(errs, "invalid category")
	}
	if e.ParticipantLimit != nil && *e.ParticipantLimit < 0 {
		errs = append(errs, "participantLimit cannot be negative")
	}
	return errs
}

func (e UpdateEventRequest) toPatch(eventID int64) domain.EventPatch {
	return domain.EventPatch{
		EventID:           eventID,
		Title:             e.Title,
		Annotation:        e.Annotation,
		Description:       e.Description,
		CategoryID:        e.Category,
		EventDate:         e.EventDate,
		Paid:              e.Paid,
		ParticipantLimit:  e.ParticipantLimit,
		RequestModeration: e.RequestModeration,
	}
}

// EventSuccessResponse is the success response envelope for event endpoints.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// EventsSuccessResponse is the success response envelope for event list endpoints.
type EventsSuccessResponse struct {
	Data  []*domain.Event   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// RequestSuccessResponse is the success response envelope for participation request endpoints.
type RequestSuccessResponse struct {
	Data  *domain.Request   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// RequestsSuccessResponse is the success response envelope for participation request list endpoints.
type RequestsSuccessResponse struct {
	Data  []*domain.Request `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// EventController handles private, admin, and public event endpoints.
// The public endpoints forward an endpoint hit to the statistics service.
type EventController struct {
	Logger      *slog.Logger
	Service     domain.EventService
	StatsClient domain.StatsClient
}

// NewEventController creates an EventController with the given logger, service, and stats client.
func NewEventController(logger *slog.Logger, svc domain.EventService, statsClient domain.StatsClient) *EventController {
	return &EventController{
		Logger:      logger,
		Service:     svc,
		StatsClient: statsClient,
	}
}

// recordHit forwards the request to the statistics service without blocking
// the response.
func (c *EventController) recordHit(r *http.Request) {
	if c.StatsClient == nil {
		return
	}
	hit := &domain.EndpointHit{
		URI:       r.URL.Path,
		IP:        clientIP(r),
		Timestamp: domain.NewDateTime(time.Now()),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.StatsClient.PostHit(ctx, hit); err != nil {
			c.Logger.Warn("failed to record hit", "uri", hit.URI, "err", err)
		}
	}()
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// GetUserEvents godoc
// @Summary List the initiator's events
// @Tags private
// @Produce json
// @Param userID path int true "User ID"
// @Param from query int false "Offset" default(0)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} controllers.EventsSuccessResponse "data contains the events"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/events [get]
func (c *EventController) GetUserEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.ParseID(r, "userID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid user id")
		return
	}
	events, err := c.Service.GetUserEvents(r.Context(), userID, helpers.ParsePagination(r))
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// CreateEvent godoc
// @Summary Create an event
// @Description Create an event in PENDING state. The event date must be at least two hours in the future.
// @Tags private
// @Accept json
// @Produce json
// @Param userID path int true "User ID"
// @Param body body NewEventRequest true "Event data"
// @Success 201 {object} controllers.EventSuccessResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.ParseID(r, "userID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid user id")
		return
	}
	var req NewEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	moderation := true
	if req.RequestModeration != nil {
		moderation = *req.RequestModeration
	}
	event := &domain.Event{
		Title:             strings.TrimSpace(req.Title),
		Annotation:        strings.TrimSpace(req.Annotation),
		Description:       strings.TrimSpace(req.Description),
		EventDate:         req.EventDate,
		Location:          req.Location,
		Paid:              req.Paid,
		ParticipantLimit:  req.ParticipantLimit,
		RequestModeration: moderation,
	}
	created, err := c.Service.CreateEvent(r.Context(), userID, event, req.Category)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, created)
}

// PatchUserEvent godoc
// @Summary Update the initiator's event
// @Description Update an event identified by eventId in the body. Published events cannot be edited; editing a canceled event resubmits it for moderation.
// @Tags private
// @Accept json
// @Produce json
// @Param userID path int true "User ID"
// @Param body body UpdateEventRequest true "Fields to update"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/events [patch]
func (c *EventController) PatchUserEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.ParseID(r, "userID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid user id")
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if req.EventID < 1 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "eventId is required")
		return
	}
	event, err := c.Service.PatchEvent(r.Context(), userID, req.toPatch(req.EventID))
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// GetUserEvent godoc
// @Summary Get the initiator's event
// @Tags private
// @Produce json
// @Param userID path int true "User ID"
// @Param eventID path int true "Event ID"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the event"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/events/{eventID} [get]
func (c *EventController) GetUserEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.ParseID(r, "userID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid user id")
		return
	}
	eventID, ok := helpers.ParseID(r, "eventID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid event id")
		return
	}
	event, err := c.Service.GetUserEvent(r.Context(), userID, eventID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// CancelUserEvent godoc
// @Summary Cancel the initiator's pending event
// @Tags private
// @Produce json
// @Param userID path int true "User ID"
// @Param eventID path int true "Event ID"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the canceled event"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/events/{eventID} [patch]
func (c *EventController) CancelUserEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.ParseID(r, "userID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid user id")
		return
	}
	eventID, ok := helpers.ParseID(r, "eventID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid event id")
		return
	}
	event, err := c.Service.CancelUserEvent(r.Context(), userID, eventID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// GetEventRequests godoc
// @Summary List participation requests for the initiator's event
// @Tags private
// @Produce json
// @Param userID path int true "User ID"
// @Param eventID path int true "Event ID"
// @Success 200 {object} controllers.RequestsSuccessResponse "data contains the requests"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/events/{eventID}/requests [get]
func (c *EventController) GetEventRequests(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.ParseID(r, "userID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid user id")
		return
	}
	eventID, ok := helpers.ParseID(r, "eventID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid event id")
		return
	}
	requests, err := c.Service.GetEventRequests(r.Context(), userID, eventID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, requests)
}

// ConfirmRequest godoc
// @Summary Confirm a participation request
// @Description Confirm a pending request on the initiator's event. Confirming past the participant limit is reported as 400. When the confirmation fills the limit, remaining pending requests are canceled.
// @Tags private
// @Produce json
// @Param userID path int true "User ID"
// @Param eventID path int true "Event ID"
// @Param reqID path int true "Request ID"
// @Success 200 {object} controllers.RequestSuccessResponse "data contains the confirmed request"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/events/{eventID}/requests/{reqID}/confirm [patch]
func (c *EventController) ConfirmRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.ParseID(r, "userID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid user id")
		return
	}
	eventID, ok := helpers.ParseID(r, "eventID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid event id")
		return
	}
	reqID, ok := helpers.ParseID(r, "reqID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid request id")
		return
	}
	request, err := c.Service.ConfirmEventRequest(r.Context(), userID, eventID, reqID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, request)
}

// RejectRequest godoc
// @Summary Reject a participation request
// @Tags private
// @Produce json
// @Param userID path int true "User ID"
// @Param eventID path int true "Event ID"
// @Param reqID path int true "Request ID"
// @Success 200 {object} controllers.RequestSuccessResponse "data contains the rejected request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/events/{eventID}/requests/{reqID}/reject [patch]
func (c *EventController) RejectRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.ParseID(r, "userID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid user id")
		return
	}
	eventID, ok := helpers.ParseID(r, "eventID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid event id")
		return
	}
	reqID, ok := helpers.ParseID(r, "reqID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid request id")
		return
	}
	request, err := c.Service.RejectEventRequest(r.Context(), userID, eventID, reqID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, request)
}

// AdminSearchEvents godoc
// @Summary Search events
// @Description Full event search over users, states, categories, and date range. Admin API.
// @Tags admin
// @Produce json
// @Param users query []int false "Initiator ids"
// @Param states query []string false "Event states"
// @Param categories query []int false "Category ids"
// @Param rangeStart query string false "Earliest event date (yyyy-MM-dd HH:mm:ss)"
// @Param rangeEnd query string false "Latest event date (yyyy-MM-dd HH:mm:ss)"
// @Param from query int false "Offset" default(0)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} controllers.EventsSuccessResponse "data contains the events"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events [get]
func (c *EventController) AdminSearchEvents(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseAdminFilter(w, r)
	if !ok {
		return
	}
	events, err := c.Service.AdminSearchEvents(r.Context(), filter, helpers.ParsePagination(r))
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// AdminUpdateEvent godoc
// @Summary Update any event
// @Tags admin
// @Accept json
// @Produce json
// @Param eventID path int true "Event ID"
// @Param body body UpdateEventRequest true "Fields to update"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{eventID} [put]
func (c *EventController) AdminUpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.ParseID(r, "eventID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid event id")
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.AdminUpdateEvent(r.Context(), req.toPatch(eventID))
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// PublishEvent godoc
// @Summary Publish a pending event
// @Description Publishes a PENDING event. The event must start at least one hour after publication. Admin API.
// @Tags admin
// @Produce json
// @Param eventID path int true "Event ID"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the published event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{eventID}/publish [patch]
func (c *EventController) PublishEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.ParseID(r, "eventID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid event id")
		return
	}
	event, err := c.Service.PublishEvent(r.Context(), eventID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// RejectEvent godoc
// @Summary Reject an event
// @Description Cancels a not-yet-published event. Admin API.
// @Tags admin
// @Produce json
// @Param eventID path int true "Event ID"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the rejected event"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{eventID}/reject [patch]
func (c *EventController) RejectEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.ParseID(r, "eventID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid event id")
		return
	}
	event, err := c.Service.RejectEvent(r.Context(), eventID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// GetPublicEvents godoc
// @Summary Search published events
// @Description Text search over published events with category, paid, date range, and availability filters. Records a view in the statistics service. Public API.
// @Tags public
// @Produce json
// @Param text query string false "Text to match in annotation, description, or title"
// @Param categories query []int false "Category ids"
// @Param paid query bool false "Paid events only"
// @Param rangeStart query string false "Earliest event date (yyyy-MM-dd HH:mm:ss); defaults to now"
// @Param rangeEnd query string false "Latest event date (yyyy-MM-dd HH:mm:ss)"
// @Param onlyAvailable query bool false "Only events with free seats" default(false)
// @Param sort query string false "EVENT_DATE or VIEWS"
// @Param from query int false "Offset" default(0)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} controllers.EventsSuccessResponse "data contains the events"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) GetPublicEvents(w http.ResponseWriter, r *http.Request) {
	filter, ok := parsePublicFilter(w, r)
	if !ok {
		return
	}
	events, err := c.Service.GetPublicEvents(r.Context(), filter, helpers.ParsePagination(r))
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	c.recordHit(r)
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// GetPublicEvent godoc
// @Summary Get a published event
// @Description Returns a published event with its confirmed request count and view count. Records a view in the statistics service. Public API.
// @Tags public
// @Produce json
// @Param eventID path int true "Event ID"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the event"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetPublicEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.ParseID(r, "eventID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid event id")
		return
	}
	event, err := c.Service.GetPublicEvent(r.Context(), eventID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	c.recordHit(r)
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

func parseAdminFilter(w http.ResponseWriter, r *http.Request) (domain.AdminEventFilter, bool) {
	var filter domain.AdminEventFilter
	q := r.URL.Query()

	users, ok := parseIDList(w, q["users"], "users")
	if !ok {
		return filter, false
	}
	filter.Users = users

	for _, raw := range q["states"] {
		for _, part := range strings.Split(raw, ",") {
			state := domain.EventState(strings.TrimSpace(part))
			if !state.Valid() {
				helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid state: "+part)
				return filter, false
			}
			filter.States = append(filter.States, state)
		}
	}

	categories, ok := parseIDList(w, q["categories"], "categories")
	if !ok {
		return filter, false
	}
	filter.Categories = categories

	rangeStart, ok := parseDateTimeParam(w, q.Get("rangeStart"), "rangeStart")
	if !ok {
		return filter, false
	}
	filter.RangeStart = rangeStart
	rangeEnd, ok := parseDateTimeParam(w, q.Get("rangeEnd"), "rangeEnd")
	if !ok {
		return filter, false
	}
	filter.RangeEnd = rangeEnd
	return filter, true
}

func parsePublicFilter(w http.ResponseWriter, r *http.Request) (domain.PublicEventFilter, bool) {
	var filter domain.PublicEventFilter
	q := r.URL.Query()

	filter.Text = strings.TrimSpace(q.Get("text"))

	categories, ok := parseIDList(w, q["categories"], "categories")
	if !ok {
		return filter, false
	}
	filter.Categories = categories

	if s := q.Get("paid"); s != "" {
		paid, err := strconv.ParseBool(s)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid paid: "+s)
			return filter, false
		}
		filter.Paid = &paid
	}

	rangeStart, ok := parseDateTimeParam(w, q.Get("rangeStart"), "rangeStart")
	if !ok {
		return filter, false
	}
	filter.RangeStart = rangeStart
	rangeEnd, ok := parseDateTimeParam(w, q.Get("rangeEnd"), "rangeEnd")
	if !ok {
		return filter, false
	}
	filter.RangeEnd = rangeEnd

	if s := q.Get("onlyAvailable"); s != "" {
		only, err := strconv.ParseBool(s)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid onlyAvailable: "+s)
			return filter, false
		}
		filter.OnlyAvailable = only
	}

	switch sort := domain.EventSort(q.Get("sort")); sort {
	case "", domain.EventSortDate, domain.EventSortViews:
		filter.Sort = sort
	default:
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid sort: "+string(sort))
		return filter, false
	}
	return filter, true
}

func parseIDList(w http.ResponseWriter, values []string, name string) ([]int64, bool) {
	var ids []int64
	for _, raw := range values {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid "+name+" id: "+part)
				return nil, false
			}
			ids = append(ids, id)
		}
	}
	return ids, true
}

func parseDateTimeParam(w http.ResponseWriter, value, name string) (*domain.DateTime, bool) {
	if value == "" {
		return nil, true
	}
	dt, err := domain.ParseDateTime(value)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid "+name+": "+value)
		return nil, false
	}
	return &dt, true
}
