package controllers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"explorewithme/internal/delivery/http/helpers"
	"explorewithme/internal/domain"
)

// HitRequest is the request body for POST /hit
type HitRequest struct {
	App       string          `json:"app"`
	URI       string          `json:"uri"`
	IP        string          `json:"ip"`
	Timestamp domain.DateTime `json:"timestamp"`
}

// Validate implements Validator.
func (h HitRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(h.App) == "" {
		errs = append(errs, "app is required")
	}
	if strings.TrimSpace(h.URI) == "" {
		errs = append(errs, "uri is required")
	}
	if strings.TrimSpace(h.IP) == "" {
		errs = append(errs, "ip is required")
	}
	return errs
}

// HitSuccessResponse is the success response envelope for POST /hit (201).
type HitSuccessResponse struct {
	Data  *domain.EndpointHit `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// StatsSuccessResponse is the success response envelope for GET /stats (200).
type StatsSuccessResponse struct {
	Data  []*domain.ViewStats `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// StatsController handles the statistics service endpoints.
type StatsController struct {
	Logger  *slog.Logger
	Service domain.StatsService
}

// NewStatsController creates a StatsController with the given logger and service.
func NewStatsController(logger *slog.Logger, svc domain.StatsService) *StatsController {
	return &StatsController{
		Logger:  logger,
		Service: svc,
	}
}

// RecordHit godoc
// @Summary Record an endpoint hit
// @Description Save one call to a tracked endpoint. Requires a service Bearer token.
// @Tags stats
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body HitRequest true "Hit data"
// @Success 201 {object} controllers.HitSuccessResponse "data contains the saved hit"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /hit [post]
func (c *StatsController) RecordHit(w http.ResponseWriter, r *http.Request) {
	var req HitRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	hit := &domain.EndpointHit{
		App:       strings.TrimSpace(req.App),
		URI:       strings.TrimSpace(req.URI),
		IP:        strings.TrimSpace(req.IP),
		Timestamp: req.Timestamp,
	}
	if err := c.Service.RecordHit(r.Context(), hit); err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, hit)
}

// GetStats godoc
// @Summary Aggregate endpoint hits
// @Description Returns hit counts per (app, uri) for the given time range, most visited first. With unique=true distinct client IPs are counted instead of raw hits. Requires a service Bearer token.
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Param start query string true "Range start (yyyy-MM-dd HH:mm:ss)"
// @Param end query string true "Range end (yyyy-MM-dd HH:mm:ss)"
// @Param uris query []string false "Endpoints to include"
// @Param unique query bool false "Count distinct IPs" default(false)
// @Success 200 {object} controllers.StatsSuccessResponse "data contains the aggregated stats"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /stats [get]
func (c *StatsController) GetStats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err := domain.ParseDateTime(q.Get("start"))
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid start: "+q.Get("start"))
		return
	}
	end, err := domain.ParseDateTime(q.Get("end"))
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid end: "+q.Get("end"))
		return
	}
	var uris []string
	for _, raw := range q["uris"] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				uris = append(uris, part)
			}
		}
	}
	unique := false
	if s := q.Get("unique"); s != "" {
		unique, err = strconv.ParseBool(s)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid unique: "+s)
			return
		}
	}
	stats, err := c.Service.GetStats(r.Context(), start.Time, end.Time, uris, unique)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, stats)
}
