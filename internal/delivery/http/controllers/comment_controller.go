package controllers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"explorewithme/internal/delivery/http/helpers"
	"explorewithme/internal/domain"
)

// CommentRequest is the request body for comment create and update endpoints.
type CommentRequest struct {
	Text   string `json:"text"`
	Rating int    `json:"rating"`
}

// Validate implements Validator.
func (c CommentRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Text) == "" {
		errs = append(errs, "text is required")
	}
	if c.Rating < 1 || c.Rating > 5 {
		errs = append(errs, "rating must be between 1 and 5")
	}
	return errs
}

// CommentSuccessResponse is the success response envelope for comment endpoints.
type CommentSuccessResponse struct {
	Data  *domain.Comment   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// CommentsSuccessResponse is the success response envelope for comment list endpoints.
type CommentsSuccessResponse struct {
	Data  []*domain.Comment `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// CommentController handles comment endpoints. Only confirmed participants
// of published events may comment.
type CommentController struct {
	Logger  *slog.Logger
	Service domain.CommentService
}

// NewCommentController creates a CommentController with the given logger and service.
func NewCommentController(logger *slog.Logger, svc domain.CommentService) *CommentController {
	return &CommentController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateComment godoc
// @Summary Comment on an event
// @Description Leave a comment and rating on the event given by the eventId query parameter. The user must hold a confirmed request on a published event, one comment per event.
// @Tags private
// @Accept json
// @Produce json
// @Param userID path int true "User ID"
// @Param eventId query int true "Event ID"
// @Param body body CommentRequest true "Comment data"
// @Success 201 {object} controllers.CommentSuccessResponse "data contains the created comment"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/comments [post]
func (c *CommentController) CreateComment(w http.ResponseWriter, r *http.Request) {
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
	var req CommentRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	comment, err := c.Service.CreateComment(r.Context(), userID, eventID, strings.TrimSpace(req.Text), req.Rating)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, comment)
}

// PatchComment godoc
// @Summary Edit the user's comment
// @Tags private
// @Accept json
// @Produce json
// @Param userID path int true "User ID"
// @Param commentID path int true "Comment ID"
// @Param body body CommentRequest true "New text and rating"
// @Success 200 {object} controllers.CommentSuccessResponse "data contains the updated comment"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/comments/{commentID} [patch]
func (c *CommentController) PatchComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.ParseID(r, "userID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid user id")
		return
	}
	commentID, ok := helpers.ParseID(r, "commentID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid comment id")
		return
	}
	var req CommentRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	comment, err := c.Service.PatchComment(r.Context(), userID, commentID, strings.TrimSpace(req.Text), req.Rating)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, comment)
}

// DeleteComment godoc
// @Summary Delete the user's comment
// @Tags private
// @Produce json
// @Param userID path int true "User ID"
// @Param commentID path int true "Comment ID"
// @Success 204 "no content"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/comments/{commentID} [delete]
func (c *CommentController) DeleteComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.ParseID(r, "userID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid user id")
		return
	}
	commentID, ok := helpers.ParseID(r, "commentID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid comment id")
		return
	}
	if err := c.Service.DeleteComment(r.Context(), userID, commentID); err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetComment godoc
// @Summary Get a comment
// @Tags public
// @Produce json
// @Param commentID path int true "Comment ID"
// @Success 200 {object} controllers.CommentSuccessResponse "data contains the comment"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /comments/{commentID} [get]
func (c *CommentController) GetComment(w http.ResponseWriter, r *http.Request) {
	commentID, ok := helpers.ParseID(r, "commentID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid comment id")
		return
	}
	comment, err := c.Service.GetComment(r.Context(), commentID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, comment)
}

// SearchComments godoc
// @Summary Search comments
// @Description Text search over comments, paginated with from/size. Public API.
// @Tags public
// @Produce json
// @Param text query string false "Text to match"
// @Param from query int false "Offset" default(0)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} controllers.CommentsSuccessResponse "data contains the comments"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /comments [get]
func (c *CommentController) SearchComments(w http.ResponseWriter, r *http.Request) {
	comments, err := c.Service.SearchComments(r.Context(), strings.TrimSpace(r.URL.Query().Get("text")), helpers.ParsePagination(r))
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, comments)
}
