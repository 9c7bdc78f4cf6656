package controllers

import (
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"explorewithme/internal/delivery/http/helpers"
	"explorewithme/internal/domain"
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// NewUserRequest is the request body for POST /admin/users
type NewUserRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Validate implements Validator.
func (u NewUserRequest) Validate() []string {
	var errs []string
	email := strings.TrimSpace(strings.ToLower(u.Email))
	if email == "" {
		errs = append(errs, "email is required")
	} else if !emailRegexp.MatchString(email) {
		errs = append(errs, "invalid email format")
	}
	if strings.TrimSpace(u.Name) == "" {
		errs = append(errs, "name is required")
	}
	return errs
}

// UserSuccessResponse is the success response envelope for user endpoints.
type UserSuccessResponse struct {
	Data  *domain.User      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// UsersSuccessResponse is the success response envelope for user list endpoints.
type UsersSuccessResponse struct {
	Data  []*domain.User    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// AdminUserController handles admin user management endpoints.
type AdminUserController struct {
	Logger  *slog.Logger
	Service domain.UserService
}

// NewAdminUserController creates an AdminUserController with the given logger and service.
func NewAdminUserController(logger *slog.Logger, svc domain.UserService) *AdminUserController {
	return &AdminUserController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateUser godoc
// @Summary Register a new user
// @Description Create a user with a unique email. Admin API.
// @Tags admin
// @Accept json
// @Produce json
// @Param body body NewUserRequest true "User data"
// @Success 201 {object} controllers.UserSuccessResponse "data contains the created user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/users [post]
func (c *AdminUserController) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req NewUserRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	user := domain.NewUser(strings.TrimSpace(strings.ToLower(req.Email)), strings.TrimSpace(req.Name))
	if err := c.Service.CreateUser(r.Context(), user); err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, user)
}

// GetUsers godoc
// @Summary List users
// @Description Returns users, optionally restricted to the given ids, paginated with from/size. Admin API.
// @Tags admin
// @Produce json
// @Param ids query []int false "User ids to include"
// @Param from query int false "Offset" default(0)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} controllers.UsersSuccessResponse "data contains the users"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/users [get]
func (c *AdminUserController) GetUsers(w http.ResponseWriter, r *http.Request) {
	var ids []int64
	for _, raw := range r.URL.Query()["ids"] {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid user id: "+part)
				return
			}
			ids = append(ids, id)
		}
	}
	users, err := c.Service.GetUsers(r.Context(), ids, helpers.ParsePagination(r))
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, users)
}

// DeleteUser godoc
// @Summary Delete a user
// @Description Removes the user with the given id. Admin API.
// @Tags admin
// @Produce json
// @Param userID path int true "User ID"
// @Success 204 "no content"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/users/{userID} [delete]
func (c *AdminUserController) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.ParseID(r, "userID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid user id")
		return
	}
	if err := c.Service.DeleteUser(r.Context(), id); err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
