package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"explorewithme/internal/delivery/http/controllers"
	"explorewithme/internal/delivery/http/middleware"
	"explorewithme/internal/domain"
)

// NewRouter initializes the HTTP router with all EWM server routes
func NewRouter(
	userController *controllers.AdminUserController,
	categoryController *controllers.CategoryController,
	eventController *controllers.EventController,
	requestController *controllers.RequestController,
	compilationController *controllers.CompilationController,
	commentController *controllers.CommentController,
) *http.ServeMux {
	mux := http.NewServeMux()

	// Private API
	mux.HandleFunc("GET /users/{userID}/events", eventController.GetUserEvents)
	mux.HandleFunc("POST /users/{userID}/events", eventController.CreateEvent)
	mux.HandleFunc("PATCH /users/{userID}/events", eventController.PatchUserEvent)
	mux.HandleFunc("GET /users/{userID}/events/{eventID}", eventController.GetUserEvent)
	mux.HandleFunc("PATCH /users/{userID}/events/{eventID}", eventController.CancelUserEvent)
	mux.HandleFunc("GET /users/{userID}/events/{eventID}/requests", eventController.GetEventRequests)
	mux.HandleFunc("PATCH /users/{userID}/events/{eventID}/requests/{reqID}/confirm", eventController.ConfirmRequest)
	mux.HandleFunc("PATCH /users/{userID}/events/{eventID}/requests/{reqID}/reject", eventController.RejectRequest)

	mux.HandleFunc("GET /users/{userID}/requests", requestController.GetUserRequests)
	mux.HandleFunc("POST /users/{userID}/requests", requestController.CreateRequest)
	mux.HandleFunc("PATCH /users/{userID}/requests/{reqID}/cancel", requestController.CancelRequest)

	mux.HandleFunc("POST /users/{userID}/comments", commentController.CreateComment)
	mux.HandleFunc("PATCH /users/{userID}/comments/{commentID}", commentController.PatchComment)
	mux.HandleFunc("DELETE /users/{userID}/comments/{commentID}", commentController.DeleteComment)

	// Admin API
	mux.HandleFunc("POST /admin/users", userController.CreateUser)
	mux.HandleFunc("GET /admin/users", userController.GetUsers)
	mux.HandleFunc("DELETE /admin/users/{userID}", userController.DeleteUser)

	mux.HandleFunc("POST /admin/categories", categoryController.CreateCategory)
	mux.HandleFunc("PATCH /admin/categories/{catID}", categoryController.PatchCategory)
	mux.HandleFunc("DELETE /admin/categories/{catID}", categoryController.DeleteCategory)

	mux.HandleFunc("GET /admin/events", eventController.AdminSearchEvents)
	mux.HandleFunc("PUT /admin/events/{eventID}", eventController.AdminUpdateEvent)
	mux.HandleFunc("PATCH /admin/events/{eventID}/publish", eventController.PublishEvent)
	mux.HandleFunc("PATCH /admin/events/{eventID}/reject", eventController.RejectEvent)

	mux.HandleFunc("POST /admin/compilations", compilationController.CreateCompilation)
	mux.HandleFunc("DELETE /admin/compilations/{compID}", compilationController.DeleteCompilation)
	mux.HandleFunc("PATCH /admin/compilations/{compID}/events/{eventID}", compilationController.AddEvent)
	mux.HandleFunc("DELETE /admin/compilations/{compID}/events/{eventID}", compilationController.RemoveEvent)
	mux.HandleFunc("PATCH /admin/compilations/{compID}/pin", compilationController.PinCompilation)
	mux.HandleFunc("DELETE /admin/compilations/{compID}/pin", compilationController.UnpinCompilation)

	// Public API
	mux.HandleFunc("GET /events", eventController.GetPublicEvents)
	mux.HandleFunc("GET /events/{eventID}", eventController.GetPublicEvent)
	mux.HandleFunc("GET /categories", categoryController.GetCategories)
	mux.HandleFunc("GET /categories/{catID}", categoryController.GetCategory)
	mux.HandleFunc("GET /compilations", compilationController.GetCompilations)
	mux.HandleFunc("GET /compilations/{compID}", compilationController.GetCompilation)
	mux.HandleFunc("GET /comments", commentController.SearchComments)
	mux.HandleFunc("GET /comments/{commentID}", commentController.GetComment)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

// NewStatsRouter initializes the HTTP router for the statistics service.
// Both endpoints require a service Bearer token.
func NewStatsRouter(statsController *controllers.StatsController, verifier domain.TokenVerifier) *http.ServeMux {
	mux := http.NewServeMux()
	requireAuth := middleware.RequireAuth(verifier)

	mux.HandleFunc("POST /hit", requireAuth(statsController.RecordHit))
	mux.HandleFunc("GET /stats", requireAuth(statsController.GetStats))

	return mux
}
