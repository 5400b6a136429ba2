package handler

import (
	"net/http"

	"github.com/msomdec/todo-list/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux. Form posts to
// /login and /register go through limiter.
func RegisterRoutes(mux *http.ServeMux, auth *service.AuthService, tasks *service.TaskService, flashes *Flashes, limiter *service.TokenBucket, cookies CookieConfig) {
	authHandler := NewAuthHandler(auth, flashes, cookies)
	dashboardHandler := NewDashboardHandler(tasks, flashes)
	taskHandler := NewTaskHandler(tasks, flashes)

	protected := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(auth, h)
	}

	mux.HandleFunc("GET /healthz", HandleHealthz)
	mux.Handle("GET /{$}", OptionalAuth(auth, http.HandlerFunc(HandleHome)))

	mux.HandleFunc("GET /register", authHandler.HandleRegisterPage)
	mux.Handle("POST /register", RateLimit(limiter, http.HandlerFunc(authHandler.HandleRegister)))
	mux.HandleFunc("GET /login", authHandler.HandleLoginPage)
	mux.Handle("POST /login", RateLimit(limiter, http.HandlerFunc(authHandler.HandleLogin)))
	mux.Handle("GET /logout", protected(authHandler.HandleLogout))

	mux.Handle("GET /dashboard", protected(dashboardHandler.HandleDashboard))
	mux.Handle("POST /dashboard", protected(dashboardHandler.HandleCreateTask))
	mux.Handle("POST /toggle/{taskID}", protected(taskHandler.HandleToggle))
	mux.Handle("POST /delete/{taskID}", protected(taskHandler.HandleDelete))
}
