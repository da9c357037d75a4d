package handler

import (
	"net/http"

	"taskpulse/internal/live"
	"taskpulse/internal/service"
)

// Config carries the handler-level settings derived from the environment.
type Config struct {
	CookieSecure   bool
	BootstrapToken string
}

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, auth *service.AuthService, tasks *service.TaskService, broker *live.Broker, cfg Config) {
	authH := NewAuthHandler(auth, cfg.CookieSecure)
	dashH := NewDashboardHandler(auth, tasks, broker)
	taskH := NewTaskHandler(tasks)
	bootstrap := NewBootstrapper(auth, cfg.BootstrapToken, cfg.CookieSecure)

	mux.HandleFunc("GET /healthz", HandleHealthz)

	// First visit to the root establishes a session automatically.
	mux.Handle("GET /", bootstrap.Wrap(http.HandlerFunc(dashH.HandleRoot)))

	mux.Handle("GET /login", OptionalAuth(auth, http.HandlerFunc(authH.HandleLoginPage)))
	mux.HandleFunc("POST /login", authH.HandleLogin)
	mux.Handle("GET /signup", OptionalAuth(auth, http.HandlerFunc(authH.HandleSignupPage)))
	mux.HandleFunc("POST /signup", authH.HandleSignup)
	mux.HandleFunc("POST /auth/anonymous", authH.HandleAnonymous)
	mux.HandleFunc("POST /logout", authH.HandleLogout)

	mux.Handle("GET /dashboard", RequireAuth(auth, http.HandlerFunc(dashH.HandleDashboard)))
	mux.Handle("GET /dashboard/stream", RequireAuth(auth, http.HandlerFunc(dashH.HandleStream)))

	mux.Handle("POST /tasks", RequireAuth(auth, http.HandlerFunc(taskH.HandleCreate)))
	mux.Handle("POST /tasks/{id}/toggle", RequireAuth(auth, http.HandlerFunc(taskH.HandleToggle)))
	mux.Handle("DELETE /tasks/{id}", RequireAuth(auth, http.HandlerFunc(taskH.HandleDelete)))
}
