package httpx

import (
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"

	authsite "github.com/RobinWillson/authsite"
	"github.com/RobinWillson/authsite/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth         *service.AuthService
	Users        *service.UserService
	CookieDomain string
	IsDev        bool         // Development mode flag for disk-served pages
	Logger       *slog.Logger // Logger for HTTP errors (optional)
}

// NewRouter creates and configures a new HTTP router.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{Svc: services.Auth, CookieDomain: services.CookieDomain, Logger: logger}
	userHandlers := &UserHandlers{Svc: services.Users}

	registerAuthRoutes(mux, authHandlers)
	registerUserRoutes(mux, userHandlers, services.Auth)

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	registerPageRoutes(mux, services.IsDev)

	return Recover(logger)(Logging(logger)(mux))
}

// registerAuthRoutes wires the login, callback, logout, and current-user endpoints.
func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.Handle("GET /auth/google", http.HandlerFunc(h.Login))
	mux.Handle("GET /auth/google/callback", http.HandlerFunc(h.Callback))
	mux.Handle("GET /logout", http.HandlerFunc(h.Logout))
	mux.Handle("GET /api/auth/current-user", RequireAuth(h.Svc)(http.HandlerFunc(h.CurrentUser)))
}

// registerUserRoutes wires the admin user directory API behind the admin gate.
func registerUserRoutes(mux *http.ServeMux, h *UserHandlers, auth AuthServiceInterface) {
	admin := RequireAdmin(auth)
	mux.Handle("GET /api/admin/users", admin(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/admin/users/{id}", admin(http.HandlerFunc(h.Get)))
	mux.Handle("PUT /api/admin/users/{id}/role", admin(http.HandlerFunc(h.UpdateRole)))
}

// registerPageRoutes wires the static dashboard and login pages.
// Dev mode serves from disk so page edits don't require a rebuild;
// production serves the embedded filesystem.
func registerPageRoutes(mux *http.ServeMux, isDev bool) {
	pages := pageFS(isDev)

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(pages)))
	mux.HandleFunc("GET /login", func(w http.ResponseWriter, r *http.Request) {
		servePage(w, r, pages, "login.html")
	})
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		servePage(w, r, pages, "index.html")
	})
}

// pageFS returns the filesystem the pages are served from.
func pageFS(isDev bool) fs.FS {
	if isDev {
		return os.DirFS("web/static")
	}
	sub, err := fs.Sub(authsite.StaticFS, "web/static")
	if err != nil {
		log.Printf("embedded static assets unavailable: %v; falling back to disk", err)
		return os.DirFS("web/static")
	}
	return sub
}

func servePage(w http.ResponseWriter, r *http.Request, pages fs.FS, name string) {
	http.ServeFileFS(w, r, pages, name)
}
