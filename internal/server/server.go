package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/mckaywrigley/takeoff-notes-app-complete/internal/billing"
	"github.com/mckaywrigley/takeoff-notes-app-complete/internal/handler"
	"github.com/mckaywrigley/takeoff-notes-app-complete/internal/middleware"
	"github.com/mckaywrigley/takeoff-notes-app-complete/internal/notes"
	"github.com/mckaywrigley/takeoff-notes-app-complete/internal/store"
	ws "github.com/mckaywrigley/takeoff-notes-app-complete/internal/websocket"
)

type Server struct {
	db           *sql.DB
	hub          *ws.Hub
	noteH        *handler.NoteHandler
	templateH    *handler.TemplateHandler
	authH        *handler.AuthHandler
	billingH     *handler.BillingHandler
	sessionStore *store.SessionStore
	userStore    *store.UserStore
	profileStore *store.ProfileStore
	rateLimiter  *middleware.RateLimiter
	views        *notes.ViewRegistry
	logger       *slog.Logger
}

func New(db *sql.DB, billingCfg billing.Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	noteStore := store.NewNoteStore(db)
	userStore := store.NewUserStore(db)
	profileStore := store.NewProfileStore(db)
	sessionStore := store.NewSessionStore(db)

	noteSvc := notes.NewService(noteStore, hub, logger.With("component", "notes"))
	views := notes.NewViewRegistry(noteSvc)

	stripeClient := billing.NewClient(billingCfg)

	return &Server{
		db:           db,
		hub:          hub,
		noteH:        handler.NewNoteHandler(noteSvc, logger.With("component", "note_api")),
		templateH:    handler.NewTemplateHandler(views, logger.With("component", "template")),
		authH:        handler.NewAuthHandler(userStore, profileStore, sessionStore, views, logger.With("component", "auth")),
		billingH:     handler.NewBillingHandler(stripeClient, billingCfg.Enabled(), profileStore, logger.With("component", "billing")),
		sessionStore: sessionStore,
		userStore:    userStore,
		profileStore: profileStore,
		rateLimiter:  middleware.NewRateLimiter(),
		views:        views,
		logger:       logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("GET /login", s.authH.LoginPage)
	outerMux.HandleFunc("POST /login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("GET /signup", s.authH.SignupPage)
	outerMux.HandleFunc("POST /signup", s.rateLimitedHandler(s.authH.Signup))
	outerMux.HandleFunc("POST /webhooks/stripe", s.billingH.HandleStripeWebhook)
	outerMux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("web/static"))))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes — wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore, s.userStore, s.profileStore)
	outerMux.Handle("/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /logout", s.authH.Logout)

	// Billing routes. Pricing stays reachable for free-tier users.
	mux.HandleFunc("GET /pricing", s.billingH.PricingPage)
	mux.HandleFunc("POST /billing/checkout", s.billingH.Checkout)
	mux.HandleFunc("POST /billing/portal", s.billingH.Portal)

	// Everything below requires a paid membership.
	memberMux := http.NewServeMux()
	s.registerMemberRoutes(memberMux)
	mux.Handle("/", middleware.RequireMember(memberMux))
}

func (s *Server) registerMemberRoutes(mux *http.ServeMux) {
	// Notes API routes
	mux.HandleFunc("GET /api/notes", s.noteH.List)
	mux.HandleFunc("POST /api/notes", s.noteH.Create)
	mux.HandleFunc("GET /api/notes/{id}", s.noteH.Get)
	mux.HandleFunc("PATCH /api/notes/{id}", s.noteH.Update)
	mux.HandleFunc("DELETE /api/notes/{id}", s.noteH.Delete)

	// Page routes — full layout
	mux.HandleFunc("GET /", s.redirectRoot)
	mux.HandleFunc("GET /notes", s.templateH.NotesPage)

	// Notes partials (HTMX)
	mux.HandleFunc("GET /partials/notes", s.templateH.NotesRefresh)
	mux.HandleFunc("POST /partials/notes", s.templateH.NoteAdd)
	mux.HandleFunc("POST /partials/notes/{id}/select", s.templateH.NoteSelect)
	mux.HandleFunc("PATCH /partials/notes/selected", s.templateH.NoteEditField)
	mux.HandleFunc("POST /partials/notes/selected/save", s.templateH.NoteSave)
	mux.HandleFunc("DELETE /partials/notes/selected", s.templateH.NoteDelete)

	// WebSocket
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.logger.With("component", "ws_handler")))
}

func (s *Server) redirectRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/notes", http.StatusSeeOther)
}
