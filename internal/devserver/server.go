// Package devserver is an in-memory implementation of the portal backend
// contract. It exists so the client can be developed and integration-tested
// without the production backend; it is not a production server.
package devserver

import (
	"encoding/json"
	"net/http"
	"regexp"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/moncraft/portal/internal/client/models"
)

// usernamePattern mirrors the game's username rules; anything else is
// rejected at login the way the real backend rejects unknown usernames.
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,16}$`)

const tokenTTL = 24 * time.Hour

// Server holds the in-memory portal state.
type Server struct {
	mu        sync.Mutex
	users     map[string]*models.Identity // keyed by user id
	purchases []models.Purchase
	items     []models.ShopItem
	logs      []models.LogEntry

	secret []byte
	log    *zap.Logger
	now    func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithClock replaces the time source, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// NewServer seeds an instance with an admin account, a small shop catalog,
// and a few server log lines.
func NewServer(secret string, log *zap.Logger, opts ...Option) *Server {
	s := &Server{
		users:  make(map[string]*models.Identity),
		secret: []byte(secret),
		log:    log,
		now:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}

	admin := s.newUser("Admin")
	admin.IsAdmin = true
	s.users[admin.ID] = admin

	s.items = []models.ShopItem{
		{ID: "vip-rank", Name: "VIP rank", Description: "Colored name and /fly in the lobby", Price: 500},
		{ID: "home-5", Name: "Extra homes", Description: "Five additional /sethome slots", Price: 150},
		{ID: "kit-iron", Name: "Iron starter kit", Description: "Full iron gear on respawn", Price: 75},
	}

	start := s.now().Add(-10 * time.Minute)
	s.logs = []models.LogEntry{
		{Timestamp: start, Level: "INFO", Message: "Server started on port 25565"},
		{Timestamp: start.Add(time.Minute), Level: "INFO", Message: "Admin joined the game"},
		{Timestamp: start.Add(5 * time.Minute), Level: "WARN", Message: "Can't keep up! Is the server overloaded?"},
	}
	return s
}

// newUser builds a user with a deterministic game UUID derived from the
// username, the way offline-mode servers do.
func (s *Server) newUser(username string) *models.Identity {
	return &models.Identity{
		ID:        uuid.NewString(),
		Username:  username,
		UUID:      uuid.NewMD5(uuid.NameSpaceOID, []byte("OfflinePlayer:"+username)).String(),
		AvatarURL: "https://mc-heads.net/avatar/" + username,
		CreatedAt: s.now().UTC(),
	}
}

// Handler returns the HTTP handler serving the contract under /api.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.withRequestLogging)

	r.Route("/api", func(r chi.Router) {
		// Public endpoints.
		r.Post("/auth/login", s.handleLogin)
		r.Get("/server/status", s.handleServerStatus)
		r.Get("/server/players", s.handleOnlinePlayers)
		r.Get("/shop/items", s.handleShopItems)

		// Member endpoints.
		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/auth/me", s.handleMe)
			r.Get("/shop/purchases", s.handleMyPurchases)
			r.Post("/shop/purchase/{itemID}", s.handlePurchase)
		})

		// Admin endpoints.
		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth, s.requireAdmin)
			r.Get("/users", s.handleUsers)
			r.Put("/users/{userID}/admin", s.handleToggleAdmin)
			r.Delete("/users/{userID}", s.handleDeleteUser)
			r.Get("/admin/stats", s.handleAdminStats)
			r.Get("/admin/users/activity", s.handleUserActivity)
			r.Get("/admin/server/logs", s.handleServerLogs)
			r.Get("/admin/shop/purchases", s.handleAdminPurchases)
		})
	})

	return r
}

// statusRecorder captures the response code for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) withRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := s.now()
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("took", s.now().Sub(start)),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError emits the backend's error payload shape: {"detail": "..."}.
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
