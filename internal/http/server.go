package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/unrolled/secure"
	"go.uber.org/zap"

	"github.com/Hossain-Anas/UniVerse/internal/auth"
	"github.com/Hossain-Anas/UniVerse/internal/banner"
	"github.com/Hossain-Anas/UniVerse/internal/book"
	"github.com/Hossain-Anas/UniVerse/internal/config"
	"github.com/Hossain-Anas/UniVerse/internal/db"
	"github.com/Hossain-Anas/UniVerse/internal/notification"
	"github.com/Hossain-Anas/UniVerse/internal/push"
	"github.com/Hossain-Anas/UniVerse/internal/session"
	"github.com/Hossain-Anas/UniVerse/internal/toast"
	"github.com/Hossain-Anas/UniVerse/internal/validate"
	"github.com/Hossain-Anas/UniVerse/internal/zlog"
)

type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (db.User, error)
	CreateUser(ctx context.Context, arg db.CreateUserParams) (db.User, error)
}

type AdminChecker interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

type Deps struct {
	Banners       *banner.Service
	Notifications *notification.Service
	Reminders     session.ReminderRunner
	Books         *book.Service
	Users         UserStore
	Roles         AdminChecker
	SignIn        *session.SignInHook
	Toasts        *toast.Board
	Hub           *push.Hub
}

type Server struct {
	cfg           config.Config
	banners       *banner.Service
	notifications *notification.Service
	reminders     session.ReminderRunner
	books         *book.Service
	users         UserStore
	roles         AdminChecker
	signIn        *session.SignInHook
	toasts        *toast.Board
	hub           *push.Hub
	secure        *secure.Secure
	validator     *validate.Validator
}

func NewServer(cfg config.Config, deps Deps) *Server {
	return &Server{
		cfg:           cfg,
		banners:       deps.Banners,
		notifications: deps.Notifications,
		reminders:     deps.Reminders,
		books:         deps.Books,
		users:         deps.Users,
		roles:         deps.Roles,
		signIn:        deps.SignIn,
		toasts:        deps.Toasts,
		hub:           deps.Hub,
		validator:     validate.New(),
		secure: secure.New(secure.Options{
			AllowedHosts:       cfg.AllowedHosts,
			SSLRedirect:        cfg.SSLRedirect,
			SSLProxyHeaders:    map[string]string{"X-Forwarded-Proto": "https"},
			FrameDeny:          true,
			ContentTypeNosniff: true,
			BrowserXssFilter:   true,
			IsDevelopment:      cfg.LogDev,
		}),
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(s.secure.Handler)
	r.Use(s.sessionMiddleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/auth/login", s.handleLogin)
	r.Post("/auth/register", s.handleRegister)
	r.Get("/api/session", s.handleSession)
	r.With(s.requireUser("missing_token")).Post("/api/session/signed-in", s.handleSignedIn)
	r.With(s.requireTriggerToken).Post("/api/process-reminders", s.handleProcessReminders)

	r.Get("/banners/active", s.handleActiveBanners)

	r.Route("/admin/banner-requests", func(r chi.Router) {
		r.With(s.requireAdmin("You must be logged in to access this page")).Get("/", s.handleListBannerRequests)
		r.With(s.requireAdmin("You must be logged in to approve requests")).Post("/approve", s.handleApproveBannerRequest)
		r.With(s.requireAdmin("You must be logged in to reject requests")).Post("/reject", s.handleRejectBannerRequest)
		r.With(s.requireAdmin("You must be logged in to delete requests")).Post("/delete", s.handleDeleteBannerRequest)
	})

	r.Route("/myspace", func(r chi.Router) {
		r.Use(noStore)
		r.Post("/banner-request", s.handleCreateBannerRequest)
		r.With(s.requireUser("missing_token")).Get("/toasts", s.handleToasts)

		r.Route("/notifications", func(r chi.Router) {
			r.Use(s.requireUser("User not authenticated"))
			r.Get("/", s.handleListNotifications)
			r.Get("/unread", s.handleUnreadNotifications)
			r.Get("/count", s.handleUnreadCount)
			r.Post("/mark-read", s.handleMarkRead)
			r.Post("/mark-all-read", s.handleMarkAllRead)
			r.Post("/delete", s.handleDeleteNotification)
			r.Post("/process-overdue", s.handleProcessOverdue)
		})
	})

	r.Route("/library/books", func(r chi.Router) {
		r.Get("/", s.handleListBooks)
		r.Get("/available", s.handleAvailableBooks)
		r.Get("/{bookId}", s.handleGetBook)
		r.Get("/{bookId}/status", s.handleBookStatus)
	})

	r.With(s.requireUser("missing_token")).Get("/ws/notifications", s.handlePushStream)

	return r
}

// Auth middleware

type claimsKey struct{}

// sessionMiddleware attaches the caller's claims when a valid token is
// present. Routes decide for themselves what an anonymous caller gets.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			token = r.URL.Query().Get("access_token")
		}
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}
		claims, err := auth.ParseToken(s.cfg.JWTSecret, s.cfg.JWTIssuer, token)
		if err != nil {
			zlog.Debug("ignoring invalid token", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}
		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requireUser(message string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if claimsFromContext(r.Context()) == nil {
				writeError(w, http.StatusUnauthorized, message)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requireAdmin answers 401 with message for anonymous callers and 403 when
// the role lookup fails or the caller is not an admin.
func (s *Server) requireAdmin(message string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := claimsFromContext(r.Context())
			if claims == nil {
				writeError(w, http.StatusUnauthorized, message)
				return
			}
			ok, err := s.roles.IsAdmin(r.Context(), claims.UserID())
			if err != nil {
				zlog.Warn("role lookup failed", zap.String("user_id", claims.UserID()), zap.Error(err))
			}
			if err != nil || !ok {
				writeError(w, http.StatusForbidden, "Admin access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *Server) requireTriggerToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.ReminderTriggerToken == "" {
			next.ServeHTTP(w, r)
			return
		}
		token := r.Header.Get("X-Reminder-Token")
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing_trigger_token")
			return
		}
		if !auth.TokensEqual(token, s.cfg.ReminderTriggerToken) {
			writeError(w, http.StatusForbidden, "invalid_trigger_token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func claimsFromContext(ctx context.Context) *auth.Claims {
	value := ctx.Value(claimsKey{})
	claims, _ := value.(*auth.Claims)
	return claims
}

func noStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store, max-age=0, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		next.ServeHTTP(w, r)
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zlog.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// Helpers

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func formValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.PostFormValue(key))
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
