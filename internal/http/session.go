package http

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/Hossain-Anas/UniVerse/internal/auth"
	"github.com/Hossain-Anas/UniVerse/internal/db"
	"github.com/Hossain-Anas/UniVerse/internal/validate"
	"github.com/Hossain-Anas/UniVerse/internal/zlog"
)

const invalidCredentials = "Invalid login credentials"

type userSummary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type authResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresIn   int64       `json:"expires_in"`
	User        userSummary `json:"user"`
	Redirect    string      `json:"redirect"`
}

type sessionBody struct {
	AccessToken string      `json:"access_token"`
	User        userSummary `json:"user"`
}

type credentials struct {
	Email    string `form:"email" validate:"bracu_email" msg:"bracu_email=Please use your BRACU email (@g.bracu.ac.bd)"`
	Password string `form:"password" validate:"campus_password" msg:"campus_password=Password must be at least 6 characters long"`
}

// credentialError applies the campus rules in the order users see them.
func (s *Server) credentialError(email, password string) string {
	if email == "" || password == "" {
		return "Email and password are required"
	}
	if err := s.validator.Struct(credentials{Email: email, Password: password}); err != nil {
		var verrs *validate.Errors
		if errors.As(err, &verrs) {
			return verrs.First()
		}
		return err.Error()
	}
	return ""
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	email := formValue(r, "email")
	password := r.PostFormValue("password")
	if msg := s.credentialError(email, password); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	user, err := s.users.GetUserByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusBadRequest, invalidCredentials)
			return
		}
		zlog.Error("user lookup failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		writeError(w, http.StatusBadRequest, invalidCredentials)
		return
	}

	userID := db.UUIDString(user.ID)
	sessionID := uuid.NewString()
	token, err := auth.NewAccessToken(s.cfg.JWTSecret, s.cfg.JWTIssuer, s.cfg.AccessTTL, userID, user.Email, sessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "token_error")
		return
	}

	// Signing in flushes overdue reminders; its failure never blocks login.
	if s.signIn != nil {
		if _, _, err := s.signIn.SignedIn(r.Context(), userID, sessionID); err != nil {
			zlog.Warn("sign-in hook failed", zap.String("user_id", userID), zap.Error(err))
		}
	}

	writeJSON(w, http.StatusOK, authResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.cfg.AccessTTL.Seconds()),
		User:        userSummary{ID: userID, Email: user.Email},
		Redirect:    "/myspace",
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	email := formValue(r, "email")
	password := r.PostFormValue("password")
	if msg := s.credentialError(email, password); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	user, err := s.users.CreateUser(r.Context(), db.CreateUserParams{
		Email:        email,
		PasswordHash: hash,
		Role:         "student",
	})
	if err != nil {
		if isUniqueViolation(err) {
			writeError(w, http.StatusConflict, "Email already registered")
			return
		}
		zlog.Error("create user failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]userSummary{
		"user": {ID: db.UUIDString(user.ID), Email: user.Email},
	})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"session": nil})
		return
	}
	token := bearerToken(r.Header.Get("Authorization"))
	if token == "" {
		token = r.URL.Query().Get("access_token")
	}
	writeJSON(w, http.StatusOK, map[string]sessionBody{
		"session": {
			AccessToken: token,
			User:        userSummary{ID: claims.UserID(), Email: claims.Email},
		},
	})
}

func (s *Server) handleSignedIn(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	result, ran, err := s.signIn.SignedIn(r.Context(), claims.UserID(), claims.SessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if result.Errors == nil {
		result.Errors = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": result, "ran": ran})
}

func (s *Server) handleToasts(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]interface{}{"toasts": s.toasts.Items(claims.UserID())})
}

func (s *Server) handleProcessReminders(w http.ResponseWriter, r *http.Request) {
	result, err := s.reminders.Process(r.Context())
	if err != nil {
		zlog.Error("process reminders failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}
