package httpapi

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"dtiestoque.org/internal/audit"
	"dtiestoque.org/internal/auth"
	"dtiestoque.org/internal/obs"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}

type loginResponse struct {
	Message   string          `json:"message"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	User      auth.PublicUser `json:"user"`
}

type registerRequest struct {
	Name       string `json:"nome"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Permission string `json:"permissao"`
}

type createdResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	session, err := a.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		obs.ObserveLogin(loginOutcome(err))
		_ = audit.LogEvent(r.Context(), "auth.login.failed", map[string]any{
			"email":  req.Email,
			"reason": loginOutcome(err),
		})
		handleAuthError(w, r, err)
		return
	}
	obs.ObserveLogin("success")
	_ = audit.LogEvent(r.Context(), "auth.login.succeeded", map[string]any{
		"email":      session.User.Email,
		"expires_at": session.ExpiresAt.Format(time.RFC3339),
	})

	writeJSON(w, http.StatusOK, loginResponse{
		Message:   "Login bem-sucedido!",
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      session.User,
	})
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	id, err := a.auth.Register(r.Context(), auth.RegisterRequest{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Permission: req.Permission,
	})
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "auth.user.registered", map[string]any{
		"id":    id,
		"email": req.Email,
	})
	writeJSON(w, http.StatusCreated, createdResponse{ID: id, Message: "Usuário criado com sucesso!"})
}

func loginOutcome(err error) string {
	switch {
	case errors.Is(err, auth.ErrMissingCredentials):
		return "missing_credentials"
	case errors.Is(err, auth.ErrUserNotFound):
		return "user_not_found"
	case errors.Is(err, auth.ErrInvalidSecret):
		return "invalid_secret"
	default:
		return "error"
	}
}

func handleAuthError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrMissingCredentials):
		writeError(w, r, http.StatusBadRequest, "Email e senha são obrigatórios.")
	case errors.Is(err, auth.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrUserNotFound):
		writeError(w, r, http.StatusNotFound, "Usuário não encontrado.")
	case errors.Is(err, auth.ErrInvalidSecret):
		writeError(w, r, http.StatusUnauthorized, "Senha inválida.")
	case errors.Is(err, auth.ErrInvalidToken):
		writeError(w, r, http.StatusUnauthorized, "invalid token")
	case errors.Is(err, auth.ErrDuplicateEmail):
		writeError(w, r, http.StatusConflict, "Email já cadastrado.")
	default:
		obs.Logger().Error("auth_failure",
			zap.String("request_id", RequestIDFromContext(r.Context())),
			zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
