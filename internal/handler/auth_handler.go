package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mwangikc/orderdesk/internal/auth"
)

// stateCookieName carries the OIDC state parameter across the redirect.
const stateCookieName = "oidc_state"

// AuthHandler handles OIDC login and token refresh
type AuthHandler struct {
	provider *auth.OIDCProvider
	issuer   *auth.TokenIssuer
	logger   *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(provider *auth.OIDCProvider, issuer *auth.TokenIssuer, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		provider: provider,
		issuer:   issuer,
		logger:   logger,
	}
}

// Login handles GET /auth/login: redirect to the identity provider.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/auth",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.provider.AuthCodeURL(state), http.StatusFound)
}

// Callback handles GET /auth/callback: exchange the authorization code,
// verify the id_token and issue local session tokens.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if errParam := query.Get("error"); errParam != "" {
		h.logger.Warn("identity provider returned error",
			slog.String("error", errParam),
			slog.String("description", query.Get("error_description")),
		)
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Login was denied by the identity provider")
		return
	}

	code := query.Get("code")
	if code == "" {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "Missing authorization code")
		return
	}

	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != query.Get("state") {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "State parameter mismatch")
		return
	}

	identity, err := h.provider.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("OIDC code exchange failed",
			slog.String("error", err.Error()),
		)
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Login could not be verified")
		return
	}

	pair, err := h.issuer.IssuePair(identity.Subject, identity.Email)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	h.logger.Info("user logged in",
		slog.String("subject", identity.Subject),
	)

	respondSuccess(w, pair)
}

// refreshRequest is the POST /auth/refresh body
type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh handles POST /auth/refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}
	if req.RefreshToken == "" {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "refresh_token is required")
		return
	}

	pair, err := h.issuer.Refresh(req.RefreshToken)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Refresh token is invalid or expired")
		return
	}

	respondSuccess(w, pair)
}
