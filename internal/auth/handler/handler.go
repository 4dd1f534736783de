package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"personnel/internal/platform/middleware"
	dErrors "personnel/pkg/domain-errors"
	"personnel/pkg/platform/httputil"
)

// TokenIssuer mints access tokens for API users.
type TokenIssuer interface {
	GenerateAccessToken(userID string, role string, expiresIn time.Duration) (string, error)
}

// Handler serves the token-minting endpoint. It sits behind the bcrypt-hashed
// admin key, not behind JWT auth, since it is what bootstraps the tokens.
type Handler struct {
	logger       *slog.Logger
	issuer       TokenIssuer
	adminKeyHash string
	tokenTTL     time.Duration
}

// New creates a new auth Handler.
func New(issuer TokenIssuer, adminKeyHash string, tokenTTL time.Duration, logger *slog.Logger) *Handler {
	return &Handler{
		logger:       logger,
		issuer:       issuer,
		adminKeyHash: adminKeyHash,
		tokenTTL:     tokenTTL,
	}
}

// Register mounts the auth routes on the chi router.
func (h *Handler) Register(r chi.Router) {
	authRouter := chi.NewRouter()
	authRouter.Use(middleware.Recovery(h.logger))
	authRouter.Use(middleware.RequestID)
	authRouter.Use(middleware.Logger(h.logger))
	authRouter.Use(middleware.ContentTypeJSON)
	authRouter.Use(middleware.RequireAdminKey(h.adminKeyHash, h.logger))
	authRouter.Post("/token", h.handleIssueToken)

	r.Mount("/auth", authRouter)
}

type issueTokenRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

type issueTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

func (h *Handler) handleIssueToken(w http.ResponseWriter, r *http.Request) {
	var req issueTokenRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if req.UserID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "user_id is required"))
		return
	}
	if req.Role == "" {
		req.Role = "viewer"
	}

	token, err := h.issuer.GenerateAccessToken(req.UserID, req.Role, h.tokenTTL)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to issue token", "error", err)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to issue token"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, issueTokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(h.tokenTTL.Seconds()),
	})
}
