// Package handler provides the HTTP handlers for the auth feature.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace_backend/internal/api"
	"marketplace_backend/internal/feature/auth/transport/http/dto"
	"marketplace_backend/internal/feature/auth/usecase"
	"marketplace_backend/internal/shared/apperr"
)

// AuthUsecase defines the credential operations used by the handler.
type AuthUsecase interface {
	Register(ctx context.Context, in usecase.RegisterInput) (*usecase.Session, error)
	Authenticate(ctx context.Context, email, password string) (*usecase.Session, error)
}

// AuthHandler handles signup and login.
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Signup handles POST /user/signup (multipart form with an avatar file).
// Responds 201 with the new session.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupReq
	if err := c.ShouldBind(&req); err != nil {
		slog.Warn("signup binding failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.MessageResponse{Message: "invalid request"})
		return
	}
	avatar, err := api.FormFile(c, "avatar")
	if err != nil {
		slog.Warn("signup avatar unreadable", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.MessageResponse{Message: "invalid request"})
		return
	}

	session, err := h.auth.Register(c.Request.Context(), usecase.RegisterInput{
		Email:      req.Email,
		Username:   req.Username,
		Password:   req.Password,
		Newsletter: req.Newsletter,
		Avatar:     avatar,
	})
	if err != nil {
		logFailure("signup failed", err, "email", req.Email, "remote_addr", c.ClientIP())
		api.Error(c, err)
		return
	}

	slog.Info("user signup successful", "user_id", session.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, toSessionResponse(session))
}

// Login handles POST /user/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBind(&req); err != nil {
		slog.Warn("login binding failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.MessageResponse{Message: "invalid request"})
		return
	}

	session, err := h.auth.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		logFailure("login failed", err, "email", req.Email, "remote_addr", c.ClientIP())
		api.Error(c, err)
		return
	}

	slog.Info("user login successful", "user_id", session.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, toSessionResponse(session))
}

func logFailure(msg string, err error, args ...any) {
	args = append(args, "error", err, "kind", apperr.KindOf(err).String())
	if apperr.KindOf(err) == apperr.KindServer {
		slog.Error(msg, args...)
		return
	}
	slog.Warn(msg, args...)
}

func toSessionResponse(s *usecase.Session) api.SessionResponse {
	return api.SessionResponse{
		ID:    s.ID,
		Token: s.Token,
		Account: api.AccountResponse{
			Username: s.Account.Username,
			Avatar:   api.AvatarResponse{SecureURL: s.Account.AvatarURL},
		},
	}
}
