package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/student-gifts/internal/domain"
	"github.com/gin-gonic/gin"
)

// authUsecaser is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authUsecaser interface {
	Authenticate(ctx context.Context, creds domain.SignInCreds) (string, error)
	CreateUser(ctx context.Context, form domain.SignUpFormData) (string, error)
	MatchUser(ctx context.Context, email string) (string, error)
	UpdatePassword(ctx context.Context, creds domain.SignInCreds, token string) error
}

type AuthHandler struct {
	authUsecase authUsecaser
	logger      *slog.Logger
}

func NewAuthHandler(authUsecase authUsecaser, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		logger:      logger.With("component", "auth_handler"),
	}
}

type credentialsRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=4"`
}

type signUpRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=4"`
	FullName string `json:"fullName" binding:"required,min=2"`
}

type matchUserRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type signUpResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// POST /api/v1/sign-in
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(bindError(errInvalidBody, err))
		return
	}

	tok, err := h.authUsecase.Authenticate(c.Request.Context(), domain.SignInCreds{Email: req.Email, Password: req.Password})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, tokenResponse{Token: tok})
}

// POST /api/v1/sign-up
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(bindError(errInvalidBody, err))
		return
	}

	tok, err := h.authUsecase.CreateUser(c.Request.Context(), domain.SignUpFormData{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.logger.InfoContext(c.Request.Context(), "user signed up", "email", req.Email)
	c.JSON(http.StatusCreated, signUpResponse{Message: "User created successfully", Token: tok})
}

// POST /api/v1/match-user
// Starts a password reset and returns the one-time token.
func (h *AuthHandler) MatchUser(c *gin.Context) {
	var req matchUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(bindError(errInvalidBody, err))
		return
	}

	tok, err := h.authUsecase.MatchUser(c.Request.Context(), req.Email)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, tokenResponse{Token: tok})
}

// POST /api/v1/update-password
// Authorization carries the one-time token from match-user.
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	tok, err := authToken(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(bindError(errInvalidBody, err))
		return
	}

	err = h.authUsecase.UpdatePassword(c.Request.Context(), domain.SignInCreds{Email: req.Email, Password: req.Password}, tok)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, messageResponse{Message: "Password updated successfully"})
}
