package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gotruck.backend/internal/domain/entities"
	domainerrors "gotruck.backend/internal/domain/errors"
	"gotruck.backend/internal/interfaces/http/middleware"
	"gotruck.backend/internal/interfaces/http/response"
	"gotruck.backend/internal/usecases"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authUsecase *usecases.AuthUsecase
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authUsecase *usecases.AuthUsecase) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
	}
}

// Register handles driver and agent registration
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var input entities.RegisterActorInput

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	actor, err := h.authUsecase.Register(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"message": "Registration successful. Your account is pending approval.",
		"actor": gin.H{
			"id":           actor.ID,
			"email":        actor.Email,
			"fullName":     actor.FullName,
			"role":         actor.Role,
			"tier":         actor.Tier,
			"referralCode": actor.ReferralCode,
		},
	})
}

type loginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login handles actor login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var input loginInput

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	loginResp, err := h.authUsecase.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"accessToken":  loginResp.TokenPair.AccessToken,
		"refreshToken": loginResp.TokenPair.RefreshToken,
		"sessionId":    loginResp.SessionID,
		"actor": gin.H{
			"id":             loginResp.Actor.ID,
			"email":          loginResp.Actor.Email,
			"fullName":       loginResp.Actor.FullName,
			"role":           loginResp.Actor.Role,
			"tier":           loginResp.Actor.Tier,
			"referralCode":   loginResp.Actor.ReferralCode,
			"approvalStatus": loginResp.Actor.ApprovalStatus,
		},
	})
}

// AdminLogin authenticates the back-office account
// POST /api/v1/auth/admin/login
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var input loginInput

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	tokenPair, err := h.authUsecase.AdminLogin(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"accessToken":  tokenPair.AccessToken,
		"refreshToken": tokenPair.RefreshToken,
	})
}

// Logout drops the server-side session
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var input struct {
		SessionID string `json:"sessionId"`
	}
	_ = c.ShouldBindJSON(&input)

	if err := h.authUsecase.Logout(c.Request.Context(), input.SessionID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Logged out"})
}

// Profile returns the authenticated actor
// GET /api/v1/auth/profile
func (h *AuthHandler) Profile(c *gin.Context) {
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("authentication required"))
		return
	}

	actor, err := h.authUsecase.Profile(c.Request.Context(), actorID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, actor)
}
