package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dawapos/backend/internal/domain/identity"
	"github.com/dawapos/backend/internal/domain/shared"
	"github.com/dawapos/backend/internal/infrastructure/auth"
	"github.com/dawapos/backend/internal/infrastructure/logger"
	"github.com/dawapos/backend/internal/interfaces/http/middleware"
)

// AuthHandler serves login, logout and token refresh
type AuthHandler struct {
	users      identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(users identity.UserRepository, jwtService *auth.JWTService, blacklist auth.TokenBlacklist) *AuthHandler {
	return &AuthHandler{users: users, jwtService: jwtService, blacklist: blacklist}
}

// LoginRequest is the login payload. Tenant comes with the credentials
// because usernames are only unique per tenant.
type LoginRequest struct {
	TenantID uuid.UUID `json:"tenant_id" binding:"required"`
	Username string    `json:"username" binding:"required"`
	Password string    `json:"password" binding:"required"`
}

// RefreshRequest is the token refresh payload
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Login authenticates a user and issues a token pair
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	user, err := h.users.FindByUsername(c.Request.Context(), req.TenantID, req.Username)
	if err != nil || !user.IsActive || !user.CheckPassword(req.Password) {
		// One answer for unknown user, wrong password and disabled
		// account, so login probing learns nothing.
		respondError(c, shared.NewDomainError("LOGIN_FAILED", "invalid credentials"))
		return
	}

	pair, err := h.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		TenantID: user.TenantID,
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
		BranchID: user.BranchID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	logger.FromContext(c.Request.Context()).Info("user logged in",
		zap.String("tenant_id", user.TenantID.String()),
		zap.String("username", user.Username))
	respondOK(c, pair)
}

// Logout revokes the current access token
func (h *AuthHandler) Logout(c *gin.Context) {
	claimsValue, ok := c.Get(middleware.ContextKeyClaims)
	if !ok {
		respondError(c, shared.ErrUnauthorized)
		return
	}
	claims, ok := claimsValue.(*auth.Claims)
	if !ok {
		respondError(c, shared.ErrUnauthorized)
		return
	}

	if err := h.blacklist.Revoke(c.Request.Context(), claims.ID, claims.GetRemainingTTL()); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "logged out"})
}

// Refresh exchanges a valid refresh token for a new token pair
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		respondError(c, shared.NewDomainError("INVALID_TOKEN", "invalid refresh token"))
		return
	}

	revoked, err := h.blacklist.IsRevoked(c.Request.Context(), claims.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	if revoked {
		respondError(c, shared.NewDomainError("TOKEN_REVOKED", "refresh token has been revoked"))
		return
	}

	tenantID, err := claims.GetTenantUUID()
	if err != nil {
		respondError(c, shared.NewDomainError("INVALID_TOKEN", "invalid refresh token"))
		return
	}
	userID, err := claims.GetUserUUID()
	if err != nil {
		respondError(c, shared.NewDomainError("INVALID_TOKEN", "invalid refresh token"))
		return
	}

	// Re-read the user so a deactivated account cannot keep refreshing
	user, err := h.users.FindByIDForTenant(c.Request.Context(), tenantID, userID)
	if err != nil || !user.IsActive {
		respondError(c, shared.NewDomainError("INVALID_TOKEN", "account is no longer active"))
		return
	}

	// The old refresh token is single-use
	if err := h.blacklist.Revoke(c.Request.Context(), claims.ID, claims.GetRemainingTTL()); err != nil {
		respondError(c, err)
		return
	}

	pair, err := h.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		TenantID: user.TenantID,
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
		BranchID: user.BranchID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, pair)
}
