package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/assetly/assetly-auth/internal/http/middleware"
	"github.com/assetly/assetly-auth/internal/service"
)

// AuthHandler serves registration, login and identity endpoints.
type AuthHandler struct {
	Auth *service.AuthService
}

// NewAuthHandler creates the handler set.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

// Register provisions a tenant together with its first administrator.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		TenantName    string `json:"tenant_name" binding:"required"`
		TenantAddress string `json:"tenant_address"`
		TenantContact string `json:"tenant_contact"`
		TenantSector  string `json:"tenant_sector"`
		TenantLogoURL string `json:"tenant_logo_url"`
		AdminName     string `json:"admin_name"`
		AdminEmail    string `json:"admin_email" binding:"required"`
		Password      string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid registration payload."})
		return
	}

	res, err := h.Auth.Register(c.Request.Context(), service.RegisterInput{
		TenantName:    req.TenantName,
		TenantAddress: req.TenantAddress,
		TenantContact: req.TenantContact,
		TenantSector:  req.TenantSector,
		TenantLogoURL: req.TenantLogoURL,
		AdminName:     req.AdminName,
		AdminEmail:    req.AdminEmail,
		Password:      req.Password,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

// Login exchanges credentials for a signed token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid login payload."})
		return
	}

	res, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// Me returns the account behind the presented token.
func (h *AuthHandler) Me(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": "Authentication required."})
		return
	}

	view, err := h.Auth.GetAccount(c.Request.Context(), identity, identity.AccountID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}
