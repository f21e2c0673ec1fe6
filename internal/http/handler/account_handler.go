package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/assetly/assetly-auth/internal/domain"
	"github.com/assetly/assetly-auth/internal/http/middleware"
	"github.com/assetly/assetly-auth/internal/service"
)

// AccountHandler serves tenant-scoped account management endpoints.
type AccountHandler struct {
	Auth *service.AuthService
}

// NewAccountHandler creates the handler set.
func NewAccountHandler(auth *service.AuthService) *AccountHandler {
	return &AccountHandler{Auth: auth}
}

// List returns the accounts of the caller's effective tenant. Administrators
// may select another tenant with the tenant_id query parameter.
func (h *AccountHandler) List(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": "Authentication required."})
		return
	}

	var requestedTenant int64
	if raw := c.Query("tenant_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "tenant_id must be a positive integer."})
			return
		}
		requestedTenant = parsed
	}

	views, err := h.Auth.ListAccounts(c.Request.Context(), identity, requestedTenant)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"accounts": views})
}

// Create provisions an account inside a tenant.
func (h *AccountHandler) Create(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": "Authentication required."})
		return
	}

	var req struct {
		TenantID int64  `json:"tenant_id"`
		Email    string `json:"email" binding:"required"`
		Name     string `json:"name"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid account payload."})
		return
	}

	view, err := h.Auth.CreateAccount(c.Request.Context(), identity, service.CreateAccountInput{
		TenantID: req.TenantID,
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

// Get returns a single account within the caller's reach.
func (h *AccountHandler) Get(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": "Authentication required."})
		return
	}

	accountID, ok := pathID(c, "id")
	if !ok {
		return
	}

	view, err := h.Auth.GetAccount(c.Request.Context(), identity, accountID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Delete removes an account. Callers can never delete themselves.
func (h *AccountHandler) Delete(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": "Authentication required."})
		return
	}

	accountID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.Auth.DeleteAccount(c.Request.Context(), identity, accountID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Unlock clears the failure state of an account and resolves its alerts.
func (h *AccountHandler) Unlock(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": "Authentication required."})
		return
	}

	accountID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.Auth.UnlockAccount(c.Request.Context(), identity, accountID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "unlocked"})
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Identifier must be a positive integer."})
		return 0, false
	}
	return id, true
}
