package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/assetly/assetly-auth/internal/http/middleware"
	"github.com/assetly/assetly-auth/internal/service"
)

// AlertHandler serves the security alert review endpoints.
type AlertHandler struct {
	Auth *service.AuthService
}

// NewAlertHandler creates the handler set.
func NewAlertHandler(auth *service.AuthService) *AlertHandler {
	return &AlertHandler{Auth: auth}
}

// List returns every security alert, unresolved first.
func (h *AlertHandler) List(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": "Authentication required."})
		return
	}

	alerts, err := h.Auth.ListAlerts(c.Request.Context(), identity)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}

// Resolve marks one alert as handled.
func (h *AlertHandler) Resolve(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": "Authentication required."})
		return
	}

	alertID, ok := pathID(c, "id")
	if !ok {
		return
	}

	alert, err := h.Auth.ResolveAlert(c.Request.Context(), identity, alertID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, alert)
}
