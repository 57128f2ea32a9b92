package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/webrtc-analyzer/backend/internal/services"
)

type SettingsController struct {
	settings *services.SettingsService
	theme    *services.ThemeService
}

func NewSettingsController(settings *services.SettingsService, theme *services.ThemeService) *SettingsController {
	return &SettingsController{settings: settings, theme: theme}
}

// GetSettings returns the current settings record
func (sc *SettingsController) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"settings": sc.settings.Settings()})
}

// UpdateSettings merges a partial update into the settings record
func (sc *SettingsController) UpdateSettings(c *gin.Context) {
	var req services.SettingsUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	settings := sc.settings.UpdateSettings(req)
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// GetTheme returns the persisted theme preference
func (sc *SettingsController) GetTheme(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"theme": sc.theme.Theme()})
}

type themeRequest struct {
	Theme string `json:"theme" binding:"required"`
}

// SetTheme stores the theme preference
func (sc *SettingsController) SetTheme(c *gin.Context) {
	var req themeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"theme": sc.theme.SetTheme(req.Theme)})
}
