package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/webrtc-analyzer/backend/internal/services"
)

type ErrorLogController struct {
	errorLog *services.ErrorLogService
}

func NewErrorLogController(errorLog *services.ErrorLogService) *ErrorLogController {
	return &ErrorLogController{errorLog: errorLog}
}

// GetErrors returns all captured errors, newest first
func (ec *ErrorLogController) GetErrors(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"errors": ec.errorLog.List()})
}

// DeleteError removes one captured error
func (ec *ErrorLogController) DeleteError(c *gin.Context) {
	ec.errorLog.DeleteError(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"message": "Error deleted"})
}

// ClearErrors removes all captured errors
func (ec *ErrorLogController) ClearErrors(c *gin.Context) {
	ec.errorLog.ClearAll()
	c.JSON(http.StatusOK, gin.H{"message": "All errors deleted"})
}
