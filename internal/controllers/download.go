package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/webrtc-analyzer/backend/internal/services"
)

// serveExport writes an export blob as a browser-style download. A nil file
// means the selection was empty and nothing is produced.
func serveExport(c *gin.Context, file *services.ExportFile) {
	if file == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
