package controllers

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/webrtc-analyzer/backend/internal/logger"
	"github.com/webrtc-analyzer/backend/internal/models"
	"github.com/webrtc-analyzer/backend/internal/services"
)

type LogController struct {
	logs     *services.LogsService
	exporter *services.ExportService
}

func NewLogController(logs *services.LogsService, exporter *services.ExportService) *LogController {
	return &LogController{logs: logs, exporter: exporter}
}

// UploadLog handles log file upload
func (lc *LogController) UploadLog(c *gin.Context) {
	file, err := c.FormFile("logfile")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	// Validate file extension
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".json" && ext != ".log" && ext != ".txt" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only JSON, LOG, and TXT files are supported"})
		return
	}

	src, err := file.Open()
	if err != nil {
		logger.WithError(err, "log_controller").Error("Failed to open uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		logger.WithError(err, "log_controller").Error("Failed to read uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}

	log := lc.logs.AddLog(file.Filename, string(content))

	logger.Info("Log uploaded", map[string]interface{}{
		"log_id": log.ID,
		"name":   log.Name,
		"type":   log.Type,
		"size":   len(content),
	})

	c.JSON(http.StatusCreated, gin.H{"log": log})
}

// GetLogs returns all uploaded logs
func (lc *LogController) GetLogs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"logs": lc.logs.List()})
}

// GetLog returns a single log by id
func (lc *LogController) GetLog(c *gin.Context) {
	log, ok := lc.logs.GetLog(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Log not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"log": log})
}

type renameLogRequest struct {
	Name string `json:"name" binding:"required"`
}

// RenameLog updates a log's display name
func (lc *LogController) RenameLog(c *gin.Context) {
	var req renameLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	lc.logs.UpdateLogName(c.Param("id"), req.Name)
	c.JSON(http.StatusOK, gin.H{"message": "Log renamed"})
}

// DeleteLog removes a log
func (lc *LogController) DeleteLog(c *gin.Context) {
	lc.logs.DeleteLog(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"message": "Log deleted"})
}

// ClearLogs removes all logs
func (lc *LogController) ClearLogs(c *gin.Context) {
	lc.logs.ClearAll()
	c.JSON(http.StatusOK, gin.H{"message": "All logs deleted"})
}

type exportRequest struct {
	IDs []string `json:"ids"`
}

// ExportLogs downloads the selected logs, or all of them when no ids are
// given. One log exports as a raw file, several as a zip archive.
func (lc *LogController) ExportLogs(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var selected []models.Log
	if len(req.IDs) == 0 {
		selected = lc.logs.List()
	} else {
		for _, id := range req.IDs {
			if log, ok := lc.logs.GetLog(id); ok {
				selected = append(selected, log)
			}
		}
	}

	file, err := lc.exporter.ExportLogs(selected)
	if err != nil {
		logger.WithError(err, "log_controller").Error("Failed to export logs")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export logs"})
		return
	}
	serveExport(c, file)
}
