package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/webrtc-analyzer/backend/internal/logger"
	"github.com/webrtc-analyzer/backend/internal/models"
	"github.com/webrtc-analyzer/backend/internal/services"
)

type AnalysisController struct {
	analysis     *services.AnalysisService
	logs         *services.LogsService
	instructions *services.InstructionsService
	errorLog     *services.ErrorLogService
	exporter     *services.ExportService
}

func NewAnalysisController(
	analysis *services.AnalysisService,
	logs *services.LogsService,
	instructions *services.InstructionsService,
	errorLog *services.ErrorLogService,
	exporter *services.ExportService,
) *AnalysisController {
	return &AnalysisController{
		analysis:     analysis,
		logs:         logs,
		instructions: instructions,
		errorLog:     errorLog,
		exporter:     exporter,
	}
}

type analyzeRequest struct {
	LogID            string   `json:"logId" binding:"required"`
	InstructionID    string   `json:"instructionId"`
	Model            string   `json:"model" binding:"required"`
	Temperature      *float64 `json:"temperature"`
	MaxTokens        *int     `json:"maxTokens"`
	AdditionalPrompt string   `json:"additionalPrompt"`
}

// Analyze runs one analysis call for the selected log and instruction
func (ac *AnalysisController) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	log, ok := ac.logs.GetLog(req.LogID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Log not found"})
		return
	}

	// A missing or stale instruction id yields an empty instruction body.
	var instruction *models.Instruction
	if req.InstructionID != "" {
		if found, ok := ac.instructions.GetInstruction(req.InstructionID); ok {
			instruction = &found
		}
	}

	result, err := ac.analysis.AnalyzeLog(c.Request.Context(), services.AnalysisRequest{
		Log:              log,
		Instruction:      instruction,
		Model:            req.Model,
		Temperature:      req.Temperature,
		MaxTokens:        req.MaxTokens,
		AdditionalPrompt: req.AdditionalPrompt,
	})
	if err != nil {
		ac.errorLog.AddError(err.Error(), map[string]interface{}{
			"logId": req.LogID,
			"model": req.Model,
		})

		var configErr *services.ConfigurationError
		if errors.As(err, &configErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": configErr.Error()})
			return
		}
		var analysisErr *services.AnalysisError
		if errors.As(err, &analysisErr) {
			c.JSON(http.StatusBadGateway, gin.H{"error": analysisErr.Error()})
			return
		}
		logger.WithError(err, "analysis_controller").Error("Analysis failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Analysis failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"result": result})
}

// GetResults returns all analysis results
func (ac *AnalysisController) GetResults(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"results": ac.analysis.Results()})
}

// GetResult returns a single analysis result by id
func (ac *AnalysisController) GetResult(c *gin.Context) {
	result, ok := ac.analysis.GetResult(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Analysis result not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

// DeleteResult removes an analysis result
func (ac *AnalysisController) DeleteResult(c *gin.Context) {
	ac.analysis.DeleteResult(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"message": "Analysis result deleted"})
}

// ClearResults removes all analysis results
func (ac *AnalysisController) ClearResults(c *gin.Context) {
	ac.analysis.ClearAll()
	c.JSON(http.StatusOK, gin.H{"message": "All analysis results deleted"})
}

// ExportResults downloads the selected results as pretty-printed JSON, or
// all of them when no ids are given.
func (ac *AnalysisController) ExportResults(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var selected []models.AnalysisResult
	if len(req.IDs) == 0 {
		selected = ac.analysis.Results()
	} else {
		for _, id := range req.IDs {
			if result, ok := ac.analysis.GetResult(id); ok {
				selected = append(selected, result)
			}
		}
	}

	file, err := ac.exporter.ExportResults(selected)
	if err != nil {
		logger.WithError(err, "analysis_controller").Error("Failed to export analysis results")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export analysis results"})
		return
	}
	serveExport(c, file)
}

// ExportResultReport downloads one result as a structured plain-text report
func (ac *AnalysisController) ExportResultReport(c *gin.Context) {
	result, ok := ac.analysis.GetResult(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Analysis result not found"})
		return
	}

	file := ac.exporter.ExportResultReport(result)
	serveExport(c, &file)
}
