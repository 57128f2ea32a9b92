package routes

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/webrtc-analyzer/backend/internal/controllers"
	"github.com/webrtc-analyzer/backend/internal/services"
	"github.com/webrtc-analyzer/backend/internal/storage"
)

// SetupRoutes configures all application routes
func SetupRoutes(r *gin.Engine, store storage.Store) {
	// Initialize services
	settingsService := services.NewSettingsService(store)
	logsService := services.NewLogsService(store)
	instructionsService := services.NewInstructionsService(store)
	analysisService := services.NewAnalysisService(store, settingsService, os.Getenv("COMPLETION_URL"))
	errorLogService := services.NewErrorLogService(store)
	themeService := services.NewThemeService(store)
	exportService := services.NewExportService()

	// Initialize controllers
	logController := controllers.NewLogController(logsService, exportService)
	instructionController := controllers.NewInstructionController(instructionsService, exportService)
	analysisController := controllers.NewAnalysisController(analysisService, logsService, instructionsService, errorLogService, exportService)
	settingsController := controllers.NewSettingsController(settingsService, themeService)
	errorLogController := controllers.NewErrorLogController(errorLogService)

	// API routes
	api := r.Group("/api/v1")
	{
		// Logs
		logs := api.Group("/logs")
		{
			logs.POST("/upload", logController.UploadLog)
			logs.GET("", logController.GetLogs)
			logs.GET("/:id", logController.GetLog)
			logs.PUT("/:id", logController.RenameLog)
			logs.DELETE("/:id", logController.DeleteLog)
			logs.DELETE("", logController.ClearLogs)
			logs.POST("/export", logController.ExportLogs)
		}

		// Instructions
		instructions := api.Group("/instructions")
		{
			instructions.GET("", instructionController.GetInstructions)
			instructions.POST("", instructionController.CreateInstruction)
			instructions.GET("/:id", instructionController.GetInstruction)
			instructions.PUT("/:id", instructionController.UpdateInstruction)
			instructions.DELETE("/:id", instructionController.DeleteInstruction)
			instructions.DELETE("", instructionController.ClearInstructions)
			instructions.POST("/:id/duplicate", instructionController.DuplicateInstruction)
			instructions.POST("/import", instructionController.ImportInstruction)
			instructions.POST("/export", instructionController.ExportInstructions)
		}

		// Analysis
		analysis := api.Group("/analysis")
		{
			analysis.POST("", analysisController.Analyze)
			analysis.GET("/results", analysisController.GetResults)
			analysis.GET("/results/:id", analysisController.GetResult)
			analysis.DELETE("/results/:id", analysisController.DeleteResult)
			analysis.DELETE("/results", analysisController.ClearResults)
			analysis.POST("/results/export", analysisController.ExportResults)
			analysis.GET("/results/:id/report", analysisController.ExportResultReport)
		}

		// Settings
		settings := api.Group("/settings")
		{
			settings.GET("", settingsController.GetSettings)
			settings.PUT("", settingsController.UpdateSettings)
		}

		// Theme
		theme := api.Group("/theme")
		{
			theme.GET("", settingsController.GetTheme)
			theme.PUT("", settingsController.SetTheme)
		}

		// Error log
		errorLogs := api.Group("/errors")
		{
			errorLogs.GET("", errorLogController.GetErrors)
			errorLogs.DELETE("/:id", errorLogController.DeleteError)
			errorLogs.DELETE("", errorLogController.ClearErrors)
		}
	}
}
