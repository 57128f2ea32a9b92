package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/webrtc-analyzer/backend/internal/logger"
	"github.com/webrtc-analyzer/backend/internal/models"
	"github.com/webrtc-analyzer/backend/internal/services"
)

type InstructionController struct {
	instructions *services.InstructionsService
	exporter     *services.ExportService
}

func NewInstructionController(instructions *services.InstructionsService, exporter *services.ExportService) *InstructionController {
	return &InstructionController{instructions: instructions, exporter: exporter}
}

// GetInstructions returns all instructions, default first
func (ic *InstructionController) GetInstructions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"instructions": ic.instructions.List()})
}

// GetInstruction returns a single instruction by id
func (ic *InstructionController) GetInstruction(c *gin.Context) {
	instruction, ok := ic.instructions.GetInstruction(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Instruction not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"instruction": instruction})
}

type instructionRequest struct {
	Name    string `json:"name" binding:"required"`
	Content string `json:"content"`
}

// CreateInstruction adds a user instruction
func (ic *InstructionController) CreateInstruction(c *gin.Context) {
	var req instructionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	instruction := ic.instructions.AddInstruction(req.Name, req.Content)
	c.JSON(http.StatusCreated, gin.H{"instruction": instruction})
}

// UpdateInstruction edits a user instruction. The default instruction is
// silently left unchanged.
func (ic *InstructionController) UpdateInstruction(c *gin.Context) {
	var req instructionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	ic.instructions.UpdateInstruction(c.Param("id"), req.Name, req.Content)
	c.JSON(http.StatusOK, gin.H{"message": "Instruction updated"})
}

// DeleteInstruction removes a user instruction
func (ic *InstructionController) DeleteInstruction(c *gin.Context) {
	ic.instructions.DeleteInstruction(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"message": "Instruction deleted"})
}

// DuplicateInstruction copies any instruction into a new user instruction
func (ic *InstructionController) DuplicateInstruction(c *gin.Context) {
	duplicate, ok := ic.instructions.DuplicateInstruction(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Instruction not found"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"instruction": duplicate})
}

// ClearInstructions removes every user instruction, keeping the default
func (ic *InstructionController) ClearInstructions(c *gin.Context) {
	ic.instructions.ClearAll()
	c.JSON(http.StatusOK, gin.H{"message": "All user instructions deleted"})
}

// ImportInstruction creates an instruction from an uploaded .txt or .md file
func (ic *InstructionController) ImportInstruction(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	src, err := file.Open()
	if err != nil {
		logger.WithError(err, "instruction_controller").Error("Failed to open uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		logger.WithError(err, "instruction_controller").Error("Failed to read uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}

	instruction, err := ic.instructions.ImportInstruction(file.Filename, string(content))
	if err != nil {
		var importErr *services.ImportError
		if errors.As(err, &importErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": importErr.Error()})
			return
		}
		logger.WithError(err, "instruction_controller").Error("Failed to import instruction")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to import instruction"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"instruction": instruction})
}

// ExportInstructions downloads the selected instructions, or all of them
// when no ids are given.
func (ic *InstructionController) ExportInstructions(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var selected []models.Instruction
	if len(req.IDs) == 0 {
		selected = ic.instructions.List()
	} else {
		for _, id := range req.IDs {
			if instruction, ok := ic.instructions.GetInstruction(id); ok {
				selected = append(selected, instruction)
			}
		}
	}

	file, err := ic.exporter.ExportInstructions(selected)
	if err != nil {
		logger.WithError(err, "instruction_controller").Error("Failed to export instructions")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export instructions"})
		return
	}
	serveExport(c, file)
}
