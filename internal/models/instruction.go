package models

// DefaultInstructionID is reserved for the single built-in instruction.
const DefaultInstructionID = "default"

type Instruction struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Content   string `json:"content"`
	IsDefault bool   `json:"isDefault"`
}
