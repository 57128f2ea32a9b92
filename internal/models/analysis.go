package models

import "time"

// Chart is a placeholder for future result visualizations. Nothing populates
// it yet; the field is kept so persisted results stay forward compatible.
type Chart struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// AnalysisResult is the persisted outcome of one completed analysis call.
// Records are immutable after creation. LogID and InstructionID are plain
// copies of the source identifiers and may dangle once the source entity is
// deleted; readers render a fallback label in that case.
type AnalysisResult struct {
	ID               string    `json:"id"`
	LogID            string    `json:"logId"`
	LogName          string    `json:"logName"`
	Name             string    `json:"name"`
	Model            string    `json:"model"`
	Date             time.Time `json:"date"`
	Result           string    `json:"result"`
	InstructionID    string    `json:"instructionId"`
	Temperature      *float64  `json:"temperature,omitempty"`
	MaxTokens        *int      `json:"maxTokens,omitempty"`
	AdditionalPrompt string    `json:"additionalPrompt,omitempty"`
	Charts           []Chart   `json:"charts,omitempty"`
}
