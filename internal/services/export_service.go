package services

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/webrtc-analyzer/backend/internal/models"
)

// ExportFile is a ready-to-download file blob.
type ExportFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// ExportService turns store entities into downloadable files. A single
// entity exports as one file; several entities of the same kind are packed
// into one zip archive named "<kind>_<date>.zip". An empty selection exports
// nothing.
type ExportService struct{}

func NewExportService() *ExportService {
	return &ExportService{}
}

// ExportLog exports one log's raw content under its original file name.
func (e *ExportService) ExportLog(log models.Log) ExportFile {
	return ExportFile{
		Name:        log.Name,
		ContentType: log.ContentType(),
		Data:        []byte(log.Content),
	}
}

// ExportLogs exports the selection, falling back to the single-file path for
// one log. Returns nil for an empty selection.
func (e *ExportService) ExportLogs(logs []models.Log) (*ExportFile, error) {
	if len(logs) == 0 {
		return nil, nil
	}
	if len(logs) == 1 {
		file := e.ExportLog(logs[0])
		return &file, nil
	}

	entries := make([]archiveEntry, 0, len(logs))
	for _, log := range logs {
		entries = append(entries, archiveEntry{name: log.Name, data: []byte(log.Content)})
	}
	return buildArchive("logs", entries)
}

// ExportInstruction exports one instruction's content as plain text.
func (e *ExportService) ExportInstruction(instruction models.Instruction) ExportFile {
	return ExportFile{
		Name:        instruction.Name + ".txt",
		ContentType: "text/plain; charset=utf-8",
		Data:        []byte(instruction.Content),
	}
}

// ExportInstructions exports the selection, falling back to the single-file
// path for one instruction. Returns nil for an empty selection.
func (e *ExportService) ExportInstructions(instructions []models.Instruction) (*ExportFile, error) {
	if len(instructions) == 0 {
		return nil, nil
	}
	if len(instructions) == 1 {
		file := e.ExportInstruction(instructions[0])
		return &file, nil
	}

	entries := make([]archiveEntry, 0, len(instructions))
	for _, instruction := range instructions {
		entries = append(entries, archiveEntry{
			name: instruction.Name + ".txt",
			data: []byte(instruction.Content),
		})
	}
	return buildArchive("instructions", entries)
}

// ExportResult exports one analysis result as pretty-printed JSON.
func (e *ExportService) ExportResult(result models.AnalysisResult) (ExportFile, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return ExportFile{}, fmt.Errorf("failed to serialize analysis result: %w", err)
	}
	return ExportFile{
		Name:        result.Name + ".json",
		ContentType: "application/json",
		Data:        data,
	}, nil
}

// ExportResults exports the selection, falling back to the single-file path
// for one result. Returns nil for an empty selection.
func (e *ExportService) ExportResults(results []models.AnalysisResult) (*ExportFile, error) {
	if len(results) == 0 {
		return nil, nil
	}
	if len(results) == 1 {
		file, err := e.ExportResult(results[0])
		if err != nil {
			return nil, err
		}
		return &file, nil
	}

	entries := make([]archiveEntry, 0, len(results))
	for _, result := range results {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to serialize analysis result: %w", err)
		}
		entries = append(entries, archiveEntry{name: result.Name + ".json", data: data})
	}
	return buildArchive("analysis_results", entries)
}

// ExportResultReport exports one analysis result as a structured plain-text
// report: header, metadata block, result body, chart listing if present.
func (e *ExportService) ExportResultReport(result models.AnalysisResult) ExportFile {
	var lines []string

	lines = append(lines, "=== WebRTC Log Analysis Result ===", "")

	lines = append(lines, "Metadata:")
	lines = append(lines, fmt.Sprintf("ID: %s", result.ID))
	lines = append(lines, fmt.Sprintf("Date: %s", result.Date.Format(time.RFC3339)))
	lines = append(lines, fmt.Sprintf("Model: %s", result.Model))
	lines = append(lines, fmt.Sprintf("Log ID: %s", result.LogID))
	lines = append(lines, fmt.Sprintf("Instruction ID: %s", result.InstructionID))
	lines = append(lines, "")

	lines = append(lines, "Analysis result:")
	lines = append(lines, result.Result)
	lines = append(lines, "")

	if len(result.Charts) > 0 {
		lines = append(lines, "Charts:")
		for _, chart := range result.Charts {
			lines = append(lines, fmt.Sprintf("- %s: %s", chart.ID, chart.Type))
		}
	}

	return ExportFile{
		Name:        fmt.Sprintf("analysis-result-%s.txt", result.ID),
		ContentType: "text/plain; charset=utf-8",
		Data:        []byte(strings.Join(lines, "\n")),
	}
}

type archiveEntry struct {
	name string
	data []byte
}

func buildArchive(kind string, entries []archiveEntry) (*ExportFile, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	for _, entry := range entries {
		f, err := w.Create(entry.name)
		if err != nil {
			return nil, fmt.Errorf("failed to add %q to archive: %w", entry.name, err)
		}
		if _, err := f.Write(entry.data); err != nil {
			return nil, fmt.Errorf("failed to write %q to archive: %w", entry.name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}

	return &ExportFile{
		Name:        fmt.Sprintf("%s_%s.zip", kind, time.Now().Format("2006-01-02")),
		ContentType: "application/zip",
		Data:        buf.Bytes(),
	}, nil
}
