package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/webrtc-analyzer/backend/internal/logger"
	"github.com/webrtc-analyzer/backend/internal/models"
	"github.com/webrtc-analyzer/backend/internal/storage"
)

const (
	// DefaultCompletionURL is used when no COMPLETION_URL is configured.
	DefaultCompletionURL = "https://openrouter.ai/api/v1/completions"

	defaultTemperature = 0.2
	defaultMaxTokens   = 1000
)

// AnalysisRequest describes one analysis pipeline call. Instruction is
// optional; when nil the prompt carries an empty instruction body.
type AnalysisRequest struct {
	Log              models.Log
	Instruction      *models.Instruction
	Model            string
	Temperature      *float64
	MaxTokens        *int
	AdditionalPrompt string
}

type completionRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Text string `json:"text"`
	} `json:"choices"`
	Result string `json:"result"`
}

// AnalysisService is both the analysis results store and the pipeline that
// fills it: it builds a prompt from a log and an instruction, issues exactly
// one call to the completion endpoint and appends the mapped result.
type AnalysisService struct {
	mu       sync.Mutex
	store    storage.Store
	results  []models.AnalysisResult
	notifier notifier[[]models.AnalysisResult]

	settings *SettingsService
	client   *http.Client
	apiURL   string
}

func NewAnalysisService(store storage.Store, settings *SettingsService, apiURL string) *AnalysisService {
	if apiURL == "" {
		apiURL = DefaultCompletionURL
	}

	s := &AnalysisService{
		store:    store,
		settings: settings,
		client:   &http.Client{},
		apiURL:   apiURL,
	}

	saved, ok, err := store.Get(storage.KeyAnalysisResults)
	if err != nil {
		logger.WithStore(storage.KeyAnalysisResults).Warn("Failed to read persisted analysis results, starting empty")
		return s
	}
	if ok {
		if err := json.Unmarshal([]byte(saved), &s.results); err != nil {
			logger.WithStore(storage.KeyAnalysisResults).WithField("error", err.Error()).
				Warn("Failed to parse persisted analysis results, starting empty")
			s.results = nil
		}
	}

	return s
}

// AnalyzeLog runs one analysis call and persists the result on success.
// It fails with a ConfigurationError before any network I/O when no API key
// is configured, and with an AnalysisError on upstream failure; in both
// cases the results store is left unchanged.
func (s *AnalysisService) AnalyzeLog(ctx context.Context, req AnalysisRequest) (models.AnalysisResult, error) {
	apiKey := s.settings.GetAPIKey()
	if apiKey == "" {
		return models.AnalysisResult{}, &ConfigurationError{
			Message: "API key is not configured. Please set it in settings before running an analysis.",
		}
	}

	prompt := buildPrompt(req)

	temperature := defaultTemperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	maxTokens := defaultMaxTokens
	if req.MaxTokens != nil {
		maxTokens = *req.MaxTokens
	}

	body := completionRequest{
		Model:       req.Model,
		Prompt:      prompt,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return models.AnalysisResult{}, &AnalysisError{Message: "failed to marshal request", Err: err}
	}

	log := logger.WithAnalysis(req.Model, req.Log.ID)
	log.WithField("prompt_length", len(prompt)).Info("Sending analysis request")
	startTime := time.Now()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return models.AnalysisResult{}, &AnalysisError{Message: "failed to create request", Err: err}
	}
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	elapsed := time.Since(startTime)
	if err != nil {
		log.WithField("duration", elapsed.String()).Error("Analysis request failed")
		return models.AnalysisResult{}, &AnalysisError{Message: "completion request failed", Err: err}
	}
	defer resp.Body.Close()

	log.WithField("duration", elapsed.String()).WithField("status", resp.StatusCode).
		Info("Analysis request completed")

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return models.AnalysisResult{}, &AnalysisError{
			Message: fmt.Sprintf("completion API returned status %d, body: %s", resp.StatusCode, string(respBody)),
		}
	}

	var completion completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return models.AnalysisResult{}, &AnalysisError{Message: "failed to decode completion response", Err: err}
	}

	result := models.AnalysisResult{
		ID:               uuid.NewString(),
		LogID:            req.Log.ID,
		LogName:          req.Log.Name,
		Name:             req.Log.Name,
		Model:            req.Model,
		Date:             time.Now(),
		Result:           extractResultText(completion),
		InstructionID:    instructionID(req.Instruction),
		Temperature:      req.Temperature,
		MaxTokens:        req.MaxTokens,
		AdditionalPrompt: req.AdditionalPrompt,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, result)
	s.persist()
	s.notifier.emit(s.snapshot())
	return result, nil
}

// buildPrompt concatenates the fixed template, the raw log content and the
// instruction content. Deterministic for identical inputs.
func buildPrompt(req AnalysisRequest) string {
	instructionContent := ""
	if req.Instruction != nil {
		instructionContent = req.Instruction.Content
	}

	prompt := fmt.Sprintf(
		"Analyze this WebRTC log %s and give a detailed answer with recommendations for improvement. Use this instruction for the analysis %s; ",
		req.Log.Content,
		instructionContent,
	)
	if req.AdditionalPrompt != "" {
		prompt += req.AdditionalPrompt
	}
	return prompt
}

// extractResultText maps the response body to the stored result text. A body
// carrying neither field maps to an empty string rather than failing.
func extractResultText(completion completionResponse) string {
	if len(completion.Choices) > 0 {
		return completion.Choices[0].Text
	}
	return completion.Result
}

func instructionID(instruction *models.Instruction) string {
	if instruction == nil {
		return ""
	}
	return instruction.ID
}

// Results returns a snapshot of all analysis results in insertion order.
func (s *AnalysisService) Results() []models.AnalysisResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// GetResult returns a result by id.
func (s *AnalysisService) GetResult(id string) (models.AnalysisResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, result := range s.results {
		if result.ID == id {
			return result, true
		}
	}
	return models.AnalysisResult{}, false
}

// DeleteResult removes the matching result if present.
func (s *AnalysisService) DeleteResult(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.results[:0]
	for _, result := range s.results {
		if result.ID != id {
			kept = append(kept, result)
		}
	}
	s.results = kept
	s.persist()
	s.notifier.emit(s.snapshot())
}

// ClearAll removes every result.
func (s *AnalysisService) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = nil
	s.persist()
	s.notifier.emit(s.snapshot())
}

// Subscribe registers fn to receive the full list after every mutation.
func (s *AnalysisService) Subscribe(fn func([]models.AnalysisResult)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	unsubscribe := s.notifier.subscribe(fn)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		unsubscribe()
	}
}

func (s *AnalysisService) snapshot() []models.AnalysisResult {
	snapshot := make([]models.AnalysisResult, len(s.results))
	copy(snapshot, s.results)
	return snapshot
}

func (s *AnalysisService) persist() {
	data, err := json.Marshal(s.results)
	if err != nil {
		logger.WithError(err, "analysis_service").Error("Failed to serialize analysis results")
		return
	}
	if err := s.store.Set(storage.KeyAnalysisResults, string(data)); err != nil {
		logger.WithError(err, "analysis_service").Error("Failed to persist analysis results")
	}
}
