package services

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/webrtc-analyzer/backend/internal/logger"
	"github.com/webrtc-analyzer/backend/internal/models"
	"github.com/webrtc-analyzer/backend/internal/storage"
)

// ErrorLogService captures user-visible failures for later inspection.
// Entries are ordered newest first.
type ErrorLogService struct {
	mu       sync.Mutex
	store    storage.Store
	errors   []models.ErrorLog
	notifier notifier[[]models.ErrorLog]
}

func NewErrorLogService(store storage.Store) *ErrorLogService {
	s := &ErrorLogService{store: store}

	saved, ok, err := store.Get(storage.KeyErrorLogs)
	if err != nil {
		logger.WithStore(storage.KeyErrorLogs).Warn("Failed to read persisted error log, starting empty")
		return s
	}
	if ok {
		if err := json.Unmarshal([]byte(saved), &s.errors); err != nil {
			logger.WithStore(storage.KeyErrorLogs).WithField("error", err.Error()).
				Warn("Failed to parse persisted error log, starting empty")
			s.errors = nil
		}
	}

	return s
}

// List returns a snapshot, newest first.
func (s *ErrorLogService) List() []models.ErrorLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// AddError prepends a new entry.
func (s *ErrorLogService) AddError(message string, details any) models.ErrorLog {
	entry := models.ErrorLog{
		ID:      uuid.NewString(),
		Date:    time.Now(),
		Message: message,
		Details: details,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append([]models.ErrorLog{entry}, s.errors...)
	s.persist()
	s.notifier.emit(s.snapshot())
	return entry
}

// DeleteError removes the matching entry if present.
func (s *ErrorLogService) DeleteError(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.errors[:0]
	for _, entry := range s.errors {
		if entry.ID != id {
			kept = append(kept, entry)
		}
	}
	s.errors = kept
	s.persist()
	s.notifier.emit(s.snapshot())
}

// ClearAll removes every entry.
func (s *ErrorLogService) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = nil
	s.persist()
	s.notifier.emit(s.snapshot())
}

// Subscribe registers fn to receive the full list after every mutation.
func (s *ErrorLogService) Subscribe(fn func([]models.ErrorLog)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	unsubscribe := s.notifier.subscribe(fn)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		unsubscribe()
	}
}

func (s *ErrorLogService) snapshot() []models.ErrorLog {
	snapshot := make([]models.ErrorLog, len(s.errors))
	copy(snapshot, s.errors)
	return snapshot
}

func (s *ErrorLogService) persist() {
	data, err := json.Marshal(s.errors)
	if err != nil {
		logger.WithError(err, "errorlog_service").Error("Failed to serialize error log")
		return
	}
	if err := s.store.Set(storage.KeyErrorLogs, string(data)); err != nil {
		logger.WithError(err, "errorlog_service").Error("Failed to persist error log")
	}
}
