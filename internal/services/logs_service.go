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

// LogsService holds the ordered list of uploaded logs, mirrors every mutation
// to durable storage and notifies subscribers with the full new snapshot.
type LogsService struct {
	mu       sync.Mutex
	store    storage.Store
	logs     []models.Log
	notifier notifier[[]models.Log]
}

func NewLogsService(store storage.Store) *LogsService {
	s := &LogsService{store: store}

	saved, ok, err := store.Get(storage.KeyLogs)
	if err != nil {
		logger.WithStore(storage.KeyLogs).Warn("Failed to read persisted logs, starting empty")
		return s
	}
	if ok {
		if err := json.Unmarshal([]byte(saved), &s.logs); err != nil {
			// Corrupted blob must not crash startup.
			logger.WithStore(storage.KeyLogs).WithField("error", err.Error()).
				Warn("Failed to parse persisted logs, starting empty")
			s.logs = nil
		}
	}

	return s
}

// List returns a snapshot of all logs in insertion order.
func (s *LogsService) List() []models.Log {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// AddLog creates a log from an uploaded file's name and raw content.
func (s *LogsService) AddLog(name, content string) models.Log {
	log := models.Log{
		ID:      uuid.NewString(),
		Name:    name,
		Content: content,
		Date:    time.Now(),
		Type:    models.LogTypeForName(name),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, log)
	s.persist()
	s.notifier.emit(s.snapshot())
	return log
}

// UpdateLogName renames the matching log. Unknown ids are ignored.
func (s *LogsService) UpdateLogName(id, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.logs {
		if s.logs[i].ID == id {
			s.logs[i].Name = name
			s.persist()
			s.notifier.emit(s.snapshot())
			return
		}
	}
}

// DeleteLog removes the matching log if present.
func (s *LogsService) DeleteLog(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.logs[:0]
	for _, log := range s.logs {
		if log.ID != id {
			kept = append(kept, log)
		}
	}
	s.logs = kept
	s.persist()
	s.notifier.emit(s.snapshot())
}

// GetLog returns a log by id.
func (s *LogsService) GetLog(id string) (models.Log, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, log := range s.logs {
		if log.ID == id {
			return log, true
		}
	}
	return models.Log{}, false
}

// ClearAll removes every log.
func (s *LogsService) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = nil
	s.persist()
	s.notifier.emit(s.snapshot())
}

// Subscribe registers fn to receive the full list after every mutation. The
// returned function unsubscribes.
func (s *LogsService) Subscribe(fn func([]models.Log)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	unsubscribe := s.notifier.subscribe(fn)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		unsubscribe()
	}
}

func (s *LogsService) snapshot() []models.Log {
	snapshot := make([]models.Log, len(s.logs))
	copy(snapshot, s.logs)
	return snapshot
}

func (s *LogsService) persist() {
	data, err := json.Marshal(s.logs)
	if err != nil {
		logger.WithError(err, "logs_service").Error("Failed to serialize logs")
		return
	}
	if err := s.store.Set(storage.KeyLogs, string(data)); err != nil {
		// In-memory state survives storage failures.
		logger.WithError(err, "logs_service").Error("Failed to persist logs")
	}
}
