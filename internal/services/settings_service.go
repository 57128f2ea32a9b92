package services

import (
	"encoding/json"
	"sync"

	"github.com/webrtc-analyzer/backend/internal/logger"
	"github.com/webrtc-analyzer/backend/internal/models"
	"github.com/webrtc-analyzer/backend/internal/storage"
)

// SettingsUpdate carries the fields of a partial settings update; nil fields
// keep their current value.
type SettingsUpdate struct {
	APIKey *string `json:"apiKey"`
}

// SettingsService is the single-record store for application settings.
type SettingsService struct {
	mu       sync.Mutex
	store    storage.Store
	settings models.Settings
	notifier notifier[models.Settings]
}

func NewSettingsService(store storage.Store) *SettingsService {
	s := &SettingsService{store: store}

	saved, ok, err := store.Get(storage.KeySettings)
	if err != nil {
		logger.WithStore(storage.KeySettings).Warn("Failed to read persisted settings, using defaults")
		return s
	}
	if ok {
		if err := json.Unmarshal([]byte(saved), &s.settings); err != nil {
			logger.WithStore(storage.KeySettings).WithField("error", err.Error()).
				Warn("Failed to parse persisted settings, using defaults")
			s.settings = models.Settings{}
		}
	}

	return s
}

// Settings returns the current record.
func (s *SettingsService) Settings() models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// GetAPIKey returns the configured credential, empty when never set.
func (s *SettingsService) GetAPIKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.APIKey
}

// UpdateSettings merges the partial update into the current record, persists
// it and emits the merged record to subscribers.
func (s *SettingsService) UpdateSettings(update SettingsUpdate) models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	if update.APIKey != nil {
		s.settings.APIKey = *update.APIKey
	}

	data, err := json.Marshal(s.settings)
	if err != nil {
		logger.WithError(err, "settings_service").Error("Failed to serialize settings")
	} else if err := s.store.Set(storage.KeySettings, string(data)); err != nil {
		logger.WithError(err, "settings_service").Error("Failed to persist settings")
	}

	s.notifier.emit(s.settings)
	return s.settings
}

// Subscribe registers fn to receive the record after every update.
func (s *SettingsService) Subscribe(fn func(models.Settings)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	unsubscribe := s.notifier.subscribe(fn)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		unsubscribe()
	}
}
