package services

import (
	"sync"

	"github.com/webrtc-analyzer/backend/internal/logger"
	"github.com/webrtc-analyzer/backend/internal/storage"
)

const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// ThemeService persists the UI theme preference. Dark is the default.
type ThemeService struct {
	mu    sync.Mutex
	store storage.Store
	theme string
}

func NewThemeService(store storage.Store) *ThemeService {
	s := &ThemeService{store: store, theme: ThemeDark}

	saved, ok, err := store.Get(storage.KeyTheme)
	if err != nil {
		logger.WithStore(storage.KeyTheme).Warn("Failed to read persisted theme, using dark")
		return s
	}
	if ok && (saved == ThemeDark || saved == ThemeLight) {
		s.theme = saved
	}

	return s
}

// Theme returns the current theme.
func (s *ThemeService) Theme() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

// SetTheme stores the theme. Unknown values fall back to dark.
func (s *ThemeService) SetTheme(theme string) string {
	if theme != ThemeLight {
		theme = ThemeDark
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = theme
	if err := s.store.Set(storage.KeyTheme, theme); err != nil {
		logger.WithError(err, "theme_service").Error("Failed to persist theme")
	}
	return s.theme
}
