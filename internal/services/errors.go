package services

import "fmt"

// ConfigurationError is returned when a required credential or setting is
// missing. It is raised before any network call and is recoverable by
// updating settings.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

// AnalysisError wraps an upstream HTTP or network failure from the completion
// endpoint. Nothing is persisted when one is returned.
type AnalysisError struct {
	Message string
	Err     error
}

func (e *AnalysisError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// ImportError is returned for unsupported file extensions on import. The
// store is left untouched.
type ImportError struct {
	Filename string
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("unsupported file type %q: only .txt and .md files are supported", e.Filename)
}
