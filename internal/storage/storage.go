package storage

// Store is a durable key/value store holding JSON-encoded blobs. Each entity
// store owns exactly one key and is its sole writer.
type Store interface {
	// Get returns the value for key. The second result is false when the key
	// has never been written.
	Get(key string) (string, bool, error)
	// Set writes value under key, replacing any previous value.
	Set(key, value string) error
}

// Keys owned by the application's stores.
const (
	KeyLogs            = "logs"
	KeyInstructions    = "instructions"
	KeyAnalysisResults = "analysisResults"
	KeySettings        = "webrtc_analyzer_settings"
	KeyTheme           = "theme"
	KeyErrorLogs       = "errorLogs"
)
