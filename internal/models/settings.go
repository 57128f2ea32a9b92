package models

// Settings is the single-record application configuration. An empty APIKey is
// the "not configured" state; the record itself is never deleted.
type Settings struct {
	APIKey string `json:"apiKey"`
}
