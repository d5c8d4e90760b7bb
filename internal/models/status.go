package models

import (
	"encoding/json"
	"strings"
)

// Unknown is the pre-fetch value shared by every status field.
const Unknown = "unknown"

// AppState is the backend process state.
type AppState string

const (
	AppUnknown AppState = Unknown
	AppRunning AppState = "running"
	AppStopped AppState = "stopped"
)

// IntegrationState describes whether an external integration has credentials.
type IntegrationState string

const (
	IntegrationUnknown       IntegrationState = Unknown
	IntegrationConfigured    IntegrationState = "configured"
	IntegrationNotConfigured IntegrationState = "not_configured"
)

// DatabaseState is the backend's database connectivity.
type DatabaseState string

const (
	DatabaseUnknown      DatabaseState = Unknown
	DatabaseConnected    DatabaseState = "connected"
	DatabaseDisconnected DatabaseState = "disconnected"
)

// normalizeWord folds "not configured", "Not-Configured" etc. to "not_configured".
func normalizeWord(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}

// ParseAppState maps a wire value onto the enumeration; anything else is unknown.
func ParseAppState(s string) AppState {
	switch normalizeWord(s) {
	case string(AppRunning):
		return AppRunning
	case string(AppStopped), "not_running":
		return AppStopped
	default:
		return AppUnknown
	}
}

// ParseIntegrationState maps a wire value onto the enumeration.
func ParseIntegrationState(s string) IntegrationState {
	switch normalizeWord(s) {
	case string(IntegrationConfigured):
		return IntegrationConfigured
	case string(IntegrationNotConfigured), "unconfigured":
		return IntegrationNotConfigured
	default:
		return IntegrationUnknown
	}
}

// ParseDatabaseState maps a wire value onto the enumeration.
func ParseDatabaseState(s string) DatabaseState {
	switch normalizeWord(s) {
	case string(DatabaseConnected):
		return DatabaseConnected
	case string(DatabaseDisconnected), "not_connected":
		return DatabaseDisconnected
	default:
		return DatabaseUnknown
	}
}

func (s *AppState) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		*s = AppUnknown
		return nil
	}
	*s = ParseAppState(raw)
	return nil
}

func (s *IntegrationState) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		*s = IntegrationUnknown
		return nil
	}
	*s = ParseIntegrationState(raw)
	return nil
}

func (s *DatabaseState) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		*s = DatabaseUnknown
		return nil
	}
	*s = ParseDatabaseState(raw)
	return nil
}

// Label returns the display text for the state.
func (s AppState) Label() string {
	switch s {
	case AppRunning:
		return "Running"
	case AppStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// Label returns the display text for the state.
func (s IntegrationState) Label() string {
	switch s {
	case IntegrationConfigured:
		return "Configured"
	case IntegrationNotConfigured:
		return "Not Configured"
	default:
		return "Unknown"
	}
}

// Label returns the display text for the state.
func (s DatabaseState) Label() string {
	switch s {
	case DatabaseConnected:
		return "Connected"
	case DatabaseDisconnected:
		return "Disconnected"
	default:
		return "Unknown"
	}
}

// StatusSnapshot is the aggregate backend status. It is replaced wholesale
// on every successful poll.
type StatusSnapshot struct {
	App         AppState         `json:"app"`
	TelegramBot IntegrationState `json:"telegram_bot"`
	OpenAI      IntegrationState `json:"openai"`
	Database    DatabaseState    `json:"database"`
}

// NewStatusSnapshot returns the pre-fetch snapshot with every field unknown.
func NewStatusSnapshot() StatusSnapshot {
	return StatusSnapshot{
		App:         AppUnknown,
		TelegramBot: IntegrationUnknown,
		OpenAI:      IntegrationUnknown,
		Database:    DatabaseUnknown,
	}
}

// Normalize replaces empty fields (absent from the payload) with unknown.
func (s StatusSnapshot) Normalize() StatusSnapshot {
	if s.App == "" {
		s.App = AppUnknown
	}
	if s.TelegramBot == "" {
		s.TelegramBot = IntegrationUnknown
	}
	if s.OpenAI == "" {
		s.OpenAI = IntegrationUnknown
	}
	if s.Database == "" {
		s.Database = DatabaseUnknown
	}
	return s
}

// StatusCheckRecord is an immutable historical status check.
type StatusCheckRecord struct {
	ID         string `json:"id"`
	ClientName string `json:"client_name"`
	Timestamp  Time   `json:"timestamp"`
}
