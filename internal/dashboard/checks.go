package dashboard

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/raphaelgruber/botdash/internal/models"
)

// ChecksState is a copy of the StatusChecks state.
type ChecksState struct {
	Checks  []models.StatusCheckRecord
	Loading bool
	Loaded  bool
}

// StatusChecks lists historical status checks and records new ones.
type StatusChecks struct {
	api      StatusCheckAPI
	settings settings

	mu    sync.Mutex
	state ChecksState
}

// NewStatusChecks creates a status check controller.
func NewStatusChecks(api StatusCheckAPI, opts ...Option) *StatusChecks {
	return &StatusChecks{api: api, settings: newSettings(opts)}
}

// Load fetches the check list. A failed load keeps the previous list.
func (s *StatusChecks) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.state.Loading {
		s.mu.Unlock()
		return ErrInFlight
	}
	s.state.Loading = true
	s.mu.Unlock()

	checks, err := s.api.ListStatusChecks(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = false
	if err != nil {
		s.settings.logger.Warn("load status checks failed", "error", err)
		return fmt.Errorf("load status checks: %w", err)
	}
	s.state.Checks = checks
	s.state.Loaded = true
	return nil
}

// Record stores a new status check for clientName and appends it to the
// local list.
func (s *StatusChecks) Record(ctx context.Context, clientName string) (*models.StatusCheckRecord, error) {
	clientName = strings.TrimSpace(clientName)
	if clientName == "" {
		return nil, ErrEmptyClientName
	}

	rec, err := s.api.RecordStatusCheck(ctx, clientName)
	if err != nil {
		s.settings.logger.Warn("record status check failed", "client_name", clientName, "error", err)
		return nil, fmt.Errorf("record status check: %w", err)
	}

	s.mu.Lock()
	s.state.Checks = append(s.state.Checks, *rec)
	s.mu.Unlock()
	return rec, nil
}

// State returns a copy of the current state.
func (s *StatusChecks) State() ChecksState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Checks = append([]models.StatusCheckRecord(nil), s.state.Checks...)
	return st
}
