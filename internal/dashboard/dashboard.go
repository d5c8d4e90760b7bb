// Package dashboard holds the client-side controllers behind the botdash
// views: status polling, dataset upload, search, credential configuration,
// status checks and chat.
//
// Each controller owns a mutex-guarded state record and is safe to call
// from any goroutine. Reads return copies. Controllers share no state with
// each other.
package dashboard

import (
	"context"
	"log/slog"
	"time"

	"github.com/raphaelgruber/botdash/internal/client"
	"github.com/raphaelgruber/botdash/internal/models"
)

// StatusAPI fetches the aggregate backend status.
type StatusAPI interface {
	GetStatus(ctx context.Context) (models.StatusSnapshot, error)
}

// StatusCheckAPI reads and records status checks.
type StatusCheckAPI interface {
	ListStatusChecks(ctx context.Context) ([]models.StatusCheckRecord, error)
	RecordStatusCheck(ctx context.Context, clientName string) (*models.StatusCheckRecord, error)
}

// DatasetAPI lists and uploads datasets.
type DatasetAPI interface {
	ListDatasets(ctx context.Context) ([]models.Dataset, error)
	UploadDataset(ctx context.Context, input client.UploadInput) (*client.UploadReceipt, error)
}

// SearchAPI runs web and person searches.
type SearchAPI interface {
	SearchWeb(ctx context.Context, query string) (*client.WebSearchResponse, error)
	SearchPerson(ctx context.Context, name string) (*client.PersonSearchResponse, error)
}

// ConfigAPI submits integration credentials.
type ConfigAPI interface {
	ConfigureTelegram(ctx context.Context, token string) (*client.ConfigResponse, error)
	ConfigureOpenAI(ctx context.Context, apiKey string) (*client.ConfigResponse, error)
}

// ChatAPI asks the backend assistant a question.
type ChatAPI interface {
	Chat(ctx context.Context, message string) (*client.ChatResponse, error)
}

var _ interface {
	StatusAPI
	StatusCheckAPI
	DatasetAPI
	SearchAPI
	ConfigAPI
	ChatAPI
} = (*client.Client)(nil)

// Ticker delivers poll ticks. It mirrors the subset of time.Ticker the
// status monitor needs so tests can drive ticks by hand.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct{ t *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// NewTimeTicker wraps time.NewTicker.
func NewTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

type settings struct {
	logger    *slog.Logger
	newTicker func(time.Duration) Ticker
}

func newSettings(opts []Option) settings {
	s := settings{
		logger:    slog.Default(),
		newTicker: NewTimeTicker,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Option configures a controller.
type Option func(*settings)

// WithLogger sets the logger controllers report failures to.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTicker replaces the ticker factory used by StatusMonitor.
func WithTicker(newTicker func(time.Duration) Ticker) Option {
	return func(s *settings) { s.newTicker = newTicker }
}
