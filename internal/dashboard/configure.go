package dashboard

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/raphaelgruber/botdash/internal/client"
	"github.com/raphaelgruber/botdash/internal/models"
)

// ConfigState is a copy of one ConfigFlow's state.
type ConfigState struct {
	Integration models.Integration
	Input       string
	Configuring bool
	Message     models.Message
}

type flowTexts struct {
	empty   string
	failed  string
	success string
}

var integrationTexts = map[models.Integration]flowTexts{
	models.IntegrationTelegram: {
		empty:   "Please enter a Telegram bot token",
		failed:  "Failed to configure Telegram bot",
		success: "Telegram bot configured successfully",
	},
	models.IntegrationOpenAI: {
		empty:   "Please enter an OpenAI API key",
		failed:  "Failed to configure OpenAI API",
		success: "OpenAI API configured successfully",
	},
}

// ConfigFlow submits one integration's credential. The outcome is taken
// from the response body's status field, not from the HTTP status.
type ConfigFlow struct {
	integration models.Integration
	texts       flowTexts
	submit      func(ctx context.Context, credential string) (*client.ConfigResponse, error)
	settings    settings

	mu    sync.Mutex
	state ConfigState
}

// SetInput replaces the credential being edited.
func (f *ConfigFlow) SetInput(value string) {
	f.mu.Lock()
	f.state.Input = value
	f.mu.Unlock()
}

// Submit sends the current input.
func (f *ConfigFlow) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.state.Configuring {
		f.mu.Unlock()
		return ErrInFlight
	}
	credential := strings.TrimSpace(f.state.Input)
	if credential == "" {
		f.state.Message = models.ErrorMessage(f.texts.empty)
		f.mu.Unlock()
		return ErrEmptyCredential
	}
	f.state.Configuring = true
	f.state.Message = models.Message{}
	f.mu.Unlock()

	resp, err := f.submit(ctx, credential)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Configuring = false

	if err != nil {
		f.state.Message = models.ErrorMessage(f.texts.failed)
		f.settings.logger.Warn("configure integration failed", "integration", f.integration, "error", err)
		return fmt.Errorf("configure %s: %w", f.integration, err)
	}

	if resp.Succeeded() {
		f.state.Input = ""
		f.state.Message = models.SuccessMessage(or(resp.Message, f.texts.success))
		f.settings.logger.Info("integration configured", "integration", f.integration)
		return nil
	}

	text := or(resp.Message, f.texts.failed)
	f.state.Message = models.ErrorMessage(text)
	f.settings.logger.Warn("integration rejected", "integration", f.integration, "status", resp.Status)
	return fmt.Errorf("configure %s: %w: %s", f.integration, ErrRejected, text)
}

// State returns a copy of the current state.
func (f *ConfigFlow) State() ConfigState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// ConfigurationSubmitter holds the independent credential flows.
type ConfigurationSubmitter struct {
	Telegram *ConfigFlow
	OpenAI   *ConfigFlow
}

// NewConfigurationSubmitter creates the telegram and openai flows.
func NewConfigurationSubmitter(api ConfigAPI, opts ...Option) *ConfigurationSubmitter {
	s := newSettings(opts)
	return &ConfigurationSubmitter{
		Telegram: newConfigFlow(models.IntegrationTelegram, api.ConfigureTelegram, s),
		OpenAI:   newConfigFlow(models.IntegrationOpenAI, api.ConfigureOpenAI, s),
	}
}

func newConfigFlow(integration models.Integration, submit func(context.Context, string) (*client.ConfigResponse, error), s settings) *ConfigFlow {
	return &ConfigFlow{
		integration: integration,
		texts:       integrationTexts[integration],
		submit:      submit,
		settings:    s,
		state:       ConfigState{Integration: integration},
	}
}

// Flow returns the flow for integration.
func (s *ConfigurationSubmitter) Flow(integration models.Integration) (*ConfigFlow, error) {
	switch integration {
	case models.IntegrationTelegram:
		return s.Telegram, nil
	case models.IntegrationOpenAI:
		return s.OpenAI, nil
	default:
		return nil, fmt.Errorf("unknown integration %q", integration)
	}
}

func or(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
