package dashboard_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/raphaelgruber/botdash/internal/client"
	"github.com/raphaelgruber/botdash/internal/dashboard"
	"github.com/raphaelgruber/botdash/internal/models"
)

var errBackendDown = errors.New("connection refused")

func quietLogger() dashboard.Option {
	return dashboard.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// gate blocks a fake call until released, signalling when it is entered.
type gate struct {
	entered chan struct{}
	release chan struct{}
}

func newGate() *gate {
	return &gate{entered: make(chan struct{}, 16), release: make(chan struct{})}
}

func (g *gate) wait(ctx context.Context) error {
	if g == nil {
		return nil
	}
	g.entered <- struct{}{}
	select {
	case <-g.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// manualTicker delivers ticks only when the test sends them.
type manualTicker struct {
	ch      chan time.Time
	stopped atomic.Bool
}

func newManualTicker() *manualTicker {
	return &manualTicker{ch: make(chan time.Time)}
}

func (t *manualTicker) C() <-chan time.Time { return t.ch }
func (t *manualTicker) Stop()               { t.stopped.Store(true) }

func (t *manualTicker) factory() dashboard.Option {
	return dashboard.WithTicker(func(time.Duration) dashboard.Ticker { return t })
}

type fakeStatusAPI struct {
	mu    sync.Mutex
	snap  models.StatusSnapshot
	err   error
	gate  *gate
	calls atomic.Int32
}

func (f *fakeStatusAPI) set(snap models.StatusSnapshot, err error) {
	f.mu.Lock()
	f.snap, f.err = snap, err
	f.mu.Unlock()
}

func (f *fakeStatusAPI) GetStatus(ctx context.Context) (models.StatusSnapshot, error) {
	f.calls.Add(1)
	if err := f.gate.wait(ctx); err != nil {
		return models.StatusSnapshot{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap, f.err
}

type fakeCheckAPI struct {
	checks  []models.StatusCheckRecord
	listErr error
	calls   atomic.Int32
}

func (f *fakeCheckAPI) ListStatusChecks(ctx context.Context) ([]models.StatusCheckRecord, error) {
	f.calls.Add(1)
	return f.checks, f.listErr
}

func (f *fakeCheckAPI) RecordStatusCheck(ctx context.Context, clientName string) (*models.StatusCheckRecord, error) {
	f.calls.Add(1)
	return &models.StatusCheckRecord{ID: "new", ClientName: clientName}, nil
}

type fakeDatasetAPI struct {
	mu        sync.Mutex
	datasets  []models.Dataset
	uploadErr error
	listErr   error
	gate      *gate
	uploads   atomic.Int32
	lists     atomic.Int32
	contents  []string
}

func (f *fakeDatasetAPI) ListDatasets(ctx context.Context) ([]models.Dataset, error) {
	f.lists.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.Dataset(nil), f.datasets...), nil
}

func (f *fakeDatasetAPI) UploadDataset(ctx context.Context, input client.UploadInput) (*client.UploadReceipt, error) {
	f.uploads.Add(1)
	if err := f.gate.wait(ctx); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(input.Content)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.contents = append(f.contents, string(data))
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	f.datasets = append(f.datasets, models.Dataset{
		ID:          "ds-new",
		Name:        input.Name,
		Description: input.Description,
		Status:      models.DatasetPending,
	})
	return &client.UploadReceipt{ID: "ds-new", Name: input.Name, Status: "uploaded"}, nil
}

type fakeSearchAPI struct {
	web         *client.WebSearchResponse
	person      *client.PersonSearchResponse
	err         error
	gate        *gate
	webCalls    atomic.Int32
	personCalls atomic.Int32
}

func (f *fakeSearchAPI) SearchWeb(ctx context.Context, query string) (*client.WebSearchResponse, error) {
	f.webCalls.Add(1)
	if err := f.gate.wait(ctx); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.web, nil
}

func (f *fakeSearchAPI) SearchPerson(ctx context.Context, name string) (*client.PersonSearchResponse, error) {
	f.personCalls.Add(1)
	if err := f.gate.wait(ctx); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.person, nil
}

func (f *fakeSearchAPI) total() int32 {
	return f.webCalls.Load() + f.personCalls.Load()
}

// fakeConfigAPI answers both integrations with resp/err. telegramGate
// blocks only the telegram call.
type fakeConfigAPI struct {
	resp         *client.ConfigResponse
	err          error
	telegramGate *gate
	calls        atomic.Int32

	mu       sync.Mutex
	received []string
}

func (f *fakeConfigAPI) record(ctx context.Context, value string, g *gate) (*client.ConfigResponse, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.received = append(f.received, value)
	f.mu.Unlock()
	if err := g.wait(ctx); err != nil {
		return nil, err
	}
	return f.resp, f.err
}

func (f *fakeConfigAPI) ConfigureTelegram(ctx context.Context, token string) (*client.ConfigResponse, error) {
	return f.record(ctx, "telegram:"+token, f.telegramGate)
}

func (f *fakeConfigAPI) ConfigureOpenAI(ctx context.Context, apiKey string) (*client.ConfigResponse, error) {
	return f.record(ctx, "openai:"+apiKey, nil)
}

func (f *fakeConfigAPI) receivedValues() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.received...)
}

type fakeChatAPI struct {
	resp  *client.ChatResponse
	err   error
	calls atomic.Int32
}

func (f *fakeChatAPI) Chat(ctx context.Context, message string) (*client.ChatResponse, error) {
	f.calls.Add(1)
	return f.resp, f.err
}
