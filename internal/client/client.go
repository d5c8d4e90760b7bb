// Package client provides a REST client for the botdash backend API.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/raphaelgruber/botdash/internal/metrics"
	"github.com/raphaelgruber/botdash/internal/models"
)

// DefaultBaseURL is used when neither the caller nor BOTDASH_BACKEND_URL set one.
const DefaultBaseURL = "http://localhost:8001"

// slowRequestThreshold is the duration above which calls are logged at WARN level.
const slowRequestThreshold = 2 * time.Second

// Client talks to the backend under <base>/api. It never retries: every
// method issues exactly one HTTP request.
type Client struct {
	http    *resty.Client
	logger  *slog.Logger
	metrics *metrics.Collector
	baseURL string

	timeout    time.Duration
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for per-call logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithMetrics records per-operation call statistics into collector.
func WithMetrics(collector *metrics.Collector) Option {
	return func(c *Client) { c.metrics = collector }
}

// WithTimeout overrides the per-request timeout (default 30s).
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithHTTPClient swaps the underlying transport (used by tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client for the backend at baseURL (without the /api suffix).
// If baseURL is empty, uses BOTDASH_BACKEND_URL or DefaultBaseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = os.Getenv("BOTDASH_BACKEND_URL")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimSuffix(strings.TrimSuffix(baseURL, "/"), "/api")

	c := &Client{
		baseURL: baseURL,
		logger:  slog.Default(),
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient != nil {
		c.http = resty.NewWithClient(c.httpClient)
	} else {
		c.http = resty.New()
	}
	c.http.
		SetBaseURL(baseURL+"/api").
		SetTimeout(c.timeout).
		SetRetryCount(0).
		SetHeader("User-Agent", "botdash")
	return c
}

// BaseURL returns the backend root the client was built for.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// APIError is returned when the backend answers with a non-2xx status.
type APIError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > 200 {
		body = body[:197] + "..."
	}
	if body == "" {
		return fmt.Sprintf("%s: server returned %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: server returned %d: %s", e.Op, e.StatusCode, body)
}

// IsAPIError reports whether err carries a non-2xx backend response.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// newRequest prepares a request with the per-call headers.
func (c *Client) newRequest(ctx context.Context) *resty.Request {
	return c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetHeader("X-Request-ID", uuid.New().String())
}

// execute sends req and decodes a 2xx JSON body into out (when non-nil).
func (c *Client) execute(req *resty.Request, op, method, path string, out any) error {
	start := time.Now()
	resp, err := req.Execute(method, path)
	duration := time.Since(start)

	failed := err != nil || !resp.IsSuccess()
	if c.metrics != nil {
		c.metrics.RecordCall(op, duration, failed)
	}

	attrs := []any{
		"op", op,
		"method", method,
		"path", path,
		"request_id", req.Header.Get("X-Request-ID"),
		"duration_ms", duration.Milliseconds(),
	}

	if err != nil {
		c.logger.Debug("request failed", append(attrs, "error", err.Error())...)
		return fmt.Errorf("%s: execute request: %w", op, err)
	}

	attrs = append(attrs, "status", resp.StatusCode())
	switch {
	case !resp.IsSuccess():
		c.logger.Debug("request rejected", attrs...)
		return &APIError{Op: op, StatusCode: resp.StatusCode(), Body: resp.String()}
	case duration > slowRequestThreshold:
		c.logger.Warn("slow request", attrs...)
	default:
		c.logger.Debug("request completed", attrs...)
	}

	if out == nil {
		return nil
	}
	body := resp.Body()
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: unmarshal response: %w", op, err)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, op, path string, out any) error {
	return c.execute(c.newRequest(ctx), op, http.MethodGet, path, out)
}

func (c *Client) postJSON(ctx context.Context, op, path string, body, out any) error {
	req := c.newRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body)
	return c.execute(req, op, http.MethodPost, path, out)
}

// =============================================================================
// STATUS
// =============================================================================

type pingResponse struct {
	Message string `json:"message"`
}

// Ping calls the API root and returns its greeting.
func (c *Client) Ping(ctx context.Context) (string, error) {
	var resp pingResponse
	if err := c.getJSON(ctx, metrics.OpPing, "/", &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// GetStatus fetches the aggregate system status.
func (c *Client) GetStatus(ctx context.Context) (models.StatusSnapshot, error) {
	var snap models.StatusSnapshot
	if err := c.getJSON(ctx, metrics.OpStatus, "/status", &snap); err != nil {
		return models.StatusSnapshot{}, err
	}
	return snap.Normalize(), nil
}

// ListStatusChecks fetches the recorded status checks.
func (c *Client) ListStatusChecks(ctx context.Context) ([]models.StatusCheckRecord, error) {
	var checks []models.StatusCheckRecord
	if err := c.getJSON(ctx, metrics.OpStatusChecks, "/status/checks", &checks); err != nil {
		return nil, err
	}
	return checks, nil
}

type statusCheckInput struct {
	ClientName string `json:"client_name"`
}

// RecordStatusCheck stores a new status check for clientName.
func (c *Client) RecordStatusCheck(ctx context.Context, clientName string) (*models.StatusCheckRecord, error) {
	var rec models.StatusCheckRecord
	if err := c.postJSON(ctx, metrics.OpRecordCheck, "/status", statusCheckInput{ClientName: clientName}, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// =============================================================================
// DATASETS
// =============================================================================

// ListDatasets fetches every dataset known to the backend.
func (c *Client) ListDatasets(ctx context.Context) ([]models.Dataset, error) {
	var datasets []models.Dataset
	if err := c.getJSON(ctx, metrics.OpDatasets, "/datasets", &datasets); err != nil {
		return nil, err
	}
	return datasets, nil
}

// UploadInput is the multipart payload for a dataset upload.
type UploadInput struct {
	Name        string
	Description string
	FileName    string
	Content     io.Reader
}

// UploadReceipt is the backend's acknowledgement of an upload. Callers
// should not rely on it beyond success; the dataset list is authoritative.
type UploadReceipt struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// UploadDataset submits a dataset as multipart form data.
func (c *Client) UploadDataset(ctx context.Context, input UploadInput) (*UploadReceipt, error) {
	if input.Content == nil {
		return nil, errors.New("upload dataset: no file content")
	}
	req := c.newRequest(ctx).
		SetMultipartFormData(map[string]string{
			"name":        input.Name,
			"description": input.Description,
		}).
		SetFileReader("file", input.FileName, input.Content)

	var receipt UploadReceipt
	if err := c.execute(req, metrics.OpUpload, http.MethodPost, "/dataset/upload", &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

// =============================================================================
// SEARCH
// =============================================================================

// WebSearchResponse is the raw /search/web payload.
type WebSearchResponse struct {
	Query   string          `json:"query"`
	Results []models.WebHit `json:"results"`
}

// PersonSearchResponse is the raw /search/person payload. Name is nil when
// the backend found nothing. Profile links arrive as href or url and
// professional snippets as body or content depending on backend version.
type PersonSearchResponse struct {
	Name             *string               `json:"name"`
	SocialProfiles   []rawSocialProfile    `json:"social_profiles"`
	ProfessionalInfo []rawProfessionalInfo `json:"professional_info"`
}

type rawSocialProfile struct {
	Title string `json:"title"`
	Href  string `json:"href"`
	URL   string `json:"url"`
}

type rawProfessionalInfo struct {
	Title   string `json:"title"`
	Body    string `json:"body"`
	Content string `json:"content"`
}

// Profiles returns the profiles with href/url reconciled.
func (r PersonSearchResponse) Profiles() []models.SocialProfile {
	out := make([]models.SocialProfile, 0, len(r.SocialProfiles))
	for _, p := range r.SocialProfiles {
		href := p.Href
		if href == "" {
			href = p.URL
		}
		out = append(out, models.SocialProfile{Title: p.Title, Href: href})
	}
	return out
}

// Professional returns the professional snippets with body/content reconciled.
func (r PersonSearchResponse) Professional() []models.ProfessionalInfo {
	out := make([]models.ProfessionalInfo, 0, len(r.ProfessionalInfo))
	for _, p := range r.ProfessionalInfo {
		body := p.Body
		if body == "" {
			body = p.Content
		}
		out = append(out, models.ProfessionalInfo{Title: p.Title, Body: body})
	}
	return out
}

type webSearchInput struct {
	Query string `json:"query"`
}

type personSearchInput struct {
	Name string `json:"name"`
}

// SearchWeb runs a web search.
func (c *Client) SearchWeb(ctx context.Context, query string) (*WebSearchResponse, error) {
	var resp WebSearchResponse
	if err := c.postJSON(ctx, metrics.OpSearchWeb, "/search/web", webSearchInput{Query: query}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SearchPerson runs a person search.
func (c *Client) SearchPerson(ctx context.Context, name string) (*PersonSearchResponse, error) {
	var resp PersonSearchResponse
	if err := c.postJSON(ctx, metrics.OpSearchPerson, "/search/person", personSearchInput{Name: name}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// =============================================================================
// CONFIGURATION
// =============================================================================

// ConfigStatusSuccess is the body status reported for an accepted credential.
const ConfigStatusSuccess = "success"

// ConfigResponse is the body of a configuration call. The outcome is in
// Status, not in the HTTP status code.
type ConfigResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Succeeded reports whether the backend accepted the credential.
func (r ConfigResponse) Succeeded() bool {
	return r.Status == ConfigStatusSuccess
}

type telegramConfigInput struct {
	Token string `json:"token"`
}

type openAIConfigInput struct {
	APIKey string `json:"api_key"`
}

// ConfigureTelegram submits a Telegram bot token.
func (c *Client) ConfigureTelegram(ctx context.Context, token string) (*ConfigResponse, error) {
	var resp ConfigResponse
	if err := c.postJSON(ctx, metrics.OpConfigTelegram, "/config/telegram", telegramConfigInput{Token: token}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ConfigureOpenAI submits an OpenAI API key.
func (c *Client) ConfigureOpenAI(ctx context.Context, apiKey string) (*ConfigResponse, error) {
	var resp ConfigResponse
	if err := c.postJSON(ctx, metrics.OpConfigOpenAI, "/config/openai", openAIConfigInput{APIKey: apiKey}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// =============================================================================
// CHAT
// =============================================================================

type chatInput struct {
	Message string `json:"message"`
}

// ChatResponse carries either the assistant's answer or a backend error.
type ChatResponse struct {
	Response string `json:"response"`
	Error    string `json:"error"`
}

// Chat sends one question to the backend assistant.
func (c *Client) Chat(ctx context.Context, message string) (*ChatResponse, error) {
	var resp ChatResponse
	if err := c.postJSON(ctx, metrics.OpChat, "/chat", chatInput{Message: message}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
