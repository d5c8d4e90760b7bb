package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/raphaelgruber/botdash/internal/client"
	"github.com/raphaelgruber/botdash/internal/metrics"
	"github.com/raphaelgruber/botdash/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient starts a backend serving handler under /api and returns a client for it.
func newTestClient(t *testing.T, handler http.Handler, opts ...client.Option) *client.Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.Handle("/api/", http.StripPrefix("/api", handler))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return client.New(srv.URL, opts...)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func decodeBody(t *testing.T, r *http.Request) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
	return body
}

func TestNewTrimsAPISuffix(t *testing.T) {
	c := client.New("http://backend:8001/api/")
	assert.Equal(t, "http://backend:8001", c.BaseURL())
}

func TestNewUsesEnvFallback(t *testing.T) {
	t.Setenv("BOTDASH_BACKEND_URL", "http://from-env:9000")
	assert.Equal(t, "http://from-env:9000", client.New("").BaseURL())
}

func TestPing(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/", r.URL.Path)
		writeJSON(w, map[string]string{"message": "Cybersecurity AI Assistant API"})
	}))

	msg, err := c.Ping(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Cybersecurity AI Assistant API", msg)
}

func TestGetStatusNormalizesValues(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/status", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"), "every call carries a request id")
		writeJSON(w, map[string]string{
			"app":          "running",
			"telegram_bot": "not configured",
			"openai":       "configured",
		})
	}))

	snap, err := c.GetStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.AppRunning, snap.App)
	assert.Equal(t, models.IntegrationNotConfigured, snap.TelegramBot)
	assert.Equal(t, models.IntegrationConfigured, snap.OpenAI)
	assert.Equal(t, models.DatabaseUnknown, snap.Database, "absent field is unknown")
}

func TestStatusChecks(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			assert.Equal(t, "/status/checks", r.URL.Path)
			writeJSON(w, []map[string]string{
				{"id": "a", "client_name": "web", "timestamp": "2024-05-01T10:00:00"},
				{"id": "b", "client_name": "cli", "timestamp": "2024-05-01T11:00:00Z"},
			})
		case http.MethodPost:
			assert.Equal(t, "/status", r.URL.Path)
			body := decodeBody(t, r)
			writeJSON(w, map[string]string{"id": "c", "client_name": body["client_name"], "timestamp": "2024-05-02T09:30:00.5"})
		}
	}))
	ctx := context.Background()

	checks, err := c.ListStatusChecks(ctx)
	require.NoError(t, err)
	require.Len(t, checks, 2)
	assert.Equal(t, "web", checks[0].ClientName)
	assert.Equal(t, 11, checks[1].Timestamp.Hour())

	rec, err := c.RecordStatusCheck(ctx, "ops")
	require.NoError(t, err)
	assert.Equal(t, "ops", rec.ClientName)
	assert.Equal(t, "c", rec.ID)
}

func TestListDatasets(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []map[string]string{
			{"id": "1", "name": "phishing", "description": "emails", "upload_date": "2024-05-01T10:00:00", "status": "uploaded"},
			{"id": "2", "name": "malware", "description": "hashes", "upload_date": "2024-05-01T10:00:00", "status": "complete"},
		})
	}))

	datasets, err := c.ListDatasets(context.Background())
	require.NoError(t, err)
	require.Len(t, datasets, 2)
	assert.Equal(t, models.DatasetPending, datasets[0].Status)
	assert.Equal(t, models.DatasetComplete, datasets[1].Status)
}

func TestUploadDatasetSendsMultipart(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/dataset/upload", r.URL.Path)
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "phishing", r.FormValue("name"))
		assert.Equal(t, "labelled emails", r.FormValue("description"))

		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "emails.csv", hdr.Filename)
		assert.Equal(t, "a,b\n1,2\n", string(data))

		writeJSON(w, map[string]string{"id": "ds-1", "name": "phishing", "status": "uploaded"})
	}))

	receipt, err := c.UploadDataset(context.Background(), client.UploadInput{
		Name:        "phishing",
		Description: "labelled emails",
		FileName:    "emails.csv",
		Content:     strings.NewReader("a,b\n1,2\n"),
	})
	require.NoError(t, err)
	assert.Equal(t, "ds-1", receipt.ID)
}

func TestUploadDatasetRequiresContent(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	_, err := c.UploadDataset(context.Background(), client.UploadInput{Name: "x", Description: "y"})
	require.Error(t, err)
	assert.Equal(t, int32(0), calls.Load())
}

func TestSearchWeb(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/web", r.URL.Path)
		assert.Equal(t, "cve-2024", decodeBody(t, r)["query"])
		writeJSON(w, map[string]any{
			"query": "cve-2024",
			"results": []map[string]string{
				{"title": "NVD", "href": "https://nvd.example", "body": "entry"},
			},
		})
	}))

	resp, err := c.SearchWeb(context.Background(), "cve-2024")
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "NVD", resp.Results[0].Title)
}

func TestSearchPersonReconcilesFieldNames(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Ada Lovelace", decodeBody(t, r)["name"])
		writeJSON(w, map[string]any{
			"name": "Ada Lovelace",
			"social_profiles": []map[string]string{
				{"title": "GitHub", "url": "https://github.com/ada"},
				{"title": "LinkedIn", "href": "https://linkedin.com/in/ada"},
			},
			"professional_info": []map[string]string{
				{"title": "Bio", "content": "Mathematician"},
			},
		})
	}))

	resp, err := c.SearchPerson(context.Background(), "Ada Lovelace")
	require.NoError(t, err)
	require.NotNil(t, resp.Name)
	assert.Equal(t, "Ada Lovelace", *resp.Name)
	assert.Equal(t, []models.SocialProfile{
		{Title: "GitHub", Href: "https://github.com/ada"},
		{Title: "LinkedIn", Href: "https://linkedin.com/in/ada"},
	}, resp.Profiles())
	assert.Equal(t, []models.ProfessionalInfo{{Title: "Bio", Body: "Mathematician"}}, resp.Professional())
}

func TestSearchPersonNotFound(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"personal_info": map[string]string{"summary": ""}})
	}))

	resp, err := c.SearchPerson(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, resp.Name)
}

func TestConfigureTelegramReadsBodyStatus(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/config/telegram", r.URL.Path)
		assert.Equal(t, "123:abc", decodeBody(t, r)["token"])
		// The backend reports failures with HTTP 200.
		writeJSON(w, map[string]string{"status": "error", "message": "bad token"})
	}))

	resp, err := c.ConfigureTelegram(context.Background(), "123:abc")
	require.NoError(t, err)
	assert.False(t, resp.Succeeded())
	assert.Equal(t, "bad token", resp.Message)
}

func TestConfigureOpenAI(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/config/openai", r.URL.Path)
		assert.Equal(t, "sk-test", decodeBody(t, r)["api_key"])
		writeJSON(w, map[string]string{"status": "success", "message": "OK"})
	}))

	resp, err := c.ConfigureOpenAI(context.Background(), "sk-test")
	require.NoError(t, err)
	assert.True(t, resp.Succeeded())
}

func TestChat(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "what is xss?", decodeBody(t, r)["message"])
		writeJSON(w, map[string]string{"error": "OpenAI API key not configured"})
	}))

	resp, err := c.Chat(context.Background(), "what is xss?")
	require.NoError(t, err)
	assert.Equal(t, "OpenAI API key not configured", resp.Error)
	assert.Empty(t, resp.Response)
}

func TestNon2xxIsAPIErrorAndNotRetried(t *testing.T) {
	var calls atomic.Int32
	collector := metrics.NewCollector()
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"detail":"boom"}`, http.StatusInternalServerError)
	}), client.WithMetrics(collector))

	_, err := c.GetStatus(context.Background())
	require.Error(t, err)
	assert.True(t, client.IsAPIError(err))

	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Contains(t, apiErr.Error(), "boom")
	assert.Equal(t, int32(1), calls.Load(), "no retries")

	snap, ok := collector.Get(metrics.OpStatus)
	require.True(t, ok)
	assert.Equal(t, int64(1), snap.Failures)
}

func TestTransportErrorIsNotAPIError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := client.New(url, client.WithTimeout(time.Second))
	_, err := c.ListDatasets(context.Background())
	require.Error(t, err)
	assert.False(t, client.IsAPIError(err))
}

func TestContextCancellation(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.GetStatus(ctx)
	require.Error(t, err)
}
