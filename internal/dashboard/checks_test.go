package dashboard_test

import (
	"context"
	"testing"

	"github.com/raphaelgruber/botdash/internal/client"
	"github.com/raphaelgruber/botdash/internal/dashboard"
	"github.com/raphaelgruber/botdash/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusChecksLoadAndRecord(t *testing.T) {
	api := &fakeCheckAPI{checks: []models.StatusCheckRecord{{ID: "a", ClientName: "web"}}}
	s := dashboard.NewStatusChecks(api, quietLogger())

	require.NoError(t, s.Load(context.Background()))
	assert.True(t, s.State().Loaded)

	rec, err := s.Record(context.Background(), " ops ")
	require.NoError(t, err)
	assert.Equal(t, "ops", rec.ClientName)

	checks := s.State().Checks
	require.Len(t, checks, 2)
	assert.Equal(t, "new", checks[1].ID)
}

func TestStatusChecksLoadFailureKeepsList(t *testing.T) {
	api := &fakeCheckAPI{checks: []models.StatusCheckRecord{{ID: "a"}}}
	s := dashboard.NewStatusChecks(api, quietLogger())
	require.NoError(t, s.Load(context.Background()))

	api.listErr = errBackendDown
	require.ErrorIs(t, s.Load(context.Background()), errBackendDown)

	st := s.State()
	assert.Len(t, st.Checks, 1)
	assert.False(t, st.Loading)
}

func TestStatusChecksRecordRequiresClientName(t *testing.T) {
	api := &fakeCheckAPI{}
	s := dashboard.NewStatusChecks(api, quietLogger())

	_, err := s.Record(context.Background(), "")
	assert.ErrorIs(t, err, dashboard.ErrEmptyClientName)
	assert.Equal(t, int32(0), api.calls.Load())
}

func TestChatAsk(t *testing.T) {
	api := &fakeChatAPI{resp: &client.ChatResponse{Response: "XSS injects script into pages."}}
	c := dashboard.NewChat(api, quietLogger())

	answer, err := c.Ask(context.Background(), "what is xss?")
	require.NoError(t, err)
	assert.Equal(t, "XSS injects script into pages.", answer)

	st := c.State()
	assert.Equal(t, "what is xss?", st.Question)
	assert.False(t, st.Asking)
	assert.True(t, st.Message.IsZero())
}

func TestChatBackendError(t *testing.T) {
	api := &fakeChatAPI{resp: &client.ChatResponse{Error: "OpenAI API key not configured"}}
	c := dashboard.NewChat(api, quietLogger())

	_, err := c.Ask(context.Background(), "hello")
	require.ErrorIs(t, err, dashboard.ErrRejected)
	assert.Equal(t, models.ErrorMessage("OpenAI API key not configured"), c.State().Message)
}

func TestChatTransportFailure(t *testing.T) {
	c := dashboard.NewChat(&fakeChatAPI{err: errBackendDown}, quietLogger())

	_, err := c.Ask(context.Background(), "hello")
	require.ErrorIs(t, err, errBackendDown)
	assert.Equal(t, models.ErrorMessage(dashboard.MsgChatFailed), c.State().Message)
}

func TestChatEmptyQuestion(t *testing.T) {
	api := &fakeChatAPI{}
	c := dashboard.NewChat(api, quietLogger())

	_, err := c.Ask(context.Background(), " ")
	assert.ErrorIs(t, err, dashboard.ErrEmptyQuery)
	assert.Equal(t, int32(0), api.calls.Load())
}
