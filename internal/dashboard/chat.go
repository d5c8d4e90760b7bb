package dashboard

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/raphaelgruber/botdash/internal/models"
)

// MsgChatFailed is shown when the assistant could not be reached.
const MsgChatFailed = "Failed to reach the assistant"

// ChatState is a copy of the Chat state.
type ChatState struct {
	Question string
	Answer   string
	Asking   bool
	Message  models.Message
}

// Chat sends one-shot questions to the backend assistant.
type Chat struct {
	api      ChatAPI
	settings settings

	mu    sync.Mutex
	state ChatState
}

// NewChat creates a chat controller.
func NewChat(api ChatAPI, opts ...Option) *Chat {
	return &Chat{api: api, settings: newSettings(opts)}
}

// Ask sends text and returns the answer. A reply carrying an error field
// returns ErrRejected with the backend's text.
func (c *Chat) Ask(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyQuery
	}

	c.mu.Lock()
	if c.state.Asking {
		c.mu.Unlock()
		return "", ErrInFlight
	}
	c.state = ChatState{Question: text, Asking: true}
	c.mu.Unlock()

	resp, err := c.api.Chat(ctx, text)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Asking = false

	switch {
	case err != nil:
		c.state.Message = models.ErrorMessage(MsgChatFailed)
		c.settings.logger.Warn("chat failed", "error", err)
		return "", fmt.Errorf("chat: %w", err)
	case resp.Error != "":
		c.state.Message = models.ErrorMessage(resp.Error)
		return "", fmt.Errorf("chat: %w: %s", ErrRejected, resp.Error)
	}

	c.state.Answer = resp.Response
	return resp.Response, nil
}

// State returns a copy of the current state.
func (c *Chat) State() ChatState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}
