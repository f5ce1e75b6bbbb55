// File path: internal/llm/providers/provider.go
package providers

import (
	"context"
	"fmt"
	"strings"
)

// Message is one turn of a chat exchange.
type Message struct {
	Role    string
	Content string
}

// Provider is the language-model collaborator: given messages, it returns
// the model's text. Transport, auth, and provider details stay behind this
// interface.
type Provider interface {
	Chat(ctx context.Context, messages []Message) (string, error)
	Name() string
}

// LocalProvider is the offline fallback used when no API credentials are
// configured. It echoes the last message so pipelines stay runnable in
// development.
type LocalProvider struct{}

func NewLocalProvider() *LocalProvider {
	return &LocalProvider{}
}

func (l *LocalProvider) Chat(ctx context.Context, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("no messages provided")
	}
	last := messages[len(messages)-1].Content
	return "[local-stub] " + strings.TrimSpace(last), nil
}

func (l *LocalProvider) Name() string {
	return "local"
}
