// Package llm provides the language model client used by structured
// extraction, plus retry and circuit-breaking wrappers.
package llm

import (
	"context"

	"github.com/soundprediction/grafity/pkg/types"
)

// Client defines the interface for language model operations.
type Client interface {
	// Chat sends a chat completion request and returns the response.
	Chat(ctx context.Context, messages []types.Message) (*types.Response, error)

	// Close cleans up any resources.
	Close() error
}

const (
	// RoleSystem represents a system message.
	RoleSystem types.Role = "system"
	// RoleUser represents a user message.
	RoleUser types.Role = "user"
	// RoleAssistant represents an assistant message.
	RoleAssistant types.Role = "assistant"
)

// NewUserMessage creates a new user message.
func NewUserMessage(content string) types.Message {
	return types.Message{Role: RoleUser, Content: content}
}

// NewSystemMessage creates a new system message.
func NewSystemMessage(content string) types.Message {
	return types.Message{Role: RoleSystem, Content: content}
}
