package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ConversationDB represents a chat conversation owned by a user.
type ConversationDB struct {
	ConversationID uuid.UUID `json:"id" db:"conversation_id"`
	UserID         uuid.UUID `json:"user_id" db:"user_id"`
	Title          *string   `json:"title" db:"title"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// Conversation message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// MessageDB is a single turn in a conversation. Append-only.
type MessageDB struct {
	MessageID      uuid.UUID `json:"id" db:"message_id"`
	ConversationID uuid.UUID `json:"conversation_id" db:"conversation_id"`
	Role           string    `json:"role" db:"role"`
	Content        string    `json:"content" db:"content"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// ToolCallDB is an audit record of a tool execution within a conversation.
// Append-only; arguments and result are stored as JSONB.
type ToolCallDB struct {
	ToolCallID     uuid.UUID       `json:"id" db:"tool_call_id"`
	ConversationID uuid.UUID       `json:"conversation_id" db:"conversation_id"`
	ToolName       string          `json:"tool_name" db:"tool_name"`
	Arguments      json.RawMessage `json:"arguments" db:"arguments"`
	Result         json.RawMessage `json:"result" db:"result"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}

// ToolCallSummary is the tool execution report returned by the chat
// endpoint.
type ToolCallSummary struct {
	Tool      string         `json:"tool"`
	Arguments map[string]any `json:"arguments"`
	Result    map[string]any `json:"result"`
}

// ChatResult is the outcome of processing one chat message.
type ChatResult struct {
	ConversationID uuid.UUID         `json:"conversation_id"`
	Response       string            `json:"response"`
	ToolCalls      []ToolCallSummary `json:"tool_calls"`
}
