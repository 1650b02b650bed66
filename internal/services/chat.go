package services

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"github.com/sgnatenko/todo-chat-api/internal/facades"
	"github.com/sgnatenko/todo-chat-api/internal/logger"
	"github.com/sgnatenko/todo-chat-api/internal/models"
)

// ErrConversationNotFound is returned uniformly whether the conversation
// does not exist or belongs to another user.
var ErrConversationNotFound = errors.New("conversation not found")

const systemPrompt = `You are a helpful assistant that manages the user's todo list. ` +
	`Use the available tools to create, list, update, complete and delete todos on the user's behalf. ` +
	`Confirm what you did in a short, friendly sentence. ` +
	`If a tool reports a failure, explain it to the user instead of retrying.`

// Titles derived from the first message are truncated to this many runes.
const conversationTitleLimit = 50

// ConversationReader defines read operations for conversations.
type ConversationReader interface {
	GetByID(ctx context.Context, userID, conversationID uuid.UUID) (*models.ConversationDB, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.ConversationDB, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
}

// ConversationWriter defines write operations for conversations.
type ConversationWriter interface {
	Save(ctx context.Context, userID uuid.UUID, title *string) (*models.ConversationDB, error)
	Touch(ctx context.Context, conversationID uuid.UUID) error
}

// MessageReader reads stored conversation turns.
type MessageReader interface {
	ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]models.MessageDB, error)
}

// MessageWriter appends conversation turns and tool call audit records.
type MessageWriter interface {
	SaveMessage(ctx context.Context, conversationID uuid.UUID, role, content string) (*models.MessageDB, error)
	SaveToolCall(ctx context.Context, conversationID uuid.UUID, toolName string, arguments, result map[string]any) error
}

// Completer is the external decision step: a chat-completions model call.
type Completer interface {
	Complete(ctx context.Context, messages []facades.Message, tools []facades.Tool) (*facades.Completion, error)
}

// ToolExecutor runs model-selected tool calls for the authenticated user.
type ToolExecutor interface {
	Definitions() []facades.Tool
	Dispatch(ctx context.Context, userID uuid.UUID, name string, args map[string]any) map[string]any
}

// ChatService turns natural-language messages into todo operations.
// The server is stateless between requests: the full model context is
// rebuilt from stored messages every time.
type ChatService struct {
	convReader ConversationReader
	convWriter ConversationWriter
	msgReader  MessageReader
	msgWriter  MessageWriter
	completer  Completer
	tools      ToolExecutor
}

// NewChatService creates a new ChatService instance.
func NewChatService(
	convReader ConversationReader,
	convWriter ConversationWriter,
	msgReader MessageReader,
	msgWriter MessageWriter,
	completer Completer,
	tools ToolExecutor,
) *ChatService {
	return &ChatService{
		convReader: convReader,
		convWriter: convWriter,
		msgReader:  msgReader,
		msgWriter:  msgWriter,
		completer:  completer,
		tools:      tools,
	}
}

// ProcessMessage resolves or creates the conversation, asks the model what
// to do, executes any tool calls it selected and persists the full turn.
// Tool-level failures are reported inside the result; only endpoint-level
// faults (missing conversation, persistence or model errors) return an
// error.
func (svc *ChatService) ProcessMessage(ctx context.Context, userID uuid.UUID, message string, conversationID *uuid.UUID) (*models.ChatResult, error) {
	conv, err := svc.resolveConversation(ctx, userID, message, conversationID)
	if err != nil {
		return nil, err
	}

	history, err := svc.msgReader.ListByConversation(ctx, conv.ConversationID)
	if err != nil {
		logger.Log.Errorw("failed to load conversation history", "conversation_id", conv.ConversationID, "error", err)
		return nil, err
	}

	turns := make([]facades.Message, 0, len(history)+2)
	turns = append(turns, facades.Message{Role: models.RoleSystem, Content: systemPrompt})
	for _, m := range history {
		if m.Role == models.RoleUser || m.Role == models.RoleAssistant {
			turns = append(turns, facades.Message{Role: m.Role, Content: m.Content})
		}
	}
	turns = append(turns, facades.Message{Role: models.RoleUser, Content: message})

	if _, err := svc.msgWriter.SaveMessage(ctx, conv.ConversationID, models.RoleUser, message); err != nil {
		logger.Log.Errorw("failed to save user message", "conversation_id", conv.ConversationID, "error", err)
		return nil, err
	}

	completion, err := svc.completer.Complete(ctx, turns, svc.tools.Definitions())
	if err != nil {
		logger.Log.Errorw("completion failed", "conversation_id", conv.ConversationID, "error", err)
		return nil, err
	}

	response := completion.Content
	toolCalls := make([]models.ToolCallSummary, 0, len(completion.ToolCalls))

	if len(completion.ToolCalls) > 0 {
		followUp := append(turns, facades.Message{
			Role:      models.RoleAssistant,
			Content:   completion.Content,
			ToolCalls: completion.ToolCalls,
		})

		for _, tc := range completion.ToolCalls {
			result := svc.tools.Dispatch(ctx, userID, tc.Name, tc.Arguments)

			toolCalls = append(toolCalls, models.ToolCallSummary{
				Tool:      tc.Name,
				Arguments: tc.Arguments,
				Result:    result,
			})

			// Audit failures must not break the conversational response.
			if err := svc.msgWriter.SaveToolCall(ctx, conv.ConversationID, tc.Name, tc.Arguments, result); err != nil {
				logger.Log.Errorw("failed to save tool call record", "conversation_id", conv.ConversationID, "tool", tc.Name, "error", err)
			}

			resultJSON, err := json.Marshal(result)
			if err != nil {
				logger.Log.Errorw("failed to encode tool result", "tool", tc.Name, "error", err)
				resultJSON = []byte(`{"success":false,"error":"unserializable result"}`)
			}
			followUp = append(followUp, facades.Message{
				Role:       models.RoleTool,
				Content:    string(resultJSON),
				ToolCallID: tc.ID,
			})
		}

		final, err := svc.completer.Complete(ctx, followUp, nil)
		if err != nil {
			logger.Log.Errorw("follow-up completion failed", "conversation_id", conv.ConversationID, "error", err)
			return nil, err
		}
		response = final.Content
	}

	if _, err := svc.msgWriter.SaveMessage(ctx, conv.ConversationID, models.RoleAssistant, response); err != nil {
		logger.Log.Errorw("failed to save assistant message", "conversation_id", conv.ConversationID, "error", err)
		return nil, err
	}

	if err := svc.convWriter.Touch(ctx, conv.ConversationID); err != nil {
		logger.Log.Errorw("failed to touch conversation", "conversation_id", conv.ConversationID, "error", err)
	}

	return &models.ChatResult{
		ConversationID: conv.ConversationID,
		Response:       response,
		ToolCalls:      toolCalls,
	}, nil
}

// ListConversations returns a page of the user's conversations, most
// recently updated first, plus the total count.
func (svc *ChatService) ListConversations(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.ConversationDB, int64, error) {
	conversations, err := svc.convReader.List(ctx, userID, limit, offset)
	if err != nil {
		logger.Log.Errorw("failed to list conversations", "user_id", userID, "error", err)
		return nil, 0, err
	}

	total, err := svc.convReader.CountByUserID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to count conversations", "user_id", userID, "error", err)
		return nil, 0, err
	}

	return conversations, total, nil
}

func (svc *ChatService) resolveConversation(ctx context.Context, userID uuid.UUID, message string, conversationID *uuid.UUID) (*models.ConversationDB, error) {
	if conversationID != nil {
		conv, err := svc.convReader.GetByID(ctx, userID, *conversationID)
		if err != nil {
			logger.Log.Errorw("failed to get conversation", "conversation_id", *conversationID, "error", err)
			return nil, err
		}
		if conv == nil {
			return nil, ErrConversationNotFound
		}
		return conv, nil
	}

	title := deriveTitle(message)
	conv, err := svc.convWriter.Save(ctx, userID, &title)
	if err != nil {
		logger.Log.Errorw("failed to create conversation", "user_id", userID, "error", err)
		return nil, err
	}
	return conv, nil
}

// deriveTitle builds a conversation title from the first message.
func deriveTitle(message string) string {
	runes := []rune(message)
	if len(runes) <= conversationTitleLimit {
		return message
	}
	return string(runes[:conversationTitleLimit]) + "..."
}
