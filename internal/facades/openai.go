package facades

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sgnatenko/todo-chat-api/internal/logger"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Message is one turn of model context.
type Message struct {
	Role       string
	Content    string
	ToolCalls  []ToolCallRequest // set on assistant turns that requested tools
	ToolCallID string            // set on tool-result turns
}

// Tool describes a callable function in the chat-completions
// function-calling format.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// ToolCallRequest is a tool invocation selected by the model.
type ToolCallRequest struct {
	ID        string
	Name      string
	Arguments map[string]any
}

// Completion is the model's reply: free text, tool requests, or both.
type Completion struct {
	Content   string
	ToolCalls []ToolCallRequest
}

// ChatCompletionFacade calls an OpenAI-compatible chat-completions API.
type ChatCompletionFacade struct {
	client      *http.Client
	baseURL     string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
}

// NewChatCompletionFacade creates a facade for the given API credentials.
// An empty baseURL targets the OpenAI API.
func NewChatCompletionFacade(apiKey, model, baseURL string, maxTokens int, temperature float64) *ChatCompletionFacade {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &ChatCompletionFacade{
		client:      &http.Client{Timeout: 60 * time.Second},
		baseURL:     baseURL,
		apiKey:      apiKey,
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
	}
}

// Wire types for the chat-completions request/response bodies.

type wireFunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type wireToolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Function wireFunctionCall `json:"function"`
}

type wireMessage struct {
	Role       string         `json:"role"`
	Content    string         `json:"content"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
	ToolCalls  []wireToolCall `json:"tool_calls,omitempty"`
}

type wireFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

type wireTool struct {
	Type     string       `json:"type"`
	Function wireFunction `json:"function"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []wireMessage `json:"messages"`
	Tools       []wireTool    `json:"tools,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message wireMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends the conversation to the model and returns its reply.
// Tool arguments arrive as a JSON-encoded string on the wire and are
// decoded into maps here.
func (f *ChatCompletionFacade) Complete(ctx context.Context, messages []Message, tools []Tool) (*Completion, error) {
	reqBody := chatRequest{
		Model:       f.model,
		Messages:    make([]wireMessage, 0, len(messages)),
		MaxTokens:   f.maxTokens,
		Temperature: f.temperature,
	}

	for _, m := range messages {
		wm := wireMessage{
			Role:       m.Role,
			Content:    m.Content,
			ToolCallID: m.ToolCallID,
		}
		for _, tc := range m.ToolCalls {
			args, err := json.Marshal(tc.Arguments)
			if err != nil {
				return nil, fmt.Errorf("failed to encode tool arguments: %w", err)
			}
			wm.ToolCalls = append(wm.ToolCalls, wireToolCall{
				ID:   tc.ID,
				Type: "function",
				Function: wireFunctionCall{
					Name:      tc.Name,
					Arguments: string(args),
				},
			})
		}
		reqBody.Messages = append(reqBody.Messages, wm)
	}

	for _, t := range tools {
		reqBody.Tools = append(reqBody.Tools, wireTool{
			Type: "function",
			Function: wireFunction{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+f.apiKey)

	resp, err := f.client.Do(req)
	if err != nil {
		logger.Log.Errorw("completion request failed", "error", err)
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		// Error bodies are not always JSON (a proxy may answer with HTML),
		// so fall back to the status text.
		msg := http.StatusText(resp.StatusCode)
		var apiErr chatResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != nil {
			msg = apiErr.Error.Message
		}
		logger.Log.Errorw("completion API returned error", "status", resp.StatusCode, "message", msg)
		return nil, fmt.Errorf("completion API error: %s", msg)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode completion response: %w", err)
	}

	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("completion response contained no choices")
	}

	choice := parsed.Choices[0].Message
	completion := &Completion{Content: choice.Content}

	for _, tc := range choice.ToolCalls {
		args := make(map[string]any)
		if tc.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
				return nil, fmt.Errorf("failed to decode arguments for tool %s: %w", tc.Function.Name, err)
			}
		}
		completion.ToolCalls = append(completion.ToolCalls, ToolCallRequest{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: args,
		})
	}

	return completion, nil
}
