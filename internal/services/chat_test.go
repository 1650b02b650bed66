package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/sgnatenko/todo-chat-api/internal/facades"
	"github.com/sgnatenko/todo-chat-api/internal/models"
	"github.com/sgnatenko/todo-chat-api/internal/services"
)

type chatMocks struct {
	convReader *services.MockConversationReader
	convWriter *services.MockConversationWriter
	msgReader  *services.MockMessageReader
	msgWriter  *services.MockMessageWriter
	completer  *services.MockCompleter
	tools      *services.MockToolExecutor
}

func newChatService(ctrl *gomock.Controller) (*services.ChatService, chatMocks) {
	m := chatMocks{
		convReader: services.NewMockConversationReader(ctrl),
		convWriter: services.NewMockConversationWriter(ctrl),
		msgReader:  services.NewMockMessageReader(ctrl),
		msgWriter:  services.NewMockMessageWriter(ctrl),
		completer:  services.NewMockCompleter(ctrl),
		tools:      services.NewMockToolExecutor(ctrl),
	}
	svc := services.NewChatService(m.convReader, m.convWriter, m.msgReader, m.msgWriter, m.completer, m.tools)
	return svc, m
}

func TestChatService_ProcessMessage_NewConversation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newChatService(ctrl)

	userID := uuid.New()
	convID := uuid.New()
	message := "Hello there"

	m.convWriter.EXPECT().
		Save(gomock.Any(), userID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, title *string) (*models.ConversationDB, error) {
			assert.Equal(t, message, *title)
			return &models.ConversationDB{ConversationID: convID, UserID: userID, Title: title}, nil
		})

	m.msgReader.EXPECT().
		ListByConversation(gomock.Any(), convID).
		Return(nil, nil)

	m.msgWriter.EXPECT().
		SaveMessage(gomock.Any(), convID, models.RoleUser, message).
		Return(&models.MessageDB{}, nil)

	m.tools.EXPECT().Definitions().Return([]facades.Tool{})

	m.completer.EXPECT().
		Complete(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msgs []facades.Message, _ []facades.Tool) (*facades.Completion, error) {
			// system prompt plus the new user message
			assert.Len(t, msgs, 2)
			assert.Equal(t, models.RoleSystem, msgs[0].Role)
			assert.Equal(t, message, msgs[1].Content)
			return &facades.Completion{Content: "Hi! How can I help?"}, nil
		})

	m.msgWriter.EXPECT().
		SaveMessage(gomock.Any(), convID, models.RoleAssistant, "Hi! How can I help?").
		Return(&models.MessageDB{}, nil)

	m.convWriter.EXPECT().
		Touch(gomock.Any(), convID).
		Return(nil)

	result, err := svc.ProcessMessage(context.Background(), userID, message, nil)
	assert.NoError(t, err)
	assert.Equal(t, convID, result.ConversationID)
	assert.Equal(t, "Hi! How can I help?", result.Response)
	assert.Empty(t, result.ToolCalls)
}

func TestChatService_ProcessMessage_TruncatesLongTitle(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newChatService(ctrl)

	userID := uuid.New()
	convID := uuid.New()
	message := strings.Repeat("a", 80)

	m.convWriter.EXPECT().
		Save(gomock.Any(), userID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, title *string) (*models.ConversationDB, error) {
			assert.Equal(t, strings.Repeat("a", 50)+"...", *title)
			return &models.ConversationDB{ConversationID: convID, UserID: userID, Title: title}, nil
		})

	m.msgReader.EXPECT().ListByConversation(gomock.Any(), convID).Return(nil, nil)
	m.msgWriter.EXPECT().SaveMessage(gomock.Any(), convID, models.RoleUser, message).Return(&models.MessageDB{}, nil)
	m.tools.EXPECT().Definitions().Return(nil)
	m.completer.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).Return(&facades.Completion{Content: "ok"}, nil)
	m.msgWriter.EXPECT().SaveMessage(gomock.Any(), convID, models.RoleAssistant, "ok").Return(&models.MessageDB{}, nil)
	m.convWriter.EXPECT().Touch(gomock.Any(), convID).Return(nil)

	_, err := svc.ProcessMessage(context.Background(), userID, message, nil)
	assert.NoError(t, err)
}

func TestChatService_ProcessMessage_ConversationNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newChatService(ctrl)

	userID := uuid.New()
	convID := uuid.New()

	m.convReader.EXPECT().
		GetByID(gomock.Any(), userID, convID).
		Return(nil, nil)

	result, err := svc.ProcessMessage(context.Background(), userID, "hi", &convID)
	assert.ErrorIs(t, err, services.ErrConversationNotFound)
	assert.Nil(t, result)
}

func TestChatService_ProcessMessage_RebuildsHistory(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newChatService(ctrl)

	userID := uuid.New()
	convID := uuid.New()

	m.convReader.EXPECT().
		GetByID(gomock.Any(), userID, convID).
		Return(&models.ConversationDB{ConversationID: convID, UserID: userID}, nil)

	m.msgReader.EXPECT().
		ListByConversation(gomock.Any(), convID).
		Return([]models.MessageDB{
			{Role: models.RoleUser, Content: "add milk"},
			{Role: models.RoleAssistant, Content: "Added!"},
			{Role: models.RoleTool, Content: `{"success":true}`},
		}, nil)

	m.msgWriter.EXPECT().
		SaveMessage(gomock.Any(), convID, models.RoleUser, "thanks").
		Return(&models.MessageDB{}, nil)

	m.tools.EXPECT().Definitions().Return(nil)

	m.completer.EXPECT().
		Complete(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msgs []facades.Message, _ []facades.Tool) (*facades.Completion, error) {
			// tool records are not replayed to the model
			assert.Len(t, msgs, 4)
			assert.Equal(t, "add milk", msgs[1].Content)
			assert.Equal(t, "Added!", msgs[2].Content)
			assert.Equal(t, "thanks", msgs[3].Content)
			return &facades.Completion{Content: "You're welcome"}, nil
		})

	m.msgWriter.EXPECT().
		SaveMessage(gomock.Any(), convID, models.RoleAssistant, "You're welcome").
		Return(&models.MessageDB{}, nil)

	m.convWriter.EXPECT().Touch(gomock.Any(), convID).Return(nil)

	result, err := svc.ProcessMessage(context.Background(), userID, "thanks", &convID)
	assert.NoError(t, err)
	assert.Equal(t, "You're welcome", result.Response)
}

func TestChatService_ProcessMessage_ExecutesToolCalls(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newChatService(ctrl)

	userID := uuid.New()
	convID := uuid.New()
	args := map[string]any{"title": "Buy milk"}
	toolResult := map[string]any{"success": true, "todo_id": uuid.NewString()}

	m.convReader.EXPECT().
		GetByID(gomock.Any(), userID, convID).
		Return(&models.ConversationDB{ConversationID: convID, UserID: userID}, nil)

	m.msgReader.EXPECT().ListByConversation(gomock.Any(), convID).Return(nil, nil)

	m.msgWriter.EXPECT().
		SaveMessage(gomock.Any(), convID, models.RoleUser, "add milk to my list").
		Return(&models.MessageDB{}, nil)

	m.tools.EXPECT().Definitions().Return([]facades.Tool{{Name: "create_todo"}})

	first := m.completer.EXPECT().
		Complete(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&facades.Completion{
			ToolCalls: []facades.ToolCallRequest{
				{ID: "call_1", Name: "create_todo", Arguments: args},
			},
		}, nil)

	m.tools.EXPECT().
		Dispatch(gomock.Any(), userID, "create_todo", args).
		Return(toolResult)

	m.msgWriter.EXPECT().
		SaveToolCall(gomock.Any(), convID, "create_todo", args, toolResult).
		Return(nil)

	m.completer.EXPECT().
		Complete(gomock.Any(), gomock.Any(), gomock.Nil()).
		DoAndReturn(func(_ context.Context, msgs []facades.Message, _ []facades.Tool) (*facades.Completion, error) {
			last := msgs[len(msgs)-1]
			assert.Equal(t, models.RoleTool, last.Role)
			assert.Equal(t, "call_1", last.ToolCallID)
			return &facades.Completion{Content: "Added milk to your list."}, nil
		}).
		After(first)

	m.msgWriter.EXPECT().
		SaveMessage(gomock.Any(), convID, models.RoleAssistant, "Added milk to your list.").
		Return(&models.MessageDB{}, nil)

	m.convWriter.EXPECT().Touch(gomock.Any(), convID).Return(nil)

	result, err := svc.ProcessMessage(context.Background(), userID, "add milk to my list", &convID)
	assert.NoError(t, err)
	assert.Equal(t, "Added milk to your list.", result.Response)
	assert.Len(t, result.ToolCalls, 1)
	assert.Equal(t, "create_todo", result.ToolCalls[0].Tool)
	assert.Equal(t, toolResult, result.ToolCalls[0].Result)
}

func TestChatService_ProcessMessage_ToolAuditFailureIsIgnored(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newChatService(ctrl)

	userID := uuid.New()
	convID := uuid.New()
	args := map[string]any{"title": "Buy milk"}

	m.convReader.EXPECT().
		GetByID(gomock.Any(), userID, convID).
		Return(&models.ConversationDB{ConversationID: convID, UserID: userID}, nil)

	m.msgReader.EXPECT().ListByConversation(gomock.Any(), convID).Return(nil, nil)
	m.msgWriter.EXPECT().SaveMessage(gomock.Any(), convID, models.RoleUser, "add milk").Return(&models.MessageDB{}, nil)
	m.tools.EXPECT().Definitions().Return(nil)

	m.completer.EXPECT().
		Complete(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&facades.Completion{
			ToolCalls: []facades.ToolCallRequest{{ID: "call_1", Name: "create_todo", Arguments: args}},
		}, nil)

	m.tools.EXPECT().
		Dispatch(gomock.Any(), userID, "create_todo", args).
		Return(map[string]any{"success": true})

	m.msgWriter.EXPECT().
		SaveToolCall(gomock.Any(), convID, "create_todo", args, gomock.Any()).
		Return(errors.New("db error"))

	m.completer.EXPECT().
		Complete(gomock.Any(), gomock.Any(), gomock.Nil()).
		Return(&facades.Completion{Content: "Done."}, nil)

	m.msgWriter.EXPECT().SaveMessage(gomock.Any(), convID, models.RoleAssistant, "Done.").Return(&models.MessageDB{}, nil)
	m.convWriter.EXPECT().Touch(gomock.Any(), convID).Return(nil)

	result, err := svc.ProcessMessage(context.Background(), userID, "add milk", &convID)
	assert.NoError(t, err)
	assert.Equal(t, "Done.", result.Response)
}

func TestChatService_ProcessMessage_CompletionError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newChatService(ctrl)

	userID := uuid.New()
	convID := uuid.New()

	m.convReader.EXPECT().
		GetByID(gomock.Any(), userID, convID).
		Return(&models.ConversationDB{ConversationID: convID, UserID: userID}, nil)

	m.msgReader.EXPECT().ListByConversation(gomock.Any(), convID).Return(nil, nil)
	m.msgWriter.EXPECT().SaveMessage(gomock.Any(), convID, models.RoleUser, "hi").Return(&models.MessageDB{}, nil)
	m.tools.EXPECT().Definitions().Return(nil)

	m.completer.EXPECT().
		Complete(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("model unavailable"))

	result, err := svc.ProcessMessage(context.Background(), userID, "hi", &convID)
	assert.EqualError(t, err, "model unavailable")
	assert.Nil(t, result)
}

func TestChatService_ListConversations(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newChatService(ctrl)

	userID := uuid.New()
	conversations := []models.ConversationDB{
		{ConversationID: uuid.New(), UserID: userID},
		{ConversationID: uuid.New(), UserID: userID},
	}

	tests := []struct {
		name      string
		listErr   error
		countErr  error
		wantTotal int64
		wantErr   error
	}{
		{
			name:      "success",
			wantTotal: 7,
		},
		{
			name:    "list error",
			listErr: errors.New("db error"),
			wantErr: errors.New("db error"),
		},
		{
			name:     "count error",
			countErr: errors.New("db error"),
			wantErr:  errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var listed []models.ConversationDB
			if tt.listErr == nil {
				listed = conversations
			}
			m.convReader.EXPECT().
				List(gomock.Any(), userID, 20, 0).
				Return(listed, tt.listErr)

			if tt.listErr == nil {
				m.convReader.EXPECT().
					CountByUserID(gomock.Any(), userID).
					Return(tt.wantTotal, tt.countErr)
			}

			got, total, err := svc.ListConversations(context.Background(), userID, 20, 0)
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
				assert.Nil(t, got)
				assert.Zero(t, total)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, conversations, got)
				assert.Equal(t, tt.wantTotal, total)
			}
		})
	}
}
