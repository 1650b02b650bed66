package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sgnatenko/todo-chat-api/internal/models"
)

func TestConversationAndMessageRepositories(t *testing.T) {
	db, teardown := setupPostgresContainer(t)
	defer teardown()

	ctx := context.Background()

	users := NewUserWriteRepository(db)
	owner, err := users.Save(ctx, "alice@example.com", "hash")
	assert.NoError(t, err)
	stranger, err := users.Save(ctx, "bob@example.com", "hash")
	assert.NoError(t, err)

	convWrite := NewConversationWriteRepository(db)
	convRead := NewConversationReadRepository(db)
	msgWrite := NewMessageWriteRepository(db)
	msgRead := NewMessageReadRepository(db)

	title := "Shopping list"
	first, err := convWrite.Save(ctx, owner.UserID, &title)
	assert.NoError(t, err)
	assert.Equal(t, title, *first.Title)

	second, err := convWrite.Save(ctx, owner.UserID, nil)
	assert.NoError(t, err)
	assert.Nil(t, second.Title)

	t.Run("GetByID owner", func(t *testing.T) {
		conv, err := convRead.GetByID(ctx, owner.UserID, first.ConversationID)
		assert.NoError(t, err)
		assert.NotNil(t, conv)
	})

	t.Run("GetByID other user sees nothing", func(t *testing.T) {
		conv, err := convRead.GetByID(ctx, stranger.UserID, first.ConversationID)
		assert.NoError(t, err)
		assert.Nil(t, conv)
	})

	t.Run("Touch moves conversation to the front", func(t *testing.T) {
		// NOW() has microsecond precision; make sure the clock moves.
		time.Sleep(50 * time.Millisecond)
		assert.NoError(t, convWrite.Touch(ctx, first.ConversationID))

		conversations, err := convRead.List(ctx, owner.UserID, 20, 0)
		assert.NoError(t, err)
		assert.Len(t, conversations, 2)
		assert.Equal(t, first.ConversationID, conversations[0].ConversationID)
	})

	t.Run("List pagination", func(t *testing.T) {
		page, err := convRead.List(ctx, owner.UserID, 1, 1)
		assert.NoError(t, err)
		assert.Len(t, page, 1)
	})

	t.Run("CountByUserID", func(t *testing.T) {
		total, err := convRead.CountByUserID(ctx, owner.UserID)
		assert.NoError(t, err)
		assert.Equal(t, int64(2), total)

		total, err = convRead.CountByUserID(ctx, stranger.UserID)
		assert.NoError(t, err)
		assert.Zero(t, total)
	})

	t.Run("messages round trip in order", func(t *testing.T) {
		_, err := msgWrite.SaveMessage(ctx, first.ConversationID, models.RoleUser, "add milk")
		assert.NoError(t, err)
		_, err = msgWrite.SaveMessage(ctx, first.ConversationID, models.RoleAssistant, "Added!")
		assert.NoError(t, err)

		messages, err := msgRead.ListByConversation(ctx, first.ConversationID)
		assert.NoError(t, err)
		assert.Len(t, messages, 2)
		assert.Equal(t, models.RoleUser, messages[0].Role)
		assert.Equal(t, models.RoleAssistant, messages[1].Role)
	})

	t.Run("messages are conversation scoped", func(t *testing.T) {
		messages, err := msgRead.ListByConversation(ctx, second.ConversationID)
		assert.NoError(t, err)
		assert.Empty(t, messages)
	})

	t.Run("SaveToolCall", func(t *testing.T) {
		err := msgWrite.SaveToolCall(ctx, first.ConversationID, "create_todo",
			map[string]any{"title": "Buy milk"},
			map[string]any{"success": true})
		assert.NoError(t, err)

		var count int
		err = db.Get(&count, "SELECT COUNT(*) FROM tool_calls WHERE conversation_id=$1", first.ConversationID)
		assert.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}
