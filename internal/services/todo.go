package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/sgnatenko/todo-chat-api/internal/logger"
	"github.com/sgnatenko/todo-chat-api/internal/models"
)

var (
	// ErrTodoNotFound is returned uniformly whether the todo does not exist
	// or belongs to another user.
	ErrTodoNotFound = errors.New("todo not found")
	// ErrInvalidTitle is returned when a title is empty or longer than 255
	// characters.
	ErrInvalidTitle = errors.New("title must be between 1 and 255 characters")
)

// TodoReader defines read operations for todos.
type TodoReader interface {
	GetByID(ctx context.Context, userID, todoID uuid.UUID) (*models.TodoDB, error)
	List(ctx context.Context, userID uuid.UUID, completed *bool) ([]models.TodoDB, error)
}

// TodoWriter defines write operations for todos.
type TodoWriter interface {
	Save(ctx context.Context, userID uuid.UUID, title string, description *string) (*models.TodoDB, error)
	Update(ctx context.Context, userID, todoID uuid.UUID, title, description *string, completed *bool) (*models.TodoDB, error)
	ToggleComplete(ctx context.Context, userID, todoID uuid.UUID) (*models.TodoDB, error)
	Delete(ctx context.Context, userID, todoID uuid.UUID) (bool, error)
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// TodoService handles owner-scoped todo CRUD and publishes mutation events.
type TodoService struct {
	reader      TodoReader
	writer      TodoWriter
	kafkaWriter KafkaWriter
}

// NewTodoService creates a new TodoService. The Kafka writer may be nil;
// publishing is then skipped.
func NewTodoService(reader TodoReader, writer TodoWriter, kafkaWriter KafkaWriter) *TodoService {
	return &TodoService{
		reader:      reader,
		writer:      writer,
		kafkaWriter: kafkaWriter,
	}
}

// publishEvent publishes a todo mutation to Kafka. Failures are logged and
// never surfaced to the caller.
func (s *TodoService) publishEvent(ctx context.Context, action string, todo *models.TodoDB) {
	if s.kafkaWriter == nil {
		return
	}

	event := models.TodoEvent{
		EventID:   uuid.NewString(),
		Action:    action,
		TodoID:    todo.TodoID.String(),
		UserID:    todo.UserID.String(),
		Title:     todo.Title,
		Completed: todo.Completed,
		Timestamp: time.Now().Unix(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("failed to marshal todo event", "event_id", event.EventID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.TodoID),
		Value: data,
	}

	if err := s.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("failed to publish todo event", "event_id", event.EventID, "error", err)
	} else {
		logger.Log.Infow("todo event published", "event_id", event.EventID, "action", action)
	}
}

// Create adds a new todo for the user. The title must be 1-255 characters;
// the description is optional and unbounded.
func (s *TodoService) Create(ctx context.Context, userID uuid.UUID, title string, description *string) (*models.TodoDB, error) {
	if !isValidTitle(title) {
		return nil, ErrInvalidTitle
	}

	todo, err := s.writer.Save(ctx, userID, title, description)
	if err != nil {
		logger.Log.Errorw("failed to create todo", "user_id", userID, "error", err)
		return nil, err
	}

	s.publishEvent(ctx, models.TodoActionCreated, todo)
	return todo, nil
}

// List returns the user's todos, newest first, optionally filtered by
// completion status.
func (s *TodoService) List(ctx context.Context, userID uuid.UUID, completed *bool) ([]models.TodoDB, error) {
	todos, err := s.reader.List(ctx, userID, completed)
	if err != nil {
		logger.Log.Errorw("failed to list todos", "user_id", userID, "error", err)
		return nil, err
	}
	return todos, nil
}

// Get returns a single todo owned by the user.
func (s *TodoService) Get(ctx context.Context, userID, todoID uuid.UUID) (*models.TodoDB, error) {
	todo, err := s.reader.GetByID(ctx, userID, todoID)
	if err != nil {
		logger.Log.Errorw("failed to get todo", "user_id", userID, "todo_id", todoID, "error", err)
		return nil, err
	}
	if todo == nil {
		return nil, ErrTodoNotFound
	}
	return todo, nil
}

// Update applies a partial update; nil fields are left unchanged.
func (s *TodoService) Update(ctx context.Context, userID, todoID uuid.UUID, title, description *string, completed *bool) (*models.TodoDB, error) {
	if title != nil && !isValidTitle(*title) {
		return nil, ErrInvalidTitle
	}

	todo, err := s.writer.Update(ctx, userID, todoID, title, description, completed)
	if err != nil {
		logger.Log.Errorw("failed to update todo", "user_id", userID, "todo_id", todoID, "error", err)
		return nil, err
	}
	if todo == nil {
		return nil, ErrTodoNotFound
	}

	s.publishEvent(ctx, models.TodoActionUpdated, todo)
	return todo, nil
}

// ToggleComplete flips the completed flag.
func (s *TodoService) ToggleComplete(ctx context.Context, userID, todoID uuid.UUID) (*models.TodoDB, error) {
	todo, err := s.writer.ToggleComplete(ctx, userID, todoID)
	if err != nil {
		logger.Log.Errorw("failed to toggle todo", "user_id", userID, "todo_id", todoID, "error", err)
		return nil, err
	}
	if todo == nil {
		return nil, ErrTodoNotFound
	}

	s.publishEvent(ctx, models.TodoActionToggled, todo)
	return todo, nil
}

// Delete removes the todo permanently.
func (s *TodoService) Delete(ctx context.Context, userID, todoID uuid.UUID) error {
	todo, err := s.reader.GetByID(ctx, userID, todoID)
	if err != nil {
		logger.Log.Errorw("failed to get todo before delete", "user_id", userID, "todo_id", todoID, "error", err)
		return err
	}
	if todo == nil {
		return ErrTodoNotFound
	}

	deleted, err := s.writer.Delete(ctx, userID, todoID)
	if err != nil {
		logger.Log.Errorw("failed to delete todo", "user_id", userID, "todo_id", todoID, "error", err)
		return err
	}
	if !deleted {
		return ErrTodoNotFound
	}

	s.publishEvent(ctx, models.TodoActionDeleted, todo)
	return nil
}

func isValidTitle(title string) bool {
	n := utf8.RuneCountInString(title)
	return n >= 1 && n <= 255
}
