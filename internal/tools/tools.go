// Package tools maps model-selected tool invocations onto owner-scoped todo
// operations. The tool set is a closed enumeration; dispatch is an explicit
// switch so the owner-substitution rule is enforced in one place.
package tools

import "github.com/sgnatenko/todo-chat-api/internal/facades"

// Tool names the model may select.
const (
	ToolCreateTodo = "create_todo"
	ToolListTodos  = "list_todos"
	ToolUpdateTodo = "update_todo"
	ToolDeleteTodo = "delete_todo"
	ToolGetTodo    = "get_todo"
)

// Definitions returns the function-calling schemas for all todo tools.
func Definitions() []facades.Tool {
	return []facades.Tool{
		{
			Name:        ToolCreateTodo,
			Description: "Create a new todo item for the user",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title": map[string]any{
						"type":        "string",
						"description": "The title or summary of the todo item",
					},
					"description": map[string]any{
						"type":        "string",
						"description": "Optional detailed description of the todo item",
					},
				},
				"required": []string{"title"},
			},
		},
		{
			Name:        ToolListTodos,
			Description: "List all todo items for the user, optionally filtered by completion status",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"completed": map[string]any{
						"type":        "boolean",
						"description": "Filter by completion status. If not provided, returns all todos.",
					},
				},
				"required": []string{},
			},
		},
		{
			Name:        ToolUpdateTodo,
			Description: "Update a todo item's title, description, or completion status",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"todo_id": map[string]any{
						"type":        "string",
						"description": "The UUID of the todo item to update",
					},
					"title": map[string]any{
						"type":        "string",
						"description": "New title for the todo item",
					},
					"description": map[string]any{
						"type":        "string",
						"description": "New description for the todo item",
					},
					"completed": map[string]any{
						"type":        "boolean",
						"description": "New completion status",
					},
				},
				"required": []string{"todo_id"},
			},
		},
		{
			Name:        ToolDeleteTodo,
			Description: "Delete a todo item",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"todo_id": map[string]any{
						"type":        "string",
						"description": "The UUID of the todo item to delete",
					},
				},
				"required": []string{"todo_id"},
			},
		},
		{
			Name:        ToolGetTodo,
			Description: "Get details of a specific todo item",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"todo_id": map[string]any{
						"type":        "string",
						"description": "The UUID of the todo item to retrieve",
					},
				},
				"required": []string{"todo_id"},
			},
		},
	}
}
