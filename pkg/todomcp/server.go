// Package todomcp exposes a todo.Store as MCP tools over stdio.
package todomcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/irtiza07/public-api/pkg/todo"
)

// ServerName is announced during MCP initialization.
const ServerName = "todo-manager"

// Server is the TODO MCP server.
type Server struct {
	store todo.Store
	mcp   *server.MCPServer
}

// New registers the four TODO tools on a fresh MCP server.
func New(store todo.Store, version string) *Server {
	s := &Server{
		store: store,
		mcp:   server.NewMCPServer(ServerName, version, server.WithToolCapabilities(false)),
	}

	s.mcp.AddTool(mcp.NewTool("list_todos",
		mcp.WithDescription("List all TODOs. Optionally filter by status (pending, completed)."),
		mcp.WithString("status_filter",
			mcp.Enum(string(todo.StatusPending), string(todo.StatusCompleted)),
			mcp.Description("Optional status filter")),
	), s.listTodos)

	s.mcp.AddTool(mcp.NewTool("add_todo",
		mcp.WithDescription("Add a new TODO."),
		mcp.WithString("name", mcp.Required(), mcp.Description("TODO name")),
		mcp.WithString("priority",
			mcp.Enum(string(todo.PriorityLow), string(todo.PriorityMedium), string(todo.PriorityHigh)),
			mcp.Description("TODO priority (default: medium)")),
		mcp.WithString("time_due", mcp.Description("Due date/time (ISO format or any string)")),
		mcp.WithString("status",
			mcp.Enum(string(todo.StatusPending), string(todo.StatusCompleted)),
			mcp.Description("TODO status (default: pending)")),
	), s.addTodo)

	s.mcp.AddTool(mcp.NewTool("update_todo",
		mcp.WithDescription("Update an existing TODO. Provide the ID and any fields to update."),
		mcp.WithString("todo_id", mcp.Required(), mcp.Description("ID of the TODO to update")),
		mcp.WithString("name", mcp.Description("New name")),
		mcp.WithString("priority",
			mcp.Enum(string(todo.PriorityLow), string(todo.PriorityMedium), string(todo.PriorityHigh)),
			mcp.Description("New priority")),
		mcp.WithString("time_due", mcp.Description("New due date/time")),
		mcp.WithString("status",
			mcp.Enum(string(todo.StatusPending), string(todo.StatusCompleted)),
			mcp.Description("New status")),
	), s.updateTodo)

	s.mcp.AddTool(mcp.NewTool("delete_todo",
		mcp.WithDescription("Delete a TODO by its ID."),
		mcp.WithString("todo_id", mcp.Required(), mcp.Description("ID of the TODO to delete")),
	), s.deleteTodo)

	return s
}

// MCP returns the underlying server, for transports other than stdio.
func (s *Server) MCP() *server.MCPServer { return s.mcp }

// ServeStdio serves until stdin is closed.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) listTodos(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var status todo.Status
	if v := req.GetString("status_filter", ""); v != "" {
		st, err := todo.ParseStatus(v)
		if err != nil {
			return failure(err), nil
		}
		status = st
	}
	items, err := s.store.List(ctx, status)
	if err != nil {
		return failure(err), nil
	}
	if len(items) == 0 {
		return mcp.NewToolResultText("No TODOs found."), nil
	}

	var b strings.Builder
	b.WriteString("TODOs:\n\n")
	for _, it := range items {
		fmt.Fprintf(&b, "ID: %s\nName: %s\nPriority: %s\nStatus: %s\nCreated: %s\nDue: %s\n",
			it.ID, it.Name, it.Priority, it.Status, it.TimeCreated, it.TimeDue)
		b.WriteString(strings.Repeat("-", 50) + "\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) addTodo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return failure(err), nil
	}
	it, err := s.store.Add(ctx, todo.AddParams{
		Name:     name,
		Priority: todo.Priority(req.GetString("priority", string(todo.PriorityMedium))),
		TimeDue:  req.GetString("time_due", ""),
		Status:   todo.Status(req.GetString("status", string(todo.StatusPending))),
	})
	if err != nil {
		return failure(err), nil
	}
	return mcp.NewToolResultText("✅ TODO added successfully!\n\n" + summary(it)), nil
}

func (s *Server) updateTodo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("todo_id")
	if err != nil {
		return failure(err), nil
	}

	// Only fields present in the request are changed.
	var patch todo.Patch
	args := req.GetArguments()
	if v, ok := args["name"].(string); ok {
		patch.Name = &v
	}
	if v, ok := args["priority"].(string); ok {
		p := todo.Priority(v)
		patch.Priority = &p
	}
	if v, ok := args["time_due"].(string); ok {
		patch.TimeDue = &v
	}
	if v, ok := args["status"].(string); ok {
		st := todo.Status(v)
		patch.Status = &st
	}

	it, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return failure(err), nil
	}
	return mcp.NewToolResultText("✅ TODO updated successfully!\n\n" + summary(it)), nil
}

func (s *Server) deleteTodo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("todo_id")
	if err != nil {
		return failure(err), nil
	}
	ok, err := s.store.Delete(ctx, id)
	if err != nil {
		return failure(err), nil
	}
	if !ok {
		return mcp.NewToolResultText(fmt.Sprintf("❌ TODO with ID %s not found.", id)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("✅ TODO with ID %s deleted successfully!", id)), nil
}

func summary(it todo.Item) string {
	return fmt.Sprintf("ID: %s\nName: %s\nPriority: %s\nStatus: %s\nDue: %s\n",
		it.ID, it.Name, it.Priority, it.Status, it.TimeDue)
}

// failure reports err as a text result so the client shows it to the
// user instead of treating it as a protocol error.
func failure(err error) *mcp.CallToolResult {
	msg := err.Error()
	// Drop the package prefix from store errors.
	for _, sentinel := range []error{todo.ErrNotFound, todo.ErrInvalid} {
		if errors.Is(err, sentinel) {
			msg = strings.TrimPrefix(msg, sentinel.Error()+": ")
		}
	}
	return mcp.NewToolResultText("❌ Error: " + msg)
}
