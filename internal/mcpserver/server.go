// Package mcpserver exposes reminders and lists as MCP tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/balkashynov/remindr/internal/app"
	"github.com/balkashynov/remindr/internal/models"
)

const serverName = "remindr"

// Service is the part of the application the tools call into
type Service interface {
	Lists() []app.ListSummary
	View(listID string, showCompleted bool) ([]models.Reminder, error)
	Search(query string) []models.Reminder
	ResolveList(ref string) (models.List, error)
	ResolveReminder(ref string) (models.Reminder, error)
	CreateReminder(ctx context.Context, in app.ReminderInput) (*models.Reminder, error)
	SetCompleted(ctx context.Context, id string, done bool) (*models.Reminder, error)
	DeleteReminder(ctx context.Context, id string) error
}

// Server is the MCP server for reminder management
type Server struct {
	mcpServer *server.MCPServer
	svc       Service
}

// NewServer creates an MCP server backed by the given service
func NewServer(svc Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcpServer = server.NewMCPServer(
		serverName,
		version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()
	return s
}

// MCPServer returns the underlying MCP server for serving
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio blocks serving the tools on stdin/stdout
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("list_lists",
			mcp.WithDescription("List the smart lists and user lists with the number of reminders each shows"),
		),
		s.handleListLists,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("list_reminders",
			mcp.WithDescription("List the reminders of a list. Smart lists: all, today, scheduled, flag, done"),
			mcp.WithString("list", mcp.Required(), mcp.Description("List id or name")),
			mcp.WithBoolean("include_completed", mcp.Description("Include completed reminders (default false)")),
		),
		s.handleListReminders,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("search_reminders",
			mcp.WithDescription("Search reminders by title, tag or notes"),
			mcp.WithString("query", mcp.Required(), mcp.Description("Search text")),
		),
		s.handleSearchReminders,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("add_reminder",
			mcp.WithDescription("Add a reminder to a user list. A notification fires when both date and time are set and in the future"),
			mcp.WithString("title", mcp.Required(), mcp.Description("Reminder title")),
			mcp.WithString("list", mcp.Required(), mcp.Description("Target list id or name")),
			mcp.WithString("date", mcp.Description("Date as DD/MM/YYYY, today, tomorrow, 3 days or 2 weeks")),
			mcp.WithString("time", mcp.Description("Time of day as HH:MM (24h)")),
			mcp.WithString("note", mcp.Description("Optional notes")),
			mcp.WithString("tag", mcp.Description("Optional tag")),
			mcp.WithString("priority", mcp.Description("Priority: none, low, medium, high")),
			mcp.WithBoolean("flagged", mcp.Description("Flag the reminder")),
		),
		s.handleAddReminder,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("complete_reminder",
			mcp.WithDescription("Mark a reminder as completed"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Reminder id or unique id prefix")),
		),
		s.handleCompleteReminder,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("delete_reminder",
			mcp.WithDescription("Delete a reminder permanently"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Reminder id or unique id prefix")),
		),
		s.handleDeleteReminder,
	)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(output)), nil
}

func (s *Server) handleListLists(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.Lists())
}

func (s *Server) handleListReminders(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref := req.GetString("list", "")
	if ref == "" {
		return mcp.NewToolResultError("list is required"), nil
	}

	list, err := s.svc.ResolveList(ref)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	reminders, err := s.svc.View(list.ListID, req.GetBool("include_completed", false))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list reminders: %v", err)), nil
	}
	if len(reminders) == 0 {
		return mcp.NewToolResultText("No reminders found."), nil
	}
	return jsonResult(reminders)
}

func (s *Server) handleSearchReminders(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	if query == "" {
		return mcp.NewToolResultError("query is required"), nil
	}

	results := s.svc.Search(query)
	if len(results) == 0 {
		return mcp.NewToolResultText("No reminders found."), nil
	}
	return jsonResult(results)
}

func (s *Server) handleAddReminder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title := req.GetString("title", "")
	if title == "" {
		return mcp.NewToolResultError("title is required"), nil
	}

	list, err := s.svc.ResolveList(req.GetString("list", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	added, err := s.svc.CreateReminder(ctx, app.ReminderInput{
		Title:    title,
		ListID:   list.ListID,
		Date:     req.GetString("date", ""),
		Time:     req.GetString("time", ""),
		Note:     req.GetString("note", ""),
		Tag:      req.GetString("tag", ""),
		Priority: req.GetString("priority", ""),
		Flagged:  req.GetBool("flagged", false),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add reminder: %v", err)), nil
	}
	return jsonResult(added)
}

func (s *Server) handleCompleteReminder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rem, err := s.svc.ResolveReminder(req.GetString("id", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if _, err := s.svc.SetCompleted(ctx, rem.ID, true); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to complete reminder: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Reminder %s marked as completed.", rem.ID)), nil
}

func (s *Server) handleDeleteReminder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rem, err := s.svc.ResolveReminder(req.GetString("id", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.svc.DeleteReminder(ctx, rem.ID); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete reminder: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Reminder %s deleted.", rem.ID)), nil
}
