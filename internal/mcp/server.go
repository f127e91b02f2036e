// Package mcp provides Model Context Protocol server functionality.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sagohq/sago/domain/company"
	"github.com/sagohq/sago/domain/monitor"
	"github.com/sagohq/sago/domain/round"
	"github.com/sagohq/sago/domain/storage"
)

// CompanyCatalog provides company lookups for MCP tools.
type CompanyCatalog interface {
	Get(ctx context.Context, id int64) (company.Company, error)
	List(ctx context.Context, options ...storage.Option) ([]company.Company, error)
}

// MonitorStatus provides live-run lookups for MCP tools.
type MonitorStatus interface {
	Status(ctx context.Context, companyID int64) (monitor.Run, bool, error)
}

// RoundHistory provides research-round lookups for MCP tools.
type RoundHistory interface {
	ListByCompany(ctx context.Context, companyID int64, options ...storage.Option) ([]round.ScrapeRound, error)
}

// Server wraps the MCP server with sago-specific tools.
type Server struct {
	mcpServer *server.MCPServer
	companies CompanyCatalog
	monitors  MonitorStatus
	rounds    RoundHistory
	logger    *slog.Logger
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(companies CompanyCatalog, monitors MonitorStatus, rounds RoundHistory, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		companies: companies,
		monitors:  monitors,
		rounds:    rounds,
		logger:    logger,
	}

	mcpServer := server.NewMCPServer(
		"sago",
		version,
		server.WithToolCapabilities(true),
	)

	s.registerTools(mcpServer)

	s.mcpServer = mcpServer
	return s
}

// registerTools registers all sago tools with the MCP server.
func (s *Server) registerTools(mcpServer *server.MCPServer) {
	listTool := mcp.NewTool("list_companies",
		mcp.WithDescription("List tracked companies"),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of companies to return (default: 20)"),
		),
	)
	mcpServer.AddTool(listTool, s.handleListCompanies)

	statusTool := mcp.NewTool("company_status",
		mcp.WithDescription("Get a company's monitoring status: its live research run, if any"),
		mcp.WithString("company_id",
			mcp.Required(),
			mcp.Description("The numeric ID of the company"),
		),
	)
	mcpServer.AddTool(statusTool, s.handleCompanyStatus)

	historyTool := mcp.NewTool("company_history",
		mcp.WithDescription("Get a company's research round history, newest first"),
		mcp.WithString("company_id",
			mcp.Required(),
			mcp.Description("The numeric ID of the company"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of rounds to return (default: 10)"),
		),
	)
	mcpServer.AddTool(historyTool, s.handleCompanyHistory)
}

// handleListCompanies handles the list_companies tool invocation.
func (s *Server) handleListCompanies(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", 20)

	companies, err := s.companies.List(ctx, storage.WithLimit(limit))
	if err != nil {
		s.logger.Error("list companies failed", slog.Any("error", err))
		return mcp.NewToolResultError(fmt.Sprintf("list companies failed: %v", err)), nil
	}

	type companyResult struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Industry string `json:"industry"`
		Website  string `json:"website,omitempty"`
	}

	results := make([]companyResult, len(companies))
	for i, c := range companies {
		results[i] = companyResult{
			ID:       strconv.FormatInt(c.ID(), 10),
			Name:     c.Name(),
			Industry: c.Industry(),
			Website:  c.Website(),
		}
	}

	jsonBytes, err := json.Marshal(results)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// handleCompanyStatus handles the company_status tool invocation.
func (s *Server) handleCompanyStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	companyID, result := s.companyID(ctx, request)
	if result != nil {
		return result, nil
	}

	run, live, err := s.monitors.Status(ctx, companyID)
	if err != nil {
		s.logger.Error("company status failed",
			slog.Int64("company_id", companyID), slog.Any("error", err))
		return mcp.NewToolResultError(fmt.Sprintf("company status failed: %v", err)), nil
	}

	type statusResult struct {
		CompanyID  string     `json:"company_id"`
		Monitored  bool       `json:"monitored"`
		State      string     `json:"state,omitempty"`
		NextWakeAt *time.Time `json:"next_wake_at,omitempty"`
		LastError  string     `json:"last_error,omitempty"`
	}

	status := statusResult{
		CompanyID: strconv.FormatInt(companyID, 10),
		Monitored: live,
	}
	if live {
		wake := run.NextWakeAt()
		status.State = run.State().String()
		status.NextWakeAt = &wake
		status.LastError = run.LastError()
	}

	jsonBytes, err := json.Marshal(status)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// handleCompanyHistory handles the company_history tool invocation.
func (s *Server) handleCompanyHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	companyID, result := s.companyID(ctx, request)
	if result != nil {
		return result, nil
	}

	limit := request.GetInt("limit", 10)

	rounds, err := s.rounds.ListByCompany(ctx, companyID, storage.WithLimit(limit))
	if err != nil {
		s.logger.Error("company history failed",
			slog.Int64("company_id", companyID), slog.Any("error", err))
		return mcp.NewToolResultError(fmt.Sprintf("company history failed: %v", err)), nil
	}

	type roundResult struct {
		RoundNumber   int       `json:"round_number"`
		ScheduledFor  time.Time `json:"scheduled_for"`
		Completed     bool      `json:"completed"`
		FinancialInfo string    `json:"financial_info,omitempty"`
		Sentiment     string    `json:"sentiment,omitempty"`
		CustomerInfo  string    `json:"customer_info,omitempty"`
	}

	results := make([]roundResult, len(rounds))
	for i, r := range rounds {
		results[i] = roundResult{
			RoundNumber:   r.RoundNumber(),
			ScheduledFor:  r.ScheduledFor(),
			Completed:     r.Completed(),
			FinancialInfo: r.FinancialInfo(),
			Sentiment:     r.Sentiment(),
			CustomerInfo:  r.CustomerInfo(),
		}
	}

	jsonBytes, err := json.Marshal(results)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// companyID extracts and validates the company_id argument. A non-nil result
// is the error to return to the caller.
func (s *Server) companyID(ctx context.Context, request mcp.CallToolRequest) (int64, *mcp.CallToolResult) {
	idStr, err := request.RequireString("company_id")
	if err != nil {
		return 0, mcp.NewToolResultError("company_id is required")
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, mcp.NewToolResultError(fmt.Sprintf("invalid company_id: %s", idStr))
	}

	if _, err := s.companies.Get(ctx, id); err != nil {
		return 0, mcp.NewToolResultError(fmt.Sprintf("company not found: %s", idStr))
	}

	return id, nil
}

// MCPServer returns the underlying MCP server for stdio serving.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio runs the MCP server on stdio.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
