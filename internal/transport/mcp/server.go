package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	stdlog "log"

	mcpproto "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sandevgo/recall/internal/core"
	"github.com/sandevgo/recall/pkg/log"
)

const (
	ToolNextQuestion  = "next_question"
	ToolAnswer        = "answer"
	ToolResetProgress = "reset_progress"
	ToolGetProgress   = "get_progress"
)

// Server exposes the trainer as MCP tools over stdio.
type Server struct {
	trainer core.Trainer
	mcp     *server.MCPServer
	in      io.Reader
	out     io.Writer
}

func NewServer(trainer core.Trainer, in io.Reader, out io.Writer) *Server {
	s := &Server{
		trainer: trainer,
		in:      in,
		out:     out,
	}

	s.mcp = server.NewMCPServer(
		core.AppName,
		core.AppVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	s.registerTools()
	return s
}

// MCP returns the underlying server, e.g. for in-process clients.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

func (s *Server) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().Msg("serving MCP tools on stdio")

	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(stdlog.New(logger, "", 0))

	if err := stdio.Listen(ctx, s.in, s.out); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mcp stdio server failed: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return nil
}

func (s *Server) registerTools() {
	learner := mcpproto.WithString("learner",
		mcpproto.Required(),
		mcpproto.Description("Learner identifier"),
	)

	s.mcp.AddTool(mcpproto.NewTool(ToolNextQuestion,
		mcpproto.WithDescription("Return the learner's due question"),
		learner,
	), s.forLearner(s.nextQuestion))

	s.mcp.AddTool(mcpproto.NewTool(ToolAnswer,
		mcpproto.WithDescription("Grade the due question and return the next one"),
		learner,
		mcpproto.WithBoolean("correct",
			mcpproto.Required(),
			mcpproto.Description("Whether the learner answered correctly"),
		),
	), s.forLearner(s.answer))

	s.mcp.AddTool(mcpproto.NewTool(ToolResetProgress,
		mcpproto.WithDescription("Start over with a freshly shuffled backlog"),
		learner,
	), s.forLearner(s.resetProgress))

	s.mcp.AddTool(mcpproto.NewTool(ToolGetProgress,
		mcpproto.WithDescription("Return totals and the three weakest questions"),
		learner,
	), s.forLearner(s.getProgress))
}
