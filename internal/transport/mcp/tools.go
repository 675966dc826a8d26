package mcp

import (
	"context"
	"encoding/json"
	"errors"

	mcpproto "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sandevgo/recall/internal/backlog"
	"github.com/sandevgo/recall/internal/core"
	"github.com/sandevgo/recall/internal/service/trainer"
	"github.com/sandevgo/recall/pkg/log"
)

type itemResult struct {
	ID             string          `json:"id"`
	Question       json.RawMessage `json:"question"`
	MemoryStrength int             `json:"memoryStrength"`
	Correct        int             `json:"correct"`
	Incorrect      int             `json:"incorrect"`
}

type learnerTool func(ctx context.Context, learner string, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error)

// forLearner reads the required learner argument and tags the context with it.
func (s *Server) forLearner(fn learnerTool) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
		learner, err := req.RequireString("learner")
		if err != nil {
			return mcpproto.NewToolResultError(err.Error()), nil
		}
		return fn(log.WithLearner(ctx, learner), learner, req)
	}
}

func (s *Server) nextQuestion(ctx context.Context, learner string, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
	item, err := s.trainer.Question(ctx, learner)
	if err != nil {
		return toolError(ctx, err), nil
	}
	return itemText(item)
}

func (s *Server) answer(ctx context.Context, learner string, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
	// checked before any state is touched
	correct, ok := req.GetArguments()["correct"].(bool)
	if !ok {
		return toolError(ctx, backlog.ErrInvalidAnswerType), nil
	}

	item, err := s.trainer.Answer(ctx, learner, correct)
	if err != nil {
		return toolError(ctx, err), nil
	}
	return itemText(item)
}

func (s *Server) resetProgress(ctx context.Context, learner string, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
	item, err := s.trainer.Reset(ctx, learner)
	if errors.Is(err, backlog.ErrEmptyBacklog) {
		return mcpproto.NewToolResultText("progress reset; there are no questions yet"), nil
	}
	if err != nil {
		return toolError(ctx, err), nil
	}
	return itemText(item)
}

func (s *Server) getProgress(ctx context.Context, learner string, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
	p, err := s.trainer.Progress(ctx, learner)
	if err != nil {
		return toolError(ctx, err), nil
	}
	if p.NeedImprove == nil {
		p.NeedImprove = []backlog.WeaknessEntry{}
	}
	if p.Records == nil {
		p.Records = []core.Record{}
	}

	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return mcpproto.NewToolResultText(string(data)), nil
}

func itemText(item backlog.Item) (*mcpproto.CallToolResult, error) {
	data, err := json.Marshal(itemResult{
		ID:             item.ID,
		Question:       item.Content,
		MemoryStrength: item.MemoryStrength,
		Correct:        item.CorrectCount,
		Incorrect:      item.IncorrectCount,
	})
	if err != nil {
		return nil, err
	}
	return mcpproto.NewToolResultText(string(data)), nil
}

// toolError reports domain failures as tool errors so the model can react to them.
func toolError(ctx context.Context, err error) *mcpproto.CallToolResult {
	switch {
	case errors.Is(err, backlog.ErrInvalidAnswerType):
		return mcpproto.NewToolResultError("invalid answer type: correct must be a boolean")
	case errors.Is(err, backlog.ErrEmptyBacklog):
		return mcpproto.NewToolResultError("empty backlog: there are no questions to practice")
	case errors.Is(err, trainer.ErrUnknownLearner):
		return mcpproto.NewToolResultError("unknown learner: call reset_progress first")
	default:
		log.FromCtx(ctx).Error().Err(err).Msg("mcp tool failed")
		return mcpproto.NewToolResultError(err.Error())
	}
}
