// Package mcp exposes the summarizer as a Model Context Protocol tool over stdio.
package mcp

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"wtldr/tldr"
)

const ToolName = "tldr"

// Summarizer runs one invocation; *tldr.Pipeline implements it.
type Summarizer interface {
	Run(ctx context.Context, inv tldr.Invocation) tldr.Response
}

// Handler serves the tldr tool.
type Handler struct {
	pipeline Summarizer
}

func NewHandler(pipeline Summarizer) *Handler {
	return &Handler{pipeline: pipeline}
}

// RegisterTools registers the tldr tool with the MCP server.
func (h *Handler) RegisterTools(s *server.MCPServer) error {
	tool := mcptypes.NewTool(ToolName,
		mcptypes.WithDescription("Summarize recent messages of a chat group, per participant"),
		mcptypes.WithString("platform", mcptypes.Required(), mcptypes.Description("Chat platform, e.g. onebot")),
		mcptypes.WithString("guild_id", mcptypes.Description("Group/channel id; required for a summary")),
		mcptypes.WithNumber("count", mcptypes.Description("Number of messages to summarize (defaults to the configured count)")),
		mcptypes.WithString("user", mcptypes.Description("Only summarize this user, as platform:id or a bare id")),
		mcptypes.WithString("instruction", mcptypes.Description("Extra question answered after the summary")),
		mcptypes.WithString("anchor_message_id", mcptypes.Description("Start the window at this message")),
	)

	s.AddTool(tool, h.handleTLDR)
	return nil
}

func (h *Handler) handleTLDR(ctx context.Context, req mcptypes.CallToolRequest) (*mcptypes.CallToolResult, error) {
	platform, err := req.RequireString("platform")
	if err != nil {
		return mcptypes.NewToolResultError(err.Error()), nil
	}
	guildID := req.GetString("guild_id", "")

	invocation := &tldr.Request{
		PlatformID: platform,
		Guild:      guildID,
		AnchorID:   req.GetString("anchor_message_id", ""),
		User:       req.GetString("user", ""),
		Extra:      req.GetString("instruction", ""),
		OnNotice:   notifyClient,
	}
	if raw, ok := req.GetArguments()["count"]; ok {
		invocation.RequestedCount = tldr.CountOf(countArg(raw))
	}

	log.Debug().
		Str("platform", platform).
		Str("guild_id", guildID).
		Msg("handling tldr request")

	resp := h.pipeline.Run(ctx, invocation)
	if resp.Reply == nil {
		return mcptypes.NewToolResultText(resp.Text), nil
	}
	return mcptypes.NewToolResultText(resp.Reply.Markup()), nil
}

// countArg converts the count argument to an int. Anything that is not a whole
// number maps to 0, which the pipeline rejects as an invalid count. Values beyond
// the int32 range are clamped so they still compare correctly with the maximum.
func countArg(raw any) int {
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case int:
		return v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}

	if math.IsNaN(f) || f != math.Trunc(f) {
		return 0
	}
	return int(max(min(f, math.MaxInt32), math.MinInt32))
}

// notifyClient forwards the interim notice as a log notification when a client
// session is attached to ctx.
func notifyClient(ctx context.Context, text string) error {
	s := server.ServerFromContext(ctx)
	if s == nil {
		return nil
	}
	err := s.SendNotificationToClient(ctx, "notifications/message", map[string]any{
		"level":  "info",
		"logger": ToolName,
		"data":   text,
	})
	if err != nil {
		return fmt.Errorf("send notice: %w", err)
	}
	return nil
}

// NewServer builds an MCP server with the tldr tool registered.
func NewServer(name, version string, h *Handler) (*server.MCPServer, error) {
	s := server.NewMCPServer(name, version,
		server.WithToolCapabilities(true),
		server.WithLogging(),
	)
	if err := h.RegisterTools(s); err != nil {
		return nil, fmt.Errorf("register tools: %w", err)
	}
	return s, nil
}

// ServeStdio blocks serving s over stdin/stdout.
func ServeStdio(s *server.MCPServer) error {
	log.Info().Msg("starting wtldr MCP server (stdio transport)")
	return server.ServeStdio(s)
}
