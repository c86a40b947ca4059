// Package mcp_router exposes Locket to agents over the model context protocol.
// Package mcp_router 通过 MCP 协议向 agent 暴露 Locket
package mcp_router

import (
	"context"
	"net/http"

	"github.com/haierkeys/locket-service/internal/app"
	pkgapp "github.com/haierkeys/locket-service/pkg/app"

	"github.com/mark3labs/mcp-go/server"
)

// NewServer registers every tool, resource and prompt on a new MCP server.
func NewServer(a *app.App) *server.MCPServer {
	cfg := a.Config().MCP

	s := server.NewMCPServer(
		cfg.Name,
		cfg.Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(cfg.Instructions),
	)

	// public
	recentLinks := NewRecentLinksTool(a)
	s.AddTool(recentLinks.Definition(), recentLinks.Handle)

	trending := NewTrendingLinksTool(a)
	s.AddTool(trending.Definition(), trending.Handle)

	recentStatuses := NewRecentStatusesTool(a)
	s.AddTool(recentStatuses.Definition(), recentStatuses.Handle)

	// authenticated
	addLink := NewAddLinkTool(a)
	s.AddTool(addLink.Definition(), addLink.Handle)

	updateStatus := NewUpdateStatusTool(a)
	s.AddTool(updateStatus.Definition(), updateStatus.Handle)

	lastAdded := NewLastAddedLinkResource(a)
	s.AddResource(lastAdded.Definition(), lastAdded.Handle)

	summarize := NewSummarizeLinkPrompt()
	s.AddPrompt(summarize.Definition(), summarize.Handle)

	return s
}

// NewHTTPHandler serves the streamable HTTP transport. The acting user is whatever the
// auth middleware put on the request context; anonymous callers get the public tools only.
func NewHTTPHandler(s *server.MCPServer, path string) http.Handler {
	return server.NewStreamableHTTPServer(s,
		server.WithEndpointPath(path),
		server.WithStateLess(true),
		server.WithHTTPContextFunc(func(ctx context.Context, r *http.Request) context.Context {
			if uid, ok := pkgapp.UIDFromContext(r.Context()); ok {
				return pkgapp.ContextWithUID(ctx, uid)
			}
			return ctx
		}),
	)
}

// ServeStdio runs the stdio transport as uid until stdin closes; uid 0 means anonymous.
func ServeStdio(s *server.MCPServer, uid int64) error {
	return server.ServeStdio(s, server.WithStdioContextFunc(func(ctx context.Context) context.Context {
		if uid > 0 {
			return pkgapp.ContextWithUID(ctx, uid)
		}
		return ctx
	}))
}

func actingUser(ctx context.Context) (int64, bool) {
	uid, ok := pkgapp.UIDFromContext(ctx)
	return uid, ok && uid > 0
}
