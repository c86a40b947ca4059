package mcp_router

import (
	"context"
	"fmt"
	"strings"

	"github.com/haierkeys/locket-service/internal/app"
	"github.com/haierkeys/locket-service/internal/dto"

	"github.com/mark3labs/mcp-go/mcp"
)

// LastAddedLinkURI 最近添加链接资源
const LastAddedLinkURI = "locket://links/last-added"

// LastAddedLinkResource the acting user's last added link and their own notes on it
type LastAddedLinkResource struct {
	app *app.App
}

func NewLastAddedLinkResource(a *app.App) *LastAddedLinkResource {
	return &LastAddedLinkResource{app: a}
}

func (r *LastAddedLinkResource) Definition() mcp.Resource {
	return mcp.NewResource(LastAddedLinkURI, "last-added-link",
		mcp.WithResourceDescription("The user's most recently added link with any attached notes."),
		mcp.WithMIMEType("text/markdown"),
	)
}

func (r *LastAddedLinkResource) Handle(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	text, err := r.read(ctx)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{URI: LastAddedLinkURI, MIMEType: "text/markdown", Text: text},
	}, nil
}

func (r *LastAddedLinkResource) read(ctx context.Context) (string, error) {
	uid, ok := actingUser(ctx)
	if !ok {
		return "❌ **Authentication Required**\n\nYou must be authenticated to view your last added link.", nil
	}

	last, err := r.app.QueryService.LastAddedLink(ctx, uid)
	if err != nil {
		return "", err
	}
	return FormatLastAddedLink(last), nil
}

// FormatLastAddedLink markdown for the resource; nil means the user has no bookmarks yet.
func FormatLastAddedLink(last *dto.LastAddedLinkDTO) string {
	if last == nil {
		return "⚠️ **No Links Found**\n\nYou haven't added any links to your Locket yet. Try adding your first link!"
	}

	var b strings.Builder
	b.WriteString("📖 **Your Last Added Link**\n\n")
	fmt.Fprintf(&b, "**%s**\n", last.Link.Title)
	fmt.Fprintf(&b, "URL: %s\n", last.Link.URL)
	fmt.Fprintf(&b, "Category: %s\n", title.String(last.UserLink.Category))
	fmt.Fprintf(&b, "Status: %s\n", title.String(last.UserLink.Status))
	fmt.Fprintf(&b, "Added: %s\n", last.UserLink.CreatedAt.String())
	if last.Link.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", last.Link.Description)
	}

	if len(last.Notes) == 0 {
		b.WriteString("\n*No notes attached to this link.*")
		return b.String()
	}
	b.WriteString("\n**📝 Your Notes:**\n")
	for _, n := range last.Notes {
		fmt.Fprintf(&b, "• %s (added %s)\n", n.Note, n.CreatedAt.String())
	}
	return b.String()
}
