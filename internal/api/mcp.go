package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Manoj120605/Lostfoundbot25/internal/history"
	"github.com/Manoj120605/Lostfoundbot25/internal/item"
	"github.com/Manoj120605/Lostfoundbot25/internal/store"
)

// NewMCPServer creates an MCP server with the lost-and-found tools and
// resources registered. Assistants use it to file and search reports on the
// user's behalf.
func NewMCPServer(deps Deps) *server.MCPServer {
	s := server.NewMCPServer(
		"lostfound",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("lostfound — local lost and found registry for filing item reports and matching them against the opposite collection."),
		server.WithRecovery(),
	)

	// Tools
	s.AddTool(
		mcp.NewTool("report_lost_item",
			mcp.WithDescription("File a lost item report and return likely matches among found items."),
			mcp.WithString("person_name", mcp.Description("Name of the person who lost the item"), mcp.Required()),
			mcp.WithString("contact_info", mcp.Description("How to reach the reporter (phone or email)")),
			mcp.WithString("category", mcp.Description("Item category, e.g. Smartphone, Wallet, Keys"), mcp.Required()),
			mcp.WithString("event_time", mcp.Description("When the item was lost, YYYY-MM-DD HH:MM")),
			mcp.WithString("location", mcp.Description("Where the item was lost")),
			mcp.WithString("details", mcp.Description("JSON object of category attributes, e.g. {\"brand\":\"Apple\",\"color\":\"black\"}")),
			mcp.WithString("additional_info", mcp.Description("Free-form notes")),
		),
		mcpReport(deps, item.KindLost),
	)

	s.AddTool(
		mcp.NewTool("report_found_item",
			mcp.WithDescription("File a found item report and return lost reports it may belong to."),
			mcp.WithString("person_name", mcp.Description("Name of the person who found the item"), mcp.Required()),
			mcp.WithString("contact_info", mcp.Description("How to reach the finder (phone or email)")),
			mcp.WithString("category", mcp.Description("Item category, e.g. Smartphone, Wallet, Keys"), mcp.Required()),
			mcp.WithString("event_time", mcp.Description("When the item was found, YYYY-MM-DD HH:MM")),
			mcp.WithString("location", mcp.Description("Where the item was found")),
			mcp.WithString("details", mcp.Description("JSON object of category attributes, e.g. {\"brand\":\"Apple\",\"color\":\"black\"}")),
			mcp.WithString("additional_info", mcp.Description("Free-form notes")),
		),
		mcpReport(deps, item.KindFound),
	)

	s.AddTool(
		mcp.NewTool("find_matches",
			mcp.WithDescription("Search the opposite collection for reports matching a description, ranked by score."),
			mcp.WithString("kind", mcp.Description("\"lost\" to search found reports, \"found\" to search lost reports"), mcp.Required()),
			mcp.WithString("category", mcp.Description("Item category to search within"), mcp.Required()),
			mcp.WithString("details", mcp.Description("JSON object of attributes to match against")),
		),
		mcpFindMatches(deps),
	)

	s.AddTool(
		mcp.NewTool("list_items",
			mcp.WithDescription("List stored reports, optionally filtered by category, location or event date range."),
			mcp.WithString("kind", mcp.Description("\"lost\" or \"found\" (default lost)")),
			mcp.WithString("category", mcp.Description("Exact category filter")),
			mcp.WithString("location", mcp.Description("Substring location filter, case-insensitive")),
			mcp.WithString("from", mcp.Description("Earliest event time, YYYY-MM-DD")),
			mcp.WithString("to", mcp.Description("Latest event time, YYYY-MM-DD")),
		),
		mcpListItems(deps),
	)

	// Resources
	s.AddResource(
		mcp.NewResource(
			"lostfound://locations",
			"Known Locations",
			mcp.WithResourceDescription("Registered campus locations as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceLocations(deps),
	)

	return s
}

func mcpReport(deps Deps, kind item.Kind) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		personName, err := req.RequireString("person_name")
		if err != nil {
			return mcpError("person_name is required"), nil
		}
		category, err := req.RequireString("category")
		if err != nil {
			return mcpError("category is required"), nil
		}
		if !item.ValidCategory(category) {
			return mcpError(fmt.Sprintf("unknown category %q", category)), nil
		}

		details, err := parseDetailsArg(req.GetString("details", ""))
		if err != nil {
			return mcpError(fmt.Sprintf("invalid details JSON: %v", err)), nil
		}

		it, err := deps.Store.Add(kind, store.Draft{
			PersonName:     personName,
			ContactInfo:    req.GetString("contact_info", ""),
			Category:       category,
			EventTime:      req.GetString("event_time", ""),
			Location:       req.GetString("location", ""),
			Details:        details,
			AdditionalInfo: req.GetString("additional_info", ""),
		})
		if err != nil {
			return mcpError(fmt.Sprintf("failed to save report: %v", err)), nil
		}

		matches := deps.Matcher.FindMatches(kind == item.KindLost, it.Category, it.Details)

		eventKind := history.KindReportFound
		if kind == item.KindLost {
			eventKind = history.KindReportLost
		}
		logEvent(deps.History, history.Event{
			ID:       uuid.New().String(),
			Kind:     eventKind,
			ItemID:   it.ID,
			Category: it.Category,
			Matches:  len(matches),
		})

		b, err := json.Marshal(ReportResponse{Item: it, Matches: matches})
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal result: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpFindMatches(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		kindStr, err := req.RequireString("kind")
		if err != nil {
			return mcpError("kind is required"), nil
		}
		kind := item.Kind(kindStr)
		if !kind.Valid() {
			return mcpError(fmt.Sprintf("unknown kind %q", kindStr)), nil
		}
		category, err := req.RequireString("category")
		if err != nil {
			return mcpError("category is required"), nil
		}
		if !item.ValidCategory(category) {
			return mcpError(fmt.Sprintf("unknown category %q", category)), nil
		}

		details, err := parseDetailsArg(req.GetString("details", ""))
		if err != nil {
			return mcpError(fmt.Sprintf("invalid details JSON: %v", err)), nil
		}

		matches := deps.Matcher.FindMatches(kind == item.KindLost, category, details)

		logEvent(deps.History, history.Event{
			ID:       uuid.New().String(),
			Kind:     history.KindSearch,
			Category: category,
			Matches:  len(matches),
		})

		if len(matches) == 0 {
			return mcpText("[]"), nil
		}
		b, err := json.Marshal(matches)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal matches: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpListItems(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		kind := item.Kind(req.GetString("kind", string(item.KindLost)))
		if !kind.Valid() {
			return mcpError(fmt.Sprintf("unknown kind %q", kind)), nil
		}

		items := deps.Store.List(kind, store.Filter{
			Category:  req.GetString("category", ""),
			Location:  req.GetString("location", ""),
			EventFrom: req.GetString("from", ""),
			EventTo:   req.GetString("to", ""),
		})

		if len(items) == 0 {
			return mcpText("[]"), nil
		}
		b, err := json.Marshal(items)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal items: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpResourceLocations(deps Deps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		locs := deps.Store.Locations()
		if locs == nil {
			locs = []item.Location{}
		}

		b, err := json.Marshal(locs)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal locations: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func parseDetailsArg(raw string) (map[string]string, error) {
	if raw == "" {
		return nil, nil
	}
	var details map[string]string
	if err := json.Unmarshal([]byte(raw), &details); err != nil {
		return nil, err
	}
	return details, nil
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
