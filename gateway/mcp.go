package gateway

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/meetkit/interviewd/export"
	"github.com/meetkit/interviewd/kit"
)

// RegisterMCP registers the read-only interview tools on an MCP server.
func (s *Service) RegisterMCP(srv *mcp.Server) {
	s.registerListMeetingsTool(srv)
	s.registerListQuestionsTool(srv)
	s.registerSessionSummaryTool(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	sch := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		sch["required"] = required
	}
	return sch
}

// --- list_meetings ---

type listMeetingsRequest struct {
	UserID int64 `json:"user_id,omitempty"`
}

func (s *Service) registerListMeetingsTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "interview_list_meetings",
		Description: "List scheduled interview meetings, optionally filtered to one user's associations.",
		InputSchema: inputSchema(map[string]any{
			"user_id": map[string]any{"type": "integer", "description": "Only meetings this user is associated with"},
		}, nil),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		rr := req.(*listMeetingsRequest)
		if rr.UserID > 0 {
			return s.store.ListUserMeetings(ctx, rr.UserID)
		}
		return s.store.ListMeetings(ctx)
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var rr listMeetingsRequest
		if err := json.Unmarshal(req.Params.Arguments, &rr); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &rr}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- list_questions ---

type listQuestionsRequest struct {
	MeetingID int64 `json:"meeting_id"`
}

func (s *Service) registerListQuestionsTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "interview_list_questions",
		Description: "List the question bank for a meeting, in insertion order.",
		InputSchema: inputSchema(map[string]any{
			"meeting_id": map[string]any{"type": "integer", "description": "Meeting to list questions for"},
		}, []string{"meeting_id"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		rr := req.(*listQuestionsRequest)
		return s.store.ListQuestions(ctx, rr.MeetingID)
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var rr listQuestionsRequest
		if err := json.Unmarshal(req.Params.Arguments, &rr); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &rr}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- session_summary ---

type sessionSummaryRequest struct {
	RoomID string `json:"room_id"`
	Format string `json:"format,omitempty"`
}

func (s *Service) registerSessionSummaryTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "interview_session_summary",
		Description: "Render the snapshot history of an active interview room as HTML or Markdown.",
		InputSchema: inputSchema(map[string]any{
			"room_id": map[string]any{"type": "string", "description": "Active room id"},
			"format":  map[string]any{"type": "string", "enum": []any{"html", "markdown"}, "description": "Output format (default markdown)"},
		}, []string{"room_id"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		rr := req.(*sessionSummaryRequest)
		sess := s.sessions.Get(rr.RoomID)
		if sess == nil {
			return nil, errors.New("no such room")
		}
		snaps := sess.Snapshots()
		if rr.Format == "html" {
			return export.HTMLSummary(sess.RoomID, snaps), nil
		}
		return export.MarkdownSummary(sess.RoomID, snaps)
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var rr sessionSummaryRequest
		if err := json.Unmarshal(req.Params.Arguments, &rr); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &rr, EnrichCtx: func(ctx context.Context) context.Context {
			return kit.WithRoomID(ctx, rr.RoomID)
		}}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}
