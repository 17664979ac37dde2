package gateway

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	_ "modernc.org/sqlite"

	"github.com/meetkit/interviewd/dbopen"
	"github.com/meetkit/interviewd/export"
	"github.com/meetkit/interviewd/internal/store"
	"github.com/meetkit/interviewd/realtime"
	"github.com/meetkit/interviewd/session"
)

var testMCPImpl = &mcp.Implementation{Name: "interviewd-test", Version: "0.1.0"}

func mcpSession(t *testing.T) (*mcp.ClientSession, *Service) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := store.New(dbopen.OpenMemory(t, dbopen.WithSchema(store.Schema)))
	svc := NewService(logger, st, realtime.NewHub(logger), session.NewRegistry(st), export.NewExporter(logger, t.TempDir(), nil), 1<<20)

	srv := mcp.NewServer(testMCPImpl, nil)
	svc.RegisterMCP(srv)

	serverT, clientT := mcp.NewInMemoryTransports()
	ctx := context.Background()
	go func() { _ = srv.Run(ctx, serverT) }()

	client := mcp.NewClient(testMCPImpl, nil)
	sess, err := client.Connect(ctx, clientT, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { sess.Close() })
	return sess, svc
}

func mcpCallTool(t *testing.T, sess *mcp.ClientSession, name string, args any) string {
	t.Helper()
	result, err := sess.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	if err := result.GetError(); err != nil {
		t.Fatalf("CallTool(%s) tool error: %v", name, err)
	}
	tc, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("CallTool(%s): expected TextContent", name)
	}
	return tc.Text
}

func TestMCP_ListQuestions(t *testing.T) {
	sess, svc := mcpSession(t)
	ctx := context.Background()

	u, err := svc.store.CreateUser(ctx, "mcp-user", "mcp@example.com")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	m, err := svc.store.CreateMeeting(ctx, u.ID, "2026-09-10T14:00:00Z")
	if err != nil {
		t.Fatalf("create meeting: %v", err)
	}
	for _, q := range []string{"Two sum", "LRU cache"} {
		if _, err := svc.store.InsertQuestion(ctx, m.ID, q); err != nil {
			t.Fatalf("insert question: %v", err)
		}
	}

	text := mcpCallTool(t, sess, "interview_list_questions", map[string]any{"meeting_id": m.ID})

	var qs []*store.Question
	if err := json.Unmarshal([]byte(text), &qs); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(qs) != 2 || qs[0].Question != "Two sum" {
		t.Fatalf("questions = %+v, want the two inserted rows in order", qs)
	}
}

func TestMCP_SessionSummary(t *testing.T) {
	mcpSess, svc := mcpSession(t)

	room, _, err := svc.hub.Enter("")
	if err != nil {
		t.Fatalf("open room: %v", err)
	}
	s := svc.sessions.Create(room.ID)
	s.SetQuestion("Describe a deadlock")
	s.CaptureCurrent("")

	text := mcpCallTool(t, mcpSess, "interview_session_summary", map[string]any{"room_id": room.ID})
	if !strings.Contains(text, "Describe a deadlock") {
		t.Fatalf("summary missing snapshot content: %q", text)
	}
}
