package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	_ "modernc.org/sqlite"

	"github.com/meetkit/interviewd/dbopen"
	"github.com/meetkit/interviewd/export"
	"github.com/meetkit/interviewd/internal/store"
	"github.com/meetkit/interviewd/realtime"
	"github.com/meetkit/interviewd/session"
)

func testServer(t *testing.T) (*httptest.Server, *Service) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := store.New(dbopen.OpenMemory(t, dbopen.WithSchema(store.Schema)))
	hub := realtime.NewHub(logger)
	sessions := session.NewRegistry(st)
	exporter := export.NewExporter(logger, t.TempDir(), nil)
	svc := NewService(logger, st, hub, sessions, exporter, 1<<20)

	r := chi.NewRouter()
	svc.RegisterHTTP(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, svc
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, into any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		t.Fatalf("decode body: %v", err)
	}
}

func TestAddMeetingGeneratesRoomURL(t *testing.T) {
	srv, _ := testServer(t)

	ownerResp := postJSON(t, srv.URL+"/api/users", AddUserRequest{Username: "ana", Email: "ana@example.com"})
	var owner store.User
	decodeBody(t, ownerResp, &owner)

	resp := postJSON(t, srv.URL+"/api/meetings", AddMeetingRequest{OwnerID: owner.ID, Time: "2026-09-02T10:00:00Z"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	var m store.Meeting
	decodeBody(t, resp, &m)
	if m.RoomURL == "" {
		t.Fatal("meeting created without a room URL")
	}
	if m.OwnerID != owner.ID {
		t.Fatalf("owner_id = %d, want %d", m.OwnerID, owner.ID)
	}
}

func TestAddUserConflict(t *testing.T) {
	srv, _ := testServer(t)

	req := AddUserRequest{Username: "bob", Email: "bob@example.com"}
	first := postJSON(t, srv.URL+"/api/users", req)
	first.Body.Close()
	if first.StatusCode != http.StatusCreated {
		t.Fatalf("first create: status = %d, want 201", first.StatusCode)
	}

	second := postJSON(t, srv.URL+"/api/users", req)
	second.Body.Close()
	if second.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate create: status = %d, want 409", second.StatusCode)
	}
}

func TestAddUserMeetingDuplicatePair(t *testing.T) {
	srv, _ := testServer(t)

	var user store.User
	decodeBody(t, postJSON(t, srv.URL+"/api/users", AddUserRequest{Username: "cleo", Email: "cleo@example.com"}), &user)
	var meeting store.Meeting
	decodeBody(t, postJSON(t, srv.URL+"/api/meetings", AddMeetingRequest{OwnerID: user.ID, Time: "2026-09-03T09:00:00Z"}), &meeting)

	pair := AddUserMeetingRequest{UserID: user.ID, MeetingID: meeting.ID}
	first := postJSON(t, srv.URL+"/api/user-meetings", pair)
	first.Body.Close()
	if first.StatusCode != http.StatusCreated {
		t.Fatalf("first associate: status = %d, want 201", first.StatusCode)
	}
	second := postJSON(t, srv.URL+"/api/user-meetings", pair)
	second.Body.Close()
	if second.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate associate: status = %d, want 409", second.StatusCode)
	}
}

func TestAddQuestionRejectsBlank(t *testing.T) {
	srv, _ := testServer(t)

	var user store.User
	decodeBody(t, postJSON(t, srv.URL+"/api/users", AddUserRequest{Username: "dia", Email: "dia@example.com"}), &user)
	var meeting store.Meeting
	decodeBody(t, postJSON(t, srv.URL+"/api/meetings", AddMeetingRequest{OwnerID: user.ID, Time: "2026-09-04T09:00:00Z"}), &meeting)

	resp := postJSON(t, srv.URL+"/api/interviews", AddQuestionRequest{MeetingID: meeting.ID, Question: "   "})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("blank question: status = %d, want 400", resp.StatusCode)
	}

	// Nothing was persisted.
	list, err := http.Get(fmt.Sprintf("%s/api/interviews?id=%d", srv.URL, meeting.ID))
	if err != nil {
		t.Fatalf("GET interviews: %v", err)
	}
	var qs []*store.Question
	decodeBody(t, list, &qs)
	if len(qs) != 0 {
		t.Fatalf("question bank has %d entries, want 0", len(qs))
	}
}

func TestQuestionsKeepInsertionOrder(t *testing.T) {
	srv, _ := testServer(t)

	var user store.User
	decodeBody(t, postJSON(t, srv.URL+"/api/users", AddUserRequest{Username: "eli", Email: "eli@example.com"}), &user)
	var meeting store.Meeting
	decodeBody(t, postJSON(t, srv.URL+"/api/meetings", AddMeetingRequest{OwnerID: user.ID, Time: "2026-09-05T09:00:00Z"}), &meeting)

	want := []string{"Reverse a list", "Design a cache", "Explain indexes"}
	for _, q := range want {
		resp := postJSON(t, srv.URL+"/api/interviews", AddQuestionRequest{MeetingID: meeting.ID, Question: q})
		resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("add %q: status = %d, want 201", q, resp.StatusCode)
		}
	}

	list, err := http.Get(fmt.Sprintf("%s/api/interviews?id=%d", srv.URL, meeting.ID))
	if err != nil {
		t.Fatalf("GET interviews: %v", err)
	}
	var qs []*store.Question
	decodeBody(t, list, &qs)
	if len(qs) != len(want) {
		t.Fatalf("got %d questions, want %d", len(qs), len(want))
	}
	for i, q := range qs {
		if q.Question != want[i] {
			t.Fatalf("question[%d] = %q, want %q", i, q.Question, want[i])
		}
	}
}

func TestEnterRoomOpensAndJoins(t *testing.T) {
	srv, svc := testServer(t)

	open := postJSON(t, srv.URL+"/api/rooms/enter", EnterRoomRequest{})
	if open.StatusCode != http.StatusCreated {
		t.Fatalf("open: status = %d, want 201", open.StatusCode)
	}
	var opened EnterRoomResponse
	decodeBody(t, open, &opened)
	if !opened.Created || opened.RoomID == "" {
		t.Fatalf("open response = %+v, want created room with id", opened)
	}
	if svc.sessions.Get(opened.RoomID) == nil {
		t.Fatal("no session attached to opened room")
	}

	join := postJSON(t, srv.URL+"/api/rooms/enter", EnterRoomRequest{RoomID: opened.RoomID})
	if join.StatusCode != http.StatusOK {
		t.Fatalf("join: status = %d, want 200", join.StatusCode)
	}
	var joined EnterRoomResponse
	decodeBody(t, join, &joined)
	if joined.Created || joined.Participants != 2 {
		t.Fatalf("join response = %+v, want created=false participants=2", joined)
	}

	missing := postJSON(t, srv.URL+"/api/rooms/enter", EnterRoomRequest{RoomID: "room-nope"})
	missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown room: status = %d, want 404", missing.StatusCode)
	}
}

func TestSnapshotCaptureAndClear(t *testing.T) {
	srv, svc := testServer(t)

	var room EnterRoomResponse
	decodeBody(t, postJSON(t, srv.URL+"/api/rooms/enter", EnterRoomRequest{}), &room)
	base := srv.URL + "/api/rooms/" + room.RoomID

	postJSON(t, base+"/question", TextRequest{Text: "What is a goroutine?"}).Body.Close()
	postJSON(t, base+"/notes", TextRequest{Text: "strong concurrency answer"}).Body.Close()
	postJSON(t, base+"/code", SetCodeRequest{Author: "candidate", Text: "go func() {}()"}).Body.Close()

	capResp := postJSON(t, base+"/snapshots", struct{}{})
	if capResp.StatusCode != http.StatusCreated {
		t.Fatalf("capture: status = %d, want 201", capResp.StatusCode)
	}
	var snap session.Snapshot
	decodeBody(t, capResp, &snap)
	if snap.Question != "What is a goroutine?" || snap.Code != "go func() {}()" {
		t.Fatalf("snapshot = %+v, missing live state", snap)
	}

	clear := postJSON(t, base+"/clear", struct{}{})
	clear.Body.Close()
	if clear.StatusCode != http.StatusOK {
		t.Fatalf("clear: status = %d, want 200", clear.StatusCode)
	}

	sess := svc.sessions.Get(room.RoomID)
	if sess.Question() != "" || sess.Notes() != "" {
		t.Fatal("clear did not blank the live screen")
	}
	if len(sess.Snapshots()) != 1 {
		t.Fatalf("clear touched stored snapshots: %d, want 1", len(sess.Snapshots()))
	}
}

func TestRecorderEndpoints(t *testing.T) {
	srv, _ := testServer(t)

	var room EnterRoomResponse
	decodeBody(t, postJSON(t, srv.URL+"/api/rooms/enter", EnterRoomRequest{}), &room)
	base := srv.URL + "/api/rooms/" + room.RoomID

	stopEarly := postJSON(t, base+"/recorder/stop", struct{}{})
	stopEarly.Body.Close()
	if stopEarly.StatusCode != http.StatusConflict {
		t.Fatalf("stop before start: status = %d, want 409", stopEarly.StatusCode)
	}

	start := postJSON(t, base+"/recorder/start", struct{}{})
	start.Body.Close()
	if start.StatusCode != http.StatusOK {
		t.Fatalf("start: status = %d, want 200", start.StatusCode)
	}
	again := postJSON(t, base+"/recorder/start", struct{}{})
	again.Body.Close()
	if again.StatusCode != http.StatusConflict {
		t.Fatalf("double start: status = %d, want 409", again.StatusCode)
	}

	chunk, err := http.Post(base+"/recorder/chunks", "application/octet-stream", strings.NewReader("webm-bytes"))
	if err != nil {
		t.Fatalf("chunk: %v", err)
	}
	chunk.Body.Close()
	if chunk.StatusCode != http.StatusOK {
		t.Fatalf("chunk: status = %d, want 200", chunk.StatusCode)
	}

	// Export must refuse while the capture is running.
	blocked := postJSON(t, base+"/export", ExportRequest{Mode: export.ModeDownload})
	blocked.Body.Close()
	if blocked.StatusCode != http.StatusConflict {
		t.Fatalf("export while recording: status = %d, want 409", blocked.StatusCode)
	}

	stop := postJSON(t, base+"/recorder/stop", struct{}{})
	stop.Body.Close()
	if stop.StatusCode != http.StatusOK {
		t.Fatalf("stop: status = %d, want 200", stop.StatusCode)
	}
}

func TestExportDownloadStreamsPDF(t *testing.T) {
	srv, _ := testServer(t)

	var room EnterRoomResponse
	decodeBody(t, postJSON(t, srv.URL+"/api/rooms/enter", EnterRoomRequest{}), &room)
	base := srv.URL + "/api/rooms/" + room.RoomID

	postJSON(t, base+"/question", TextRequest{Text: "FizzBuzz"}).Body.Close()
	postJSON(t, base+"/snapshots", struct{}{}).Body.Close()

	resp := postJSON(t, base+"/export", ExportRequest{Mode: export.ModeDownload})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("export: status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("Content-Type = %q, want application/pdf", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, room.RoomID+".pdf") {
		t.Fatalf("Content-Disposition = %q, want filename %s.pdf", cd, room.RoomID)
	}
	body, _ := io.ReadAll(resp.Body)
	if !bytes.HasPrefix(body, []byte("%PDF")) {
		t.Fatal("body is not a PDF")
	}
}

func TestExportEmptySessionReportsNotice(t *testing.T) {
	srv, _ := testServer(t)

	var room EnterRoomResponse
	decodeBody(t, postJSON(t, srv.URL+"/api/rooms/enter", EnterRoomRequest{}), &room)

	resp := postJSON(t, srv.URL+"/api/rooms/"+room.RoomID+"/export", ExportRequest{Mode: export.ModeDownload})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("export: status = %d, want 200", resp.StatusCode)
	}
	var res export.Result
	decodeBody(t, resp, &res)
	if res.Notice != export.NoticeNothingToSave {
		t.Fatalf("notice = %q, want %q", res.Notice, export.NoticeNothingToSave)
	}
	if res.Filename != "" {
		t.Fatalf("filename = %q, want empty for an empty session", res.Filename)
	}
}

func TestExportUploadRequiresInterviewee(t *testing.T) {
	srv, _ := testServer(t)

	var room EnterRoomResponse
	decodeBody(t, postJSON(t, srv.URL+"/api/rooms/enter", EnterRoomRequest{}), &room)

	resp := postJSON(t, srv.URL+"/api/rooms/"+room.RoomID+"/export", ExportRequest{Mode: export.ModeUpload})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("upload without interviewee: status = %d, want 400", resp.StatusCode)
	}
}

func TestExportUploadWithoutSinkRejected(t *testing.T) {
	srv, _ := testServer(t)

	var room EnterRoomResponse
	decodeBody(t, postJSON(t, srv.URL+"/api/rooms/enter", EnterRoomRequest{}), &room)
	base := srv.URL + "/api/rooms/" + room.RoomID

	postJSON(t, base+"/interviewee", session.Interviewee{Name: "Ada", CloudFolderID: "folder-1"}).Body.Close()
	postJSON(t, base+"/question", TextRequest{Text: "Merge intervals"}).Body.Close()
	postJSON(t, base+"/snapshots", struct{}{}).Body.Close()

	// The test server carries no uploader; a valid upload request must come
	// back as a client error, not a recovered panic.
	resp := postJSON(t, base+"/export", ExportRequest{Mode: export.ModeUpload})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("upload without sink: status = %d, want 400", resp.StatusCode)
	}
}

func TestExportFormatsBlockedWhileRecording(t *testing.T) {
	srv, _ := testServer(t)

	var room EnterRoomResponse
	decodeBody(t, postJSON(t, srv.URL+"/api/rooms/enter", EnterRoomRequest{}), &room)
	base := srv.URL + "/api/rooms/" + room.RoomID

	postJSON(t, base+"/snapshots", struct{}{}).Body.Close()
	postJSON(t, base+"/recorder/start", struct{}{}).Body.Close()

	for _, format := range []string{"html", "markdown"} {
		resp := postJSON(t, base+"/export", ExportRequest{Mode: export.ModeDownload, Format: format})
		resp.Body.Close()
		if resp.StatusCode != http.StatusConflict {
			t.Fatalf("%s export while recording: status = %d, want 409", format, resp.StatusCode)
		}
	}
}

func TestExportMarkdownFormat(t *testing.T) {
	srv, _ := testServer(t)

	var room EnterRoomResponse
	decodeBody(t, postJSON(t, srv.URL+"/api/rooms/enter", EnterRoomRequest{}), &room)
	base := srv.URL + "/api/rooms/" + room.RoomID

	postJSON(t, base+"/question", TextRequest{Text: "Explain mutexes"}).Body.Close()
	postJSON(t, base+"/snapshots", struct{}{}).Body.Close()

	resp := postJSON(t, base+"/export", ExportRequest{Mode: export.ModeDownload, Format: "markdown"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("markdown export: status = %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "Explain mutexes") {
		t.Fatal("markdown summary missing question text")
	}
}

func TestCloseRoomRemovesSession(t *testing.T) {
	srv, svc := testServer(t)

	var room EnterRoomResponse
	decodeBody(t, postJSON(t, srv.URL+"/api/rooms/enter", EnterRoomRequest{}), &room)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/rooms/"+room.RoomID, nil)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("close: status = %d, want 200", resp.StatusCode)
	}
	if svc.sessions.Get(room.RoomID) != nil {
		t.Fatal("session survived room close")
	}
	if svc.hub.Room(room.RoomID) != nil {
		t.Fatal("room survived close")
	}
}
