package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/amonks/immaculater/command"
	"github.com/amonks/immaculater/session"
	"github.com/amonks/immaculater/store"
	"github.com/amonks/immaculater/tdl"
)

type fixture struct {
	server *httptest.Server
	store  *store.FileStore
	saves  int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := &command.Clock{}
	clock.Set(time.Unix(1000, 0))
	f := &fixture{store: store.NewFileStore(filepath.Join(t.TempDir(), "list.imm"))}
	sess, err := session.Open(context.Background(), f.store, session.Options{Clock: clock, Location: time.UTC})
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	handler := NewHandler(Options{
		Session: sess,
		Save: func(ctx context.Context) error {
			f.saves++
			return sess.Save(ctx)
		},
	})
	f.server = httptest.NewServer(handler)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fixture) postJSON(t *testing.T, body string) (int, map[string]string) {
	t.Helper()
	resp, err := http.Post(f.server.URL+"/api/exec", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	var payload map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.StatusCode, payload
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return string(body)
}

func TestAPIExecRunsAndSaves(t *testing.T) {
	f := newFixture(t)

	status, payload := f.postJSON(t, `{"line": "mkprj P"}`)
	if status != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %v", status, payload)
	}
	if f.saves != 1 {
		t.Fatalf("expected one save, got %d", f.saves)
	}
	data, err := f.store.Read(context.Background())
	if err != nil || len(data) == 0 {
		t.Fatalf("expected a saved list, got %d bytes, err %v", len(data), err)
	}

	status, payload = f.postJSON(t, `{"line": "lsprj"}`)
	if status != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %v", status, payload)
	}
	if payload["output"] != "/inbox\n/P\n" {
		t.Fatalf("unexpected output %q", payload["output"])
	}
	if payload["cwd"] != "/" {
		t.Fatalf("unexpected cwd %q", payload["cwd"])
	}
	if f.saves != 1 {
		t.Fatalf("a read-only command should not save, got %d saves", f.saves)
	}
}

func TestAPIExecErrors(t *testing.T) {
	f := newFixture(t)

	cases := []struct {
		name string
		body string
	}{
		{name: "unknown command", body: `{"line": "frobnicate"}`},
		{name: "missing path", body: `{"line": "cd /nowhere"}`},
		{name: "blank line", body: `{"line": "   "}`},
		{name: "unknown field", body: `{"line": "ls", "verbose": true}`},
		{name: "not json", body: `ls`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, payload := f.postJSON(t, tc.body)
			if status != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", status)
			}
			if payload["error"] == "" {
				t.Fatalf("expected an error message, got %v", payload)
			}
		})
	}
}

func TestAPIExecRequiresPost(t *testing.T) {
	f := newFixture(t)
	resp, err := http.Get(f.server.URL + "/api/exec")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", resp.StatusCode)
	}
}

func TestPageShowsListing(t *testing.T) {
	f := newFixture(t)
	f.postJSON(t, `{"line": "mkprj Errands"}`)

	resp, err := http.Get(f.server.URL + "/")
	if err != nil {
		t.Fatalf("get page: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	body := readBody(t, resp)
	if !strings.Contains(body, "Errands") {
		t.Fatalf("expected listing to include the project, got %s", body)
	}
	if !strings.Contains(body, `class="cwd">/<`) {
		t.Fatalf("expected the root as the working directory, got %s", body)
	}
}

func TestPageExecChangesDirectory(t *testing.T) {
	f := newFixture(t)
	f.postJSON(t, `{"line": "mkdir Home"}`)

	resp, err := http.PostForm(f.server.URL+"/exec", url.Values{"line": {"cd /Home"}})
	if err != nil {
		t.Fatalf("post form: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	body := readBody(t, resp)
	if !strings.Contains(body, `class="cwd">/Home<`) {
		t.Fatalf("expected /Home as the working directory, got %s", body)
	}
}

func TestPageExecShowsErrors(t *testing.T) {
	f := newFixture(t)
	resp, err := http.PostForm(f.server.URL+"/exec", url.Values{"line": {"frobnicate"}})
	if err != nil {
		t.Fatalf("post form: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.StatusCode)
	}
	if body := readBody(t, resp); !strings.Contains(body, `class="error"`) {
		t.Fatalf("expected an error paragraph, got %s", body)
	}
}

func TestPageExecBlankRedirects(t *testing.T) {
	f := newFixture(t)
	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }}
	resp, err := client.PostForm(f.server.URL+"/exec", url.Values{"line": {""}})
	if err != nil {
		t.Fatalf("post form: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", resp.StatusCode)
	}
}

type panickingSession struct{}

func (panickingSession) Exec(context.Context, string) error { panic("boom") }
func (panickingSession) SetOutput(io.Writer)                {}
func (panickingSession) CurrentPath() string                { return "/" }
func (panickingSession) Dirty() bool                        { return false }

func TestRecoverHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/exec", bytes.NewBufferString(`{"line": "ls"}`))
	NewHandler(Options{Session: panickingSession{}}).ServeHTTP(rec, req)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "internal server error") {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

// scriptedSession fails "undo" fatally and accepts everything else.
type scriptedSession struct {
	ran   []string
	dirty bool
}

func (s *scriptedSession) Exec(_ context.Context, line string) error {
	s.ran = append(s.ran, line)
	s.dirty = true
	if line == "undo" {
		return fmt.Errorf("%w: replaying \"mkprj P\": boom", tdl.ErrStructural)
	}
	return nil
}
func (s *scriptedSession) SetOutput(io.Writer) {}
func (s *scriptedSession) CurrentPath() string { return "/" }
func (s *scriptedSession) Dirty() bool         { return s.dirty }

func TestFatalErrorStopsCommandsAndSaves(t *testing.T) {
	sess := &scriptedSession{}
	saves := 0
	server := httptest.NewServer(NewHandler(Options{
		Session: sess,
		Save: func(context.Context) error {
			saves++
			sess.dirty = false
			return nil
		},
	}))
	defer server.Close()

	post := func(line string) (int, map[string]string) {
		t.Helper()
		body, _ := json.Marshal(execRequest{Line: line})
		resp, err := http.Post(server.URL+"/api/exec", "application/json", bytes.NewReader(body))
		if err != nil {
			t.Fatalf("post %q: %v", line, err)
		}
		defer resp.Body.Close()
		var payload map[string]string
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return resp.StatusCode, payload
	}

	if status, _ := post("undo"); status != http.StatusInternalServerError {
		t.Fatalf("undo status = %d, expected 500", status)
	}
	status, payload := post("mkprj Q")
	if status != http.StatusInternalServerError || !strings.Contains(payload["error"], "stopped after a fatal error") {
		t.Fatalf("after a fatal error: status %d, payload %v", status, payload)
	}
	if saves != 0 {
		t.Fatalf("saved %d times after a fatal error", saves)
	}
	if len(sess.ran) != 1 {
		t.Fatalf("session ran %v, expected only the undo", sess.ran)
	}

	if status, payload := post("reset --annihilate"); status != http.StatusOK {
		t.Fatalf("reset status = %d: %v", status, payload)
	}
	if saves != 1 {
		t.Fatalf("reset should save, saves = %d", saves)
	}
	if status, payload := post("mkprj Q"); status != http.StatusOK {
		t.Fatalf("after reset: status %d, payload %v", status, payload)
	}
	if saves != 2 {
		t.Fatalf("saves = %d after reset and mkprj", saves)
	}
}

func TestErrStoppedIsFatal(t *testing.T) {
	if !errors.Is(ErrStopped, tdl.ErrStructural) || !tdl.IsFatal(ErrStopped) {
		t.Fatal("ErrStopped should be a fatal structural error")
	}
}
