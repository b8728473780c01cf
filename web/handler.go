// Package web serves a to-do list session over HTTP: an HTML page with a
// command line, and a JSON endpoint that runs one command per request.
package web

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/amonks/immaculater/tdl"
)

// Session is the part of a session the handler drives.
type Session interface {
	Exec(ctx context.Context, line string) error
	SetOutput(w io.Writer)
	CurrentPath() string
	Dirty() bool
}

// Options configures the handler.
type Options struct {
	Session Session

	// Save persists the list after a command changes it. Nil means the
	// handler never saves.
	Save func(ctx context.Context) error

	Logger *slog.Logger
}

// Handler serves the web client and the JSON API.
type Handler struct {
	sess      Session
	save      func(ctx context.Context) error
	logger    *slog.Logger
	mux       *http.ServeMux
	templates *templateWrapper

	// mu serializes commands; a session has one output and one cursor.
	mu sync.Mutex

	// fatal is the first fatal error seen. Until a reset succeeds, no
	// other command runs and nothing is saved.
	fatal error
}

// ErrStopped is returned for every command but reset after a fatal error.
var ErrStopped = fmt.Errorf("%w: stopped after a fatal error; run \"reset --annihilate\" or restart the server", tdl.ErrStructural)

// NewHandler creates a new web handler.
func NewHandler(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	h := &Handler{
		sess:      opts.Session,
		save:      opts.Save,
		logger:    logger,
		templates: newTemplateWrapper(),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.handlePage)
	mux.HandleFunc("POST /exec", h.handlePageExec)
	mux.HandleFunc("POST /api/exec", h.handleAPIExec)
	h.mux = mux
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.recoverHandler(h.mux).ServeHTTP(w, r)
}

// result is what one command line produced.
type result struct {
	Line   string
	Output string
	Err    error
	Cwd    string
}

// run executes line with its output captured and saves the list when the
// line changed it.
func (h *Handler) run(ctx context.Context, line string) result {
	h.mu.Lock()
	defer h.mu.Unlock()

	var out bytes.Buffer
	h.sess.SetOutput(&out)
	defer h.sess.SetOutput(io.Discard)

	res := result{Line: line}
	reset := isReset(line)
	switch {
	case h.fatal != nil && !reset:
		res.Err = fmt.Errorf("%w (%v)", ErrStopped, h.fatal)
	default:
		res.Err = h.sess.Exec(ctx, line)
		if res.Err == nil && reset {
			h.fatal = nil
		}
		if tdl.IsFatal(res.Err) {
			if h.fatal == nil {
				h.fatal = res.Err
			}
			h.logger.Error("command failed fatally", "line", line, "error", res.Err)
			break
		}
		if h.fatal == nil {
			if err := h.persist(ctx); err != nil {
				res.Err = err
			}
		}
	}
	res.Output = out.String()
	res.Cwd = h.sess.CurrentPath()
	return res
}

func isReset(line string) bool {
	fields := strings.Fields(line)
	return len(fields) > 0 && strings.EqualFold(fields[0], "reset")
}

func (h *Handler) persist(ctx context.Context) error {
	if h.save == nil || !h.sess.Dirty() {
		return nil
	}
	return h.save(ctx)
}

// listing runs ls in the current working container.
func (h *Handler) listing(ctx context.Context) (string, string) {
	res := h.run(ctx, "ls")
	if res.Err != nil {
		h.logger.Warn("list current container", "error", res.Err)
	}
	return res.Output, res.Cwd
}

type templateWrapper struct {
	tmpl *template.Template
}

func newTemplateWrapper() *templateWrapper {
	return &templateWrapper{tmpl: newTemplates()}
}

func (tw *templateWrapper) Render(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = tw.tmpl.ExecuteTemplate(w, "page", data)
}

type pageData struct {
	Cwd     string
	Listing string
	Last    *result
}

func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	listing, cwd := h.listing(r.Context())
	h.templates.Render(w, http.StatusOK, pageData{Cwd: cwd, Listing: listing})
}

func (h *Handler) handlePageExec(w http.ResponseWriter, r *http.Request) {
	line := strings.TrimSpace(r.FormValue("line"))
	if line == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	res := h.run(r.Context(), line)
	status := http.StatusOK
	if res.Err != nil {
		status = statusFor(res.Err)
		h.logRequestError(r, status, res.Err)
	}
	listing, cwd := h.listing(r.Context())
	h.templates.Render(w, status, pageData{Cwd: cwd, Listing: listing, Last: &res})
}

// statusFor maps a command error to an HTTP status. Fatal errors mean the
// list itself is in trouble; everything else is the caller's mistake.
func statusFor(err error) int {
	if tdl.IsFatal(err) {
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

func (h *Handler) logRequestError(r *http.Request, status int, err error) {
	h.logger.Warn("request failed", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
}
