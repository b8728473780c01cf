package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
)

type execRequest struct {
	Line string `json:"line"`
}

type execResponse struct {
	Output string `json:"output"`
	Cwd    string `json:"cwd"`
}

func (h *Handler) handleAPIExec(w http.ResponseWriter, r *http.Request) {
	var req execRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	line := strings.TrimSpace(req.Line)
	if line == "" {
		h.writeError(w, r, http.StatusBadRequest, errors.New("line is required"))
		return
	}
	res := h.run(r.Context(), line)
	if res.Err != nil {
		h.writeError(w, r, statusFor(res.Err), res.Err)
		return
	}
	writeJSON(w, http.StatusOK, execResponse{Output: res.Output, Cwd: res.Cwd})
}

func decodeJSON(r *http.Request, dest any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return err
	}
	if decoder.More() {
		return fmt.Errorf("unexpected extra JSON data")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	h.logRequestError(r, status, err)
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

type responseTracker struct {
	http.ResponseWriter
	wroteHeader bool
}

func (rt *responseTracker) WriteHeader(status int) {
	rt.wroteHeader = true
	rt.ResponseWriter.WriteHeader(status)
}

func (rt *responseTracker) Write(b []byte) (int, error) {
	rt.wroteHeader = true
	return rt.ResponseWriter.Write(b)
}

func (h *Handler) recoverHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writer := &responseTracker{ResponseWriter: w}
		defer func() {
			if recovered := recover(); recovered != nil {
				h.logger.Error("panic handling request", "method", r.Method, "path", r.URL.Path, "panic", recovered, "stack", string(debug.Stack()))
				if writer.wroteHeader {
					return
				}
				writeJSON(writer, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			}
		}()
		next.ServeHTTP(writer, r)
	})
}
