// Package httpapi is the JSON transport in front of the conversation
// engine and the case archive. It holds no conversation logic: every
// request is decoded, handed to the engine or the archive, and the result
// encoded back.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/qanoon-app/qanoon/internal/archive"
	"github.com/qanoon-app/qanoon/internal/engine"
	"github.com/qanoon-app/qanoon/internal/schema"
	"github.com/qanoon-app/qanoon/internal/session"
)

// PDFRenderer prints a markdown report to PDF. Satisfied by
// report.ChromiumPDFRenderer; nil disables the /pdf route.
type PDFRenderer interface {
	Render(ctx context.Context, markdown, language string) ([]byte, error)
}

type Server struct {
	eng      *engine.Engine
	dir      *session.Directory
	store    *archive.Store
	renderer PDFRenderer
}

func NewServer(eng *engine.Engine, dir *session.Directory, store *archive.Store, renderer PDFRenderer) http.Handler {
	s := &Server{eng: eng, dir: dir, store: store, renderer: renderer}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/case/start", s.handleStartCase)
	mux.HandleFunc("/api/chat", s.handleChat)
	mux.HandleFunc("/api/status/", s.handleStatus)
	mux.HandleFunc("/api/report/", s.handleReport)
	mux.HandleFunc("/api/cases", s.handleListCases)
	mux.HandleFunc("/api/health", s.handleHealth)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"ok":    false,
		"error": map[string]any{"message": message},
	})
}

func decodeBody(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("empty body")
	}
	blob, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	if len(blob) == 0 {
		blob = []byte("{}")
	}
	return json.Unmarshal(blob, dst)
}

func methodOnly(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}

type startCaseRequest struct {
	CaseType string `json:"case_type"`
	Language string `json:"language"`
}

type startCaseResponse struct {
	SessionID string   `json:"session_id"`
	Message   string   `json:"message"`
	Options   []string `json:"options,omitempty"`
}

func (s *Server) handleStartCase(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	var req startCaseRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	ct, ok := schema.Parse(req.CaseType)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown case type "+strings.TrimSpace(req.CaseType))
		return
	}
	id, first, options, err := s.eng.StartCase(ct, req.Language)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, startCaseResponse{SessionID: id, Message: first, Options: options})
}

type chatRequest struct {
	SessionID   string `json:"session_id"`
	Message     string `json:"message"`
	Language    string `json:"language"`
	ImageBase64 string `json:"image_base64"`
}

type chatResponse struct {
	SessionID  string         `json:"session_id"`
	Reply      string         `json:"reply"`
	Options    []string       `json:"options,omitempty"`
	IsComplete bool           `json:"is_complete"`
	CaseData   map[string]any `json:"case_data,omitempty"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	var req chatRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	sid := strings.TrimSpace(req.SessionID)
	if sid == "" {
		sid = uuid.NewString()
	}
	if req.Language == "ar" || req.Language == "en" {
		s.dir.Update(sid, func(sess *session.Session) { sess.Language = req.Language })
	}
	res := s.eng.ProcessTurn(r.Context(), sid, req.Message, req.ImageBase64)
	writeJSON(w, http.StatusOK, chatResponse{
		SessionID:  sid,
		Reply:      res.Reply,
		Options:    res.Options,
		IsComplete: res.IsComplete,
		CaseData:   res.CaseData,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	sid := strings.TrimPrefix(r.URL.Path, "/api/status/")
	if sid == "" || strings.Contains(sid, "/") {
		writeError(w, http.StatusBadRequest, "session id required")
		return
	}
	st, err := s.eng.GetStatus(sid)
	if errors.Is(err, engine.ErrSessionNotFound) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"mode":      st.Mode,
		"case_type": st.CaseType,
		"active":    st.Active,
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	caseID := strings.TrimPrefix(r.URL.Path, "/api/report/")
	wantPDF := false
	if rest, ok := strings.CutSuffix(caseID, "/pdf"); ok {
		caseID = rest
		wantPDF = true
	}
	if caseID == "" || strings.Contains(caseID, "/") {
		writeError(w, http.StatusBadRequest, "case id required")
		return
	}
	rec, err := s.store.Get(caseID)
	if errors.Is(err, archive.ErrNotFound) {
		writeError(w, http.StatusNotFound, "case not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if wantPDF {
		s.servePDF(w, r, rec)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"case_id":      rec.CaseID,
		"case_type":    rec.CaseType,
		"language":     rec.Language,
		"client_name":  rec.ClientName,
		"report":       rec.Report,
		"analysis":     rec.Analysis,
		"completed_at": rec.CompletedAt,
	})
}

func (s *Server) servePDF(w http.ResponseWriter, r *http.Request, rec archive.Record) {
	if s.renderer == nil {
		writeError(w, http.StatusNotImplemented, "pdf rendering not configured")
		return
	}
	pdf, err := s.renderer.Render(r.Context(), rec.Report, rec.Language)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+rec.CaseID+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

func (s *Server) handleListCases(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	sums, err := s.store.List(100)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]map[string]any, 0, len(sums))
	for _, sum := range sums {
		out = append(out, map[string]any{
			"case_id":      sum.CaseID,
			"case_type":    sum.CaseType,
			"client_name":  sum.ClientName,
			"completed_at": sum.CompletedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"cases": out})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":       true,
		"sessions": s.dir.Len(),
	})
}
