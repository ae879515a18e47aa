package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/KaramelBytes/promodash/internal/aggregate"
	"github.com/KaramelBytes/promodash/internal/binding"
	"github.com/KaramelBytes/promodash/internal/dataset"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn("encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

// existingSession returns the session named by the request cookie, if any.
func (s *Server) existingSession(r *http.Request) (*binding.Session, bool) {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil, false
	}
	return s.sessions.get(c.Value)
}

// session returns the caller's session, creating one (and its cookie) when
// the request carries none or an expired id.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *binding.Session {
	if sess, ok := s.existingSession(r); ok {
		return sess
	}
	id, sess := s.sessions.create()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

// validateEvent rejects selector values outside their domain before they
// reach the binding layer.
func validateEvent(ev binding.Event) error {
	switch ev.Source {
	case binding.SourceCategory:
		if !dataset.IsRateField(dataset.Field(ev.Value)) {
			return &dataset.InvalidSelectorError{Selector: "category", Value: ev.Value}
		}
	case binding.SourceDepartment:
		if !dataset.IsDepartment(ev.Value) {
			return &dataset.InvalidSelectorError{Selector: "department", Value: ev.Value}
		}
	default:
		return binding.ErrUnknownSource
	}
	return nil
}

func isClientError(err error) bool {
	return errors.Is(err, dataset.ErrInvalidSelector) || errors.Is(err, binding.ErrUnknownSource)
}

type indexData struct {
	Title       string
	Summary     aggregate.Summary
	Categories  []option
	Departments []option
	View        viewResponse
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.existingSession(r)
	if !ok {
		sess = s.sessions.template
	}
	data := indexData{
		Title:       "Employee Promotion Analysis",
		Summary:     s.summary,
		Categories:  categoryOptions(),
		Departments: departmentOptions(),
		View:        newViewResponse(sess.View()),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		s.log.Error("template error", "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "employees": s.reg.Table().Len()})
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"categories":    categoryOptions(),
		"departments":   departmentOptions(),
		"defaults":      s.sessions.defaults,
		"label_version": dataset.LabelSetVersion,
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.summary)
}

// handleView reports the caller's view. Without a session it answers with
// the default view; sessions are only created by events.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.existingSession(r)
	if !ok {
		sess = s.sessions.template
	}
	s.writeJSON(w, http.StatusOK, newViewResponse(sess.View()))
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	var ev binding.Event
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4<<10))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ev); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid event body: "+err.Error())
		return
	}
	if err := validateEvent(ev); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	v, err := s.session(w, r).Dispatch(ev)
	if err != nil {
		if isClientError(err) {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, newViewResponse(v))
}

// handleRate and handleDepartment answer without touching session state.
func (s *Server) handleRate(w http.ResponseWriter, r *http.Request) {
	s.handleStateless(w, binding.Event{Source: binding.SourceCategory, Value: r.URL.Query().Get("field")})
}

func (s *Server) handleDepartment(w http.ResponseWriter, r *http.Request) {
	s.handleStateless(w, binding.Event{Source: binding.SourceDepartment, Value: r.URL.Query().Get("name")})
}

func (s *Server) handleStateless(w http.ResponseWriter, ev binding.Event) {
	if err := validateEvent(ev); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	u, err := s.reg.Handle(ev)
	if err != nil {
		status := http.StatusInternalServerError
		if isClientError(err) {
			status = http.StatusBadRequest
		}
		s.writeError(w, status, err.Error())
		return
	}
	if u.Rate != nil {
		s.writeJSON(w, http.StatusOK, u.Rate)
		return
	}
	s.writeJSON(w, http.StatusOK, u.Department)
}
