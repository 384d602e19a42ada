package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/couchcryptid/ice-climatology-map/internal/domain"
)

//go:embed index.html.tmpl
var indexTemplate string

var indexPage = template.Must(template.New("index").Parse(indexTemplate))

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

type mapResponse struct {
	Selection domain.Selection `json:"selection"`
	Path      string           `json:"path"`
	URL       string           `json:"url"`
	Cached    bool             `json:"cached"`
}

type variableInfo struct {
	ID domain.Variable `json:"id"`
	domain.Display
}

func mapURL(sel domain.Selection) string {
	return "/maps/" + string(sel.Mode) + "/" + string(sel.Variable) + "/" + string(sel.Date)
}

func (s *Server) handleCalendar(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, domain.Calendar)
}

func (s *Server) handleVariables(w http.ResponseWriter, _ *http.Request) {
	out := make([]variableInfo, 0, len(domain.Variables))
	for _, v := range domain.Variables {
		out = append(out, variableInfo{ID: v, Display: domain.DisplayFor(v)})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleEnsureMap renders the requested map if needed and reports where it is.
func (s *Server) handleEnsureMap(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sel, err := domain.NewSelection(q.Get("mode"), q.Get("variable"), q.Get("date"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.maps.EnsureMap(r.Context(), sel)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapResponse{Selection: sel, Path: res.Path, URL: mapURL(sel), Cached: res.Cached})
}

// handleServeMap renders the requested map if needed and serves the HTML.
func (s *Server) handleServeMap(w http.ResponseWriter, r *http.Request) {
	sel, err := domain.NewSelection(chi.URLParam(r, "mode"), chi.URLParam(r, "variable"), chi.URLParam(r, "date"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.maps.EnsureMap(r.Context(), sel)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	http.ServeFile(w, r, res.Path)
}

type indexData struct {
	Default   domain.Selection
	Modes     []domain.Mode
	Variables []variableInfo
	Calendar  []domain.MonthWeeks
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	data := indexData{
		Default:  domain.DefaultSelection,
		Modes:    domain.Modes,
		Calendar: domain.Calendar,
	}
	for _, v := range domain.Variables {
		data.Variables = append(data.Variables, variableInfo{ID: v, Display: domain.DisplayFor(v)})
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexPage.Execute(w, data); err != nil {
		s.logger.Error("render index page failed", "error", err)
	}
}

// statusFor maps the domain error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	var (
		keyErr    *domain.InvalidKeyError
		schemaErr *domain.SchemaError
	)
	switch {
	case errors.As(err, &keyErr):
		return http.StatusBadRequest
	case errors.As(err, &schemaErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	body := errorBody{Error: err.Error()}
	var keyErr *domain.InvalidKeyError
	if errors.As(err, &keyErr) {
		body.Field = keyErr.Field
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("map request failed", "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
