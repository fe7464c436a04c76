package web

import (
	"bytes"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/csrf"

	"planning/internal/adapters/http/middleware"
	"planning/internal/domain/course"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// maxBodyBytes caps JSON and form request bodies.
const maxBodyBytes = 64 << 10

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeJSON encodes v with status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json_encode_failed", "error", err)
	}
}

// noticeError is the JSON body of a rejected command.
type noticeError struct {
	Error  string `json:"error"`
	Notice string `json:"notice,omitempty"`
}

// visitorToken returns the token attached by the Visitors middleware.
func visitorToken(w http.ResponseWriter, r *http.Request) (string, bool) {
	token, ok := middleware.VisitorFromContext(r.Context())
	if !ok {
		http.Error(w, "no visitor", http.StatusUnauthorized)
	}
	return token, ok
}

// ageSlug maps an age category to its filter option value.
func ageSlug(a course.AgeCategory) string {
	return strings.ToLower(string(a))
}

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	funcMap := template.FuncMap{
		"csrfToken": func() string { return csrf.Token(r) },
		"ageSlug":   ageSlug,
	}

	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFS(templateFS, "templates/layout.html", "templates/"+templateName)
	if err != nil {
		internalError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}
