package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/jrsteele09/go-admin-console/internal/errors"
)

const (
	defaultPerPage = 15
	maxPerPage     = 100
)

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type paginationMeta struct {
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
	LastPage    int `json:"last_page"`
	Total       int `json:"total"`
}

type errorResponse struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, envelope{Success: true, Message: message, Data: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Message: message})
}

// validationErrors collects 422 messages per field.
type validationErrors map[string][]string

func (v validationErrors) add(field, msg string) {
	v[field] = append(v[field], msg)
}

func (v validationErrors) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.add(field, "The "+strings.ReplaceAll(field, "_", " ")+" field is required.")
	}
}

func (v validationErrors) write(w http.ResponseWriter) bool {
	if len(v) == 0 {
		return false
	}
	writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Message: "The given data was invalid.", Errors: v})
	return true
}

// writeRepoError maps repository sentinels onto HTTP statuses. field names the input a
// duplicate or in-use conflict is reported against.
func writeRepoError(w http.ResponseWriter, err error, field string) {
	switch {
	case errors.Is(err, errors.ErrNotFound), errors.Is(err, errors.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "Resource not found.")
	case errors.Is(err, errors.ErrDuplicate):
		validationErrors{field: {"The " + field + " has already been taken."}}.write(w)
	case errors.Is(err, errors.ErrInUse):
		msg := strings.TrimSuffix(err.Error(), ": "+errors.ErrInUse.Error())
		validationErrors{field: {capitalise(msg) + "."}}.write(w)
	default:
		writeError(w, http.StatusInternalServerError, "Server error")
	}
}

func capitalise(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed JSON body.")
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusNotFound, "Resource not found.")
		return 0, false
	}
	return id, true
}

func intParam(r *http.Request, name string, fallback int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func int64Param(r *http.Request, name string) *int64 {
	n, err := strconv.ParseInt(r.URL.Query().Get(name), 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

func boolParam(r *http.Request, name string) *bool {
	b, err := strconv.ParseBool(r.URL.Query().Get(name))
	if err != nil {
		return nil
	}
	return &b
}

func floatParam(r *http.Request, name string) *float64 {
	f, err := strconv.ParseFloat(r.URL.Query().Get(name), 64)
	if err != nil {
		return nil
	}
	return &f
}

// paginate slices items to the requested page. Pages past the end are empty.
func paginate[T any](items []T, page, perPage int) ([]T, paginationMeta) {
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	meta := paginationMeta{CurrentPage: page, PerPage: perPage, Total: len(items)}
	meta.LastPage = max(1, (len(items)+perPage-1)/perPage)
	start := (page - 1) * perPage
	if start >= len(items) {
		return []T{}, meta
	}
	return items[start:min(start+perPage, len(items))], meta
}
