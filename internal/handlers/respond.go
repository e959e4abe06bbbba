// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the blog. Handlers are
// grouped by concern (public pages, feeds, comments, admin API) and
// receive their dependencies through the handler struct.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
)

// writeJSON encodes v as the JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}

// respondMessage writes a plain {"message": ...} JSON body.
func respondMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// respondNotFound writes the 404 body for JSON endpoints.
func respondNotFound(w http.ResponseWriter) {
	respondMessage(w, http.StatusNotFound, "Not Found")
}

// respondServerError logs err and writes a generic 500 body. The error
// detail stays in the log, never in the response.
func respondServerError(w http.ResponseWriter, msg string, err error) {
	slog.Error(msg, "error", err)
	respondMessage(w, http.StatusInternalServerError, "Internal Server Error")
}

// respondValidation writes a 422 with field-level messages, matching the
// shape API clients expect: {"message": ..., "errors": {field: [msgs]}}.
func respondValidation(w http.ResponseWriter, errs map[string][]string) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"message": "The given data was invalid.",
		"errors":  errs,
	})
}

// respondServerErrorHTML logs err and writes a plain 500 page.
func respondServerErrorHTML(w http.ResponseWriter, msg string, err error) {
	slog.Error(msg, "error", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// wantsJSON reports whether the client asked for JSON instead of a
// rendered page.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
