// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLoggerPassesResponsesThrough(t *testing.T) {
	// Fixtures shaped like the routes the logger actually fronts: a cached
	// HTML page, an admin create, and a JSON miss.
	tests := []struct {
		name       string
		method     string
		path       string
		handler    http.HandlerFunc
		wantStatus int
		wantBody   string
	}{
		{
			name:   "blog index HTML",
			method: http.MethodGet,
			path:   "/blog",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/html; charset=utf-8")
				w.Write([]byte("<html>posts</html>"))
			},
			wantStatus: http.StatusOK,
			wantBody:   "<html>posts</html>",
		},
		{
			name:   "admin post created",
			method: http.MethodPost,
			path:   "/api/blogavel/v1/admin/posts",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusCreated)
				w.Write([]byte(`{"post":{"id":1}}`))
			},
			wantStatus: http.StatusCreated,
			wantBody:   `{"post":{"id":1}}`,
		},
		{
			name:   "missing post JSON",
			method: http.MethodGet,
			path:   "/blog/no-such-post",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(`{"message":"Not Found"}`))
			},
			wantStatus: http.StatusNotFound,
			wantBody:   `{"message":"Not Found"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := Logger(tt.handler)

			req := httptest.NewRequest(tt.method, tt.path, nil)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", rr.Code, tt.wantStatus)
			}
			if rr.Body.String() != tt.wantBody {
				t.Errorf("body: got %q, want %q", rr.Body.String(), tt.wantBody)
			}
		})
	}
}

// The wrapper must report the status the handler actually sent: the first
// WriteHeader wins, and a bare Write counts as an implicit 200.
func TestLoggerStatusCapture(t *testing.T) {
	t.Run("first WriteHeader wins", func(t *testing.T) {
		rw := &responseWriter{ResponseWriter: httptest.NewRecorder(), statusCode: http.StatusOK}

		rw.WriteHeader(http.StatusNotFound)
		rw.WriteHeader(http.StatusInternalServerError)

		if rw.statusCode != http.StatusNotFound {
			t.Errorf("statusCode: got %d, want 404", rw.statusCode)
		}
	})

	t.Run("bare Write records implicit 200", func(t *testing.T) {
		rw := &responseWriter{ResponseWriter: httptest.NewRecorder(), statusCode: http.StatusOK}

		if _, err := rw.Write([]byte(`{"status":"ok"}`)); err != nil {
			t.Fatalf("write: %v", err)
		}
		if rw.statusCode != http.StatusOK {
			t.Errorf("statusCode: got %d, want 200", rw.statusCode)
		}
		if !rw.written {
			t.Error("written should be set after Write")
		}
	})
}
