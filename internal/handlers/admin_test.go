// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

// newAdminForValidation builds an Admin whose request never reaches a
// store, for exercising the pre-database failure paths.
func newAdminForValidation() *Admin {
	return NewAdmin(nil, nil, nil, nil, nil, nil, nil, "http://localhost:8080")
}

// withURLParam injects a chi route parameter into the request context.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestPostsListRejectsUnknownStatus(t *testing.T) {
	a := newAdminForValidation()

	req := httptest.NewRequest(http.MethodGet, "/posts?status=archived", nil)
	rr := httptest.NewRecorder()
	a.PostsList(rr, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), "status")
}

func TestCommentsListRejectsUnknownStatus(t *testing.T) {
	a := newAdminForValidation()

	req := httptest.NewRequest(http.MethodGet, "/comments?status=deleted", nil)
	rr := httptest.NewRecorder()
	a.CommentsList(rr, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestIDParamRejectsNonNumeric(t *testing.T) {
	a := newAdminForValidation()

	for _, bad := range []string{"abc", "0", "-3", "1.5"} {
		req := withURLParam(httptest.NewRequest(http.MethodDelete, "/comments/"+bad, nil), "id", bad)
		rr := httptest.NewRecorder()
		a.CommentDelete(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code, "id %q", bad)
	}
}

func TestPostCreateRejectsMalformedBody(t *testing.T) {
	a := newAdminForValidation()

	req := httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	a.PostCreate(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPostCreateRejectsInvalidFields(t *testing.T) {
	a := newAdminForValidation()

	req := httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader(`{"title":"","status":"archived"}`))
	rr := httptest.NewRecorder()
	a.PostCreate(rr, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), "title")
	assert.Contains(t, rr.Body.String(), "status")
}

func TestMediaUploadWithoutStorage(t *testing.T) {
	a := newAdminForValidation()

	req := httptest.NewRequest(http.MethodPost, "/media", nil)
	rr := httptest.NewRecorder()
	a.MediaUpload(rr, req)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
