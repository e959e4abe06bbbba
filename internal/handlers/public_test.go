// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogavel/internal/store"
)

func mockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func newPublicOverMock(db *sql.DB) *Public {
	posts := store.NewPostStore(db, nil)
	categories := store.NewCategoryStore(db)
	tags := store.NewTagStore(db)
	comments := store.NewCommentStore(db)
	return NewPublic(posts, categories, tags, comments, nil, nil, "http://localhost:8080")
}

func TestIndexJSONShape(t *testing.T) {
	db, mock := mockDB(t)
	p := newPublicOverMock(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM posts WHERE status = 'published'`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	published := time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "title", "slug", "published_at", "category_id", "featured_media_id", "author_id"}).
		AddRow(int64(3), "Newest", "newest", published, nil, nil, nil)
	mock.ExpectQuery(`ORDER BY published_at DESC NULLS LAST, id DESC`).
		WithArgs(10, 0).
		WillReturnRows(rows)
	mock.ExpectQuery(`FROM post_tag pt`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "created_at", "updated_at"}))

	req := httptest.NewRequest(http.MethodGet, "/blog", nil)
	req.Header.Set("Accept", "application/json")
	rr := httptest.NewRecorder()
	p.Index(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Posts struct {
			Data []map[string]any `json:"data"`
			Meta struct {
				CurrentPage int     `json:"current_page"`
				LastPage    int     `json:"last_page"`
				PerPage     int     `json:"per_page"`
				Total       int     `json:"total"`
				NextPageURL *string `json:"next_page_url"`
			} `json:"meta"`
		} `json:"posts"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))

	require.Len(t, body.Posts.Data, 1)
	assert.Equal(t, "newest", body.Posts.Data[0]["slug"])

	assert.Equal(t, 1, body.Posts.Meta.CurrentPage)
	assert.Equal(t, 2, body.Posts.Meta.LastPage)
	assert.Equal(t, 10, body.Posts.Meta.PerPage)
	assert.Equal(t, 12, body.Posts.Meta.Total)
	require.NotNil(t, body.Posts.Meta.NextPageURL)
	assert.Contains(t, *body.Posts.Meta.NextPageURL, "page=2")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIndexJSONEmptyPage(t *testing.T) {
	db, mock := mockDB(t)
	p := newPublicOverMock(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM posts WHERE status = 'published'`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`ORDER BY published_at DESC NULLS LAST, id DESC`).
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "slug", "published_at", "category_id", "featured_media_id", "author_id"}))

	req := httptest.NewRequest(http.MethodGet, "/blog", nil)
	req.Header.Set("Accept", "application/json")
	rr := httptest.NewRecorder()
	p.Index(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	// An empty result is a valid page, never an error: empty data array,
	// last_page clamped to 1, null next URL.
	var body map[string]map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.JSONEq(t, `[]`, string(body["posts"]["data"]))

	var meta map[string]any
	require.NoError(t, json.Unmarshal(body["posts"]["meta"], &meta))
	assert.Equal(t, float64(1), meta["last_page"])
	assert.Equal(t, float64(0), meta["total"])
	assert.Nil(t, meta["next_page_url"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShowJSONNotFound(t *testing.T) {
	db, mock := mockDB(t)
	p := newPublicOverMock(db)

	mock.ExpectQuery(`FROM posts WHERE slug = \$1 AND status = 'published'`).
		WithArgs("missing-post").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "slug", "content", "status", "published_at",
			"category_id", "featured_media_id", "author_id", "created_at", "updated_at",
		}))

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/blog/missing-post", nil), "slug", "missing-post")
	req.Header.Set("Accept", "application/json")
	rr := httptest.NewRecorder()
	p.Show(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"message":"Not Found"}`, rr.Body.String())

	assert.NoError(t, mock.ExpectationsWereMet())
}
