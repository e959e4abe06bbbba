// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogavel/internal/models"
	"blogavel/internal/pagination"
)

// setupMockDB creates a sqlmock database for tests that pin down the
// queries the store issues without needing a live PostgreSQL.
func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestOlderQueriesCompoundKey(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewPostStore(db, nil)

	publishedAt := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)
	post := &models.Post{ID: 7, PublishedAt: &publishedAt}

	// The predecessor condition must compare the compound key, not the
	// timestamp alone, so ties fall back to id.
	mock.ExpectQuery(`published_at < \$1 OR \(published_at = \$1 AND id < \$2\)`).
		WithArgs(publishedAt, int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "slug"}).
			AddRow(int64(5), "Tied Older", "tied-older"))

	older, err := store.Older(post)
	require.NoError(t, err)
	require.NotNil(t, older)
	assert.Equal(t, int64(5), older.ID)
	assert.Equal(t, "tied-older", older.Slug)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewerQueriesCompoundKey(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewPostStore(db, nil)

	publishedAt := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)
	post := &models.Post{ID: 7, PublishedAt: &publishedAt}

	mock.ExpectQuery(`published_at > \$1 OR \(published_at = \$1 AND id > \$2\)`).
		WithArgs(publishedAt, int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "slug"}).
			AddRow(int64(3), "Newest", "newest"))

	newer, err := store.Newer(post)
	require.NoError(t, err)
	require.NotNil(t, newer)
	assert.Equal(t, int64(3), newer.ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdjacencyReturnsNilAtBoundary(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewPostStore(db, nil)

	publishedAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	post := &models.Post{ID: 1, PublishedAt: &publishedAt}

	mock.ExpectQuery(`published_at < \$1`).
		WithArgs(publishedAt, int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "slug"}))

	older, err := store.Older(post)
	require.NoError(t, err)
	assert.Nil(t, older)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdjacencySkipsQueryWithoutTimestamp(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewPostStore(db, nil)

	// No expectations registered: the store must not touch the database
	// for a post that has no publish timestamp.
	post := &models.Post{ID: 9, PublishedAt: nil}

	older, err := store.Older(post)
	require.NoError(t, err)
	assert.Nil(t, older)

	newer, err := store.Newer(post)
	require.NoError(t, err)
	assert.Nil(t, newer)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListPublishedOrdersByPublishOrder(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewPostStore(db, nil)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM posts WHERE status = 'published'`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	rows := sqlmock.NewRows([]string{"id", "title", "slug", "published_at", "category_id", "featured_media_id", "author_id"}).
		AddRow(int64(3), "Newest", "newest", time.Now(), nil, nil, nil).
		AddRow(int64(7), "Older", "older", time.Now().Add(-time.Hour), nil, nil, nil)
	mock.ExpectQuery(`ORDER BY published_at DESC NULLS LAST, id DESC`).
		WithArgs(10, 0).
		WillReturnRows(rows)

	// Neither summary row carries relation ids, so only the tag lookups run.
	mock.ExpectQuery(`FROM post_tag pt`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "created_at", "updated_at"}))
	mock.ExpectQuery(`FROM post_tag pt`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "created_at", "updated_at"}))

	items, total, err := store.ListPublished(PostFilter{}, pagination.NewParams(1, 10))
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, items, 2)
	assert.Equal(t, int64(3), items[0].ID)
	assert.Equal(t, int64(7), items[1].ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// cdnURLs resolves object keys against a fixed base, standing in for the
// S3 storage client.
type cdnURLs struct{ base string }

func (c cdnURLs) FileURL(key string) string { return c.base + "/" + key }

func TestListPublishedResolvesFeaturedMediaURL(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewPostStore(db, cdnURLs{base: "https://cdn.example.com"})

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM posts WHERE status = 'published'`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	published := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`ORDER BY published_at DESC NULLS LAST, id DESC`).
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "slug", "published_at", "category_id", "featured_media_id", "author_id"}).
			AddRow(int64(5), "Illustrated", "illustrated", published, nil, int64(99), nil))

	mock.ExpectQuery(`FROM post_tag pt`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "created_at", "updated_at"}))
	mock.ExpectQuery(`FROM media WHERE id = \$1`).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "disk", "path", "thumb_path", "mime_type", "size_bytes", "uploader_id", "created_at", "updated_at"}).
			AddRow(int64(99), "blogavel-media", "media/2024/05/cover.jpg", nil, "image/jpeg", int64(12345), nil, time.Now(), time.Now()))

	items, _, err := store.ListPublished(PostFilter{}, pagination.NewParams(1, 10))
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].FeaturedMediaURL)
	assert.Equal(t, "https://cdn.example.com/media/2024/05/cover.jpg", *items[0].FeaturedMediaURL)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindBySlugResolvesFeaturedMediaURL(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewPostStore(db, cdnURLs{base: "https://cdn.example.com"})

	published := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM posts WHERE slug = \$1 AND status = 'published'`).
		WithArgs("illustrated").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "slug", "content", "status", "published_at",
			"category_id", "featured_media_id", "author_id", "created_at", "updated_at",
		}).AddRow(int64(5), "Illustrated", "illustrated", nil, "published", published,
			nil, int64(99), nil, time.Now(), time.Now()))

	mock.ExpectQuery(`FROM post_tag pt`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "created_at", "updated_at"}))
	mock.ExpectQuery(`FROM media WHERE id = \$1`).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "disk", "path", "thumb_path", "mime_type", "size_bytes", "uploader_id", "created_at", "updated_at"}).
			AddRow(int64(99), "blogavel-media", "media/2024/05/cover.jpg", nil, "image/jpeg", int64(12345), nil, time.Now(), time.Now()))

	post, err := store.FindBySlug("illustrated", true)
	require.NoError(t, err)
	require.NotNil(t, post)
	require.NotNil(t, post.FeaturedMedia)
	assert.Equal(t, "https://cdn.example.com/media/2024/05/cover.jpg", post.FeaturedMedia.URL)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentUpdateStatusReportsMissingRow(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewCommentStore(db)

	mock.ExpectExec(`UPDATE comments SET status = \$1`).
		WithArgs(string(models.CommentStatusApproved), int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := store.UpdateStatus(42, models.CommentStatusApproved)
	require.NoError(t, err)
	assert.False(t, ok)

	mock.ExpectExec(`UPDATE comments SET status = \$1`).
		WithArgs(string(models.CommentStatusSpam), int64(43)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err = store.UpdateStatus(43, models.CommentStatusSpam)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}
