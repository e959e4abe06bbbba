// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"strconv"

	"blogavel/internal/models"
	"blogavel/internal/pagination"
)

// PostStore handles all post-related database operations: the public
// published listings, admin listings, point lookups, writes with
// transactional tag sync, and adjacent-post resolution.
//
// Public ordering is always (published_at DESC, id DESC). The id tiebreak
// makes the order total even when several posts share a timestamp, which
// keeps pagination stable and adjacency consistent with the listings.
type PostStore struct {
	db   *sql.DB
	urls FileURLResolver
}

// FileURLResolver resolves a stored object key to a public URL. The S3
// storage client implements it.
type FileURLResolver interface {
	FileURL(key string) string
}

// NewPostStore creates a new PostStore with the given database connection.
// urls resolves featured-media object keys to public URLs; a nil resolver
// leaves media URLs empty.
func NewPostStore(db *sql.DB, urls FileURLResolver) *PostStore {
	return &PostStore{db: db, urls: urls}
}

const postColumns = `id, title, slug, content, status, published_at,
       category_id, featured_media_id, author_id, created_at, updated_at`

// PostFilter narrows a published listing. Zero-value fields apply no
// filter; status = 'published' is always applied by ListPublished itself.
type PostFilter struct {
	CategoryID *int64
	TagID      *int64
}

// ListPublished returns one page of published posts as summaries (no
// content column materialized), plus the total row count for pagination.
// Ordering: published_at DESC with id DESC as tiebreak; posts published
// without a timestamp sort last.
func (s *PostStore) ListPublished(filter PostFilter, p pagination.Params) ([]models.PostSummary, int, error) {
	where := `WHERE status = 'published'`
	args := []any{}

	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		where += ` AND category_id = $` + strconv.Itoa(len(args))
	}
	if filter.TagID != nil {
		args = append(args, *filter.TagID)
		where += ` AND EXISTS (SELECT 1 FROM post_tag pt WHERE pt.post_id = posts.id AND pt.tag_id = $` + strconv.Itoa(len(args)) + `)`
	}

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM posts `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count published posts: %w", err)
	}

	args = append(args, p.PerPage, p.Offset())
	rows, err := s.db.Query(`
		SELECT id, title, slug, published_at, category_id, featured_media_id, author_id
		FROM posts `+where+`
		ORDER BY published_at DESC NULLS LAST, id DESC
		LIMIT $`+strconv.Itoa(len(args)-1)+` OFFSET $`+strconv.Itoa(len(args)),
		args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list published posts: %w", err)
	}
	defer rows.Close()

	var items []models.PostSummary
	for rows.Next() {
		var ps models.PostSummary
		if err := rows.Scan(
			&ps.ID, &ps.Title, &ps.Slug, &ps.PublishedAt,
			&ps.CategoryID, &ps.FeaturedMediaID, &ps.AuthorID,
		); err != nil {
			return nil, 0, fmt.Errorf("scan post summary: %w", err)
		}
		items = append(items, ps)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := s.attachSummaryRelations(items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// FindBySlug retrieves a post by slug with its relations loaded. When
// requirePublished is set, drafts and scheduled posts are invisible.
// Returns nil when no row matches.
func (s *PostStore) FindBySlug(slug string, requirePublished bool) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE slug = $1`
	if requirePublished {
		query += ` AND status = 'published'`
	}

	post, err := scanPost(s.db.QueryRow(query, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}

	if err := s.attachRelations(post); err != nil {
		return nil, err
	}
	return post, nil
}

// FindByID retrieves a post by its id with relations loaded. Returns nil
// if not found.
func (s *PostStore) FindByID(id int64) (*models.Post, error) {
	post, err := scanPost(s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}

	if err := s.attachRelations(post); err != nil {
		return nil, err
	}
	return post, nil
}

// ListForAdmin returns one page of posts across all statuses, newest id
// first (creation order, independent of publish order). An empty status
// applies no status filter.
func (s *PostStore) ListForAdmin(status string, p pagination.Params) ([]models.Post, int, error) {
	where := ``
	args := []any{}
	if status != "" {
		args = append(args, status)
		where = `WHERE status = $1`
	}

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM posts `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	args = append(args, p.PerPage, p.Offset())
	rows, err := s.db.Query(`
		SELECT `+postColumns+`
		FROM posts `+where+`
		ORDER BY id DESC
		LIMIT $`+strconv.Itoa(len(args)-1)+` OFFSET $`+strconv.Itoa(len(args)),
		args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts for admin: %w", err)
	}
	defer rows.Close()

	var items []models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range items {
		if err := s.attachRelations(&items[i]); err != nil {
			return nil, 0, err
		}
	}
	return items, total, nil
}

// Older finds the immediate predecessor of post in publish order: the
// published post with the greatest (published_at, id) key strictly below
// post's key. Returns nil when post has no publish timestamp or no
// predecessor exists; neither case is an error.
func (s *PostStore) Older(post *models.Post) (*models.AdjacentPost, error) {
	if post.PublishedAt == nil {
		return nil, nil
	}
	return s.adjacent(`
		SELECT id, title, slug FROM posts
		WHERE status = 'published'
		  AND (published_at < $1 OR (published_at = $1 AND id < $2))
		ORDER BY published_at DESC, id DESC
		LIMIT 1
	`, *post.PublishedAt, post.ID)
}

// Newer finds the immediate successor of post in publish order, using the
// condition symmetric to Older. Returns nil when post has no publish
// timestamp or is already the newest.
func (s *PostStore) Newer(post *models.Post) (*models.AdjacentPost, error) {
	if post.PublishedAt == nil {
		return nil, nil
	}
	return s.adjacent(`
		SELECT id, title, slug FROM posts
		WHERE status = 'published'
		  AND (published_at > $1 OR (published_at = $1 AND id > $2))
		ORDER BY published_at ASC, id ASC
		LIMIT 1
	`, *post.PublishedAt, post.ID)
}

func (s *PostStore) adjacent(query string, args ...any) (*models.AdjacentPost, error) {
	var a models.AdjacentPost
	err := s.db.QueryRow(query, args...).Scan(&a.ID, &a.Title, &a.Slug)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("adjacent post: %w", err)
	}
	return &a, nil
}

// ListRecentPublished returns up to limit published posts with a non-null
// published_at in publish order, with relations loaded. Feeds the RSS
// channel and the sitemap; posts published without a timestamp are not
// part of the time-ordered feed.
func (s *PostStore) ListRecentPublished(limit int) ([]models.Post, error) {
	rows, err := s.db.Query(`
		SELECT `+postColumns+`
		FROM posts
		WHERE status = 'published' AND published_at IS NOT NULL
		ORDER BY published_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent published posts: %w", err)
	}
	defer rows.Close()

	var items []models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range items {
		if err := s.attachRelations(&items[i]); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// SlugExists reports whether a slug is taken by a post other than
// excludeID (pass 0 when creating).
func (s *PostStore) SlugExists(slug string, excludeID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRow(
		`SELECT EXISTS (SELECT 1 FROM posts WHERE slug = $1 AND id <> $2)`,
		slug, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return exists, nil
}

// Create inserts a new post and attaches tagIDs, both in one transaction,
// and returns the stored post with relations loaded.
func (s *PostStore) Create(post *models.Post, tagIDs []int64) (*models.Post, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRow(`
		INSERT INTO posts (title, slug, content, status, published_at,
		                   category_id, featured_media_id, author_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, post.Title, post.Slug, post.Content, post.Status, post.PublishedAt,
		post.CategoryID, post.FeaturedMediaID, post.AuthorID,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	if err := syncTags(tx, id, tagIDs); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create post: %w", err)
	}

	return s.FindByID(id)
}

// Update modifies an existing post and replaces its full tag set in the
// same transaction, so no reader observes a partially synced tag list.
// Returns the stored post with relations loaded.
func (s *PostStore) Update(post *models.Post, tagIDs []int64) (*models.Post, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		UPDATE posts SET
			title = $1, slug = $2, content = $3, status = $4, published_at = $5,
			category_id = $6, featured_media_id = $7, updated_at = NOW()
		WHERE id = $8
	`, post.Title, post.Slug, post.Content, post.Status, post.PublishedAt,
		post.CategoryID, post.FeaturedMediaID, post.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}

	if err := syncTags(tx, post.ID, tagIDs); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update post: %w", err)
	}

	return s.FindByID(post.ID)
}

// syncTags replaces the full tag association set for a post within tx.
func syncTags(tx *sql.Tx, postID int64, tagIDs []int64) error {
	if _, err := tx.Exec(`DELETE FROM post_tag WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("clear post tags: %w", err)
	}
	for _, tagID := range tagIDs {
		if _, err := tx.Exec(
			`INSERT INTO post_tag (post_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			postID, tagID,
		); err != nil {
			return fmt.Errorf("attach tag %d: %w", tagID, err)
		}
	}
	return nil
}

// scanPost scans a full post row.
func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Content, &p.Status, &p.PublishedAt,
		&p.CategoryID, &p.FeaturedMediaID, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// attachRelations loads the category, tags, featured media, and author
// for a single post.
func (s *PostStore) attachRelations(post *models.Post) error {
	if post.CategoryID != nil {
		category, err := s.lookupCategory(*post.CategoryID)
		if err != nil {
			return err
		}
		post.Category = category
	}

	tags, err := s.lookupTags(post.ID)
	if err != nil {
		return err
	}
	post.Tags = tags

	if post.FeaturedMediaID != nil {
		media, err := s.lookupMedia(*post.FeaturedMediaID)
		if err != nil {
			return err
		}
		if media != nil && s.urls != nil {
			media.URL = s.urls.FileURL(media.Path)
		}
		post.FeaturedMedia = media
	}

	if post.AuthorID != nil {
		author, err := s.lookupAuthor(*post.AuthorID)
		if err != nil {
			return err
		}
		post.Author = author
	}
	return nil
}

// attachSummaryRelations loads categories, tags, resolved featured-media
// URLs, and author names for a page of summaries.
func (s *PostStore) attachSummaryRelations(items []models.PostSummary) error {
	for i := range items {
		ps := &items[i]

		if ps.CategoryID != nil {
			category, err := s.lookupCategory(*ps.CategoryID)
			if err != nil {
				return err
			}
			ps.Category = category
		}

		tags, err := s.lookupTags(ps.ID)
		if err != nil {
			return err
		}
		ps.Tags = tags

		if ps.FeaturedMediaID != nil && s.urls != nil {
			media, err := s.lookupMedia(*ps.FeaturedMediaID)
			if err != nil {
				return err
			}
			if media != nil {
				u := s.urls.FileURL(media.Path)
				ps.FeaturedMediaURL = &u
			}
		}

		if ps.AuthorID != nil {
			author, err := s.lookupAuthor(*ps.AuthorID)
			if err != nil {
				return err
			}
			if author != nil {
				ps.AuthorName = &author.Name
			}
		}
	}
	return nil
}

func (s *PostStore) lookupCategory(id int64) (*models.Category, error) {
	var c models.Category
	err := s.db.QueryRow(
		`SELECT id, name, slug, parent_id, created_at, updated_at FROM categories WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Slug, &c.ParentID, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup category: %w", err)
	}
	return &c, nil
}

func (s *PostStore) lookupTags(postID int64) ([]models.Tag, error) {
	rows, err := s.db.Query(`
		SELECT t.id, t.name, t.slug, t.created_at, t.updated_at
		FROM post_tag pt
		JOIN tags t ON t.id = pt.tag_id
		WHERE pt.post_id = $1
		ORDER BY t.id
	`, postID)
	if err != nil {
		return nil, fmt.Errorf("lookup post tags: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (s *PostStore) lookupMedia(id int64) (*models.Media, error) {
	var m models.Media
	err := s.db.QueryRow(`
		SELECT id, disk, path, thumb_path, mime_type, size_bytes, uploader_id, created_at, updated_at
		FROM media WHERE id = $1
	`, id).Scan(&m.ID, &m.Disk, &m.Path, &m.ThumbPath, &m.MimeType, &m.SizeBytes, &m.UploaderID, &m.CreatedAt, &m.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup media: %w", err)
	}
	return &m, nil
}

func (s *PostStore) lookupAuthor(id int64) (*models.User, error) {
	var u models.User
	err := s.db.QueryRow(
		`SELECT id, name, email, created_at, updated_at FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup author: %w", err)
	}
	return &u, nil
}
