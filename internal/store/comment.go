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

// CommentStore manages reader comments and their moderation state.
type CommentStore struct {
	db *sql.DB
}

// NewCommentStore returns a new CommentStore.
func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

const commentColumns = `c.id, c.post_id, c.parent_id, c.user_id, c.guest_name, c.guest_email,
       c.content, c.status, c.ip, c.user_agent, c.created_at, c.updated_at`

func scanComment(scanner interface{ Scan(...any) error }, withUserName bool) (*models.Comment, error) {
	var c models.Comment
	dest := []any{
		&c.ID, &c.PostID, &c.ParentID, &c.UserID, &c.GuestName, &c.GuestEmail,
		&c.Content, &c.Status, &c.IP, &c.UserAgent, &c.CreatedAt, &c.UpdatedAt,
	}
	if withUserName {
		dest = append(dest, &c.UserName)
	}
	if err := scanner.Scan(dest...); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListForAdmin returns one page of comments across all posts, newest
// first, plus the total count. An empty status applies no filter.
func (s *CommentStore) ListForAdmin(status string, p pagination.Params) ([]models.Comment, int, error) {
	where := ``
	args := []any{}
	if status != "" {
		args = append(args, status)
		where = `WHERE c.status = $1`
	}

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM comments c `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}

	args = append(args, p.PerPage, p.Offset())
	rows, err := s.db.Query(`
		SELECT `+commentColumns+`, u.name
		FROM comments c
		LEFT JOIN users u ON u.id = c.user_id
		`+where+`
		ORDER BY c.id DESC
		LIMIT $`+strconv.Itoa(len(args)-1)+` OFFSET $`+strconv.Itoa(len(args)),
		args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var items []models.Comment
	for rows.Next() {
		c, err := scanComment(rows, true)
		if err != nil {
			return nil, 0, fmt.Errorf("scan comment: %w", err)
		}
		items = append(items, *c)
	}
	return items, total, rows.Err()
}

// ListApprovedForPost returns all approved comments on a post in creation
// order, ready for models.BuildCommentTree.
func (s *CommentStore) ListApprovedForPost(postID int64) ([]models.Comment, error) {
	rows, err := s.db.Query(`
		SELECT `+commentColumns+`, u.name
		FROM comments c
		LEFT JOIN users u ON u.id = c.user_id
		WHERE c.post_id = $1 AND c.status = 'approved'
		ORDER BY c.id
	`, postID)
	if err != nil {
		return nil, fmt.Errorf("list approved comments: %w", err)
	}
	defer rows.Close()

	var items []models.Comment
	for rows.Next() {
		c, err := scanComment(rows, true)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// FindByID retrieves a comment by id. Returns nil if not found.
func (s *CommentStore) FindByID(id int64) (*models.Comment, error) {
	c, err := scanComment(s.db.QueryRow(`
		SELECT `+commentColumns+` FROM comments c WHERE c.id = $1
	`, id), false)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find comment by id: %w", err)
	}
	return c, nil
}

// Create inserts a new comment and returns it. New comments start in the
// status the caller sets (public submissions use pending).
func (s *CommentStore) Create(c *models.Comment) (*models.Comment, error) {
	row := s.db.QueryRow(`
		INSERT INTO comments (post_id, parent_id, user_id, guest_name, guest_email,
		                      content, status, ip, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, post_id, parent_id, user_id, guest_name, guest_email,
		          content, status, ip, user_agent, created_at, updated_at
	`, c.PostID, c.ParentID, c.UserID, c.GuestName, c.GuestEmail,
		c.Content, c.Status, c.IP, c.UserAgent)

	result, err := scanComment(row, false)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return result, nil
}

// UpdateStatus moves a comment to a new moderation status. Returns false
// when no comment with that id exists.
func (s *CommentStore) UpdateStatus(id int64, status models.CommentStatus) (bool, error) {
	res, err := s.db.Exec(
		`UPDATE comments SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return false, fmt.Errorf("update comment status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update comment status: %w", err)
	}
	return n > 0, nil
}

// Delete removes a comment by id; replies cascade. Returns false when no
// comment with that id exists.
func (s *CommentStore) Delete(id int64) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete comment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete comment: %w", err)
	}
	return n > 0, nil
}
