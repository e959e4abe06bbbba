// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"blogavel/internal/middleware"
	"blogavel/internal/models"
	"blogavel/internal/store"
)

// Comments handles public comment submission. Moderation happens through
// the admin API; everything submitted here starts out pending.
type Comments struct {
	posts    *store.PostStore
	comments *store.CommentStore
}

// NewComments creates a new Comments handler group.
func NewComments(posts *store.PostStore, comments *store.CommentStore) *Comments {
	return &Comments{posts: posts, comments: comments}
}

// Submit handles POST /blog/{slug}/comments. The target post must be
// published; replies reference an existing comment on the same post.
func (c *Comments) Submit(w http.ResponseWriter, r *http.Request) {
	slugParam := chi.URLParam(r, "slug")

	post, err := c.posts.FindBySlug(slugParam, true)
	if err != nil {
		respondServerError(w, "find post for comment failed", err)
		return
	}
	if post == nil {
		respondNotFound(w)
		return
	}

	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Malformed JSON body.")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidation(w, validationMessages(err))
		return
	}

	if req.ParentID != nil {
		parent, err := c.comments.FindByID(*req.ParentID)
		if err != nil {
			respondServerError(w, "find parent comment failed", err)
			return
		}
		if parent == nil || parent.PostID != post.ID {
			respondValidation(w, map[string][]string{
				"parent_id": {"The parent_id field must reference a comment on this post."},
			})
			return
		}
	}

	ip := middleware.ClientIP(r)
	userAgent := r.UserAgent()

	comment := &models.Comment{
		PostID:    post.ID,
		ParentID:  req.ParentID,
		GuestName: &req.AuthorName,
		Content:   req.Content,
		Status:    models.CommentStatusPending,
		IP:        &ip,
	}
	if req.AuthorEmail != "" {
		comment.GuestEmail = &req.AuthorEmail
	}
	if userAgent != "" {
		comment.UserAgent = &userAgent
	}

	created, err := c.comments.Create(comment)
	if err != nil {
		respondServerError(w, "create comment failed", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Comment submitted for moderation.",
		"comment": created,
	})
}
