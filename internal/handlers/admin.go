// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"blogavel/internal/cache"
	"blogavel/internal/models"
	"blogavel/internal/pagination"
	"blogavel/internal/slug"
	"blogavel/internal/storage"
	"blogavel/internal/store"
)

// Page sizes for admin listings.
const (
	adminPostsPerPage    = 20
	adminCommentsPerPage = 20
	adminMediaPerPage    = 50
)

// Admin groups the JSON API handlers behind the API key middleware.
// Every mutation flushes the page cache, since any write can change what
// public pages, feeds, and adjacent-post navigation render.
type Admin struct {
	posts         *store.PostStore
	categories    *store.CategoryStore
	tags          *store.TagStore
	media         *store.MediaStore
	comments      *store.CommentStore
	storageClient *storage.Client
	pageCache     *cache.PageCache
	baseURL       string
}

// NewAdmin creates a new Admin handler group. storageClient may be nil if
// S3 is not configured; pageCache may be nil without Valkey.
func NewAdmin(posts *store.PostStore, categories *store.CategoryStore, tags *store.TagStore, media *store.MediaStore, comments *store.CommentStore, storageClient *storage.Client, pageCache *cache.PageCache, baseURL string) *Admin {
	return &Admin{
		posts:         posts,
		categories:    categories,
		tags:          tags,
		media:         media,
		comments:      comments,
		storageClient: storageClient,
		pageCache:     pageCache,
		baseURL:       baseURL,
	}
}

// --- Posts ---

// PostsList handles GET /posts: all statuses, newest id first, optional
// ?status= filter.
func (a *Admin) PostsList(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && !models.ValidStatus(status) {
		respondValidation(w, map[string][]string{
			"status": {"The status field must be one of: draft, scheduled, published."},
		})
		return
	}

	params := pagination.FromQuery(r.URL.Query(), adminPostsPerPage)
	items, total, err := a.posts.ListForAdmin(status, params)
	if err != nil {
		respondServerError(w, "list posts failed", err)
		return
	}
	if items == nil {
		items = []models.Post{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data": items,
		"meta": pagination.NewMeta(params, total, a.requestURL(r)),
	})
}

// PostShow handles GET /posts/{id}.
func (a *Admin) PostShow(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	post, err := a.posts.FindByID(id)
	if err != nil {
		respondServerError(w, "find post failed", err)
		return
	}
	if post == nil {
		respondNotFound(w)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"post": post})
}

// PostCreate handles POST /posts.
func (a *Admin) PostCreate(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Malformed JSON body.")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidation(w, validationMessages(err))
		return
	}

	postSlug := resolveSlug(req)
	errs, err := a.checkPostReferences(&req, postSlug, 0)
	if err != nil {
		respondServerError(w, "validate post references failed", err)
		return
	}
	if len(errs) > 0 {
		respondValidation(w, errs)
		return
	}

	post := &models.Post{
		Title:           req.Title,
		Slug:            postSlug,
		Content:         req.Content,
		Status:          models.PostStatus(req.Status),
		PublishedAt:     req.PublishedAt,
		CategoryID:      req.CategoryID,
		FeaturedMediaID: req.FeaturedMediaID,
	}

	created, err := a.posts.Create(post, req.Tags)
	if err != nil {
		respondServerError(w, "create post failed", err)
		return
	}

	a.pageCache.InvalidateAll(r.Context())
	writeJSON(w, http.StatusCreated, map[string]any{"post": created})
}

// PostUpdate handles PUT /posts/{id}. The tag set is replaced with the
// submitted list; remove_featured_media clears the featured image.
func (a *Admin) PostUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	existing, err := a.posts.FindByID(id)
	if err != nil {
		respondServerError(w, "find post failed", err)
		return
	}
	if existing == nil {
		respondNotFound(w)
		return
	}

	var req postRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Malformed JSON body.")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidation(w, validationMessages(err))
		return
	}

	postSlug := resolveSlug(req)
	errs, err := a.checkPostReferences(&req, postSlug, id)
	if err != nil {
		respondServerError(w, "validate post references failed", err)
		return
	}
	if len(errs) > 0 {
		respondValidation(w, errs)
		return
	}

	existing.Title = req.Title
	existing.Slug = postSlug
	existing.Content = req.Content
	existing.Status = models.PostStatus(req.Status)
	existing.PublishedAt = req.PublishedAt
	existing.CategoryID = req.CategoryID

	switch {
	case req.RemoveFeaturedMedia:
		existing.FeaturedMediaID = nil
	case req.FeaturedMediaID != nil:
		existing.FeaturedMediaID = req.FeaturedMediaID
	}

	updated, err := a.posts.Update(existing, req.Tags)
	if err != nil {
		respondServerError(w, "update post failed", err)
		return
	}

	a.pageCache.InvalidateAll(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"post": updated})
}

// resolveSlug returns the submitted slug, or one generated from the
// title when the slug is blank.
func resolveSlug(req postRequest) string {
	if req.Slug != nil && *req.Slug != "" {
		return *req.Slug
	}
	return slug.Generate(req.Title)
}

// checkPostReferences validates the parts of a post request that need
// database lookups: slug uniqueness and the existence of the referenced
// category, tags, and featured media.
func (a *Admin) checkPostReferences(req *postRequest, postSlug string, excludeID int64) (map[string][]string, error) {
	errs := make(map[string][]string)

	if postSlug == "" {
		errs["slug"] = append(errs["slug"], "The slug field could not be derived from the title.")
	} else {
		taken, err := a.posts.SlugExists(postSlug, excludeID)
		if err != nil {
			return nil, err
		}
		if taken {
			errs["slug"] = append(errs["slug"], "The slug has already been taken.")
		}
	}

	if req.CategoryID != nil {
		exists, err := a.categories.Exists(*req.CategoryID)
		if err != nil {
			return nil, err
		}
		if !exists {
			errs["category_id"] = append(errs["category_id"], "The selected category_id is invalid.")
		}
	}

	if len(req.Tags) > 0 {
		count, err := a.tags.CountByIDs(req.Tags)
		if err != nil {
			return nil, err
		}
		if count != len(req.Tags) {
			errs["tags"] = append(errs["tags"], "One or more selected tags are invalid.")
		}
	}

	if req.FeaturedMediaID != nil && !req.RemoveFeaturedMedia {
		exists, err := a.media.Exists(*req.FeaturedMediaID)
		if err != nil {
			return nil, err
		}
		if !exists {
			errs["featured_media_id"] = append(errs["featured_media_id"], "The selected featured_media_id is invalid.")
		}
	}

	return errs, nil
}

// --- Taxonomies ---

// CategoriesList handles GET /categories: name ascending, with post counts.
func (a *Admin) CategoriesList(w http.ResponseWriter, r *http.Request) {
	categories, err := a.categories.List()
	if err != nil {
		respondServerError(w, "list categories failed", err)
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": categories})
}

// TagsList handles GET /tags: name ascending.
func (a *Admin) TagsList(w http.ResponseWriter, r *http.Request) {
	tags, err := a.tags.List()
	if err != nil {
		respondServerError(w, "list tags failed", err)
		return
	}
	if tags == nil {
		tags = []models.Tag{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": tags})
}

// --- Comments ---

// CommentsList handles GET /comments: newest first, optional ?status=.
func (a *Admin) CommentsList(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && !models.ValidCommentStatus(status) {
		respondValidation(w, map[string][]string{
			"status": {"The status field must be one of: pending, approved, spam."},
		})
		return
	}

	params := pagination.FromQuery(r.URL.Query(), adminCommentsPerPage)
	items, total, err := a.comments.ListForAdmin(status, params)
	if err != nil {
		respondServerError(w, "list comments failed", err)
		return
	}
	if items == nil {
		items = []models.Comment{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data": items,
		"meta": pagination.NewMeta(params, total, a.requestURL(r)),
	})
}

// CommentApprove handles POST /comments/{id}/approve.
func (a *Admin) CommentApprove(w http.ResponseWriter, r *http.Request) {
	a.moderateComment(w, r, models.CommentStatusApproved)
}

// CommentSpam handles POST /comments/{id}/spam.
func (a *Admin) CommentSpam(w http.ResponseWriter, r *http.Request) {
	a.moderateComment(w, r, models.CommentStatusSpam)
}

func (a *Admin) moderateComment(w http.ResponseWriter, r *http.Request, status models.CommentStatus) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	updated, err := a.comments.UpdateStatus(id, status)
	if err != nil {
		respondServerError(w, "update comment status failed", err)
		return
	}
	if !updated {
		respondNotFound(w)
		return
	}

	a.pageCache.InvalidateAll(r.Context())
	respondMessage(w, http.StatusOK, "Comment "+string(status)+".")
}

// CommentDelete handles DELETE /comments/{id}.
func (a *Admin) CommentDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	deleted, err := a.comments.Delete(id)
	if err != nil {
		respondServerError(w, "delete comment failed", err)
		return
	}
	if !deleted {
		respondNotFound(w)
		return
	}

	a.pageCache.InvalidateAll(r.Context())
	respondMessage(w, http.StatusOK, "Comment deleted.")
}

// --- Shared helpers ---

// idParam parses the {id} route parameter. Writes a 404 and returns
// false for anything that is not a positive integer.
func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		respondNotFound(w)
		return 0, false
	}
	return id, true
}

// requestURL rebuilds the request URL on the configured public base for
// pagination links.
func (a *Admin) requestURL(r *http.Request) *url.URL {
	u, err := url.Parse(a.baseURL + r.URL.Path)
	if err != nil {
		u = &url.URL{Path: r.URL.Path}
	}
	u.RawQuery = r.URL.RawQuery
	return u
}
