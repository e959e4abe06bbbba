// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"blogavel/internal/cache"
	"blogavel/internal/markdown"
	"blogavel/internal/models"
	"blogavel/internal/pagination"
	"blogavel/internal/render"
	"blogavel/internal/store"
)

// publicPerPage is the page size for public blog listings.
const publicPerPage = 10

// Public groups handlers for the public-facing blog pages. Rendered HTML
// goes through the Valkey page cache; JSON responses are computed fresh
// because they are cheap relative to full page rendering.
type Public struct {
	posts      *store.PostStore
	categories *store.CategoryStore
	tags       *store.TagStore
	comments   *store.CommentStore
	renderer   *render.Renderer
	pageCache  *cache.PageCache
	baseURL    string
}

// NewPublic creates a new Public handler group. pageCache may be nil when
// Valkey is not configured.
func NewPublic(posts *store.PostStore, categories *store.CategoryStore, tags *store.TagStore, comments *store.CommentStore, renderer *render.Renderer, pageCache *cache.PageCache, baseURL string) *Public {
	return &Public{
		posts:      posts,
		categories: categories,
		tags:       tags,
		comments:   comments,
		renderer:   renderer,
		pageCache:  pageCache,
		baseURL:    baseURL,
	}
}

// Index serves the blog index: one page of published posts, newest first.
func (p *Public) Index(w http.ResponseWriter, r *http.Request) {
	p.listing(w, r, store.PostFilter{}, "")
}

// Category serves the published posts belonging to one category.
func (p *Public) Category(w http.ResponseWriter, r *http.Request) {
	slugParam := chi.URLParam(r, "slug")

	category, err := p.categories.FindBySlug(slugParam)
	if err != nil {
		p.fail(w, r, "find category by slug failed", err)
		return
	}
	if category == nil {
		p.notFound(w, r)
		return
	}

	p.listing(w, r, store.PostFilter{CategoryID: &category.ID}, category.Name)
}

// Tag serves the published posts carrying one tag.
func (p *Public) Tag(w http.ResponseWriter, r *http.Request) {
	slugParam := chi.URLParam(r, "slug")

	tag, err := p.tags.FindBySlug(slugParam)
	if err != nil {
		p.fail(w, r, "find tag by slug failed", err)
		return
	}
	if tag == nil {
		p.notFound(w, r)
		return
	}

	p.listing(w, r, store.PostFilter{TagID: &tag.ID}, "#"+tag.Name)
}

// listing runs the shared published-post listing flow for the index and
// the category/tag archives.
func (p *Public) listing(w http.ResponseWriter, r *http.Request, filter store.PostFilter, heading string) {
	ctx := r.Context()
	asJSON := wantsJSON(r)
	cacheKey := cache.RequestKey(r.URL.Path, r.URL.RawQuery)

	if !asJSON {
		if cached, ok := p.pageCache.Get(ctx, cacheKey); ok {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write(cached)
			return
		}
	}

	params := pagination.FromQuery(r.URL.Query(), publicPerPage)
	items, total, err := p.posts.ListPublished(filter, params)
	if err != nil {
		p.fail(w, r, "list published posts failed", err)
		return
	}

	base := p.absoluteURL(r)
	meta := pagination.NewMeta(params, total, base)

	if asJSON {
		if items == nil {
			items = []models.PostSummary{}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"posts": map[string]any{
				"data": items,
				"meta": meta,
			},
		})
		return
	}

	body, err := p.renderer.Render("index", &render.PageData{
		Title: heading,
		Data: map[string]any{
			"Heading": heading,
			"Posts":   items,
			"Links":   pagination.Links(params, total, base),
		},
	})
	if err != nil {
		p.fail(w, r, "render listing failed", err)
		return
	}

	p.pageCache.Set(ctx, cacheKey, body)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(body)
}

// Show serves a single published post: rendered content, older/newer
// navigation, and the approved comment tree.
func (p *Public) Show(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slugParam := chi.URLParam(r, "slug")
	asJSON := wantsJSON(r)
	cacheKey := cache.RequestKey(r.URL.Path, r.URL.RawQuery)

	if !asJSON {
		if cached, ok := p.pageCache.Get(ctx, cacheKey); ok {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write(cached)
			return
		}
	}

	post, err := p.posts.FindBySlug(slugParam, true)
	if err != nil {
		p.fail(w, r, "find post by slug failed", err)
		return
	}
	if post == nil {
		p.notFound(w, r)
		return
	}

	older, err := p.posts.Older(post)
	if err != nil {
		p.fail(w, r, "resolve older post failed", err)
		return
	}
	newer, err := p.posts.Newer(post)
	if err != nil {
		p.fail(w, r, "resolve newer post failed", err)
		return
	}

	comments, err := p.comments.ListApprovedForPost(post.ID)
	if err != nil {
		p.fail(w, r, "list comments failed", err)
		return
	}
	tree := models.BuildCommentTree(comments)

	if asJSON {
		if tree == nil {
			tree = []*models.CommentNode{}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"post": post,
			"adjacent": map[string]any{
				"older": older,
				"newer": newer,
			},
			"comments": tree,
		})
		return
	}

	var contentHTML string
	if post.Content != nil {
		rendered, err := markdown.ToHTML(*post.Content)
		if err != nil {
			p.fail(w, r, "render post content failed", err)
			return
		}
		contentHTML = rendered
	}

	body, err := p.renderer.Render("show", &render.PageData{
		Title: post.Title,
		Data: map[string]any{
			"Post":        post,
			"ContentHTML": contentHTML,
			"Older":       older,
			"Newer":       newer,
			"Comments":    tree,
		},
	})
	if err != nil {
		p.fail(w, r, "render post failed", err)
		return
	}

	p.pageCache.Set(ctx, cacheKey, body)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(body)
}

// absoluteURL rebuilds the request URL on the configured public base, so
// pagination links are absolute regardless of proxies in front.
func (p *Public) absoluteURL(r *http.Request) *url.URL {
	u, err := url.Parse(p.baseURL + r.URL.Path)
	if err != nil {
		u = &url.URL{Path: r.URL.Path}
	}
	u.RawQuery = r.URL.RawQuery
	return u
}

// notFound answers a missing public resource in the format the client
// asked for.
func (p *Public) notFound(w http.ResponseWriter, r *http.Request) {
	if wantsJSON(r) {
		respondNotFound(w)
		return
	}
	http.NotFound(w, r)
}

// fail answers an internal error in the format the client asked for.
func (p *Public) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if wantsJSON(r) {
		respondServerError(w, msg, err)
		return
	}
	respondServerErrorHTML(w, msg, err)
}
