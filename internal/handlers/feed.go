// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"blogavel/internal/cache"
	"blogavel/internal/feed"
	"blogavel/internal/store"
)

// Feeds serves the RSS feed and the sitemap. Both documents are cached
// whole in Valkey since they are rebuilt from the same queries on every
// request otherwise.
type Feeds struct {
	posts     *store.PostStore
	pageCache *cache.PageCache
	site      feed.Site
}

// NewFeeds creates a new Feeds handler group.
func NewFeeds(posts *store.PostStore, pageCache *cache.PageCache, site feed.Site) *Feeds {
	return &Feeds{posts: posts, pageCache: pageCache, site: site}
}

// RSS serves /feed.xml.
func (f *Feeds) RSS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cacheKey := cache.RequestKey(r.URL.Path, "")

	if cached, ok := f.pageCache.Get(ctx, cacheKey); ok {
		w.Header().Set("Content-Type", "application/rss+xml; charset=UTF-8")
		w.Write(cached)
		return
	}

	posts, err := f.posts.ListRecentPublished(feed.RSSLimit)
	if err != nil {
		respondServerErrorHTML(w, "list posts for feed failed", err)
		return
	}

	body := []byte(feed.RSS(f.site, posts))
	f.pageCache.Set(ctx, cacheKey, body)

	w.Header().Set("Content-Type", "application/rss+xml; charset=UTF-8")
	w.Write(body)
}

// Sitemap serves /sitemap.xml.
func (f *Feeds) Sitemap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cacheKey := cache.RequestKey(r.URL.Path, "")

	if cached, ok := f.pageCache.Get(ctx, cacheKey); ok {
		w.Header().Set("Content-Type", "application/xml; charset=UTF-8")
		w.Write(cached)
		return
	}

	posts, err := f.posts.ListRecentPublished(feed.SitemapPostLimit)
	if err != nil {
		respondServerErrorHTML(w, "list posts for sitemap failed", err)
		return
	}

	body := []byte(feed.Sitemap(f.site, posts))
	f.pageCache.Set(ctx, cacheKey, body)

	w.Header().Set("Content-Type", "application/xml; charset=UTF-8")
	w.Write(body)
}
