// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"
)

// PostStatus represents the publishing state of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusScheduled PostStatus = "scheduled"
	PostStatusPublished PostStatus = "published"
)

// ValidStatus reports whether s is one of the known post statuses.
func ValidStatus(s string) bool {
	switch PostStatus(s) {
	case PostStatusDraft, PostStatusScheduled, PostStatusPublished:
		return true
	}
	return false
}

// Post represents a blog post. Content is Markdown source; it is converted
// to HTML at render time, never stored rendered.
type Post struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	Content         *string    `json:"content"`
	Status          PostStatus `json:"status"`
	PublishedAt     *time.Time `json:"published_at"`
	CategoryID      *int64     `json:"category_id"`
	FeaturedMediaID *int64     `json:"featured_media_id"`
	AuthorID        *int64     `json:"author_id"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// Relations populated by store methods when requested.
	Category      *Category `json:"category,omitempty"`
	Tags          []Tag     `json:"tags,omitempty"`
	FeaturedMedia *Media    `json:"featured_media,omitempty"`
	Author        *User     `json:"author,omitempty"`
}

// IsPublished returns true if the post is publicly visible. Visibility is
// gated by status alone; published_at is display/ordering metadata and may
// be null even on a published post.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// PostSummary is the field-limited projection used by list views. It never
// carries the post body, so index and archive pages do not materialize
// content for every row.
type PostSummary struct {
	ID               int64      `json:"id"`
	Title            string     `json:"title"`
	Slug             string     `json:"slug"`
	PublishedAt      *time.Time `json:"published_at"`
	FeaturedMediaID  *int64     `json:"-"`
	CategoryID       *int64     `json:"-"`
	AuthorID         *int64     `json:"-"`
	FeaturedMediaURL *string    `json:"featured_media_url"`
	AuthorName       *string    `json:"author_name"`
	Category         *Category  `json:"category"`
	Tags             []Tag      `json:"tags"`
}

// AdjacentPost is the compact neighbor payload for older/newer navigation
// on the post show page.
type AdjacentPost struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}
