// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package feed renders the published post list as RSS 2.0 XML and the
// full-site URL list as a sitemap XML document. Documents are built with
// explicit escaping rather than encoding/xml so the output matches the
// established feed format byte-for-byte: every text node is entity-escaped
// and post descriptions travel inside CDATA sections.
package feed

import (
	"strings"
	"time"

	"blogavel/internal/markdown"
	"blogavel/internal/models"
)

const (
	// RSSLimit caps how many posts the RSS channel carries.
	RSSLimit = 50

	// SitemapPostLimit caps how many post URLs the sitemap lists.
	SitemapPostLimit = 2000

	// excerptLength is the rune length of plain-text item descriptions.
	excerptLength = 280
)

// Site describes the publishing site for channel-level feed fields.
type Site struct {
	Name    string
	BaseURL string // absolute, no trailing slash
}

// URL joins a path onto the site base URL.
func (s Site) URL(path string) string {
	if path == "" || path == "/" {
		return s.BaseURL + "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return s.BaseURL + path
}

// RSS renders posts as an RSS 2.0 document. Posts are expected in publish
// order (published_at DESC, id DESC) with published_at set; items past
// RSSLimit are ignored. A post with a missing timestamp just omits its
// pubDate; one odd post never aborts the document.
func RSS(site Site, posts []models.Post) string {
	var b strings.Builder

	feedURL := site.URL("/feed.xml")

	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	b.WriteString(`<rss version="2.0">`)
	b.WriteString(`<channel>`)
	b.WriteString(`<title>` + Escape(site.Name) + `</title>`)
	b.WriteString(`<link>` + Escape(site.URL("/")) + `</link>`)
	b.WriteString(`<description>` + Escape("Latest posts from "+site.Name) + `</description>`)
	b.WriteString(`<language>en</language>`)
	b.WriteString(`<generator>Blogavel</generator>`)
	b.WriteString(`<atom:link xmlns:atom="http://www.w3.org/2005/Atom" href="` + Escape(feedURL) + `" rel="self" type="application/rss+xml" />`)

	for i, post := range posts {
		if i >= RSSLimit {
			break
		}
		writeItem(&b, site, &post)
	}

	b.WriteString(`</channel>`)
	b.WriteString(`</rss>`)
	return b.String()
}

func writeItem(b *strings.Builder, site Site, post *models.Post) {
	link := site.URL("/blog/" + post.Slug)

	b.WriteString(`<item>`)
	b.WriteString(`<title>` + Escape(post.Title) + `</title>`)
	b.WriteString(`<link>` + Escape(link) + `</link>`)
	b.WriteString(`<guid isPermaLink="true">` + Escape(link) + `</guid>`)

	if pubDate, ok := rfc2822(post.PublishedAt); ok {
		b.WriteString(`<pubDate>` + Escape(pubDate) + `</pubDate>`)
	}

	var source string
	if post.Content != nil {
		source = *post.Content
	}
	summary := markdown.Excerpt(source, excerptLength)
	b.WriteString(`<description>` + CDATA(summary) + `</description>`)
	b.WriteString(`</item>`)
}

// Sitemap renders the full-site URL list: home, blog index, feed, one URL
// per distinct category and tag slug referenced by the given posts, and
// one URL per post with a lastmod taken from updated_at, falling back to
// published_at. Posts are expected in publish order; entries past
// SitemapPostLimit are ignored.
func Sitemap(site Site, posts []models.Post) string {
	if len(posts) > SitemapPostLimit {
		posts = posts[:SitemapPostLimit]
	}

	// Distinct slugs in first-seen order, following the post ordering.
	var categorySlugs, tagSlugs []string
	seenCategory := make(map[string]bool)
	seenTag := make(map[string]bool)
	for _, post := range posts {
		if post.Category != nil && post.Category.Slug != "" && !seenCategory[post.Category.Slug] {
			seenCategory[post.Category.Slug] = true
			categorySlugs = append(categorySlugs, post.Category.Slug)
		}
		for _, tag := range post.Tags {
			if tag.Slug != "" && !seenTag[tag.Slug] {
				seenTag[tag.Slug] = true
				tagSlugs = append(tagSlugs, tag.Slug)
			}
		}
	}

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	b.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)

	writeSitemapURL(&b, site.URL("/"), "")
	writeSitemapURL(&b, site.URL("/blog"), "")
	writeSitemapURL(&b, site.URL("/feed.xml"), "")

	for _, slug := range categorySlugs {
		writeSitemapURL(&b, site.URL("/blog/category/"+slug), "")
	}
	for _, slug := range tagSlugs {
		writeSitemapURL(&b, site.URL("/blog/tag/"+slug), "")
	}

	for _, post := range posts {
		var lastmod string
		if ts := lastModified(&post); ts != nil {
			lastmod = ts.Format(time.RFC3339)
		}
		writeSitemapURL(&b, site.URL("/blog/"+post.Slug), lastmod)
	}

	b.WriteString(`</urlset>`)
	return b.String()
}

func writeSitemapURL(b *strings.Builder, loc, lastmod string) {
	b.WriteString(`<url>`)
	b.WriteString(`<loc>` + Escape(loc) + `</loc>`)
	if lastmod != "" {
		b.WriteString(`<lastmod>` + Escape(lastmod) + `</lastmod>`)
	}
	b.WriteString(`</url>`)
}

// lastModified picks updated_at when set, else published_at, else nil.
func lastModified(post *models.Post) *time.Time {
	if !post.UpdatedAt.IsZero() {
		return &post.UpdatedAt
	}
	return post.PublishedAt
}

// rfc2822 formats a timestamp in the RFC 2822 form RSS readers expect.
// Returns false for an absent or zero timestamp so the caller omits the
// field instead of emitting a bogus date.
func rfc2822(ts *time.Time) (string, bool) {
	if ts == nil || ts.IsZero() {
		return "", false
	}
	return ts.Format(time.RFC1123Z), true
}

// escaper covers the five XML special characters.
var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// Escape entity-escapes a string for use in XML text and attribute content.
func Escape(s string) string {
	return escaper.Replace(s)
}

// CDATA wraps s in a CDATA section. A literal "]]>" inside s would
// terminate the section early, so it is split across two adjacent CDATA
// blocks ("]]" ends one block, ">" starts the next).
func CDATA(s string) string {
	safe := strings.ReplaceAll(s, "]]>", "]]]]><![CDATA[>")
	return "<![CDATA[" + safe + "]]>"
}
