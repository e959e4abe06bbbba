package feed

import (
	"strings"
	"testing"
	"time"

	"blogavel/internal/models"
)

var testSite = Site{Name: "Blogavel & Co", BaseURL: "https://example.com"}

func ts(t *testing.T, value string) *time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse %q: %v", value, err)
	}
	return &parsed
}

func strPtr(s string) *string { return &s }

func TestRSSBasics(t *testing.T) {
	posts := []models.Post{
		{
			ID: 3, Title: "Ops & Observability", Slug: "ops-observability",
			Content:     strPtr("# Heading\n\nBody text here."),
			PublishedAt: ts(t, "2024-01-03T10:00:00Z"),
		},
		{
			ID: 7, Title: "Second", Slug: "second",
			PublishedAt: ts(t, "2024-01-02T10:00:00Z"),
		},
	}

	xml := RSS(testSite, posts)

	if !strings.HasPrefix(xml, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Error("missing XML declaration")
	}
	if !strings.Contains(xml, `<title>Blogavel &amp; Co</title>`) {
		t.Error("channel title not escaped")
	}
	if !strings.Contains(xml, `<atom:link xmlns:atom="http://www.w3.org/2005/Atom" href="https://example.com/feed.xml" rel="self"`) {
		t.Error("missing self-referencing atom link")
	}
	if !strings.Contains(xml, `<title>Ops &amp; Observability</title>`) {
		t.Error("item title not escaped")
	}
	if !strings.Contains(xml, `<link>https://example.com/blog/ops-observability</link>`) {
		t.Error("item link missing or wrong")
	}
	if !strings.Contains(xml, `<guid isPermaLink="true">https://example.com/blog/ops-observability</guid>`) {
		t.Error("guid should equal the permalink")
	}
	if !strings.Contains(xml, "<pubDate>") {
		t.Error("expected pubDate for posts with a timestamp")
	}
	if !strings.Contains(xml, "<![CDATA[") {
		t.Error("description should be CDATA-wrapped")
	}
	if strings.Count(xml, "<item>") != 2 {
		t.Errorf("items: got %d, want 2", strings.Count(xml, "<item>"))
	}
}

func TestRSSOmitsPubDateWhenMissing(t *testing.T) {
	// A nil timestamp omits the field but never drops the item.
	posts := []models.Post{{ID: 1, Title: "No Date", Slug: "no-date"}}

	xml := RSS(testSite, posts)
	if strings.Contains(xml, "<pubDate>") {
		t.Error("pubDate should be omitted for missing timestamp")
	}
	if strings.Count(xml, "<item>") != 1 {
		t.Error("item should still be rendered")
	}
}

func TestRSSLimit(t *testing.T) {
	posts := make([]models.Post, RSSLimit+10)
	for i := range posts {
		posts[i] = models.Post{ID: int64(i + 1), Title: "P", Slug: "p", PublishedAt: ts(t, "2024-01-01T00:00:00Z")}
	}

	xml := RSS(testSite, posts)
	if got := strings.Count(xml, "<item>"); got != RSSLimit {
		t.Errorf("items: got %d, want %d", got, RSSLimit)
	}
}

func TestCDATANeutralizesTerminator(t *testing.T) {
	out := CDATA("before ]]> after")
	want := "<![CDATA[before ]]]]><![CDATA[> after]]>"
	if out != want {
		t.Errorf("CDATA: got %q, want %q", out, want)
	}

	plain := CDATA("no terminator")
	if plain != "<![CDATA[no terminator]]>" {
		t.Errorf("CDATA plain: got %q", plain)
	}
}

func TestEscape(t *testing.T) {
	got := Escape(`a & b < c > "d" 'e'`)
	want := "a &amp; b &lt; c &gt; &quot;d&quot; &#39;e&#39;"
	if got != want {
		t.Errorf("Escape: got %q, want %q", got, want)
	}
}

func TestSitemap(t *testing.T) {
	posts := []models.Post{
		{
			ID: 3, Slug: "first",
			PublishedAt: ts(t, "2024-01-03T10:00:00Z"),
			UpdatedAt:   *ts(t, "2024-02-01T09:00:00Z"),
			Category:    &models.Category{Slug: "news"},
			Tags:        []models.Tag{{Slug: "go"}, {Slug: "postgres"}},
		},
		{
			ID: 2, Slug: "second",
			PublishedAt: ts(t, "2024-01-02T10:00:00Z"),
			Category:    &models.Category{Slug: "news"}, // duplicate, listed once
			Tags:        []models.Tag{{Slug: "go"}},     // duplicate, listed once
		},
	}

	xml := Sitemap(testSite, posts)

	for _, want := range []string{
		"<loc>https://example.com/</loc>",
		"<loc>https://example.com/blog</loc>",
		"<loc>https://example.com/feed.xml</loc>",
		"<loc>https://example.com/blog/category/news</loc>",
		"<loc>https://example.com/blog/tag/go</loc>",
		"<loc>https://example.com/blog/tag/postgres</loc>",
		"<loc>https://example.com/blog/first</loc>",
		"<loc>https://example.com/blog/second</loc>",
	} {
		if !strings.Contains(xml, want) {
			t.Errorf("sitemap missing %q", want)
		}
	}

	if strings.Count(xml, "category/news") != 1 {
		t.Error("duplicate category slug listed more than once")
	}
	if strings.Count(xml, "tag/go<") != 1 {
		t.Error("duplicate tag slug listed more than once")
	}
	if !strings.Contains(xml, "<lastmod>2024-02-01T09:00:00Z</lastmod>") {
		t.Error("lastmod should use updated_at when set")
	}
}

func TestSitemapLastmodFallback(t *testing.T) {
	posts := []models.Post{
		{ID: 1, Slug: "only-published", PublishedAt: ts(t, "2024-01-05T00:00:00Z")},
	}

	xml := Sitemap(testSite, posts)
	if !strings.Contains(xml, "<lastmod>2024-01-05T00:00:00Z</lastmod>") {
		t.Error("lastmod should fall back to published_at")
	}
}

func TestSitemapOmitsLastmodWhenUnknown(t *testing.T) {
	posts := []models.Post{{ID: 1, Slug: "no-dates"}}

	xml := Sitemap(testSite, posts)
	if strings.Contains(xml, "<lastmod>") {
		t.Error("lastmod should be omitted with no timestamps")
	}
}
