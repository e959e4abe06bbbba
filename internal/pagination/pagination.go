// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package pagination slices ordered result sets into fixed-size pages and
// builds the navigation metadata returned alongside them. Page numbers are
// 1-based; an out-of-range page yields an empty page, never an error, so
// callers always receive a well-formed window over the result set.
package pagination

import (
	"net/url"
	"strconv"
)

// Params identifies one page window: the 1-based page number and the page
// size fixed by the call site.
type Params struct {
	Page    int
	PerPage int
}

// NewParams clamps page to a minimum of 1 and returns the window. PerPage
// below 1 falls back to 1 so Offset and LastPage stay well-defined.
func NewParams(page, perPage int) Params {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 1
	}
	return Params{Page: page, PerPage: perPage}
}

// FromQuery reads the "page" query parameter. Missing or malformed values
// resolve to page 1.
func FromQuery(q url.Values, perPage int) Params {
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil {
		page = 1
	}
	return NewParams(page, perPage)
}

// Offset returns the row offset for the window's first element.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Meta is the page navigation metadata exposed to API consumers. The field
// names mirror the JSON shape the admin UI consumes.
type Meta struct {
	CurrentPage int     `json:"current_page"`
	LastPage    int     `json:"last_page"`
	PerPage     int     `json:"per_page"`
	Total       int     `json:"total"`
	NextPageURL *string `json:"next_page_url"`
}

// Link is one entry in the links collection rendered by the page
// navigation component: previous, one per page number, next.
type Link struct {
	URL    *string `json:"url"`
	Label  string  `json:"label"`
	Active bool    `json:"active"`
}

// NewMeta computes navigation metadata for a page window over total rows.
// base carries the request path and query string; the next-page URL is base
// with only the page parameter replaced, so active filters survive paging.
// NextPageURL is nil on (or past) the last page. base may be nil when no
// URLs are wanted.
func NewMeta(p Params, total int, base *url.URL) Meta {
	m := Meta{
		CurrentPage: p.Page,
		LastPage:    LastPage(total, p.PerPage),
		PerPage:     p.PerPage,
		Total:       total,
	}
	if base != nil && m.CurrentPage < m.LastPage {
		next := pageURL(base, p.Page+1)
		m.NextPageURL = &next
	}
	return m
}

// LastPage returns ceil(total/perPage) with a minimum of 1, so an empty
// result set still has a valid single (empty) page.
func LastPage(total, perPage int) int {
	if perPage < 1 {
		perPage = 1
	}
	last := (total + perPage - 1) / perPage
	if last < 1 {
		last = 1
	}
	return last
}

// Links builds the full links collection for a page window: a previous
// link, one numbered link per page, and a next link. Previous and next
// URLs are nil at the respective boundaries.
func Links(p Params, total int, base *url.URL) []Link {
	last := LastPage(total, p.PerPage)

	links := make([]Link, 0, last+2)

	prev := Link{Label: "&laquo; Previous"}
	if base != nil && p.Page > 1 {
		u := pageURL(base, p.Page-1)
		prev.URL = &u
	}
	links = append(links, prev)

	for n := 1; n <= last; n++ {
		link := Link{Label: strconv.Itoa(n), Active: n == p.Page}
		if base != nil {
			u := pageURL(base, n)
			link.URL = &u
		}
		links = append(links, link)
	}

	next := Link{Label: "Next &raquo;"}
	if base != nil && p.Page < last {
		u := pageURL(base, p.Page+1)
		next.URL = &u
	}
	links = append(links, next)

	return links
}

// pageURL returns base with its page query parameter set to n. All other
// query parameters are preserved.
func pageURL(base *url.URL, n int) string {
	u := *base
	q := u.Query()
	q.Set("page", strconv.Itoa(n))
	u.RawQuery = q.Encode()
	return u.String()
}
