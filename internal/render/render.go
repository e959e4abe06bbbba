// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the public blog
// pages. Each page template is paired with the base layout at startup;
// pages render to a byte slice first so the result can go to the page
// cache as well as the response.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"
)

//go:embed templates/blog/*.html
var blogFS embed.FS

// PageData holds all data passed to blog templates.
type PageData struct {
	Title    string         // Page title for the <title> tag
	SiteName string         // Blog name shown in the header
	Data     map[string]any // Page-specific data
}

// Renderer handles template parsing and execution for blog pages.
type Renderer struct {
	templates map[string]*template.Template
	siteName  string
}

// New creates a Renderer by parsing all blog templates from the embedded
// filesystem. Each page template is paired with the base layout.
func New(siteName string) (*Renderer, error) {
	funcMap := template.FuncMap{
		// deref safely dereferences a string pointer for use in templates.
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		// pubDate formats an optional publish timestamp for display.
		"pubDate": func(ts *time.Time) string {
			if ts == nil {
				return ""
			}
			return ts.Format("January 2, 2006")
		},
		// rawHTML marks sanitized renderer output (markdown → HTML) as safe.
		"rawHTML": func(s string) template.HTML {
			return template.HTML(s)
		},
	}

	r := &Renderer{
		templates: make(map[string]*template.Template),
		siteName:  siteName,
	}

	entries, err := blogFS.ReadDir("templates/blog")
	if err != nil {
		return nil, fmt.Errorf("read embedded templates: %w", err)
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == "base.html" {
			continue
		}
		tmplName := name[:len(name)-len(".html")]

		tmpl, err := template.New("base.html").Funcs(funcMap).ParseFS(
			blogFS, "templates/blog/base.html", "templates/blog/"+name,
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[tmplName] = tmpl
	}

	return r, nil
}

// Render executes a page template with the base layout and returns the
// rendered HTML.
func (rn *Renderer) Render(name string, data *PageData) ([]byte, error) {
	tmpl, ok := rn.templates[name]
	if !ok {
		return nil, fmt.Errorf("template %q not found", name)
	}

	if data.SiteName == "" {
		data.SiteName = rn.siteName
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base.html", data); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
