// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with demo blog content for development:
// a default author user, three categories, three tags, five posts with
// Markdown bodies, and a handful of guest comments per post in mixed
// moderation states. It is a no-op when posts already exist.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM posts").Scan(&count); err != nil {
		return fmt.Errorf("seed check posts: %w", err)
	}
	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	authorID, err := seedAuthor(db)
	if err != nil {
		return err
	}

	categoryIDs, err := seedCategories(db)
	if err != nil {
		return err
	}

	tagIDs, err := seedTags(db)
	if err != nil {
		return err
	}

	if err := seedPosts(db, authorID, categoryIDs, tagIDs); err != nil {
		return err
	}

	slog.Info("database seeded with demo blog content")
	return nil
}

// seedAuthor inserts the default author user if none exists and returns
// its id.
func seedAuthor(db *sql.DB) (int64, error) {
	var id int64
	err := db.QueryRow("SELECT id FROM users LIMIT 1").Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("seed check users: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("seed bcrypt: %w", err)
	}

	err = db.QueryRow(`
		INSERT INTO users (name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id
	`, "Admin", "admin@blogavel.local", string(hash)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("seed insert author: %w", err)
	}
	return id, nil
}

func seedCategories(db *sql.DB) ([]int64, error) {
	names := []string{"News", "Guides", "Releases"}
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		var id int64
		err := db.QueryRow(`
			INSERT INTO categories (name, slug)
			VALUES ($1, $2)
			ON CONFLICT (slug) DO UPDATE SET updated_at = NOW()
			RETURNING id
		`, name, strings.ToLower(name)).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("seed category %q: %w", name, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func seedTags(db *sql.DB) ([]int64, error) {
	names := []string{"Go", "PostgreSQL", "Releases"}
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		var id int64
		err := db.QueryRow(`
			INSERT INTO tags (name, slug)
			VALUES ($1, $2)
			ON CONFLICT (slug) DO UPDATE SET updated_at = NOW()
			RETURNING id
		`, name, strings.ToLower(name)).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("seed tag %q: %w", name, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func seedPosts(db *sql.DB, authorID int64, categoryIDs, tagIDs []int64) error {
	titles := []string{
		"Welcome to Blogavel",
		"Getting Started: Writing Your First Post",
		"Publishing Workflow and Statuses",
		"Media Uploads and Managing Assets",
		"Moderating Comments",
	}

	for i, title := range titles {
		// The first post is always published so the blog index has content.
		status := "published"
		if i > 0 && rand.Intn(2) == 0 {
			status = "draft"
		}

		publishedAt := time.Now().AddDate(0, 0, -rand.Intn(21))
		slug := strings.ToLower(strings.ReplaceAll(strings.ReplaceAll(title, ":", ""), " ", "-"))

		var postID int64
		err := db.QueryRow(`
			INSERT INTO posts (title, slug, content, status, published_at, category_id, author_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`, title, slug, sampleContent(title), status, publishedAt,
			categoryIDs[rand.Intn(len(categoryIDs))], authorID,
		).Scan(&postID)
		if err != nil {
			return fmt.Errorf("seed post %q: %w", title, err)
		}

		for _, tagID := range pickTags(tagIDs) {
			if _, err := db.Exec(`
				INSERT INTO post_tag (post_id, tag_id) VALUES ($1, $2)
				ON CONFLICT DO NOTHING
			`, postID, tagID); err != nil {
				return fmt.Errorf("seed post tag: %w", err)
			}
		}

		if err := seedComments(db, postID); err != nil {
			return err
		}
	}
	return nil
}

func seedComments(db *sql.DB, postID int64) error {
	statuses := []string{"pending", "approved", "spam"}
	names := []string{"Alice", "Bob", "Chris", "Dana", "Elliot", "Fatima"}
	samples := []string{
		"Nice post! Thanks for sharing.",
		"This helped a lot, appreciated.",
		"Could you add more details on this part?",
		"I ran into an issue but found the solution after reading this.",
		"Great write-up. Looking forward to the next one.",
	}

	n := 2 + rand.Intn(5)
	for i := 0; i < n; i++ {
		name := names[rand.Intn(len(names))]
		_, err := db.Exec(`
			INSERT INTO comments (post_id, guest_name, guest_email, content, status, ip, user_agent)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, postID, name, strings.ToLower(name)+"@example.com",
			samples[rand.Intn(len(samples))], statuses[rand.Intn(len(statuses))],
			"127.0.0.1", "Seeder")
		if err != nil {
			return fmt.Errorf("seed comment: %w", err)
		}
	}
	return nil
}

// pickTags returns one to three distinct tag ids.
func pickTags(tagIDs []int64) []int64 {
	shuffled := make([]int64, len(tagIDs))
	copy(shuffled, tagIDs)
	rand.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	return shuffled[:1+rand.Intn(min(3, len(shuffled)))]
}

func sampleContent(title string) string {
	return strings.Join([]string{
		"# " + title,
		"This is seeded demo content to help you test the Blogavel admin API and blog pages.",
		"You can edit, publish, tag, and categorize this post through the admin endpoints.",
	}, "\n\n")
}
