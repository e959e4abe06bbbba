// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"blogavel/internal/models"
	"blogavel/internal/pagination"
)

// MediaStore manages media metadata in the database. File bytes live in
// object storage; rows here carry the disk (bucket) and path (object key).
type MediaStore struct {
	db *sql.DB
}

// NewMediaStore returns a new MediaStore.
func NewMediaStore(db *sql.DB) *MediaStore {
	return &MediaStore{db: db}
}

const mediaColumns = `id, disk, path, thumb_path, mime_type, size_bytes, uploader_id, created_at, updated_at`

func scanMedia(scanner interface{ Scan(...any) error }) (*models.Media, error) {
	var m models.Media
	err := scanner.Scan(
		&m.ID, &m.Disk, &m.Path, &m.ThumbPath, &m.MimeType,
		&m.SizeBytes, &m.UploaderID, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// List returns one page of media rows, newest first, plus the total count.
func (s *MediaStore) List(p pagination.Params) ([]models.Media, int, error) {
	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM media`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count media: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT `+mediaColumns+` FROM media
		ORDER BY id DESC
		LIMIT $1 OFFSET $2
	`, p.PerPage, p.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list media: %w", err)
	}
	defer rows.Close()

	var items []models.Media
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan media: %w", err)
		}
		items = append(items, *m)
	}
	return items, total, rows.Err()
}

// FindByID retrieves a media row by id. Returns nil if not found.
func (s *MediaStore) FindByID(id int64) (*models.Media, error) {
	m, err := scanMedia(s.db.QueryRow(`SELECT `+mediaColumns+` FROM media WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find media by id: %w", err)
	}
	return m, nil
}

// Exists reports whether a media row with the given id exists. Used to
// validate featured_media_id references on post writes.
func (s *MediaStore) Exists(id int64) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM media WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check media: %w", err)
	}
	return exists, nil
}

// Create inserts a new media row and returns it.
func (s *MediaStore) Create(m *models.Media) (*models.Media, error) {
	row := s.db.QueryRow(`
		INSERT INTO media (disk, path, thumb_path, mime_type, size_bytes, uploader_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+mediaColumns,
		m.Disk, m.Path, m.ThumbPath, m.MimeType, m.SizeBytes, m.UploaderID,
	)
	result, err := scanMedia(row)
	if err != nil {
		return nil, fmt.Errorf("create media: %w", err)
	}
	return result, nil
}

// Delete removes a media row by id. Posts referencing it keep working:
// the featured_media_id foreign key is ON DELETE SET NULL.
func (s *MediaStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM media WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete media: %w", err)
	}
	return nil
}
