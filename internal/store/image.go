// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"bboard/internal/models"
)

// ImageStore manages the standalone image gallery rows.
type ImageStore struct {
	db *sql.DB
}

// NewImageStore returns a new ImageStore.
func NewImageStore(db *sql.DB) *ImageStore {
	return &ImageStore{db: db}
}

// List returns all gallery images, newest first.
func (s *ImageStore) List() ([]models.Image, error) {
	rows, err := s.db.Query(`
		SELECT id, path, description, created_at
		FROM images
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	defer rows.Close()

	var items []models.Image
	for rows.Next() {
		var img models.Image
		if err := rows.Scan(&img.ID, &img.Path, &img.Description, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan image: %w", err)
		}
		items = append(items, img)
	}
	return items, rows.Err()
}

// Create inserts a new gallery image and returns it.
func (s *ImageStore) Create(path, description string) (*models.Image, error) {
	img := &models.Image{}
	err := s.db.QueryRow(`
		INSERT INTO images (path, description)
		VALUES ($1, $2)
		RETURNING id, path, description, created_at
	`, path, description).Scan(&img.ID, &img.Path, &img.Description, &img.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create image: %w", err)
	}
	return img, nil
}
