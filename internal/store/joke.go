// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"bboard/internal/models"
)

// JokeStore manages jokes for the companion jokes page.
type JokeStore struct {
	db *sql.DB
}

// NewJokeStore returns a new JokeStore.
func NewJokeStore(db *sql.DB) *JokeStore {
	return &JokeStore{db: db}
}

// ListByCategory returns all jokes in one category.
func (s *JokeStore) ListByCategory(category models.JokeCategory) ([]models.Joke, error) {
	rows, err := s.db.Query(`
		SELECT id, category, text FROM jokes WHERE category = $1
	`, category)
	if err != nil {
		return nil, fmt.Errorf("list jokes: %w", err)
	}
	defer rows.Close()

	var items []models.Joke
	for rows.Next() {
		var j models.Joke
		if err := rows.Scan(&j.ID, &j.Category, &j.Text); err != nil {
			return nil, fmt.Errorf("scan joke: %w", err)
		}
		items = append(items, j)
	}
	return items, rows.Err()
}

// Grouped returns jokes keyed by category, one bucket per known category.
// Categories with no jokes map to an empty slice.
func (s *JokeStore) Grouped() (map[models.JokeCategory][]models.Joke, error) {
	rows, err := s.db.Query(`SELECT id, category, text FROM jokes`)
	if err != nil {
		return nil, fmt.Errorf("group jokes: %w", err)
	}
	defer rows.Close()

	grouped := make(map[models.JokeCategory][]models.Joke, len(models.JokeCategories))
	for _, c := range models.JokeCategories {
		grouped[c] = []models.Joke{}
	}

	for rows.Next() {
		var j models.Joke
		if err := rows.Scan(&j.ID, &j.Category, &j.Text); err != nil {
			return nil, fmt.Errorf("scan joke: %w", err)
		}
		grouped[j.Category] = append(grouped[j.Category], j)
	}
	return grouped, rows.Err()
}

// Create inserts a new joke.
func (s *JokeStore) Create(category models.JokeCategory, text string) (*models.Joke, error) {
	j := &models.Joke{}
	err := s.db.QueryRow(`
		INSERT INTO jokes (category, text) VALUES ($1, $2)
		RETURNING id, category, text
	`, category, text).Scan(&j.ID, &j.Category, &j.Text)
	if err != nil {
		return nil, fmt.Errorf("create joke: %w", err)
	}
	return j, nil
}
