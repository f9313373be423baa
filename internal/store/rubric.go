// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"bboard/internal/models"
)

// RubricStore manages rubrics in the database.
type RubricStore struct {
	db *sql.DB
}

// NewRubricStore returns a new RubricStore.
func NewRubricStore(db *sql.DB) *RubricStore {
	return &RubricStore{db: db}
}

const rubricColumns = `id, name, sort_order, created_at, updated_at`

// scanRubric scans a row into a Rubric struct.
func scanRubric(scanner interface{ Scan(...any) error }) (*models.Rubric, error) {
	var r models.Rubric
	err := scanner.Scan(&r.ID, &r.Name, &r.SortOrder, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// listCounted runs a rubric query that selects the rubric columns plus a
// listing count, and scans the result set.
func (s *RubricStore) listCounted(query string) ([]models.Rubric, error) {
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list rubrics: %w", err)
	}
	defer rows.Close()

	var items []models.Rubric
	for rows.Next() {
		var r models.Rubric
		err := rows.Scan(
			&r.ID, &r.Name, &r.SortOrder, &r.CreatedAt, &r.UpdatedAt,
			&r.ListingCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan rubric: %w", err)
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

// ListByPopularity returns all rubrics annotated with their listing count,
// most popular first. Ties break on name so the order is deterministic.
// Used for the primary navigation on the index page.
func (s *RubricStore) ListByPopularity() ([]models.Rubric, error) {
	return s.listCounted(`
		SELECT r.id, r.name, r.sort_order, r.created_at, r.updated_at,
		       COUNT(b.id) AS listing_count
		FROM rubrics r
		LEFT JOIN bbs b ON b.rubric_id = r.id
		GROUP BY r.id
		ORDER BY listing_count DESC, r.name
	`)
}

// ListWithListings returns only rubrics that have at least one listing,
// most popular first. Used for navigation on most pages so empty
// categories never show up.
func (s *RubricStore) ListWithListings() ([]models.Rubric, error) {
	return s.listCounted(`
		SELECT r.id, r.name, r.sort_order, r.created_at, r.updated_at,
		       COUNT(b.id) AS listing_count
		FROM rubrics r
		LEFT JOIN bbs b ON b.rubric_id = r.id
		GROUP BY r.id
		HAVING COUNT(b.id) > 0
		ORDER BY listing_count DESC, r.name
	`)
}

// ListManaged returns all rubrics ordered by explicit sort order then name,
// for the drag-to-reorder management screen.
func (s *RubricStore) ListManaged() ([]models.Rubric, error) {
	return s.listCounted(`
		SELECT r.id, r.name, r.sort_order, r.created_at, r.updated_at,
		       COUNT(b.id) AS listing_count
		FROM rubrics r
		LEFT JOIN bbs b ON b.rubric_id = r.id
		GROUP BY r.id
		ORDER BY r.sort_order, r.name
	`)
}

// ListManagedReversed returns all rubrics by sort order and name descending.
func (s *RubricStore) ListManagedReversed() ([]models.Rubric, error) {
	return s.listCounted(`
		SELECT r.id, r.name, r.sort_order, r.created_at, r.updated_at,
		       COUNT(b.id) AS listing_count
		FROM rubrics r
		LEFT JOIN bbs b ON b.rubric_id = r.id
		GROUP BY r.id
		ORDER BY r.sort_order DESC, r.name DESC
	`)
}

// FindByID retrieves a rubric by ID. Returns nil if not found.
func (s *RubricStore) FindByID(id uuid.UUID) (*models.Rubric, error) {
	row := s.db.QueryRow(`SELECT `+rubricColumns+` FROM rubrics WHERE id = $1`, id)
	r, err := scanRubric(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find rubric by id: %w", err)
	}
	return r, nil
}

// Create inserts a new rubric and returns it. Returns ErrDuplicateName
// when the name collides with an existing rubric.
func (s *RubricStore) Create(name string, sortOrder int) (*models.Rubric, error) {
	row := s.db.QueryRow(`
		INSERT INTO rubrics (name, sort_order)
		VALUES ($1, $2)
		RETURNING `+rubricColumns,
		name, sortOrder,
	)
	r, err := scanRubric(row)
	if err != nil {
		return nil, fmt.Errorf("create rubric: %w", mapConstraintErr(err))
	}
	return r, nil
}

// Update modifies an existing rubric. Returns ErrDuplicateName on a name
// collision.
func (s *RubricStore) Update(r *models.Rubric) error {
	_, err := s.db.Exec(`
		UPDATE rubrics SET name = $1, sort_order = $2, updated_at = NOW()
		WHERE id = $3
	`, r.Name, r.SortOrder, r.ID)
	if err != nil {
		return fmt.Errorf("update rubric: %w", mapConstraintErr(err))
	}
	return nil
}

// Delete removes a rubric by ID. Returns ErrRubricInUse when listings
// still reference it (the FK rejects the delete).
func (s *RubricStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM rubrics WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete rubric: %w", mapConstraintErr(err))
	}
	return nil
}

// ReorderItem represents one row of the rubric management formset.
// A zero ID means the row creates a new rubric.
type ReorderItem struct {
	ID       uuid.UUID
	Name     string
	Position int
	Delete   bool
}

// Reorder applies a whole management-form submission as one transaction:
// rows flagged for deletion are removed, new rows are inserted, and every
// remaining row's sort order is set from its submitted position. Any
// constraint failure rolls the whole submission back.
func (s *RubricStore) Reorder(items []ReorderItem) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, item := range items {
		switch {
		case item.Delete && item.ID != uuid.Nil:
			if _, err := tx.Exec(`DELETE FROM rubrics WHERE id = $1`, item.ID); err != nil {
				return fmt.Errorf("reorder delete rubric %s: %w", item.ID, mapConstraintErr(err))
			}
		case item.ID == uuid.Nil:
			if item.Name == "" {
				continue
			}
			if _, err := tx.Exec(`
				INSERT INTO rubrics (name, sort_order) VALUES ($1, $2)
			`, item.Name, item.Position); err != nil {
				return fmt.Errorf("reorder insert rubric %q: %w", item.Name, mapConstraintErr(err))
			}
		default:
			if _, err := tx.Exec(`
				UPDATE rubrics SET name = $1, sort_order = $2, updated_at = NOW()
				WHERE id = $3
			`, item.Name, item.Position, item.ID); err != nil {
				return fmt.Errorf("reorder update rubric %s: %w", item.ID, mapConstraintErr(err))
			}
		}
	}

	return tx.Commit()
}
