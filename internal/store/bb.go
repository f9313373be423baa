// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"bboard/internal/models"
)

// BbStore handles all listing-related database operations.
type BbStore struct {
	db *sql.DB
}

// NewBbStore creates a new BbStore with the given database connection.
func NewBbStore(db *sql.DB) *BbStore {
	return &BbStore{db: db}
}

// bbSelect joins the rubric row so lists can show the rubric name without
// a second query. Default ordering everywhere: newest first, then title.
const bbSelect = `
	SELECT b.id, b.kind, b.rubric_id, b.title, b.content, b.price,
	       b.description, b.published, b.image_path, b.is_hidden,
	       COALESCE(r.name, '') AS rubric_name
	FROM bbs b
	LEFT JOIN rubrics r ON r.id = b.rubric_id`

// scanBb scans a joined listing row.
func scanBb(scanner interface{ Scan(...any) error }) (*models.Bb, error) {
	var b models.Bb
	err := scanner.Scan(
		&b.ID, &b.Kind, &b.RubricID, &b.Title, &b.Content, &b.Price,
		&b.Description, &b.Published, &b.ImagePath, &b.IsHidden,
		&b.RubricName,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// collectBbs drains a result set of joined listing rows.
func collectBbs(rows *sql.Rows) ([]models.Bb, error) {
	defer rows.Close()

	var items []models.Bb
	for rows.Next() {
		b, err := scanBb(rows)
		if err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		items = append(items, *b)
	}
	return items, rows.Err()
}

// List returns one page of the listing feed plus the total listing count
// for the paginator. page is 1-indexed.
func (s *BbStore) List(page, perPage int) ([]models.Bb, int, error) {
	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM bbs`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count listings: %w", err)
	}

	rows, err := s.db.Query(bbSelect+`
		ORDER BY b.published DESC, b.title
		LIMIT $1 OFFSET $2
	`, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list listings: %w", err)
	}

	items, err := collectBbs(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListByRubric returns all listings for a rubric, newest first. An empty
// result is returned as an empty slice; the by-rubric page treats that as
// not found.
func (s *BbStore) ListByRubric(rubricID uuid.UUID) ([]models.Bb, error) {
	rows, err := s.db.Query(bbSelect+`
		WHERE b.rubric_id = $1
		ORDER BY b.published DESC, b.title
	`, rubricID)
	if err != nil {
		return nil, fmt.Errorf("list listings by rubric: %w", err)
	}
	return collectBbs(rows)
}

// SearchTitleRegex returns listings in a rubric whose title matches the
// keyword as a case-insensitive POSIX regular expression. Pattern matching
// deliberately uses regex semantics, not substring containment. A keyword
// the POSIX engine cannot parse yields ErrBadPattern.
func (s *BbStore) SearchTitleRegex(keyword string, rubricID uuid.UUID) ([]models.Bb, error) {
	rows, err := s.db.Query(bbSelect+`
		WHERE b.title ~* $1 AND b.rubric_id = $2
		ORDER BY b.published DESC, b.title
	`, keyword, rubricID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgInvalidRegexp {
			return nil, ErrBadPattern
		}
		return nil, fmt.Errorf("search listings: %w", err)
	}
	return collectBbs(rows)
}

// FindByID retrieves a listing by its UUID. Returns nil if not found.
func (s *BbStore) FindByID(id uuid.UUID) (*models.Bb, error) {
	row := s.db.QueryRow(bbSelect+` WHERE b.id = $1`, id)
	b, err := scanBb(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find listing by id: %w", err)
	}
	return b, nil
}

// Create inserts a new listing and returns it with the generated ID and
// publication timestamp.
func (s *BbStore) Create(b *models.Bb) (*models.Bb, error) {
	row := s.db.QueryRow(`
		INSERT INTO bbs (kind, rubric_id, title, content, price,
		                 description, image_path, is_hidden)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, kind, rubric_id, title, content, price,
		          description, published, image_path, is_hidden, ''
	`, b.Kind, b.RubricID, b.Title, b.Content, b.Price,
		b.Description, b.ImagePath, b.IsHidden,
	)
	result, err := scanBb(row)
	if err != nil {
		return nil, fmt.Errorf("create listing: %w", mapConstraintErr(err))
	}
	return result, nil
}

// Update modifies an existing listing in place. The publication timestamp
// never changes on edit.
func (s *BbStore) Update(b *models.Bb) error {
	_, err := s.db.Exec(`
		UPDATE bbs SET kind = $1, rubric_id = $2, title = $3, content = $4,
		               price = $5, description = $6, image_path = $7,
		               is_hidden = $8
		WHERE id = $9
	`, b.Kind, b.RubricID, b.Title, b.Content, b.Price,
		b.Description, b.ImagePath, b.IsHidden, b.ID,
	)
	if err != nil {
		return fmt.Errorf("update listing: %w", mapConstraintErr(err))
	}
	return nil
}

// Delete removes a listing by ID.
func (s *BbStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM bbs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	return nil
}
