// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Rubric is a listing category with a display name and a manual sort order
// used on the management screen. The natural (navigation) order is by
// listing count, computed by the store.
type Rubric struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	SortOrder int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// ListingCount is a virtual field populated by store queries that
	// annotate rubrics with the number of listings referencing them.
	ListingCount int `json:"listing_count,omitempty"`
}

// MaxRubricNameLen is the maximum rubric name length in runes.
const MaxRubricNameLen = 20
