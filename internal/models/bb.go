// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind is the enumerated intent of a listing.
type Kind string

const (
	KindBuy      Kind = "buy"
	KindSell     Kind = "sell"
	KindExchange Kind = "exchange"
)

// Kinds lists all valid listing kinds in display order.
var Kinds = []Kind{KindBuy, KindSell, KindExchange}

// Valid reports whether k is one of the known listing kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindBuy, KindSell, KindExchange:
		return true
	}
	return false
}

// Label returns the human-readable name for the kind.
func (k Kind) Label() string {
	switch k {
	case KindBuy:
		return "Buying"
	case KindSell:
		return "Selling"
	case KindExchange:
		return "Exchange"
	}
	return string(k)
}

// Bb is a single classifieds listing ("bulletin board" ad). Content holds
// BBCode markup rendered to HTML at display time; Description is plain text.
// RubricID is nullable in the schema but required by validation; the rubric
// row is protected from deletion while listings reference it.
type Bb struct {
	ID          uuid.UUID  `json:"id"`
	Kind        Kind       `json:"kind"`
	RubricID    *uuid.UUID `json:"rubric_id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Price       *float64   `json:"price,omitempty"`
	Description string     `json:"description"`
	Published   time.Time  `json:"published"`
	ImagePath   *string    `json:"image_path,omitempty"`
	IsHidden    bool       `json:"is_hidden"`

	// RubricName is a virtual field populated by list queries that join
	// the rubric row for display.
	RubricName string `json:"rubric_name,omitempty"`
}

// Listing field length limits in runes.
const (
	MinTitleLen = 4
	MaxTitleLen = 50
)

// TitleAndPrice returns the title with the price appended when one is set.
func (b *Bb) TitleAndPrice() string {
	if b.Price != nil {
		return fmt.Sprintf("%s (%.2f)", b.Title, *b.Price)
	}
	return b.Title
}

// Same reports whether other carries identical user-editable field values.
// Used to detect no-op edit submissions that should skip the write.
func (b *Bb) Same(other *Bb) bool {
	if b.Kind != other.Kind || b.Title != other.Title ||
		b.Content != other.Content || b.Description != other.Description ||
		b.IsHidden != other.IsHidden {
		return false
	}
	if (b.RubricID == nil) != (other.RubricID == nil) {
		return false
	}
	if b.RubricID != nil && *b.RubricID != *other.RubricID {
		return false
	}
	if (b.Price == nil) != (other.Price == nil) {
		return false
	}
	if b.Price != nil && *b.Price != *other.Price {
		return false
	}
	if (b.ImagePath == nil) != (other.ImagePath == nil) {
		return false
	}
	if b.ImagePath != nil && *b.ImagePath != *other.ImagePath {
		return false
	}
	return true
}
