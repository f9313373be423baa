// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package validate runs field-level and cross-field rules before any
// create or update commits. Failures are aggregated into a single
// field-keyed report rather than returned one at a time.
package validate

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"bboard/internal/models"
)

// Errors maps a field name to the validation messages recorded for it.
// A nil or empty map means the input passed.
type Errors map[string][]string

// Add records a validation message for the given field.
func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Has reports whether any field has a recorded error.
func (e Errors) Has() bool {
	return len(e) > 0
}

// Field returns the first message for a field, or "" if the field passed.
func (e Errors) Field(field string) string {
	if msgs := e[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Error renders the report as a single string, fields in sorted order.
func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(f + ": " + strings.Join(e[f], ", "))
	}
	return b.String()
}

// ListingInput carries the user-editable listing fields for validation.
type ListingInput struct {
	Kind        models.Kind
	Title       string
	Content     string
	Price       *float64
	Description string
	HasRubric   bool
}

// CheckListing validates a listing create/update submission. All rules run
// and their failures are aggregated into one report keyed by field.
func CheckListing(in ListingInput) Errors {
	errs := Errors{}

	title := strings.TrimSpace(in.Title)
	if utf8.RuneCountInString(title) < models.MinTitleLen {
		errs.Add("title", "Invalid product title: too few characters.")
	}
	if utf8.RuneCountInString(title) > models.MaxTitleLen {
		errs.Add("title", fmt.Sprintf("Title is too long (max %d characters).", models.MaxTitleLen))
	}

	if !in.Kind.Valid() {
		errs.Add("kind", "Choose the kind of listing being published.")
	}

	if !in.HasRubric {
		errs.Add("rubric", "Choose a rubric for the listing.")
	}

	if strings.TrimSpace(in.Content) == "" {
		errs.Add("content", "Describe the product being sold.")
	}

	if in.Price != nil && *in.Price < 0 {
		errs.Add("price", "Price must be a non-negative value.")
	}

	if strings.TrimSpace(in.Description) == "" {
		errs.Add("description", "Description is required.")
	}

	if !errs.Has() {
		return nil
	}
	return errs
}

// CheckRubric validates a rubric name for create/update.
func CheckRubric(name string) Errors {
	errs := Errors{}

	name = strings.TrimSpace(name)
	if name == "" {
		errs.Add("name", "Rubric name is required.")
	} else if utf8.RuneCountInString(name) > models.MaxRubricNameLen {
		errs.Add("name", fmt.Sprintf("Rubric name is too long (max %d characters).", models.MaxRubricNameLen))
	}

	if !errs.Has() {
		return nil
	}
	return errs
}

// Rule is a reusable numeric field validator. Rules are composed into
// per-field rule lists by callers that need configurable checks.
type Rule func(v float64) error

// Even rejects odd integer values.
func Even(v float64) error {
	if int64(v)%2 != 0 {
		return fmt.Errorf("the number %v is odd", v)
	}
	return nil
}

// Range returns a rule that requires min <= v <= max inclusive.
func Range(min, max float64) Rule {
	return func(v float64) error {
		if v < min || v > max {
			return fmt.Errorf("the number must be between %v and %v", min, max)
		}
		return nil
	}
}

// Apply runs rules against v, recording each failure on field.
func Apply(errs Errors, field string, v float64, rules ...Rule) {
	for _, rule := range rules {
		if err := rule(v); err != nil {
			errs.Add(field, err.Error())
		}
	}
}
