package store

import (
	"testing"

	"github.com/google/uuid"

	"bboard/internal/models"
)

func TestJokeGrouped(t *testing.T) {
	db := testDB(t)
	s := NewJokeStore(db)

	text := "joke-" + uuid.NewString()
	t.Cleanup(func() { cleanJokes(t, db, text) })

	if _, err := s.Create(models.JokeCategoryArmy, text); err != nil {
		t.Fatalf("Create: %v", err)
	}

	grouped, err := s.Grouped()
	if err != nil {
		t.Fatalf("Grouped: %v", err)
	}

	// Every known category gets a bucket, even an empty one.
	for _, c := range models.JokeCategories {
		if _, ok := grouped[c]; !ok {
			t.Errorf("missing bucket for category %q", c)
		}
	}

	found := false
	for _, j := range grouped[models.JokeCategoryArmy] {
		if j.Text == text {
			found = true
		}
	}
	if !found {
		t.Error("created joke should appear in its category bucket")
	}
}

func TestJokeListByCategory(t *testing.T) {
	db := testDB(t)
	s := NewJokeStore(db)

	text := "joke-" + uuid.NewString()
	t.Cleanup(func() { cleanJokes(t, db, text) })

	if _, err := s.Create(models.JokeCategoryDark, text); err != nil {
		t.Fatalf("Create: %v", err)
	}

	jokes, err := s.ListByCategory(models.JokeCategoryDark)
	if err != nil {
		t.Fatalf("ListByCategory: %v", err)
	}

	found := false
	for _, j := range jokes {
		if j.Category != models.JokeCategoryDark {
			t.Errorf("foreign category %q in result", j.Category)
		}
		if j.Text == text {
			found = true
		}
	}
	if !found {
		t.Error("created joke should be listed in its category")
	}
}
