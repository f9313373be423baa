package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"bboard/internal/database"
	"bboard/internal/mailer"
	"bboard/internal/models"
	"bboard/internal/render"
	"bboard/internal/storage"
	"bboard/internal/store"
)

// boardTestDB opens the test database and runs migrations, skipping the
// test when PostgreSQL is not reachable.
func boardTestDB(t *testing.T) *sql.DB {
	t.Helper()

	envOr := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fallback
	}
	dsn := "postgres://" + envOr("POSTGRES_USER", "bboard") + ":" +
		envOr("POSTGRES_PASSWORD", "changeme") + "@" +
		envOr("POSTGRES_HOST", "localhost") + ":" +
		envOr("POSTGRES_PORT", "5432") + "/" +
		envOr("POSTGRES_DB", "bboard") + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// listingForm builds a multipart edit submission, the encoding the form
// actually posts in because of its file input.
func listingForm(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			t.Fatalf("write form field %s: %v", name, err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestEditSubmitUnchangedReturnsToRubric(t *testing.T) {
	db := boardTestDB(t)
	rubricStore := store.NewRubricStore(db)
	bbStore := store.NewBbStore(db)

	name := "hb-" + uuid.NewString()[:8]
	title := "Old phone " + uuid.NewString()[:8]
	t.Cleanup(func() {
		db.Exec("DELETE FROM bbs WHERE title = $1", title)
		db.Exec("DELETE FROM rubrics WHERE name = $1", name)
	})

	rubric, err := rubricStore.Create(name, 0)
	if err != nil {
		t.Fatalf("create rubric: %v", err)
	}

	price := 50.0
	created, err := bbStore.Create(&models.Bb{
		Kind:        models.KindSell,
		RubricID:    &rubric.ID,
		Title:       title,
		Content:     "[b]Used phone[/b]",
		Price:       &price,
		Description: "Used phone",
	})
	if err != nil {
		t.Fatalf("create listing: %v", err)
	}

	renderer, err := render.New(false)
	if err != nil {
		t.Fatalf("create renderer: %v", err)
	}
	media, err := storage.NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("create media dir: %v", err)
	}
	b := NewBoard(renderer, bbStore, rubricStore, media, mailer.New("", 0, "", "", ""), "")

	// Resubmit the form exactly as it was loaded.
	body, contentType := listingForm(t, map[string]string{
		"kind":        string(models.KindSell),
		"rubric":      rubric.ID.String(),
		"title":       title,
		"content":     "[b]Used phone[/b]",
		"price":       "50",
		"description": "Used phone",
	})

	req := httptest.NewRequest(http.MethodPost, "/update/"+created.ID.String(), body)
	req.Header.Set("Content-Type", contentType)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", created.ID.String())
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	w := httptest.NewRecorder()
	b.EditSubmit(w, req)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want 303", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/"+rubric.ID.String() {
		t.Errorf("location: got %q, want the rubric page %q", loc, "/"+rubric.ID.String())
	}

	// The flash reports no changes rather than a successful update.
	flashReq := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		flashReq.AddCookie(c)
	}
	flashes := popFlashes(httptest.NewRecorder(), flashReq)
	if len(flashes) != 1 || flashes[0].Type != "info" || flashes[0].Message != "No changes were made." {
		t.Errorf("flash: got %+v, want the info no-changes flash", flashes)
	}

	got, err := bbStore.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if !got.Published.Equal(created.Published) {
		t.Error("published must not change on a no-op edit")
	}
}
