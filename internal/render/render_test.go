package render

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"bboard/internal/middleware"
	"bboard/internal/models"
	"bboard/internal/session"
	"bboard/internal/validate"
)

// helperSession returns a session.Data suitable for rendering templates.
func helperSession() *session.Data {
	return &session.Data{
		UserID:      uuid.New(),
		Email:       "test@bboard.local",
		DisplayName: "Test User",
	}
}

// helperRequestWithContext builds an *http.Request whose context carries a
// session, which the embedded templates expect.
func helperRequestWithContext(method, target string, sess *session.Data) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	ctx := req.Context()
	if sess != nil {
		ctx = context.WithValue(ctx, middleware.SessionKey, sess)
	}
	return req.WithContext(ctx)
}

func helperListing(title string) models.Bb {
	price := 50.0
	return models.Bb{
		ID:          uuid.New(),
		Kind:        models.KindSell,
		Title:       title,
		Content:     "[b]content[/b]",
		Price:       &price,
		Description: "a listing",
		Published:   time.Now(),
		RubricName:  "Electronics",
	}
}

func TestNew(t *testing.T) {
	rn, err := New(false)
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}
	if rn == nil {
		t.Fatal("New() returned nil renderer")
	}
	if len(rn.templates) == 0 {
		t.Error("renderer has no parsed templates")
	}

	// Verify well-known templates exist.
	for _, name := range []string{"index", "by_rubric", "detail", "bb_form", "rubrics", "search", "jokes", "images", "login"} {
		if !rn.Has(name) {
			t.Errorf("expected template %q to be parsed", name)
		}
	}

	// base.html should NOT appear as a standalone template key.
	if rn.Has("base") {
		t.Error("base.html should not be registered as a separate template")
	}
}

func TestPageRendering(t *testing.T) {
	rn, err := New(false)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	sess := helperSession()
	req := helperRequestWithContext(http.MethodGet, "/", sess)
	w := httptest.NewRecorder()

	rn.Page(w, req, "index", &PageData{
		Title:   "Board",
		Section: "board",
		Session: sess,
		Rubrics: []models.Rubric{{ID: uuid.New(), Name: "Electronics", ListingCount: 2}},
		Data: map[string]any{
			"Listings": []models.Bb{helperListing("Old phone")},
			"Page":     1,
			"Pages":    1,
			"PrevPage": 1,
			"NextPage": 1,
		},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d; body: %s", w.Code, w.Body.String())
	}

	body := w.Body.String()

	// Full page render should contain the base layout HTML structure.
	if !strings.Contains(body, "<!DOCTYPE html>") {
		t.Error("full page render should contain <!DOCTYPE html>")
	}
	if !strings.Contains(body, "Bulletin Board") {
		t.Error("full page render should contain the site name")
	}
	if !strings.Contains(body, "Old phone") {
		t.Error("full page render should contain the listing title")
	}
	if !strings.Contains(body, "Electronics") {
		t.Error("full page render should contain the sidebar rubric")
	}
	ct := w.Header().Get("Content-Type")
	if ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type: got %q, want %q", ct, "text/html; charset=utf-8")
	}
}

func TestStandaloneLogin(t *testing.T) {
	rn, err := New(false)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	req := helperRequestWithContext(http.MethodGet, "/login", nil)
	w := httptest.NewRecorder()

	rn.Page(w, req, "login", &PageData{
		Title: "Log in",
		Data:  map[string]any{"Email": ""},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d; body: %s", w.Code, w.Body.String())
	}

	body := w.Body.String()

	// Standalone template carries its own <!DOCTYPE html>.
	if !strings.Contains(body, "<!DOCTYPE html>") {
		t.Error("expected standalone HTML with <!DOCTYPE html>")
	}

	// It should NOT contain the base layout sidebar.
	if strings.Contains(body, "class=\"sidebar\"") {
		t.Error("login should NOT contain the base layout sidebar")
	}
}

func TestMissingTemplate(t *testing.T) {
	rn, err := New(false)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	req := helperRequestWithContext(http.MethodGet, "/nonexistent", nil)
	w := httptest.NewRecorder()

	rn.Page(w, req, "nonexistent_template", &PageData{
		Title: "Not Found",
	})

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}

	body := w.Body.String()
	if !strings.Contains(body, "not found") {
		t.Error("error response should mention template not found")
	}
}

func TestPageDataCSRFInjection(t *testing.T) {
	rn, err := New(false)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	// Run a request through the CSRF middleware so the context carries a token.
	csrfMiddleware := middleware.NewCSRF(false)
	var capturedReq *http.Request
	inner := csrfMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedReq = r
	}))

	setupReq := httptest.NewRequest(http.MethodGet, "/login", nil)
	setupRR := httptest.NewRecorder()
	inner.ServeHTTP(setupRR, setupReq)

	if capturedReq == nil {
		t.Fatal("CSRF middleware did not call inner handler")
	}

	csrfToken := middleware.CSRFTokenFromCtx(capturedReq.Context())
	if csrfToken == "" {
		t.Fatal("CSRF token not found in context")
	}

	w := httptest.NewRecorder()
	data := &PageData{Title: "Log in", Data: map[string]any{"Email": ""}}
	rn.Page(w, capturedReq, "login", data)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d; body: %s", w.Code, w.Body.String())
	}

	// The token should appear in the rendered hidden field.
	body := w.Body.String()
	if !strings.Contains(body, csrfToken) {
		t.Error("rendered output should contain the CSRF token from context")
	}
	if data.CSRFToken != csrfToken {
		t.Errorf("PageData.CSRFToken: got %q, want %q", data.CSRFToken, csrfToken)
	}
}

func TestSessionInjectionFromContext(t *testing.T) {
	rn, err := New(false)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	sess := helperSession()
	req := helperRequestWithContext(http.MethodGet, "/", sess)
	w := httptest.NewRecorder()

	// Pass PageData WITHOUT setting Session; it should be injected from context.
	data := &PageData{
		Title:   "Board",
		Section: "board",
		Data: map[string]any{
			"Listings": []models.Bb{},
			"Page":     1,
			"Pages":    1,
			"PrevPage": 1,
			"NextPage": 1,
		},
	}
	rn.Page(w, req, "index", data)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d; body: %s", w.Code, w.Body.String())
	}

	if data.Session == nil {
		t.Error("expected Session to be injected from context")
	}

	// The rendered body should contain the user's display name in the header.
	body := w.Body.String()
	if !strings.Contains(body, "Test User") {
		t.Error("rendered output should contain session DisplayName")
	}
}

func TestFormRenderingWithErrors(t *testing.T) {
	rn, err := New(false)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	req := helperRequestWithContext(http.MethodGet, "/add", helperSession())
	w := httptest.NewRecorder()

	errs := validate.Errors{
		"title": {"Invalid product title: too few characters."},
	}

	rn.Page(w, req, "bb_form", &PageData{
		Title:   "Add listing",
		Section: "add",
		Errors:  errs,
		Data: map[string]any{
			"Heading": "Add listing",
			"Action":  "/add",
			"Listing": &models.Bb{Kind: models.KindSell},
			"Kinds":   models.Kinds,
			"Rubrics": []models.Rubric{{ID: uuid.New(), Name: "Electronics"}},
		},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d; body: %s", w.Code, w.Body.String())
	}

	body := w.Body.String()
	if !strings.Contains(body, "Invalid product title: too few characters.") {
		t.Error("field error message should be rendered next to its field")
	}
	if !strings.Contains(body, "Please correct the errors below.") {
		t.Error("form error banner should be rendered")
	}
}
