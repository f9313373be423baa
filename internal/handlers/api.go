// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"bboard/internal/models"
	"bboard/internal/store"
	"bboard/internal/token"
	"bboard/internal/validate"
)

// API groups the JSON endpoints. Reads are open; writes go through the
// API auth middleware (session cookie or bearer token).
type API struct {
	rubricStore *store.RubricStore
	bbStore     *store.BbStore
	userStore   *store.UserStore
	tokens      *token.Manager
}

// NewAPI creates a new API handler group.
func NewAPI(rubricStore *store.RubricStore, bbStore *store.BbStore, userStore *store.UserStore, tokens *token.Manager) *API {
	return &API{
		rubricStore: rubricStore,
		bbStore:     bbStore,
		userStore:   userStore,
		tokens:      tokens,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode json response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeValidation(w http.ResponseWriter, errs validate.Errors) {
	writeJSON(w, http.StatusBadRequest, map[string]any{"errors": errs})
}

// parseID reads the id URL parameter as a UUID.
func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not found")
		return uuid.Nil, false
	}
	return id, true
}

// ---------- tokens ----------

// tokenRequest is the credentials payload for POST /api/token.
type tokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// IssueToken exchanges credentials for a signed API token.
func (a *API) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := a.userStore.FindByEmail(req.Email)
	if err != nil {
		slog.Error("token lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user == nil || !a.userStore.CheckPassword(user, req.Password) {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	signed, err := a.tokens.Issue(user.ID, user.Email)
	if err != nil {
		slog.Error("token issue failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": signed})
}

// ---------- rubrics ----------

// rubricRequest is the write payload for rubric endpoints.
type rubricRequest struct {
	Name  string `json:"name"`
	Order int    `json:"order"`
}

// ListRubrics returns every rubric with its listing count.
func (a *API) ListRubrics(w http.ResponseWriter, r *http.Request) {
	rubrics, err := a.rubricStore.ListByPopularity()
	if err != nil {
		slog.Error("list rubrics failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, rubrics)
}

// GetRubric returns one rubric by ID.
func (a *API) GetRubric(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	rubric, err := a.rubricStore.FindByID(id)
	if err != nil {
		slog.Error("find rubric failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if rubric == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, rubric)
}

// CreateRubric creates a rubric from a JSON payload.
func (a *API) CreateRubric(w http.ResponseWriter, r *http.Request) {
	var req rubricRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if errs := validate.CheckRubric(req.Name); errs != nil {
		writeValidation(w, errs)
		return
	}

	rubric, err := a.rubricStore.Create(req.Name, req.Order)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateName) {
			writeError(w, http.StatusConflict, "a rubric with that name already exists")
			return
		}
		slog.Error("create rubric failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, rubric)
}

// UpdateRubric renames or repositions a rubric.
func (a *API) UpdateRubric(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req rubricRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if errs := validate.CheckRubric(req.Name); errs != nil {
		writeValidation(w, errs)
		return
	}

	existing, err := a.rubricStore.FindByID(id)
	if err != nil {
		slog.Error("find rubric failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	existing.Name = req.Name
	existing.SortOrder = req.Order
	if err := a.rubricStore.Update(existing); err != nil {
		if errors.Is(err, store.ErrDuplicateName) {
			writeError(w, http.StatusConflict, "a rubric with that name already exists")
			return
		}
		slog.Error("update rubric failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	updated, err := a.rubricStore.FindByID(id)
	if err != nil || updated == nil {
		slog.Error("reload rubric failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteRubric removes a rubric. A rubric with listings is protected
// and answers 409.
func (a *API) DeleteRubric(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	existing, err := a.rubricStore.FindByID(id)
	if err != nil {
		slog.Error("find rubric failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	if err := a.rubricStore.Delete(id); err != nil {
		if errors.Is(err, store.ErrRubricInUse) {
			writeError(w, http.StatusConflict, "rubric still has listings")
			return
		}
		slog.Error("delete rubric failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------- listings ----------

// bbRequest is the write payload for listing endpoints.
type bbRequest struct {
	Kind        string     `json:"kind"`
	RubricID    *uuid.UUID `json:"rubric_id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Price       *float64   `json:"price"`
	Description string     `json:"description"`
	IsHidden    bool       `json:"is_hidden"`
}

func (req *bbRequest) toModel() *models.Bb {
	kind := models.Kind(req.Kind)
	if req.Kind == "" {
		kind = models.KindSell
	}
	return &models.Bb{
		Kind:        kind,
		RubricID:    req.RubricID,
		Title:       req.Title,
		Content:     req.Content,
		Price:       req.Price,
		Description: req.Description,
		IsHidden:    req.IsHidden,
	}
}

func (req *bbRequest) validate() validate.Errors {
	bb := req.toModel()
	return validate.CheckListing(validate.ListingInput{
		Kind:        bb.Kind,
		Title:       bb.Title,
		Content:     bb.Content,
		Price:       bb.Price,
		Description: bb.Description,
		HasRubric:   bb.RubricID != nil,
	})
}

// listingsResponse pages the listing collection.
type listingsResponse struct {
	Items []models.Bb `json:"items"`
	Total int         `json:"total"`
	Page  int         `json:"page"`
	Pages int         `json:"pages"`
}

// ListBbs returns one page of listings, newest first.
func (a *API) ListBbs(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r)

	items, total, err := a.bbStore.List(page, PerPage)
	if err != nil {
		slog.Error("list listings failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, listingsResponse{
		Items: items,
		Total: total,
		Page:  page,
		Pages: pageCount(total),
	})
}

// GetBb returns one listing by ID.
func (a *API) GetBb(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	bb, err := a.bbStore.FindByID(id)
	if err != nil {
		slog.Error("find listing failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if bb == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, bb)
}

// CreateBb creates a listing from a JSON payload.
func (a *API) CreateBb(w http.ResponseWriter, r *http.Request) {
	var req bbRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if errs := req.validate(); errs != nil {
		writeValidation(w, errs)
		return
	}

	created, err := a.bbStore.Create(req.toModel())
	if err != nil {
		slog.Error("create listing failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateBb replaces the user-editable fields of a listing. The publish
// timestamp never changes on update.
func (a *API) UpdateBb(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req bbRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if errs := req.validate(); errs != nil {
		writeValidation(w, errs)
		return
	}

	existing, err := a.bbStore.FindByID(id)
	if err != nil {
		slog.Error("find listing failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	updated := req.toModel()
	updated.ID = id
	updated.ImagePath = existing.ImagePath

	if err := a.bbStore.Update(updated); err != nil {
		slog.Error("update listing failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	reloaded, err := a.bbStore.FindByID(id)
	if err != nil || reloaded == nil {
		slog.Error("reload listing failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, reloaded)
}

// DeleteBb removes a listing.
func (a *API) DeleteBb(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	existing, err := a.bbStore.FindByID(id)
	if err != nil {
		slog.Error("find listing failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	if err := a.bbStore.Delete(id); err != nil {
		slog.Error("delete listing failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
