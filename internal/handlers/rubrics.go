// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"bboard/internal/render"
	"bboard/internal/store"
	"bboard/internal/validate"
)

// Rubrics groups the rubric management handlers. The management page
// edits every rubric in one submission: renames, position changes,
// deletions and one blank row for a new rubric.
type Rubrics struct {
	renderer    *render.Renderer
	rubricStore *store.RubricStore
}

// NewRubrics creates a new Rubrics handler group.
func NewRubrics(renderer *render.Renderer, rubricStore *store.RubricStore) *Rubrics {
	return &Rubrics{renderer: renderer, rubricStore: rubricStore}
}

// ManagePage renders the rubric management table.
func (h *Rubrics) ManagePage(w http.ResponseWriter, r *http.Request) {
	h.renderManage(w, r, nil)
}

func (h *Rubrics) renderManage(w http.ResponseWriter, r *http.Request, errs validate.Errors) {
	rubrics, err := h.rubricStore.ListManaged()
	if err != nil {
		slog.Error("list rubrics failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	nextOrder := 0
	for _, rubric := range rubrics {
		if rubric.SortOrder >= nextOrder {
			nextOrder = rubric.SortOrder + 1
		}
	}

	h.renderer.Page(w, r, "rubrics", &render.PageData{
		Title:   "Manage rubrics",
		Section: "rubrics",
		Errors:  errs,
		Flashes: popFlashes(w, r),
		Data: map[string]any{
			"Rubrics":   rubrics,
			"Count":     len(rubrics),
			"Total":     len(rubrics) + 1,
			"NextOrder": nextOrder,
		},
	})
}

// parseReorderRows reads the formset rows from the submitted form. Every
// kept row must pass rubric validation, including an existing row whose
// name was cleared; only deleted rows and the untouched blank new-row
// skip it. A malformed row ID is a hard error.
func parseReorderRows(r *http.Request, count int) ([]store.ReorderItem, validate.Errors, error) {
	items := make([]store.ReorderItem, 0, count)
	for i := 0; i < count; i++ {
		suffix := "-" + strconv.Itoa(i)

		item := store.ReorderItem{
			Name:   strings.TrimSpace(r.FormValue("name" + suffix)),
			Delete: r.FormValue("delete"+suffix) == "1",
		}

		if rawID := r.FormValue("id" + suffix); rawID != "" {
			id, err := uuid.Parse(rawID)
			if err != nil {
				return nil, nil, fmt.Errorf("row %d: parse id: %w", i+1, err)
			}
			item.ID = id
		}

		if rawOrder := r.FormValue("order" + suffix); rawOrder != "" {
			if pos, err := strconv.Atoi(rawOrder); err == nil {
				item.Position = pos
			}
		}

		if !item.Delete && !(item.ID == uuid.Nil && item.Name == "") {
			if errs := validate.CheckRubric(item.Name); errs != nil {
				return nil, validate.Errors{
					"rubrics": {fmt.Sprintf("Row %d: %s", i+1, errs.Field("name"))},
				}, nil
			}
		}

		items = append(items, item)
	}
	return items, nil, nil
}

// ManageSubmit applies the whole management table in one transaction.
// Row i submits id-i, name-i, order-i and delete-i fields; a row with an
// empty id and a non-empty name creates a new rubric.
func (h *Rubrics) ManageSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	count, err := strconv.Atoi(r.FormValue("count"))
	if err != nil || count < 0 || count > 1000 {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	items, rowErrs, err := parseReorderRows(r, count)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if rowErrs != nil {
		h.renderManage(w, r, rowErrs)
		return
	}

	if err := h.rubricStore.Reorder(items); err != nil {
		switch {
		case errors.Is(err, store.ErrRubricInUse):
			h.renderManage(w, r, validate.Errors{
				"rubrics": {"A rubric with listings cannot be deleted."},
			})
		case errors.Is(err, store.ErrDuplicateName):
			h.renderManage(w, r, validate.Errors{
				"rubrics": {"Rubric names must be unique."},
			})
		default:
			slog.Error("reorder rubrics failed", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}

	setFlash(w, "success", "Rubrics saved.")
	http.Redirect(w, r, "/rubrics", http.StatusSeeOther)
}
