// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"bboard/internal/mailer"
	"bboard/internal/models"
	"bboard/internal/render"
	"bboard/internal/storage"
	"bboard/internal/store"
	"bboard/internal/validate"
)

// MaxUploadBytes caps a request carrying a listing or gallery image at
// 10 MiB. The router enforces it ahead of the middleware chain so the
// body of an oversized upload is never parsed.
const MaxUploadBytes = 10 << 20

// Board groups the handlers that create, edit and delete listings.
type Board struct {
	renderer    *render.Renderer
	bbStore     *store.BbStore
	rubricStore *store.RubricStore
	media       storage.Backend
	mail        *mailer.Mailer
	notifyAddr  string
}

// NewBoard creates a new Board handler group. notifyAddr receives an
// email for every published listing; empty disables notifications.
func NewBoard(renderer *render.Renderer, bbStore *store.BbStore, rubricStore *store.RubricStore, media storage.Backend, mail *mailer.Mailer, notifyAddr string) *Board {
	return &Board{
		renderer:    renderer,
		bbStore:     bbStore,
		rubricStore: rubricStore,
		media:       media,
		mail:        mail,
		notifyAddr:  notifyAddr,
	}
}

// formListing reads the submitted form into a listing. The returned
// input mirrors the raw submission for validation.
func (b *Board) formListing(r *http.Request) (*models.Bb, validate.ListingInput) {
	bb := &models.Bb{
		Kind:        models.Kind(r.FormValue("kind")),
		Title:       r.FormValue("title"),
		Content:     r.FormValue("content"),
		Description: r.FormValue("description"),
		IsHidden:    r.FormValue("is_hidden") == "1",
	}

	if rubricRaw := r.FormValue("rubric"); rubricRaw != "" {
		if id, err := uuid.Parse(rubricRaw); err == nil {
			bb.RubricID = &id
		}
	}

	if priceRaw := r.FormValue("price"); priceRaw != "" {
		if price, err := strconv.ParseFloat(priceRaw, 64); err == nil {
			bb.Price = &price
		}
	}

	in := validate.ListingInput{
		Kind:        bb.Kind,
		Title:       bb.Title,
		Content:     bb.Content,
		Price:       bb.Price,
		Description: bb.Description,
		HasRubric:   bb.RubricID != nil,
	}
	return bb, in
}

// saveUpload stores an uploaded image, if any, and returns its path.
// A missing file field is not an error.
func (b *Board) saveUpload(r *http.Request) (*string, error) {
	file, header, err := r.FormFile("image")
	if err == http.ErrMissingFile {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	path, err := b.media.Save(r.Context(), header.Filename, file, header.Size)
	if err != nil {
		return nil, err
	}
	return &path, nil
}

// renderForm shows the listing form with the current values and errors.
func (b *Board) renderForm(w http.ResponseWriter, r *http.Request, bb *models.Bb, errs validate.Errors, heading, action string) {
	rubrics, err := b.rubricStore.ListManaged()
	if err != nil {
		slog.Error("list rubrics failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	b.renderer.Page(w, r, "bb_form", &render.PageData{
		Title:   heading,
		Section: "add",
		Errors:  errs,
		Flashes: popFlashes(w, r),
		Data: map[string]any{
			"Heading": heading,
			"Action":  action,
			"Listing": bb,
			"Kinds":   models.Kinds,
			"Rubrics": rubrics,
		},
	})
}

// AddForm renders the empty listing form. The kind defaults to selling.
func (b *Board) AddForm(w http.ResponseWriter, r *http.Request) {
	b.renderForm(w, r, &models.Bb{Kind: models.KindSell}, nil, "Add listing", "/add")
}

// AddSubmit validates and stores a new listing, then redirects to the
// listing's rubric page.
func (b *Board) AddSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		http.Error(w, "upload too large", http.StatusRequestEntityTooLarge)
		return
	}

	bb, in := b.formListing(r)
	if errs := validate.CheckListing(in); errs != nil {
		b.renderForm(w, r, bb, errs, "Add listing", "/add")
		return
	}

	imagePath, err := b.saveUpload(r)
	if err != nil {
		slog.Error("save upload failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	bb.ImagePath = imagePath

	created, err := b.bbStore.Create(bb)
	if err != nil {
		slog.Error("create listing failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	// Notify out of band so a slow SMTP relay never delays the response.
	if b.mail.Enabled() && b.notifyAddr != "" {
		title := created.Title
		go func() {
			if err := b.mail.SendListingCreated(b.notifyAddr, title); err != nil {
				slog.Error("listing notification failed", "error", err)
			}
		}()
	}

	setFlash(w, "success", `Listing "`+created.Title+`" created.`)
	http.Redirect(w, r, "/"+created.RubricID.String(), http.StatusSeeOther)
}

// EditForm renders the form pre-filled with an existing listing.
func (b *Board) EditForm(w http.ResponseWriter, r *http.Request) {
	bb, ok := b.findListing(w, r)
	if !ok {
		return
	}
	b.renderForm(w, r, bb, nil, "Edit listing", "/update/"+bb.ID.String())
}

// EditSubmit validates and applies an edit. A submission that changes
// nothing skips the write and reports that no changes were made.
func (b *Board) EditSubmit(w http.ResponseWriter, r *http.Request) {
	current, ok := b.findListing(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		http.Error(w, "upload too large", http.StatusRequestEntityTooLarge)
		return
	}

	updated, in := b.formListing(r)
	updated.ID = current.ID
	updated.Published = current.Published
	updated.ImagePath = current.ImagePath

	if errs := validate.CheckListing(in); errs != nil {
		b.renderForm(w, r, updated, errs, "Edit listing", "/update/"+current.ID.String())
		return
	}

	imagePath, err := b.saveUpload(r)
	if err != nil {
		slog.Error("save upload failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if imagePath != nil {
		updated.ImagePath = imagePath
	}

	// An unchanged submission is acknowledged without touching the row.
	// It still lands on the rubric page, same as a real edit.
	if updated.Same(current) {
		setFlash(w, "info", "No changes were made.")
		http.Redirect(w, r, "/"+updated.RubricID.String(), http.StatusSeeOther)
		return
	}

	if err := b.bbStore.Update(updated); err != nil {
		slog.Error("update listing failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	setFlash(w, "success", "Listing updated.")
	http.Redirect(w, r, "/"+updated.RubricID.String(), http.StatusSeeOther)
}

// Delete removes a listing and its stored image, then returns to the
// front page.
func (b *Board) Delete(w http.ResponseWriter, r *http.Request) {
	bb, ok := b.findListing(w, r)
	if !ok {
		return
	}

	if err := b.bbStore.Delete(bb.ID); err != nil {
		slog.Error("delete listing failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if bb.ImagePath != nil {
		if err := b.media.Delete(r.Context(), *bb.ImagePath); err != nil {
			slog.Warn("delete listing image failed", "error", err)
		}
	}

	setFlash(w, "success", "Listing deleted.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// findListing resolves the id URL parameter to a listing, writing a 404
// or 500 and returning false when it cannot.
func (b *Board) findListing(w http.ResponseWriter, r *http.Request) (*models.Bb, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return nil, false
	}

	bb, err := b.bbStore.FindByID(id)
	if err != nil {
		slog.Error("find listing failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil, false
	}
	if bb == nil {
		http.NotFound(w, r)
		return nil, false
	}
	return bb, true
}
