// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the bulletin board.
// Handlers are grouped by concern (public, board, rubrics, auth, api)
// and receive their dependencies through the handler struct.
package handlers

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"bboard/internal/bbcode"
	"bboard/internal/models"
	"bboard/internal/render"
	"bboard/internal/storage"
	"bboard/internal/store"
	"bboard/internal/validate"
)

// PerPage is the number of listings shown on one board page.
const PerPage = 6

// maxSearchKeywordLen caps the length of search patterns before they
// reach the database regex engine.
const maxSearchKeywordLen = 100

// Public groups handlers for pages that need no authentication.
type Public struct {
	renderer    *render.Renderer
	bbStore     *store.BbStore
	rubricStore *store.RubricStore
	jokeStore   *store.JokeStore
	imageStore  *store.ImageStore
	media       storage.Backend
}

// NewPublic creates a new Public handler group.
func NewPublic(renderer *render.Renderer, bbStore *store.BbStore, rubricStore *store.RubricStore, jokeStore *store.JokeStore, imageStore *store.ImageStore, media storage.Backend) *Public {
	return &Public{
		renderer:    renderer,
		bbStore:     bbStore,
		rubricStore: rubricStore,
		jokeStore:   jokeStore,
		imageStore:  imageStore,
		media:       media,
	}
}

// sidebarRubrics loads the rubric list shown on every page, ordered by
// listing count.
func (p *Public) sidebarRubrics() []models.Rubric {
	rubrics, err := p.rubricStore.ListByPopularity()
	if err != nil {
		slog.Error("list rubrics failed", "error", err)
		return nil
	}
	return rubrics
}

// parsePage reads the page query parameter. Anything that is not a
// positive integer falls back to the first page; pages past the end are
// clamped to the last page by the caller.
func parsePage(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// pageCount returns the number of pages needed for total items.
func pageCount(total int) int {
	pages := (total + PerPage - 1) / PerPage
	if pages < 1 {
		pages = 1
	}
	return pages
}

// Index renders the board front page with the newest listings.
func (p *Public) Index(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r)

	items, total, err := p.bbStore.List(page, PerPage)
	if err != nil {
		slog.Error("list listings failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	// A page past the end shows the last page instead of a 404.
	pages := pageCount(total)
	if page > pages {
		page = pages
		items, _, err = p.bbStore.List(page, PerPage)
		if err != nil {
			slog.Error("list listings failed", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
	}

	p.renderer.Page(w, r, "index", &render.PageData{
		Title:   "Board",
		Section: "board",
		Rubrics: p.sidebarRubrics(),
		Flashes: popFlashes(w, r),
		Data: map[string]any{
			"Listings": items,
			"Page":     page,
			"Pages":    pages,
			"PrevPage": page - 1,
			"NextPage": page + 1,
		},
	})
}

// ByRubric renders all listings of one rubric. A rubric that does not
// exist, or exists but has no listings, is a 404.
func (p *Public) ByRubric(w http.ResponseWriter, r *http.Request) {
	rubricID, err := uuid.Parse(chi.URLParam(r, "rubricID"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	rubric, err := p.rubricStore.FindByID(rubricID)
	if err != nil {
		slog.Error("find rubric failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if rubric == nil {
		http.NotFound(w, r)
		return
	}

	items, err := p.bbStore.ListByRubric(rubricID)
	if err != nil {
		slog.Error("list by rubric failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if len(items) == 0 {
		http.NotFound(w, r)
		return
	}

	p.renderer.Page(w, r, "by_rubric", &render.PageData{
		Title:   rubric.Name,
		Section: "board",
		Rubrics: p.sidebarRubrics(),
		Flashes: popFlashes(w, r),
		Data: map[string]any{
			"Rubric":   rubric,
			"Listings": items,
		},
	})
}

// Detail renders one listing with its BBCode content converted to HTML.
func (p *Public) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	bb, err := p.bbStore.FindByID(id)
	if err != nil {
		slog.Error("find listing failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if bb == nil {
		http.NotFound(w, r)
		return
	}

	imageURL := ""
	if bb.ImagePath != nil {
		imageURL = p.media.URL(*bb.ImagePath)
	}

	p.renderer.Page(w, r, "detail", &render.PageData{
		Title:   bb.Title,
		Section: "board",
		Rubrics: p.sidebarRubrics(),
		Flashes: popFlashes(w, r),
		Data: map[string]any{
			"Listing":     bb,
			"ContentHTML": template.HTML(bbcode.ToHTML(bb.Content)),
			"ImageURL":    imageURL,
		},
	})
}

// OldDetail permanently redirects the retired date-prefixed detail URL
// to the current one. Old links in the wild keep working.
func (p *Public) OldDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/detail/"+id, http.StatusMovedPermanently)
}

// searchRubrics loads the rubric choices for the search form. Only
// rubrics that actually have listings are searchable.
func (p *Public) searchRubrics() []models.Rubric {
	rubrics, err := p.rubricStore.ListWithListings()
	if err != nil {
		slog.Error("list rubrics failed", "error", err)
		return nil
	}
	return rubrics
}

// SearchPage renders the empty search form.
func (p *Public) SearchPage(w http.ResponseWriter, r *http.Request) {
	selected := uuid.Nil
	if raw := r.URL.Query().Get("rubric"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			selected = id
		}
	}

	p.renderer.Page(w, r, "search", &render.PageData{
		Title:   "Search",
		Section: "search",
		Rubrics: p.sidebarRubrics(),
		Flashes: popFlashes(w, r),
		Data: map[string]any{
			"Keyword":        "",
			"Rubrics":        p.searchRubrics(),
			"SelectedRubric": selected,
			"Searched":       false,
		},
	})
}

// SearchSubmit validates the keyword as a regular expression and runs a
// case-insensitive title search scoped to one rubric.
func (p *Public) SearchSubmit(w http.ResponseWriter, r *http.Request) {
	keyword := r.FormValue("keyword")
	rubricRaw := r.FormValue("rubric")

	errs := validate.Errors{}
	if keyword == "" {
		errs.Add("keyword", "Enter a keyword.")
	} else if len(keyword) > maxSearchKeywordLen {
		errs.Add("keyword", "Keyword is too long.")
	} else if _, err := regexp.Compile(keyword); err != nil {
		errs.Add("keyword", "Keyword is not a valid regular expression.")
	}

	rubricID, err := uuid.Parse(rubricRaw)
	if err != nil {
		errs.Add("rubric", "Choose a rubric.")
	}

	if errs.Has() {
		p.renderer.Page(w, r, "search", &render.PageData{
			Title:   "Search",
			Section: "search",
			Rubrics: p.sidebarRubrics(),
			Errors:  errs,
			Data: map[string]any{
				"Keyword":        keyword,
				"Rubrics":        p.searchRubrics(),
				"SelectedRubric": rubricID,
				"Searched":       false,
			},
		})
		return
	}

	results, err := p.bbStore.SearchTitleRegex(keyword, rubricID)
	if err != nil {
		// Go's regexp accepts some patterns the database engine rejects,
		// so the pre-check alone is not enough.
		if errors.Is(err, store.ErrBadPattern) {
			errs.Add("keyword", "Keyword is not a valid regular expression.")
			p.renderer.Page(w, r, "search", &render.PageData{
				Title:   "Search",
				Section: "search",
				Rubrics: p.sidebarRubrics(),
				Errors:  errs,
				Data: map[string]any{
					"Keyword":        keyword,
					"Rubrics":        p.searchRubrics(),
					"SelectedRubric": rubricID,
					"Searched":       false,
				},
			})
			return
		}
		slog.Error("search failed", "error", err, "keyword", keyword)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.renderer.Page(w, r, "search", &render.PageData{
		Title:   "Search",
		Section: "search",
		Rubrics: p.sidebarRubrics(),
		Data: map[string]any{
			"Keyword":        keyword,
			"Rubrics":        p.searchRubrics(),
			"SelectedRubric": rubricID,
			"Searched":       true,
			"Results":        results,
		},
	})
}

// Jokes renders the joke collection grouped by category.
func (p *Public) Jokes(w http.ResponseWriter, r *http.Request) {
	grouped, err := p.jokeStore.Grouped()
	if err != nil {
		slog.Error("load jokes failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.renderer.Page(w, r, "jokes", &render.PageData{
		Title:   "Jokes",
		Section: "jokes",
		Rubrics: p.sidebarRubrics(),
		Flashes: popFlashes(w, r),
		Data: map[string]any{
			"Grouped":    grouped,
			"Categories": models.JokeCategories,
		},
	})
}

// galleryImage pairs a stored image with its resolved URL.
type galleryImage struct {
	URL         string
	Description string
}

// Images renders the shared image gallery.
func (p *Public) Images(w http.ResponseWriter, r *http.Request) {
	p.renderImages(w, r, nil)
}

func (p *Public) renderImages(w http.ResponseWriter, r *http.Request, errs validate.Errors) {
	images, err := p.imageStore.List()
	if err != nil {
		slog.Error("list images failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gallery := make([]galleryImage, 0, len(images))
	for _, img := range images {
		gallery = append(gallery, galleryImage{
			URL:         p.media.URL(img.Path),
			Description: img.Description,
		})
	}

	p.renderer.Page(w, r, "images", &render.PageData{
		Title:   "Gallery",
		Section: "images",
		Rubrics: p.sidebarRubrics(),
		Errors:  errs,
		Flashes: popFlashes(w, r),
		Data: map[string]any{
			"Images": gallery,
		},
	})
}

// ImagesSubmit stores a new gallery image with an optional description.
func (p *Public) ImagesSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		http.Error(w, "upload too large", http.StatusRequestEntityTooLarge)
		return
	}

	file, header, err := r.FormFile("image")
	if err == http.ErrMissingFile {
		p.renderImages(w, r, validate.Errors{"image": {"Choose an image file."}})
		return
	}
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	defer file.Close()

	path, err := p.media.Save(r.Context(), header.Filename, file, header.Size)
	if err != nil {
		slog.Error("save gallery image failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if _, err := p.imageStore.Create(path, r.FormValue("description")); err != nil {
		slog.Error("create gallery image failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	setFlash(w, "success", "Image uploaded.")
	http.Redirect(w, r, "/images", http.StatusSeeOther)
}
