package handlers

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"signal-portfolio/pkg/gallery"
	"signal-portfolio/pkg/layout"
	"signal-portfolio/pkg/lightbox"
	"signal-portfolio/pkg/logging"
	"signal-portfolio/pkg/metrics"
	"signal-portfolio/pkg/models"
)

const (
	homeCategory = "selected"

	msgLoadFailed = "Failed to load images. Please try again later."
	msgEmpty      = "No images found in this category."

	// desktopViewport sizes server-rendered frames before the browser takes over
	desktopViewport = 1280
)

// FrameView is one gallery slot as rendered by the gallery view
type FrameView struct {
	gallery.Frame
	Anchor string
	Href   string
	Width  int
	Aspect string
	Style  template.CSS
}

// GalleryPage is the data of the home and category pages
type GalleryPage struct {
	Page
	Category  models.Category
	Frames    []FrameView
	RowHeight int
	Error     string
	Notice    string
	ShowBio   bool
}

// LightboxPage is the data of a single item page
type LightboxPage struct {
	Page
	Category    models.Category
	Position    int
	Total       int
	Media       lightbox.MediaView
	Label       string
	Attribution []string
	Placeholder bool
	PrevURL     string
	NextURL     string
	CloseURL    string
}

// FormState is the contact form as shown back to the visitor
type FormState struct {
	Values models.InquiryForm
	Errors map[string]string
	Sent   bool
	Failed bool
}

// InfoPage is the data of the about and contact pages
type InfoPage struct {
	Page
	Portrait *models.MediaItem
	Form     FormState
}

// HomeHandler renders the SELECTED gallery with the studio bio
func (s *server) HomeHandler(w http.ResponseWriter, r *http.Request) {
	s.renderGallery(w, r, homeCategory)
}

// CategoryHandler renders a category gallery. SELECTED and unknown names
// redirect to the home page.
func (s *server) CategoryHandler(w http.ResponseWriter, r *http.Request) {
	name := strings.ToLower(chi.URLParam(r, "name"))
	if name == homeCategory {
		http.Redirect(w, r, "/", http.StatusMovedPermanently)
		return
	}
	if _, err := s.catalog.GetCategoryInternal(name); err != nil {
		logging.L().Debug("unknown category", zap.String("name", name))
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	s.renderGallery(w, r, name)
}

func (s *server) renderGallery(w http.ResponseWriter, r *http.Request, name string) {
	category, err := s.catalog.GetCategoryInternal(name)
	if err != nil {
		s.NotFoundHandler(w, r)
		return
	}
	metrics.RecordPageView(category.Name)

	data := GalleryPage{
		Page:      s.page(r, s.site.Category(category), category.Name),
		Category:  category,
		RowHeight: layout.RowHeight(desktopViewport),
		ShowBio:   category.Name == homeCategory,
	}

	status := http.StatusOK
	items, err := s.catalog.GetCatalogInternal(r.Context(), category.Name)
	if err != nil {
		logging.L().Error("failed to load catalog", zap.String("category", category.Name), zap.Error(err))
		data.Error = msgLoadFailed
		status = http.StatusServiceUnavailable
		items = nil
	}
	data.Frames = s.frameViews(category, items, data.RowHeight)
	if err == nil && len(items) == 0 {
		data.Notice = msgEmpty
	}

	s.render(w, status, "gallery", data)
}

func (s *server) frameViews(category models.Category, items models.Catalog, rowHeight int) []FrameView {
	p := gallery.New(items, gallery.Options{
		Category:          category.Name,
		Resolver:          s.catalog.Resolver(),
		AllowPlaceholders: s.cfg.AllowPlaceholders,
	})
	defer p.Close()

	frames := p.Frames()
	views := make([]FrameView, len(frames))
	for i, f := range frames {
		v := FrameView{
			Frame:  f,
			Anchor: fmt.Sprintf("frame-%d", f.Position),
			Href:   framePath(category, f.Position),
			Width:  int(layout.FrameWidth(f.Dimensions, rowHeight)),
			Aspect: fmt.Sprintf("%d / %d", f.Dimensions.Width, f.Dimensions.Height),
		}
		v.Style = template.CSS(fmt.Sprintf("width: %dpx; height: %dpx; aspect-ratio: %s", v.Width, rowHeight, v.Aspect))
		views[i] = v
	}
	return views
}

func framePath(c models.Category, position int) string {
	return fmt.Sprintf("/category/%s/view/%d", c.Name, position)
}

// FrameHandler renders the lightbox for one item without any script
func (s *server) FrameHandler(w http.ResponseWriter, r *http.Request) {
	category, err := s.catalog.GetCategoryInternal(chi.URLParam(r, "name"))
	if err != nil {
		s.NotFoundHandler(w, r)
		return
	}
	position, err := strconv.Atoi(chi.URLParam(r, "position"))
	if err != nil {
		s.NotFoundHandler(w, r)
		return
	}

	items, err := s.catalog.GetCatalogInternal(r.Context(), category.Name)
	if err != nil {
		logging.L().Error("failed to load catalog", zap.String("category", category.Name), zap.Error(err))
		http.Redirect(w, r, category.Stub, http.StatusFound)
		return
	}
	if position < 1 || position > len(items) || !s.opens(items[position-1]) {
		s.NotFoundHandler(w, r)
		return
	}
	metrics.RecordPageView("frame")

	v := lightbox.Open(items, position-1, lightbox.Options{})
	defer v.Close()

	item := v.Current()
	data := LightboxPage{
		Page:        s.page(r, s.site.Frame(category, position, item), category.Name),
		Category:    category,
		Position:    position,
		Total:       v.Len(),
		Media:       v.Media(),
		Label:       v.PageLabel(),
		Attribution: v.AttributionLines(),
		Placeholder: !item.ForceVisible,
		CloseURL:    fmt.Sprintf("%s#frame-%d", category.Stub, position),
	}
	if prev, ok := s.neighbour(items, position-1, -1); ok {
		data.PrevURL = framePath(category, prev+1)
	}
	if next, ok := s.neighbour(items, position-1, 1); ok {
		data.NextURL = framePath(category, next+1)
	}

	s.render(w, http.StatusOK, "lightbox", data)
}

// opens reports whether a slot may be shown in the lightbox
func (s *server) opens(item models.MediaItem) bool {
	return item.ForceVisible || s.cfg.AllowPlaceholders
}

// neighbour finds the nearest slot from index in direction step that may be
// shown in the lightbox
func (s *server) neighbour(items models.Catalog, index, step int) (int, bool) {
	for i := index + step; i >= 0 && i < len(items); i += step {
		if s.opens(items[i]) {
			return i, true
		}
	}
	return 0, false
}

// AboutHandler renders the about page and accepts its inquiry form
func (s *server) AboutHandler(w http.ResponseWriter, r *http.Request) {
	form, status, done := s.handleForm(w, r)
	if done {
		return
	}
	metrics.RecordPageView("about")

	portrait, err := s.catalog.GetPortraitInternal(r.Context())
	if err != nil {
		logging.L().Warn("failed to load portrait", zap.Error(err))
		portrait = nil
	}

	s.render(w, status, "about", InfoPage{
		Page:     s.page(r, s.site.About(), "about"),
		Portrait: portrait,
		Form:     form,
	})
}

// ContactHandler renders the contact page and accepts its form
func (s *server) ContactHandler(w http.ResponseWriter, r *http.Request) {
	form, status, done := s.handleForm(w, r)
	if done {
		return
	}
	metrics.RecordPageView("contact")

	s.render(w, status, "contact", InfoPage{
		Page: s.page(r, s.site.Contact(), "contact"),
		Form: form,
	})
}

// handleForm processes a posted inquiry. A successful post redirects back
// to the page and reports done.
func (s *server) handleForm(w http.ResponseWriter, r *http.Request) (FormState, int, bool) {
	var state FormState
	if r.Method != http.MethodPost {
		state.Sent = r.URL.Query().Get("sent") == "1"
		return state, http.StatusOK, false
	}

	if err := r.ParseForm(); err != nil {
		state.Failed = true
		return state, http.StatusBadRequest, false
	}
	state.Values = models.InquiryForm{
		Name:    r.PostFormValue("name"),
		Email:   r.PostFormValue("email"),
		Message: r.PostFormValue("message"),
	}

	_, err := s.contact.Submit(r.Context(), state.Values)
	var verr *models.ValidationError
	switch {
	case err == nil:
		http.Redirect(w, r, r.URL.Path+"?sent=1", http.StatusSeeOther)
		return state, http.StatusSeeOther, true
	case errors.As(err, &verr):
		state.Errors = verr.Fields
		return state, http.StatusUnprocessableEntity, false
	default:
		logging.L().Error("failed to submit inquiry", zap.Error(err))
		state.Failed = true
		return state, http.StatusInternalServerError, false
	}
}

// ThemeHandler flips the theme cookie and sends the visitor back
func (s *server) ThemeHandler(w http.ResponseWriter, r *http.Request) {
	next := themeDark
	if themeOf(r) == themeDark {
		next = themeLight
	}
	http.SetCookie(w, &http.Cookie{
		Name:     themeCookie,
		Value:    next,
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	back := r.FormValue("return")
	if !localPath(back) {
		back = "/"
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// localPath reports whether p is a path on this site. Browsers read "//host"
// and "/\host" as protocol-relative URLs.
func localPath(p string) bool {
	if !strings.HasPrefix(p, "/") {
		return false
	}
	return len(p) == 1 || (p[1] != '/' && p[1] != '\\')
}

// SitemapHandler serves sitemap.xml
func (s *server) SitemapHandler(w http.ResponseWriter, _ *http.Request) {
	data, err := s.site.Sitemap(s.catalog.GetCategoriesInternal())
	if err != nil {
		logging.L().Error("failed to render sitemap", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(data)
}

// RobotsHandler serves robots.txt
func (s *server) RobotsHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(s.site.RobotsTxt()))
}
