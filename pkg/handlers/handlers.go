package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/eknkc/pug"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"signal-portfolio/pkg/config"
	"signal-portfolio/pkg/layout"
	"signal-portfolio/pkg/logging"
	"signal-portfolio/pkg/metrics"
	"signal-portfolio/pkg/models"
	"signal-portfolio/pkg/seo"
	"signal-portfolio/pkg/services"
)

// Catalog is the read side of the media catalog used by the pages and API
type Catalog interface {
	GetCategoriesInternal() []models.Category
	GetCategoryInternal(name string) (models.Category, error)
	GetCatalogInternal(ctx context.Context, name string) (models.Catalog, error)
	GetCatalogViewInternal(ctx context.Context, name string) (models.CatalogView, error)
	GetPortraitInternal(ctx context.Context) (*models.MediaItem, error)
	Resolver() *layout.Resolver
}

// Contact accepts contact form submissions
type Contact interface {
	Submit(ctx context.Context, form models.InquiryForm) (*models.Inquiry, error)
	Recent(ctx context.Context, limit int) ([]*models.Inquiry, error)
}

// Posters manages the poster images of bucket videos
type Posters interface {
	GeneratePoster(ctx context.Context, videoPath string, timeMs int, progressCb services.ProgressCallback) error
	GeneratePosters(ctx context.Context, timeMs int, force bool) (services.PosterReport, error)
	ClearPoster(ctx context.Context, posterPath string) error
	FlushCacheInternal()
}

// Renderer writes a named view
type Renderer interface {
	Render(w io.Writer, view string, data any) error
}

// PugRenderer compiles views/<name>.pug on every render
type PugRenderer struct {
	dir string
}

// NewPugRenderer renders the templates found in dir
func NewPugRenderer(dir string) *PugRenderer {
	return &PugRenderer{dir: dir}
}

// Render compiles and executes a view
func (r *PugRenderer) Render(w io.Writer, view string, data any) error {
	template, err := pug.CompileFile(filepath.Join(r.dir, view+".pug"), pug.Options{})
	if err != nil {
		return err
	}
	return template.Execute(w, data)
}

// Deps is everything the router needs
type Deps struct {
	Config   *config.Config
	Catalog  Catalog
	Contact  Contact
	Posters  Posters
	Renderer Renderer
}

type server struct {
	cfg      *config.Config
	catalog  Catalog
	contact  Contact
	posters  Posters
	renderer Renderer
	site     *seo.Site
	public   http.FileSystem
}

// NewRouter builds the HTTP handler of the site
func NewRouter(d Deps) http.Handler {
	s := &server{
		cfg:      d.Config,
		catalog:  d.Catalog,
		contact:  d.Contact,
		posters:  d.Posters,
		renderer: d.Renderer,
		site:     seo.NewSite(d.Config.SiteURL),
		public:   http.Dir(d.Config.PublicDir),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.Middleware)
	r.Use(middleware.Recoverer)

	r.Get("/", s.HomeHandler)
	r.Get("/category/{name}", s.CategoryHandler)
	r.Get("/category/{name}/view/{position}", s.FrameHandler)
	r.Get("/about", s.AboutHandler)
	r.Post("/about", s.AboutHandler)
	r.Get("/contact", s.ContactHandler)
	r.Post("/contact", s.ContactHandler)
	r.Post("/theme", s.ThemeHandler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/categories", s.CategoriesAPIHandler)
		r.Get("/catalog/{category}", s.CatalogAPIHandler)
		r.Get("/frame/{category}/{position}", s.FrameAPIHandler)
		r.Post("/contact", s.ContactAPIHandler)
	})

	r.Get("/sitemap.xml", s.SitemapHandler)
	r.Get("/robots.txt", s.RobotsHandler)
	r.Get("/healthz", HealthHandler)
	r.Handle("/metrics", metrics.Handler())

	if d.Config.AdminEnabled() {
		r.Route("/"+d.Config.AdminKey+"/admin", s.adminRoutes)
	}

	r.NotFound(s.StaticHandler)
	return r
}

// Page is the data every view receives
type Page struct {
	Meta       seo.Meta
	Theme      string
	Categories []models.Category
	Menu       []MenuLink
	Active     string
	Studio     StudioInfo
	// Path is where the theme toggle sends the visitor back to
	Path string
}

// MenuLink is one entry of the header navigation
type MenuLink struct {
	Title  string
	Href   string
	Active bool
}

// StudioInfo is the contact block printed in the footer and about page
type StudioInfo struct {
	Name     string
	Tagline  string
	Founder  string
	Email    string
	MailURI  string
	Phone    string
	PhoneURI string
}

// Studio is the contact block of the site
var Studio = StudioInfo{
	Name:     "SIGNAL",
	Tagline:  "AI PRODUCT PHOTOGRAPHY & CREATIVE STUDIO",
	Founder:  "FOUNDER & CREATIVE DIRECTOR: GOWTHAAMAN D",
	Email:    "gowthaamankrishna1998@gmail.com",
	MailURI:  "mailto:gowthaamankrishna1998@gmail.com",
	Phone:    "+91 8903162114",
	PhoneURI: "tel:+918903162114",
}

const (
	themeCookie = "theme"
	themeLight  = "light"
	themeDark   = "dark"
)

func themeOf(r *http.Request) string {
	if c, err := r.Cookie(themeCookie); err == nil && c.Value == themeDark {
		return themeDark
	}
	return themeLight
}

// menuCategories are the categories linked from the header
func (s *server) menuCategories() []models.Category {
	var menu []models.Category
	for _, c := range s.catalog.GetCategoriesInternal() {
		if c.Name != "all" {
			menu = append(menu, c)
		}
	}
	return menu
}

func (s *server) page(r *http.Request, meta seo.Meta, active string) Page {
	categories := s.menuCategories()
	menu := make([]MenuLink, 0, len(categories)+2)
	for _, c := range categories {
		menu = append(menu, MenuLink{Title: c.Title, Href: c.Stub, Active: c.Name == active})
	}
	menu = append(menu,
		MenuLink{Title: "ABOUT", Href: "/about", Active: active == "about"},
		MenuLink{Title: "CONTACT", Href: "/contact", Active: active == "contact"},
	)

	return Page{
		Meta:       meta,
		Theme:      themeOf(r),
		Categories: categories,
		Menu:       menu,
		Active:     active,
		Studio:     Studio,
		Path:       r.URL.RequestURI(),
	}
}

// render executes a view into a buffer. A template failure answers 500.
func (s *server) render(w http.ResponseWriter, status int, view string, data any) {
	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, view, data); err != nil {
		logging.L().Error("template error", zap.String("view", view), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.L().Warn("failed to write response", zap.Error(err))
	}
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// StaticHandler serves files from the public directory and renders the
// 404 page for everything else
func (s *server) StaticHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		name := path.Clean("/" + r.URL.Path)
		if f, err := s.public.Open(name); err == nil {
			info, statErr := f.Stat()
			f.Close()
			if statErr == nil && !info.IsDir() {
				http.FileServer(s.public).ServeHTTP(w, r)
				return
			}
		} else if !os.IsNotExist(err) {
			logging.L().Debug("static lookup failed", zap.String("path", name), zap.Error(err))
		}
	}

	s.NotFoundHandler(w, r)
}

// NotFoundHandler renders the 404 page
func (s *server) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	metrics.RecordPageView("not_found")
	s.render(w, http.StatusNotFound, "404", s.page(r, s.site.NotFound(), ""))
}

// HealthHandler reports that the process is serving
func HealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok\n")
}
