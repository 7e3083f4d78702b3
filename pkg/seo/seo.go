package seo

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html/template"
	"strings"

	"signal-portfolio/pkg/models"
)

const (
	SiteName    = "SIGNAL Photography"
	Brand       = "SIGNAL"
	TwitterSite = "@signal.photo"
	Instagram   = "https://instagram.com/signal.photo"
	DefaultOG   = "/og-image.jpg"
	Robots      = "index, follow"
	Locale      = "en_US"

	HomeTitle       = "SIGNAL - AI Product Photography & Creative Studio"
	HomeDescription = "AI product photography and creative studio specializing in synthetic product imagery and visual production for modern brands."
)

var knowsAbout = []string{
	"AI Product Photography",
	"Synthetic Product Imagery",
	"Creative AI Studio",
	"Visual Production",
	"Commercial Imagery",
}

// Meta is everything a page puts in its <head>
type Meta struct {
	Title       string
	Description string
	Canonical   string
	OGType      string
	Image       string
	TwitterCard string
	SiteName    string
	TwitterSite string
	Author      string
	Robots      string
	Locale      string
	JSONLD      template.JS
}

// Site builds page metadata for one public base URL
type Site struct {
	baseURL string
}

// NewSite creates a builder for the site at baseURL
func NewSite(baseURL string) *Site {
	return &Site{baseURL: strings.TrimRight(baseURL, "/")}
}

// URL returns the absolute URL of a site path
func (s *Site) URL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return s.baseURL + path
}

func (s *Site) meta(title, description, path, ogType string, jsonLD any) Meta {
	m := Meta{
		Title:       title,
		Description: description,
		Canonical:   s.URL(path),
		OGType:      ogType,
		Image:       s.URL(DefaultOG),
		TwitterCard: "summary_large_image",
		SiteName:    SiteName,
		TwitterSite: TwitterSite,
		Author:      Brand,
		Robots:      Robots,
		Locale:      Locale,
	}
	if jsonLD != nil {
		// json.Marshal escapes <, > and & so the result is safe inside <script>
		data, err := json.Marshal(jsonLD)
		if err == nil {
			m.JSONLD = template.JS(data)
		}
	}
	return m
}

// Home is the metadata of the landing page
func (s *Site) Home() Meta {
	return s.meta(HomeTitle, HomeDescription, "/", "website", s.Organization())
}

// Category is the metadata of a category gallery
func (s *Site) Category(c models.Category) Meta {
	if c.Stub == "/" {
		return s.Home()
	}
	path := "/category/" + c.Name
	return s.meta(c.Title+" - "+Brand, c.Description, path, "website", CollectionPage{
		Context:     schemaContext,
		Type:        "CollectionPage",
		Name:        c.Title + " - " + Brand,
		Description: c.Description,
		URL:         s.URL(path),
		Creator:     Thing{Type: "Organization", Name: Brand},
	})
}

// Frame is the metadata of a single item page
func (s *Site) Frame(c models.Category, position int, item models.MediaItem) Meta {
	title := fmt.Sprintf("%s %d - %s", c.Title, position, Brand)
	m := s.meta(title, item.AltText, fmt.Sprintf("/category/%s/view/%d", c.Name, position), "article", nil)
	if item.PreviewSource != "" {
		m.Image = s.URL(item.PreviewSource)
	}
	return m
}

// About is the metadata of the about page
func (s *Site) About() Meta {
	return s.meta("About - SIGNAL",
		"SIGNAL is an AI product photography and creative studio specializing in synthetic product imagery and visual production for modern brands.",
		"/about", "profile", nil)
}

// Contact is the metadata of the contact page
func (s *Site) Contact() Meta {
	return s.meta("Contact - SIGNAL",
		"Get in touch with SIGNAL for photography inquiries, production services, and collaboration opportunities.",
		"/contact", "website", nil)
}

// NotFound is the metadata of the 404 page
func (s *Site) NotFound() Meta {
	m := s.meta("404 - Page Not Found | SIGNAL",
		"The page you're looking for doesn't exist or has been moved. Return to our homepage to explore fashion photography.",
		"/404", "website", nil)
	m.Robots = "noindex"
	return m
}

const schemaContext = "https://schema.org"

// Thing is a minimal schema.org node
type Thing struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

// PostalAddress is a schema.org PostalAddress
type PostalAddress struct {
	Type     string `json:"@type"`
	Locality string `json:"addressLocality"`
	Country  string `json:"addressCountry"`
}

// Organization is the schema.org description of the studio
type Organization struct {
	Context     string        `json:"@context"`
	Type        string        `json:"@type"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	URL         string        `json:"url"`
	Image       string        `json:"image"`
	SameAs      []string      `json:"sameAs"`
	KnowsAbout  []string      `json:"knowsAbout"`
	Address     PostalAddress `json:"address"`
}

// CollectionPage is the schema.org description of a category gallery
type CollectionPage struct {
	Context     string `json:"@context"`
	Type        string `json:"@type"`
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Creator     Thing  `json:"creator"`
}

// Organization describes the studio
func (s *Site) Organization() Organization {
	return Organization{
		Context:     schemaContext,
		Type:        "Organization",
		Name:        Brand,
		Description: HomeDescription,
		URL:         s.baseURL,
		Image:       s.URL(DefaultOG),
		SameAs:      []string{Instagram},
		KnowsAbout:  knowsAbout,
		Address:     PostalAddress{Type: "PostalAddress", Locality: "London", Country: "UK"},
	}
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// Sitemap renders sitemap.xml for the home page, every category and the
// info pages
func (s *Site) Sitemap(categories []models.Category) ([]byte, error) {
	set := urlSet{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	set.URLs = append(set.URLs, sitemapURL{Loc: s.URL("/"), ChangeFreq: "weekly", Priority: "1.0"})
	for _, c := range categories {
		if c.Stub == "/" {
			continue
		}
		set.URLs = append(set.URLs, sitemapURL{Loc: s.URL(c.Stub), ChangeFreq: "weekly", Priority: "0.8"})
	}
	for _, p := range []string{"/about", "/contact"} {
		set.URLs = append(set.URLs, sitemapURL{Loc: s.URL(p), ChangeFreq: "monthly", Priority: "0.5"})
	}

	data, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to render sitemap: %w", err)
	}
	return append([]byte(xml.Header), data...), nil
}

// RobotsTxt allows every crawler and points at the sitemap
func (s *Site) RobotsTxt() string {
	return fmt.Sprintf("User-agent: *\nAllow: /\nDisallow: /api/\n\nSitemap: %s\n", s.URL("/sitemap.xml"))
}
