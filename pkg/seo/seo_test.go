package seo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signal-portfolio/pkg/models"
)

func TestHome(t *testing.T) {
	s := NewSite("https://signal.com/")
	m := s.Home()

	assert.Equal(t, HomeTitle, m.Title)
	assert.Equal(t, "https://signal.com/", m.Canonical)
	assert.Equal(t, "https://signal.com/og-image.jpg", m.Image)
	assert.Equal(t, "summary_large_image", m.TwitterCard)
	assert.Equal(t, "SIGNAL Photography", m.SiteName)
	assert.Equal(t, "index, follow", m.Robots)

	var ld map[string]any
	require.NoError(t, json.Unmarshal([]byte(m.JSONLD), &ld))
	assert.Equal(t, "Organization", ld["@type"])
	assert.Equal(t, "https://signal.com", ld["url"])
	assert.Len(t, ld["knowsAbout"], 5)
	assert.Equal(t, "London", ld["address"].(map[string]any)["addressLocality"])
}

func TestCategory(t *testing.T) {
	s := NewSite("https://signal.com")

	editorial := models.Category{
		Name:        "editorial",
		Stub:        "/category/editorial",
		Title:       "Creative Productions",
		Description: "Creative AI productions",
	}
	m := s.Category(editorial)
	assert.Equal(t, "Creative Productions - SIGNAL", m.Title)
	assert.Equal(t, "https://signal.com/category/editorial", m.Canonical)

	var ld CollectionPage
	require.NoError(t, json.Unmarshal([]byte(m.JSONLD), &ld))
	assert.Equal(t, "CollectionPage", ld.Type)
	assert.Equal(t, "Creative Productions - SIGNAL", ld.Name)
	assert.Equal(t, "SIGNAL", ld.Creator.Name)

	selected := models.Category{Name: "selected", Stub: "/"}
	assert.Equal(t, s.Home(), s.Category(selected))
}

func TestFrame(t *testing.T) {
	s := NewSite("https://signal.com")
	c := models.Category{Name: "personal", Title: "Studio Experiments"}

	m := s.Frame(c, 3, models.MediaItem{AltText: "Shadow Study", PreviewSource: "/productions/55.jpeg"})
	assert.Equal(t, "Studio Experiments 3 - SIGNAL", m.Title)
	assert.Equal(t, "https://signal.com/category/personal/view/3", m.Canonical)
	assert.Equal(t, "https://signal.com/productions/55.jpeg", m.Image)

	remote := s.Frame(c, 1, models.MediaItem{PreviewSource: "https://images.pexels.com/a.jpg"})
	assert.Equal(t, "https://images.pexels.com/a.jpg", remote.Image)
}

func TestInfoPages(t *testing.T) {
	s := NewSite("https://signal.com")
	assert.Equal(t, "About - SIGNAL", s.About().Title)
	assert.Equal(t, "Contact - SIGNAL", s.Contact().Title)
	assert.Equal(t, "404 - Page Not Found | SIGNAL", s.NotFound().Title)
	assert.Equal(t, "noindex", s.NotFound().Robots)
	assert.Empty(t, s.About().JSONLD)
}

func TestSitemap(t *testing.T) {
	s := NewSite("https://signal.com")
	data, err := s.Sitemap([]models.Category{
		{Name: "selected", Stub: "/"},
		{Name: "personal", Stub: "/category/personal"},
	})
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, `<?xml version="1.0" encoding="UTF-8"?>`)
	assert.Contains(t, out, `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	assert.Contains(t, out, "<loc>https://signal.com/</loc>")
	assert.Contains(t, out, "<loc>https://signal.com/category/personal</loc>")
	assert.Contains(t, out, "<loc>https://signal.com/contact</loc>")
	assert.NotContains(t, out, "/category/selected")
}

func TestRobotsTxt(t *testing.T) {
	robots := NewSite("https://signal.com").RobotsTxt()
	assert.Contains(t, robots, "User-agent: *")
	assert.Contains(t, robots, "Sitemap: https://signal.com/sitemap.xml")
}
