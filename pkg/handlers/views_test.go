package handlers

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// viewsDir is the repository's views directory seen from this package
var viewsDir = filepath.Join("..", "..", "views")

func TestPugViews(t *testing.T) {
	env := newTestEnvWith(t, nil, NewPugRenderer(viewsDir))

	page := func(t *testing.T, path string, status int) string {
		t.Helper()
		rec := env.get(path)
		require.Equal(t, status, rec.Code, rec.Body.String())
		assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
		body := rec.Body.String()
		require.NotEmpty(t, body)
		assert.Contains(t, body, "<html")
		assert.Contains(t, body, "</html>")
		return body
	}

	t.Run("home", func(t *testing.T) {
		body := page(t, "/", http.StatusOK)
		assert.Contains(t, body, "application/ld+json")
		assert.Contains(t, body, "Organization")
		assert.Contains(t, body, "Selected Productions")
		assert.Contains(t, body, `id="frame-5"`)
		assert.Contains(t, body, "<video")
		assert.Contains(t, body, `poster="/productions/3.png"`)
		assert.Contains(t, body, `src="/video/3.mp4"`)
		assert.Contains(t, body, `id="lightbox"`)
		assert.Contains(t, body, "Back to Top")
	})

	t.Run("placeholders are not links", func(t *testing.T) {
		body := page(t, "/category/personal", http.StatusOK)
		assert.Contains(t, body, "COMING SOON")
		assert.Contains(t, body, `href="/category/personal/view/11"`)
		assert.NotContains(t, body, `href="/category/personal/view/10"`)
		assert.NotContains(t, body, `href="/category/personal/view/20"`)
		assert.NotContains(t, body, `src=""`)
	})

	t.Run("lightbox", func(t *testing.T) {
		body := page(t, "/category/editorial/view/5", http.StatusOK)
		assert.Contains(t, body, `href="/category/editorial#frame-5"`)
		assert.Contains(t, body, `href="/category/editorial/view/6"`)
		assert.Contains(t, body, `src="/video/17.mp4"`)
		assert.Contains(t, body, "5 / 20")
		assert.Contains(t, body, "For Motion Lab")
	})

	t.Run("about and contact", func(t *testing.T) {
		for _, path := range []string{"/about", "/contact"} {
			body := page(t, path, http.StatusOK)
			assert.Contains(t, body, `name="message"`)
			assert.Contains(t, body, "mailto:")
			assert.Contains(t, body, `action="/theme"`)
		}
	})

	t.Run("invalid form", func(t *testing.T) {
		rec := env.do(formRequest("/contact", "name=&email=nope&message="))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "field-error")
	})

	t.Run("not found", func(t *testing.T) {
		body := page(t, "/nowhere", http.StatusNotFound)
		assert.Contains(t, body, "404")
	})

	t.Run("admin", func(t *testing.T) {
		body := page(t, "/k3y/admin", http.StatusOK)
		assert.Contains(t, body, "No inquiries yet.")
	})
}

func formRequest(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

type failingRenderer struct{}

func (failingRenderer) Render(w io.Writer, _ string, _ any) error {
	_, _ = io.WriteString(w, "<partial")
	return errors.New("template broke")
}

func TestRenderFailure(t *testing.T) {
	env := newTestEnvWith(t, nil, failingRenderer{})

	rec := env.get("/about")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "<partial")
}
