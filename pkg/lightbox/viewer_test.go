package lightbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signal-portfolio/pkg/gallery"
	"signal-portfolio/pkg/models"
	"signal-portfolio/pkg/scrolllock"
)

func catalogOf(n int) models.Catalog {
	c := make(models.Catalog, n)
	for i := range c {
		c[i] = models.MediaItem{Kind: models.KindImage, PreviewSource: "/p.png", FullSource: "/f.png", ForceVisible: true}
	}
	return c
}

func TestViewer_Bounds(t *testing.T) {
	for _, n := range []int{1, 2, 3, 10} {
		v := Open(catalogOf(n), n-1, Options{})
		assert.False(t, v.Next(), "n=%d", n)
		assert.Equal(t, n-1, v.CurrentIndex())

		v = Open(catalogOf(n), 0, Options{})
		assert.False(t, v.Previous(), "n=%d", n)
		assert.Equal(t, 0, v.CurrentIndex())
	}
}

func TestViewer_OpenClampsIndex(t *testing.T) {
	assert.Equal(t, 0, Open(catalogOf(3), -4, Options{}).CurrentIndex())
	assert.Equal(t, 2, Open(catalogOf(3), 9, Options{}).CurrentIndex())

	empty := Open(nil, 0, Options{})
	assert.False(t, empty.IsOpen())
	assert.Equal(t, ActionNone, empty.HandleKey(KeyArrowRight))
}

func TestViewer_Keyboard(t *testing.T) {
	closed := 0
	v := Open(catalogOf(3), 1, Options{OnClose: func() { closed++ }})

	assert.Equal(t, ActionNext, v.HandleKey(KeyArrowRight))
	assert.Equal(t, 2, v.CurrentIndex())
	assert.Equal(t, ActionNext, v.HandleKey(KeyArrowRight))
	assert.Equal(t, 2, v.CurrentIndex(), "second press is clamped")

	assert.Equal(t, ActionPrevious, v.HandleKey(KeyArrowLeft))
	assert.Equal(t, 1, v.CurrentIndex())

	assert.Equal(t, ActionNone, v.HandleKey("Enter"))

	assert.Equal(t, ActionClose, v.HandleKey(KeyEscape))
	assert.False(t, v.IsOpen())
	assert.Equal(t, 1, closed)

	assert.Equal(t, ActionNone, v.HandleKey(KeyArrowLeft))
	assert.Equal(t, 1, v.CurrentIndex())
}

func TestSwipeAction(t *testing.T) {
	assert.Equal(t, ActionNext, SwipeAction(100, 40))
	assert.Equal(t, ActionNone, SwipeAction(100, 70))
	assert.Equal(t, ActionPrevious, SwipeAction(40, 100))
	assert.Equal(t, ActionNone, SwipeAction(100, 50), "exactly the threshold is not a swipe")
}

func TestViewer_Touch(t *testing.T) {
	t.Run("swipes navigate", func(t *testing.T) {
		v := Open(catalogOf(3), 1, Options{Touch: true})

		v.TouchStart(100)
		assert.Equal(t, ActionNext, v.TouchEnd(40))
		assert.Equal(t, 2, v.CurrentIndex())

		v.TouchStart(100)
		assert.Equal(t, ActionNone, v.TouchEnd(70))
		assert.Equal(t, 2, v.CurrentIndex())

		v.TouchStart(40)
		assert.Equal(t, ActionPrevious, v.TouchEnd(200))
		assert.Equal(t, 1, v.CurrentIndex())
	})

	t.Run("touch end without start is ignored", func(t *testing.T) {
		v := Open(catalogOf(3), 1, Options{Touch: true})

		assert.Equal(t, ActionNone, v.TouchEnd(0))
		v.TouchStart(300)
		v.TouchEnd(100)
		assert.Equal(t, ActionNone, v.TouchEnd(0), "start is consumed by the first end")
	})

	t.Run("clicks and pointer moves are disabled", func(t *testing.T) {
		v := Open(catalogOf(3), 1, Options{Touch: true})
		box := Rect{Left: 200, Right: 600, Top: 100, Bottom: 500}

		assert.Equal(t, ActionNone, v.Click(Point{X: 400, Y: 50}, box))
		assert.True(t, v.IsOpen())
		assert.Equal(t, CursorDefault, v.PointerMove(Point{X: 300, Y: 300}, box))

		_, floating := v.LabelPosition()
		assert.False(t, floating)
		assert.Equal(t, "2 of 3", v.PageLabel())
	})
}

func TestClickAction(t *testing.T) {
	box := Rect{Left: 200, Right: 600, Top: 100, Bottom: 500}

	assert.Equal(t, ActionPrevious, ClickAction(Point{X: 300, Y: 300}, box))
	assert.Equal(t, ActionNext, ClickAction(Point{X: 500, Y: 300}, box))
	assert.Equal(t, ActionNext, ClickAction(Point{X: 400, Y: 300}, box), "the centre line belongs to next")
	assert.Equal(t, ActionClose, ClickAction(Point{X: 400, Y: 50}, box))
	assert.Equal(t, ActionClose, ClickAction(Point{X: 400, Y: 501}, box))
}

func TestViewer_Click(t *testing.T) {
	box := Rect{Left: 200, Right: 600, Top: 100, Bottom: 500}
	v := Open(catalogOf(3), 1, Options{})

	assert.Equal(t, ActionPrevious, v.Click(Point{X: 300, Y: 300}, box))
	assert.Equal(t, 0, v.CurrentIndex())
	assert.Equal(t, ActionNext, v.Click(Point{X: 500, Y: 300}, box))
	assert.Equal(t, 1, v.CurrentIndex())
	assert.Equal(t, ActionClose, v.Click(Point{X: 400, Y: 50}, box))
	assert.False(t, v.IsOpen())
}

func TestViewer_PointerMove(t *testing.T) {
	box := Rect{Left: 200, Right: 600, Top: 100, Bottom: 500}

	first := Open(catalogOf(3), 0, Options{})
	assert.Equal(t, CursorDefault, first.PointerMove(Point{X: 250, Y: 300}, box))
	assert.Equal(t, CursorNext, first.PointerMove(Point{X: 450, Y: 300}, box))

	last := Open(catalogOf(3), 2, Options{})
	assert.Equal(t, CursorPrevious, last.PointerMove(Point{X: 250, Y: 300}, box))
	assert.Equal(t, CursorDefault, last.PointerMove(Point{X: 450, Y: 300}, box))

	pos, cursor := last.Cursor()
	assert.Equal(t, Point{X: 450, Y: 300}, pos)
	assert.Equal(t, CursorDefault, cursor)

	label, floating := last.LabelPosition()
	assert.True(t, floating)
	assert.Equal(t, Point{X: 470, Y: 320}, label)
	assert.Equal(t, "3 / 3", last.PageLabel())
}

func TestViewer_ScrollLock(t *testing.T) {
	var changes []bool
	lock := scrolllock.New(func(locked bool) { changes = append(changes, locked) })

	releaseMenu := lock.Acquire("menu")
	v := Open(catalogOf(2), 0, Options{Lock: lock})
	assert.ElementsMatch(t, []string{"menu", LockOwner}, lock.Holders())

	v.Close()
	v.Close()
	assert.True(t, lock.Locked(), "the menu still holds the lock")

	releaseMenu()
	assert.False(t, lock.Locked())
	assert.Equal(t, []bool{true, false}, changes)
}

func TestAttribution(t *testing.T) {
	t.Run("all lines", func(t *testing.T) {
		lines := Attribution(models.MediaItem{Attribution: &models.Attribution{
			Photographer: "SIGNAL",
			Client:       "FLAVOR HOUSE",
			Location:     "London",
			Details:      "DYNAMIC SNACK MOTION",
		}})
		assert.Equal(t, []string{"SIGNAL", "For FLAVOR HOUSE", "Shot in London. DYNAMIC SNACK MOTION."}, lines)
	})

	t.Run("missing data is omitted", func(t *testing.T) {
		lines := Attribution(models.MediaItem{Attribution: &models.Attribution{
			Photographer: "Jane Doe",
			Details:      "Photo by Jane Doe on Pexels",
		}})
		assert.Equal(t, []string{"Jane Doe"}, lines)
		assert.Nil(t, Attribution(models.MediaItem{}))
	})
}

func TestViewOf(t *testing.T) {
	video := models.MediaItem{Kind: models.KindVideo, PreviewSource: "/p.png", FullSource: "/v.mp4", AltText: "clip"}

	pointer := ViewOf(video, false)
	assert.Equal(t, "/v.mp4", pointer.Src)
	assert.Equal(t, "/p.png", pointer.Poster)
	assert.True(t, pointer.Autoplay && pointer.Muted && pointer.Loop)
	assert.False(t, pointer.Controls)
	assert.True(t, ViewOf(video, true).Controls)

	image := ViewOf(models.MediaItem{Kind: models.KindImage, PreviewSource: "/s.png", FullSource: ""}, false)
	assert.Equal(t, "", image.Src, "a missing source is passed through")
	assert.False(t, image.Autoplay)
}

func TestGalleryToLightbox(t *testing.T) {
	items := catalogOf(3)
	var v *Viewer

	p := gallery.New(items, gallery.Options{
		OnSelect: func(i int) { v = Open(items, i, Options{}) },
	})
	defer p.Close()

	require.True(t, p.Activate(1))
	require.NotNil(t, v)
	assert.Equal(t, 1, v.CurrentIndex())

	v.HandleKey(KeyArrowRight)
	v.HandleKey(KeyArrowRight)
	assert.Equal(t, 2, v.CurrentIndex())

	v.HandleKey(KeyEscape)
	assert.False(t, v.IsOpen())
}
