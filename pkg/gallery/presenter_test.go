package gallery

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"signal-portfolio/pkg/layout"
	"signal-portfolio/pkg/models"
)

type manualTimer struct {
	clock   *manualClock
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// manualClock only moves when Advance is called
type manualClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{clock: c, at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*manualTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.at <= c.now {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	sort.Slice(due, func(i, j int) bool { return due[i].at < due[j].at })
	for _, t := range due {
		t.f()
	}
}

func (c *manualClock) pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

func testCatalog() models.Catalog {
	return models.Catalog{
		{Kind: models.KindImage, PreviewSource: "/productions/1.png", ForceVisible: true},
		{Kind: models.KindImage, PreviewSource: "/productions/2.png", ForceVisible: true},
		{Kind: models.KindVideo, PreviewSource: "/productions/3.png", FullSource: "/video/3.mp4", ForceVisible: true},
		{AltText: "Frame 4"},
		{Kind: models.KindImage, PreviewSource: "/productions/5.png", ForceVisible: true},
	}
}

func TestPresenter_Activate(t *testing.T) {
	t.Run("emits the selected index", func(t *testing.T) {
		var selected []int
		p := New(testCatalog(), Options{OnSelect: func(i int) { selected = append(selected, i) }})

		assert.True(t, p.Activate(1))
		assert.True(t, p.Activate(2))
		assert.Equal(t, []int{1, 2}, selected)
	})

	t.Run("ignores out of range indexes", func(t *testing.T) {
		called := false
		p := New(testCatalog(), Options{OnSelect: func(int) { called = true }})

		assert.False(t, p.Activate(-1))
		assert.False(t, p.Activate(5))
		assert.False(t, called)
	})

	t.Run("placeholders only open when allowed", func(t *testing.T) {
		var selected []int
		onSelect := func(i int) { selected = append(selected, i) }

		assert.False(t, New(testCatalog(), Options{OnSelect: onSelect}).Activate(3))
		assert.True(t, New(testCatalog(), Options{OnSelect: onSelect, AllowPlaceholders: true}).Activate(3))
		assert.Equal(t, []int{3}, selected)
	})

	t.Run("does not change view state", func(t *testing.T) {
		p := New(testCatalog(), Options{Clock: &manualClock{}})
		p.Activate(0)

		_, hovering := p.Hovered()
		assert.False(t, hovering)
		assert.Zero(t, p.LoadedCount())
	})
}

func TestPresenter_MarkLoaded(t *testing.T) {
	p := New(testCatalog(), Options{})

	p.MarkLoaded(2)
	p.MarkLoaded(2)
	assert.Equal(t, 1, p.LoadedCount())
	assert.True(t, p.IsLoaded(2))
	assert.False(t, p.IsLoaded(1))

	p.MarkLoaded(99)
	p.MarkLoaded(-1)
	assert.Equal(t, 1, p.LoadedCount())

	frames := p.Frames()
	assert.Equal(t, 1.0, frames[2].Opacity())
	assert.Equal(t, 0.0, frames[1].Opacity())
}

func TestPresenter_HoverDwell(t *testing.T) {
	t.Run("clears after the dwell time", func(t *testing.T) {
		clock := &manualClock{}
		p := New(testCatalog(), Options{Clock: clock})

		p.Hover(2)
		idx, ok := p.Hovered()
		require.True(t, ok)
		assert.Equal(t, 2, idx)

		clock.Advance(2799 * time.Millisecond)
		_, ok = p.Hovered()
		assert.True(t, ok)

		clock.Advance(time.Millisecond)
		_, ok = p.Hovered()
		assert.False(t, ok)
	})

	t.Run("re-hovering restarts the timer", func(t *testing.T) {
		clock := &manualClock{}
		p := New(testCatalog(), Options{Clock: clock})

		p.Hover(2)
		clock.Advance(2799 * time.Millisecond)
		p.Hover(2)

		clock.Advance(time.Millisecond)
		idx, ok := p.Hovered()
		assert.True(t, ok, "the original 2800ms mark must not clear the hover")
		assert.Equal(t, 2, idx)

		clock.Advance(2798 * time.Millisecond)
		_, ok = p.Hovered()
		assert.True(t, ok)

		clock.Advance(time.Millisecond)
		_, ok = p.Hovered()
		assert.False(t, ok)
	})

	t.Run("hovering another frame cancels the previous timer", func(t *testing.T) {
		clock := &manualClock{}
		p := New(testCatalog(), Options{Clock: clock})

		p.Hover(0)
		clock.Advance(time.Second)
		p.Hover(4)
		assert.Equal(t, 1, clock.pending())

		clock.Advance(2 * time.Second)
		idx, ok := p.Hovered()
		assert.True(t, ok)
		assert.Equal(t, 4, idx)
	})

	t.Run("leaving does not clear the hover", func(t *testing.T) {
		clock := &manualClock{}
		p := New(testCatalog(), Options{Clock: clock})

		p.Hover(1)
		p.Leave()
		_, ok := p.Hovered()
		assert.True(t, ok)
	})

	t.Run("notifies on hover and on expiry", func(t *testing.T) {
		clock := &manualClock{}
		changes := 0
		p := New(testCatalog(), Options{Clock: clock, OnChange: func() { changes++ }})

		p.Hover(1)
		clock.Advance(DwellTime)
		assert.Equal(t, 2, changes)
	})
}

func TestPresenter_Frames(t *testing.T) {
	clock := &manualClock{}
	p := New(testCatalog(), Options{Clock: clock, Category: "selected", Resolver: layout.DefaultResolver()})
	p.Hover(1)

	frames := p.Frames()
	require.Len(t, frames, 5)

	assert.Equal(t, "01", frames[0].Number)
	assert.Equal(t, 5, frames[4].Position)
	assert.Equal(t, layout.Landscape, frames[4].Dimensions)
	assert.Equal(t, layout.Portrait, frames[0].Dimensions)

	assert.True(t, frames[1].Hovered)
	assert.False(t, frames[1].Muted)
	assert.True(t, frames[0].Muted)
	assert.True(t, frames[4].Muted)

	assert.True(t, frames[3].Placeholder)
	assert.False(t, frames[3].Clickable)
	assert.True(t, frames[2].Clickable)

	clock.Advance(DwellTime)
	for _, f := range p.Frames() {
		assert.False(t, f.Hovered)
		assert.False(t, f.Muted)
	}
}

func TestPresenter_Close(t *testing.T) {
	t.Run("cancels the pending timer", func(t *testing.T) {
		clock := &manualClock{}
		changes := 0
		p := New(testCatalog(), Options{Clock: clock, OnChange: func() { changes++ }})

		p.Hover(3)
		p.Close()
		assert.Zero(t, clock.pending())

		clock.Advance(DwellTime)
		assert.Equal(t, 1, changes, "no callback may run after Close")

		p.Hover(2)
		assert.Zero(t, clock.pending())
		assert.False(t, p.Activate(0))
	})

	t.Run("leaves no goroutines behind with the real clock", func(t *testing.T) {
		defer goleak.VerifyNone(t)

		p := New(testCatalog(), Options{Dwell: 20 * time.Millisecond})
		p.Hover(0)
		assert.Eventually(t, func() bool {
			_, ok := p.Hovered()
			return !ok
		}, time.Second, 5*time.Millisecond)

		p.Hover(1)
		p.Close()
		time.Sleep(40 * time.Millisecond)
		idx, ok := p.Hovered()
		assert.True(t, ok, "closing freezes the last state instead of firing")
		assert.Equal(t, 1, idx)
	})
}

func TestPresenter_EmptyCatalog(t *testing.T) {
	p := New(nil, Options{})

	assert.Zero(t, p.Len())
	assert.Empty(t, p.Frames())
	assert.False(t, p.Activate(0))
	p.Hover(0)
	_, ok := p.Hovered()
	assert.False(t, ok)
}
