// Package gallery holds the state behind the masonry grid: which frame is
// hovered, which media finished loading, and which frame was activated.
package gallery

import (
	"fmt"
	"sync"
	"time"

	"signal-portfolio/pkg/layout"
	"signal-portfolio/pkg/models"
)

// DwellTime is how long a hovered frame stays emphasized after the last hover
const DwellTime = 2800 * time.Millisecond

// StudioLabel is printed under every frame next to its number
const StudioLabel = "SIGNAL STUDIO"

// Options configures a Presenter
type Options struct {
	Category string
	Resolver *layout.Resolver
	Clock    Clock
	// Dwell overrides DwellTime when positive
	Dwell time.Duration
	// AllowPlaceholders lets placeholder slots open the lightbox
	AllowPlaceholders bool
	// OnSelect receives the index of an activated frame
	OnSelect func(index int)
	// OnChange is called after hover state changes, including timer expiry
	OnChange func()
}

// Frame is everything a renderer needs to draw one slot
type Frame struct {
	Index       int               `json:"index"`
	Position    int               `json:"position"`
	Number      string            `json:"number"`
	Item        models.MediaItem  `json:"item"`
	Dimensions  layout.Dimensions `json:"dimensions"`
	Placeholder bool              `json:"placeholder"`
	Loaded      bool              `json:"loaded"`
	Hovered     bool              `json:"hovered"`
	Muted       bool              `json:"muted"`
	Clickable   bool              `json:"clickable"`
}

// Opacity is 0 until the frame's media has loaded
func (f Frame) Opacity() float64 {
	if f.Loaded {
		return 1
	}
	return 0
}

// Presenter owns the view state of one gallery grid. It is safe for use from
// the dwell timer's goroutine and the caller's goroutine at the same time.
type Presenter struct {
	mu       sync.Mutex
	items    models.Catalog
	opts     Options
	dwell    time.Duration
	hovered  int
	hovering bool
	loaded   map[int]struct{}
	timer    Timer
	// generation invalidates timers that fire after a newer hover
	generation uint64
	closed     bool
}

// New creates a presenter over items
func New(items models.Catalog, opts Options) *Presenter {
	if opts.Clock == nil {
		opts.Clock = RealClock()
	}
	if opts.Resolver == nil {
		opts.Resolver = layout.DefaultResolver()
	}
	dwell := DwellTime
	if opts.Dwell > 0 {
		dwell = opts.Dwell
	}
	return &Presenter{
		items:  items,
		opts:   opts,
		dwell:  dwell,
		loaded: make(map[int]struct{}),
	}
}

// Len returns the number of frames
func (p *Presenter) Len() int {
	return len(p.items)
}

// Activate reports a click on frame index to the OnSelect listener.
// Placeholder slots are ignored unless AllowPlaceholders is set.
func (p *Presenter) Activate(index int) bool {
	item, ok := p.items.At(index)
	if !ok {
		return false
	}
	if !item.ForceVisible && !p.opts.AllowPlaceholders {
		return false
	}

	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return false
	}

	if p.opts.OnSelect != nil {
		p.opts.OnSelect(index)
	}
	return true
}

// MarkLoaded records that the media of frame index finished loading
func (p *Presenter) MarkLoaded(index int) {
	if index < 0 || index >= len(p.items) {
		return
	}
	p.mu.Lock()
	p.loaded[index] = struct{}{}
	p.mu.Unlock()
}

// IsLoaded reports whether frame index has loaded
func (p *Presenter) IsLoaded(index int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.loaded[index]
	return ok
}

// LoadedCount returns the size of the loaded set
func (p *Presenter) LoadedCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.loaded)
}

// Hover emphasizes frame index and restarts the dwell timer
func (p *Presenter) Hover(index int) {
	if index < 0 || index >= len(p.items) {
		return
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	if p.timer != nil {
		p.timer.Stop()
	}
	p.hovered = index
	p.hovering = true
	p.generation++
	gen := p.generation
	p.timer = p.opts.Clock.AfterFunc(p.dwell, func() { p.expire(gen) })
	p.mu.Unlock()

	p.changed()
}

// Leave is a no-op: the emphasis lingers until the dwell timer runs out
func (p *Presenter) Leave() {}

func (p *Presenter) expire(gen uint64) {
	p.mu.Lock()
	if p.closed || gen != p.generation || !p.hovering {
		p.mu.Unlock()
		return
	}
	p.hovering = false
	p.timer = nil
	p.mu.Unlock()

	p.changed()
}

func (p *Presenter) changed() {
	if p.opts.OnChange != nil {
		p.opts.OnChange()
	}
}

// Hovered returns the emphasized frame, if any
func (p *Presenter) Hovered() (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hovered, p.hovering
}

// Frames returns the render model of every slot in catalog order
func (p *Presenter) Frames() []Frame {
	p.mu.Lock()
	defer p.mu.Unlock()

	frames := make([]Frame, len(p.items))
	for i, item := range p.items {
		_, loaded := p.loaded[i]
		placeholder := !item.ForceVisible
		frames[i] = Frame{
			Index:       i,
			Position:    i + 1,
			Number:      fmt.Sprintf("%02d", i+1),
			Item:        item,
			Dimensions:  p.opts.Resolver.Resolve(p.opts.Category, i+1),
			Placeholder: placeholder,
			Loaded:      loaded,
			Hovered:     p.hovering && p.hovered == i,
			Muted:       p.hovering && p.hovered != i,
			Clickable:   !placeholder || p.opts.AllowPlaceholders,
		}
	}
	return frames
}

// Close cancels the dwell timer. The presenter ignores hovers afterwards.
func (p *Presenter) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}
