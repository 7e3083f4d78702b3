// Package lightbox is the full-screen single item viewer that opens when a
// gallery frame is activated.
package lightbox

import (
	"fmt"
	"sync"

	"signal-portfolio/pkg/models"
	"signal-portfolio/pkg/scrolllock"
)

// LockOwner is the name the viewer holds the scroll lock under
const LockOwner = "lightbox"

// LabelOffset is how far the floating page label sits from the cursor
const LabelOffset = 20.0

// Options configures a Viewer
type Options struct {
	// Touch is sampled once when the viewer opens and never re-evaluated
	Touch bool
	// Lock, when set, is held for as long as the viewer is open
	Lock *scrolllock.Lock
	// OnClose runs once when the viewer closes
	OnClose func()
	// OnChange runs after the current index moves
	OnChange func(index int)
}

// MediaView describes how to render the current item
type MediaView struct {
	Kind     models.MediaKind `json:"kind"`
	Src      string           `json:"src"`
	Poster   string           `json:"poster,omitempty"`
	Alt      string           `json:"alt"`
	Autoplay bool             `json:"autoplay"`
	Muted    bool             `json:"muted"`
	Loop     bool             `json:"loop"`
	Controls bool             `json:"controls"`
}

// Viewer holds the state of one open lightbox
type Viewer struct {
	mu         sync.Mutex
	items      models.Catalog
	current    int
	open       bool
	touch      bool
	cursor     Point
	affordance Cursor
	touchStart float64
	touching   bool
	release    func()
	opts       Options
	closeOnce  sync.Once
}

// Open starts a viewer on items at index. The index is clamped into range.
// With an empty catalog the viewer starts out closed.
func Open(items models.Catalog, index int, opts Options) *Viewer {
	v := &Viewer{
		items:      items,
		touch:      opts.Touch,
		affordance: CursorDefault,
		opts:       opts,
	}
	if len(items) == 0 {
		return v
	}

	switch {
	case index < 0:
		index = 0
	case index >= len(items):
		index = len(items) - 1
	}
	v.current = index
	v.open = true
	if opts.Lock != nil {
		v.release = opts.Lock.Acquire(LockOwner)
	}
	return v
}

// IsOpen reports whether the viewer has not been closed
func (v *Viewer) IsOpen() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.open
}

// IsTouch reports the input mode sampled at open
func (v *Viewer) IsTouch() bool {
	return v.touch
}

// Len returns the catalog size
func (v *Viewer) Len() int {
	return len(v.items)
}

// CurrentIndex returns the index being shown
func (v *Viewer) CurrentIndex() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Current returns the item being shown
func (v *Viewer) Current() models.MediaItem {
	item, _ := v.items.At(v.CurrentIndex())
	return item
}

// HasNext reports whether Next would move
func (v *Viewer) HasNext() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.open && v.current < len(v.items)-1
}

// HasPrevious reports whether Previous would move
func (v *Viewer) HasPrevious() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.open && v.current > 0
}

// Next advances one item; it does nothing on the last item
func (v *Viewer) Next() bool {
	return v.step(1)
}

// Previous goes back one item; it does nothing on the first item
func (v *Viewer) Previous() bool {
	return v.step(-1)
}

func (v *Viewer) step(delta int) bool {
	v.mu.Lock()
	target := v.current + delta
	if !v.open || target < 0 || target >= len(v.items) {
		v.mu.Unlock()
		return false
	}
	v.current = target
	v.mu.Unlock()

	if v.opts.OnChange != nil {
		v.opts.OnChange(target)
	}
	return true
}

// Close ends the viewer, releasing the scroll lock. Later calls do nothing.
func (v *Viewer) Close() {
	v.closeOnce.Do(func() {
		v.mu.Lock()
		wasOpen := v.open
		v.open = false
		release := v.release
		v.release = nil
		v.mu.Unlock()

		if release != nil {
			release()
		}
		if wasOpen && v.opts.OnClose != nil {
			v.opts.OnClose()
		}
	})
}

// Dispatch applies an action and returns it
func (v *Viewer) Dispatch(a Action) Action {
	if !v.IsOpen() {
		return ActionNone
	}
	switch a {
	case ActionNext:
		v.Next()
	case ActionPrevious:
		v.Previous()
	case ActionClose:
		v.Close()
	}
	return a
}

// HandleKey reacts to a key press
func (v *Viewer) HandleKey(key string) Action {
	return v.Dispatch(KeyAction(key))
}

// TouchStart records where a touch began
func (v *Viewer) TouchStart(x float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.touchStart = x
	v.touching = true
}

// TouchEnd completes a touch and navigates if it was a horizontal swipe.
// A touch end without a recorded start is ignored.
func (v *Viewer) TouchEnd(x float64) Action {
	v.mu.Lock()
	if !v.touching {
		v.mu.Unlock()
		return ActionNone
	}
	start := v.touchStart
	v.touching = false
	v.mu.Unlock()

	return v.Dispatch(SwipeAction(start, x))
}

// Click handles a pointer click inside the media viewport. Touch devices
// navigate by swiping, so clicks do nothing there.
func (v *Viewer) Click(p Point, media Rect) Action {
	if v.touch {
		return ActionNone
	}
	return v.Dispatch(ClickAction(p, media))
}

// PointerMove tracks the cursor for the floating label and returns the
// affordance to show. Touch devices always get the default cursor.
func (v *Viewer) PointerMove(p Point, media Rect) Cursor {
	if v.touch {
		return CursorDefault
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.cursor = p
	v.affordance = CursorFor(p.X, media, v.current, len(v.items))
	return v.affordance
}

// Cursor returns the last tracked pointer position and affordance
func (v *Viewer) Cursor() (Point, Cursor) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cursor, v.affordance
}

// PageLabel returns "i / N" for pointer devices and "i of N" for touch
func (v *Viewer) PageLabel() string {
	i := v.CurrentIndex() + 1
	if v.touch {
		return fmt.Sprintf("%d of %d", i, len(v.items))
	}
	return fmt.Sprintf("%d / %d", i, len(v.items))
}

// LabelPosition returns where the page label floats. The second result is
// false on touch devices, where the label is pinned to the top right corner.
func (v *Viewer) LabelPosition() (Point, bool) {
	if v.touch {
		return Point{}, false
	}
	p, _ := v.Cursor()
	return Point{X: p.X + LabelOffset, Y: p.Y + LabelOffset}, true
}

// AttributionLines returns the credit lines for the current item. Lines
// whose data is missing are left out.
func (v *Viewer) AttributionLines() []string {
	return Attribution(v.Current())
}

// Attribution formats an item's credits as display lines
func Attribution(item models.MediaItem) []string {
	a := item.Attribution
	if a == nil {
		return nil
	}
	var lines []string
	if a.Photographer != "" {
		lines = append(lines, a.Photographer)
	}
	if a.Client != "" {
		lines = append(lines, "For "+a.Client)
	}
	if a.Location != "" && a.Details != "" {
		lines = append(lines, fmt.Sprintf("Shot in %s. %s.", a.Location, a.Details))
	}
	return lines
}

// Media returns the render description of the current item
func (v *Viewer) Media() MediaView {
	return ViewOf(v.Current(), v.touch)
}

// ViewOf describes how item renders. Videos autoplay muted and looped with
// the preview as poster; touch devices also get native controls.
func ViewOf(item models.MediaItem, touch bool) MediaView {
	if item.IsVideo() {
		return MediaView{
			Kind:     models.KindVideo,
			Src:      item.FullSource,
			Poster:   item.PreviewSource,
			Alt:      item.AltText,
			Autoplay: true,
			Muted:    true,
			Loop:     true,
			Controls: touch,
		}
	}
	return MediaView{
		Kind: models.KindImage,
		Src:  item.FullSource,
		Alt:  item.AltText,
	}
}
