package lightbox

// Action is a transition requested by user input
type Action int

const (
	ActionNone Action = iota
	ActionNext
	ActionPrevious
	ActionClose
)

func (a Action) String() string {
	switch a {
	case ActionNext:
		return "next"
	case ActionPrevious:
		return "previous"
	case ActionClose:
		return "close"
	default:
		return "none"
	}
}

// Keyboard keys the viewer reacts to, named as DOM KeyboardEvent.key values
const (
	KeyArrowRight = "ArrowRight"
	KeyArrowLeft  = "ArrowLeft"
	KeyEscape     = "Escape"
)

// SwipeThreshold is the horizontal travel in logical pixels a touch must
// exceed to count as a swipe
const SwipeThreshold = 50.0

// Cursor is the pointer affordance shown over the media
type Cursor string

const (
	CursorDefault  Cursor = "default"
	CursorPrevious Cursor = "w-resize"
	CursorNext     Cursor = "e-resize"
)

// Point is a position in viewport coordinates
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is the rendered media's bounding box in viewport coordinates
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// CenterX returns the horizontal middle of the box
func (r Rect) CenterX() float64 {
	return r.Left + (r.Right-r.Left)/2
}

// KeyAction maps a key to its transition
func KeyAction(key string) Action {
	switch key {
	case KeyArrowRight:
		return ActionNext
	case KeyArrowLeft:
		return ActionPrevious
	case KeyEscape:
		return ActionClose
	default:
		return ActionNone
	}
}

// SwipeAction classifies a touch that started at startX and ended at endX.
// A finger moving right to left means next.
func SwipeAction(startX, endX float64) Action {
	delta := startX - endX
	if delta > SwipeThreshold {
		return ActionNext
	}
	if delta < -SwipeThreshold {
		return ActionPrevious
	}
	return ActionNone
}

// ClickAction decides what a pointer click at p does given the media box.
// Clicks above or below the media close the viewer; otherwise the half of the
// media that was clicked picks the direction.
func ClickAction(p Point, media Rect) Action {
	if p.Y < media.Top || p.Y > media.Bottom {
		return ActionClose
	}
	if p.X < media.CenterX() {
		return ActionPrevious
	}
	return ActionNext
}

// CursorFor picks the affordance for a pointer at x over media while showing
// item index of n
func CursorFor(x float64, media Rect, index, n int) Cursor {
	center := media.CenterX()
	switch {
	case x < center && index > 0:
		return CursorPrevious
	case x >= center && index < n-1:
		return CursorNext
	default:
		return CursorDefault
	}
}
