// Package layout resolves the frame a gallery slot is drawn into.
//
// Frames have a fixed print aspect ratio chosen per category and slot position,
// independent of the media's real pixel size, so the grid can be laid out
// before anything has loaded.
package layout

import (
	"strings"
)

// Dimensions is a frame's target width and height in pixels
type Dimensions struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Valid reports whether both sides are positive
func (d Dimensions) Valid() bool {
	return d.Width > 0 && d.Height > 0
}

// AspectRatio returns width divided by height
func (d Dimensions) AspectRatio() float64 {
	if d.Height == 0 {
		return 0
	}
	return float64(d.Width) / float64(d.Height)
}

var (
	// Portrait is the 2:3 frame used for most slots and for unknown categories
	Portrait = Dimensions{Width: 433, Height: 650}
	// Landscape is the 3:2 frame used at every fifth slot
	Landscape = Dimensions{Width: 940, Height: 627}
)

// Table is one category's position to frame lookup.
// Positions are 1-based.
type Table struct {
	Default   Dimensions         `json:"default" yaml:"default"`
	Positions map[int]Dimensions `json:"positions" yaml:"positions"`
}

// Resolver maps (category, position) pairs to frame dimensions.
// It never fails: unknown categories and positions fall back to defaults.
type Resolver struct {
	tables   map[string]Table
	fallback Dimensions
}

// NewResolver builds a resolver over the given tables. Category keys are
// matched case-insensitively.
func NewResolver(tables map[string]Table) *Resolver {
	r := &Resolver{
		tables:   make(map[string]Table, len(tables)),
		fallback: Portrait,
	}
	for name, t := range tables {
		r.tables[strings.ToLower(name)] = t
	}
	return r
}

// DefaultTable is the layout every built-in category uses: landscape frames
// at positions 5, 10, 15 and 20, portrait everywhere else.
func DefaultTable() Table {
	return Table{
		Default: Portrait,
		Positions: map[int]Dimensions{
			5:  Landscape,
			10: Landscape,
			15: Landscape,
			20: Landscape,
		},
	}
}

// DefaultResolver returns a resolver with the built-in category tables
func DefaultResolver() *Resolver {
	tables := make(map[string]Table)
	for _, name := range []string{"selected", "commissioned", "editorial", "personal", "all"} {
		tables[name] = DefaultTable()
	}
	return NewResolver(tables)
}

// Resolve returns the frame for a 1-based slot position within category
func (r *Resolver) Resolve(category string, position int) Dimensions {
	if r == nil {
		return Portrait
	}

	table, ok := r.tables[strings.ToLower(category)]
	if !ok {
		return r.fallback
	}

	if d, ok := table.Positions[position]; ok && d.Valid() {
		return d
	}
	if table.Default.Valid() {
		return table.Default
	}
	return r.fallback
}

// Categories lists the category keys the resolver has tables for
func (r *Resolver) Categories() []string {
	names := make([]string, 0, len(r.tables))
	for name := range r.tables {
		names = append(names, name)
	}
	return names
}

// RowHeight returns the gallery row height for a viewport width
func RowHeight(viewportWidth int) int {
	switch {
	case viewportWidth < 640:
		return 180
	case viewportWidth < 1024:
		return 220
	default:
		return 270
	}
}

// FrameWidth scales a frame to the given row height, keeping its ratio
func FrameWidth(d Dimensions, rowHeight int) float64 {
	return d.AspectRatio() * float64(rowHeight)
}
