package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolver_Resolve(t *testing.T) {
	r := DefaultResolver()

	tests := []struct {
		name     string
		category string
		position int
		expected Dimensions
	}{
		{"portrait slot", "selected", 1, Portrait},
		{"fifth slot is landscape", "selected", 5, Landscape},
		{"twentieth slot is landscape", "personal", 20, Landscape},
		{"case insensitive category", "EDITORIAL", 10, Landscape},
		{"position past the table", "commissioned", 25, Portrait},
		{"zero position", "commissioned", 0, Portrait},
		{"negative position", "commissioned", -3, Portrait},
		{"unknown category", "weddings", 5, Portrait},
		{"empty category", "", 1, Portrait},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, r.Resolve(tt.category, tt.position))
		})
	}
}

func TestResolver_TotalOverAllPositions(t *testing.T) {
	r := NewResolver(map[string]Table{
		"selected": DefaultTable(),
		"broken": {
			Default:   Dimensions{},
			Positions: map[int]Dimensions{2: {Width: 0, Height: 100}},
		},
	})

	for _, category := range []string{"selected", "broken", "commissioned", "nope"} {
		for pos := 1; pos <= 64; pos++ {
			d := r.Resolve(category, pos)
			assert.True(t, d.Valid(), "%s/%d resolved to %+v", category, pos, d)
		}
	}
}

func TestResolver_CustomTable(t *testing.T) {
	square := Dimensions{Width: 500, Height: 500}
	r := NewResolver(map[string]Table{
		"Motion": {Default: square, Positions: map[int]Dimensions{1: Landscape}},
	})

	assert.Equal(t, Landscape, r.Resolve("motion", 1))
	assert.Equal(t, square, r.Resolve("motion", 2))
	assert.ElementsMatch(t, []string{"motion"}, r.Categories())
}

func TestResolver_NilReceiver(t *testing.T) {
	var r *Resolver
	assert.Equal(t, Portrait, r.Resolve("selected", 5))
}

func TestRowHeight(t *testing.T) {
	assert.Equal(t, 180, RowHeight(375))
	assert.Equal(t, 220, RowHeight(640))
	assert.Equal(t, 220, RowHeight(1023))
	assert.Equal(t, 270, RowHeight(1024))
	assert.Equal(t, 270, RowHeight(1920))
}

func TestFrameWidth(t *testing.T) {
	assert.InDelta(t, 179.86, FrameWidth(Portrait, 270), 0.01)
	assert.InDelta(t, 404.78, FrameWidth(Landscape, 270), 0.01)
	assert.Zero(t, FrameWidth(Dimensions{}, 270))
}
