package models

// MediaKind distinguishes still images from video clips
type MediaKind string

const (
	KindImage MediaKind = "image"
	KindVideo MediaKind = "video"
)

// Source names where a category's catalog comes from
type Source string

const (
	SourceStatic Source = "static"
	SourceStock  Source = "stock"
	SourceBucket Source = "bucket"
)

// Category represents one gallery of the portfolio
type Category struct {
	Name        string `json:"name"`
	Stub        string `json:"stub"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Source      Source `json:"source"`
	Query       string `json:"query,omitempty"`
}

// Attribution holds the optional credits shown under an item
type Attribution struct {
	Photographer string `json:"photographer,omitempty"`
	Client       string `json:"client,omitempty"`
	Location     string `json:"location,omitempty"`
	Details      string `json:"details,omitempty"`
}

// Size is a pixel width and height
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// MediaItem is a single gallery entry, either an image or a video
type MediaItem struct {
	Kind          MediaKind    `json:"kind"`
	PreviewSource string       `json:"previewSource"`
	FullSource    string       `json:"fullSource"`
	AltText       string       `json:"alt"`
	Attribution   *Attribution `json:"attribution,omitempty"`
	IntrinsicSize *Size        `json:"intrinsicSize,omitempty"`
	ForceVisible  bool         `json:"forceVisible"`
}

// IsVideo reports whether the item plays as a video
func (m MediaItem) IsVideo() bool {
	return m.Kind == KindVideo
}

// Catalog is the ordered list of items backing one gallery view.
// An item's position in the slice is its only identity.
type Catalog []MediaItem

// Len returns the number of items
func (c Catalog) Len() int {
	return len(c)
}

// At returns the item at index i
func (c Catalog) At(i int) (MediaItem, bool) {
	if i < 0 || i >= len(c) {
		return MediaItem{}, false
	}
	return c[i], true
}

// CatalogView is the JSON document served for a category
type CatalogView struct {
	Category Category `json:"category"`
	Items    Catalog  `json:"items"`
	Total    int      `json:"total"`
	// Frames holds the resolved frame of each item, in catalog order
	Frames []Size `json:"frames"`
}
