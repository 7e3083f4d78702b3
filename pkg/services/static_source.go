package services

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"signal-portfolio/assets"
	"signal-portfolio/pkg/layout"
	"signal-portfolio/pkg/models"
)

// CatalogFile is the parsed catalog.yaml
type CatalogFile struct {
	Defaults   AssetDefaults           `yaml:"defaults"`
	Categories []CategorySpec          `yaml:"categories"`
	Layouts    map[string]layout.Table `yaml:"layouts"`
}

// AssetDefaults fill in credits that an asset leaves out
type AssetDefaults struct {
	Photographer string `yaml:"photographer"`
	Client       string `yaml:"client"`
	Location     string `yaml:"location"`
	Details      string `yaml:"details"`
	Slots        int    `yaml:"slots"`
}

// CategorySpec describes one category and, for static categories, its assets
type CategorySpec struct {
	Name        string            `yaml:"name"`
	Title       string            `yaml:"title"`
	Description string            `yaml:"description"`
	Source      models.Source     `yaml:"source"`
	Query       string            `yaml:"query"`
	Slots       int               `yaml:"slots"`
	Assets      map[int]AssetSpec `yaml:"assets"`
}

// AssetSpec is one hand-placed asset, keyed by its 1-based slot
type AssetSpec struct {
	Type     string `yaml:"type"`
	Src      string `yaml:"src"`
	Video    string `yaml:"video"`
	Details  string `yaml:"details"`
	Client   string `yaml:"client"`
	Location string `yaml:"location"`
}

// ParseCatalogFile decodes and checks a catalog document
func ParseCatalogFile(data []byte) (*CatalogFile, error) {
	var f CatalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	seen := make(map[string]bool)
	for i := range f.Categories {
		c := &f.Categories[i]
		c.Name = strings.ToLower(strings.TrimSpace(c.Name))
		if c.Name == "" {
			return nil, fmt.Errorf("catalog category %d has no name", i+1)
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("catalog category %q is defined twice", c.Name)
		}
		seen[c.Name] = true

		switch c.Source {
		case "":
			c.Source = models.SourceStatic
		case models.SourceStatic, models.SourceStock, models.SourceBucket:
		default:
			return nil, fmt.Errorf("catalog category %q has unknown source %q", c.Name, c.Source)
		}

		for pos, a := range c.Assets {
			if pos < 1 {
				return nil, fmt.Errorf("catalog category %q has asset at slot %d", c.Name, pos)
			}
			if a.Type == string(models.KindVideo) && a.Video == "" {
				return nil, fmt.Errorf("catalog category %q slot %d is a video without a video source", c.Name, pos)
			}
		}
	}

	for name, t := range f.Layouts {
		if !t.Default.Valid() {
			return nil, fmt.Errorf("layout %q needs a positive default frame", name)
		}
	}

	return &f, nil
}

// LoadCatalogFile reads the catalog at path, or the built-in one when path is empty
func LoadCatalogFile(path string) (*CatalogFile, error) {
	if path == "" {
		return ParseCatalogFile(assets.Catalog)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return ParseCatalogFile(data)
}

// CategoryList returns the category metadata in file order
func (f *CatalogFile) CategoryList() []models.Category {
	categories := make([]models.Category, 0, len(f.Categories))
	for _, c := range f.Categories {
		categories = append(categories, models.Category{
			Name:        c.Name,
			Stub:        categoryPath(c.Name),
			Title:       c.Title,
			Description: c.Description,
			Source:      c.Source,
			Query:       c.Query,
		})
	}
	return categories
}

func (f *CatalogFile) spec(name string) (CategorySpec, bool) {
	for _, c := range f.Categories {
		if c.Name == name {
			return c, true
		}
	}
	return CategorySpec{}, false
}

// Resolver builds the frame resolver: every category gets the default table
// unless the file overrides it
func (f *CatalogFile) Resolver() *layout.Resolver {
	tables := make(map[string]layout.Table)
	for _, c := range f.Categories {
		tables[c.Name] = layout.DefaultTable()
	}
	for name, t := range f.Layouts {
		tables[name] = t
	}
	return layout.NewResolver(tables)
}

func categoryPath(name string) string {
	if name == "selected" {
		return "/"
	}
	return "/category/" + name
}

// StaticSource serves the hand-placed assets of the catalog file
type StaticSource struct {
	file     *CatalogFile
	resolver *layout.Resolver
}

// NewStaticSource creates a source over file
func NewStaticSource(file *CatalogFile, resolver *layout.Resolver) *StaticSource {
	return &StaticSource{file: file, resolver: resolver}
}

// Load lays the category's assets into its slots. Empty slots become
// placeholder frames.
func (s *StaticSource) Load(_ context.Context, category models.Category) (models.Catalog, error) {
	spec, ok := s.file.spec(category.Name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, category.Name)
	}

	slots := spec.Slots
	if slots <= 0 {
		slots = s.file.Defaults.Slots
	}
	for pos := range spec.Assets {
		if pos > slots {
			slots = pos
		}
	}

	d := s.file.Defaults
	items := make(models.Catalog, 0, slots)
	for pos := 1; pos <= slots; pos++ {
		asset, mapped := spec.Assets[pos]
		frame := s.resolver.Resolve(category.Name, pos)

		item := models.MediaItem{
			Kind:          models.KindImage,
			PreviewSource: asset.Src,
			FullSource:    asset.Src,
			AltText:       firstNonEmpty(asset.Details, fmt.Sprintf("Frame %d", pos)),
			Attribution: &models.Attribution{
				Photographer: d.Photographer,
				Client:       firstNonEmpty(asset.Client, d.Client),
				Location:     firstNonEmpty(asset.Location, d.Location),
				Details:      firstNonEmpty(asset.Details, d.Details),
			},
			IntrinsicSize: &models.Size{Width: frame.Width, Height: frame.Height},
			ForceVisible:  mapped,
		}
		if asset.Type == string(models.KindVideo) {
			item.Kind = models.KindVideo
			item.FullSource = asset.Video
		}
		items = append(items, item)
	}

	return items, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
