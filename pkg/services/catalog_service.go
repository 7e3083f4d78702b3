package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"signal-portfolio/pkg/config"
	"signal-portfolio/pkg/layout"
	"signal-portfolio/pkg/logging"
	"signal-portfolio/pkg/metrics"
	"signal-portfolio/pkg/models"
)

// ErrUnknownCategory is returned for a category name the catalog does not define
var ErrUnknownCategory = errors.New("unknown category")

// ErrCatalogUnavailable wraps a failure of the category's media source
var ErrCatalogUnavailable = errors.New("catalog unavailable")

// portraitQuery is the stock search used for the about page portrait
const portraitQuery = "black and white portrait artistic"

// Source loads the items of one category
type Source interface {
	Load(ctx context.Context, category models.Category) (models.Catalog, error)
}

// Service resolves categories to catalogs, caching the results
type Service struct {
	config       *config.Config
	file         *CatalogFile
	resolver     *layout.Resolver
	sources      map[models.Source]Source
	stock        *PexelsClient
	catalogCache *cache.Cache
	mu           sync.RWMutex
}

// naturalLess compares strings in a way that treats numbers as numbers rather than characters
// For example: "file2" < "file10" when using naturalLess
func naturalLess(s1, s2 string) bool {
	i, j := 0, 0
	for i < len(s1) && j < len(s2) {
		for i < len(s1) && unicode.IsSpace(rune(s1[i])) {
			i++
		}
		for j < len(s2) && unicode.IsSpace(rune(s2[j])) {
			j++
		}
		if i >= len(s1) || j >= len(s2) {
			break
		}

		if unicode.IsDigit(rune(s1[i])) && unicode.IsDigit(rune(s2[j])) {
			si, sj := i, j
			for i < len(s1) && unicode.IsDigit(rune(s1[i])) {
				i++
			}
			for j < len(s2) && unicode.IsDigit(rune(s2[j])) {
				j++
			}
			n1, _ := strconv.Atoi(s1[si:i])
			n2, _ := strconv.Atoi(s2[sj:j])
			if n1 != n2 {
				return n1 < n2
			}
			continue
		}

		if s1[i] != s2[j] {
			return s1[i] < s2[j]
		}
		i++
		j++
	}

	return len(s1)-i < len(s2)-j
}

var (
	// defaultService is the singleton instance of Service
	defaultService *Service
	initErr        error
	once           sync.Once
)

// InitService initializes the service with the given configuration
func InitService(cfg *config.Config) error {
	once.Do(func() {
		defaultService, initErr = NewService(cfg)
	})
	return initErr
}

// Default returns the service set up by InitService
func Default() *Service {
	return defaultService
}

// NewService reads the catalog file and wires up every configured source
func NewService(cfg *config.Config) (*Service, error) {
	file, err := LoadCatalogFile(cfg.CatalogFile)
	if err != nil {
		return nil, err
	}

	resolver := file.Resolver()
	s := &Service{
		config:       cfg,
		file:         file,
		resolver:     resolver,
		sources:      map[models.Source]Source{models.SourceStatic: NewStaticSource(file, resolver)},
		catalogCache: cache.New(5*time.Minute, 10*time.Minute),
	}
	if cfg.StockEnabled() {
		s.stock = NewPexelsClient(cfg.PexelsAPIKey)
		s.sources[models.SourceStock] = NewStockSource(s.stock)
	}
	if cfg.BucketEnabled() {
		s.sources[models.SourceBucket] = NewBucketSource(cfg.BucketName)
	}
	return s, nil
}

// GetCategories returns every category in menu order
func GetCategories() []models.Category {
	return defaultService.GetCategoriesInternal()
}

// GetCategoriesInternal returns every category in menu order
func (s *Service) GetCategoriesInternal() []models.Category {
	return s.file.CategoryList()
}

// GetCategory looks a category up by name, ignoring case
func GetCategory(name string) (models.Category, error) {
	return defaultService.GetCategoryInternal(name)
}

// GetCategoryInternal looks a category up by name, ignoring case
func (s *Service) GetCategoryInternal(name string) (models.Category, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, c := range s.GetCategoriesInternal() {
		if c.Name == name {
			return c, nil
		}
	}
	return models.Category{}, fmt.Errorf("%w: %s", ErrUnknownCategory, name)
}

// GetCatalog loads the catalog of a category
func GetCatalog(ctx context.Context, name string) (models.Catalog, error) {
	return defaultService.GetCatalogInternal(ctx, name)
}

// GetCatalogInternal loads the catalog of a category. A category whose
// source is not configured yields an empty catalog.
func (s *Service) GetCatalogInternal(ctx context.Context, name string) (models.Catalog, error) {
	category, err := s.GetCategoryInternal(name)
	if err != nil {
		return nil, err
	}

	key := "catalog:" + category.Name
	s.mu.RLock()
	if cached, found := s.catalogCache.Get(key); found {
		s.mu.RUnlock()
		logging.L().Debug("using cached catalog", zap.String("category", category.Name))
		return cached.(models.Catalog), nil
	}
	s.mu.RUnlock()

	src, ok := s.sources[category.Source]
	if !ok {
		logging.L().Warn("catalog source not configured",
			zap.String("category", category.Name),
			zap.String("source", string(category.Source)))
		return models.Catalog{}, nil
	}

	logging.L().Info("loading catalog", zap.String("category", category.Name), zap.String("source", string(category.Source)))
	start := time.Now()
	items, err := src.Load(ctx, category)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		metrics.RecordCatalogLoad(string(category.Source), "error", elapsed)
		return nil, fmt.Errorf("%w: %s: %w", ErrCatalogUnavailable, category.Name, err)
	}
	metrics.RecordCatalogLoad(string(category.Source), "success", elapsed)

	s.mu.Lock()
	s.catalogCache.Set(key, items, cache.DefaultExpiration)
	s.mu.Unlock()

	return items, nil
}

// GetCatalogView returns a category together with its items
func GetCatalogView(ctx context.Context, name string) (models.CatalogView, error) {
	return defaultService.GetCatalogViewInternal(ctx, name)
}

// GetCatalogViewInternal returns a category together with its items
func (s *Service) GetCatalogViewInternal(ctx context.Context, name string) (models.CatalogView, error) {
	category, err := s.GetCategoryInternal(name)
	if err != nil {
		return models.CatalogView{}, err
	}
	items, err := s.GetCatalogInternal(ctx, category.Name)
	if err != nil {
		return models.CatalogView{Category: category}, err
	}
	frames := make([]models.Size, len(items))
	for i := range items {
		d := s.resolver.Resolve(category.Name, i+1)
		frames[i] = models.Size{Width: d.Width, Height: d.Height}
	}
	return models.CatalogView{Category: category, Items: items, Total: len(items), Frames: frames}, nil
}

// Resolver returns the frame resolver built from the catalog file
func Resolver() *layout.Resolver {
	return defaultService.Resolver()
}

// Resolver returns the frame resolver built from the catalog file
func (s *Service) Resolver() *layout.Resolver {
	return s.resolver
}

// GetPortrait returns the about page portrait, or nil without a stock API key
func GetPortrait(ctx context.Context) (*models.MediaItem, error) {
	return defaultService.GetPortraitInternal(ctx)
}

// GetPortraitInternal returns the about page portrait, or nil without a stock API key
func (s *Service) GetPortraitInternal(ctx context.Context) (*models.MediaItem, error) {
	if s.stock == nil {
		return nil, nil
	}

	s.mu.RLock()
	if cached, found := s.catalogCache.Get("portrait"); found {
		s.mu.RUnlock()
		return cached.(*models.MediaItem), nil
	}
	s.mu.RUnlock()

	portrait, err := s.stock.Portrait(ctx, portraitQuery)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.catalogCache.Set("portrait", portrait, cache.DefaultExpiration)
	s.mu.Unlock()
	return portrait, nil
}

// FlushCache drops every cached catalog
func FlushCache() {
	defaultService.FlushCacheInternal()
}

// FlushCacheInternal drops every cached catalog
func (s *Service) FlushCacheInternal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalogCache.Flush()
}
