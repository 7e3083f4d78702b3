package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"signal-portfolio/pkg/logging"
	"signal-portfolio/pkg/models"
)

const (
	pexelsPhotoSearchURL = "https://api.pexels.com/v1/search"
	pexelsVideoSearchURL = "https://api.pexels.com/videos/search"

	// stockItems is how many items a stock gallery shows
	stockItems = 20
	// videoEvery is how many photos sit between two interleaved videos
	videoEvery = 4

	stockClient     = "Pexels"
	defaultPhotoAlt = "Fashion photography"
)

// ErrMissingAPIKey is returned when the stock media API key is not configured
var ErrMissingAPIKey = errors.New("PEXELS_API_KEY environment variable not set")

// PexelsPhoto is a photo search hit
type PexelsPhoto struct {
	ID           int    `json:"id"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	URL          string `json:"url"`
	Photographer string `json:"photographer"`
	Alt          string `json:"alt"`
	Src          struct {
		Original  string `json:"original"`
		Large2x   string `json:"large2x"`
		Large     string `json:"large"`
		Medium    string `json:"medium"`
		Small     string `json:"small"`
		Portrait  string `json:"portrait"`
		Landscape string `json:"landscape"`
		Tiny      string `json:"tiny"`
	} `json:"src"`
}

// PhotoSearchResult is the photo search response
type PhotoSearchResult struct {
	Page         int           `json:"page"`
	PerPage      int           `json:"per_page"`
	Photos       []PexelsPhoto `json:"photos"`
	TotalResults int           `json:"total_results"`
	NextPage     string        `json:"next_page,omitempty"`
}

// PexelsVideoFile is one encoding of a video
type PexelsVideoFile struct {
	ID       int    `json:"id"`
	Quality  string `json:"quality"`
	FileType string `json:"file_type"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Link     string `json:"link"`
}

// PexelsVideo is a video search hit
type PexelsVideo struct {
	ID       int    `json:"id"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	URL      string `json:"url"`
	Image    string `json:"image"`
	Duration int    `json:"duration"`
	User     struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"user"`
	VideoFiles []PexelsVideoFile `json:"video_files"`
}

// VideoSearchResult is the video search response
type VideoSearchResult struct {
	Page         int           `json:"page"`
	PerPage      int           `json:"per_page"`
	Videos       []PexelsVideo `json:"videos"`
	TotalResults int           `json:"total_results"`
	NextPage     string        `json:"next_page,omitempty"`
}

// PexelsClient talks to the Pexels photo and video search APIs
type PexelsClient struct {
	apiKey     string
	photoURL   string
	videoURL   string
	httpClient *http.Client
}

// NewPexelsClient creates a client authenticated with apiKey
func NewPexelsClient(apiKey string) *PexelsClient {
	return &PexelsClient{
		apiKey:     apiKey,
		photoURL:   pexelsPhotoSearchURL,
		videoURL:   pexelsVideoSearchURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// SearchPhotos searches photos matching query
func (c *PexelsClient) SearchPhotos(ctx context.Context, query string, page, perPage int) (*PhotoSearchResult, error) {
	var result PhotoSearchResult
	if err := c.search(ctx, c.photoURL, query, page, perPage, &result); err != nil {
		return nil, fmt.Errorf("photo search: %w", err)
	}
	return &result, nil
}

// SearchVideos searches videos matching query
func (c *PexelsClient) SearchVideos(ctx context.Context, query string, page, perPage int) (*VideoSearchResult, error) {
	var result VideoSearchResult
	if err := c.search(ctx, c.videoURL, query, page, perPage, &result); err != nil {
		return nil, fmt.Errorf("video search: %w", err)
	}
	return &result, nil
}

func (c *PexelsClient) search(ctx context.Context, endpoint, query string, page, perPage int, out any) error {
	if c.apiKey == "" {
		return ErrMissingAPIKey
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", strconv.Itoa(perPage))
	params.Set("page", strconv.Itoa(page))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("Pexels API error (status %d): %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode search result: %w", err)
	}
	return nil
}

// MixedMedia fetches roughly 80% photos and 20% videos for query and
// interleaves them. The second result is the combined result count.
func (c *PexelsClient) MixedMedia(ctx context.Context, query string, page, total int) (models.Catalog, int, error) {
	photoCount := total * 8 / 10
	videoCount := total * 2 / 10

	var (
		photos *PhotoSearchResult
		videos *VideoSearchResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		photos, err = c.SearchPhotos(gctx, query, page, photoCount)
		return err
	})
	g.Go(func() error {
		var err error
		videos, err = c.SearchVideos(gctx, query, page, videoCount)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	photoItems := make(models.Catalog, 0, len(photos.Photos))
	for _, p := range photos.Photos {
		photoItems = append(photoItems, PhotoItem(p))
	}
	videoItems := make(models.Catalog, 0, len(videos.Videos))
	for _, v := range videos.Videos {
		item, ok := VideoItem(v)
		if !ok {
			logging.L().Debug("skipping video without files", zap.Int("id", v.ID))
			continue
		}
		videoItems = append(videoItems, item)
	}

	return Interleave(photoItems, videoItems), photos.TotalResults + videos.TotalResults, nil
}

// Portrait returns the first photo for query at full resolution
func (c *PexelsClient) Portrait(ctx context.Context, query string) (*models.MediaItem, error) {
	result, err := c.SearchPhotos(ctx, query, 1, 1)
	if err != nil {
		return nil, err
	}
	if len(result.Photos) == 0 {
		return nil, nil
	}
	p := result.Photos[0]
	return &models.MediaItem{
		Kind:          models.KindImage,
		PreviewSource: p.Src.Large2x,
		FullSource:    p.Src.Large2x,
		AltText:       firstNonEmpty(p.Alt, "Portrait"),
		IntrinsicSize: &models.Size{Width: p.Width, Height: p.Height},
		ForceVisible:  true,
	}, nil
}

// Interleave places one video after every fourth photo and appends the
// videos that are left over
func Interleave(photos, videos models.Catalog) models.Catalog {
	mixed := make(models.Catalog, 0, len(photos)+len(videos))
	vi := 0
	for i, p := range photos {
		mixed = append(mixed, p)
		if (i+1)%videoEvery == 0 && vi < len(videos) {
			mixed = append(mixed, videos[vi])
			vi++
		}
	}
	return append(mixed, videos[vi:]...)
}

// PhotoItem converts a photo hit into a gallery item
func PhotoItem(p PexelsPhoto) models.MediaItem {
	return models.MediaItem{
		Kind:          models.KindImage,
		PreviewSource: p.Src.Large,
		FullSource:    p.Src.Large2x,
		AltText:       firstNonEmpty(p.Alt, defaultPhotoAlt),
		Attribution: &models.Attribution{
			Photographer: p.Photographer,
			Client:       stockClient,
			Details:      fmt.Sprintf("Photo by %s on Pexels", p.Photographer),
		},
		IntrinsicSize: &models.Size{Width: p.Width, Height: p.Height},
		ForceVisible:  true,
	}
}

// VideoItem converts a video hit into a gallery item. It prefers the HD
// file; videos with no files are rejected.
func VideoItem(v PexelsVideo) (models.MediaItem, bool) {
	if len(v.VideoFiles) == 0 {
		return models.MediaItem{}, false
	}
	link := v.VideoFiles[0].Link
	for _, f := range v.VideoFiles {
		if f.Quality == "hd" {
			link = f.Link
			break
		}
	}

	return models.MediaItem{
		Kind:          models.KindVideo,
		PreviewSource: v.Image,
		FullSource:    link,
		AltText:       fmt.Sprintf("Video by %s", v.User.Name),
		Attribution: &models.Attribution{
			Photographer: v.User.Name,
			Client:       stockClient,
			Details:      fmt.Sprintf("Video by %s on Pexels", v.User.Name),
		},
		IntrinsicSize: &models.Size{Width: v.Width, Height: v.Height},
		ForceVisible:  true,
	}, true
}

// StockSource fills a category from the stock media search
type StockSource struct {
	client *PexelsClient
	items  int
}

// NewStockSource creates a source backed by client
func NewStockSource(client *PexelsClient) *StockSource {
	return &StockSource{client: client, items: stockItems}
}

// Load searches the category's query
func (s *StockSource) Load(ctx context.Context, category models.Category) (models.Catalog, error) {
	items, _, err := s.client.MixedMedia(ctx, category.Query, 1, s.items)
	return items, err
}
