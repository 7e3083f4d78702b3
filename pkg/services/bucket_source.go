package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"

	"signal-portfolio/pkg/logging"
	"signal-portfolio/pkg/models"
)

var (
	videoExtensions = []string{".mp4", ".m4v", ".webm", ".mov", ".avi"}
	imageExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".gif"}
)

// signedURLTTL is how long bucket links handed to browsers stay valid
const signedURLTTL = 24 * time.Hour

// BucketObject is a listed object together with its signed URL
type BucketObject struct {
	Name string
	URL  string
}

// BucketSource serves categories stored as <category>/<name>.<ext> objects
type BucketSource struct {
	bucketName string
}

// NewBucketSource creates a source over the named bucket
func NewBucketSource(bucketName string) *BucketSource {
	return &BucketSource{bucketName: bucketName}
}

// Load lists the category's folder and signs every media object
func (s *BucketSource) Load(ctx context.Context, category models.Category) (models.Catalog, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	defer client.Close()

	bucket := client.Bucket(s.bucketName)
	it := bucket.Objects(ctx, &storage.Query{Prefix: category.Name + "/"})

	var objects []BucketObject
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error iterating objects: %w", err)
		}
		if mediaKind(attrs.Name) == "" {
			continue
		}

		signedURL, err := bucket.SignedURL(attrs.Name, &storage.SignedURLOptions{
			Expires: time.Now().Add(signedURLTTL),
			Method:  "GET",
		})
		if err != nil {
			logging.L().Warn("error creating signed URL", zap.String("object", attrs.Name), zap.Error(err))
			continue
		}
		objects = append(objects, BucketObject{Name: attrs.Name, URL: signedURL})
	}

	return GroupObjects(category.Name, objects), nil
}

// GroupObjects turns a category folder listing into catalog order.
// A video and an image sharing a base name become one video with that image
// as its poster. Objects outside the folder or in subfolders are skipped.
func GroupObjects(category string, objects []BucketObject) models.Catalog {
	type entry struct {
		base  string
		video string
		image string
	}
	entries := make(map[string]*entry)

	for _, obj := range objects {
		dir, filename := path.Split(obj.Name)
		if strings.TrimSuffix(dir, "/") != category || filename == "" {
			continue
		}

		base := strings.TrimSuffix(filename, path.Ext(filename))
		e, ok := entries[base]
		if !ok {
			e = &entry{base: base}
			entries[base] = e
		}

		switch mediaKind(filename) {
		case models.KindVideo:
			e.video = obj.URL
		case models.KindImage:
			e.image = obj.URL
		}
	}

	sorted := make([]*entry, 0, len(entries))
	for _, e := range entries {
		sorted = append(sorted, e)
	}
	// Sort alphabetically with natural sorting for numbers
	sort.Slice(sorted, func(i, j int) bool {
		return naturalLess(sorted[i].base, sorted[j].base)
	})

	items := make(models.Catalog, 0, len(sorted))
	for _, e := range sorted {
		item := models.MediaItem{
			Kind:          models.KindImage,
			PreviewSource: e.image,
			FullSource:    e.image,
			AltText:       e.base,
			ForceVisible:  true,
		}
		if e.video != "" {
			item.Kind = models.KindVideo
			item.FullSource = e.video
		}
		items = append(items, item)
	}
	return items
}

func mediaKind(name string) models.MediaKind {
	ext := strings.ToLower(path.Ext(name))
	for _, v := range videoExtensions {
		if ext == v {
			return models.KindVideo
		}
	}
	for _, i := range imageExtensions {
		if ext == i {
			return models.KindImage
		}
	}
	return ""
}
