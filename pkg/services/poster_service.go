package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/disintegration/imaging"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"

	"signal-portfolio/pkg/logging"
	"signal-portfolio/pkg/models"
)

const (
	// colorDifferenceThreshold is the minimum difference between colour components
	// for two pixels to count as different (accounts for compression artifacts)
	colorDifferenceThreshold = 256

	// posterMaxDim bounds the longer side of an uploaded poster
	posterMaxDim = 1880
	posterQuality = 85
)

// ErrBucketNotConfigured is returned by poster operations without BUCKET_NAME
var ErrBucketNotConfigured = errors.New("BUCKET_NAME environment variable not set")

// ErrSolidPoster is returned when an extracted frame is a single flat colour
var ErrSolidPoster = errors.New("poster appears to be a solid color")

// ProgressCallback is a function that receives progress updates
type ProgressCallback func(step string, progress int)

// PosterReport summarises a bulk poster run
type PosterReport struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// GeneratePoster extracts a poster frame for one bucket video
func GeneratePoster(ctx context.Context, videoPath string, timeMs int, progressCb ProgressCallback) error {
	return defaultService.GeneratePoster(ctx, videoPath, timeMs, progressCb)
}

// GeneratePosters creates posters for bucket videos that have none
func GeneratePosters(ctx context.Context, timeMs int, force bool) (PosterReport, error) {
	return defaultService.GeneratePosters(ctx, timeMs, force)
}

// ClearPoster removes a poster image from the bucket
func ClearPoster(ctx context.Context, posterPath string) error {
	return defaultService.ClearPoster(ctx, posterPath)
}

// GeneratePoster extracts a poster frame for one bucket video and uploads it
// next to the video as <base>.jpg
func (s *Service) GeneratePoster(ctx context.Context, videoPath string, timeMs int, progressCb ProgressCallback) error {
	sendProgress := func(step string, progress int) {
		if progressCb != nil {
			progressCb(step, progress)
		}
	}

	if !s.config.BucketEnabled() {
		return ErrBucketNotConfigured
	}

	sendProgress("Checking FFmpeg", 5)
	if err := checkFFmpeg(ctx); err != nil {
		return err
	}

	sendProgress("Connecting to storage", 15)
	client, err := storage.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create storage client: %w", err)
	}
	defer client.Close()
	bucket := client.Bucket(s.config.BucketName)

	workDir, err := os.MkdirTemp("", "signal-posters")
	if err != nil {
		return fmt.Errorf("failed to create work directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	if err := s.posterFor(ctx, bucket, workDir, videoPath, timeMs, sendProgress); err != nil {
		return err
	}

	sendProgress("Clearing cache", 95)
	s.FlushCacheInternal()

	sendProgress("Complete", 100)
	return nil
}

func (s *Service) posterFor(ctx context.Context, bucket *storage.BucketHandle, workDir, videoPath string, timeMs int, sendProgress ProgressCallback) error {
	videoPath = strings.TrimPrefix(videoPath, "/")
	posterPath := posterPathFor(videoPath)

	sendProgress("Downloading video", 30)
	tmpVideo := filepath.Join(workDir, safeFilename(videoPath))
	if err := downloadObject(ctx, bucket, videoPath, tmpVideo); err != nil {
		return fmt.Errorf("error downloading video: %w", err)
	}
	defer os.Remove(tmpVideo)

	sendProgress("Extracting frame", 60)
	tmpFrame := filepath.Join(workDir, safeFilename(posterPath))
	if err := extractFrame(ctx, tmpVideo, tmpFrame, timeMs); err != nil {
		return fmt.Errorf("error extracting frame: %w", err)
	}
	defer os.Remove(tmpFrame)

	sendProgress("Validating poster", 75)
	img, err := imaging.Open(tmpFrame)
	if err != nil {
		return fmt.Errorf("failed to decode frame: %w", err)
	}
	if err := validatePoster(img); err != nil {
		return err
	}

	sendProgress("Uploading poster", 85)
	if err := uploadPoster(ctx, bucket, fitPoster(img), posterPath); err != nil {
		return fmt.Errorf("error uploading poster: %w", err)
	}
	return nil
}

// GeneratePosters scans the bucket and creates posters for videos with no
// image of the same base name. force regenerates every poster.
func (s *Service) GeneratePosters(ctx context.Context, timeMs int, force bool) (PosterReport, error) {
	var report PosterReport

	if !s.config.BucketEnabled() {
		return report, ErrBucketNotConfigured
	}
	if err := checkFFmpeg(ctx); err != nil {
		return report, err
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to create storage client: %w", err)
	}
	defer client.Close()
	bucket := client.Bucket(s.config.BucketName)

	var names []string
	it := bucket.Objects(ctx, nil)
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return report, fmt.Errorf("error iterating objects: %w", err)
		}
		names = append(names, attrs.Name)
	}

	workDir, err := os.MkdirTemp("", "signal-posters")
	if err != nil {
		return report, fmt.Errorf("failed to create work directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	pending := VideosNeedingPosters(names, force)
	report.Skipped = countVideos(names) - len(pending)

	for _, videoPath := range pending {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err := s.posterFor(ctx, bucket, workDir, videoPath, timeMs, func(string, int) {}); err != nil {
			logging.L().Warn("poster generation failed", zap.String("video", videoPath), zap.Error(err))
			report.Failed++
			continue
		}
		logging.L().Info("poster generated", zap.String("video", videoPath))
		report.Processed++
	}

	s.FlushCacheInternal()
	return report, nil
}

// ClearPoster deletes a poster image so the next bulk run regenerates it
func (s *Service) ClearPoster(ctx context.Context, posterPath string) error {
	if !s.config.BucketEnabled() {
		return ErrBucketNotConfigured
	}
	if mediaKind(posterPath) != models.KindImage {
		return fmt.Errorf("not an image: %s", posterPath)
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create storage client: %w", err)
	}
	defer client.Close()

	if err := client.Bucket(s.config.BucketName).Object(strings.TrimPrefix(posterPath, "/")).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete poster: %w", err)
	}

	s.FlushCacheInternal()
	return nil
}

// VideosNeedingPosters returns the video objects among names that have no
// image with the same base name, or every video when force is set
func VideosNeedingPosters(names []string, force bool) []string {
	posters := make(map[string]bool)
	for _, name := range names {
		if mediaKind(name) == models.KindImage {
			posters[strings.TrimSuffix(name, path.Ext(name))] = true
		}
	}

	var videos []string
	for _, name := range names {
		if mediaKind(name) != models.KindVideo {
			continue
		}
		if force || !posters[strings.TrimSuffix(name, path.Ext(name))] {
			videos = append(videos, name)
		}
	}
	return videos
}

func countVideos(names []string) int {
	n := 0
	for _, name := range names {
		if mediaKind(name) == models.KindVideo {
			n++
		}
	}
	return n
}

func posterPathFor(videoPath string) string {
	return strings.TrimSuffix(videoPath, path.Ext(videoPath)) + ".jpg"
}

func checkFFmpeg(ctx context.Context) error {
	if err := exec.CommandContext(ctx, "ffmpeg", "-version").Run(); err != nil {
		return fmt.Errorf("FFmpeg is required but not found: %w", err)
	}
	return nil
}

// ffmpegTimestamp formats milliseconds as HH:MM:SS.mmm
func ffmpegTimestamp(timeMs int) string {
	if timeMs < 0 {
		timeMs = 0
	}
	totalSeconds := timeMs / 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d",
		totalSeconds/3600, (totalSeconds%3600)/60, totalSeconds%60, timeMs%1000)
}

func extractFrame(ctx context.Context, videoPath, framePath string, timeMs int) error {
	cmd := exec.CommandContext(ctx,
		"ffmpeg",
		"-ss", ffmpegTimestamp(timeMs),
		"-i", videoPath,
		"-vf", "thumbnail",
		"-frames:v", "1",
		"-q:v", "2",
		"-y",
		framePath,
	)

	var stderr strings.Builder
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg failed: %w, stderr: %s", err, stderr.String())
	}
	return nil
}

func downloadObject(ctx context.Context, bucket *storage.BucketHandle, src, dst string) error {
	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("os.Create: %w", err)
	}
	defer f.Close()

	reader, err := bucket.Object(src).NewReader(ctx)
	if err != nil {
		return fmt.Errorf("Object(%q).NewReader: %w", src, err)
	}
	defer reader.Close()

	if _, err := io.Copy(f, reader); err != nil {
		return fmt.Errorf("io.Copy: %w", err)
	}
	return nil
}

// fitPoster scales img down so its longer side is at most posterMaxDim
func fitPoster(img image.Image) image.Image {
	b := img.Bounds()
	if b.Dx() <= posterMaxDim && b.Dy() <= posterMaxDim {
		return img
	}
	return imaging.Fit(img, posterMaxDim, posterMaxDim, imaging.Lanczos)
}

func uploadPoster(ctx context.Context, bucket *storage.BucketHandle, img image.Image, dst string) error {
	writer := bucket.Object(dst).NewWriter(ctx)
	writer.ContentType = "image/jpeg"

	if err := imaging.Encode(writer, img, imaging.JPEG, imaging.JPEGQuality(posterQuality)); err != nil {
		writer.Close()
		return fmt.Errorf("encode poster: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("Writer.Close: %w", err)
	}
	return nil
}

// validatePoster samples a 10x10 grid and rejects frames where fewer than 1%
// of the samples differ from the top-left pixel
func validatePoster(img image.Image) error {
	bounds := img.Bounds()
	stepX := max(bounds.Dx()/10, 1)
	stepY := max(bounds.Dy()/10, 1)

	r1, g1, b1, a1 := img.At(bounds.Min.X, bounds.Min.Y).RGBA()

	differentPixels := 0
	totalSamples := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y += stepY {
		for x := bounds.Min.X; x < bounds.Max.X; x += stepX {
			totalSamples++
			r2, g2, b2, a2 := img.At(x, y).RGBA()
			if abs(int(r1)-int(r2)) > colorDifferenceThreshold ||
				abs(int(g1)-int(g2)) > colorDifferenceThreshold ||
				abs(int(b1)-int(b2)) > colorDifferenceThreshold ||
				abs(int(a1)-int(a2)) > colorDifferenceThreshold {
				differentPixels++
			}
		}
	}

	if totalSamples > 0 && float64(differentPixels)/float64(totalSamples) < 0.01 {
		return fmt.Errorf("%w (only %d/%d sampled pixels differ)", ErrSolidPoster, differentPixels, totalSamples)
	}
	return nil
}

// safeFilename flattens an object name into a local file name, hashing
// names too long for the filesystem
func safeFilename(name string) string {
	base := filepath.Base(name)
	if len(base) <= 200 {
		return base
	}

	hash := sha256.Sum256([]byte(name))
	short := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`<>:"/\|?*`, r) {
			return '_'
		}
		return r
	}, base[:20])
	return fmt.Sprintf("%s-%s%s", short, hex.EncodeToString(hash[:8]), filepath.Ext(base))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
