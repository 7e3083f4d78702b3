package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"signal-portfolio/pkg/logging"
	"signal-portfolio/pkg/services"
)

// Command options
var (
	forceRegenerate bool
	frameTimeMs     int // Time in milliseconds where to extract the frame
	singleVideo     string
)

// newGeneratePostersCmd creates a new command for generating video posters
func newGeneratePostersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate-posters",
		Short: "Generate poster images for bucket videos without one",
		Long: `Generate poster images for videos in the bucket that have no image with the same
base name. A frame is extracted with ffmpeg, rejected if it is a solid colour, scaled
and uploaded next to the video as <name>.jpg.`,
		Run: func(cmd *cobra.Command, args []string) {
			cfg := mustInitService()
			if !cfg.BucketEnabled() {
				logging.L().Fatal("BUCKET_NAME environment variable not set")
			}

			if singleVideo != "" {
				err := services.GeneratePoster(cmd.Context(), singleVideo, frameTimeMs, func(step string, progress int) {
					fmt.Printf("[%3d%%] %s\n", progress, step)
				})
				if err != nil {
					logging.L().Fatal("Poster generation failed", zap.String("video", singleVideo), zap.Error(err))
				}
				return
			}

			report, err := services.GeneratePosters(cmd.Context(), frameTimeMs, forceRegenerate)
			if err != nil {
				logging.L().Fatal("Poster generation failed", zap.Error(err))
			}

			fmt.Println("\nSummary:")
			fmt.Printf("  Generated: %d\n", report.Processed)
			fmt.Printf("  Skipped:   %d\n", report.Skipped)
			fmt.Printf("  Failed:    %d\n", report.Failed)
		},
	}

	// Add command-specific flags
	cmd.Flags().BoolVarP(&forceRegenerate, "force", "f", false, "Force regeneration of all posters, even if they exist")
	cmd.Flags().IntVarP(&frameTimeMs, "time", "t", 1000, "Time in milliseconds where to extract the poster frame")
	cmd.Flags().StringVar(&singleVideo, "video", "", "Only generate the poster of this bucket object")

	return cmd
}
