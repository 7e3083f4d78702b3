package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"signal-portfolio/pkg/layout"
	"signal-portfolio/pkg/services"
)

var rowViewport int

// newResolveFrameCmd creates a new command for resolving a slot's frame size
func newResolveFrameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve-frame [category] [position]",
		Short: "Print the frame size of a gallery slot",
		Long:  `Print the matted frame size used for the given 1-based position in a category.`,
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			mustInitService()

			position, err := strconv.Atoi(args[1])
			if err != nil {
				fmt.Printf("Invalid position: %s\n", args[1])
				os.Exit(1)
			}
			resolveFrame(args[0], position)
		},
	}

	cmd.Flags().IntVarP(&rowViewport, "viewport", "w", 1280, "Viewport width used to compute the rendered frame width")

	return cmd
}

// resolveFrame prints the frame of one slot
func resolveFrame(category string, position int) {
	d := services.Resolver().Resolve(category, position)
	rowHeight := layout.RowHeight(rowViewport)

	orientation := "portrait"
	if d.Width > d.Height {
		orientation = "landscape"
	}

	fmt.Printf("%s #%d: %dx%d (%s)\n", category, position, d.Width, d.Height, orientation)
	fmt.Printf("At %dpx viewport: row height %dpx, frame width %.0fpx\n", rowViewport, rowHeight, layout.FrameWidth(d, rowHeight))
}
