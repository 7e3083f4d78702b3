package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"signal-portfolio/pkg/lightbox"
	"signal-portfolio/pkg/services"
)

// newShowCatalogCmd creates a new command for showing a category's items
func newShowCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show-catalog [category]",
		Short: "Show the items of a gallery category",
		Long:  `Show every slot of a category in gallery order with its frame size and credits.`,
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			mustInitService()
			showCatalog(cmd.Context(), args[0])
		},
	}
}

// showCatalog displays the slots of one category
func showCatalog(ctx context.Context, name string) {
	if ctx == nil {
		ctx = context.Background()
	}

	view, err := services.GetCatalogView(ctx, name)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	resolver := services.Resolver()

	fmt.Printf("Category: %s\n", view.Category.Title)
	fmt.Printf("Source: %s\n", view.Category.Source)
	fmt.Printf("Items: %d\n", view.Total)
	fmt.Println("================")

	for i, item := range view.Items {
		frame := resolver.Resolve(view.Category.Name, i+1)
		marker := ""
		if !item.ForceVisible {
			marker = " (placeholder)"
		}

		fmt.Printf("%02d. %s [%s, %dx%d]%s\n", i+1, item.AltText, item.Kind, frame.Width, frame.Height, marker)
		if item.PreviewSource != "" {
			fmt.Printf("    Preview: %s\n", item.PreviewSource)
		}
		if item.FullSource != "" && item.FullSource != item.PreviewSource {
			fmt.Printf("    Full: %s\n", item.FullSource)
		}
		for _, line := range lightbox.Attribution(item) {
			fmt.Printf("    %s\n", line)
		}
	}
}
