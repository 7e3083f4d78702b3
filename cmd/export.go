package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"signal-portfolio/pkg/models"
	"signal-portfolio/pkg/services"
)

// newExportCmd creates a new command for exporting catalog data
func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [format]",
		Short: "Export catalog data",
		Long:  `Export every category with its items in the specified format. Supported formats: json, yaml.`,
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			mustInitService()

			format := "json"
			if len(args) > 0 {
				format = args[0]
			}
			exportData(cmd.Context(), format)
		},
	}
}

// exportData exports catalog data in the specified format
func exportData(ctx context.Context, format string) {
	if format != "json" && format != "yaml" {
		fmt.Printf("Unsupported export format: %s\n", format)
		fmt.Println("Supported formats: json, yaml")
		os.Exit(1)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var views []models.CatalogView
	for _, category := range services.GetCategories() {
		view, err := services.GetCatalogView(ctx, category.Name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Skipping %s: %v\n", category.Name, err)
			continue
		}
		views = append(views, view)
	}

	var (
		data []byte
		err  error
	)
	if format == "yaml" {
		data, err = yaml.Marshal(views)
	} else {
		data, err = json.MarshalIndent(views, "", "  ")
	}
	if err != nil {
		fmt.Printf("Error marshaling data: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(string(data))
}
