package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"signal-portfolio/pkg/services"
)

// newListCategoriesCmd creates a new command for listing categories
func newListCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-categories",
		Short: "List all gallery categories",
		Long:  `List all gallery categories with their source, page path and title.`,
		Run: func(cmd *cobra.Command, args []string) {
			mustInitService()
			listCategories()
		},
	}
}

// listCategories displays all categories in menu order
func listCategories() {
	categories := services.GetCategories()

	fmt.Println("Gallery Categories:")
	fmt.Println("===================")

	for _, category := range categories {
		fmt.Printf("%s\n", category.Name)
		fmt.Printf("  Title:  %s\n", category.Title)
		fmt.Printf("  Path:   %s\n", category.Stub)
		fmt.Printf("  Source: %s\n", category.Source)
		if category.Query != "" {
			fmt.Printf("  Query:  %s\n", category.Query)
		}
		fmt.Println()
	}

	fmt.Printf("Total: %d categories\n", len(categories))
}
