package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"signal-portfolio/pkg/repository"
)

var inquiryLimit int

// newListInquiriesCmd creates a new command for listing stored inquiries
func newListInquiriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list-inquiries",
		Short: "List contact form inquiries",
		Long:  `List the inquiries stored by the contact form, newest first.`,
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := LoadConfig()
			if err != nil {
				fmt.Printf("Failed to load configuration: %v\n", err)
				os.Exit(1)
			}
			db, err := repository.NewSQLiteDB(cfg.DatabasePath)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}
			defer db.Close()

			listInquiries(cmd.Context(), repository.NewInquiryRepository(db))
		},
	}

	cmd.Flags().IntVarP(&inquiryLimit, "limit", "n", 20, "Maximum number of inquiries to show")

	return cmd
}

// listInquiries displays stored inquiries
func listInquiries(ctx context.Context, repo repository.InquiryRepo) {
	if ctx == nil {
		ctx = context.Background()
	}

	total, err := repo.Count(ctx)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	inquiries, err := repo.List(ctx, inquiryLimit)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Inquiries:")
	fmt.Println("==========")

	for _, inquiry := range inquiries {
		fmt.Printf("%s  %s <%s>\n", inquiry.CreatedAt.Format("2006-01-02 15:04"), inquiry.Name, inquiry.Email)
		fmt.Printf("  %s\n", inquiry.Message)
		fmt.Println()
	}

	fmt.Printf("Showing %d of %d inquiries\n", len(inquiries), total)
}
