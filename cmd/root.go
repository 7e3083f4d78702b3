package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"signal-portfolio/pkg/config"
	"signal-portfolio/pkg/logging"
	"signal-portfolio/pkg/services"
)

// Configuration flags
var (
	bucketName  string
	portNumber  string
	catalogFile string
	adminKey    string
	verbose     bool
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "signal-portfolio",
		Short: "SIGNAL portfolio serves and manages the studio's photography galleries",
		Long: `SIGNAL portfolio is a command line application that serves the studio website
and inspects its media catalog. Galleries come from the built-in catalog, the Pexels
stock API or a Google Cloud Storage bucket.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logging.Init(verbose, os.Getenv("LOG_LEVEL"))
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logging.Sync()
		},
	}

	// Define persistent flags that will be available for all commands
	rootCmd.PersistentFlags().StringVarP(&bucketName, "bucket", "b", "", "Set the BUCKET_NAME (overrides environment variable)")
	rootCmd.PersistentFlags().StringVarP(&portNumber, "port", "p", "", "Set the PORT (overrides environment variable)")
	rootCmd.PersistentFlags().StringVarP(&catalogFile, "catalog", "c", "", "Set the CATALOG_FILE (overrides environment variable)")
	rootCmd.PersistentFlags().StringVar(&adminKey, "admin-key", "", "Set the ADMIN_KEY (overrides environment variable)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	// Add commands to root
	rootCmd.AddCommand(newListCategoriesCmd())
	rootCmd.AddCommand(newShowCatalogCmd())
	rootCmd.AddCommand(newResolveFrameCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newListInquiriesCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newGeneratePostersCmd())

	return rootCmd
}

// LoadConfig loads configuration with respect to command line flags
func LoadConfig() (*config.Config, error) {
	// Set environment variables from flags if provided
	if bucketName != "" {
		os.Setenv("BUCKET_NAME", bucketName)
	}

	if portNumber != "" {
		os.Setenv("PORT", portNumber)
	}

	if catalogFile != "" {
		os.Setenv("CATALOG_FILE", catalogFile)
	}

	if adminKey != "" {
		os.Setenv("ADMIN_KEY", adminKey)
	}

	// Load configuration from environment variables (potentially set above)
	return config.Load()
}

// mustInitService loads the configuration and sets up the catalog service,
// exiting on failure
func mustInitService() *config.Config {
	cfg, err := LoadConfig()
	if err != nil {
		logging.L().Fatal("Failed to load configuration", zap.Error(err))
	}
	if err := services.InitService(cfg); err != nil {
		logging.L().Fatal("Failed to load catalog", zap.Error(err))
	}
	return cfg
}
