package main

import (
	"fmt"
	"os"
	"time"

	"spice-storefront/internal/config"
	"spice-storefront/internal/repository"
	"spice-storefront/internal/resolver"
	"spice-storefront/internal/service"
	"spice-storefront/internal/session"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const (
	outputJSON  = "json"
	outputTable = "table"

	// cliSession keys the tab cache for the lifetime of one invocation.
	cliSession = "catalogctl"
)

var (
	cfg    *config.Config
	logger zerolog.Logger

	storefrontService service.StorefrontService
	productService    service.ProductService
)

var rootCmd = &cobra.Command{
	Use:               "catalogctl",
	Short:             "Spice storefront catalog views from the command line",
	Long:              "Fetches the catalog API and prints the same views the storefront API serves.",
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("catalog-url", "", "Catalog API base URL (overrides CATALOG_API_URL)")
	rootCmd.PersistentFlags().StringP("output", "o", outputTable, "Output format: json, table")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log upstream calls to stderr")
}

func initServices(cmd *cobra.Command, args []string) error {
	if format, _ := cmd.Flags().GetString("output"); format != outputJSON && format != outputTable {
		return fmt.Errorf("invalid output format: %s (must be json or table)", format)
	}

	// Flags override the environment before validation
	if v, _ := cmd.Flags().GetString("catalog-url"); v != "" {
		if err := os.Setenv("CATALOG_API_URL", v); err != nil {
			return err
		}
	}
	// The CLI keeps tabs in memory only
	if err := os.Setenv("TAB_STORE", config.StoreMemory); err != nil {
		return err
	}

	var err error
	cfg, err = config.Load()
	if err != nil {
		return err
	}

	level := zerolog.WarnLevel
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		level = zerolog.DebugLevel
	}
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().
		Timestamp().
		Logger()

	catalog, err := repository.NewCatalogRepository(cfg.Catalog, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize catalog client: %w", err)
	}

	storefrontService = service.NewStorefrontService(
		catalog,
		session.NewMemoryStore(),
		resolver.NewSequencer(time.Now()),
		cfg.View,
		logger,
	)
	productService = service.NewProductService(catalog, nil, cfg.View, logger)

	return nil
}

func outputFormat(cmd *cobra.Command) string {
	format, _ := cmd.Flags().GetString("output")
	return format
}
