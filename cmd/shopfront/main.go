package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shopfront/cmd/shopfront/shop"
	"shopfront/internal/cart"
	"shopfront/internal/catalog"
	"shopfront/internal/config"
	"shopfront/internal/fakestore"
	"shopfront/internal/logging"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
)

var (
	// Global flags
	configPath string
	apiURL     string
	category   string
	debug      bool

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd launches the interactive storefront.
var rootCmd = &cobra.Command{
	Use:   "shopfront",
	Short: "shopfront - a terminal storefront",
	Long: `shopfront is a terminal storefront client for a fakestore-compatible
catalog API. Run without arguments to browse products, filter by category,
search, and fill an in-memory cart.

State lives for the session only; there is no account, no persistence, and
checkout is a stub.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = config.DefaultPath()
		}
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return err
		}
		if apiURL != "" {
			cfg.API.BaseURL = apiURL
		}
		if debug {
			cfg.Logging.Debug = true
		}

		// The interactive UI owns the terminal; everything else may log to
		// stderr.
		if cmd.Use == "shopfront" {
			logger, err = logging.NewTUI(cfg.Logging)
		} else {
			logger, err = logging.New(cfg.Logging)
		}
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		store := catalog.NewStore(newClient(), logger)
		if category != "" {
			store.SetSelectedCategory(category)
		}
		return shop.Run(cfg, store, cart.New(logger), logger)
	},
}

// productsCmd prints the product list once and exits.
var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List products from the catalog API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout())
		defer cancel()

		store := catalog.NewStore(newClient(), logger)
		if err := store.FetchProducts(ctx, category); err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tPRICE\tCATEGORY\tRATING")
		for _, p := range store.Products() {
			fmt.Fprintf(w, "%d\t%s\t%s%.2f\t%s\t%.1f (%d)\n",
				p.ID, p.Title, cfg.UI.Currency, p.Price, p.Category, p.Rating.Rate, p.Rating.Count)
		}
		return w.Flush()
	},
}

// productCmd fetches a single product by id.
var productCmd = &cobra.Command{
	Use:   "product [id]",
	Short: "Show one product by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("product id must be an integer, got %q", args[0])
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout())
		defer cancel()

		p, err := newClient().ProductByID(ctx, id)
		if err != nil {
			return err
		}

		fmt.Printf("%s\n%s%.2f · %s · rated %.1f (%d reviews)\n\n%s\n",
			p.Title, cfg.UI.Currency, p.Price, p.Category, p.Rating.Rate, p.Rating.Count, p.Description)
		return nil
	},
}

// categoriesCmd prints the category list once and exits.
var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List catalog categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout())
		defer cancel()

		store := catalog.NewStore(newClient(), logger)
		if err := store.FetchCategories(ctx); err != nil {
			return err
		}
		for _, c := range store.Categories() {
			fmt.Println(c)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("shopfront %s (%s)\n", version, commit)
	},
}

func newClient() *fakestore.Client {
	return fakestore.New(cfg.API.BaseURL, cfg.RequestTimeout(), logger)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.shopfront/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Catalog API base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&category, "category", "", "Start with this category filter")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(productsCmd)
	rootCmd.AddCommand(productCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
