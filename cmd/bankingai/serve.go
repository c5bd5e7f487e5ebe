package bankingai

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/dasdy/bankingai/cache"
	"github.com/dasdy/bankingai/layout"
	"github.com/dasdy/bankingai/logging"
	"github.com/dasdy/bankingai/web"
	"github.com/dasdy/bankingai/web/routes"
	"github.com/spf13/cobra"
)

var (
	port         int
	dev          bool
	redisAddr    string
	searchDelay  time.Duration
	pageTTL      time.Duration
	pageCacheMax int
	rateLimit    float64
	rateBurst    int
	defaultWidth int
	estimator    = layout.DefaultEstimator()
)

func addEstimatorFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&estimator.CollapsedHeight, "collapsed-height", layout.DefaultCollapsedHeight,
		"Estimated height of a collapsed section")
	cmd.Flags().IntVar(&estimator.BaseExpandedHeight, "base-expanded-height", layout.DefaultBaseExpandedHeight,
		"Estimated height of an expanded section without items")
	cmd.Flags().IntVar(&estimator.PerItemHeight, "per-item-height", layout.DefaultPerItemHeight,
		"Estimated height added by each item of an expanded section")
}

func newPageCache(ctx context.Context) (cache.Cache, error) {
	switch {
	case redisAddr != "":
		c, err := cache.NewRedisCache(ctx, redisAddr)
		if err != nil {
			return nil, err
		}

		slog.InfoContext(ctx, "Caching pages in redis", "addr", redisAddr)

		return c, nil
	case dev:
		// Always render fresh pages while developing.
		return cache.NewNullCache(), nil
	default:
		c := cache.NewMemoryCache(pageCacheMax)
		go c.Run(ctx)

		return c, nil
	}
}

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web interface",
	Long: `Serve the search page, results and transaction details. Without --storage
the built-in fixtures are served from memory and searches are not recorded.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		ctx = logging.WithPackage(ctx, "serve")

		if err := estimator.Validate(); err != nil {
			return err
		}

		set, err := loadFixtures()
		if err != nil {
			return fmt.Errorf("could not load fixtures: %w", err)
		}

		catalog, queryLog, err := openCatalog(ctx, storagePath, set)
		if err != nil {
			return err
		}
		defer catalog.Close()

		pageCache, err := newPageCache(ctx)
		if err != nil {
			return err
		}
		defer pageCache.Close()

		handler, err := routes.NewServerHandler(catalog, queryLog)
		if err != nil {
			return err
		}

		handler.PageCache = pageCache
		handler.PageTTL = pageTTL
		handler.Estimator = estimator
		handler.DefaultWidth = defaultWidth
		handler.SearchDelay = searchDelay

		return web.StartServer(ctx, port, handler, web.Options{
			Dev:       dev,
			RateLimit: rateLimit,
			RateBurst: rateBurst,
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVarP(&port, "port", "p", 9000,
		"Port on which server should be watching")

	serveCmd.Flags().StringVarP(
		&storagePath,
		"storage",
		"s",
		"",
		"SQLite file to serve from (default: fixtures in memory)")

	serveCmd.Flags().BoolVar(&dev,
		"dev",
		false,
		"Enable developer mode")

	serveCmd.Flags().StringVar(&redisAddr, "redis-addr", "",
		"Redis address for the page cache (default: in-process cache)")
	serveCmd.Flags().DurationVar(&searchDelay, "search-delay", routes.DefaultSearchDelay,
		"Simulated thinking time before showing results")
	serveCmd.Flags().DurationVar(&pageTTL, "page-ttl", routes.DefaultPageTTL,
		"How long rendered transaction pages are cached")
	serveCmd.Flags().IntVar(&pageCacheMax, "page-cache-size", cache.DefaultMaxEntries,
		"Pages kept by the in-process cache")
	serveCmd.Flags().Float64Var(&rateLimit, "rate-limit", 1,
		"Searches per second allowed per client IP, 0 disables limiting")
	serveCmd.Flags().IntVar(&rateBurst, "rate-burst", 5,
		"Searches a client may burst above the rate limit")
	serveCmd.Flags().IntVar(&defaultWidth, "default-width", routes.DefaultWidth,
		"Viewport width assumed when the browser has not reported one")

	addEstimatorFlags(serveCmd)
}
