// Command geostats summarizes country records by category for charting.
//
// Usage:
//
//	geostats countries.json --category region_countries
//	curl -s https://restcountries.com/v2/all | geostats - -c languages -f table
//	geostats countryInfo.txt.bz2 -c population --near 48.85,2.35 --radius 1500
//
// Sources may be a JSON array of records, a Geonames countryInfo.txt file (optionally
// bzip2-compressed), "-" for standard input, or an http(s) URL.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/andreiashu/geostats"
)

// options holds the command line flags.
type options struct {
	category   string
	format     string
	near       string
	radius     float64
	timeout    time.Duration
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	var logger *zap.Logger

	cmd := &cobra.Command{
		Use:   "geostats [source]",
		Short: "Summarize country records by category",
		Long: `geostats turns country records into category summaries for charting.

Categories: ` + categoryList() + `

Per-record categories emit one entry per record; region_countries and
region_timezones emit one entry per region in first-seen order.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			logger, err = newLogger(opts.verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, opts, logger)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.category, "category", "c", string(geostats.CategoryPopulation), "category to summarize")
	flags.StringVarP(&opts.format, "format", "f", formatJSON, "output format (json|table)")
	flags.StringVar(&opts.near, "near", "", "only keep records near a point, as lat,lng")
	flags.Float64Var(&opts.radius, "radius", defaultRadiusKm, "radius in km for --near")
	flags.DurationVar(&opts.timeout, "timeout", 30*time.Second, "HTTP timeout for URL sources")
	flags.StringVar(&opts.configPath, "config", "", "YAML config file with default settings")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	return cmd
}

// newLogger builds a production zap logger, at debug level when verbose.
func newLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

func run(cmd *cobra.Command, args []string, opts *options, logger *zap.Logger) error {
	source := ""
	if len(args) > 0 {
		source = args[0]
	}

	if opts.configPath != "" {
		cfg, err := loadConfig(opts.configPath)
		if err != nil {
			return err
		}
		source = cfg.apply(cmd.Flags(), opts, source)
	}
	if source == "" {
		return fmt.Errorf("no source given: pass a path, URL or - as argument or set source in --config")
	}

	loader := geostats.NewLoader(
		geostats.WithTimeout(opts.timeout),
		geostats.WithLogger(logger),
		geostats.WithStdin(cmd.InOrStdin()),
	)
	records, err := loader.Load(cmd.Context(), source)
	if err != nil {
		return err
	}

	if opts.near != "" {
		lat, lng, err := parseLatLng(opts.near)
		if err != nil {
			return err
		}
		before := len(records)
		records = geostats.WithinRadius(records, lat, lng, opts.radius)
		logger.Debug("filtered records by distance",
			zap.Float64("lat", lat), zap.Float64("lng", lng), zap.Float64("radius_km", opts.radius),
			zap.Int("before", before), zap.Int("after", len(records)))
	}

	category := geostats.Category(opts.category)
	if !category.Valid() {
		fields := []zap.Field{zap.String("category", opts.category)}
		if suggestion, ok := geostats.SuggestCategory(opts.category); ok {
			fields = append(fields, zap.String("suggestion", suggestion.String()))
		}
		logger.Warn("unknown category, result will be empty", fields...)
	}

	entries := geostats.Categorize(records, category)
	return render(cmd.OutOrStdout(), opts.format, entries)
}

// parseLatLng parses "lat,lng".
func parseLatLng(s string) (float64, float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid --near %q: want lat,lng", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid latitude in --near %q: %w", s, err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid longitude in --near %q: %w", s, err)
	}
	return lat, lng, nil
}

func categoryList() string {
	names := make([]string, 0, len(geostats.Categories()))
	for _, c := range geostats.Categories() {
		names = append(names, c.String())
	}
	return strings.Join(names, ", ")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
