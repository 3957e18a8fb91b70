package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ofiscan/ofiscan/internal/logger"
	"github.com/ofiscan/ofiscan/internal/output"
	"github.com/ofiscan/ofiscan/internal/store"
	"github.com/ofiscan/ofiscan/pkg/ofiscan"
)

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Crawl listings and print merged records",
	Long: `Walk the listing index page by page, fetch each listing's detail page
and reveal the seller's phone number.

Pagination stops at the first empty page or after --max-pages pages,
whichever comes first. Listings on one page are processed by up to
--workers concurrent workers; pages themselves are always sequential.

Examples:
  # First five pages, pretty JSON on stdout
  ofiscan crawl

  # Whole site as JSONL with a gentler pace
  ofiscan crawl --max-pages 0 --page-delay 3s --listing-delay 3s \
      --format jsonl -o all.jsonl

  # CSV export without phone reveals
  ofiscan crawl --skip-phones --format csv -o listings.csv

  # Mirror records into SQLite as well
  ofiscan crawl --db listings.db`,
	RunE: runCrawl,
}

func init() {
	rootCmd.AddCommand(crawlCmd)

	flags := crawlCmd.Flags()

	// Site settings
	flags.String("base-url", "", "site base URL (default https://ofis.az)")
	flags.String("fetch-mode", "static", "fetch mode: static, dynamic, auto")
	flags.String("user-agent", "", "override the User-Agent header")
	flags.Duration("timeout", 30*time.Second, "per-request timeout")
	flags.Float64("rate-limit", 0, "max outbound requests per second (0=unlimited)")
	flags.String("max-body-size", "0", "max response body size (e.g. 512KB, 2MB, 0=unlimited)")

	// Crawl settings
	flags.Int("start", 0, "index cursor to start from (resume an earlier crawl)")
	flags.Int("max-pages", 5, "index pages to crawl (0=until the first empty page)")
	flags.IntP("workers", "w", 5, "concurrent listing workers per page")
	flags.Duration("page-delay", 2*time.Second, "pause between index pages")
	flags.Duration("listing-delay", 2*time.Second, "pause before each listing fetch")
	flags.Bool("skip-phones", false, "do not call the phone-reveal endpoint")

	// Output settings
	flags.StringP("output", "o", "", "output file (default: stdout)")
	flags.String("format", "json", "output format: json, jsonl, yaml, csv")
	flags.String("db", "", "also upsert records into this SQLite database")

	// Bind to viper
	_ = viper.BindPFlag("base_url", flags.Lookup("base-url"))
	_ = viper.BindPFlag("user_agent", flags.Lookup("user-agent"))
	_ = viper.BindPFlag("rate_limit", flags.Lookup("rate-limit"))
}

func runCrawl(cmd *cobra.Command, args []string) error {
	// Initialize logger based on flags
	logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Debug("crawl command starting")

	opts, err := crawlOptions(cmd)
	if err != nil {
		return err
	}

	client, err := ofiscan.New(opts...)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		return err
	}
	defer func() { _ = client.Close() }()

	// Setup output
	outFile := os.Stdout
	if outPath, _ := cmd.Flags().GetString("output"); outPath != "" {
		f, err := os.Create(outPath) //#nosec G304 -- CLI tool writes to user-specified output file
		if err != nil {
			logger.Error("failed to create output file", "path", outPath, "error", err)
			return err
		}
		defer func() { _ = f.Close() }()
		outFile = f
	}

	formatStr, _ := cmd.Flags().GetString("format")
	writer, err := output.NewWriter(outFile, output.Format(formatStr))
	if err != nil {
		logger.Error("failed to create output writer", "format", formatStr, "error", err)
		return err
	}

	// Optional SQLite mirror
	var db *store.Store
	if dbPath, _ := cmd.Flags().GetString("db"); dbPath != "" {
		db, err = store.Open(dbPath)
		if err != nil {
			logger.Error("failed to open database", "path", dbPath, "error", err)
			return err
		}
		defer func() { _ = db.Close() }()
	}

	records, err := client.Crawl(ctx)
	if err != nil {
		if len(records) == 0 {
			logger.Error("crawl failed", "error", err)
			return err
		}
		// An interrupt mid-crawl still leaves completed pages worth keeping.
		logger.Warn("crawl interrupted, writing partial results", "error", err, "records", len(records))
	}

	for _, rec := range records {
		if err := writer.Write(rec); err != nil {
			logger.Error("failed to write output", "error", err)
			return err
		}
	}
	if err := writer.Close(); err != nil {
		logger.Error("failed to finalize output", "error", err)
		return err
	}

	if db != nil {
		// A fresh context so an interrupt does not also lose the save.
		saved, err := db.SaveAll(context.Background(), records)
		if err != nil {
			logger.Error("failed to save records", "error", err)
			return err
		}
		logger.Info("records saved", "count", saved)
	}

	phones := 0
	for _, rec := range records {
		if rec.Phone != "" {
			phones++
		}
	}
	logger.Info("crawl complete", "records", len(records), "phones", phones, "format", formatStr)

	return nil
}

// crawlOptions translates flags and viper settings into client options.
func crawlOptions(cmd *cobra.Command) ([]ofiscan.Option, error) {
	var opts []ofiscan.Option

	if baseURL := viper.GetString("base_url"); baseURL != "" {
		opts = append(opts, ofiscan.WithBaseURL(baseURL))
	}
	if ua := viper.GetString("user_agent"); ua != "" {
		opts = append(opts, ofiscan.WithUserAgent(ua))
	}
	if rps := viper.GetFloat64("rate_limit"); rps > 0 {
		opts = append(opts, ofiscan.WithRateLimit(rps))
	}

	fetchModeStr, _ := cmd.Flags().GetString("fetch-mode")
	switch fetchModeStr {
	case "static", "":
		opts = append(opts, ofiscan.WithFetchMode(ofiscan.FetchModeStatic))
	case "dynamic":
		opts = append(opts, ofiscan.WithFetchMode(ofiscan.FetchModeDynamic))
	case "auto":
		opts = append(opts, ofiscan.WithFetchMode(ofiscan.FetchModeAuto))
	default:
		return nil, fmt.Errorf("unknown fetch mode: %s (use 'static', 'dynamic' or 'auto')", fetchModeStr)
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	opts = append(opts, ofiscan.WithTimeout(timeout))

	// Max body size (0 or empty means unlimited)
	maxBodyStr, _ := cmd.Flags().GetString("max-body-size")
	if strings.TrimSpace(maxBodyStr) != "" && maxBodyStr != "0" {
		size, err := humanize.ParseBytes(maxBodyStr)
		if err != nil {
			logger.Error("invalid max-body-size", "value", maxBodyStr, "error", err)
			return nil, err
		}
		opts = append(opts, ofiscan.WithMaxBodySize(int(size)))
	}

	start, _ := cmd.Flags().GetInt("start")
	maxPages, _ := cmd.Flags().GetInt("max-pages")
	workers, _ := cmd.Flags().GetInt("workers")
	pageDelay, _ := cmd.Flags().GetDuration("page-delay")
	listingDelay, _ := cmd.Flags().GetDuration("listing-delay")
	skipPhones, _ := cmd.Flags().GetBool("skip-phones")

	opts = append(opts,
		ofiscan.WithStartOffset(start),
		ofiscan.WithMaxPages(maxPages),
		ofiscan.WithWorkers(workers),
		ofiscan.WithPageDelay(pageDelay),
		ofiscan.WithListingDelay(listingDelay),
		ofiscan.WithSkipPhones(skipPhones),
	)

	return opts, nil
}
