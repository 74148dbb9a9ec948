package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tcia-tools/apollo-report/filter"
	"github.com/tcia-tools/apollo-report/helpers"
	"github.com/tcia-tools/apollo-report/nbia"
	"github.com/tcia-tools/apollo-report/report"
)

// ============================================================================
// APOLLO-REPORT CLI — TCIA APOLLO-5 monthly reporting
// ============================================================================

const version = "0.1.0"

func main() {
	baseURL := flag.String("base-url", "https://services.cancerimagingarchive.net/nbia-api/services/v1", "NBIA API base URL")
	username := flag.String("username", os.Getenv("NBIA_USERNAME"), "NBIA username (or NBIA_USERNAME)")
	password := flag.String("password", os.Getenv("NBIA_PASSWORD"), "NBIA password (or NBIA_PASSWORD)")
	outDir := flag.String("out-dir", ".", "Directory for the exported report")
	filterPath := flag.String("filter", "", "Path to a filter spec JSON; prints the filtered report as CSV to stdout")
	format := flag.String("format", "csv", "Export format: csv, xlsx, both")
	verbose := flag.Bool("verbose", false, "Console logging at debug level")
	showVersion := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `apollo-report — TCIA APOLLO-5 monthly reporting

Usage:
  apollo-report --username alice --password ...
  apollo-report --out-dir reports --format both
  apollo-report --filter filters.json > narrowed.csv

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Environment:
  NBIA_USERNAME, NBIA_PASSWORD    Credential fallbacks for --username/--password

Filter spec JSON maps column name to a predicate, e.g.:
  {"Collection": {"In": ["APOLLO-5-LSCC"]}, "ImageCount": {"Min": 100, "Max": 500}}
`)
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("apollo-report %s\n", version)
		return
	}

	log := newLogger(*verbose)
	defer log.Sync()

	if *username == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "Please enter your username and password.")
		os.Exit(1)
	}

	ctx := context.Background()
	client := nbia.NewClient(*baseURL, 30*time.Second, log)

	if err := client.Authenticate(ctx, *username, *password); err != nil {
		if errors.Is(err, nbia.ErrAuthentication) {
			fmt.Fprintln(os.Stderr, "Login failed. Please check your credentials.")
		} else {
			fmt.Fprintf(os.Stderr, "An error occurred: %v\n", err)
		}
		os.Exit(1)
	}

	gen := report.NewGenerator(client, log,
		report.WithOutputDir(*outDir),
		report.WithProgress(func(stage string) {
			fmt.Fprintf(os.Stderr, "... %s\n", stage)
		}),
	)

	rpt, filename, err := gen.Generate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "An error occurred: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Monthly report generated: %s (%d rows)\n", filename, rpt.Len())

	if *format == "xlsx" || *format == "both" {
		xlsxName := strings.TrimSuffix(filename, ".csv") + ".xlsx"
		if err := report.ExportXLSX(rpt, *outDir, xlsxName); err != nil {
			fmt.Fprintf(os.Stderr, "An error occurred: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Workbook exported: %s\n", xlsxName)
	}

	if *filterPath != "" {
		spec, err := loadFilterSpec(*filterPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "An error occurred: %v\n", err)
			os.Exit(1)
		}
		narrowed := filter.Apply(rpt, spec)
		log.Info("filters applied",
			zap.Int("before", rpt.Len()),
			zap.Int("after", narrowed.Len()),
		)
		if err := helpers.WriteCSV(narrowed, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "An error occurred: %v\n", err)
			os.Exit(1)
		}
	}
}

// loadFilterSpec reads a column→predicate map from a JSON file.
func loadFilterSpec(path string) (filter.Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read filter spec: %w", err)
	}
	var spec filter.Spec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse filter spec: %w", err)
	}
	return spec, nil
}

// newLogger builds the process logger: JSON in normal runs, console debug
// with --verbose.
func newLogger(verbose bool) *zap.Logger {
	var cfg zap.Config
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		// stdout is reserved for filtered CSV output
		cfg.OutputPaths = []string{"stderr"}
		cfg.ErrorOutputPaths = []string{"stderr"}
	}
	log, err := cfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	return log
}
