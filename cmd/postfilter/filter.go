package main

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/nao1215/postfilter/internal/config"
	"github.com/nao1215/postfilter/internal/database"
	"github.com/nao1215/postfilter/internal/filter"
	"github.com/nao1215/postfilter/internal/report"
	"github.com/nao1215/postfilter/internal/source"
	"github.com/spf13/cobra"
)

// NewFilterCmd creates the filter command.
func NewFilterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "List the posts of a tag, a category or a search",
		Long: `Filter selects posts the way the listing page does and prints them.

--tag takes precedence over --category. --search runs a case-insensitive
search over titles, descriptions and tags; a blank search falls back to the
tag or category selection, and to every post when there is none.

Posts are read from the /api/*.json endpoints of --source, or from the local
post store with --local.

Examples:
  # Posts tagged "go" on a running server
  postfilter filter --tag go --source https://blog.example.com

  # Search the local post store and print markdown
  postfilter filter --local --search mutex --format markdown

  # Write JSON to a file
  postfilter filter --category Patterns -f json -o patterns.json`,
		Args: cobra.NoArgs,
		RunE: runFilterCmd,
	}

	cmd.Flags().String("tag", "", "Select the posts of a tag")
	cmd.Flags().String("category", "", "Select the posts of a category")
	cmd.Flags().StringP("search", "s", "", "Free-text search")
	cmd.Flags().String("source", config.DefaultBaseURL, "Base URL serving the /api/*.json datasets")
	cmd.Flags().Bool("local", false, "Read the local post store instead of --source")
	cmd.Flags().String("db", "", "Post store directory for --local (default: XDG data directory)")
	cmd.Flags().StringP("format", "f", config.DefaultFormat, "Output format: text, html, json or markdown")
	cmd.Flags().StringP("output", "o", "", "Write output to the specified file path (creates directories if needed)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout, "Dataset fetch timeout")
	cmd.Flags().String("proxy", "", "SOCKS5 proxy address (host:port) for --source requests")
	cmd.Flags().Bool("details", false, "Show post descriptions in text output")

	return cmd
}

func runFilterCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildFilterConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return configError(err)
	}

	logger := setupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var src source.Source
	if cfg.UseDB {
		db, err := database.Open(cfg.DBDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			return fmt.Errorf("failed to open post store: %w", err)
		}
		defer db.Close()
		src = db
	} else {
		client, err := newHTTPClient(cfg)
		if err != nil {
			return err
		}
		src, err = source.NewHTTPSource(cfg.BaseURL,
			source.WithHTTPClient(client),
			source.WithUserAgent(cfg.UserAgent),
			source.WithMaxBodySize(cfg.MaxBodySize),
			source.WithLogger(logger),
		)
		if err != nil {
			return err
		}
	}

	values, text, err := filterValues(cmd)
	if err != nil {
		return err
	}

	var container filter.Buffer
	page := filter.NewPage(src, &container,
		filter.WithTimeout(cfg.Timeout),
		filter.WithPageLogger(logger),
	)
	page.Select(values)
	result := page.Search(ctx, text)

	out, err := openOutput(cmd, cfg.OutputFile)
	if err != nil {
		return err
	}
	w, err := newResultWriter(cmd, cfg.Format, out)
	if err != nil {
		_ = out.Close()
		return err
	}
	if err := writeResult(w, out, result); err != nil {
		return err
	}

	if result.Outcome == filter.OutcomeError {
		return fmt.Errorf("failed to load posts: %w", result.Err)
	}
	if cfg.OutputFile != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Output written to: %s\n", cfg.OutputFile)
	}
	return nil
}

// buildFilterConfig overlays the filter flags onto the loaded configuration.
func buildFilterConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	for flag, dst := range map[string]*string{
		"source": &cfg.BaseURL,
		"db":     &cfg.DBDir,
		"format": &cfg.Format,
		"proxy":  &cfg.ProxyAddress,
	} {
		if err := overrideString(cmd, flag, dst); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("timeout") {
		if cfg.Timeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if cfg.UseDB, err = cmd.Flags().GetBool("local"); err != nil {
		return nil, err
	}
	if cfg.OutputFile, err = cmd.Flags().GetString("output"); err != nil {
		return nil, err
	}
	return cfg, nil
}

// filterValues converts the selection flags into listing query parameters
// and returns the search text separately.
func filterValues(cmd *cobra.Command) (url.Values, string, error) {
	values := url.Values{}
	for _, name := range []string{filter.ParamTag, filter.ParamCategory} {
		if !cmd.Flags().Changed(name) {
			continue
		}
		v, err := cmd.Flags().GetString(name)
		if err != nil {
			return nil, "", err
		}
		values.Set(name, v)
	}
	text, err := cmd.Flags().GetString("search")
	if err != nil {
		return nil, "", err
	}
	return values, text, nil
}

func newResultWriter(cmd *cobra.Command, format string, out io.Writer) (report.Writer, error) {
	if format == config.FormatText {
		details, err := cmd.Flags().GetBool("details")
		if err != nil {
			return nil, err
		}
		return report.NewTextWriter(out, report.WithVerbose(details)), nil
	}
	return report.NewWriter(format, out)
}

// writeResult writes result and closes out. A failed close fails the
// write, since buffered file data may be lost.
func writeResult(w report.Writer, out io.Closer, result filter.Result) error {
	_, writeErr := w.Write(result)
	closeErr := out.Close()
	if writeErr != nil {
		return fmt.Errorf("failed to write output: %w", writeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close output: %w", closeErr)
	}
	return nil
}

// nopCloser keeps the command's stdout open after writing.
type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// openOutput returns the command's stdout, or the file at path when set.
func openOutput(cmd *cobra.Command, path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{cmd.OutOrStdout()}, nil
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(path) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}
