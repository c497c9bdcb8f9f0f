package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nao1215/postfilter/internal/config"
	"github.com/nao1215/postfilter/internal/database"
	"github.com/nao1215/postfilter/internal/server"
	"github.com/spf13/cobra"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the post datasets and listing pages over HTTP",
		Long: `Serve starts an HTTP server on top of the post store.

Routes:
  /api/posts.json, /api/tags.json, /api/categories.json   JSON datasets
  /?tag=NAME, /?category=NAME, /search?q=TEXT            listing pages
  /posts/SLUG                                            article pages

Run "postfilter index" first to fill the post store.

Examples:
  # Serve on the default address
  postfilter serve

  # Serve on port 3000 with custom assets
  postfilter serve --addr :3000 --static ./static`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("addr", "a", config.DefaultAddr, "Listen address")
	cmd.Flags().String("db", "", "Post store directory (default: XDG data directory)")
	cmd.Flags().String("static", "", "Directory served under /static/ (default: built-in stylesheet)")
	cmd.Flags().String("title", server.DefaultSiteTitle, "Site title shown in page headers")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout, "Dataset fetch timeout of listing pages")

	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	for flag, dst := range map[string]*string{
		"addr":   &cfg.Addr,
		"db":     &cfg.DBDir,
		"static": &cfg.StaticDir,
	} {
		if err := overrideString(cmd, flag, dst); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("timeout") {
		if cfg.Timeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
			return err
		}
	}
	title, err := cmd.Flags().GetString("title")
	if err != nil {
		return err
	}

	cfg.UseDB = true
	if err := cfg.Validate(); err != nil {
		return configError(err)
	}

	logger := setupLogger(cfg)

	db, err := database.Open(cfg.DBDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return fmt.Errorf("failed to open post store (run \"postfilter index\" first): %w", err)
	}
	defer db.Close()

	srv, err := server.New(db,
		server.WithLogger(logger),
		server.WithTimeout(cfg.Timeout),
		server.WithStaticDir(cfg.StaticDir),
		server.WithSiteTitle(title),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Serving %s on %s\n", db.Path(), cfg.Addr)
	return srv.ListenAndServe(ctx, cfg.Addr)
}
