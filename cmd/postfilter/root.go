package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for postfilter.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "postfilter",
		Short: "Index, serve and filter blog posts",
		Long: `postfilter manages the post listing of a blog.

It indexes markdown articles (or RSS/Atom feeds) into a local SQLite post
store, serves the /api/posts.json, /api/tags.json and /api/categories.json
datasets together with server-rendered listing pages, and filters posts by
tag, category or free text from the command line.

Settings are read from .postfilter in the current or home directory; flags
override the file.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("json-log", false, "Write logs as JSON")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .postfilter in current or home directory)")

	cmd.AddCommand(NewIndexCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewFilterCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
