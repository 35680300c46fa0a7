package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/scottbass3/regtags/internal/httpcache"
	"github.com/scottbass3/regtags/internal/registry"
	"github.com/scottbass3/regtags/internal/tui"
)

const (
	exitOK = iota
	exitFetchError
	exitConfigError
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	// Listen to termination signals.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return exitCode(err)
	}
	return exitOK
}

func exitCode(err error) int {
	var configErr *registry.ConfigError
	var setupErr *setupError
	if errors.As(err, &configErr) || errors.As(err, &setupErr) {
		return exitConfigError
	}
	return exitFetchError
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "regtags REPO",
		Short: "List the tags of a container image across public registries.",
		Long: `regtags lists the tags of a repository on Docker Hub, GitHub Container Registry,
Quay or Amazon ECR Public, one "tag - date" line per tag.

  regtags redis
  regtags ghcr.io/home-assistant/home-assistant
  regtags quay.io/prometheus/node-exporter
  regtags public.ecr.aws/nginx/nginx

Listing ghcr.io repositories requires GH_API_TOKEN (or GITHUB_TOKEN).`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			lines, err := a.fetcher.FetchTags(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, line := range lines {
				fmt.Fprintln(opts.stdout, line)
			}
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to config file (defaults to $XDG_CONFIG_HOME/regtags/config.yaml)")
	flags.BoolVar(&opts.debug, "debug", false, "Enable debug logging of registry requests")
	flags.BoolVar(&opts.noCache, "no-cache", false, "Bypass the response cache")

	root.AddCommand(newBrowseCmd(opts), newCacheCmd(opts))
	return root
}

func newBrowseCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "browse REPO",
		Short: "Browse the tags of a repository interactively.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var logCh chan string
			if opts.debug {
				logCh = make(chan string, 256)
			}
			a, err := newApp(opts, logCh)
			if err != nil {
				return err
			}
			defer a.Close()

			program := tea.NewProgram(
				tui.NewModel(a.fetcher, args[0], opts.debug, logCh),
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
			)
			if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
				return err
			}
			return nil
		},
	}
}

func newCacheCmd(opts *options) *cobra.Command {
	cache := &cobra.Command{
		Use:   "cache",
		Short: "Manage the response cache.",
	}
	cache.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every cached registry response.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			store, err := httpcache.Open(cfg.Cache)
			if err != nil {
				return errors.Wrap(err, "open cache")
			}
			if store == nil {
				fmt.Fprintln(opts.stdout, "Cache is disabled")
				return nil
			}
			defer store.Close()

			if err := store.Clear(cmd.Context()); err != nil {
				return errors.Wrap(err, "clear cache")
			}
			fmt.Fprintf(opts.stdout, "Cleared %s cache\n", cfg.Cache.Backend)
			return nil
		},
	})
	return cache
}
