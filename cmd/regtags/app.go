package main

import (
	"io"
	"net/http"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/scottbass3/regtags/internal/config"
	"github.com/scottbass3/regtags/internal/httpcache"
	"github.com/scottbass3/regtags/internal/registry"
)

type options struct {
	configPath string
	debug      bool
	noCache    bool

	stdout io.Writer
	stderr io.Writer
}

// setupError marks failures that happen before any registry is contacted.
type setupError struct {
	err error
}

func (e *setupError) Error() string { return e.err.Error() }

func (e *setupError) Unwrap() error { return e.err }

type app struct {
	cfg     *config.Config
	logger  zerolog.Logger
	store   httpcache.Store
	fetcher *registry.Fetcher
}

func loadConfig(opts *options) (*config.Config, error) {
	path, explicit := config.ResolvePath(opts.configPath)
	if err := config.LoadDotenv(".", filepath.Dir(path)); err != nil {
		return nil, &setupError{err: err}
	}
	cfg, err := config.Load(path, explicit)
	if err != nil {
		return nil, &setupError{err: err}
	}
	return cfg, nil
}

// newApp wires config, logging, cache and registries. logCh, when set,
// receives formatted request lines instead of stderr.
func newApp(opts *options, logCh chan<- string) (*app, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	level := cfg.Log.Level
	if opts.debug {
		level = zerolog.LevelDebugValue
	}
	out := opts.stderr
	if logCh != nil {
		out = io.Discard
	}
	logger, err := setupLogger(out, level)
	if err != nil {
		return nil, &setupError{err: err}
	}

	if opts.noCache {
		cfg.Cache.Backend = httpcache.BackendNone
	}
	store, err := httpcache.Open(cfg.Cache)
	if err != nil {
		logger.Warn().Err(err).Str("backend", string(cfg.Cache.Backend)).Msg("cache unavailable, continuing without it")
		store = nil
	}

	transport := httpcache.NewTransport(nil, store, cfg.Cache.TTL, logger.With().Str("component", "httpcache").Logger())
	fetcherOpts := cfg.FetcherOptions()
	fetcherOpts.HTTPClient = &http.Client{Timeout: cfg.HTTP.Timeout, Transport: transport}
	fetcherOpts.Logger = newRequestLogger(logger, logCh)

	fetcher, err := registry.NewFetcher(fetcherOpts)
	if err != nil {
		if store != nil {
			_ = store.Close()
		}
		return nil, &setupError{err: err}
	}

	logger.Debug().
		Str("config", cfg.Path).
		Str("cache", string(cfg.Cache.Backend)).
		Bool("github_token", cfg.GitHub.Token != "").
		Msg("regtags configured")

	return &app{cfg: cfg, logger: logger, store: store, fetcher: fetcher}, nil
}

func (a *app) Close() {
	if a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil {
		a.logger.Warn().Err(err).Msg("failed to close cache")
	}
}
