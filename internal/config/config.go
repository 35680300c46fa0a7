package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	gconfig "github.com/gookit/config/v2"
	gyaml "github.com/gookit/config/v2/yaml"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/scottbass3/regtags/internal/httpcache"
	"github.com/scottbass3/regtags/internal/registry"
)

const (
	// PathEnv overrides the config file location.
	PathEnv = "REGTAGS_CONFIG"
	// GitHubTokenFallbackEnv is consulted when GH_API_TOKEN is unset.
	GitHubTokenFallbackEnv = "GITHUB_TOKEN"

	DefaultHTTPTimeout = 30 * time.Second
	DefaultLogLevel    = "warn"

	appDir = "regtags"
)

type Config struct {
	Log       Log               `mapstructure:"log"`
	HTTP      HTTP              `mapstructure:"http"`
	Cache     httpcache.Config  `mapstructure:"cache"`
	GitHub    GitHub            `mapstructure:"github"`
	DockerHub DockerHub         `mapstructure:"dockerhub"`
	Ignore    []string          `mapstructure:"ignore"`
	Aliases   map[string]string `mapstructure:"aliases"`

	// Path is the file the config was read from, empty when none existed.
	Path string `mapstructure:"-"`
}

type Log struct {
	Level string `mapstructure:"level"`
}

type HTTP struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type GitHub struct {
	Token string `mapstructure:"token"`
}

type DockerHub struct {
	MaxRPS int `mapstructure:"max_rps"`
}

// DefaultPath returns $XDG_CONFIG_HOME/regtags/config.yaml.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDir, "config.yaml")
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return filepath.Join(home, ".config", appDir, "config.yaml")
	}
	return "config.yaml"
}

// DefaultCachePath returns $XDG_CACHE_HOME/regtags/cache.db.
func DefaultCachePath() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, appDir, "cache.db")
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, appDir, "cache.db")
	}
	return filepath.Join(os.TempDir(), appDir, "cache.db")
}

// ResolvePath picks the config file: the explicit flag value, then
// REGTAGS_CONFIG, then DefaultPath. explicit reports whether the file must
// exist.
func ResolvePath(flagValue string) (path string, explicit bool) {
	if flagValue = strings.TrimSpace(flagValue); flagValue != "" {
		return flagValue, true
	}
	if env := strings.TrimSpace(os.Getenv(PathEnv)); env != "" {
		return env, true
	}
	return DefaultPath(), false
}

// LoadDotenv loads .env files from dirs into the process environment.
// Variables already set are left untouched and missing files are skipped.
func LoadDotenv(dirs ...string) error {
	var files []string
	seen := map[string]bool{}
	for _, dir := range dirs {
		file := filepath.Join(dir, ".env")
		if seen[file] {
			continue
		}
		seen[file] = true
		if _, err := os.Stat(file); err == nil {
			files = append(files, file)
		}
	}
	if len(files) == 0 {
		return nil
	}
	return errors.Wrap(godotenv.Load(files...), "failed to load .env")
}

// Load reads the YAML file at path, applies environment overrides and fills
// defaults. A missing file is an error only when explicit is set.
func Load(path string, explicit bool) (*Config, error) {
	c := gconfig.NewWithOptions(appDir,
		gconfig.ParseEnv,
		gconfig.Readonly,
		func(opts *gconfig.Options) {
			opts.DecoderConfig = &mapstructure.DecoderConfig{
				TagName:          "mapstructure",
				WeaklyTypedInput: true,
				DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
			}
		},
	)
	c.AddDriver(gyaml.Driver)

	cfg := new(Config)
	_, statErr := os.Stat(path)
	switch {
	case statErr == nil:
		if err := c.LoadFiles(path); err != nil {
			return nil, errors.Wrap(err, "failed to load config")
		}
		if err := c.BindStruct("", cfg); err != nil {
			return nil, errors.Wrap(err, "config binding failed")
		}
		cfg.Path = path
	case os.IsNotExist(statErr) && !explicit:
	default:
		return nil, errors.Wrapf(statErr, "failed to load config %s", path)
	}

	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	for _, key := range []string{registry.GitHubTokenEnv, GitHubTokenFallbackEnv} {
		if token := strings.TrimSpace(os.Getenv(key)); token != "" {
			c.GitHub.Token = token
			return
		}
	}
}

// validate verifies the loaded config and sets default values for missed fields.
func (c *Config) validate() error {
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return errors.Errorf("log.level %q is not a valid level", c.Log.Level)
	}

	if c.HTTP.Timeout < 0 {
		return errors.New("http.timeout must not be negative")
	}
	if c.HTTP.Timeout == 0 {
		c.HTTP.Timeout = DefaultHTTPTimeout
	}

	c.Cache.Backend = httpcache.Backend(strings.ToLower(strings.TrimSpace(string(c.Cache.Backend))))
	switch c.Cache.Backend {
	case "":
		c.Cache.Backend = httpcache.BackendBolt
	case httpcache.BackendBolt, httpcache.BackendSQLite, httpcache.BackendRedis, httpcache.BackendMemory, httpcache.BackendNone:
	default:
		return errors.Errorf("unknown cache.backend %s (supported: %s, %s, %s, %s, %s)", c.Cache.Backend,
			httpcache.BackendBolt, httpcache.BackendSQLite, httpcache.BackendRedis, httpcache.BackendMemory, httpcache.BackendNone)
	}
	if c.Cache.Path == "" {
		c.Cache.Path = DefaultCachePath()
	}
	if c.Cache.TTL < 0 {
		return errors.New("cache.ttl must not be negative")
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = httpcache.DefaultTTL
	}

	if c.DockerHub.MaxRPS < 0 {
		return errors.New("dockerhub.max_rps must not be negative")
	}
	if c.DockerHub.MaxRPS == 0 {
		c.DockerHub.MaxRPS = registry.DefaultDockerHubRPS
	}

	aliases := make(map[string]string, len(registry.DefaultAliases)+len(c.Aliases))
	for host, target := range registry.DefaultAliases {
		aliases[host] = target
	}
	for host, target := range c.Aliases {
		host = strings.TrimSpace(host)
		target = strings.TrimSpace(target)
		if host == "" || target == "" {
			return errors.Errorf("aliases: %q -> %q must name both hosts", host, target)
		}
		aliases[host] = target
	}
	c.Aliases = aliases

	return nil
}

// FetcherOptions maps the config onto registry options.
func (c *Config) FetcherOptions() registry.Options {
	return registry.Options{
		GitHubToken:    c.GitHub.Token,
		IgnorePatterns: c.Ignore,
		Aliases:        c.Aliases,
		DockerHubRPS:   c.DockerHub.MaxRPS,
	}
}
