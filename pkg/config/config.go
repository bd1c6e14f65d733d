// Package config loads mindmap settings from a TOML file, an env file and
// the process environment, in increasing order of precedence.
//
// A config file looks like:
//
//	[llm]
//	model = "anthropic/claude-3-5-haiku-20241022"
//	temperature = 1.0
//	timeout = "3m"
//
//	[layout]
//	category_radius = 4.0
//	leaf_radius = 2.0
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
// API keys are read only from the environment (or the env file), never from
// the TOML file.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	apperrors "github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/graph"
	"github.com/matzehuels/mindmap/pkg/layout"
	"github.com/matzehuels/mindmap/pkg/llm"
)

// DefaultEnvFile is loaded when present.
const DefaultEnvFile = "auth.env"

// Environment variables read by ApplyEnv.
const (
	EnvOpenAIKey    = "OPENAI_API_KEY"
	EnvAnthropicKey = "ANTHROPIC_API_KEY"
	EnvOllamaURL    = "OLLAMA_URL"
	EnvModel        = "MINDMAP_MODEL"
	EnvRedisAddr    = "MINDMAP_REDIS_ADDR"
	EnvMongoURI     = "MINDMAP_MONGO_URI"
)

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Store backends.
const (
	StoreFile  = "file"
	StoreMongo = "mongo"
)

// Config is the complete application configuration.
type Config struct {
	LLM    LLMConfig    `toml:"llm"`
	Layout LayoutConfig `toml:"layout"`
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	Server ServerConfig `toml:"server"`
}

// LLMConfig selects the model and its sampling settings.
type LLMConfig struct {
	Model       string        `toml:"model"`
	Temperature float64       `toml:"temperature"`
	MaxTokens   int           `toml:"max_tokens"`
	Timeout     time.Duration `toml:"timeout"`
	PromptFile  string        `toml:"prompt_file"`
	OllamaURL   string        `toml:"ollama_url"`

	OpenAIKey    string `toml:"-"`
	AnthropicKey string `toml:"-"`
}

// LayoutConfig mirrors layout.Options.
type LayoutConfig struct {
	CategoryRadius float64 `toml:"category_radius"`
	LeafRadius     float64 `toml:"leaf_radius"`
	LeafSpan       float64 `toml:"leaf_span"`
}

// RenderConfig holds default render settings.
type RenderConfig struct {
	Style   string   `toml:"style"`
	Formats []string `toml:"formats"`
	Zoom    float64  `toml:"zoom"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	Prefix        string `toml:"prefix"`
}

// StoreConfig selects where generations are persisted.
type StoreConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// ServerConfig configures `mindmap serve`.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LLM: LLMConfig{
			Model:       llm.DefaultModel,
			Temperature: llm.DefaultTemperature,
			MaxTokens:   llm.DefaultMaxTokens,
			Timeout:     llm.DefaultTimeout,
		},
		Layout: LayoutConfig{
			CategoryRadius: layout.DefaultCategoryRadius,
			LeafRadius:     layout.DefaultLeafRadius,
			LeafSpan:       layout.DefaultLeafSpan,
		},
		Render: RenderConfig{
			Style:   graph.StyleRadial,
			Formats: []string{graph.FormatSVG},
			Zoom:    4,
		},
		Cache:  CacheConfig{Backend: CacheFile},
		Store:  StoreConfig{Backend: StoreFile, Dir: "."},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/mindmap/config.toml (or the
// platform equivalent).
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "mindmap", "config.toml")
}

// Load builds a Config from defaults, the TOML file at path, the env file
// and the environment. An empty path means DefaultPath, which may be absent;
// an explicit path must exist. Unknown TOML keys are rejected.
func Load(path, envFile string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if err := cfg.decodeFile(path, explicit); err != nil {
			return Config{}, err
		}
	}

	if err := LoadEnvFile(envFile); err != nil {
		return Config{}, err
	}
	cfg.ApplyEnv(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string, mustExist bool) error {
	md, err := toml.DecodeFile(path, c)
	if errors.Is(err, os.ErrNotExist) {
		if mustExist {
			return apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return nil
	}
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return apperrors.New(apperrors.ErrCodeInvalidInput, "config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// LoadEnvFile loads variables from an env file without overriding the ones
// already set. A missing file is ignored. An empty name means DefaultEnvFile.
func LoadEnvFile(name string) error {
	if name == "" {
		name = DefaultEnvFile
	}
	if err := godotenv.Load(name); err != nil && !errors.Is(err, os.ErrNotExist) {
		return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "env file %s", name)
	}
	return nil
}

// ApplyEnv overrides settings from environment variables looked up with
// getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.LLM.OpenAIKey, EnvOpenAIKey)
	set(&c.LLM.AnthropicKey, EnvAnthropicKey)
	set(&c.LLM.OllamaURL, EnvOllamaURL)
	set(&c.LLM.Model, EnvModel)
	if v := getenv(EnvRedisAddr); v != "" {
		c.Cache.RedisAddr = v
		c.Cache.Backend = CacheRedis
	}
	if v := getenv(EnvMongoURI); v != "" {
		c.Store.MongoURI = v
		c.Store.Backend = StoreMongo
	}
}

// Validate checks ranges and enum values.
func (c Config) Validate() error {
	if _, _, err := llm.ParseModel(c.LLM.Model); err != nil {
		return err
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return invalid("llm.temperature", strconv.FormatFloat(c.LLM.Temperature, 'g', -1, 64), "between 0 and 2")
	}
	if c.LLM.MaxTokens <= 0 {
		return invalid("llm.max_tokens", strconv.Itoa(c.LLM.MaxTokens), "positive")
	}
	if c.LLM.OllamaURL != "" {
		if err := apperrors.ValidateURL(c.LLM.OllamaURL); err != nil {
			return err
		}
	}
	if err := c.Layout.Options().Validate(); err != nil {
		return err
	}
	if !slices.Contains(graph.Styles, c.Render.Style) {
		return apperrors.New(apperrors.ErrCodeInvalidStyle, "render.style %q: must be one of %s", c.Render.Style, strings.Join(graph.Styles, ", "))
	}
	for _, f := range c.Render.Formats {
		if !slices.Contains(graph.Formats, f) {
			return apperrors.New(apperrors.ErrCodeInvalidFormat, "render.formats: %q must be one of %s", f, strings.Join(graph.Formats, ", "))
		}
	}
	if c.Render.Zoom <= 0 {
		return invalid("render.zoom", strconv.FormatFloat(c.Render.Zoom, 'g', -1, 64), "positive")
	}
	switch c.Cache.Backend {
	case CacheNone, CacheFile:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return invalid("cache.redis_addr", `""`, "set for the redis backend")
		}
	default:
		return invalid("cache.backend", c.Cache.Backend, "none, file or redis")
	}
	switch c.Store.Backend {
	case StoreFile:
	case StoreMongo:
		if c.Store.MongoURI == "" {
			return invalid("store.mongo_uri", `""`, "set for the mongo backend")
		}
	default:
		return invalid("store.backend", c.Store.Backend, "file or mongo")
	}
	return nil
}

func invalid(key, got, want string) error {
	return apperrors.New(apperrors.ErrCodeInvalidInput, "%s = %s: must be %s", key, got, want)
}

// Options converts the section to layout options.
func (c LayoutConfig) Options() layout.Options {
	return layout.Options{
		CategoryRadius: c.CategoryRadius,
		LeafRadius:     c.LeafRadius,
		LeafSpan:       c.LeafSpan,
	}
}

// Client converts the section to an llm.Config.
func (c LLMConfig) Client() llm.Config {
	return llm.Config{
		OpenAIKey:    c.OpenAIKey,
		AnthropicKey: c.AnthropicKey,
		OllamaURL:    c.OllamaURL,
		Timeout:      c.Timeout,
	}
}
