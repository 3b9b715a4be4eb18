package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the vetassist API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	AI        AIConfig        `yaml:"ai"`
	Vision    VisionConfig    `yaml:"vision"`
	WebSearch WebSearchConfig `yaml:"websearch"`
	Session   SessionConfig   `yaml:"session"`
	Matching  MatchingConfig  `yaml:"matching"`
	Auth      AuthConfig      `yaml:"auth"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds admin API authentication settings.
// Write routes on /api/diseases require one of these bearer tokens.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds knowledge-store connection settings.
// Empty addrs runs the service in snapshot-only mode: lookups are served
// from the bundled record file and no connection is attempted.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // valkey, redis (default: valkey); both via rueidis
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
	KeyPrefix        string   `yaml:"key_prefix"`
}

// AIConfig selects the generation provider. Provider is resolved once at
// startup; every named provider speaks the OpenAI chat-completions API.
type AIConfig struct {
	Provider      string                    `yaml:"provider"` // groq, openai, together, ollama
	Providers     map[string]ProviderConfig `yaml:"providers"`
	MaxTokens     int                       `yaml:"max_tokens"`
	TimeoutSec    int                       `yaml:"timeout_sec"`
	HistoryWindow int                       `yaml:"history_window"` // turns sent to the model
}

// ProviderConfig holds one OpenAI-compatible endpoint.
type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// VisionConfig holds the image-description provider settings.
type VisionConfig struct {
	Provider   string `yaml:"provider"` // ollama, openai
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// WebSearchConfig holds the web-enrichment provider settings.
type WebSearchConfig struct {
	Enabled         bool   `yaml:"enabled"`
	TimeoutSec      int    `yaml:"timeout_sec"` // per provider leg
	DuckDuckGoURL   string `yaml:"duckduckgo_url"`
	WikipediaURL    string `yaml:"wikipedia_url"`
	PubMedURL       string `yaml:"pubmed_url"`
	SearXNGInstance string `yaml:"searxng_instance"`
	SummaryMaxChars int    `yaml:"summary_max_chars"`
}

// SessionConfig holds conversation-session retention settings.
type SessionConfig struct {
	TTLMinutes int `yaml:"ttl_minutes"`
	MaxTurns   int `yaml:"max_turns"`
}

// MatchingConfig holds fuzzy-lookup settings. The acceptance threshold is
// deliberately configurable rather than baked in.
type MatchingConfig struct {
	FuzzyThreshold float64 `yaml:"fuzzy_threshold"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR} / ${VAR:-default}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 15
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		// The generation call alone may take 30s; leave headroom.
		c.HTTP.WriteTimeoutSec = 90
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "valkey"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Database.KeyPrefix == "" {
		c.Database.KeyPrefix = "vetassist:"
	}
	if c.AI.Provider == "" {
		c.AI.Provider = "groq"
	}
	if c.AI.MaxTokens <= 0 {
		c.AI.MaxTokens = 1500
	}
	if c.AI.TimeoutSec <= 0 {
		c.AI.TimeoutSec = 30
	}
	if c.AI.HistoryWindow <= 0 {
		c.AI.HistoryWindow = 6
	}
	if c.Vision.Provider == "" {
		c.Vision.Provider = "ollama"
	}
	if c.Vision.TimeoutSec <= 0 {
		c.Vision.TimeoutSec = 60
	}
	if c.WebSearch.TimeoutSec <= 0 {
		c.WebSearch.TimeoutSec = 10
	}
	if c.WebSearch.DuckDuckGoURL == "" {
		c.WebSearch.DuckDuckGoURL = "https://api.duckduckgo.com"
	}
	if c.WebSearch.WikipediaURL == "" {
		c.WebSearch.WikipediaURL = "https://en.wikipedia.org/w/api.php"
	}
	if c.WebSearch.PubMedURL == "" {
		c.WebSearch.PubMedURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"
	}
	if c.WebSearch.SearXNGInstance == "" {
		c.WebSearch.SearXNGInstance = "https://searx.be"
	}
	if c.WebSearch.SummaryMaxChars <= 0 {
		c.WebSearch.SummaryMaxChars = 3000
	}
	if c.Session.TTLMinutes <= 0 {
		c.Session.TTLMinutes = 60
	}
	if c.Session.MaxTurns <= 0 {
		c.Session.MaxTurns = 10
	}
	if c.Matching.FuzzyThreshold <= 0 {
		c.Matching.FuzzyThreshold = 0.65
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Database.Driver {
	case "valkey", "redis":
	default:
		return fmt.Errorf("database.driver must be \"valkey\" or \"redis\", got %q", c.Database.Driver)
	}
	if _, ok := c.AI.Providers[c.AI.Provider]; !ok {
		return fmt.Errorf("ai.provider %q has no entry under ai.providers", c.AI.Provider)
	}
	if c.Matching.FuzzyThreshold > 1 {
		return fmt.Errorf("matching.fuzzy_threshold must be in (0, 1], got %v", c.Matching.FuzzyThreshold)
	}
	return nil
}

// AIProvider returns the selected generation provider settings.
func (c *Config) AIProvider() ProviderConfig {
	return c.AI.Providers[c.AI.Provider]
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
