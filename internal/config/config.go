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

// Config holds the vecjudge configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Corpus   CorpusConfig   `yaml:"corpus"`
	Index    IndexConfig    `yaml:"index"`
	Judge    JudgeConfig    `yaml:"judge"`
	Semantic SemanticConfig `yaml:"semantic"`
	Cache    CacheConfig    `yaml:"cache"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// CorpusConfig describes where documents come from and how they are chunked.
type CorpusConfig struct {
	Path          string   `yaml:"path"`
	Include       []string `yaml:"include"`
	MinChunkChars int      `yaml:"min_chunk_chars"`
	MaxChunkChars int      `yaml:"max_chunk_chars"`
}

// IndexConfig holds vector space and query settings.
type IndexConfig struct {
	MaxFeatures int `yaml:"max_features"`
	DefaultK    int `yaml:"default_k"`
	MaxK        int `yaml:"max_k"`
}

// JudgeConfig holds rubric resolution settings.
type JudgeConfig struct {
	RubricDir     string `yaml:"rubric_dir"`
	DefaultRubric string `yaml:"default_rubric"`
}

// SemanticConfig holds the OpenAI-compatible semantic checker settings.
// An empty APIKey leaves the checker unavailable; semantic rules then fail.
type SemanticConfig struct {
	APIKey          string `yaml:"api_key"`
	BaseURL         string `yaml:"base_url"`
	Model           string `yaml:"model"`
	TimeoutSec      int    `yaml:"timeout_sec"`
	MaxContextChars int    `yaml:"max_context_chars"` // 0 = unlimited
}

// Enabled reports whether a semantic backend is configured.
func (s SemanticConfig) Enabled() bool { return s.APIKey != "" }

// CacheConfig holds the optional Redis/Valkey semantic verdict cache settings.
type CacheConfig struct {
	Enabled          bool     `yaml:"enabled"`
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	TTLSec           int      `yaml:"ttl_sec"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
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

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8000
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Corpus.Path == "" {
		c.Corpus.Path = "domains/default/domain_kb"
	}
	if len(c.Corpus.Include) == 0 {
		c.Corpus.Include = []string{"**/*.txt", "**/*.md", "**/*.pdf"}
	}
	if c.Corpus.MinChunkChars == 0 {
		c.Corpus.MinChunkChars = 300
	}
	if c.Corpus.MaxChunkChars == 0 {
		c.Corpus.MaxChunkChars = 1200
	}
	if c.Index.MaxFeatures == 0 {
		c.Index.MaxFeatures = 50000
	}
	if c.Index.DefaultK <= 0 {
		c.Index.DefaultK = 4
	}
	if c.Index.MaxK <= 0 {
		c.Index.MaxK = 100
	}
	if c.Judge.RubricDir == "" {
		c.Judge.RubricDir = "domains/default/domain_rules"
	}
	if c.Judge.DefaultRubric == "" {
		c.Judge.DefaultRubric = "example_rubric"
	}
	if c.Semantic.Model == "" {
		c.Semantic.Model = "gpt-4o-mini"
	}
	if c.Semantic.TimeoutSec <= 0 {
		c.Semantic.TimeoutSec = 20
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 7 * 24 * 3600
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Corpus.MinChunkChars < 0 || c.Corpus.MaxChunkChars <= 0 {
		return fmt.Errorf("corpus chunk bounds must be positive, got min=%d max=%d",
			c.Corpus.MinChunkChars, c.Corpus.MaxChunkChars)
	}
	if c.Corpus.MinChunkChars > c.Corpus.MaxChunkChars {
		return fmt.Errorf("corpus.min_chunk_chars (%d) must not exceed corpus.max_chunk_chars (%d)",
			c.Corpus.MinChunkChars, c.Corpus.MaxChunkChars)
	}
	if c.Index.MaxFeatures < 0 {
		return fmt.Errorf("index.max_features must be positive, got %d", c.Index.MaxFeatures)
	}
	if c.Index.DefaultK > c.Index.MaxK {
		return fmt.Errorf("index.default_k (%d) must not exceed index.max_k (%d)", c.Index.DefaultK, c.Index.MaxK)
	}
	if c.Semantic.MaxContextChars < 0 {
		return fmt.Errorf("semantic.max_context_chars must not be negative, got %d", c.Semantic.MaxContextChars)
	}
	if c.Cache.Enabled && len(c.Cache.Addrs) == 0 {
		return fmt.Errorf("cache.addrs is required when cache.enabled is true")
	}
	return nil
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
