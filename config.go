package embauche

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/embauche/internal/store"
)

// Config configures the embauche service.
type Config struct {
	// ThreadID is the HN item scraped when callers do not name one.
	ThreadID string `yaml:"thread_id"`

	// BaseURL is the HN host. Thread pages live at BaseURL/item?id=<thread>.
	BaseURL string `yaml:"base_url"`

	// Fetch settings
	UserAgent    string        `yaml:"user_agent"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	MaxBytes     int64         `yaml:"max_bytes"`

	// MinTextLen drops postings shorter than this many runes.
	MinTextLen int `yaml:"min_text_len"`

	// Cache settings for the JSON snapshot store.
	Cache store.Config `yaml:"cache"`
}

func (c *Config) defaults() {
	if c.ThreadID == "" {
		c.ThreadID = "44434574"
	}
	if c.BaseURL == "" {
		c.BaseURL = "https://news.ycombinator.com"
	}
	if c.UserAgent == "" {
		c.UserAgent = "embauche/1.0"
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 30 * time.Second
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = 10 * 1024 * 1024
	}
	if c.MinTextLen <= 0 {
		c.MinTextLen = 100
	}
	if c.Cache.Dir == "" {
		c.Cache.Dir = "cache"
	}
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = time.Hour
	}
}

func defaultConfig() *Config {
	return &Config{
		ThreadID:     "44434574",
		BaseURL:      "https://news.ycombinator.com",
		UserAgent:    "embauche/1.0",
		FetchTimeout: 30 * time.Second,
		MaxBytes:     10 * 1024 * 1024,
		MinTextLen:   100,
		Cache: store.Config{
			Dir: "cache",
			TTL: time.Hour,
		},
	}
}

// LoadConfigFile reads a YAML config file.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
