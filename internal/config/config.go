// Package config loads site.yaml and applies environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the project root
const FileName = "site.yaml"

// Modes
const (
	Development = "development"
	Production  = "production"
)

// Config represents site.yaml
type Config struct {
	// Mode selects strict (development) or lenient (production) content handling
	Mode string `yaml:"mode" env:"PORTFOLIO_MODE" validate:"oneof=development production"`

	Site        SiteConfig   `yaml:"site"`
	Author      AuthorConfig `yaml:"author"`
	Social      []SocialLink `yaml:"social" validate:"dive"`
	Engagements []Engagement `yaml:"engagements" validate:"dive"`
	Feed        FeedConfig   `yaml:"feed"`
	Paths       PathsConfig  `yaml:"paths"`
	Dev         DevConfig    `yaml:"dev"`
}

// SiteConfig contains document-level metadata
type SiteConfig struct {
	Title       string `yaml:"title" validate:"required"`
	Description string `yaml:"description"`
	Lang        string `yaml:"lang" validate:"required"`
}

// AuthorConfig drives the bio section
type AuthorConfig struct {
	Name     string `yaml:"name" validate:"required"`
	Greeting string `yaml:"greeting"`
	Bio      string `yaml:"bio"`
}

// SocialLink renders as "<prefix> <a href=url>label</a>"
type SocialLink struct {
	Prefix string `yaml:"prefix"`
	Label  string `yaml:"label" validate:"required"`
	URL    string `yaml:"url" validate:"required,url"`
}

// Engagement is a talk or workshop
type Engagement struct {
	Title string `yaml:"title" validate:"required"`
	Event string `yaml:"event"`
	Date  string `yaml:"date" validate:"omitempty,datetime=2006-01-02"`
	URL   string `yaml:"url" validate:"omitempty,url"`
}

// FeedConfig controls the home page post list
type FeedConfig struct {
	Heading string `yaml:"heading"`
	Limit   int    `yaml:"limit" env:"PORTFOLIO_FEED_LIMIT" validate:"min=1,max=50"`
}

// PathsConfig locates inputs and outputs relative to the project root
type PathsConfig struct {
	Content string `yaml:"content" env:"PORTFOLIO_CONTENT_DIR" validate:"required"`
	Static  string `yaml:"static" env:"PORTFOLIO_STATIC_DIR"`
	Output  string `yaml:"output" env:"PORTFOLIO_OUTPUT_DIR" validate:"required"`
	Cache   string `yaml:"cache" env:"PORTFOLIO_CACHE_DIR"`
}

// DevConfig contains development server configuration
type DevConfig struct {
	Host string `yaml:"host" env:"PORTFOLIO_HOST" validate:"required"`
	Port int    `yaml:"port" env:"PORTFOLIO_PORT" validate:"min=1,max=65535"`
}

// IsDevelopment reports whether malformed content should fail loudly
func (c *Config) IsDevelopment() bool {
	return c.Mode == Development
}

// Addr returns the dev server listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Dev.Host, c.Dev.Port)
}

// Load reads path, applies defaults and PORTFOLIO_* environment overrides,
// then validates. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	default:
		cfg, err = Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML and fills missing values from DefaultConfig.
// Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// DefaultConfig returns the configuration used when no site.yaml exists
func DefaultConfig() *Config {
	return &Config{
		Mode: Production,
		Site: SiteConfig{
			Title:       "Prince Wilson",
			Description: "Full-stack web developer based in NYC.",
			Lang:        "en",
		},
		Author: AuthorConfig{
			Name:     "Prince",
			Greeting: "Howdy",
			Bio: "I am a full-stack web developer based in NYC. I love building things and " +
				"making sure to bring people together around accessibility and security. " +
				"Beyond the work I do, I love corgis.",
		},
		Social: []SocialLink{
			{Prefix: "Follow me on", Label: "Twitter", URL: "https://twitter.com/maxcell"},
			{Prefix: "Connect with me on", Label: "LinkedIn", URL: "https://linkedin.com/in/maxcell"},
			{Prefix: "See my code on", Label: "GitHub", URL: "https://github.com/maxcell"},
		},
		Feed: FeedConfig{
			Heading: "Articles",
			Limit:   5,
		},
		Paths: PathsConfig{
			Content: "content/posts",
			Static:  "static",
			Output:  "public",
			Cache:   ".portfolio-cache",
		},
		Dev: DevConfig{
			Host: "localhost",
			Port: 8080,
		},
	}
}

// applyDefaults applies default values to missing configuration.
// Social links are only defaulted when the key is absent altogether.
func applyDefaults(config *Config) {
	defaults := DefaultConfig()

	if config.Mode == "" {
		config.Mode = defaults.Mode
	}

	if config.Site.Title == "" {
		config.Site.Title = defaults.Site.Title
	}
	if config.Site.Description == "" {
		config.Site.Description = defaults.Site.Description
	}
	if config.Site.Lang == "" {
		config.Site.Lang = defaults.Site.Lang
	}

	if config.Author == (AuthorConfig{}) {
		config.Author = defaults.Author
	}
	if config.Author.Name == "" {
		config.Author.Name = defaults.Author.Name
	}
	if config.Author.Greeting == "" {
		config.Author.Greeting = defaults.Author.Greeting
	}

	if config.Social == nil {
		config.Social = defaults.Social
	}

	if config.Feed.Heading == "" {
		config.Feed.Heading = defaults.Feed.Heading
	}
	if config.Feed.Limit == 0 {
		config.Feed.Limit = defaults.Feed.Limit
	}

	if config.Paths.Content == "" {
		config.Paths.Content = defaults.Paths.Content
	}
	if config.Paths.Output == "" {
		config.Paths.Output = defaults.Paths.Output
	}
	if config.Paths.Cache == "" {
		config.Paths.Cache = defaults.Paths.Cache
	}

	if config.Dev.Host == "" {
		config.Dev.Host = defaults.Dev.Host
	}
	if config.Dev.Port == 0 {
		config.Dev.Port = defaults.Dev.Port
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the configuration and joins every problem into one error
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, formatFieldError(e))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// formatFieldError formats a single field validation error
func formatFieldError(e validator.FieldError) string {
	field := e.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "datetime":
		return fmt.Sprintf("%s must be a date formatted as %s", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
