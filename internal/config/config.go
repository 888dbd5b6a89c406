package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv      = "NEWSDIGEST_CONFIG"
	newsAPIKeyEnv      = "NEWS_API_KEY"
	topicEnv           = "NEWS_TOPIC"
	articleCountEnv    = "ARTICLE_COUNT"
	domainsEnv         = "NEWS_DOMAINS"
	openAIKeyEnv       = "OPENAI_API_KEY"
	anthropicKeyEnv    = "ANTHROPIC_API_KEY"
	providerEnv        = "SUMMARIZER_PROVIDER"
	sendGridKeyEnv     = "SENDGRID_API_KEY"
	senderEmailEnv     = "SENDER_EMAIL"
	recipientEmailEnv  = "RECIPIENT_EMAIL"
	logLevelEnv        = "LOG_LEVEL"
	sentryDSNEnv       = "SENTRY_DSN"
	defaultMaxChars    = 15000
	defaultPageTimeout = 10 * time.Second
)

// Config holds every setting the newsletter run needs. It is built once and
// handed to each component at construction.
type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Sentry     SentryConfig     `yaml:"sentry"`
	Schedule   ScheduleConfig   `yaml:"schedule"`
	Source     SourceConfig     `yaml:"source"`
	Extractor  ExtractorConfig  `yaml:"extractor"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
	Email      EmailConfig      `yaml:"email"`
}

// LoggingConfig selects the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SentryConfig enables error reporting when DSN is set.
type SentryConfig struct {
	DSN         string `yaml:"dsn"`
	Environment string `yaml:"environment"`
}

// ScheduleConfig switches between a single run and a recurring one.
type ScheduleConfig struct {
	Interval string `yaml:"interval"`
}

// Every parses Interval. Zero means run once.
func (s ScheduleConfig) Every() time.Duration {
	if strings.TrimSpace(s.Interval) == "" {
		return 0
	}
	d, err := time.ParseDuration(s.Interval)
	if err != nil || d < 0 {
		log.Printf("config: invalid schedule interval %q, running once", s.Interval)
		return 0
	}
	return d
}

// SourceConfig describes where articles come from.
type SourceConfig struct {
	Kind     string   `yaml:"kind"`
	Endpoint string   `yaml:"endpoint"`
	APIKey   string   `yaml:"apiKey"`
	Topic    string   `yaml:"topic"`
	Count    int      `yaml:"count"`
	Domains  []string `yaml:"domains"`
	Language string   `yaml:"language"`
	Feeds    []string `yaml:"feeds"`
}

// ExtractorConfig tunes page downloads and text extraction.
type ExtractorConfig struct {
	Strategy  string        `yaml:"strategy"`
	UserAgent string        `yaml:"userAgent"`
	Timeout   time.Duration `yaml:"timeout"`
	MaxChars  int           `yaml:"maxChars"`
}

// SummarizerConfig defines how to contact the language model.
type SummarizerConfig struct {
	Provider     string `yaml:"provider"`
	Model        string `yaml:"model"`
	APIKey       string `yaml:"apiKey"`
	BaseURL      string `yaml:"baseUrl"`
	SystemPrompt string `yaml:"systemPrompt"`
	MaxChars     int    `yaml:"maxChars"`
}

// EmailConfig wires SendGrid delivery.
type EmailConfig struct {
	APIKey    string `yaml:"apiKey"`
	Host      string `yaml:"host"`
	Sender    string `yaml:"sender"`
	Recipient string `yaml:"recipient"`
	Subject   string `yaml:"subject"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else if fileCfg, err := Parse(raw); err != nil {
			log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
		} else {
			cfg = mergeConfig(cfg, fileCfg)
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

// Parse decodes a YAML document without applying defaults.
func Parse(raw []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(newsAPIKeyEnv); v != "" {
		c.Source.APIKey = v
	}
	if v := os.Getenv(topicEnv); v != "" {
		c.Source.Topic = v
	}
	if v := os.Getenv(articleCountEnv); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Source.Count = n
		} else {
			log.Printf("config: ignoring %s=%q", articleCountEnv, v)
		}
	}
	if v := os.Getenv(domainsEnv); v != "" {
		c.Source.Domains = splitList(v)
	}

	if v := os.Getenv(providerEnv); v != "" && v != c.Summarizer.Provider {
		c.Summarizer.Provider = v
		c.Summarizer.Model = defaultModel(v)
	}
	switch c.Summarizer.Provider {
	case "anthropic":
		if v := os.Getenv(anthropicKeyEnv); v != "" {
			c.Summarizer.APIKey = v
		}
	default:
		if v := os.Getenv(openAIKeyEnv); v != "" {
			c.Summarizer.APIKey = v
		}
	}

	if v := os.Getenv(sendGridKeyEnv); v != "" {
		c.Email.APIKey = v
	}
	if v := os.Getenv(senderEmailEnv); v != "" {
		c.Email.Sender = v
	}
	if v := os.Getenv(recipientEmailEnv); v != "" {
		c.Email.Recipient = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(sentryDSNEnv); v != "" {
		c.Sentry.DSN = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Sentry.DSN != "" {
		base.Sentry = override.Sentry
	}
	if override.Schedule.Interval != "" {
		base.Schedule.Interval = override.Schedule.Interval
	}

	if override.Source.Kind != "" {
		base.Source.Kind = override.Source.Kind
	}
	if override.Source.Endpoint != "" {
		base.Source.Endpoint = override.Source.Endpoint
	}
	if override.Source.APIKey != "" {
		base.Source.APIKey = override.Source.APIKey
	}
	if override.Source.Topic != "" {
		base.Source.Topic = override.Source.Topic
	}
	if override.Source.Count > 0 {
		base.Source.Count = override.Source.Count
	}
	if len(override.Source.Domains) > 0 {
		base.Source.Domains = override.Source.Domains
	}
	if override.Source.Language != "" {
		base.Source.Language = override.Source.Language
	}
	if len(override.Source.Feeds) > 0 {
		base.Source.Feeds = override.Source.Feeds
	}

	if override.Extractor.Strategy != "" {
		base.Extractor.Strategy = override.Extractor.Strategy
	}
	if override.Extractor.UserAgent != "" {
		base.Extractor.UserAgent = override.Extractor.UserAgent
	}
	if override.Extractor.Timeout > 0 {
		base.Extractor.Timeout = override.Extractor.Timeout
	}
	if override.Extractor.MaxChars > 0 {
		base.Extractor.MaxChars = override.Extractor.MaxChars
	}

	if override.Summarizer.Provider != "" {
		base.Summarizer.Provider = override.Summarizer.Provider
		// Model defaults belong to the previous provider.
		base.Summarizer.Model = defaultModel(override.Summarizer.Provider)
	}
	if override.Summarizer.Model != "" {
		base.Summarizer.Model = override.Summarizer.Model
	}
	if override.Summarizer.APIKey != "" {
		base.Summarizer.APIKey = override.Summarizer.APIKey
	}
	if override.Summarizer.BaseURL != "" {
		base.Summarizer.BaseURL = override.Summarizer.BaseURL
	}
	if override.Summarizer.SystemPrompt != "" {
		base.Summarizer.SystemPrompt = override.Summarizer.SystemPrompt
	}
	if override.Summarizer.MaxChars > 0 {
		base.Summarizer.MaxChars = override.Summarizer.MaxChars
	}

	if override.Email.APIKey != "" {
		base.Email.APIKey = override.Email.APIKey
	}
	if override.Email.Host != "" {
		base.Email.Host = override.Email.Host
	}
	if override.Email.Sender != "" {
		base.Email.Sender = override.Email.Sender
	}
	if override.Email.Recipient != "" {
		base.Email.Recipient = override.Email.Recipient
	}
	if override.Email.Subject != "" {
		base.Email.Subject = override.Email.Subject
	}

	return base
}

func defaultModel(provider string) string {
	if provider == "anthropic" {
		return "claude-haiku-4-5"
	}
	return "gpt-3.5-turbo"
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Source: SourceConfig{
			Kind:     "newsapi",
			Endpoint: "https://newsapi.org",
			Topic:    "artificial intelligence",
			Count:    5,
			Domains: []string{
				"reuters.com", "apnews.com", "bbc.co.uk", "theverge.com",
				"techcrunch.com", "wired.com", "arstechnica.com",
			},
			Language: "en",
		},
		Extractor: ExtractorConfig{
			Strategy:  "paragraphs",
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
			Timeout:   defaultPageTimeout,
			MaxChars:  defaultMaxChars,
		},
		Summarizer: SummarizerConfig{
			Provider:     "openai",
			Model:        defaultModel("openai"),
			SystemPrompt: "You are a helpful assistant. Summarize the following news article into a concise, email-friendly paragraph (3-4 sentences).",
			MaxChars:     defaultMaxChars,
		},
		Email: EmailConfig{
			APIKey:  "YOUR_SENDGRID_API_KEY_HERE",
			Subject: "Your AI-Powered News Newsletter",
		},
	}
}
