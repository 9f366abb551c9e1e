// Package config provides YAML-based configuration loading for the board server.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the database section. The KANBAN_
// prefixed names win over the bare ones.
const (
	EnvDatabaseURL       = "KANBAN_DATABASE_URL"
	EnvDatabaseAuthToken = "KANBAN_DATABASE_AUTH_TOKEN"
	envDatabaseURL       = "DATABASE_URL"
	envDatabaseAuthToken = "DATABASE_AUTH_TOKEN"
)

// DefaultDatabaseURL is used when neither the file nor the environment names a database.
const DefaultDatabaseURL = "sqlite://kanban.db"

// Config is the top-level board configuration, loaded from kanban.yaml.
type Config struct {
	Database    DatabaseConfig `yaml:"database"`
	Server      ServerConfig   `yaml:"server"`
	Council     CouncilConfig  `yaml:"council"`
	Sprints     SprintsConfig  `yaml:"sprints"`
	Notify      NotifyConfig   `yaml:"notify"`
	GitHub      GitHubConfig   `yaml:"github"`
	SeedColumns []SeedColumn   `yaml:"seed_columns"`
}

// DatabaseConfig names the store. URL and AuthToken may be overridden from
// the environment; see Resolve.
type DatabaseConfig struct {
	URL       string `yaml:"url"`
	AuthToken string `yaml:"auth_token"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// CouncilConfig points at the files the council view reads. None of them are
// owned by the board; missing files produce empty results.
type CouncilConfig struct {
	EventLog     string `yaml:"event_log"`
	CostLog      string `yaml:"cost_log"`
	DecisionsDir string `yaml:"decisions_dir"`
	TailLimit    int    `yaml:"tail_limit"`
}

// SprintsConfig controls the sprint rollover job.
type SprintsConfig struct {
	RolloverSchedule string `yaml:"rollover_schedule"`
}

// NotifyConfig enables optional chat notifications.
type NotifyConfig struct {
	Slack   ChatConfig `yaml:"slack"`
	Discord ChatConfig `yaml:"discord"`
}

// ChatConfig is a bot token plus the channel to post into.
type ChatConfig struct {
	BotToken string `yaml:"bot_token"`
	Channel  string `yaml:"channel"`
}

// Enabled reports whether both token and channel are set.
func (c ChatConfig) Enabled() bool {
	return c.BotToken != "" && c.Channel != ""
}

// GitHubConfig holds credentials for the issue importer.
type GitHubConfig struct {
	Token   string `yaml:"token"`
	BaseURL string `yaml:"base_url"`
}

// SeedColumn is a column created by "db init" on an empty board.
type SeedColumn struct {
	Title string `yaml:"title"`
	Color string `yaml:"color"`
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Council.EventLog == "" {
		c.Council.EventLog = "council/events.jsonl"
	}
	if c.Council.CostLog == "" {
		c.Council.CostLog = "council/costs.json"
	}
	if c.Council.DecisionsDir == "" {
		c.Council.DecisionsDir = "council/decisions"
	}
	if c.Council.TailLimit == 0 {
		c.Council.TailLimit = 50
	}
	if c.Sprints.RolloverSchedule == "" {
		c.Sprints.RolloverSchedule = "0 0 * * *"
	}
	if len(c.SeedColumns) == 0 {
		c.SeedColumns = []SeedColumn{
			{Title: "Backlog", Color: "#64748b"},
			{Title: "To Do", Color: "#3b82f6"},
			{Title: "In Progress", Color: "#f59e0b"},
			{Title: "Review", Color: "#8b5cf6"},
			{Title: "Done", Color: "#22c55e"},
		}
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port %d out of range", c.Server.Port))
	}
	if c.Council.TailLimit < 0 {
		errs = append(errs, "council.tail_limit must not be negative")
	}
	if _, err := cron.ParseStandard(c.Sprints.RolloverSchedule); err != nil {
		errs = append(errs, fmt.Sprintf("sprints.rollover_schedule: %v", err))
	}
	for i, sc := range c.SeedColumns {
		if strings.TrimSpace(sc.Title) == "" {
			errs = append(errs, fmt.Sprintf("seed_columns[%d].title is required", i))
		}
	}
	if (c.Notify.Slack.BotToken == "") != (c.Notify.Slack.Channel == "") {
		errs = append(errs, "notify.slack needs both bot_token and channel")
	}
	if (c.Notify.Discord.BotToken == "") != (c.Notify.Discord.Channel == "") {
		errs = append(errs, "notify.discord needs both bot_token and channel")
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Resolve returns the database URL and auth token, letting the environment
// override the file. getenv is usually os.Getenv.
func (d DatabaseConfig) Resolve(getenv func(string) string) (url, token string) {
	url, token = d.URL, d.AuthToken
	if v := firstNonEmpty(getenv(EnvDatabaseURL), getenv(envDatabaseURL)); v != "" {
		url = v
	}
	if v := firstNonEmpty(getenv(EnvDatabaseAuthToken), getenv(envDatabaseAuthToken)); v != "" {
		token = v
	}
	if url == "" {
		url = DefaultDatabaseURL
	}
	return url, token
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
