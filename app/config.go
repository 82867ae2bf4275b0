package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "github.com/m3rciful/confessbot/core/config"
	coredatabase "github.com/m3rciful/confessbot/core/database"
)

// BotConfig holds confession-bot specific settings.
type BotConfig struct {
	// ChannelID is the public channel approved confessions are published to.
	ChannelID int64 `yaml:"channel_id" envconfig:"CHANNEL_ID"`
	// AdminIDs is the static moderator allow-list.
	AdminIDs []int64 `yaml:"admin_ids" envconfig:"ADMIN_IDS"`
	// Username is the bot username (without @) used to build deep links.
	Username string `yaml:"username" envconfig:"BOT_USERNAME"`
}

// Config aggregates core, database, and bot configuration.
type Config struct {
	Core     coreconfig.Config   `yaml:",inline"`
	Database coredatabase.Config `yaml:"database"`
	Bot      BotConfig           `yaml:"bot"`
}

// CoreConfig exposes the embedded core configuration for the shared runner.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Core
}

// LoadConfig reads YAML configuration, applies env overrides, and validates.
// A .env file in the working directory is loaded first when present.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}

	if err := coreconfig.Normalize(&cfg.Core); err != nil {
		return nil, err
	}
	if err := validateBot(&cfg.Bot); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validateBot(bot *BotConfig) error {
	if bot.ChannelID == 0 {
		return fmt.Errorf("bot.channel_id is required")
	}
	if len(bot.AdminIDs) == 0 {
		return fmt.Errorf("bot.admin_ids must list at least one moderator")
	}
	for _, id := range bot.AdminIDs {
		if id == 0 {
			return fmt.Errorf("bot.admin_ids contains a zero id")
		}
	}
	bot.Username = strings.TrimPrefix(strings.TrimSpace(bot.Username), "@")
	if bot.Username == "" {
		return fmt.Errorf("bot.username is required to build deep links")
	}
	return nil
}
