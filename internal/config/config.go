// Package config defines the viper keys the bot reads and a typed snapshot
// of them taken at startup.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	BotToken      string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	Model         string
	Temperature   float64
	PromptsDir    string
	MenusDir      string
	ImagesDir     string
	MaxConcurrent int
}

func SetDefaults() {
	viper.SetDefault("openai.base_url", "https://api.openai.com")
	viper.SetDefault("openai.model", "gpt-3.5-turbo")
	viper.SetDefault("openai.temperature", 0.8)
	viper.SetDefault("resources.prompts_dir", "resources/prompts")
	viper.SetDefault("resources.menus_dir", "resources/menus")
	viper.SetDefault("resources.images_dir", "resources/images")
	viper.SetDefault("telegram.max_concurrent", 8)
}

// FromViper snapshots the effective configuration and validates the required
// credentials.
func FromViper() (Config, error) {
	cfg := Config{
		BotToken:      strings.TrimSpace(viper.GetString("telegram.bot_token")),
		OpenAIAPIKey:  strings.TrimSpace(viper.GetString("openai.api_key")),
		OpenAIBaseURL: strings.TrimSpace(viper.GetString("openai.base_url")),
		Model:         viper.GetString("openai.model"),
		Temperature:   viper.GetFloat64("openai.temperature"),
		PromptsDir:    viper.GetString("resources.prompts_dir"),
		MenusDir:      viper.GetString("resources.menus_dir"),
		ImagesDir:     viper.GetString("resources.images_dir"),
		MaxConcurrent: viper.GetInt("telegram.max_concurrent"),
	}
	if cfg.BotToken == "" {
		return Config{}, fmt.Errorf("missing telegram.bot_token (set via --telegram-bot-token or CHATGPT_BOT_TELEGRAM_BOT_TOKEN)")
	}
	if cfg.OpenAIAPIKey == "" {
		return Config{}, fmt.Errorf("missing openai.api_key (set via --openai-api-key or CHATGPT_BOT_OPENAI_API_KEY)")
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 1
	}
	return cfg, nil
}
