package config

import (
	"testing"

	"github.com/spf13/viper"
)

func TestFromViperDefaults(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	SetDefaults()
	viper.Set("telegram.bot_token", "123:abc")
	viper.Set("openai.api_key", "sk-test")

	cfg, err := FromViper()
	if err != nil {
		t.Fatalf("FromViper() error = %v", err)
	}
	if cfg.Model != "gpt-3.5-turbo" {
		t.Fatalf("model = %q", cfg.Model)
	}
	if cfg.Temperature != 0.8 {
		t.Fatalf("temperature = %v", cfg.Temperature)
	}
	if cfg.MaxConcurrent != 8 {
		t.Fatalf("max concurrent = %d", cfg.MaxConcurrent)
	}
	if cfg.PromptsDir != "resources/prompts" {
		t.Fatalf("prompts dir = %q", cfg.PromptsDir)
	}
}

func TestFromViperRequiresCredentials(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	SetDefaults()

	if _, err := FromViper(); err == nil {
		t.Fatalf("FromViper() expected error without bot token")
	}

	viper.Set("telegram.bot_token", "123:abc")
	if _, err := FromViper(); err == nil {
		t.Fatalf("FromViper() expected error without api key")
	}
}

func TestFromViperClampsConcurrency(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	SetDefaults()
	viper.Set("telegram.bot_token", "t")
	viper.Set("openai.api_key", "k")
	viper.Set("telegram.max_concurrent", 0)

	cfg, err := FromViper()
	if err != nil {
		t.Fatalf("FromViper() error = %v", err)
	}
	if cfg.MaxConcurrent != 1 {
		t.Fatalf("max concurrent = %d, want 1", cfg.MaxConcurrent)
	}
}
