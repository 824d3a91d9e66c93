package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wodinaz-hub/chatgpt-telegram-bot/internal/botloop"
	"github.com/wodinaz-hub/chatgpt-telegram-bot/internal/config"
	"github.com/wodinaz-hub/chatgpt-telegram-bot/internal/dialog"
	"github.com/wodinaz-hub/chatgpt-telegram-bot/internal/logutil"
	"github.com/wodinaz-hub/chatgpt-telegram-bot/internal/resources"
	"github.com/wodinaz-hub/chatgpt-telegram-bot/internal/session"
	"github.com/wodinaz-hub/chatgpt-telegram-bot/providers/openai"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the bot and poll for updates",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logutil.LoggerFromViper()
			if err != nil {
				return err
			}

			cfg, err := config.FromViper()
			if err != nil {
				return err
			}

			res := resources.NewLoader(cfg.PromptsDir, cfg.MenusDir, cfg.ImagesDir, logger)
			client := openai.New(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey)
			dispatcher := dialog.NewDispatcher(res, client, cfg.Model, cfg.Temperature, logger)
			store := session.NewStore()

			bot, err := botloop.New(cfg.BotToken, store, dispatcher, res, cfg.MaxConcurrent, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger.Info("starting bot", "model", cfg.Model)
			if err := bot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			logger.Info("bot stopped")
			return nil
		},
	}

	cmd.Flags().String("telegram-bot-token", "", "Telegram bot token.")
	cmd.Flags().String("openai-api-key", "", "OpenAI API key.")
	cmd.Flags().String("openai-base-url", "", "OpenAI-compatible API base URL.")
	cmd.Flags().String("openai-model", "", "Model identifier.")
	cmd.Flags().Float64("openai-temperature", 0.8, "Default chat temperature.")
	cmd.Flags().String("prompts-dir", "", "Prompt text files root.")
	cmd.Flags().String("menus-dir", "", "Menu definition files root.")
	cmd.Flags().String("images-dir", "", "Image files root.")
	cmd.Flags().Int("max-concurrent", 8, "Max chats processed concurrently.")

	_ = viper.BindPFlag("telegram.bot_token", cmd.Flags().Lookup("telegram-bot-token"))
	_ = viper.BindPFlag("openai.api_key", cmd.Flags().Lookup("openai-api-key"))
	_ = viper.BindPFlag("openai.base_url", cmd.Flags().Lookup("openai-base-url"))
	_ = viper.BindPFlag("openai.model", cmd.Flags().Lookup("openai-model"))
	_ = viper.BindPFlag("openai.temperature", cmd.Flags().Lookup("openai-temperature"))
	_ = viper.BindPFlag("resources.prompts_dir", cmd.Flags().Lookup("prompts-dir"))
	_ = viper.BindPFlag("resources.menus_dir", cmd.Flags().Lookup("menus-dir"))
	_ = viper.BindPFlag("resources.images_dir", cmd.Flags().Lookup("images-dir"))
	_ = viper.BindPFlag("telegram.max_concurrent", cmd.Flags().Lookup("max-concurrent"))

	return cmd
}
