package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
)

type Config struct {
	Bot        Bot        `mapstructure:"bot"`
	Handler    Handler    `mapstructure:"handler"`
	Chat       Chat       `mapstructure:"chat"`
	Prompt     Prompt     `mapstructure:"prompt"`
	Tfti       Tfti       `mapstructure:"tfti"`
	Activity   Activity   `mapstructure:"activity"`
	ChimeIn    ChimeIn    `mapstructure:"chime_in"`
	Discord    Discord    `mapstructure:"discord"`
	Telegram   Telegram   `mapstructure:"telegram"`
	Gemini     Gemini     `mapstructure:"gemini"`
	Text       Text       `mapstructure:"text"`
	OpenRouter OpenRouter `mapstructure:"openrouter"`
}

type Bot struct {
	LogLevel string `mapstructure:"log_level"`
}

type Handler struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type Chat struct {
	HistoryLimit        int `mapstructure:"history_limit"`
	IdentityConcurrency int `mapstructure:"identity_concurrency"`
	ChunkSize           int `mapstructure:"chunk_size"`
}

type Prompt struct {
	ChunkSize int `mapstructure:"chunk_size"`
}

type Tfti struct {
	Lookback int `mapstructure:"lookback"`
}

type Activity struct {
	Interval time.Duration `mapstructure:"interval"`
}

type ChimeIn struct {
	Probability float64 `mapstructure:"probability"`
}

type Discord struct {
	Token         string `mapstructure:"token"`
	AppID         string `mapstructure:"app_id"`
	GuildID       string `mapstructure:"guild_id"`
	CommandPrefix string `mapstructure:"command_prefix"`
}

type Telegram struct {
	BotToken    string `mapstructure:"bot_token"`
	BacklogSize int    `mapstructure:"backlog_size"`
}

type Gemini struct {
	APIKey     string `mapstructure:"api_key"`
	BaseURL    string `mapstructure:"base_url"`
	TextModel  string `mapstructure:"text_model"`
	ImageModel string `mapstructure:"image_model"`
}

type Text struct {
	Provider string `mapstructure:"provider"`
}

type OpenRouter struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

var envBindings = map[string]string{
	"discord.token":      "DISCORD_TOKEN",
	"telegram.bot_token": "TELEGRAM_BOT_TOKEN",
	"gemini.api_key":     "GEMINI_API_KEY",
	"openrouter.api_key": "OPENROUTER_API_KEY",
}

// Load reads the TOML file at path, or config.toml from the working directory when path is empty. A missing file
// in the working directory is not an error; secrets may come from the environment alone.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigType("toml")
	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("error binding %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("could not read config file: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("could not decode config: %w", err)
	}

	c.Text.Provider = strings.ToLower(strings.TrimSpace(c.Text.Provider))

	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("bot.log_level", "info")
	v.SetDefault("handler.timeout", 2*time.Minute)
	v.SetDefault("chat.history_limit", 100)
	v.SetDefault("chat.identity_concurrency", 100)
	v.SetDefault("chat.chunk_size", 2000)
	v.SetDefault("prompt.chunk_size", 4096)
	v.SetDefault("tfti.lookback", 18)
	v.SetDefault("activity.interval", time.Hour)
	v.SetDefault("chime_in.probability", 0.0)
	v.SetDefault("discord.command_prefix", "!")
	v.SetDefault("telegram.backlog_size", 200)
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("gemini.text_model", "gemini-2.0-flash")
	v.SetDefault("gemini.image_model", "gemini-2.0-flash-preview-image-generation")
	v.SetDefault("text.provider", ProviderGemini)
	v.SetDefault("openrouter.model", "google/gemini-2.0-flash-001")
}

// Validate rejects settings the services cannot run with.
func (c Config) Validate() error {
	var errs []error

	positive := map[string]int{
		"chat.history_limit":        c.Chat.HistoryLimit,
		"chat.identity_concurrency": c.Chat.IdentityConcurrency,
		"chat.chunk_size":           c.Chat.ChunkSize,
		"prompt.chunk_size":         c.Prompt.ChunkSize,
		"tfti.lookback":             c.Tfti.Lookback,
		"telegram.backlog_size":     c.Telegram.BacklogSize,
	}
	for key, value := range positive {
		if value < 1 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %d", key, value))
		}
	}

	if c.Handler.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("handler.timeout must be positive, got %s", c.Handler.Timeout))
	}

	if c.Activity.Interval <= 0 {
		errs = append(errs, fmt.Errorf("activity.interval must be positive, got %s", c.Activity.Interval))
	}

	if c.ChimeIn.Probability < 0 || c.ChimeIn.Probability > 1 {
		errs = append(errs, fmt.Errorf("chime_in.probability must be within [0, 1], got %g", c.ChimeIn.Probability))
	}

	switch c.Text.Provider {
	case ProviderGemini, ProviderOpenRouter:
	default:
		errs = append(errs, fmt.Errorf("text.provider must be %q or %q, got %q", ProviderGemini, ProviderOpenRouter,
			c.Text.Provider))
	}

	return errors.Join(errs...)
}
