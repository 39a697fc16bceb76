package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"slowpoke/internal/adapters/discord"
	"slowpoke/internal/adapters/file"
	"slowpoke/internal/adapters/generator"
	"slowpoke/internal/adapters/telegram"
	"slowpoke/internal/config"
	"slowpoke/internal/core/domain/command"
	"slowpoke/internal/core/port"
	"slowpoke/internal/core/service"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
)

func main() {
	os.Exit(execute())
}

// generators are shared by every platform; commands are built per platform because they hold its sender.
type generators struct {
	text       port.TextGenerator
	image      port.ImageGenerator
	downloader port.Downloader
}

func loadConfig() (config.Config, error) {
	log.Info().Msg("reading config file...")

	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}

	logLevel, err := zerolog.ParseLevel(cfg.Bot.LogLevel)
	if err != nil || logLevel == zerolog.NoLevel {
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	return cfg, nil
}

func serve(ctx context.Context) error {
	log.Info().Msg("starting slowpoke...")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if cfg.Discord.Token == "" && cfg.Telegram.BotToken == "" {
		return errors.New("neither discord.token nor telegram.bot_token is configured")
	}

	gens := newGenerators(cfg)

	var wg conc.WaitGroup
	errs := make(chan error, 2)

	if cfg.Discord.Token != "" {
		wg.Go(func() {
			if err := serveDiscord(ctx, cfg, gens); err != nil {
				errs <- fmt.Errorf("discord: %w", err)
			}
		})
	}

	if cfg.Telegram.BotToken != "" {
		wg.Go(func() {
			if err := serveTelegram(ctx, cfg, gens); err != nil {
				errs <- fmt.Errorf("telegram: %w", err)
			}
		})
	}

	wg.Wait()
	close(errs)

	var all []error
	for err := range errs {
		all = append(all, err)
	}

	log.Info().Msg("slowpoke stopped")

	return errors.Join(all...)
}

func newGenerators(cfg config.Config) generators {
	gemini := generator.NewGemini(generator.GeminiParams{
		APIKey:     cfg.Gemini.APIKey,
		BaseURL:    cfg.Gemini.BaseURL,
		TextModel:  cfg.Gemini.TextModel,
		ImageModel: cfg.Gemini.ImageModel,
	})

	var text port.TextGenerator = gemini
	if cfg.Text.Provider == config.ProviderOpenRouter {
		log.Info().Str("model", cfg.OpenRouter.Model).Msg("using openrouter for text generation")
		text = generator.NewOpenRouter(cfg.OpenRouter.APIKey, cfg.OpenRouter.Model)
	}

	return generators{
		text:       text,
		image:      gemini,
		downloader: file.NewDownloader(http.DefaultClient),
	}
}

func newRegistry(cfg config.Config, gens generators, sender port.Sender, history port.History,
	members port.MemberResolver) *command.Registry {
	registry := &command.Registry{}

	registry.Register(command.NewChat(command.ChatParams{
		History:       history,
		Identity:      service.NewIdentityResolver(members, cfg.Chat.IdentityConcurrency),
		TextGenerator: gens.text,
		Sender:        sender,
		HistoryLimit:  cfg.Chat.HistoryLimit,
		ChunkSize:     cfg.Chat.ChunkSize,
		Command:       "/chat",
	}))
	registry.Register(command.NewPrompt(command.PromptParams{
		TextGenerator: gens.text,
		Sender:        sender,
		ChunkSize:     cfg.Prompt.ChunkSize,
		Command:       "/prompt",
	}))
	registry.Register(command.NewImagine(gens.image, sender, "/imagine"))
	registry.Register(command.NewRemix(command.RemixParams{
		ImageGenerator: gens.image,
		Extractor:      service.NewImageExtractor(gens.downloader),
		Sender:         sender,
		Command:        "remix",
	}))
	registry.Register(command.NewTfti(service.NewInvocationCounter(history, cfg.Tfti.Lookback), sender, "/tfti"))
	registry.Register(command.NewEightBall(sender, "/8ball"))
	registry.Register(command.NewRoll(sender, "/roll"))
	registry.Register(command.NewPing(sender, "/ping"))

	return registry
}

func chimeIn(cfg config.Config, gens generators, sender port.Sender) port.Command {
	if cfg.ChimeIn.Probability <= 0 {
		return nil
	}

	return command.NewChimeIn(gens.text, sender, cfg.ChimeIn.Probability)
}

func serveDiscord(ctx context.Context, cfg config.Config, gens generators) error {
	s, err := discord.NewSession(cfg.Discord.Token)
	if err != nil {
		return err
	}

	client := discord.NewClient(s)
	sender := discord.NewSender(s)

	handler := discord.NewHandler(discord.HandlerParams{
		Registry: newRegistry(cfg, gens, sender, client, client),
		ChimeIn:  chimeIn(cfg, gens, sender),
		Session:  s,
		Prefix:   cfg.Discord.CommandPrefix,
		Timeout:  cfg.Handler.Timeout,
	})

	s.AddHandler(handler.HandleMessage)
	s.AddHandler(handler.HandleInteraction)
	s.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		log.Info().Str("user", r.User.Username).Int("guilds", len(r.Guilds)).Msg("discord bot connected")
	})

	if err := s.Open(); err != nil {
		return fmt.Errorf("discord connect: %w", err)
	}

	var wg conc.WaitGroup
	wg.Go(func() {
		service.NewActivityRotator(client, cfg.Activity.Interval).Run(ctx)
	})

	log.Info().Msg("discord bot listening")
	<-ctx.Done()

	log.Info().Msg("discord bot disconnecting")
	wg.Wait()
	handler.Wait()

	return s.Close()
}

func serveTelegram(ctx context.Context, cfg config.Config, gens generators) error {
	var handler *telegram.Handler

	b, err := bot.New(cfg.Telegram.BotToken, bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot,
		update *models.Update) {
		handler.Handle(ctx, b, update)
	}))
	if err != nil {
		return fmt.Errorf("failed initializing telegram bot: %w", err)
	}

	me, err := b.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("failed fetching telegram bot user: %w", err)
	}

	self := telegram.Self{
		ID:       strconv.FormatInt(me.ID, 10),
		Username: me.Username,
		Name:     strings.TrimSpace(me.FirstName + " " + me.LastName),
	}

	backlog := telegram.NewBacklog(cfg.Telegram.BacklogSize)
	sender := telegram.NewSender(b, backlog, self)

	handler = telegram.NewHandler(telegram.HandlerParams{
		Registry: newRegistry(cfg, gens, sender, backlog, nil),
		ChimeIn:  chimeIn(cfg, gens, sender),
		Backlog:  backlog,
		Files:    b,
		Self:     self,
		Timeout:  cfg.Handler.Timeout,
	})

	log.Info().Str("user", self.Username).Msg("telegram bot listening")
	b.Start(ctx)

	handler.Wait()

	return nil
}

func register(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if cfg.Discord.Token == "" {
		return errors.New("discord.token is not configured")
	}

	s, err := discord.NewSession(cfg.Discord.Token)
	if err != nil {
		return err
	}

	appID := cfg.Discord.AppID
	if appID == "" {
		u, err := s.User("@me", discordgo.WithContext(ctx))
		if err != nil {
			return fmt.Errorf("failed fetching discord application user: %w", err)
		}
		appID = u.ID
	}

	gens := newGenerators(cfg)
	client := discord.NewClient(s)
	registry := newRegistry(cfg, gens, discord.NewSender(s), client, client)

	return discord.RegisterCommands(ctx, s, appID, cfg.Discord.GuildID, registry.Specs())
}
