package discord

import (
	"context"
	"fmt"
	"slowpoke/internal/core/domain"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// RegisterCommands replaces the application's slash commands with specs. An empty guildID registers them globally.
func RegisterCommands(ctx context.Context, s session, appID, guildID string, specs []domain.CommandSpec) error {
	commands := make([]*discordgo.ApplicationCommand, 0, len(specs))
	for _, spec := range specs {
		commands = append(commands, toApplicationCommand(spec))
	}

	created, err := s.ApplicationCommandBulkOverwrite(appID, guildID, commands, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("error registering commands: %w", err)
	}

	for _, c := range created {
		log.Info().Str("command", c.Name).Str("guildId", guildID).Msg("registered slash command")
	}

	return nil
}

func toApplicationCommand(spec domain.CommandSpec) *discordgo.ApplicationCommand {
	cmd := &discordgo.ApplicationCommand{
		Name:        spec.Name,
		Description: spec.Description,
	}

	for _, o := range spec.Options {
		opt := &discordgo.ApplicationCommandOption{
			Name:        o.Name,
			Description: o.Description,
			Required:    o.Required,
			Type:        discordgo.ApplicationCommandOptionString,
		}

		if o.Type == domain.IntegerOption {
			opt.Type = discordgo.ApplicationCommandOptionInteger
		}
		if o.MinValue != 0 {
			minValue := float64(o.MinValue)
			opt.MinValue = &minValue
		}
		if o.MaxValue != 0 {
			opt.MaxValue = float64(o.MaxValue)
		}

		cmd.Options = append(cmd.Options, opt)
	}

	return cmd
}
