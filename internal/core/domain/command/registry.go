package command

import (
	"errors"
	"slices"
	"slowpoke/internal/core/domain"
	"slowpoke/internal/core/port"
	"strings"
	"unicode"

	"github.com/rs/zerolog/log"
)

type Registry struct {
	commands map[string]port.Command
}

func (r *Registry) Register(handler port.Command) {
	if r.commands == nil {
		r.commands = make(map[string]port.Command)
	}

	log.Info().Str("handler", handler.GetCommand()).Msg("adding command handler to registry")
	r.commands[handler.GetCommand()] = handler
}

func (r *Registry) Get(command string) (port.Command, error) {
	log.Debug().Interface("command", command).Msg("fetching command handler from registry")

	if r.commands == nil {
		err := errors.New("can't fetch command, registry not initialized")
		return nil, err
	}

	handler, ok := r.commands[command]
	if !ok {
		return nil, errors.New("command not found")
	}

	return handler, nil
}

// ListCommands returns the registered command identifiers in lexical order.
func (r *Registry) ListCommands() []string {
	keys := make([]string, 0, len(r.commands))
	for k := range r.commands {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}

// Specs describes every registered command that can be offered as a slash command.
func (r *Registry) Specs() []domain.CommandSpec {
	var specs []domain.CommandSpec
	for _, k := range r.ListCommands() {
		if d, ok := r.commands[k].(port.Describer); ok {
			specs = append(specs, d.Describe())
		}
	}

	return specs
}

// ParseCommandArgs returns everything after the command token, with surrounding whitespace removed.
func ParseCommandArgs(args string) string {
	args = strings.TrimSpace(args)

	i := strings.IndexFunc(args, unicode.IsSpace)
	if i < 0 {
		return ""
	}

	return strings.TrimSpace(args[i:])
}

// ParseCommand returns the lowercased command token. A trailing bot mention as in "/chat@slowpoke" is dropped.
func ParseCommand(args string) string {
	command, _, _ := strings.Cut(strings.TrimSpace(args), " ")
	command, _, _ = strings.Cut(command, "\n")
	command, _, _ = strings.Cut(command, "@")

	return strings.ToLower(command)
}
