package service

import (
	"context"
	"slowpoke/internal/core/domain"
	"slowpoke/internal/core/port"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
)

const DefaultIdentityConcurrency = 100

// IdentityResolver maps authors to their guild-scoped display names.
type IdentityResolver struct {
	members     port.MemberResolver
	concurrency int
}

func NewIdentityResolver(members port.MemberResolver, concurrency int) *IdentityResolver {
	if concurrency < 1 {
		concurrency = DefaultIdentityConcurrency
	}

	return &IdentityResolver{members: members, concurrency: concurrency}
}

type resolvedName struct {
	authorID string
	name     string
}

// Resolve looks up every distinct author concurrently, with at most r.concurrency lookups in flight. Authors whose
// lookup fails are left out of the returned map. Outside of a guild the map is always empty.
func (r *IdentityResolver) Resolve(ctx context.Context, guildID string, authorIDs []string) map[string]string {
	names := make(map[string]string)
	if guildID == "" || r.members == nil {
		return names
	}

	p := pool.NewWithResults[resolvedName]().WithMaxGoroutines(r.concurrency)
	for _, authorID := range distinct(authorIDs) {
		p.Go(func() resolvedName {
			name, err := r.members.ResolveMemberDisplayName(ctx, guildID, authorID)
			if err != nil {
				log.Debug().Err(err).Str("guildId", guildID).Str("authorId", authorID).
					Msg("could not resolve member display name")
				return resolvedName{authorID: authorID}
			}

			return resolvedName{authorID: authorID, name: name}
		})
	}

	for _, res := range p.Wait() {
		if res.name != "" {
			names[res.authorID] = res.name
		}
	}

	return names
}

// AuthorIDs returns the distinct authors of messages in order of first appearance.
func AuthorIDs(messages []domain.ChatMessage) []string {
	ids := make([]string, 0, len(messages))
	for _, m := range messages {
		ids = append(ids, m.AuthorID)
	}

	return distinct(ids)
}

// DisplayName picks the name shown for a message author: the resolved guild name, then the author's global display
// name, then the raw username.
func DisplayName(message domain.ChatMessage, names map[string]string) string {
	if name, ok := names[message.AuthorID]; ok && name != "" {
		return name
	}

	if message.AuthorGlobalName != "" {
		return message.AuthorGlobalName
	}

	if message.AuthorUsername != "" {
		return message.AuthorUsername
	}

	return message.AuthorID
}

func distinct(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))

	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}
