package service

import (
	"context"
	"math/rand/v2"
	"slowpoke/internal/core/domain"
	"slowpoke/internal/core/port"
	"time"

	"github.com/rs/zerolog/log"
)

const DefaultActivityInterval = time.Hour

// ActivityRotator periodically sets a random activity from domain.Activities as the bot presence.
type ActivityRotator struct {
	presence port.PresenceSetter
	interval time.Duration
	intn     func(n int) int
}

func NewActivityRotator(presence port.PresenceSetter, interval time.Duration) *ActivityRotator {
	if interval <= 0 {
		interval = DefaultActivityInterval
	}

	return &ActivityRotator{presence: presence, interval: interval, intn: rand.IntN}
}

// Run sets an activity immediately and then once per interval until ctx is done.
func (a *ActivityRotator) Run(ctx context.Context) {
	t := time.NewTicker(a.interval)
	defer t.Stop()

	a.rotate(ctx)

	for {
		select {
		case <-t.C:
			a.rotate(ctx)
		case <-ctx.Done():
			log.Debug().Msg("stopping activity rotation")
			return
		}
	}
}

func (a *ActivityRotator) rotate(ctx context.Context) {
	activities := domain.Activities()
	activity := activities[a.intn(len(activities))]

	log.Debug().Str("activity", activity.Name).Msg("setting activity")

	if err := a.presence.SetActivity(ctx, activity); err != nil {
		log.Warn().Err(err).Str("activity", activity.Name).Msg("failed to set activity")
	}
}
