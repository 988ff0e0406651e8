package engine

import (
	"context"

	"keywatch/internal/custody"
	notifymodels "keywatch/internal/notify/models"
	"keywatch/pkg/requestcontext"
)

// ResetResult is what the daily reset did.
type ResetResult struct {
	Members       int                    `json:"members"`
	Transitions   []custody.Transition   `json:"transitions"`
	Notifications []notifymodels.Message `json:"notifications"`
}

// OnDailyReset moves every member to away and every key to returned,
// dropping unanswered confirmations, then announces it once. It holds every
// key lock for the duration so no reconcile interleaves.
func (e *Engine) OnDailyReset(ctx context.Context) ResetResult {
	now := requestcontext.Now(ctx)
	var res ResetResult

	e.keys.WithAll(func(keys []*custody.Key) {
		res.Members = e.registry.ResetAllToAway(ctx)
		for _, k := range keys {
			t := k.Reset(now)
			e.recordTransition(ctx, t)
			res.Transitions = append(res.Transitions, t)
		}
		res.Notifications = []notifymodels.Message{
			notifymodels.NewDailyReset(e.subscribers(ctx), now),
		}
	})

	e.metrics.IncrementDailyResets()
	e.logger.InfoContext(ctx, "daily reset applied",
		"members", res.Members,
		"request_id", requestcontext.RequestID(ctx),
	)
	e.publish(ctx, res.Notifications)
	return res
}
