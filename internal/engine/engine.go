// Package engine is the reconciliation engine: it owns the member registry
// and the key table, applies every presence change to key custody, runs the
// confirmation flow and hands the resulting notifications to the dispatcher.
//
// Lock order is key locks (in id.Keys order) before the registry lock. State
// is committed before notifications are queued, so a failed delivery never
// rolls anything back.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"keywatch/internal/custody"
	"keywatch/internal/menu"
	notifymodels "keywatch/internal/notify/models"
	"keywatch/internal/platform/metrics"
	"keywatch/internal/presence/models"
	id "keywatch/pkg/domain"
	"keywatch/pkg/requestcontext"
)

// Registry is the member directory the engine reconciles against.
type Registry interface {
	Upsert(ctx context.Context, memberID id.MemberID, displayName string) (models.Member, bool)
	SetLocation(ctx context.Context, memberID id.MemberID, loc id.Location) (id.Location, error)
	SetNotify(ctx context.Context, memberID id.MemberID, enabled bool) error
	Get(ctx context.Context, memberID id.MemberID) (models.Member, error)
	All(ctx context.Context) []models.Member
	EvictLocation(ctx context.Context, from id.Location, reportedBy id.MemberID) []id.MemberID
	LastVacated(ctx context.Context, room id.Location) id.MemberID
	ResetAllToAway(ctx context.Context) int
}

// Notifier queues a message for delivery.
type Notifier interface {
	Enqueue(ctx context.Context, msg notifymodels.Message) error
}

type Engine struct {
	registry Registry
	keys     *custody.Table
	notifier Notifier
	menus    *menu.Selector
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithMenuSelector enables per-member menu selection after each command.
func WithMenuSelector(sel *menu.Selector) Option {
	return func(e *Engine) {
		e.menus = sel
	}
}

func New(registry Registry, keys *custody.Table, notifier Notifier, opts ...Option) (*Engine, error) {
	if registry == nil {
		return nil, fmt.Errorf("registry is required")
	}
	if keys == nil {
		return nil, fmt.Errorf("key table is required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier is required")
	}
	e := &Engine{registry: registry, keys: keys, notifier: notifier, logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Register adds a member on first contact. Re-registration keeps the stored
// display name.
func (e *Engine) Register(ctx context.Context, memberID id.MemberID, displayName string) (models.Member, bool) {
	m, created := e.registry.Upsert(ctx, memberID, displayName)
	if created {
		e.metrics.IncrementMembersRegistered()
		e.logger.InfoContext(ctx, "member registered",
			"member_id", memberID.String(),
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	return m, created
}

// SetNotifications toggles whether the member receives broadcasts.
// Confirmation prompts are always delivered.
func (e *Engine) SetNotifications(ctx context.Context, memberID id.MemberID, enabled bool) error {
	return e.registry.SetNotify(ctx, memberID, enabled)
}

// subscribers lists members who want broadcasts.
func (e *Engine) subscribers(ctx context.Context) []id.MemberID {
	return subscribersOf(e.registry.All(ctx))
}

// publish queues msgs in order. Queueing failures are logged; state has
// already been committed.
func (e *Engine) publish(ctx context.Context, msgs []notifymodels.Message) {
	for _, msg := range msgs {
		if len(msg.Recipients) == 0 {
			continue
		}
		if err := e.notifier.Enqueue(ctx, msg); err != nil {
			e.logger.ErrorContext(ctx, "failed to queue notification",
				"message_id", msg.ID.String(),
				"kind", msg.Kind,
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
		}
	}
}

func (e *Engine) recordTransition(ctx context.Context, t custody.Transition) {
	if t.Changed() {
		e.metrics.IncrementCustodyTransition(t.Key.String(), t.From.String(), t.To.String())
		e.logger.InfoContext(ctx, "key custody changed",
			"key", t.Key.String(),
			"from", t.From.String(),
			"to", t.To.String(),
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	if t.Issued != nil {
		e.metrics.IncrementConfirmationsIssued(t.Key.String())
	}
	if t.Discarded != nil {
		e.logger.DebugContext(ctx, "pending confirmation discarded",
			"key", t.Key.String(),
			"confirmation_id", t.Discarded.ID.String(),
			"target", t.Discarded.Target.String(),
		)
	}
}
