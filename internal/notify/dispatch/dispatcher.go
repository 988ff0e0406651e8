// Package dispatch delivers notifications to members. It is the only place in
// the service that performs outbound I/O.
//
// A broadcast fans out to every recipient concurrently; each recipient is
// retried sequentially with exponential backoff up to a bounded number of
// retries, then logged and dropped. A dropped notification never fails the
// caller: custody state was committed before dispatch began.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/errgroup"

	"keywatch/internal/notify/models"
	"keywatch/internal/platform/metrics"
	id "keywatch/pkg/domain"
	"keywatch/pkg/platform/sentinel"
	"keywatch/pkg/requestcontext"
)

// ErrPermanentDelivery marks a send failure that retrying cannot fix (blocked
// user, malformed payload). Senders wrap errors with Permanent.
var ErrPermanentDelivery = errors.New("permanent delivery failure")

// ErrClosed is returned by Enqueue after Close.
var ErrClosed = fmt.Errorf("dispatcher closed: %w", sentinel.ErrUnavailable)

// Permanent wraps err so the dispatcher does not retry it.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrPermanentDelivery, err)
}

// Sender is the platform send primitive. Errors are transient unless they
// wrap ErrPermanentDelivery.
type Sender interface {
	Send(ctx context.Context, to id.MemberID, msg models.Message) error
}

// Report summarises one broadcast.
type Report struct {
	MessageID id.MessageID
	Delivered []id.MemberID
	Dropped   []id.MemberID
}

type Dispatcher struct {
	sender  Sender
	logger  *slog.Logger
	metrics *metrics.Metrics

	maxRetries     uint64
	initialBackoff time.Duration
	maxBackoff     time.Duration
	parallelism    int
	bufferSize     int

	queue     chan queued
	done      chan struct{}
	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

type queued struct {
	ctx context.Context
	msg models.Message
}

type Option func(*Dispatcher)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// WithRetry bounds per-recipient retries and the backoff between attempts.
func WithRetry(maxRetries uint64, initial, max time.Duration) Option {
	return func(d *Dispatcher) {
		d.maxRetries = maxRetries
		if initial > 0 {
			d.initialBackoff = initial
		}
		if max > 0 {
			d.maxBackoff = max
		}
	}
}

// WithParallelism caps concurrent per-recipient deliveries within a broadcast.
func WithParallelism(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.parallelism = n
		}
	}
}

// WithAsyncBuffer makes Enqueue hand messages to a background worker through
// a buffer of size n. Without it Enqueue delivers inline.
func WithAsyncBuffer(n int) Option {
	return func(d *Dispatcher) {
		d.bufferSize = n
	}
}

func New(sender Sender, opts ...Option) (*Dispatcher, error) {
	if sender == nil {
		return nil, fmt.Errorf("sender is required")
	}
	d := &Dispatcher{
		sender:         sender,
		logger:         slog.Default(),
		maxRetries:     4,
		initialBackoff: 200 * time.Millisecond,
		maxBackoff:     5 * time.Second,
		parallelism:    8,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.maxBackoff < d.initialBackoff {
		d.maxBackoff = d.initialBackoff
	}
	if d.bufferSize > 0 {
		d.queue = make(chan queued, d.bufferSize)
		d.done = make(chan struct{})
		go d.run()
	}
	return d, nil
}

// Enqueue schedules msg for delivery. In async mode it returns once the
// message is buffered; the delivery outlives ctx's cancellation but keeps its
// values (request id) for logging.
func (d *Dispatcher) Enqueue(ctx context.Context, msg models.Message) error {
	if len(msg.Recipients) == 0 {
		return nil
	}
	if d.queue == nil {
		d.Broadcast(ctx, msg)
		return nil
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrClosed
	}
	select {
	case d.queue <- queued{ctx: context.WithoutCancel(ctx), msg: msg}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting messages and waits for buffered ones to be delivered.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		if d.queue == nil {
			return
		}
		d.mu.Lock()
		d.closed = true
		close(d.queue)
		d.mu.Unlock()
		<-d.done
	})
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for q := range d.queue {
		d.Broadcast(q.ctx, q.msg)
	}
}

// Broadcast delivers msg to each recipient independently. One recipient's
// failure never blocks or fails another's delivery.
func (d *Dispatcher) Broadcast(ctx context.Context, msg models.Message) Report {
	start := time.Now()
	defer d.metrics.ObserveBroadcast(start)

	report := Report{MessageID: msg.ID}
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(d.parallelism)
	for _, to := range msg.Recipients {
		g.Go(func() error {
			err := d.deliver(ctx, to, msg)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Dropped = append(report.Dropped, to)
			} else {
				report.Delivered = append(report.Delivered, to)
			}
			return nil
		})
	}
	_ = g.Wait()

	d.logger.InfoContext(ctx, "notification broadcast finished",
		"message_id", msg.ID.String(),
		"kind", msg.Kind,
		"delivered", len(report.Delivered),
		"dropped", len(report.Dropped),
		"request_id", requestcontext.RequestID(ctx),
	)
	return report
}

// deliver sends to one recipient, retrying transient failures with
// exponential backoff. It returns the final error after logging the drop.
func (d *Dispatcher) deliver(ctx context.Context, to id.MemberID, msg models.Message) error {
	attempt := 0
	op := func() error {
		attempt++
		err := d.sender.Send(ctx, to, msg)
		if err != nil && errors.Is(err, ErrPermanentDelivery) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		d.metrics.IncrementRetries()
		d.logger.DebugContext(ctx, "notification delivery failed, retrying",
			"message_id", msg.ID.String(),
			"recipient", to.String(),
			"attempt", attempt,
			"wait", wait,
			"error", err,
		)
	}

	err := backoff.RetryNotify(op, backoff.WithContext(backoff.WithMaxRetries(d.newBackOff(), d.maxRetries), ctx), notify)
	if err == nil {
		d.metrics.IncrementDelivered()
		return nil
	}

	reason := "exhausted"
	switch {
	case errors.Is(err, ErrPermanentDelivery):
		reason = "permanent"
	case ctx.Err() != nil:
		reason = "canceled"
	}
	d.metrics.IncrementDropped(reason)
	d.logger.WarnContext(ctx, "notification dropped",
		"message_id", msg.ID.String(),
		"kind", msg.Kind,
		"recipient", to.String(),
		"attempts", attempt,
		"reason", reason,
		"error", err,
		"request_id", requestcontext.RequestID(ctx),
	)
	return err
}

func (d *Dispatcher) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = d.initialBackoff
	b.MaxInterval = d.maxBackoff
	b.Multiplier = 2
	b.MaxElapsedTime = 0
	return b
}
