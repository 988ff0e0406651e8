// Package redisoutbox implements the Sender by appending deliveries to a Redis
// stream that the messaging-platform bridge consumes.
//
// Each (message id, recipient) pair is written at most once: one Lua script
// checks a marker key, appends the stream entry and only then sets the marker,
// so a retry after an ambiguous failure cannot produce a duplicate and a
// failed append is retried rather than counted as delivered.
package redisoutbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"keywatch/internal/notify/dispatch"
	"keywatch/internal/notify/models"
	id "keywatch/pkg/domain"
)

const (
	// DefaultStream is the stream the bridge reads from.
	DefaultStream = "keywatch:outbox"

	deliveredKeyPrefix = "keywatch:delivered:"
	defaultDedupeTTL   = 24 * time.Hour
)

// appendOnce appends the entry unless the marker exists, then sets the
// marker. A failing XADD aborts the script before the marker is written.
// Returns the stream entry id, or nil when the pair was already delivered.
var appendOnce = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return false
end
local entry = redis.call('XADD', KEYS[2], '*', 'recipient', ARGV[2], 'message_id', ARGV[3], 'kind', ARGV[4], 'payload', ARGV[5])
redis.call('SET', KEYS[1], '1', 'PX', ARGV[1])
return entry
`)

type Outbox struct {
	client    *redis.Client
	stream    string
	dedupeTTL time.Duration
}

type Option func(*Outbox)

func WithStream(stream string) Option {
	return func(o *Outbox) {
		if stream != "" {
			o.stream = stream
		}
	}
}

// WithDedupeTTL bounds how long a delivered marker is kept.
func WithDedupeTTL(ttl time.Duration) Option {
	return func(o *Outbox) {
		if ttl > 0 {
			o.dedupeTTL = ttl
		}
	}
}

func New(client *redis.Client, opts ...Option) *Outbox {
	o := &Outbox{client: client, stream: DefaultStream, dedupeTTL: defaultDedupeTTL}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// Send appends msg for recipient to the outbox. Redis errors are transient;
// bad input is permanent.
func (o *Outbox) Send(ctx context.Context, to id.MemberID, msg models.Message) error {
	if to == "" {
		return dispatch.Permanent(errors.New("empty recipient"))
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return dispatch.Permanent(fmt.Errorf("encode message: %w", err))
	}

	keys := []string{deliveredKey(msg.ID, to), o.stream}
	err = appendOnce.Run(ctx, o.client, keys,
		o.dedupeTTL.Milliseconds(), to.String(), msg.ID.String(), string(msg.Kind), payload,
	).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("append to outbox: %w", err)
	}
	return nil
}

// Entry is a decoded outbox record.
type Entry struct {
	StreamID  string
	Recipient id.MemberID
	Message   models.Message
}

// Read returns up to count entries after the given stream id ("-" or "0" for
// the beginning). The bridge uses it for catch-up; tests use it to inspect.
func (o *Outbox) Read(ctx context.Context, after string, count int64) ([]Entry, error) {
	start := "-"
	if after != "" && after != "-" && after != "0" {
		start = "(" + after
	}
	msgs, err := o.client.XRangeN(ctx, o.stream, start, "+", count).Result()
	if err != nil {
		return nil, fmt.Errorf("read outbox: %w", err)
	}

	out := make([]Entry, 0, len(msgs))
	for _, m := range msgs {
		raw, _ := m.Values["payload"].(string)
		var msg models.Message
		if err := json.Unmarshal([]byte(raw), &msg); err != nil {
			return nil, fmt.Errorf("decode outbox entry %s: %w", m.ID, err)
		}
		recipient, _ := m.Values["recipient"].(string)
		out = append(out, Entry{StreamID: m.ID, Recipient: id.MemberID(recipient), Message: msg})
	}
	return out, nil
}

func deliveredKey(msgID id.MessageID, to id.MemberID) string {
	return deliveredKeyPrefix + msgID.String() + ":" + to.String()
}
