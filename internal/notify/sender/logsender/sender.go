// Package logsender is the development Sender: it writes every delivery to
// the structured log instead of a messaging platform.
package logsender

import (
	"context"
	"log/slog"

	"keywatch/internal/notify/models"
	id "keywatch/pkg/domain"
)

type Sender struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Sender {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sender{logger: logger}
}

func (s *Sender) Send(ctx context.Context, to id.MemberID, msg models.Message) error {
	s.logger.InfoContext(ctx, "notification",
		"recipient", to.String(),
		"message_id", msg.ID.String(),
		"kind", msg.Kind,
		"key", msg.Key,
		"text", msg.Text,
	)
	return nil
}
