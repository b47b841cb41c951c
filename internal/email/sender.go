package email

import (
	"context"
	"log/slog"
)

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender logs messages instead of delivering them. Bodies are omitted
// because they carry codes and reset links.
type LogSender struct {
	Logger *slog.Logger
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "email suppressed", "to", msg.ToEmail, "subject", msg.Subject)
	return nil
}
