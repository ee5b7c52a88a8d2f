package notify

import (
	"context"

	"github.com/dmitrijs2005/talentbridge/internal/logging"
)

// LogSender records deliveries in the log instead of mailing them. Only the
// recipient and subject are logged.
type LogSender struct {
	logger logging.Logger
}

func NewLogSender(logger logging.Logger) *LogSender {
	return &LogSender{logger: logger.With("module", "notify.log")}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.logger.Info(ctx, "notification (not mailed)", "to", msg.To, "subject", msg.Subject, "kind", msg.Kind)
	return nil
}
