// Package notify contains Notifier implementations.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/agenda/internal/ports/secondary"
)

// OutboxNotifier implements secondary.Notifier by writing one outbox row per
// recipient. Redelivery of the same occurrence to the same recipient is a
// no-op; a later occurrence of the same template is queued again.
type OutboxNotifier struct {
	outbox secondary.NotificationOutbox
	logger *zap.Logger
}

// NewOutboxNotifier creates a new OutboxNotifier.
func NewOutboxNotifier(outbox secondary.NotificationOutbox, logger *zap.Logger) *OutboxNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OutboxNotifier{outbox: outbox, logger: logger}
}

// Notify enqueues msg for every recipient.
func (n *OutboxNotifier) Notify(ctx context.Context, recipients []string, msg secondary.NotificationMessage) error {
	if len(recipients) == 0 {
		return nil
	}

	payload := "{}"
	if len(msg.Payload) > 0 {
		raw, err := json.Marshal(msg.Payload)
		if err != nil {
			return fmt.Errorf("failed to encode %s payload: %w", msg.Template, err)
		}
		payload = string(raw)
	}

	queued := 0
	for _, recipient := range recipients {
		inserted, err := n.outbox.Enqueue(ctx, &secondary.NotificationRecord{
			ID:          uuid.New().String(),
			ProposalID:  msg.ProposalID,
			Template:    msg.Template,
			Occurrence:  msg.Occurrence,
			RecipientID: recipient,
			Kind:        msg.Kind,
			Payload:     payload,
		})
		if err != nil {
			return fmt.Errorf("failed to queue %s for %s: %w", msg.Template, recipient, err)
		}
		if inserted {
			queued++
		}
	}

	n.logger.Debug("notification queued",
		zap.String("proposal_id", msg.ProposalID),
		zap.String("template", msg.Template),
		zap.String("occurrence", msg.Occurrence),
		zap.Int("recipients", len(recipients)),
		zap.Int("queued", queued))
	return nil
}

var _ secondary.Notifier = (*OutboxNotifier)(nil)
