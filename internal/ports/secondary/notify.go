package secondary

import (
	"context"
	"time"
)

// Notifier delivers one notice to a set of recipients. Rendering and the
// transport are the adapter's concern.
type Notifier interface {
	Notify(ctx context.Context, recipients []string, msg NotificationMessage) error
}

// NotificationMessage is the transport-neutral content of a notice.
// Occurrence distinguishes repeated events that share a template.
type NotificationMessage struct {
	ProposalID string
	Template   string
	Occurrence string
	Kind       string
	Payload    map[string]any
}

// NotificationOutbox defines the secondary port for the notification outbox.
type NotificationOutbox interface {
	// Enqueue stores n unless a row for the same proposal, template,
	// occurrence and recipient exists. inserted reports whether a row was written.
	Enqueue(ctx context.Context, n *NotificationRecord) (inserted bool, err error)

	// ListByProposal returns queued notifications for a proposal.
	ListByProposal(ctx context.Context, proposalID string) ([]*NotificationRecord, error)
}

// NotificationRecord represents an outbox row.
type NotificationRecord struct {
	ID          string
	ProposalID  string
	Template    string
	Occurrence  string
	RecipientID string
	Kind        string
	Payload     string // JSON
	CreatedAt   time.Time
}
