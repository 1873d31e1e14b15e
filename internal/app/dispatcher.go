package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/example/agenda/internal/core/audience"
	"github.com/example/agenda/internal/core/effects"
	"github.com/example/agenda/internal/ports/secondary"
)

// dispatchTimeout bounds one asynchronous batch.
const dispatchTimeout = 30 * time.Second

// Dispatcher delivers notify effects after the decision that produced them
// has committed. Delivery is fire-and-forget: failures are logged and never
// reach the caller that triggered them.
type Dispatcher struct {
	proposals secondary.ProposalRepository
	users     secondary.UserRepository
	notifier  secondary.Notifier
	logger    *zap.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(proposals secondary.ProposalRepository, users secondary.UserRepository, notifier secondary.Notifier, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		proposals: proposals,
		users:     users,
		notifier:  notifier,
		logger:    orNop(logger),
	}
}

// Dispatch sends notices in the background. Calls after Close are dropped.
func (d *Dispatcher) Dispatch(notices ...effects.NotifyEffect) {
	if len(notices) == 0 {
		return
	}
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.logger.Warn("dispatcher closed, dropping notifications",
			zap.String("proposal_id", notices[0].ProposalID),
			zap.Int("count", len(notices)))
		return
	}
	d.wg.Add(1)
	d.mu.Unlock()

	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()
		_ = d.Send(ctx, notices)
	}()
}

// Send delivers notices synchronously, fanning out per notice. Every
// failure is logged; the first one is returned.
func (d *Dispatcher) Send(ctx context.Context, notices []effects.NotifyEffect) error {
	byProposal := make(map[string]*secondary.ProposalRecord)
	for _, n := range notices {
		if _, ok := byProposal[n.ProposalID]; ok {
			continue
		}
		p, err := d.proposals.GetByID(ctx, n.ProposalID)
		if err != nil {
			d.logger.Warn("notification dropped: proposal lookup failed",
				zap.String("proposal_id", n.ProposalID),
				zap.Error(err))
			return fmt.Errorf("failed to load proposal %s: %w", n.ProposalID, err)
		}
		byProposal[n.ProposalID] = p
	}

	// One recipient group failing must not cancel the others.
	var g errgroup.Group
	g.SetLimit(4)
	for _, n := range notices {
		proposal := byProposal[n.ProposalID]
		g.Go(func() error {
			err := d.sendOne(ctx, proposal, n)
			if err != nil {
				d.logger.Warn("notification failed",
					zap.String("proposal_id", n.ProposalID),
					zap.String("template", n.Template),
					zap.String("audience", string(n.Audience)),
					zap.Error(err))
			}
			return err
		})
	}
	return g.Wait()
}

func (d *Dispatcher) sendOne(ctx context.Context, proposal *secondary.ProposalRecord, n effects.NotifyEffect) error {
	recipients, err := ResolveRecipients(ctx, d.users, proposal, n.Audience)
	if err != nil {
		return err
	}
	if len(recipients) == 0 {
		d.logger.Debug("no recipients for audience",
			zap.String("proposal_id", n.ProposalID),
			zap.String("audience", string(n.Audience)))
		return nil
	}
	return d.notifier.Notify(ctx, recipients, secondary.NotificationMessage{
		ProposalID: n.ProposalID,
		Template:   n.Template,
		Occurrence: n.Occurrence,
		Kind:       string(n.Kind),
		Payload:    n.Payload,
	})
}

// Close stops accepting new batches and waits for in-flight ones.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	d.wg.Wait()
}

// Wait blocks until in-flight batches finish without closing.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// ResolveRecipients turns an audience into user IDs for a proposal.
func ResolveRecipients(ctx context.Context, users secondary.UserRepository, proposal *secondary.ProposalRecord, a audience.Audience) ([]string, error) {
	spec, ok := audience.SpecFor(a)
	if !ok {
		return nil, fmt.Errorf("unknown audience %q", a)
	}

	scope := secondary.UserScope{MinPermission: spec.Min, MaxPermission: spec.Max}
	switch spec.Scope {
	case audience.ScopeAuthor:
		if proposal.AuthorID == "" {
			return nil, nil
		}
		return []string{proposal.AuthorID}, nil
	case audience.ScopeDepartment:
		scope.Department = proposal.Department
		scope.FacilityID = proposal.FacilityID
	case audience.ScopeFacility:
		scope.FacilityID = proposal.FacilityID
	case audience.ScopeCorporate:
	default:
		return nil, fmt.Errorf("unknown scope %q", spec.Scope)
	}

	records, err := users.ListByScope(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", a, err)
	}
	ids := make([]string, 0, len(records))
	for _, u := range records {
		ids = append(ids, u.ID)
	}
	return ids, nil
}
