package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/example/agenda/internal/apperr"
	"github.com/example/agenda/internal/core/effects"
	"github.com/example/agenda/internal/ports/primary"
	"github.com/example/agenda/internal/ports/secondary"
)

// Clock returns the current time. Services hold one so tests can pin it.
type Clock func() time.Time

// SystemClock is the wall clock in UTC.
func SystemClock() time.Time { return time.Now().UTC() }

func orNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// levelUpdateFrom converts a planned level change into the repository update.
func levelUpdateFrom(eff effects.LevelChangeEffect) secondary.LevelUpdate {
	update := secondary.LevelUpdate{
		Level:          string(eff.Level),
		Status:         eff.Status,
		Visibility:     eff.Visibility,
		VotingDeadline: eff.VotingDeadline,
		ClearDeadline:  eff.ClearDeadline,
		DecisionBy:     eff.DecisionBy,
		DecisionReason: eff.DecisionReason,
	}
	if !eff.DecisionAt.IsZero() {
		at := eff.DecisionAt
		update.DecisionAt = &at
	}
	return update
}

// loadProposal fetches a proposal, mapping persistence failures to codes.
func loadProposal(ctx context.Context, repo secondary.ProposalRepository, id string) (*secondary.ProposalRecord, error) {
	if id == "" {
		return nil, apperr.New(apperr.CodeValidation, "proposal id is required")
	}
	record, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err, "failed to load proposal")
	}
	return record, nil
}

func documentExists(ctx context.Context, repo secondary.DocumentRepository, proposalID string) (bool, error) {
	_, err := repo.GetByProposal(ctx, proposalID)
	if err == nil {
		return true, nil
	}
	if apperr.Is(err, apperr.CodeNotFound) {
		return false, nil
	}
	return false, apperr.Internal(err, "failed to check proposal document")
}

func recordToProposal(r *secondary.ProposalRecord) *primary.Proposal {
	return &primary.Proposal{
		ID:             r.ID,
		AuthorID:       r.AuthorID,
		Title:          r.Title,
		Department:     r.Department,
		FacilityID:     r.FacilityID,
		Score:          r.Score,
		VoteCount:      r.VoteCount,
		Level:          r.Level,
		Status:         r.Status,
		Visibility:     r.Visibility,
		VotingDeadline: r.VotingDeadline,
		DecisionBy:     r.DecisionBy,
		DecisionAt:     r.DecisionAt,
		DecisionReason: r.DecisionReason,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

// commitDecision runs apply and the transactional effects in one
// transaction, then hands notifications to the executor after commit.
// A dispatch failure is logged and never undoes the decision.
func commitDecision(
	ctx context.Context,
	tx secondary.Transactor,
	executor EffectExecutor,
	logger *zap.Logger,
	proposalID string,
	effs []effects.Effect,
	apply func(ctx context.Context) error,
) error {
	inTx, afterCommit := splitEffects(effs)
	err := tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := apply(ctx); err != nil {
			return err
		}
		if err := executor.Execute(ctx, inTx); err != nil {
			return apperr.Internal(err, "failed to apply decision effects")
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := executor.Execute(ctx, afterCommit); err != nil {
		logger.Warn("notifications not dispatched", zap.String("proposal_id", proposalID), zap.Error(err))
	}
	return nil
}
