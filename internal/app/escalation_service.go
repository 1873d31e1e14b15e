package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/example/agenda/internal/apperr"
	"github.com/example/agenda/internal/core/escalation"
	"github.com/example/agenda/internal/core/level"
	"github.com/example/agenda/internal/ports/primary"
	"github.com/example/agenda/internal/ports/secondary"
)

// EscalationServiceImpl implements the EscalationService interface.
type EscalationServiceImpl struct {
	proposals secondary.ProposalRepository
	users     secondary.UserRepository
	documents secondary.DocumentRepository
	tx        secondary.Transactor
	executor  EffectExecutor
	logger    *zap.Logger
	now       Clock
	extension time.Duration
}

// NewEscalationService creates a new EscalationService with injected dependencies.
// A non-positive extension uses escalation.DefaultDeadlineExtension.
func NewEscalationService(
	proposals secondary.ProposalRepository,
	users secondary.UserRepository,
	documents secondary.DocumentRepository,
	tx secondary.Transactor,
	executor EffectExecutor,
	extension time.Duration,
	logger *zap.Logger,
) *EscalationServiceImpl {
	return &EscalationServiceImpl{
		proposals: proposals,
		users:     users,
		documents: documents,
		tx:        tx,
		executor:  executor,
		logger:    orNop(logger),
		now:       SystemClock,
		extension: extension,
	}
}

// Escalate moves a proposal forward to req.TargetLevel.
func (s *EscalationServiceImpl) Escalate(ctx context.Context, req primary.EscalateRequest) (*primary.Proposal, error) {
	if req.ActorID == "" {
		return nil, apperr.New(apperr.CodeValidation, "actor id is required")
	}
	target, err := level.Parse(req.TargetLevel)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeValidation, err, "invalid target level")
	}

	proposal, err := loadProposal(ctx, s.proposals, req.ProposalID)
	if err != nil {
		return nil, err
	}
	actorLevel, err := s.users.GetPermissionLevel(ctx, req.ActorID)
	if err != nil {
		return nil, apperr.Internal(err, "failed to resolve actor permission")
	}

	current := level.Level(proposal.Level)
	guard := escalation.CanEscalate(escalation.EscalateContext{
		ProposalID: proposal.ID,
		Current:    current,
		Target:     target,
		Status:     proposal.Status,
		Actor:      actorLevel,
		Reason:     req.Reason,
	})
	if !guard.Allowed {
		s.logger.Info("escalation denied",
			zap.String("proposal_id", proposal.ID),
			zap.String("actor_id", req.ActorID),
			zap.String("code", string(guard.Code)))
		return nil, guard.Error()
	}

	hasDoc, err := documentExists(ctx, s.documents, proposal.ID)
	if err != nil {
		return nil, err
	}

	plan := escalation.GeneratePlan(escalation.PlanInput{
		ProposalID:     proposal.ID,
		AuthorID:       proposal.AuthorID,
		Title:          proposal.Title,
		Current:        current,
		Target:         target,
		ActorID:        req.ActorID,
		Reason:         req.Reason,
		Now:            s.now(),
		Extension:      s.extension,
		DocumentExists: hasDoc,
	})

	var updated *secondary.ProposalRecord
	err = commitDecision(ctx, s.tx, s.executor, s.logger, proposal.ID, plan.SideEffects(), func(ctx context.Context) error {
		var err error
		updated, err = s.proposals.UpdateLevel(ctx, proposal.ID, levelUpdateFrom(plan.LevelChange), string(current))
		if err != nil {
			return apperr.Internal(err, "failed to escalate proposal")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("proposal escalated",
		zap.String("proposal_id", proposal.ID),
		zap.String("from", string(current)),
		zap.String("to", string(target)),
		zap.String("actor_id", req.ActorID))
	return recordToProposal(updated), nil
}

// Ensure EscalationServiceImpl implements the interface
var _ primary.EscalationService = (*EscalationServiceImpl)(nil)
