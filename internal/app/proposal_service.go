package app

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/agenda/internal/apperr"
	"github.com/example/agenda/internal/core/effects"
	"github.com/example/agenda/internal/core/level"
	"github.com/example/agenda/internal/core/milestone"
	"github.com/example/agenda/internal/ports/primary"
	"github.com/example/agenda/internal/ports/secondary"
)

// ProposalServiceImpl implements the ProposalService interface.
type ProposalServiceImpl struct {
	proposals secondary.ProposalRepository
	tx        secondary.Transactor
	executor  EffectExecutor
	logger    *zap.Logger
	now       Clock
	window    time.Duration
}

// NewProposalService creates a new ProposalService with injected dependencies.
// votingWindow is the deadline opened when a milestone places a proposal on an
// agenda tier; non-positive uses milestone.DefaultVotingWindow.
func NewProposalService(
	proposals secondary.ProposalRepository,
	tx secondary.Transactor,
	executor EffectExecutor,
	votingWindow time.Duration,
	logger *zap.Logger,
) *ProposalServiceImpl {
	return &ProposalServiceImpl{
		proposals: proposals,
		tx:        tx,
		executor:  executor,
		logger:    orNop(logger),
		now:       SystemClock,
		window:    votingWindow,
	}
}

// CreateProposal creates a proposal at PENDING with score 0.
func (s *ProposalServiceImpl) CreateProposal(ctx context.Context, req primary.CreateProposalRequest) (*primary.Proposal, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperr.New(apperr.CodeValidation, "title is required")
	}
	if req.AuthorID == "" {
		return nil, apperr.New(apperr.CodeValidation, "author id is required")
	}

	id, err := s.proposals.GetNextID(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "failed to generate proposal ID")
	}

	now := s.now()
	record := &secondary.ProposalRecord{
		ID:         id,
		AuthorID:   req.AuthorID,
		Title:      title,
		Department: req.Department,
		FacilityID: req.FacilityID,
		Level:      string(level.Pending),
		Status:     level.AwaitingStatus(level.Pending),
		Visibility: effects.VisibilityDepartment,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.proposals.Create(ctx, record); err != nil {
		return nil, apperr.Internal(err, "failed to create proposal")
	}

	s.logger.Info("proposal created", zap.String("proposal_id", id), zap.String("author_id", req.AuthorID))
	return recordToProposal(record), nil
}

// GetProposal retrieves a proposal by ID.
func (s *ProposalServiceImpl) GetProposal(ctx context.Context, proposalID string) (*primary.Proposal, error) {
	record, err := loadProposal(ctx, s.proposals, proposalID)
	if err != nil {
		return nil, err
	}
	return recordToProposal(record), nil
}

// ListProposals lists proposals with optional filters.
func (s *ProposalServiceImpl) ListProposals(ctx context.Context, filters primary.ProposalFilters) ([]*primary.Proposal, error) {
	if filters.Level != "" {
		l, err := level.Parse(filters.Level)
		if err != nil {
			return nil, apperr.Wrap(apperr.CodeValidation, err, "invalid level filter")
		}
		filters.Level = string(l)
	}
	records, err := s.proposals.List(ctx, secondary.ProposalFilters{
		Level:      filters.Level,
		Status:     filters.Status,
		Department: filters.Department,
		FacilityID: filters.FacilityID,
		Limit:      filters.Limit,
	})
	if err != nil {
		return nil, apperr.Internal(err, "failed to list proposals")
	}

	proposals := make([]*primary.Proposal, len(records))
	for i, r := range records {
		proposals[i] = recordToProposal(r)
	}
	return proposals, nil
}

// RecordVote applies a score delta and fires at most one milestone.
// The score update always commits; a milestone whose tier change lost a race
// is skipped.
func (s *ProposalServiceImpl) RecordVote(ctx context.Context, req primary.RecordVoteRequest) (*primary.VoteResult, error) {
	if req.ProposalID == "" {
		return nil, apperr.New(apperr.CodeValidation, "proposal id is required")
	}

	var (
		change    *secondary.ScoreChange
		plan      milestone.Plan
		current   *secondary.ProposalRecord
		postQueue []effects.Effect
	)

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		change, err = s.proposals.ApplyScoreDelta(ctx, req.ProposalID, req.Delta)
		if err != nil {
			return apperr.Internal(err, "failed to apply score delta")
		}
		current = change.Proposal

		plan = milestone.GeneratePlan(milestone.PlanInput{
			ProposalID:   current.ID,
			AuthorID:     current.AuthorID,
			Title:        current.Title,
			CurrentLevel: level.Level(current.Level),
			Status:       current.Status,
			OldScore:     change.OldScore,
			NewScore:     change.NewScore,
			Now:          s.now(),
			VotingWindow: s.window,
		})
		if !plan.Fired {
			return nil
		}

		updated, err := s.proposals.UpdateLevel(ctx, current.ID, levelUpdateFrom(*plan.LevelChange), string(plan.LevelChange.ExpectedLevel))
		if apperr.Is(err, apperr.CodeConflict) {
			plan.Fired = false
			plan.Skipped = "proposal tier changed concurrently"
			return nil
		}
		if err != nil {
			return apperr.Internal(err, "failed to apply milestone")
		}
		current = updated

		inTx, afterCommit := splitEffects(plan.SideEffects())
		if err := s.executor.Execute(ctx, inTx); err != nil {
			return apperr.Internal(err, "failed to apply milestone effects")
		}
		postQueue = afterCommit
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !plan.Fired {
		postQueue = plan.SideEffects()
	}
	if len(postQueue) > 0 {
		if err := s.executor.Execute(ctx, postQueue); err != nil {
			s.logger.Warn("milestone notifications not dispatched", zap.String("proposal_id", current.ID), zap.Error(err))
		}
	}

	result := &primary.VoteResult{
		Proposal: recordToProposal(current),
		OldScore: change.OldScore,
		NewScore: change.NewScore,
	}
	if plan.Threshold > 0 {
		result.Milestone = &primary.MilestoneOutcome{
			Threshold: plan.Threshold,
			Level:     string(level.TargetLevelForScore(plan.Threshold)),
			Fired:     plan.Fired,
			Skipped:   plan.Skipped,
		}
	}
	return result, nil
}

// Ensure ProposalServiceImpl implements the interface
var _ primary.ProposalService = (*ProposalServiceImpl)(nil)
