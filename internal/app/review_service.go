package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/agenda/internal/apperr"
	"github.com/example/agenda/internal/core/gate"
	"github.com/example/agenda/internal/core/level"
	"github.com/example/agenda/internal/core/review"
	"github.com/example/agenda/internal/ports/primary"
	"github.com/example/agenda/internal/ports/secondary"
)

// ReviewServiceImpl implements the ReviewService interface.
type ReviewServiceImpl struct {
	proposals secondary.ProposalRepository
	reviews   secondary.ReviewRecordRepository
	users     secondary.UserRepository
	documents secondary.DocumentRepository
	tx        secondary.Transactor
	executor  EffectExecutor
	logger    *zap.Logger
	now       Clock
	extension time.Duration
}

// NewReviewService creates a new ReviewService with injected dependencies.
func NewReviewService(
	proposals secondary.ProposalRepository,
	reviews secondary.ReviewRecordRepository,
	users secondary.UserRepository,
	documents secondary.DocumentRepository,
	tx secondary.Transactor,
	executor EffectExecutor,
	extension time.Duration,
	logger *zap.Logger,
) *ReviewServiceImpl {
	return &ReviewServiceImpl{
		proposals: proposals,
		reviews:   reviews,
		users:     users,
		documents: documents,
		tx:        tx,
		executor:  executor,
		logger:    orNop(logger),
		now:       SystemClock,
		extension: extension,
	}
}

// Review records a supervisor decision. The audit record and the tier change
// commit together.
func (s *ReviewServiceImpl) Review(ctx context.Context, req primary.ReviewRequest) (*primary.ReviewResult, error) {
	if req.ReviewerID == "" {
		return nil, apperr.New(apperr.CodeValidation, "reviewer id is required")
	}

	proposal, err := loadProposal(ctx, s.proposals, req.ProposalID)
	if err != nil {
		return nil, err
	}
	reviewerLevel, err := s.users.GetPermissionLevel(ctx, req.ReviewerID)
	if err != nil {
		return nil, apperr.Internal(err, "failed to resolve reviewer permission")
	}

	current := level.Level(proposal.Level)
	action := review.Action(req.Action)
	guard := review.CanReview(review.ReviewContext{
		DecisionContext: gate.DecisionContext{
			ProposalID: proposal.ID,
			Actor:      reviewerLevel,
			Reason:     req.Reason,
			Score:      proposal.Score,
			Level:      current,
			Status:     proposal.Status,
		},
		Action: action,
	})
	if !guard.Allowed {
		s.logger.Info("review denied",
			zap.String("proposal_id", proposal.ID),
			zap.String("reviewer_id", req.ReviewerID),
			zap.String("code", string(guard.Code)))
		return nil, guard.Error()
	}

	hasDoc, err := documentExists(ctx, s.documents, proposal.ID)
	if err != nil {
		return nil, err
	}

	plan := review.GeneratePlan(review.PlanInput{
		ProposalID:     proposal.ID,
		AuthorID:       proposal.AuthorID,
		Title:          proposal.Title,
		Current:        current,
		Score:          proposal.Score,
		VoteCount:      proposal.VoteCount,
		Action:         action,
		Reason:         req.Reason,
		Comment:        req.Comment,
		ReviewerID:     req.ReviewerID,
		Now:            s.now(),
		Extension:      s.extension,
		DocumentExists: hasDoc,
	})

	record := reviewRecordFrom(plan.Record)
	var updated *secondary.ProposalRecord
	err = commitDecision(ctx, s.tx, s.executor, s.logger, proposal.ID, plan.SideEffects(), func(ctx context.Context) error {
		var err error
		updated, err = s.proposals.UpdateLevel(ctx, proposal.ID, levelUpdateFrom(plan.LevelChange), string(current))
		if err != nil {
			return apperr.Internal(err, "failed to apply review decision")
		}
		if err := s.reviews.Append(ctx, record); err != nil {
			return apperr.Internal(err, "failed to record review")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("department review recorded",
		zap.String("proposal_id", proposal.ID),
		zap.String("action", req.Action),
		zap.String("reviewer_id", req.ReviewerID))

	return &primary.ReviewResult{
		Proposal: recordToProposal(updated),
		Record:   *recordToReview(record),
	}, nil
}

// ListPending lists department-agenda proposals still waiting on a review.
func (s *ReviewServiceImpl) ListPending(ctx context.Context, filters primary.PendingReviewFilters) ([]*primary.Proposal, error) {
	minScore := filters.MinScore
	if minScore <= 0 {
		minScore = review.Policy.ScoreFloor
	}
	records, err := s.proposals.List(ctx, secondary.ProposalFilters{
		Level:      string(level.DeptAgenda),
		Department: filters.Department,
		FacilityID: filters.FacilityID,
		MinScore:   minScore,
		OpenOnly:   true,
	})
	if err != nil {
		return nil, apperr.Internal(err, "failed to list pending reviews")
	}

	proposals := make([]*primary.Proposal, len(records))
	for i, r := range records {
		proposals[i] = recordToProposal(r)
	}
	return proposals, nil
}

// ListReviews returns the review history of a proposal.
func (s *ReviewServiceImpl) ListReviews(ctx context.Context, proposalID string) ([]*primary.ReviewRecord, error) {
	records, err := s.reviews.ListByProposal(ctx, proposalID)
	if err != nil {
		return nil, apperr.Internal(err, "failed to list reviews")
	}
	out := make([]*primary.ReviewRecord, len(records))
	for i, r := range records {
		out[i] = recordToReview(r)
	}
	return out, nil
}

func reviewRecordFrom(r review.Record) *secondary.ReviewRecord {
	return &secondary.ReviewRecord{
		ID:                uuid.NewString(),
		ProposalID:        r.ProposalID,
		ReviewerID:        r.ReviewerID,
		Action:            string(r.Action),
		Reason:            r.Reason,
		Comment:           r.Comment,
		ScoreSnapshot:     r.ScoreSnapshot,
		VoteCountSnapshot: r.VoteCountSnapshot,
		FromLevel:         string(r.FromLevel),
		ToLevel:           string(r.ToLevel),
		CreatedAt:         r.CreatedAt,
	}
}

func recordToReview(r *secondary.ReviewRecord) *primary.ReviewRecord {
	return &primary.ReviewRecord{
		ID:                r.ID,
		ProposalID:        r.ProposalID,
		ReviewerID:        r.ReviewerID,
		Action:            r.Action,
		Reason:            r.Reason,
		Comment:           r.Comment,
		ScoreSnapshot:     r.ScoreSnapshot,
		VoteCountSnapshot: r.VoteCountSnapshot,
		FromLevel:         r.FromLevel,
		ToLevel:           r.ToLevel,
		CreatedAt:         r.CreatedAt,
	}
}

// Ensure ReviewServiceImpl implements the interface
var _ primary.ReviewService = (*ReviewServiceImpl)(nil)
