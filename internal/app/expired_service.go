package app

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/agenda/internal/apperr"
	"github.com/example/agenda/internal/core/expired"
	"github.com/example/agenda/internal/core/gate"
	"github.com/example/agenda/internal/core/level"
	"github.com/example/agenda/internal/ports/primary"
	"github.com/example/agenda/internal/ports/secondary"
)

// ExpiredEscalationServiceImpl implements the ExpiredEscalationService interface.
type ExpiredEscalationServiceImpl struct {
	proposals secondary.ProposalRepository
	decisions secondary.ExpiredDecisionRepository
	users     secondary.UserRepository
	tx        secondary.Transactor
	executor  EffectExecutor
	logger    *zap.Logger
	now       Clock
}

// NewExpiredEscalationService creates a new ExpiredEscalationService with injected dependencies.
func NewExpiredEscalationService(
	proposals secondary.ProposalRepository,
	decisions secondary.ExpiredDecisionRepository,
	users secondary.UserRepository,
	tx secondary.Transactor,
	executor EffectExecutor,
	logger *zap.Logger,
) *ExpiredEscalationServiceImpl {
	return &ExpiredEscalationServiceImpl{
		proposals: proposals,
		decisions: decisions,
		users:     users,
		tx:        tx,
		executor:  executor,
		logger:    orNop(logger),
		now:       SystemClock,
	}
}

func eligibleLevelNames() []string {
	out := make([]string, len(expired.EligibleLevels))
	for i, l := range expired.EligibleLevels {
		out[i] = string(l)
	}
	return out
}

// ListOverdue lists escalated proposals whose voting deadline has passed.
func (s *ExpiredEscalationServiceImpl) ListOverdue(ctx context.Context) ([]*primary.OverdueProposal, error) {
	now := s.now()
	records, err := s.proposals.FindOverdueEscalated(ctx, now, eligibleLevelNames())
	if err != nil {
		return nil, apperr.Internal(err, "failed to list overdue proposals")
	}

	out := make([]*primary.OverdueProposal, 0, len(records))
	for _, r := range records {
		if !expired.IsOverdue(level.Level(r.Level), r.Status, r.VotingDeadline, now) {
			continue
		}
		a, ok := expired.Assess(r.ID, level.Level(r.Level), r.Score, r.VotingDeadline, now)
		if !ok {
			continue
		}
		out = append(out, &primary.OverdueProposal{
			Proposal:        recordToProposal(r),
			TargetScore:     a.TargetScore,
			AchievementRate: a.AchievementRate,
			DaysOverdue:     a.DaysOverdue,
		})
	}
	return out, nil
}

// Decide records the resolution of an overdue proposal. Each expired deadline
// is resolved at most once; a second attempt returns ALREADY_DECIDED.
func (s *ExpiredEscalationServiceImpl) Decide(ctx context.Context, req primary.ExpiredDecisionRequest) (*primary.ExpiredDecision, error) {
	if req.DeciderID == "" {
		return nil, apperr.New(apperr.CodeValidation, "decider id is required")
	}

	proposal, err := loadProposal(ctx, s.proposals, req.ProposalID)
	if err != nil {
		return nil, err
	}
	deciderLevel, err := s.users.GetPermissionLevel(ctx, req.DeciderID)
	if err != nil {
		return nil, apperr.Internal(err, "failed to resolve decider permission")
	}

	now := s.now()
	current := level.Level(proposal.Level)
	decision := expired.Decision(req.Decision)
	guard := expired.CanDecide(expired.DecideContext{
		DecisionContext: gate.DecisionContext{
			ProposalID: proposal.ID,
			Actor:      deciderLevel,
			Reason:     req.Reason,
			Score:      proposal.Score,
			Level:      current,
			Status:     proposal.Status,
		},
		Decision:       decision,
		VotingDeadline: proposal.VotingDeadline,
		Now:            now,
	})
	if !guard.Allowed {
		s.logger.Info("expired decision denied",
			zap.String("proposal_id", proposal.ID),
			zap.String("decider_id", req.DeciderID),
			zap.String("code", string(guard.Code)))
		return nil, guard.Error()
	}

	assessment, ok := expired.Assess(proposal.ID, current, proposal.Score, proposal.VotingDeadline, now)
	if !ok {
		return nil, apperr.New(apperr.CodeAlreadyDecided, "proposal %s is not awaiting an expired-escalation decision", proposal.ID)
	}

	plan := expired.GeneratePlan(expired.PlanInput{
		Assessment: assessment,
		AuthorID:   proposal.AuthorID,
		Title:      proposal.Title,
		Decision:   decision,
		Reason:     req.Reason,
		DeciderID:  req.DeciderID,
		Now:        now,
	})

	record := decisionRecordFrom(plan.Record)
	err = commitDecision(ctx, s.tx, s.executor, s.logger, proposal.ID, plan.SideEffects(), func(ctx context.Context) error {
		_, err := s.proposals.UpdateLevel(ctx, proposal.ID, levelUpdateFrom(plan.LevelChange), string(current))
		if apperr.Is(err, apperr.CodeConflict) {
			return apperr.Wrap(apperr.CodeAlreadyDecided, err, "proposal "+proposal.ID+" was resolved concurrently")
		}
		if err != nil {
			return apperr.Internal(err, "failed to apply expired decision")
		}
		if err := s.decisions.Append(ctx, record); err != nil {
			return apperr.Internal(err, "failed to record expired decision")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("expired escalation resolved",
		zap.String("proposal_id", proposal.ID),
		zap.String("decision", req.Decision),
		zap.Float64("achievement_rate", assessment.AchievementRate),
		zap.Int("days_overdue", assessment.DaysOverdue))
	return recordToDecision(record), nil
}

// ListDecisions returns the decision history of a proposal.
func (s *ExpiredEscalationServiceImpl) ListDecisions(ctx context.Context, proposalID string) ([]*primary.ExpiredDecision, error) {
	records, err := s.decisions.ListByProposal(ctx, proposalID)
	if err != nil {
		return nil, apperr.Internal(err, "failed to list expired decisions")
	}
	out := make([]*primary.ExpiredDecision, len(records))
	for i, r := range records {
		out[i] = recordToDecision(r)
	}
	return out, nil
}

func decisionRecordFrom(r expired.Record) *secondary.ExpiredDecisionRecord {
	return &secondary.ExpiredDecisionRecord{
		ID:              uuid.NewString(),
		ProposalID:      r.ProposalID,
		DeciderID:       r.DeciderID,
		Decision:        string(r.Decision),
		CurrentScore:    r.CurrentScore,
		TargetScore:     r.TargetScore,
		AchievementRate: r.AchievementRate,
		DaysOverdue:     r.DaysOverdue,
		Reason:          r.Reason,
		FromLevel:       string(r.FromLevel),
		ToLevel:         string(r.ToLevel),
		VotingDeadline:  r.VotingDeadline,
		CreatedAt:       r.CreatedAt,
	}
}

func recordToDecision(r *secondary.ExpiredDecisionRecord) *primary.ExpiredDecision {
	return &primary.ExpiredDecision{
		ID:              r.ID,
		ProposalID:      r.ProposalID,
		DeciderID:       r.DeciderID,
		Decision:        r.Decision,
		CurrentScore:    r.CurrentScore,
		TargetScore:     r.TargetScore,
		AchievementRate: r.AchievementRate,
		DaysOverdue:     r.DaysOverdue,
		Reason:          r.Reason,
		FromLevel:       r.FromLevel,
		ToLevel:         r.ToLevel,
		VotingDeadline:  r.VotingDeadline,
		CreatedAt:       r.CreatedAt,
	}
}

// Ensure ExpiredEscalationServiceImpl implements the interface
var _ primary.ExpiredEscalationService = (*ExpiredEscalationServiceImpl)(nil)
