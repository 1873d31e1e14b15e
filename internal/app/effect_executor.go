// Package app contains the application layer - service implementations and effect execution.
package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/agenda/internal/core/effects"
	"github.com/example/agenda/internal/ports/secondary"
)

// EffectExecutor interprets and executes effects.
// This is the "Imperative Shell" - the only place I/O happens.
type EffectExecutor interface {
	Execute(ctx context.Context, effs []effects.Effect) error
}

// DefaultEffectExecutor implements EffectExecutor with real I/O.
// Notify effects are handed to the dispatcher and never fail the caller.
type DefaultEffectExecutor struct {
	documents  secondary.DocumentRepository
	dispatcher *Dispatcher
	logger     *zap.Logger
	now        Clock
}

// NewEffectExecutor creates a new DefaultEffectExecutor.
func NewEffectExecutor(documents secondary.DocumentRepository, dispatcher *Dispatcher, logger *zap.Logger) *DefaultEffectExecutor {
	return &DefaultEffectExecutor{
		documents:  documents,
		dispatcher: dispatcher,
		logger:     orNop(logger),
		now:        SystemClock,
	}
}

// Execute processes a slice of effects, executing each in sequence.
// Notify effects are collected and dispatched together once the rest succeed.
func (e *DefaultEffectExecutor) Execute(ctx context.Context, effs []effects.Effect) error {
	var notices []effects.NotifyEffect
	for _, eff := range effs {
		if n, ok := eff.(effects.NotifyEffect); ok {
			notices = append(notices, n)
			continue
		}
		if err := e.executeOne(ctx, eff); err != nil {
			return fmt.Errorf("failed to execute %s effect: %w", eff.EffectType(), err)
		}
	}
	if len(notices) > 0 && e.dispatcher != nil {
		e.dispatcher.Dispatch(notices...)
	}
	return nil
}

func (e *DefaultEffectExecutor) executeOne(ctx context.Context, eff effects.Effect) error {
	switch typed := eff.(type) {
	case effects.DocumentEffect:
		return e.executeDocument(ctx, typed)
	case effects.LogEffect:
		e.executeLog(typed)
		return nil
	default:
		return fmt.Errorf("unknown effect type: %T", eff)
	}
}

func (e *DefaultEffectExecutor) executeDocument(ctx context.Context, eff effects.DocumentEffect) error {
	created, err := e.documents.CreateIfAbsent(ctx, &secondary.DocumentRecord{
		ID:         uuid.NewString(),
		ProposalID: eff.ProposalID,
		OwnerID:    eff.OwnerID,
		Title:      eff.Title,
		Status:     secondary.DocumentStatusDraft,
		CreatedAt:  e.now(),
	})
	if err != nil {
		return err
	}
	if created {
		e.logger.Info("proposal document created", zap.String("proposal_id", eff.ProposalID))
	}
	return nil
}

func (e *DefaultEffectExecutor) executeLog(eff effects.LogEffect) {
	fields := make([]zap.Field, 0, len(eff.Fields))
	for k, v := range eff.Fields {
		fields = append(fields, zap.Any(k, v))
	}
	switch eff.Level {
	case "debug":
		e.logger.Debug(eff.Message, fields...)
	case "warn":
		e.logger.Warn(eff.Message, fields...)
	case "error":
		e.logger.Error(eff.Message, fields...)
	default:
		e.logger.Info(eff.Message, fields...)
	}
}

// splitEffects separates effects that write state inside the transaction
// from the notifications and log entries that run after commit.
func splitEffects(effs []effects.Effect) (inTx, afterCommit []effects.Effect) {
	for _, eff := range effs {
		switch eff.(type) {
		case effects.NotifyEffect, effects.LogEffect:
			afterCommit = append(afterCommit, eff)
		default:
			inTx = append(inTx, eff)
		}
	}
	return inTx, afterCommit
}
