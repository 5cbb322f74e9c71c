package services

import (
	"context"
	"errors"

	"sports-auction/internal/apperr"
	"sports-auction/internal/lock"
	"sports-auction/internal/models"
	"sports-auction/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type actorKey struct{}

// WithActor attaches the caller's identity for the audit log.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func actorFrom(ctx context.Context) string {
	if actor, ok := ctx.Value(actorKey{}).(string); ok && actor != "" {
		return actor
	}
	return "system"
}

// Core bundles what every mutating service needs.
type Core struct {
	repo     *repository.Repository
	locker   lock.Locker
	logger   *zap.Logger
	attempts int
}

func NewCore(repo *repository.Repository, locker lock.Locker, logger *zap.Logger, attempts int) *Core {
	if locker == nil {
		locker = lock.NewLocal()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if attempts < 1 {
		attempts = 1
	}
	return &Core{repo: repo, locker: locker, logger: logger, attempts: attempts}
}

// locked runs fn while holding every key, acquired in the given order.
func (c *Core) locked(ctx context.Context, keys []string, fn func() error) error {
	for _, key := range keys {
		unlock, err := c.locker.Lock(ctx, key)
		if err != nil {
			return apperr.ErrConflict.WithMessage("could not acquire %s", key).Wrap(err)
		}
		defer unlock()
	}
	return fn()
}

// retry re-runs fn while it fails with a version conflict. fn must re-read
// all state so validation sees the winner's write.
func (c *Core) retry(ctx context.Context, op string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		err = fn()
		if !errors.Is(err, apperr.ErrConflict) {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return apperr.ErrConflict.Wrap(ctxErr)
		}
		c.logger.Debug("Retrying after version conflict",
			zap.String("op", op),
			zap.Int("attempt", attempt),
		)
	}
	return err
}

// audit writes one audit row with the repository it is given, so callers pass
// the transaction-bound repository.
func audit(ctx context.Context, repo *repository.Repository, auctionID uuid.UUID, action, resourceType string, resourceID *uuid.UUID, details models.JSONB) error {
	return repo.CreateAuditLog(ctx, &models.AuditLog{
		AuctionID:    auctionID,
		Actor:        actorFrom(ctx),
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      details,
	})
}

func uuidPtr(id uuid.UUID) *uuid.UUID {
	return &id
}
