package jobs

import (
	"context"
	"sync"
	"time"

	"sports-auction/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const reconcilePageSize = 50

// AuctionLister pages through stored auctions.
type AuctionLister interface {
	List(ctx context.Context, limit, offset int) ([]*models.Auction, int64, error)
}

// LedgerReconciler rebuilds team ledgers of a single auction.
type LedgerReconciler interface {
	Reconcile(ctx context.Context, auctionID uuid.UUID) (*models.ReconcileReport, error)
}

// ReconcileJob periodically rebuilds every team ledger from its players and
// repairs drift left behind by partial writes.
type ReconcileJob struct {
	auctions   AuctionLister
	reconciler LedgerReconciler
	interval   time.Duration
	logger     *zap.Logger
	stopChan   chan struct{}
	stopOnce   sync.Once
}

func NewReconcileJob(auctions AuctionLister, reconciler LedgerReconciler, interval time.Duration, logger *zap.Logger) *ReconcileJob {
	return &ReconcileJob{
		auctions:   auctions,
		reconciler: reconciler,
		interval:   interval,
		logger:     logger.Named("reconcile_job"),
		stopChan:   make(chan struct{}),
	}
}

// Start runs the loop until Stop is called. It blocks.
func (j *ReconcileJob) Start() {
	j.logger.Info("Starting ledger reconcile job", zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.RunOnce(context.Background())
		case <-j.stopChan:
			j.logger.Info("Stopping ledger reconcile job")
			return
		}
	}
}

func (j *ReconcileJob) Stop() {
	j.stopOnce.Do(func() { close(j.stopChan) })
}

// RunOnce reconciles every auction and returns how many teams were repaired.
// A failing auction is logged and skipped.
func (j *ReconcileJob) RunOnce(ctx context.Context) int {
	repaired := 0
	for offset := 0; ; offset += reconcilePageSize {
		auctions, total, err := j.auctions.List(ctx, reconcilePageSize, offset)
		if err != nil {
			j.logger.Error("Failed to list auctions", zap.Error(err), zap.Int("offset", offset))
			return repaired
		}

		for _, auction := range auctions {
			report, err := j.reconciler.Reconcile(ctx, auction.ID)
			if err != nil {
				j.logger.Warn("Reconcile failed",
					zap.String("auction_id", auction.ID.String()),
					zap.Error(err),
				)
				continue
			}
			repaired += len(report.Repaired)
		}

		if len(auctions) == 0 || int64(offset+len(auctions)) >= total {
			break
		}
	}

	if repaired > 0 {
		j.logger.Info("Ledger reconcile repaired teams", zap.Int("teams", repaired))
	}
	return repaired
}
