package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"sports-auction/internal/config"
	"sports-auction/internal/database"
	"sports-auction/internal/lock"
	"sports-auction/internal/logger"
	"sports-auction/internal/repository"
	"sports-auction/internal/services"
)

// One-off repair of every team ledger, for use while the API is stopped.
// With the API running use POST /api/admin/auctions/:id/reconcile instead.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	db, err := database.Open(cfg.Database, cfg.GetDSN())
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	fmt.Printf("✅ Connected to %s database\n", cfg.Database.Driver)

	repo := repository.NewRepository(db)
	core := services.NewCore(repo, lock.NewLocal(), logger.Default(), cfg.App.BidRetryAttempts)
	auctions := services.NewAuctionService(core)
	settlement := services.NewSettlementService(core)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	ctx = services.WithActor(ctx, "script:reconcile_ledgers")

	checked, repaired := 0, 0
	for offset := 0; ; offset += 100 {
		page, total, err := auctions.List(ctx, 100, offset)
		if err != nil {
			log.Fatal("❌ Failed to list auctions:", err)
		}
		for _, auction := range page {
			report, err := settlement.Reconcile(ctx, auction.ID)
			if err != nil {
				log.Printf("⚠️  Warning reconciling %s: %v", auction.ID, err)
				continue
			}
			checked += report.TeamsChecked
			for _, drift := range report.Repaired {
				repaired++
				fmt.Printf("🔧 %s team %s: spent %d -> %d, players %d -> %d\n",
					auction.Name, drift.TeamID, drift.SpentBefore, drift.SpentAfter, drift.PlayersBefore, drift.PlayersAfter)
			}
		}
		if len(page) == 0 || int64(offset+len(page)) >= total {
			break
		}
	}

	fmt.Println("\n📊 Verification:")
	fmt.Printf("   teams checked:  %d\n", checked)
	fmt.Printf("   teams repaired: %d\n", repaired)
	fmt.Println("\n✅ Ledger reconcile complete!")
}
