package services

import (
	"context"
	"testing"

	"sports-auction/internal/config"
	"sports-auction/internal/database"
	"sports-auction/internal/lock"
	"sports-auction/internal/models"
	"sports-auction/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testEnv struct {
	ctx          context.Context
	db           *gorm.DB
	repo         *repository.Repository
	lifecycle    *LifecycleService
	bidding      *BiddingService
	settlement   *SettlementService
	auctions     *AuctionService
	teams        *TeamService
	players      *PlayerService
	registration *RegistrationService
	audit        *AuditService
}

func newTestEnv(t testing.TB) *testEnv {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"}, "")
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	repo := repository.NewRepository(db)
	core := NewCore(repo, lock.NewLocal(), zap.NewNop(), 3)
	return &testEnv{
		ctx:          WithActor(context.Background(), "admin:test"),
		db:           db,
		repo:         repo,
		lifecycle:    NewLifecycleService(core),
		bidding:      NewBiddingService(core),
		settlement:   NewSettlementService(core),
		auctions:     NewAuctionService(core),
		teams:        NewTeamService(core),
		players:      NewPlayerService(core),
		registration: NewRegistrationService(core),
		audit:        NewAuditService(repo),
	}
}

func (e *testEnv) createAuction(t *testing.T, points int64, increments ...int64) *models.Auction {
	t.Helper()
	auction, err := e.auctions.Create(e.ctx, &models.CreateAuctionRequest{
		Name:          "City League",
		PointsPerTeam: points,
		BidIncrements: increments,
	})
	if err != nil {
		t.Fatalf("create auction: %v", err)
	}
	return auction
}

func (e *testEnv) createTeam(t *testing.T, auctionID uuid.UUID, name string) *models.Team {
	t.Helper()
	team, err := e.teams.Create(e.ctx, auctionID, &models.CreateTeamRequest{Name: name})
	if err != nil {
		t.Fatalf("create team %s: %v", name, err)
	}
	return team
}

func (e *testEnv) createPlayer(t *testing.T, auctionID uuid.UUID, name string, basePrice int64) *models.Player {
	t.Helper()
	player, err := e.players.Create(e.ctx, auctionID, &models.CreatePlayerRequest{Name: name, BasePrice: basePrice})
	if err != nil {
		t.Fatalf("create player %s: %v", name, err)
	}
	return player
}

// liveWithPlayer starts the auction and puts player on the block
func (e *testEnv) liveWithPlayer(t *testing.T, auctionID, playerID uuid.UUID) {
	t.Helper()
	if _, err := e.lifecycle.Start(e.ctx, auctionID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := e.lifecycle.SelectCurrentPlayer(e.ctx, auctionID, playerID); err != nil {
		t.Fatalf("select player: %v", err)
	}
}

func (e *testEnv) team(t *testing.T, id uuid.UUID) *models.Team {
	t.Helper()
	team, err := e.repo.GetTeam(e.ctx, id)
	if err != nil {
		t.Fatalf("reload team: %v", err)
	}
	return team
}

func (e *testEnv) player(t *testing.T, id uuid.UUID) *models.Player {
	t.Helper()
	player, err := e.repo.GetPlayer(e.ctx, id)
	if err != nil {
		t.Fatalf("reload player: %v", err)
	}
	return player
}

func (e *testEnv) auction(t *testing.T, id uuid.UUID) *models.Auction {
	t.Helper()
	auction, err := e.repo.GetAuction(e.ctx, id)
	if err != nil {
		t.Fatalf("reload auction: %v", err)
	}
	return auction
}

func assertLedger(t *testing.T, team *models.Team, total, spent int64, bought int) {
	t.Helper()
	if team.TotalPoints != total || team.SpentPoints != spent || team.PlayersBought != bought {
		t.Errorf("ledger = total %d spent %d bought %d, want total %d spent %d bought %d",
			team.TotalPoints, team.SpentPoints, team.PlayersBought, total, spent, bought)
	}
	if team.AvailablePoints != team.TotalPoints-team.SpentPoints {
		t.Errorf("available %d != total %d - spent %d", team.AvailablePoints, team.TotalPoints, team.SpentPoints)
	}
}
