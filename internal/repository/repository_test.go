package repository

import (
	"context"
	"errors"
	"testing"

	"sports-auction/internal/apperr"
	"sports-auction/internal/config"
	"sports-auction/internal/database"
	"sports-auction/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := database.Open(config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"}, "")
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	return db
}

func seedAuction(t *testing.T, repo *Repository) *models.Auction {
	auction := &models.Auction{Name: "Summer Cup", PointsPerTeam: 10000}
	if err := repo.CreateAuction(context.Background(), auction); err != nil {
		t.Fatalf("create auction: %v", err)
	}
	return auction
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	if _, err := repo.GetAuction(ctx, uuid.New()); !errors.Is(err, apperr.ErrAuctionNotFound) {
		t.Errorf("expected ErrAuctionNotFound, got %v", err)
	}
	if _, err := repo.GetTeam(ctx, uuid.New()); !errors.Is(err, apperr.ErrTeamNotFound) {
		t.Errorf("expected ErrTeamNotFound, got %v", err)
	}
	if _, err := repo.GetPlayer(ctx, uuid.New()); !errors.Is(err, apperr.ErrPlayerNotFound) {
		t.Errorf("expected ErrPlayerNotFound, got %v", err)
	}
	if _, err := repo.GetPlayerRequest(ctx, uuid.New()); !errors.Is(err, apperr.ErrRequestNotFound) {
		t.Errorf("expected ErrRequestNotFound, got %v", err)
	}
}

func TestUpdateVersionedDetectsStaleWrite(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()
	auction := seedAuction(t, repo)

	player := &models.Player{AuctionID: auction.ID, Name: "A. Sharma", BasePrice: 500}
	if err := repo.CreatePlayer(ctx, player); err != nil {
		t.Fatalf("create player: %v", err)
	}

	first, _ := repo.GetPlayer(ctx, player.ID)
	second, _ := repo.GetPlayer(ctx, player.ID)

	first.CurrentTopBid = 600
	if err := repo.UpdatePlayer(ctx, first); err != nil {
		t.Fatalf("first update: %v", err)
	}
	if first.Version != 1 {
		t.Errorf("expected version 1, got %d", first.Version)
	}

	second.CurrentTopBid = 700
	err := repo.UpdatePlayer(ctx, second)
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if second.Version != 0 {
		t.Errorf("version should be restored after conflict, got %d", second.Version)
	}

	stored, _ := repo.GetPlayer(ctx, player.ID)
	if stored.CurrentTopBid != 600 {
		t.Errorf("stale write leaked: top bid %d", stored.CurrentTopBid)
	}
}

func TestUpdateWritesZeroValues(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()
	auction := seedAuction(t, repo)

	auction.IsLive = true
	auction.Status = models.AuctionStatusLive
	if err := repo.UpdateAuction(ctx, auction); err != nil {
		t.Fatalf("update: %v", err)
	}
	auction.IsLive = false
	auction.CurrentPlayerID = nil
	if err := repo.UpdateAuction(ctx, auction); err != nil {
		t.Fatalf("update: %v", err)
	}

	stored, _ := repo.GetAuction(ctx, auction.ID)
	if stored.IsLive {
		t.Errorf("expected is_live=false to be persisted")
	}
	if stored.Version != 2 {
		t.Errorf("expected version 2, got %d", stored.Version)
	}
}

func TestWithTxRollsBack(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()
	auction := seedAuction(t, repo)

	boom := errors.New("boom")
	err := repo.WithTx(ctx, func(tx *Repository) error {
		if err := tx.CreateTeam(ctx, &models.Team{AuctionID: auction.ID, Name: "Ghost"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	teams, _ := repo.ListTeams(ctx, auction.ID)
	if len(teams) != 0 {
		t.Errorf("expected rollback, found %d teams", len(teams))
	}
}

func TestDeleteAuctionCascade(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()
	auction := seedAuction(t, repo)
	other := seedAuction(t, repo)

	repo.CreateTeam(ctx, &models.Team{AuctionID: auction.ID, Name: "T1"})
	repo.CreatePlayer(ctx, &models.Player{AuctionID: auction.ID, Name: "P1"})
	repo.CreatePlayerRequest(ctx, &models.PlayerRequest{AuctionID: auction.ID, Name: "R1"})
	repo.CreateTeam(ctx, &models.Team{AuctionID: other.ID, Name: "Keep"})

	err := repo.WithTx(ctx, func(tx *Repository) error {
		return tx.DeleteAuctionCascade(ctx, auction.ID)
	})
	if err != nil {
		t.Fatalf("cascade delete: %v", err)
	}

	if _, err := repo.GetAuction(ctx, auction.ID); !errors.Is(err, apperr.ErrAuctionNotFound) {
		t.Errorf("auction still present: %v", err)
	}
	teams, _ := repo.ListTeams(ctx, auction.ID)
	players, _ := repo.ListPlayers(ctx, auction.ID, "")
	reqs, _ := repo.ListPlayerRequests(ctx, auction.ID, "")
	if len(teams)+len(players)+len(reqs) != 0 {
		t.Errorf("children left behind: %d teams, %d players, %d requests", len(teams), len(players), len(reqs))
	}
	kept, _ := repo.ListTeams(ctx, other.ID)
	if len(kept) != 1 {
		t.Errorf("other auction's team was deleted")
	}
}

func TestCountPlayersByStatus(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()
	auction := seedAuction(t, repo)

	statuses := []models.PlayerStatus{
		models.PlayerStatusSold, models.PlayerStatusSold, models.PlayerStatusUnsold, models.PlayerStatusNotInAuction,
	}
	for _, status := range statuses {
		repo.CreatePlayer(ctx, &models.Player{AuctionID: auction.ID, Name: "P", Status: status})
	}

	counts, err := repo.CountPlayersByStatus(ctx, auction.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if counts[models.PlayerStatusSold] != 2 || counts[models.PlayerStatusUnsold] != 1 {
		t.Errorf("unexpected counts: %v", counts)
	}
}

func TestResolvePlayerRequestOnlyOnce(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()
	auction := seedAuction(t, repo)

	req := &models.PlayerRequest{AuctionID: auction.ID, Name: "Walk-in"}
	repo.CreatePlayerRequest(ctx, req)

	if err := repo.ResolvePlayerRequest(ctx, req.ID, models.PlayerRequestStatusRejected, nil); err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	err := repo.ResolvePlayerRequest(ctx, req.ID, models.PlayerRequestStatusApproved, nil)
	if !errors.Is(err, apperr.ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
}
