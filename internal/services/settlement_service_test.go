package services

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"sports-auction/internal/apperr"
	"sports-auction/internal/ledger"
	"sports-auction/internal/models"

	"github.com/google/uuid"
)

// soldSetup leaves one live auction with a team and a player holding a top bid
func soldSetup(t *testing.T, env *testEnv, topBid int64) (*models.Auction, *models.Team, *models.Player) {
	t.Helper()
	auction := env.createAuction(t, 10000)
	team := env.createTeam(t, auction.ID, "Tigers")
	player := env.createPlayer(t, auction.ID, "P", 500)
	env.liveWithPlayer(t, auction.ID, player.ID)
	if topBid > 0 {
		if _, err := env.bidding.PlaceBid(env.ctx, auction.ID, player.ID, team.ID, topBid); err != nil {
			t.Fatalf("place bid: %v", err)
		}
	}
	return auction, team, player
}

func TestMarkSoldThenRemoveRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	_, team, player := soldSetup(t, env, 500)

	sold, err := env.settlement.MarkSold(env.ctx, player.ID, team.ID, 500, false)
	if err != nil {
		t.Fatalf("mark sold: %v", err)
	}
	if sold.Status != models.PlayerStatusSold || sold.TeamID == nil || *sold.TeamID != team.ID || sold.SoldPrice != 500 {
		t.Fatalf("unexpected sold player: %+v", sold)
	}
	stored := env.team(t, team.ID)
	assertLedger(t, stored, 10000, 500, 1)
	if stored.AvailablePoints != 9500 {
		t.Errorf("expected 9500 available, got %d", stored.AvailablePoints)
	}

	removed, err := env.settlement.RemoveFromTeam(env.ctx, player.ID)
	if err != nil {
		t.Fatalf("remove from team: %v", err)
	}
	if removed.Status != models.PlayerStatusUnsold || removed.TeamID != nil || removed.SoldPrice != 0 {
		t.Errorf("unexpected removed player: %+v", removed)
	}
	assertLedger(t, env.team(t, team.ID), 10000, 0, 0)
}

func TestMarkSoldPriceRules(t *testing.T) {
	env := newTestEnv(t)
	_, team, player := soldSetup(t, env, 600)

	if _, err := env.settlement.MarkSold(env.ctx, player.ID, team.ID, 550, false); !errors.Is(err, apperr.ErrSoldPriceMismatch) {
		t.Errorf("expected SoldPriceMismatch, got %v", err)
	}
	assertLedger(t, env.team(t, team.ID), 10000, 0, 0)

	sold, err := env.settlement.MarkSold(env.ctx, player.ID, team.ID, 550, true)
	if err != nil {
		t.Fatalf("override: %v", err)
	}
	if sold.SoldPrice != 550 {
		t.Errorf("expected overridden price 550, got %d", sold.SoldPrice)
	}
	assertLedger(t, env.team(t, team.ID), 10000, 550, 1)

	if _, err := env.settlement.MarkSold(env.ctx, player.ID, team.ID, 550, true); !errors.Is(err, apperr.ErrInvalidState) {
		t.Errorf("selling twice: expected InvalidState, got %v", err)
	}
	assertLedger(t, env.team(t, team.ID), 10000, 550, 1)
}

func TestMarkSoldWithoutBidsNeedsPrice(t *testing.T) {
	env := newTestEnv(t)
	_, team, player := soldSetup(t, env, 0)

	if _, err := env.settlement.MarkSold(env.ctx, player.ID, team.ID, 0, false); !errors.Is(err, apperr.ErrInvalidAmount) {
		t.Errorf("expected InvalidAmount, got %v", err)
	}
	if _, err := env.settlement.MarkSold(env.ctx, player.ID, team.ID, 700, true); err != nil {
		t.Errorf("manual sale with override: %v", err)
	}
}

func TestMarkSoldPreconditions(t *testing.T) {
	env := newTestEnv(t)
	auction, team, player := soldSetup(t, env, 500)
	other := env.createAuction(t, 10000)
	foreign := env.createTeam(t, other.ID, "Foreign")

	if _, err := env.settlement.MarkSold(env.ctx, uuid.New(), team.ID, 500, false); !errors.Is(err, apperr.ErrPlayerNotFound) {
		t.Errorf("expected PlayerNotFound, got %v", err)
	}
	if _, err := env.settlement.MarkSold(env.ctx, player.ID, foreign.ID, 500, false); !errors.Is(err, apperr.ErrTeamNotFound) {
		t.Errorf("expected TeamNotFound, got %v", err)
	}

	env.lifecycle.Finish(env.ctx, auction.ID)
	if _, err := env.settlement.MarkSold(env.ctx, player.ID, team.ID, 500, false); !errors.Is(err, apperr.ErrAuctionNotLive) {
		t.Errorf("expected AuctionNotLive, got %v", err)
	}
	assertLedger(t, env.team(t, team.ID), 10000, 0, 0)
}

func TestMarkSoldRosterFull(t *testing.T) {
	env := newTestEnv(t)
	limit := 1
	auction := env.createAuction(t, 10000)
	if _, err := env.auctions.Update(env.ctx, auction.ID, &models.UpdateAuctionRequest{MaxPlayersPerTeam: &limit}); err != nil {
		t.Fatalf("update auction: %v", err)
	}
	team := env.createTeam(t, auction.ID, "Tigers")
	first := env.createPlayer(t, auction.ID, "First", 100)
	second := env.createPlayer(t, auction.ID, "Second", 100)

	env.liveWithPlayer(t, auction.ID, first.ID)
	env.bidding.PlaceBid(env.ctx, auction.ID, first.ID, team.ID, 100)
	if _, err := env.settlement.MarkSold(env.ctx, first.ID, team.ID, 0, false); err != nil {
		t.Fatalf("first sale: %v", err)
	}

	env.lifecycle.SelectCurrentPlayer(env.ctx, auction.ID, second.ID)
	env.bidding.PlaceBid(env.ctx, auction.ID, second.ID, team.ID, 100)
	if _, err := env.settlement.MarkSold(env.ctx, second.ID, team.ID, 0, false); !errors.Is(err, apperr.ErrRosterFull) {
		t.Errorf("expected RosterFull, got %v", err)
	}
}

func TestMarkUnsoldIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	_, team, player := soldSetup(t, env, 500)

	once, err := env.settlement.MarkUnsold(env.ctx, player.ID)
	if err != nil {
		t.Fatalf("mark unsold: %v", err)
	}
	twice, err := env.settlement.MarkUnsold(env.ctx, player.ID)
	if err != nil {
		t.Fatalf("mark unsold again: %v", err)
	}
	if once.Status != twice.Status || once.SoldPrice != twice.SoldPrice || once.TeamID != nil || twice.TeamID != nil {
		t.Errorf("states differ: %+v vs %+v", once, twice)
	}
	if twice.Status != models.PlayerStatusUnsold {
		t.Errorf("expected UNSOLD, got %s", twice.Status)
	}
	// bid history stays until relist
	if twice.CurrentTopBid != 500 {
		t.Errorf("mark unsold should keep the top bid, got %d", twice.CurrentTopBid)
	}
	assertLedger(t, env.team(t, team.ID), 10000, 0, 0)
}

func TestMarkUnsoldReversesSale(t *testing.T) {
	env := newTestEnv(t)
	_, team, player := soldSetup(t, env, 800)
	env.settlement.MarkSold(env.ctx, player.ID, team.ID, 0, false)

	if _, err := env.settlement.MarkUnsold(env.ctx, player.ID); err != nil {
		t.Fatalf("mark unsold: %v", err)
	}
	assertLedger(t, env.team(t, team.ID), 10000, 0, 0)
}

func TestRemoveFromTeamFloorsLedger(t *testing.T) {
	env := newTestEnv(t)
	_, team, player := soldSetup(t, env, 500)
	env.settlement.MarkSold(env.ctx, player.ID, team.ID, 0, false)

	// simulate a ledger that was already drained by an earlier partial write
	drained := env.team(t, team.ID)
	drained.SpentPoints = 100
	drained.PlayersBought = 0
	drained.AvailablePoints = drained.TotalPoints - drained.SpentPoints
	if err := env.repo.UpdateTeam(env.ctx, drained); err != nil {
		t.Fatalf("drain team: %v", err)
	}

	if _, err := env.settlement.RemoveFromTeam(env.ctx, player.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	assertLedger(t, env.team(t, team.ID), 10000, 0, 0)
}

func TestRelist(t *testing.T) {
	env := newTestEnv(t)
	_, team, player := soldSetup(t, env, 500)
	env.settlement.MarkSold(env.ctx, player.ID, team.ID, 0, false)

	if _, err := env.settlement.Relist(env.ctx, player.ID); !errors.Is(err, apperr.ErrInvalidState) {
		t.Errorf("relist of sold player: expected InvalidState, got %v", err)
	}

	env.settlement.RemoveFromTeam(env.ctx, player.ID)
	relisted, err := env.settlement.Relist(env.ctx, player.ID)
	if err != nil {
		t.Fatalf("relist: %v", err)
	}
	if relisted.Status != models.PlayerStatusUnsold || relisted.CurrentTopBid != 0 || len(relisted.Bids) != 0 {
		t.Errorf("expected a clean session, got %+v", relisted)
	}
	stored := env.player(t, player.ID)
	if stored.CurrentTopBid != 0 || len(stored.Bids) != 0 {
		t.Errorf("relist not persisted: %+v", stored)
	}
}

func TestRelistedPlayerStartsNewSession(t *testing.T) {
	env := newTestEnv(t)
	auction, team, player := soldSetup(t, env, 900)

	env.settlement.MarkUnsold(env.ctx, player.ID)
	env.settlement.Relist(env.ctx, player.ID)
	if _, err := env.lifecycle.SelectCurrentPlayer(env.ctx, auction.ID, player.ID); err != nil {
		t.Fatalf("reselect: %v", err)
	}

	if _, err := env.bidding.PlaceBid(env.ctx, auction.ID, player.ID, team.ID, 500); err != nil {
		t.Errorf("bid below the old session's top bid should be accepted after relist: %v", err)
	}
}

func TestAddBonusAll(t *testing.T) {
	env := newTestEnv(t)
	auction := env.createAuction(t, 10000)
	t1 := env.createTeam(t, auction.ID, "T1")
	t2 := env.createTeam(t, auction.ID, "T2")

	result, err := env.settlement.AddBonus(env.ctx, auction.ID, "ALL", "1000")
	if err != nil {
		t.Fatalf("bonus: %v", err)
	}
	if len(result.Succeeded) != 2 || len(result.Failed) != 0 || result.Amount != 1000 {
		t.Errorf("unexpected result: %+v", result)
	}
	assertLedger(t, env.team(t, t1.ID), 11000, 0, 0)
	assertLedger(t, env.team(t, t2.ID), 11000, 0, 0)
}

func TestAddBonusSingleTeam(t *testing.T) {
	env := newTestEnv(t)
	auction := env.createAuction(t, 10000)
	t1 := env.createTeam(t, auction.ID, "T1")
	t2 := env.createTeam(t, auction.ID, "T2")

	result, err := env.settlement.AddBonus(env.ctx, auction.ID, t1.ID.String(), " 250 ")
	if err != nil {
		t.Fatalf("bonus: %v", err)
	}
	if len(result.Succeeded) != 1 || result.Succeeded[0] != t1.ID {
		t.Errorf("unexpected result: %+v", result)
	}
	assertLedger(t, env.team(t, t1.ID), 10250, 0, 0)
	assertLedger(t, env.team(t, t2.ID), 10000, 0, 0)

	other := env.createAuction(t, 10000)
	foreign := env.createTeam(t, other.ID, "Foreign")
	if _, err := env.settlement.AddBonus(env.ctx, auction.ID, foreign.ID.String(), "100"); !errors.Is(err, apperr.ErrTeamNotFound) {
		t.Errorf("expected TeamNotFound, got %v", err)
	}
}

func TestAddBonusRejectsBadAmounts(t *testing.T) {
	env := newTestEnv(t)
	auction := env.createAuction(t, 10000)
	team := env.createTeam(t, auction.ID, "T1")

	for _, raw := range []string{"abc", "", "10.5", "0", "-5", "1e3"} {
		if _, err := env.settlement.AddBonus(env.ctx, auction.ID, "ALL", raw); !errors.Is(err, apperr.ErrInvalidAmount) {
			t.Errorf("amount %q: expected InvalidAmount, got %v", raw, err)
		}
	}
	assertLedger(t, env.team(t, team.ID), 10000, 0, 0)
}

func TestLedgerInvariantAcrossOperations(t *testing.T) {
	env := newTestEnv(t)
	auction := env.createAuction(t, 5000)
	team := env.createTeam(t, auction.ID, "T")
	env.lifecycle.Start(env.ctx, auction.ID)

	var players []*models.Player
	for i, base := range []int64{300, 700, 1200} {
		p := env.createPlayer(t, auction.ID, "P"+string(rune('A'+i)), base)
		env.lifecycle.SelectCurrentPlayer(env.ctx, auction.ID, p.ID)
		if _, err := env.bidding.PlaceBid(env.ctx, auction.ID, p.ID, team.ID, base); err != nil {
			t.Fatalf("bid: %v", err)
		}
		if _, err := env.settlement.MarkSold(env.ctx, p.ID, team.ID, 0, false); err != nil {
			t.Fatalf("sold: %v", err)
		}
		players = append(players, p)
	}
	assertLedger(t, env.team(t, team.ID), 5000, 2200, 3)

	env.settlement.AddBonus(env.ctx, auction.ID, "ALL", "500")
	env.settlement.RemoveFromTeam(env.ctx, players[1].ID)
	env.settlement.MarkUnsold(env.ctx, players[0].ID)
	env.settlement.RemoveFromTeam(env.ctx, players[0].ID)

	assertLedger(t, env.team(t, team.ID), 5500, 1200, 1)
}

func TestMarkSoldOverrideCannotOverdraw(t *testing.T) {
	env := newTestEnv(t)
	_, team, player := soldSetup(t, env, 500)

	if _, err := env.settlement.MarkSold(env.ctx, player.ID, team.ID, 10001, true); !errors.Is(err, apperr.ErrInsufficientBudget) {
		t.Fatalf("expected InsufficientBudget, got %v", err)
	}
	assertLedger(t, env.team(t, team.ID), 10000, 0, 0)
	if got := env.player(t, player.ID); got.Status != models.PlayerStatusInAuction || got.TeamID != nil {
		t.Errorf("rejected sale changed the player: %+v", got)
	}

	if _, err := env.settlement.MarkSold(env.ctx, player.ID, team.ID, 10000, true); err != nil {
		t.Fatalf("sale of the whole budget: %v", err)
	}
	assertLedger(t, env.team(t, team.ID), 10000, 10000, 1)
}

func TestConcurrentLedgerMutationsKeepInvariant(t *testing.T) {
	env := newTestEnv(t)
	auction := env.createAuction(t, 100000)
	team := env.createTeam(t, auction.ID, "Tigers")
	rival := env.createTeam(t, auction.ID, "Lions")
	if _, err := env.lifecycle.Start(env.ctx, auction.ID); err != nil {
		t.Fatalf("start: %v", err)
	}

	players := make([]*models.Player, 10)
	for i := range players {
		players[i] = env.createPlayer(t, auction.ID, fmt.Sprintf("P%d", i), 50)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 2*len(players))
	for _, p := range players {
		wg.Add(2)
		go func(id uuid.UUID) {
			defer wg.Done()
			if _, err := env.settlement.MarkSold(env.ctx, id, team.ID, 100, true); err != nil {
				errs <- fmt.Errorf("sold %s: %w", id, err)
			}
		}(p.ID)
		go func() {
			defer wg.Done()
			res, err := env.settlement.AddBonus(env.ctx, auction.ID, BonusTargetAll, "7")
			if err != nil {
				errs <- fmt.Errorf("bonus: %w", err)
				return
			}
			if len(res.Failed) != 0 {
				errs <- fmt.Errorf("bonus failures: %+v", res.Failed)
			}
		}()
	}
	wg.Wait()

	for _, p := range players[:5] {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			if _, err := env.settlement.RemoveFromTeam(env.ctx, id); err != nil {
				errs <- fmt.Errorf("remove %s: %w", id, err)
			}
		}(p.ID)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}

	got := env.team(t, team.ID)
	assertLedger(t, got, 100070, 500, 5)
	if err := ledger.Verify(got); err != nil {
		t.Error(err)
	}
	assertLedger(t, env.team(t, rival.ID), 100070, 0, 0)
}

func TestReconcileRepairsDrift(t *testing.T) {
	env := newTestEnv(t)
	_, team, player := soldSetup(t, env, 500)
	env.settlement.MarkSold(env.ctx, player.ID, team.ID, 0, false)

	report, err := env.settlement.Reconcile(env.ctx, player.AuctionID)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if report.TeamsChecked != 1 || len(report.Repaired) != 0 {
		t.Fatalf("clean ledger reported drift: %+v", report)
	}

	// a crash between the player and team writes would leave this behind
	broken := env.team(t, team.ID)
	broken.SpentPoints = 0
	broken.PlayersBought = 0
	broken.AvailablePoints = 42
	env.repo.UpdateTeam(env.ctx, broken)

	report, err = env.settlement.Reconcile(env.ctx, player.AuctionID)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if len(report.Repaired) != 1 || report.Repaired[0].SpentAfter != 500 || report.Repaired[0].AvailableBefore != 42 {
		t.Errorf("unexpected report: %+v", report)
	}
	assertLedger(t, env.team(t, team.ID), 10000, 500, 1)
}
