package services

import (
	"errors"
	"sync"
	"testing"

	"sports-auction/internal/apperr"
	"sports-auction/internal/models"

	"github.com/google/uuid"
)

func TestPlaceBidScenario(t *testing.T) {
	env := newTestEnv(t)
	auction := env.createAuction(t, 10000)
	team := env.createTeam(t, auction.ID, "Tigers")
	if team.TotalPoints != 10000 || team.AvailablePoints != 10000 {
		t.Fatalf("new team ledger: %+v", team)
	}
	player := env.createPlayer(t, auction.ID, "P", 500)
	env.liveWithPlayer(t, auction.ID, player.ID)

	updated, err := env.bidding.PlaceBid(env.ctx, auction.ID, player.ID, team.ID, 500)
	if err != nil {
		t.Fatalf("bid at base price should be accepted: %v", err)
	}
	if updated.CurrentTopBid != 500 || len(updated.Bids) != 1 {
		t.Errorf("unexpected player after bid: top %d bids %d", updated.CurrentTopBid, len(updated.Bids))
	}

	if _, err := env.bidding.PlaceBid(env.ctx, auction.ID, player.ID, team.ID, 400); !errors.Is(err, apperr.ErrBidTooLow) {
		t.Errorf("expected BidTooLow, got %v", err)
	}

	if env.auction(t, auction.ID).LastBidTime == nil {
		t.Errorf("expected last bid time to be set")
	}
	// bids never touch the ledger
	assertLedger(t, env.team(t, team.ID), 10000, 0, 0)
}

func TestPlaceBidWrongPlayerIsClosed(t *testing.T) {
	env := newTestEnv(t)
	auction := env.createAuction(t, 10000)
	team := env.createTeam(t, auction.ID, "Tigers")
	current := env.createPlayer(t, auction.ID, "Current", 100)
	waiting := env.createPlayer(t, auction.ID, "Waiting", 100)
	env.liveWithPlayer(t, auction.ID, current.ID)

	before := env.auction(t, auction.ID)
	_, err := env.bidding.PlaceBid(env.ctx, auction.ID, waiting.ID, team.ID, 200)
	if !errors.Is(err, apperr.ErrBiddingClosed) {
		t.Fatalf("expected BiddingClosed, got %v", err)
	}

	after := env.auction(t, auction.ID)
	if after.Version != before.Version || after.LastBidTime != nil {
		t.Errorf("auction mutated by rejected bid")
	}
	if p := env.player(t, waiting.ID); p.CurrentTopBid != 0 || len(p.Bids) != 0 {
		t.Errorf("player mutated by rejected bid")
	}
}

func TestPlaceBidValidationOrder(t *testing.T) {
	env := newTestEnv(t)
	auction := env.createAuction(t, 1000, 100)
	team := env.createTeam(t, auction.ID, "Tigers")
	otherAuction := env.createAuction(t, 1000)
	foreignTeam := env.createTeam(t, otherAuction.ID, "Foreign")
	player := env.createPlayer(t, auction.ID, "P", 300)

	// not live yet
	if _, err := env.bidding.PlaceBid(env.ctx, auction.ID, player.ID, team.ID, 300); !errors.Is(err, apperr.ErrAuctionNotLive) {
		t.Errorf("expected AuctionNotLive, got %v", err)
	}
	if _, err := env.bidding.PlaceBid(env.ctx, uuid.New(), player.ID, team.ID, 300); !errors.Is(err, apperr.ErrAuctionNotFound) {
		t.Errorf("expected AuctionNotFound, got %v", err)
	}

	env.liveWithPlayer(t, auction.ID, player.ID)

	cases := []struct {
		name   string
		teamID uuid.UUID
		amount int64
		want   *apperr.Error
	}{
		{"zero amount", team.ID, 0, apperr.ErrBidTooLow},
		{"below base price", team.ID, 200, apperr.ErrBelowBasePrice},
		{"below base price beats unknown team", uuid.New(), 200, apperr.ErrBelowBasePrice},
		{"unknown team", uuid.New(), 300, apperr.ErrTeamNotFound},
		{"team of another auction", foreignTeam.ID, 300, apperr.ErrTeamNotFound},
		{"over budget", team.ID, 1001, apperr.ErrInsufficientBudget},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.bidding.PlaceBid(env.ctx, auction.ID, player.ID, tc.teamID, tc.amount)
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %s, got %v", tc.want.Reason(), err)
			}
		})
	}

	if _, err := env.bidding.PlaceBid(env.ctx, auction.ID, player.ID, team.ID, 300); err != nil {
		t.Fatalf("valid bid: %v", err)
	}
	if _, err := env.bidding.PlaceBid(env.ctx, auction.ID, player.ID, team.ID, 350); !errors.Is(err, apperr.ErrBidIncrementTooSmall) {
		t.Errorf("expected BidIncrementTooSmall, got %v", err)
	}
	if _, err := env.bidding.PlaceBid(env.ctx, auction.ID, player.ID, team.ID, 400); err != nil {
		t.Errorf("bid at minimum increment should pass: %v", err)
	}
}

func TestPlaceBidPlayerNotInAuction(t *testing.T) {
	env := newTestEnv(t)
	auction := env.createAuction(t, 10000)
	team := env.createTeam(t, auction.ID, "Tigers")
	player := env.createPlayer(t, auction.ID, "P", 100)
	env.liveWithPlayer(t, auction.ID, player.ID)

	env.bidding.PlaceBid(env.ctx, auction.ID, player.ID, team.ID, 100)
	if _, err := env.settlement.MarkSold(env.ctx, player.ID, team.ID, 0, false); err != nil {
		t.Fatalf("mark sold: %v", err)
	}

	// still the current player, but no longer in auction
	if _, err := env.bidding.PlaceBid(env.ctx, auction.ID, player.ID, team.ID, 200); !errors.Is(err, apperr.ErrPlayerNotInAuction) {
		t.Errorf("expected PlayerNotInAuction, got %v", err)
	}
}

func TestBidsAreStrictlyIncreasing(t *testing.T) {
	env := newTestEnv(t)
	auction := env.createAuction(t, 100000)
	teamA := env.createTeam(t, auction.ID, "A")
	teamB := env.createTeam(t, auction.ID, "B")
	player := env.createPlayer(t, auction.ID, "P", 100)
	env.liveWithPlayer(t, auction.ID, player.ID)

	amounts := []int64{100, 150, 150, 120, 200, 201, 199, 500}
	for i, amount := range amounts {
		team := teamA
		if i%2 == 1 {
			team = teamB
		}
		env.bidding.PlaceBid(env.ctx, auction.ID, player.ID, team.ID, amount)
	}

	bids := env.player(t, player.ID).Bids
	if len(bids) != 5 {
		t.Fatalf("expected 5 accepted bids, got %d", len(bids))
	}
	for i := 1; i < len(bids); i++ {
		if bids[i].Amount <= bids[i-1].Amount {
			t.Errorf("bid %d (%d) does not exceed previous (%d)", i, bids[i].Amount, bids[i-1].Amount)
		}
	}
}

func TestGetAuctionState(t *testing.T) {
	env := newTestEnv(t)
	auction := env.createAuction(t, 10000, 50)
	team := env.createTeam(t, auction.ID, "Tigers")
	player := env.createPlayer(t, auction.ID, "P", 100)

	state, err := env.bidding.GetAuctionState(env.ctx, auction.ID)
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if state.CurrentPlayer != nil || state.Auction.IsLive {
		t.Errorf("expected idle state, got %+v", state)
	}

	env.liveWithPlayer(t, auction.ID, player.ID)
	env.bidding.PlaceBid(env.ctx, auction.ID, player.ID, team.ID, 100)

	before := env.auction(t, auction.ID).Version
	state, err = env.bidding.GetAuctionState(env.ctx, auction.ID)
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if !state.Auction.IsLive || state.Auction.PointsPerTeam != 10000 || len(state.Auction.BidIncrements) != 1 {
		t.Errorf("unexpected header: %+v", state.Auction)
	}
	if state.CurrentPlayer == nil || state.CurrentPlayer.ID != player.ID {
		t.Fatalf("expected current player in state")
	}
	if len(state.CurrentPlayer.Bids) != 1 || state.CurrentPlayer.Bids[0].TeamName != "Tigers" {
		t.Errorf("expected bid with resolved team name, got %+v", state.CurrentPlayer.Bids)
	}
	if env.auction(t, auction.ID).Version != before {
		t.Errorf("state read must not write")
	}

	if _, err := env.bidding.GetAuctionState(env.ctx, uuid.New()); !errors.Is(err, apperr.ErrAuctionNotFound) {
		t.Errorf("expected AuctionNotFound, got %v", err)
	}
}

func TestPlaceBidAfterFinish(t *testing.T) {
	env := newTestEnv(t)
	auction := env.createAuction(t, 10000)
	team := env.createTeam(t, auction.ID, "Tigers")
	player := env.createPlayer(t, auction.ID, "P", 100)
	env.liveWithPlayer(t, auction.ID, player.ID)
	env.lifecycle.Finish(env.ctx, auction.ID)

	_, err := env.bidding.PlaceBid(env.ctx, auction.ID, player.ID, team.ID, 100)
	if !errors.Is(err, apperr.ErrAuctionNotLive) {
		t.Errorf("expected AuctionNotLive, got %v", err)
	}
	if models.PlayerStatusInAuction != env.player(t, player.ID).Status {
		t.Errorf("finish should leave the player untouched")
	}
}

func TestConcurrentBidsKeepOrder(t *testing.T) {
	env := newTestEnv(t)
	auction := env.createAuction(t, 1000000)
	teams := []*models.Team{
		env.createTeam(t, auction.ID, "A"),
		env.createTeam(t, auction.ID, "B"),
		env.createTeam(t, auction.ID, "C"),
	}
	player := env.createPlayer(t, auction.ID, "P", 100)
	env.liveWithPlayer(t, auction.ID, player.ID)

	var wg sync.WaitGroup
	for i := 20; i >= 1; i-- {
		wg.Add(1)
		go func(amount int64, team *models.Team) {
			defer wg.Done()
			env.bidding.PlaceBid(env.ctx, auction.ID, player.ID, team.ID, amount)
		}(int64(i*100), teams[i%len(teams)])
	}
	wg.Wait()

	stored := env.player(t, player.ID)
	if stored.CurrentTopBid != 2000 {
		t.Errorf("highest bid must win, got %d", stored.CurrentTopBid)
	}
	for i := 1; i < len(stored.Bids); i++ {
		if stored.Bids[i].Amount <= stored.Bids[i-1].Amount {
			t.Fatalf("bid history not increasing: %+v", stored.Bids)
		}
	}
	if last := stored.Bids[len(stored.Bids)-1]; last.Amount != stored.CurrentTopBid {
		t.Errorf("last bid %d differs from top bid %d", last.Amount, stored.CurrentTopBid)
	}
}
