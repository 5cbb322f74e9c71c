package handlers

import (
	"context"
	"net/http"

	"sports-auction/internal/apperr"
	"sports-auction/internal/auth"
	"sports-auction/internal/models"
	"sports-auction/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LiveHandler serves the auction room: lifecycle controls, bidding and the
// polled state.
type LiveHandler struct {
	lifecycleService *services.LifecycleService
	biddingService   *services.BiddingService
}

func NewLiveHandler(lifecycleService *services.LifecycleService, biddingService *services.BiddingService) *LiveHandler {
	return &LiveHandler{
		lifecycleService: lifecycleService,
		biddingService:   biddingService,
	}
}

// GetState returns the polling projection of the auction
// GET /api/auctions/:id/state
func (h *LiveHandler) GetState(c *gin.Context) {
	id, ok := pathID(c, "id", apperr.ErrAuctionNotFound)
	if !ok {
		return
	}
	state, err := h.biddingService.GetAuctionState(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, state)
}

// PlaceBid records a bid on the current player. Team tokens may only bid
// for their own team.
// POST /api/auctions/:id/bids
func (h *LiveHandler) PlaceBid(c *gin.Context) {
	auctionID, ok := pathID(c, "id", apperr.ErrAuctionNotFound)
	if !ok {
		return
	}
	var req models.PlaceBidRequest
	if !bindJSON(c, &req) {
		return
	}
	playerID, ok := bodyID(c, req.PlayerID, "player_id", apperr.ErrPlayerNotFound)
	if !ok {
		return
	}
	teamID, ok := bodyID(c, req.TeamID, "team_id", apperr.ErrTeamNotFound)
	if !ok {
		return
	}

	if role, _ := auth.GetRole(c); role == auth.RoleTeam {
		own, _ := auth.GetTeamID(c)
		if ownID, err := uuid.Parse(own); err != nil || ownID != teamID {
			respondError(c, apperr.ErrForbidden.WithMessage("team tokens may only bid for their own team"))
			return
		}
	}

	player, err := h.biddingService.PlaceBid(requestContext(c), auctionID, playerID, teamID, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, player)
}

// POST /api/admin/auctions/:id/start
func (h *LiveHandler) Start(c *gin.Context) {
	h.transition(c, h.lifecycleService.Start)
}

// POST /api/admin/auctions/:id/resume
func (h *LiveHandler) Resume(c *gin.Context) {
	h.transition(c, h.lifecycleService.Resume)
}

// POST /api/admin/auctions/:id/finish
func (h *LiveHandler) Finish(c *gin.Context) {
	h.transition(c, h.lifecycleService.Finish)
}

func (h *LiveHandler) transition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) (*models.Auction, error)) {
	id, ok := pathID(c, "id", apperr.ErrAuctionNotFound)
	if !ok {
		return
	}
	auction, err := fn(requestContext(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, auction)
}

// ToggleRegistration opens or closes self-registration
// POST /api/admin/auctions/:id/registration/toggle
func (h *LiveHandler) ToggleRegistration(c *gin.Context) {
	id, ok := pathID(c, "id", apperr.ErrAuctionNotFound)
	if !ok {
		return
	}
	open, err := h.lifecycleService.ToggleRegistration(requestContext(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"is_registration_open": open})
}

// SelectPlayer puts a player up for bidding
// POST /api/admin/auctions/:id/current-player
func (h *LiveHandler) SelectPlayer(c *gin.Context) {
	id, ok := pathID(c, "id", apperr.ErrAuctionNotFound)
	if !ok {
		return
	}
	var req models.SelectPlayerRequest
	if !bindJSON(c, &req) {
		return
	}
	playerID, ok := bodyID(c, req.PlayerID, "player_id", apperr.ErrInvalidPlayer)
	if !ok {
		return
	}
	auction, err := h.lifecycleService.SelectCurrentPlayer(requestContext(c), id, playerID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, auction)
}
