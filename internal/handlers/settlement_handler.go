package handlers

import (
	"context"
	"net/http"

	"sports-auction/internal/apperr"
	"sports-auction/internal/models"
	"sports-auction/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SettlementHandler struct {
	settlementService *services.SettlementService
}

func NewSettlementHandler(settlementService *services.SettlementService) *SettlementHandler {
	return &SettlementHandler{settlementService: settlementService}
}

// MarkSold assigns the player to a team at the top bid, or at sold_price
// when override is set
// POST /api/admin/players/:id/sold
func (h *SettlementHandler) MarkSold(c *gin.Context) {
	playerID, ok := pathID(c, "id", apperr.ErrPlayerNotFound)
	if !ok {
		return
	}
	var req models.MarkSoldRequest
	if !bindJSON(c, &req) {
		return
	}
	teamID, ok := bodyID(c, req.TeamID, "team_id", apperr.ErrTeamNotFound)
	if !ok {
		return
	}

	player, err := h.settlementService.MarkSold(requestContext(c), playerID, teamID, req.SoldPrice, req.Override)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, player)
}

// POST /api/admin/players/:id/unsold
func (h *SettlementHandler) MarkUnsold(c *gin.Context) {
	h.playerAction(c, h.settlementService.MarkUnsold)
}

// POST /api/admin/players/:id/remove
func (h *SettlementHandler) RemoveFromTeam(c *gin.Context) {
	h.playerAction(c, h.settlementService.RemoveFromTeam)
}

// POST /api/admin/players/:id/relist
func (h *SettlementHandler) Relist(c *gin.Context) {
	h.playerAction(c, h.settlementService.Relist)
}

func (h *SettlementHandler) playerAction(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) (*models.Player, error)) {
	playerID, ok := pathID(c, "id", apperr.ErrPlayerNotFound)
	if !ok {
		return
	}
	player, err := fn(requestContext(c), playerID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, player)
}

// AddBonus grants extra points to one team or to ALL teams
// POST /api/admin/auctions/:id/bonus
func (h *SettlementHandler) AddBonus(c *gin.Context) {
	auctionID, ok := pathID(c, "id", apperr.ErrAuctionNotFound)
	if !ok {
		return
	}
	var req models.BonusRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.settlementService.AddBonus(requestContext(c), auctionID, req.TeamID, req.AmountText())
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusOK
	if len(result.Failed) > 0 {
		status = http.StatusMultiStatus
	}
	respondOK(c, status, result)
}

// Reconcile rebuilds team ledgers from their players
// POST /api/admin/auctions/:id/reconcile
func (h *SettlementHandler) Reconcile(c *gin.Context) {
	auctionID, ok := pathID(c, "id", apperr.ErrAuctionNotFound)
	if !ok {
		return
	}
	report, err := h.settlementService.Reconcile(requestContext(c), auctionID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, report)
}
