package handlers

import (
	"net/http"
	"strings"

	"sports-auction/internal/apperr"
	"sports-auction/internal/models"
	"sports-auction/internal/services"

	"github.com/gin-gonic/gin"
)

type PlayerHandler struct {
	playerService *services.PlayerService
}

func NewPlayerHandler(playerService *services.PlayerService) *PlayerHandler {
	return &PlayerHandler{playerService: playerService}
}

// ListPlayers lists an auction's players, filtered by ?status= and
// fuzzy-matched by ?search=
// GET /api/auctions/:id/players
func (h *PlayerHandler) ListPlayers(c *gin.Context) {
	auctionID, ok := pathID(c, "id", apperr.ErrAuctionNotFound)
	if !ok {
		return
	}

	status := models.PlayerStatus(strings.ToUpper(c.Query("status")))
	switch status {
	case "", models.PlayerStatusNotInAuction, models.PlayerStatusInAuction, models.PlayerStatusSold, models.PlayerStatusUnsold:
	default:
		respondError(c, apperr.ErrInvalidInput.WithMessage("unknown player status %q", c.Query("status")))
		return
	}

	players, err := h.playerService.List(c.Request.Context(), auctionID, status, c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, players)
}

// GET /api/players/:id
func (h *PlayerHandler) GetPlayer(c *gin.Context) {
	id, ok := pathID(c, "id", apperr.ErrPlayerNotFound)
	if !ok {
		return
	}
	player, err := h.playerService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, player)
}

// POST /api/admin/auctions/:id/players
func (h *PlayerHandler) CreatePlayer(c *gin.Context) {
	auctionID, ok := pathID(c, "id", apperr.ErrAuctionNotFound)
	if !ok {
		return
	}
	var req models.CreatePlayerRequest
	if !bindJSON(c, &req) {
		return
	}
	player, err := h.playerService.Create(requestContext(c), auctionID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, player)
}

// PUT /api/admin/players/:id
func (h *PlayerHandler) UpdatePlayer(c *gin.Context) {
	id, ok := pathID(c, "id", apperr.ErrPlayerNotFound)
	if !ok {
		return
	}
	var req models.UpdatePlayerRequest
	if !bindJSON(c, &req) {
		return
	}
	player, err := h.playerService.Update(requestContext(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, player)
}

// DELETE /api/admin/players/:id
func (h *PlayerHandler) DeletePlayer(c *gin.Context) {
	id, ok := pathID(c, "id", apperr.ErrPlayerNotFound)
	if !ok {
		return
	}
	if err := h.playerService.Delete(requestContext(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
