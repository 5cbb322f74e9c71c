package handlers

import (
	"net/http"

	"sports-auction/internal/apperr"
	"sports-auction/internal/models"
	"sports-auction/internal/services"

	"github.com/gin-gonic/gin"
)

type TeamHandler struct {
	teamService *services.TeamService
}

func NewTeamHandler(teamService *services.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

// GET /api/auctions/:id/teams
func (h *TeamHandler) ListTeams(c *gin.Context) {
	auctionID, ok := pathID(c, "id", apperr.ErrAuctionNotFound)
	if !ok {
		return
	}
	teams, err := h.teamService.List(c.Request.Context(), auctionID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, teams)
}

// GET /api/teams/:id
func (h *TeamHandler) GetTeam(c *gin.Context) {
	id, ok := pathID(c, "id", apperr.ErrTeamNotFound)
	if !ok {
		return
	}
	team, err := h.teamService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, team)
}

// CreateTeam adds a team with the auction's full points allowance
// POST /api/admin/auctions/:id/teams
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	auctionID, ok := pathID(c, "id", apperr.ErrAuctionNotFound)
	if !ok {
		return
	}
	var req models.CreateTeamRequest
	if !bindJSON(c, &req) {
		return
	}
	team, err := h.teamService.Create(requestContext(c), auctionID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, team)
}

// PUT /api/admin/teams/:id
func (h *TeamHandler) UpdateTeam(c *gin.Context) {
	id, ok := pathID(c, "id", apperr.ErrTeamNotFound)
	if !ok {
		return
	}
	var req models.UpdateTeamRequest
	if !bindJSON(c, &req) {
		return
	}
	team, err := h.teamService.Update(requestContext(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, team)
}

// DELETE /api/admin/teams/:id
func (h *TeamHandler) DeleteTeam(c *gin.Context) {
	id, ok := pathID(c, "id", apperr.ErrTeamNotFound)
	if !ok {
		return
	}
	if err := h.teamService.Delete(requestContext(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
