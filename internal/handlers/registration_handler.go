package handlers

import (
	"net/http"
	"strings"

	"sports-auction/internal/apperr"
	"sports-auction/internal/models"
	"sports-auction/internal/services"

	"github.com/gin-gonic/gin"
)

type RegistrationHandler struct {
	registrationService *services.RegistrationService
}

func NewRegistrationHandler(registrationService *services.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrationService: registrationService}
}

// Submit stores a self-registration while the auction accepts them
// POST /api/auctions/:id/requests
func (h *RegistrationHandler) Submit(c *gin.Context) {
	auctionID, ok := pathID(c, "id", apperr.ErrAuctionNotFound)
	if !ok {
		return
	}
	var req models.RegistrationRequest
	if !bindJSON(c, &req) {
		return
	}
	request, err := h.registrationService.Submit(c.Request.Context(), auctionID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, request)
}

// GET /api/admin/auctions/:id/requests?status=
func (h *RegistrationHandler) List(c *gin.Context) {
	auctionID, ok := pathID(c, "id", apperr.ErrAuctionNotFound)
	if !ok {
		return
	}
	status := models.PlayerRequestStatus(strings.ToUpper(c.Query("status")))
	requests, err := h.registrationService.List(c.Request.Context(), auctionID, status)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, requests)
}

// Approve turns the request into a player
// POST /api/admin/requests/:id/approve
func (h *RegistrationHandler) Approve(c *gin.Context) {
	id, ok := pathID(c, "id", apperr.ErrRequestNotFound)
	if !ok {
		return
	}
	player, err := h.registrationService.Approve(requestContext(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, player)
}

// POST /api/admin/requests/:id/reject
func (h *RegistrationHandler) Reject(c *gin.Context) {
	id, ok := pathID(c, "id", apperr.ErrRequestNotFound)
	if !ok {
		return
	}
	if err := h.registrationService.Reject(requestContext(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
