package handlers

import (
	"net/http"

	"sports-auction/internal/apperr"
	"sports-auction/internal/models"
	"sports-auction/internal/services"

	"github.com/gin-gonic/gin"
)

type AuctionHandler struct {
	auctionService *services.AuctionService
	auditService   *services.AuditService
}

func NewAuctionHandler(auctionService *services.AuctionService, auditService *services.AuditService) *AuctionHandler {
	return &AuctionHandler{
		auctionService: auctionService,
		auditService:   auditService,
	}
}

// ListAuctions returns a page of auctions
// GET /api/auctions
func (h *AuctionHandler) ListAuctions(c *gin.Context) {
	limit, offset := pagination(c, 20)

	auctions, total, err := h.auctionService.List(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    auctions,
		"total":   total,
	})
}

// GetAuction returns a single auction
// GET /api/auctions/:id
func (h *AuctionHandler) GetAuction(c *gin.Context) {
	id, ok := pathID(c, "id", apperr.ErrAuctionNotFound)
	if !ok {
		return
	}
	auction, err := h.auctionService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, auction)
}

// CreateAuction creates a NOT_STARTED auction
// POST /api/admin/auctions
func (h *AuctionHandler) CreateAuction(c *gin.Context) {
	var req models.CreateAuctionRequest
	if !bindJSON(c, &req) {
		return
	}
	auction, err := h.auctionService.Create(requestContext(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, auction)
}

// UpdateAuction edits auction settings
// PUT /api/admin/auctions/:id
func (h *AuctionHandler) UpdateAuction(c *gin.Context) {
	id, ok := pathID(c, "id", apperr.ErrAuctionNotFound)
	if !ok {
		return
	}
	var req models.UpdateAuctionRequest
	if !bindJSON(c, &req) {
		return
	}
	auction, err := h.auctionService.Update(requestContext(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, auction)
}

// DeleteAuction removes the auction and everything that belongs to it
// DELETE /api/admin/auctions/:id
func (h *AuctionHandler) DeleteAuction(c *gin.Context) {
	id, ok := pathID(c, "id", apperr.ErrAuctionNotFound)
	if !ok {
		return
	}
	if err := h.auctionService.Delete(requestContext(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// POST /api/admin/auctions/:id/sponsors
func (h *AuctionHandler) AddSponsor(c *gin.Context) {
	id, ok := pathID(c, "id", apperr.ErrAuctionNotFound)
	if !ok {
		return
	}
	var req models.SponsorRequest
	if !bindJSON(c, &req) {
		return
	}
	sponsor, err := h.auctionService.AddSponsor(requestContext(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, sponsor)
}

// DELETE /api/admin/auctions/:id/sponsors/:sponsorId
func (h *AuctionHandler) RemoveSponsor(c *gin.Context) {
	id, ok := pathID(c, "id", apperr.ErrAuctionNotFound)
	if !ok {
		return
	}
	if err := h.auctionService.RemoveSponsor(requestContext(c), id, c.Param("sponsorId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetSummary reports each team's standing
// GET /api/auctions/:id/summary
func (h *AuctionHandler) GetSummary(c *gin.Context) {
	id, ok := pathID(c, "id", apperr.ErrAuctionNotFound)
	if !ok {
		return
	}
	summary, err := h.auctionService.Summary(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, summary)
}

// GetAuditLog returns the auction's audit trail, newest first
// GET /api/admin/auctions/:id/audit
func (h *AuctionHandler) GetAuditLog(c *gin.Context) {
	id, ok := pathID(c, "id", apperr.ErrAuctionNotFound)
	if !ok {
		return
	}
	limit, offset := pagination(c, 50)

	logs, err := h.auditService.List(c.Request.Context(), id, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, logs)
}
