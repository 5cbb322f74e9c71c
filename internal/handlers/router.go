package handlers

import (
	"sports-auction/internal/auth"

	"github.com/gin-gonic/gin"
)

// Handlers groups every HTTP handler of the API.
type Handlers struct {
	Auction      *AuctionHandler
	Live         *LiveHandler
	Settlement   *SettlementHandler
	Team         *TeamHandler
	Player       *PlayerHandler
	Registration *RegistrationHandler
}

// Register mounts all routes on router. Middleware such as logging, recovery
// and CORS is left to the caller.
func (h *Handlers) Register(router gin.IRouter) {
	router.GET("/health", health)

	// Public routes
	router.GET("/api/auctions/:id/state", h.Live.GetState)
	router.POST("/api/auctions/:id/requests", h.Registration.Submit)

	// Team and admin tokens
	api := router.Group("/api")
	api.Use(auth.AuthMiddleware(), auth.RequireRole(auth.RoleAdmin, auth.RoleTeam))
	{
		api.GET("/auctions", h.Auction.ListAuctions)
		api.GET("/auctions/:id", h.Auction.GetAuction)
		api.GET("/auctions/:id/summary", h.Auction.GetSummary)
		api.GET("/auctions/:id/teams", h.Team.ListTeams)
		api.GET("/auctions/:id/players", h.Player.ListPlayers)
		api.POST("/auctions/:id/bids", h.Live.PlaceBid)
		api.GET("/teams/:id", h.Team.GetTeam)
		api.GET("/players/:id", h.Player.GetPlayer)
	}

	admin := router.Group("/api/admin")
	admin.Use(auth.AuthMiddleware(), auth.RequireRole(auth.RoleAdmin))
	{
		// Auctions
		admin.POST("/auctions", h.Auction.CreateAuction)
		admin.PUT("/auctions/:id", h.Auction.UpdateAuction)
		admin.DELETE("/auctions/:id", h.Auction.DeleteAuction)
		admin.POST("/auctions/:id/sponsors", h.Auction.AddSponsor)
		admin.DELETE("/auctions/:id/sponsors/:sponsorId", h.Auction.RemoveSponsor)
		admin.GET("/auctions/:id/audit", h.Auction.GetAuditLog)

		// Lifecycle
		admin.POST("/auctions/:id/start", h.Live.Start)
		admin.POST("/auctions/:id/resume", h.Live.Resume)
		admin.POST("/auctions/:id/finish", h.Live.Finish)
		admin.POST("/auctions/:id/registration/toggle", h.Live.ToggleRegistration)
		admin.POST("/auctions/:id/current-player", h.Live.SelectPlayer)

		// Budget
		admin.POST("/auctions/:id/bonus", h.Settlement.AddBonus)
		admin.POST("/auctions/:id/reconcile", h.Settlement.Reconcile)

		// Teams
		admin.POST("/auctions/:id/teams", h.Team.CreateTeam)
		admin.PUT("/teams/:id", h.Team.UpdateTeam)
		admin.DELETE("/teams/:id", h.Team.DeleteTeam)

		// Players
		admin.POST("/auctions/:id/players", h.Player.CreatePlayer)
		admin.PUT("/players/:id", h.Player.UpdatePlayer)
		admin.DELETE("/players/:id", h.Player.DeletePlayer)
		admin.POST("/players/:id/sold", h.Settlement.MarkSold)
		admin.POST("/players/:id/unsold", h.Settlement.MarkUnsold)
		admin.POST("/players/:id/remove", h.Settlement.RemoveFromTeam)
		admin.POST("/players/:id/relist", h.Settlement.Relist)

		// Registration
		admin.GET("/auctions/:id/requests", h.Registration.List)
		admin.POST("/requests/:id/approve", h.Registration.Approve)
		admin.POST("/requests/:id/reject", h.Registration.Reject)
	}
}
