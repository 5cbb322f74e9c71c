package apperr

// Sentinel errors returned by the auction services.
var (
	ErrAuctionNotFound = New(KindNotFound, "AUCTION_NOT_FOUND", "auction not found")
	ErrPlayerNotFound  = New(KindNotFound, "PLAYER_NOT_FOUND", "player not found")
	ErrTeamNotFound    = New(KindNotFound, "TEAM_NOT_FOUND", "team not found")
	ErrRequestNotFound = New(KindNotFound, "REQUEST_NOT_FOUND", "registration request not found")
	ErrSponsorNotFound = New(KindNotFound, "SPONSOR_NOT_FOUND", "sponsor not found")

	ErrInvalidState       = New(KindInvalidState, "INVALID_STATE", "operation not allowed in the current state")
	ErrRegistrationClosed = New(KindInvalidState, "REGISTRATION_CLOSED", "registration is closed for this auction")

	ErrNotLive            = New(KindNotLive, "NOT_LIVE", "auction is not live")
	ErrAuctionNotLive     = New(KindNotLive, "AUCTION_NOT_LIVE", "auction is not live")
	ErrBiddingClosed      = New(KindInvalidState, "BIDDING_CLOSED", "bidding is not open for this player")
	ErrPlayerNotInAuction = New(KindInvalidState, "PLAYER_NOT_IN_AUCTION", "player is not in auction")

	ErrInvalidPlayer        = New(KindValidation, "INVALID_PLAYER", "player does not belong to this auction")
	ErrBidTooLow            = New(KindValidation, "BID_TOO_LOW", "bid must exceed the current top bid")
	ErrBelowBasePrice       = New(KindValidation, "BELOW_BASE_PRICE", "bid is below the player's base price")
	ErrBidIncrementTooSmall = New(KindValidation, "BID_INCREMENT_TOO_SMALL", "bid increment is smaller than the minimum allowed")
	ErrInvalidAmount        = New(KindValidation, "INVALID_AMOUNT", "amount must be a positive integer")
	ErrSoldPriceMismatch    = New(KindValidation, "SOLD_PRICE_MISMATCH", "sold price does not match the top bid")
	ErrRosterFull           = New(KindValidation, "ROSTER_FULL", "team already has the maximum number of players")
	ErrInvalidInput         = New(KindValidation, "INVALID_INPUT", "invalid input")

	ErrInsufficientBudget = New(KindInsufficientBudget, "INSUFFICIENT_BUDGET", "team does not have enough points")

	ErrConflict  = New(KindConflict, "CONFLICT", "entity was modified concurrently")
	ErrDuplicate = New(KindConflict, "DUPLICATE", "entity already exists")

	ErrUnauthorized = New(KindUnauthorized, "UNAUTHORIZED", "authentication required")
	ErrForbidden    = New(KindForbidden, "FORBIDDEN", "not allowed")

	ErrInternal = New(KindInternal, "INTERNAL", "internal error")
)
