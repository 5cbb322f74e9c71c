package services

import (
	"context"
	"strings"

	"sports-auction/internal/apperr"
	"sports-auction/internal/lock"
	"sports-auction/internal/models"
	"sports-auction/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RegistrationService handles players registering themselves while an
// auction's registration window is open.
type RegistrationService struct {
	*Core
}

func NewRegistrationService(core *Core) *RegistrationService {
	return &RegistrationService{Core: core}
}

// Submit stores a PENDING request. Required stat fields of the auction must be present.
func (s *RegistrationService) Submit(ctx context.Context, auctionID uuid.UUID, req *models.RegistrationRequest) (*models.PlayerRequest, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Mobile) == "" {
		return nil, apperr.ErrInvalidInput.WithMessage("name and mobile are required")
	}
	if req.BasePrice < 0 {
		return nil, apperr.ErrInvalidInput.WithMessage("base_price cannot be negative")
	}

	auction, err := s.repo.GetAuction(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	if !auction.IsRegistrationOpen {
		return nil, apperr.ErrRegistrationClosed
	}
	for _, field := range auction.StatFields {
		if !field.Required {
			continue
		}
		if _, ok := req.Stats[field.Key]; !ok {
			return nil, apperr.ErrInvalidInput.WithMessage("stat %q is required", field.Key)
		}
	}

	request := &models.PlayerRequest{
		AuctionID: auctionID,
		Name:      strings.TrimSpace(req.Name),
		Category:  req.Category,
		Role:      req.Role,
		Mobile:    strings.TrimSpace(req.Mobile),
		BasePrice: req.BasePrice,
		Stats:     req.Stats,
		Status:    models.PlayerRequestStatusPending,
	}
	if err := s.repo.CreatePlayerRequest(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

func (s *RegistrationService) List(ctx context.Context, auctionID uuid.UUID, status models.PlayerRequestStatus) ([]*models.PlayerRequest, error) {
	if _, err := s.repo.GetAuction(ctx, auctionID); err != nil {
		return nil, err
	}
	return s.repo.ListPlayerRequests(ctx, auctionID, status)
}

// Approve turns a pending request into a NOT_IN_AUCTION player
func (s *RegistrationService) Approve(ctx context.Context, requestID uuid.UUID) (*models.Player, error) {
	var player *models.Player
	err := s.locked(ctx, []string{lock.Key("request", requestID)}, func() error {
		req, err := s.repo.GetPlayerRequest(ctx, requestID)
		if err != nil {
			return err
		}
		if req.Status != models.PlayerRequestStatusPending {
			return apperr.ErrInvalidState.WithMessage("registration request is %s", req.Status)
		}

		player = &models.Player{
			AuctionID: req.AuctionID,
			Name:      req.Name,
			Category:  req.Category,
			Role:      req.Role,
			BasePrice: req.BasePrice,
			Mobile:    req.Mobile,
			Stats:     req.Stats,
			Status:    models.PlayerStatusNotInAuction,
		}
		return s.repo.WithTx(ctx, func(tx *repository.Repository) error {
			if err := tx.CreatePlayer(ctx, player); err != nil {
				return err
			}
			return tx.ResolvePlayerRequest(ctx, req.ID, models.PlayerRequestStatusApproved, uuidPtr(player.ID))
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Registration approved",
		zap.String("request_id", requestID.String()),
		zap.String("player_id", player.ID.String()),
	)
	return player, nil
}

func (s *RegistrationService) Reject(ctx context.Context, requestID uuid.UUID) error {
	return s.locked(ctx, []string{lock.Key("request", requestID)}, func() error {
		if _, err := s.repo.GetPlayerRequest(ctx, requestID); err != nil {
			return err
		}
		return s.repo.ResolvePlayerRequest(ctx, requestID, models.PlayerRequestStatusRejected, nil)
	})
}
