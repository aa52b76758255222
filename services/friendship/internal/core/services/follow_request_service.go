package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/VarunRam7/Everstory-BE/pkg/token"
	"github.com/VarunRam7/Everstory-BE/services/friendship/internal/core/domain"
	"github.com/VarunRam7/Everstory-BE/services/friendship/internal/core/ports"
)

type followRequestService struct {
	requests      ports.FollowRequestRepository
	relationships ports.RelationshipService
	identity      ports.IdentityClient
	broker        ports.EventPublisher
}

func NewFollowRequestService(
	requests ports.FollowRequestRepository,
	relationships ports.RelationshipService,
	identity ports.IdentityClient,
	broker ports.EventPublisher,
) ports.FollowRequestService {
	return &followRequestService{
		requests:      requests,
		relationships: relationships,
		identity:      identity,
		broker:        broker,
	}
}

func (s *followRequestService) CreateFollowRequest(ctx context.Context, byID, toID string) (*domain.FollowRequest, error) {
	if byID == toID {
		return nil, domain.ErrSelfFollow
	}

	existing, err := s.requests.FindActive(ctx, byID, toID)
	if err != nil {
		return nil, fmt.Errorf("lookup active request: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicateRequest
	}

	// Un seul appel groupé pour les deux snapshots. Ici l'échec est fatal :
	// sans snapshot, pas d'invitation affichable.
	by, to, err := s.identity.GetFollowRequestDetails(ctx, byID, toID)
	if err != nil {
		slog.Error("fetching participant details failed", "request_by", byID, "request_to", toID, "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrIdentityUnavailable, err)
	}

	inviteToken, err := token.Alphanumeric(token.RequestTokenLength)
	if err != nil {
		return nil, fmt.Errorf("generate invite token: %w", err)
	}

	now := time.Now().UTC()
	request := &domain.FollowRequest{
		ID:        uuid.NewString(),
		RequestBy: by,
		RequestTo: to,
		Token:     inviteToken,
		Status:    domain.StatusPending,
		IsExpired: false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.requests.Create(ctx, request); err != nil {
		return nil, err
	}

	// La persistance est acquise avant d'émettre ; un échec d'émission est
	// journalisé mais ne défait rien.
	s.emitChanged(ctx, toID)

	slog.Info("follow request created", "request_by", byID, "request_to", toID)
	return request, nil
}

func (s *followRequestService) RespondToRequest(ctx context.Context, inviteToken string, decision domain.FollowRequestStatus) (*domain.FollowRequest, error) {
	if inviteToken == "" {
		return nil, domain.ErrMissingToken
	}
	if !decision.IsDecision() {
		return nil, domain.ErrInvalidDecision
	}

	updated, err := s.requests.ResolveByToken(ctx, inviteToken, decision)
	if err != nil {
		return nil, fmt.Errorf("resolve request: %w", err)
	}
	if updated == nil {
		// Jeton inconnu ou déjà consommé : le rejeu est refusé à l'identique
		return nil, domain.ErrRequestNotFound
	}

	if decision == domain.StatusAccepted {
		// Synchrone et bloquant : si la pose de l'arête échoue, l'appel entier
		// échoue. La demande reste résolue-mais-non-liée, fenêtre assumée.
		if err := s.relationships.CreateRelationship(ctx, updated.RequestBy.ID, updated.RequestTo.ID); err != nil {
			return nil, fmt.Errorf("create relationship after accept: %w", err)
		}
	}

	s.emitChanged(ctx, updated.RequestTo.ID)

	slog.Info("follow request resolved", "token", inviteToken, "decision", decision)
	return updated, nil
}

func (s *followRequestService) RevokeRequest(ctx context.Context, byID, toID string) (*domain.FollowRequest, error) {
	revoked, err := s.requests.Revoke(ctx, byID, toID)
	if err != nil {
		return nil, fmt.Errorf("revoke request: %w", err)
	}
	if revoked == nil {
		slog.Warn("no active request to revoke", "request_by", byID, "request_to", toID)
		return nil, nil
	}

	s.emitChanged(ctx, toID)

	slog.Info("follow request revoked", "request_by", byID, "request_to", toID)
	return revoked, nil
}

func (s *followRequestService) GetPendingFollowRequests(ctx context.Context, userID string) ([]*domain.FollowRequest, error) {
	requests, err := s.requests.FindPendingFor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch pending requests: %w", err)
	}
	slog.Debug("fetched pending follow requests", "user_id", userID, "count", len(requests))
	return requests, nil
}

func (s *followRequestService) GetPendingBetween(ctx context.Context, byID, toID string) (*domain.FollowRequest, error) {
	return s.requests.FindPendingBetween(ctx, byID, toID)
}

func (s *followRequestService) emitChanged(ctx context.Context, recipientID string) {
	if err := s.broker.PublishRequestChanged(ctx, recipientID); err != nil {
		slog.Error("publishing request-changed event failed", "recipient", recipientID, "error", err)
	}
}
