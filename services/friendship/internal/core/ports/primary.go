package ports

import (
	"context"

	"github.com/VarunRam7/Everstory-BE/services/friendship/internal/core/domain"
)

// FollowRequestService est le port Driving de l'orchestrateur d'invitations.
type FollowRequestService interface {
	// CreateFollowRequest déroule la séquence : anti-doublon, snapshot des
	// deux identités, jeton, persistance, puis événement de changement.
	CreateFollowRequest(ctx context.Context, byID, toID string) (*domain.FollowRequest, error)

	// RespondToRequest résout l'invitation désignée par son jeton.
	// Un jeton inconnu ou déjà consommé rend ErrRequestNotFound.
	RespondToRequest(ctx context.Context, token string, decision domain.FollowRequestStatus) (*domain.FollowRequest, error)

	// RevokeRequest expire la demande en attente (by -> to) sans toucher au
	// statut. Rend nil, nil si aucune demande active n'existe (no-op).
	RevokeRequest(ctx context.Context, byID, toID string) (*domain.FollowRequest, error)

	GetPendingFollowRequests(ctx context.Context, userID string) ([]*domain.FollowRequest, error)
	GetPendingBetween(ctx context.Context, byID, toID string) (*domain.FollowRequest, error)
}

// RelationshipService expose le graphe de suivi.
type RelationshipService interface {
	CreateRelationship(ctx context.Context, byID, toID string) error

	// Unfollow rend false quand il n'y avait rien à retirer (pas une erreur).
	Unfollow(ctx context.Context, byID, toID string) (bool, error)

	IsFollowing(ctx context.Context, byID, toID string) (bool, error)
	FollowerFollowingCounts(ctx context.Context, userID string) (domain.FollowCounts, error)
}
