package ports

import (
	"context"

	"github.com/VarunRam7/Everstory-BE/services/friendship/internal/core/domain"
)

// --- PERSISTANCE (Postgres) ---

// FollowRequestRepository est le port Driven du magasin d'invitations.
// Les lectures "absent" rendent nil, nil ; les transitions sont des
// find-and-update atomiques sur un seul enregistrement.
type FollowRequestRepository interface {
	Create(ctx context.Context, req *domain.FollowRequest) error

	// FindActive cherche une demande non expirée PENDING pour la paire
	// ordonnée exacte (by, to).
	FindActive(ctx context.Context, byID, toID string) (*domain.FollowRequest, error)

	FindPendingFor(ctx context.Context, userID string) ([]*domain.FollowRequest, error)
	FindPendingBetween(ctx context.Context, byID, toID string) (*domain.FollowRequest, error)

	// ResolveByToken pose status+is_expired en une seule opération et rend le
	// document mis à jour, ou nil si le jeton est inconnu ou déjà expiré.
	ResolveByToken(ctx context.Context, token string, status domain.FollowRequestStatus) (*domain.FollowRequest, error)

	// Revoke expire la demande active (by -> to), statut inchangé.
	Revoke(ctx context.Context, byID, toID string) (*domain.FollowRequest, error)
}

// --- GRAPHE (Neo4j) ---

type RelationshipRepository interface {
	EnsureSchema(ctx context.Context) error

	// CreateRelation est idempotent : une arête déjà présente est un succès.
	CreateRelation(ctx context.Context, byID, toID string) error

	RelationExists(ctx context.Context, byID, toID string) (bool, error)

	// DeleteRelation rend false si aucune arête n'a été retirée.
	DeleteRelation(ctx context.Context, byID, toID string) (bool, error)

	CountRelations(ctx context.Context, userID string) (domain.FollowCounts, error)
}

// --- PAIRS ---

// IdentityClient récupère en un seul appel les snapshots des deux
// participants au moment de la création de la demande.
type IdentityClient interface {
	GetFollowRequestDetails(ctx context.Context, byID, toID string) (by, to domain.Participant, err error)
}

// --- MESSAGERIE ---

// EventPublisher émet l'événement de domaine "la liste des demandes de ce
// destinataire a changé". L'orchestrateur ne connaît pas le composant de
// notification ; il ne fait qu'émettre.
type EventPublisher interface {
	PublishRequestChanged(ctx context.Context, recipientID string) error
}
