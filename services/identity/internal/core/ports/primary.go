package ports

import (
	"context"

	"github.com/VarunRam7/Everstory-BE/services/identity/internal/core/domain"
)

// --- INPUTS (Command Pattern) ---

type CreateUserCmd struct {
	FirstName string
	LastName  string
	Email     string
	IsPrivate bool
}

type SearchUsersCmd struct {
	Query string
	// ExcludeID filtre l'appelant de ses propres résultats de recherche.
	ExcludeID string
}

// --- PORT PRIMAIRE (Driving) ---

type IdentityService interface {
	CreateUser(ctx context.Context, cmd CreateUserCmd) (*domain.User, error)
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	SearchUsers(ctx context.Context, cmd SearchUsersCmd) ([]domain.Snapshot, error)
	SetProfilePhoto(ctx context.Context, userID, photoURL string) (*domain.User, error)

	// GetFollowRequestDetails remonte les deux snapshots en un seul appel,
	// dans l'ordre [by, to]. L'absence de l'un des deux est une erreur.
	GetFollowRequestDetails(ctx context.Context, byID, toID string) ([2]domain.Snapshot, error)

	VerifyToken(ctx context.Context, token string) (*domain.Claims, error)
}

// ProfileService est l'agrégateur de profil : l'éventail d'appels parallèles
// vers les pairs, avec tolérance aux pannes partielles par champ.
type ProfileService interface {
	GetUserDetails(ctx context.Context, targetID, viewerID string) (*domain.DetailedProfile, error)
}
