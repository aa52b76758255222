package ports

import (
	"context"

	"github.com/VarunRam7/Everstory-BE/services/identity/internal/core/domain"
)

// --- PERSISTANCE (DB) ---

type UserRepository interface {
	Save(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByIDs ne rend que les utilisateurs trouvés, sans ordre garanti.
	GetByIDs(ctx context.Context, ids []string) ([]*domain.User, error)

	Search(ctx context.Context, query string) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// --- SÉCURITÉ ---

// TokenVerifier vérifie un jeton d'accès émis par le fournisseur d'identité
// externe. L'émission n'est pas de notre ressort, seulement la vérification.
type TokenVerifier interface {
	Verify(token string) (*domain.Claims, error)
}

// --- PAIRS (appels sortants de l'agrégateur) ---

type MediaClient interface {
	GetUserPosts(ctx context.Context, userID string, page, pageSize int) (domain.UserPosts, error)
}

type FriendshipClient interface {
	IsFollowing(ctx context.Context, viewerID, targetID string) (bool, error)

	// IsRequested dit si une demande en attente du viewer vers la cible existe.
	IsRequested(ctx context.Context, viewerID, targetID string) (bool, error)

	FollowCount(ctx context.Context, userID string) (followers, following int64, err error)
}
