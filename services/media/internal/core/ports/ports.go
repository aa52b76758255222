package ports

import (
	"context"

	"github.com/VarunRam7/Everstory-BE/services/media/internal/core/domain"
)

// --- DRIVING ---

type MediaService interface {
	CreatePost(ctx context.Context, userID, imageURL, caption string) (*domain.Post, error)

	// GetUserPosts pagine du plus récent au plus ancien ; TotalCount couvre
	// toutes les pages, pas seulement celle rendue.
	GetUserPosts(ctx context.Context, userID string, page, pageSize int) (*domain.UserPosts, error)

	// DeletePost vérifie que le post appartient bien à userID.
	DeletePost(ctx context.Context, userID, postID string) error
}

// --- DRIVEN ---

type PostRepository interface {
	Save(ctx context.Context, post *domain.Post) error
	GetPage(ctx context.Context, userID string, offset, limit int64) ([]*domain.Post, error)
	CountFor(ctx context.Context, userID string) (int64, error)
	GetByID(ctx context.Context, postID string) (*domain.Post, error)
	Delete(ctx context.Context, post *domain.Post) error
}
