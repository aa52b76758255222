package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/VarunRam7/Everstory-BE/services/media/internal/core/domain"
	"github.com/VarunRam7/Everstory-BE/services/media/internal/core/ports"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

type mediaService struct {
	repo ports.PostRepository
}

func NewMediaService(repo ports.PostRepository) ports.MediaService {
	return &mediaService{repo: repo}
}

func (s *mediaService) CreatePost(ctx context.Context, userID, imageURL, caption string) (*domain.Post, error) {
	if userID == "" || imageURL == "" {
		return nil, domain.ErrMissingField
	}

	post := &domain.Post{
		ID:        uuid.NewString(),
		UserID:    userID,
		Caption:   caption,
		ImageURL:  imageURL,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Save(ctx, post); err != nil {
		return nil, fmt.Errorf("save post: %w", err)
	}

	slog.Info("post created", "post_id", post.ID, "user_id", userID)
	return post, nil
}

func (s *mediaService) GetUserPosts(ctx context.Context, userID string, page, pageSize int) (*domain.UserPosts, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	offset := int64(page-1) * int64(pageSize)

	total, err := s.repo.CountFor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}

	posts, err := s.repo.GetPage(ctx, userID, offset, int64(pageSize))
	if err != nil {
		return nil, fmt.Errorf("fetch posts page: %w", err)
	}
	if posts == nil {
		posts = []*domain.Post{}
	}

	slog.Debug("user posts fetched", "user_id", userID, "page", page, "count", len(posts), "total", total)
	return &domain.UserPosts{TotalCount: int(total), Posts: posts}, nil
}

func (s *mediaService) DeletePost(ctx context.Context, userID, postID string) error {
	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return domain.ErrNotPostOwner
	}

	if err := s.repo.Delete(ctx, post); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	slog.Info("post deleted", "post_id", postID, "user_id", userID)
	return nil
}
