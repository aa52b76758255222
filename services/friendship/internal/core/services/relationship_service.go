package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/VarunRam7/Everstory-BE/services/friendship/internal/core/domain"
	"github.com/VarunRam7/Everstory-BE/services/friendship/internal/core/ports"
)

type relationshipService struct {
	repo ports.RelationshipRepository
}

func NewRelationshipService(repo ports.RelationshipRepository) ports.RelationshipService {
	return &relationshipService{repo: repo}
}

func (s *relationshipService) CreateRelationship(ctx context.Context, byID, toID string) error {
	// Le MERGE côté magasin rend l'insertion idempotente : une arête déjà
	// présente est un succès, pas un conflit.
	if err := s.repo.CreateRelation(ctx, byID, toID); err != nil {
		slog.Error("creating relationship failed", "followed_by", byID, "followed", toID, "error", err)
		return fmt.Errorf("create relationship: %w", err)
	}
	slog.Info("relationship created", "followed_by", byID, "followed", toID)
	return nil
}

func (s *relationshipService) Unfollow(ctx context.Context, byID, toID string) (bool, error) {
	removed, err := s.repo.DeleteRelation(ctx, byID, toID)
	if err != nil {
		return false, fmt.Errorf("unfollow: %w", err)
	}
	if !removed {
		slog.Warn("no relationship to remove", "followed_by", byID, "followed", toID)
		return false, nil
	}
	slog.Info("relationship removed", "followed_by", byID, "followed", toID)
	return true, nil
}

func (s *relationshipService) IsFollowing(ctx context.Context, byID, toID string) (bool, error) {
	return s.repo.RelationExists(ctx, byID, toID)
}

func (s *relationshipService) FollowerFollowingCounts(ctx context.Context, userID string) (domain.FollowCounts, error) {
	counts, err := s.repo.CountRelations(ctx, userID)
	if err != nil {
		return domain.FollowCounts{}, fmt.Errorf("count relations: %w", err)
	}
	slog.Debug("follow counts fetched", "user_id", userID, "followers", counts.Followers, "following", counts.Following)
	return counts, nil
}
