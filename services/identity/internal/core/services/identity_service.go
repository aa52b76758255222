package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/VarunRam7/Everstory-BE/services/identity/internal/core/domain"
	"github.com/VarunRam7/Everstory-BE/services/identity/internal/core/ports"
)

type identityService struct {
	repo     ports.UserRepository
	verifier ports.TokenVerifier
}

func NewIdentityService(repo ports.UserRepository, verifier ports.TokenVerifier) ports.IdentityService {
	return &identityService{repo: repo, verifier: verifier}
}

func (s *identityService) CreateUser(ctx context.Context, cmd ports.CreateUserCmd) (*domain.User, error) {
	user, err := domain.NewUser(cmd.FirstName, cmd.LastName, cmd.Email, cmd.IsPrivate)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}

	slog.Info("user created", "user_id", user.ID, "email", user.Email)
	return user, nil
}

func (s *identityService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.GetByID(ctx, userID)
}

func (s *identityService) SearchUsers(ctx context.Context, cmd ports.SearchUsersCmd) ([]domain.Snapshot, error) {
	users, err := s.repo.Search(ctx, cmd.Query)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}

	out := make([]domain.Snapshot, 0, len(users))
	for _, u := range users {
		if cmd.ExcludeID != "" && u.ID == cmd.ExcludeID {
			continue
		}
		out = append(out, u.Snapshot())
	}
	slog.Debug("users searched", "query", cmd.Query, "count", len(out))
	return out, nil
}

func (s *identityService) SetProfilePhoto(ctx context.Context, userID, photoURL string) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.SetProfilePhoto(photoURL)
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile photo: %w", err)
	}

	slog.Info("profile photo updated", "user_id", userID, "removed", photoURL == "")
	return user, nil
}

// GetFollowRequestDetails sert l'appel groupé de l'orchestrateur friendship :
// une seule requête base pour les deux participants.
func (s *identityService) GetFollowRequestDetails(ctx context.Context, byID, toID string) ([2]domain.Snapshot, error) {
	users, err := s.repo.GetByIDs(ctx, []string{byID, toID})
	if err != nil {
		return [2]domain.Snapshot{}, fmt.Errorf("fetch participants: %w", err)
	}

	var out [2]domain.Snapshot
	found := 0
	for _, u := range users {
		switch u.ID {
		case byID:
			out[0] = u.Snapshot()
			found++
		case toID:
			out[1] = u.Snapshot()
			found++
		}
	}
	if found != 2 {
		return [2]domain.Snapshot{}, domain.ErrUserNotFound
	}
	return out, nil
}

func (s *identityService) VerifyToken(ctx context.Context, token string) (*domain.Claims, error) {
	claims, err := s.verifier.Verify(token)
	if err != nil {
		slog.Warn("token verification failed", "error", err)
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}
