package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/VarunRam7/Everstory-BE/pkg/settle"
	"github.com/VarunRam7/Everstory-BE/services/identity/internal/core/domain"
	"github.com/VarunRam7/Everstory-BE/services/identity/internal/core/ports"
)

const (
	defaultPostsPage     = 1
	defaultPostsPageSize = 50
)

type profileService struct {
	repo        ports.UserRepository
	media       ports.MediaClient
	friendship  ports.FriendshipClient
	peerTimeout time.Duration
}

func NewProfileService(
	repo ports.UserRepository,
	media ports.MediaClient,
	friendship ports.FriendshipClient,
	peerTimeout time.Duration,
) ports.ProfileService {
	return &profileService{
		repo:        repo,
		media:       media,
		friendship:  friendship,
		peerTimeout: peerTimeout,
	}
}

// GetUserDetails assemble le profil détaillé en éventail : quatre appels
// pairs lancés ensemble, chacun attendu indépendamment ("settle, don't fail
// fast"). Un seul cas échappe à la tolérance : cible inconnue, car il n'y a
// alors rien autour de quoi agréger.
func (s *profileService) GetUserDetails(ctx context.Context, targetID, viewerID string) (*domain.DetailedProfile, error) {
	user, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	// Les quatre partent sans s'attendre ; chacun court jusqu'à son propre
	// timeout même si l'appelant abandonne entre-temps.
	postsTask := settle.Go(ctx, domain.UserPosts{Posts: []domain.PostView{}},
		func(ctx context.Context) (domain.UserPosts, error) {
			ctx, cancel := context.WithTimeout(ctx, s.peerTimeout)
			defer cancel()
			return s.media.GetUserPosts(ctx, targetID, defaultPostsPage, defaultPostsPageSize)
		})

	isFollowingTask := settle.Go(ctx, false,
		func(ctx context.Context) (bool, error) {
			ctx, cancel := context.WithTimeout(ctx, s.peerTimeout)
			defer cancel()
			return s.friendship.IsFollowing(ctx, viewerID, targetID)
		})

	isRequestedTask := settle.Go(ctx, false,
		func(ctx context.Context) (bool, error) {
			ctx, cancel := context.WithTimeout(ctx, s.peerTimeout)
			defer cancel()
			return s.friendship.IsRequested(ctx, viewerID, targetID)
		})

	countsTask := settle.Go(ctx, domain.FollowCountsView{},
		func(ctx context.Context) (domain.FollowCountsView, error) {
			ctx, cancel := context.WithTimeout(ctx, s.peerTimeout)
			defer cancel()
			followers, following, err := s.friendship.FollowCount(ctx, targetID)
			return domain.FollowCountsView{Followers: followers, Following: following}, err
		})

	// Jointure "tout attendre" : chaque échec dégrade son champ et se
	// journalise, rien ne remonte à l'appelant.
	posts, err := postsTask.Settle()
	if err != nil {
		slog.Error("fetching posts failed", "peer", "media", "target", targetID, "error", err)
	}
	isFollowing, err := isFollowingTask.Settle()
	if err != nil {
		slog.Error("checking follow status failed", "peer", "friendship", "target", targetID, "viewer", viewerID, "error", err)
	}
	isRequested, err := isRequestedTask.Settle()
	if err != nil {
		slog.Error("checking request status failed", "peer", "friendship", "target", targetID, "viewer", viewerID, "error", err)
	}
	counts, err := countsTask.Settle()
	if err != nil {
		slog.Error("fetching follow counts failed", "peer", "friendship", "target", targetID, "error", err)
	}

	// Règles de composition :
	//  - profil privé et viewer non abonné : posts retenus, totalCount visible
	//  - profil public : isFollowing forcé à true (sémantique d'affichage,
	//    pas une lecture du graphe — les appelants en dépendent)
	visiblePosts := posts.Posts
	if user.IsPrivate && !isFollowing {
		visiblePosts = []domain.PostView{}
	}
	displayFollowing := true
	if user.IsPrivate {
		displayFollowing = isFollowing
	}
	if visiblePosts == nil {
		visiblePosts = []domain.PostView{}
	}

	return &domain.DetailedProfile{
		ID:           user.ID,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Email:        user.Email,
		ProfilePhoto: user.ProfilePhoto,
		IsPrivate:    user.IsPrivate,
		TotalPosts:   posts.TotalCount,
		Posts:        visiblePosts,
		IsFollowing:  displayFollowing,
		IsRequested:  isRequested,
		Followers:    counts.Followers,
		Following:    counts.Following,
	}, nil
}
