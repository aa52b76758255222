package services

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VarunRam7/Everstory-BE/services/media/internal/core/domain"
)

// fakePostRepo rejoue la sémantique du magasin : pages triées du plus récent
// au plus ancien.
type fakePostRepo struct {
	posts []*domain.Post
}

func (f *fakePostRepo) Save(_ context.Context, post *domain.Post) error {
	f.posts = append(f.posts, post)
	return nil
}

func (f *fakePostRepo) GetPage(_ context.Context, userID string, offset, limit int64) ([]*domain.Post, error) {
	var mine []*domain.Post
	for _, p := range f.posts {
		if p.UserID == userID {
			mine = append(mine, p)
		}
	}
	sort.Slice(mine, func(i, j int) bool { return mine[i].CreatedAt.After(mine[j].CreatedAt) })

	if offset >= int64(len(mine)) {
		return nil, nil
	}
	end := offset + limit
	if end > int64(len(mine)) {
		end = int64(len(mine))
	}
	return mine[offset:end], nil
}

func (f *fakePostRepo) CountFor(_ context.Context, userID string) (int64, error) {
	var n int64
	for _, p := range f.posts {
		if p.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakePostRepo) GetByID(_ context.Context, postID string) (*domain.Post, error) {
	for _, p := range f.posts {
		if p.ID == postID {
			return p, nil
		}
	}
	return nil, domain.ErrPostNotFound
}

func (f *fakePostRepo) Delete(_ context.Context, post *domain.Post) error {
	for i, p := range f.posts {
		if p.ID == post.ID {
			f.posts = append(f.posts[:i], f.posts[i+1:]...)
			return nil
		}
	}
	return nil
}

func seedPosts(t *testing.T, repo *fakePostRepo, userID string, n int) {
	t.Helper()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		require.NoError(t, repo.Save(context.Background(), &domain.Post{
			ID:        fmt.Sprintf("p-%s-%03d", userID, i),
			UserID:    userID,
			ImageURL:  fmt.Sprintf("https://cdn.example.com/%d.jpg", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
}

func TestCreatePost(t *testing.T) {
	repo := &fakePostRepo{}
	svc := NewMediaService(repo)

	post, err := svc.CreatePost(context.Background(), "u-alice", "https://cdn.example.com/a.jpg", "sunset")
	require.NoError(t, err)

	assert.NotEmpty(t, post.ID)
	assert.Equal(t, "u-alice", post.UserID)
	assert.Len(t, repo.posts, 1)
}

func TestCreatePostValidation(t *testing.T) {
	svc := NewMediaService(&fakePostRepo{})
	ctx := context.Background()

	_, err := svc.CreatePost(ctx, "", "https://cdn.example.com/a.jpg", "")
	assert.ErrorIs(t, err, domain.ErrMissingField)

	_, err = svc.CreatePost(ctx, "u-alice", "", "")
	assert.ErrorIs(t, err, domain.ErrMissingField)
}

func TestGetUserPostsNewestFirst(t *testing.T) {
	repo := &fakePostRepo{}
	seedPosts(t, repo, "u-alice", 3)
	svc := NewMediaService(repo)

	result, err := svc.GetUserPosts(context.Background(), "u-alice", 1, 10)
	require.NoError(t, err)

	require.Len(t, result.Posts, 3)
	assert.Equal(t, "p-u-alice-002", result.Posts[0].ID)
	assert.Equal(t, "p-u-alice-000", result.Posts[2].ID)
}

// TestGetUserPostsTotalCount : TotalCount couvre toutes les pages, pas
// seulement celle rendue.
func TestGetUserPostsTotalCount(t *testing.T) {
	repo := &fakePostRepo{}
	seedPosts(t, repo, "u-alice", 7)
	seedPosts(t, repo, "u-bruno", 2)
	svc := NewMediaService(repo)

	result, err := svc.GetUserPosts(context.Background(), "u-alice", 2, 3)
	require.NoError(t, err)

	assert.Equal(t, 7, result.TotalCount)
	assert.Len(t, result.Posts, 3)
	assert.Equal(t, "p-u-alice-003", result.Posts[0].ID)
}

func TestGetUserPostsClamping(t *testing.T) {
	repo := &fakePostRepo{}
	seedPosts(t, repo, "u-alice", 5)
	svc := NewMediaService(repo)
	ctx := context.Background()

	// Page et taille invalides retombent sur les défauts
	result, err := svc.GetUserPosts(ctx, "u-alice", 0, -1)
	require.NoError(t, err)
	assert.Len(t, result.Posts, 5)

	// Taille plafonnée, pas d'erreur
	result, err = svc.GetUserPosts(ctx, "u-alice", 1, 100000)
	require.NoError(t, err)
	assert.Len(t, result.Posts, 5)
}

func TestGetUserPostsPastTheEnd(t *testing.T) {
	repo := &fakePostRepo{}
	seedPosts(t, repo, "u-alice", 2)
	svc := NewMediaService(repo)

	result, err := svc.GetUserPosts(context.Background(), "u-alice", 9, 10)
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalCount)
	assert.NotNil(t, result.Posts)
	assert.Empty(t, result.Posts)
}

func TestGetUserPostsNoPosts(t *testing.T) {
	svc := NewMediaService(&fakePostRepo{})

	result, err := svc.GetUserPosts(context.Background(), "u-ghost", 1, 10)
	require.NoError(t, err)

	assert.Zero(t, result.TotalCount)
	assert.NotNil(t, result.Posts)
	assert.Empty(t, result.Posts)
}

func TestDeletePost(t *testing.T) {
	repo := &fakePostRepo{}
	seedPosts(t, repo, "u-alice", 1)
	svc := NewMediaService(repo)

	err := svc.DeletePost(context.Background(), "u-alice", "p-u-alice-000")
	require.NoError(t, err)
	assert.Empty(t, repo.posts)
}

func TestDeletePostNotOwner(t *testing.T) {
	repo := &fakePostRepo{}
	seedPosts(t, repo, "u-alice", 1)
	svc := NewMediaService(repo)

	err := svc.DeletePost(context.Background(), "u-mallory", "p-u-alice-000")
	assert.ErrorIs(t, err, domain.ErrNotPostOwner)
	assert.Len(t, repo.posts, 1)
}

func TestDeletePostUnknown(t *testing.T) {
	svc := NewMediaService(&fakePostRepo{})

	err := svc.DeletePost(context.Background(), "u-alice", "p-ghost")
	assert.ErrorIs(t, err, domain.ErrPostNotFound)
}
