package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VarunRam7/Everstory-BE/services/friendship/internal/core/domain"
)

func TestCreateRelationshipIsIdempotent(t *testing.T) {
	repo := newFakeRelationRepo()
	svc := NewRelationshipService(repo)
	ctx := context.Background()

	require.NoError(t, svc.CreateRelationship(ctx, "u-alice", "u-bruno"))
	require.NoError(t, svc.CreateRelationship(ctx, "u-alice", "u-bruno"))

	following, err := svc.IsFollowing(ctx, "u-alice", "u-bruno")
	require.NoError(t, err)
	assert.True(t, following)
	assert.Len(t, repo.edges, 1)
}

func TestUnfollow(t *testing.T) {
	repo := newFakeRelationRepo()
	svc := NewRelationshipService(repo)
	ctx := context.Background()

	require.NoError(t, svc.CreateRelationship(ctx, "u-alice", "u-bruno"))

	removed, err := svc.Unfollow(ctx, "u-alice", "u-bruno")
	require.NoError(t, err)
	assert.True(t, removed)

	following, err := svc.IsFollowing(ctx, "u-alice", "u-bruno")
	require.NoError(t, err)
	assert.False(t, following)
}

func TestUnfollowNothingToRemove(t *testing.T) {
	svc := NewRelationshipService(newFakeRelationRepo())

	// Retirer une arête absente n'est pas une erreur
	removed, err := svc.Unfollow(context.Background(), "u-alice", "u-bruno")
	assert.NoError(t, err)
	assert.False(t, removed)
}

func TestFollowerFollowingCounts(t *testing.T) {
	repo := newFakeRelationRepo()
	svc := NewRelationshipService(repo)
	ctx := context.Background()

	require.NoError(t, svc.CreateRelationship(ctx, "u-alice", "u-bruno"))
	require.NoError(t, svc.CreateRelationship(ctx, "u-carla", "u-bruno"))
	require.NoError(t, svc.CreateRelationship(ctx, "u-bruno", "u-alice"))

	counts, err := svc.FollowerFollowingCounts(ctx, "u-bruno")
	require.NoError(t, err)
	assert.Equal(t, domain.FollowCounts{Followers: 2, Following: 1}, counts)
}
