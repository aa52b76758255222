package clients

import (
	"context"
	"encoding/json"
	"time"

	"github.com/VarunRam7/Everstory-BE/pkg/rpc"
)

const (
	SubjectIsFollowing = "friendship.is_following"
	SubjectIsRequested = "friendship.is_requested"
	SubjectFollowCount = "friendship.follow_count"
)

type FriendshipClient struct {
	rpc     *rpc.Client
	timeout time.Duration
}

func NewFriendshipClient(client *rpc.Client, timeout time.Duration) *FriendshipClient {
	return &FriendshipClient{rpc: client, timeout: timeout}
}

type pairRequest struct {
	FollowedBy string `json:"followedBy"`
	Followed   string `json:"followed"`
}

func (c *FriendshipClient) IsFollowing(ctx context.Context, viewerID, targetID string) (bool, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	var following bool
	err := c.rpc.Invoke(ctx, SubjectIsFollowing, pairRequest{FollowedBy: viewerID, Followed: targetID}, &following)
	return following, err
}

// IsRequested : le pair rend la demande en attente ou null ; ici seul le
// fait qu'elle existe intéresse l'agrégation.
func (c *FriendshipClient) IsRequested(ctx context.Context, viewerID, targetID string) (bool, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	var pending json.RawMessage
	err := c.rpc.Invoke(ctx, SubjectIsRequested, pairRequest{FollowedBy: viewerID, Followed: targetID}, &pending)
	if err != nil {
		return false, err
	}
	return len(pending) > 0 && string(pending) != "null", nil
}

func (c *FriendshipClient) FollowCount(ctx context.Context, userID string) (int64, int64, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	var counts struct {
		Followers int64 `json:"followers"`
		Following int64 `json:"following"`
	}
	err := c.rpc.Invoke(ctx, SubjectFollowCount, struct {
		UserID string `json:"userId"`
	}{UserID: userID}, &counts)
	if err != nil {
		return 0, 0, err
	}
	return counts.Followers, counts.Following, nil
}

// withTimeout ne resserre le contexte que s'il n'a pas déjà d'échéance :
// l'agrégateur pose son propre timeout par appel.
func (c *FriendshipClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}
