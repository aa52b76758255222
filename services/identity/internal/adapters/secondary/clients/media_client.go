package clients

import (
	"context"
	"time"

	"github.com/VarunRam7/Everstory-BE/pkg/rpc"
	"github.com/VarunRam7/Everstory-BE/services/identity/internal/core/domain"
)

const SubjectGetUserPosts = "media.get_user_posts"

type MediaClient struct {
	rpc     *rpc.Client
	timeout time.Duration
}

func NewMediaClient(client *rpc.Client, timeout time.Duration) *MediaClient {
	return &MediaClient{rpc: client, timeout: timeout}
}

func (c *MediaClient) GetUserPosts(ctx context.Context, userID string, page, pageSize int) (domain.UserPosts, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var posts domain.UserPosts
	err := c.rpc.Invoke(ctx, SubjectGetUserPosts, struct {
		UserID   string `json:"userId"`
		Page     int    `json:"page"`
		PageSize int    `json:"pageSize"`
	}{UserID: userID, Page: page, PageSize: pageSize}, &posts)
	if err != nil {
		return domain.UserPosts{Posts: []domain.PostView{}}, err
	}
	if posts.Posts == nil {
		posts.Posts = []domain.PostView{}
	}
	return posts, nil
}
