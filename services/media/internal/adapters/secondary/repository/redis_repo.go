package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/VarunRam7/Everstory-BE/services/media/internal/core/domain"
)

// RedisPostRepo range les métadonnées de posts dans Redis : un hash JSON par
// post, et un sorted set par auteur ordonné par date de création pour la
// pagination anté-chronologique.
type RedisPostRepo struct {
	client *redis.Client
}

func NewRedisPostRepo(client *redis.Client) *RedisPostRepo {
	return &RedisPostRepo{client: client}
}

func postKey(postID string) string { return fmt.Sprintf("post:%s", postID) }
func userKey(userID string) string { return fmt.Sprintf("posts:%s", userID) }

func (r *RedisPostRepo) Save(ctx context.Context, post *domain.Post) error {
	data, err := json.Marshal(post)
	if err != nil {
		return fmt.Errorf("marshal post: %w", err)
	}

	// Pipeline : le hash et l'entrée de l'index partent ensemble
	pipe := r.client.Pipeline()
	pipe.Set(ctx, postKey(post.ID), data, 0)
	pipe.ZAdd(ctx, userKey(post.UserID), redis.Z{
		Score:  float64(post.CreatedAt.UnixNano()),
		Member: post.ID,
	})
	_, err = pipe.Exec(ctx)
	return err
}

// GetPage lit l'index du plus récent au plus ancien puis récupère chaque
// post en pipeline. Un ID orphelin (post supprimé entre les deux lectures)
// est simplement ignoré.
func (r *RedisPostRepo) GetPage(ctx context.Context, userID string, offset, limit int64) ([]*domain.Post, error) {
	ids, err := r.client.ZRevRange(ctx, userKey(userID), offset, offset+limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: posts index: %w", err)
	}
	if len(ids) == 0 {
		return []*domain.Post{}, nil
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.Get(ctx, postKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("redis: posts fetch: %w", err)
	}

	posts := make([]*domain.Post, 0, len(ids))
	for _, cmd := range cmds {
		raw, err := cmd.Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("redis: post fetch: %w", err)
		}
		var post domain.Post
		if err := json.Unmarshal([]byte(raw), &post); err != nil {
			continue
		}
		posts = append(posts, &post)
	}
	return posts, nil
}

func (r *RedisPostRepo) CountFor(ctx context.Context, userID string) (int64, error) {
	n, err := r.client.ZCard(ctx, userKey(userID)).Result()
	if err != nil {
		return 0, fmt.Errorf("redis: posts count: %w", err)
	}
	return n, nil
}

func (r *RedisPostRepo) GetByID(ctx context.Context, postID string) (*domain.Post, error) {
	raw, err := r.client.Get(ctx, postKey(postID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis: post get: %w", err)
	}

	var post domain.Post
	if err := json.Unmarshal([]byte(raw), &post); err != nil {
		return nil, fmt.Errorf("redis: post decode: %w", err)
	}
	return &post, nil
}

func (r *RedisPostRepo) Delete(ctx context.Context, post *domain.Post) error {
	pipe := r.client.Pipeline()
	pipe.Del(ctx, postKey(post.ID))
	pipe.ZRem(ctx, userKey(post.UserID), post.ID)
	_, err := pipe.Exec(ctx)
	return err
}

// Ping vérifie la connectivité au démarrage.
func (r *RedisPostRepo) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return r.client.Ping(ctx).Err()
}
