package domain

import (
	"errors"
	"time"
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrNotPostOwner = errors.New("post does not belong to this user")
	ErrMissingField = errors.New("user id and image url are required")
)

// Post ne porte que les métadonnées : le blob lui-même vit chez le
// fournisseur de stockage externe, seule l'URL est conservée.
type Post struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Caption   string    `json:"caption"`
	ImageURL  string    `json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserPosts est la page demandée plus le total toutes pages confondues.
type UserPosts struct {
	TotalCount int     `json:"totalCount"`
	Posts      []*Post `json:"posts"`
}
