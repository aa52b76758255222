// Package rpc expose la surface requête/réponse du service media.
package rpc

import (
	"context"
	"errors"

	"github.com/VarunRam7/Everstory-BE/pkg/rpc"
	"github.com/VarunRam7/Everstory-BE/services/media/internal/core/domain"
	"github.com/VarunRam7/Everstory-BE/services/media/internal/core/ports"
)

const (
	SubjectGetUserPosts = "media.get_user_posts"
	SubjectCreatePost   = "media.create_post"
	SubjectDeletePost   = "media.delete_post"
)

type Server struct {
	service ports.MediaService
}

func NewServer(service ports.MediaService) *Server {
	return &Server{service: service}
}

func MapError(err error) *rpc.Error {
	switch {
	case errors.Is(err, domain.ErrMissingField):
		return rpc.Errorf(rpc.KindValidation, "%v", err)
	case errors.Is(err, domain.ErrPostNotFound):
		return rpc.Errorf(rpc.KindNotFound, "%v", err)
	case errors.Is(err, domain.ErrNotPostOwner):
		return rpc.Errorf(rpc.KindValidation, "%v", err)
	}
	return nil
}

func (s *Server) Register(router *rpc.Router) {
	router.Handle(SubjectGetUserPosts, s.getUserPosts)
	router.Handle(SubjectCreatePost, s.createPost)
	router.Handle(SubjectDeletePost, s.deletePost)
}

func (s *Server) getUserPosts(ctx context.Context, data []byte) (any, error) {
	req, err := rpc.Decode[struct {
		UserID   string `json:"userId"`
		Page     int    `json:"page"`
		PageSize int    `json:"pageSize"`
	}](data)
	if err != nil {
		return nil, err
	}
	return s.service.GetUserPosts(ctx, req.UserID, req.Page, req.PageSize)
}

func (s *Server) createPost(ctx context.Context, data []byte) (any, error) {
	req, err := rpc.Decode[struct {
		UserID   string `json:"userId"`
		ImageURL string `json:"imageUrl"`
		Caption  string `json:"caption"`
	}](data)
	if err != nil {
		return nil, err
	}
	return s.service.CreatePost(ctx, req.UserID, req.ImageURL, req.Caption)
}

func (s *Server) deletePost(ctx context.Context, data []byte) (any, error) {
	req, err := rpc.Decode[struct {
		UserID string `json:"userId"`
		PostID string `json:"postId"`
	}](data)
	if err != nil {
		return nil, err
	}
	if err := s.service.DeletePost(ctx, req.UserID, req.PostID); err != nil {
		return nil, err
	}
	return struct {
		Deleted bool `json:"deleted"`
	}{Deleted: true}, nil
}
