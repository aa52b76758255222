// Package rpc expose la surface requête/réponse du service identity.
package rpc

import (
	"context"
	"errors"

	"github.com/VarunRam7/Everstory-BE/pkg/rpc"
	"github.com/VarunRam7/Everstory-BE/services/identity/internal/core/domain"
	"github.com/VarunRam7/Everstory-BE/services/identity/internal/core/ports"
)

const (
	SubjectCreateUser              = "identity.create_user"
	SubjectSearchUsers             = "identity.search_users"
	SubjectUpdateProfilePhoto      = "identity.update_profile_photo"
	SubjectGetFollowRequestDetails = "identity.get_follow_request_details"
	SubjectGetUserDetails          = "identity.get_user_details"
	SubjectVerifyToken             = "identity.verify_jwt"
)

type Server struct {
	identity ports.IdentityService
	profiles ports.ProfileService
}

func NewServer(identity ports.IdentityService, profiles ports.ProfileService) *Server {
	return &Server{identity: identity, profiles: profiles}
}

// MapError traduit les erreurs du domaine identity vers la taxonomie câble.
func MapError(err error) *rpc.Error {
	switch {
	case errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrInvalidName),
		errors.Is(err, domain.ErrInvalidToken):
		return rpc.Errorf(rpc.KindValidation, "%v", err)
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return rpc.Errorf(rpc.KindDuplicate, "%v", err)
	case errors.Is(err, domain.ErrUserNotFound):
		return rpc.Errorf(rpc.KindNotFound, "%v", err)
	}
	return nil
}

func (s *Server) Register(router *rpc.Router) {
	router.Handle(SubjectCreateUser, s.createUser)
	router.Handle(SubjectSearchUsers, s.searchUsers)
	router.Handle(SubjectUpdateProfilePhoto, s.updateProfilePhoto)
	router.Handle(SubjectGetFollowRequestDetails, s.getFollowRequestDetails)
	router.Handle(SubjectGetUserDetails, s.getUserDetails)
	router.Handle(SubjectVerifyToken, s.verifyToken)
}

func (s *Server) createUser(ctx context.Context, data []byte) (any, error) {
	req, err := rpc.Decode[struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
		IsPrivate bool   `json:"isPrivate"`
	}](data)
	if err != nil {
		return nil, err
	}
	return s.identity.CreateUser(ctx, ports.CreateUserCmd{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		IsPrivate: req.IsPrivate,
	})
}

func (s *Server) searchUsers(ctx context.Context, data []byte) (any, error) {
	req, err := rpc.Decode[struct {
		Query     string `json:"query"`
		ExcludeID string `json:"excludeId"`
	}](data)
	if err != nil {
		return nil, err
	}
	return s.identity.SearchUsers(ctx, ports.SearchUsersCmd{Query: req.Query, ExcludeID: req.ExcludeID})
}

func (s *Server) updateProfilePhoto(ctx context.Context, data []byte) (any, error) {
	req, err := rpc.Decode[struct {
		UserID          string `json:"userId"`
		ProfilePhotoURL string `json:"profilePhotoUrl"`
	}](data)
	if err != nil {
		return nil, err
	}
	return s.identity.SetProfilePhoto(ctx, req.UserID, req.ProfilePhotoURL)
}

func (s *Server) getFollowRequestDetails(ctx context.Context, data []byte) (any, error) {
	req, err := rpc.Decode[struct {
		RequestBy string `json:"requestBy"`
		RequestTo string `json:"requestTo"`
	}](data)
	if err != nil {
		return nil, err
	}
	return s.identity.GetFollowRequestDetails(ctx, req.RequestBy, req.RequestTo)
}

func (s *Server) getUserDetails(ctx context.Context, data []byte) (any, error) {
	req, err := rpc.Decode[struct {
		UserID   string `json:"userId"`
		ViewerID string `json:"viewerId"`
	}](data)
	if err != nil {
		return nil, err
	}
	return s.profiles.GetUserDetails(ctx, req.UserID, req.ViewerID)
}

func (s *Server) verifyToken(ctx context.Context, data []byte) (any, error) {
	req, err := rpc.Decode[struct {
		Token string `json:"token"`
	}](data)
	if err != nil {
		return nil, err
	}
	return s.identity.VerifyToken(ctx, req.Token)
}
