// Package rpc expose la surface requête/réponse du service friendship.
package rpc

import (
	"context"
	"errors"

	"github.com/VarunRam7/Everstory-BE/pkg/rpc"
	"github.com/VarunRam7/Everstory-BE/services/friendship/internal/core/domain"
	"github.com/VarunRam7/Everstory-BE/services/friendship/internal/core/ports"
)

const (
	SubjectCreateFollowRequest = "friendship.create_follow_request"
	SubjectRespond             = "friendship.respond"
	SubjectRevoke              = "friendship.revoke"
	SubjectPendingRequests     = "friendship.pending_requests"
	SubjectIsFollowing         = "friendship.is_following"
	SubjectIsRequested         = "friendship.is_requested"
	SubjectFollowCount         = "friendship.follow_count"
	SubjectUnfollow            = "friendship.unfollow"
)

type Server struct {
	requests      ports.FollowRequestService
	relationships ports.RelationshipService
}

func NewServer(requests ports.FollowRequestService, relationships ports.RelationshipService) *Server {
	return &Server{requests: requests, relationships: relationships}
}

// MapError traduit les erreurs du domaine friendship vers la taxonomie câble.
func MapError(err error) *rpc.Error {
	switch {
	case errors.Is(err, domain.ErrSelfFollow),
		errors.Is(err, domain.ErrInvalidDecision),
		errors.Is(err, domain.ErrMissingToken):
		return rpc.Errorf(rpc.KindValidation, "%v", err)
	case errors.Is(err, domain.ErrDuplicateRequest):
		return rpc.Errorf(rpc.KindDuplicate, "%v", err)
	case errors.Is(err, domain.ErrRequestNotFound):
		return rpc.Errorf(rpc.KindNotFound, "%v", err)
	case errors.Is(err, domain.ErrIdentityUnavailable):
		return rpc.Errorf(rpc.KindUnavailable, "%v", err)
	}
	return nil
}

func (s *Server) Register(router *rpc.Router) {
	router.Handle(SubjectCreateFollowRequest, s.createFollowRequest)
	router.Handle(SubjectRespond, s.respond)
	router.Handle(SubjectRevoke, s.revoke)
	router.Handle(SubjectPendingRequests, s.pendingRequests)
	router.Handle(SubjectIsFollowing, s.isFollowing)
	router.Handle(SubjectIsRequested, s.isRequested)
	router.Handle(SubjectFollowCount, s.followCount)
	router.Handle(SubjectUnfollow, s.unfollow)
}

type pairRequest struct {
	FollowedBy string `json:"followedBy"`
	Followed   string `json:"followed"`
}

type followRequestPayload struct {
	RequestBy string `json:"requestBy"`
	RequestTo string `json:"requestTo"`
}

func (s *Server) createFollowRequest(ctx context.Context, data []byte) (any, error) {
	req, err := rpc.Decode[followRequestPayload](data)
	if err != nil {
		return nil, err
	}
	return s.requests.CreateFollowRequest(ctx, req.RequestBy, req.RequestTo)
}

func (s *Server) respond(ctx context.Context, data []byte) (any, error) {
	req, err := rpc.Decode[struct {
		Token  string `json:"token"`
		Status string `json:"status"`
	}](data)
	if err != nil {
		return nil, err
	}
	return s.requests.RespondToRequest(ctx, req.Token, domain.FollowRequestStatus(req.Status))
}

func (s *Server) revoke(ctx context.Context, data []byte) (any, error) {
	req, err := rpc.Decode[followRequestPayload](data)
	if err != nil {
		return nil, err
	}
	return s.requests.RevokeRequest(ctx, req.RequestBy, req.RequestTo)
}

func (s *Server) pendingRequests(ctx context.Context, data []byte) (any, error) {
	req, err := rpc.Decode[struct {
		UserID string `json:"userId"`
	}](data)
	if err != nil {
		return nil, err
	}
	requests, err := s.requests.GetPendingFollowRequests(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if requests == nil {
		requests = []*domain.FollowRequest{}
	}
	return requests, nil
}

func (s *Server) isFollowing(ctx context.Context, data []byte) (any, error) {
	req, err := rpc.Decode[pairRequest](data)
	if err != nil {
		return nil, err
	}
	return s.relationships.IsFollowing(ctx, req.FollowedBy, req.Followed)
}

// isRequested rend la demande en attente pour la paire, ou null.
func (s *Server) isRequested(ctx context.Context, data []byte) (any, error) {
	req, err := rpc.Decode[pairRequest](data)
	if err != nil {
		return nil, err
	}
	return s.requests.GetPendingBetween(ctx, req.FollowedBy, req.Followed)
}

func (s *Server) followCount(ctx context.Context, data []byte) (any, error) {
	req, err := rpc.Decode[struct {
		UserID string `json:"userId"`
	}](data)
	if err != nil {
		return nil, err
	}
	return s.relationships.FollowerFollowingCounts(ctx, req.UserID)
}

func (s *Server) unfollow(ctx context.Context, data []byte) (any, error) {
	req, err := rpc.Decode[pairRequest](data)
	if err != nil {
		return nil, err
	}
	removed, err := s.relationships.Unfollow(ctx, req.FollowedBy, req.Followed)
	if err != nil {
		return nil, err
	}
	return struct {
		Removed bool `json:"removed"`
	}{Removed: removed}, nil
}
