package domain

import (
	"errors"
	"time"
)

// --- ERREURS DU DOMAINE ---
var (
	ErrSelfFollow          = errors.New("you cannot follow yourself")
	ErrDuplicateRequest    = errors.New("an active follow request already exists")
	ErrRequestNotFound     = errors.New("follow request not found or expired")
	ErrInvalidDecision     = errors.New("decision must be ACCEPTED or REJECTED")
	ErrMissingToken        = errors.New("invite token is required")
	ErrIdentityUnavailable = errors.New("identity service unavailable")
)

type FollowRequestStatus string

const (
	StatusPending  FollowRequestStatus = "PENDING"
	StatusAccepted FollowRequestStatus = "ACCEPTED"
	StatusRejected FollowRequestStatus = "REJECTED"
)

// IsDecision dit si le statut est une réponse valable à une invitation.
func (s FollowRequestStatus) IsDecision() bool {
	return s == StatusAccepted || s == StatusRejected
}

// Participant est la copie dénormalisée du profil d'un participant, figée au
// moment de la création de la demande. Ce n'est PAS une référence vivante :
// le rendu de l'invitation peut montrer des données périmées si le profil a
// changé depuis l'envoi, et c'est voulu.
type Participant struct {
	ID           string `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	ProfilePhoto string `json:"profilePhoto"`
	IsPrivate    bool   `json:"isPrivate"`
}

// FollowRequest est l'invitation à suivre, résolvable une seule fois via son
// jeton. IsExpired signifie "plus actionnable", pas une expiration temporelle.
type FollowRequest struct {
	ID        string              `json:"id"`
	RequestBy Participant         `json:"requestBy"`
	RequestTo Participant         `json:"requestTo"`
	Token     string              `json:"requestToken"`
	Status    FollowRequestStatus `json:"status"`
	IsExpired bool                `json:"isExpired"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// FollowCounts regroupe les deux compteurs indépendants du graphe.
type FollowCounts struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}
