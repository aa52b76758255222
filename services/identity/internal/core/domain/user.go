package domain

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// --- ERREURS DU DOMAINE ---
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrInvalidName        = errors.New("first and last name are required")
	ErrInvalidToken       = errors.New("invalid token")
)

// --- ENTITÉ ---

type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	ProfilePhoto string    `json:"profilePhoto"`
	IsPrivate    bool      `json:"isPrivate"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewUser crée une instance valide : l'identité est générée ici, pas en base.
func NewUser(firstName, lastName, email string, isPrivate bool) (*User, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return nil, ErrInvalidName
	}

	now := time.Now().UTC()
	return &User{
		ID:        uuid.NewString(),
		FirstName: firstName,
		LastName:  lastName,
		Email:     strings.ToLower(strings.TrimSpace(email)),
		IsPrivate: isPrivate,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// SetProfilePhoto pose ou retire (URL vide) la photo de profil.
func (u *User) SetProfilePhoto(url string) {
	u.ProfilePhoto = url
	u.UpdatedAt = time.Now().UTC()
}

// Snapshot est la vue minimale embarquée dans une demande de suivi au moment
// de sa création (copie figée, pas de référence vivante).
type Snapshot struct {
	ID           string `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	ProfilePhoto string `json:"profilePhoto"`
	IsPrivate    bool   `json:"isPrivate"`
}

func (u *User) Snapshot() Snapshot {
	return Snapshot{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		ProfilePhoto: u.ProfilePhoto,
		IsPrivate:    u.IsPrivate,
	}
}

// --- VUES COMPOSÉES (agrégation, jamais persistées) ---

// PostView est la projection d'un post telle que rendue par le service media.
type PostView struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Caption   string    `json:"caption"`
	ImageURL  string    `json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserPosts est la réponse du pair media pour un utilisateur.
type UserPosts struct {
	TotalCount int        `json:"totalCount"`
	Posts      []PostView `json:"posts"`
}

// FollowCountsView est la réponse du pair friendship pour les compteurs.
type FollowCountsView struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}

// DetailedProfile est le composite best-effort de l'agrégation : chacun des
// quatre champs dérivés retombe indépendamment sur sa valeur par défaut si
// l'appel pair correspondant a échoué.
type DetailedProfile struct {
	ID           string     `json:"id"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	Email        string     `json:"email"`
	ProfilePhoto string     `json:"profilePhoto"`
	IsPrivate    bool       `json:"isPrivate"`
	TotalPosts   int        `json:"totalPosts"`
	Posts        []PostView `json:"posts"`
	IsFollowing  bool       `json:"isFollowing"`
	IsRequested  bool       `json:"isRequested"`
	Followers    int64      `json:"followersCount"`
	Following    int64      `json:"followingCount"`
}

// Claims est le résultat d'une vérification de jeton d'accès.
type Claims struct {
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}
