package security

import (
	"crypto/rsa"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/VarunRam7/Everstory-BE/services/identity/internal/core/domain"
)

// UserClaims étend les claims standards JWT.
type UserClaims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	jwt.RegisteredClaims
}

// JWTVerifier valide les jetons émis par le fournisseur d'identité externe.
// Vérification seulement : la clé privée ne vit pas ici.
type JWTVerifier struct {
	publicKey *rsa.PublicKey
}

func NewJWTVerifier(publicKeyPEM []byte) (*JWTVerifier, error) {
	pubKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}
	return &JWTVerifier{publicKey: pubKey}, nil
}

func (j *JWTVerifier) Verify(tokenString string) (*domain.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Refuse tout autre algo : empêche le forçage vers "none" ou HS256
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.publicKey, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*UserClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	userID := claims.UserID
	if userID == "" {
		userID = claims.Subject
	}
	return &domain.Claims{
		UserID:    userID,
		Email:     claims.Email,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
	}, nil
}
