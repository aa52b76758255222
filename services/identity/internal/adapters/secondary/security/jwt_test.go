package security

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKeyPair(t *testing.T) (*rsa.PrivateKey, []byte) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)

	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
	return key, pubPEM
}

func sign(t *testing.T, key *rsa.PrivateKey, claims jwt.Claims) string {
	t.Helper()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return signed
}

func TestVerify(t *testing.T) {
	key, pubPEM := newKeyPair(t)
	verifier, err := NewJWTVerifier(pubPEM)
	require.NoError(t, err)

	token := sign(t, key, UserClaims{
		UserID:    "u-alice",
		Email:     "alice@example.com",
		FirstName: "Alice",
		LastName:  "Martin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := verifier.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u-alice", claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "Alice", claims.FirstName)
}

// TestVerifySubjectFallback : certains émetteurs ne posent que le claim
// standard "sub".
func TestVerifySubjectFallback(t *testing.T) {
	key, pubPEM := newKeyPair(t)
	verifier, err := NewJWTVerifier(pubPEM)
	require.NoError(t, err)

	token := sign(t, key, UserClaims{
		Email: "alice@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u-alice",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := verifier.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u-alice", claims.UserID)
}

func TestVerifyExpiredToken(t *testing.T) {
	key, pubPEM := newKeyPair(t)
	verifier, err := NewJWTVerifier(pubPEM)
	require.NoError(t, err)

	token := sign(t, key, UserClaims{
		UserID: "u-alice",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestVerifyWrongKey(t *testing.T) {
	key, _ := newKeyPair(t)
	_, otherPEM := newKeyPair(t)

	verifier, err := NewJWTVerifier(otherPEM)
	require.NoError(t, err)

	token := sign(t, key, UserClaims{UserID: "u-alice"})

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

// TestVerifyRejectsHMAC : un jeton signé HS256 avec le PEM public comme secret
// ne doit jamais passer (confusion d'algorithme classique).
func TestVerifyRejectsHMAC(t *testing.T) {
	_, pubPEM := newKeyPair(t)
	verifier, err := NewJWTVerifier(pubPEM)
	require.NoError(t, err)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, UserClaims{UserID: "u-mallory"}).
		SignedString(pubPEM)
	require.NoError(t, err)

	_, err = verifier.Verify(forged)
	assert.Error(t, err)
}

func TestNewJWTVerifierBadPEM(t *testing.T) {
	_, err := NewJWTVerifier([]byte("not a pem"))
	assert.Error(t, err)
}
