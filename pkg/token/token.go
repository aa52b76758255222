// Package token génère les jetons d'invitation : chaînes alphanumériques
// aléatoires, distribution uniforme sur [A-Za-z0-9].
package token

import (
	"crypto/rand"
	"fmt"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// RequestTokenLength est la longueur des jetons de demande de suivi.
const RequestTokenLength = 10

// Alphanumeric tire n caractères uniformes sur l'alphabet latin + chiffres.
// Le tirage par rejet évite le biais modulo (62 ne divise pas 256).
func Alphanumeric(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("token: invalid length %d", n)
	}

	// 248 = plus grand multiple de 62 sous 256 ; les octets au-delà sont rejetés
	const limit = byte(len(alphabet) * (256 / len(alphabet)))

	out := make([]byte, 0, n)
	buf := make([]byte, n)
	for len(out) < n {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("token: rand: %w", err)
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == n {
				break
			}
		}
	}
	return string(out), nil
}
