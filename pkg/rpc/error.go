package rpc

import (
	"errors"
	"fmt"
)

// Kind classifie les erreurs applicatives transportées dans l'enveloppe.
type Kind string

const (
	KindValidation  Kind = "validation"
	KindDuplicate   Kind = "duplicate"
	KindNotFound    Kind = "not_found"
	KindUnavailable Kind = "unavailable"
	KindInternal    Kind = "internal"
)

// Error est l'erreur typée rendue aux appelants : soit remontée telle quelle
// par le pair, soit synthétisée côté client (timeout, pas de répondeur).
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("rpc: %s: %s", e.Kind, e.Message)
}

// Errorf construit une erreur applicative prête à traverser le câble.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// IsKind teste le genre d'une erreur RPC. Retourne false pour toute erreur
// qui n'est pas un *Error (erreur de transport brute, nil, etc.)
func IsKind(err error, kind Kind) bool {
	var rpcErr *Error
	return errors.As(err, &rpcErr) && rpcErr.Kind == kind
}
