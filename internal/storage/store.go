package storage

import (
	"context"
	"errors"
)

// Scope indique si une clé survit à la session du navigateur
type Scope int

const (
	Durable Scope = iota
	Session
)

func (s Scope) String() string {
	if s == Session {
		return "session"
	}
	return "durable"
}

var (
	ErrKeyNotFound = errors.New("clé introuvable")
	// ErrMalformed : la valeur persistée ne se décode pas ou ne respecte pas le schéma
	ErrMalformed = errors.New("état persisté invalide")
)

// Clés persistées, une collection par clé
const (
	KeyCartItems        = "cartItems"
	KeyOrders           = "orders"
	KeyRatedOrders      = "ratedOrders"
	KeyFavoriteStudios  = "favoriteStudios"
	KeyFavoriteServices = "favoriteServices"
	KeyPreferredPayment = "preferredPaymentMethod"
	KeyAppliedCoupon    = "appliedCoupon"
)

// Store est le substrat clé/valeur. Chaque écriture remplace la valeur entière.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, scope Scope) error
	Delete(ctx context.Context, key string) error
}

// Key préfixe une clé par son propriétaire (utilisateur ou invité)
func Key(owner, name string) string {
	return "sack:" + owner + ":" + name
}
