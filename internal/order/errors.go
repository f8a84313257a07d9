package order

import (
	"errors"
	"fmt"

	"sack_back_end/internal/models"
)

var (
	ErrNotFound          = errors.New("commande introuvable")
	ErrInvalidTransition = errors.New("transition de statut interdite")
	ErrValidation        = errors.New("saisie invalide")
)

// TransitionError précise le changement de statut refusé
type TransitionError struct {
	OrderID string
	From    models.OrderStatus
	To      models.OrderStatus
}

func (e *TransitionError) Error() string {
	if isTerminal(e.From) {
		return fmt.Sprintf("commande %s: déjà %s, passage à %s interdit", e.OrderID, e.From, e.To)
	}
	return fmt.Sprintf("commande %s: passage de %s à %s interdit", e.OrderID, e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}
