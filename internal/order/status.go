package order

import "sack_back_end/internal/models"

var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderPending:        {models.OrderPendingPayment, models.OrderProcessing, models.OrderCancelled},
	models.OrderPendingPayment: {models.OrderProcessing, models.OrderCancelled},
	models.OrderProcessing:     {models.OrderReady, models.OrderCancelled},
	models.OrderReady:          {models.OrderCompleted},
}

// CanTransition indique si une commande peut passer de from à to
func CanTransition(from, to models.OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// isTerminal : completed et cancelled n'acceptent plus aucun changement
func isTerminal(s models.OrderStatus) bool {
	return len(transitions[s]) == 0
}
