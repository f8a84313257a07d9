package utils

import (
	"sack_back_end/internal/models"

	log "github.com/sirupsen/logrus"
)

// SendOrderStatusEmail prévient le client d'un changement de statut
func (m *Mailer) SendOrderStatusEmail(to string, order models.Order) error {
	html, err := StatusEmailHTML(order)
	if err != nil {
		return err
	}
	if err := m.Send(to, StatusEmailSubject(order.Status), html); err != nil {
		log.Errorf("❌ Erreur envoi email statut: %v", err)
		return err
	}
	log.Printf("📧 Email de statut envoyé: %s → %s", order.Status, to)
	return nil
}

func StatusEmailSubject(status models.OrderStatus) string {
	switch status {
	case models.OrderProcessing:
		return "✅ Paiement confirmé, votre linge est en cours de traitement"
	case models.OrderReady:
		return "🧺 Votre commande est prête"
	case models.OrderCompleted:
		return "🎉 Commande terminée"
	case models.OrderCancelled:
		return "❌ Commande annulée"
	default:
		return "📋 Mise à jour de votre commande"
	}
}

func statusMessage(status models.OrderStatus) string {
	switch status {
	case models.OrderPendingPayment:
		return "Votre commande attend son paiement."
	case models.OrderProcessing:
		return "Le studio a reçu votre paiement et prend en charge votre linge."
	case models.OrderReady:
		return "Votre linge est prêt, il sera livré très bientôt."
	case models.OrderCompleted:
		return "Votre linge a été livré. Merci et à bientôt !"
	case models.OrderCancelled:
		return "Votre commande a été annulée."
	default:
		return "Le statut de votre commande a changé."
	}
}
