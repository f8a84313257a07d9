package utils

import (
	"bytes"
	"html/template"

	"sack_back_end/internal/models"
)

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`<!DOCTYPE html>
<html lang="fr">
<head><meta charset="UTF-8"><title>Confirmation de commande</title></head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2>Votre commande {{.ID}} est enregistrée</h2>
		<p>Studio : <strong>{{.StudioName}}</strong></p>
		<table style="width: 100%; border-collapse: collapse; margin: 20px 0;">
			<thead><tr><th align="left">Service</th><th align="left">Qté</th><th align="left">Prix</th></tr></thead>
			<tbody>
			{{range .Services}}<tr><td>{{.Name}}{{if .Items}} ({{.Items}}){{end}}</td><td>{{.Quantity}}</td><td>₹{{printf "%.2f" .Price}}</td></tr>
			{{end}}</tbody>
		</table>
		<p>Sous-total : ₹{{printf "%.2f" .Subtotal}}<br>
		Livraison : ₹{{printf "%.2f" .DeliveryFee}}<br>
		Taxes : ₹{{printf "%.2f" .Tax}}<br>
		{{if .Discount}}Remise{{if .CouponCode}} ({{.CouponCode}}){{end}} : -₹{{printf "%.2f" .Discount}}<br>{{end}}
		<strong>Total : ₹{{printf "%.2f" .TotalAmount}}</strong></p>
		{{if .Address}}<p>Adresse : {{.Address}}</p>{{end}}
	</div>
</body>
</html>`))

var statusTmpl = template.Must(template.New("status").Parse(`<!DOCTYPE html>
<html lang="fr">
<head><meta charset="UTF-8"><title>Mise à jour de commande</title></head>
<body style="font-family: Arial, sans-serif; background-color: #f5f5f5; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 12px;">
		<h2>Commande {{.Order.ID}}</h2>
		<p>{{.Message}}</p>
		<p>Statut : <strong>{{.Order.Status}}</strong> · Total : ₹{{printf "%.2f" .Order.TotalAmount}}</p>
	</div>
</body>
</html>`))

func OrderConfirmationHTML(order models.Order) (string, error) {
	var buf bytes.Buffer
	if err := confirmationTmpl.Execute(&buf, order); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func StatusEmailHTML(order models.Order) (string, error) {
	var buf bytes.Buffer
	data := struct {
		Order   models.Order
		Message string
	}{order, statusMessage(order.Status)}
	if err := statusTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
