package handlers

import (
	"net/http"

	"sack_back_end/internal/invoice"
	"sack_back_end/internal/models"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// GET /api/orders/:id/invoice
// Le QR de paiement UPI n'est joint que tant que la commande n'est pas payée.
func (h *Handler) GetInvoice(c *gin.Context) {
	o, err := h.Orders.GetByID(c.Request.Context(), owner(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	inv := invoice.Build(o)
	if o.PaymentStatus != models.PaymentPaid && o.Status != models.OrderCancelled && h.UPIPayee != "" {
		qr, err := invoice.PaymentQR(h.UPIPayee, h.UPIPayeeName, o)
		if err != nil {
			log.Warnf("⚠️ QR de paiement indisponible pour %s: %v", o.ID, err)
		} else {
			inv.PaymentQR = qr
		}
	}
	c.JSON(http.StatusOK, gin.H{"invoice": inv})
}
