package models

// Types de lavage acceptés sur une ligne du panier
const (
	WashStandard = "standard"
	WashExpress  = "express"
	// WashBoth désigne un panier mixte (livraison séparée)
	WashBoth = "both"
)

type SubItem struct {
	Name     string `json:"name" validate:"required"`
	Quantity int    `json:"quantity" validate:"gte=0"`
}

// CartItem est une ligne du sac. Pour un service facturé au poids, Weight est
// renseigné et remplace Quantity.
type CartItem struct {
	ServiceID   string    `json:"serviceId" validate:"required"`
	ServiceName string    `json:"serviceName"`
	Price       float64   `json:"price" validate:"gte=0"`
	Quantity    *float64  `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	Weight      *float64  `json:"weight,omitempty" validate:"omitempty,gte=0"`
	StudioID    string    `json:"studioId,omitempty"`
	StudioName  string    `json:"studioName,omitempty"`
	WashType    string    `json:"washType,omitempty" validate:"omitempty,oneof=standard express"`
	Items       []SubItem `json:"items,omitempty" validate:"dive"`

	// Calculés au chargement, jamais relus depuis le stockage
	ServiceCategory    string `json:"serviceCategory,omitempty"`
	ServiceSubCategory string `json:"serviceSubCategory,omitempty"`
}

// IsWeightBased indique une facturation au kilo
func (i CartItem) IsWeightBased() bool {
	return i.Weight != nil
}

// Units retourne la quantité facturée (poids ou nombre, 1 par défaut)
func (i CartItem) Units() float64 {
	if i.Weight != nil {
		return *i.Weight
	}
	if i.Quantity != nil {
		return *i.Quantity
	}
	return 1
}

// Float renvoie un pointeur, pratique pour Quantity/Weight
func Float(v float64) *float64 {
	return &v
}
