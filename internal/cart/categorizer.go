package cart

import (
	"strings"

	"sack_back_end/internal/models"
)

const (
	CategoryCoreLaundry = "Core Laundry"
	CategoryDryCleaning = "Dry Cleaning"
	CategoryShoe        = "Shoe Laundry"
	CategoryAdditional  = "Additional Services"
)

type subRule struct {
	label    string
	keywords []string
}

var coreLaundry = []subRule{
	{"Wash & Fold", []string{"wash-fold"}},
	{"Wash & Iron", []string{"wash-iron"}},
	{"Steam Iron", []string{"steam-iron"}},
	{"Premium Laundry", []string{"premium-laundry"}},
}

var dryCleaning = []subRule{
	{"Upper Wear", []string{"upper", "shirt", "top", "jacket", "blazer", "coat"}},
	{"Bottom Wear", []string{"bottom", "trouser", "jeans", "skirt", "pant"}},
	{"Ethnic Wear", []string{"ethnic", "saree", "kurta", "lehenga", "sherwani"}},
}

var additionalKeywords = []string{"additional", "addon", "stain", "starch", "softener"}

// Classify retourne catégorie et sous-catégorie d'un serviceId, vides si inconnu
func Classify(serviceID string) (string, string) {
	id := strings.ToLower(serviceID)

	switch {
	case containsAny(id, "shoe", "sneaker"):
		return CategoryShoe, ""
	case strings.HasPrefix(id, "dry-clean") || strings.HasPrefix(id, "dc-"):
		for _, r := range dryCleaning {
			if containsAny(id, r.keywords...) {
				return CategoryDryCleaning, r.label
			}
		}
		return CategoryDryCleaning, ""
	case containsAny(id, additionalKeywords...):
		return CategoryAdditional, ""
	}

	for _, r := range coreLaundry {
		if strings.HasPrefix(id, r.keywords[0]) {
			return CategoryCoreLaundry, r.label
		}
	}
	return "", ""
}

// Categorize renseigne les champs dérivés sur une copie des lignes
func Categorize(items []models.CartItem) []models.CartItem {
	out := make([]models.CartItem, len(items))
	for i, item := range items {
		item.ServiceCategory, item.ServiceSubCategory = Classify(item.ServiceID)
		out[i] = item
	}
	return out
}

// DominantWashType retourne le type de lavage le plus fréquent. Deux types à
// égalité donnent "both" ; aucun type renseigné donne ok=false.
func DominantWashType(items []models.CartItem) (string, bool) {
	counts := make(map[string]int)
	var seen []string
	for _, item := range items {
		if item.WashType == "" {
			continue
		}
		if counts[item.WashType] == 0 {
			seen = append(seen, item.WashType)
		}
		counts[item.WashType]++
	}

	if len(seen) == 0 {
		return "", false
	}
	if len(seen) == 2 && counts[seen[0]] == counts[seen[1]] {
		return models.WashBoth, true
	}

	best := seen[0]
	for _, w := range seen[1:] {
		if counts[w] > counts[best] {
			best = w
		}
	}
	return best, true
}

type Group struct {
	Category string            `json:"category"`
	Items    []models.CartItem `json:"items"`
}

// Grouped regroupe les lignes par catégorie, dans l'ordre de première apparition
func Grouped(items []models.CartItem) []Group {
	var groups []Group
	index := make(map[string]int)
	for _, item := range Categorize(items) {
		i, ok := index[item.ServiceCategory]
		if !ok {
			i = len(groups)
			index[item.ServiceCategory] = i
			groups = append(groups, Group{Category: item.ServiceCategory})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	return groups
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
