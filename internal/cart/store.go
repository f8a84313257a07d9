package cart

import (
	"context"
	"errors"
	"fmt"
	"math"

	"sack_back_end/internal/metrics"
	"sack_back_end/internal/models"
	"sack_back_end/internal/notify"
	"sack_back_end/internal/storage"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
)

const (
	// MinWeight : granularité minimale d'un service au kilo
	MinWeight = 0.1
	// MinQuantity : en dessous, la ligne est retirée
	MinQuantity = 1
)

// ErrValidation : saisie refusée avant toute écriture
var ErrValidation = errors.New("saisie invalide")

// Changed est émis après chaque écriture du sac d'un propriétaire
type Changed struct {
	Owner string
}

// UpdatedPayload est le message publié sur Channel(owner) à chaque écriture
const UpdatedPayload = "cartUpdated"

// Channel : canal Redis de synchronisation du sac d'un propriétaire
func Channel(owner string) string {
	return "cart:" + owner
}

type Store struct {
	kv       storage.Store
	changes  *notify.Hub[Changed]
	validate *validator.Validate
}

func NewStore(kv storage.Store, changes *notify.Hub[Changed]) *Store {
	if changes == nil {
		changes = notify.NewHub[Changed]("cart")
	}
	return &Store{
		kv:       kv,
		changes:  changes,
		validate: validator.New(),
	}
}

func (s *Store) Changes() *notify.Hub[Changed] {
	return s.changes
}

// Load retourne le sac catégorisé, filtré sur un studio si studioID n'est pas vide.
// Un état persisté illisible est traité comme un sac vide.
func (s *Store) Load(ctx context.Context, owner, studioID string) ([]models.CartItem, error) {
	items, err := s.read(ctx, owner)
	if err != nil {
		return nil, err
	}
	if studioID != "" {
		filtered := make([]models.CartItem, 0, len(items))
		for _, item := range items {
			if item.StudioID == studioID {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}
	return Categorize(items), nil
}

// Add ajoute une ligne. Même serviceId et même studio : les quantités (ou poids)
// s'additionnent et les champs descriptifs sont remplacés par la nouvelle ligne.
func (s *Store) Add(ctx context.Context, owner string, item models.CartItem) ([]models.CartItem, error) {
	if err := s.check(item); err != nil {
		return nil, err
	}
	items, err := s.read(ctx, owner)
	if err != nil {
		return nil, err
	}

	merged := false
	for i := range items {
		if !sameLine(items[i], item.StudioID, item.ServiceID) {
			continue
		}
		next := item
		if item.IsWeightBased() {
			next.Weight = models.Float(roundWeight(items[i].Units() + item.Units()))
		} else {
			next.Quantity = models.Float(items[i].Units() + item.Units())
		}
		items[i] = next
		merged = true
		break
	}
	if !merged {
		items = append(items, item)
	}

	return s.write(ctx, owner, items, "add")
}

// UpdateQuantity change la quantité (ou le poids) de la ligne (serviceID, studioID).
// Sous le minimum (0.1 kg ou 1 pièce) la ligne est retirée au lieu d'être bornée.
// Une ligne à la pièce n'accepte que des quantités entières.
func (s *Store) UpdateQuantity(ctx context.Context, owner, studioID, serviceID string, quantity float64) ([]models.CartItem, error) {
	if math.IsNaN(quantity) || math.IsInf(quantity, 0) {
		return nil, fmt.Errorf("%w: quantité %v", ErrValidation, quantity)
	}
	items, err := s.read(ctx, owner)
	if err != nil {
		return nil, err
	}

	next := make([]models.CartItem, 0, len(items))
	for _, item := range items {
		if !sameLine(item, studioID, serviceID) {
			next = append(next, item)
			continue
		}
		if item.IsWeightBased() {
			if quantity < MinWeight {
				continue
			}
			item.Weight = models.Float(roundWeight(quantity))
		} else {
			if quantity < MinQuantity {
				continue
			}
			if quantity != math.Trunc(quantity) {
				return nil, fmt.Errorf("%w: quantité entière attendue, reçu %v", ErrValidation, quantity)
			}
			item.Quantity = models.Float(quantity)
		}
		next = append(next, item)
	}

	return s.write(ctx, owner, next, "update_quantity")
}

// Remove retire la ligne (serviceID, studioID) ; sans effet si elle n'existe pas
func (s *Store) Remove(ctx context.Context, owner, studioID, serviceID string) ([]models.CartItem, error) {
	items, err := s.read(ctx, owner)
	if err != nil {
		return nil, err
	}

	next := make([]models.CartItem, 0, len(items))
	for _, item := range items {
		if !sameLine(item, studioID, serviceID) {
			next = append(next, item)
		}
	}
	return s.write(ctx, owner, next, "remove")
}

func (s *Store) Clear(ctx context.Context, owner string) ([]models.CartItem, error) {
	return s.write(ctx, owner, []models.CartItem{}, "clear")
}

// ClearStudio retire les lignes d'un studio et garde les autres ; studioID vide vide tout
func (s *Store) ClearStudio(ctx context.Context, owner, studioID string) ([]models.CartItem, error) {
	if studioID == "" {
		return s.Clear(ctx, owner)
	}
	items, err := s.read(ctx, owner)
	if err != nil {
		return nil, err
	}

	next := make([]models.CartItem, 0, len(items))
	for _, item := range items {
		if item.StudioID != studioID {
			next = append(next, item)
		}
	}
	return s.write(ctx, owner, next, "clear_studio")
}

// sameLine : une ligne est identifiée par son service et son studio, comme dans Add
func sameLine(item models.CartItem, studioID, serviceID string) bool {
	return item.ServiceID == serviceID && item.StudioID == studioID
}

func (s *Store) read(ctx context.Context, owner string) ([]models.CartItem, error) {
	items, err := storage.LoadJSON(ctx, s.kv, storage.Key(owner, storage.KeyCartItems), []models.CartItem{})
	if errors.Is(err, storage.ErrMalformed) {
		log.WithField("owner", owner).Warnf("⚠️ Sac illisible, remis à zéro: %v", err)
		metrics.MalformedState.WithLabelValues(storage.KeyCartItems).Inc()
		return []models.CartItem{}, nil
	}
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) write(ctx context.Context, owner string, items []models.CartItem, op string) ([]models.CartItem, error) {
	persisted := make([]models.CartItem, len(items))
	for i, item := range items {
		item.ServiceCategory, item.ServiceSubCategory = "", ""
		persisted[i] = item
	}

	if err := storage.SaveJSON(ctx, s.kv, storage.Key(owner, storage.KeyCartItems), persisted, storage.Durable); err != nil {
		return nil, err
	}
	metrics.CartMutations.WithLabelValues(op).Inc()
	s.changes.Publish(Changed{Owner: owner})

	return Categorize(persisted), nil
}

func (s *Store) check(item models.CartItem) error {
	if err := s.validate.Struct(item); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if item.Weight != nil && item.Quantity != nil {
		return fmt.Errorf("%w: quantité et poids sont exclusifs", ErrValidation)
	}
	if item.IsWeightBased() && *item.Weight < MinWeight {
		return fmt.Errorf("%w: poids minimum %.1f kg", ErrValidation, MinWeight)
	}
	if item.Quantity != nil && *item.Quantity < MinQuantity {
		return fmt.Errorf("%w: quantité minimum %d", ErrValidation, MinQuantity)
	}
	if item.Quantity != nil && *item.Quantity != math.Trunc(*item.Quantity) {
		return fmt.Errorf("%w: quantité entière attendue, reçu %v", ErrValidation, *item.Quantity)
	}
	return nil
}

// roundWeight ramène un poids à la granularité de 0.1 kg
func roundWeight(w float64) float64 {
	return math.Round(w*10) / 10
}
