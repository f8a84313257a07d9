package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sack_back_end/internal/metrics"
	"sack_back_end/internal/models"
	"sack_back_end/internal/notify"
	"sack_back_end/internal/storage"

	log "github.com/sirupsen/logrus"
)

// Changed est émis après chaque écriture de l'historique d'un propriétaire
type Changed struct {
	Owner   string
	OrderID string
	Status  models.OrderStatus
	Deleted bool
}

const UpdatedPayload = "ordersUpdated"

func Channel(owner string) string {
	return "orders:" + owner
}

// Store gère l'historique des commandes (portée session) et les notes (durables)
type Store struct {
	kv      storage.Store
	changes *notify.Hub[Changed]
	now     func() time.Time
}

func NewStore(kv storage.Store, changes *notify.Hub[Changed]) *Store {
	if changes == nil {
		changes = notify.NewHub[Changed]("orders")
	}
	return &Store{
		kv:      kv,
		changes: changes,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Changes() *notify.Hub[Changed] {
	return s.changes
}

// FetchAll retourne l'historique. À la toute première lecture d'une session,
// l'historique est amorcé avec une commande d'exemple.
func (s *Store) FetchAll(ctx context.Context, owner string) ([]models.Order, error) {
	orders, err := s.load(ctx, owner)
	if err != nil {
		return nil, err
	}
	if orders != nil {
		return orders, nil
	}

	orders = []models.Order{sampleOrder(owner, s.now())}
	if err := s.save(ctx, owner, orders); err != nil {
		return nil, err
	}
	log.WithField("owner", owner).Println("🧺 Historique amorcé avec une commande d'exemple")
	return orders, nil
}

func (s *Store) GetByID(ctx context.Context, owner, id string) (models.Order, error) {
	orders, err := s.FetchAll(ctx, owner)
	if err != nil {
		return models.Order{}, err
	}
	for _, o := range orders {
		if o.ID == id {
			return o, nil
		}
	}
	return models.Order{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Append ajoute une commande à l'historique (sans amorçage)
func (s *Store) Append(ctx context.Context, owner string, o models.Order) error {
	orders, err := s.load(ctx, owner)
	if err != nil {
		return err
	}
	orders = append(orders, o)
	if err := s.save(ctx, owner, orders); err != nil {
		return err
	}
	s.changes.Publish(Changed{Owner: owner, OrderID: o.ID, Status: o.Status})
	return nil
}

func (s *Store) Cancel(ctx context.Context, owner, id string) (models.Order, error) {
	return s.update(ctx, owner, id, func(o *models.Order) error {
		return transition(o, models.OrderCancelled)
	})
}

// RecordPayment passe la commande en traitement (pas encore terminée) et la marque payée
func (s *Store) RecordPayment(ctx context.Context, owner, id, method string) (models.Order, error) {
	method = strings.TrimSpace(method)
	if method == "" {
		return models.Order{}, fmt.Errorf("%w: moyen de paiement requis", ErrValidation)
	}
	return s.update(ctx, owner, id, func(o *models.Order) error {
		if err := transition(o, models.OrderProcessing); err != nil {
			return err
		}
		o.PaymentStatus = models.PaymentPaid
		o.PaymentMethod = method
		return nil
	})
}

// Advance fait progresser une commande côté studio (ready, completed...)
func (s *Store) Advance(ctx context.Context, owner, id string, to models.OrderStatus) (models.Order, error) {
	return s.update(ctx, owner, id, func(o *models.Order) error {
		return transition(o, to)
	})
}

func (s *Store) Delete(ctx context.Context, owner, id string) error {
	orders, err := s.FetchAll(ctx, owner)
	if err != nil {
		return err
	}
	next := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if o.ID != id {
			next = append(next, o)
		}
	}
	if len(next) == len(orders) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := s.save(ctx, owner, next); err != nil {
		return err
	}
	s.changes.Publish(Changed{Owner: owner, OrderID: id, Deleted: true})
	return nil
}

func (s *Store) update(ctx context.Context, owner, id string, fn func(*models.Order) error) (models.Order, error) {
	orders, err := s.FetchAll(ctx, owner)
	if err != nil {
		return models.Order{}, err
	}

	idx := -1
	for i := range orders {
		if orders[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.Order{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if err := fn(&orders[idx]); err != nil {
		return models.Order{}, err
	}
	orders[idx].UpdatedAt = s.now()

	if err := s.save(ctx, owner, orders); err != nil {
		return models.Order{}, err
	}
	s.changes.Publish(Changed{Owner: owner, OrderID: id, Status: orders[idx].Status})
	return orders[idx], nil
}

func transition(o *models.Order, to models.OrderStatus) error {
	if !CanTransition(o.Status, to) {
		metrics.OrderTransitions.WithLabelValues(string(to), "rejected").Inc()
		return &TransitionError{OrderID: o.ID, From: o.Status, To: to}
	}
	metrics.OrderTransitions.WithLabelValues(string(to), "applied").Inc()
	o.Status = to
	return nil
}

// load retourne nil si l'historique n'a jamais été initialisé
func (s *Store) load(ctx context.Context, owner string) ([]models.Order, error) {
	orders, err := storage.LoadJSON[[]models.Order](ctx, s.kv, storage.Key(owner, storage.KeyOrders), nil)
	if errors.Is(err, storage.ErrMalformed) {
		log.WithField("owner", owner).Warnf("⚠️ Historique illisible, remis à zéro: %v", err)
		metrics.MalformedState.WithLabelValues(storage.KeyOrders).Inc()
		return []models.Order{}, nil
	}
	return orders, err
}

func (s *Store) save(ctx context.Context, owner string, orders []models.Order) error {
	return storage.SaveJSON(ctx, s.kv, storage.Key(owner, storage.KeyOrders), orders, storage.Session)
}

func sampleOrder(owner string, now time.Time) models.Order {
	placed := now.Add(-72 * time.Hour)
	return models.Order{
		ID:         "sample-order-1",
		StudioID:   "studio-sparkle",
		StudioName: "Sparkle Laundry Studio",
		UserID:     owner,
		Services: []models.OrderService{
			{ID: "wash-fold-kg", Name: "Wash & Fold", Price: 80, Quantity: 3, Description: "Core Laundry - Wash & Fold", WashType: "Regular"},
			{ID: "dry-clean-shirt", Name: "Shirt Dry Clean", Price: 120, Quantity: 2, Description: "Dry Cleaning - Upper Wear", WashType: "Regular", Items: "Shirt x2"},
		},
		Subtotal:      480,
		DeliveryFee:   49,
		Tax:           24,
		TotalAmount:   553,
		Status:        models.OrderCompleted,
		Address:       "12 MG Road, Bengaluru",
		CreatedAt:     placed,
		UpdatedAt:     placed.Add(48 * time.Hour),
		PaymentMethod: "upi",
		PaymentStatus: models.PaymentPaid,
	}
}
