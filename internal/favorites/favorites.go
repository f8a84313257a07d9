package favorites

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sack_back_end/internal/metrics"
	"sack_back_end/internal/models"
	"sack_back_end/internal/storage"

	log "github.com/sirupsen/logrus"
)

var ErrValidation = errors.New("saisie invalide")

// PaymentMethods : moyens de paiement acceptés comme préférence
var PaymentMethods = map[string]bool{
	"upi":  true,
	"card": true,
	"cash": true,
}

// Store gère les favoris (studios, services) et le moyen de paiement préféré
type Store struct {
	kv storage.Store
}

func NewStore(kv storage.Store) *Store {
	return &Store{kv: kv}
}

// ToggleStudio ajoute le studio s'il est absent, le retire sinon.
// Retourne true si le studio est désormais en favori.
func (s *Store) ToggleStudio(ctx context.Context, owner string, studio models.StudioSummary) (bool, error) {
	if strings.TrimSpace(studio.ID) == "" {
		return false, fmt.Errorf("%w: id du studio requis", ErrValidation)
	}
	list, err := s.Studios(ctx, owner)
	if err != nil {
		return false, err
	}
	next, added := toggle(list, studio, func(st models.StudioSummary) string { return st.ID })
	if err := storage.SaveJSON(ctx, s.kv, storage.Key(owner, storage.KeyFavoriteStudios), next, storage.Durable); err != nil {
		return false, err
	}
	return added, nil
}

func (s *Store) Studios(ctx context.Context, owner string) ([]models.StudioSummary, error) {
	return load[models.StudioSummary](ctx, s.kv, owner, storage.KeyFavoriteStudios)
}

func (s *Store) ToggleService(ctx context.Context, owner string, service models.ServiceSummary) (bool, error) {
	if strings.TrimSpace(service.ID) == "" {
		return false, fmt.Errorf("%w: id du service requis", ErrValidation)
	}
	list, err := s.Services(ctx, owner)
	if err != nil {
		return false, err
	}
	next, added := toggle(list, service, func(sv models.ServiceSummary) string { return sv.ID })
	if err := storage.SaveJSON(ctx, s.kv, storage.Key(owner, storage.KeyFavoriteServices), next, storage.Durable); err != nil {
		return false, err
	}
	return added, nil
}

func (s *Store) Services(ctx context.Context, owner string) ([]models.ServiceSummary, error) {
	return load[models.ServiceSummary](ctx, s.kv, owner, storage.KeyFavoriteServices)
}

func (s *Store) SetPreferredPayment(ctx context.Context, owner, method string) error {
	method = strings.ToLower(strings.TrimSpace(method))
	if !PaymentMethods[method] {
		return fmt.Errorf("%w: moyen de paiement inconnu %q", ErrValidation, method)
	}
	return storage.SaveJSON(ctx, s.kv, storage.Key(owner, storage.KeyPreferredPayment), method, storage.Durable)
}

// PreferredPayment retourne "" si aucune préférence n'est enregistrée
func (s *Store) PreferredPayment(ctx context.Context, owner string) (string, error) {
	method, err := storage.LoadJSON(ctx, s.kv, storage.Key(owner, storage.KeyPreferredPayment), "")
	if errors.Is(err, storage.ErrMalformed) {
		metrics.MalformedState.WithLabelValues(storage.KeyPreferredPayment).Inc()
		return "", nil
	}
	return method, err
}

func load[T any](ctx context.Context, kv storage.Store, owner, key string) ([]T, error) {
	list, err := storage.LoadJSON(ctx, kv, storage.Key(owner, key), []T{})
	if errors.Is(err, storage.ErrMalformed) {
		log.WithField("owner", owner).Warnf("⚠️ Favoris illisibles (%s), remis à zéro: %v", key, err)
		metrics.MalformedState.WithLabelValues(key).Inc()
		return []T{}, nil
	}
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []T{}
	}
	return list, nil
}

func toggle[T any](list []T, v T, id func(T) string) ([]T, bool) {
	out := make([]T, 0, len(list)+1)
	removed := false
	for _, existing := range list {
		if id(existing) == id(v) {
			removed = true
			continue
		}
		out = append(out, existing)
	}
	if removed {
		return out, false
	}
	return append(out, v), true
}
