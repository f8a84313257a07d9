package order

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

// Rate enregistre (ou remplace) la note d'une commande existante
func (s *Store) Rate(ctx context.Context, owner, id string, rating int, feedback string) (models.Rating, error) {
	if rating < 1 || rating > 5 {
		return models.Rating{}, fmt.Errorf("%w: la note doit être comprise entre 1 et 5", ErrValidation)
	}
	if _, err := s.GetByID(ctx, owner, id); err != nil {
		return models.Rating{}, err
	}

	ratings, err := s.Ratings(ctx, owner)
	if err != nil {
		return models.Rating{}, err
	}
	r := models.Rating{Rating: rating, Feedback: strings.TrimSpace(feedback), Date: s.now()}
	ratings[id] = r

	if err := storage.SaveJSON(ctx, s.kv, storage.Key(owner, storage.KeyRatedOrders), ratings, storage.Durable); err != nil {
		return models.Rating{}, err
	}
	log.WithField("owner", owner).Printf("⭐ Commande %s notée %d/5", id, rating)
	return r, nil
}

func (s *Store) IsRated(ctx context.Context, owner, id string) (bool, error) {
	ratings, err := s.Ratings(ctx, owner)
	if err != nil {
		return false, err
	}
	_, ok := ratings[id]
	return ok, nil
}

// Ratings retourne toutes les notes, indexées par ID de commande
func (s *Store) Ratings(ctx context.Context, owner string) (map[string]models.Rating, error) {
	ratings, err := storage.LoadJSON(ctx, s.kv, storage.Key(owner, storage.KeyRatedOrders), map[string]models.Rating{})
	if errors.Is(err, storage.ErrMalformed) {
		log.WithField("owner", owner).Warnf("⚠️ Notes illisibles, remises à zéro: %v", err)
		metrics.MalformedState.WithLabelValues(storage.KeyRatedOrders).Inc()
		return map[string]models.Rating{}, nil
	}
	if err != nil {
		return nil, err
	}
	if ratings == nil {
		ratings = map[string]models.Rating{}
	}
	return ratings, nil
}
