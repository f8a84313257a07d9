package coupon

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

var (
	ErrCodeRequired  = errors.New("code coupon requis")
	ErrUnknownCode   = errors.New("code coupon invalide")
	ErrMinimumNotMet = errors.New("montant minimum non atteint")
)

// Catalog indexe les coupons par code en majuscules
type Catalog map[string]models.Coupon

func DefaultCatalog() Catalog {
	return NewCatalog(
		models.Coupon{Code: "FRESH15", Percentage: 15, Description: "15% sur votre sac"},
		models.Coupon{Code: "WASH10", Percentage: 10, MinAmount: 199, Description: "10% dès 199"},
		models.Coupon{Code: "EXPRESS20", Percentage: 20, MinAmount: 499, Description: "20% dès 499"},
	)
}

func NewCatalog(coupons ...models.Coupon) Catalog {
	c := make(Catalog, len(coupons))
	for _, cp := range coupons {
		cp.Code = normalize(cp.Code)
		c[cp.Code] = cp
	}
	return c
}

func (c Catalog) Lookup(code string) (models.Coupon, bool) {
	cp, ok := c[normalize(code)]
	return cp, ok
}

type Service struct {
	kv      storage.Store
	catalog Catalog
}

func NewService(kv storage.Store, catalog Catalog) *Service {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Service{kv: kv, catalog: catalog}
}

// Validate vérifie un code pour un sous-total donné, sans rien écrire
func (s *Service) Validate(code string, subtotal float64) (models.AppliedCoupon, error) {
	if normalize(code) == "" {
		return models.AppliedCoupon{}, ErrCodeRequired
	}
	cp, ok := s.catalog.Lookup(code)
	if !ok {
		return models.AppliedCoupon{}, ErrUnknownCode
	}
	if subtotal < cp.MinAmount {
		return models.AppliedCoupon{}, fmt.Errorf("%w: %.2f requis", ErrMinimumNotMet, cp.MinAmount)
	}
	return models.AppliedCoupon{Code: cp.Code, Percentage: cp.Percentage, Applied: true}, nil
}

// Apply valide le code puis le mémorise pour la session
func (s *Service) Apply(ctx context.Context, owner, code string, subtotal float64) (models.AppliedCoupon, error) {
	applied, err := s.Validate(code, subtotal)
	if err != nil {
		return models.AppliedCoupon{}, err
	}
	if err := storage.SaveJSON(ctx, s.kv, storage.Key(owner, storage.KeyAppliedCoupon), applied, storage.Session); err != nil {
		return models.AppliedCoupon{}, err
	}
	log.WithField("owner", owner).Printf("🎟️ Coupon %s appliqué (%.0f%%)", applied.Code, applied.Percentage)
	return applied, nil
}

// Current retourne le coupon appliqué, nil s'il n'y en a pas
func (s *Service) Current(ctx context.Context, owner string) (*models.AppliedCoupon, error) {
	key := storage.Key(owner, storage.KeyAppliedCoupon)
	applied, err := storage.LoadJSON(ctx, s.kv, key, models.AppliedCoupon{})
	if errors.Is(err, storage.ErrMalformed) {
		log.WithField("owner", owner).Warnf("⚠️ Coupon illisible, ignoré: %v", err)
		metrics.MalformedState.WithLabelValues(storage.KeyAppliedCoupon).Inc()
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !applied.Applied {
		return nil, nil
	}
	return &applied, nil
}

// Effective revalide le coupon mémorisé contre le sous-total courant.
// Si le sac est passé sous le minimum, la remise ne s'applique plus (nil)
// mais le coupon reste mémorisé et redevient actif si le sac remonte.
func (s *Service) Effective(ctx context.Context, owner string, subtotal float64) (*models.AppliedCoupon, error) {
	applied, err := s.Current(ctx, owner)
	if err != nil || applied == nil {
		return nil, err
	}
	valid, err := s.Validate(applied.Code, subtotal)
	if err != nil {
		log.WithField("owner", owner).Infof("🎟️ Coupon %s non applicable: %v", applied.Code, err)
		return nil, nil
	}
	return &valid, nil
}

func (s *Service) Remove(ctx context.Context, owner string) error {
	return s.kv.Delete(ctx, storage.Key(owner, storage.KeyAppliedCoupon))
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
