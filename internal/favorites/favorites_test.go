package favorites

import (
	"context"
	"testing"

	"sack_back_end/internal/models"
	"sack_back_end/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleStudio(t *testing.T) {
	s := NewStore(storage.NewMemoryStore())
	ctx := context.Background()

	added, err := s.ToggleStudio(ctx, "u1", models.StudioSummary{ID: "s1", Name: "Sparkle"})
	require.NoError(t, err)
	assert.True(t, added)
	_, err = s.ToggleStudio(ctx, "u1", models.StudioSummary{ID: "s2", Name: "Fresh Folds"})
	require.NoError(t, err)

	studios, err := s.Studios(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, studios, 2)

	added, err = s.ToggleStudio(ctx, "u1", models.StudioSummary{ID: "s1"})
	require.NoError(t, err)
	assert.False(t, added)

	studios, err = s.Studios(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, studios, 1)
	assert.Equal(t, "s2", studios[0].ID)

	_, err = s.ToggleStudio(ctx, "u1", models.StudioSummary{})
	require.ErrorIs(t, err, ErrValidation)
}

func TestToggleService_OwnersAreIsolated(t *testing.T) {
	s := NewStore(storage.NewMemoryStore())
	ctx := context.Background()

	_, err := s.ToggleService(ctx, "u1", models.ServiceSummary{ID: "wash-fold-1", Price: 60})
	require.NoError(t, err)

	mine, err := s.Services(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := s.Services(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestServices_CorruptValueYieldsEmpty(t *testing.T) {
	kv := storage.NewMemoryStore()
	s := NewStore(kv)
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, storage.Key("u1", storage.KeyFavoriteServices), `{"not":"a list"}`, storage.Durable))

	services, err := s.Services(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, services)
}

func TestPreferredPayment(t *testing.T) {
	s := NewStore(storage.NewMemoryStore())
	ctx := context.Background()

	method, err := s.PreferredPayment(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, method)

	require.ErrorIs(t, s.SetPreferredPayment(ctx, "u1", "bitcoin"), ErrValidation)
	require.NoError(t, s.SetPreferredPayment(ctx, "u1", " UPI "))

	method, err = s.PreferredPayment(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "upi", method)
}
