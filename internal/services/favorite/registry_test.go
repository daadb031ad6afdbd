package favorite

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/realty-api/internal/models"
	"github.com/rajivgeraev/realty-api/internal/storage/memory"
)

func seedProperty(t *testing.T, store *memory.Store) *models.Property {
	t.Helper()
	p := &models.Property{
		ID:           uuid.New(),
		OwnerID:      uuid.New(),
		Title:        "Квартира в центре",
		Location:     "Москва",
		PropertyType: models.PropertyTypeApartment,
		Price:        decimal.RequireFromString("150000.00"),
	}
	require.NoError(t, store.CreateProperty(context.Background(), p))
	return p
}

func TestAddAndRemove(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	reg := NewRegistry(store)

	user := uuid.New()
	prop := seedProperty(t, store)

	created, err := reg.Add(ctx, user, prop.ID)
	require.NoError(t, err)
	assert.True(t, created)

	favs, err := reg.ListByUser(ctx, user)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, prop.ID, favs[0].PropertyID)
	require.NotNil(t, favs[0].Property)
	assert.Equal(t, prop.Title, favs[0].Property.Title)

	require.NoError(t, reg.Remove(ctx, user, prop.ID))

	favs, err = reg.ListByUser(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, favs)
}

// Повторный Add — успех с created=false, без второй записи
func TestAddIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	reg := NewRegistry(store)

	user := uuid.New()
	prop := seedProperty(t, store)

	created, err := reg.Add(ctx, user, prop.ID)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = reg.Add(ctx, user, prop.ID)
	require.NoError(t, err)
	assert.False(t, created)

	favs, err := reg.ListByUser(ctx, user)
	require.NoError(t, err)
	assert.Len(t, favs, 1)
}

func TestRemoveNotFavorited(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	reg := NewRegistry(store)

	user := uuid.New()
	prop := seedProperty(t, store)

	err := reg.Remove(ctx, user, prop.ID)
	assert.ErrorIs(t, err, ErrNotFavorited)

	// Повторный Remove после удаления ведет себя так же
	created, err := reg.Add(ctx, user, prop.ID)
	require.NoError(t, err)
	assert.True(t, created)
	require.NoError(t, reg.Remove(ctx, user, prop.ID))
	assert.ErrorIs(t, reg.Remove(ctx, user, prop.ID), ErrNotFavorited)
}

func TestAddPropertyNotFound(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	reg := NewRegistry(store)

	_, err := reg.Add(ctx, uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrPropertyNotFound)
}

// Гонку одинаковых Add разрешает уникальное ограничение: ровно один
// created=true, запись одна
func TestConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	reg := NewRegistry(store)

	user := uuid.New()
	prop := seedProperty(t, store)

	const attempts = 8
	results := make([]bool, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			created, err := reg.Add(ctx, user, prop.ID)
			assert.NoError(t, err)
			results[i] = created
		}(i)
	}
	wg.Wait()

	var createdCount int
	for _, created := range results {
		if created {
			createdCount++
		}
	}
	assert.Equal(t, 1, createdCount)

	favs, err := reg.ListByUser(ctx, user)
	require.NoError(t, err)
	assert.Len(t, favs, 1)
}

// Избранное разных пользователей на один объект не пересекается
func TestFavoritesPerUser(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	reg := NewRegistry(store)

	alice := uuid.New()
	bob := uuid.New()
	prop := seedProperty(t, store)

	created, err := reg.Add(ctx, alice, prop.ID)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = reg.Add(ctx, bob, prop.ID)
	require.NoError(t, err)
	assert.True(t, created, "запись Боба не должна конфликтовать с записью Алисы")

	require.NoError(t, reg.Remove(ctx, alice, prop.ID))

	favs, err := reg.ListByUser(ctx, bob)
	require.NoError(t, err)
	assert.Len(t, favs, 1)
}
