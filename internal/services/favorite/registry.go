package favorite

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/rajivgeraev/realty-api/internal/models"
	"github.com/rajivgeraev/realty-api/internal/storage"
)

var (
	// ErrPropertyNotFound — объект недвижимости не существует
	ErrPropertyNotFound = errors.New("объект недвижимости не найден")

	// ErrNotFavorited — объект отсутствует в избранном пользователя
	ErrNotFavorited = errors.New("объект не в избранном")
)

// Registry поддерживает инвариант «не более одной записи избранного на пару
// (пользователь, объект)». Add и Remove идемпотентны с точки зрения клиента:
// повторный Add — успех с created=false, Remove без записи — ErrNotFavorited.
type Registry struct {
	store storage.FavoriteStore
}

// NewRegistry создает новый экземпляр Registry
func NewRegistry(store storage.FavoriteStore) *Registry {
	return &Registry{store: store}
}

// Add добавляет объект в избранное. Возвращает created=false, если пара уже
// существует — в том числе когда два одинаковых Add выполняются одновременно:
// гонку разрешает уникальное ограничение хранилища, итог для обоих один.
func (r *Registry) Add(ctx context.Context, userID, propertyID uuid.UUID) (bool, error) {
	exists, err := r.store.PropertyExists(ctx, propertyID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, ErrPropertyNotFound
	}

	f := &models.Favorite{
		ID:         uuid.New(),
		UserID:     userID,
		PropertyID: propertyID,
		CreatedAt:  time.Now(),
	}
	return r.store.InsertFavorite(ctx, f)
}

// Remove удаляет объект из избранного
func (r *Registry) Remove(ctx context.Context, userID, propertyID uuid.UUID) error {
	deleted, err := r.store.DeleteFavorite(ctx, userID, propertyID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFavorited
	}
	return nil
}

// ListByUser возвращает избранное пользователя
func (r *Registry) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Favorite, error) {
	return r.store.ListFavoritesByUser(ctx, userID)
}
