package purchase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rajivgeraev/realty-api/internal/models"
	"github.com/rajivgeraev/realty-api/internal/storage"
)

// Coordinator выполняет транзакцию покупки. Вся последовательность
// проверка-затем-запись идет в одной транзакции хранилища под блокировкой
// строки объекта, поэтому для любого объекта не более одного вызова
// RequestPurchase проходит проверку is_sold одновременно — двойная продажа
// исключена, а запись покупки и флаг is_sold становятся видимыми атомарно.
type Coordinator struct {
	store storage.PurchaseStore
}

// NewCoordinator создает новый экземпляр Coordinator
func NewCoordinator(store storage.PurchaseStore) *Coordinator {
	return &Coordinator{store: store}
}

// RequestPurchase проверяет предусловия и проводит покупку объекта.
// Порядок проверок фиксирован, каждая завершает запрос:
//  1. объект существует — иначе ErrPropertyNotFound;
//  2. покупатель не владелец — иначе ErrSelfPurchase (независимо от того,
//     продан объект или нет);
//  3. объект не продан — иначе ErrAlreadySold;
//  4. пара (объект, покупатель) еще не покупала — иначе DuplicateRequestError.
//
// При успехе создается запись со статусом completed и ценой объекта на момент
// покупки, а объект помечается проданным — оба изменения фиксируются одним
// коммитом.
func (co *Coordinator) RequestPurchase(ctx context.Context, propertyID, buyerID uuid.UUID, notes string) (*models.Purchase, error) {
	tx, err := co.store.BeginPurchase(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка при начале транзакции покупки: %w", err)
	}
	defer tx.Rollback(ctx)

	property, err := tx.PropertyForUpdate(ctx, propertyID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}

	if property.OwnerID == buyerID {
		return nil, ErrSelfPurchase
	}

	if property.IsSold {
		return nil, ErrAlreadySold
	}

	existing, err := tx.PurchaseByPropertyAndBuyer(ctx, propertyID, buyerID)
	if err == nil {
		return nil, &DuplicateRequestError{PurchaseID: existing.ID, Status: existing.Status}
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	p := &models.Purchase{
		ID:            uuid.New(),
		PropertyID:    propertyID,
		BuyerID:       buyerID,
		PurchasePrice: property.Price,
		Status:        models.PurchaseStatusCompleted,
		Notes:         notes,
		CreatedAt:     time.Now(),
	}

	if err := tx.InsertPurchase(ctx, p); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			// Уникальный индекс (property_id, buyer_id) сработал: запись
			// появилась вне нашей блокировки. Перечитываем и возвращаем её.
			tx.Rollback(ctx)
			existing, lookupErr := co.store.PurchaseByPropertyAndBuyer(ctx, propertyID, buyerID)
			if lookupErr != nil {
				return nil, lookupErr
			}
			return nil, &DuplicateRequestError{PurchaseID: existing.ID, Status: existing.Status}
		}
		return nil, err
	}

	if err := tx.MarkPropertySold(ctx, propertyID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("ошибка при фиксации транзакции покупки: %w", err)
	}

	return p, nil
}

// ListByBuyer возвращает покупки пользователя
func (co *Coordinator) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Purchase, error) {
	return co.store.ListPurchasesByBuyer(ctx, buyerID)
}
