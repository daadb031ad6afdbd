// Package storage определяет интерфейсы хранилищ, через которые сервисы
// работают с данными. Реализации: postgres (боевая) и memory (для тестов).
package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rajivgeraev/realty-api/internal/models"
)

var (
	// ErrNotFound возвращается, когда запрошенная запись отсутствует
	ErrNotFound = errors.New("запись не найдена")

	// ErrDuplicate возвращается при нарушении уникального ограничения
	ErrDuplicate = errors.New("запись уже существует")

	// ErrEmailTaken возвращается при регистрации на занятый email
	ErrEmailTaken = errors.New("email уже зарегистрирован")
)

// PropertyFilter описывает параметры фильтрации списка объектов
type PropertyFilter struct {
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	PropertyType string
	Bedrooms     *int
	Search       string
	Limit        int
	Offset       int
}

// PropertyStore — хранилище объектов недвижимости
type PropertyStore interface {
	CreateProperty(ctx context.Context, p *models.Property) error
	GetProperty(ctx context.Context, id uuid.UUID) (*models.Property, error)
	// ListProperties возвращает непроданные объекты по фильтру и общее количество
	ListProperties(ctx context.Context, f PropertyFilter) ([]models.Property, int, error)
	ListPropertiesByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Property, error)
	UpdateProperty(ctx context.Context, p *models.Property) error
	DeleteProperty(ctx context.Context, id uuid.UUID) error
}

// PurchaseTx — транзакция покупки. Между PropertyForUpdate и Commit строка
// объекта заблокирована: конкурирующие покупки того же объекта ждут на этой
// блокировке и перечитывают is_sold уже после фиксации первой транзакции.
// Обе записи (покупка и флаг is_sold) становятся видимыми атомарно на Commit.
type PurchaseTx interface {
	PropertyForUpdate(ctx context.Context, id uuid.UUID) (*models.Property, error)
	PurchaseByPropertyAndBuyer(ctx context.Context, propertyID, buyerID uuid.UUID) (*models.Purchase, error)
	InsertPurchase(ctx context.Context, p *models.Purchase) error
	MarkPropertySold(ctx context.Context, propertyID uuid.UUID) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// PurchaseStore — хранилище записей о покупках
type PurchaseStore interface {
	BeginPurchase(ctx context.Context) (PurchaseTx, error)
	PurchaseByPropertyAndBuyer(ctx context.Context, propertyID, buyerID uuid.UUID) (*models.Purchase, error)
	ListPurchasesByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Purchase, error)
}

// FavoriteStore — хранилище избранного
type FavoriteStore interface {
	PropertyExists(ctx context.Context, id uuid.UUID) (bool, error)
	// InsertFavorite вставляет запись; возвращает false без ошибки,
	// если пара (user_id, property_id) уже существует
	InsertFavorite(ctx context.Context, f *models.Favorite) (bool, error)
	// DeleteFavorite удаляет запись; возвращает false, если записи не было
	DeleteFavorite(ctx context.Context, userID, propertyID uuid.UUID) (bool, error)
	ListFavoritesByUser(ctx context.Context, userID uuid.UUID) ([]models.Favorite, error)
}

// UserStore — хранилище пользователей
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Store объединяет все хранилища; обе реализации удовлетворяют этому интерфейсу
type Store interface {
	PropertyStore
	PurchaseStore
	FavoriteStore
	UserStore
}
