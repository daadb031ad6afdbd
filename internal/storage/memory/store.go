// Package memory реализует storage.Store в памяти. Используется в тестах:
// контракт тот же, что у postgres, но вместо блокировки строки транзакция
// покупки удерживает общий мьютекс хранилища от Begin до Commit/Rollback,
// что сериализует конкурирующие покупки точно так же.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rajivgeraev/realty-api/internal/models"
	"github.com/rajivgeraev/realty-api/internal/storage"
)

// pairKey — составной ключ уникальных ограничений (объект+покупатель, пользователь+объект)
type pairKey struct {
	a uuid.UUID
	b uuid.UUID
}

// Store реализует storage.Store в памяти
type Store struct {
	mu sync.Mutex

	users        map[uuid.UUID]*models.User
	usersByEmail map[string]uuid.UUID
	properties   map[uuid.UUID]*models.Property
	purchases    map[uuid.UUID]*models.Purchase
	purchaseKeys map[pairKey]uuid.UUID // (property_id, buyer_id) -> purchase_id
	favorites    map[pairKey]*models.Favorite
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		users:        make(map[uuid.UUID]*models.User),
		usersByEmail: make(map[string]uuid.UUID),
		properties:   make(map[uuid.UUID]*models.Property),
		purchases:    make(map[uuid.UUID]*models.Purchase),
		purchaseKeys: make(map[pairKey]uuid.UUID),
		favorites:    make(map[pairKey]*models.Favorite),
	}
}

func cloneProperty(p *models.Property) *models.Property {
	cp := *p
	cp.Owner = nil
	return &cp
}

func clonePurchase(p *models.Purchase) *models.Purchase {
	cp := *p
	cp.Property = nil
	return &cp
}

// --- PropertyStore ---

// CreateProperty сохраняет новый объект недвижимости
func (s *Store) CreateProperty(ctx context.Context, p *models.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	p.UpdatedAt = p.CreatedAt
	s.properties[p.ID] = cloneProperty(p)
	return nil
}

// GetProperty возвращает объект по ID
func (s *Store) GetProperty(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.properties[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := cloneProperty(p)
	if owner, ok := s.users[p.OwnerID]; ok {
		ownerCopy := *owner
		cp.Owner = &ownerCopy
	}
	return cp, nil
}

func matchesFilter(p *models.Property, f storage.PropertyFilter) bool {
	if p.IsSold {
		return false
	}
	if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	if f.PropertyType != "" && p.PropertyType != f.PropertyType {
		return false
	}
	if f.Bedrooms != nil && p.Bedrooms != *f.Bedrooms {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Title), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) &&
			!strings.Contains(strings.ToLower(p.Location), needle) {
			return false
		}
	}
	return true
}

// ListProperties возвращает непроданные объекты по фильтру и общее количество
func (s *Store) ListProperties(ctx context.Context, f storage.PropertyFilter) ([]models.Property, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []models.Property
	for _, p := range s.properties {
		if matchesFilter(p, f) {
			matched = append(matched, *cloneProperty(p))
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID.String() < matched[j].ID.String()
	})

	total := len(matched)
	if f.Offset > 0 {
		if f.Offset >= len(matched) {
			matched = nil
		} else {
			matched = matched[f.Offset:]
		}
	}
	if f.Limit > 0 && len(matched) > f.Limit {
		matched = matched[:f.Limit]
	}

	return matched, total, nil
}

// ListPropertiesByOwner возвращает все объекты владельца
func (s *Store) ListPropertiesByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []models.Property
	for _, p := range s.properties {
		if p.OwnerID == ownerID {
			result = append(result, *cloneProperty(p))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// UpdateProperty обновляет описательные поля объекта
func (s *Store) UpdateProperty(ctx context.Context, p *models.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.properties[p.ID]
	if !ok {
		return storage.ErrNotFound
	}

	existing.Title = p.Title
	existing.Description = p.Description
	existing.Price = p.Price
	existing.Location = p.Location
	existing.PropertyType = p.PropertyType
	existing.Bedrooms = p.Bedrooms
	existing.Bathrooms = p.Bathrooms
	existing.Area = p.Area
	existing.ImageURL = p.ImageURL
	existing.IsFeatured = p.IsFeatured
	existing.UpdatedAt = time.Now()
	return nil
}

// DeleteProperty удаляет объект
func (s *Store) DeleteProperty(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.properties[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.properties, id)
	return nil
}

// --- PurchaseStore ---

// purchaseTx удерживает мьютекс хранилища от Begin до Commit/Rollback;
// изменения накапливаются и применяются атомарно на Commit.
type purchaseTx struct {
	s        *Store
	staged   []func()
	finished bool
}

// BeginPurchase открывает транзакцию покупки, захватывая мьютекс хранилища
func (s *Store) BeginPurchase(ctx context.Context) (storage.PurchaseTx, error) {
	s.mu.Lock()
	return &purchaseTx{s: s}, nil
}

func (t *purchaseTx) PropertyForUpdate(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	p, ok := t.s.properties[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return cloneProperty(p), nil
}

func (t *purchaseTx) PurchaseByPropertyAndBuyer(ctx context.Context, propertyID, buyerID uuid.UUID) (*models.Purchase, error) {
	id, ok := t.s.purchaseKeys[pairKey{propertyID, buyerID}]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return clonePurchase(t.s.purchases[id]), nil
}

func (t *purchaseTx) InsertPurchase(ctx context.Context, p *models.Purchase) error {
	key := pairKey{p.PropertyID, p.BuyerID}
	if _, ok := t.s.purchaseKeys[key]; ok {
		return storage.ErrDuplicate
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	stored := clonePurchase(p)
	t.staged = append(t.staged, func() {
		t.s.purchases[stored.ID] = stored
		t.s.purchaseKeys[key] = stored.ID
	})
	return nil
}

func (t *purchaseTx) MarkPropertySold(ctx context.Context, propertyID uuid.UUID) error {
	p, ok := t.s.properties[propertyID]
	if !ok {
		return storage.ErrNotFound
	}
	t.staged = append(t.staged, func() {
		p.IsSold = true
		p.UpdatedAt = time.Now()
	})
	return nil
}

func (t *purchaseTx) Commit(ctx context.Context) error {
	if t.finished {
		return nil
	}
	for _, apply := range t.staged {
		apply()
	}
	t.finished = true
	t.s.mu.Unlock()
	return nil
}

func (t *purchaseTx) Rollback(ctx context.Context) error {
	if t.finished {
		return nil
	}
	t.staged = nil
	t.finished = true
	t.s.mu.Unlock()
	return nil
}

// PurchaseByPropertyAndBuyer ищет покупку вне транзакции
func (s *Store) PurchaseByPropertyAndBuyer(ctx context.Context, propertyID, buyerID uuid.UUID) (*models.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.purchaseKeys[pairKey{propertyID, buyerID}]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return clonePurchase(s.purchases[id]), nil
}

// ListPurchasesByBuyer возвращает покупки пользователя со сводкой по объектам
func (s *Store) ListPurchasesByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []models.Purchase
	for _, p := range s.purchases {
		if p.BuyerID != buyerID {
			continue
		}
		cp := clonePurchase(p)
		if prop, ok := s.properties[p.PropertyID]; ok {
			cp.Property = cloneProperty(prop)
		}
		result = append(result, *cp)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// --- FavoriteStore ---

// PropertyExists проверяет существование объекта
func (s *Store) PropertyExists(ctx context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.properties[id]
	return ok, nil
}

// InsertFavorite добавляет запись в избранное; false — пара уже существует
func (s *Store) InsertFavorite(ctx context.Context, f *models.Favorite) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey{f.UserID, f.PropertyID}
	if _, ok := s.favorites[key]; ok {
		return false, nil
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now()
	}
	stored := *f
	stored.Property = nil
	s.favorites[key] = &stored
	return true, nil
}

// DeleteFavorite удаляет запись из избранного; false — записи не было
func (s *Store) DeleteFavorite(ctx context.Context, userID, propertyID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey{userID, propertyID}
	if _, ok := s.favorites[key]; !ok {
		return false, nil
	}
	delete(s.favorites, key)
	return true, nil
}

// ListFavoritesByUser возвращает избранное пользователя со сводкой по объектам
func (s *Store) ListFavoritesByUser(ctx context.Context, userID uuid.UUID) ([]models.Favorite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []models.Favorite
	for _, f := range s.favorites {
		if f.UserID != userID {
			continue
		}
		cf := *f
		if prop, ok := s.properties[f.PropertyID]; ok {
			cf.Property = cloneProperty(prop)
		}
		result = append(result, cf)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// --- UserStore ---

// CreateUser сохраняет нового пользователя
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.usersByEmail[u.Email]; ok {
		return storage.ErrEmailTaken
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	stored := *u
	s.users[u.ID] = &stored
	s.usersByEmail[u.Email] = u.ID
	return nil
}

// UserByEmail возвращает пользователя по email
func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.usersByEmail[email]
	if !ok {
		return nil, storage.ErrNotFound
	}
	u := *s.users[id]
	return &u, nil
}

// UserByID возвращает пользователя по ID
func (s *Store) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

var _ storage.Store = (*Store)(nil)
