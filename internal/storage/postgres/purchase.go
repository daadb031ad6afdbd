package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rajivgeraev/realty-api/internal/models"
	"github.com/rajivgeraev/realty-api/internal/storage"
)

// purchaseTx реализует storage.PurchaseTx поверх транзакции pgx.
// PropertyForUpdate берет блокировку строки (SELECT ... FOR UPDATE), поэтому
// конкурирующие покупки одного объекта сериализуются менеджером блокировок
// PostgreSQL, а вставка покупки и установка is_sold фиксируются одним коммитом.
type purchaseTx struct {
	tx pgx.Tx
}

// BeginPurchase открывает транзакцию покупки
func (s *Store) BeginPurchase(ctx context.Context) (storage.PurchaseTx, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка при начале транзакции: %w", err)
	}
	return &purchaseTx{tx: tx}, nil
}

// PropertyForUpdate читает объект с блокировкой строки до конца транзакции
func (t *purchaseTx) PropertyForUpdate(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	var p models.Property
	err := scanProperty(t.tx.QueryRow(ctx, `
		SELECT `+propertyColumns+` FROM properties WHERE id = $1 FOR UPDATE
	`, id), &p)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка при чтении объекта под блокировкой: %w", err)
	}
	return &p, nil
}

// PurchaseByPropertyAndBuyer ищет существующую покупку пары (объект, покупатель)
func (t *purchaseTx) PurchaseByPropertyAndBuyer(ctx context.Context, propertyID, buyerID uuid.UUID) (*models.Purchase, error) {
	return purchaseByPropertyAndBuyer(ctx, t.tx, propertyID, buyerID)
}

// InsertPurchase вставляет запись о покупке
func (t *purchaseTx) InsertPurchase(ctx context.Context, p *models.Purchase) error {
	err := t.tx.QueryRow(ctx, `
		INSERT INTO purchases (id, property_id, buyer_id, purchase_price, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, p.ID, p.PropertyID, p.BuyerID, p.PurchasePrice, p.Status, p.Notes).Scan(&p.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrDuplicate
		}
		return fmt.Errorf("ошибка при создании покупки: %w", err)
	}
	return nil
}

// MarkPropertySold помечает объект проданным
func (t *purchaseTx) MarkPropertySold(ctx context.Context, propertyID uuid.UUID) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE properties SET is_sold = true, updated_at = NOW() WHERE id = $1
	`, propertyID)
	if err != nil {
		return fmt.Errorf("ошибка при установке флага продажи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Commit фиксирует транзакцию
func (t *purchaseTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback откатывает транзакцию
func (t *purchaseTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// queryRower объединяет pgx.Tx и pgxpool.Pool для общих выборок
type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func purchaseByPropertyAndBuyer(ctx context.Context, q queryRower, propertyID, buyerID uuid.UUID) (*models.Purchase, error) {
	var p models.Purchase
	err := q.QueryRow(ctx, `
		SELECT id, property_id, buyer_id, purchase_price, status, notes, created_at
		FROM purchases
		WHERE property_id = $1 AND buyer_id = $2
	`, propertyID, buyerID).Scan(
		&p.ID,
		&p.PropertyID,
		&p.BuyerID,
		&p.PurchasePrice,
		&p.Status,
		&p.Notes,
		&p.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка при поиске покупки: %w", err)
	}
	return &p, nil
}

// PurchaseByPropertyAndBuyer ищет покупку вне транзакции
func (s *Store) PurchaseByPropertyAndBuyer(ctx context.Context, propertyID, buyerID uuid.UUID) (*models.Purchase, error) {
	return purchaseByPropertyAndBuyer(ctx, s.pool, propertyID, buyerID)
}

// ListPurchasesByBuyer возвращает покупки пользователя со сводкой по объектам
func (s *Store) ListPurchasesByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Purchase, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT pu.id, pu.property_id, pu.buyer_id, pu.purchase_price, pu.status, pu.notes, pu.created_at,
			   pr.id, pr.owner_id, pr.title, pr.description, pr.price, pr.location, pr.property_type,
			   pr.bedrooms, pr.bathrooms, pr.area, pr.image_url, pr.is_sold, pr.is_featured,
			   pr.created_at, pr.updated_at
		FROM purchases pu
		JOIN properties pr ON pu.property_id = pr.id
		WHERE pu.buyer_id = $1
		ORDER BY pu.created_at DESC
	`, buyerID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при запросе покупок: %w", err)
	}
	defer rows.Close()

	var purchases []models.Purchase
	for rows.Next() {
		var pu models.Purchase
		var pr models.Property
		if err := rows.Scan(
			&pu.ID, &pu.PropertyID, &pu.BuyerID, &pu.PurchasePrice, &pu.Status, &pu.Notes, &pu.CreatedAt,
			&pr.ID, &pr.OwnerID, &pr.Title, &pr.Description, &pr.Price, &pr.Location, &pr.PropertyType,
			&pr.Bedrooms, &pr.Bathrooms, &pr.Area, &pr.ImageURL, &pr.IsSold, &pr.IsFeatured,
			&pr.CreatedAt, &pr.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка при сканировании покупки: %w", err)
		}
		pu.Property = &pr
		purchases = append(purchases, pu)
	}

	return purchases, rows.Err()
}
