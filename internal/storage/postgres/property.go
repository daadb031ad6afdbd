package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rajivgeraev/realty-api/internal/models"
	"github.com/rajivgeraev/realty-api/internal/storage"
)

const propertyColumns = `id, owner_id, title, description, price, location, property_type,
	bedrooms, bathrooms, area, image_url, is_sold, is_featured, created_at, updated_at`

// scanProperty сканирует строку выборки propertyColumns в модель
func scanProperty(row pgx.Row, p *models.Property) error {
	return row.Scan(
		&p.ID,
		&p.OwnerID,
		&p.Title,
		&p.Description,
		&p.Price,
		&p.Location,
		&p.PropertyType,
		&p.Bedrooms,
		&p.Bathrooms,
		&p.Area,
		&p.ImageURL,
		&p.IsSold,
		&p.IsFeatured,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

// CreateProperty вставляет новый объект недвижимости
func (s *Store) CreateProperty(ctx context.Context, p *models.Property) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO properties (id, owner_id, title, description, price, location, property_type,
			bedrooms, bathrooms, area, image_url, is_sold, is_featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, false, $12)
		RETURNING created_at, updated_at
	`, p.ID, p.OwnerID, p.Title, p.Description, p.Price, p.Location, p.PropertyType,
		p.Bedrooms, p.Bathrooms, p.Area, p.ImageURL, p.IsFeatured).
		Scan(&p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		return fmt.Errorf("ошибка при создании объекта: %w", err)
	}
	return nil
}

// GetProperty возвращает объект недвижимости по ID вместе с данными владельца
func (s *Store) GetProperty(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	var p models.Property
	err := scanProperty(s.pool.QueryRow(ctx, `
		SELECT `+propertyColumns+` FROM properties WHERE id = $1
	`, id), &p)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка при получении объекта: %w", err)
	}

	owner, err := s.UserByID(ctx, p.OwnerID)
	if err == nil {
		p.Owner = owner
	}

	return &p, nil
}

// ListProperties возвращает непроданные объекты по фильтру и их общее количество
func (s *Store) ListProperties(ctx context.Context, f storage.PropertyFilter) ([]models.Property, int, error) {
	conditions := []string{"is_sold = false"}
	args := []interface{}{}

	if f.MinPrice != nil {
		args = append(args, *f.MinPrice)
		conditions = append(conditions, fmt.Sprintf("price >= $%d", len(args)))
	}
	if f.MaxPrice != nil {
		args = append(args, *f.MaxPrice)
		conditions = append(conditions, fmt.Sprintf("price <= $%d", len(args)))
	}
	if f.PropertyType != "" {
		args = append(args, f.PropertyType)
		conditions = append(conditions, fmt.Sprintf("property_type = $%d", len(args)))
	}
	if f.Bedrooms != nil {
		args = append(args, *f.Bedrooms)
		conditions = append(conditions, fmt.Sprintf("bedrooms = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(title ILIKE $%d OR description ILIKE $%d OR location ILIKE $%d)", n, n, n))
	}

	where := strings.Join(conditions, " AND ")

	// Общее количество для пагинации
	var total int
	err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM properties WHERE "+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка при подсчете объектов: %w", err)
	}

	args = append(args, f.Limit)
	limitPos := len(args)
	args = append(args, f.Offset)
	offsetPos := len(args)

	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM properties
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, propertyColumns, where, limitPos, offsetPos), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка при запросе объектов: %w", err)
	}
	defer rows.Close()

	var properties []models.Property
	for rows.Next() {
		var p models.Property
		if err := scanProperty(rows, &p); err != nil {
			return nil, 0, fmt.Errorf("ошибка при сканировании объекта: %w", err)
		}
		properties = append(properties, p)
	}

	return properties, total, rows.Err()
}

// ListPropertiesByOwner возвращает все объекты владельца, включая проданные
func (s *Store) ListPropertiesByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Property, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+propertyColumns+` FROM properties
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при запросе объектов владельца: %w", err)
	}
	defer rows.Close()

	var properties []models.Property
	for rows.Next() {
		var p models.Property
		if err := scanProperty(rows, &p); err != nil {
			return nil, fmt.Errorf("ошибка при сканировании объекта: %w", err)
		}
		properties = append(properties, p)
	}

	return properties, rows.Err()
}

// UpdateProperty обновляет описательные поля объекта
func (s *Store) UpdateProperty(ctx context.Context, p *models.Property) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE properties
		SET title = $1, description = $2, price = $3, location = $4, property_type = $5,
			bedrooms = $6, bathrooms = $7, area = $8, image_url = $9, is_featured = $10,
			updated_at = NOW()
		WHERE id = $11
	`, p.Title, p.Description, p.Price, p.Location, p.PropertyType,
		p.Bedrooms, p.Bathrooms, p.Area, p.ImageURL, p.IsFeatured, p.ID)

	if err != nil {
		return fmt.Errorf("ошибка при обновлении объекта: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteProperty удаляет объект недвижимости
func (s *Store) DeleteProperty(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка при удалении объекта: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
