package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/rajivgeraev/realty-api/internal/models"
	"github.com/rajivgeraev/realty-api/internal/storage"
)

// PropertyExists проверяет существование объекта недвижимости
func (s *Store) PropertyExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM properties WHERE id = $1)
	`, id).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("ошибка при проверке существования объекта: %w", err)
	}
	return exists, nil
}

// InsertFavorite добавляет объект в избранное. Повторная вставка той же пары
// поглощается ON CONFLICT DO NOTHING и возвращает false без ошибки — гонка
// двух одновременных добавлений разрешается уникальным ограничением.
func (s *Store) InsertFavorite(ctx context.Context, f *models.Favorite) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO favorites (id, user_id, property_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, property_id) DO NOTHING
	`, f.ID, f.UserID, f.PropertyID, f.CreatedAt)

	if err != nil {
		return false, fmt.Errorf("ошибка при добавлении в избранное: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteFavorite удаляет объект из избранного; false — записи не было
func (s *Store) DeleteFavorite(ctx context.Context, userID, propertyID uuid.UUID) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM favorites WHERE user_id = $1 AND property_id = $2
	`, userID, propertyID)

	if err != nil {
		return false, fmt.Errorf("ошибка при удалении из избранного: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListFavoritesByUser возвращает избранное пользователя со сводкой по объектам
func (s *Store) ListFavoritesByUser(ctx context.Context, userID uuid.UUID) ([]models.Favorite, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT f.id, f.user_id, f.property_id, f.created_at,
			   pr.id, pr.owner_id, pr.title, pr.description, pr.price, pr.location, pr.property_type,
			   pr.bedrooms, pr.bathrooms, pr.area, pr.image_url, pr.is_sold, pr.is_featured,
			   pr.created_at, pr.updated_at
		FROM favorites f
		JOIN properties pr ON f.property_id = pr.id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при запросе избранного: %w", err)
	}
	defer rows.Close()

	var favorites []models.Favorite
	for rows.Next() {
		var f models.Favorite
		var pr models.Property
		if err := rows.Scan(
			&f.ID, &f.UserID, &f.PropertyID, &f.CreatedAt,
			&pr.ID, &pr.OwnerID, &pr.Title, &pr.Description, &pr.Price, &pr.Location, &pr.PropertyType,
			&pr.Bedrooms, &pr.Bathrooms, &pr.Area, &pr.ImageURL, &pr.IsSold, &pr.IsFeatured,
			&pr.CreatedAt, &pr.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка при сканировании избранного: %w", err)
		}
		f.Property = &pr
		favorites = append(favorites, f)
	}

	return favorites, rows.Err()
}

var _ storage.Store = (*Store)(nil)
