package models

import (
	"time"

	"github.com/google/uuid"
)

// Favorite представляет закладку пользователя на объект недвижимости.
// На пару (user_id, property_id) существует не более одной записи.
type Favorite struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	PropertyID uuid.UUID `json:"property_id"`
	CreatedAt  time.Time `json:"created_at"`

	// Дополнительные поля для API
	Property *Property `json:"property,omitempty"`
}
