package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Статусы покупки. Покупка создается сразу в статусе completed —
// система моделирует сделку как мгновенный переход без этапа одобрения.
const (
	PurchaseStatusPending   = "pending"
	PurchaseStatusApproved  = "approved"
	PurchaseStatusCompleted = "completed"
	PurchaseStatusCancelled = "cancelled"
)

// Purchase представляет запись о покупке объекта недвижимости.
// Запись создается ровно один раз и никогда не удаляется; цена фиксируется
// на момент создания и не зависит от последующих изменений объекта.
type Purchase struct {
	ID            uuid.UUID       `json:"id"`
	PropertyID    uuid.UUID       `json:"property_id"`
	BuyerID       uuid.UUID       `json:"buyer_id"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	Status        string          `json:"status"`
	Notes         string          `json:"notes"`
	CreatedAt     time.Time       `json:"created_at"`

	// Дополнительные поля для API
	Property *Property `json:"property,omitempty"`
}
