package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Допустимые типы недвижимости
const (
	PropertyTypeHouse      = "house"
	PropertyTypeApartment  = "apartment"
	PropertyTypeCondo      = "condo"
	PropertyTypeCommercial = "commercial"
)

// ValidPropertyTypes содержит допустимые значения property_type
var ValidPropertyTypes = map[string]bool{
	PropertyTypeHouse:      true,
	PropertyTypeApartment:  true,
	PropertyTypeCondo:      true,
	PropertyTypeCommercial: true,
}

// Property представляет объект недвижимости в системе
type Property struct {
	ID           uuid.UUID       `json:"id"`
	OwnerID      uuid.UUID       `json:"owner_id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Location     string          `json:"location"`
	PropertyType string          `json:"property_type"`
	Bedrooms     int             `json:"bedrooms"`
	Bathrooms    float64         `json:"bathrooms"`
	Area         int             `json:"area"` // площадь в квадратных футах
	ImageURL     string          `json:"image_url,omitempty"`
	IsSold       bool            `json:"is_sold"`
	IsFeatured   bool            `json:"is_featured"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	// Дополнительные поля для API
	Owner *User `json:"owner,omitempty"`
}
