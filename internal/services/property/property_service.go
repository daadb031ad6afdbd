package property

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rajivgeraev/realty-api/internal/config"
	"github.com/rajivgeraev/realty-api/internal/db"
	"github.com/rajivgeraev/realty-api/internal/models"
	"github.com/rajivgeraev/realty-api/internal/storage"
)

// PropertyService представляет сервис для работы с объектами недвижимости
type PropertyService struct {
	cfg   *config.Config
	store storage.PropertyStore
}

// NewPropertyService создает новый экземпляр PropertyService
func NewPropertyService(cfg *config.Config, store storage.PropertyStore) *PropertyService {
	return &PropertyService{
		cfg:   cfg,
		store: store,
	}
}

// propertyRequest — тело запроса создания/обновления объекта.
// Цена принимается числом или строкой и хранится с фиксированной точкой.
type propertyRequest struct {
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Location     string          `json:"location"`
	PropertyType string          `json:"property_type"`
	Bedrooms     int             `json:"bedrooms"`
	Bathrooms    float64         `json:"bathrooms"`
	Area         int             `json:"area"`
	ImageURL     string          `json:"image_url"`
	IsFeatured   bool            `json:"is_featured"`
}

// validate проверяет обязательные поля
func (r *propertyRequest) validate() string {
	if r.Title == "" {
		return "Название обязательно"
	}
	if r.Location == "" {
		return "Расположение обязательно"
	}
	if r.Price.LessThanOrEqual(decimal.Zero) {
		return "Цена должна быть положительным числом"
	}
	return ""
}

// ListProperties возвращает список непроданных объектов с фильтрацией (публичный)
func (s *PropertyService) ListProperties(c fiber.Ctx) error {
	filter := storage.PropertyFilter{
		Search: c.Query("search"),
		Limit:  20,
	}

	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	filter.Offset = offset

	if v := c.Query("min_price"); v != "" {
		if p, err := decimal.NewFromString(v); err == nil {
			filter.MinPrice = &p
		}
	}
	if v := c.Query("max_price"); v != "" {
		if p, err := decimal.NewFromString(v); err == nil {
			filter.MaxPrice = &p
		}
	}
	if v := c.Query("property_type"); v != "" && models.ValidPropertyTypes[v] {
		filter.PropertyType = v
	}
	if v := c.Query("bedrooms"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Bedrooms = &n
		}
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	properties, total, err := s.store.ListProperties(ctx, filter)
	if err != nil {
		log.Printf("Ошибка запроса объектов: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal",
			"message": "Ошибка получения объектов",
		})
	}

	return c.JSON(fiber.Map{
		"properties": properties,
		"total":      total,
		"limit":      filter.Limit,
		"offset":     filter.Offset,
	})
}

// GetProperty возвращает детальную информацию об объекте (публичный)
func (s *PropertyService) GetProperty(c fiber.Ctx) error {
	propertyID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Неверный формат ID объекта"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	p, err := s.store.GetProperty(ctx, propertyID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error":   "not_found",
				"message": "Объект недвижимости не найден",
			})
		}
		log.Printf("Ошибка получения объекта %s: %v", propertyID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal",
			"message": "Ошибка получения объекта",
		})
	}

	// Для авторизованного запроса отмечаем, принадлежит ли объект вызывающему
	isOwner := false
	if v, ok := c.Locals("userID").(string); ok {
		if callerID, err := uuid.Parse(v); err == nil {
			isOwner = callerID == p.OwnerID
		}
	}

	return c.JSON(fiber.Map{
		"property": p,
		"is_owner": isOwner,
	})
}

// CreateProperty создает новый объект недвижимости
func (s *PropertyService) CreateProperty(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	ownerID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Неверный формат ID пользователя"})
	}

	var requestData propertyRequest
	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Неверный формат данных"})
	}

	if msg := requestData.validate(); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": msg})
	}

	if !models.ValidPropertyTypes[requestData.PropertyType] {
		requestData.PropertyType = models.PropertyTypeHouse // По умолчанию — дом
	}

	p := &models.Property{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		Title:        requestData.Title,
		Description:  requestData.Description,
		Price:        requestData.Price,
		Location:     requestData.Location,
		PropertyType: requestData.PropertyType,
		Bedrooms:     requestData.Bedrooms,
		Bathrooms:    requestData.Bathrooms,
		Area:         requestData.Area,
		ImageURL:     requestData.ImageURL,
		IsFeatured:   requestData.IsFeatured,
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	if err := s.store.CreateProperty(ctx, p); err != nil {
		log.Printf("Ошибка создания объекта: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal",
			"message": "Ошибка сохранения объекта",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":  true,
		"property": p,
		"message":  "Объект успешно создан",
	})
}

// MyProperties возвращает объекты текущего пользователя, включая проданные
func (s *PropertyService) MyProperties(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	ownerID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Неверный формат ID пользователя"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	properties, err := s.store.ListPropertiesByOwner(ctx, ownerID)
	if err != nil {
		log.Printf("Ошибка запроса объектов владельца %s: %v", ownerID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal",
			"message": "Ошибка получения объектов",
		})
	}

	return c.JSON(fiber.Map{
		"properties": properties,
		"count":      len(properties),
	})
}

// UpdateProperty обновляет объект недвижимости; доступно только владельцу
func (s *PropertyService) UpdateProperty(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	callerID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Неверный формат ID пользователя"})
	}

	propertyID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Неверный формат ID объекта"})
	}

	var requestData propertyRequest
	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Неверный формат данных"})
	}

	if msg := requestData.validate(); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": msg})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	existing, err := s.store.GetProperty(ctx, propertyID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error":   "not_found",
				"message": "Объект недвижимости не найден",
			})
		}
		log.Printf("Ошибка получения объекта %s: %v", propertyID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal", "message": "Ошибка получения объекта"})
	}

	// Изменять объект может только его владелец
	if existing.OwnerID != callerID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":   "forbidden",
			"message": "Вы можете изменять только свои объекты",
		})
	}

	existing.Title = requestData.Title
	existing.Description = requestData.Description
	existing.Price = requestData.Price
	existing.Location = requestData.Location
	if models.ValidPropertyTypes[requestData.PropertyType] {
		existing.PropertyType = requestData.PropertyType
	}
	existing.Bedrooms = requestData.Bedrooms
	existing.Bathrooms = requestData.Bathrooms
	existing.Area = requestData.Area
	existing.ImageURL = requestData.ImageURL
	existing.IsFeatured = requestData.IsFeatured

	if err := s.store.UpdateProperty(ctx, existing); err != nil {
		log.Printf("Ошибка обновления объекта %s: %v", propertyID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal",
			"message": "Ошибка обновления объекта",
		})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"property": existing,
		"message":  "Объект успешно обновлен",
	})
}

// DeleteProperty удаляет объект недвижимости; доступно только владельцу
func (s *PropertyService) DeleteProperty(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	callerID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Неверный формат ID пользователя"})
	}

	propertyID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Неверный формат ID объекта"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	existing, err := s.store.GetProperty(ctx, propertyID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error":   "not_found",
				"message": "Объект недвижимости не найден",
			})
		}
		log.Printf("Ошибка получения объекта %s: %v", propertyID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal", "message": "Ошибка получения объекта"})
	}

	// Удалять объект может только его владелец
	if existing.OwnerID != callerID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":   "forbidden",
			"message": "Вы можете удалять только свои объекты",
		})
	}

	if err := s.store.DeleteProperty(ctx, propertyID); err != nil {
		log.Printf("Ошибка удаления объекта %s: %v", propertyID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal",
			"message": "Ошибка удаления объекта",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Объект успешно удален",
	})
}
