package purchase

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/rajivgeraev/realty-api/internal/config"
	"github.com/rajivgeraev/realty-api/internal/db"
)

// PurchaseService представляет сервис для работы с покупками
type PurchaseService struct {
	cfg         *config.Config
	coordinator *Coordinator
}

// NewPurchaseService создает новый экземпляр PurchaseService
func NewPurchaseService(cfg *config.Config, coordinator *Coordinator) *PurchaseService {
	return &PurchaseService{
		cfg:         cfg,
		coordinator: coordinator,
	}
}

// RequestPurchase обрабатывает запрос на покупку объекта недвижимости
func (s *PurchaseService) RequestPurchase(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Пользователь не авторизован"})
	}

	buyerID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Неверный формат ID пользователя"})
	}

	propertyID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Неверный формат ID объекта"})
	}

	// Примечания к покупке опциональны, тело запроса может отсутствовать
	var requestData struct {
		Notes string `json:"notes"`
	}
	if len(c.Body()) > 0 {
		if err := c.Bind().Body(&requestData); err != nil {
			log.Printf("Ошибка декодирования тела запроса: %v", err)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Неверный формат данных"})
		}
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	p, err := s.coordinator.RequestPurchase(ctx, propertyID, buyerID, requestData.Notes)
	if err != nil {
		var dup *DuplicateRequestError
		switch {
		case errors.Is(err, ErrPropertyNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error":   "not_found",
				"message": "Объект недвижимости не найден",
			})
		case errors.Is(err, ErrAlreadySold):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   "already_sold",
				"message": "Объект уже продан другому покупателю",
			})
		case errors.Is(err, ErrSelfPurchase):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   "self_purchase",
				"message": "Нельзя купить собственный объект",
			})
		case errors.As(err, &dup):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":       "duplicate_request",
				"message":     "Вы уже отправляли запрос на покупку этого объекта",
				"purchase_id": dup.PurchaseID,
				"status":      dup.Status,
			})
		default:
			log.Printf("Ошибка проведения покупки объекта %s покупателем %s: %v", propertyID, buyerID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "internal",
				"message": "Не удалось провести покупку",
			})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":         true,
		"message":         "Покупка успешно завершена! Объект продан вам.",
		"purchase":        p,
		"property_status": "sold",
	})
}

// MyPurchases возвращает список покупок текущего пользователя
func (s *PurchaseService) MyPurchases(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Пользователь не авторизован"})
	}

	buyerID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Неверный формат ID пользователя"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	purchases, err := s.coordinator.ListByBuyer(ctx, buyerID)
	if err != nil {
		log.Printf("Ошибка запроса покупок пользователя %s: %v", buyerID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal",
			"message": "Ошибка получения покупок",
		})
	}

	return c.JSON(fiber.Map{
		"purchases": purchases,
		"count":     len(purchases),
	})
}
