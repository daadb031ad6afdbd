package favorite

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/rajivgeraev/realty-api/internal/config"
	"github.com/rajivgeraev/realty-api/internal/db"
)

// FavoriteService представляет сервис для работы с избранным
type FavoriteService struct {
	cfg      *config.Config
	registry *Registry
}

// NewFavoriteService создает новый экземпляр FavoriteService
func NewFavoriteService(cfg *config.Config, registry *Registry) *FavoriteService {
	return &FavoriteService{
		cfg:      cfg,
		registry: registry,
	}
}

// AddToFavorites добавляет объект недвижимости в избранное
func (s *FavoriteService) AddToFavorites(c fiber.Ctx) error {
	userIDStr := c.Locals("userID").(string)
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Неверный формат ID пользователя"})
	}

	propertyID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Неверный формат ID объекта"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	created, err := s.registry.Add(ctx, userID, propertyID)
	if err != nil {
		if errors.Is(err, ErrPropertyNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error":   "not_found",
				"message": "Объект недвижимости не найден",
			})
		}
		log.Printf("Ошибка добавления в избранное (%s, %s): %v", userID, propertyID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal",
			"message": "Ошибка добавления в избранное",
		})
	}

	// Повторное добавление — не ошибка: запись уже есть, итог тот же
	if !created {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success": true,
			"created": false,
			"message": "Объект уже в избранном",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"created": true,
		"message": "Объект добавлен в избранное",
	})
}

// RemoveFromFavorites удаляет объект недвижимости из избранного
func (s *FavoriteService) RemoveFromFavorites(c fiber.Ctx) error {
	userIDStr := c.Locals("userID").(string)
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Неверный формат ID пользователя"})
	}

	propertyID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Неверный формат ID объекта"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	if err := s.registry.Remove(ctx, userID, propertyID); err != nil {
		if errors.Is(err, ErrNotFavorited) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   "not_favorited",
				"message": "Объект не находится в избранном",
			})
		}
		log.Printf("Ошибка удаления из избранного (%s, %s): %v", userID, propertyID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal",
			"message": "Ошибка удаления из избранного",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Объект удален из избранного",
	})
}

// MyFavorites возвращает список избранных объектов пользователя
func (s *FavoriteService) MyFavorites(c fiber.Ctx) error {
	userIDStr := c.Locals("userID").(string)
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Неверный формат ID пользователя"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	favorites, err := s.registry.ListByUser(ctx, userID)
	if err != nil {
		log.Printf("Ошибка запроса избранного пользователя %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal",
			"message": "Ошибка получения избранного",
		})
	}

	return c.JSON(fiber.Map{
		"favorites": favorites,
		"count":     len(favorites),
	})
}
