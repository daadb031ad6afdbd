package favorite

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes настраивает маршруты для API избранного
func (s *FavoriteService) SetupRoutes(app *fiber.App, authMiddleware fiber.Handler) {
	// Добавление и удаление объекта из избранного
	app.Post("/properties/:id/favorite", s.AddToFavorites, authMiddleware)
	app.Delete("/properties/:id/favorite", s.RemoveFromFavorites, authMiddleware)

	// Избранное текущего пользователя
	app.Get("/favorites/mine", s.MyFavorites, authMiddleware)
}
