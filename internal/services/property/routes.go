package property

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes настраивает маршруты для API объектов недвижимости.
// Список и карточка объекта публичные; создание, изменение и удаление
// требуют авторизации. /properties/mine регистрируется раньше /properties/:id.
func (s *PropertyService) SetupRoutes(app *fiber.App, authMiddleware, optionalAuth fiber.Handler) {
	app.Get("/properties", s.ListProperties)
	app.Post("/properties", s.CreateProperty, authMiddleware)
	app.Get("/properties/mine", s.MyProperties, authMiddleware)
	app.Get("/properties/:id", s.GetProperty, optionalAuth)
	app.Put("/properties/:id", s.UpdateProperty, authMiddleware)
	app.Delete("/properties/:id", s.DeleteProperty, authMiddleware)
}
