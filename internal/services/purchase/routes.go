package purchase

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes настраивает маршруты для API покупок
func (s *PurchaseService) SetupRoutes(app *fiber.App, authMiddleware fiber.Handler) {
	// Запрос на покупку объекта недвижимости
	app.Post("/properties/:id/purchase", s.RequestPurchase, authMiddleware)

	// Покупки текущего пользователя
	app.Get("/purchases/mine", s.MyPurchases, authMiddleware)
}
