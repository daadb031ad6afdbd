package main

import (
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/rajivgeraev/realty-api/internal/config"
	"github.com/rajivgeraev/realty-api/internal/db"
	"github.com/rajivgeraev/realty-api/internal/middleware"
	"github.com/rajivgeraev/realty-api/internal/services/auth"
	"github.com/rajivgeraev/realty-api/internal/services/favorite"
	"github.com/rajivgeraev/realty-api/internal/services/property"
	"github.com/rajivgeraev/realty-api/internal/services/purchase"
	"github.com/rajivgeraev/realty-api/internal/services/upload"
	"github.com/rajivgeraev/realty-api/internal/storage/postgres"
)

func main() {
	// Загружаем конфигурацию
	cfg := config.LoadConfig()

	// Инициализируем базу данных
	pool, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("❌ Ошибка при инициализации базы данных: %v", err)
	}
	defer pool.Close()

	store := postgres.NewStore(pool)

	// Создаём экземпляр Fiber
	app := fiber.New(fiber.Config{
		AppName:      "Realty API",
		ErrorHandler: errorHandler,
	})

	// Добавляем middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowCredentials: false,
	}))

	// Создаём сервисы
	authService := auth.NewAuthService(cfg, store)
	propertyService := property.NewPropertyService(cfg, store)
	purchaseService := purchase.NewPurchaseService(cfg, purchase.NewCoordinator(store))
	favoriteService := favorite.NewFavoriteService(cfg, favorite.NewRegistry(store))
	uploadService := upload.NewUploadService(cfg)

	// Настраиваем middleware для аутентификации
	authMiddleware := middleware.AuthMiddleware(authService.GetJWTService())
	optionalAuth := middleware.OptionalAuthMiddleware(authService.GetJWTService())

	// Регистрируем маршруты
	authService.SetupRoutes(app)
	propertyService.SetupRoutes(app, authMiddleware, optionalAuth)
	purchaseService.SetupRoutes(app, authMiddleware)
	favoriteService.SetupRoutes(app, authMiddleware)
	uploadService.SetupRoutes(app, authMiddleware)

	// Запускаем сервер
	log.Println("✅ Realty API запущен на порту 8080")
	log.Fatal(app.Listen(":8080"))
}

// errorHandler обрабатывает ошибки Fiber
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	// Проверяем, является ли ошибка из Fiber
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	// Отправляем ошибку в JSON
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
