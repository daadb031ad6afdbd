package auth

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/rajivgeraev/realty-api/internal/config"
	"github.com/rajivgeraev/realty-api/internal/db"
	"github.com/rajivgeraev/realty-api/internal/models"
	"github.com/rajivgeraev/realty-api/internal/storage"
	"github.com/rajivgeraev/realty-api/internal/utils"
)

// AuthService – структура для обработки регистрации и входа
type AuthService struct {
	cfg        *config.Config
	store      storage.UserStore
	jwtService *utils.JWTService
}

// NewAuthService – конструктор AuthService
func NewAuthService(cfg *config.Config, store storage.UserStore) *AuthService {
	return &AuthService{
		cfg:        cfg,
		store:      store,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// GetJWTService возвращает JWT-сервис для настройки middleware
func (s *AuthService) GetJWTService() *utils.JWTService {
	return s.jwtService
}

// RegisterHandler создает пользователя и возвращает JWT
func (s *AuthService) RegisterHandler(c fiber.Ctx) error {
	var payload struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}

	if err := c.Bind().Body(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Неверный формат данных"})
	}

	payload.Email = strings.ToLower(strings.TrimSpace(payload.Email))
	if payload.Email == "" || !strings.Contains(payload.Email, "@") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Укажите корректный email"})
	}
	if len(payload.Password) < 8 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Пароль должен быть не короче 8 символов"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Ошибка хеширования пароля: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal", "message": "Не удалось создать пользователя"})
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        payload.Email,
		PasswordHash: string(hash),
		FirstName:    payload.FirstName,
		LastName:     payload.LastName,
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "email_taken", "message": "Email уже зарегистрирован"})
		}
		log.Printf("Ошибка создания пользователя: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal", "message": "Не удалось создать пользователя"})
	}

	token, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		log.Printf("Ошибка генерации JWT: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal", "message": "Не удалось создать токен"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// LoginHandler проверяет учетные данные и возвращает JWT
func (s *AuthService) LoginHandler(c fiber.Ctx) error {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.Bind().Body(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Неверный формат данных"})
	}

	payload.Email = strings.ToLower(strings.TrimSpace(payload.Email))

	ctx, cancel := db.GetContext()
	defer cancel()

	user, err := s.store.UserByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid_credentials", "message": "Неверный email или пароль"})
		}
		log.Printf("Ошибка поиска пользователя %s: %v", payload.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal", "message": "Ошибка входа"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid_credentials", "message": "Неверный email или пароль"})
	}

	token, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		log.Printf("Ошибка генерации JWT: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal", "message": "Не удалось создать токен"})
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}
