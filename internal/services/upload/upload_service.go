package upload

import (
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/rajivgeraev/realty-api/internal/config"
)

// UploadService выдает подписанные параметры для загрузки фотографий
// объектов напрямую в Cloudinary
type UploadService struct {
	cfg *config.Config
}

// NewUploadService создает новый экземпляр UploadService
func NewUploadService(cfg *config.Config) *UploadService {
	return &UploadService{cfg: cfg}
}

// GenerateUploadParams создаёт параметры для загрузки изображений
func (s *UploadService) GenerateUploadParams(c fiber.Ctx) error {
	// Генерируем ID для объекта, если не передан
	propertyID := c.Query("property_id")
	if propertyID == "" {
		propertyID = uuid.New().String()
	}

	timestamp := fmt.Sprintf("%d", time.Now().Unix())

	// Параметры, входящие в подпись
	params := url.Values{}
	params.Set("timestamp", timestamp)
	params.Set("upload_preset", s.cfg.CloudinaryConfig.UploadPreset)

	signature, err := api.SignParameters(params, s.cfg.CloudinaryConfig.APISecret)
	if err != nil {
		log.Printf("Ошибка подписи параметров загрузки: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal",
			"message": "Ошибка формирования параметров загрузки",
		})
	}

	return c.JSON(fiber.Map{
		"timestamp":     timestamp,
		"signature":     signature,
		"api_key":       s.cfg.CloudinaryConfig.APIKey,
		"cloud_name":    s.cfg.CloudinaryConfig.CloudName,
		"upload_preset": s.cfg.CloudinaryConfig.UploadPreset,
		"property_id":   propertyID,
	})
}
