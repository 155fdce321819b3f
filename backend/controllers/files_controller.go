package controllers

import (
	"errors"
	"io"

	"eadsystem/backend/config"
	"eadsystem/backend/models"
	"eadsystem/backend/services"
	"eadsystem/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type FilesController struct {
	DB    *gorm.DB
	Cfg   *config.Config
	Files *services.FileService
}

func NewFilesController(db *gorm.DB, cfg *config.Config) *FilesController {
	return &FilesController{
		DB:  db,
		Cfg: cfg,
		Files: services.NewFileService(db,
			cfg.StorageQuotaMB*1024*1024,
			cfg.MaxVideoMB*1024*1024,
			cfg.MaxMaterialMB*1024*1024),
	}
}

// Upload accepts a multipart form with a "file" part and an optional "kind"
// field ("video" or "material", default material). Only teachers and admins
// may upload.
func (fc *FilesController) Upload(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, fc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var user models.User
	if err := fc.DB.First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}
	if user.Role != "teacher" && user.Role != "admin" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Only teachers can upload files",
		})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "File is required",
		})
	}

	kind := c.FormValue("kind")
	if kind == "" {
		kind = "material"
	}
	if kind != "video" && kind != "material" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Kind must be video or material",
		})
	}

	// Pre-flight on the declared size before buffering the body.
	if !fc.Files.HasSpaceFor(fileHeader.Size) {
		return c.Status(fiber.StatusInsufficientStorage).JSON(fiber.Map{
			"error": "Insufficient storage space",
		})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not read file",
		})
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not read file",
		})
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	fileID, err := fc.Files.Store(fileHeader.Filename, mimeType, kind, data)
	if err != nil {
		if errors.Is(err, services.ErrFileTooLarge) {
			return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
				"error": "File exceeds the size limit",
			})
		}
		if errors.Is(err, services.ErrInsufficientStorage) {
			return c.Status(fiber.StatusInsufficientStorage).JSON(fiber.Map{
				"error": "Insufficient storage space",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not store file",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"file_id": fileID,
		"name":    fileHeader.Filename,
		"size":    len(data),
		"kind":    kind,
	})
}

func (fc *FilesController) Download(c *fiber.Ctx) error {
	if _, err := utils.ExtractUserIDFromToken(c, fc.Cfg); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	file := fc.Files.Get(c.Params("id"))
	if file == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "File not found",
		})
	}

	c.Set("Content-Type", file.MimeType)
	c.Set("Content-Disposition", `inline; filename="`+file.Name+`"`)
	return c.Send(file.Data)
}

// Delete is admin-only; routed behind AdminMiddleware.
func (fc *FilesController) Delete(c *fiber.Ctx) error {
	if err := fc.Files.Delete(c.Params("id")); err != nil {
		if errors.Is(err, services.ErrFileNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "File not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete file",
		})
	}
	return c.JSON(fiber.Map{"message": "File deleted"})
}

// GetStorageUsage is admin-only; routed behind AdminMiddleware.
func (fc *FilesController) GetStorageUsage(c *fiber.Ctx) error {
	used, available := fc.Files.Usage()
	return c.JSON(fiber.Map{
		"used_bytes":      used,
		"available_bytes": available,
		"quota_bytes":     fc.Files.QuotaBytes,
	})
}
