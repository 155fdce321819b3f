package services

import (
	"errors"
	"time"

	"eadsystem/backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// storageSafetyMargin is kept free on top of every upload so the store
// never fills completely.
const storageSafetyMargin = 50 * 1024 * 1024

// FileService is the blob store for lesson videos and materials, backed by
// a database table and addressed by opaque UUIDs.
type FileService struct {
	DB               *gorm.DB
	QuotaBytes       int64
	MaxVideoBytes    int64
	MaxMaterialBytes int64
}

func NewFileService(db *gorm.DB, quotaBytes, maxVideoBytes, maxMaterialBytes int64) *FileService {
	return &FileService{
		DB:               db,
		QuotaBytes:       quotaBytes,
		MaxVideoBytes:    maxVideoBytes,
		MaxMaterialBytes: maxMaterialBytes,
	}
}

// Store saves the blob and returns its ID. ErrFileTooLarge is the policy
// limit (per-file, depends on kind); ErrInsufficientStorage is the
// environment limit (quota).
func (fs *FileService) Store(name, mimeType, kind string, data []byte) (string, error) {
	size := int64(len(data))

	limit := fs.MaxMaterialBytes
	if kind == "video" {
		limit = fs.MaxVideoBytes
	}
	if size > limit {
		return "", ErrFileTooLarge
	}
	if !fs.HasSpaceFor(size) {
		return "", ErrInsufficientStorage
	}

	file := models.StoredFile{
		ID:        uuid.New().String(),
		Name:      name,
		MimeType:  mimeType,
		Size:      size,
		Kind:      kind,
		Data:      data,
		CreatedAt: time.Now(),
	}
	if err := fs.DB.Create(&file).Error; err != nil {
		return "", err
	}
	return file.ID, nil
}

// Get returns nil for an unknown ID rather than an error.
func (fs *FileService) Get(fileID string) *models.StoredFile {
	var file models.StoredFile
	if err := fs.DB.First(&file, "id = ?", fileID).Error; err != nil {
		return nil
	}
	return &file
}

func (fs *FileService) Delete(fileID string) error {
	result := fs.DB.Delete(&models.StoredFile{}, "id = ?", fileID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFileNotFound
	}
	return nil
}

// Usage returns used and available bytes.
func (fs *FileService) Usage() (int64, int64) {
	var used int64
	err := fs.DB.Model(&models.StoredFile{}).Select("COALESCE(SUM(size), 0)").Scan(&used).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fs.QuotaBytes
	}
	available := fs.QuotaBytes - used
	if available < 0 {
		available = 0
	}
	return used, available
}

// HasSpaceFor is the pre-flight quota probe consulted before accepting an
// upload.
func (fs *FileService) HasSpaceFor(size int64) bool {
	_, available := fs.Usage()
	return size+storageSafetyMargin <= available
}
