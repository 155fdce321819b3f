package models

import "time"

// StoredFile is the blob-store record for lesson videos and materials.
// IDs are opaque UUID strings handed out by the file service.
type StoredFile struct {
	ID        string `gorm:"primaryKey"`
	Name      string
	MimeType  string
	Size      int64
	Kind      string // video, material
	Data      []byte
	CreatedAt time.Time
}
