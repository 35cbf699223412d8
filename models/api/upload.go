package apimodels

import (
	"fmt"
	"path/filepath"
	"strings"
	"travel-order-backend/models"
)

// Upload is a received multipart file, read into memory.
type Upload struct {
	FileName    string
	ContentType string
	Body        []byte
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// ValidateImage checks avatars, signatures and logos.
func (u Upload) ValidateImage(field string) error {
	if len(u.Body) == 0 {
		return models.NewFieldError(field, fmt.Sprintf("The %s field is required.", field))
	}
	if !imageExtensions[strings.ToLower(filepath.Ext(u.FileName))] || !strings.HasPrefix(u.ContentType, "image/") {
		return models.NewFieldError(field, fmt.Sprintf("The %s must be a file of type: jpeg, png, jpg, gif, webp.", field))
	}
	if len(u.Body) > models.MaxImageSize {
		return models.NewFieldError(field, fmt.Sprintf("The %s may not be greater than 2048 kilobytes.", field))
	}
	return nil
}
