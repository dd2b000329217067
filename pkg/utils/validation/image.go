package validation

import (
	"mime/multipart"
	"path/filepath"
	"strings"
)

// MaxImageSize mirrors the form contract: files at or above this size are
// rejected.
const MaxImageSize = 10000024

const (
	msgImageRequired = "Img is required"
	msgImageTooLarge = "File size must be less than 10mb"
	msgImageBadType  = "Invalid file type. Allowed types: JPG, PNG, WEBP"
)

var allowedImageTypes = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// validateImage applies the file rules. A nil or zero-size file is an error
// only when an image is required; otherwise it signals "keep the existing
// image" and the returned header is nil.
func validateImage(file *multipart.FileHeader, required bool) (*multipart.FileHeader, string) {
	if file == nil || file.Size == 0 {
		if required {
			return nil, msgImageRequired
		}
		return nil, ""
	}

	if file.Size >= MaxImageSize {
		return nil, msgImageTooLarge
	}

	ext := filepath.Ext(strings.ToLower(file.Filename))
	if !allowedImageTypes[ext] {
		return nil, msgImageBadType
	}

	return file, ""
}
