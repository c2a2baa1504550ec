package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// extensions maps accepted image content types to stored file extensions.
var extensions = map[string]string{
	"image/jpeg": ".jpeg",
	"image/jpg":  ".jpeg",
	"image/png":  ".png",
	"image/heic": ".heic",
	"image/heif": ".heif",
	"image/bmp":  ".bmp",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// IsImageContentType reports whether the declared content type is an image
// type the service accepts for upload.
func IsImageContentType(contentType string) bool {
	return strings.HasPrefix(contentType, "image/")
}

// BlobKey builds a unique storage key for an uploaded file: a timestamp prefix
// for rough ordering, a random suffix so concurrent uploads in the same
// instant cannot collide, and an extension matching the content type.
func BlobKey(now time.Time, contentType string) string {
	ext, ok := extensions[contentType]
	if !ok {
		// Unknown image subtype: derive the extension from the subtype name.
		ext = "." + strings.TrimPrefix(contentType, "image/")
	}
	return fmt.Sprintf("%s-%s%s", now.Format("20060102150405.000000"), uuid.NewString()[:8], ext)
}
