package utils

import (
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/go-playground/validator/v10"
)

// AllowedImageContentTypes is the set of allowed content types for deal images.
var AllowedImageContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// MaxUploadSize is the maximum allowed deal image size (5MB).
const MaxUploadSize = 5 << 20

func ValidateFileUpload(fh *multipart.FileHeader) error {
	if fh.Size > MaxUploadSize {
		return fmt.Errorf("file size %d bytes exceeds maximum allowed size of 5MB", fh.Size)
	}

	contentType := fh.Header.Get("Content-Type")
	if !AllowedImageContentTypes[contentType] {
		return fmt.Errorf("invalid file type '%s'; allowed types: image/jpeg, image/png, image/webp", contentType)
	}

	return nil
}

// SanitizeValidationError turns binding errors into a message that does not
// leak Go struct names.
func SanitizeValidationError(err error) string {
	if err == nil {
		return ""
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return "Invalid request body"
	}

	var messages []string
	for _, fe := range validationErrors {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", field))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email address", field))
		case "min":
			messages = append(messages, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s must be one of: %s", field, fe.Param()))
		case "gt", "gte":
			messages = append(messages, fmt.Sprintf("%s must be %s %s", field, comparison(fe.Tag()), fe.Param()))
		case "uuid":
			messages = append(messages, fmt.Sprintf("%s must be a valid id", field))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", field))
		}
	}

	if len(messages) == 0 {
		return "Invalid request body"
	}
	return strings.Join(messages, "; ")
}

func comparison(tag string) string {
	if tag == "gt" {
		return "greater than"
	}
	return "at least"
}
