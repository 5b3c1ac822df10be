package handler

import (
	"encoding/base64"
	"errors"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Phucht59/Face-detect/internal/domain"
)

const maxImageSize = 10 * 1024 * 1024 // 10MB

var validImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// extractImage accepts either a multipart "image" file upload or a JSON body
// carrying a base64 data URL (the webcam capture path). The rest of the
// pipeline only ever sees raw bytes.
func extractImage(c *fiber.Ctx) ([]byte, error) {
	if file, err := c.FormFile("image"); err == nil {
		return readUpload(file)
	}

	var body struct {
		Image string `json:"image"`
	}
	if err := c.BodyParser(&body); err != nil || strings.TrimSpace(body.Image) == "" {
		return nil, domain.ErrValidationFailed.WithError(errors.New("image is required, as multipart file or base64 JSON field"))
	}

	return decodeBase64Image(body.Image)
}

func readUpload(file *multipart.FileHeader) ([]byte, error) {
	if file.Size == 0 || file.Size > maxImageSize {
		return nil, domain.ErrInvalidImage.WithError(nil)
	}

	contentType := file.Header.Get("Content-Type")
	if !validImageTypes[contentType] {
		return nil, domain.ErrInvalidImage.WithError(nil)
	}

	f, err := file.Open()
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}
	defer func() {
		_ = f.Close()
	}()

	imageBytes, err := io.ReadAll(f)
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}

	return imageBytes, nil
}

// decodeBase64Image unwraps an optional "data:image/...;base64," prefix and
// decodes the remainder.
func decodeBase64Image(data string) ([]byte, error) {
	if idx := strings.Index(data, ";base64,"); idx >= 0 {
		data = data[idx+len(";base64,"):]
	}

	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}
	if len(decoded) == 0 || len(decoded) > maxImageSize {
		return nil, domain.ErrInvalidImage.WithError(nil)
	}

	return decoded, nil
}
