package mediaservice

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
)

var (
	ErrInvalidImage = errors.New("invalid image payload")
	ErrUploadFailed = errors.New("image upload failed")
)

// Store is the media collaborator contract: upload an image and get back
// its public URL, delete an image by that URL. Delete failures are treated
// as best-effort by callers and must never block a content mutation.
type Store interface {
	Upload(ctx context.Context, dataURI, folder string) (string, error)
	Delete(ctx context.Context, imageURL string) error
}

// parseDataURI splits a base64 data URI ("data:image/png;base64,...") into
// its content type and decoded bytes.
func parseDataURI(dataURI string) (string, []byte, error) {
	meta, payload, ok := strings.Cut(dataURI, ",")
	if !ok {
		return "", nil, ErrInvalidImage
	}

	meta = strings.TrimPrefix(meta, "data:")
	contentType, encoding, ok := strings.Cut(meta, ";")
	if !ok || encoding != "base64" || !strings.HasPrefix(contentType, "image/") {
		return "", nil, ErrInvalidImage
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, ErrInvalidImage
	}

	return contentType, data, nil
}

func fileExtension(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return "jpg"
	case "image/svg+xml":
		return "svg"
	default:
		return strings.TrimPrefix(contentType, "image/")
	}
}
