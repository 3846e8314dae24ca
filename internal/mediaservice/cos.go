package mediaservice

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/tencentyun/cos-go-sdk-v5"
)

// coverImageRule is the fixed transformation profile for cover images:
// fill to 800x450 and let the service pick quality.
const coverImageRule = "imageMogr2/thumbnail/!800x450r/gravity/center/crop/800x450/quality/auto"

// COSStore stores images in a Tencent COS bucket, applying the cover-image
// transformation at upload time.
type COSStore struct {
	client    *cos.Client
	bucketURL *url.URL
	logger    *slog.Logger
}

func NewCOSStore(bucketURL, secretID, secretKey string, logger *slog.Logger) (*COSStore, error) {
	if bucketURL == "" || secretID == "" || secretKey == "" {
		return nil, fmt.Errorf("incomplete COS configuration")
	}

	u, err := url.Parse(bucketURL)
	if err != nil {
		return nil, fmt.Errorf("could not parse COS bucket URL %q: %w", bucketURL, err)
	}

	client := cos.NewClient(&cos.BaseURL{BucketURL: u}, &http.Client{
		Transport: &cos.AuthorizationTransport{
			SecretID:  secretID,
			SecretKey: secretKey,
		},
	})

	return &COSStore{client: client, bucketURL: u, logger: logger}, nil
}

func (s *COSStore) Upload(ctx context.Context, dataURI, folder string) (string, error) {
	contentType, data, err := parseDataURI(dataURI)
	if err != nil {
		return "", err
	}

	objectKey := fmt.Sprintf("%s/%s.%s", folder, uuid.New().String(), fileExtension(contentType))

	opt := &cos.ObjectPutOptions{
		ObjectPutHeaderOptions: &cos.ObjectPutHeaderOptions{
			ContentType:   contentType,
			XOptionHeader: &http.Header{},
		},
	}
	opt.XOptionHeader.Add("Pic-Operations", cos.EncodePicOperations(&cos.PicOperations{
		Rules: []cos.PicOperationsRules{
			{FileId: "/" + objectKey, Rule: coverImageRule},
		},
	}))

	resp, err := s.client.Object.Put(ctx, objectKey, bytes.NewReader(data), opt)
	if err != nil {
		s.logger.Error("cos upload failed", slog.String("key", objectKey), slog.String("error", err.Error()))
		return "", ErrUploadFailed
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		s.logger.Error("cos upload returned unexpected status",
			slog.String("key", objectKey),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(body)))
		return "", ErrUploadFailed
	}

	imageURL := *s.bucketURL
	imageURL.Path = "/" + objectKey
	return imageURL.String(), nil
}

func (s *COSStore) Delete(ctx context.Context, imageURL string) error {
	u, err := url.Parse(imageURL)
	if err != nil {
		return fmt.Errorf("could not parse image URL %q: %w", imageURL, err)
	}

	objectKey := strings.TrimPrefix(u.Path, "/")
	if objectKey == "" {
		return fmt.Errorf("image URL %q has no object key", imageURL)
	}

	resp, err := s.client.Object.Delete(ctx, objectKey)
	if err != nil {
		return fmt.Errorf("could not delete object %q: %w", objectKey, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("object delete for %q returned status %d", objectKey, resp.StatusCode)
	}

	return nil
}
