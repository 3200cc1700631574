package media

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/brunovilar/pedezap-backend/pkg/config"
	pkgerrors "github.com/brunovilar/pedezap-backend/pkg/errors"
)

// extensionByContentType doubles as the upload allowlist.
var extensionByContentType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

type objectStore interface {
	UploadObject(ctx context.Context, bucket, object, contentType string, body io.Reader) error
	DeleteObject(ctx context.Context, bucket, object string) error
	PublicURL(bucket, object string) string
	DefaultBucket() string
}

// Service stores product and logo images and hands back their public URLs.
type Service interface {
	Upload(ctx context.Context, storeID uuid.UUID, input UploadInput) (*UploadResult, error)
	Delete(ctx context.Context, storeID uuid.UUID, objectKey string) error
}

// UploadInput carries one image body with its declared metadata.
type UploadInput struct {
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadResult points at the stored object.
type UploadResult struct {
	ObjectKey string `json:"object_key"`
	URL       string `json:"url"`
}

type service struct {
	store     objectStore
	maxBytes  int64
	newObject func() uuid.UUID
}

// NewService builds the media service. The upload cap comes from config.
func NewService(store objectStore, cfg config.MediaConfig) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("object store is required")
	}
	maxMB := cfg.MaxUploadMB
	if maxMB <= 0 {
		maxMB = 10
	}
	return &service{
		store:     store,
		maxBytes:  int64(maxMB) << 20,
		newObject: uuid.New,
	}, nil
}

func (s *service) Upload(ctx context.Context, storeID uuid.UUID, input UploadInput) (*UploadResult, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}
	if input.Body == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file body is required")
	}

	contentType := strings.ToLower(strings.TrimSpace(input.ContentType))
	ext, ok := extensionByContentType[contentType]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported image type").
			WithDetails(map[string]any{"content_type": contentType, "accepted": []string{"image/jpeg", "image/png", "image/webp"}})
	}
	if input.Size <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file size is required")
	}
	if input.Size > s.maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file exceeds the upload limit").
			WithDetails(map[string]any{"max_bytes": s.maxBytes})
	}

	objectKey := fmt.Sprintf("stores/%s/products/%s%s", storeID, s.newObject(), ext)

	// LimitReader guards against bodies larger than the declared size.
	body := io.LimitReader(input.Body, s.maxBytes)
	bucket := s.store.DefaultBucket()
	if err := s.store.UploadObject(ctx, bucket, objectKey, contentType, body); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload object")
	}

	return &UploadResult{
		ObjectKey: objectKey,
		URL:       s.store.PublicURL(bucket, objectKey),
	}, nil
}

func (s *service) Delete(ctx context.Context, storeID uuid.UUID, objectKey string) error {
	if storeID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}
	objectKey = strings.TrimSpace(objectKey)
	if objectKey == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "object key is required")
	}
	// Owners may only touch their own prefix.
	prefix := fmt.Sprintf("stores/%s/", storeID)
	if !strings.HasPrefix(objectKey, prefix) || strings.Contains(objectKey, "..") {
		return pkgerrors.New(pkgerrors.CodeForbidden, "object does not belong to this store")
	}
	if err := s.store.DeleteObject(ctx, s.store.DefaultBucket(), objectKey); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete object")
	}
	return nil
}
