package image

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/seller-portal-api/internal/domain"
	"github.com/seller-portal-api/internal/pkg/id"
)

// maxUploadSize caps product image uploads at 5 MiB.
const maxUploadSize = 5 << 20

// UploadInput describes one incoming image file.
type UploadInput struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
	SellerID    string
}

// Upload is the external reference handed back to the client: the public
// URL for rendering plus the deletable key released when the owning product
// is removed.
type Upload struct {
	ImageURL string `json:"imageUrl"`
	PublicID string `json:"publicId"`
}

type Service interface {
	Upload(ctx context.Context, in UploadInput) (*Upload, error)
}

type objectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
}

type service struct {
	store objectStore
}

func NewService(store objectStore) Service {
	return &service{store: store}
}

func (s *service) Upload(ctx context.Context, in UploadInput) (*Upload, error) {
	if !strings.HasPrefix(in.ContentType, "image/") {
		return nil, fmt.Errorf("only image files are allowed: %w", domain.ErrBadRequest)
	}
	if in.Size > maxUploadSize {
		return nil, fmt.Errorf("image exceeds the 5MB limit: %w", domain.ErrBadRequest)
	}
	key := fmt.Sprintf("products/%s/%s-%s", in.SellerID, id.New(), sanitizeFilename(in.Filename))
	url, err := s.store.Upload(ctx, key, io.LimitReader(in.Reader, maxUploadSize), in.ContentType)
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", domain.ErrExternal)
	}
	return &Upload{ImageURL: url, PublicID: key}, nil
}

// sanitizeFilename strips directory components and keeps only safe characters
// (alphanumeric, dot, dash, underscore) to prevent path traversal in S3 keys.
func sanitizeFilename(name string) string {
	name = path.Base(name)
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	if result := b.String(); result != "" && result != "." {
		return result
	}
	return "_"
}
