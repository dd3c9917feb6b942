package media

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/YogeshxSaini/bluestock/internal/domain"
	"github.com/YogeshxSaini/bluestock/internal/pkg/id"
)

// allowedTypes maps accepted file extensions to the content type the bytes must sniff as.
var allowedTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

const sniffLen = 512

type UploadInput struct {
	Reader   io.Reader
	Filename string
	Size     int64
	OwnerID  string
	Kind     string
}

type Service interface {
	Upload(ctx context.Context, input UploadInput) (*domain.Media, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Media, error)
}

type objectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

type mediaStore interface {
	Put(ctx context.Context, m *domain.Media) error
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Media, error)
	Supersede(ctx context.Context, mediaID string, at time.Time) error
}

type service struct {
	store   objectStore
	repo    mediaStore
	maxSize int64
}

func NewService(store objectStore, repo mediaStore, maxSize int64) Service {
	return &service{store: store, repo: repo, maxSize: maxSize}
}

func (s *service) Upload(ctx context.Context, input UploadInput) (*domain.Media, error) {
	if input.Kind != domain.MediaLogo && input.Kind != domain.MediaBanner {
		return nil, domain.NewValidationError("unknown media kind", input.Kind)
	}
	if input.Size <= 0 {
		return nil, domain.NewValidationError("no file uploaded")
	}
	if input.Size > s.maxSize {
		return nil, domain.NewValidationError(fmt.Sprintf("file too large, maximum size is %d bytes", s.maxSize))
	}
	safeName := sanitizeFilename(input.Filename)
	want, ok := allowedTypes[strings.ToLower(path.Ext(safeName))]
	if !ok {
		return nil, domain.NewValidationError("only image files are allowed (jpeg, jpg, png, gif, webp)")
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(input.Reader, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	if got := http.DetectContentType(head); got != want {
		return nil, domain.NewValidationError("only image files are allowed (jpeg, jpg, png, gif, webp)",
			fmt.Sprintf("file content is %s, expected %s", got, want))
	}

	mediaID := id.New()
	key := fmt.Sprintf("company/%ss/%s/%s-%s", input.Kind, input.OwnerID, mediaID, safeName)
	hasher := sha256.New()
	body := io.TeeReader(io.MultiReader(bytes.NewReader(head), input.Reader), hasher)
	url, err := s.store.Upload(ctx, key, body, want)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	m := &domain.Media{
		MediaID:     mediaID,
		OwnerID:     input.OwnerID,
		Kind:        input.Kind,
		Object:      key,
		URL:         url,
		Size:        input.Size,
		ContentType: want,
		Hash:        hex.EncodeToString(hasher.Sum(nil)),
		Current:     true,
		CreatedAt:   now,
	}
	if err := s.repo.Put(ctx, m); err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			slog.Warn("failed to remove orphaned object", "key", key, "err", delErr)
		}
		return nil, err
	}
	s.supersedePrevious(ctx, m, now)
	return m, nil
}

// supersedePrevious flags older current uploads of the same kind. Failures only
// leave a stale flag behind, so they are logged and ignored.
func (s *service) supersedePrevious(ctx context.Context, latest *domain.Media, at time.Time) {
	items, err := s.repo.ListByOwner(ctx, latest.OwnerID)
	if err != nil {
		slog.Warn("could not list media to supersede", "owner_id", latest.OwnerID, "err", err)
		return
	}
	for _, m := range items {
		if m.MediaID == latest.MediaID || m.Kind != latest.Kind || !m.Current {
			continue
		}
		if err := s.repo.Supersede(ctx, m.MediaID, at); err != nil {
			slog.Warn("could not supersede media", "media_id", m.MediaID, "err", err)
		}
	}
}

func (s *service) ListByOwner(ctx context.Context, ownerID string) ([]domain.Media, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// sanitizeFilename strips directory components and keeps only safe characters
// (alphanumeric, dot, dash, underscore) to prevent path traversal in S3 keys.
func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
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
