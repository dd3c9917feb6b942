package media

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/YogeshxSaini/bluestock/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockObjectStore struct {
	mock.Mock
	uploaded []byte
}

func (m *mockObjectStore) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	b, _ := io.ReadAll(r)
	m.uploaded = b
	args := m.Called(ctx, key, contentType)
	return args.String(0), args.Error(1)
}
func (m *mockObjectStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type mockMediaStore struct{ mock.Mock }

func (m *mockMediaStore) Put(ctx context.Context, md *domain.Media) error {
	return m.Called(ctx, md).Error(0)
}
func (m *mockMediaStore) ListByOwner(ctx context.Context, ownerID string) ([]domain.Media, error) {
	args := m.Called(ctx, ownerID)
	items, _ := args.Get(0).([]domain.Media)
	return items, args.Error(1)
}
func (m *mockMediaStore) Supersede(ctx context.Context, mediaID string, at time.Time) error {
	return m.Called(ctx, mediaID, at).Error(0)
}

// pngBytes is a minimal PNG signature followed by filler.
func pngBytes() []byte {
	return append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 600)...)
}

func TestUpload_Success(t *testing.T) {
	store := &mockObjectStore{}
	repo := &mockMediaStore{}
	data := pngBytes()
	store.On("Upload", mock.Anything, mock.MatchedBy(func(k string) bool {
		return len(k) > 0 && bytes.HasPrefix([]byte(k), []byte("company/logos/owner-1/")) && bytes.HasSuffix([]byte(k), []byte("-my_logo.png"))
	}), "image/png").Return("https://cdn/x.png", nil)
	repo.On("Put", mock.Anything, mock.AnythingOfType("*domain.Media")).Return(nil)
	repo.On("ListByOwner", mock.Anything, "owner-1").Return([]domain.Media{
		{MediaID: "old-logo", Kind: domain.MediaLogo, Current: true},
		{MediaID: "old-banner", Kind: domain.MediaBanner, Current: true},
		{MediaID: "older-logo", Kind: domain.MediaLogo, Current: false},
	}, nil)
	repo.On("Supersede", mock.Anything, "old-logo", mock.Anything).Return(nil)

	m, err := NewService(store, repo, 5<<20).Upload(context.Background(), UploadInput{
		Reader: bytes.NewReader(data), Filename: "../my logo.png", Size: int64(len(data)), OwnerID: "owner-1", Kind: domain.MediaLogo,
	})
	require.NoError(t, err)

	sum := sha256.Sum256(data)
	assert.Equal(t, hex.EncodeToString(sum[:]), m.Hash)
	assert.Equal(t, data, store.uploaded)
	assert.Equal(t, "https://cdn/x.png", m.URL)
	assert.Equal(t, "image/png", m.ContentType)
	assert.True(t, m.Current)
	repo.AssertNumberOfCalls(t, "Supersede", 1)
}

func TestUpload_Rejects(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     []byte
		size     int64
		kind     string
	}{
		{"too large", "a.png", pngBytes(), 6 << 20, domain.MediaLogo},
		{"empty", "a.png", nil, 0, domain.MediaLogo},
		{"pdf extension", "a.pdf", []byte("%PDF-1.4"), 8, domain.MediaLogo},
		{"content does not match extension", "a.jpg", pngBytes(), 608, domain.MediaBanner},
		{"text disguised as image", "a.png", []byte("hello world"), 11, domain.MediaLogo},
		{"unknown kind", "a.png", pngBytes(), 608, "avatar"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockObjectStore{}
			svc := NewService(store, &mockMediaStore{}, 5<<20)
			_, err := svc.Upload(context.Background(), UploadInput{
				Reader: bytes.NewReader(tt.data), Filename: tt.filename, Size: tt.size, OwnerID: "o", Kind: tt.kind,
			})
			assert.ErrorIs(t, err, domain.ErrValidation)
			store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestUpload_CatalogFailureRemovesObject(t *testing.T) {
	store := &mockObjectStore{}
	repo := &mockMediaStore{}
	store.On("Upload", mock.Anything, mock.Anything, "image/png").Return("https://cdn/x.png", nil)
	store.On("Delete", mock.Anything, mock.Anything).Return(nil)
	repo.On("Put", mock.Anything, mock.Anything).Return(errors.New("dynamo down"))

	_, err := NewService(store, repo, 5<<20).Upload(context.Background(), UploadInput{
		Reader: bytes.NewReader(pngBytes()), Filename: "a.png", Size: 608, OwnerID: "o", Kind: domain.MediaLogo,
	})
	require.Error(t, err)
	store.AssertCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "passwd", sanitizeFilename("../../etc/passwd"))
	assert.Equal(t, "evil.png", sanitizeFilename(`C:\temp\evil.png`))
	assert.Equal(t, "my_logo__1_.png", sanitizeFilename("my logo (1).png"))
	assert.Equal(t, "_", sanitizeFilename("."))
}
