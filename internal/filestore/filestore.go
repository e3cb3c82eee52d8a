package filestore

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	// Registered decoders determine which upload formats are accepted.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"inkwell/internal/models"

	"github.com/google/uuid"
)

// maxUploadSize caps post images at 10 MiB.
const maxUploadSize = 10 << 20

// DiskStore writes uploaded post images under a root directory.
// Stored paths are relative to the root so they can be served
// from a static route.
type DiskStore struct {
	root string
}

func NewDiskStore(root string) (*DiskStore, error) {
	if err := os.MkdirAll(filepath.Join(root, "posts"), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &DiskStore{root: root}, nil
}

func (s *DiskStore) Root() string {
	return s.root
}

// SaveImage validates and persists an uploaded image, returning the
// stored path relative to the root, e.g. "posts/<uuid>.png".
func (s *DiskStore) SaveImage(fh *multipart.FileHeader) (string, error) {
	if fh.Size > maxUploadSize {
		return "", models.NewValidationError("Image is too large")
	}

	f, err := fh.Open()
	if err != nil {
		return "", models.NewInternalError(err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadSize+1))
	if err != nil {
		return "", models.NewInternalError(err)
	}
	if len(data) > maxUploadSize {
		return "", models.NewValidationError("Image is too large")
	}

	format, err := validateImage(data)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s.%s", uuid.New().String(), format)
	rel := filepath.Join("posts", name)
	if err := os.WriteFile(filepath.Join(s.root, rel), data, 0o644); err != nil {
		return "", models.NewInternalError(err)
	}
	return filepath.ToSlash(rel), nil
}

// Remove deletes a previously stored image. Missing files are not an error.
func (s *DiskStore) Remove(rel string) error {
	if rel == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil && !os.IsNotExist(err) {
		return models.NewInternalError(err)
	}
	return nil
}

// validateImage checks both the sniffed content type and that the bytes
// decode as an image, returning the decoded format name.
func validateImage(data []byte) (string, error) {
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return "", models.NewValidationError("Upload a valid image")
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", models.NewValidationError("Upload a valid image")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return "", models.NewValidationError("Upload a valid image")
	}
	return format, nil
}
