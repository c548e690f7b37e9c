package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoding
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/storage"
	"golang.org/x/image/draw"
)

// ErrUnsupportedImage is returned for anything other than a decodable jpg or png.
var ErrUnsupportedImage = errors.New("invalid file type: only jpg, jpeg, png allowed")

// logoMaxSide bounds the longest edge of stored logos.
const logoMaxSide = 512

type FileService interface {
	// UploadCompanyLogo stores a resized JPEG copy of the logo and returns its public URL.
	UploadCompanyLogo(ctx context.Context, companyID string, file io.Reader, filename string) (string, error)
	DeleteFile(ctx context.Context, path string) error
	GetFileURL(ctx context.Context, path string, expiry time.Duration) (string, error)
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

// UploadCompanyLogo implements FileService.
func (s *fileServiceImpl) UploadCompanyLogo(ctx context.Context, companyID string, file io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		return "", ErrUnsupportedImage
	}

	img, _, err := image.Decode(file)
	if err != nil {
		return "", ErrUnsupportedImage
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, fitWithin(img, logoMaxSide), &jpeg.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("failed to encode logo: %w", err)
	}

	path := filepath.Join("logos", companyID, uuid.New().String()+".jpg")
	uploadedPath, err := s.storage.Upload(ctx, buf, path, "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("failed to upload company logo: %w", err)
	}

	return s.storage.GetURL(ctx, uploadedPath, 0)
}

// DeleteFile deletes a file
func (s *fileServiceImpl) DeleteFile(ctx context.Context, path string) error {
	return s.storage.Delete(ctx, path)
}

// GetFileURL generates URL to access file
func (s *fileServiceImpl) GetFileURL(ctx context.Context, path string, expiry time.Duration) (string, error) {
	return s.storage.GetURL(ctx, path, expiry)
}

// fitWithin scales img down so neither side exceeds maxSide, keeping the aspect ratio.
// Smaller images are returned untouched.
func fitWithin(img image.Image, maxSide int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxSide && h <= maxSide {
		return img
	}

	if w >= h {
		h = h * maxSide / w
		w = maxSide
	} else {
		w = w * maxSide / h
		h = maxSide
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	// CatmullRom for high-quality downscaling
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
