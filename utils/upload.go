package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrImageTooLarge is returned when an uploaded image exceeds the size limit.
var ErrImageTooLarge = fmt.Errorf("image exceeds size limit")

// SaveImage stores an uploaded image under baseDir/<yyyy>/<mm>/<dd> with a
// collision-free name and returns its public URL path. maxBytes bounds the
// accepted size; anything larger is rejected and nothing is left on disk.
func SaveImage(header *multipart.FileHeader, baseDir string, maxBytes int64) (string, error) {
	if header.Size > 0 && header.Size > maxBytes {
		return "", ErrImageTooLarge
	}

	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	now := time.Now()
	dateDir := filepath.Join(now.Format("2006"), now.Format("01"), now.Format("02"))
	dir := filepath.Join(baseDir, dateDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}

	name := filepath.Base(header.Filename)
	if name == "." || name == "" {
		name = "image"
	}
	safeName := uuid.NewString() + "_" + name
	dstPath := filepath.Join(dir, safeName)

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("save upload: %w", err)
	}
	defer dst.Close()

	lr := &io.LimitedReader{R: src, N: maxBytes + 1}
	written, err := io.Copy(dst, lr)
	if err != nil {
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("write upload: %w", err)
	}
	if written > maxBytes {
		_ = os.Remove(dstPath)
		return "", ErrImageTooLarge
	}

	url := "/" + strings.Join([]string{filepath.ToSlash(baseDir), filepath.ToSlash(dateDir), safeName}, "/")
	return url, nil
}
