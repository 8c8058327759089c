// Package blob изображения товаров на локальном диске, раздаваемые по /uploads.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

var allowedExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true}

// FileStore кладёт файлы в dir/<folder>/<uuid><ext> и отдаёт ссылку baseURL/<folder>/<file>
type FileStore struct {
	dir     string
	baseURL string
}

func NewFileStore(dir, baseURL string) *FileStore {
	return &FileStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

var _ repository.ImageStore = (*FileStore)(nil)

func (s *FileStore) Upload(ctx context.Context, folder, filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExt[ext] {
		return "", fmt.Errorf("%w: unsupported image type %q", domain.ErrInvalid, ext)
	}
	folder, err := cleanRel(folder)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	rel := path.Join(folder, uuid.NewString()+ext)
	full := filepath.Join(s.dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(full)
		return "", fmt.Errorf("upload image: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	return s.baseURL + "/" + rel, nil
}

// Delete принимает ссылку, выданную Upload, или относительный путь
func (s *FileStore) Delete(ctx context.Context, ref string) error {
	rel := strings.TrimPrefix(ref, s.baseURL+"/")
	rel, err := cleanRel(rel)
	if err != nil {
		return err
	}
	if rel == "" {
		return fmt.Errorf("%w: empty image reference", domain.ErrInvalid)
	}
	if err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(rel))); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}

func cleanRel(p string) (string, error) {
	p = strings.ReplaceAll(p, "\\", "/")
	for _, part := range strings.Split(p, "/") {
		if part == ".." {
			return "", fmt.Errorf("%w: path escapes storage root", domain.ErrInvalid)
		}
	}
	return strings.Trim(path.Clean("/"+p), "/"), nil
}
