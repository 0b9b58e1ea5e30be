package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultMaxImageSize caps the longer edge of normalized images before
// they are sent to the embedding server.
const DefaultMaxImageSize = 1920

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
}

// Library is a filesystem-backed photo source. Photo IDs are
// slash-separated paths relative to the library root.
type Library struct {
	root         string
	maxImageSize int
}

// NewLibrary creates a photo source over the given directory.
func NewLibrary(root string, maxImageSize int) (*Library, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("library root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("library root %s is not a directory", root)
	}
	if maxImageSize <= 0 {
		maxImageSize = DefaultMaxImageSize
	}
	return &Library{root: root, maxImageSize: maxImageSize}, nil
}

// Photos walks the library and returns descriptors for all image files,
// ordered by modification time with path as tie-break. File birth time is
// not portable, so modification time stands in for creation time.
func (l *Library) Photos(ctx context.Context) ([]PhotoDescriptor, error) {
	var photos []PhotoDescriptor

	err := filepath.WalkDir(l.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}
		if !imageExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		rel, err := filepath.Rel(l.root, path)
		if err != nil {
			return fmt.Errorf("relativize %s: %w", path, err)
		}

		photos = append(photos, PhotoDescriptor{
			PhotoID:    filepath.ToSlash(rel),
			ModifiedAt: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk library: %w", err)
	}

	sort.Slice(photos, func(i, j int) bool {
		if !photos[i].ModifiedAt.Equal(photos[j].ModifiedAt) {
			return photos[i].ModifiedAt.Before(photos[j].ModifiedAt)
		}
		return photos[i].PhotoID < photos[j].PhotoID
	})
	return photos, nil
}

// Describe returns the descriptor for one photo, nil if it no longer exists.
func (l *Library) Describe(ctx context.Context, photoID string) (*PhotoDescriptor, error) {
	path, err := l.resolve(photoID)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat photo %s: %w", photoID, err)
	}

	return &PhotoDescriptor{
		PhotoID:    photoID,
		ModifiedAt: info.ModTime(),
	}, nil
}

// Decode reads the photo and returns normalized image bytes.
func (l *Library) Decode(ctx context.Context, photoID string) ([]byte, error) {
	path, err := l.resolve(photoID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read photo %s: %w", photoID, err)
	}

	normalized, err := normalizeImage(data, l.maxImageSize)
	if err != nil {
		return nil, fmt.Errorf("normalize photo %s: %w", photoID, err)
	}
	return normalized, nil
}

// Exists reports whether the photo still resolves. Transient stat errors
// count as existing so the reaper never deletes on an I/O hiccup.
func (l *Library) Exists(ctx context.Context, photoID string) bool {
	path, err := l.resolve(photoID)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}

// resolve maps a photo ID back to an absolute path, rejecting IDs that
// escape the library root.
func (l *Library) resolve(photoID string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(photoID))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid photo ID %q", photoID)
	}
	return filepath.Join(l.root, clean), nil
}

// Verify interface compliance
var _ PhotoSource = (*Library)(nil)
