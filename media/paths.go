package media

import (
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
)

// ThumbnailDir is the directory, next to an original, holding its derivatives
const ThumbnailDir = "thumbnails"

// AllocateUploadPath returns a fresh, collision-free storage path for an
// uploaded file:
//
//	photo/bc31d8ba49c149598f83cf6c64eed500.jpg
//
// the extension is kept but lowercased.
func AllocateUploadPath(entityType, originalFilename string) string {
	_, ext := SplitExtension(originalFilename)
	token := strings.ReplaceAll(uuid.New().String(), "-", "")
	if ext != "" {
		token += "." + ext
	}
	return path.Join(entityType, token)
}

// ThumbnailPath returns the derivative path for an original and a size key.
// the result only depends on its inputs so regenerating overwrites in place:
//
//	photo/bc31d8ba49c149598f83cf6c64eed500.jpg
//	photo/thumbnails/bc31d8ba49c149598f83cf6c64eed500-800x600-thumb.jpg
func ThumbnailPath(originalPath, size string) string {
	dir, base := path.Split(originalPath)
	ext := path.Ext(base)
	name := strings.TrimSuffix(base, ext)
	return path.Join(dir, ThumbnailDir, fmt.Sprintf("%s-%s%s", name, size, ext))
}

// AllocateThumbnailPath is ThumbnailPath plus making sure the thumbnail
// directory exists in store.
func AllocateThumbnailPath(store Store, originalPath, size string) (string, error) {
	thumbPath := ThumbnailPath(originalPath, size)
	if err := store.EnsureDir(path.Dir(thumbPath)); err != nil {
		return "", fmt.Errorf("failed to prepare thumbnail directory for %s: %w", originalPath, err)
	}
	return thumbPath, nil
}
