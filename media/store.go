package media

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Store defines the interface for saving, retrieving, and deleting media files.
// every path handed to a Store is relative to its root and uses forward slashes.
type Store interface {
	// Save writes data to relativePath, replacing any existing file
	Save(relativePath string, data io.Reader) error
	// Open retrieves a reader for a stored file
	Open(relativePath string) (io.ReadCloser, os.FileInfo, error)
	// Delete removes a stored file. a file that is already gone is not an error
	Delete(relativePath string) error
	// GetFullPath returns the absolute filesystem path for a relative path
	GetFullPath(relativePath string) (string, error)
	// EnsureDir makes sure a directory below the root exists
	EnsureDir(relativeDir string) error
}

// LocalStorage implements the Store interface using the local filesystem
type LocalStorage struct {
	basePath string // absolute path to MEDIA_ROOT
}

// NewLocalStorage creates a new local filesystem store
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	absBasePath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("invalid base storage path '%s': %w", basePath, err)
	}

	if err := os.MkdirAll(absBasePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base storage directory '%s': %w", absBasePath, err)
	}

	log.Printf("media.store: Initialized LocalStorage at %s", absBasePath)
	return &LocalStorage{basePath: absBasePath}, nil
}

// BasePath returns the absolute root of the store
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}

// EnsureDir creates relativeDir below the root if it doesn't exist
func (ls *LocalStorage) EnsureDir(relativeDir string) error {
	dirPath, err := ls.GetFullPath(relativeDir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dirPath, 0775); err != nil {
		return fmt.Errorf("failed to ensure directory '%s': %w", dirPath, err)
	}
	return nil
}

// Save writes data to the store, truncating an existing file at the same path
func (ls *LocalStorage) Save(relativePath string, data io.Reader) error {
	fullSavePath, err := ls.GetFullPath(relativePath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fullSavePath), 0775); err != nil {
		return fmt.Errorf("failed to create directory for '%s': %w", relativePath, err)
	}

	outFile, err := os.Create(fullSavePath)
	if err != nil {
		return fmt.Errorf("failed to create destination file '%s': %w", fullSavePath, err)
	}
	defer outFile.Close()

	_, err = io.Copy(outFile, data)
	if err != nil {
		outFile.Close()
		os.Remove(fullSavePath)
		return fmt.Errorf("failed to write data to '%s': %w", fullSavePath, err)
	}

	log.Printf("media.store: Saved file to %s", fullSavePath)
	return nil
}

func (ls *LocalStorage) Open(relativePath string) (io.ReadCloser, os.FileInfo, error) {
	fullPath, err := ls.GetFullPath(relativePath)
	if err != nil {
		return nil, nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("file not found at '%s': %w", relativePath, err)
		}
		return nil, nil, fmt.Errorf("failed to open file '%s': %w", relativePath, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("failed to stat file '%s': %w", relativePath, err)
	}

	return file, info, nil
}

// Delete removes a stored file
func (ls *LocalStorage) Delete(relativePath string) error {
	if relativePath == "" {
		return nil
	}
	fullPath, err := ls.GetFullPath(relativePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	err = os.Remove(fullPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file '%s': %w", relativePath, err)
	}
	if err == nil {
		log.Printf("media.store: Deleted file %s", fullPath)
	}
	return nil
}

// GetFullPath calculates the absolute path and performs security check
func (ls *LocalStorage) GetFullPath(relativePath string) (string, error) {
	cleanRelativePath := filepath.Clean(filepath.FromSlash(relativePath))

	absFullPath, err := filepath.Abs(filepath.Join(ls.basePath, cleanRelativePath))
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path for '%s': %w", relativePath, err)
	}

	if absFullPath != ls.basePath && !strings.HasPrefix(absFullPath, ls.basePath+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid path: access denied for '%s'", relativePath)
	}

	return absFullPath, nil
}
