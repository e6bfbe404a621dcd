package fsxlocal

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Abraxas-365/activemail/pkg/fsx"
)

// LocalFileSystem implements fsx.FileSystem using local disk
type LocalFileSystem struct {
	basePath string // Root directory for all files
}

// NewLocalFileSystem creates a new local file system rooted at basePath,
// creating the directory when missing.
func NewLocalFileSystem(basePath string) (*LocalFileSystem, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	return &LocalFileSystem{
		basePath: absPath,
	}, nil
}

// ============================================================================
// FileReader Implementation
// ============================================================================

func (lfs *LocalFileSystem) ReadFile(_ context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(lfs.fullPath(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fsx.NotFound(path)
		}
		return nil, fsx.Wrap(fsx.ErrRead, path, err)
	}
	return data, nil
}

func (lfs *LocalFileSystem) List(_ context.Context, path string) ([]fsx.FileInfo, error) {
	entries, err := os.ReadDir(lfs.fullPath(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fsx.NotFound(path)
		}
		return nil, fsx.Wrap(fsx.ErrList, path, err)
	}

	fileInfos := make([]fsx.FileInfo, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue // Skip files with errors
		}

		fileInfos = append(fileInfos, fsx.FileInfo{
			Name:    info.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
			IsDir:   info.IsDir(),
		})
	}

	return fileInfos, nil
}

func (lfs *LocalFileSystem) Exists(_ context.Context, path string) (bool, error) {
	_, err := os.Stat(lfs.fullPath(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fsx.Wrap(fsx.ErrRead, path, err)
	}
	return true, nil
}

// ============================================================================
// FileWriter Implementation
// ============================================================================

func (lfs *LocalFileSystem) WriteFile(_ context.Context, path string, data []byte) error {
	fullPath := lfs.fullPath(path)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fsx.Wrap(fsx.ErrWrite, path, err)
	}

	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return fsx.Wrap(fsx.ErrWrite, path, err)
	}

	return nil
}

// ============================================================================
// FileDeleter Implementation
// ============================================================================

func (lfs *LocalFileSystem) DeleteFile(_ context.Context, path string) error {
	if err := os.Remove(lfs.fullPath(path)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fsx.Wrap(fsx.ErrDelete, path, err)
	}
	return nil
}

// fullPath converts a relative path to absolute path
func (lfs *LocalFileSystem) fullPath(path string) string {
	return filepath.Join(lfs.basePath, filepath.Clean("/"+path))
}

// BasePath returns the root directory
func (lfs *LocalFileSystem) BasePath() string {
	return lfs.basePath
}
