package fsx

import (
	"context"
	"time"

	"github.com/Abraxas-365/activemail/pkg/errx"
)

var fsxErrors = errx.NewRegistry("FSX")

var (
	ErrNotFound = fsxErrors.Register("NOT_FOUND", errx.TypeNotFound, 404, "File not found")
	ErrRead     = fsxErrors.Register("READ", errx.TypeExternal, 500, "Failed to read file")
	ErrWrite    = fsxErrors.Register("WRITE", errx.TypeExternal, 500, "Failed to write file")
	ErrList     = fsxErrors.Register("LIST", errx.TypeExternal, 500, "Failed to list directory")
	ErrDelete   = fsxErrors.Register("DELETE", errx.TypeExternal, 500, "Failed to delete file")
)

// FileInfo represents information about a file
type FileInfo struct {
	Name    string    // Base name of the file
	Size    int64     // File size in bytes
	ModTime time.Time // Modification time
	IsDir   bool      // Is a directory
}

// FileReader provides read-only operations
type FileReader interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	List(ctx context.Context, path string) ([]FileInfo, error)
	Exists(ctx context.Context, path string) (bool, error)
}

// FileWriter provides write operations
type FileWriter interface {
	WriteFile(ctx context.Context, path string, data []byte) error
}

// FileDeleter provides deletion operations
type FileDeleter interface {
	// DeleteFile removes path. Deleting a missing file is not an error.
	DeleteFile(ctx context.Context, path string) error
}

// FileSystem combines all file operations
type FileSystem interface {
	FileReader
	FileWriter
	FileDeleter
}

// NotFound builds the error backends return for a missing path.
func NotFound(path string) *errx.Error {
	return fsxErrors.New(ErrNotFound).WithDetail("path", path)
}

// Wrap builds a backend error for op on path.
func Wrap(code *errx.ErrorCode, path string, err error) *errx.Error {
	return fsxErrors.NewWithCause(code, err).WithDetail("path", path)
}

// IsNotFound reports whether err means the path does not exist.
func IsNotFound(err error) bool {
	return errx.HasCode(err, ErrNotFound)
}
