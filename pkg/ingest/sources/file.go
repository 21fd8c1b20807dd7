// Package sources provides Source implementations for .CAT input files.
package sources

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileSource implements core.Source for a local file.
type FileSource struct {
	path string
	info os.FileInfo
}

// NewFileSource creates a new file source.
func NewFileSource(path string) (*FileSource, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	return &FileSource{
		path: path,
		info: info,
	}, nil
}

func (f *FileSource) ID() string         { return f.path }
func (f *FileSource) Location() string   { return f.path }
func (f *FileSource) Size() int64        { return f.info.Size() }
func (f *FileSource) ModTime() time.Time { return f.info.ModTime() }

// Open returns a reader for the file.
func (f *FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	return os.Open(f.path)
}

// IsCatFile reports whether a path carries the .CAT extension.
// Exchange files arrive with both upper- and lower-case extensions.
func IsCatFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".cat")
}
