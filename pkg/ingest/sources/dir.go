package sources

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/catflow/catflow/pkg/errors"
	"github.com/catflow/catflow/pkg/ingest/core"
)

// DirSource provides all .CAT files under a folder, in sorted order so
// runs over the same folder are deterministic.
type DirSource struct {
	dir     string
	sources []*FileSource
}

// NewDirSource enumerates .CAT files in a folder. An empty result is a
// fatal pre-run error: a run with nothing to extract is a caller mistake,
// not an empty success.
func NewDirSource(dir string) (*DirSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.FileNotFound(dir)
		}
		return nil, err
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !IsCatFile(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)

	sources := make([]*FileSource, 0, len(paths))
	for _, path := range paths {
		src, err := NewFileSource(path)
		if err != nil {
			continue // skip files that vanished or are unreadable
		}
		sources = append(sources, src)
	}

	if len(sources) == 0 {
		return nil, errors.NoInputFiles(dir)
	}

	return &DirSource{
		dir:     dir,
		sources: sources,
	}, nil
}

// Sources returns all matched sources.
func (d *DirSource) Sources() []core.Source {
	result := make([]core.Source, len(d.sources))
	for i, s := range d.sources {
		result[i] = s
	}
	return result
}

// TotalSize returns total size across all sources.
func (d *DirSource) TotalSize() int64 {
	var total int64
	for _, s := range d.sources {
		total += s.Size()
	}
	return total
}

// Count returns number of sources.
func (d *DirSource) Count() int {
	return len(d.sources)
}

// Dir returns the folder that was enumerated.
func (d *DirSource) Dir() string {
	return d.dir
}
