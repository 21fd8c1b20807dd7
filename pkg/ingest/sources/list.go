package sources

import (
	"github.com/catflow/catflow/pkg/ingest/core"
)

// List is a fixed, ordered set of sources. Used where the caller names
// files explicitly instead of enumerating a folder.
type List struct {
	sources []core.Source
}

// NewList creates a list from the given sources, in order.
func NewList(srcs ...core.Source) *List {
	return &List{sources: srcs}
}

// Sources returns all sources.
func (l *List) Sources() []core.Source {
	return l.sources
}

// TotalSize returns total size across all sources.
func (l *List) TotalSize() int64 {
	var total int64
	for _, s := range l.sources {
		total += s.Size()
	}
	return total
}

// Count returns number of sources.
func (l *List) Count() int {
	return len(l.sources)
}
