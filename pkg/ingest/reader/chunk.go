package reader

import (
	"bufio"
	"io"
	"strings"
)

// DefaultChunkSize bounds how many lines are resident at once.
const DefaultChunkSize = 1_000_000

const (
	initialBufSize = 64 * 1024
	maxLineSize    = 4 * 1024 * 1024
)

// ChunkReader is a pull-based, forward-only iterator over a file's lines,
// grouped into chunks of at most chunkSize lines. The final chunk of a
// file may be smaller. At most one chunk is buffered; once Next returns
// false the reader is exhausted and re-reading requires reopening the
// source.
//
//	cr := reader.NewChunkReader(f, reader.EncodingWindows1252, 0)
//	for cr.Next() {
//		process(cr.Chunk())
//	}
//	if err := cr.Err(); err != nil { ... }
type ChunkReader struct {
	scanner   *bufio.Scanner
	chunkSize int
	chunk     []string
	err       error
	done      bool
}

// NewChunkReader creates a chunk iterator over r, decoding under enc.
// chunkSize <= 0 selects DefaultChunkSize.
func NewChunkReader(r io.Reader, enc Encoding, chunkSize int) *ChunkReader {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	scanner := bufio.NewScanner(enc.NewReader(r))
	scanner.Buffer(make([]byte, initialBufSize), maxLineSize)

	return &ChunkReader{
		scanner:   scanner,
		chunkSize: chunkSize,
		chunk:     make([]string, 0, min(chunkSize, 64*1024)),
	}
}

// Next advances to the next chunk. It returns false when the input is
// exhausted or a read error occurred; check Err afterwards.
func (c *ChunkReader) Next() bool {
	if c.done {
		return false
	}

	c.chunk = c.chunk[:0]
	for c.scanner.Scan() {
		line := c.scanner.Text()
		// Tolerate CRLF line endings.
		line = strings.TrimSuffix(line, "\r")
		c.chunk = append(c.chunk, line)
		if len(c.chunk) == c.chunkSize {
			return true
		}
	}

	c.done = true
	c.err = c.scanner.Err()
	return c.err == nil && len(c.chunk) > 0
}

// Chunk returns the current chunk. The returned slice is only valid
// until the next call to Next.
func (c *ChunkReader) Chunk() []string {
	return c.chunk
}

// Err returns the first read error encountered, if any.
func (c *ChunkReader) Err() error {
	return c.err
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
