package reader

import (
	"fmt"
	"strings"
	"testing"

	"github.com/catflow/catflow/pkg/errors"
)

func TestChunkReader_Chunking(t *testing.T) {
	tests := []struct {
		name       string
		lines      int
		chunkSize  int
		wantChunks []int
	}{
		{"exact multiple", 6, 3, []int{3, 3}},
		{"final partial chunk", 7, 3, []int{3, 3, 1}},
		{"single short chunk", 2, 100, []int{2}},
		{"chunk size one", 3, 1, []int{1, 1, 1}},
		{"empty input", 0, 3, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sb strings.Builder
			for i := 0; i < tt.lines; i++ {
				fmt.Fprintf(&sb, "line%d\n", i)
			}

			cr := NewChunkReader(strings.NewReader(sb.String()), EncodingUTF8, tt.chunkSize)

			var got []int
			for cr.Next() {
				got = append(got, len(cr.Chunk()))
			}
			if err := cr.Err(); err != nil {
				t.Fatalf("Read error: %v", err)
			}

			if len(got) != len(tt.wantChunks) {
				t.Fatalf("Got %d chunks %v, want %v", len(got), got, tt.wantChunks)
			}
			for i := range tt.wantChunks {
				if got[i] != tt.wantChunks[i] {
					t.Errorf("Chunk %d has %d lines, want %d", i, got[i], tt.wantChunks[i])
				}
			}
		})
	}
}

func TestChunkReader_LineContent(t *testing.T) {
	input := "first\nsecond\nthird\n"
	cr := NewChunkReader(strings.NewReader(input), EncodingUTF8, 2)

	if !cr.Next() {
		t.Fatal("Expected first chunk")
	}
	chunk := cr.Chunk()
	if chunk[0] != "first" || chunk[1] != "second" {
		t.Errorf("First chunk = %v", chunk)
	}

	if !cr.Next() {
		t.Fatal("Expected second chunk")
	}
	chunk = cr.Chunk()
	if len(chunk) != 1 || chunk[0] != "third" {
		t.Errorf("Second chunk = %v", chunk)
	}

	if cr.Next() {
		t.Error("Expected exhaustion after final chunk")
	}
}

func TestChunkReader_CRLF(t *testing.T) {
	cr := NewChunkReader(strings.NewReader("one\r\ntwo\r\n"), EncodingUTF8, 0)

	if !cr.Next() {
		t.Fatal("Expected a chunk")
	}
	chunk := cr.Chunk()
	if chunk[0] != "one" || chunk[1] != "two" {
		t.Errorf("CRLF not stripped: %q", chunk)
	}
}

func TestChunkReader_NoTrailingNewline(t *testing.T) {
	cr := NewChunkReader(strings.NewReader("only"), EncodingUTF8, 0)

	if !cr.Next() {
		t.Fatal("Expected a chunk")
	}
	if len(cr.Chunk()) != 1 || cr.Chunk()[0] != "only" {
		t.Errorf("Chunk = %v", cr.Chunk())
	}
}

func TestChunkReader_Windows1252(t *testing.T) {
	// 0xE9 is é in cp1252, 0x80 is the euro sign.
	raw := []byte{'c', 'a', 'f', 0xE9, ' ', 0x80, '\n'}
	cr := NewChunkReader(strings.NewReader(string(raw)), EncodingWindows1252, 0)

	if !cr.Next() {
		t.Fatal("Expected a chunk")
	}
	if got := cr.Chunk()[0]; got != "café €" {
		t.Errorf("Decoded line = %q, want %q", got, "café €")
	}
}

func TestChunkReader_Latin1(t *testing.T) {
	raw := []byte{'J', 'o', 's', 0xE9, '\n'}
	cr := NewChunkReader(strings.NewReader(string(raw)), EncodingLatin1, 0)

	if !cr.Next() {
		t.Fatal("Expected a chunk")
	}
	if got := cr.Chunk()[0]; got != "José" {
		t.Errorf("Decoded line = %q, want %q", got, "José")
	}
}

func TestChunkReader_InvalidUTF8Replaced(t *testing.T) {
	raw := []byte{'a', 0xFF, 'b', '\n'}
	cr := NewChunkReader(strings.NewReader(string(raw)), EncodingUTF8, 0)

	if !cr.Next() {
		t.Fatalf("Expected a chunk, err: %v", cr.Err())
	}
	if got := cr.Chunk()[0]; got != "a�b" {
		t.Errorf("Decoded line = %q, want replacement character", got)
	}
}

func TestParseEncoding(t *testing.T) {
	tests := []struct {
		in   string
		want Encoding
	}{
		{"", EncodingWindows1252},
		{"cp1252", EncodingWindows1252},
		{"Windows-1252", EncodingWindows1252},
		{"latin1", EncodingLatin1},
		{"ISO-8859-1", EncodingLatin1},
		{"utf-8", EncodingUTF8},
		{"UTF8", EncodingUTF8},
	}

	for _, tt := range tests {
		got, err := ParseEncoding(tt.in)
		if err != nil {
			t.Errorf("ParseEncoding(%q) failed: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseEncoding(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	_, err := ParseEncoding("ebcdic")
	if err == nil {
		t.Fatal("Expected error for unknown encoding")
	}
	if !errors.IsCode(err, errors.CodeEncodingError) {
		t.Errorf("Expected %s, got %s", errors.CodeEncodingError, errors.GetCode(err))
	}
}
