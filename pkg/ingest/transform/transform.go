// Package transform turns filtered .CAT lines into typed Arrow records.
package transform

import (
	"strconv"
	"strings"

	"github.com/apache/arrow/go/v14/arrow"
	"github.com/apache/arrow/go/v14/arrow/array"
	"github.com/apache/arrow/go/v14/arrow/memory"

	"github.com/catflow/catflow/pkg/layout"
)

// Filter retains the lines whose leading characters are exactly the
// record-type code. No trimming happens before the test; the type code
// occupies a fixed leading position by file convention.
func Filter(lines []string, code string) []string {
	out := lines[:0:0]
	for _, line := range lines {
		if strings.HasPrefix(line, code) {
			out = append(out, line)
		}
	}
	return out
}

// Transformer converts chunks of one record type into Arrow records.
// The output schema is deterministic per layout: field names minus the
// drop set, in positional order, float64 for numeric fields and nullable
// text otherwise.
type Transformer struct {
	layout layout.Layout
	cols   []layout.Column
	// index of each output column in the decoded value slice
	fieldIndex []int
	schema     *arrow.Schema
	alloc      memory.Allocator
}

// New creates a transformer for a layout.
func New(l layout.Layout) *Transformer {
	cols := l.Columns()

	pos := make(map[string]int, len(l.FieldNames))
	for i, name := range l.FieldNames {
		pos[name] = i
	}

	fieldIndex := make([]int, len(cols))
	fields := make([]arrow.Field, len(cols))
	for i, col := range cols {
		fieldIndex[i] = pos[col.Name]
		dt := arrow.DataType(arrow.BinaryTypes.String)
		if col.Kind == layout.ColumnNumber {
			dt = arrow.PrimitiveTypes.Float64
		}
		fields[i] = arrow.Field{Name: col.Name, Type: dt, Nullable: true}
	}

	return &Transformer{
		layout:     l,
		cols:       cols,
		fieldIndex: fieldIndex,
		schema:     arrow.NewSchema(fields, nil),
		alloc:      memory.DefaultAllocator,
	}
}

// Schema returns the output schema for this transformer's layout.
func (t *Transformer) Schema() *arrow.Schema {
	return t.schema
}

// Transform builds one Arrow record from pre-filtered lines. A chunk
// yielding zero rows produces no record at all; callers must release
// the returned record.
func (t *Transformer) Transform(lines []string) arrow.Record {
	if len(lines) == 0 {
		return nil
	}

	builders := t.createBuilders()
	defer releaseBuilders(builders)

	for _, line := range lines {
		values := t.layout.Decode(line)
		t.appendRow(builders, values)
	}

	arrays := make([]arrow.Array, len(builders))
	for i, b := range builders {
		arrays[i] = b.NewArray()
	}
	defer func() {
		for _, a := range arrays {
			a.Release()
		}
	}()

	return array.NewRecord(t.schema, arrays, int64(len(lines)))
}

func (t *Transformer) createBuilders() []array.Builder {
	builders := make([]array.Builder, len(t.cols))
	for i, col := range t.cols {
		if col.Kind == layout.ColumnNumber {
			builders[i] = array.NewFloat64Builder(t.alloc)
		} else {
			builders[i] = array.NewStringBuilder(t.alloc)
		}
		builders[i].Reserve(1024)
	}
	return builders
}

func releaseBuilders(builders []array.Builder) {
	for _, b := range builders {
		b.Release()
	}
}

// appendRow appends one decoded line to the builders. Unparseable
// numeric cells and empty or all-whitespace text cells become null;
// a single bad cell never aborts the chunk.
func (t *Transformer) appendRow(builders []array.Builder, values []string) {
	for i, col := range t.cols {
		s := values[t.fieldIndex[i]]

		if col.Kind == layout.ColumnNumber {
			v, err := strconv.ParseFloat(s, 64)
			if s == "" || err != nil {
				builders[i].AppendNull()
			} else {
				builders[i].(*array.Float64Builder).Append(v * col.Factor)
			}
			continue
		}

		// Decode already trimmed; empty text normalizes to null so
		// downstream consumers never see "" and NULL as distinct values.
		if s == "" {
			builders[i].AppendNull()
		} else {
			builders[i].(*array.StringBuilder).Append(s)
		}
	}
}
