// Package schema fixes the output schema on the first batch of a run
// and holds every later batch to it.
package schema

import (
	"fmt"
	"strings"

	"github.com/apache/arrow/go/v14/arrow"
	"github.com/apache/arrow/go/v14/arrow/array"

	"github.com/catflow/catflow/pkg/errors"
)

// Binder enforces the fixed-on-first-batch rule. The first record it
// sees binds the output schema; every subsequent record is either cast
// to that schema (column reorder only) or rejected as schema drift.
// Post-hoc schema evolution would corrupt rows already written, so
// drift is always fatal.
type Binder struct {
	bound *arrow.Schema
}

// NewBinder creates an unbound Binder.
func NewBinder() *Binder {
	return &Binder{}
}

// Bound returns the fixed schema, or nil before the first batch.
func (b *Binder) Bound() *arrow.Schema {
	return b.bound
}

// Conform validates a record against the bound schema, binding it first
// if this is the first record of the run. The returned record is
// independently retained; the caller releases it as well as the input.
func (b *Binder) Conform(rec arrow.Record) (arrow.Record, error) {
	if b.bound == nil {
		b.bound = rec.Schema()
		rec.Retain()
		return rec, nil
	}

	if rec.Schema().Equal(b.bound) {
		rec.Retain()
		return rec, nil
	}

	return b.cast(rec)
}

// cast rebuilds the record with columns in the bound order. Any column
// the bound schema lacks, any bound column the record lacks, and any
// type mismatch is fatal drift.
func (b *Binder) cast(rec arrow.Record) (arrow.Record, error) {
	in := rec.Schema()

	if in.NumFields() != b.bound.NumFields() {
		return nil, errors.SchemaDrift(fmt.Sprintf(
			"column count changed: fixed schema has %d columns, batch has %d",
			b.bound.NumFields(), in.NumFields()))
	}

	cols := make([]arrow.Array, b.bound.NumFields())
	for i, want := range b.bound.Fields() {
		indices := in.FieldIndices(want.Name)
		if len(indices) == 0 {
			return nil, errors.SchemaDrift(fmt.Sprintf(
				"batch lacks column %q required by the fixed schema", want.Name))
		}
		idx := indices[0]

		got := in.Field(idx)
		if !arrow.TypeEqual(got.Type, want.Type) {
			return nil, errors.SchemaDrift(fmt.Sprintf(
				"column %q has type %s, fixed schema requires %s",
				want.Name, got.Type, want.Type))
		}

		cols[i] = rec.Column(idx)
	}

	// NewRecord retains the columns, so the cast record stays valid
	// after the caller releases the input record.
	return array.NewRecord(b.bound, cols, rec.NumRows()), nil
}

// Describe renders a schema as "name:type, ..." for progress output
// and error messages.
func Describe(s *arrow.Schema) string {
	if s == nil {
		return "(unbound)"
	}
	parts := make([]string, s.NumFields())
	for i, f := range s.Fields() {
		parts[i] = f.Name + ":" + f.Type.String()
	}
	return strings.Join(parts, ", ")
}
