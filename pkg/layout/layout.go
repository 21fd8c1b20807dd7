// Package layout holds the positional field layouts for the cadastral
// .CAT exchange format. Each record type is described by one immutable
// table of cumulative field-end offsets, validated once at startup.
package layout

import (
	"fmt"
	"strings"
)

// Layout describes how one record type slices into named fields.
// FieldEndOffsets are cumulative character positions from line start,
// not lengths: positions i and i+1 bound one field, with an implicit
// leading field [0, offsets[0]) and an implicit trailing field running
// to end of line. FieldNames therefore has len(FieldEndOffsets)+1 entries.
type Layout struct {
	// Code is the record-type prefix at the start of each line.
	Code string

	// FieldEndOffsets, strictly increasing.
	FieldEndOffsets []int

	// FieldNames in positional order, one per span.
	FieldNames []string

	// DropFields are decoded but excluded from the output.
	DropFields map[string]bool

	// ScaledFields maps a field name to its numeric scale factor.
	// Factor 1 means plain numeric; 0.01 and 0.001 shift the decimal
	// point of integers stored without one.
	ScaledFields map[string]float64
}

// Validate checks the layout invariants. A failure here is a
// configuration bug, not bad input, and is caught once at registry
// construction rather than on first use.
func (l Layout) Validate() error {
	if l.Code == "" {
		return fmt.Errorf("layout has empty record-type code")
	}

	spans := len(l.FieldEndOffsets) + 1
	if len(l.FieldNames) != spans {
		return fmt.Errorf("table %s: %d field names for %d spans", l.Code, len(l.FieldNames), spans)
	}

	prev := -1
	for i, off := range l.FieldEndOffsets {
		if off <= prev {
			return fmt.Errorf("table %s: offset %d at index %d not strictly increasing", l.Code, off, i)
		}
		prev = off
	}

	names := make(map[string]bool, len(l.FieldNames))
	for _, n := range l.FieldNames {
		names[n] = true
	}
	for n := range l.DropFields {
		if !names[n] {
			return fmt.Errorf("table %s: drop field %q not in field names", l.Code, n)
		}
	}
	for n, factor := range l.ScaledFields {
		if !names[n] {
			return fmt.Errorf("table %s: scaled field %q not in field names", l.Code, n)
		}
		switch factor {
		case 1, 0.01, 0.001:
		default:
			return fmt.Errorf("table %s: scaled field %q has unsupported factor %v", l.Code, n, factor)
		}
	}

	return nil
}

// Decode slices one raw line into trimmed field values, positionally
// aligned with FieldNames. Lines shorter than an offset yield empty or
// truncated trailing fields; .CAT files legitimately omit trailing
// optional fields, so this is never an error.
func (l Layout) Decode(line string) []string {
	// Offsets address character positions, not bytes: the source
	// encoding is single-byte but the decoded line is UTF-8.
	runes := []rune(line)

	values := make([]string, len(l.FieldNames))
	start := 0
	for i := range l.FieldNames {
		end := len(runes)
		if i < len(l.FieldEndOffsets) {
			end = l.FieldEndOffsets[i]
		}
		if end > len(runes) {
			end = len(runes)
		}
		if start >= len(runes) || start >= end {
			values[i] = ""
		} else {
			values[i] = strings.TrimSpace(string(runes[start:end]))
		}
		start = end
	}
	return values
}

// MaxOffset returns the largest configured field-end offset.
func (l Layout) MaxOffset() int {
	if len(l.FieldEndOffsets) == 0 {
		return 0
	}
	return l.FieldEndOffsets[len(l.FieldEndOffsets)-1]
}

// ColumnKind distinguishes output column types.
type ColumnKind uint8

const (
	ColumnText ColumnKind = iota
	ColumnNumber
)

// Column is one column of the output plan for a layout.
type Column struct {
	Name   string
	Kind   ColumnKind
	Factor float64 // scale factor for number columns
}

// Columns returns the output column plan: FieldNames minus DropFields,
// in positional order, with numeric columns marked.
func (l Layout) Columns() []Column {
	cols := make([]Column, 0, len(l.FieldNames))
	for _, name := range l.FieldNames {
		if l.DropFields[name] {
			continue
		}
		if factor, ok := l.ScaledFields[name]; ok {
			cols = append(cols, Column{Name: name, Kind: ColumnNumber, Factor: factor})
		} else {
			cols = append(cols, Column{Name: name, Kind: ColumnText})
		}
	}
	return cols
}
