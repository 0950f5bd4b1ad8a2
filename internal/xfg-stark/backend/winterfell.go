// Package backend holds the conversion boundary towards external proving
// backends. Only data shapes cross this boundary; no protocol logic lives
// here.
package backend

import (
	"fmt"

	"github.com/vybium/xfg-stark/internal/xfg-stark/core"
	"github.com/vybium/xfg-stark/internal/xfg-stark/protocols"
)

// TraceTable is the row-major trace layout used by the Winterfell prover
// family, as opposed to the column-major ExecutionTrace.
type TraceTable[E core.Element[E]] struct {
	NumRows int
	NumCols int
	Data    []E
}

// NewTraceTable allocates a zeroed table. The seed supplies the field
// parameters.
func NewTraceTable[E core.Element[E]](numRows, numCols int, seed E) (*TraceTable[E], error) {
	if numRows < 1 || numCols < 1 {
		return nil, fmt.Errorf("trace table dimensions must be positive, got %dx%d", numRows, numCols)
	}
	data := make([]E, numRows*numCols)
	zero := seed.Zero()
	for i := range data {
		data[i] = zero
	}
	return &TraceTable[E]{NumRows: numRows, NumCols: numCols, Data: data}, nil
}

// Get returns the value at (row, col).
func (t *TraceTable[E]) Get(row, col int) (E, error) {
	var zero E
	if row < 0 || row >= t.NumRows || col < 0 || col >= t.NumCols {
		return zero, fmt.Errorf("cell (%d, %d) out of range for %dx%d table", row, col, t.NumRows, t.NumCols)
	}
	return t.Data[row*t.NumCols+col], nil
}

// Set writes the value at (row, col).
func (t *TraceTable[E]) Set(row, col int, value E) error {
	if row < 0 || row >= t.NumRows || col < 0 || col >= t.NumCols {
		return fmt.Errorf("cell (%d, %d) out of range for %dx%d table", row, col, t.NumRows, t.NumCols)
	}
	t.Data[row*t.NumCols+col] = value
	return nil
}

// FromTrace converts a column-major execution trace into the row-major
// table layout. Every register value is carried over.
func FromTrace[E core.Element[E]](trace *protocols.ExecutionTrace[E]) (*TraceTable[E], error) {
	if trace == nil {
		return nil, fmt.Errorf("trace must not be nil")
	}
	if err := trace.Validate(); err != nil {
		return nil, fmt.Errorf("invalid trace: %w", err)
	}
	table := &TraceTable[E]{
		NumRows: trace.Length,
		NumCols: trace.NumRegisters,
		Data:    make([]E, trace.Length*trace.NumRegisters),
	}
	for r := 0; r < trace.NumRegisters; r++ {
		for step := 0; step < trace.Length; step++ {
			table.Data[step*table.NumCols+r] = trace.Columns[r][step]
		}
	}
	return table, nil
}

// ToTrace converts a row-major table back into the column-major execution
// trace layout. FromTrace followed by ToTrace is the identity.
func ToTrace[E core.Element[E]](table *TraceTable[E]) (*protocols.ExecutionTrace[E], error) {
	if table == nil {
		return nil, fmt.Errorf("table must not be nil")
	}
	if table.NumRows < 2 || table.NumCols < 1 {
		return nil, fmt.Errorf("table must be at least 2x1, got %dx%d", table.NumRows, table.NumCols)
	}
	if len(table.Data) != table.NumRows*table.NumCols {
		return nil, fmt.Errorf("table data has %d entries, expected %d", len(table.Data), table.NumRows*table.NumCols)
	}
	columns := make([][]E, table.NumCols)
	for r := range columns {
		columns[r] = make([]E, table.NumRows)
		for step := 0; step < table.NumRows; step++ {
			columns[r][step] = table.Data[step*table.NumCols+r]
		}
	}
	trace := &protocols.ExecutionTrace[E]{
		Columns:      columns,
		Length:       table.NumRows,
		NumRegisters: table.NumCols,
	}
	if err := trace.Validate(); err != nil {
		return nil, fmt.Errorf("converted trace is inconsistent: %w", err)
	}
	return trace, nil
}

// ProofOptions mirrors the option surface expected by the Winterfell
// backend. The core treats these as opaque configuration.
type ProofOptions struct {
	BlowupFactor   int
	GrindingFactor int
	HashFunction   string
	SecurityLevel  uint32
	FieldExtension uint32
}

// DefaultProofOptions returns the standard Winterfell-compatible options.
func DefaultProofOptions() ProofOptions {
	return ProofOptions{
		BlowupFactor:   16,
		GrindingFactor: 0,
		HashFunction:   "sha3",
		SecurityLevel:  128,
		FieldExtension: 1,
	}
}

// Validate checks the option ranges the backend accepts.
func (o ProofOptions) Validate() error {
	if o.BlowupFactor < 2 || o.BlowupFactor > 16 {
		return fmt.Errorf("blowup factor must be between 2 and 16, got %d", o.BlowupFactor)
	}
	if o.BlowupFactor&(o.BlowupFactor-1) != 0 {
		return fmt.Errorf("blowup factor must be a power of two, got %d", o.BlowupFactor)
	}
	if o.GrindingFactor < 0 || o.GrindingFactor > 32 {
		return fmt.Errorf("grinding factor must be between 0 and 32, got %d", o.GrindingFactor)
	}
	if o.HashFunction == "" {
		return fmt.Errorf("hash function must be set")
	}
	if o.SecurityLevel == 0 {
		return fmt.Errorf("security level must be positive")
	}
	if o.FieldExtension != 1 {
		return fmt.Errorf("unsupported field extension degree %d", o.FieldExtension)
	}
	return nil
}
