package brainfuck

import (
	"fmt"
)

var ErrOutOfBounds error = fmt.Errorf("pointer out of bounds")

// MAX_TAPE_CELLS is the ceiling applied when a TapeConfig sets no limit.
const MAX_TAPE_CELLS = 1 << 28

type TapeConfig struct {
	CellCount    uint64
	MaxCellCount uint64
}

// Tape is the cell memory of a machine. The pointer may legally rest on
// index CellCount, one past the last storage cell, because the right bound is
// checked before moving. Cells carries one guard byte so that position is
// still addressable.
type Tape struct {
	cells         []uint8
	CellCount     uint64
	MemoryPointer uint64
}

func NewTape(cellCount uint64) *Tape {
	return &Tape{
		cells:         make([]uint8, cellCount+1),
		CellCount:     cellCount,
		MemoryPointer: 0,
	}
}

// NewTapeFromConfig refuses empty tapes and tapes above the configured
// ceiling with ErrAllocationFailure instead of letting make() panic. A zero
// MaxCellCount means MAX_TAPE_CELLS.
func NewTapeFromConfig(tc *TapeConfig) (*Tape, error) {
	if tc.CellCount == 0 {
		return nil, fmt.Errorf("Failed to allocate tape. Cell count must be greater than zero: %w", ErrAllocationFailure)
	}
	limit := tc.MaxCellCount
	if limit == 0 {
		limit = MAX_TAPE_CELLS
	}
	if tc.CellCount > limit {
		return nil, fmt.Errorf("Failed to allocate tape. Cell count [%d] is greater than limit [%d]: %w", tc.CellCount, limit, ErrAllocationFailure)
	}
	return NewTape(tc.CellCount), nil
}

func (t *Tape) Reset() {
	for i := range t.cells {
		t.cells[i] = 0
	}
	t.MemoryPointer = 0
}

// Cells returns the storage cells, excluding the guard byte.
func (t *Tape) Cells() []uint8 {
	return t.cells[:t.CellCount]
}

// At returns the cell at index i. Index CellCount reads the guard byte.
func (t *Tape) At(i uint64) uint8 {
	return t.cells[i]
}

func (t *Tape) Read() uint8 {
	return t.cells[t.MemoryPointer]
}

func (t *Tape) Write(val uint8) {
	t.cells[t.MemoryPointer] = val
}

func (t *Tape) MovePointerLeft() (bool, error) {
	if t.MemoryPointer == 0 {
		return false, fmt.Errorf("Failed to move memory pointer [%d] left. Out of bounds (Memory length: [%d]): %w", t.MemoryPointer, t.CellCount, ErrOutOfBounds)
	}
	t.MemoryPointer = t.MemoryPointer - 1
	return true, nil
}

func (t *Tape) MovePointerRight() (bool, error) {
	if t.MemoryPointer >= t.CellCount {
		return false, fmt.Errorf("Failed to move memory pointer [%d] right. Out of bounds (Memory length: [%d]): %w", t.MemoryPointer, t.CellCount, ErrOutOfBounds)
	}
	t.MemoryPointer = t.MemoryPointer + 1
	return true, nil
}

// Increment and Decrement wrap around at the byte boundary.
func (t *Tape) Increment() {
	t.cells[t.MemoryPointer]++
}

func (t *Tape) Decrement() {
	t.cells[t.MemoryPointer]--
}
