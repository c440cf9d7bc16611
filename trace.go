package tapebf

import (
	"fmt"
	"io"
	"strings"

	bf "nickandperla.net/tapebf/brainfuck"
)

// StateTracer prints every executed instruction and the tape window after it.
type StateTracer struct {
	Out io.Writer
}

func (s *StateTracer) Instruction(pc int, op bf.OP) {
	fmt.Fprintf(s.Out, "[%d]: ", pc)
	s.Out.Write([]byte{byte(op), '\n'})
}

func (s *StateTracer) State(m *bf.Machine) {
	if m.Program.Exhausted() {
		fmt.Fprint(s.Out, "FINAL STATE:")
	}
	fmt.Fprintln(s.Out)
	fmt.Fprint(s.Out, RenderWindow(m.Tape))
}

// windowBounds picks up to TRACE_WINDOW cells around the pointer. The window
// stays inside the tape, and takes in the guard cell only while the pointer
// rests on it.
func windowBounds(tape *bf.Tape) (uint64, uint64) {
	view := tape.CellCount
	if tape.MemoryPointer >= view {
		view = tape.MemoryPointer + 1
	}
	width := uint64(TRACE_WINDOW)
	if view < width {
		width = view
	}

	var lo uint64
	if tape.MemoryPointer > TRACE_WINDOW/2 {
		lo = tape.MemoryPointer - TRACE_WINDOW/2
	}
	if lo > view-width {
		lo = view - width
	}
	return lo, lo + width
}

// RenderWindow draws the cells around the pointer on one line and their
// indexes below, with ^^^ under the current cell.
func RenderWindow(tape *bf.Tape) string {
	lo, hi := windowBounds(tape)

	var sb strings.Builder
	sb.WriteByte('|')
	for i := lo; i < hi; i++ {
		fmt.Fprintf(&sb, "%3d|", tape.At(i))
	}
	sb.WriteByte('\n')

	sb.WriteByte(' ')
	for i := lo; i < hi; i++ {
		if i == tape.MemoryPointer {
			sb.WriteString("^^^ ")
		} else {
			fmt.Fprintf(&sb, "%3d ", i)
		}
	}
	sb.WriteByte('\n')
	return sb.String()
}
