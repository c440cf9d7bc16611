package brainfuck

import (
	"fmt"
	"strings"
)

var (
	ErrUnbalancedOpenBracket  error = fmt.Errorf("unbalanced [")
	ErrUnbalancedCloseBracket error = fmt.Errorf("detected unbalanced ]")
	ErrStrayCloseBracket      error = fmt.Errorf("cannot begin unbalanced block with ]")
)

// MAX_PROGRAM_BYTES is the longest program line accepted from the console.
const MAX_PROGRAM_BYTES = 65535

// Program holds the instruction text and the counters that walk it. Loop
// bracket resolution is a first-match scan in both directions: the scans look
// for the nearest bracket character and never count nesting.
type Program struct {
	Instructions       string
	InstructionPointer int
	LoopDepth          uint
}

// NewProgram truncates the text at the first NUL byte, which marks the end of
// a program line.
func NewProgram(instructions string) *Program {
	if i := strings.IndexByte(instructions, byte(OP_END)); i >= 0 {
		instructions = instructions[:i]
	}
	return &Program{
		Instructions:       instructions,
		InstructionPointer: 0,
		LoopDepth:          0,
	}
}

func (p *Program) Reset() {
	p.InstructionPointer = 0
	p.LoopDepth = 0
}

func (p *Program) Len() int {
	return len(p.Instructions)
}

// at reads the text with a NUL past either end.
func (p *Program) at(i int) OP {
	if i < 0 || i >= len(p.Instructions) {
		return OP_END
	}
	return OP(p.Instructions[i])
}

// Running reports whether the execution loop should take another step: the
// counter is inside the text and the raw character under it is neither NUL
// nor the end-of-stream byte.
func (p *Program) Running() bool {
	if p.InstructionPointer >= len(p.Instructions) {
		return false
	}
	c := p.at(p.InstructionPointer)
	return c != OP_END && c != OP_EOF
}

// Exhausted reports whether the counter has reached the end of the text.
func (p *Program) Exhausted() bool {
	return p.InstructionPointer >= len(p.Instructions)
}

// GetCurrentInstruction advances past whitespace and returns the instruction
// under the counter. Skipped whitespace is not an executed instruction.
func (p *Program) GetCurrentInstruction() OP {
	c := p.at(p.InstructionPointer)
	for isSpace(c) {
		p.InstructionPointer++
		c = p.at(p.InstructionPointer)
	}
	return c
}

func (p *Program) Advance() {
	p.InstructionPointer = p.InstructionPointer + 1
}

func (p *Program) OpenLoop() {
	p.LoopDepth = p.LoopDepth + 1
}

func (p *Program) CloseLoop() (bool, error) {
	if p.LoopDepth == 0 {
		return false, fmt.Errorf("Failed to close loop at instruction index [%d]. Loop depth is zero: %w", p.InstructionPointer, ErrStrayCloseBracket)
	}
	p.LoopDepth = p.LoopDepth - 1
	return true, nil
}

// AdvanceToLoopEnd moves the counter forward from the current [ onto the
// first ] in the text. A [ met on the way does not extend the search.
func (p *Program) AdvanceToLoopEnd() (bool, error) {
	for p.at(p.InstructionPointer) != OP_LOOP_END {
		if p.InstructionPointer >= len(p.Instructions) {
			return false, fmt.Errorf("Failed to advance to OP_LOOP_END instruction. Program end reached: %w", ErrUnbalancedOpenBracket)
		}
		p.InstructionPointer++
	}
	return true, nil
}

// FallbackToLoopStart moves the counter backward from the current ] onto the
// first [ before it. A ] met on the way does not extend the search.
func (p *Program) FallbackToLoopStart() (bool, error) {
	for p.at(p.InstructionPointer) != OP_LOOP {
		if p.InstructionPointer == 0 {
			return false, fmt.Errorf("Failed to fall back to OP_LOOP instruction. Program start reached: %w", ErrUnbalancedCloseBracket)
		}
		p.InstructionPointer--
	}
	return true, nil
}

// isSpace matches the C locale isspace set.
func isSpace(c OP) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
