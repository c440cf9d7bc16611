package brainfuck

import (
	"errors"
	"fmt"
	"io"
)

var (
	ErrInvalidInstruction error = fmt.Errorf("invalid BF instruction")
	ErrInputFailure       error = fmt.Errorf("failed to read input")
)

// The eight instructions of the language plus the two bytes that end a
// program. OP_EOF is also what , stores when the input stream is exhausted:
// it is the byte a C getchar() EOF truncates to.
type OP byte

const (
	OP_POINTER_LEFT  = OP('<')
	OP_POINTER_RIGHT = OP('>')
	OP_INC           = OP('+')
	OP_DEC           = OP('-')
	OP_INPUT         = OP(',')
	OP_OUTPUT        = OP('.')
	OP_LOOP          = OP('[')
	OP_LOOP_END      = OP(']')
	OP_END           = OP(0x00)
	OP_EOF           = OP(0xFF)
)

var OP_SET [8]OP = [...]OP{
	OP_POINTER_LEFT,
	OP_POINTER_RIGHT,
	OP_INC,
	OP_DEC,
	OP_INPUT,
	OP_OUTPUT,
	OP_LOOP,
	OP_LOOP_END,
}

func (o OP) Name() string {
	switch o {
	case OP_POINTER_LEFT:
		return "OP_POINTER_LEFT"
	case OP_POINTER_RIGHT:
		return "OP_POINTER_RIGHT"
	case OP_INC:
		return "OP_INC"
	case OP_DEC:
		return "OP_DEC"
	case OP_INPUT:
		return "OP_INPUT"
	case OP_OUTPUT:
		return "OP_OUTPUT"
	case OP_LOOP:
		return "OP_LOOP"
	case OP_LOOP_END:
		return "OP_LOOP_END"
	case OP_END:
		return "OP_END"
	}
	return "OP_INVALID"
}

// Execute applies o to the machine. It returns false with a nil error when o
// ends the program, and false with an error when the instruction failed.
func (o OP) Execute(m *Machine) (bool, error) {
	tape, program := m.Tape, m.Program
	switch o {
	case OP_END:
		return false, nil
	case OP_POINTER_LEFT:
		if ok, err := tape.MovePointerLeft(); !ok {
			return false, fmt.Errorf("OP_POINTER_LEFT at instruction index [%d] failed to move memory pointer left. %w", program.InstructionPointer, err)
		}
		program.Advance()
	case OP_POINTER_RIGHT:
		if ok, err := tape.MovePointerRight(); !ok {
			return false, fmt.Errorf("OP_POINTER_RIGHT at instruction index [%d] failed to move memory pointer right. %w", program.InstructionPointer, err)
		}
		program.Advance()
	case OP_INC:
		tape.Increment()
		program.Advance()
	case OP_DEC:
		tape.Decrement()
		program.Advance()
	case OP_INPUT:
		val, err := m.Input.ReadByte()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return false, fmt.Errorf("OP_INPUT at instruction index [%d] failed to read a byte. %v: %w", program.InstructionPointer, err, ErrInputFailure)
			}
			val = byte(OP_EOF)
		}
		tape.Write(val)
		program.Advance()
	case OP_OUTPUT:
		if err := m.Output.Append(tape.Read()); err != nil {
			return false, fmt.Errorf("OP_OUTPUT at instruction index [%d] failed to append to output. %w", program.InstructionPointer, err)
		}
		program.Advance()
	case OP_LOOP:
		program.OpenLoop()
		if tape.Read() == 0 {
			if ok, err := program.AdvanceToLoopEnd(); !ok {
				return false, fmt.Errorf("OP_LOOP at instruction index [%d] failed to advance to OP_LOOP_END. %w", program.InstructionPointer, err)
			}
			// The counter now rests on the ], which runs as the next step.
			return true, nil
		}
		program.Advance()
	case OP_LOOP_END:
		if ok, err := program.CloseLoop(); !ok {
			return false, fmt.Errorf("OP_LOOP_END at instruction index [%d] failed to close loop. %w", program.InstructionPointer, err)
		}
		if tape.Read() != 0 {
			if ok, err := program.FallbackToLoopStart(); !ok {
				return false, fmt.Errorf("OP_LOOP_END at instruction index [%d] failed to fall back to OP_LOOP. %w", program.InstructionPointer, err)
			}
			return true, nil
		}
		program.Advance()
	default:
		return false, fmt.Errorf("Unknown OP [%q] at instruction index [%d]: %w", byte(o), program.InstructionPointer, ErrInvalidInstruction)
	}

	return true, nil
}
