package brainfuck

import (
	"fmt"
	"io"
)

var ErrMaxInstructionExecutionCountReached error = fmt.Errorf("Instruction execution count limit reached")

// Tracer observes a run. Instruction is called once the step has skipped
// whitespace and before it executes; State after every step that did not
// fail.
type Tracer interface {
	Instruction(pc int, op OP)
	State(m *Machine)
}

// Machine is the execution context of one run. It owns the tape, the
// program, the output sink and the input source; nothing is shared between
// machines.
type Machine struct {
	Tape             *Tape
	Program          *Program
	Output           *OutputSink
	Input            io.ByteReader
	Config           *MachineConfig
	Tracer           Tracer
	InstructionCount uint
}

type MachineConfig struct {
	MaxInstructionExecutionCount uint          `toml:"max_instruction_execution_count"`
	MaxTapeCells                 uint64        `toml:"max_tape_cells"`
	OutputConfig                 *OutputConfig `toml:"output"`
}

// Snapshot is the externally visible state of a machine at one moment.
type Snapshot struct {
	InstructionCount   uint
	InstructionPointer int
	MemoryPointer      uint64
	LoopDepth          uint
	OutputLength       int
}

func NewMachine(mc *MachineConfig, cellCount uint64, input io.ByteReader) (*Machine, error) {
	if mc == nil {
		mc = &MachineConfig{}
	}
	tape, err := NewTapeFromConfig(&TapeConfig{CellCount: cellCount, MaxCellCount: mc.MaxTapeCells})
	if err != nil {
		return nil, err
	}
	return &Machine{
		Tape:    tape,
		Program: NewProgram(""),
		Output:  NewOutputSink(mc.OutputConfig),
		Input:   input,
		Config:  mc,
	}, nil
}

func (m *Machine) Reset() {
	m.Tape.Reset()
	m.Program.Reset()
	m.Output = NewOutputSink(m.Config.OutputConfig)
	m.InstructionCount = 0
}

func (m *Machine) LoadProgram(instructions string) {
	m.Program = NewProgram(instructions)
}

func (m *Machine) LoadMemory(input []uint8) (bool, error) {
	if uint64(len(input)) > m.Tape.CellCount {
		return false, fmt.Errorf("Failed to load memory. Input length [%d] is greater than memory capacity [%d]", len(input), m.Tape.CellCount)
	}
	copy(m.Tape.cells, input)
	return true, nil
}

func (m *Machine) ReadMemory(count uint64) (bool, []uint8, error) {
	if count > m.Tape.CellCount {
		return false, []uint8{}, fmt.Errorf("Failed to read memory. Read count [%d] is greater than memory capacity [%d]", count, m.Tape.CellCount)
	}
	return true, m.Tape.cells[0:count], nil
}

func (m *Machine) Snapshot() Snapshot {
	return Snapshot{
		InstructionCount:   m.InstructionCount,
		InstructionPointer: m.Program.InstructionPointer,
		MemoryPointer:      m.Tape.MemoryPointer,
		LoopDepth:          m.Program.LoopDepth,
		OutputLength:       m.Output.Len(),
	}
}

// Step executes the next instruction. It returns true while the program can
// continue, false with a nil error on normal termination and false with an
// error when the instruction failed. A failed step leaves the tape and output
// exactly as the failure found them.
func (m *Machine) Step() (bool, error) {
	op := m.Program.GetCurrentInstruction()
	if m.Tracer != nil {
		m.Tracer.Instruction(m.Program.InstructionPointer, op)
	}
	ok, err := op.Execute(m)
	if err != nil {
		return false, err
	}
	if op != OP_END {
		m.InstructionCount = m.InstructionCount + 1
	}
	return ok, nil
}

// Run steps the machine until the program is exhausted or a step fails.
func (m *Machine) Run() (bool, error) {
	for m.Program.Running() {
		ok, err := m.Step()
		if err != nil {
			return false, err
		}
		if limit := m.Config.MaxInstructionExecutionCount; limit > 0 && m.InstructionCount >= limit && m.Program.Running() {
			return false, fmt.Errorf("Halted after [%d] instructions at instruction index [%d]: %w", m.InstructionCount, m.Program.InstructionPointer, ErrMaxInstructionExecutionCountReached)
		}
		if m.Tracer != nil {
			m.Tracer.State(m)
		}
		if !ok {
			break
		}
	}
	return true, nil
}

// Finalize terminates the output buffer once the run is over.
func (m *Machine) Finalize() error {
	return m.Output.Finalize()
}
