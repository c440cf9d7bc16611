package tapebf

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	bf "nickandperla.net/tapebf/brainfuck"
)

var (
	ErrStartupAllocation  error = fmt.Errorf("could not allocate memory at startup")
	ErrFinalizeAllocation error = fmt.Errorf("could not reallocate enough memory at end for output")
)

var instructionErrors = []error{
	bf.ErrOutOfBounds,
	bf.ErrUnbalancedOpenBracket,
	bf.ErrUnbalancedCloseBracket,
	bf.ErrStrayCloseBracket,
	bf.ErrInvalidInstruction,
	bf.ErrAllocationFailure,
	bf.ErrInputFailure,
	bf.ErrMaxInstructionExecutionCountReached,
}

// ExitCode maps a run error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrParse):
		return ExitParseFailure
	case errors.Is(err, ErrFinalizeAllocation):
		return ExitFinalizeFailure
	case errors.Is(err, ErrStartupAllocation):
		return ExitStartupFailure
	}
	for _, target := range instructionErrors {
		if errors.Is(err, target) {
			return ExitInstructionFailure
		}
	}
	return ExitToolFailure
}

// RunJournal stores finished runs.
type RunJournal interface {
	SaveRun(record *RunRecord) (uint, error)
}

// Session is one console run: it reads the tape size and the program from In,
// runs the program with , reading the rest of In, and writes the prompt, the
// trace and the final output to Out.
type Session struct {
	Config   *ToolConfig
	In       io.ByteReader
	Out      io.Writer
	Logger   *slog.Logger
	Journal  RunJournal
	Expected *string
}

type Result struct {
	ExitCode   int
	Err        error
	CellCount  uint64
	Program    string
	Machine    *bf.Machine
	Comparison *OutputComparison
}

func (r *Result) Outcome() string {
	switch r.ExitCode {
	case ExitSuccess:
		return OutcomeSuccess
	case ExitParseFailure:
		return OutcomeParse
	case ExitInstructionFailure:
		return OutcomeInstruction
	case ExitFinalizeFailure:
		return OutcomeFinalize
	case ExitStartupFailure:
		return OutcomeStartup
	}
	return OutcomeTool
}

func NewSession(config *ToolConfig, in io.ByteReader, out io.Writer, logger *slog.Logger) *Session {
	if config == nil {
		config = DefaultToolConfig()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Session{
		Config: config,
		In:     in,
		Out:    out,
		Logger: logger,
	}
}

func (s *Session) Run() *Result {
	result := s.run()
	result.ExitCode = ExitCode(result.Err)

	if result.Err != nil {
		s.Logger.Error("run failed", "outcome", result.Outcome(), "exit", result.ExitCode, "error", result.Err)
	} else {
		s.Logger.Info("run finished", "instructions", result.Machine.InstructionCount, "output_bytes", result.Machine.Output.Len())
	}

	if s.Expected != nil && result.Machine != nil {
		result.Comparison = CompareOutput(*s.Expected, result.Machine.Output.Text())
		s.Logger.Info("output compared", "match", result.Comparison.Match(), "distance", result.Comparison.Distance, "similarity", result.Comparison.Similarity)
	}

	if s.Journal != nil {
		s.save(result)
	}
	return result
}

func (s *Session) save(result *Result) {
	record, err := NewRunRecord(result)
	if err != nil {
		s.Logger.Error("build run record", "error", err)
		return
	}
	id, err := s.Journal.SaveRun(record)
	if err != nil {
		s.Logger.Error("save run record", "error", err)
		return
	}
	s.Logger.Debug("run journaled", "id", id)
}

func (s *Session) run() *Result {
	result := &Result{}

	fmt.Fprint(s.Out, PROMPT)
	size, err := ParseCapacity(s.In)
	if err != nil {
		result.Err = err
		return result
	}
	result.CellCount = size

	m, err := bf.NewMachine(s.Config.Machine, size, s.In)
	if err != nil {
		result.Err = fmt.Errorf("%w: %w", ErrStartupAllocation, err)
		return result
	}

	program, err := ReadProgram(s.In, s.Config.Console.MaxProgramBytes)
	if err != nil {
		result.Err = err
		return result
	}
	m.LoadProgram(program)
	result.Program = m.Program.Instructions
	result.Machine = m
	s.Logger.Debug("program loaded", "cells", size, "bytes", m.Program.Len())

	fmt.Fprintln(s.Out, m.Program.Instructions)
	if s.Config.Trace.Enabled {
		m.Tracer = &StateTracer{Out: s.Out}
		fmt.Fprint(s.Out, RenderWindow(m.Tape))
	}

	if _, err := m.Run(); err != nil {
		fmt.Fprintf(s.Out, "ERROR: %s", err)
		result.Err = err
		return result
	}

	if err := m.Finalize(); err != nil {
		fmt.Fprint(s.Out, "Could not reallocate enough memory at end for output")
		result.Err = fmt.Errorf("%w: %w", ErrFinalizeAllocation, err)
		return result
	}

	fmt.Fprintf(s.Out, "FINAL OUTPUT:\n%s\n", m.Output.Text())
	return result
}
