package tapebf

// Process exit statuses of the console interpreter.
const (
	ExitSuccess            = 0
	ExitParseFailure       = 1
	ExitInstructionFailure = 2
	ExitFinalizeFailure    = 3
	ExitStartupFailure     = 4
	ExitToolFailure        = 5
)

const (
	PROMPT             = "Input memory size: "
	MAX_CAPACITY_CHARS = 20
	TRACE_WINDOW       = 16
)

// Outcomes recorded in the run journal.
const (
	OutcomeSuccess     = "success"
	OutcomeParse       = "parse_failure"
	OutcomeInstruction = "instruction_failure"
	OutcomeFinalize    = "finalize_failure"
	OutcomeStartup     = "startup_failure"
	OutcomeTool        = "tool_failure"
)
