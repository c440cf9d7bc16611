package tapebf

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/BurntSushi/toml"
	bf "nickandperla.net/tapebf/brainfuck"
)

type ConsoleConfig struct {
	MaxProgramBytes int `toml:"max_program_bytes"`
}

type TraceConfig struct {
	Enabled bool `toml:"enabled"`
}

type LogConfig struct {
	Level   string `toml:"level"`
	File    string `toml:"file"`
	Journal bool   `toml:"journal"`
}

type ToolConfig struct {
	Machine     *bf.MachineConfig  `toml:"machine"`
	Console     *ConsoleConfig     `toml:"console"`
	Trace       *TraceConfig       `toml:"trace"`
	Log         *LogConfig         `toml:"log"`
	Persistence *PersistenceConfig `toml:"persistence"`
}

func DefaultToolConfig() *ToolConfig {
	return &ToolConfig{
		Machine: &bf.MachineConfig{
			MaxTapeCells: bf.MAX_TAPE_CELLS,
			OutputConfig: &bf.OutputConfig{
				InitialCapacity: bf.OUTPUT_INITIAL_CAPACITY,
				MaxCapacity:     1 << 30,
			},
		},
		Console: &ConsoleConfig{MaxProgramBytes: bf.MAX_PROGRAM_BYTES},
		Trace:   &TraceConfig{Enabled: true},
		Log:     &LogConfig{Level: "info"},
		Persistence: &PersistenceConfig{
			Name: "runs.db",
			Path: ".",
		},
	}
}

// LoadToolConfig decodes path over the defaults. When optional is set a
// missing file is not an error and the defaults are returned as they are.
func LoadToolConfig(path string, optional bool) (*ToolConfig, error) {
	config := DefaultToolConfig()
	if _, err := toml.DecodeFile(path, config); err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return config, nil
		}
		return nil, fmt.Errorf("Failed to decode tool config [%s]: %w", path, err)
	}
	config.fillDefaults()
	return config, nil
}

// fillDefaults restores the tables a config file declared empty or omitted.
func (c *ToolConfig) fillDefaults() {
	d := DefaultToolConfig()
	if c.Machine == nil {
		c.Machine = d.Machine
	}
	if c.Machine.OutputConfig == nil {
		c.Machine.OutputConfig = d.Machine.OutputConfig
	}
	if c.Console == nil {
		c.Console = d.Console
	}
	if c.Console.MaxProgramBytes <= 0 {
		c.Console.MaxProgramBytes = bf.MAX_PROGRAM_BYTES
	}
	if c.Trace == nil {
		c.Trace = d.Trace
	}
	if c.Log == nil {
		c.Log = d.Log
	}
	if c.Persistence == nil {
		c.Persistence = d.Persistence
	}
}
