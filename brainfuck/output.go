package brainfuck

import (
	"bytes"
	"fmt"
)

var ErrAllocationFailure error = fmt.Errorf("could not allocate enough memory")

const OUTPUT_INITIAL_CAPACITY = 128

type OutputConfig struct {
	InitialCapacity int `toml:"output_initial_capacity"`
	MaxCapacity     int `toml:"max_output_bytes"`
}

// OutputSink collects the bytes emitted by the . instruction. Capacity starts
// at InitialCapacity and doubles whenever the buffer fills; it never shrinks.
// MaxCapacity, when non-zero, is the largest buffer the sink may grow to.
type OutputSink struct {
	buf       []byte
	length    int
	finalized bool
	Config    *OutputConfig
}

func NewOutputSink(oc *OutputConfig) *OutputSink {
	if oc == nil {
		oc = &OutputConfig{}
	}
	initial := oc.InitialCapacity
	if initial <= 0 {
		initial = OUTPUT_INITIAL_CAPACITY
	}
	if oc.MaxCapacity > 0 && initial > oc.MaxCapacity {
		initial = oc.MaxCapacity
	}
	return &OutputSink{
		buf:    make([]byte, initial),
		Config: oc,
	}
}

func (o *OutputSink) Len() int {
	return o.length
}

func (o *OutputSink) Cap() int {
	return len(o.buf)
}

// Append stores val and grows the buffer once it is full, so the next append
// always has room. A failed growth keeps val and reports ErrAllocationFailure.
func (o *OutputSink) Append(val byte) error {
	o.buf[o.length] = val
	o.length++
	if o.length == len(o.buf) {
		if err := o.grow(len(o.buf) * 2); err != nil {
			return err
		}
	}
	return nil
}

func (o *OutputSink) grow(size int) error {
	if o.Config.MaxCapacity > 0 && size > o.Config.MaxCapacity {
		return fmt.Errorf("Failed to grow output buffer from [%d] to [%d] bytes. Limit is [%d]: %w", len(o.buf), size, o.Config.MaxCapacity, ErrAllocationFailure)
	}
	buf := make([]byte, size)
	copy(buf, o.buf[:o.length])
	o.buf = buf
	return nil
}

// Finalize adds one byte of room and places the terminator right after the
// appended bytes. Calling it again is a no-op.
func (o *OutputSink) Finalize() error {
	if o.finalized {
		return nil
	}
	if err := o.grow(len(o.buf) + 1); err != nil {
		return err
	}
	o.buf[o.length] = 0
	o.finalized = true
	return nil
}

func (o *OutputSink) Bytes() []byte {
	return o.buf[:o.length]
}

// Text renders the buffer the way a NUL terminated string is printed: an
// emitted zero byte ends the visible text.
func (o *OutputSink) Text() string {
	out := o.Bytes()
	if i := bytes.IndexByte(out, 0); i >= 0 {
		out = out[:i]
	}
	return string(out)
}
