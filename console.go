package tapebf

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var ErrParse error = fmt.Errorf("could not parse memory size")

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// ParseCapacity reads an unsigned decimal tape size. The first non-digit ends
// the number and is consumed with it. A non-digit first character, or a number
// that reaches MAX_CAPACITY_CHARS digits, is ErrParse.
func ParseCapacity(r io.ByteReader) (uint64, error) {
	var digits strings.Builder

	c, err := r.ReadByte()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, fmt.Errorf("Failed to read memory size. Input is empty: %w", ErrParse)
		}
		return 0, fmt.Errorf("Failed to read memory size. %v: %w", err, ErrParse)
	}
	if !isDigit(c) {
		return 0, fmt.Errorf("Failed to read memory size. First character [%q] is not a digit: %w", c, ErrParse)
	}

	for isDigit(c) {
		digits.WriteByte(c)
		if digits.Len() >= MAX_CAPACITY_CHARS {
			return 0, fmt.Errorf("Failed to read memory size. More than [%d] digits: %w", MAX_CAPACITY_CHARS-1, ErrParse)
		}
		if c, err = r.ReadByte(); err != nil {
			if !errors.Is(err, io.EOF) {
				return 0, fmt.Errorf("Failed to read memory size. %v: %w", err, ErrParse)
			}
			break
		}
	}

	size, err := strconv.ParseUint(digits.String(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("Failed to read memory size [%s]. %v: %w", digits.String(), err, ErrParse)
	}
	return size, nil
}

// ReadProgram reads one line of program text, keeping its newline, and never
// more than limit bytes. An exhausted stream gives an empty program.
func ReadProgram(r io.ByteReader, limit int) (string, error) {
	var line strings.Builder
	for line.Len() < limit {
		c, err := r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return "", fmt.Errorf("Failed to read program after [%d] bytes: %w", line.Len(), err)
		}
		line.WriteByte(c)
		if c == '\n' {
			break
		}
	}
	return line.String(), nil
}
