package serial

import (
	"fmt"
	"strings"
)

// Parity represents the parity mode
type Parity int

const (
	ParityNone  Parity = iota
	ParityOdd          // odd parity
	ParityEven         // even parity
	ParityMark         // parity bit always 1
	ParitySpace        // parity bit always 0
)

func (p Parity) String() string {
	switch p {
	case ParityNone:
		return "none"
	case ParityOdd:
		return "odd"
	case ParityEven:
		return "even"
	case ParityMark:
		return "mark"
	case ParitySpace:
		return "space"
	default:
		return fmt.Sprintf("Parity(%d)", int(p))
	}
}

// letter returns the single character used in "8N1" style notation.
func (p Parity) letter() string {
	switch p {
	case ParityNone:
		return "N"
	case ParityOdd:
		return "O"
	case ParityEven:
		return "E"
	case ParityMark:
		return "M"
	case ParitySpace:
		return "S"
	default:
		return "?"
	}
}

// ParseParity accepts none, odd, even, mark, space or their initials.
func ParseParity(s string) (Parity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "n":
		return ParityNone, nil
	case "odd", "o":
		return ParityOdd, nil
	case "even", "e":
		return ParityEven, nil
	case "mark", "m":
		return ParityMark, nil
	case "space", "s":
		return ParitySpace, nil
	default:
		return 0, invalidParameter("parse parity", "unknown parity %q (valid: none, odd, even, mark, space)", s)
	}
}

// StopBits represents the number of stop bits
type StopBits int

const (
	StopBitsOne StopBits = iota
	StopBitsOnePointFive
	StopBitsTwo
)

func (s StopBits) String() string {
	switch s {
	case StopBitsOne:
		return "1"
	case StopBitsOnePointFive:
		return "1.5"
	case StopBitsTwo:
		return "2"
	default:
		return fmt.Sprintf("StopBits(%d)", int(s))
	}
}

// ParseStopBits accepts 1, 1.5 or 2.
func ParseStopBits(s string) (StopBits, error) {
	switch strings.TrimSpace(s) {
	case "1":
		return StopBitsOne, nil
	case "1.5":
		return StopBitsOnePointFive, nil
	case "2":
		return StopBitsTwo, nil
	default:
		return 0, invalidParameter("parse stop bits", "unknown stop bits %q (valid: 1, 1.5, 2)", s)
	}
}

// FlowControl represents the handshake mode
type FlowControl int

const (
	FlowControlSoftware FlowControl = iota // XON/XOFF in both directions
	FlowControlHardware                    // RTS/CTS
	FlowControlNone
)

func (f FlowControl) String() string {
	switch f {
	case FlowControlSoftware:
		return "software"
	case FlowControlHardware:
		return "hardware"
	case FlowControlNone:
		return "none"
	default:
		return fmt.Sprintf("FlowControl(%d)", int(f))
	}
}

// ParseFlowControl accepts software (xonxoff), hardware (rtscts) or none.
func ParseFlowControl(s string) (FlowControl, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "software", "xonxoff", "sw":
		return FlowControlSoftware, nil
	case "hardware", "rtscts", "hw":
		return FlowControlHardware, nil
	case "none", "":
		return FlowControlNone, nil
	default:
		return 0, invalidParameter("parse flow control", "unknown flow control %q (valid: none, software, hardware)", s)
	}
}

// Settings describes the line parameters currently applied to a device.
type Settings struct {
	BaudRate    uint32
	DataBits    uint8
	Parity      Parity
	StopBits    StopBits
	FlowControl FlowControl
}

// String renders the settings in the usual "9600 8N1" form.
func (s Settings) String() string {
	return fmt.Sprintf("%d %d%s%s", s.BaudRate, s.DataBits, s.Parity.letter(), s.StopBits)
}
