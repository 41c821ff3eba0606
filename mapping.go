package serial

import "fmt"

// Control block codes, identical to the Win32 DCB values so the Windows
// backend can pass them straight through.
const (
	noParity    byte = 0
	oddParity   byte = 1
	evenParity  byte = 2
	markParity  byte = 3
	spaceParity byte = 4

	oneStopBit   byte = 0
	one5StopBits byte = 1
	twoStopBits  byte = 2
)

// Handshake bits of the DCB Flags bitfield.
const (
	dcbOutXCTSFlow         uint32 = 0x00000004
	dcbOutX                uint32 = 0x00000100
	dcbInX                 uint32 = 0x00000200
	dcbRTSControlEnable    uint32 = 0x00001000
	dcbRTSControlHandshake uint32 = 0x00002000
	dcbRTSControlMask      uint32 = 0x00003000

	dcbFlowMask = dcbOutXCTSFlow | dcbOutX | dcbInX | dcbRTSControlMask
)

// controlBlock is the portable subset of the device control block that this
// package reads and writes.
type controlBlock struct {
	BaudRate uint32
	ByteSize uint8
	Parity   byte
	StopBits byte
	Flow     uint32 // handshake bits, masked by dcbFlowMask
}

// parityCode maps a Parity onto its control block code.
func parityCode(p Parity) (byte, error) {
	switch p {
	case ParityNone:
		return noParity, nil
	case ParityOdd:
		return oddParity, nil
	case ParityEven:
		return evenParity, nil
	case ParityMark:
		return markParity, nil
	case ParitySpace:
		return spaceParity, nil
	default:
		return 0, invalidParameter("parity", "%w: %d", errEnumOutOfRange, int(p))
	}
}

// stopBitsCode maps a StopBits onto its control block code.
func stopBitsCode(s StopBits) (byte, error) {
	switch s {
	case StopBitsOne:
		return oneStopBit, nil
	case StopBitsOnePointFive:
		return one5StopBits, nil
	case StopBitsTwo:
		return twoStopBits, nil
	default:
		return 0, invalidParameter("stop bits", "%w: %d", errEnumOutOfRange, int(s))
	}
}

// flowControlFlags maps a FlowControl onto DCB handshake bits. RTS stays
// asserted unless the driver owns it for handshaking.
func flowControlFlags(f FlowControl) (uint32, error) {
	switch f {
	case FlowControlSoftware:
		return dcbOutX | dcbInX | dcbRTSControlEnable, nil
	case FlowControlHardware:
		return dcbOutXCTSFlow | dcbRTSControlHandshake, nil
	case FlowControlNone:
		return dcbRTSControlEnable, nil
	default:
		return 0, invalidParameter("flow control", "%w: %d", errEnumOutOfRange, int(f))
	}
}

func parityFromCode(code byte) (Parity, error) {
	switch code {
	case noParity:
		return ParityNone, nil
	case oddParity:
		return ParityOdd, nil
	case evenParity:
		return ParityEven, nil
	case markParity:
		return ParityMark, nil
	case spaceParity:
		return ParitySpace, nil
	default:
		return 0, fmt.Errorf("unknown parity code %d", code)
	}
}

func stopBitsFromCode(code byte) (StopBits, error) {
	switch code {
	case oneStopBit:
		return StopBitsOne, nil
	case one5StopBits:
		return StopBitsOnePointFive, nil
	case twoStopBits:
		return StopBitsTwo, nil
	default:
		return 0, fmt.Errorf("unknown stop bits code %d", code)
	}
}

func flowControlFromFlags(flags uint32) FlowControl {
	switch {
	case flags&dcbOutXCTSFlow != 0 || flags&dcbRTSControlMask == dcbRTSControlHandshake:
		return FlowControlHardware
	case flags&(dcbOutX|dcbInX) != 0:
		return FlowControlSoftware
	default:
		return FlowControlNone
	}
}

// buildControlBlock translates a configuration into control block values.
// It touches no device, so an out-of-range enumerant fails before open.
func buildControlBlock(c Config) (controlBlock, error) {
	parity, err := parityCode(c.Parity)
	if err != nil {
		return controlBlock{}, err
	}
	stop, err := stopBitsCode(c.StopBits)
	if err != nil {
		return controlBlock{}, err
	}
	flow, err := flowControlFlags(c.FlowControl)
	if err != nil {
		return controlBlock{}, err
	}
	if c.DataBits < 5 || c.DataBits > 8 {
		return controlBlock{}, invalidParameter("data bits", "data bits %d outside 5-8", c.DataBits)
	}
	if c.BaudRate == 0 {
		return controlBlock{}, invalidParameter("baud rate", "baud rate must be positive")
	}
	return controlBlock{
		BaudRate: c.BaudRate,
		ByteSize: c.DataBits,
		Parity:   parity,
		StopBits: stop,
		Flow:     flow,
	}, nil
}

// settings converts a control block read from a device back to Settings.
func (cb controlBlock) settings() (Settings, error) {
	parity, err := parityFromCode(cb.Parity)
	if err != nil {
		return Settings{}, err
	}
	stop, err := stopBitsFromCode(cb.StopBits)
	if err != nil {
		return Settings{}, err
	}
	return Settings{
		BaudRate:    cb.BaudRate,
		DataBits:    cb.ByteSize,
		Parity:      parity,
		StopBits:    stop,
		FlowControl: flowControlFromFlags(cb.Flow),
	}, nil
}
