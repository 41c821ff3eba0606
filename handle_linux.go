//go:build linux

package serial

import (
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

const defaultDeviceName = "/dev/ttyS0"

const (
	// cmspar selects mark/space parity together with PARENB; the value is the
	// same on every Linux architecture.
	cmspar = 0x40000000

	// nTTYBufSize is the line discipline's read buffer (N_TTY_BUF_SIZE).
	nTTYBufSize = 4096
)

// baudRates maps supported rates to their termios speed codes.
var baudRates = map[uint32]uint32{
	50:      unix.B50,
	75:      unix.B75,
	110:     unix.B110,
	134:     unix.B134,
	150:     unix.B150,
	200:     unix.B200,
	300:     unix.B300,
	600:     unix.B600,
	1200:    unix.B1200,
	1800:    unix.B1800,
	2400:    unix.B2400,
	4800:    unix.B4800,
	9600:    unix.B9600,
	19200:   unix.B19200,
	38400:   unix.B38400,
	57600:   unix.B57600,
	115200:  unix.B115200,
	230400:  unix.B230400,
	460800:  unix.B460800,
	500000:  unix.B500000,
	576000:  unix.B576000,
	921600:  unix.B921600,
	1000000: unix.B1000000,
	1152000: unix.B1152000,
	1500000: unix.B1500000,
	2000000: unix.B2000000,
	2500000: unix.B2500000,
	3000000: unix.B3000000,
	3500000: unix.B3500000,
	4000000: unix.B4000000,
}

// getBaudRate converts a baud rate to its termios speed code
func getBaudRate(rate uint32) (uint32, error) {
	code, ok := baudRates[rate]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrInvalidBaudRate, rate)
	}
	return code, nil
}

func baudRateFromCode(code uint32) uint32 {
	for rate, c := range baudRates {
		if c == code {
			return rate
		}
	}
	return 0
}

func isDeviceBusy(err error) bool {
	return errors.Is(err, unix.EBUSY)
}

// ttyHandle is a termios device. Reads honour the receive timeout by polling
// before the single read call.
type ttyHandle struct {
	fd int
	to commTimeouts
}

var _ handle = (*ttyHandle)(nil)

func openNative(name string) (handle, error) {
	fd, err := unix.Open(name, unix.O_RDWR|unix.O_NOCTTY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: name, Err: err}
	}

	// TIOCEXCL refuses further opens of the tty until we release it.
	if err := unix.IoctlSetInt(fd, unix.TIOCEXCL, 0); err != nil {
		unix.Close(fd)
		return nil, &os.PathError{Op: "ioctl TIOCEXCL", Path: name, Err: err}
	}
	return &ttyHandle{fd: fd}, nil
}

func (h *ttyHandle) termios() (*unix.Termios, error) {
	t, err := unix.IoctlGetTermios(h.fd, unix.TCGETS)
	if err != nil {
		return nil, fmt.Errorf("get termios: %w", err)
	}
	return t, nil
}

func (h *ttyHandle) state() (controlBlock, error) {
	t, err := h.termios()
	if err != nil {
		return controlBlock{}, err
	}

	cb := controlBlock{BaudRate: baudRateFromCode(t.Cflag & unix.CBAUD)}

	switch t.Cflag & unix.CSIZE {
	case unix.CS5:
		cb.ByteSize = 5
	case unix.CS6:
		cb.ByteSize = 6
	case unix.CS7:
		cb.ByteSize = 7
	default:
		cb.ByteSize = 8
	}

	switch {
	case t.Cflag&unix.PARENB == 0:
		cb.Parity = noParity
	case t.Cflag&cmspar != 0 && t.Cflag&unix.PARODD != 0:
		cb.Parity = markParity
	case t.Cflag&cmspar != 0:
		cb.Parity = spaceParity
	case t.Cflag&unix.PARODD != 0:
		cb.Parity = oddParity
	default:
		cb.Parity = evenParity
	}

	// A UART sends 1.5 stop bits when CSTOPB is combined with 5 data bits.
	switch {
	case t.Cflag&unix.CSTOPB == 0:
		cb.StopBits = oneStopBit
	case cb.ByteSize == 5:
		cb.StopBits = one5StopBits
	default:
		cb.StopBits = twoStopBits
	}

	switch {
	case t.Cflag&unix.CRTSCTS != 0:
		cb.Flow = dcbOutXCTSFlow | dcbRTSControlHandshake
	case t.Iflag&(unix.IXON|unix.IXOFF) != 0:
		cb.Flow = dcbOutX | dcbInX | dcbRTSControlEnable
	default:
		cb.Flow = dcbRTSControlEnable
	}
	return cb, nil
}

func (h *ttyHandle) setState(cb controlBlock) error {
	t, err := h.termios()
	if err != nil {
		return err
	}

	speed, err := getBaudRate(cb.BaudRate)
	if err != nil {
		return err
	}

	// Raw mode: no input, output or line processing.
	t.Iflag = 0
	t.Oflag = 0
	t.Lflag = 0
	t.Cflag = unix.CREAD | unix.CLOCAL | speed
	t.Ispeed = speed
	t.Ospeed = speed
	t.Cc[unix.VMIN] = 1
	t.Cc[unix.VTIME] = 0

	switch cb.ByteSize {
	case 5:
		t.Cflag |= unix.CS5
	case 6:
		t.Cflag |= unix.CS6
	case 7:
		t.Cflag |= unix.CS7
	case 8:
		t.Cflag |= unix.CS8
	default:
		return fmt.Errorf("unsupported data bits %d", cb.ByteSize)
	}

	switch cb.Parity {
	case noParity:
	case oddParity:
		t.Cflag |= unix.PARENB | unix.PARODD
	case evenParity:
		t.Cflag |= unix.PARENB
	case markParity:
		t.Cflag |= unix.PARENB | unix.PARODD | cmspar
	case spaceParity:
		t.Cflag |= unix.PARENB | cmspar
	default:
		return fmt.Errorf("unsupported parity code %d", cb.Parity)
	}
	if cb.Parity != noParity {
		t.Iflag |= unix.INPCK
	}

	switch {
	case cb.StopBits == oneStopBit:
	case cb.StopBits == one5StopBits && cb.ByteSize == 5:
		t.Cflag |= unix.CSTOPB
	case cb.StopBits == twoStopBits && cb.ByteSize != 5:
		t.Cflag |= unix.CSTOPB
	default:
		return fmt.Errorf("stop bits code %d is not available with %d data bits", cb.StopBits, cb.ByteSize)
	}

	switch flowControlFromFlags(cb.Flow) {
	case FlowControlHardware:
		t.Cflag |= unix.CRTSCTS
	case FlowControlSoftware:
		t.Iflag |= unix.IXON | unix.IXOFF
		t.Cc[unix.VSTART] = 0x11
		t.Cc[unix.VSTOP] = 0x13
	}

	if err := unix.IoctlSetTermios(h.fd, unix.TCSETS, t); err != nil {
		return fmt.Errorf("set termios: %w", err)
	}
	return nil
}

func (h *ttyHandle) timeouts() (commTimeouts, error) {
	if _, err := h.termios(); err != nil {
		return commTimeouts{}, err
	}
	return h.to, nil
}

func (h *ttyHandle) setTimeouts(to commTimeouts) error {
	if _, err := h.termios(); err != nil {
		return err
	}
	h.to = to
	return nil
}

// properties reports the kernel's tty buffer sizes: the line discipline's
// read buffer and the serial core transmit ring, which is one page.
func (h *ttyHandle) properties() (commProperties, error) {
	if _, err := h.termios(); err != nil {
		return commProperties{}, err
	}
	return commProperties{
		CurrentRxQueue: nTTYBufSize,
		CurrentTxQueue: uint32(os.Getpagesize()),
	}, nil
}

// status reports queue depths. The tty layer latches no line errors, so
// there is nothing to clear.
func (h *ttyHandle) status() (commStatus, error) {
	in, err := unix.IoctlGetInt(h.fd, unix.TIOCINQ)
	if err != nil {
		return commStatus{}, fmt.Errorf("ioctl TIOCINQ: %w", err)
	}
	out, err := unix.IoctlGetInt(h.fd, unix.TIOCOUTQ)
	if err != nil {
		return commStatus{}, fmt.Errorf("ioctl TIOCOUTQ: %w", err)
	}
	return commStatus{InQueue: uint32(in), OutQueue: uint32(out)}, nil
}

func (h *ttyHandle) read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if total := h.to.ReadTotalTimeoutConstant; total > 0 {
		ready, err := h.waitReadable(time.Duration(total) * time.Millisecond)
		if err != nil || !ready {
			return 0, err
		}
	}
	for {
		n, err := unix.Read(h.fd, p)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("read: %w", err)
		}
		return n, nil
	}
}

// waitReadable polls until input is available or timeout elapses.
func (h *ttyHandle) waitReadable(timeout time.Duration) (bool, error) {
	deadline := time.Now().Add(timeout)
	fds := []unix.PollFd{{Fd: int32(h.fd), Events: unix.POLLIN}}
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return false, nil
		}
		n, err := unix.Poll(fds, int(remaining.Milliseconds())+1)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return false, fmt.Errorf("poll: %w", err)
		}
		return n > 0, nil
	}
}

func (h *ttyHandle) write(p []byte) (int, error) {
	for {
		n, err := unix.Write(h.fd, p)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return max(n, 0), fmt.Errorf("write: %w", err)
		}
		return n, nil
	}
}

func (h *ttyHandle) close() error {
	unix.IoctlSetInt(h.fd, unix.TIOCNXCL, 0)
	return unix.Close(h.fd)
}
