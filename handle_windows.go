//go:build windows

package serial

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unsafe"

	"golang.org/x/sys/windows"
)

const defaultDeviceName = "COM1"

// GetCommProperties is the one Comm API call x/sys/windows does not wrap.
var procGetCommProperties = windows.NewLazySystemDLL("kernel32.dll").NewProc("GetCommProperties")

const (
	dcbBinary uint32 = 0x00000001
	dcbParity uint32 = 0x00000002
)

// commProp is the Win32 COMMPROP structure.
type commProp struct {
	PacketLength       uint16
	PacketVersion      uint16
	ServiceMask        uint32
	Reserved1          uint32
	MaxTxQueue         uint32
	MaxRxQueue         uint32
	MaxBaud            uint32
	ProvSubType        uint32
	ProvCapabilities   uint32
	SettableParams     uint32
	SettableBaud       uint32
	SettableData       uint16
	SettableStopParity uint16
	CurrentTxQueue     uint32
	CurrentRxQueue     uint32
	ProvSpec1          uint32
	ProvSpec2          uint32
	ProvChar           [1]uint16
}

func isDeviceBusy(err error) bool {
	return errors.Is(err, windows.ERROR_SHARING_VIOLATION)
}

// commHandle is a Win32 communications resource.
type commHandle struct {
	h windows.Handle
}

var _ handle = (*commHandle)(nil)

func openNative(name string) (handle, error) {
	path := name
	if !strings.HasPrefix(path, `\\.\`) {
		path = `\\.\` + path
	}
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: name, Err: err}
	}

	// Share mode 0 makes the OS refuse every other open while we hold it.
	h, err := windows.CreateFile(p,
		windows.GENERIC_READ|windows.GENERIC_WRITE,
		0,
		nil,
		windows.OPEN_EXISTING,
		0,
		0)
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: name, Err: err}
	}
	return &commHandle{h: h}, nil
}

func (c *commHandle) getDCB() (windows.DCB, error) {
	var d windows.DCB
	d.DCBlength = uint32(unsafe.Sizeof(d))
	if err := windows.GetCommState(c.h, &d); err != nil {
		return windows.DCB{}, fmt.Errorf("GetCommState: %w", err)
	}
	return d, nil
}

func (c *commHandle) state() (controlBlock, error) {
	d, err := c.getDCB()
	if err != nil {
		return controlBlock{}, err
	}
	return controlBlock{
		BaudRate: d.BaudRate,
		ByteSize: d.ByteSize,
		Parity:   d.Parity,
		StopBits: d.StopBits,
		Flow:     d.Flags & dcbFlowMask,
	}, nil
}

func (c *commHandle) setState(cb controlBlock) error {
	d, err := c.getDCB()
	if err != nil {
		return err
	}
	d.BaudRate = cb.BaudRate
	d.ByteSize = cb.ByteSize
	d.Parity = cb.Parity
	d.StopBits = cb.StopBits
	d.Flags = (d.Flags &^ (dcbFlowMask | dcbParity)) | cb.Flow | dcbBinary
	if cb.Parity != noParity {
		d.Flags |= dcbParity
	}
	if cb.Flow&(dcbOutX|dcbInX) != 0 {
		d.XonChar = 0x11
		d.XoffChar = 0x13
	}
	if err := windows.SetCommState(c.h, &d); err != nil {
		return fmt.Errorf("SetCommState: %w", err)
	}
	return nil
}

func (c *commHandle) timeouts() (commTimeouts, error) {
	var to windows.CommTimeouts
	if err := windows.GetCommTimeouts(c.h, &to); err != nil {
		return commTimeouts{}, fmt.Errorf("GetCommTimeouts: %w", err)
	}
	return commTimeouts(to), nil
}

func (c *commHandle) setTimeouts(to commTimeouts) error {
	wto := windows.CommTimeouts(to)
	if err := windows.SetCommTimeouts(c.h, &wto); err != nil {
		return fmt.Errorf("SetCommTimeouts: %w", err)
	}
	return nil
}

func (c *commHandle) properties() (commProperties, error) {
	var cp commProp
	r1, _, e1 := procGetCommProperties.Call(uintptr(c.h), uintptr(unsafe.Pointer(&cp)))
	if r1 == 0 {
		return commProperties{}, fmt.Errorf("GetCommProperties: %w", e1)
	}
	return commProperties{CurrentRxQueue: cp.CurrentRxQueue, CurrentTxQueue: cp.CurrentTxQueue}, nil
}

func (c *commHandle) status() (commStatus, error) {
	var errs uint32
	var cs windows.ComStat
	if err := windows.ClearCommError(c.h, &errs, &cs); err != nil {
		return commStatus{}, fmt.Errorf("ClearCommError: %w", err)
	}
	return commStatus{Errors: errs, InQueue: cs.CBInQue, OutQueue: cs.CBOutQue}, nil
}

func (c *commHandle) read(p []byte) (int, error) {
	var n uint32
	if err := windows.ReadFile(c.h, p, &n, nil); err != nil {
		return int(n), fmt.Errorf("ReadFile: %w", err)
	}
	return int(n), nil
}

func (c *commHandle) write(p []byte) (int, error) {
	var n uint32
	if err := windows.WriteFile(c.h, p, &n, nil); err != nil {
		return int(n), fmt.Errorf("WriteFile: %w", err)
	}
	return int(n), nil
}

func (c *commHandle) close() error {
	return windows.CloseHandle(c.h)
}
