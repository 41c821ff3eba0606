package serial

import (
	"testing"
)

// fakeDevice is a scripted serial device. It counts opens and closes and
// records every transfer so tests can assert what reached the "OS".
type fakeDevice struct {
	opens  int
	closes int

	openErr  error
	closeErr error

	cb          controlBlock
	stateErr    error
	setStateErr error
	// substitute lets the device alter what it actually applies.
	substitute func(*controlBlock)

	to             commTimeouts
	timeoutsErr    error
	setTimeoutsErr error

	props    commProperties
	propsErr error
	stat     commStatus
	statErr  error

	rx         []byte
	tx         []byte
	reads      int
	writes     int
	readErr    error
	writeErr   error
	writeLimit int
	lastRead   int
}

type fakeHandle struct {
	dev *fakeDevice
}

func (f *fakeHandle) state() (controlBlock, error) {
	if f.dev.stateErr != nil {
		return controlBlock{}, f.dev.stateErr
	}
	return f.dev.cb, nil
}

func (f *fakeHandle) setState(cb controlBlock) error {
	if f.dev.setStateErr != nil {
		return f.dev.setStateErr
	}
	if f.dev.substitute != nil {
		f.dev.substitute(&cb)
	}
	f.dev.cb = cb
	return nil
}

func (f *fakeHandle) timeouts() (commTimeouts, error) {
	return f.dev.to, f.dev.timeoutsErr
}

func (f *fakeHandle) setTimeouts(to commTimeouts) error {
	if f.dev.setTimeoutsErr != nil {
		return f.dev.setTimeoutsErr
	}
	f.dev.to = to
	return nil
}

func (f *fakeHandle) properties() (commProperties, error) {
	return f.dev.props, f.dev.propsErr
}

func (f *fakeHandle) status() (commStatus, error) {
	return f.dev.stat, f.dev.statErr
}

func (f *fakeHandle) read(p []byte) (int, error) {
	f.dev.reads++
	f.dev.lastRead = len(p)
	if f.dev.readErr != nil {
		return 0, f.dev.readErr
	}
	n := copy(p, f.dev.rx)
	f.dev.rx = f.dev.rx[n:]
	return n, nil
}

func (f *fakeHandle) write(p []byte) (int, error) {
	f.dev.writes++
	if f.dev.writeErr != nil {
		return 0, f.dev.writeErr
	}
	n := len(p)
	if f.dev.writeLimit > 0 && n > f.dev.writeLimit {
		n = f.dev.writeLimit
	}
	f.dev.tx = append(f.dev.tx, p[:n]...)
	return n, nil
}

func (f *fakeHandle) close() error {
	f.dev.closes++
	return f.dev.closeErr
}

// useFakeDevice routes Open to a fresh fakeDevice for the rest of the test.
func useFakeDevice(t *testing.T) *fakeDevice {
	t.Helper()
	dev := &fakeDevice{
		cb: controlBlock{
			BaudRate: 115200,
			ByteSize: 7,
			Parity:   evenParity,
			StopBits: twoStopBits,
		},
	}
	prev := openHandle
	openHandle = func(name string) (handle, error) {
		if dev.openErr != nil {
			return nil, dev.openErr
		}
		dev.opens++
		return &fakeHandle{dev: dev}, nil
	}
	t.Cleanup(func() { openHandle = prev })
	return dev
}

// limitTransfers lowers the transfer bound so range checks can be exercised
// without multi-gigabyte buffers.
func limitTransfers(t *testing.T, limit uint64) {
	t.Helper()
	prev := maxTransferSize
	maxTransferSize = limit
	t.Cleanup(func() { maxTransferSize = prev })
}
