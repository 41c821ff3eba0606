package serial

// commTimeouts has the layout of the Win32 COMMTIMEOUTS structure. All
// values are milliseconds.
type commTimeouts struct {
	ReadIntervalTimeout         uint32
	ReadTotalTimeoutMultiplier  uint32
	ReadTotalTimeoutConstant    uint32
	WriteTotalTimeoutMultiplier uint32
	WriteTotalTimeoutConstant   uint32
}

// commProperties carries the driver-reported queue sizes in bytes.
type commProperties struct {
	CurrentRxQueue uint32
	CurrentTxQueue uint32
}

// commStatus is the result of the error-clearing status query.
type commStatus struct {
	Errors   uint32 // line errors latched since the previous query
	InQueue  uint32 // bytes received but not yet read
	OutQueue uint32 // bytes written but not yet transmitted
}

// handle is an exclusively owned OS device. Implementations report raw OS
// errors; Device attaches the error kind and operation.
type handle interface {
	state() (controlBlock, error)
	setState(cb controlBlock) error
	timeouts() (commTimeouts, error)
	setTimeouts(to commTimeouts) error
	properties() (commProperties, error)
	status() (commStatus, error)
	read(p []byte) (int, error)
	write(p []byte) (int, error)
	close() error
}

// openHandle opens the named device for exclusive read/write access.
// Tests replace it with a counting double.
var openHandle = openNative
