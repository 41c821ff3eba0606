// Package serial opens and configures a serial device and moves raw bytes
// through it.
//
// A Device is opened exclusively, configured with the requested baud rate,
// data bits, parity, stop bits and flow control, and verified by reading the
// applied settings back. It then offers single-transfer reads and writes,
// a total receive timeout, and introspection of the driver's queues.
//
// # Basic Usage
//
// Open a device with the default configuration (9600 8N1, no flow control):
//
//	dev, err := serial.Open("/dev/ttyUSB0")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer dev.Close()
//
//	n, err := dev.SendBytes([]byte("ABC"))
//	buf, err := dev.ReadBytes(nil, 3)
//
// # Configuration Options
//
// Use functional options for custom configuration:
//
//	dev, err := serial.Open("COM3",
//	    serial.WithBaudRate(19200),
//	    serial.WithDataBits(7),
//	    serial.WithParity(serial.ParityEven),
//	    serial.WithStopBits(serial.StopBitsTwo),
//	    serial.WithFlowControl(serial.FlowControlHardware),
//	    serial.WithReceiveTimeout(500*time.Millisecond),
//	)
//
// # Reads and Writes
//
// ReadBytes performs exactly one read of up to count bytes and returns the
// filled prefix of the buffer. A short or empty result is not an error: it
// means the receive timeout elapsed first. SendBytes performs exactly one
// write and reports how many bytes the OS accepted. Neither retries.
//
// A receive timeout of zero makes reads block until data arrives. A non-zero
// timeout bounds the whole read regardless of the byte count.
//
// # Queues
//
// ReceiveQueueCapacity and TransmitQueueCapacity report the driver buffer
// sizes. ReceiveBacklog and TransmitBacklog report how many bytes are waiting
// in each direction.
//
// # Error Handling
//
// Every failure is an *OpError naming the operation and device. Its Kind is
// one of ErrDeviceOpen, ErrDeviceConfig, ErrInvalidParameter, ErrSizeRange,
// ErrRuntime or ErrDeviceClosed, and a cause such as ErrDeviceNotFound may be
// wrapped alongside it:
//
//	if errors.Is(err, serial.ErrDeviceOpen) && errors.Is(err, serial.ErrDeviceInUse) {
//	    // another process holds the device
//	}
//
// # Platform Support
//
// Windows uses the Comm API. Linux maps the same settings onto termios and
// honours the receive timeout with poll. Other platforms fail to open with
// ErrUnsupported.
package serial
