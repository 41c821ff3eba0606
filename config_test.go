package serial

import (
	"errors"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Name != defaultDeviceName {
		t.Errorf("Expected Name %q, got %q", defaultDeviceName, config.Name)
	}

	if config.BaudRate != 9600 {
		t.Errorf("Expected BaudRate 9600, got %d", config.BaudRate)
	}

	if config.DataBits != 8 {
		t.Errorf("Expected DataBits 8, got %d", config.DataBits)
	}

	if config.StopBits != StopBitsOne {
		t.Errorf("Expected StopBits 1, got %v", config.StopBits)
	}

	if config.Parity != ParityNone {
		t.Errorf("Expected Parity None, got %v", config.Parity)
	}

	if config.FlowControl != FlowControlNone {
		t.Errorf("Expected FlowControl None, got %v", config.FlowControl)
	}

	if config.ReceiveTimeout != 0 {
		t.Errorf("Expected no ReceiveTimeout, got %v", config.ReceiveTimeout)
	}
}

func TestFunctionalOptions(t *testing.T) {
	config := DefaultConfig()

	if err := WithBaudRate(19200)(&config); err != nil {
		t.Errorf("WithBaudRate failed: %v", err)
	}
	if config.BaudRate != 19200 {
		t.Errorf("Expected BaudRate 19200, got %d", config.BaudRate)
	}

	if err := WithDataBits(7)(&config); err != nil {
		t.Errorf("WithDataBits failed: %v", err)
	}
	if config.DataBits != 7 {
		t.Errorf("Expected DataBits 7, got %d", config.DataBits)
	}

	if err := WithStopBits(StopBitsTwo)(&config); err != nil {
		t.Errorf("WithStopBits failed: %v", err)
	}
	if config.StopBits != StopBitsTwo {
		t.Errorf("Expected StopBits 2, got %v", config.StopBits)
	}

	if err := WithParity(ParityMark)(&config); err != nil {
		t.Errorf("WithParity failed: %v", err)
	}
	if config.Parity != ParityMark {
		t.Errorf("Expected Parity mark, got %v", config.Parity)
	}

	if err := WithFlowControl(FlowControlHardware)(&config); err != nil {
		t.Errorf("WithFlowControl failed: %v", err)
	}
	if config.FlowControl != FlowControlHardware {
		t.Errorf("Expected FlowControl hardware, got %v", config.FlowControl)
	}

	if err := WithReceiveTimeout(250 * time.Millisecond)(&config); err != nil {
		t.Errorf("WithReceiveTimeout failed: %v", err)
	}
	if config.ReceiveTimeout != 250*time.Millisecond {
		t.Errorf("Expected ReceiveTimeout 250ms, got %v", config.ReceiveTimeout)
	}
}

func TestInvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"zero baud rate", WithBaudRate(0)},
		{"4 data bits", WithDataBits(4)},
		{"9 data bits", WithDataBits(9)},
		{"parity out of range", WithParity(Parity(5))},
		{"negative parity", WithParity(Parity(-1))},
		{"stop bits out of range", WithStopBits(StopBits(3))},
		{"flow control out of range", WithFlowControl(FlowControl(7))},
		{"negative timeout", WithReceiveTimeout(-time.Millisecond)},
		{"timeout beyond a DWORD", WithReceiveTimeout(time.Duration(1<<32) * time.Millisecond)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			err := tt.opt(&config)
			if err == nil {
				t.Fatal("Expected error")
			}
			if !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("Expected ErrInvalidParameter, got %v", err)
			}
			if config != DefaultConfig() {
				t.Errorf("Rejected option modified config: %+v", config)
			}
		})
	}
}

func TestTimeoutMillis(t *testing.T) {
	tests := []struct {
		name    string
		timeout time.Duration
		want    uint32
		wantErr bool
	}{
		{"zero (no timeout)", 0, 0, false},
		{"100ms", 100 * time.Millisecond, 100, false},
		{"2.5s", 2500 * time.Millisecond, 2500, false},
		{"truncates to whole ms", 1500 * time.Microsecond, 1, false},
		{"sub-millisecond rounds up", 250 * time.Microsecond, 1, false},
		{"negative", -100 * time.Millisecond, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := timeoutMillis(tt.timeout)
			if (err != nil) != tt.wantErr {
				t.Fatalf("timeoutMillis(%v) error = %v, wantErr %v", tt.timeout, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("timeoutMillis(%v) = %d, want %d", tt.timeout, got, tt.want)
			}
		})
	}
}
