/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"log/slog"
	"math"
	"os"

	serial "github.com/allbin/go-serialdevice"
	"github.com/spf13/viper"
)

// deviceOptions turns the configured line settings into a device name and
// open options. A positional argument overrides the configured port.
func deviceOptions(v *viper.Viper, args []string) (string, []serial.Option, error) {
	name := v.GetString("port")
	if len(args) > 0 && args[0] != "" {
		name = args[0]
	}

	parity, err := serial.ParseParity(v.GetString("parity"))
	if err != nil {
		return "", nil, err
	}
	stopBits, err := serial.ParseStopBits(v.GetString("stop-bits"))
	if err != nil {
		return "", nil, err
	}
	flow, err := serial.ParseFlowControl(v.GetString("flow-control"))
	if err != nil {
		return "", nil, err
	}
	dataBits := v.GetUint("data-bits")
	if dataBits > math.MaxUint8 {
		return "", nil, fmt.Errorf("data bits %d out of range", dataBits)
	}

	opts := []serial.Option{
		serial.WithBaudRate(v.GetUint32("baud")),
		serial.WithDataBits(uint8(dataBits)),
		serial.WithParity(parity),
		serial.WithStopBits(stopBits),
		serial.WithFlowControl(flow),
	}
	if timeout := v.GetDuration("timeout"); timeout > 0 {
		opts = append(opts, serial.WithReceiveTimeout(timeout))
	}
	if v.GetBool("verbose") {
		opts = append(opts, serial.WithLogger(verboseLogger()))
	}
	return name, opts, nil
}

func verboseLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// openDevice opens the configured device, appending extra options last so
// they win over configuration.
func openDevice(args []string, extra ...serial.Option) (*serial.Device, error) {
	name, opts, err := deviceOptions(viper.GetViper(), args)
	if err != nil {
		return nil, err
	}
	return serial.Open(name, append(opts, extra...)...)
}
