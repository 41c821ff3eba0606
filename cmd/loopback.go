/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	serial "github.com/allbin/go-serialdevice"
	"github.com/allbin/go-serialdevice/internal/tui/styles"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// loopbackCmd represents the loopback command
var loopbackCmd = &cobra.Command{
	Use:   "loopback [port]",
	Short: "Send bytes and check they come back",
	Long: `Send a payload and read it back, for a device with TX wired to RX or a
loopback plug fitted.

The payload defaults to the bytes 41 42 43 ("ABC"). Reads are repeated until
as many bytes came back as were accepted, or --wait elapses. The command
exits non-zero when the echo does not match.

Example usage:
  serialctl loopback /dev/ttyUSB0
  serialctl loopback COM3 --payload "de ad be ef" --wait 2s`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		payloadHex, _ := cmd.Flags().GetString("payload")
		wait, _ := cmd.Flags().GetDuration("wait")

		payload, err := parseHexString(payloadHex)
		if err != nil {
			return err
		}

		var extra []serial.Option
		if viper.GetDuration("timeout") == 0 {
			extra = append(extra, serial.WithReceiveTimeout(100*time.Millisecond))
		}

		dev, err := openDevice(args, extra...)
		if err != nil {
			return err
		}
		defer dev.Close()

		result, err := runLoopback(dev, payload, wait)
		if err != nil {
			return err
		}
		printLoopback(os.Stdout, dev.Name(), payload, result)
		return result.err()
	},
}

func init() {
	rootCmd.AddCommand(loopbackCmd)

	loopbackCmd.Flags().String("payload", "41 42 43", "Payload in hex")
	loopbackCmd.Flags().Duration("wait", time.Second, "How long to wait for the echo")
}

// loopbackDevice is the transfer side of a serial device.
type loopbackDevice interface {
	byteReader
	SendBytes(data []byte) (int, error)
}

type loopbackResult struct {
	Sent     int
	Received []byte
	Match    bool
	Elapsed  time.Duration
}

var errEchoMismatch = errors.New("echo does not match")

func (r loopbackResult) err() error {
	if !r.Match {
		return fmt.Errorf("%w: sent %d bytes, received %d", errEchoMismatch, r.Sent, len(r.Received))
	}
	return nil
}

// runLoopback sends payload once and collects the echo of whatever the device
// accepted. Empty reads are retried until wait elapses.
func runLoopback(dev loopbackDevice, payload []byte, wait time.Duration) (loopbackResult, error) {
	start := time.Now()

	sent, err := dev.SendBytes(payload)
	if err != nil {
		return loopbackResult{}, err
	}

	result := loopbackResult{Sent: sent, Received: make([]byte, 0, sent)}
	deadline := start.Add(wait)
	var chunk []byte
	for len(result.Received) < sent && time.Now().Before(deadline) {
		chunk, err = dev.ReadBytes(chunk, sent-len(result.Received))
		if err != nil {
			return result, err
		}
		result.Received = append(result.Received, chunk...)
	}

	result.Elapsed = time.Since(start)
	result.Match = sent == len(payload) && bytes.Equal(result.Received, payload)
	return result, nil
}

func printLoopback(w io.Writer, name string, payload []byte, result loopbackResult) {
	fmt.Fprintf(w, "Device:   %s\n", name)
	fmt.Fprintf(w, "Sent:     % X (%d of %d bytes accepted)\n", payload[:result.Sent], result.Sent, len(payload))
	fmt.Fprintf(w, "Received: % X (%d bytes)\n", result.Received, len(result.Received))
	fmt.Fprintf(w, "Elapsed:  %v\n", result.Elapsed.Round(time.Millisecond))

	if result.Match {
		fmt.Fprintf(w, "%s Echo matches\n", styles.SuccessStyle.Render("✓"))
	} else {
		fmt.Fprintf(w, "%s Echo does not match\n", styles.ErrorStyle.Render("✗"))
	}
}
