/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	serial "github.com/allbin/go-serialdevice"
	"github.com/allbin/go-serialdevice/internal/tui/components"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// captureCmd represents the capture command
var captureCmd = &cobra.Command{
	Use:   "capture <output-file> [port]",
	Short: "Capture serial data to a file",
	Long: `Capture incoming serial data to a file for later parsing.

Reads from the serial device and appends everything to the output file until
interrupted (Ctrl+C). Reads use the configured --timeout, or --poll when no
timeout is set, so an interrupt is noticed even while the line is quiet.
With --console every read is also shown as a timestamped line.

Example usage:
  serialctl capture data.log /dev/ttyUSB0
  serialctl capture output.bin COM3 --baud 19200
  serialctl capture capture.log --port /dev/ttyUSB0 --console`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		outputPath := args[0]

		bufferSize, _ := cmd.Flags().GetInt("buffer")
		showConsole, _ := cmd.Flags().GetBool("console")
		showHex, _ := cmd.Flags().GetBool("hex")
		showASCII, _ := cmd.Flags().GetBool("ascii")
		poll, _ := cmd.Flags().GetDuration("poll")

		timeout := viper.GetDuration("timeout")
		if err := checkCapturePoll(timeout, poll); err != nil {
			return err
		}
		var extra []serial.Option
		if timeout == 0 {
			extra = append(extra, serial.WithReceiveTimeout(poll))
		}

		dev, err := openDevice(args[1:], extra...)
		if err != nil {
			return fmt.Errorf("failed to open device: %w", err)
		}
		defer dev.Close()

		file, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open output file: %w", err)
		}
		defer file.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Fprintf(os.Stderr, "Capturing data from %s to %s\n", dev.Name(), outputPath)
		fmt.Fprintf(os.Stderr, "Press Ctrl+C to stop\n\n")

		var console *captureConsole
		if showConsole {
			console = &captureConsole{w: os.Stdout, df: components.NewDataFormatter(showHex, showASCII)}
		}

		startTime := time.Now()
		written, err := runCapture(ctx, dev, file, console, bufferSize)
		fmt.Fprintf(os.Stderr, "\nCapture complete: %d bytes written in %v\n", written, time.Since(startTime).Round(time.Millisecond))
		return err
	},
}

func init() {
	rootCmd.AddCommand(captureCmd)

	captureCmd.Flags().Int("buffer", 4096, "Read buffer size")
	captureCmd.Flags().BoolP("console", "c", false, "Display each read on the console while capturing")
	captureCmd.Flags().Bool("hex", true, "Show hex on the console")
	captureCmd.Flags().Bool("ascii", true, "Show ASCII on the console")
	captureCmd.Flags().Duration("poll", 200*time.Millisecond, "Receive timeout used when --timeout is not set")
}

// checkCapturePoll refuses a capture whose reads could block forever, since
// an interrupt is only noticed between reads.
func checkCapturePoll(timeout, poll time.Duration) error {
	if timeout == 0 && poll <= 0 {
		return fmt.Errorf("--poll must be positive when --timeout is not set")
	}
	return nil
}

// captureConsole renders every read as one timestamped line.
type captureConsole struct {
	w  io.Writer
	df *components.DataFormatter
}

func (c *captureConsole) show(data []byte, requested int) {
	fmt.Fprintln(c.w, c.df.FormatTransfer(components.Transfer{
		Timestamp: time.Now(),
		Data:      data,
		Requested: requested,
	}))
}

// runCapture copies reads into out until ctx is done or a read or write
// fails. Each read is bounded by the device's receive timeout, which is
// when ctx is checked.
func runCapture(ctx context.Context, r byteReader, out io.Writer, console *captureConsole, bufferSize int) (int64, error) {
	buffer := make([]byte, 0, bufferSize)
	var total int64

	for ctx.Err() == nil {
		data, err := r.ReadBytes(buffer, bufferSize)
		if err != nil {
			return total, fmt.Errorf("read error: %w", err)
		}
		if len(data) == 0 {
			continue
		}

		n, err := out.Write(data)
		total += int64(n)
		if err != nil {
			return total, fmt.Errorf("write error: %w", err)
		}
		if console != nil {
			console.show(data, bufferSize)
		}
	}
	return total, nil
}
