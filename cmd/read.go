/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/allbin/go-serialdevice/internal/tui/components"
	"github.com/allbin/go-serialdevice/internal/tui/styles"
	"github.com/spf13/cobra"
)

// readCmd represents the read command
var readCmd = &cobra.Command{
	Use:   "read [port]",
	Short: "Read bytes from a serial device",
	Long: `Read up to --count bytes from a serial device and dump them as hex and
ASCII.

A single read is performed unless --fill is given, in which case reads are
repeated until --count bytes arrived or a read comes back empty. Use
--timeout to bound each read; without it the read blocks until data arrives.

Example usage:
  serialctl read /dev/ttyUSB0 --count 16 --timeout 500ms
  serialctl read COM3 --count 64 --fill --timeout 1s`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")
		fill, _ := cmd.Flags().GetBool("fill")
		showHex, _ := cmd.Flags().GetBool("hex")
		showASCII, _ := cmd.Flags().GetBool("ascii")

		dev, err := openDevice(args)
		if err != nil {
			return err
		}
		defer dev.Close()

		start := time.Now()
		var data []byte
		if fill {
			data, err = readFull(dev, count)
		} else {
			data, err = dev.ReadBytes(nil, count)
		}
		if err != nil {
			return err
		}

		printRead(os.Stdout, components.NewDataFormatter(showHex, showASCII), data, count, time.Since(start))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(readCmd)

	readCmd.Flags().IntP("count", "c", 64, "Number of bytes to read")
	readCmd.Flags().Bool("fill", false, "Keep reading until count bytes arrived or a read times out empty")
	readCmd.Flags().Bool("hex", true, "Show hex column")
	readCmd.Flags().Bool("ascii", true, "Show ASCII column")
}

// byteReader is the read side of a serial device.
type byteReader interface {
	ReadBytes(buf []byte, count int) ([]byte, error)
}

// readFull repeats reads until count bytes arrived or a read returns nothing.
func readFull(r byteReader, count int) ([]byte, error) {
	data := make([]byte, 0, count)
	var chunk []byte
	for len(data) < count {
		var err error
		chunk, err = r.ReadBytes(chunk, count-len(data))
		if err != nil {
			return data, err
		}
		if len(chunk) == 0 {
			break
		}
		data = append(data, chunk...)
	}
	return data, nil
}

func printRead(w io.Writer, df *components.DataFormatter, data []byte, requested int, elapsed time.Duration) {
	for _, line := range df.Dump(data, 16) {
		fmt.Fprintln(w, line)
	}

	status := styles.SuccessStyle.Render("✓")
	if len(data) < requested {
		status = styles.StatusPausedStyle.Render("!")
	}
	fmt.Fprintf(w, "%s Read %d of %d bytes in %v\n", status, len(data), requested, elapsed.Round(time.Millisecond))
}
