/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"io"
	"os"

	serial "github.com/allbin/go-serialdevice"
	"github.com/allbin/go-serialdevice/internal/tui/styles"
	"github.com/spf13/cobra"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info [port]",
	Short: "Open a serial device and display its settings and queues",
	Long: `Open a serial device with the configured line settings and display what
the driver applied together with its queue capacities and backlogs.

Examples:
  serialctl info /dev/ttyUSB0
  serialctl info COM3 --baud 19200 --parity even --stop-bits 2`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dev, err := openDevice(args)
		if err != nil {
			return err
		}
		defer dev.Close()

		return printInfo(os.Stdout, dev)
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

// deviceInfo is what info queries from an open device.
type deviceInfo interface {
	Name() string
	Config() serial.Config
	Settings() (serial.Settings, error)
	ReceiveQueueCapacity() (int, error)
	TransmitQueueCapacity() (int, error)
	ReceiveBacklog() (int, error)
	TransmitBacklog() (int, error)
}

func printInfo(w io.Writer, dev deviceInfo) error {
	settings, err := dev.Settings()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s\n\n", styles.TitleStyle.Render(dev.Name()))
	fmt.Fprintf(w, "  Baud rate:    %d\n", settings.BaudRate)
	fmt.Fprintf(w, "  Data bits:    %d\n", settings.DataBits)
	fmt.Fprintf(w, "  Parity:       %s\n", settings.Parity)
	fmt.Fprintf(w, "  Stop bits:    %s\n", settings.StopBits)
	fmt.Fprintf(w, "  Flow control: %s\n", settings.FlowControl)
	if timeout := dev.Config().ReceiveTimeout; timeout > 0 {
		fmt.Fprintf(w, "  Rx timeout:   %v\n", timeout)
	} else {
		fmt.Fprintf(w, "  Rx timeout:   none (blocking)\n")
	}

	queries := []struct {
		label string
		query func() (int, error)
	}{
		{"Rx capacity:", dev.ReceiveQueueCapacity},
		{"Tx capacity:", dev.TransmitQueueCapacity},
		{"Rx backlog: ", dev.ReceiveBacklog},
		{"Tx backlog: ", dev.TransmitBacklog},
	}

	fmt.Fprintln(w, "\nQueues:")
	for _, q := range queries {
		n, err := q.query()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  %s  %d bytes\n", q.label, n)
	}
	return nil
}
