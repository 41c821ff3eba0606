/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"time"

	"github.com/allbin/go-serialdevice/internal/tui/models"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var monitorInterval time.Duration

// monitorCmd represents the monitor command
var monitorCmd = &cobra.Command{
	Use:   "monitor [port]",
	Short: "Watch a serial device's queues live",
	Long: `Open a serial device and show its receive and transmit queues in a live
terminal view, polled every --interval.

Capacity, current backlog, fill level and peak backlog are shown for both
directions. Press p to pause, r to poll immediately, c to clear the peaks
and q to quit.

Examples:
  serialctl monitor /dev/ttyUSB0
  serialctl monitor COM3 --interval 100ms`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dev, err := openDevice(args)
		if err != nil {
			return err
		}

		settings, err := dev.Settings()
		if err != nil {
			dev.Close()
			return err
		}

		m := models.NewMonitorModel(dev, dev.Name(), settings, monitorInterval)
		// A poll may still be in flight after quit; Close waits for it.
		defer m.Close(dev)

		_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(monitorCmd)

	monitorCmd.Flags().DurationVarP(&monitorInterval, "interval", "i", 500*time.Millisecond,
		"Polling interval")
}
