/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/allbin/go-serialdevice/internal/tui/components"
	"github.com/spf13/cobra"
	"go.bug.st/serial/enumerator"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available serial ports",
	Long: `List the serial ports the operating system reports, with USB metadata
where available.

Example usage:
  serialctl list
  serialctl list --filter usb --table`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		filterType, _ := cmd.Flags().GetString("filter")
		tableFormat, _ := cmd.Flags().GetBool("table")

		ports, err := enumerator.GetDetailedPortsList()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing ports: %v\n", err)
			os.Exit(1)
		}

		rows, err := portRows(ports, filterType)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if len(rows) == 0 {
			if filterType != "" && filterType != "all" {
				fmt.Printf("No serial ports found matching filter: %s\n", filterType)
			} else {
				fmt.Println("No serial ports found")
			}
			return
		}

		if tableFormat {
			fmt.Printf("Found %d serial port(s):\n\n", len(rows))
			fmt.Println(components.NewPortTable(rows, 100).View())
		} else {
			renderSimple(os.Stdout, rows)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringP("filter", "F", "", "Filter by port type: usb, standard, arm, all")
	listCmd.Flags().BoolP("table", "T", false, "Display output in a styled table format")
}

// portRows converts enumerated ports into table rows, keeping only those
// that match filterType.
func portRows(ports []*enumerator.PortDetails, filterType string) ([]components.PortRow, error) {
	filterType = strings.ToLower(filterType)
	switch filterType {
	case "", "all", "usb", "standard", "arm":
	default:
		return nil, fmt.Errorf("unknown filter %q (valid: usb, standard, arm, all)", filterType)
	}

	var rows []components.PortRow
	for _, p := range ports {
		portType := getPortType(p)
		if !matchesFilter(p, portType, filterType) {
			continue
		}

		row := components.PortRow{Name: p.Name, Type: portType, Product: p.Product}
		if p.IsUSB {
			row.USBID = strings.ToLower(p.VID + ":" + p.PID)
			row.Serial = p.SerialNumber
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func matchesFilter(p *enumerator.PortDetails, portType, filterType string) bool {
	switch filterType {
	case "usb":
		return p.IsUSB
	case "standard":
		return portType == "Standard Serial"
	case "arm":
		return portType == "ARM Serial"
	default:
		return true
	}
}

// getPortType returns a more specific type classification for the port
func getPortType(p *enumerator.PortDetails) string {
	name := strings.ToLower(filepath.Base(p.Name))
	switch {
	case strings.HasPrefix(name, "ttyusb"):
		return "USB Serial"
	case strings.HasPrefix(name, "ttyacm"):
		return "USB CDC/ACM"
	case p.IsUSB:
		return "USB Serial"
	case strings.HasPrefix(name, "ttyama"):
		return "ARM Serial"
	case strings.HasPrefix(name, "ttymxc"):
		return "i.MX Serial"
	case strings.HasPrefix(name, "ttysac"):
		return "Samsung Serial"
	case strings.HasPrefix(name, "ttyths"):
		return "Tegra Serial"
	case strings.HasPrefix(name, "ttyo"):
		return "OMAP Serial"
	case strings.HasPrefix(name, "ttys"), strings.HasPrefix(name, "com"):
		return "Standard Serial"
	default:
		return "Serial Port"
	}
}

// renderSimple renders the port list in simple text format
func renderSimple(w io.Writer, rows []components.PortRow) {
	for _, row := range rows {
		if row.USBID != "" {
			fmt.Fprintf(w, "%s\t%s\n", row.Name, row.USBID)
		} else {
			fmt.Fprintln(w, row.Name)
		}
	}
}
