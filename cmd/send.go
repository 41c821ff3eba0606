/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/allbin/go-serialdevice/internal/tui/components"
	"github.com/allbin/go-serialdevice/internal/tui/styles"
	"github.com/spf13/cobra"
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send [data] [port]",
	Short: "Send data to a serial device",
	Long: `Send data to a serial device in a single write.

Data can be provided as:
- Command line argument: serialctl send "Hello World" /dev/ttyUSB0
- From stdin (pipe): echo "test data" | serialctl send --port /dev/ttyUSB0
- Interactive mode: serialctl send --port /dev/ttyUSB0 (prompts for input)

The device may accept fewer bytes than were offered; the count it accepted
is reported and nothing is retried.

Example usage:
  serialctl send "AT+GMR" /dev/ttyUSB0 --newline
  serialctl send "41 42 43" COM3 --hex`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var data string
		var portArgs []string

		if len(args) == 0 {
			stat, err := os.Stdin.Stat()
			if err != nil || (stat.Mode()&os.ModeCharDevice) != 0 {
				data = promptForData()
			} else {
				stdinData, err := io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("reading from stdin: %w", err)
				}
				data = strings.TrimRight(string(stdinData), "\r\n")
			}
		} else {
			data = args[0]
			portArgs = args[1:]
		}

		addNewline, _ := cmd.Flags().GetBool("newline")
		hexMode, _ := cmd.Flags().GetBool("hex")

		payload, err := buildPayload(data, hexMode, addNewline)
		if err != nil {
			return err
		}
		return sendData(os.Stdout, portArgs, payload)
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().BoolP("newline", "n", false, "Add newline character to the end of data")
	sendCmd.Flags().BoolP("hex", "x", false, "Interpret data as hexadecimal (e.g., '48656c6c6f' for 'Hello')")
}

func promptForData() string {
	fmt.Print(styles.InfoStyle.Render("Enter data to send: "))

	scanner := bufio.NewScanner(os.Stdin)
	if scanner.Scan() {
		return scanner.Text()
	}
	return ""
}

// parseHexString accepts "48656c6c6f", "48 65 6c 6c 6f" and "0x48 0x65".
func parseHexString(hexStr string) ([]byte, error) {
	hexStr = strings.ReplaceAll(hexStr, "0x", "")
	hexStr = strings.ReplaceAll(hexStr, "0X", "")
	hexStr = strings.Join(strings.Fields(hexStr), "")

	if hexStr == "" {
		return nil, fmt.Errorf("empty hex string")
	}
	if len(hexStr)%2 != 0 {
		return nil, fmt.Errorf("hex string must have even length (got %d digits)", len(hexStr))
	}
	data, err := hex.DecodeString(hexStr)
	if err != nil {
		return nil, fmt.Errorf("invalid hex data: %w", err)
	}
	return data, nil
}

func buildPayload(data string, hexMode, addNewline bool) ([]byte, error) {
	if hexMode {
		return parseHexString(data)
	}
	if addNewline {
		data += "\n"
	}
	if data == "" {
		return nil, fmt.Errorf("nothing to send")
	}
	return []byte(data), nil
}

func sendData(w io.Writer, args []string, payload []byte) error {
	dev, err := openDevice(args)
	if err != nil {
		return fmt.Errorf("%s %w", styles.ErrorStyle.Render("✗"), err)
	}
	defer dev.Close()

	fmt.Fprintf(w, "%s Opened %s (%s)\n", styles.SuccessStyle.Render("✓"), dev.Name(),
		dev.Config().Settings())

	n, err := dev.SendBytes(payload)
	if err != nil {
		return fmt.Errorf("%s failed to send data: %w", styles.ErrorStyle.Render("✗"), err)
	}

	printSent(w, payload, n, time.Now())
	return nil
}

// printSent reports how much of payload the device accepted and echoes the
// accepted bytes as a TX line.
func printSent(w io.Writer, payload []byte, n int, at time.Time) {
	if n < len(payload) {
		fmt.Fprintf(w, "%s Device accepted %d of %d bytes\n", styles.StatusPausedStyle.Render("!"), n, len(payload))
	} else {
		fmt.Fprintf(w, "%s Sent %d bytes\n", styles.SuccessStyle.Render("✓"), n)
	}

	df := components.NewDataFormatter(true, true)
	fmt.Fprintln(w, df.FormatTransfer(components.Transfer{Timestamp: at, Data: payload[:n], IsTX: true}))
}
