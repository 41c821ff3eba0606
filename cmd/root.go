/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "serialctl",
	Short: "Open, configure and exercise serial devices",
	Long: `serialctl opens a serial device exclusively, applies the requested line
settings and moves raw bytes through it.

Line settings come from flags, SERIALCTL_* environment variables or a
config file, in that order of precedence.

Examples:
  serialctl info --port /dev/ttyUSB0 --baud 19200
  serialctl loopback COM3
  SERIALCTL_PORT=/dev/ttyS1 serialctl read --count 16 --timeout 1s`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. It is called once by main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default $HOME/.serialctl.yaml)")
	flags.StringP("port", "p", "", "serial device name (default is the platform's first port)")
	flags.Uint32P("baud", "b", 9600, "Baud rate")
	flags.Uint8P("data-bits", "d", 8, "Data bits: 5, 6, 7 or 8")
	flags.String("parity", "none", "Parity: none, odd, even, mark, space")
	flags.String("stop-bits", "1", "Stop bits: 1, 1.5, 2")
	flags.StringP("flow-control", "f", "none", "Flow control: none, software, hardware")
	flags.DurationP("timeout", "t", 0, "Receive timeout (0 blocks until data arrives)")
	flags.BoolP("verbose", "v", false, "Log device operations to stderr")

	if err := viper.BindPFlags(flags); err != nil {
		panic(err)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".serialctl")
	}

	viper.SetEnvPrefix("serialctl")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Error reading config: %v\n", err)
			os.Exit(1)
		}
		return
	}
	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}
