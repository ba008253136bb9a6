package cmd

import (
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "vtelem",
	Short: "Vehicle telemetry MQTT configuration and namespace tool",
	Long: `vtelem manages the MQTT configuration record of a vehicle telemetry
fleet: broker coordinates, account credentials and the per-user topic
namespace under which vehicles publish telemetry and info payloads.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (defaults apply when omitted)")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }
