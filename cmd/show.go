package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fleetlab/vtelem/config"
	"github.com/fleetlab/vtelem/core/conf"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	masked := *cfg
	if masked.MQTT.Password != "" && !conf.IsPlaceholder(masked.MQTT.Password) {
		masked.MQTT.Password = "***"
	}
	out, err := json.MarshalIndent(masked, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
