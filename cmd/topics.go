package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fleetlab/vtelem/config"
	"github.com/fleetlab/vtelem/core/topics"
)

var topicsCmd = &cobra.Command{
	Use:   "topics [vehicle-id...]",
	Short: "Print the derived topic namespace",
	RunE:  runTopics,
}

func init() {
	rootCmd.AddCommand(topicsCmd)
}

func runTopics(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	ns := topics.FromParams(cfg.MQTT.Params())
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "root:      %s\n", ns.Root())
	fmt.Fprintf(out, "vehicles:  %s\n", ns.VehicleFilter())
	fmt.Fprintf(out, "telemetry: %s\n", ns.TelemetryFilter())
	fmt.Fprintf(out, "info:      %s\n", ns.InfoFilter())
	for _, id := range args {
		if err := topics.ValidVehicleID(id); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s:\n  telemetry: %s\n  info:      %s\n", id, ns.Telemetry(id), ns.Info(id))
	}
	return nil
}
