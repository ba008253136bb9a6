package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fleetlab/vtelem/config"
	"github.com/fleetlab/vtelem/infra/mqtt"
)

var probeTimeout time.Duration

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check that the configured broker is reachable",
	RunE:  runProbe,
}

func init() {
	probeCmd.Flags().DurationVar(&probeTimeout, "timeout", 10*time.Second, "probe timeout")
	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := mqtt.Probe(ctx, cfg.MQTT); err != nil {
		return fmt.Errorf("broker unreachable: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "broker %s reachable\n", cfg.MQTT.Params().BrokerURI())
	return nil
}
