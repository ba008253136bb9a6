package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	apifleet "github.com/fleetlab/vtelem/api/fleet"
	"github.com/fleetlab/vtelem/config"
	coremqtt "github.com/fleetlab/vtelem/core/mqtt"
	"github.com/fleetlab/vtelem/core/topics"
	"github.com/fleetlab/vtelem/infra/logger"
	"github.com/fleetlab/vtelem/infra/metrics"
	"github.com/fleetlab/vtelem/infra/mqtt"
	"github.com/fleetlab/vtelem/internal/eventbus"
	"github.com/fleetlab/vtelem/simulator"
)

var (
	emulateVehicles   int
	emulateInterval   time.Duration
	emulateProfile    string
	emulateStatusAddr string
)

var emulateCmd = &cobra.Command{
	Use:   "emulate",
	Short: "Run an emulated vehicle fleet against the configured broker",
	RunE:  runEmulate,
}

func init() {
	emulateCmd.Flags().IntVar(&emulateVehicles, "vehicles", 0, "number of vehicles (default from config)")
	emulateCmd.Flags().DurationVar(&emulateInterval, "interval", 0, "telemetry interval (default from config)")
	emulateCmd.Flags().StringVar(&emulateProfile, "battery-profile", "", "predefined battery profile (small, medium, large)")
	emulateCmd.Flags().StringVar(&emulateStatusAddr, "status-addr", "", "serve fleet status over HTTP on this address")
	rootCmd.AddCommand(emulateCmd)
}

func runEmulate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logger.SetLevel(cfg.Logging.Level); err != nil {
		return err
	}
	log := logger.New("emulate")

	simCfg := simulator.Config{
		Vehicles: cfg.Telemetry.FleetSize(),
		Interval: cfg.Telemetry.Interval(),
	}
	if emulateVehicles > 0 {
		simCfg.Vehicles = emulateVehicles
	}
	if emulateInterval > 0 {
		simCfg.Interval = emulateInterval
	}
	if err := simulator.ApplyBatteryProfile(&simCfg, emulateProfile); err != nil {
		return err
	}
	if err := simCfg.Validate(); err != nil {
		return err
	}

	bus := eventbus.New[any]()
	defer bus.Close()

	if cfg.Metrics.Enabled {
		rec, err := metrics.NewPromRecorder(cfg.Metrics)
		if err != nil {
			return fmt.Errorf("prom recorder: %w", err)
		}
		metrics.StartEventCollector(ctx, bus, rec)
		_ = rec.RecordFleetSize(simCfg.Vehicles)
		go func() {
			if err := metrics.StartPromServer(ctx, cfg.Metrics.PrometheusPort); err != nil {
				log.Errorf("prom server: %v", err)
			}
		}()
	}

	fleet := simulator.NewFleet(simCfg)
	if emulateStatusAddr != "" {
		go func() {
			if err := apifleet.Serve(ctx, emulateStatusAddr, fleet.Store()); err != nil {
				log.Errorf("status server: %v", err)
			}
		}()
	}
	ns := topics.FromParams(cfg.MQTT.Params())
	connect := func(vehicleID string) (coremqtt.Publisher, error) {
		vcfg := cfg.MQTT
		if vcfg.ClientID != "" {
			vcfg.ClientID = fmt.Sprintf("%s-%s", vcfg.ClientID, vehicleID)
		} else {
			vcfg.ClientID = "sim-" + vehicleID
		}
		// an empty retained will clears the vehicle's info descriptor
		// when the connection dies without a clean shutdown
		vcfg.LWTTopic = ns.Info(vehicleID)
		vcfg.LWTPayload = ""
		vcfg.LWTRetain = true
		return mqtt.NewPahoPublisher(vcfg,
			mqtt.WithEventBus(bus),
			mqtt.WithRetainInfo(cfg.Telemetry.RetainInfoEnabled()))
	}

	log.Infof("starting %d vehicles against %s", fleet.Size(), cfg.MQTT.Params().BrokerURI())
	return fleet.Run(ctx, connect)
}
