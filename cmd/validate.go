package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fleetlab/vtelem/config"
)

var validateStrict bool

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration and report placeholder values",
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "treat placeholder values as errors")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	fields := cfg.MQTT.Params().Placeholders()
	for _, f := range fields {
		fmt.Fprintf(cmd.OutOrStdout(), "placeholder value for %s\n", f)
	}
	if validateStrict && len(fields) > 0 {
		return fmt.Errorf("%d placeholder value(s) still set", len(fields))
	}
	fmt.Fprintln(cmd.OutOrStdout(), "configuration valid")
	return nil
}
