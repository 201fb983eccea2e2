package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradestats/config"
	"github.com/rustyeddy/tradestats/report"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or validate configuration files",
	Long: `Manage tradestats configuration files.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

Examples:
  tradestats config init -o tradestats.yaml
  tradestats config validate -f tradestats.yaml`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default configuration file",
	Long: `Create a new configuration file with default settings.

Example:
  tradestats config init -o tradestats.yaml`,
	RunE: runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Check if a configuration file is valid and show the resolved costs.

Example:
  tradestats config validate -f tradestats.yaml`,
	RunE: runConfigValidate,
}

var (
	configInitOutput   string
	configValidatePath string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "tradestats.yaml", "output config file path")
	configValidateCmd.Flags().StringVarP(&configValidatePath, "file", "f", "", "path to config file (required)")
	configValidateCmd.MarkFlagRequired("file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	c := config.Default()
	slip, qty, brokerage := config.FallbackSlippagePts, config.FallbackQuantity, config.FallbackBrokeragePerOrder
	c.Cost = config.CostOverride{SlippagePts: &slip, Quantity: &qty, BrokeragePerOrder: &brokerage}

	if err := c.SaveToFile(configInitOutput); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "✓ Created default configuration: %s\n", configInitOutput)
	fmt.Fprintln(w, "\nEdit the file and run with:")
	fmt.Fprintf(w, "  tradestats metrics -c %s -t trades.json\n", configInitOutput)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	c, err := config.LoadFromFile(configValidatePath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "✓ Configuration valid: %s\n", configValidatePath)
	_, global := c.ResolveCost("")
	fmt.Fprintf(w, "  Cost/Trade: %s\n", report.Money(global.PerTrade))

	modes := make([]string, 0, len(c.Modes))
	for m := range c.Modes {
		modes = append(modes, m)
	}
	sort.Strings(modes)
	for _, m := range modes {
		_, model := c.ResolveCost(m)
		fmt.Fprintf(w, "  Cost/Trade [%s]: %s\n", m, report.Money(model.PerTrade))
	}

	fmt.Fprintf(w, "  VIX Filter: %s\n", c.Filter.String())
	fmt.Fprintf(w, "  Journal: %s\n", c.Journal.Type)
	return nil
}
