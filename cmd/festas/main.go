package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yurifrl/festas/pkg/config"
	"github.com/yurifrl/festas/pkg/executors"
	"github.com/yurifrl/festas/pkg/plan"
)

var (
	cliFilters filters
	cfgFile    string
)

var rootCmd = &cobra.Command{
	Use:           "festas",
	Short:         "Reconcile festa bookings from the contracts export and spreadsheets",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Merge the configured sources and write the consolidated ledger",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		p, err := cfg.Plan()
		if err != nil {
			return err
		}
		exec, err := newExecutor(logger, cfg)
		if err != nil {
			return err
		}
		_, err = exec.Apply(p)
		return err
	},
}

var planCmd = &cobra.Command{
	Use:   "plan <plan_file>",
	Short: "Preview the merge decisions of a plan (dry-run)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		p, err := plan.Load(args[0])
		if err != nil {
			return err
		}
		exec, err := newExecutor(logger, cfg)
		if err != nil {
			return err
		}

		fmt.Printf("Plan preview for %s\n", args[0])
		p.Print()
		fmt.Println()
		_, err = exec.Plan(p)
		return err
	},
}

var applyCmd = &cobra.Command{
	Use:   "apply <plan_file>",
	Short: "Run a plan and write its outputs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		p, err := plan.Load(args[0])
		if err != nil {
			return err
		}
		exec, err := newExecutor(logger, cfg)
		if err != nil {
			return err
		}
		_, err = exec.Apply(p)
		return err
	},
}

// setup loads configuration (config file + env + flag overrides) and builds
// the logger from it.
func setup(cmd *cobra.Command) (*config.Config, *log.Logger, error) {
	cfg, err := config.Build(cfgFile, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}
	level, err := cfg.Level()
	if err != nil {
		return nil, nil, err
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		ReportCaller:    level == log.DebugLevel,
		Prefix:          "festas",
		Level:           level,
	})
	return cfg, logger, nil
}

func newExecutor(logger *log.Logger, cfg *config.Config) (*executors.Executor, error) {
	filter, err := cliFilters.toFilterFunc()
	if err != nil {
		return nil, err
	}
	return executors.New(logger, cfg, filter), nil
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default is festas.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("format", "", "Summary format: table, json or yaml (default: table on a terminal, json otherwise)")
	rootCmd.PersistentFlags().Bool("dump", false, "Pretty-print every merge decision in plan previews")

	// Filter flags (global)
	rootCmd.PersistentFlags().StringVar(&cliFilters.startDate, "start", "", "Start date (DD/MM/YYYY)")
	rootCmd.PersistentFlags().StringVar(&cliFilters.endDate, "end", "", "End date (DD/MM/YYYY)")
	rootCmd.PersistentFlags().Float64Var(&cliFilters.minAmount, "min", 0, "Minimum amount in reais")
	rootCmd.PersistentFlags().Float64Var(&cliFilters.maxAmount, "max", 0, "Maximum amount in reais")
	rootCmd.PersistentFlags().StringVar(&cliFilters.name, "name", "", "Filter by customer name (case insensitive)")

	// Flags specific to the reconcile subcommand
	reconcileCmd.Flags().String("json", "", "Contracts JSON export")
	reconcileCmd.Flags().String("sheet-new", "", "Newer spreadsheet (Proximos-eventos)")
	reconcileCmd.Flags().String("sheet-old", "", "Older spreadsheet (Próximasfestas)")
	reconcileCmd.Flags().String("sheet-new-name", "", "Worksheet to read in the newer spreadsheet")
	reconcileCmd.Flags().String("sheet-old-name", "", "Worksheet to read in the older spreadsheet")
	reconcileCmd.Flags().StringP("output", "o", "", "Output JSON file (default: stdout)")
	reconcileCmd.Flags().String("csv", "", "Also write the ledger as CSV")
	reconcileCmd.Flags().String("rejects", "", "Write rejected records as JSON")

	rootCmd.AddCommand(reconcileCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(applyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
