package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"leadqualifier/internal/app/bootstrap"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "leadctl",
	Short:         "leadctl - lead qualification admin tool",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Classify and load leads from a CSV file",
	Args:  cobra.NoArgs,
	RunE:  runSeed,
}

var reportCmd = &cobra.Command{
	Use:       "report [usage|leads|industries|views|queries|all]",
	Short:     "Print analytics reports",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: reportSections,
	RunE:      runReport,
}

var leadCmd = &cobra.Command{
	Use:   "lead <id>",
	Short: "Print one lead",
	Args:  cobra.ExactArgs(1),
	RunE:  runLead,
}

var (
	seedFile  string
	seedForce bool
	days      int
	limit     int
)

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "CSV file to load (defaults to SEED_CSV_PATH)")
	seedCmd.Flags().BoolVar(&seedForce, "force", false, "Seed even when leads already exist")
	reportCmd.Flags().IntVar(&days, "days", 0, "Trailing window in days (default 7)")
	reportCmd.Flags().IntVar(&limit, "limit", 0, "Number of top industries (default 3)")
	rootCmd.AddCommand(seedCmd, reportCmd, leadCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func withApp(cmd *cobra.Command, fn func(*bootstrap.CLIApp) error) (err error) {
	app, err := bootstrap.BuildCLI(cmd.Context(), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := app.Close(); err == nil {
			err = closeErr
		}
	}()
	return fn(app)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	return withApp(cmd, func(app *bootstrap.CLIApp) error {
		result, err := app.Seed(cmd.Context(), seedFile, seedForce)
		if err != nil {
			return err
		}
		if result.Skipped {
			fmt.Fprintln(cmd.OutOrStdout(), "leads already present; use --force to seed anyway")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d leads (%d augmented)\n", result.Inserted, result.Augmented)
		return nil
	})
}

func runReport(cmd *cobra.Command, args []string) error {
	section := sectionAll
	if len(args) == 1 {
		section = args[0]
	}
	return withApp(cmd, func(app *bootstrap.CLIApp) error {
		return reporter{module: app.Module, printer: app.Printer}.print(cmd.Context(), section, days, limit)
	})
}

func runLead(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(app *bootstrap.CLIApp) error {
		return reporter{module: app.Module, printer: app.Printer}.printLead(cmd.Context(), args[0])
	})
}
