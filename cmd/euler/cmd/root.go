package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/msto63/euler/internal/euler/app"
	"github.com/msto63/euler/pkg/core/config"
)

var (
	cfgFile string
	verbose bool
)

// errCalculationFailed signals a failed calculation whose message was
// already printed.
var errCalculationFailed = errors.New("calculation failed")

var rootCmd = &cobra.Command{
	Use:   "euler",
	Short: "Euler - free-form calculator",
	Long: `Euler evaluates free-form input: arithmetic, scientific functions,
simple linear equations and basic geometry formulas.

Examples:
  euler calc "2 + 3 * 4"
  euler calc "sin(30)"
  euler calc --angle radians "cos(PI)"
  euler calc "2x + 3 = 7"
  euler calc "area circle r=5"
  echo "sqrt(16)" | euler calc`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errCalculationFailed) {
		printError(err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $EULER_CONFIG or ./configs/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging on stderr")
}

// loadConfig reads --config, or searches the default locations
func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.Load(cfgFile)
	}
	return config.LoadOrDefault()
}

// openApp assembles the calculator for a command. Logging goes to logOutput
// at warn level unless --verbose is set.
func openApp(logOutput io.Writer, noHistory bool) (*app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return openAppWithConfig(cfg, logOutput, noHistory)
}

func openAppWithConfig(cfg *config.Config, logOutput io.Writer, noHistory bool) (*app.App, error) {
	level := "warn"
	if verbose {
		level = "debug"
	}
	return app.New(cfg, app.Options{
		LogOutput: logOutput,
		LogLevel:  level,
		NoHistory: noHistory,
	})
}

func printError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}
