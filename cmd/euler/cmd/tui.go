package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/msto63/euler/internal/tui/calculator"
	"github.com/msto63/euler/pkg/core/logging"
	"github.com/msto63/euler/pkg/core/version"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Starts the interactive calculator",
	Long: `Starts the terminal user interface.

Keys:
  Enter     - calculate
  Ctrl+H    - help
  Esc       - close help / clear input
  Ctrl+T    - toggle history panel
  Ctrl+L    - clear history
  Ctrl+R    - toggle degrees/radians
  Tab       - next input mode
  Ctrl+N    - insert next template
  Ctrl+P    - insert π
  Up/Down   - reuse history entries
  Ctrl+C    - quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// stdout belongs to the renderer
	logFile, err := logging.OpenLogFile(cfg.General.DataDir, "euler-tui")
	if err != nil {
		return err
	}
	defer logFile.Close()

	a, err := openAppWithConfig(cfg, logFile, false)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := calculator.Run(calculator.Config{Session: a.Session, Version: version.TUI}); err != nil {
		fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
		return err
	}
	return nil
}
