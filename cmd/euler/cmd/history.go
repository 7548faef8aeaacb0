package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Shows and manages the calculation history",
	Long: `Shows and manages the stored calculation history.

Entries are numbered newest first; the numbers are accepted by
"euler history rerun N".`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists history entries, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Removes all history entries",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

var historyRerunCmd = &cobra.Command{
	Use:   "rerun N",
	Short: "Re-evaluates history entry N in the configured angle mode",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryRerun,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyClearCmd, historyRerunCmd)
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "maximum number of entries (default all)")
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.ErrOrStderr(), false)
	if err != nil {
		return err
	}
	defer a.Close()

	entries, err := a.Session.History(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No calculations yet")
		return nil
	}
	for i, e := range entries {
		fmt.Fprintf(out, "%3d  %s  %s = %s  [%s]\n",
			i+1,
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			e.Expression,
			e.Result,
			e.AngleMode,
		)
	}
	return nil
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.ErrOrStderr(), false)
	if err != nil {
		return err
	}
	defer a.Close()

	removed, err := a.Session.ClearHistory(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d entries\n", removed)
	return nil
}

func runHistoryRerun(cmd *cobra.Command, args []string) error {
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid entry number %q", args[0])
	}

	a, err := openApp(cmd.ErrOrStderr(), false)
	if err != nil {
		return err
	}
	defer a.Close()

	res, entry, err := a.Session.Rerun(cmd.Context(), n)
	if entry.Expression == "" && err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", entry.Expression, res.String())
	if err != nil {
		return err
	}
	if !res.OK {
		return errCalculationFailed
	}
	return nil
}
