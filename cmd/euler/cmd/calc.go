package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/msto63/euler/internal/euler/rewriter"
	"github.com/msto63/euler/internal/euler/rpc"
	"github.com/msto63/euler/internal/euler/service"
)

var (
	calcAngle  string
	calcRecord bool
	calcRemote string
)

// calculateFunc evaluates one expression locally or remotely
type calculateFunc func(ctx context.Context, expr string) (service.Result, error)

var calcCmd = &cobra.Command{
	Use:   "calc [expression]",
	Short: "Evaluates an expression",
	Long: `Evaluates a single expression given as arguments, or one expression
per line from stdin when no arguments are given.

Results are printed one per line; failures print "Error: <message>"
and the command exits with status 1.

Use "--" before expressions that start with a minus sign:
  euler calc -- -3 + 5

With --remote the expression is sent to a running server over gRPC and
recorded in that server's history:
  euler calc --remote localhost:8091 "sqrt(2)"`,
	RunE: runCalc,
}

func init() {
	rootCmd.AddCommand(calcCmd)
	calcCmd.Flags().StringVarP(&calcAngle, "angle", "a", "", "angle mode: degrees or radians (default from config)")
	calcCmd.Flags().BoolVarP(&calcRecord, "record", "r", false, "record successful results in the history")
	calcCmd.Flags().StringVar(&calcRemote, "remote", "", "evaluate on a gRPC server at host:port")
}

func runCalc(cmd *cobra.Command, args []string) error {
	if calcAngle != "" {
		if _, err := rewriter.ParseAngleMode(calcAngle); err != nil {
			return err
		}
	}

	var calculate calculateFunc
	if calcRemote != "" {
		client, err := rpc.Dial(calcRemote)
		if err != nil {
			return err
		}
		defer client.Close()
		calculate = remoteCalculate(client)
	} else {
		a, err := openApp(cmd.ErrOrStderr(), !calcRecord)
		if err != nil {
			return err
		}
		defer a.Close()
		calculate = localCalculate(a.Session)
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if len(args) > 0 {
		return printCalculation(ctx, out, calculate, strings.Join(args, " "))
	}

	return calculateLines(ctx, cmd.InOrStdin(), out, cmd.ErrOrStderr(), calculate)
}

// calculateLines evaluates one expression per non-empty line of in. A
// line that fails to record or reach the server is reported on errOut
// and the remaining lines are still evaluated.
func calculateLines(ctx context.Context, in io.Reader, out, errOut io.Writer, calculate calculateFunc) error {
	failed := false
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := printCalculation(ctx, out, calculate, line); err != nil {
			if !errors.Is(err, errCalculationFailed) {
				fmt.Fprintf(errOut, "Error: %v\n", err)
			}
			failed = true
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if failed {
		return errCalculationFailed
	}
	return nil
}

func localCalculate(session *service.Session) calculateFunc {
	return func(ctx context.Context, expr string) (service.Result, error) {
		mode := session.AngleMode()
		if calcAngle != "" {
			mode, _ = rewriter.ParseAngleMode(calcAngle)
		}
		return session.CalculateWith(ctx, expr, mode)
	}
}

func remoteCalculate(client *rpc.Client) calculateFunc {
	return func(ctx context.Context, expr string) (service.Result, error) {
		resp, err := client.Calculate(ctx, expr, calcAngle)
		if err != nil {
			return service.Result{}, err
		}
		return resp.Result, nil
	}
}

// printCalculation evaluates expr and prints the result or error line.
// A local history failure is returned after the result is printed; a
// remote transport failure prints nothing.
func printCalculation(ctx context.Context, out io.Writer, calculate calculateFunc, expr string) error {
	res, err := calculate(ctx, expr)
	if err != nil && !res.OK && res.Message == "" {
		return err
	}
	fmt.Fprintln(out, res.String())
	if err != nil {
		return err
	}
	if !res.OK {
		return errCalculationFailed
	}
	return nil
}
