package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/msto63/euler/internal/euler/rpc"
	"github.com/msto63/euler/internal/euler/server"
	"github.com/msto63/euler/pkg/core/version"
)

var (
	serveHost     string
	servePort     int
	serveGRPCPort int
	serveNoGRPC   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the HTTP and websocket server",
	Long: `Starts the calculator server.

Endpoints:
  GET    /api/v1/             - API overview
  GET    /api/v1/health       - health report
  POST   /api/v1/calculate    - evaluate an expression
  GET    /api/v1/history      - list history
  DELETE /api/v1/history      - clear history
  GET    /api/v1/settings     - angle and input mode
  PUT    /api/v1/settings     - change angle or input mode
  GET    /api/v1/calculate/ws - websocket calculator

A gRPC listener (service euler.v1.Calculator, JSON codec) runs on
--grpc-port unless disabled.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen host (default from config)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (default from config)")
	serveCmd.Flags().IntVar(&serveGRPCPort, "grpc-port", 0, "gRPC listen port (default from config)")
	serveCmd.Flags().BoolVar(&serveNoGRPC, "no-grpc", false, "do not start the gRPC listener")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := openApp(os.Stderr, false)
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := a.ServerConfig(version.Server)
	if serveHost != "" {
		cfg.Host = serveHost
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	srv, err := server.New(cfg, a.Session)
	if err != nil {
		return err
	}
	if err := srv.StartAsync(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Euler server listening on %s\n", srv.Address())

	var rpcSrv *rpc.Server
	if rpcCfg, ok := a.RPCConfig(); ok && !serveNoGRPC {
		if serveHost != "" {
			rpcCfg.Host = serveHost
		}
		if serveGRPCPort != 0 {
			rpcCfg.Port = serveGRPCPort
		}
		if rpcSrv, err = rpc.New(rpcCfg, a.Session); err == nil {
			err = rpcSrv.StartAsync()
		}
		if err != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Stop(shutdownCtx)
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Euler gRPC listening on %s\n", rpcSrv.Address())
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if rpcSrv != nil {
		rpcSrv.Stop(ctx)
	}
	return srv.Stop(ctx)
}
