package rpc

import (
	"context"
	"strings"

	eulererr "github.com/msto63/euler/foundation/core/error"
	"github.com/msto63/euler/internal/euler/rewriter"
	"github.com/msto63/euler/internal/euler/service"
	coreGrpc "github.com/msto63/euler/pkg/core/grpc"
	"github.com/msto63/euler/pkg/core/logging"
)

// Ensure Server implements CalculatorServer
var _ CalculatorServer = (*Server)(nil)

// Config holds gRPC server settings
type Config struct {
	Host   string
	Port   int
	Logger *logging.Logger // default: stdout JSON
}

// DefaultConfig returns the default gRPC listen address
func DefaultConfig() Config {
	return Config{
		Host: "0.0.0.0",
		Port: 8091,
	}
}

// Server serves a calculator session over gRPC
type Server struct {
	session *service.Session
	grpc    *coreGrpc.Server
	logger  *logging.Logger
	config  Config
}

// New creates a gRPC server around session
func New(cfg Config, session *service.Session) (*Server, error) {
	if session == nil {
		return nil, eulererr.New("calculator session is required").
			WithCode(eulererr.CodeMissingConfig).
			WithOperation("rpc.New")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.New("euler-grpc")
	}

	grpcCfg := coreGrpc.DefaultServerConfig()
	grpcCfg.Host = cfg.Host
	grpcCfg.Port = cfg.Port
	grpcCfg.Logger = logger

	s := &Server{
		session: session,
		grpc:    coreGrpc.NewServer(grpcCfg),
		logger:  logger,
		config:  cfg,
	}
	RegisterCalculatorServer(s.grpc.GRPCServer(), s)
	s.grpc.SetServing(ServiceName, true)
	return s, nil
}

// Calculate implements CalculatorServer.Calculate
func (s *Server) Calculate(ctx context.Context, req *CalculateRequest) (*CalculateResponse, error) {
	if strings.TrimSpace(req.Expression) == "" {
		return nil, eulererr.New("expression is required").WithCode(eulererr.CodeInvalidInput)
	}

	mode := s.session.AngleMode()
	if req.AngleMode != "" {
		var err error
		if mode, err = rewriter.ParseAngleMode(req.AngleMode); err != nil {
			return nil, eulererr.Wrap(err, "invalid angle mode").
				WithCode(eulererr.CodeInvalidInput).
				WithDetail("angle_mode", req.AngleMode)
		}
	}

	res, err := s.session.CalculateWith(ctx, req.Expression, mode)
	if err != nil {
		s.logger.Warn("Failed to record history entry", "error", err)
	}
	return &CalculateResponse{Expression: req.Expression, AngleMode: mode, Result: res}, nil
}

// History implements CalculatorServer.History
func (s *Server) History(ctx context.Context, req *HistoryRequest) (*HistoryResponse, error) {
	if req.Limit < 0 {
		return nil, eulererr.Newf("invalid limit %d", req.Limit).WithCode(eulererr.CodeInvalidInput)
	}
	entries, err := s.session.History(ctx, req.Limit)
	if err != nil {
		return nil, err
	}
	return &HistoryResponse{Entries: entries, Count: len(entries)}, nil
}

// ClearHistory implements CalculatorServer.ClearHistory
func (s *Server) ClearHistory(ctx context.Context, req *ClearHistoryRequest) (*ClearHistoryResponse, error) {
	n, err := s.session.ClearHistory(ctx)
	if err != nil {
		return nil, err
	}
	return &ClearHistoryResponse{Removed: n}, nil
}

// Rerun implements CalculatorServer.Rerun
func (s *Server) Rerun(ctx context.Context, req *RerunRequest) (*CalculateResponse, error) {
	res, entry, err := s.session.Rerun(ctx, req.Index)
	if err != nil {
		if entry.Expression == "" {
			return nil, err
		}
		s.logger.Warn("Failed to record history entry", "error", err)
	}
	return &CalculateResponse{Expression: entry.Expression, AngleMode: s.session.AngleMode(), Result: res}, nil
}

// Start serves until Stop
func (s *Server) Start() error {
	s.logger.Info("Starting Euler gRPC server", "host", s.config.Host, "port", s.config.Port)
	return s.grpc.Start()
}

// StartAsync serves in the background
func (s *Server) StartAsync() error {
	s.logger.Info("Starting Euler gRPC server (async)", "host", s.config.Host, "port", s.config.Port)
	return s.grpc.StartAsync()
}

// Stop stops the server gracefully within ctx
func (s *Server) Stop(ctx context.Context) {
	s.logger.Info("Stopping Euler gRPC server")
	s.grpc.Stop(ctx)
}

// Address returns the listen address
func (s *Server) Address() string {
	return s.grpc.Address()
}
