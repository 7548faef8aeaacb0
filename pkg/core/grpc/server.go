// Package grpc wraps google.golang.org/grpc with the server and client
// defaults shared by Euler services: keepalive, request IDs, logging, panic
// recovery, error code mapping, the standard health service and a JSON
// codec for services declared without generated code.
package grpc

import (
	"context"
	"fmt"
	"net"
	"time"

	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"

	eulererr "github.com/msto63/euler/foundation/core/error"
	"github.com/msto63/euler/pkg/core/logging"
)

// ServerConfig holds gRPC server configuration
type ServerConfig struct {
	Host              string
	Port              int
	MaxRecvMsgSize    int
	MaxSendMsgSize    int
	KeepaliveInterval time.Duration
	KeepaliveTimeout  time.Duration
	Logger            *logging.Logger
}

// DefaultServerConfig returns a default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:              "0.0.0.0",
		Port:              8091,
		MaxRecvMsgSize:    1024 * 1024, // 1MB
		MaxSendMsgSize:    4 * 1024 * 1024,
		KeepaliveInterval: 30 * time.Second,
		KeepaliveTimeout:  10 * time.Second,
	}
}

// Server wraps a gRPC server together with its health service
type Server struct {
	server   *grpc.Server
	health   *grpchealth.Server
	config   ServerConfig
	listener net.Listener
	logger   *logging.Logger
}

// NewServer creates a gRPC server with the standard interceptor chain
func NewServer(cfg ServerConfig, opts ...grpc.ServerOption) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.New("grpc-server")
	}

	serverOpts := []grpc.ServerOption{
		grpc.MaxRecvMsgSize(cfg.MaxRecvMsgSize),
		grpc.MaxSendMsgSize(cfg.MaxSendMsgSize),
		grpc.KeepaliveParams(keepalive.ServerParameters{
			Time:    cfg.KeepaliveInterval,
			Timeout: cfg.KeepaliveTimeout,
		}),
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             5 * time.Second,
			PermitWithoutStream: true,
		}),
		grpc.ChainUnaryInterceptor(
			RecoveryInterceptor(logger),
			RequestIDInterceptor(),
			LoggingInterceptor(logger),
			ErrorInterceptor(),
		),
	}
	serverOpts = append(serverOpts, opts...)

	server := grpc.NewServer(serverOpts...)
	health := grpchealth.NewServer()
	healthpb.RegisterHealthServer(server, health)

	return &Server{
		server: server,
		health: health,
		config: cfg,
		logger: logger,
	}
}

// GRPCServer returns the underlying server for service registration
func (s *Server) GRPCServer() *grpc.Server {
	return s.server
}

// SetServing marks service as serving or not serving in the health service.
// The empty name stands for the whole server.
func (s *Server) SetServing(service string, serving bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(service, st)
}

// Listen binds the configured address. Port 0 picks a free port.
func (s *Server) Listen() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return eulererr.Wrap(err, "failed to listen").
			WithCode(eulererr.CodeConnectionFailed).
			WithDetail("address", addr)
	}
	s.listener = listener
	return nil
}

// Start listens and serves until Stop
func (s *Server) Start() error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve()
}

// Serve serves on the listener opened by Listen
func (s *Server) Serve() error {
	return s.server.Serve(s.listener)
}

// StartAsync listens and serves in a goroutine
func (s *Server) StartAsync() error {
	if err := s.Listen(); err != nil {
		return err
	}

	go func() {
		if err := s.Serve(); err != nil {
			s.logger.Error("gRPC server error", "error", err)
		}
	}()
	return nil
}

// Stop marks the server as not serving and stops gracefully, falling back
// to a hard stop when ctx expires.
func (s *Server) Stop(ctx context.Context) {
	s.health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		s.server.Stop()
	}
}

// Address returns the bound address, or the configured one before Listen
func (s *Server) Address() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}
