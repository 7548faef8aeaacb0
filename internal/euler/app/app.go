// Package app assembles a calculator session from configuration. It is
// shared by the euler CLI and the eulerd server binary.
package app

import (
	"io"
	"os"
	"strings"

	eulererr "github.com/msto63/euler/foundation/core/error"
	eulerlog "github.com/msto63/euler/foundation/core/log"
	"github.com/msto63/euler/internal/euler/rewriter"
	"github.com/msto63/euler/internal/euler/rpc"
	"github.com/msto63/euler/internal/euler/server"
	"github.com/msto63/euler/internal/euler/service"
	"github.com/msto63/euler/internal/euler/store"
	"github.com/msto63/euler/pkg/core/cache"
	"github.com/msto63/euler/pkg/core/config"
	"github.com/msto63/euler/pkg/core/logging"
)

// Options tunes how an App is assembled
type Options struct {
	// LogOutput receives log lines; stderr when nil
	LogOutput io.Writer
	// LogLevel overrides the configured level when set
	LogLevel string
	// NoHistory skips opening the history store
	NoHistory bool
}

// App bundles the configured calculator, history store and session
type App struct {
	Config     *config.Config
	Logger     *eulerlog.Logger
	Calculator *service.Calculator
	History    store.HistoryStore
	Session    *service.Session

	results *cache.Cache[string, service.Result]
}

// New builds an App from cfg; a nil cfg takes the defaults.
func New(cfg *config.Config, opts Options) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	output := opts.LogOutput
	if output == nil {
		output = os.Stderr
	}
	level := cfg.General.LogLevel
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	logger := logging.NewLogger(logging.LoggerConfig{
		ServiceName: strings.ToLower(cfg.General.Name),
		Level:       level,
		Format:      cfg.General.LogFormat,
		Output:      output,
	})

	mode, err := rewriter.ParseAngleMode(cfg.Calculator.AngleMode)
	if err != nil {
		return nil, eulererr.Wrap(err, "invalid angle mode").
			WithCode(eulererr.CodeInvalidConfig).
			WithDetail("field", "calculator.angle_mode")
	}

	var results *cache.Cache[string, service.Result]
	if cfg.Calculator.CacheSize > 0 {
		results = cache.New[string, service.Result](cache.Config{
			MaxItems:        cfg.Calculator.CacheSize,
			TTL:             cfg.Calculator.CacheTTL.Duration,
			CleanupInterval: cfg.Calculator.CacheTTL.Duration,
		})
	}

	calc := service.NewCalculator(service.Options{
		Logger:         logger,
		MaxInputLength: cfg.Calculator.MaxInputLength,
		MaxDepth:       cfg.Calculator.MaxDepth,
		Cache:          results,
	})

	var history store.HistoryStore
	if !opts.NoHistory {
		history, err = store.New(store.Config{
			Backend: cfg.History.Backend,
			Path:    cfg.History.Path,
			Limit:   cfg.History.Limit,
		})
		if err != nil {
			if results != nil {
				results.Close()
			}
			return nil, err
		}
		logger.Debug("history store opened", eulerlog.Fields{
			"backend": cfg.History.Backend,
			"path":    cfg.History.Path,
		})
	}

	return &App{
		Config:     cfg,
		Logger:     logger,
		Calculator: calc,
		History:    history,
		Session:    service.NewSession(calc, history, mode),
		results:    results,
	}, nil
}

// ServerConfig maps the [server] section onto a server.Config
func (a *App) ServerConfig(version string) server.Config {
	cfg := server.DefaultConfig()
	cfg.Host = a.Config.Server.Host
	cfg.Port = a.Config.Server.Port
	if a.Config.Server.ReadTimeout.Duration > 0 {
		cfg.ReadTimeout = a.Config.Server.ReadTimeout.Duration
	}
	if a.Config.Server.WriteTimeout.Duration > 0 {
		cfg.WriteTimeout = a.Config.Server.WriteTimeout.Duration
	}
	cfg.EnableWebSocket = a.Config.Server.WebSocketEnabled()
	cfg.Version = version
	return cfg
}

// CacheStats reports result cache counters; ok is false when caching is off
func (a *App) CacheStats() (stats cache.Stats, ok bool) {
	if a.results == nil {
		return cache.Stats{}, false
	}
	return a.results.Stats(), true
}

// RPCConfig maps the gRPC settings of the [server] section; ok is false
// when gRPC is disabled.
func (a *App) RPCConfig() (cfg rpc.Config, ok bool) {
	if !a.Config.Server.GRPCEnabled() {
		return rpc.Config{}, false
	}
	return rpc.Config{
		Host:   a.Config.Server.Host,
		Port:   a.Config.Server.GRPCPort,
		Logger: logging.Wrap(a.Logger, "euler-grpc"),
	}, true
}

// Close stops the result cache and releases the history store
func (a *App) Close() error {
	if a.results != nil {
		a.results.Close()
	}
	if a.History == nil {
		return nil
	}
	return a.History.Close()
}
