package service

import (
	"context"
	"strings"
	"sync"

	eulererr "github.com/msto63/euler/foundation/core/error"
	eulerlog "github.com/msto63/euler/foundation/core/log"
	"github.com/msto63/euler/internal/euler/rewriter"
	"github.com/msto63/euler/internal/euler/store"
)

// Session holds the mutable state around the calculator: the current angle
// and input modes and the history. It is safe for concurrent use.
type Session struct {
	calc    *Calculator
	history store.HistoryStore
	logger  *eulerlog.Logger

	mu        sync.RWMutex
	angleMode rewriter.AngleMode
	inputMode Mode
}

// NewSession creates a session. history may be nil, in which case nothing
// is recorded.
func NewSession(calc *Calculator, history store.HistoryStore, mode rewriter.AngleMode) *Session {
	if calc == nil {
		calc = defaultCalculator()
	}
	return &Session{
		calc:      calc,
		history:   history,
		logger:    calc.logger.WithField("component", "session"),
		angleMode: mode,
		inputMode: ModeBasic,
	}
}

// AngleMode returns the current angle mode
func (s *Session) AngleMode() rewriter.AngleMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.angleMode
}

// SetAngleMode changes the angle mode for later calculations
func (s *Session) SetAngleMode(mode rewriter.AngleMode) {
	s.mu.Lock()
	s.angleMode = mode
	s.mu.Unlock()
	s.logger.Debug("angle mode changed", eulerlog.Fields{"angle_mode": mode.String()})
}

// ToggleAngleMode switches between degrees and radians and returns the new mode
func (s *Session) ToggleAngleMode() rewriter.AngleMode {
	s.mu.Lock()
	s.angleMode = s.angleMode.Toggle()
	mode := s.angleMode
	s.mu.Unlock()
	s.logger.Debug("angle mode changed", eulerlog.Fields{"angle_mode": mode.String()})
	return mode
}

// InputMode returns the current input mode
func (s *Session) InputMode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inputMode
}

// SetInputMode changes the input mode
func (s *Session) SetInputMode(mode Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputMode = mode
}

// NextInputMode cycles to the next input mode and returns it
func (s *Session) NextInputMode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputMode = s.inputMode.Next()
	return s.inputMode
}

// Calculate evaluates expr in the session's angle mode and records a
// successful result. The returned error only reports a history failure;
// the Result is valid either way.
func (s *Session) Calculate(ctx context.Context, expr string) (Result, error) {
	return s.CalculateWith(ctx, expr, s.AngleMode())
}

// CalculateWith evaluates expr in an explicit angle mode, leaving the
// session's mode untouched.
func (s *Session) CalculateWith(ctx context.Context, expr string, mode rewriter.AngleMode) (Result, error) {
	res := s.calc.Calculate(expr, mode)
	if !res.OK || s.history == nil {
		return res, nil
	}

	_, err := s.history.Add(ctx, store.Entry{
		Expression: strings.TrimSpace(expr),
		Result:     res.Result,
		AngleMode:  mode,
	})
	if err != nil {
		s.logger.LogError(err, eulerlog.Fields{"expression": expr})
		return res, err
	}
	return res, nil
}

// History returns up to limit entries, newest first
func (s *Session) History(ctx context.Context, limit int) ([]store.Entry, error) {
	if s.history == nil {
		return []store.Entry{}, nil
	}
	return s.history.List(ctx, limit)
}

// ClearHistory removes all entries and reports how many were removed
func (s *Session) ClearHistory(ctx context.Context) (int, error) {
	if s.history == nil {
		return 0, nil
	}
	n, err := s.history.Clear(ctx)
	if err != nil {
		return 0, err
	}
	s.logger.Info("history cleared", eulerlog.Fields{"removed": n})
	return n, nil
}

// Rerun evaluates the expression of the n-th newest entry (1-based) in the
// current angle mode.
func (s *Session) Rerun(ctx context.Context, n int) (Result, store.Entry, error) {
	entries, err := s.History(ctx, 0)
	if err != nil {
		return Result{}, store.Entry{}, err
	}
	if n < 1 || n > len(entries) {
		return Result{}, store.Entry{}, eulererr.Newf("no history entry %d (have %d)", n, len(entries)).
			WithCode(eulererr.CodeNotFound).
			WithOperation("service.Rerun")
	}
	entry := entries[n-1]
	res, err := s.Calculate(ctx, entry.Expression)
	return res, entry, err
}

// Ping reports whether the history backend is reachable
func (s *Session) Ping(ctx context.Context) error {
	if s.history == nil {
		return nil
	}
	return s.history.Ping(ctx)
}
