package analyzer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ppiankov/piitier/internal/engine"
	"github.com/ppiankov/piitier/internal/model"
	"github.com/ppiankov/piitier/internal/recognizer"
	"go.uber.org/zap"
)

// probeTimeout bounds the startup health probe
const probeTimeout = 10 * time.Second

// Analyzer finds entity spans and drops those its recognizer set rejects.
// It is read-only after construction and safe for concurrent use.
type Analyzer struct {
	engine  engine.Engine
	set     *recognizer.Set
	initErr error
	logger  *zap.Logger
}

// New wraps an engine. A nil engine or a failed startup probe leaves the
// analyzer degraded: the error is logged once and every call returns nothing.
func New(ctx context.Context, eng engine.Engine, set *recognizer.Set, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &Analyzer{engine: eng, set: set, logger: logger}

	if eng == nil {
		a.initErr = fmt.Errorf("%w: no engine configured", model.ErrEngineUnavailable)
	} else {
		probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		defer cancel()
		if err := eng.Health(probeCtx); err != nil {
			if !errors.Is(err, model.ErrEngineUnavailable) {
				err = fmt.Errorf("%w: %v", model.ErrEngineUnavailable, err)
			}
			a.initErr = err
		}
	}

	if a.initErr != nil {
		logger.Error("Entity analyzer unavailable; analysis will return no results", zap.Error(a.initErr))
	} else {
		logger.Info("Entity analyzer ready", zap.String("engine", eng.Name()))
	}
	return a
}

// Build constructs the configured engine and wraps it. An engine that cannot
// be built degrades the analyzer instead of failing startup.
func Build(ctx context.Context, cfg model.EngineConfig, set *recognizer.Set, logger *zap.Logger) *Analyzer {
	eng, err := engine.New(cfg, set, logger)
	if err != nil {
		if logger == nil {
			logger = zap.NewNop()
		}
		a := &Analyzer{set: set, initErr: err, logger: logger}
		logger.Error("Entity analyzer unavailable; analysis will return no results", zap.Error(err))
		return a
	}
	return New(ctx, eng, set, logger)
}

// Ready reports whether the engine passed its startup probe
func (a *Analyzer) Ready() bool {
	return a.initErr == nil
}

// Err returns the startup error, if any
func (a *Analyzer) Err() error {
	return a.initErr
}

// EngineName returns the backend name, or "" when degraded before build
func (a *Analyzer) EngineName() string {
	if a.engine == nil {
		return ""
	}
	return a.engine.Name()
}

// Analyze returns validated spans for the requested entity types. Engine
// errors are logged and produce an empty result.
func (a *Analyzer) Analyze(ctx context.Context, text string, requested []string) []model.EntityMatch {
	if a.initErr != nil || text == "" {
		return nil
	}

	raw, err := a.engine.Analyze(ctx, text, requested)
	if err != nil {
		a.logger.Warn("Entity analysis failed", zap.String("engine", a.engine.Name()), zap.Error(err))
		return nil
	}

	want := make(map[string]bool, len(requested))
	for _, e := range requested {
		want[e] = true
	}

	out := make([]model.EntityMatch, 0, len(raw))
	for _, m := range raw {
		if len(want) > 0 && !want[m.EntityType] {
			continue
		}
		if !m.Valid() || m.End > len(text) {
			continue
		}
		if m.Text == "" {
			m.Text = text[m.Start:m.End]
		}
		if a.set != nil {
			if v := a.set.Validator(m.EntityType); v != nil && !v(m.Text) {
				a.logger.Debug("Validation rejected match", zap.String("entity_type", m.EntityType))
				continue
			}
		}
		out = append(out, m)
	}
	return out
}
