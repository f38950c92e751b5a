// Package engine is the entry point for callers working with a single
// tetracoordinate space.
package engine

import (
	"fmt"

	"github.com/gravitas-games/tetracoords/pkg/tspace"
)

// Engine owns one space.
type Engine struct {
	space *tspace.Space
}

// New builds an engine around a space built from cfg.
func New(cfg tspace.Config) (*Engine, error) {
	s, err := tspace.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}
	return &Engine{space: s}, nil
}

// Space returns the engine's space.
func (e *Engine) Space() *tspace.Space { return e.space }

func (e *Engine) String() string {
	return fmt.Sprintf("tengine(tspace=%s)", e.space)
}
