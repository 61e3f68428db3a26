package analysis

import (
	"fmt"
	"strings"
)

// Pass is a single analysis step: a stable identifier, the other pass
// identifiers it depends on, and a Run method that reads/writes the
// session's artifact store and diagnostics collection. Grounded on the
// teacher's semantic.Pass interface (internal/semantic/pass.go), extended
// with DependsOn so the pipeline can schedule by dependency rather than
// registration order alone.
type Pass interface {
	ID() string
	DependsOn() []string
	Run(session *Session) error
}

// Pipeline is an ordered collection of passes, scheduled by a topological
// sort over their declared dependencies. Generalizes the teacher's
// sequential PassManager (internal/semantic/pass.go) into the spec's
// dependency-gated multi-pass scheduler: a pass whose dependency is absent
// or disabled still runs, but must tolerate the missing artifact.
type Pipeline struct {
	passes []Pass
}

// NewPipeline builds a pipeline from an explicit pass list. Passes may be
// given in any order; Run resolves the actual execution order.
func NewPipeline(passes ...Pass) *Pipeline {
	return &Pipeline{passes: passes}
}

// Add registers an additional pass.
func (p *Pipeline) Add(pass Pass) { p.passes = append(p.passes, pass) }

// Passes returns the registered passes in registration order.
func (p *Pipeline) Passes() []Pass { return p.passes }

// order performs a depth-first topological sort over the declared
// dependency graph, refusing cycles. A dependency naming a pass that was
// never registered is tolerated silently: the spec treats a missing
// producer the same as a disabled one (§7, pipeline errors).
func (p *Pipeline) order() ([]Pass, error) {
	byID := make(map[string]Pass, len(p.passes))
	for _, ps := range p.passes {
		byID[ps.ID()] = ps
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	state := make(map[string]int, len(p.passes))
	var out []Pass

	var visit func(id string, chain []string) error
	visit = func(id string, chain []string) error {
		switch state[id] {
		case black:
			return nil
		case gray:
			return fmt.Errorf("analysis: dependency cycle: %s", strings.Join(append(chain, id), " -> "))
		}
		pass, ok := byID[id]
		if !ok {
			return nil
		}
		state[id] = gray
		for _, dep := range pass.DependsOn() {
			if err := visit(dep, append(chain, id)); err != nil {
				return err
			}
		}
		state[id] = black
		out = append(out, pass)
		return nil
	}

	for _, ps := range p.passes {
		if err := visit(ps.ID(), nil); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Run executes every enabled pass against session, in dependency order.
// A disabled pass is skipped entirely: it publishes no artifact, and
// dependents are expected to tolerate its absence (HasArtifact). Run
// returns the first internal error a pass reports; expected, "this input
// is malformed" failures must be encoded as diagnostics, not errors.
func (p *Pipeline) Run(session *Session) error {
	ordered, err := p.order()
	if err != nil {
		return err
	}
	for _, pass := range ordered {
		if !session.Config.PassEnabled(pass.ID()) {
			continue
		}
		if err := pass.Run(session); err != nil {
			return fmt.Errorf("analysis: pass %q: %w", pass.ID(), err)
		}
	}
	return nil
}
