package rules

import (
	"github.com/bsharp-lang/bsharp/internal/analysis"
	"github.com/bsharp-lang/bsharp/pkg/diag"
)

// Rule is one named check: it decides whether it applies to a session at
// all, then evaluates to zero or more diagnostics. Grounded on spec.md
// §4.3's `{id, category, applies_to(session) -> bool, evaluate(session)
// -> [Diagnostic]}` shape.
type Rule interface {
	ID() string
	Category() string
	AppliesTo(session *analysis.Session) bool
	Evaluate(session *analysis.Session) []diag.Diagnostic
}

// Ruleset is a named, independently enable/disable-able group of rules.
type Ruleset struct {
	ID    string
	Rules []Rule
}

// BuiltinRulesets returns the built-in rulesets in the order the default
// pipeline runs them: naming, semantic, control-flow smells.
func BuiltinRulesets() []*Ruleset {
	return []*Ruleset{
		NewNamingPass().Ruleset,
		NewSemanticPass().Ruleset,
		NewControlFlowSmellsPass().Ruleset,
	}
}

// RulesetPass adapts a Ruleset into an analysis.Pass so it can be
// scheduled by the same Pipeline that runs the standard passes. Rules
// within the set evaluate sequentially, in registration order, to keep
// diagnostic order deterministic (spec §9, "concurrency of rule
// evaluation").
type RulesetPass struct {
	PassID  string
	Deps    []string
	Ruleset *Ruleset
}

func (p *RulesetPass) ID() string          { return p.PassID }
func (p *RulesetPass) DependsOn() []string { return p.Deps }

func (p *RulesetPass) Run(session *analysis.Session) error {
	if !session.Config.RulesetEnabled(p.Ruleset.ID) {
		return nil
	}
	for _, rule := range p.Ruleset.Rules {
		if !rule.AppliesTo(session) {
			continue
		}
		for _, d := range rule.Evaluate(session) {
			session.Diagnostics.Add(d)
		}
	}
	return nil
}
