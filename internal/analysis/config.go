package analysis

import "github.com/bsharp-lang/bsharp/internal/workspace"

// Config is the programmatic configuration surface for a pipeline run:
// which passes and rulesets are active, control-flow thresholds, and the
// workspace include/exclude globs used by multi-file runs. Workspace's
// scope type lives in internal/workspace, not here, since the loader
// needs it too and internal/workspace must never import internal/analysis.
type Config struct {
	EnablePasses   map[string]bool
	EnableRulesets map[string]bool

	CFHighComplexityThreshold int
	CFDeepNestingThreshold    int
	LongMethodLineThreshold   int

	Workspace workspace.WorkspaceConfig
}

// DefaultConfig returns a Config with every pass and ruleset enabled and
// the default complexity thresholds, mirroring the teacher's
// NewAnalyzer-with-defaults constructor idiom.
func DefaultConfig() *Config {
	return &Config{
		EnablePasses:              map[string]bool{},
		EnableRulesets:            map[string]bool{},
		CFHighComplexityThreshold: 10,
		CFDeepNestingThreshold:    4,
		LongMethodLineThreshold:   40,
		Workspace:                 workspace.WorkspaceConfig{FollowRefs: true},
	}
}

// PassEnabled reports whether the named pass should run. Passes default to
// enabled; only an explicit false in EnablePasses disables one.
func (c *Config) PassEnabled(id string) bool {
	if c == nil {
		return true
	}
	if v, ok := c.EnablePasses[id]; ok {
		return v
	}
	return true
}

// RulesetEnabled reports whether the named ruleset should run, with the
// same default-enabled semantics as PassEnabled.
func (c *Config) RulesetEnabled(id string) bool {
	if c == nil {
		return true
	}
	if v, ok := c.EnableRulesets[id]; ok {
		return v
	}
	return true
}
