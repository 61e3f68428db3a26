package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/bsharp-lang/bsharp/internal/analysis"
	"github.com/bsharp-lang/bsharp/internal/analysis/passes"
	"github.com/bsharp-lang/bsharp/internal/engine"
	"github.com/bsharp-lang/bsharp/internal/workspace"
	"github.com/bsharp-lang/bsharp/pkg/diag"
	"github.com/spf13/cobra"
)

var (
	analyzeJSON      bool
	analyzeWorkspace bool
	analyzeIncludes  []string
	analyzeExcludes  []string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file or workspace root]",
	Short: "Run the standard analysis pipeline and report diagnostics",
	Long: `analyze parses one file (or, with --workspace, every in-scope source
file under a directory or .sln) and runs the standard pass sequence:
symbol indexing, metrics, control-flow graphs, dependency edges, the
naming/semantic/control-flow-smell rulesets, and the terminal report.

By default it prints one line per diagnostic, sorted by file, line,
column, and code. --json prints the full AnalysisReport(s) instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the full AnalysisReport as JSON instead of a diagnostic summary")
	analyzeCmd.Flags().BoolVar(&analyzeWorkspace, "workspace", false, "treat the argument as a workspace root (a directory or .sln) rather than a single file")
	analyzeCmd.Flags().StringSliceVar(&analyzeIncludes, "include", nil, "glob(s) to scope the workspace run to (workspace mode only)")
	analyzeCmd.Flags().StringSliceVar(&analyzeExcludes, "exclude", nil, "glob(s) to exclude from the workspace run (workspace mode only)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := analysis.DefaultConfig()
	cfg.Workspace.Include = analyzeIncludes
	cfg.Workspace.Exclude = analyzeExcludes

	if analyzeWorkspace {
		return runAnalyzeWorkspace(args[0], cfg)
	}
	return runAnalyzeFile(args[0], cfg)
}

func runAnalyzeFile(path string, cfg *analysis.Config) error {
	file, source, err := readSource(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	unit, spans, parseErr := engine.Parse(file, source, true)
	if parseErr != nil {
		return fmt.Errorf("parse failed for %s: %s", file, parseErr.Pretty(false))
	}

	session := analysis.New(unit, analysis.Context{File: file, Source: source}, spans, cfg)
	report, err := engine.RunWithDefaults(session)
	if err != nil {
		return err
	}

	return printReport(file, report)
}

func runAnalyzeWorkspace(root string, cfg *analysis.Config) error {
	ws, err := workspace.Load(root, cfg.Workspace)
	if err != nil {
		return fmt.Errorf("loading workspace %s: %w", root, err)
	}

	results, err := engine.RunWorkspaceWithConfig(ws, cfg)
	if err != nil {
		return err
	}

	hasErrors := false
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", r.File, r.Err)
			hasErrors = true
			continue
		}
		if err := printReport(r.File, r.Report); err != nil {
			hasErrors = true
		}
	}
	if hasErrors {
		return fmt.Errorf("analysis failed for one or more files")
	}
	return nil
}

// printReport prints report either as JSON (--json) or as one line per
// diagnostic, and reports whether any error-severity diagnostic fired.
func printReport(file string, report *passes.AnalysisReport) error {
	if analyzeJSON {
		b, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling report for %s: %w", file, err)
		}
		fmt.Println(string(b))
		return nil
	}

	hasErrors := false
	for _, d := range report.Diagnostics {
		fmt.Println(d.String())
		if d.Severity == diag.SeverityError {
			hasErrors = true
		}
	}
	if len(report.Diagnostics) == 0 && verbose {
		fmt.Printf("%s: no diagnostics\n", file)
	}
	if hasErrors {
		return fmt.Errorf("diagnostics raised for %s", file)
	}
	return nil
}
