package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/bsharp-lang/bsharp/internal/engine"
	"github.com/bsharp-lang/bsharp/pkg/ast"
	"github.com/spf13/cobra"
)

var (
	parseOut       string
	parseLenient   bool
	parseErrsJSON  bool
	parseNoColor   bool
	parseEmitSpans bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a source file and write its AST as JSON",
	Long: `parse reads a B# source file (or stdin, with no argument or "-"),
parses it into a CompilationUnit, and writes the AST as JSON to -o or
stdout. On a strict-mode failure no output file is created and the
diagnostic is printed instead, as a caret block or (with --errors-json)
a single {"error": ...} object.

Use --lenient to parse through syntax errors instead of stopping at the
first one; the parser then marks the unparseable regions with Error*
nodes rather than aborting, and the AST is still written.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&parseOut, "output", "o", "", "write the JSON AST to this file instead of stdout")
	parseCmd.Flags().BoolVar(&parseLenient, "lenient", false, "resynchronize past syntax errors instead of stopping at the first one")
	parseCmd.Flags().BoolVar(&parseErrsJSON, "errors-json", false, "report parse errors as a JSON object instead of a caret block")
	parseCmd.Flags().BoolVar(&parseNoColor, "no-color", false, "disable ANSI color in the caret block")
	parseCmd.Flags().BoolVar(&parseEmitSpans, "emit-spans", false, "attach byte-range spans to every node in the JSON AST")
}

func runParse(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	file, source, err := readSource(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	unit, spans, parseErr := engine.Parse(file, source, parseLenient)
	if parseErr != nil {
		if parseErrsJSON {
			b, jerr := parseErr.JSON()
			if jerr != nil {
				return fmt.Errorf("rendering parse error for %s: %w", file, jerr)
			}
			fmt.Println(string(b))
		} else {
			fmt.Fprintln(os.Stderr, parseErr.Pretty(!parseNoColor))
		}
		return fmt.Errorf("parse failed for %s", file)
	}

	if !parseEmitSpans {
		spans = nil
	}
	b, err := json.MarshalIndent(ast.EncodeJSON(unit, spans), "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling AST for %s: %w", file, err)
	}

	if parseOut != "" {
		if err := os.WriteFile(parseOut, append(b, '\n'), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", parseOut, err)
		}
		if verbose {
			fmt.Printf("%s: wrote %s\n", file, parseOut)
		}
		return nil
	}
	fmt.Println(string(b))
	return nil
}
