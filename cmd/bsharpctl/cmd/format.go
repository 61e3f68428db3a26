package cmd

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/bsharp-lang/bsharp/internal/engine"
	"github.com/bsharp-lang/bsharp/internal/format"
	"github.com/spf13/cobra"
)

var (
	formatWrite  bool // -w: write result back to the source file
	formatList   bool // -l: list files whose formatting differs
	formatIndent int
)

var formatCmd = &cobra.Command{
	Use:   "format [files...]",
	Short: "Re-print source files through the AST",
	Long: `format parses B# source and re-prints it through internal/format's
Emitter: a minimal, documented subset of the grammar (type declarations,
members, and the everyday statement/expression forms). It does not
preserve comments or original blank-line layout.

By default format prints the result to stdout. With no files, it reads
from stdin.

  bsharpctl format file.bs        # print formatted result to stdout
  bsharpctl format -w file.bs     # overwrite the file in place
  bsharpctl format -l *.bs        # list files that would change`,
	RunE: runFormat,
}

func init() {
	rootCmd.AddCommand(formatCmd)
	formatCmd.Flags().BoolVarP(&formatWrite, "write", "w", false, "write result back to the source file instead of stdout")
	formatCmd.Flags().BoolVarP(&formatList, "list", "l", false, "list files whose formatting differs")
	formatCmd.Flags().IntVar(&formatIndent, "indent", 4, "number of spaces per indentation level")
}

func runFormat(cmd *cobra.Command, args []string) error {
	if formatWrite && formatList {
		return fmt.Errorf("cannot use -w and -l together")
	}

	if len(args) == 0 {
		return formatOne("-")
	}

	hasErrors := false
	for _, path := range args {
		if err := formatOne(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error formatting %s: %v\n", path, err)
			hasErrors = true
		}
	}
	if hasErrors {
		return fmt.Errorf("formatting failed for one or more files")
	}
	return nil
}

func formatOne(path string) error {
	file, source, err := readSource(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	unit, _, parseErr := engine.Parse(file, source, true)
	if parseErr != nil {
		return fmt.Errorf("parse failed for %s: %s", file, parseErr.Pretty(false))
	}

	p := &format.Printer{Indent: formatIndent}
	var buf bytes.Buffer
	if err := p.Emit(&buf, unit); err != nil {
		return fmt.Errorf("emitting %s: %w", file, err)
	}
	formatted := buf.String()
	changed := strings.TrimRight(source, "\n") != strings.TrimRight(formatted, "\n")

	switch {
	case formatList:
		if changed {
			fmt.Println(file)
		}
	case formatWrite:
		if path == "" || path == "-" {
			return fmt.Errorf("-w requires a named file, not stdin")
		}
		if changed {
			if err := os.WriteFile(path, []byte(formatted), 0644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
			if verbose {
				fmt.Printf("Formatted %s\n", path)
			}
		}
	default:
		fmt.Print(formatted)
	}
	return nil
}
