package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "bsharpctl",
	Short: "B# parser and static-analysis CLI",
	Long: `bsharpctl is a lexer-free recursive-descent parser and static-analysis
front end for B#, a C#-shaped language.

It parses source into a typed AST without a separate tokenization pass,
then offers a language-agnostic analysis pipeline over that AST: metrics,
control-flow graphs, symbol indices, dependency graphs, and rule-driven
diagnostics (naming, semantic, and control-flow-smell checks).`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}

// readSource reads the named file, or stdin when path is "-" or empty.
func readSource(path string) (file, source string, err error) {
	if path == "" || path == "-" {
		b, readErr := io.ReadAll(os.Stdin)
		return "<stdin>", string(b), readErr
	}
	b, readErr := os.ReadFile(path)
	if readErr != nil {
		return path, "", readErr
	}
	return path, string(b), nil
}
