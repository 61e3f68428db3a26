package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/bsharp-lang/bsharp/internal/analysis/rules"
	"github.com/spf13/cobra"
)

var (
	rulesJSON  bool
	rulesScope string
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the registered rulesets and their diagnostic codes",
	Long: `rules prints every registered ruleset with the diagnostic codes its
rules can raise and their default message templates. --scope narrows the
listing to the lexical rules (local), the semantic consistency checks
(semantic), or everything (all, the default). Use "bsharpctl analyze" to
actually run them against source.`,
	RunE: runRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.Flags().BoolVar(&rulesJSON, "json", false, "print the listing as JSON")
	rulesCmd.Flags().StringVar(&rulesScope, "scope", "all", "which rules to list: local, semantic, or all")
}

// inScope reports whether a rule category falls under the requested
// --scope: "semantic" lists only the semantic checks, "local" everything
// else (naming and control-flow smells operate on one file's lexical
// structure alone).
func inScope(category string) (bool, error) {
	switch rulesScope {
	case "all":
		return true, nil
	case "semantic":
		return category == "semantic", nil
	case "local":
		return category != "semantic", nil
	default:
		return false, fmt.Errorf("unknown --scope %q (want local, semantic, or all)", rulesScope)
	}
}

type ruleListing struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Message  string `json:"message"`
}

type rulesetListing struct {
	ID    string        `json:"id"`
	Rules []ruleListing `json:"rules"`
}

func runRules(cmd *cobra.Command, args []string) error {
	var listings []rulesetListing
	for _, rs := range rules.BuiltinRulesets() {
		listing := rulesetListing{ID: rs.ID}
		for _, r := range rs.Rules {
			ok, err := inScope(r.Category())
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			listing.Rules = append(listing.Rules, ruleListing{
				ID:       r.ID(),
				Category: r.Category(),
				Message:  rules.DefaultMessage(r.ID()),
			})
		}
		if len(listing.Rules) > 0 {
			listings = append(listings, listing)
		}
	}

	if rulesJSON {
		b, err := json.MarshalIndent(listings, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling rules listing: %w", err)
		}
		fmt.Println(string(b))
		return nil
	}

	for _, rs := range listings {
		fmt.Printf("%s\n", rs.ID)
		for _, r := range rs.Rules {
			fmt.Printf("  %s  %s\n", r.ID, r.Message)
		}
	}
	return nil
}
