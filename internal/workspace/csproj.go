package workspace

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type csprojXML struct {
	XMLName    xml.Name       `xml:"Project"`
	ItemGroups []itemGroupXML `xml:"ItemGroup"`
}

type itemGroupXML struct {
	Condition         string          `xml:"Condition,attr"`
	Compiles          []compileXML    `xml:"Compile"`
	ProjectReferences []projectRefXML `xml:"ProjectReference"`
}

type compileXML struct {
	Include   string `xml:"Include,attr"`
	Remove    string `xml:"Remove,attr"`
	Update    string `xml:"Update,attr"`
	Condition string `xml:"Condition,attr"`
}

type projectRefXML struct {
	Include   string `xml:"Include,attr"`
	Condition string `xml:"Condition,attr"`
}

// hasMSBuildMacro reports whether s contains an unresolved `$(...)`
// property reference this loader makes no attempt to evaluate.
func hasMSBuildMacro(s string) bool { return strings.Contains(s, "$(") }

// ParseCsproj parses a `.csproj`'s `<Compile Include|Remove|Update>` and
// `<ProjectReference Include>` items. A `Condition` attribute on an item
// group or item, and an unresolved `$(MSBuild...)` macro in an Include
// path, are recorded as warnings in Project.Errors rather than evaluated
// — this loader discovers files, it does not build the project (spec.md
// §1 Non-goals: "the `.sln`/`.csproj` build graph").
func ParseCsproj(path string) (*Project, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("workspace: read project %q: %w", path, err)
	}

	var doc csprojXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("workspace: parse project %q: %w", path, err)
	}

	dir := filepath.Dir(path)
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	proj := &Project{Name: name, Path: path}

	included := map[string]bool{}
	for _, group := range doc.ItemGroups {
		if group.Condition != "" {
			proj.Errors = append(proj.Errors,
				fmt.Sprintf("item group condition %q not evaluated", group.Condition))
		}
		for _, c := range group.Compiles {
			if c.Condition != "" {
				proj.Errors = append(proj.Errors,
					fmt.Sprintf("compile item condition %q not evaluated", c.Condition))
			}
			switch {
			case c.Include != "":
				addGlobMatches(proj, dir, c.Include, included, true)
			case c.Remove != "":
				addGlobMatches(proj, dir, c.Remove, included, false)
			case c.Update != "":
				// Update targets an already-included item; this loader
				// treats it as a no-op since it has no build properties
				// to mutate.
			}
		}
		for _, r := range group.ProjectReferences {
			if r.Condition != "" {
				proj.Errors = append(proj.Errors,
					fmt.Sprintf("project reference condition %q not evaluated", r.Condition))
			}
			if hasMSBuildMacro(r.Include) {
				proj.Errors = append(proj.Errors,
					fmt.Sprintf("unresolved MSBuild macro in project reference %q", r.Include))
				continue
			}
			proj.ProjectReferences = append(proj.ProjectReferences, filepath.Join(dir, filepath.FromSlash(r.Include)))
		}
	}

	for p := range included {
		proj.AddFile(NewSourceFile(p, LanguageCSharp))
	}
	return proj, nil
}

// addGlobMatches resolves an Include/Remove pattern against dir and
// either adds or removes the matches from included. A pattern containing
// an unresolved MSBuild macro is recorded as a warning and skipped
// entirely, since it cannot be turned into a filesystem glob.
func addGlobMatches(proj *Project, dir, pattern string, included map[string]bool, add bool) {
	if hasMSBuildMacro(pattern) {
		proj.Errors = append(proj.Errors, fmt.Sprintf("unresolved MSBuild macro in %q", pattern))
		return
	}
	matches, err := filepath.Glob(filepath.Join(dir, filepath.FromSlash(pattern)))
	if err != nil {
		proj.Errors = append(proj.Errors, fmt.Sprintf("invalid glob %q: %v", pattern, err))
		return
	}
	for _, m := range matches {
		if add {
			included[m] = true
		} else {
			delete(included, m)
		}
	}
}
