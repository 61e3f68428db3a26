package workspace

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// projectLine matches a `.sln` `Project("{GUID}") = "Name", "Path", "{GUID}"`
// line. Non-matching lines (format version, global sections, GUIDs for
// folders) are skipped, not errors — a `.sln` carries plenty of content
// this loader has no reason to understand.
var projectLine = regexp.MustCompile(`^Project\("\{[0-9A-Fa-f-]+\}"\)\s*=\s*"([^"]+)"\s*,\s*"([^"]+)"\s*,\s*"\{[0-9A-Fa-f-]+\}"`)

// ParseSolution scans a `.sln` file line by line for Project declarations,
// grounded on the spec's "`.sln` GUID-line scanning" description (§6.3).
// Lines naming a non-.csproj path are skipped, and whether a named
// project exists is not checked here: Load records a member project that
// cannot be read in Solution.Errors rather than aborting, matching the
// lenient, best-effort posture the rest of the workspace loader takes.
func ParseSolution(path string) (*Solution, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("workspace: open solution %q: %w", path, err)
	}
	defer f.Close()

	sol := &Solution{Path: path}
	dir := filepath.Dir(path)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		m := projectLine.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		name, rel := m[1], m[2]
		abs := filepath.Join(dir, filepath.FromSlash(rel))
		if filepath.Ext(abs) != ".csproj" {
			continue
		}
		sol.Projects = append(sol.Projects, ProjectRef{Name: name, Path: abs})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("workspace: scan solution %q: %w", path, err)
	}
	return sol, nil
}
