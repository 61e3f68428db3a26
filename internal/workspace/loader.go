package workspace

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Load discovers a Workspace rooted at root: if root is a `.sln` file, or
// a directory under which a `.sln` is found (the first one found is
// loaded), every member project is parsed; otherwise every `.csproj`
// found by walking root is treated as its own project.
// cfg's Include/Exclude globs are matched against each discovered source
// file's path relative to root; a file matching Exclude is dropped even
// if it also matches Include.
func Load(root string, cfg WorkspaceConfig) (*Workspace, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("workspace: stat %q: %w", root, err)
	}

	ws := &Workspace{Root: root}

	if !info.IsDir() && filepath.Ext(root) == ".sln" {
		sol, err := ParseSolution(root)
		if err != nil {
			return nil, err
		}
		ws.Solution = sol
		for _, ref := range sol.Projects {
			proj, err := ParseCsproj(ref.Path)
			if err != nil {
				sol.Errors = append(sol.Errors, err.Error())
				continue
			}
			ws.Projects = append(ws.Projects, proj)
		}
	} else {
		slnPaths, err := findByExt(root, ".sln")
		if err != nil {
			return nil, err
		}
		if len(slnPaths) > 0 {
			return Load(slnPaths[0], cfg)
		}
		csprojPaths, err := findByExt(root, ".csproj")
		if err != nil {
			return nil, err
		}
		for _, p := range csprojPaths {
			proj, err := ParseCsproj(p)
			if err != nil {
				return nil, err
			}
			ws.Projects = append(ws.Projects, proj)
		}
	}

	applyScope(ws, cfg)

	ws.SourceMap = NewSourceMap(ws.AllSourceFiles())
	return ws, nil
}

// applyScope drops any source file not matching cfg's Include globs (when
// given) or matching any Exclude glob, relative to the workspace root.
func applyScope(ws *Workspace, cfg WorkspaceConfig) {
	if len(cfg.Include) == 0 && len(cfg.Exclude) == 0 {
		return
	}
	for _, proj := range ws.Projects {
		var kept []ProjectFile
		for _, f := range proj.Files {
			if f.Kind != FileKindSource {
				kept = append(kept, f)
				continue
			}
			rel, err := filepath.Rel(ws.Root, f.Path)
			if err != nil {
				rel = f.Path
			}
			if inScope(rel, cfg) {
				kept = append(kept, f)
			}
		}
		proj.Files = kept
	}
}

func inScope(rel string, cfg WorkspaceConfig) bool {
	for _, pat := range cfg.Exclude {
		if matchGlob(pat, rel) {
			return false
		}
	}
	if len(cfg.Include) == 0 {
		return true
	}
	for _, pat := range cfg.Include {
		if matchGlob(pat, rel) {
			return true
		}
	}
	return false
}

// matchGlob is filepath.Match plus solution-style `**/` prefixes:
// `**/Program.cs` matches Program.cs at any directory depth, which
// filepath.Match alone cannot express.
func matchGlob(pat, rel string) bool {
	if ok, _ := filepath.Match(pat, rel); ok {
		return true
	}
	if rest, found := strings.CutPrefix(pat, "**/"); found {
		if ok, _ := filepath.Match(rest, rel); ok {
			return true
		}
		if ok, _ := filepath.Match(rest, filepath.Base(rel)); ok {
			return true
		}
	}
	return false
}

func findByExt(root, ext string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ext {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("workspace: walk %q: %w", root, err)
	}
	return out, nil
}
