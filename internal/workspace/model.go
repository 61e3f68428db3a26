// Package workspace discovers the files a multi-file analysis run should
// cover: scanning a `.sln` for its member projects, a `.csproj` for its
// compiled source files, and exposing the result as a Workspace a session
// pool can fan out over. Grounded on
// original_source/src/bsharp_analysis/src/workspace/{model,source_map}.rs
// for the shape of the model; this package never imports
// internal/analysis, since analysis.Session already holds a *Project
// reference the other way around.
package workspace

// Language identifies the source language of a ProjectFile. The original
// Rust model supports one variant today; kept as an enum rather than a
// bool so a second front-end slots in without an API break.
type Language int

const (
	LanguageCSharp Language = iota
)

func (l Language) String() string {
	switch l {
	case LanguageCSharp:
		return "CSharp"
	default:
		return "Unknown"
	}
}

// ProjectFileKind discriminates a compiled source file from everything
// else a project references (content, resources, analyzer configs).
type ProjectFileKind int

const (
	FileKindSource ProjectFileKind = iota
	FileKindOther
)

// ProjectFile is one file a Project references.
type ProjectFile struct {
	Path     string
	Kind     ProjectFileKind
	Language Language
}

// NewSourceFile builds a ProjectFile for a compiled source file.
func NewSourceFile(path string, lang Language) ProjectFile {
	return ProjectFile{Path: path, Kind: FileKindSource, Language: lang}
}

// ProjectRef is one `.sln` entry naming a member project.
type ProjectRef struct {
	Name string
	Path string
}

// Solution is a parsed `.sln` file: the projects it references, plus an
// error message for each member project that Load could not read.
type Solution struct {
	Path     string
	Projects []ProjectRef
	Errors   []string
}

// Project is a parsed `.csproj`: its compiled files, its references to
// other projects, and any warnings accumulated while parsing (an
// unresolved MSBuild macro, a conditioned item group).
type Project struct {
	Name              string
	Path              string
	Files             []ProjectFile
	ProjectReferences []string
	Errors            []string
}

// AddFile appends file to the project's file list.
func (p *Project) AddFile(file ProjectFile) {
	p.Files = append(p.Files, file)
}

// SourceFiles returns only the project's FileKindSource entries.
func (p *Project) SourceFiles() []ProjectFile {
	var out []ProjectFile
	for _, f := range p.Files {
		if f.Kind == FileKindSource {
			out = append(out, f)
		}
	}
	return out
}

// WorkspaceConfig scopes a workspace run to a subset of its source files.
// Lives here rather than in internal/analysis so that Load can accept it
// directly without internal/workspace importing internal/analysis.
type WorkspaceConfig struct {
	FollowRefs bool
	Include    []string
	Exclude    []string
}

// Workspace is the discovered result of loading a root directory: every
// project found (directly, or via a solution), and a SourceMap over the
// union of their files.
type Workspace struct {
	Root      string
	Projects  []*Project
	Solution  *Solution // nil when loaded from a bare directory of .csproj files
	SourceMap *SourceMap
}

// AllSourceFiles returns the path of every FileKindSource file across
// every project in the workspace.
func (w *Workspace) AllSourceFiles() []string {
	var out []string
	for _, p := range w.Projects {
		for _, f := range p.Files {
			if f.Kind == FileKindSource {
				out = append(out, f.Path)
			}
		}
	}
	return out
}
