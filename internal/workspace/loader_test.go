package workspace_test

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/bsharp-lang/bsharp/internal/workspace"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func TestLoadDiscoversCsprojFromBareDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "A.csproj"), `<Project Sdk="Microsoft.NET.Sdk">
  <ItemGroup>
    <Compile Include="*.cs" />
  </ItemGroup>
</Project>`)
	writeFile(t, filepath.Join(root, "Program.cs"), "class Program {}")
	writeFile(t, filepath.Join(root, "Helper.cs"), "class Helper {}")

	ws, err := workspace.Load(root, workspace.WorkspaceConfig{})
	if err != nil {
		t.Fatalf("Load returned an error: %v", err)
	}
	if len(ws.Projects) != 1 {
		t.Fatalf("expected 1 discovered project, got %d", len(ws.Projects))
	}

	files := ws.AllSourceFiles()
	if len(files) != 2 {
		t.Fatalf("expected 2 source files, got %d: %v", len(files), files)
	}
}

func TestLoadResolvesSolutionProjects(t *testing.T) {
	root := t.TempDir()
	projDir := filepath.Join(root, "Lib")
	writeFile(t, filepath.Join(projDir, "Lib.csproj"), `<Project Sdk="Microsoft.NET.Sdk">
  <ItemGroup>
    <Compile Include="*.cs" />
  </ItemGroup>
</Project>`)
	writeFile(t, filepath.Join(projDir, "Widget.cs"), "class Widget {}")

	slnPath := filepath.Join(root, "Solution.sln")
	writeFile(t, slnPath, `Microsoft Visual Studio Solution File, Format Version 12.00
Project("{FAE04EC0-301F-11D3-BF4B-00C04F79EFBC}") = "Lib", "Lib/Lib.csproj", "{11111111-1111-1111-1111-111111111111}"
EndProject
`)

	ws, err := workspace.Load(slnPath, workspace.WorkspaceConfig{})
	if err != nil {
		t.Fatalf("Load returned an error: %v", err)
	}
	if ws.Solution == nil {
		t.Fatal("expected a parsed Solution")
	}
	if len(ws.Projects) != 1 {
		t.Fatalf("expected 1 project resolved from the solution, got %d", len(ws.Projects))
	}
	if ws.Projects[0].Name != "Lib" {
		t.Errorf("expected project name Lib, got %q", ws.Projects[0].Name)
	}
}

func TestLoadAppliesIncludeExcludeScope(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "A.csproj"), `<Project Sdk="Microsoft.NET.Sdk">
  <ItemGroup>
    <Compile Include="src/*.cs" />
  </ItemGroup>
</Project>`)
	writeFile(t, filepath.Join(root, "src", "Keep.cs"), "class Keep {}")
	writeFile(t, filepath.Join(root, "src", "Drop.cs"), "class Drop {}")

	ws, err := workspace.Load(root, workspace.WorkspaceConfig{
		Exclude: []string{filepath.Join("src", "Drop.cs")},
	})
	if err != nil {
		t.Fatalf("Load returned an error: %v", err)
	}

	var names []string
	for _, f := range ws.AllSourceFiles() {
		names = append(names, filepath.Base(f))
	}
	sort.Strings(names)
	if len(names) != 1 || names[0] != "Keep.cs" {
		t.Errorf("expected only Keep.cs to survive exclusion, got %v", names)
	}
}

func TestParseCsprojRecordsProjectReferences(t *testing.T) {
	root := t.TempDir()
	csproj := filepath.Join(root, "App.csproj")
	writeFile(t, csproj, `<Project Sdk="Microsoft.NET.Sdk">
  <ItemGroup>
    <Compile Include="*.cs" />
    <ProjectReference Include="..\Lib\Lib.csproj" />
  </ItemGroup>
</Project>`)
	writeFile(t, filepath.Join(root, "App.cs"), "class App {}")

	proj, err := workspace.ParseCsproj(csproj)
	if err != nil {
		t.Fatalf("ParseCsproj returned an error: %v", err)
	}
	if len(proj.ProjectReferences) != 1 {
		t.Fatalf("expected 1 project reference, got %d", len(proj.ProjectReferences))
	}
	if len(proj.SourceFiles()) != 1 {
		t.Fatalf("expected 1 source file, got %d", len(proj.SourceFiles()))
	}
}
