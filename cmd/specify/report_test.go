package main

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/spec-kit/specify/internal/executor"
	"github.com/spec-kit/specify/internal/identity"
	"github.com/spec-kit/specify/internal/routing"
	"github.com/spec-kit/specify/internal/workspace"
)

func sampleReport() executor.Report {
	return executor.Report{
		Identifier: "007-payment-api",
		Branch:     "007-payment-api",
		SpecFile:   "/ws/specs/007-payment-api/spec.md",
		Results: []executor.Result{
			{Repo: "backend"},
			{Repo: "frontend", Err: &executor.RepoOperationError{
				Repo: "frontend", Branch: "007-payment-api", Err: errors.New("not a git repository"),
			}},
		},
	}
}

func TestNewFeatureJSON(t *testing.T) {
	t.Parallel()

	id := identity.ResolvedIdentity{Number: 7, Identifier: "007-payment-api"}
	data, err := json.Marshal(newFeatureJSON(id, sampleReport()))
	if err != nil {
		t.Fatal(err)
	}

	want := `{"BRANCH_NAME":"007-payment-api","SPEC_FILE":"/ws/specs/007-payment-api/spec.md","FEATURE_NUM":"007","REPOS":["backend"]}`
	if string(data) != want {
		t.Errorf("json = %s\nwant   %s", data, want)
	}
}

func TestNewFeatureJSON_NoSuccessIsEmptyList(t *testing.T) {
	t.Parallel()

	rep := sampleReport()
	rep.Results = rep.Results[1:]
	data, err := json.Marshal(newFeatureJSON(identity.ResolvedIdentity{Number: 1}, rep))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"REPOS":[]`) {
		t.Errorf("json = %s, want empty REPOS list", data)
	}
}

func TestReportLines(t *testing.T) {
	t.Parallel()

	lines := reportLines(sampleReport())
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if got, want := ansi.Strip(lines[0]), "✓ backend  created 007-payment-api"; got != want {
		t.Errorf("line 0 = %q, want %q", got, want)
	}
	if got, want := ansi.Strip(lines[1]), "✗ frontend  not a git repository"; got != want {
		t.Errorf("line 1 = %q, want %q", got, want)
	}

	dry := sampleReport()
	dry.DryRun = true
	if got := ansi.Strip(reportLines(dry)[0]); !strings.HasPrefix(got, "○ backend  would create") {
		t.Errorf("dry-run line = %q", got)
	}
}

func TestChosenRepos(t *testing.T) {
	t.Parallel()

	candidates := []workspace.Repo{{Name: "backend"}, {Name: "frontend"}}

	opts := selectOptions(candidates)
	if len(opts) != 3 || opts[0].Label != allReposLabel || opts[2].Label != "frontend" {
		t.Fatalf("selectOptions = %+v", opts)
	}

	if got := chosenRepos(candidates, 0); len(got) != 2 {
		t.Errorf("index 0 = %v, want all candidates", got)
	}
	if got := chosenRepos(candidates, 2); len(got) != 1 || got[0].Name != "frontend" {
		t.Errorf("index 2 = %v, want frontend", got)
	}
	if got := chosenRepos(candidates, 5); got != nil {
		t.Errorf("index 5 = %v, want nil", got)
	}
}

func TestRouteSummary(t *testing.T) {
	t.Parallel()

	d := routing.Decision{
		Name:        "backend-payment-api",
		Outcome:     routing.Matched,
		Repos:       []workspace.Repo{{Name: "backend"}},
		StripPrefix: "backend-",
		Rules:       []string{`prefix rule "backend-"`},
	}
	got := ansi.Strip(routeSummary(d))
	for _, want := range []string{"matched", "payment-api", `prefix rule "backend-"`, "backend"} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q:\n%s", want, got)
		}
	}

	pending := routing.Decision{Name: "x", Outcome: routing.NeedsSelection, Candidates: []workspace.Repo{{Name: "a"}, {Name: "b"}}}
	if got := ansi.Strip(routeSummary(pending)); !strings.Contains(got, "a, b") {
		t.Errorf("summary missing candidates:\n%s", got)
	}
}

func TestPreviewBranch(t *testing.T) {
	t.Parallel()

	ws := &workspace.Workspace{
		Root:  "/ws",
		Repos: []workspace.Repo{{Name: "backend", Path: "backend"}, {Name: "frontend", Path: "frontend"}},
		Conventions: workspace.Conventions{
			PrefixRules: []workspace.PrefixRule{{Prefix: "backend-", Repos: []string{"backend"}, Strip: true}},
		},
	}
	id := identity.ResolvedIdentity{
		Template:   "{number}-{short_name}",
		Values:     map[string]string{"number": "007", "short_name": "backend-payments"},
		Number:     7,
		Identifier: "007-backend-payments",
	}

	branch, err := previewBranch(id, ws)
	if err != nil {
		t.Fatalf("previewBranch failed: %v", err)
	}
	if branch != "007-payments" {
		t.Errorf("branch = %q, want strip prefix applied", branch)
	}
	got := identityJSON(id, branch, "/ws/specs")
	if got.BranchName != "007-payments" || got.SpecFile != filepath.Join("/ws/specs", "007-payments", "spec.md") {
		t.Errorf("identityJSON = %+v, want routed branch and spec file", got)
	}

	branch, err = previewBranch(id, ws, "frontend")
	if err != nil {
		t.Fatalf("previewBranch with override failed: %v", err)
	}
	if branch != id.Identifier {
		t.Errorf("override branch = %q, want %q", branch, id.Identifier)
	}

	if _, err := previewBranch(id, ws, "nope"); err == nil {
		t.Error("unknown --repo was accepted")
	}
}

func TestRequireTargets(t *testing.T) {
	t.Parallel()

	p := &project{Root: "/ws"}
	if err := requireTargets(p, routing.Decision{Repos: []workspace.Repo{{Name: "backend"}}}); err != nil {
		t.Errorf("requireTargets with a repo = %v", err)
	}

	err := requireTargets(p, routing.Decision{Outcome: routing.AllRepos})
	if !errors.Is(err, executor.ErrNoTargets) {
		t.Fatalf("requireTargets = %v, want ErrNoTargets", err)
	}
	if !strings.Contains(err.Error(), "specify workspace add") {
		t.Errorf("error %q does not point at workspace add", err)
	}
}
