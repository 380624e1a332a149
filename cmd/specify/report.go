package main

import (
	"errors"
	"path/filepath"

	"github.com/spec-kit/specify/internal/executor"
	"github.com/spec-kit/specify/internal/identity"
	"github.com/spec-kit/specify/internal/routing"
	"github.com/spec-kit/specify/internal/ui/static"
	"github.com/spec-kit/specify/internal/workspace"
)

// featureJSON is the machine-readable result of create and branch-name.
// The upper-case keys are read by existing shell tooling.
type featureJSON struct {
	BranchName string   `json:"BRANCH_NAME"`
	SpecFile   string   `json:"SPEC_FILE"`
	FeatureNum string   `json:"FEATURE_NUM"`
	Repos      []string `json:"REPOS"`
}

func newFeatureJSON(id identity.ResolvedIdentity, rep executor.Report) featureJSON {
	repos := rep.Succeeded()
	if repos == nil {
		repos = []string{}
	}
	return featureJSON{
		BranchName: rep.Branch,
		SpecFile:   rep.SpecFile,
		FeatureNum: id.FeatureNum(),
		Repos:      repos,
	}
}

// previewBranch returns the branch create would use for id: routed like
// create, so a strip prefix rule or --repo override applies, but without
// prompting. An ambiguous route keeps the identifier.
func previewBranch(id identity.ResolvedIdentity, ws *workspace.Workspace, repos ...string) (string, error) {
	d, err := routing.Match(id.ShortName(), ws.Conventions, ws.Repos, repos...)
	if err != nil {
		return "", err
	}
	return executor.BranchName(id, d)
}

func identityJSON(id identity.ResolvedIdentity, branch, specsRoot string) featureJSON {
	return featureJSON{
		BranchName: branch,
		SpecFile:   filepath.Join(specsRoot, filepath.FromSlash(branch), executor.SpecFileName),
		FeatureNum: id.FeatureNum(),
		Repos:      []string{},
	}
}

// reportLines renders one status line per repository.
func reportLines(rep executor.Report) []string {
	lines := make([]string, 0, len(rep.Results))
	for _, res := range rep.Results {
		status, detail := static.StatusOK, "created "+rep.Branch
		switch {
		case res.Err != nil:
			status, detail = static.StatusFailed, cause(res.Err).Error()
		case rep.DryRun:
			status, detail = static.StatusPlanned, "would create "+rep.Branch
		}
		lines = append(lines, static.StatusLine(status, res.Repo, detail))
	}
	return lines
}

// cause strips the repository wrapper, which the status line already shows.
func cause(err error) error {
	var opErr *executor.RepoOperationError
	if errors.As(err, &opErr) {
		return opErr.Err
	}
	return err
}
