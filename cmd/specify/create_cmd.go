package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spec-kit/specify/internal/executor"
	"github.com/spec-kit/specify/internal/log"
	"github.com/spec-kit/specify/internal/output"
	"github.com/spec-kit/specify/internal/routing"
	"github.com/spec-kit/specify/internal/ui/prompt"
	"github.com/spec-kit/specify/internal/ui/styles"
	"github.com/spec-kit/specify/internal/workspace"
)

func newCreateCmd() *cobra.Command {
	var (
		repos      []string
		noPrompt   bool
		dryRun     bool
		jsonOutput bool
		noFetch    bool
	)

	cmd := &cobra.Command{
		Use:     "create [description...]",
		Short:   "Create a feature branch and spec directory",
		Aliases: []string{"new"},
		GroupID: GroupFeature,
		Long: `Create a feature from a description.

The next free feature number is allocated across every repository and the
specs directory, the identifier is rendered from the branch template, and the
branch is created in each target repository. The spec directory is created
once at least one branch exists.

Targets come from --repo, else from the workspace conventions. When no
convention matches and the workspace asks for it, you are prompted to choose;
with --no-prompt or without a terminal the command fails instead.`,
		Example: `  specify create "Add login feature"
  specify create backend payment api      # routed by the backend- prefix rule
  specify create "shared auth" -r api -r web
  specify create "Add export" --dry-run --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			description := strings.Join(args, " ")
			if strings.TrimSpace(description) == "" && !noPrompt && interactive() {
				res, err := prompt.TextInput("Describe the feature:", "add login feature")
				if err != nil {
					return err
				}
				if res.Cancelled {
					return fmt.Errorf("cancelled")
				}
				description = res.Value
			}

			p, err := loadProject(ctx, workDir)
			if err != nil {
				return err
			}

			id, err := p.resolver(!noFetch).Resolve(ctx, p.Settings.BranchTemplate, description)
			if err != nil {
				return err
			}
			l.Debug("resolved", "identifier", id.Identifier, "scope", id.Scope, "number", id.Number)

			d, err := routing.Match(id.ShortName(), p.Workspace.Conventions, p.Workspace.Repos, repos...)
			if err != nil {
				return err
			}
			var sel routing.Selector
			if !noPrompt && interactive() {
				sel = promptSelector()
			}
			d, err = routing.Settle(d, sel)
			if err != nil {
				return err
			}
			l.Debug("routed", "name", d.Name, "outcome", d.Outcome, "repos", strings.Join(d.RepoNames(), ","))
			if err := requireTargets(p, d); err != nil {
				return err
			}

			rep := p.executor(dryRun).Execute(ctx, id, d)

			if jsonOutput {
				if err := out.JSON(newFeatureJSON(id, rep)); err != nil {
					return err
				}
				return rep.Err()
			}

			for _, line := range reportLines(rep) {
				out.Println(line)
			}
			if len(rep.Succeeded()) > 0 {
				label := "spec"
				if dryRun {
					label = "spec (dry run)"
				}
				out.Printf("%s %s\n", styles.MutedStyle.Render(label+":"), displayPath(rep.SpecFile))
			}
			return rep.Err()
		},
	}

	cmd.Flags().StringArrayVarP(&repos, "repo", "r", nil, "Target repository name or alias (repeatable, skips conventions)")
	cmd.Flags().BoolVar(&noPrompt, "no-prompt", false, "Fail instead of prompting when routing is ambiguous")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would be created without changing anything")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&noFetch, "no-fetch", false, "Skip fetching remotes before allocating the number")
	registerRepoCompletion(cmd)

	return cmd
}

// requireTargets rejects a decision without repositories, which only an
// empty workspace produces.
func requireTargets(p *project, d routing.Decision) error {
	if len(d.Repos) > 0 {
		return nil
	}
	return fmt.Errorf("%w: %s lists none (register one with 'specify workspace add')", executor.ErrNoTargets, workspace.Path(p.Root))
}
