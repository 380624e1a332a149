package main

import (
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/spec-kit/specify/internal/log"
	"github.com/spec-kit/specify/internal/output"
)

func newBranchNameCmd() *cobra.Command {
	var (
		template   string
		repos      []string
		noFetch    bool
		jsonOutput bool
		copyOut    bool
	)

	cmd := &cobra.Command{
		Use:     "branch-name [description...]",
		Short:   "Print the next feature identifier",
		GroupID: GroupFeature,
		Long: `Print the identifier the next "specify create" would use.

Nothing is created. Running it twice in a row prints the same identifier.
Routing applies as in create, so a strip prefix rule shortens the name;
an ambiguous route prints the identifier unchanged.`,
		Example: `  specify branch-name "Add login feature"
  specify branch-name --template "{username}/{number}-{short_name}" fix typo
  specify branch-name "Add export" --copy`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			p, err := loadProject(ctx, workDir)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("template") {
				template = p.Settings.BranchTemplate
			}

			id, err := p.resolver(!noFetch).Resolve(ctx, template, strings.Join(args, " "))
			if err != nil {
				return err
			}

			branch, err := previewBranch(id, p.Workspace, repos...)
			if err != nil {
				return err
			}

			if copyOut {
				if err := clipboard.WriteAll(branch); err != nil {
					log.FromContext(ctx).Warnf("could not copy to clipboard: %v", err)
				}
			}

			if jsonOutput {
				return out.JSON(identityJSON(id, branch, p.specsRoot()))
			}
			out.Println(branch)
			return nil
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", "", "Branch template (default from settings)")
	cmd.Flags().StringArrayVarP(&repos, "repo", "r", nil, "Target repository name or alias (repeatable, skips conventions)")
	cmd.Flags().BoolVar(&noFetch, "no-fetch", false, "Skip fetching remotes before allocating the number")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVarP(&copyOut, "copy", "c", false, "Copy the identifier to the clipboard")
	registerRepoCompletion(cmd)

	return cmd
}
