package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spec-kit/specify/internal/git"
	"github.com/spec-kit/specify/internal/log"
	"github.com/spec-kit/specify/internal/output"
	"github.com/spec-kit/specify/internal/routing"
	"github.com/spec-kit/specify/internal/ui/prompt"
	"github.com/spec-kit/specify/internal/ui/static"
	"github.com/spec-kit/specify/internal/ui/styles"
	"github.com/spec-kit/specify/internal/workspace"
)

func newWorkspaceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workspace",
		Short:   "Manage a multi-repository workspace",
		Aliases: []string{"ws"},
		GroupID: GroupWorkspace,
		Long: `A workspace is a directory holding several git repositories and a
.specify/workspace.yml that lists them with their aliases and routing conventions.`,
	}

	cmd.AddCommand(newWorkspaceInitCmd())
	cmd.AddCommand(newWorkspaceReposCmd())
	cmd.AddCommand(newWorkspaceAddCmd())
	cmd.AddCommand(newWorkspaceRemoveCmd())
	cmd.AddCommand(newWorkspaceRouteCmd())

	return cmd
}

func newWorkspaceInitCmd() *cobra.Command {
	var opts workspace.InitOptions

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Discover repositories and write workspace.yml",
		Args:  cobra.MaximumNArgs(1),
		Long: `Discover the git repositories below dir (default: current directory)
and write workspace.yml with one prefix rule per repository.`,
		Example: `  specify workspace init
  specify workspace init ~/src/shop --depth 3
  specify workspace init --auto-init-repos   # git init plain subdirectories`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			dir := workDir
			if len(args) == 1 {
				dir = args[0]
			}

			ws, err := workspace.Init(ctx, dir, opts)
			if errors.Is(err, workspace.ErrWorkspaceExists) && !opts.Force && interactive() {
				res, perr := prompt.Confirm(fmt.Sprintf("%s already exists. Overwrite?", workspace.FileName))
				if perr != nil {
					return perr
				}
				if !res.Confirmed {
					return err
				}
				opts.Force = true
				ws, err = workspace.Init(ctx, dir, opts)
			}
			if err != nil {
				return err
			}

			l.Printf("Initialized workspace %s with %d repositories\n", styles.Bold.Render(ws.Name), len(ws.Repos))
			out.Print(reposTable(ws))
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.Depth, "depth", workspace.DefaultDepth, "Directory levels to search for repositories")
	cmd.Flags().BoolVar(&opts.AutoInitRepos, "auto-init-repos", false, "Run git init in top-level directories that are not repositories")
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Overwrite an existing workspace.yml")

	return cmd
}

func newWorkspaceReposCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "repos",
		Short:   "List workspace repositories",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			p, err := loadProject(ctx, workDir)
			if err != nil {
				return err
			}

			if jsonOutput {
				return out.JSON(p.Workspace.Repos)
			}
			if p.Single {
				log.FromContext(ctx).Printf("Not in a workspace; using the current repository.\n")
			}
			out.Print(reposTable(p.Workspace))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

// workspaceOnly loads the enclosing workspace; single-repository mode has
// no workspace.yml to edit.
func workspaceOnly() (*workspace.Workspace, error) {
	root, ok := workspace.Find(workDir)
	if !ok {
		return nil, fmt.Errorf("%w: %s (run 'specify workspace init' first)", workspace.ErrNotWorkspace, workDir)
	}
	return workspace.Load(root)
}

func newWorkspaceAddCmd() *cobra.Command {
	var (
		name    string
		aliases []string
	)

	cmd := &cobra.Command{
		Use:   "add <path>",
		Short: "Register a repository in workspace.yml",
		Args:  cobra.ExactArgs(1),
		Long: `Register an existing git repository below the workspace root.
Without --alias the directory name and its dash-separated parts become aliases.`,
		Example: `  specify workspace add services/billing
  specify workspace add web --name frontend --alias fe --alias ui`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			ws, err := workspaceOnly()
			if err != nil {
				return err
			}
			repo, err := addRepo(ws, workDir, args[0], name, aliases)
			if err != nil {
				return err
			}
			if err := ws.Save(); err != nil {
				return err
			}

			log.FromContext(ctx).Printf("Added %s (%s)\n", styles.Bold.Render(repo.Name), repo.Path)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Repository name (default: directory name)")
	cmd.Flags().StringArrayVar(&aliases, "alias", nil, "Alias for routing and --repo (repeatable)")

	return cmd
}

// addRepo registers the repository at dir, resolved against base.
func addRepo(ws *workspace.Workspace, base, dir, name string, aliases []string) (workspace.Repo, error) {
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(base, dir)
	}
	dir = filepath.Clean(dir)
	if !git.IsRepo(dir) {
		return workspace.Repo{}, fmt.Errorf("%s is not a git repository", dir)
	}
	if len(aliases) == 0 {
		aliases = workspace.DefaultAliases(filepath.Base(dir))
	}
	repo := workspace.Repo{Name: name, Path: dir, Aliases: aliases}
	if err := ws.Add(repo); err != nil {
		return workspace.Repo{}, err
	}
	return ws.Repos[len(ws.Repos)-1], nil
}

func newWorkspaceRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "remove <name|path>",
		Short:   "Unregister a repository from workspace.yml",
		Aliases: []string{"rm"},
		Args:    cobra.ExactArgs(1),
		Long: `Remove a repository entry by name or workspace-relative path.
The repository itself is left untouched.`,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			ws, err := workspaceOnly()
			if err != nil {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return ws.Names(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := workspaceOnly()
			if err != nil {
				return err
			}
			if err := ws.Remove(args[0]); err != nil {
				return err
			}
			if err := ws.Save(); err != nil {
				return err
			}

			log.FromContext(cmd.Context()).Printf("Removed %s\n", styles.Bold.Render(args[0]))
			return nil
		},
	}

	return cmd
}

func reposTable(ws *workspace.Workspace) string {
	rows := make([][]string, 0, len(ws.Repos))
	for _, r := range ws.Repos {
		aliases := "-"
		if len(r.Aliases) > 0 {
			aliases = strings.Join(r.Aliases, ", ")
		}
		rows = append(rows, []string{r.Name, r.Path, aliases})
	}
	return static.RenderTable([]string{"NAME", "PATH", "ALIASES"}, rows)
}

func newWorkspaceRouteCmd() *cobra.Command {
	var repos []string

	cmd := &cobra.Command{
		Use:   "route <name>",
		Short: "Show which repositories a feature name routes to",
		Args:  cobra.ExactArgs(1),
		Long: `Apply the workspace conventions to a short name and print the decision.
Nothing is created and no prompt is shown.`,
		Example: `  specify workspace route backend-payment-api
  specify workspace route shared-auth -r api`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			p, err := loadProject(ctx, workDir)
			if err != nil {
				return err
			}
			d, err := routing.Match(args[0], p.Workspace.Conventions, p.Workspace.Repos, repos...)
			if err != nil {
				return err
			}
			out.Print(routeSummary(d))
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&repos, "repo", "r", nil, "Target repository name or alias (repeatable)")
	registerRepoCompletion(cmd)

	return cmd
}

func routeSummary(d routing.Decision) string {
	rows := [][]string{
		{"name", d.Name},
		{"outcome", d.Outcome.String()},
	}
	if len(d.Rules) > 0 {
		rows = append(rows, []string{"rules", strings.Join(d.Rules, ", ")})
	}
	if d.StripPrefix != "" {
		rows = append(rows, []string{"branch name", d.StripFrom(d.Name)})
	}
	if d.Outcome == routing.NeedsSelection {
		var names []string
		for _, r := range d.Candidates {
			names = append(names, r.Name)
		}
		rows = append(rows, []string{"candidates", strings.Join(names, ", ")})
	} else {
		rows = append(rows, []string{"repos", strings.Join(d.RepoNames(), ", ")})
	}
	return static.RenderTable([]string{"ROUTE", ""}, rows)
}

// registerRepoCompletion completes --repo with workspace names and aliases.
func registerRepoCompletion(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("repo", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		root, ok := workspace.Find(workDir)
		if !ok {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		ws, err := workspace.Load(root)
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return ws.Refs(), cobra.ShellCompDirectiveNoFileComp
	})
}

// displayPath shortens path relative to the working directory when possible.
func displayPath(path string) string {
	if rel, err := filepath.Rel(workDir, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}
