package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spec-kit/specify/internal/identity"
	"github.com/spec-kit/specify/internal/log"
	"github.com/spec-kit/specify/internal/output"
	"github.com/spec-kit/specify/internal/settings"
	"github.com/spec-kit/specify/internal/ui/prompt"
	"github.com/spec-kit/specify/internal/ui/static"
	"github.com/spec-kit/specify/internal/ui/styles"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Manage settings",
		Aliases: []string{"cfg"},
		GroupID: GroupConfig,
		Long: `Manage specify settings.

Settings live in .specify/config.toml at the workspace or repository root.`,
		Example: `  specify config init       # Write the default settings file
  specify config show       # Show effective settings
  specify config check      # Validate settings and the branch template`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigCheckCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		force  bool
		stdout bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create default settings file",
		Args:  cobra.NoArgs,
		Example: `  specify config init       # Create .specify/config.toml
  specify config init -f    # Overwrite existing settings
  specify config init -s    # Print settings to stdout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			if stdout {
				out.Print(settings.DefaultFile)
				return nil
			}

			root := projectRoot(ctx, workDir)
			path, err := settings.Init(root, force)
			if errors.Is(err, settings.ErrSettingsExist) && interactive() {
				res, perr := prompt.Confirm(fmt.Sprintf("%s already exists. Overwrite?", displayPath(settings.Path(root))))
				if perr != nil {
					return perr
				}
				if !res.Confirmed {
					return fmt.Errorf("%w (use -f to overwrite)", err)
				}
				path, err = settings.Init(root, true)
			}
			if err != nil {
				return err
			}

			log.FromContext(ctx).Printf("Created settings file: %s\n", displayPath(path))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing settings")
	cmd.Flags().BoolVarP(&stdout, "stdout", "s", false, "Print settings to stdout")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			p, err := loadProject(ctx, workDir)
			if err != nil {
				return err
			}
			warnIgnored(ctx, p.Settings)

			if jsonOutput {
				return out.JSON(map[string]any{
					"root":            p.Root,
					"settings_file":   p.Settings.Path,
					"branch_template": p.Settings.BranchTemplate,
					"specs_dir":       p.specsRoot(),
					"workspace":       !p.Single,
					"repos":           p.Workspace.Names(),
				})
			}

			file := p.Settings.Path
			if file == "" {
				file = "(defaults)"
			}
			specs := displayPath(p.specsRoot())
			if env := os.Getenv(settings.EnvSpecDir); env != "" {
				specs += styles.MutedStyle.Render(" (from " + settings.EnvSpecDir + ")")
			}
			mode := "single repository"
			if !p.Single {
				mode = "workspace " + p.Workspace.Name
			}

			out.Print(static.RenderTable([]string{"SETTING", "VALUE"}, [][]string{
				{"root", p.Root},
				{"mode", mode},
				{"settings file", file},
				{"branch.template", p.Settings.BranchTemplate},
				{"specs.dir", specs},
				{"repos", strings.Join(p.Workspace.Names(), ", ")},
			}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func newConfigCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate settings and the branch template",
		Args:  cobra.NoArgs,
		Long: `Load the settings and workspace files and check the branch template.
Reports the file position of parse errors and the offending fragment of an
invalid template.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			p, err := loadProject(ctx, workDir)
			if err != nil {
				return err
			}
			warnIgnored(ctx, p.Settings)

			if err := identity.ValidateTemplate(p.Settings.BranchTemplate); err != nil {
				return err
			}

			ok := styles.SuccessStyle.Render(styles.SymbolOK)
			out.Printf("%s branch.template %s\n", ok, p.Settings.BranchTemplate)
			out.Printf("%s specs.dir %s\n", ok, displayPath(p.specsRoot()))
			if !p.Single {
				out.Printf("%s workspace %s (%d repositories)\n", ok, p.Workspace.Name, len(p.Workspace.Repos))
			}
			return nil
		},
	}
}

func warnIgnored(ctx context.Context, s settings.Settings) {
	for _, key := range s.Ignored {
		log.FromContext(ctx).Warnf("%s: unknown key %q ignored", s.Path, key)
	}
}
