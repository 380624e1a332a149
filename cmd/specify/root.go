package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/spec-kit/specify/internal/git"
	"github.com/spec-kit/specify/internal/log"
	"github.com/spec-kit/specify/internal/output"
	"github.com/spec-kit/specify/internal/ui/styles"
)

var (
	// Global flags
	verbose bool
	quiet   bool

	workDir string

	// stderr carries diagnostics; styles are stripped when it is not a terminal.
	stderr = styles.NewWriter(os.Stderr)
)

// Command group IDs for organizing help output
const (
	GroupFeature   = "feature"
	GroupWorkspace = "workspace"
	GroupConfig    = "config"
)

var rootCmd = &cobra.Command{
	Use:   "specify",
	Short: "Feature identifiers and branches across one or many repositories",
	Long: `specify derives feature identifiers from a branch template, allocates the
next free feature number, and creates the feature branch and spec directory.

Inside a workspace (a directory with .specify/workspace.yml) naming conventions route
each feature to the repositories it belongs to. Outside a workspace the
current git repository is the only target.`,
	SilenceUsage:               true,
	SilenceErrors:              true,
	SuggestionsMinimumDistance: 2,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Flags are parsed by now; replace the default logger.
		cmd.SetContext(log.WithLogger(cmd.Context(), log.New(stderr, verbose, quiet)))

		switch cmd.Name() {
		case "completion", "__complete", "help", "validate":
			return nil
		}
		if verbose && quiet {
			return fmt.Errorf("--verbose and --quiet are mutually exclusive")
		}
		return git.CheckGit()
	},
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	var err error
	workDir, err = os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "specify: failed to get working directory: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ctx = log.WithLogger(ctx, log.New(stderr, false, false))
	// Styles are downgraded or stripped to what stdout supports.
	ctx = output.WithPrinter(ctx, styles.NewWriter(os.Stdout))
	rootCmd.SetContext(ctx)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(stderr, styles.ErrorStyle.Render("error:"), err)
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Run 'specify -h' for help")
		os.Exit(1)
	}
}

// interactive reports whether prompts can be shown.
func interactive() bool {
	in := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	errOut := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	return in && errOut
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show git commands being executed")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress informational output")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.AddGroup(
		&cobra.Group{ID: GroupFeature, Title: "Feature Commands:"},
		&cobra.Group{ID: GroupWorkspace, Title: "Workspace Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)

	rootCmd.AddCommand(newCreateCmd())
	rootCmd.AddCommand(newBranchNameCmd())
	rootCmd.AddCommand(newValidateCmd())

	rootCmd.AddCommand(newWorkspaceCmd())

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newCompletionCmd())
}
