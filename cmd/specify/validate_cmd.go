package main

import (
	"github.com/spf13/cobra"

	"github.com/spec-kit/specify/internal/output"
	"github.com/spec-kit/specify/internal/refname"
	"github.com/spec-kit/specify/internal/ui/styles"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "validate <name>",
		Short:   "Check a name against git branch naming rules",
		GroupID: GroupFeature,
		Args:    cobra.ExactArgs(1),
		Example: `  specify validate 001-add-login
  specify validate "jane/001..x"   # fails: contains ".."`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v := refname.Check(args[0]); v != nil {
				return v
			}
			output.FromContext(cmd.Context()).Printf("%s %s\n", styles.SuccessStyle.Render(styles.SymbolOK), args[0])
			return nil
		},
	}
}
