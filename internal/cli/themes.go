package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/hilite/internal/theme"
)

func newThemesCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List the built-in themes",
		Long: `List the built-in themes. The configured theme is marked with "*".

Any other value of --theme or highlight.theme is read as a TOML, YAML or
JSON theme file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd.Context(), cmd, opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			for _, name := range theme.Names() {
				mark := " "
				if name == s.theme.Name {
					mark = "*"
				}
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", mark, name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
