package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newLangsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "langs",
		Short: "List the built-in languages and their extensions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd.Context(), cmd, opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			reg := s.selector.Registry()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, name := range reg.Languages() {
				fmt.Fprintf(tw, "%s\t%s\n", name, strings.Join(reg.Extensions(name), " "))
			}
			return tw.Flush()
		},
	}
}
