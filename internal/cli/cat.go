package cli

import (
	"github.com/spf13/cobra"

	"github.com/dshills/hilite/internal/renderer/ansi"
)

func newCatCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "cat [file...]",
		Short: "Print highlighted files",
		Long: `Print files with escape sequences for their colors.

Color is detected from the output unless --color or display.color says
otherwise, so piping into a file gives plain text.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCat(cmd, opts, args)
		},
	}
}

func runCat(cmd *cobra.Command, opts *options, paths []string) error {
	s, err := newSession(cmd.Context(), cmd, opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	mode, err := ansi.ParseColorMode(s.display.Color)
	if err != nil {
		return err
	}

	if len(paths) == 0 {
		paths = []string{"-"}
	}
	w := ansi.New(cmd.OutOrStdout(), s.styles, ansi.Options{
		TabWidth:        s.display.TabWidth,
		ShowLineNumbers: s.display.LineNumbers,
		FirstLineNumber: 1,
		Background:      s.display.Background,
		Color:           mode,
	})
	for _, path := range paths {
		if err := cmd.Context().Err(); err != nil {
			return err
		}
		doc, _, err := s.open(path, cmd.InOrStdin())
		if err != nil {
			return err
		}
		if err := w.WriteDocument(doc); err != nil {
			return err
		}
	}
	return nil
}
