// Package cli implements the hilite command line.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// NewRootCommand builds the command tree. Without a subcommand hilite pages
// its input when stdout is a terminal and prints it otherwise.
func NewRootCommand(version string) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "hilite [file]",
		Short: "Syntax highlighting for the terminal",
		Long: `hilite highlights source files line by line, carrying the lexer state
from each line to the next so strings, comments and embedded languages that
span lines are colored correctly.

With no file, or with "-", it reads standard input.

Examples:
  # Page a file
  hilite main.go

  # Print with the monokai theme and no line numbers
  hilite cat -t monokai -N script.py

  # Force a language for stdin
  curl -s https://example.com | hilite cat -l html`,
		Version:      version,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if isTerminal(cmd) {
				return runView(cmd, opts, args)
			}
			return runCat(cmd, opts, args)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.configFile, "config", "c", "",
		"config file (default: ~/.config/hilite/config.toml)")
	pf.StringVarP(&opts.theme, "theme", "t", "dark",
		"built-in theme name or theme file")
	pf.StringVarP(&opts.language, "lang", "l", "",
		"language name or extension, instead of detecting it")
	pf.IntVar(&opts.tabWidth, "tab-width", 4,
		"columns per tab stop")
	pf.BoolVarP(&opts.noNumbers, "no-numbers", "N", false,
		"hide line numbers")
	pf.BoolVar(&opts.markers, "markers", false,
		"mark lines that end inside a multi-line construct")
	pf.StringVar(&opts.color, "color", "auto",
		"color mode for printed output: auto, truecolor, 256, 16 or never")
	pf.StringVar(&opts.logLevel, "log-level", "warn",
		"log level: debug, info, warn or error")

	root.AddCommand(
		newCatCommand(opts),
		newViewCommand(opts),
		newInspectCommand(opts),
		newLangsCommand(opts),
		newThemesCommand(opts),
	)
	return root
}

// isTerminal reports whether the command writes to an interactive terminal.
func isTerminal(cmd *cobra.Command) bool {
	f, ok := cmd.OutOrStdout().(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// Execute runs the command line until it finishes or is interrupted.
func Execute(version string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCommand(version).ExecuteContext(ctx)
}
