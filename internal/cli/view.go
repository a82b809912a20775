package cli

import (
	"bytes"
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/dshills/hilite/internal/config"
	"github.com/dshills/hilite/internal/renderer"
	"github.com/dshills/hilite/internal/renderer/backend"
	"github.com/dshills/hilite/internal/renderer/statusline"
)

func newViewCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "view [file]",
		Short: "Page a highlighted file",
		Long: `Page a file in the terminal.

Keys: j/k or arrows scroll, space/b page, d/u half page, g/G top and bottom,
h/l or left/right scroll sideways, q quits. A number before j, k, g or p
repeats the move, jumps to that line or to that percentage.

The file, the configuration files and a theme file are watched; saving any
of them reloads the view.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd, opts, args)
		},
	}
}

func runView(cmd *cobra.Command, opts *options, args []string) error {
	// The screen is owned by the pager, so logs are held until it exits.
	var logs bytes.Buffer
	defer func() { _, _ = io.Copy(cmd.ErrOrStderr(), &logs) }()

	s, err := newSession(cmd.Context(), cmd, opts, &logs)
	if err != nil {
		return err
	}
	path := ""
	if len(args) > 0 && args[0] != "-" {
		path = args[0]
	}

	term, err := backend.NewTerminal()
	if err != nil {
		return err
	}
	if err := term.Init(); err != nil {
		return err
	}
	defer term.Shutdown()

	return s.page(cmd.Context(), term, path, cmd.InOrStdin())
}

func (s *session) rendererOptions() renderer.Options {
	o := renderer.DefaultOptions()
	o.TabWidth = s.display.TabWidth
	o.ShowLineNumbers = s.display.LineNumbers
	o.ShowStateMarkers = s.display.StateMarkers
	o.ShowStatusLine = s.display.StatusLine
	o.Logger = s.log
	return o
}

// page shows path on b until the user quits or ctx is done.
func (s *session) page(ctx context.Context, b backend.Backend, path string, stdin io.Reader) error {
	doc, _, err := s.open(path, stdin)
	if err != nil {
		return err
	}

	r := renderer.New(b, s.styles, s.rendererOptions())
	r.SetSource(doc, path, doc.Language())
	r.SetStyles(s.styles, s.theme.Name)
	r.OnReload(func() { s.reload(r, path) })

	// Reloads run on the event loop
	s.cfg.OnReload(func(*config.Config) {
		b.PostEvent(backend.Event{Type: backend.EventReload})
	})
	var extra []string
	if f := s.themeFile(); f != "" {
		extra = append(extra, f)
	}
	if path != "" {
		extra = append(extra, path)
	}
	if err := s.cfg.Watch(extra...); err != nil {
		s.log.Warn("live reload disabled: %v", err)
	}
	defer s.cfg.Close()

	return r.Run(ctx)
}

// reload re-reads the settings, the theme and the file after one of them
// changed. Errors are shown on the status line and keep the current view.
func (s *session) reload(r *renderer.Renderer, path string) {
	status := r.StatusLine()
	if err := s.apply(); err != nil {
		status.SetMessage(err.Error(), statusline.MessageError)
		return
	}
	r.SetStyles(s.styles, s.theme.Name)

	// Standard input cannot be read twice
	if path == "" {
		status.SetMessage("theme reloaded", statusline.MessageInfo)
		return
	}
	doc, _, err := s.open(path, nil)
	if err != nil {
		status.SetMessage(err.Error(), statusline.MessageError)
		return
	}
	r.ReplaceSource(doc)
	status.SetLanguage(doc.Language())
	status.SetMessage("reloaded "+path, statusline.MessageInfo)
}
