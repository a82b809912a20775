package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/hilite/internal/config"
	"github.com/dshills/hilite/internal/document"
	"github.com/dshills/hilite/internal/lang"
	"github.com/dshills/hilite/internal/logging"
	"github.com/dshills/hilite/internal/renderer/highlight"
	"github.com/dshills/hilite/internal/theme"
)

// ErrUnknownLanguage is returned when --lang names no known language.
var ErrUnknownLanguage = errors.New("unknown language")

// options holds the persistent flags.
type options struct {
	configFile string
	theme      string
	language   string
	tabWidth   int
	noNumbers  bool
	markers    bool
	color      string
	logLevel   string
}

// overrides returns the flags the user set, as config paths.
func (o *options) overrides(cmd *cobra.Command) map[string]any {
	flags := cmd.Flags()
	out := make(map[string]any)
	if flags.Changed("theme") {
		out["highlight.theme"] = o.theme
	}
	if flags.Changed("tab-width") {
		out["display.tabWidth"] = int64(o.tabWidth)
	}
	if flags.Changed("no-numbers") {
		out["display.lineNumbers"] = !o.noNumbers
	}
	if flags.Changed("markers") {
		out["display.stateMarkers"] = o.markers
	}
	if flags.Changed("color") {
		out["display.color"] = o.color
	}
	if flags.Changed("log-level") {
		out["logging.level"] = o.logLevel
	}
	return out
}

// session is the state shared by the commands: settings, logger, language
// selector and theme.
type session struct {
	opts *options
	cfg  *config.Config
	log  *logging.Logger

	highlight config.HighlightConfig
	display   config.DisplayConfig

	selector *lang.Selector
	theme    theme.Theme
	styles   *highlight.StyleRegistry
}

// newSession loads the configuration. Log output goes to logOut.
func newSession(ctx context.Context, cmd *cobra.Command, opts *options, logOut io.Writer) (*session, error) {
	files := []string{config.DefaultUserConfigFile()}
	if opts.configFile != "" {
		files = append(files, opts.configFile)
	}
	cfg := config.New(config.WithFiles(files...), config.WithOverrides(opts.overrides(cmd)))
	if err := cfg.Load(ctx); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	log := logging.New(logging.Config{
		Level:  cfg.Logging().Level,
		Output: logOut,
		Prefix: "hilite",
	})

	s := &session{opts: opts, cfg: cfg, log: log}
	if err := s.apply(); err != nil {
		return nil, err
	}
	return s, nil
}

// apply reads the settings into the selector and theme. It is called again
// after the configuration was reloaded.
func (s *session) apply() error {
	hl := s.cfg.Highlight()
	display := s.cfg.Display()
	for path, err := range s.cfg.ConfigErrors() {
		s.log.Warn("config %s: %v", path, err)
	}

	t, err := theme.Resolve(hl.Theme)
	if err != nil {
		return err
	}

	reg := lang.NewRegistry()
	for ext, name := range hl.Extensions {
		if !reg.MapExtension(ext, name) {
			s.log.Warn("extension %s: unknown language %q", ext, name)
		}
	}

	s.highlight = hl
	s.display = display
	s.theme = t
	s.styles = t.Styles(s.log)
	s.selector = lang.NewSelector(reg,
		lang.WithChromaFallback(hl.ChromaFallback),
		lang.WithSelectorLogger(s.log),
		lang.WithHighlightOptions(
			highlight.WithMatchTimeout(hl.MatchTimeout),
			highlight.WithMaxEmbedDepth(hl.MaxEmbedDepth),
			highlight.WithLogger(s.log),
		),
	)
	return nil
}

// themeFile returns the path of the theme file, or "" for a built-in theme.
func (s *session) themeFile() string {
	if _, ok := theme.Builtin(s.highlight.Theme); ok {
		return ""
	}
	return s.highlight.Theme
}

// highlighter picks the highlighter for a file. --lang wins over the file
// name, which wins over the content. It returns nil for plain text.
func (s *session) highlighter(path, content string) (*highlight.Highlighter, error) {
	if s.opts.language != "" {
		h, ok := s.selector.Select(s.opts.language)
		if !ok {
			return nil, fmt.Errorf("%w: %q (see hilite langs)", ErrUnknownLanguage, s.opts.language)
		}
		return h, nil
	}
	if path != "" {
		if h, ok := s.selector.Select(filepath.Base(path)); ok {
			return h, nil
		}
	}
	if def, ok := s.selector.Detect(content); ok {
		return s.selector.Highlighter(def), nil
	}
	s.log.Debug("no language for %q, showing plain text", path)
	return nil, nil
}

// read returns the content of path, or of stdin when path is "" or "-".
func read(path string, stdin io.Reader) (string, error) {
	var data []byte
	var err error
	if path == "" || path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(string(data), "\n"), nil
}

// open reads and highlights a file. The highlighter is nil for plain text.
func (s *session) open(path string, stdin io.Reader) (*document.Document, *highlight.Highlighter, error) {
	if path == "-" {
		path = ""
	}
	text, err := read(path, stdin)
	if err != nil {
		return nil, nil, err
	}
	h, err := s.highlighter(path, text)
	if err != nil {
		return nil, nil, err
	}

	var doc *document.Document
	if h != nil {
		doc = document.New(h, document.WithLogger(s.log))
	} else {
		doc = document.New(nil, document.WithLogger(s.log))
	}
	doc.SetText(text)
	return doc, h, nil
}
