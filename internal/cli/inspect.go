package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dshills/hilite/internal/document"
	"github.com/dshills/hilite/internal/renderer/highlight"
)

func newInspectCommand(opts *options) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Show the spans and lexer state of every line",
		Long: `Print the token spans of each line and the lexer state it ends in.
States are named after the construct that is still open at the end of
the line, or "normal".

Examples:
  hilite inspect script.sh
  hilite inspect --json page.html | jq '.lines[] | select(.state != "normal")'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd.Context(), cmd, opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			doc, h, err := s.open(path, cmd.InOrStdin())
			if err != nil {
				return err
			}
			names := stateNames(h)
			if asJSON {
				return writeInspectJSON(cmd.OutOrStdout(), doc, names)
			}
			return writeInspect(cmd.OutOrStdout(), doc, names)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

// stateNames maps the states of h's constructs to their keys.
func stateNames(h *highlight.Highlighter) map[highlight.LexerState]string {
	names := map[highlight.LexerState]string{highlight.LexerStateNormal: "normal"}
	if h == nil {
		return names
	}
	for _, c := range h.Constructs() {
		names[c.State()] = c.Key()
	}
	return names
}

func stateName(names map[highlight.LexerState]string, s highlight.LexerState) string {
	if name, ok := names[s]; ok {
		return name
	}
	// Derived states of embedded languages
	return "state-" + strconv.FormatUint(uint64(s), 10)
}

// spanText returns the runes a span covers.
func spanText(line []rune, sp highlight.Span) string {
	start := min(sp.Start, len(line))
	end := min(sp.End(), len(line))
	return string(line[start:end])
}

func writeInspect(w io.Writer, doc *document.Document, names map[highlight.LexerState]string) error {
	lang := doc.Language()
	if lang == "" {
		lang = "plain text"
	}
	if _, err := fmt.Fprintf(w, "language: %s\n", lang); err != nil {
		return err
	}
	for i := 0; i < doc.LineCount(); i++ {
		text, _ := doc.Line(i)
		line := []rune(text)
		if _, err := fmt.Fprintf(w, "%d: %s\n", i+1, stateName(names, doc.State(i))); err != nil {
			return err
		}
		for _, sp := range doc.Spans(i) {
			if _, err := fmt.Fprintf(w, "  %d-%d %s %q\n", sp.Start, sp.End(), sp.Type, spanText(line, sp)); err != nil {
				return err
			}
		}
	}
	return nil
}

type inspectSpan struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Type  string `json:"type"`
	Text  string `json:"text"`
}

type inspectLine struct {
	Line  int           `json:"line"`
	State string        `json:"state"`
	Spans []inspectSpan `json:"spans"`
}

func writeInspectJSON(w io.Writer, doc *document.Document, names map[highlight.LexerState]string) error {
	out, err := sjson.Set(`{"lines":[]}`, "language", doc.Language())
	if err != nil {
		return err
	}
	for i := 0; i < doc.LineCount(); i++ {
		text, _ := doc.Line(i)
		line := []rune(text)
		il := inspectLine{Line: i + 1, State: stateName(names, doc.State(i)), Spans: []inspectSpan{}}
		for _, sp := range doc.Spans(i) {
			il.Spans = append(il.Spans, inspectSpan{
				Start: sp.Start,
				End:   sp.End(),
				Type:  sp.Type.String(),
				Text:  spanText(line, sp),
			})
		}
		if out, err = sjson.Set(out, "lines.-1", il); err != nil {
			return err
		}
	}
	_, err = w.Write(pretty.Pretty([]byte(out)))
	return err
}
