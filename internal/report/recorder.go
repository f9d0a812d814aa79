package report

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/BMFCloud/InfraSnitch/internal/model"
)

const maxHighlights = 5

// Recorder owns the ordered report log for one diagnostic run. Emitted
// judgments are rendered, appended and forwarded to the console writer;
// the log is append-only and is never reordered or mutated by exports.
// A Recorder belongs to exactly one run and is not safe for concurrent
// emission.
type Recorder struct {
	console   io.Writer
	logger    *slog.Logger
	lines     []string
	judgments []model.Judgment
}

// Summary is the outcome of one pass over the recorded judgments.
type Summary struct {
	Successes  int      `json:"successes"`
	Issues     int      `json:"issues"`
	Highlights []string `json:"highlights,omitempty"`
}

func NewRecorder(console io.Writer, logger *slog.Logger) *Recorder {
	return &Recorder{console: console, logger: logger}
}

// Render prefixes the marker for the judgment level. Info messages pass
// through verbatim; any glyphs they carry are message content.
func Render(j model.Judgment) string {
	switch j.Level {
	case model.LevelOK:
		return "✅ " + j.Message
	case model.LevelWarn:
		return "⚠️ " + j.Message
	case model.LevelError:
		return "❌ " + j.Message
	default:
		return j.Message
	}
}

// Emit renders the judgment, prints it to the console and appends its
// physical lines to the log. Messages may embed newlines; the log stores
// the split lines so exports mirror the console byte for byte.
func (r *Recorder) Emit(j model.Judgment) {
	rendered := Render(j)
	fmt.Fprintln(r.console, rendered)
	r.lines = append(r.lines, strings.Split(rendered, "\n")...)
	r.judgments = append(r.judgments, j)
}

// Lines returns a copy of the recorded log.
func (r *Recorder) Lines() []string {
	return append([]string(nil), r.lines...)
}

// Summarize scans the judgments once: ok levels count as successes, warn
// and error levels count as issues, and the first maxHighlights issue
// lines in emission order become the highlighted issues. It never mutates
// the log and is safe to call repeatedly.
func (r *Recorder) Summarize() Summary {
	s := Summary{}
	for _, j := range r.judgments {
		switch j.Level {
		case model.LevelOK:
			s.Successes++
		case model.LevelWarn, model.LevelError:
			s.Issues++
			if len(s.Highlights) < maxHighlights {
				s.Highlights = append(s.Highlights, Render(j))
			}
		}
	}
	return s
}

// PrintSummary writes the summary block to the console. The block is
// console-only and never becomes part of the exported report.
func (r *Recorder) PrintSummary() {
	s := r.Summarize()
	fmt.Fprintln(r.console, "\n📋 Summary:")
	fmt.Fprintf(r.console, " - ✅ Successes: %d\n", s.Successes)
	fmt.Fprintf(r.console, " - ⚠️ Warnings: %d\n", s.Issues)
	if len(s.Highlights) > 0 {
		fmt.Fprintln(r.console, " - Highlighted Issues:")
		for _, line := range s.Highlights {
			fmt.Fprintf(r.console, "   %s\n", line)
		}
	}
}
