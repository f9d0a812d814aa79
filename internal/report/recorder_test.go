package report

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BMFCloud/InfraSnitch/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRender(t *testing.T) {
	assert.Equal(t, "✅ all good", Render(model.Judgment{Level: model.LevelOK, Message: "all good"}))
	assert.Equal(t, "⚠️ watch out", Render(model.Judgment{Level: model.LevelWarn, Message: "watch out"}))
	assert.Equal(t, "❌ broken", Render(model.Judgment{Level: model.LevelError, Message: "broken"}))
	assert.Equal(t, "🧠 Current maxDOP: 4", Render(model.Judgment{Level: model.LevelInfo, Message: "🧠 Current maxDOP: 4"}))
}

func TestEmitForwardsToConsoleAndLog(t *testing.T) {
	var console bytes.Buffer
	r := NewRecorder(&console, discardLogger())

	r.Emit(model.Judgment{Level: model.LevelOK, Message: "All schedulers are online."})
	r.Emit(model.Judgment{Level: model.LevelInfo, Message: "\n🖥️ Server CPU & Memory Specs:"})

	assert.Equal(t, "✅ All schedulers are online.\n\n🖥️ Server CPU & Memory Specs:\n", console.String())
	assert.Equal(t, []string{
		"✅ All schedulers are online.",
		"",
		"🖥️ Server CPU & Memory Specs:",
	}, r.Lines())
}

func TestEmitSplitsEmbeddedNewlines(t *testing.T) {
	r := NewRecorder(io.Discard, discardLogger())

	r.Emit(model.Judgment{Level: model.LevelInfo, Message: "first\nsecond\nthird"})

	assert.Equal(t, []string{"first", "second", "third"}, r.Lines())
}

func TestLinesReturnsCopy(t *testing.T) {
	r := NewRecorder(io.Discard, discardLogger())
	r.Emit(model.Judgment{Level: model.LevelOK, Message: "stable"})

	lines := r.Lines()
	lines[0] = "tampered"

	assert.Equal(t, []string{"✅ stable"}, r.Lines())
}

func TestSummarize(t *testing.T) {
	t.Run("counts levels independently of rendering", func(t *testing.T) {
		r := NewRecorder(io.Discard, discardLogger())
		r.Emit(model.Judgment{Level: model.LevelOK, Message: "pass one"})
		r.Emit(model.Judgment{Level: model.LevelOK, Message: "pass two"})
		r.Emit(model.Judgment{Level: model.LevelWarn, Message: "warn one"})
		r.Emit(model.Judgment{Level: model.LevelError, Message: "fail one"})
		r.Emit(model.Judgment{Level: model.LevelInfo, Message: "✅ Recommended maxDOP: 8"})

		s := r.Summarize()
		assert.Equal(t, 2, s.Successes)
		assert.Equal(t, 2, s.Issues)
		assert.Equal(t, []string{"⚠️ warn one", "❌ fail one"}, s.Highlights)
	})

	t.Run("caps highlights at five in emission order", func(t *testing.T) {
		r := NewRecorder(io.Discard, discardLogger())
		for _, msg := range []string{"w1", "w2", "w3", "w4", "w5", "w6", "w7"} {
			r.Emit(model.Judgment{Level: model.LevelWarn, Message: msg})
		}

		s := r.Summarize()
		assert.Equal(t, 7, s.Issues)
		require.Len(t, s.Highlights, 5)
		assert.Equal(t, "⚠️ w1", s.Highlights[0])
		assert.Equal(t, "⚠️ w5", s.Highlights[4])
	})

	t.Run("idempotent and non-mutating", func(t *testing.T) {
		r := NewRecorder(io.Discard, discardLogger())
		r.Emit(model.Judgment{Level: model.LevelOK, Message: "pass"})
		r.Emit(model.Judgment{Level: model.LevelWarn, Message: "warn"})

		before := r.Lines()
		first := r.Summarize()
		second := r.Summarize()

		assert.Equal(t, first, second)
		assert.Equal(t, before, r.Lines())
	})
}

func TestPrintSummary(t *testing.T) {
	t.Run("with issues", func(t *testing.T) {
		var console bytes.Buffer
		r := NewRecorder(&console, discardLogger())
		r.Emit(model.Judgment{Level: model.LevelOK, Message: "pass"})
		r.Emit(model.Judgment{Level: model.LevelWarn, Message: "something off"})
		console.Reset()

		r.PrintSummary()

		want := "\n📋 Summary:\n" +
			" - ✅ Successes: 1\n" +
			" - ⚠️ Warnings: 1\n" +
			" - Highlighted Issues:\n" +
			"   ⚠️ something off\n"
		assert.Equal(t, want, console.String())
	})

	t.Run("clean run omits highlights", func(t *testing.T) {
		var console bytes.Buffer
		r := NewRecorder(&console, discardLogger())
		r.Emit(model.Judgment{Level: model.LevelOK, Message: "pass"})
		console.Reset()

		r.PrintSummary()

		want := "\n📋 Summary:\n" +
			" - ✅ Successes: 1\n" +
			" - ⚠️ Warnings: 0\n"
		assert.Equal(t, want, console.String())
	})

	t.Run("summary stays out of the report log", func(t *testing.T) {
		r := NewRecorder(io.Discard, discardLogger())
		r.Emit(model.Judgment{Level: model.LevelOK, Message: "pass"})

		r.PrintSummary()

		assert.Equal(t, []string{"✅ pass"}, r.Lines())
	})
}
