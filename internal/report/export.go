package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var unsafeBaseChars = regexp.MustCompile(`[^A-Za-z0-9_\-]`)

// SafeBaseName reduces a caller-supplied base name (an output prefix or a
// server address) to the filename-safe character class, replacing every
// other rune with an underscore.
func SafeBaseName(name string) string {
	return unsafeBaseChars.ReplaceAllString(name, "_")
}

func MarkdownPath(base string) string {
	return "numa_diagnostics_" + SafeBaseName(base) + ".md"
}

func JSONPath(base string) string {
	return "numa_diagnostics_" + SafeBaseName(base) + ".json"
}

// ExportMarkdown writes the log one line per record. The write is atomic:
// either the destination holds the whole report or it is left untouched.
func (r *Recorder) ExportMarkdown(path string) error {
	var b strings.Builder
	for _, line := range r.lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if err := writeFileAtomic(path, []byte(b.String())); err != nil {
		return fmt.Errorf("export markdown report: %w", err)
	}
	r.logger.Debug("markdown report exported", "path", path, "lines", len(r.lines))
	return nil
}

// ExportJSON writes {"report": [line, ...]} preserving order and exact
// text, atomically like ExportMarkdown.
func (r *Recorder) ExportJSON(path string) error {
	doc := struct {
		Report []string `json:"report"`
	}{Report: r.lines}
	if doc.Report == nil {
		doc.Report = []string{}
	}

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("export json report: %w", err)
	}
	if err := writeFileAtomic(path, raw); err != nil {
		return fmt.Errorf("export json report: %w", err)
	}
	r.logger.Debug("json report exported", "path", path, "lines", len(r.lines))
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".report-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
