package model

// Level classifies a diagnostic judgment. The level travels as data and is
// turned into a marker symbol only when a line is rendered for output, so
// summary counting never has to scrape markers back out of message text.
type Level string

const (
	LevelOK    Level = "ok"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
	LevelInfo  Level = "info"
)

// Judgment is one finding emitted by a diagnostic check.
type Judgment struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}
