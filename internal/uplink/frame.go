package uplink

import (
	"time"

	"github.com/BMFCloud/InfraSnitch/internal/report"
)

// ReportFrame is the JSON payload streamed to the report service. The
// report lines are carried verbatim so the backend can reconstruct the
// exact console output.
type ReportFrame struct {
	Host            string   `json:"host"`
	ToolVersion     string   `json:"tool_version"`
	GeneratedAtUnix int64    `json:"generated_at_unix"`
	Successes       int      `json:"successes"`
	Issues          int      `json:"issues"`
	Report          []string `json:"report"`
}

func NewReportFrame(host, version string, summary report.Summary, lines []string) ReportFrame {
	return ReportFrame{
		Host:            host,
		ToolVersion:     version,
		GeneratedAtUnix: time.Now().UTC().Unix(),
		Successes:       summary.Successes,
		Issues:          summary.Issues,
		Report:          append([]string(nil), lines...),
	}
}
