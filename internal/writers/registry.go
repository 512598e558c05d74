// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"
	"sort"

	"seqqc/pkg/api"
)

// ReportWriter serializes one combined report. header toggles the leading
// banner for line-oriented formats; JSON ignores it.
type ReportWriter func(w io.Writer, rep *api.CombinedReportV1, header bool) error

// reportWriters maps format name → handler. Formats register from init()
// blocks in internal/output (idempotent, last wins).
var reportWriters = map[string]ReportWriter{}

// RegisterReport adds or replaces a report format.
func RegisterReport(format string, fn ReportWriter) { reportWriters[format] = fn }

// WriteReport dispatches to the registered handler for format.
func WriteReport(format string, w io.Writer, rep *api.CombinedReportV1, header bool) error {
	fn, ok := reportWriters[format]
	if !ok {
		return fmt.Errorf("unknown report format %q (no writer registered)", format)
	}
	return fn(w, rep, header)
}

// Formats lists registered format names, sorted for stable usage text.
func Formats() []string {
	out := make([]string, 0, len(reportWriters))
	for k := range reportWriters {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
