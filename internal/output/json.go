// internal/output/json.go
package output

import (
	"io"

	"seqqc/internal/jsonutil"
	"seqqc/internal/writers"
	"seqqc/pkg/api"
)

func init() {
	writers.RegisterReport("json", func(w io.Writer, rep *api.CombinedReportV1, _ bool) error {
		return WriteJSON(w, rep)
	})
}

// WriteJSON writes the v1 report as pretty-indented JSON.
func WriteJSON(w io.Writer, rep *api.CombinedReportV1) error {
	return jsonutil.EncodePretty(w, rep)
}
