// Package render writes a finished SupplyReport as styled text, JSON, or
// CSV. It only reads the report; all polling decisions happened upstream.
package render

import (
	"fmt"
	"io"

	"github.com/inkstat/printer-snmp-poller/models"
)

// Format selects the output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat resolves a format by name.
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case FormatText, FormatJSON, FormatCSV:
		return Format(name), nil
	}
	return "", fmt.Errorf("unknown output format %q", name)
}

// Options control what the renderer shows.
type Options struct {
	Format Format
	Theme  Theme
	// Extra includes drums, fuser and reservoir in text output; toners are
	// always shown.
	Extra bool
	// Metrics includes the impression counters block.
	Metrics bool
}

// Report writes r to w in the selected format.
func Report(w io.Writer, r *models.SupplyReport, opts Options) error {
	switch opts.Format {
	case FormatJSON:
		return writeJSON(w, r)
	case FormatCSV:
		return writeCSV(w, r)
	default:
		return writeText(w, r, opts)
	}
}
