package render

import (
	"encoding/json"
	"io"

	"github.com/inkstat/printer-snmp-poller/models"
)

func writeJSON(w io.Writer, r *models.SupplyReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
