package render

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/inkstat/printer-snmp-poller/catalog"
	"github.com/inkstat/printer-snmp-poller/models"
)

// writeCSV flattens the report into one row per slot, plus one row per
// known impression counter. Unknown and unsupported slots keep their state
// in the state column with an empty percent, so 0% stays unambiguous.
func writeCSV(w io.Writer, r *models.SupplyReport) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"target", "model", "slot", "state", "percent", "level", "max_level"}); err != nil {
		return err
	}

	for _, name := range catalog.SlotNames {
		slot, ok := r.Slots[name]
		if !ok {
			continue
		}
		row := []string{r.Target, r.Model, name, string(slot.State), "", "", ""}
		if slot.State == models.SlotOK {
			row[4] = strconv.FormatInt(slot.Percent, 10)
			row[5] = strconv.FormatInt(slot.Level, 10)
			row[6] = strconv.FormatInt(slot.Max, 10)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	if r.Metrics != nil {
		counters := []struct {
			name string
			v    *int64
		}{
			{"impressions.total", r.Metrics.TotalImpressions},
			{"impressions.mono", r.Metrics.MonoImpressions},
			{"impressions.color", r.Metrics.ColorImpressions},
		}
		for _, c := range counters {
			if c.v == nil {
				continue
			}
			if err := cw.Write([]string{r.Target, r.Model, c.name, "ok", strconv.FormatInt(*c.v, 10), "", ""}); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
