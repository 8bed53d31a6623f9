// Package supply turns raw SNMP readings into the per-slot percentages of a
// supply report. It is pure data transformation: identical samples always
// produce identical output.
package supply

import (
	"math"

	"github.com/inkstat/printer-snmp-poller/catalog"
	"github.com/inkstat/printer-snmp-poller/models"
	"github.com/inkstat/printer-snmp-poller/snmp"
)

// SlotSample is the raw reading pair for one consumable channel.
type SlotSample struct {
	Level snmp.RawValue
	Max   snmp.RawValue
}

// Samples is everything one successful poll attempt produced, keyed the
// same way the catalog names slots.
type Samples struct {
	Slots  map[string]SlotSample
	Total  snmp.RawValue
	Mono   snmp.RawValue
	Color  snmp.RawValue
	Serial snmp.RawValue
}

// NewSamples returns an empty sample set with every slot marked absent.
func NewSamples() Samples {
	slots := make(map[string]SlotSample, len(catalog.SlotNames))
	for _, name := range catalog.SlotNames {
		slots[name] = SlotSample{}
	}
	return Samples{Slots: slots}
}

// Normalize resolves each slot against the catalog entry.
//
// A slot whose catalog OIDs are both empty, or whose reads both came back
// absent, is unsupported: the model has no such consumable. A slot with a
// level but no usable maximum is unknown: present, but no ratio can be
// computed. Printer-MIB level sentinels (-1 other, -2 unknown, -3 "some
// remaining") also normalize to unknown.
func Normalize(samples Samples, entry *catalog.Entry) (map[string]models.SlotLevel, *models.Metrics) {
	slots := make(map[string]models.SlotLevel, len(catalog.SlotNames))
	for _, name := range catalog.SlotNames {
		slots[name] = normalizeSlot(samples.Slots[name], entry.Slot(name))
	}
	return slots, normalizeMetrics(samples, entry.Metrics)
}

func normalizeSlot(sample SlotSample, oids catalog.OidSlot) models.SlotLevel {
	if oids.Empty() {
		return models.SlotLevel{State: models.SlotUnsupported}
	}
	if sample.Level.Absent() && sample.Max.Absent() {
		return models.SlotLevel{State: models.SlotUnsupported}
	}
	if sample.Level.Absent() || sample.Level.Int < 0 {
		return models.SlotLevel{State: models.SlotUnknown}
	}
	if sample.Max.Absent() || sample.Max.Int <= 0 {
		return models.SlotLevel{State: models.SlotUnknown, Level: sample.Level.Int}
	}

	return models.SlotLevel{
		State:   models.SlotOK,
		Percent: percent(sample.Level.Int, sample.Max.Int),
		Level:   sample.Level.Int,
		Max:     sample.Max.Int,
	}
}

// percent computes round(100 * level / max) clamped to [0, 100].
func percent(level, max int64) int64 {
	p := int64(math.Round(float64(level) / float64(max) * 100))
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

func normalizeMetrics(samples Samples, oids catalog.MetricOids) *models.Metrics {
	if oids.Total == "" && oids.Mono == "" && oids.Color == "" {
		return nil
	}

	m := &models.Metrics{}
	if !samples.Mono.Absent() {
		m.MonoImpressions = intPtr(samples.Mono.Int)
	}
	if !samples.Color.Absent() {
		m.ColorImpressions = intPtr(samples.Color.Int)
	}
	switch {
	case !samples.Total.Absent():
		m.TotalImpressions = intPtr(samples.Total.Int)
	case m.MonoImpressions != nil && m.ColorImpressions != nil:
		m.TotalImpressions = intPtr(*m.MonoImpressions + *m.ColorImpressions)
	}

	if m.TotalImpressions == nil && m.MonoImpressions == nil && m.ColorImpressions == nil {
		return nil
	}
	return m
}

func intPtr(v int64) *int64 { return &v }
