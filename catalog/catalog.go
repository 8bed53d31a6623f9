// Package catalog holds the data-driven OID schema that tells the poller
// which SNMP objects describe each printer model's consumables. Entries are
// fixed-shape: every slot key exists on every entry, and an empty OID string
// is the explicit statement that the model has no such slot. A key missing
// from the source JSON is a schema error, not an empty slot.
package catalog

// Slot names used across the report, normalizer and renderers.
const (
	SlotTonerBlack   = "toner.black"
	SlotTonerCyan    = "toner.cyan"
	SlotTonerMagenta = "toner.magenta"
	SlotTonerYellow  = "toner.yellow"
	SlotDrumBlack    = "drum.black"
	SlotDrumCyan     = "drum.cyan"
	SlotDrumMagenta  = "drum.magenta"
	SlotDrumYellow   = "drum.yellow"
	SlotFuser        = "fuser"
	SlotReservoir    = "reservoir"
)

// SlotNames lists every slot in stable render order.
var SlotNames = []string{
	SlotTonerBlack,
	SlotTonerCyan,
	SlotTonerMagenta,
	SlotTonerYellow,
	SlotDrumBlack,
	SlotDrumCyan,
	SlotDrumMagenta,
	SlotDrumYellow,
	SlotFuser,
	SlotReservoir,
}

// OidSlot names the pair of objects that describe one consumable channel.
// Either string may be empty, meaning the model does not expose it.
type OidSlot struct {
	Level    string `json:"level"`
	MaxLevel string `json:"max_level"`
}

// Empty reports whether the model exposes nothing for this slot.
func (s OidSlot) Empty() bool {
	return s.Level == "" && s.MaxLevel == ""
}

// ColorSet groups one OidSlot per CMYK channel.
type ColorSet struct {
	Black   OidSlot `json:"black"`
	Cyan    OidSlot `json:"cyan"`
	Magenta OidSlot `json:"magenta"`
	Yellow  OidSlot `json:"yellow"`
}

// MetricOids are the impression counter objects. Empty string means the
// counter is not exposed by the model.
type MetricOids struct {
	Total string `json:"total"`
	Mono  string `json:"mono"`
	Color string `json:"color"`
}

// Entry is the complete OID schema for one printer model.
type Entry struct {
	SerialOID string     `json:"serial_number"`
	Toner     ColorSet   `json:"toner"`
	Drum      ColorSet   `json:"drum"`
	Fuser     OidSlot    `json:"fuser"`
	Reservoir OidSlot    `json:"reservoir"`
	Metrics   MetricOids `json:"metrics"`
}

// Slot returns the OidSlot for a slot name. Unknown names return an empty
// slot, which normalizes to "unsupported".
func (e *Entry) Slot(name string) OidSlot {
	switch name {
	case SlotTonerBlack:
		return e.Toner.Black
	case SlotTonerCyan:
		return e.Toner.Cyan
	case SlotTonerMagenta:
		return e.Toner.Magenta
	case SlotTonerYellow:
		return e.Toner.Yellow
	case SlotDrumBlack:
		return e.Drum.Black
	case SlotDrumCyan:
		return e.Drum.Cyan
	case SlotDrumMagenta:
		return e.Drum.Magenta
	case SlotDrumYellow:
		return e.Drum.Yellow
	case SlotFuser:
		return e.Fuser
	case SlotReservoir:
		return e.Reservoir
	}
	return OidSlot{}
}

// Printer-MIB (RFC 3805) marker supplies columns, instance 1. These are the
// broadly standard paths used when a model has no catalog entry: row 1 is
// the black marker supply on nearly every laser printer, row 2 the drum.
const (
	prtMarkerSuppliesLevelRow1 = "1.3.6.1.2.1.43.11.1.1.9.1.1"
	prtMarkerSuppliesMaxRow1   = "1.3.6.1.2.1.43.11.1.1.8.1.1"
	prtMarkerSuppliesLevelRow2 = "1.3.6.1.2.1.43.11.1.1.9.1.2"
	prtMarkerSuppliesMaxRow2   = "1.3.6.1.2.1.43.11.1.1.8.1.2"
	prtGeneralSerialNumber     = "1.3.6.1.2.1.43.5.1.1.17.1"
	prtMarkerLifeCount         = "1.3.6.1.2.1.43.10.2.1.4.1.1"
)

// GenericProbe is the degraded-mode entry used for models absent from the
// catalog: best-effort black toner and black drum from the Printer-MIB
// defaults, everything else unsupported.
func GenericProbe() *Entry {
	return &Entry{
		SerialOID: prtGeneralSerialNumber,
		Toner: ColorSet{
			Black: OidSlot{Level: prtMarkerSuppliesLevelRow1, MaxLevel: prtMarkerSuppliesMaxRow1},
		},
		Drum: ColorSet{
			Black: OidSlot{Level: prtMarkerSuppliesLevelRow2, MaxLevel: prtMarkerSuppliesMaxRow2},
		},
		Metrics: MetricOids{Total: prtMarkerLifeCount},
	}
}

// Catalog maps printer model names, as reported by hrDeviceDescr, to their
// OID schema. It is loaded once and shared read-only across polls.
type Catalog struct {
	entries map[string]*Entry
}

// Lookup finds the entry for a model name. The second return is false when
// the model is not in the catalog and the caller should fall back to the
// generic probe.
func (c *Catalog) Lookup(model string) (*Entry, bool) {
	if c == nil {
		return nil, false
	}
	e, ok := c.entries[model]
	return e, ok
}

// Len returns the number of models in the catalog.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}
