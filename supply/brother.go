package supply

import (
	"encoding/binary"
	"strings"

	"github.com/inkstat/printer-snmp-poller/catalog"
)

// Brother printers publish supply percentages inside an opaque maintenance
// blob instead of the standard marker supplies table. The blob is a TLV-ish
// byte stream: each reading is [code 0x01 0x04] followed by a big-endian
// uint32 holding the percentage scaled by 100.

// BrotherMaintenanceOID returns the object holding the maintenance blob for
// the given model. Early models expose it only under the legacy next-care
// object.
func BrotherMaintenanceOID(model string) string {
	if strings.Contains(model, "HL-5350DN") {
		return "1.3.6.1.4.1.2435.2.3.9.4.2.1.5.5.11.0"
	}
	return "1.3.6.1.4.1.2435.2.3.9.4.2.1.5.5.8.0"
}

// IsBrother reports whether the model name belongs to the Brother driver.
func IsBrother(model string) bool {
	return strings.Contains(strings.ToLower(model), "brother")
}

var brotherCodes = map[string]byte{
	catalog.SlotTonerBlack:   0x6f,
	catalog.SlotTonerCyan:    0x70,
	catalog.SlotTonerMagenta: 0x71,
	catalog.SlotTonerYellow:  0x72,
	catalog.SlotDrumBlack:    0x41,
	catalog.SlotDrumCyan:     0x79,
	catalog.SlotDrumMagenta:  0x7a,
	catalog.SlotDrumYellow:   0x7b,
	catalog.SlotFuser:        0x6a,
}

// ParseBrotherMaintenance scans the blob and returns slot name → percentage
// for every supply code present. Codes absent from the blob are simply
// missing from the map; the caller reports those slots as unsupported.
func ParseBrotherMaintenance(blob []byte) map[string]int64 {
	levels := make(map[string]int64)
	for slot, code := range brotherCodes {
		if v, ok := findBrotherValue(blob, code); ok {
			levels[slot] = v
		}
	}
	return levels
}

func findBrotherValue(blob []byte, code byte) (int64, bool) {
	pattern := []byte{code, 0x01, 0x04}
	for i := 0; i+len(pattern)+4 <= len(blob); i++ {
		if blob[i] == pattern[0] && blob[i+1] == pattern[1] && blob[i+2] == pattern[2] {
			raw := binary.BigEndian.Uint32(blob[i+3 : i+7])
			return int64(raw / 100), true
		}
	}
	return 0, false
}
